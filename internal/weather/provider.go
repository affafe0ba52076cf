package weather

import (
	"context"
)

// Gateway adapts a city name or a coordinate pair into a request against an
// external weather provider. Implementations are stateless between calls and
// perform no retries; a failed call is returned as a *ProviderError.
type Gateway interface {
	Name() string
	FetchByCityName(ctx context.Context, name string) (Reading, error)
	FetchByCoordinates(ctx context.Context, coords Coordinates) (Reading, error)
}

// History receives every reading the dashboard accepts.
type History interface {
	Record(r Reading)
}
