package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// RateLimitedGateway wraps a weather.Gateway with a token bucket so a burst
// of user submissions cannot exceed the provider's quota. Waiting is bounded
// by the caller's context.
type RateLimitedGateway struct {
	gateway weather.Gateway
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedGateway allows rps requests per second (fractional values
// allowed) with the given burst.
func NewRateLimitedGateway(gateway weather.Gateway, rps float64, burst int) *RateLimitedGateway {
	return &RateLimitedGateway{
		gateway: gateway,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    gateway.Name(),
	}
}

func (r *RateLimitedGateway) Name() string {
	return r.name
}

func (r *RateLimitedGateway) FetchByCityName(ctx context.Context, name string) (weather.Reading, error) {
	if err := r.wait(ctx, opByCity); err != nil {
		return weather.Reading{}, err
	}
	return r.gateway.FetchByCityName(ctx, name)
}

func (r *RateLimitedGateway) FetchByCoordinates(ctx context.Context, coords weather.Coordinates) (weather.Reading, error) {
	if err := r.wait(ctx, opByCoords); err != nil {
		return weather.Reading{}, err
	}
	return r.gateway.FetchByCoordinates(ctx, coords)
}

func (r *RateLimitedGateway) wait(ctx context.Context, op string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return &weather.ProviderError{
			Op:   op,
			Kind: weather.ErrTransport,
			Err:  fmt.Errorf("rate limit wait canceled: %w", err),
		}
	}
	return nil
}

var _ weather.Gateway = (*RateLimitedGateway)(nil)
