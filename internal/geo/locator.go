// Package geo provides geolocation sources for the dashboard. A nil Locator
// means the capability is absent.
package geo

import (
	"context"
	"errors"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrDenied is returned when the source refuses or cannot produce a position.
	ErrDenied = errors.New("location access denied")
	// ErrTimeout is returned when the source does not answer in time.
	ErrTimeout = errors.New("location request timed out")
)

// Locator is a fire-once source of the device position.
type Locator interface {
	Locate(ctx context.Context) (weather.Coordinates, error)
}

// StaticLocator always reports the same coordinates.
type StaticLocator struct {
	coords weather.Coordinates
}

// NewStaticLocator validates coords and returns a locator for them.
func NewStaticLocator(coords weather.Coordinates) (*StaticLocator, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	return &StaticLocator{coords: coords}, nil
}

func (s *StaticLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, ErrTimeout
	}
	return s.coords, nil
}
