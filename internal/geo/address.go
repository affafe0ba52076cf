package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// geocodeFunc matches geocoder.Geocoding.
type geocodeFunc func(geocoder.Address) (geocoder.Location, error)

// AddressLocator resolves a configured postal address to coordinates with
// the Google Geocoding API.
type AddressLocator struct {
	address geocoder.Address
	geocode geocodeFunc
}

// NewAddressLocator returns a locator for the given address parts. The
// geocoder package keeps its key in a package variable, so the key is set
// process-wide.
func NewAddressLocator(apiKey, city, state, country string) (*AddressLocator, error) {
	if strings.TrimSpace(city) == "" {
		return nil, errors.New("address locator requires a city")
	}
	if apiKey == "" {
		return nil, errors.New("address locator requires a geocoder api key")
	}
	geocoder.ApiKey = apiKey

	return &AddressLocator{
		address: geocoder.Address{
			City:    city,
			State:   state,
			Country: country,
		},
		geocode: geocoder.Geocoding,
	}, nil
}

// Locate geocodes the address. The geocoder client has no context support,
// so the lookup runs in its own goroutine and ctx only bounds the wait.
func (a *AddressLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := a.geocode(a.address)
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrDenied, res.err)
		}
		coords := weather.Coordinates{Latitude: res.loc.Latitude, Longitude: res.loc.Longitude}
		if err := coords.Validate(); err != nil {
			return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrDenied, err)
		}
		return coords, nil
	}
}
