package dashboard

import (
	"errors"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// User-facing messages shown in ViewState.ErrorMessage.
const (
	MessageGeolocationUnsupported = "Geolocation is not supported on this device."
	MessageLocationFailed         = "Could not access your location."
	MessageInvalidCity            = "Please enter a valid city name."
	MessageCityNotFound           = "City not found."
	MessageProviderUnavailable    = "Could not reach the weather service. Please try again."
	MessageMalformedResponse      = "The weather service returned an unexpected response."
	MessageWeatherUnavailable     = "Could not get the current weather."
)

// MessageFor maps a failed request cycle to the text shown to the user.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, geo.ErrDenied), errors.Is(err, geo.ErrTimeout):
		return MessageLocationFailed
	case errors.Is(err, weather.ErrInvalidRequest):
		return MessageInvalidCity
	case errors.Is(err, weather.ErrNotFound):
		return MessageCityNotFound
	case errors.Is(err, weather.ErrMalformedResponse):
		return MessageMalformedResponse
	case errors.Is(err, weather.ErrTransport):
		return MessageProviderUnavailable
	default:
		return MessageWeatherUnavailable
	}
}
