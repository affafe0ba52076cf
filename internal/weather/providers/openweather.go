package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// DefaultOpenWeatherURL is the current-conditions endpoint.
	DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

	maxResponseBody = 1 << 20

	opByCity   = "fetch by city name"
	opByCoords = "fetch by coordinates"
)

var errEmptyCity = errors.New("city name is empty")

// OpenWeatherGateway implements weather.Gateway for OpenWeatherMap.
type OpenWeatherGateway struct {
	name    string
	apiKey  string
	baseURL string
	lang    string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// OpenWeatherOption customizes an OpenWeatherGateway.
type OpenWeatherOption func(*OpenWeatherGateway)

// WithBaseURL overrides the endpoint.
func WithBaseURL(u string) OpenWeatherOption {
	return func(p *OpenWeatherGateway) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithLanguage sets the provider locale used for condition descriptions.
func WithLanguage(lang string) OpenWeatherOption {
	return func(p *OpenWeatherGateway) {
		if lang != "" {
			p.lang = lang
		}
	}
}

func NewOpenWeatherGateway(client *http.Client, apiKey string, opts ...OpenWeatherOption) *OpenWeatherGateway {
	p := &OpenWeatherGateway{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: DefaultOpenWeatherURL,
		lang:    "en",
		client:  client,
		circuit: newBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherGateway) Name() string {
	return p.name
}

// FetchByCityName fetches current conditions for a city. Blank names fail
// with weather.ErrInvalidRequest before any network call.
func (p *OpenWeatherGateway) FetchByCityName(ctx context.Context, name string) (weather.Reading, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return weather.Reading{}, &weather.ProviderError{Op: opByCity, Kind: weather.ErrInvalidRequest, Err: errEmptyCity}
	}

	values := url.Values{}
	values.Set("q", name)
	return p.fetch(ctx, opByCity, values)
}

// FetchByCoordinates fetches current conditions at coords. Out-of-range or
// non-finite coordinates fail with weather.ErrInvalidRequest before any
// network call.
func (p *OpenWeatherGateway) FetchByCoordinates(ctx context.Context, coords weather.Coordinates) (weather.Reading, error) {
	if err := coords.Validate(); err != nil {
		return weather.Reading{}, &weather.ProviderError{Op: opByCoords, Kind: weather.ErrInvalidRequest, Err: err}
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	return p.fetch(ctx, opByCoords, values)
}

func (p *OpenWeatherGateway) fetch(ctx context.Context, op string, values url.Values) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, &weather.ProviderError{Op: op, Kind: weather.ErrTransport, Err: errMissingAPIKey}
	}

	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lang", p.lang)

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, classify(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return weather.Reading{}, &weather.ProviderError{Op: op, Kind: weather.ErrTransport, Err: err}
	}

	reading, err := decodeOpenWeather(body)
	if err != nil {
		return weather.Reading{}, &weather.ProviderError{Op: op, Kind: weather.ErrMalformedResponse, Err: err}
	}
	return reading, nil
}

// openWeatherPayload mirrors the fields we need. Pointers distinguish a
// missing field from a zero value.
type openWeatherPayload struct {
	Name *string `json:"name"`
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
}

// decodeOpenWeather converts a payload into a Reading, rejecting partial data.
func decodeOpenWeather(body []byte) (weather.Reading, error) {
	var payload openWeatherPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Reading{}, fmt.Errorf("decode payload: %w", err)
	}

	switch {
	case payload.Name == nil || strings.TrimSpace(*payload.Name) == "":
		return weather.Reading{}, errors.New("missing location name")
	case payload.Main == nil || payload.Main.Temp == nil:
		return weather.Reading{}, errors.New("missing main.temp")
	case len(payload.Weather) == 0:
		return weather.Reading{}, errors.New("missing weather conditions")
	case payload.Weather[0].Description == nil || payload.Weather[0].Icon == nil:
		return weather.Reading{}, errors.New("missing weather description or icon")
	case payload.Wind == nil || payload.Wind.Speed == nil:
		return weather.Reading{}, errors.New("missing wind.speed")
	case payload.Sys == nil || payload.Sys.Sunrise == nil || payload.Sys.Sunset == nil:
		return weather.Reading{}, errors.New("missing sys.sunrise or sys.sunset")
	}

	return weather.Reading{
		LocationName: *payload.Name,
		TemperatureC: *payload.Main.Temp,
		Description:  *payload.Weather[0].Description,
		IconCode:     *payload.Weather[0].Icon,
		WindSpeedMS:  *payload.Wind.Speed,
		SunriseUnix:  *payload.Sys.Sunrise,
		SunsetUnix:   *payload.Sys.Sunset,
	}, nil
}
