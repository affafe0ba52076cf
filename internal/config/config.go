package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

// GeoMode selects where the dashboard gets its device position from.
type GeoMode string

const (
	// GeoModeNone means the capability is absent.
	GeoModeNone    GeoMode = "none"
	GeoModeStatic  GeoMode = "static"
	GeoModeAddress GeoMode = "address"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	Language           string

	// HTTPTimeout is the outbound client timeout; FetchTimeout bounds a whole
	// request cycle (0 = none).
	HTTPTimeout  time.Duration
	FetchTimeout time.Duration

	// Outbound rate limit.
	ProviderRPS   float64
	ProviderBurst int

	// RefreshInterval re-fetches the current location periodically (0 = off).
	RefreshInterval time.Duration

	// In-session history retention.
	HistoryMax    int           // max number of readings per location (0 = unlimited)
	HistoryMaxAge time.Duration // max age of readings (0 = unlimited)

	Geo GeoConfig

	LogLevel  logrus.Level
	LogFormat string

	Port string
}

type GeoConfig struct {
	Mode GeoMode

	// static
	Coordinates weather.Coordinates

	// address
	City           string
	State          string
	Country        string
	GeocoderAPIKey string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherURL)
	cfg.Language = getenvDefault("WEATHER_LANG", "en")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	if cfg.ProviderRPS, err = getenvFloat("PROVIDER_RPS", 1); err != nil {
		return nil, err
	}
	if cfg.ProviderRPS <= 0 {
		return nil, fmt.Errorf("invalid PROVIDER_RPS: must be positive")
	}
	if cfg.ProviderBurst, err = getenvInt("PROVIDER_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.ProviderBurst < 1 {
		return nil, fmt.Errorf("invalid PROVIDER_BURST: must be at least 1")
	}

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}

	// Store retention.
	if cfg.HistoryMax, err = getenvInt("HISTORY_MAX", 96); err != nil { // roughly 24h at 15-minute refreshes
		return nil, err
	}
	if cfg.HistoryMaxAge, err = getenvDuration("HISTORY_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.Geo, err = loadGeo(); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = logrus.ParseLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadGeo() (GeoConfig, error) {
	g := GeoConfig{Mode: GeoMode(strings.ToLower(getenvDefault("GEO_MODE", string(GeoModeNone))))}

	switch g.Mode {
	case GeoModeNone:
	case GeoModeStatic:
		lat, err := getenvFloat("GEO_LAT", math.NaN())
		if err != nil {
			return g, err
		}
		lon, err := getenvFloat("GEO_LON", math.NaN())
		if err != nil {
			return g, err
		}
		g.Coordinates = weather.Coordinates{Latitude: lat, Longitude: lon}
		if err := g.Coordinates.Validate(); err != nil {
			return g, fmt.Errorf("GEO_MODE=static needs GEO_LAT and GEO_LON: %w", err)
		}
	case GeoModeAddress:
		g.City = os.Getenv("GEO_CITY")
		g.State = os.Getenv("GEO_STATE")
		g.Country = os.Getenv("GEO_COUNTRY")
		g.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
		if g.City == "" || g.GeocoderAPIKey == "" {
			return g, fmt.Errorf("GEO_MODE=address needs GEO_CITY and GEOCODER_API_KEY")
		}
	default:
		return g, fmt.Errorf("invalid GEO_MODE %q: want none, static or address", g.Mode)
	}
	return g, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
