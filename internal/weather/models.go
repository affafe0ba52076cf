package weather

import (
	"fmt"
	"math"
	"strings"
)

// Coordinates is a geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Validate reports whether the coordinates are finite and inside the
// geographic ranges lat [-90,90], lon [-180,180].
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", c.Longitude)
	}
	return nil
}

// Reading is a normalized snapshot of current conditions for one location.
// Temperature is always stored in Celsius; display units are applied at read time.
type Reading struct {
	LocationName string  `json:"locationName"`
	TemperatureC float64 `json:"temperatureC"`
	Description  string  `json:"description"`
	IconCode     string  `json:"iconCode"`
	WindSpeedMS  float64 `json:"windSpeedMs"`
	SunriseUnix  int64   `json:"sunrise"`
	SunsetUnix   int64   `json:"sunset"`
}

// FavoriteCity is a user-pinned city. Name is the case-insensitive identity;
// the temperature and description are a snapshot taken when it was pinned.
type FavoriteCity struct {
	Name         string `json:"name"`
	TemperatureC int    `json:"temperatureC"`
	Description  string `json:"description"`
}

// NewFavoriteCity snapshots r into a favorite.
func NewFavoriteCity(r Reading) FavoriteCity {
	return FavoriteCity{
		Name:         r.LocationName,
		TemperatureC: int(math.Round(r.TemperatureC)),
		Description:  r.Description,
	}
}

// Matches reports whether name identifies the same city, ignoring case.
func (f FavoriteCity) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(f.Name), strings.TrimSpace(name))
}

// ForecastDay is one entry of the synthetic five-day outlook.
type ForecastDay struct {
	Label           string `json:"day"`
	IconCode        string `json:"icon"`
	MaxTemperatureC int    `json:"maxTemperatureC"`
	MinTemperatureC int    `json:"minTemperatureC"`
}
