package httpapi

import (
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// viewResponse is the rendered dashboard. Temperatures are in the unit the
// dashboard is currently showing; the stored values stay in Celsius.
type viewResponse struct {
	Phase        dashboard.Phase `json:"phase"`
	IsLoading    bool            `json:"isLoading"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	IsCelsius    bool            `json:"isCelsius"`
	Unit         string          `json:"unit"`
	Current      *currentView    `json:"current"`
	Forecast     []forecastView  `json:"forecast"`
	Favorites    []favoriteView  `json:"favorites"`
}

type currentView struct {
	LocationName string  `json:"locationName"`
	Temperature  float64 `json:"temperature"`
	Description  string  `json:"description"`
	IconCode     string  `json:"iconCode"`
	WindSpeedKmh int     `json:"windSpeedKmh"`
	Sunrise      int64   `json:"sunrise"`
	Sunset       int64   `json:"sunset"`
}

type forecastView struct {
	Day  string  `json:"day"`
	Icon string  `json:"icon"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

type favoriteView struct {
	Name        string  `json:"name"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
}

func newView(s dashboard.ViewState) viewResponse {
	v := viewResponse{
		Phase:        s.Phase,
		IsLoading:    s.IsLoading,
		ErrorMessage: s.ErrorMessage,
		IsCelsius:    s.IsCelsius,
		Unit:         s.Unit(),
		Forecast:     make([]forecastView, 0, len(s.Forecast)),
		Favorites:    make([]favoriteView, 0, len(s.Favorites)),
	}

	if r := s.Current; r != nil {
		v.Current = &currentView{
			LocationName: r.LocationName,
			Temperature:  s.DisplayTemperature(r.TemperatureC),
			Description:  r.Description,
			IconCode:     r.IconCode,
			WindSpeedKmh: weather.WindSpeedKmh(r.WindSpeedMS),
			Sunrise:      r.SunriseUnix,
			Sunset:       r.SunsetUnix,
		}
	}

	for _, d := range s.Forecast {
		v.Forecast = append(v.Forecast, forecastView{
			Day:  d.Label,
			Icon: d.IconCode,
			Max:  s.DisplayTemperature(float64(d.MaxTemperatureC)),
			Min:  s.DisplayTemperature(float64(d.MinTemperatureC)),
		})
	}

	for _, f := range s.Favorites {
		v.Favorites = append(v.Favorites, newFavoriteView(f, s.IsCelsius))
	}
	return v
}

func newFavoriteView(f weather.FavoriteCity, celsius bool) favoriteView {
	return favoriteView{
		Name:        f.Name,
		Temperature: weather.DisplayTemperature(float64(f.TemperatureC), celsius),
		Description: f.Description,
	}
}
