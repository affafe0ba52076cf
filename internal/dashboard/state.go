package dashboard

import "github.com/i474232898/weather-dashboard/internal/weather"

// Phase is the controller's position in the current request cycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// ViewState is everything a rendering layer needs. The controller is its
// only writer; values returned by Controller.State are private copies.
type ViewState struct {
	Phase        Phase                  `json:"phase"`
	Current      *weather.Reading       `json:"current"`
	Forecast     []weather.ForecastDay  `json:"forecast"`
	IsLoading    bool                   `json:"isLoading"`
	ErrorMessage string                 `json:"errorMessage"`
	IsCelsius    bool                   `json:"isCelsius"`
	Favorites    []weather.FavoriteCity `json:"favorites"`
}

func newViewState() ViewState {
	return ViewState{
		Phase:     PhaseIdle,
		IsCelsius: true,
	}
}

// clone returns a deep copy.
func (s ViewState) clone() ViewState {
	out := s
	if s.Current != nil {
		r := *s.Current
		out.Current = &r
	}
	out.Forecast = append([]weather.ForecastDay(nil), s.Forecast...)
	out.Favorites = append([]weather.FavoriteCity(nil), s.Favorites...)
	return out
}

// DisplayTemperature converts a Celsius value into the unit s is showing.
func (s ViewState) DisplayTemperature(tempC float64) float64 {
	return weather.DisplayTemperature(tempC, s.IsCelsius)
}

// Unit returns the symbol for the unit s is showing.
func (s ViewState) Unit() string {
	return weather.UnitSymbol(s.IsCelsius)
}

// Favorite returns the favorite matching name, ignoring case.
func (s ViewState) Favorite(name string) (weather.FavoriteCity, bool) {
	for _, f := range s.Favorites {
		if f.Matches(name) {
			return f, true
		}
	}
	return weather.FavoriteCity{}, false
}
