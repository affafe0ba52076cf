package weather

import (
	"math"
	"math/rand"
)

// ForecastDays is the number of entries Derive produces.
const ForecastDays = 5

var (
	forecastLabels = [ForecastDays]string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	forecastIcons  = [ForecastDays]string{"01d", "02d", "03d", "10d", "10d"}
)

// Jitter bounds around the current temperature.
// max = t + U[-2,3), min = t - U[0,8).
const (
	maxJitterLow  = -2.0
	maxJitterSpan = 5.0
	minJitterSpan = 8.0
)

// RandomSource yields floats in [0,1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Forecaster produces the placeholder five-day outlook shown under the
// current reading. The values are synthetic jitter around the current
// temperature, not provider data, and two calls with the same reading
// intentionally return different outlooks.
type Forecaster struct {
	rnd RandomSource
}

// NewForecaster returns a Forecaster drawing from rnd. A nil rnd uses the
// process-wide generator.
func NewForecaster(rnd RandomSource) *Forecaster {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Forecaster{rnd: rnd}
}

// Derive builds a fresh outlook for r. Each day draws its max and min jitter
// independently; results are rounded to whole degrees Celsius.
func (f *Forecaster) Derive(r Reading) []ForecastDay {
	days := make([]ForecastDay, 0, ForecastDays)
	for i := 0; i < ForecastDays; i++ {
		maxT := r.TemperatureC + maxJitterLow + f.rnd.Float64()*maxJitterSpan
		minT := r.TemperatureC - f.rnd.Float64()*minJitterSpan
		days = append(days, ForecastDay{
			Label:           forecastLabels[i],
			IconCode:        forecastIcons[i],
			MaxTemperatureC: int(math.Round(maxT)),
			MinTemperatureC: int(math.Round(minT)),
		})
	}
	return days
}

// ForecastLabels returns the fixed day labels in output order.
func ForecastLabels() []string {
	labels := forecastLabels
	return labels[:]
}
