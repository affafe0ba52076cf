package weather

import "math"

const (
	celsiusToFahrenheitScale  = 9.0 / 5.0
	celsiusToFahrenheitOffset = 32.0
	msToKmh                   = 3.6
)

// DisplayTemperature converts a canonical Celsius value into the unit the
// view is showing. It never feeds back into stored data, so toggling units
// cannot accumulate drift.
func DisplayTemperature(tempC float64, celsius bool) float64 {
	if celsius {
		return tempC
	}
	return tempC*celsiusToFahrenheitScale + celsiusToFahrenheitOffset
}

// UnitSymbol returns the suffix matching DisplayTemperature.
func UnitSymbol(celsius bool) string {
	if celsius {
		return "°C"
	}
	return "°F"
}

// WindSpeedKmh converts m/s to whole km/h.
func WindSpeedKmh(ms float64) int {
	return int(math.Round(ms * msToKmh))
}
