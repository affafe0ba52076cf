package providers

import (
	"context"
	"time"

	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// InstrumentedGateway records fetch counts and latency for a weather.Gateway.
type InstrumentedGateway struct {
	gateway weather.Gateway
	metrics *metrics.Metrics
}

func NewInstrumentedGateway(gateway weather.Gateway, m *metrics.Metrics) *InstrumentedGateway {
	return &InstrumentedGateway{gateway: gateway, metrics: m}
}

func (g *InstrumentedGateway) Name() string {
	return g.gateway.Name()
}

func (g *InstrumentedGateway) FetchByCityName(ctx context.Context, name string) (weather.Reading, error) {
	start := time.Now()
	r, err := g.gateway.FetchByCityName(ctx, name)
	g.metrics.ObserveFetch(g.Name(), "city", weather.Outcome(err), time.Since(start))
	return r, err
}

func (g *InstrumentedGateway) FetchByCoordinates(ctx context.Context, coords weather.Coordinates) (weather.Reading, error) {
	start := time.Now()
	r, err := g.gateway.FetchByCoordinates(ctx, coords)
	g.metrics.ObserveFetch(g.Name(), "coordinates", weather.Outcome(err), time.Since(start))
	return r, err
}

var (
	_ weather.Gateway = (*OpenWeatherGateway)(nil)
	_ weather.Gateway = (*InstrumentedGateway)(nil)
)
