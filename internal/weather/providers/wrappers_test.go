package providers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestRateLimitedGateway_ForwardsCalls(t *testing.T) {
	gw, mt := newTestGateway(t, "test-api-key")
	mt.RegisterResponder(http.MethodGet, testEndpoint, httpmock.NewStringResponder(http.StatusOK, openWeatherSuccessResponse()))

	limited := NewRateLimitedGateway(gw, 100, 2)
	assert.Equal(t, "openweathermap", limited.Name())

	r, err := limited.FetchByCityName(context.Background(), "Madrid")
	require.NoError(t, err)
	assert.Equal(t, "Madrid", r.LocationName)

	r, err = limited.FetchByCoordinates(context.Background(), weather.Coordinates{Latitude: 40.4, Longitude: -3.7})
	require.NoError(t, err)
	assert.Equal(t, "Madrid", r.LocationName)
	assert.Equal(t, 2, mt.GetTotalCallCount())
}

func TestRateLimitedGateway_WaitBoundedByContext(t *testing.T) {
	gw, mt := newTestGateway(t, "test-api-key")
	mt.RegisterResponder(http.MethodGet, testEndpoint, httpmock.NewStringResponder(http.StatusOK, openWeatherSuccessResponse()))

	// One token, refilled once a minute.
	limited := NewRateLimitedGateway(gw, 1.0/60, 1)

	_, err := limited.FetchByCityName(context.Background(), "Madrid")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = limited.FetchByCityName(ctx, "Madrid")
	assert.ErrorIs(t, err, weather.ErrTransport)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestInstrumentedGateway_RecordsOutcomes(t *testing.T) {
	gw, mt := newTestGateway(t, "test-api-key")
	mt.RegisterResponder(http.MethodGet, testEndpoint, httpmock.NewStringResponder(http.StatusOK, openWeatherSuccessResponse()))

	reg := prometheus.NewRegistry()
	instrumented := NewInstrumentedGateway(gw, metrics.New(reg))

	_, err := instrumented.FetchByCityName(context.Background(), "Madrid")
	require.NoError(t, err)
	_, err = instrumented.FetchByCityName(context.Background(), "")
	require.Error(t, err)

	expected := `
# HELP weather_dashboard_provider_fetches_total Provider fetches by gateway, operation and outcome.
# TYPE weather_dashboard_provider_fetches_total counter
weather_dashboard_provider_fetches_total{gateway="openweathermap",op="city",outcome="invalid_request"} 1
weather_dashboard_provider_fetches_total{gateway="openweathermap",op="city",outcome="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "weather_dashboard_provider_fetches_total"))
}
