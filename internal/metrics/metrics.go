package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for provider fetches and dashboard request
// cycles. A nil *Metrics is valid and records nothing.
type Metrics struct {
	fetches      *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	cycles       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "weather_dashboard",
				Name:      "provider_fetches_total",
				Help:      "Provider fetches by gateway, operation and outcome.",
			},
			[]string{"gateway", "op", "outcome"},
		),
		fetchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "weather_dashboard",
				Name:      "provider_fetch_duration_seconds",
				Help:      "Provider fetch latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"gateway", "op"},
		),
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "weather_dashboard",
				Name:      "request_cycles_total",
				Help:      "Dashboard request cycles by resolution.",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.fetches, m.fetchLatency, m.cycles)
	return m
}

// ObserveFetch records one gateway call.
func (m *Metrics) ObserveFetch(gateway, op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(gateway, op, outcome).Inc()
	m.fetchLatency.WithLabelValues(gateway, op).Observe(d.Seconds())
}

// ObserveCycle records how a request cycle resolved: ready, failed or discarded.
func (m *Metrics) ObserveCycle(outcome string) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(outcome).Inc()
}
