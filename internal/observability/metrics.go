package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "swiss_weather"

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds the Prometheus collectors for fetches, caches, and the
// today aggregation, registered on Registry rather than the global default.
type Metrics struct {
	Registry *prometheus.Registry

	// Remote fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: source={ten-minute,hourly,stations,places}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: source

	CacheLookups *prometheus.CounterVec // labels: dataset={stations,places}, result={hit,miss}

	// Aggregation metrics.
	Aggregations  *prometheus.CounterVec // labels: outcome={success,no_data,error}
	ReadingsToday *prometheus.GaugeVec   // labels: kind={ten-minute,hourly}
}

// NewMetrics creates all metrics and registers them with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Remote data fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Remote data fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Dataset cache lookups by dataset and result.",
		}, []string{"dataset", "result"}),
		Aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_total",
			Help:      "Today-weather aggregations by outcome.",
		}, []string{"outcome"}),
		ReadingsToday: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "readings_today",
			Help:      "Readings inside today's window in the last aggregation, by kind.",
		}, []string{"kind"}),
	}

	m.Registry.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.CacheLookups,
		m.Aggregations,
		m.ReadingsToday,
	)

	return m
}

// NewMetricsForTesting returns isolated metrics; every call gets its own
// registry, so tests can read values back without cross-talk.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// Push sends the current registry to a Prometheus Pushgateway under job.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(m.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
