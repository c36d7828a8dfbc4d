package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Index engine Prometheus metrics.
var (
	IndexRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "index_requests_total",
			Help:      "Total number of requests sent to the index engine",
		},
		[]string{"core", "op", "status"},
	)

	IndexRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "discovery",
			Name:      "index_request_duration_seconds",
			Help:      "Index engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"core", "op"},
	)

	IndexCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "index_cache_total",
			Help:      "Index response cache hits and misses",
		},
		[]string{"core", "result"}, // "hit" / "miss"
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "recommendations_total",
			Help:      "Recommendation module runs by outcome",
		},
		[]string{"module", "outcome"}, // "found" / "empty" / "skipped" / "error"
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers Prometheus index metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexRequestsTotal)
	prometheus.MustRegister(IndexRequestDuration)
	prometheus.MustRegister(IndexCacheTotal)
	prometheus.MustRegister(RecommendationsTotal)
	indexMetricsRegistered = true
}

// RegisterIndexMetricsOn registers the index metrics on reg.
// Collectors already registered on reg are not an error.
func RegisterIndexMetricsOn(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		IndexRequestsTotal, IndexRequestDuration, IndexCacheTotal, RecommendationsTotal,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("register index metrics: %w", err)
		}
	}
	return nil
}
