package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentdash",
			Name:      "http_requests_total",
			Help:      "Dashboard API requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentdash",
			Name:      "upstream_requests_total",
			Help:      "Rental API requests by resource and outcome.",
		},
		[]string{"resource", "outcome"},
	)

	cacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentdash",
			Name:      "query_cache_events_total",
			Help:      "Query cache hits, misses, dedup joins and invalidations.",
		},
		[]string{"event"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, upstreamRequests, cacheEvents)
	})
}

// IncHTTP increments the dashboard request counter.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

// IncUpstream increments the rental API request counter.
func IncUpstream(resource, outcome string) {
	upstreamRequests.WithLabelValues(resource, outcome).Inc()
}

// IncCache increments a query cache event counter.
func IncCache(event string) {
	cacheEvents.WithLabelValues(event).Inc()
}
