package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus collectors for the HTTP server. Each server
// owns a private registry so tests can build servers independently.
type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	searches prometheus.Counter
}

// newMetrics registers the server collectors. documentCount is sampled on
// every scrape to report the current store size.
func newMetrics(registry *prometheus.Registry, documentCount func() float64) *metrics {
	m := &metrics{
		requests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "tsrecall_http_requests_total",
			Help: "HTTP requests served, by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		duration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tsrecall_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		searches: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "tsrecall_searches_total",
			Help: "Similarity searches served.",
		}),
	}

	promauto.With(registry).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "tsrecall_documents",
		Help: "Documents currently stored.",
	}, documentCount)

	return m
}
