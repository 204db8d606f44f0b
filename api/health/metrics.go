package health

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yelo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of catalog API requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yelo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Catalog API requests served",
		},
		[]string{"method", "path", "status"},
	)
)
