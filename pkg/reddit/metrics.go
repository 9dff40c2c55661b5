package reddit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "knewkarma_requests_total",
		Help: "Upstream requests by endpoint and outcome",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "knewkarma_request_duration_seconds",
		Help:    "Upstream request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "knewkarma_retries_total",
		Help: "Transport retries by error type",
	}, []string{"error_type"})
)
