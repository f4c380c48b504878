package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are package-level so that creating multiple Clients never
// double-registers them.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authdeck_client_requests_total",
		Help: "Total auth API requests by path and outcome status",
	}, []string{"path", "status"})

	unauthorizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authdeck_client_unauthorized_total",
		Help: "Total unauthorized responses that invalidated the session",
	})

	requestDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "authdeck_client_request_duration_ms",
		Help:    "Duration of auth API requests in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
	})
)
