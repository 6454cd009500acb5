package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EngineRequestsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propsearch_engine_requests_completed_total",
			Help: "Total number of engine requests answered with a result",
		},
		[]string{"operation"},
	)

	EngineRequestsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propsearch_engine_requests_failed_total",
			Help: "Total number of engine requests answered with an error",
		},
		[]string{"operation"},
	)

	EngineRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "propsearch_engine_request_duration_seconds",
			Help:    "Time spent dispatching a request, excluding queue wait",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"operation"},
	)

	EngineRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "propsearch_engine_requests_in_flight",
			Help: "Number of requests currently being dispatched",
		},
	)

	QueueRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propsearch_queue_rejected_total",
			Help: "Total number of requests the queue refused",
		},
		[]string{"reason"},
	)
)
