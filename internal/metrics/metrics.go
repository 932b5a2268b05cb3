package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alfred_messages_routed_total",
			Help: "Messages routed, by selected feature and routing method",
		},
		[]string{"feature", "method"},
	)

	ClassifierLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alfred_classifier_latency_seconds",
			Help:    "Latency of the intent classification call",
			Buckets: prometheus.DefBuckets,
		},
	)

	ClassifierFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alfred_classifier_failures_total",
			Help: "Intent classification calls that fell back to keyword matching",
		},
		[]string{"reason"},
	)

	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alfred_handler_duration_seconds",
			Help:    "Feature handler duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		},
		[]string{"feature"},
	)

	HandlerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alfred_handler_failures_total",
			Help: "Feature handler errors and panics",
		},
		[]string{"feature", "kind"},
	)
)
