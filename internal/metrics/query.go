package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// List query Prometheus metrics.
var (
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listquery",
			Name:      "evaluations_total",
			Help:      "Total number of list query evaluations",
		},
		[]string{"dataset", "status"},
	)

	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "listquery",
			Name:      "evaluation_duration_seconds",
			Help:      "List query evaluation duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"dataset"},
	)

	MatchedRecords = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "listquery",
			Name:      "matched_records",
			Help:      "Number of records matched by a list query",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"dataset"},
	)

	DatasetRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "listquery",
			Name:      "dataset_records",
			Help:      "Number of records currently loaded per dataset",
		},
		[]string{"dataset"},
	)

	DatasetReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listquery",
			Name:      "dataset_reloads_total",
			Help:      "Total dataset reloads from seed fixtures",
		},
		[]string{"dataset", "status"},
	)
)

// Timeline bus Prometheus metrics.
var (
	BusPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listquery",
			Name:      "bus_published_total",
			Help:      "Total events published on the event bus",
		},
		[]string{"topic"},
	)

	BusDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listquery",
			Name:      "bus_dropped_total",
			Help:      "Events dropped because a subscriber buffer was full",
		},
		[]string{"topic"},
	)

	BusSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "listquery",
			Name:      "bus_subscribers",
			Help:      "Number of open event bus subscriptions",
		},
	)
)

var registerOnce sync.Once

// RegisterQueryMetrics registers the query, dataset and bus metrics. Safe to call more than once.
func RegisterQueryMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			EvaluationsTotal,
			EvaluationDuration,
			MatchedRecords,
			DatasetRecords,
			DatasetReloadsTotal,
			BusPublishedTotal,
			BusDroppedTotal,
			BusSubscribers,
		)
	})
}
