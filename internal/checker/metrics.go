package checker

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmchecker",
			Subsystem: "checker",
			Name:      "cycles_total",
			Help:      "Total number of finished discovery cycles by outcome",
		},
		[]string{"outcome"},
	)

	cycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "llmchecker",
			Subsystem: "checker",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of discovery cycles in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	candidatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llmchecker",
			Subsystem: "checker",
			Name:      "candidates_total",
			Help:      "Total number of candidates returned by discovery providers",
		},
	)

	collectionSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "llmchecker",
			Subsystem: "checker",
			Name:      "collection_size",
			Help:      "Number of distinct models held in memory",
		},
	)

	busyRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llmchecker",
			Subsystem: "checker",
			Name:      "busy_rejections_total",
			Help:      "Cycle triggers ignored because a cycle was already running",
		},
	)
)

func init() {
	prometheus.MustRegister(cyclesTotal, cycleDuration, candidatesTotal, collectionSize, busyRejections)
}
