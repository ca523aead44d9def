package inspector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for inspectionsTotal.
const (
	outcomeDisabled = "disabled"
	outcomeSkipped  = "skipped"
	outcomeNoMatch  = "no_match"
	outcomeMatched  = "matched"
	outcomePanic    = "panic"
)

var (
	// inspectionsTotal counts inspections by outcome.
	// Labels: outcome (disabled, skipped, no_match, matched, panic)
	inspectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "element_inspector",
		Subsystem: "inspector",
		Name:      "inspections_total",
		Help:      "Total inspections by outcome",
	}, []string{"outcome"})

	// inspectionSeconds measures parse-to-report latency.
	inspectionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "element_inspector",
		Subsystem: "inspector",
		Name:      "duration_seconds",
		Help:      "Time spent inspecting one snapshot",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	// snapshotNodes observes the size of inspected trees.
	snapshotNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "element_inspector",
		Subsystem: "inspector",
		Name:      "snapshot_nodes",
		Help:      "Number of nodes in inspected snapshots",
		Buckets:   prometheus.ExponentialBuckets(16, 4, 7),
	})
)

func recordOutcome(outcome string) {
	inspectionsTotal.WithLabelValues(outcome).Inc()
}
