package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// factsApplied tracks inbound facts by kind and what happened to them.
	factsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_facts_total",
		Help: "Total number of inbound facts by fact kind and outcome",
	}, []string{"fact", "outcome"}) // outcome: applied, stashed, dropped, failed

	// factsReplayed tracks stashed facts replayed once their item became known.
	factsReplayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_recovery_replays_total",
		Help: "Total number of stashed facts replayed by fact kind",
	}, []string{"fact"})

	// exports tracks export requests by kind and result outcome.
	exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_exports_total",
		Help: "Total number of exports by kind and outcome",
	}, []string{"kind", "outcome"}) // kind: item, product

	// exportDuration tracks the time taken to build an export.
	exportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_export_duration_seconds",
		Help:    "Time taken to build an export by kind",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"kind"})

	// priceHistoryUpdates tracks selling price log refreshes.
	priceHistoryUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_price_history_updates_total",
		Help: "Total number of item price logs refreshed",
	})

	// collaboratorErrors tracks failures of the document store and recovery cache.
	collaboratorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_collaborator_errors_total",
		Help: "Total number of collaborator failures by collaborator",
	}, []string{"collaborator"}) // collaborator: storage, recovery
)

// MetricsRecorder provides methods to record engine metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordFact records the outcome of an inbound fact.
func (m *MetricsRecorder) RecordFact(fact string, outcome Outcome) {
	factsApplied.WithLabelValues(fact, string(outcome)).Inc()
}

// RecordFactFailure records an inbound fact that could not be processed.
func (m *MetricsRecorder) RecordFactFailure(fact string) {
	factsApplied.WithLabelValues(fact, "failed").Inc()
}

// RecordReplay records a replayed stashed fact.
func (m *MetricsRecorder) RecordReplay(fact string) {
	factsReplayed.WithLabelValues(fact).Inc()
}

// RecordExport records an export and its duration.
func (m *MetricsRecorder) RecordExport(kind, outcome string, duration time.Duration) {
	exports.WithLabelValues(kind, outcome).Inc()
	exportDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordPriceHistoryUpdates records refreshed price logs.
func (m *MetricsRecorder) RecordPriceHistoryUpdates(count int) {
	priceHistoryUpdates.Add(float64(count))
}

// RecordCollaboratorError records a failed storage or recovery cache call.
func (m *MetricsRecorder) RecordCollaboratorError(collaborator string) {
	collaboratorErrors.WithLabelValues(collaborator).Inc()
}
