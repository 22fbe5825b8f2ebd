// Package metrics holds the Prometheus collectors the build pipeline
// updates as it runs.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the collectors every phase of the pipeline writes
// to. Callers always construct one with New; there is no usable zero
// value.
type Metrics struct {
	BatchesDispatched prometheus.Counter
	BatchesCompleted  prometheus.Counter
	RecordsSkipped    prometheus.Counter
	DocumentsIndexed  prometheus.Counter
	TermsGlobal       prometheus.Gauge
	PhaseDuration     *prometheus.HistogramVec
}

// New registers the pipeline's collectors on reg. Passing
// prometheus.NewRegistry() instead of the global default registry lets
// an embedder run multiple builds in one process without collector
// name collisions.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BatchesDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forge_batches_dispatched_total",
			Help: "Batches handed to a worker goroutine.",
		}),
		BatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forge_batches_completed_total",
			Help: "Batches that finished writing their four sibling files.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forge_records_skipped_total",
			Help: "Records the source reported as invalid.",
		}),
		DocumentsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forge_documents_indexed_total",
			Help: "Valid records that became documents in the forward index.",
		}),
		TermsGlobal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forge_terms_global_total",
			Help: "Size of the global term dictionary after the merge phase.",
		}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forge_phase_duration_seconds",
			Help:    "Wall-clock duration of each build phase.",
			Buckets: prometheus.DefBuckets,
		}, []string{"phase"}),
	}

	reg.MustRegister(
		m.BatchesDispatched,
		m.BatchesCompleted,
		m.RecordsSkipped,
		m.DocumentsIndexed,
		m.TermsGlobal,
		m.PhaseDuration,
	)

	return m
}
