package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus metrics. A nil *Metrics is a valid
// no-op receiver so unit tests can skip registration entirely.
type Metrics struct {
	RunsTotal               *prometheus.CounterVec
	RunDurationSeconds      prometheus.Histogram
	ExtractionFailures      prometheus.Counter
	ForbiddenFieldsStripped prometheus.Counter
}

// New creates and registers all pipeline metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skyvault_pipeline_runs_total",
			Help: "Total pipeline runs by terminal status",
		}, []string{"status"}),
		RunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "skyvault_pipeline_run_duration_seconds",
			Help:    "End-to-end pipeline run duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ExtractionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skyvault_extraction_failures_total",
			Help: "Total extraction backend failures (unreachable, timeout, unparseable)",
		}),
		ForbiddenFieldsStripped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skyvault_forbidden_fields_stripped_total",
			Help: "Total sensitive fields the backend returned and the normalizer dropped",
		}),
	}
}

func (m *Metrics) RecordRun(status string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRunDuration(seconds float64) {
	if m == nil {
		return
	}
	m.RunDurationSeconds.Observe(seconds)
}

func (m *Metrics) IncrementExtractionFailures() {
	if m == nil {
		return
	}
	m.ExtractionFailures.Inc()
}

func (m *Metrics) AddForbiddenFieldsStripped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ForbiddenFieldsStripped.Add(float64(n))
}
