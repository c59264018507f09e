package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EvaluationsTotal   *prometheus.CounterVec
	FailedClosedTotal  prometheus.Counter
	OverrideApplied    prometheus.Counter
	EvaluationDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rostra_compliance_evaluations_total",
			Help: "Total number of compliance evaluations by result",
		}, []string{"result"}),
		FailedClosedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rostra_compliance_failed_closed_total",
			Help: "Total number of evaluations that failed closed due to data errors",
		}),
		OverrideApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rostra_compliance_override_reported_total",
			Help: "Total number of verdicts reporting an active override",
		}),
		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rostra_compliance_evaluation_duration_seconds",
			Help:    "Duration of compliance evaluations",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveEvaluation records one completed evaluation.
// result is "compliant" or "non_compliant".
func (m *Metrics) ObserveEvaluation(result string, duration time.Duration) {
	m.EvaluationsTotal.WithLabelValues(result).Inc()
	m.EvaluationDuration.Observe(duration.Seconds())
}

// IncFailedClosed increments the fail-closed counter by 1.
func (m *Metrics) IncFailedClosed() {
	m.FailedClosedTotal.Inc()
}

// IncOverrideApplied increments the override-reported counter by 1.
func (m *Metrics) IncOverrideApplied() {
	m.OverrideApplied.Inc()
}
