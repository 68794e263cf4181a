package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AdmissionRequestsTotal   *prometheus.CounterVec
	AdmissionRejectedTotal   *prometheus.CounterVec
	BreakerTransitionsTotal  *prometheus.CounterVec
	BreakerRejectedTotal     *prometheus.CounterVec
	SweepRunsTotal           *prometheus.CounterVec
	SweepEntriesRemovedTotal prometheus.Counter
	SweepDurationSeconds     prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		AdmissionRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devotly_admission_requests_total",
			Help: "Total requests seen by the admission middleware, by route class and outcome",
		}, []string{"class", "outcome"}),
		AdmissionRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devotly_admission_rate_limited_total",
			Help: "Total requests rejected by the adaptive limiter, by route class",
		}, []string{"class"}),
		BreakerTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devotly_breaker_transitions_total",
			Help: "Total circuit breaker state transitions, by breaker and target state",
		}, []string{"breaker", "to"}),
		BreakerRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devotly_breaker_rejected_total",
			Help: "Total requests rejected fail-fast by an open circuit, by breaker",
		}, []string{"breaker"}),
		SweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devotly_limiter_sweep_runs_total",
			Help: "Total idle-entry sweep runs",
		}, []string{"status"}),
		SweepEntriesRemovedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "devotly_limiter_sweep_entries_removed_total",
			Help: "Total idle limiter entries removed by the sweep worker",
		}),
		SweepDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "devotly_limiter_sweep_duration_seconds",
			Help: "Duration of sweep runs in seconds",
		}),
	}
}

func (m *Metrics) IncrementAdmitted(class string) {
	m.AdmissionRequestsTotal.WithLabelValues(class, "allowed").Inc()
}

func (m *Metrics) IncrementRateLimited(class string) {
	m.AdmissionRequestsTotal.WithLabelValues(class, "blocked").Inc()
	m.AdmissionRejectedTotal.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementBreakerRejected(class, breaker string) {
	m.AdmissionRequestsTotal.WithLabelValues(class, "blocked").Inc()
	m.BreakerRejectedTotal.WithLabelValues(breaker).Inc()
}

func (m *Metrics) IncrementBreakerTransition(breaker, to string) {
	m.BreakerTransitionsTotal.WithLabelValues(breaker, to).Inc()
}

func (m *Metrics) IncrementSweepRuns(status string) {
	m.SweepRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) AddSweepEntriesRemoved(count int) {
	m.SweepEntriesRemovedTotal.Add(float64(count))
}

func (m *Metrics) ObserveSweepDuration(durationSeconds float64) {
	m.SweepDurationSeconds.Observe(durationSeconds)
}
