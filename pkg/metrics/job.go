package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics groups the Prometheus collectors describing job runs.
type JobMetrics struct {
	runs         *prometheus.CounterVec
	stepFailures *prometheus.CounterVec
	logEntries   prometheus.Gauge
	duration     *prometheus.HistogramVec
	tokens       *prometheus.CounterVec
}

// NewJobMetrics registers the job collectors on reg. A nil reg leaves them unregistered.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	m := &JobMetrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyreport_runs_total",
				Help: "Total number of job runs by job and outcome.",
			},
			[]string{"job", "outcome"},
		),
		stepFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyreport_step_failures_total",
				Help: "Total number of soft or hard step failures by step.",
			},
			[]string{"step"},
		),
		logEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dailyreport_log_entries",
				Help: "Number of entries in the report log after the last successful save.",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dailyreport_run_duration_seconds",
				Help:    "Duration of job runs in seconds.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"job"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyreport_llm_tokens_total",
				Help: "Language model tokens consumed by kind.",
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.stepFailures, m.logEntries, m.duration, m.tokens)
	}
	return m
}

// ObserveRun records one finished run.
func (m *JobMetrics) ObserveRun(job, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(job, outcome).Inc()
	m.duration.WithLabelValues(job).Observe(elapsed.Seconds())
}

// StepFailed counts a failed pipeline step.
func (m *JobMetrics) StepFailed(step string) {
	if m == nil {
		return
	}
	m.stepFailures.WithLabelValues(step).Inc()
}

// SetLogEntries publishes the report log length.
func (m *JobMetrics) SetLogEntries(n int) {
	if m == nil {
		return
	}
	m.logEntries.Set(float64(n))
}

// AddTokens accumulates LLM usage.
func (m *JobMetrics) AddTokens(u TokenUsage) {
	if m == nil || u.IsZero() {
		return
	}
	m.tokens.WithLabelValues("prompt").Add(float64(u.PromptTokens))
	m.tokens.WithLabelValues("completion").Add(float64(u.CompletionTokens))
}
