package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestJobMetricsCountsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)

	m.ObserveRun("daily", "notified", 2*time.Second)
	m.ObserveRun("daily", "notified", time.Second)
	m.ObserveRun("daily", "save_failed", time.Second)
	m.StepFailed("fetch")
	m.SetLogEntries(7)
	m.AddTokens(TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})

	require.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("daily", "notified")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("daily", "save_failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.stepFailures.WithLabelValues("fetch")))
	require.Equal(t, 7.0, testutil.ToFloat64(m.logEntries))
	require.Equal(t, 10.0, testutil.ToFloat64(m.tokens.WithLabelValues("prompt")))
}

func TestNilJobMetricsIsSafe(t *testing.T) {
	var m *JobMetrics
	require.NotPanics(t, func() {
		m.ObserveRun("daily", "skipped", time.Second)
		m.StepFailed("save")
		m.SetLogEntries(1)
		m.AddTokens(TokenUsage{TotalTokens: 1})
	})
}
