package runs

import (
	"context"
	"time"
)

// Outcome values shared by all jobs.
const (
	OutcomeNotified   = "notified"
	OutcomeSaved      = "saved"
	OutcomeSaveFailed = "save_failed"
	OutcomeWritten    = "written"
	OutcomeAborted    = "aborted"
)

// Record is the operational summary of one job invocation.
type Record struct {
	ID          string    `json:"id"`
	Job         string    `json:"job"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	ReportDate  string    `json:"reportDate"`
	EventCount  int       `json:"eventCount"`
	LogEntries  int       `json:"logEntries"`
	FailedSteps []string  `json:"failedSteps"`
	Errors      []string  `json:"errors,omitempty"`
	Saved       bool      `json:"saved"`
	Notified    bool      `json:"notified"`
	Outcome     string    `json:"outcome"`
}

// Fail records a failed step and its cause.
func (r *Record) Fail(step string, err error) {
	r.FailedSteps = append(r.FailedSteps, step)
	if err != nil {
		r.Errors = append(r.Errors, step+": "+err.Error())
	}
}

// StepFailed reports whether step is among the failed steps.
func (r Record) StepFailed(step string) bool {
	for _, s := range r.FailedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// Duration returns how long the run took.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Repository keeps run history.
type Repository interface {
	Save(ctx context.Context, record Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}
