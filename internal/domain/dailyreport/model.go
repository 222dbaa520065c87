package dailyreport

import (
	"errors"
	"time"
)

// JobName identifies the daily report job in run history and metrics.
const JobName = "daily_report"

// Constant fields of every report entry.
const (
	CategoryReport = "report"
	TypeDaily      = "daily"
)

// Pipeline step names used in run records.
const (
	StepFetch    = "fetch"
	StepGenerate = "generate"
	StepLoad     = "load"
	StepSave     = "save"
	StepNotify   = "notify"
)

var (
	// ErrBlobNotFound is returned by BlobStorage when the key does not exist.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrLockHeld is returned by RunLock when another run holds the lease.
	ErrLockHeld = errors.New("run lock held by another invocation")
)

// EventRecord is an opaque record owned by the upstream event API.
type EventRecord = map[string]any

// ReportEntry is one generated report as persisted in the log.
type ReportEntry struct {
	Timestamp string `json:"Timestamp"`
	Category  string `json:"Category"`
	Type      string `json:"Type"`
	Content   string `json:"Content"`
}

// NewReportEntry builds the daily entry for the given report date.
func NewReportEntry(date, content string) ReportEntry {
	return ReportEntry{
		Timestamp: date,
		Category:  CategoryReport,
		Type:      TypeDaily,
		Content:   content,
	}
}

// ReportLog is the ordered sequence of entries, oldest first.
type ReportLog []ReportEntry

// Window is the half-open time range events are fetched for.
type Window struct {
	Start time.Time
	End   time.Time
}

// Result carries a value together with the failure that produced it, if any.
// A failed Result still holds a usable default value.
type Result[T any] struct {
	Value T
	Err   error
}

// Failed reports whether the value is a substituted default.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

func succeeded[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func failed[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}
