package dailyreport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/dailyreport/internal/domain/runs"
	apperrors "github.com/yanqian/dailyreport/pkg/errors"
	"github.com/yanqian/dailyreport/pkg/metrics"
	"github.com/yanqian/dailyreport/pkg/util"
)

// JobConfig holds the settings of the orchestrator itself.
type JobConfig struct {
	// Location decides what "yesterday" means.
	Location *time.Location
}

// Job runs the fetch, generate, append, save, notify pipeline once per trigger.
type Job struct {
	cfg       JobConfig
	source    EventSource
	generator *Generator
	store     *LogStore
	notifier  *Notifier
	lock      RunLock
	history   runs.Repository
	metrics   *metrics.JobMetrics
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewJob wires the daily report job.
func NewJob(
	cfg JobConfig,
	source EventSource,
	generator *Generator,
	store *LogStore,
	notifier *Notifier,
	lock RunLock,
	history runs.Repository,
	m *metrics.JobMetrics,
	logger *slog.Logger,
) *Job {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Job{
		cfg:       cfg,
		source:    source,
		generator: generator,
		store:     store,
		notifier:  notifier,
		lock:      lock,
		history:   history,
		metrics:   m,
		logger:    logger.With("component", "dailyreport.job"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Run executes one invocation. Step failures are recorded in the returned
// Record, never returned as errors. The only error is a run already in
// progress, in which case nothing was done.
func (j *Job) Run(ctx context.Context) (runs.Record, error) {
	release, err := j.lock.Acquire(ctx)
	switch {
	case errors.Is(err, ErrLockHeld):
		j.logger.Warn("daily report run skipped, another run holds the lock")
		return runs.Record{}, apperrors.Wrap(apperrors.CodeRunInProgress, "daily report run already in progress", err)
	case err != nil:
		j.logger.Error("acquire run lock failed, continuing without it", "error", err)
		release = nil
	}
	if release != nil {
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				j.logger.Error("release run lock failed", "error", err)
			}
		}()
	}

	started := j.now()
	rec := runs.Record{
		ID:        j.newID(),
		Job:       JobName,
		StartedAt: started,
	}
	start, end := util.PreviousDay(started.In(j.cfg.Location))
	rec.ReportDate = start.Format(util.DateLayout)
	logger := j.logger.With("run_id", rec.ID, "report_date", rec.ReportDate)
	logger.Info("daily report run started")

	fetched := j.fetchEvents(ctx, logger, Window{Start: start, End: end})
	if fetched.Failed() {
		j.fail(&rec, StepFetch, fetched.Err)
	}
	rec.EventCount = len(fetched.Value)

	report := j.generator.Generate(ctx, fetched.Value)
	if report.Failed() {
		j.fail(&rec, StepGenerate, report.Err)
	}
	entry := NewReportEntry(rec.ReportDate, report.Value)

	loaded := j.store.Load(ctx)
	if loaded.Failed() {
		j.fail(&rec, StepLoad, loaded.Err)
	}
	log := Append(loaded.Value, entry)

	if err := j.store.Save(ctx, log); err != nil {
		logger.Error("error uploading updated report log, skipping notification", "error", err)
		j.fail(&rec, StepSave, err)
		rec.Outcome = runs.OutcomeSaveFailed
		j.finish(ctx, logger, &rec)
		return rec, nil
	}
	rec.Saved = true
	rec.LogEntries = len(log)
	j.metrics.SetLogEntries(len(log))

	if err := j.notifier.Notify(ctx, entry.Content); err != nil {
		j.fail(&rec, StepNotify, err)
		rec.Outcome = runs.OutcomeSaved
	} else {
		rec.Notified = true
		rec.Outcome = runs.OutcomeNotified
	}

	j.finish(ctx, logger, &rec)
	return rec, nil
}

func (j *Job) fetchEvents(ctx context.Context, logger *slog.Logger, window Window) Result[[]EventRecord] {
	events, err := j.source.Fetch(ctx, window)
	if err != nil {
		logger.Error("api call error", "error", err)
		return failed([]EventRecord{}, apperrors.Wrap(apperrors.CodeFetchFailed, "fetch events", err))
	}
	if events == nil {
		events = []EventRecord{}
	}
	logger.Info("retrieved records from api", "count", len(events))
	return succeeded(events)
}

func (j *Job) fail(rec *runs.Record, step string, err error) {
	rec.Fail(step, err)
	j.metrics.StepFailed(step)
}

func (j *Job) finish(ctx context.Context, logger *slog.Logger, rec *runs.Record) {
	rec.FinishedAt = j.now()
	j.metrics.ObserveRun(JobName, rec.Outcome, rec.Duration())
	if err := j.history.Save(context.WithoutCancel(ctx), *rec); err != nil {
		logger.Error("record run history failed", "error", err)
	}
	logger.Info("daily report run finished",
		"outcome", rec.Outcome,
		"events", rec.EventCount,
		"log_entries", rec.LogEntries,
		"failed_steps", rec.FailedSteps,
		"duration_ms", rec.Duration().Milliseconds(),
	)
}
