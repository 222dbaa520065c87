package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"

	apperrors "github.com/yanqian/dailyreport/pkg/errors"
	"github.com/yanqian/dailyreport/pkg/util"
)

// pastDueAfter is how late a tick may fire before it is reported as past due.
const pastDueAfter = time.Minute

// Task is one unit of work fired on every tick.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Config controls the recurrence.
type Config struct {
	RRule        string
	Location     *time.Location
	RunOnStartup bool
}

// Scheduler fires its tasks sequentially on each occurrence of a recurrence rule.
type Scheduler struct {
	rule         *rrule.RRule
	runOnStartup bool
	tasks        []Task
	logger       *slog.Logger
	now          func() time.Time
	after        func(time.Duration) <-chan time.Time
}

// New parses the rule and anchors it at midnight of the current day in cfg.Location.
func New(cfg Config, logger *slog.Logger, tasks ...Task) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	rule, err := rrule.StrToRRule(cfg.RRule)
	if err != nil {
		return nil, fmt.Errorf("parse schedule rrule: %w", err)
	}
	rule.DTStart(util.Midnight(time.Now().In(loc)))

	return &Scheduler{
		rule:         rule,
		runOnStartup: cfg.RunOnStartup,
		tasks:        tasks,
		logger:       logger.With("component", "scheduler"),
		now:          time.Now,
		after:        time.After,
	}, nil
}

// Next returns the first occurrence strictly after t, or the zero time when
// the rule is exhausted.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.rule.After(t, false)
}

// Start blocks, firing tasks on every occurrence until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.runOnStartup {
		s.logger.Info("running tasks on startup")
		s.runTasks(ctx)
	}

	planned := s.Next(s.now())
	for {
		if planned.IsZero() {
			s.logger.Warn("schedule has no further occurrences, stopping")
			return nil
		}
		s.logger.Info("next run scheduled", "at", planned)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.after(planned.Sub(s.now())):
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fired := s.now()
		if late := fired.Sub(planned); late > pastDueAfter {
			s.logger.Info("the timer is past due", "planned", planned, "late", late.String())
		}
		s.runTasks(ctx)
		planned = s.following(planned, s.now())
	}
}

// following picks the occurrence after planned. When runs overran several
// occurrences, only the latest missed one is kept so it fires once.
func (s *Scheduler) following(planned, now time.Time) time.Time {
	next := s.rule.After(planned, false)
	if next.IsZero() || !next.Before(now) {
		return next
	}
	if missed := s.rule.Before(now, true); missed.After(next) {
		return missed
	}
	return next
}

// runTasks runs the tasks in order. A started task runs to completion even
// when ctx is cancelled mid-run; the remaining tasks are skipped.
func (s *Scheduler) runTasks(ctx context.Context) {
	runCtx := context.WithoutCancel(ctx)
	for _, task := range s.tasks {
		if ctx.Err() != nil {
			return
		}
		started := s.now()
		if err := task.Run(runCtx); err != nil {
			s.logger.Error("scheduled task failed", "task", task.Name, "code", apperrors.CodeOf(err), "error", err)
			continue
		}
		s.logger.Info("scheduled task finished", "task", task.Name, "duration_ms", s.now().Sub(started).Milliseconds())
	}
}
