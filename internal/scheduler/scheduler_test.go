package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/dailyreport/pkg/errors"
)

const dailyRule = "FREQ=DAILY;BYHOUR=0;BYMINUTE=1;BYSECOND=0"

var cet = time.FixedZone("CET", 3600)

type fakeClock struct {
	now  time.Time
	skew time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.now = c.now.Add(d + c.skew)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func newTestScheduler(t *testing.T, logger *slog.Logger, clock *fakeClock, startup bool, tasks ...Task) *Scheduler {
	t.Helper()
	s, err := New(Config{RRule: dailyRule, Location: cet, RunOnStartup: startup}, logger, tasks...)
	require.NoError(t, err)
	s.rule.DTStart(time.Date(2024, 5, 1, 0, 0, 0, 0, cet))
	s.now = clock.Now
	s.after = clock.After
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRejectsInvalidRule(t *testing.T) {
	_, err := New(Config{RRule: "FREQ=SOMETIMES"}, discardLogger())
	require.Error(t, err)
}

func TestNextDailyOccurrence(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 30, 0, cet)}
	s := newTestScheduler(t, discardLogger(), clock, false)

	require.Equal(t, time.Date(2024, 5, 1, 0, 1, 0, 0, cet), s.Next(clock.now).In(cet))
	require.Equal(t, time.Date(2024, 5, 2, 0, 1, 0, 0, cet), s.Next(time.Date(2024, 5, 1, 0, 1, 0, 0, cet)).In(cet))
}

func TestStartRunsOnStartupThenOnTick(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, cet)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired []time.Time
	task := Task{Name: "daily", Run: func(context.Context) error {
		fired = append(fired, clock.now)
		if len(fired) == 2 {
			cancel()
		}
		return nil
	}}
	s := newTestScheduler(t, discardLogger(), clock, true, task)

	err := s.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, fired, 2)
	require.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, cet), fired[0])
	require.Equal(t, time.Date(2024, 5, 2, 0, 1, 0, 0, cet), fired[1].In(cet))
}

func TestStartLogsPastDueTick(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, cet), skew: 5 * time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	task := Task{Name: "daily", Run: func(context.Context) error {
		cancel()
		return nil
	}}
	s := newTestScheduler(t, logger, clock, false, task)

	require.ErrorIs(t, s.Start(ctx), context.Canceled)
	require.Contains(t, buf.String(), "the timer is past due")
}

func TestStartContinuesAfterTaskError(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, cet)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var order []string
	failing := Task{Name: "daily", Run: func(context.Context) error {
		order = append(order, "daily")
		return errors.New("run in progress")
	}}
	weather := Task{Name: "weather", Run: func(context.Context) error {
		order = append(order, "weather")
		cancel()
		return nil
	}}
	s := newTestScheduler(t, discardLogger(), clock, true, failing, weather)

	require.ErrorIs(t, s.Start(ctx), context.Canceled)
	require.Equal(t, []string{"daily", "weather"}, order)
}

func TestStartLetsRunningTaskFinishAfterCancel(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, cet)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var saveErr error
	var order []string
	daily := Task{Name: "daily", Run: func(runCtx context.Context) error {
		order = append(order, "daily")
		cancel()
		// The log upload happens after the signal arrives.
		saveErr = runCtx.Err()
		return nil
	}}
	weather := Task{Name: "weather", Run: func(context.Context) error {
		order = append(order, "weather")
		return nil
	}}
	s := newTestScheduler(t, discardLogger(), clock, true, daily, weather)

	require.ErrorIs(t, s.Start(ctx), context.Canceled)
	require.NoError(t, saveErr)
	require.Equal(t, []string{"daily"}, order)
}

func TestRunTasksLogsErrorCode(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, cet)}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	task := Task{Name: "daily", Run: func(context.Context) error {
		return apperrors.Wrap(apperrors.CodeRunInProgress, "daily report already running", errors.New("held"))
	}}
	s := newTestScheduler(t, logger, clock, false, task)

	s.runTasks(context.Background())
	require.Contains(t, buf.String(), "code=run_in_progress")
}

func TestFollowingCollapsesMissedOccurrences(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, cet)}
	s := newTestScheduler(t, discardLogger(), clock, false)

	planned := time.Date(2024, 5, 1, 0, 1, 0, 0, cet)
	now := time.Date(2024, 5, 4, 0, 30, 0, 0, cet)
	require.Equal(t, time.Date(2024, 5, 4, 0, 1, 0, 0, cet), s.following(planned, now).In(cet))

	onTime := time.Date(2024, 5, 1, 0, 20, 0, 0, cet)
	require.Equal(t, time.Date(2024, 5, 2, 0, 1, 0, 0, cet), s.following(planned, onTime).In(cet))
}
