package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
	"github.com/yanqian/dailyreport/internal/domain/weather"
	"github.com/yanqian/dailyreport/internal/infra/config"
	"github.com/yanqian/dailyreport/internal/scheduler"
)

// ErrWeatherDisabled is returned by RunWeather when the task is not configured.
var ErrWeatherDisabled = errors.New("weather snapshot task is disabled")

// App owns the long-running server and the one-shot job entry points.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	scheduler *scheduler.Scheduler
	daily     *dailyreport.Job
	weather   *weather.Service
}

// NewApp is used by Wire to build the runnable app. weatherSvc is nil when
// the snapshot task is disabled.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	sched *scheduler.Scheduler,
	daily *dailyreport.Job,
	weatherSvc *weather.Service,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger.With("component", "bootstrap"),
		server:    server,
		scheduler: sched,
		daily:     daily,
		weather:   weatherSvc,
	}
}

// Serve starts the HTTP server and the scheduler and blocks until ctx is
// cancelled or the server fails.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		if err := a.scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("scheduler stopped", "error", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		a.logger.Error("http server failed", "error", serveErr)
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-schedDone
	return serveErr
}

// RunDaily executes one daily report run and logs its record.
func (a *App) RunDaily(ctx context.Context) error {
	rec, err := a.daily.Run(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("daily report run complete", "run_id", rec.ID, "outcome", rec.Outcome, "failed_steps", rec.FailedSteps)
	return nil
}

// RunWeather executes one weather snapshot.
func (a *App) RunWeather(ctx context.Context) error {
	if a.weather == nil {
		return ErrWeatherDisabled
	}
	snapshot, err := a.weather.Snapshot(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("weather snapshot complete", "hours", len(snapshot))
	return nil
}
