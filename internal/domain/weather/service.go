package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/dailyreport/internal/domain/runs"
	apperrors "github.com/yanqian/dailyreport/pkg/errors"
	"github.com/yanqian/dailyreport/pkg/metrics"
	"github.com/yanqian/dailyreport/pkg/util"
)

// Service produces the daily weather snapshot file.
type Service struct {
	cfg     Config
	client  Client
	writer  Writer
	history runs.Repository
	metrics *metrics.JobMetrics
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService wires the weather snapshot task.
func NewService(cfg Config, client Client, writer Writer, history runs.Repository, m *metrics.JobMetrics, logger *slog.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		cfg:     cfg,
		client:  client,
		writer:  writer,
		history: history,
		metrics: m,
		logger:  logger.With("component", "weather.service"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Snapshot fetches yesterday's hourly observations and overwrites the output.
// Any request failure aborts before writing and returns an empty snapshot.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	started := s.now()
	start, _ := util.PreviousDay(started.In(s.cfg.Location))
	day := start.Format(util.DateLayout)
	rec := runs.Record{ID: s.newID(), Job: JobName, StartedAt: started, ReportDate: day}

	snapshot, err := s.snapshot(ctx, day)
	if err != nil {
		s.logger.Error("weather snapshot aborted", "date", day, "error", err)
		rec.Fail(StepSnapshot, err)
		rec.Outcome = runs.OutcomeAborted
		s.metrics.StepFailed(StepSnapshot)
		s.finish(ctx, &rec)
		return Snapshot{}, err
	}

	rec.EventCount = len(snapshot)
	rec.Saved = true
	rec.Outcome = runs.OutcomeWritten
	s.finish(ctx, &rec)
	return snapshot, nil
}

func (s *Service) snapshot(ctx context.Context, day string) (Snapshot, error) {
	series, err := s.client.Hourly(ctx, Query{
		Latitude:  s.cfg.Latitude,
		Longitude: s.cfg.Longitude,
		StartDate: day,
		EndDate:   day,
		Timezone:  s.cfg.Location.String(),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeWeather, "fetch hourly weather", err)
	}

	snapshot, truncated := Reshape(series, s.cfg.Location)
	if truncated {
		s.logger.Warn("hourly series lengths differ, extra hours dropped",
			"time", len(series.Time),
			"temperature", len(series.Temperature2m),
			"rain", len(series.Rain),
			"weather_code", len(series.WeatherCode),
		)
	}

	if missing := snapshot.Missing(); missing > 0 {
		s.logger.Warn("hourly readings missing, written as null", "date", day, "hours", missing)
	}

	if err := s.writer.Write(ctx, snapshot); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeWeather, "write weather snapshot", err)
	}
	s.logger.Info("weather snapshot written", "date", day, "hours", len(snapshot))
	return snapshot, nil
}

func (s *Service) finish(ctx context.Context, rec *runs.Record) {
	rec.FinishedAt = s.now()
	s.metrics.ObserveRun(JobName, rec.Outcome, rec.Duration())
	if err := s.history.Save(context.WithoutCancel(ctx), *rec); err != nil {
		s.logger.Error("record run history failed", "error", err)
	}
}
