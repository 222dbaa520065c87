package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
	"github.com/yanqian/dailyreport/internal/domain/runs"
	"github.com/yanqian/dailyreport/internal/domain/weather"
	"github.com/yanqian/dailyreport/internal/infra/blobstore"
	"github.com/yanqian/dailyreport/internal/infra/config"
	"github.com/yanqian/dailyreport/internal/infra/eventsource"
	"github.com/yanqian/dailyreport/internal/infra/llm/chatgpt"
	"github.com/yanqian/dailyreport/internal/infra/llm/tokens"
	"github.com/yanqian/dailyreport/internal/infra/mailer"
	"github.com/yanqian/dailyreport/internal/infra/runlock"
	"github.com/yanqian/dailyreport/internal/infra/runrepo"
	"github.com/yanqian/dailyreport/internal/infra/weather/filestore"
	"github.com/yanqian/dailyreport/internal/infra/weather/openmeteo"
	httpiface "github.com/yanqian/dailyreport/internal/interface/http"
	"github.com/yanqian/dailyreport/internal/scheduler"
	"github.com/yanqian/dailyreport/pkg/metrics"
)

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideJobMetrics(reg *prometheus.Registry) *metrics.JobMetrics {
	return metrics.NewJobMetrics(reg)
}

func provideMetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func provideLocation(cfg *config.Config) (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load schedule timezone: %w", err)
	}
	return loc, nil
}

func provideEventSource(cfg *config.Config) *eventsource.Client {
	return eventsource.NewClient(cfg.EventSource.URL, cfg.EventSource.APIKey, cfg.EventSource.Timeout)
}

// provideChatClient returns nil when no API key is set so the generator
// produces its error report instead of failing startup.
func provideChatClient(cfg *config.Config, logger *slog.Logger) dailyreport.ChatClient {
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Warn("language model client disabled", "error", err)
		return nil
	}
	return client
}

func provideTokenCounter(logger *slog.Logger) dailyreport.TokenCounter {
	counter, err := tokens.NewCounter("")
	if err != nil {
		logger.Warn("token counter unavailable", "error", err)
		return nil
	}
	return counter
}

func provideGeneratorConfig(cfg *config.Config) dailyreport.GeneratorConfig {
	return dailyreport.GeneratorConfig{
		Model:        cfg.LLM.Model,
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
		SystemPrompt: cfg.Report.SystemPrompt,
	}
}

func provideBlobStorage(cfg *config.Config, logger *slog.Logger) (dailyreport.BlobStorage, error) {
	raw := strings.TrimSpace(cfg.Storage.ConnectionString)
	if raw == "" {
		logger.Warn("storage connection string not set, report log kept in memory")
		return blobstore.NewMemoryStorage(), nil
	}
	conn, err := blobstore.ParseConnectionString(raw)
	if err != nil {
		return nil, fmt.Errorf("storage connection string: %w", err)
	}
	storage, err := blobstore.NewS3Storage(conn, cfg.Storage.Container, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func provideLogStore(cfg *config.Config, storage dailyreport.BlobStorage, logger *slog.Logger) *dailyreport.LogStore {
	return dailyreport.NewLogStore(storage, cfg.Storage.BlobName, logger)
}

func provideMailer(cfg *config.Config, logger *slog.Logger) *mailer.SMTPMailer {
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.User,
		Password: cfg.Email.Password,
	}, logger)
}

func provideNotifierConfig(cfg *config.Config) dailyreport.NotifierConfig {
	return dailyreport.NotifierConfig{
		User:     cfg.Email.User,
		Password: cfg.Email.Password,
		Subject:  cfg.Email.Subject,
	}
}

func provideRunLock(cfg *config.Config, logger *slog.Logger) (dailyreport.RunLock, func()) {
	addr := strings.TrimSpace(cfg.Lock.ValkeyAddr)
	if addr == "" {
		return runlock.NewLocalLock(), func() {}
	}
	opt, err := buildValkeyOptions(addr)
	if err != nil {
		logger.Error("invalid valkey configuration, using in-process lock", "error", err)
		return runlock.NewLocalLock(), func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, using in-process lock", "error", err)
		return runlock.NewLocalLock(), func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, using in-process lock", "error", err)
		client.Close()
		return runlock.NewLocalLock(), func() {}
	}
	logger.Info("valkey run lock enabled", "addr", addr, "key", cfg.Lock.Key)
	return runlock.NewValkeyLock(client, cfg.Lock.Key, cfg.Lock.TTL), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideRunRepository(cfg *config.Config, logger *slog.Logger) (runs.Repository, func()) {
	fallback := runrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Runs.PostgresDSN)
	if dsn == "" {
		logger.Info("runs postgres dsn not set, using memory repository")
		return fallback, func() {}
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, func() {}
	}
	if cfg.Runs.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Runs.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback, func() {}
	}
	repo := runrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("create run history schema failed, using memory repository", "error", err)
		pool.Close()
		return fallback, func() {}
	}
	logger.Info("runs postgres repository enabled")
	return repo, pool.Close
}

func provideJobConfig(loc *time.Location) dailyreport.JobConfig {
	return dailyreport.JobConfig{Location: loc}
}

// provideWeatherService returns nil when the task is disabled.
func provideWeatherService(cfg *config.Config, history runs.Repository, m *metrics.JobMetrics, logger *slog.Logger) (*weather.Service, error) {
	if !cfg.Weather.Enabled {
		return nil, nil
	}
	loc, err := time.LoadLocation(cfg.Weather.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load weather timezone: %w", err)
	}
	return weather.NewService(
		weather.Config{Latitude: cfg.Weather.Latitude, Longitude: cfg.Weather.Longitude, Location: loc},
		openmeteo.NewClient(cfg.Weather.APIBaseURL),
		filestore.NewWriter(cfg.Weather.OutputPath, logger),
		history,
		m,
		logger,
	), nil
}

func provideScheduler(cfg *config.Config, loc *time.Location, job *dailyreport.Job, weatherSvc *weather.Service, logger *slog.Logger) (*scheduler.Scheduler, error) {
	tasks := []scheduler.Task{{
		Name: dailyreport.JobName,
		Run: func(ctx context.Context) error {
			_, err := job.Run(ctx)
			return err
		},
	}}
	if weatherSvc != nil {
		tasks = append(tasks, scheduler.Task{
			Name: weather.JobName,
			Run: func(ctx context.Context) error {
				_, err := weatherSvc.Snapshot(ctx)
				return err
			},
		})
	}
	return scheduler.New(scheduler.Config{
		RRule:        cfg.Schedule.RRule,
		Location:     loc,
		RunOnStartup: cfg.Schedule.RunOnStartup,
	}, logger, tasks...)
}

func provideHandler(job *dailyreport.Job, weatherSvc *weather.Service, store *dailyreport.LogStore, history runs.Repository, logger *slog.Logger) *httpiface.Handler {
	var runner httpiface.WeatherRunner
	if weatherSvc != nil {
		runner = weatherSvc
	}
	return httpiface.NewHandler(job, runner, store, history, logger)
}
