package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/yanqian/dailyreport/pkg/errors"
)

// Config aggregates runtime configuration used across the job.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Storage     StorageConfig     `yaml:"storage"`
	EventSource EventSourceConfig `yaml:"eventSource"`
	LLM         LLMConfig         `yaml:"llm"`
	Report      ReportConfig      `yaml:"report"`
	Email       EmailConfig       `yaml:"email"`
	Weather     WeatherConfig     `yaml:"weather"`
	Lock        LockConfig        `yaml:"lock"`
	Runs        RunsConfig        `yaml:"runs"`
}

// HTTPConfig controls the operations server.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// ScheduleConfig controls when the daily job fires.
type ScheduleConfig struct {
	RRule        string `yaml:"rrule"`
	Timezone     string `yaml:"timezone"`
	RunOnStartup bool   `yaml:"runOnStartup"`
}

// StorageConfig locates the report log blob.
type StorageConfig struct {
	ConnectionString string `yaml:"connectionString"`
	Container        string `yaml:"container"`
	BlobName         string `yaml:"blobName"`
}

// EventSourceConfig points at the upstream event API.
type EventSourceConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float32 `yaml:"temperature"`
}

// ReportConfig carries the report prompt.
type ReportConfig struct {
	SystemPrompt string `yaml:"systemPrompt"`
}

// EmailConfig controls report delivery.
type EmailConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Subject  string `yaml:"subject"`
}

// WeatherConfig controls the optional weather snapshot task.
type WeatherConfig struct {
	Enabled    bool    `yaml:"enabled"`
	APIBaseURL string  `yaml:"apiBaseUrl"`
	Latitude   float64 `yaml:"latitude"`
	Longitude  float64 `yaml:"longitude"`
	Timezone   string  `yaml:"timezone"`
	OutputPath string  `yaml:"outputPath"`
}

// LockConfig selects the run lease backend.
type LockConfig struct {
	ValkeyAddr string        `yaml:"valkeyAddr"`
	Key        string        `yaml:"key"`
	TTL        time.Duration `yaml:"ttl"`
}

// RunsConfig selects where run history is kept.
type RunsConfig struct {
	PostgresDSN string `yaml:"postgresDsn"`
	MaxConns    int32  `yaml:"maxConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "load config", err)
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "load config", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfig, "invalid config", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("SCHEDULE_RRULE"); v != "" {
		cfg.Schedule.RRule = v
	}
	if v := os.Getenv("SCHEDULE_TIMEZONE"); v != "" {
		cfg.Schedule.Timezone = v
	}
	if v := os.Getenv("SCHEDULE_RUN_ON_STARTUP"); v != "" {
		cfg.Schedule.RunOnStartup = parseBool(v)
	}
	if v := firstEnv("AZURE_STORAGE_CONNECTION_STRING", "STORAGE_CONNECTION_STRING"); v != "" {
		cfg.Storage.ConnectionString = v
	}
	if v := os.Getenv("STORAGE_CONTAINER"); v != "" {
		cfg.Storage.Container = v
	}
	if v := os.Getenv("STORAGE_BLOB_NAME"); v != "" {
		cfg.Storage.BlobName = v
	}
	if v := os.Getenv("DATA_URL"); v != "" {
		cfg.EventSource.URL = v
	}
	if v := os.Getenv("DATA_KEY"); v != "" {
		cfg.EventSource.APIKey = v
	}
	if v := firstEnv("AI_KEY", "LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("EMAIL_USER"); v != "" {
		cfg.Email.User = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("EMAIL_HOST"); v != "" {
		cfg.Email.Host = v
	}
	if v := os.Getenv("EMAIL_PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Email.Port = parsed
		}
	}
	if v := os.Getenv("WEATHER_ENABLED"); v != "" {
		cfg.Weather.Enabled = parseBool(v)
	}
	if v := os.Getenv("WEATHER_OUTPUT_PATH"); v != "" {
		cfg.Weather.OutputPath = v
	}
	if v := os.Getenv("LOCK_VALKEY_ADDR"); v != "" {
		cfg.Lock.ValkeyAddr = v
	}
	if v := os.Getenv("LOCK_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Lock.TTL = parsed
		}
	}
	if v := os.Getenv("RUNS_POSTGRES_DSN"); v != "" {
		cfg.Runs.PostgresDSN = v
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Schedule: ScheduleConfig{
			RRule:        "FREQ=DAILY;BYHOUR=0;BYMINUTE=1;BYSECOND=0",
			Timezone:     "Europe/Stockholm",
			RunOnStartup: true,
		},
		Storage: StorageConfig{
			Container: "dailyreport",
			BlobName:  "daily_report.json",
		},
		EventSource: EventSourceConfig{
			Timeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 3000,
		},
		Report: ReportConfig{
			SystemPrompt: DefaultReportPrompt,
		},
		Email: EmailConfig{
			Host:    "smtp.gmail.com",
			Port:    587,
			Subject: "Daily Report",
		},
		Weather: WeatherConfig{
			Enabled:    false,
			APIBaseURL: "https://archive-api.open-meteo.com/v1/archive",
			Latitude:   59.3293,
			Longitude:  18.0686,
			Timezone:   "Europe/Stockholm",
			OutputPath: "weather_data/weather_data.json",
		},
		Lock: LockConfig{
			Key: "dailyreport:lock",
			TTL: 15 * time.Minute,
		},
		Runs: RunsConfig{
			MaxConns: 2,
		},
	}
}

// Validate ensures the configuration is safe to use. Credentials are not
// checked here; each pipeline step soft-fails when its own are missing.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Schedule.RRule) == "" {
		return errors.New("schedule.rrule cannot be empty")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	if strings.TrimSpace(c.Storage.Container) == "" {
		return errors.New("storage.container cannot be empty")
	}
	if strings.TrimSpace(c.Storage.BlobName) == "" {
		return errors.New("storage.blobName cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if strings.TrimSpace(c.Report.SystemPrompt) == "" {
		return errors.New("report.systemPrompt cannot be empty")
	}
	if c.Email.Host == "" || c.Email.Port <= 0 {
		return errors.New("email.host and email.port are required")
	}
	if c.Weather.Enabled {
		if c.Weather.APIBaseURL == "" {
			return errors.New("weather.apiBaseUrl cannot be empty when weather is enabled")
		}
		if c.Weather.OutputPath == "" {
			return errors.New("weather.outputPath cannot be empty when weather is enabled")
		}
	}
	if c.Lock.TTL <= 0 {
		return errors.New("lock.ttl must be positive")
	}
	return nil
}
