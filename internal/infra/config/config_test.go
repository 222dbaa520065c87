package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/dailyreport/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "dailyreport", cfg.Storage.Container)
	require.Equal(t, "daily_report.json", cfg.Storage.BlobName)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, 3000, cfg.LLM.MaxTokens)
	require.Equal(t, "smtp.gmail.com", cfg.Email.Host)
	require.Equal(t, 587, cfg.Email.Port)
	require.Equal(t, "Daily Report", cfg.Email.Subject)
	require.Equal(t, "weather_data/weather_data.json", cfg.Weather.OutputPath)
	require.True(t, cfg.Schedule.RunOnStartup)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	chdir(t, t.TempDir())
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "Endpoint=http://localhost:9000;AccessKey=a;SecretKey=b")
	t.Setenv("DATA_URL", "https://events.example.com/api")
	t.Setenv("DATA_KEY", "data-key")
	t.Setenv("AI_KEY", "ai-key")
	t.Setenv("EMAIL_USER", "ops@example.com")
	t.Setenv("EMAIL_PASSWORD", "secret")
	t.Setenv("SCHEDULE_RUN_ON_STARTUP", "false")
	t.Setenv("WEATHER_ENABLED", "1")
	t.Setenv("LOCK_TTL", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Endpoint=http://localhost:9000;AccessKey=a;SecretKey=b", cfg.Storage.ConnectionString)
	require.Equal(t, "https://events.example.com/api", cfg.EventSource.URL)
	require.Equal(t, "data-key", cfg.EventSource.APIKey)
	require.Equal(t, "ai-key", cfg.LLM.APIKey)
	require.Equal(t, "ops@example.com", cfg.Email.User)
	require.Equal(t, "secret", cfg.Email.Password)
	require.False(t, cfg.Schedule.RunOnStartup)
	require.True(t, cfg.Weather.Enabled)
	require.Equal(t, 2*time.Minute, cfg.Lock.TTL)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("storage:\n  blobName: test_report.json\nllm:\n  maxTokens: 500\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "test_report.json", cfg.Storage.BlobName)
	require.Equal(t, "dailyreport", cfg.Storage.Container)
	require.Equal(t, 500, cfg.LLM.MaxTokens)
}

func TestLoadReportsConfigErrors(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	chdir(t, t.TempDir())
	t.Setenv("SCHEDULE_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))
	require.Contains(t, err.Error(), "schedule.timezone")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	_, err = Load()
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))
}

func TestValidateRejectsBadTimezone(t *testing.T) {
	cfg := defaultConfig()
	cfg.Schedule.Timezone = "Mars/Olympus"
	require.Error(t, cfg.Validate())
}

func TestValidateAllowsMissingCredentials(t *testing.T) {
	cfg := defaultConfig()
	require.Empty(t, cfg.LLM.APIKey)
	require.Empty(t, cfg.EventSource.APIKey)
	require.NoError(t, cfg.Validate())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
