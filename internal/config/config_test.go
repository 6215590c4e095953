package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no relevant env vars
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	for _, key := range []string{"JOBBOARD_CONFIG", "JOBBOARD_API_URL", "JOBBOARD_TOKEN", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultPollInterval, cfg.Notifications.PollInterval)
	assert.Equal(t, 12, cfg.Browse.PageSize)
	assert.Empty(t, cfg.Path)
	assert.False(t, cfg.TelegramReady())
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	yml := `
api:
  base_url: https://jobs.example.com/api/v1
  timeout: 10s
notifications:
  poll_interval: 1m
browse:
  page_size: 24
telegram:
  enabled: true
  chat_id: "42"
debug: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o644))
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", cfg.Path)
	assert.Equal(t, "https://jobs.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Minute, cfg.Notifications.PollInterval)
	assert.Equal(t, 24, cfg.Browse.PageSize)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "bot-token", cfg.Telegram.BotToken)
	assert.True(t, cfg.TelegramReady())
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file\n"), 0o644))
	t.Setenv("JOBBOARD_CONFIG", path)
	t.Setenv("JOBBOARD_API_URL", "http://env/api/v1")
	t.Setenv("JOBBOARD_TOKEN", "env-token")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "http://env/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "env-token", cfg.API.Token)
}

func TestDotEnvIsRead(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JOBBOARD_API_URL=http://dotenv/api/v1\n"), 0o644))
	// godotenv never overrides a variable that is already set
	require.NoError(t, os.Unsetenv("JOBBOARD_API_URL"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv/api/v1", cfg.API.BaseURL)
}

func TestExplicitMissingFileFails(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestInvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
