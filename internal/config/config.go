// Package config loads the client configuration from config.yaml, .env and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL      = "http://localhost:8000/api/v1"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 30 * time.Second
	DefaultPageSize     = 12
)

// Config is the full client configuration
type Config struct {
	API           APIConfig           `yaml:"api"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Browse        BrowseConfig        `yaml:"browse"`
	Telegram      TelegramConfig      `yaml:"telegram"`
	Display       DisplayConfig       `yaml:"display"`
	Debug         bool                `yaml:"debug"`

	// Path is the file the config was read from, empty when defaults were used
	Path string `yaml:"-"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Proxy   string        `yaml:"proxy"`
	// Token overrides the saved session token; only set from JOBBOARD_TOKEN
	Token string `yaml:"-"`
}

type NotificationsConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

type BrowseConfig struct {
	PageSize int `yaml:"page_size"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"` // Prefer TELEGRAM_BOT_TOKEN env var
	ChatID   string `yaml:"chat_id"`   // Prefer TELEGRAM_CHAT_ID env var
	Enabled  bool   `yaml:"enabled"`
}

type DisplayConfig struct {
	Banner    bool `yaml:"banner"`
	NoColor   bool `yaml:"no_color"`
	MaxNotify int  `yaml:"max_notifications"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Notifications: NotificationsConfig{PollInterval: DefaultPollInterval},
		Browse:        BrowseConfig{PageSize: DefaultPageSize},
		Display:       DisplayConfig{Banner: true, MaxNotify: 10},
	}
}

// Load reads the config. An explicit path must exist; otherwise the usual
// locations are searched and defaults apply when none has a file. Values
// from .env and the environment win over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv("JOBBOARD_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = findConfigPath()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			cfg.Path = path
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

func findConfigPath() string {
	paths := []string{"config.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "jobboard", "config.yaml"))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JOBBOARD_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("JOBBOARD_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
}

func (c *Config) fillDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.Notifications.PollInterval <= 0 {
		c.Notifications.PollInterval = DefaultPollInterval
	}
	if c.Browse.PageSize <= 0 {
		c.Browse.PageSize = DefaultPageSize
	}
	if c.Display.MaxNotify <= 0 {
		c.Display.MaxNotify = 10
	}
}

// TelegramReady reports whether notifications can be relayed to Telegram
func (c *Config) TelegramReady() bool {
	return c.Telegram.Enabled && c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
