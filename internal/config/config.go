// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultContentURL    = "https://bhagvad-gita-api.vercel.app"
	DefaultPreferenceURL = "https://bhagvad-gita-db.vercel.app"
)

// Environment variables recognized on top of the YAML file.
const (
	EnvBotToken           = "BOT_TOKEN"
	EnvPreferenceURL      = "PREFERENCE_API_URL"
	EnvPreferenceUsername = "PREFERENCE_API_USERNAME"
	EnvPreferencePassword = "PREFERENCE_API_PASSWORD"
	EnvContentURL         = "CONTENT_API_URL"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string `yaml:"token"`
	Mode     string `yaml:"mode"` // polling | noop
	Username string `yaml:"username"`
	Workers  int    `yaml:"workers"` // update workers
	// RateLimit is the number of commands a user may send per minute; 0 disables it.
	RateLimit int `yaml:"rate_limit"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

// PreferenceConfig points at the remote user-preference service.
type PreferenceConfig struct {
	URL         string        `yaml:"url"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// ContentConfig points at the remote verse content service.
type ContentConfig struct {
	URL         string        `yaml:"url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	AudioDir    string        `yaml:"audio_dir"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables rate limiting and verse caching
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type OpsConfig struct {
	Port int `yaml:"port"`
}

type JanitorConfig struct {
	Interval time.Duration `yaml:"interval"`
	MaxAge   time.Duration `yaml:"max_age"`
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	Log        LogConfig        `yaml:"log"`
	Preference PreferenceConfig `yaml:"preference"`
	Content    ContentConfig    `yaml:"content"`
	Redis      RedisConfig      `yaml:"redis"`
	Ops        OpsConfig        `yaml:"ops"`
	Janitor    JanitorConfig    `yaml:"janitor"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (a missing file is allowed), loads a
// .env file next to the working directory if present, and lets environment
// variables override the file.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only deployment
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Bot.Token, EnvBotToken)
	setFromEnv(&cfg.Preference.URL, EnvPreferenceURL)
	setFromEnv(&cfg.Preference.Username, EnvPreferenceUsername)
	setFromEnv(&cfg.Preference.Password, EnvPreferencePassword)
	setFromEnv(&cfg.Content.URL, EnvContentURL)
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Preference.URL == "" {
		cfg.Preference.URL = DefaultPreferenceURL
	}
	if cfg.Content.URL == "" {
		cfg.Content.URL = DefaultContentURL
	}
	cfg.Preference.URL = strings.TrimRight(cfg.Preference.URL, "/")
	cfg.Content.URL = strings.TrimRight(cfg.Content.URL, "/")
	cfg.Preference.HTTPTimeout = normalize(cfg.Preference.HTTPTimeout, 15*time.Second)
	cfg.Content.HTTPTimeout = normalize(cfg.Content.HTTPTimeout, 15*time.Second)
	if cfg.Content.AudioDir == "" {
		cfg.Content.AudioDir = filepath.Join(os.TempDir(), "gita-audio")
	}
	cfg.Redis.TTL = normalize(cfg.Redis.TTL, time.Hour)
	if cfg.Ops.Port <= 0 {
		cfg.Ops.Port = 9090
	}
	cfg.Janitor.Interval = normalize(cfg.Janitor.Interval, 10*time.Minute)
	cfg.Janitor.MaxAge = normalize(cfg.Janitor.MaxAge, time.Hour)
}

// IsNoop reports whether the bot runs against the console instead of Telegram.
func (b BotConfig) IsNoop() bool { return strings.EqualFold(strings.TrimSpace(b.Mode), "noop") }

// IsPolling reports whether mode names long polling. Callers fall back to
// polling for unknown modes but should warn about them.
func (b BotConfig) IsPolling() bool { return strings.EqualFold(strings.TrimSpace(b.Mode), "polling") }

// Validate performs minimal validation of required settings.
func (c *Config) Validate() error {
	if c.Bot.Token == "" && !c.Bot.IsNoop() {
		return errors.New("bot.token (or BOT_TOKEN) is required")
	}
	if c.Preference.Username == "" || c.Preference.Password == "" {
		return errors.New("preference service credentials are required")
	}
	return nil
}

func normalize(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
