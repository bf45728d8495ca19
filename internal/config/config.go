// Package config loads liftlog settings from an optional YAML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Cache backends for the query cache.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds every runtime setting.
type Config struct {
	APIURL   string   `yaml:"api_url" env:"LIFTLOG_API_URL" env-default:"http://localhost:8000"`
	WebURL   string   `yaml:"web_url" env:"LIFTLOG_WEB_URL" env-default:"http://localhost:3000"`
	StateDir string   `yaml:"state_dir" env:"LIFTLOG_STATE_DIR"`
	LogLevel string   `yaml:"log_level" env:"LIFTLOG_LOG_LEVEL" env-default:"info"`
	LogFile  string   `yaml:"log_file" env:"LIFTLOG_LOG_FILE"`
	HTTP     HTTP     `yaml:"http"`
	Query    Query    `yaml:"query"`
	Redis    Redis    `yaml:"redis"`
	Workflow Workflow `yaml:"workflow"`
}

// HTTP configures the API client.
type HTTP struct {
	Timeout   time.Duration `yaml:"timeout" env:"LIFTLOG_HTTP_TIMEOUT" env-default:"30s"`
	RateLimit float64       `yaml:"rate_limit" env:"LIFTLOG_RATE_LIMIT" env-default:"10"`
	Burst     int           `yaml:"burst" env:"LIFTLOG_RATE_BURST" env-default:"5"`
}

// Query configures fetch caching and retries.
type Query struct {
	StaleTime  time.Duration `yaml:"stale_time" env:"LIFTLOG_QUERY_STALE_TIME" env-default:"5m"`
	Retry      int           `yaml:"retry" env:"LIFTLOG_QUERY_RETRY" env-default:"0"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"LIFTLOG_QUERY_RETRY_DELAY" env-default:"1s"`
	Cache      string        `yaml:"cache" env:"LIFTLOG_QUERY_CACHE" env-default:"memory"`

	// RefetchOnFocus drops cached reads whenever a tab is entered.
	RefetchOnFocus bool `yaml:"refetch_on_focus" env:"LIFTLOG_QUERY_REFETCH_ON_FOCUS" env-default:"false"`
}

// Redis configures the shared query cache when Query.Cache is "redis".
type Redis struct {
	Addr        string        `yaml:"addr" env:"LIFTLOG_REDIS_ADDR" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"LIFTLOG_REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"LIFTLOG_REDIS_DB" env-default:"0"`
	Prefix      string        `yaml:"prefix" env:"LIFTLOG_REDIS_PREFIX" env-default:"liftlog:"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"LIFTLOG_REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

// Workflow configures multi-step submissions.
type Workflow struct {
	// RollbackPartial deletes a created workout when one of its entries fails.
	RollbackPartial bool `yaml:"rollback_partial" env:"LIFTLOG_ROLLBACK_PARTIAL" env-default:"false"`
}

// Load reads configuration. path may be empty, in which case LIFTLOG_CONFIG
// and then ~/.liftlog/config.yaml are tried; a missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("LIFTLOG_CONFIG")
	}
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".liftlog", "config.yaml")
		}
	}

	var cfg Config
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: env: %w", err)
	}

	if err := cfg.fill(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// fill derives path defaults and rejects unusable values.
func (c *Config) fill() error {
	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("state dir: %w", err)
		}
		c.StateDir = filepath.Join(home, ".liftlog")
	}
	if c.LogFile == "" {
		dir, err := LogDir()
		if err != nil {
			return fmt.Errorf("log dir: %w", err)
		}
		c.LogFile = filepath.Join(dir, "liftlog.log")
	}
	if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q is not an absolute URL", c.APIURL)
	}
	switch c.Query.Cache {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("query.cache must be %q or %q, got %q", CacheMemory, CacheRedis, c.Query.Cache)
	}
	if c.Query.Retry < 0 {
		return fmt.Errorf("query.retry must not be negative")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
