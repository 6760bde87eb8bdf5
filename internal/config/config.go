// Package config loads the hubeau CLI configuration from defaults, an
// optional YAML file and HUBEAU_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/logging"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/ratelimit"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSessionFile = ".hubeau/session.json"
	DefaultOutDir      = "."
	DefaultRateBurst   = 1
)

// Environment variables overriding file values.
const (
	EnvBaseURL     = "HUBEAU_BASE_URL"
	EnvUserAgent   = "HUBEAU_USER_AGENT"
	EnvPageSize    = "HUBEAU_PAGE_SIZE"
	EnvPageDelay   = "HUBEAU_PAGE_DELAY"
	EnvRateLimit   = "HUBEAU_RATE_LIMIT"
	EnvLogLevel    = "HUBEAU_LOG_LEVEL"
	EnvLogPretty   = "HUBEAU_LOG_PRETTY"
	EnvSessionFile = "HUBEAU_SESSION_FILE"
	EnvMetricsAddr = "HUBEAU_METRICS_ADDR"
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
	Export  ExportConfig  `yaml:"export"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type APIConfig struct {
	BaseURL   string   `yaml:"base_url"`
	UserAgent string   `yaml:"user_agent"`
	Timeout   Duration `yaml:"timeout"`
}

type FetchConfig struct {
	PageSize  int      `yaml:"page_size"`
	PageDelay Duration `yaml:"page_delay"`

	// RateLimit switches pacing to a token bucket of RateLimit requests per
	// second when positive.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	EmptyWindow string `yaml:"empty_window"`
	StartYear   int    `yaml:"start_year"`
	EndYear     int    `yaml:"end_year"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type SessionConfig struct {
	File string `yaml:"file"`
}

type ExportConfig struct {
	OutDir string `yaml:"out_dir"`
}

type MetricsConfig struct {
	// Addr enables the /metrics endpoint when set (e.g. ":9090").
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the defaults for the public Hub'Eau API.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   client.DefaultBaseURL,
			UserAgent: client.DefaultUserAgent,
		},
		Fetch: FetchConfig{
			PageSize:    pagination.DefaultPageSize,
			PageDelay:   Duration{ratelimit.DefaultPageDelay},
			RateBurst:   DefaultRateBurst,
			EmptyWindow: string(pagination.StopOnEmpty),
			StartYear:   pagination.DefaultStartYear,
			EndYear:     pagination.DefaultEndYear,
		},
		Log: LogConfig{
			Level: string(logging.LevelInfo),
		},
		Session: SessionConfig{File: DefaultSessionFile},
		Export:  ExportConfig{OutDir: DefaultOutDir},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped when
// path is empty) and the environment, then validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("apply env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from HUBEAU_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok {
		c.API.BaseURL = v
	}
	if v, ok := lookup(EnvUserAgent); ok {
		c.API.UserAgent = v
	}
	if v, ok := lookup(EnvPageSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.Fetch.PageSize = n
	}
	if v, ok := lookup(EnvPageDelay); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageDelay, err)
		}
		c.Fetch.PageDelay = Duration{d}
	}
	if v, ok := lookup(EnvRateLimit); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRateLimit, err)
		}
		c.Fetch.RateLimit = r
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogPretty); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogPretty, err)
		}
		c.Log.Pretty = b
	}
	if v, ok := lookup(EnvSessionFile); ok {
		c.Session.File = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.Metrics.Addr = v
	}
	return nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url cannot be empty")
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url must include scheme and host (got %q)", c.API.BaseURL)
	}
	if c.API.Timeout.Duration < 0 {
		return errors.New("api.timeout cannot be negative")
	}
	if c.Fetch.PageSize <= 0 {
		return errors.New("fetch.page_size must be positive")
	}
	if c.Fetch.PageDelay.Duration < 0 {
		return errors.New("fetch.page_delay cannot be negative")
	}
	if c.Fetch.RateLimit < 0 {
		return errors.New("fetch.rate_limit cannot be negative")
	}
	if c.Fetch.RateLimit > 0 && c.Fetch.RateBurst < 1 {
		return errors.New("fetch.rate_burst must be >= 1 when rate_limit is set")
	}
	if _, err := pagination.ParseEmptyWindowPolicy(c.Fetch.EmptyWindow); err != nil {
		return fmt.Errorf("fetch.empty_window: %w", err)
	}
	if c.Fetch.StartYear > c.Fetch.EndYear {
		return fmt.Errorf("fetch.start_year (%d) cannot exceed fetch.end_year (%d)", c.Fetch.StartYear, c.Fetch.EndYear)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Session.File == "" {
		return errors.New("session.file cannot be empty")
	}
	return nil
}

// ClientConfig returns the client configuration for version.
func (c *Config) ClientConfig(version string) client.Config {
	return client.Config{
		BaseURL:   c.API.BaseURL,
		Version:   version,
		UserAgent: c.API.UserAgent,
		Timeout:   c.API.Timeout.Duration,
	}
}

// Pacer builds the inter-page pacer: a token bucket when a rate limit is
// set, a fixed delay otherwise.
func (c *Config) Pacer() (ratelimit.Pacer, error) {
	if c.Fetch.RateLimit > 0 {
		return ratelimit.NewLimiter(c.Fetch.RateLimit, c.Fetch.RateBurst)
	}
	return ratelimit.NewFixedDelay(c.Fetch.PageDelay.Duration), nil
}

// PaginationConfig builds the fetcher configuration. hook may be nil.
func (c *Config) PaginationConfig(hook pagination.Hook) (pagination.Config, error) {
	pacer, err := c.Pacer()
	if err != nil {
		return pagination.Config{}, err
	}
	policy, err := pagination.ParseEmptyWindowPolicy(c.Fetch.EmptyWindow)
	if err != nil {
		return pagination.Config{}, err
	}
	return pagination.Config{
		PageSize:      c.Fetch.PageSize,
		Pacer:         pacer,
		OnEmptyWindow: policy,
		Hook:          hook,
	}, nil
}

// LoggingConfig returns the logger configuration writing to stderr.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	cfg.Pretty = c.Log.Pretty
	return cfg
}
