package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"rentdash/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Logging    LoggingConfig    `yaml:"logging"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Server     ServerConfig     `yaml:"server"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Exports    ExportConfig     `yaml:"exports"`
	Consoles   []models.Console `yaml:"consoles"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// UpstreamConfig points at the external rental API.
type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CacheTTL       int    `yaml:"cache_ttl_seconds"`
	MaxSearchFetch int    `yaml:"max_search_fetch"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// SessionConfig locates the durable session store (token, profile, theme).
type SessionConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Port      int             `yaml:"port"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type AuthConfig struct {
	Enabled      bool        `yaml:"enabled"`
	HeaderAPIKey string      `yaml:"header_api_key"`
	APIKeys      []ClientKey `yaml:"api_keys"`
}

type ClientKey struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DashboardConfig struct {
	PageSize        int `yaml:"page_size"`
	DebounceMs      int `yaml:"debounce_ms"`
	PollSeconds     int `yaml:"poll_seconds"`
	NotificationCap int `yaml:"notification_cap"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the YAML config, expanding ${VAR} references from the
// environment (a .env file is honored when present).
func Load(configPath string) (*Config, error) {
	// .env is optional; ignore a missing file but not a malformed one.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream base_url is required")
	}
	if c.Session.Path == "" {
		return errors.New("session path is required")
	}
	return ValidateConsoles(c.Consoles)
}

// ValidateConsoles rejects duplicate or zero console IDs.
func ValidateConsoles(consoles []models.Console) error {
	seen := make(map[int64]bool)
	for _, console := range consoles {
		if console.ID == 0 {
			return fmt.Errorf("console '%s' has invalid ID 0", console.Name)
		}
		if seen[console.ID] {
			return fmt.Errorf("duplicate console ID found: %d", console.ID)
		}
		seen[console.ID] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Auth.HeaderAPIKey == "" {
		c.Server.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Upstream.TimeoutSeconds == 0 {
		c.Upstream.TimeoutSeconds = 10
	}
	if c.Upstream.CacheTTL == 0 {
		c.Upstream.CacheTTL = int(models.DefaultCacheTTL / time.Second)
	}
	if c.Upstream.MaxSearchFetch == 0 {
		c.Upstream.MaxSearchFetch = models.DefaultMaxSearchFetch
	}
	if c.Dashboard.PageSize == 0 {
		c.Dashboard.PageSize = models.DefaultPageSize
	}
	if c.Dashboard.DebounceMs == 0 {
		c.Dashboard.DebounceMs = int(models.DefaultSearchDebounce / time.Millisecond)
	}
	if c.Dashboard.PollSeconds == 0 {
		c.Dashboard.PollSeconds = int(models.DefaultPollInterval / time.Second)
	}
	if c.Dashboard.NotificationCap == 0 {
		c.Dashboard.NotificationCap = models.DefaultNotificationLimit
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// UpstreamTimeout returns the configured client timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// Debounce returns the search debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Dashboard.DebounceMs) * time.Millisecond
}

// PollInterval returns the background refresh interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Dashboard.PollSeconds) * time.Second
}

// CacheTTL returns the query cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Upstream.CacheTTL) * time.Second
}
