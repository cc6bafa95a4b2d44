package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Auth     AuthConfig     `toml:"auth"`
	Loader   LoaderConfig   `toml:"loader"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig contains recipe backend connection settings.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	RequestTimeout string  `toml:"request_timeout"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second, 0 disables throttling
	Burst          int     `toml:"burst"`
}

// AuthConfig contains the identity used for user-scoped endpoints.
type AuthConfig struct {
	UserID string `toml:"user_id"`
	Token  string `toml:"token"`
}

// LoaderConfig controls the hydration pipeline.
type LoaderConfig struct {
	Workers     int    `toml:"workers"`
	DefaultMode string `toml:"default_mode"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports configuration values that would break the client.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Loader.Workers < 0 {
		return fmt.Errorf("%w: loader.workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Timeout parses api.request_timeout. An empty value means no per-request timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.API.RequestTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: api.request_timeout: %v", ErrInvalidConfig, err)
	}
	return d, nil
}

// Addr returns the host:port the JSON server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
