package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./recipebox.db" {
			t.Errorf("expected database path ./recipebox.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 4000 {
			t.Errorf("expected server port 4000, got %d", config.Server.Port)
		}

		if config.API.BaseURL != "http://127.0.0.1:3000/api" {
			t.Errorf("expected api base URL http://127.0.0.1:3000/api, got %s", config.API.BaseURL)
		}

		if config.Loader.Workers != 1 {
			t.Errorf("expected 1 loader worker, got %d", config.Loader.Workers)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://recipes.example.com/api"
request_timeout = "3s"
rate_limit = 2.5
burst = 2

[auth]
user_id = "42"
token = "secret"

[loader]
workers = 4
default_mode = "saved"

[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Auth.UserID != "42" {
			t.Errorf("expected user id 42, got %s", config.Auth.UserID)
		}

		if config.Loader.Workers != 4 {
			t.Errorf("expected 4 workers, got %d", config.Loader.Workers)
		}

		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.API.RateLimit)
		}

		timeout, err := config.Timeout()
		if err != nil {
			t.Fatalf("unexpected timeout error: %v", err)
		}
		if timeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %v", timeout)
		}

		if config.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Addr())
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "  " }},
			{name: "bad timeout", mutate: func(c *Config) { c.API.RequestTimeout = "soon" }},
			{name: "negative rate", mutate: func(c *Config) { c.API.RateLimit = -1 }},
			{name: "negative workers", mutate: func(c *Config) { c.Loader.Workers = -2 }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)

				err := config.Validate()
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("Empty Timeout Disables", func(t *testing.T) {
		config := DefaultConfig()
		config.API.RequestTimeout = ""

		timeout, err := config.Timeout()
		if err != nil || timeout != 0 {
			t.Errorf("expected (0, nil), got (%v, %v)", timeout, err)
		}
	})
}
