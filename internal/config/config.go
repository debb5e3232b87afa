// Package config loads the TOML client configuration, writing defaults on
// first run.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultServerURL      = "http://localhost:8000"
	DefaultPageSize       = 20
)

type Config struct {
	// ServerURL is the base URL of the AskBob API server.
	ServerURL string `toml:"server_url"`
	// PageSize is the initial task-list page size (the `limit` query knob).
	PageSize int `toml:"page_size"`
	// RequestTimeoutSeconds bounds each API call. 0 disables the client-side
	// timeout; a stuck server then shows a perpetual loading state.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
	// TokenPath overrides where the session token is stored.
	TokenPath string `toml:"token_path"`
}

// DefaultPath returns ($XDG_CONFIG_HOME|~/.config)/askbob/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "askbob", DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing one with defaults if it
// does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return cfg, nil
}

// Timeout returns the configured per-request timeout, 0 meaning none.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		ServerURL: DefaultServerURL,
		PageSize:  DefaultPageSize,
	}
}
