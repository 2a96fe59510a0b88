// Package config loads the valmetrics TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Config holds all user settings.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Season  SeasonConfig  `toml:"season"`
	Log     LogConfig     `toml:"log"`
	Ledger  LedgerConfig  `toml:"ledger"`
}

type StorageConfig struct {
	Path string `toml:"path"` // SQLite database file
}

type SeasonConfig struct {
	Current string `toml:"current"` // season new matches are recorded under
}

type LogConfig struct {
	Level  string `toml:"level"`  // logrus level name
	Format string `toml:"format"` // "text" or "json"
}

type LedgerConfig struct {
	Workers int `toml:"workers"` // players updated in parallel per match
}

// Dir returns the per-user settings directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".valmetrics"
	}
	return filepath.Join(home, ".valmetrics")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Path: filepath.Join(Dir(), "metrics.db")},
		Log:     LogConfig{Level: "warning", Format: "text"},
		Ledger:  LedgerConfig{Workers: 4},
	}
}

// Load reads the config at path. A missing file yields the defaults; keys
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes c to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path cannot be empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q: want text or json", c.Log.Format)
	}
	if c.Ledger.Workers < 1 {
		return fmt.Errorf("ledger workers must be at least 1: %d", c.Ledger.Workers)
	}
	return nil
}

// Logger builds a logrus logger from the log settings.
func (c *Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l, nil
}
