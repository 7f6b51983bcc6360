// Package config provides configuration loading and validation for painel.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/painel/internal/boardsync"
	"github.com/hay-kot/painel/internal/core/styles"
	"github.com/hay-kot/painel/internal/data/db"
)

// DefaultEndpoint is the shared remote document used until the user configures
// another one.
const DefaultEndpoint = "https://script.google.com/macros/s/AKfycbyR8h7jUeu-TC4i9Dg0-gQjUE2Gqbey6J4FdCVPc9SXctR1-9gmelu8SCNQ8gOOg7OiDw/exec"

// Config holds the application configuration.
type Config struct {
	// Endpoint is the remote used when local storage has no saved endpoint.
	Endpoint string         `yaml:"endpoint"`
	Sync     SyncConfig     `yaml:"sync"`
	Database DatabaseConfig `yaml:"database"`
	Serve    ServeConfig    `yaml:"serve"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set via flag/env, not config file
}

// SyncConfig holds the timings of the sync engine.
type SyncConfig struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	QuietPeriod    time.Duration `yaml:"quiet_period"`
	SavedDisplay   time.Duration `yaml:"saved_display"`
	EchoGuard      time.Duration `yaml:"echo_guard"`
	EndpointFlash  time.Duration `yaml:"endpoint_flash"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// ServeConfig holds settings for the local document server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	dbDefaults := db.DefaultOpenOptions()
	return Config{
		Endpoint: DefaultEndpoint,
		Sync: SyncConfig{
			PollInterval:   5 * time.Second,
			QuietPeriod:    time.Second,
			SavedDisplay:   2 * time.Second,
			EchoGuard:      2 * time.Second,
			EndpointFlash:  time.Second,
			RequestTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: dbDefaults.MaxOpenConns,
			MaxIdleConns: dbDefaults.MaxIdleConns,
			BusyTimeout:  dbDefaults.BusyTimeout,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
			Path: "/exec",
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
// An explicit empty endpoint is kept: it means offline.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Sync.PollInterval == 0 {
		c.Sync.PollInterval = defaults.Sync.PollInterval
	}
	if c.Sync.QuietPeriod == 0 {
		c.Sync.QuietPeriod = defaults.Sync.QuietPeriod
	}
	if c.Sync.SavedDisplay == 0 {
		c.Sync.SavedDisplay = defaults.Sync.SavedDisplay
	}
	if c.Sync.EchoGuard == 0 {
		c.Sync.EchoGuard = defaults.Sync.EchoGuard
	}
	if c.Sync.EndpointFlash == 0 {
		c.Sync.EndpointFlash = defaults.Sync.EndpointFlash
	}
	if c.Sync.RequestTimeout == 0 {
		c.Sync.RequestTimeout = defaults.Sync.RequestTimeout
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}

	if c.Serve.Addr == "" {
		c.Serve.Addr = defaults.Serve.Addr
	}
	if c.Serve.Path == "" {
		c.Serve.Path = defaults.Serve.Path
	}

	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// SyncOptions converts the sync section into engine options.
func (c *Config) SyncOptions() boardsync.Options {
	return boardsync.Options{
		PollInterval:   c.Sync.PollInterval,
		QuietPeriod:    c.Sync.QuietPeriod,
		SavedDisplay:   c.Sync.SavedDisplay,
		EchoGuard:      c.Sync.EchoGuard,
		EndpointFlash:  c.Sync.EndpointFlash,
		RequestTimeout: c.Sync.RequestTimeout,
	}
}

// OpenOptions converts the database section into db open options.
func (c *Config) OpenOptions() db.OpenOptions {
	return db.OpenOptions{
		MaxOpenConns: c.Database.MaxOpenConns,
		MaxIdleConns: c.Database.MaxIdleConns,
		BusyTimeout:  c.Database.BusyTimeout,
	}
}

// DatabaseFile returns the path of the SQLite database.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, db.FileName)
}

// LogFile returns the default log file path inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "painel.log")
}
