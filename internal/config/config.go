// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	Remote   RemoteConfig   `toml:"remote"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// ScheduleConfig holds the calendar grid settings.
type ScheduleConfig struct {
	DayStart    string `toml:"day_start"`    // e.g., "08:00"
	DayEnd      string `toml:"day_end"`      // e.g., "19:00"
	SlotMinutes int    `toml:"slot_minutes"` // grid row height and resize step
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// RemoteConfig points the console at a remote data service.
// An empty BaseURL means the local SQLite store is used.
type RemoteConfig struct {
	BaseURL string `toml:"base_url"` // e.g., "http://localhost:8080"
	Timeout string `toml:"timeout"`  // Go duration, e.g., "10s"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "dark" or "light"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Path  string `toml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DayStart:    "08:00",
			DayEnd:      "19:00",
			SlotMinutes: 15,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Remote: RemoteConfig{
			Timeout: "10s",
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Log: LogConfig{
			Path: "barbery-debug.log",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "barbery.db"
	}
	return filepath.Join(home, ".local", "share", "barbery", "barbery.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "barbery", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies BARBERY_* environment variables.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BARBERY_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("BARBERY_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}
	if v := os.Getenv("BARBERY_SLOT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.SlotMinutes = n
		}
	}

	if v := os.Getenv("BARBERY_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("BARBERY_REMOTE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("BARBERY_REMOTE_TIMEOUT"); v != "" {
		cfg.Remote.Timeout = v
	}

	if v := os.Getenv("BARBERY_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	if v := os.Getenv("BARBERY_DEBUG"); v != "" {
		cfg.Log.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("BARBERY_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateTime(c.Schedule.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Schedule.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}
	if c.Schedule.SlotMinutes <= 0 || 60%c.Schedule.SlotMinutes != 0 {
		return fmt.Errorf("slot_minutes must divide an hour, got %d", c.Schedule.SlotMinutes)
	}
	if c.Storage.DBPath == "" && c.Remote.BaseURL == "" {
		return errors.New("db_path must be set")
	}
	if c.Remote.BaseURL != "" {
		if !strings.HasPrefix(c.Remote.BaseURL, "http://") && !strings.HasPrefix(c.Remote.BaseURL, "https://") {
			return fmt.Errorf("remote base_url must be an http(s) URL, got %q", c.Remote.BaseURL)
		}
	}
	if _, err := c.RemoteTimeout(); err != nil {
		return err
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("theme must be dark or light, got %q", c.UI.Theme)
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// UseRemote reports whether a remote data service is configured.
func (c *Config) UseRemote() bool {
	return c.Remote.BaseURL != ""
}

// RemoteTimeout parses the remote timeout. Empty means no timeout.
func (c *Config) RemoteTimeout() (time.Duration, error) {
	if c.Remote.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Remote.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("remote timeout must be a duration like 10s, got %q", c.Remote.Timeout)
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
