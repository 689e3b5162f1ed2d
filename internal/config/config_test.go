package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected day_start 08:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "19:00" {
		t.Errorf("expected day_end 19:00, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.Schedule.SlotMinutes != 15 {
		t.Errorf("expected slot_minutes 15, got %d", cfg.Schedule.SlotMinutes)
	}
	if cfg.UseRemote() {
		t.Error("expected local storage by default")
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected theme dark, got %s", cfg.UI.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected default day_start, got %s", cfg.Schedule.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
day_start = "07:00"
day_end = "16:00"
slot_minutes = 30

[storage]
db_path = "/tmp/test.db"

[remote]
base_url = "http://localhost:9090"
timeout = "3s"

[ui]
theme = "light"

[log]
debug = true
path = "/tmp/barbery.log"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "07:00" {
		t.Errorf("expected day_start 07:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.SlotMinutes != 30 {
		t.Errorf("expected slot_minutes 30, got %d", cfg.Schedule.SlotMinutes)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if !cfg.UseRemote() || cfg.Remote.BaseURL != "http://localhost:9090" {
		t.Errorf("expected remote base_url, got %q", cfg.Remote.BaseURL)
	}
	if d, _ := cfg.RemoteTimeout(); d != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", d)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("expected theme light, got %s", cfg.UI.Theme)
	}
	if !cfg.Log.Debug || cfg.Log.Path != "/tmp/barbery.log" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[schedule\nday_start="), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
day_start = "08:00"
day_end = "16:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("BARBERY_DAY_START", "10:00")
	t.Setenv("BARBERY_SLOT_MINUTES", "20")
	t.Setenv("BARBERY_REMOTE_URL", "https://salon.example.com")
	t.Setenv("BARBERY_DEBUG", "true")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "10:00" {
		t.Errorf("expected day_start 10:00 from env, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "16:00" {
		t.Errorf("expected day_end 16:00 from file, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.Schedule.SlotMinutes != 20 {
		t.Errorf("expected slot_minutes 20 from env, got %d", cfg.Schedule.SlotMinutes)
	}
	if cfg.Remote.BaseURL != "https://salon.example.com" {
		t.Errorf("expected remote url from env, got %s", cfg.Remote.BaseURL)
	}
	if !cfg.Log.Debug {
		t.Error("expected debug from env")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"day start missing leading zero", func(c *Config) { c.Schedule.DayStart = "9:00" }, false},
		{"day start after day end", func(c *Config) { c.Schedule.DayStart, c.Schedule.DayEnd = "18:00", "09:00" }, false},
		{"slot does not divide hour", func(c *Config) { c.Schedule.SlotMinutes = 25 }, false},
		{"zero slot", func(c *Config) { c.Schedule.SlotMinutes = 0 }, false},
		{"no storage", func(c *Config) { c.Storage.DBPath = "" }, false},
		{"remote without db path", func(c *Config) {
			c.Storage.DBPath = ""
			c.Remote.BaseURL = "http://localhost:8080"
		}, true},
		{"remote not http", func(c *Config) { c.Remote.BaseURL = "ftp://host" }, false},
		{"bad timeout", func(c *Config) { c.Remote.Timeout = "soon" }, false},
		{"empty timeout", func(c *Config) { c.Remote.Timeout = "" }, true},
		{"unknown theme", func(c *Config) { c.UI.Theme = "mocha" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Schedule.DayStart = "07:30"
	cfg.Schedule.DayEnd = "15:30"
	cfg.Schedule.SlotMinutes = 10
	cfg.UI.Theme = "light"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Schedule.DayStart != "07:30" {
		t.Errorf("expected day_start 07:30, got %s", loaded.Schedule.DayStart)
	}
	if loaded.Schedule.DayEnd != "15:30" {
		t.Errorf("expected day_end 15:30, got %s", loaded.Schedule.DayEnd)
	}
	if loaded.Schedule.SlotMinutes != 10 {
		t.Errorf("expected slot_minutes 10, got %d", loaded.Schedule.SlotMinutes)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("expected theme light, got %s", loaded.UI.Theme)
	}
}
