package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/config"
)

func TestNew_DisabledIsNop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := New(config.LogConfig{Debug: false, Path: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled logger should not create a file")
	}
}

func TestNew_DebugWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := New(config.LogConfig{Debug: true, Path: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("transition")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if entry["msg"] != "transition" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewConsole(t *testing.T) {
	logger, err := NewConsole(true)
	if err != nil {
		t.Fatalf("NewConsole failed: %v", err)
	}
	if !logger.Core().Enabled(-1) {
		t.Error("debug console logger should enable debug level")
	}
}
