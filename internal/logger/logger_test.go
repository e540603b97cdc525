package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"peopledetect/internal/config"
)

func TestNewLogger_WritesLevelFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewLogger(&config.Config{LogDirectory: dir})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("gate %s", "ready")
	logger.Warning("port %s skipped", "/dev/ttyS0")
	logger.Error("transport lost")
	logger.Debug("hidden")

	info, _ := os.ReadFile(filepath.Join(dir, "info.log"))
	if !strings.Contains(string(info), "gate ready") {
		t.Errorf("info.log missing entry: %q", info)
	}
	if strings.Contains(string(info), "hidden") {
		t.Error("debug entry written while debug is disabled")
	}

	warning, _ := os.ReadFile(filepath.Join(dir, "warning.log"))
	if !strings.Contains(string(warning), "/dev/ttyS0") {
		t.Errorf("warning.log missing entry: %q", warning)
	}

	errs, _ := os.ReadFile(filepath.Join(dir, "error.log"))
	if !strings.Contains(string(errs), "transport lost") {
		t.Errorf("error.log missing entry: %q", errs)
	}
}

func TestCleanLogs(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(&config.Config{LogDirectory: dir})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Error("something broke")
	if err := logger.CleanLogs("error.log"); err != nil {
		t.Fatalf("CleanLogs failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "error.log"))
	if len(data) != 0 {
		t.Errorf("Expected empty error.log, got %q", data)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("nothing")
	if err := logger.CleanLogs("info.log"); err == nil {
		t.Error("Expected error without log directory")
	}
}
