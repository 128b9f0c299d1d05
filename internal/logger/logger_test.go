package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Close() })

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("habit toggled", "habit", "h1")
	Warn("record repaired", "key", "habitflow_habits")

	logFile := filepath.Join(configDir, "logs", "habitflow.log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "record repaired") {
		t.Errorf("log file missing warning line: %s", data)
	}
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { Close() })

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	Debug("Test debug message in debug mode")
}

func TestUseWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, false)
	t.Cleanup(func() { Logger = nil })

	Debug("hidden")
	Warn("advisor fallback", "reason", "no_api_key")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %s", out)
	}
	if !strings.Contains(out, "reason=no_api_key") {
		t.Errorf("expected structured key in output, got %s", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitWithInvalidDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := Init(Config{ConfigDir: blocker}); err == nil {
		t.Error("expected an error when the config dir is a regular file")
	}
}
