package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{level: LevelDebug, want: slog.LevelDebug},
		{level: LevelInfo, want: slog.LevelInfo},
		{level: LevelWarn, want: slog.LevelWarn},
		{level: LevelError, want: slog.LevelError},
		{level: Level("verbose"), want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			logger := New(Config{Level: tt.level, Output: "discard"})

			if !logger.Enabled(context.Background(), tt.want) {
				t.Errorf("expected level %v to be enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-4) {
				t.Errorf("expected level %v to be disabled", tt.want-4)
			}
		})
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spadesk.log")

	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: path})
	logger.With("entity", "gift-cards").Info("listing served", "rows", 3)

	var entry map[string]any
	if err := json.Unmarshal([]byte(readLog(t, path)), &entry); err != nil {
		t.Fatalf("expected valid JSON output, got error: %v", err)
	}

	if entry["msg"] != "listing served" {
		t.Errorf("expected msg %q, got %v", "listing served", entry["msg"])
	}
	if entry["entity"] != "gift-cards" {
		t.Errorf("expected entity %q, got %v", "gift-cards", entry["entity"])
	}
	if entry["rows"] != float64(3) {
		t.Errorf("expected rows 3, got %v", entry["rows"])
	}
}

func TestTextFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spadesk.log")

	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: path})
	logger.Debug("hidden")
	logger.Info("test message", "key", "value")

	output := readLog(t, path)

	if strings.Contains(output, "hidden") {
		t.Errorf("expected debug message to be filtered, got %s", output)
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected output to contain 'key=value', got %s", output)
	}
}
