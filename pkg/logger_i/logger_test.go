package logger_i

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_ComponentAndSource(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	Init(Options{Level: "debug", JSON: true, Output: &buf})

	log := NewLogger("classifier").With("run", "r1")
	log.Warn("rule fell through", "path", "/a/b.txt")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["component"] != "classifier" || entry["run"] != "r1" {
		t.Errorf("missing attributes: %v", entry)
	}
	source, ok := entry["source"].(map[string]any)
	if !ok {
		t.Fatalf("expected source attribute, got %v", entry["source"])
	}
	if file, _ := source["file"].(string); !strings.HasSuffix(file, "logger_test.go") {
		t.Errorf("source should point at the caller, got %v", source["file"])
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	Init(Options{Level: "error", Output: &buf})

	log := NewLogger("test")
	log.Debug("hidden")
	log.Warn("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below error level, got %q", buf.String())
	}
	log.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("error record missing: %q", buf.String())
	}
}
