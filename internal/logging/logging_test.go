package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Options{Level: "info", Format: "json"}, &buf)
	logger.Debug("hidden")
	logger.Info("round complete", "attempts", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "round complete" || rec["attempts"] != float64(2) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewWithWriter_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Options{Level: "debug"}, &buf)
	logger.Debug("candidate added", "worker", "Ann")
	if !strings.Contains(buf.String(), "worker=Ann") {
		t.Errorf("output = %q", buf.String())
	}
}
