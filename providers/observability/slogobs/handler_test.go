package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(format Format, level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := NewHandler(&HandlerOptions{
		Format: format,
		Level:  level,
		Output: &buf,
	})
	return slog.New(handler), &buf
}

func TestHandler_Compact(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelDebug)
	logger.Info("json repaired", "repair.strategy", "deep-clean", "repair.attempts", 7)

	output := buf.String()
	if !strings.Contains(output, " INFO json repaired ") {
		t.Errorf("Expected level and message in output, got: %s", output)
	}
	// Keys are sorted.
	if !strings.Contains(output, `{"repair.attempts":7,"repair.strategy":"deep-clean"}`) {
		t.Errorf("Expected sorted JSON attributes in output, got: %s", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("Expected trailing newline, got: %q", output)
	}
}

func TestHandler_Pretty(t *testing.T) {
	logger, buf := newTestLogger(FormatPretty, slog.LevelDebug)
	logger.Warn("json repair failed", "repair.attempts", 8, "error", errors.New("unexpected end of JSON input"))

	output := buf.String()
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), output)
	}
	if !strings.Contains(lines[0], "WARN") || !strings.Contains(lines[0], "json repair failed") {
		t.Errorf("Unexpected header line: %q", lines[0])
	}
	if lines[1] != "    error = unexpected end of JSON input" {
		t.Errorf("Unexpected first attribute line: %q", lines[1])
	}
	if lines[2] != "    repair.attempts = 8" {
		t.Errorf("Unexpected second attribute line: %q", lines[2])
	}
}

func TestHandler_JSON(t *testing.T) {
	logger, buf := newTestLogger(FormatJSON, slog.LevelDebug)
	logger.Error("read input failed", "input.source", "dashboard.json", "duration", 1500*time.Millisecond)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Output is not valid JSON: %v (%s)", err, buf.String())
	}
	if record["level"] != "ERROR" {
		t.Errorf("Expected level ERROR, got %v", record["level"])
	}
	if record["msg"] != "read input failed" {
		t.Errorf("Expected msg, got %v", record["msg"])
	}
	if record["input.source"] != "dashboard.json" {
		t.Errorf("Expected input.source attribute, got %v", record["input.source"])
	}
	if record["duration"] != "1.5s" {
		t.Errorf("Expected duration rendered as string, got %v", record["duration"])
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelWarn)
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("Messages below WARN should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn message") {
		t.Errorf("Expected warn message, got: %s", output)
	}
}

func TestHandler_NoAttributes(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelDebug)
	logger.Info("server stopped")

	if strings.Contains(buf.String(), "{") {
		t.Errorf("Expected no attribute object, got: %s", buf.String())
	}
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	logger, buf := newTestLogger(FormatJSON, slog.LevelDebug)
	logger = logger.With("component", "server").WithGroup("http")
	logger.Info("request", "method", "POST", slog.Group("body", "size", 42))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if record["component"] != "server" {
		t.Errorf("Expected handler attribute without group prefix, got %v", record)
	}
	if record["http.method"] != "POST" {
		t.Errorf("Expected grouped key http.method, got %v", record)
	}
	if record["http.body.size"] != float64(42) {
		t.Errorf("Expected nested group key http.body.size, got %v", record)
	}
}

func TestHandler_Enabled(t *testing.T) {
	handler := NewHandler(&HandlerOptions{Level: slog.LevelInfo, Output: &bytes.Buffer{}})

	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("DEBUG should be disabled at INFO level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("ERROR should be enabled at INFO level")
	}
}

func TestNewHandler_Defaults(t *testing.T) {
	handler := NewHandler(nil)
	if handler.format != FormatCompact {
		t.Errorf("Expected compact default format, got %v", handler.format)
	}
	if handler.output == nil {
		t.Error("Expected a default output")
	}
}
