package slogobs

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
)

func TestOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	cfg := applyOptions(
		WithFormat(FormatPretty),
		WithLevel(slog.LevelError),
		WithOutput(buf),
		WithColors(true),
		WithLogger(logger),
	)

	if cfg.format != FormatPretty {
		t.Errorf("format = %v, want %v", cfg.format, FormatPretty)
	}
	if cfg.level != slog.LevelError {
		t.Errorf("level = %v, want %v", cfg.level, slog.LevelError)
	}
	if cfg.output != buf {
		t.Error("WithOutput did not set the output writer")
	}
	if !cfg.colors {
		t.Error("WithColors(true) did not enable colors")
	}
	if cfg.logger != logger {
		t.Error("WithLogger did not set the logger")
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("JSONMEND_LOG_FORMAT", "json")
	t.Setenv("JSONMEND_LOG_LEVEL", "debug")

	cfg := defaultConfig()
	if cfg.format != FormatJSON {
		t.Errorf("format = %v, want json from env", cfg.format)
	}
	if cfg.level != slog.LevelDebug {
		t.Errorf("level = %v, want DEBUG from env", cfg.level)
	}
	if cfg.output != os.Stderr {
		t.Error("default output should be stderr")
	}
	if cfg.logger != nil {
		t.Error("default logger should be nil")
	}
}
