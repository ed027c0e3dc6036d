// Package config loads jsonmend settings from a YAML file, an optional .env
// file and JSONMEND_* environment variables, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/jsonmend/providers/observability/slogobs"
)

// Default configuration values
const (
	DefaultConfigPath        = "jsonmend.yaml"
	DefaultEnvFile           = ".env"
	DefaultAddr              = ":8080"
	DefaultMaxBodySize int64 = 4 * 1024 * 1024 // 4MB
)

// Environment variables read by Load.
const (
	EnvConfigPath  = "JSONMEND_CONFIG"
	EnvLogLevel    = "JSONMEND_LOG_LEVEL"
	EnvLogFormat   = "JSONMEND_LOG_FORMAT"
	EnvLogOutput   = "JSONMEND_LOG_OUTPUT"
	EnvAddr        = "JSONMEND_ADDR"
	EnvFallback    = "JSONMEND_FALLBACK"
	EnvMaxBodySize = "JSONMEND_MAX_BODY_SIZE"
)

// Config holds the settings shared by the CLI and the HTTP service.
type Config struct {
	Log struct {
		Level    string `yaml:"level"`  // DEBUG, INFO, WARN, ERROR
		Format   string `yaml:"format"` // compact, pretty, json
		Output   string `yaml:"output"` // stderr, stdout, /path/to/file (comma separated)
		Rotation struct {
			MaxSize    int  `yaml:"max_size"`    // Megabytes
			MaxBackups int  `yaml:"max_backups"` // Number of old files to keep
			MaxAge     int  `yaml:"max_age"`     // Days to keep
			Compress   bool `yaml:"compress"`
		} `yaml:"rotation"`
	} `yaml:"log"`

	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		MaxBodySize     int64         `yaml:"max_body_size"`
	} `yaml:"server"`

	Repair struct {
		Fallback bool `yaml:"fallback"` // append the jsonrepair strategy
		Jobs     int  `yaml:"jobs"`     // files repaired concurrently by the CLI
	} `yaml:"repair"`
}

// Default returns the configuration used when no file or variable overrides
// a value.
func Default() *Config {
	cfg := &Config{}

	cfg.Log.Level = "INFO"
	cfg.Log.Format = string(slogobs.FormatCompact)
	cfg.Log.Output = "stderr"
	cfg.Log.Rotation.MaxSize = 100
	cfg.Log.Rotation.MaxBackups = 5
	cfg.Log.Rotation.MaxAge = 7
	cfg.Log.Rotation.Compress = true

	cfg.Server.Addr = DefaultAddr
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Server.MaxBodySize = DefaultMaxBodySize

	cfg.Repair.Jobs = 4

	return cfg
}

// Load builds the configuration. The .env file in the working directory is
// read first so it can also name the config file. path overrides
// JSONMEND_CONFIG; a missing config file is not an error. The result is
// validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DefaultEnvFile, err)
	}

	if path == "" {
		path = getEnv(EnvConfigPath, DefaultConfigPath)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		slog.Debug("config loaded", "path", path)
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("config not found, using defaults", "path", path)
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.Format = getEnv(EnvLogFormat, c.Log.Format)
	c.Log.Output = getEnv(EnvLogOutput, c.Log.Output)
	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)

	if v := getEnv(EnvFallback, ""); v != "" {
		fallback, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFallback, err)
		}
		c.Repair.Fallback = fallback
	}
	if v := getEnv(EnvMaxBodySize, ""); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxBodySize, err)
		}
		c.Server.MaxBodySize = size
	}
	return nil
}

// Validate reports every invalid setting in a single error.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToUpper(strings.TrimSpace(c.Log.Level)) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level: %q", c.Log.Level))
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "compact", "text", "pretty", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format: %q", c.Log.Format))
	}

	if c.Server.Addr == "" {
		errs = append(errs, "server address is required")
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Sprintf("invalid max body size: %d", c.Server.MaxBodySize))
	}
	if c.Repair.Jobs < 1 {
		errs = append(errs, fmt.Sprintf("invalid repair jobs: %d", c.Repair.Jobs))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LogLevel returns the parsed Log.Level.
func (c *Config) LogLevel() slog.Level {
	return slogobs.ParseLogLevel(c.Log.Level)
}

// LogFormat returns the parsed Log.Format.
func (c *Config) LogFormat() slogobs.Format {
	return slogobs.ParseFormat(c.Log.Format)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
