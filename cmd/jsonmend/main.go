// Command jsonmend repairs malformed JSON from files or stdin, converts
// Base64 and serves the same operations over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/leofalp/jsonmend/core/repair"
	"github.com/leofalp/jsonmend/internal/config"
	"github.com/leofalp/jsonmend/internal/logging"
	"github.com/leofalp/jsonmend/internal/metrics"
	"github.com/leofalp/jsonmend/providers/observability"
)

var version = "dev"

// errUnrepaired makes the process exit with status 1 without the usual
// error banner; the failures have already been reported per input.
var errUnrepaired = errors.New("some inputs could not be repaired")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{ctx: ctx, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	app := newApp(c)

	if _, err := app.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, errUnrepaired) {
			stop()
			os.Exit(1)
		}
		app.Fatalf("%v", err)
	}
}

// cli carries the streams and global flags shared by every command.
type cli struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
}

func newApp(c *cli) *kingpin.Application {
	app := kingpin.New("jsonmend", "Repair malformed JSON emitted by language models, loggers and copy-paste.")
	app.Version(version)
	app.HelpFlag.Short('h')
	app.UsageWriter(c.stderr)
	app.ErrorWriter(c.stderr)

	app.Flag("config", "Path to the YAML config file (default $JSONMEND_CONFIG or jsonmend.yaml).").Short('c').StringVar(&c.configPath)
	app.Flag("log-level", "Log level (debug, info, warn, error).").StringVar(&c.logLevel)
	app.Flag("log-format", "Log format.").EnumVar(&c.logFormat, "compact", "pretty", "json")

	addRepairCommand(app, c)
	addBase64Commands(app, c)
	addServeCommand(app, c)
	return app
}

// runtime is what a command needs after configuration has been resolved.
type runtime struct {
	cfg      *config.Config
	observer observability.Provider
	close    func() error
}

// setup loads configuration, applies the global flag overrides and builds
// the observer. Repair metrics are mirrored into Prometheus.
func (c *cli) setup() (*runtime, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	observer, closeLogs := logging.Setup(cfg)
	return &runtime{
		cfg:      cfg,
		observer: metrics.Wrap(observer),
		close:    closeLogs,
	}, nil
}

func (r *runtime) pipeline(fallback bool) *repair.Pipeline {
	return repair.New(
		repair.WithFallback(fallback || r.cfg.Repair.Fallback),
		repair.WithObserver(r.observer),
	)
}

func (r *runtime) shutdown(c *cli) {
	if err := r.close(); err != nil {
		fmt.Fprintf(c.stderr, "jsonmend: close log outputs: %v\n", err)
	}
}
