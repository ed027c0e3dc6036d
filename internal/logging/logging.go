// Package logging builds the process-wide observer from configuration.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/leofalp/jsonmend/internal/config"
	"github.com/leofalp/jsonmend/providers/observability/slogobs"
)

// Setup creates an observer writing to every output named in
// cfg.Log.Output (comma separated: stderr, stdout or a file path). File
// outputs are rotated with lumberjack. The returned function closes them.
func Setup(cfg *config.Config) (*slogobs.Observer, func() error) {
	writers, closers := Writers(cfg)

	var out io.Writer = writers[0]
	if len(writers) > 1 {
		out = io.MultiWriter(writers...)
	}

	observer := slogobs.New(
		slogobs.WithOutput(out),
		slogobs.WithFormat(cfg.LogFormat()),
		slogobs.WithLevel(cfg.LogLevel()),
	)
	slog.SetDefault(observer.Logger())

	return observer, func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}
}

// Writers resolves cfg.Log.Output into writers. It never returns an empty
// slice: stderr is used when nothing is configured.
func Writers(cfg *config.Config) ([]io.Writer, []io.Closer) {
	var writers []io.Writer
	var closers []io.Closer

	for _, output := range strings.Split(cfg.Log.Output, ",") {
		output = strings.TrimSpace(output)
		if output == "" {
			continue
		}

		switch output {
		case "stderr":
			writers = append(writers, os.Stderr)
		case "stdout":
			writers = append(writers, os.Stdout)
		default:
			l := &lumberjack.Logger{
				Filename:   output,
				MaxSize:    cfg.Log.Rotation.MaxSize,
				MaxBackups: cfg.Log.Rotation.MaxBackups,
				MaxAge:     cfg.Log.Rotation.MaxAge,
				Compress:   cfg.Log.Rotation.Compress,
			}
			writers = append(writers, l)
			closers = append(closers, l)
		}
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	return writers, closers
}
