package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// Handler is a slog.Handler that writes compact, pretty or JSON records.
// Attribute keys are written in sorted order so output is stable.
type Handler struct {
	format Format
	level  slog.Level
	colors bool

	// mu is shared by every handler derived through WithAttrs/WithGroup so
	// that lines written to the same output never interleave.
	mu     *sync.Mutex
	output io.Writer

	attrs  []slog.Attr
	prefix string
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Format Format
	Level  slog.Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// Colors only applies to the compact and pretty formats. When false and
	// Output is a terminal, colours are turned on anyway.
	Colors bool
}

// NewHandler creates a new Handler with the given options.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	format := opts.Format
	if format == "" {
		format = FormatCompact
	}

	colors := opts.Colors
	if !colors && format != FormatJSON {
		if f, ok := output.(*os.File); ok {
			colors = isTerminal(f)
		}
	}

	return &Handler{
		format: format,
		level:  opts.Level,
		colors: colors && format != FormatJSON,
		mu:     &sync.Mutex{},
		output: output,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := h.collect(r)

	var line []byte
	var err error
	switch h.format {
	case FormatJSON:
		line, err = h.formatJSON(r, fields)
	case FormatPretty:
		line = h.formatPretty(r, fields)
	default:
		line, err = h.formatCompact(r, fields)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.output.Write(line)
	return err
}

// WithAttrs returns a new Handler with additional attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &clone
}

// WithGroup returns a new Handler whose later attributes are prefixed with
// name and a dot.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

type field struct {
	key   string
	value any
}

// collect flattens handler and record attributes into sorted key/value
// pairs. Group attributes become dotted keys.
func (h *Handler) collect(r slog.Record) []field {
	values := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		flatten(values, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(values, h.prefix, a)
		return true
	})

	fields := make([]field, 0, len(values))
	for k, v := range values {
		fields = append(fields, field{key: k, value: v})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].key < fields[j].key })
	return fields
}

func flatten(dst map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range v.Group() {
			flatten(dst, groupPrefix, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	switch v.Kind() {
	case slog.KindDuration:
		dst[prefix+a.Key] = v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			dst[prefix+a.Key] = err.Error()
			return
		}
		dst[prefix+a.Key] = v.Any()
	default:
		dst[prefix+a.Key] = v.Any()
	}
}

// formatCompact renders "2006-01-02 15:04:05 LEVEL message {attrs}".
func (h *Handler) formatCompact(r slog.Record, fields []field) ([]byte, error) {
	var b strings.Builder
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteByte(' ')
	h.writeLevel(&b, r.Level, "%5s")
	b.WriteByte(' ')
	b.WriteString(r.Message)

	if len(fields) > 0 {
		encoded, err := marshalFields(fields)
		if err != nil {
			return nil, err
		}
		b.WriteByte(' ')
		b.Write(encoded)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// formatPretty renders the message line followed by "    key = value" lines.
func (h *Handler) formatPretty(r slog.Record, fields []field) []byte {
	var b strings.Builder
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteByte(' ')
	h.writeLevel(&b, r.Level, "%-5s")
	b.WriteString("  ")
	b.WriteString(r.Message)
	b.WriteByte('\n')
	for _, f := range fields {
		fmt.Fprintf(&b, "    %s = %v\n", f.key, f.value)
	}
	return []byte(b.String())
}

// formatJSON renders one object with time, level and msg next to the
// attributes. Attributes named like a standard field overwrite it.
func (h *Handler) formatJSON(r slog.Record, fields []field) ([]byte, error) {
	data := make(map[string]any, len(fields)+3)
	data["time"] = r.Time.Format("2006-01-02T15:04:05.000Z07:00")
	data["level"] = levelString(r.Level)
	data["msg"] = r.Message
	for _, f := range fields {
		data[f.key] = f.value
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode log record: %w", err)
	}
	return append(encoded, '\n'), nil
}

func (h *Handler) writeLevel(b *strings.Builder, level slog.Level, layout string) {
	name := fmt.Sprintf(layout, levelString(level))
	if h.colors {
		b.WriteString(colorForLevel(level))
		b.WriteString(name)
		b.WriteString(colorReset)
		return
	}
	b.WriteString(name)
}

// marshalFields encodes the sorted fields as a JSON object, keeping the
// order.
func marshalFields(fields []field) ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		value, err := json.Marshal(f.value)
		if err != nil {
			value, _ = json.Marshal(fmt.Sprint(f.value))
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
)

func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return colorBlue
	case level < slog.LevelWarn:
		return colorGreen
	case level < slog.LevelError:
		return colorYellow
	default:
		return colorRed
	}
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
