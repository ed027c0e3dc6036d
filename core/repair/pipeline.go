package repair

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leofalp/jsonmend/internal/utils"
	"github.com/leofalp/jsonmend/providers/observability"
)

// ErrUnrepairable is wrapped by Result.Err when no strategy produced text
// the JSON parser accepts.
var ErrUnrepairable = errors.New("unable to repair JSON")

var errTrailingData = errors.New("invalid character after top-level value")

// Attempt records the outcome of a single strategy for diagnostics.
type Attempt struct {
	Strategy  string
	Candidate string
	// Err is the transform error or the parse error. Nil only for the
	// attempt that succeeded.
	Err error
}

// Result is the outcome of one pipeline run.
//
// On success OK is true, Value holds the parsed document and Text the
// candidate that parsed. On failure Text holds the last candidate produced
// (the best attempt) and Err wraps ErrUnrepairable. Text is populated either
// way unless every strategy failed before producing a candidate.
type Result struct {
	OK       bool
	Value    any
	Text     string
	Strategy string
	Err      error
	Attempts []Attempt
}

// Format serialises the parsed value with two-space indentation. HTML
// characters are not escaped. Calling Format on a failed result returns the
// best attempt together with Result.Err.
func (r Result) Format() (string, error) {
	if !r.OK {
		return r.Text, r.Err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Value); err != nil {
		return "", fmt.Errorf("format repaired JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Option configures a Pipeline.
type Option func(*pipelineConfig)

type pipelineConfig struct {
	strategies []Strategy
	fallback   bool
	observer   observability.Provider
}

// WithStrategies replaces the default strategy list.
func WithStrategies(strategies ...Strategy) Option {
	return func(c *pipelineConfig) {
		c.strategies = append([]Strategy(nil), strategies...)
	}
}

// WithFallback appends FallbackStrategy after the configured strategies.
func WithFallback(enabled bool) Option {
	return func(c *pipelineConfig) {
		c.fallback = enabled
	}
}

// WithObserver enables spans, metrics and debug logs for every run.
func WithObserver(observer observability.Provider) Option {
	return func(c *pipelineConfig) {
		c.observer = observer
	}
}

// Pipeline evaluates strategies in order and stops at the first candidate
// that parses. A Pipeline is immutable and safe for concurrent use.
type Pipeline struct {
	strategies []Strategy
	observer   observability.Provider
}

// New builds a Pipeline. Without options it runs DefaultStrategies and
// records nothing.
func New(opts ...Option) *Pipeline {
	cfg := &pipelineConfig{strategies: DefaultStrategies()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.fallback {
		cfg.strategies = append(cfg.strategies, FallbackStrategy())
	}
	return &Pipeline{
		strategies: cfg.strategies,
		observer:   cfg.observer,
	}
}

// Strategies returns the names of the strategies in evaluation order.
func (p *Pipeline) Strategies() []string {
	names := make([]string, len(p.strategies))
	for i, s := range p.strategies {
		names[i] = s.Name
	}
	return names
}

var defaultPipeline = New()

// Repair runs the default pipeline on input.
func Repair(ctx context.Context, input string) Result {
	return defaultPipeline.Repair(ctx, input)
}

// Repair tries each strategy against the original input. A strategy whose
// transform fails is skipped and does not replace the best attempt. The
// context is checked between strategies; a cancelled run ends as a failure
// carrying the best attempt so far.
func (p *Pipeline) Repair(ctx context.Context, input string) Result {
	run := p.startRun(ctx, input)

	result := p.run(run.ctx, input)

	run.finish(result)
	return result
}

func (p *Pipeline) run(ctx context.Context, input string) Result {
	var (
		result Result
		last   error
	)
	result.Attempts = make([]Attempt, 0, len(p.strategies))

	for _, strategy := range p.strategies {
		if err := ctx.Err(); err != nil {
			result.Err = fmt.Errorf("%w: %w", ErrUnrepairable, err)
			return result
		}

		candidate, err := strategy.Transform(input)
		if err != nil {
			result.Attempts = append(result.Attempts, Attempt{Strategy: strategy.Name, Err: err})
			last = err
			continue
		}
		result.Text = candidate

		value, err := parseJSON(candidate)
		result.Attempts = append(result.Attempts, Attempt{
			Strategy:  strategy.Name,
			Candidate: candidate,
			Err:       err,
		})
		if err != nil {
			last = err
			continue
		}

		result.OK = true
		result.Value = value
		result.Strategy = strategy.Name
		return result
	}

	if last != nil {
		result.Err = fmt.Errorf("%w: %w", ErrUnrepairable, last)
	} else {
		result.Err = ErrUnrepairable
	}
	return result
}

// parseJSON decodes exactly one JSON value. Numbers are kept as json.Number
// so re-serialising does not lose precision.
func parseJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return value, nil
}

// runObservation carries the span and timer for one Repair call. All methods
// are no-ops when the pipeline has no observer.
type runObservation struct {
	ctx      context.Context
	observer observability.Provider
	span     observability.Span
	timer    *utils.Timer
}

func (p *Pipeline) startRun(ctx context.Context, input string) *runObservation {
	if ctx == nil {
		ctx = context.Background()
	}
	run := &runObservation{ctx: ctx, observer: p.observer}
	if p.observer == nil {
		return run
	}

	run.ctx, run.span = p.observer.StartSpan(ctx, observability.SpanRepair,
		observability.Int(observability.AttrRepairInputLength, len(input)),
	)
	run.ctx = observability.ContextWithSpan(run.ctx, run.span)
	run.ctx = observability.ContextWithObserver(run.ctx, p.observer)
	run.timer = utils.NewTimer()
	return run
}

func (r *runObservation) finish(result Result) {
	if r.observer == nil {
		return
	}
	r.timer.Stop()
	ctx := r.ctx

	for _, attempt := range result.Attempts {
		attrs := []observability.Attribute{
			observability.String(observability.AttrRepairStrategy, attempt.Strategy),
			observability.Bool(observability.AttrRepairParsed, attempt.Err == nil),
			observability.String(observability.AttrRepairCandidate, utils.TruncateStringDefault(attempt.Candidate)),
		}
		if attempt.Err != nil {
			attrs = append(attrs, observability.Error(attempt.Err))
		}
		r.span.AddEvent(observability.EventStrategyAttempt, attrs...)
	}

	status := "success"
	strategy := result.Strategy
	if !result.OK {
		status = "failure"
		strategy = "none"
		r.span.RecordError(result.Err)
		r.span.SetStatus(observability.StatusError, "repair failed")
		r.observer.Warn(ctx, "json repair failed",
			observability.Int(observability.AttrRepairAttempts, len(result.Attempts)),
			observability.String(observability.AttrRepairCandidate, utils.TruncateStringDefault(result.Text)),
			observability.Error(result.Err),
		)
	} else {
		r.span.SetStatus(observability.StatusOK, "")
		r.observer.Debug(ctx, "json repaired",
			observability.String(observability.AttrRepairStrategy, result.Strategy),
			observability.Int(observability.AttrRepairAttempts, len(result.Attempts)),
		)
	}
	r.span.SetAttributes(
		observability.String(observability.AttrStatus, status),
		observability.String(observability.AttrRepairStrategy, strategy),
		observability.Duration(observability.AttrDuration, r.timer.GetDuration()),
	)
	r.span.End()

	r.observer.Counter(observability.MetricRepairCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, status),
		observability.String(observability.AttrRepairStrategy, strategy),
	)
	r.observer.Histogram(observability.MetricRepairDuration).Record(ctx, r.timer.GetDuration().Seconds(),
		observability.String(observability.AttrStatus, status),
	)
}
