package repair

import (
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Strategy names, in default evaluation order.
const (
	StrategyIdentity        = "identity"
	StrategyTrim            = "trim"
	StrategyUnwrap          = "unwrap"
	StrategyEscapeWrap      = "escape-wrap"
	StrategyOnePass         = "one-pass"
	StrategySymmetricSlash  = "symmetric-slash"
	StrategyDeepClean       = "deep-clean"
	StrategyDeepCleanUnwrap = "deep-clean-unwrap"

	// StrategyJSONRepair is only evaluated when the pipeline is built with
	// WithFallback(true).
	StrategyJSONRepair = "jsonrepair"
)

// Strategy is one candidate transform tried by a Pipeline. Transform always
// receives the original input. Returning an error marks the strategy as not
// applicable; the pipeline moves on without recording a candidate.
type Strategy struct {
	Name      string
	Transform func(input string) (string, error)
}

// DefaultStrategies returns the eight built-in strategies, from least to most
// aggressive. The returned slice is a fresh copy.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyIdentity, Transform: infallible(identity)},
		{Name: StrategyTrim, Transform: infallible(strings.TrimSpace)},
		{Name: StrategyUnwrap, Transform: infallible(Unwrap)},
		{Name: StrategyEscapeWrap, Transform: DecodeEscaped},
		{Name: StrategyOnePass, Transform: infallible(onePass)},
		{Name: StrategySymmetricSlash, Transform: infallible(StripSymmetricSlashes)},
		{Name: StrategyDeepClean, Transform: infallible(DeepClean)},
		{Name: StrategyDeepCleanUnwrap, Transform: infallible(deepCleanUnwrap)},
	}
}

// FallbackStrategy hands the deep-cleaned text to a general-purpose JSON
// repairer. It fixes damage the export-specific steps do not know about
// (missing brackets, single quotes, comments) at the price of guessing.
func FallbackStrategy() Strategy {
	return Strategy{
		Name: StrategyJSONRepair,
		Transform: func(input string) (string, error) {
			repaired, err := jsonrepair.JSONRepair(DeepClean(input))
			if err != nil {
				return "", fmt.Errorf("jsonrepair: %w", err)
			}
			return repaired, nil
		},
	}
}

func infallible(fn func(string) string) func(string) (string, error) {
	return func(input string) (string, error) {
		return fn(input), nil
	}
}

func identity(s string) string {
	return s
}

// onePass drops slash runs before quotes and then unescapes every \" once.
// Unlike DeepClean the replace is not guarded; later strategies cover the
// inputs this gets wrong.
func onePass(s string) string {
	return strings.ReplaceAll(StripLeadingSlashes(s), `\"`, `"`)
}

func deepCleanUnwrap(s string) string {
	return Unwrap(DeepClean(s))
}
