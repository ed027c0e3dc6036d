package repair

import (
	"regexp"
	"strings"
)

// maxUnescapePasses caps the backslash unescape loop. Five passes resolve
// four levels of escaped quotes with one pass left to observe no change.
const maxUnescapePasses = 5

var (
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

	// outerQuotesRe matches a whole document that is an object or array
	// wrapped in one pair of quotes.
	outerQuotesRe = regexp.MustCompile(`(?s)^"([{\[].*[}\]])"$`)

	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

	// slashQuoteLeftovers are mopped up after the leading-slash rule, one
	// occurrence each, longest first.
	slashQuoteLeftovers = []string{`///"`, `//"`, `/"`}
)

// DeepClean runs every corruption-specific fix in a fixed order, each step
// working on the previous step's output:
//
//  1. drop a leading byte-order mark
//  2. normalise line endings to \n
//  3. unwrap up to two levels of whole-document string literals
//  4. collapse symmetric slash delimiters
//  5. drop slash runs before quotes, then mop up one `///"`, `//"` and `/"`
//  6. unescape \" \/ and \\ repeatedly, at most five passes
//  7. strip slash delimiters revealed by unescaping
//  8. strip trailing slashes inside simple values
//  9. unquote nested objects and arrays
//  10. strip trailing slashes exposed by unquoting
//  11. drop quotes wrapping the whole document
//  12. remove trailing commas before } and ]
//
// Unescaping has to run before the final slash and comma cleanup, and nested
// values must be unquoted before the second trailing-slash pass.
func DeepClean(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = lineEndings.Replace(s)
	s = Unwrap(Unwrap(s))

	s = StripSymmetricSlashes(s)
	s = StripLeadingSlashes(s)
	for _, seq := range slashQuoteLeftovers {
		s = strings.Replace(s, seq, `"`, 1)
	}

	s, _ = fixpoint(s, maxUnescapePasses, unescapeOnce)

	s = StripSlashDelimiters(s)
	s = StripTrailingSlashes(s)
	s = UnquoteNestedJSON(s)
	s = StripTrailingSlashes(s)
	s = stripOuterQuotes(s)

	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// unescapeOnce removes one level of backslash escaping. The replacements run
// one after another, not simultaneously.
func unescapeOnce(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\/`, `/`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

func stripOuterQuotes(s string) string {
	if m := outerQuotesRe.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		return m[1]
	}
	return s
}
