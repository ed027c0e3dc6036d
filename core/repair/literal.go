package repair

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Unwrap removes one level of string-literal wrapping from s.
//
// When s starts and ends with a double quote it is decoded as a JSON string
// literal, which also resolves one level of backslash escaping. If decoding
// fails the first and last characters are dropped without unescaping, so a
// recognisable but malformed wrapper still loses its quotes. Input that is
// not quote-delimited is returned unchanged.
func Unwrap(s string) string {
	if !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return s
	}

	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err == nil {
		if str, ok := decoded.(string); ok {
			return str
		}
		return s
	}

	// A lone quote both starts and ends the string.
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}

// DecodeEscaped wraps s in a synthetic pair of quotes and decodes the result
// as a single JSON string literal. This resolves any depth of backslash
// escaping in one step, but only when s holds no unescaped quote: those end
// the literal early and the decode fails with an error.
func DecodeEscaped(s string) (string, error) {
	var decoded any
	if err := json.Unmarshal([]byte(`"`+s+`"`), &decoded); err != nil {
		return "", fmt.Errorf("decode escaped literal: %w", err)
	}
	if str, ok := decoded.(string); ok {
		return str, nil
	}
	return s, nil
}
