package utils

import (
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength bounds candidate text attached to log records.
const DefaultMaxStringLength = 256

// TruncateString shortens s to at most maxLen bytes and notes the original
// length. The cut never splits a UTF-8 sequence. A non-positive maxLen means
// DefaultMaxStringLength.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (truncated, total: %d bytes)", s[:cut], len(s))
}

// TruncateStringDefault truncates s to DefaultMaxStringLength.
func TruncateStringDefault(s string) string {
	return TruncateString(s, DefaultMaxStringLength)
}
