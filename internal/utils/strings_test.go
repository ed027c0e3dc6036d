package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"shorter", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"longer", "hello world", 5, "hello... (truncated, total: 11 bytes)"},
		{"multi-byte rune not split", "ééé", 3, "é... (truncated, total: 6 bytes)"},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxLen)
			if got != tt.expected {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("result is not valid UTF-8: %q", got)
			}
		})
	}
}

func TestTruncateString_DefaultLength(t *testing.T) {
	long := strings.Repeat("x", DefaultMaxStringLength+10)

	for _, maxLen := range []int{0, -1} {
		got := TruncateString(long, maxLen)
		if !strings.HasPrefix(got, strings.Repeat("x", DefaultMaxStringLength)+"...") {
			t.Errorf("maxLen %d: unexpected result %q", maxLen, got)
		}
	}

	if got := TruncateStringDefault(long); got != TruncateString(long, DefaultMaxStringLength) {
		t.Errorf("TruncateStringDefault = %q", got)
	}
	if got := TruncateStringDefault("short"); got != "short" {
		t.Errorf("TruncateStringDefault(short) = %q", got)
	}
}
