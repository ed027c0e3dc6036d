package slogobs

import (
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact writes one line per record with JSON-encoded attributes:
	//	2025-11-03 10:40:35  WARN json repair failed {"repair.attempts":8}
	FormatCompact Format = "compact"

	// FormatPretty writes the message line followed by one indented
	// "key = value" line per attribute.
	FormatPretty Format = "pretty"

	// FormatJSON writes one JSON object per record, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat parses a format string. Unknown values fall back to
// FormatCompact; "text" is accepted as an alias for compact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads JSONMEND_LOG_FORMAT, then LOG_FORMAT, and defaults
// to FormatCompact.
func GetFormatFromEnv() Format {
	if format := os.Getenv("JSONMEND_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
