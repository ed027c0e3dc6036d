package repair

import (
	"regexp"
	"strings"
)

// trailingSlashRe matches a quoted value with no other slash that ends in a
// run of forward slashes, e.g. "CommerceId/".
var trailingSlashRe = regexp.MustCompile(`"([^"/]*)/+"`)

// StripSlashDelimiters removes slash and backslash runs that fence quoted
// string boundaries. It applies [StripSymmetricSlashes] first and
// [StripLeadingSlashes] second; the leading rule alone would consume half of
// a symmetric pair and leave the other half behind.
func StripSlashDelimiters(s string) string {
	return StripLeadingSlashes(StripSymmetricSlashes(s))
}

// StripSymmetricSlashes collapses `/"key/"`, `///"value///"` and mixed
// slash/backslash runs on both sides of a quoted value down to the plain
// quoted value.
//
// A match never starts right after an ASCII letter, digit, '.', '_' or '-',
// which keeps the trailing slash of a URL or path intact. A colon does not
// block a match: `://` directly followed by a quote is an export artifact,
// real URLs continue with a host name.
func StripSymmetricSlashes(s string) string {
	var b strings.Builder
	copied := 0

	for i := 0; i < len(s); {
		if !isSlash(s[i]) {
			i++
			continue
		}
		end := slashRunEnd(s, i)
		start := guardedStart(s, i, end)
		if start < 0 || end >= len(s) || s[end] != '"' {
			i = end
			continue
		}

		// The value may not contain a quote, so the first quote after the
		// opening one has to close it.
		closing := strings.IndexByte(s[end+1:], '"')
		if closing < 0 {
			i = end
			continue
		}
		closing += end + 1

		// Shortest content wins: every slash right before the closing quote
		// belongs to the delimiter, not to the value.
		contentEnd := closing
		for contentEnd > end+1 && isSlash(s[contentEnd-1]) {
			contentEnd--
		}
		if contentEnd == closing {
			i = end
			continue
		}

		b.Grow(len(s))
		b.WriteString(s[copied:start])
		b.WriteByte('"')
		b.WriteString(s[end+1 : contentEnd])
		b.WriteByte('"')
		copied = closing + 1
		i = closing + 1
	}

	if copied == 0 {
		return s
	}
	b.WriteString(s[copied:])
	return b.String()
}

// StripLeadingSlashes drops a slash or backslash run that sits directly in
// front of a double quote, keeping the quote. It uses the same word-boundary
// guard as [StripSymmetricSlashes].
func StripLeadingSlashes(s string) string {
	var b strings.Builder
	copied := 0

	for i := 0; i < len(s); {
		if !isSlash(s[i]) {
			i++
			continue
		}
		end := slashRunEnd(s, i)
		if start := guardedStart(s, i, end); start >= 0 && end < len(s) && s[end] == '"' {
			b.Grow(len(s))
			b.WriteString(s[copied:start])
			copied = end
		}
		i = end
	}

	if copied == 0 {
		return s
	}
	b.WriteString(s[copied:])
	return b.String()
}

// StripTrailingSlashes removes the slashes that end a quoted value such as
// "CommerceId/". Values containing any other slash are left alone so URLs
// and paths survive ("https://example.com/" is not touched).
func StripTrailingSlashes(s string) string {
	return trailingSlashRe.ReplaceAllString(s, `"$1"`)
}

func isSlash(c byte) bool {
	return c == '/' || c == '\\'
}

// isWordLike reports whether c may not precede a slash run that starts a
// match.
func isWordLike(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '_', c == '-':
		return true
	}
	return false
}

func slashRunEnd(s string, i int) int {
	for i < len(s) && isSlash(s[i]) {
		i++
	}
	return i
}

// guardedStart returns the first offset inside the slash run s[i:end] at
// which a match may begin, or -1. When the run follows a word-like character
// the match can still begin on the run's second slash, because the character
// before that one is a slash.
func guardedStart(s string, i, end int) int {
	if i == 0 || !isWordLike(s[i-1]) {
		return i
	}
	if i+1 < end {
		return i + 1
	}
	return -1
}
