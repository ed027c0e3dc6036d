package repair

import "strings"

// brackets lists the structures UnquoteNestedJSON looks for, objects first.
var brackets = [...]struct{ open, close byte }{
	{'{', '}'},
	{'[', ']'},
}

// UnquoteNestedJSON turns string values that hold an unescaped object or
// array back into real nested values:
//
//	{"Content":"{"key":"val"}"}  ->  {"Content":{"key":"val"}}
//
// Removing one quote pair can expose another candidate, so full passes are
// repeated until one makes no change. Every removal shortens the string by
// two bytes, which bounds the number of passes.
func UnquoteNestedJSON(s string) string {
	out, _ := fixpoint(s, len(s)/2+1, unquoteNestedPass)
	return out
}

func unquoteNestedPass(s string) string {
	for _, b := range brackets {
		s = unquoteNested(s, b.open, b.close)
	}
	return s
}

// unquoteNested handles every `:"<open>` occurrence for one bracket kind.
// The quote after the colon and the quote right after the matching close
// bracket are removed together; an occurrence without such a closing quote
// is skipped untouched.
func unquoteNested(s string, open, close byte) string {
	marker := string([]byte{':', '"', open})

	for pos := 0; pos < len(s); {
		idx := strings.Index(s[pos:], marker)
		if idx < 0 {
			break
		}
		idx += pos

		end := matchingBracket(s, idx+2, open, close)
		if end >= 0 && end+1 < len(s) && s[end+1] == '"' {
			s = s[:idx+1] + s[idx+2:end+1] + s[end+2:]
		}
		pos = idx + 1
	}
	return s
}

// matchingBracket returns the index of the bracket closing the one at
// s[start], counting only brackets of the same kind. It returns -1 when the
// structure is never closed.
func matchingBracket(s string, start int, open, close byte) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
