package editor

import "strings"

// Range is a half-open byte range [Start, End) into a document.
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range covers no text.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Document is the text a command works on. A nil or empty Selection means
// the whole text.
type Document struct {
	Text      string
	Selection *Range
}

// Target returns the text the command applies to and its range. Selections
// reaching outside the text are clamped to it.
func (d Document) Target() (string, Range) {
	whole := Range{Start: 0, End: len(d.Text)}
	if d.Selection == nil {
		return d.Text, whole
	}

	r := Range{
		Start: clamp(d.Selection.Start, 0, len(d.Text)),
		End:   clamp(d.Selection.End, 0, len(d.Text)),
	}
	if r.Empty() {
		return d.Text, whole
	}
	return d.Text[r.Start:r.End], r
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Edit replaces the text in Range with NewText.
type Edit struct {
	Range   Range
	NewText string
}

// Apply returns the document text with the edit applied.
func (e Edit) Apply(doc Document) string {
	var b strings.Builder
	b.Grow(len(doc.Text) - (e.Range.End - e.Range.Start) + len(e.NewText))
	b.WriteString(doc.Text[:e.Range.Start])
	b.WriteString(e.NewText)
	b.WriteString(doc.Text[e.Range.End:])
	return b.String()
}

// Level is the severity of a Notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a message for the user.
type Notification struct {
	Level   Level
	Message string
}

// Outcome is the result of one command. Edit is nil when the document must
// stay untouched. Err is set when the command failed.
type Outcome struct {
	Edit         *Edit
	Notification Notification
	Err          error
}

// Apply returns the document text after the outcome's edit, or the
// unchanged text when there is none.
func (o Outcome) Apply(doc Document) string {
	if o.Edit == nil {
		return doc.Text
	}
	return o.Edit.Apply(doc)
}
