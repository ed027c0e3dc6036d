package editor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/jsonmend/core/repair"
	"github.com/leofalp/jsonmend/providers/observability"
	"github.com/leofalp/jsonmend/providers/observability/slogobs"
)

func TestDocument_Target(t *testing.T) {
	const text = "0123456789"

	tests := []struct {
		name      string
		selection *Range
		wantText  string
		wantRange Range
	}{
		{"no selection", nil, text, Range{0, 10}},
		{"selection", &Range{2, 5}, "234", Range{2, 5}},
		{"empty selection", &Range{4, 4}, text, Range{0, 10}},
		{"reversed selection", &Range{6, 3}, text, Range{0, 10}},
		{"clamped selection", &Range{-3, 100}, text, Range{0, 10}},
		{"partially outside", &Range{8, 20}, "89", Range{8, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, r := Document{Text: text, Selection: tt.selection}.Target()
			if got != tt.wantText || r != tt.wantRange {
				t.Errorf("Target() = (%q, %+v), want (%q, %+v)", got, r, tt.wantText, tt.wantRange)
			}
		})
	}
}

func TestEdit_Apply(t *testing.T) {
	doc := Document{Text: "var x = {};"}
	edit := Edit{Range: Range{8, 10}, NewText: "{\n  \"a\": 1\n}"}

	if got := edit.Apply(doc); got != "var x = {\n  \"a\": 1\n};" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestFixJSON_Blank(t *testing.T) {
	for _, text := range []string{"", "   \n\t"} {
		outcome := FixJSON(context.Background(), Document{Text: text}, nil)

		if outcome.Edit != nil {
			t.Errorf("blank text %q produced an edit", text)
		}
		if outcome.Notification.Level != LevelWarning || outcome.Notification.Message != MessageNoSelection {
			t.Errorf("notification = %+v", outcome.Notification)
		}
		if !errors.Is(outcome.Err, ErrEmptyTarget) {
			t.Errorf("Err = %v, want ErrEmptyTarget", outcome.Err)
		}
	}
}

func TestFixJSON_Success(t *testing.T) {
	doc := Document{Text: `{"b":[1,2,],"a":"<x>"}`}

	outcome := FixJSON(context.Background(), doc, nil)
	if outcome.Err != nil {
		t.Fatalf("Err = %v", outcome.Err)
	}
	if outcome.Edit == nil {
		t.Fatal("expected an edit")
	}

	want := "{\n  \"a\": \"<x>\",\n  \"b\": [\n    1,\n    2\n  ]\n}"
	if got := outcome.Apply(doc); got != want {
		t.Errorf("Apply() =\n%s\nwant\n%s", got, want)
	}
	if outcome.Notification.Level != LevelInfo || outcome.Notification.Message != "JSON repaired (deep-clean)" {
		t.Errorf("notification = %+v", outcome.Notification)
	}
}

func TestFixJSON_Selection(t *testing.T) {
	doc := Document{Text: `x = {"a":1,} ;`, Selection: &Range{4, 12}}

	outcome := FixJSON(context.Background(), doc, nil)
	if got := outcome.Apply(doc); got != "x = {\n  \"a\": 1\n} ;" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestFixJSON_FailureWritesBestAttempt(t *testing.T) {
	doc := Document{Text: ` {"a":[1,2,]`}

	outcome := FixJSON(context.Background(), doc, nil)
	if !errors.Is(outcome.Err, repair.ErrUnrepairable) {
		t.Fatalf("Err = %v, want ErrUnrepairable", outcome.Err)
	}
	if outcome.Edit == nil {
		t.Fatal("failure should still replace the text with the best attempt")
	}
	if outcome.Edit.NewText != ` {"a":[1,2]` {
		t.Errorf("best attempt = %q", outcome.Edit.NewText)
	}
	if outcome.Notification.Level != LevelWarning {
		t.Errorf("Level = %v, want warning", outcome.Notification.Level)
	}
	if !strings.HasPrefix(outcome.Notification.Message, "Could not fully repair JSON: unable to repair JSON") {
		t.Errorf("Message = %q", outcome.Notification.Message)
	}
}

func TestFixJSON_CustomPipeline(t *testing.T) {
	pipeline := repair.New(repair.WithFallback(true))

	outcome := FixJSON(context.Background(), Document{Text: `{"a":1`}, pipeline)
	if outcome.Err != nil {
		t.Fatalf("Err = %v", outcome.Err)
	}
	if outcome.Notification.Message != "JSON repaired (jsonrepair)" {
		t.Errorf("Message = %q", outcome.Notification.Message)
	}
}

func TestFixJSON_ObserverFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	observer := slogobs.New(
		slogobs.WithOutput(buf),
		slogobs.WithLevel(slog.LevelDebug),
		slogobs.WithFormat(slogobs.FormatJSON),
	)
	ctx := observability.ContextWithObserver(context.Background(), observer)

	FixJSON(ctx, Document{Text: `[1,]`, Selection: &Range{0, 4}}, nil)

	output := buf.String()
	for _, want := range []string{
		`"span":"editor.command"`,
		`"editor.command":"fix-json"`,
		`"editor.selection":true`,
		`"repair.strategy":"deep-clean"`,
		`"span.status":"ok"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output:\n%s", want, output)
		}
	}
}

func TestBase64(t *testing.T) {
	doc := Document{Text: "hello, jsonmend"}

	encoded := EncodeBase64(context.Background(), doc)
	if encoded.Edit == nil || encoded.Edit.NewText != "aGVsbG8sIGpzb25tZW5k" {
		t.Fatalf("EncodeBase64 edit = %+v", encoded.Edit)
	}

	// Wrapped lines are accepted.
	decoded := DecodeBase64(context.Background(), Document{Text: "aGVsbG8sIGpz\nb25tZW5k\n"})
	if decoded.Err != nil {
		t.Fatalf("DecodeBase64 error: %v", decoded.Err)
	}
	if decoded.Edit.NewText != doc.Text {
		t.Errorf("round trip = %q", decoded.Edit.NewText)
	}
	if decoded.Notification.Level != LevelInfo {
		t.Errorf("Level = %v", decoded.Notification.Level)
	}
}

func TestDecodeBase64_InvalidLeavesDocument(t *testing.T) {
	doc := Document{Text: "not base64!"}

	outcome := DecodeBase64(context.Background(), doc)
	if outcome.Edit != nil {
		t.Errorf("invalid input produced an edit: %+v", outcome.Edit)
	}
	if !errors.Is(outcome.Err, ErrInvalidBase64) {
		t.Errorf("Err = %v, want ErrInvalidBase64", outcome.Err)
	}
	if outcome.Notification.Level != LevelError {
		t.Errorf("Level = %v, want error", outcome.Notification.Level)
	}
	if got := outcome.Apply(doc); got != doc.Text {
		t.Errorf("document changed to %q", got)
	}
}

func TestLevel_String(t *testing.T) {
	tests := map[Level]string{
		LevelInfo:    "info",
		LevelWarning: "warning",
		LevelError:   "error",
		Level(9):     "unknown",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}
