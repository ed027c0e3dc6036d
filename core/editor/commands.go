package editor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/jsonmend/core/repair"
	"github.com/leofalp/jsonmend/providers/observability"
)

// Command names, as reported in spans.
const (
	CommandFixJSON      = "fix-json"
	CommandEncodeBase64 = "encode-base64"
	CommandDecodeBase64 = "decode-base64"
)

// MessageNoSelection is shown when Fix JSON runs on blank text.
const MessageNoSelection = "No JSON text selected"

var (
	// ErrEmptyTarget is set on the outcome of Fix JSON for blank text.
	ErrEmptyTarget = errors.New("no JSON text selected")

	// ErrInvalidBase64 wraps the decoder error when Decode Base64 fails.
	ErrInvalidBase64 = errors.New("invalid base64 input")
)

// FixJSON repairs the target text with pipeline, or with the default
// pipeline when pipeline is nil.
//
// On success the target is replaced by the pretty-printed JSON. On failure it
// is replaced by the best attempt so the user can see what is still broken,
// and a warning carries the error. Blank text produces a warning and no edit.
func FixJSON(ctx context.Context, doc Document, pipeline *repair.Pipeline) Outcome {
	ctx, span := startCommand(ctx, CommandFixJSON, doc)
	defer span.End()

	target, r := doc.Target()
	if strings.TrimSpace(target) == "" {
		span.SetStatus(observability.StatusError, MessageNoSelection)
		return Outcome{
			Notification: Notification{Level: LevelWarning, Message: MessageNoSelection},
			Err:          ErrEmptyTarget,
		}
	}

	var result repair.Result
	if pipeline == nil {
		result = repair.Repair(ctx, target)
	} else {
		result = pipeline.Repair(ctx, target)
	}

	formatted, err := result.Format()
	if err != nil {
		if result.OK {
			formatted = result.Text
		}
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "repair failed")
		return Outcome{
			Edit: &Edit{Range: r, NewText: formatted},
			Notification: Notification{
				Level:   LevelWarning,
				Message: fmt.Sprintf("Could not fully repair JSON: %v", err),
			},
			Err: err,
		}
	}

	span.SetAttributes(observability.String(observability.AttrRepairStrategy, result.Strategy))
	span.SetStatus(observability.StatusOK, "")
	return Outcome{
		Edit: &Edit{Range: r, NewText: formatted},
		Notification: Notification{
			Level:   LevelInfo,
			Message: fmt.Sprintf("JSON repaired (%s)", result.Strategy),
		},
	}
}

// EncodeBase64 replaces the target with its standard Base64 encoding.
func EncodeBase64(ctx context.Context, doc Document) Outcome {
	_, span := startCommand(ctx, CommandEncodeBase64, doc)
	defer span.End()

	target, r := doc.Target()
	span.SetStatus(observability.StatusOK, "")
	return Outcome{
		Edit:         &Edit{Range: r, NewText: base64.StdEncoding.EncodeToString([]byte(target))},
		Notification: Notification{Level: LevelInfo, Message: "Encoded to Base64"},
	}
}

// DecodeBase64 replaces the target with its decoded Base64 content. White
// space inside the input is ignored. Invalid input leaves the document
// unchanged and reports an error.
func DecodeBase64(ctx context.Context, doc Document) Outcome {
	_, span := startCommand(ctx, CommandDecodeBase64, doc)
	defer span.End()

	target, r := doc.Target()
	decoded, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(target), ""))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidBase64, err)
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "decode failed")
		return Outcome{
			Notification: Notification{Level: LevelError, Message: fmt.Sprintf("Failed to decode Base64: %v", err)},
			Err:          err,
		}
	}

	span.SetStatus(observability.StatusOK, "")
	return Outcome{
		Edit:         &Edit{Range: r, NewText: string(decoded)},
		Notification: Notification{Level: LevelInfo, Message: "Decoded from Base64"},
	}
}

// startCommand opens a span on the observer carried by ctx. Without one it
// returns a span that records nothing.
func startCommand(ctx context.Context, command string, doc Document) (context.Context, observability.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	observer := observability.ObserverFromContext(ctx)
	if observer == nil {
		return ctx, noopSpan{}
	}

	ctx, span := observer.StartSpan(ctx, observability.SpanEditorCommand,
		observability.String(observability.AttrEditorCommand, command),
		observability.Bool(observability.AttrEditorSelection, doc.Selection != nil && !doc.Selection.Empty()),
	)
	return observability.ContextWithSpan(ctx, span), span
}

type noopSpan struct{}

func (noopSpan) End() {}
func (noopSpan) SetAttributes(...observability.Attribute) {}
func (noopSpan) SetStatus(observability.StatusCode, string) {}
func (noopSpan) RecordError(error) {}
func (noopSpan) AddEvent(string, ...observability.Attribute) {}
