package observability

import (
	"errors"
	"testing"
	"time"
)

func TestAttributeConstructors(t *testing.T) {
	tests := []struct {
		name      string
		attr      Attribute
		wantKey   string
		wantValue interface{}
	}{
		{"string", String(AttrRepairStrategy, "deep-clean"), AttrRepairStrategy, "deep-clean"},
		{"int", Int(AttrRepairAttempts, 8), AttrRepairAttempts, 8},
		{"int64", Int64("bytes", 9223372036854775807), "bytes", int64(9223372036854775807)},
		{"float64", Float64("ratio", 0.5), "ratio", 0.5},
		{"bool", Bool(AttrRepairParsed, true), AttrRepairParsed, true},
		{"duration", Duration(AttrDuration, 5*time.Second), AttrDuration, 5 * time.Second},
		{"error", Error(errors.New("unexpected end of JSON input")), AttrError, "unexpected end of JSON input"},
		{"nil error", Error(nil), AttrError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("Expected key %q, got %q", tt.wantKey, tt.attr.Key)
			}
			if tt.attr.Value != tt.wantValue {
				t.Errorf("Expected value %v, got %v", tt.wantValue, tt.attr.Value)
			}
		})
	}
}

func TestStringSlice(t *testing.T) {
	attr := StringSlice("strategies", []string{"identity", "trim"})
	value, ok := attr.Value.([]string)
	if !ok {
		t.Fatalf("Expected Value to be []string, got %T", attr.Value)
	}
	if len(value) != 2 || value[0] != "identity" || value[1] != "trim" {
		t.Errorf("Unexpected value %v", value)
	}
}

func TestStatusCode_Values(t *testing.T) {
	if StatusUnset != 0 || StatusOK != 1 || StatusError != 2 {
		t.Errorf("Unexpected status code values: %d %d %d", StatusUnset, StatusOK, StatusError)
	}
}

func TestStatusCode_String(t *testing.T) {
	tests := map[StatusCode]string{
		StatusUnset:    "unset",
		StatusOK:       "ok",
		StatusError:    "error",
		StatusCode(42): "unset",
	}
	for code, want := range tests {
		if got := code.String(); got != want {
			t.Errorf("StatusCode(%d).String() = %q, want %q", code, got, want)
		}
	}
}

func BenchmarkAttribute_String(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = String(AttrRepairStrategy, "deep-clean")
	}
}
