package parse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/leofalp/jsonmend/core/repair"
)

// errNotWrapped is returned by unwrapScalar for anything that is not a
// {"type": ..., "value": ...} object.
var errNotWrapped = errors.New("not a schema-wrapped value")

// maxStringLayers bounds how many whole-document string literals are peeled
// off before giving up.
const maxStringLayers = 3

// pipeline is shared by every call; repair.Pipeline is safe for concurrent
// use.
var pipeline = repair.New(repair.WithFallback(true))

// ParseStringAs parses content into a value of type T.
//
// Strings, booleans and numbers are converted directly. Structs, maps and
// slices are unmarshalled, and content that is not valid JSON is repaired
// first:
//
//	type Order struct {
//	    ID     string `json:"id"`
//	    Amount int    `json:"amount"`
//	}
//
//	order, err := parse.ParseStringAs[Order](`"{\"id\":\"A-1\",\"amount\":3,}"`)
func ParseStringAs[T any](content string) (T, error) {
	return ParseStringAsContext[T](context.Background(), content)
}

// ParseStringAsContext is ParseStringAs with a context that is handed to the
// repair pipeline.
func ParseStringAsContext[T any](ctx context.Context, content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := unwrapScalar(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool,
		reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		err := setScalar(target, strings.TrimSpace(content))
		if err == nil {
			return result, nil
		}
		if unwrapped, unwrapErr := unwrapScalar(content); unwrapErr == nil {
			if setScalar(target, unwrapped) == nil {
				return result, nil
			}
		}
		return result, fmt.Errorf("parse content as %s: %w", target.Kind(), err)

	default:
		if err := json.Unmarshal([]byte(content), &result); err == nil {
			return result, nil
		}
		return decodeRepaired[T](ctx, content)
	}
}

func decodeRepaired[T any](ctx context.Context, content string) (T, error) {
	var (
		result   T
		repaired repair.Result
	)

	// A document that is itself one JSON string parses fine but cannot fill
	// a struct, map or slice, so its content is repaired in turn.
	text := content
	for range maxStringLayers {
		repaired = pipeline.Repair(ctx, text)
		if !repaired.OK {
			return result, fmt.Errorf("parse content as %T: %w", result, repaired.Err)
		}
		inner, isString := repaired.Value.(string)
		if !isString {
			break
		}
		text = inner
	}

	err := json.Unmarshal([]byte(repaired.Text), &result)
	if err == nil {
		return result, nil
	}

	// The document is valid JSON but does not fit T. Values described as
	// {"type": "string", "value": "x"} are the usual cause.
	if unwrapped, unwrapErr := unwrapSchemaValues(repaired.Text); unwrapErr == nil {
		var retry T
		if json.Unmarshal([]byte(unwrapped), &retry) == nil {
			return retry, nil
		}
	}
	return result, fmt.Errorf("unmarshal repaired JSON (strategy %s) as %T: %w", repaired.Strategy, result, err)
}

func setScalar(v reflect.Value, s string) error {
	bits := v.Type().Bits
	switch v.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	default:
		u, err := strconv.ParseUint(s, 10, bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	}
	return nil
}

// unwrapScalar returns the "value" member of a two-key object that also has
// a "type" member, rendered as text.
func unwrapScalar(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}
	value, ok := schemaValue(data)
	if !ok {
		return "", errNotWrapped
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprint(v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// unwrapSchemaValues replaces every {"type": ..., "value": X} object in the
// document with X:
//
//	{"name": {"type": "string", "value": "Ada"}}  ->  {"name":"Ada"}
func unwrapSchemaValues(doc string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return "", err
	}
	encoded, err := json.Marshal(unwrapValue(data))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func unwrapValue(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := schemaValue(v); ok {
			return unwrapValue(value)
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = unwrapValue(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = unwrapValue(val)
		}
		return out
	default:
		return data
	}
}

func schemaValue(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, ok := m["type"]; !ok {
		return nil, false
	}
	value, ok := m["value"]
	return value, ok
}
