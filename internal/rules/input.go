package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Input is the raw, untyped key-value object received from the rendering layer.
// A key holding nil is treated as missing.
type Input map[string]any

// InputFrom converts any JSON-encodable value (typically a stored record) into an Input.
func InputFrom(v any) (Input, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	if in == nil {
		in = Input{}
	}
	return in, nil
}

// Lookup returns the value at key and whether it is present.
func (in Input) Lookup(key string) (any, bool) {
	v, ok := in[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Clone returns a shallow copy of in.
func (in Input) Clone() Input {
	out := make(Input, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// String reads a string field. present is false when the key is missing.
func String(in Input, key string) (value string, present bool, f *Failure) {
	v, ok := in.Lookup(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, Fail(CodeFormatInvalid, "Expected text, received %s", kindOf(v))
	}
	return s, true, nil
}

// Number reads a numeric field. NaN and infinities are rejected explicitly.
func Number(in Input, key string) (value float64, present bool, f *Failure) {
	v, ok := in.Lookup(key)
	if !ok {
		return 0, false, nil
	}
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case int32:
		n = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, true, Fail(CodeFormatInvalid, "Expected number, received %q", x.String())
		}
		n = parsed
	default:
		return 0, true, Fail(CodeFormatInvalid, "Expected number, received %s", kindOf(v))
	}
	if math.IsNaN(n) {
		return 0, true, Fail(CodeFormatInvalid, "Expected number, received NaN")
	}
	if math.IsInf(n, 0) {
		return 0, true, Fail(CodeFormatInvalid, "Expected finite number")
	}
	return n, true, nil
}

// Bool reads a boolean field.
func Bool(in Input, key string) (value bool, present bool, f *Failure) {
	v, ok := in.Lookup(key)
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, Fail(CodeFormatInvalid, "Expected boolean, received %s", kindOf(v))
	}
	return b, true, nil
}

// StringList reads an array of strings.
func StringList(in Input, key string) (value []string, present bool, f *Failure) {
	v, ok := in.Lookup(key)
	if !ok {
		return nil, false, nil
	}
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...), true, nil
	case []any:
		out := make([]string, 0, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, true, Fail(CodeFormatInvalid, "Item %d: expected text, received %s", i, kindOf(item))
			}
			out = append(out, s)
		}
		return out, true, nil
	default:
		return nil, true, Fail(CodeFormatInvalid, "Expected list, received %s", kindOf(v))
	}
}

// StringMap reads an object whose values are strings. Nil values are dropped.
func StringMap(in Input, key string) (value map[string]string, present bool, f *Failure) {
	v, ok := in.Lookup(key)
	if !ok {
		return nil, false, nil
	}
	switch x := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(x))
		for k, s := range x {
			out[k] = s
		}
		return out, true, nil
	case map[string]any:
		out := make(map[string]string, len(x))
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			item := x[k]
			if item == nil {
				continue
			}
			s, ok := item.(string)
			if !ok {
				return nil, true, Fail(CodeFormatInvalid, "Entry %q: expected text, received %s", k, kindOf(item))
			}
			out[k] = s
		}
		return out, true, nil
	default:
		return nil, true, Fail(CodeFormatInvalid, "Expected object, received %s", kindOf(v))
	}
}

// Object reads a nested object field.
func Object(in Input, key string) (value Input, present bool, f *Failure) {
	v, ok := in.Lookup(key)
	if !ok {
		return nil, false, nil
	}
	switch x := v.(type) {
	case Input:
		return x, true, nil
	case map[string]any:
		return Input(x), true, nil
	case map[string]string:
		out := make(Input, len(x))
		for k, s := range x {
			out[k] = s
		}
		return out, true, nil
	default:
		return nil, true, Fail(CodeFormatInvalid, "Expected object, received %s", kindOf(v))
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case string:
		return "text"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, json.Number:
		return "number"
	case []any, []string:
		return "list"
	case map[string]any, map[string]string, Input:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
