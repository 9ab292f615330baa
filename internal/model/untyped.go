package model

import (
	"fmt"
	"strconv"
)

// Helpers for pulling loosely-typed values out of a decoded document. Every
// accessor tolerates a missing key and accepts the first key that is present,
// so documents may use either camelCase or snake_case spellings.

func rawMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		// Older YAML decoders produce interface-keyed maps.
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func getAny(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func getString(m map[string]any, keys ...string) string {
	v, ok := getAny(m, keys...)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func getBool(m map[string]any, keys ...string) bool {
	v, ok := getAny(m, keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		return err == nil && b
	default:
		return false
	}
}

func getInt(m map[string]any, keys ...string) int {
	v, ok := getAny(m, keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func getFloat(m map[string]any, keys ...string) float64 {
	v, ok := getAny(m, keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func getMap(m map[string]any, keys ...string) map[string]any {
	v, ok := getAny(m, keys...)
	if !ok {
		return nil
	}
	out, ok := rawMap(v)
	if !ok {
		return nil
	}
	return normalizeAnyMap(out)
}

func getSlice(m map[string]any, keys ...string) []any {
	v, ok := getAny(m, keys...)
	if !ok {
		return nil
	}
	s, ok := v.([]any)
	if !ok {
		return nil
	}
	return s
}

// normalizeAnyMap rewrites interface-keyed maps (and nested occurrences) into
// string-keyed maps so downstream code only ever sees map[string]any.
func normalizeAnyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeAnyValue(v)
	}
	return out
}

func normalizeAnyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeAnyMap(t)
	case map[any]any:
		converted, _ := rawMap(t)
		return normalizeAnyMap(converted)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeAnyValue(e)
		}
		return out
	default:
		return v
	}
}
