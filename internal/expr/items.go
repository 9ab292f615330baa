package expr

import (
	"sort"
	"strings"
)

// Items evaluates a for_each source expression into the sequence it iterates.
// Accepted shapes: a JSON array literal, a sequence value, a mapping
// (iterated as its value sequence in key order, for determinism), a
// comma-separated string (split and trimmed), or a single scalar wrapped as a
// one-element sequence. An unresolved or empty source yields no iterations.
func Items(source string, scope Scope) []any {
	v := Value(source, scope)
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		values := make([]any, 0, len(t))
		for _, k := range keys {
			values = append(values, t[k])
		}
		return values
	case string:
		if t == "" {
			return nil
		}
		if strings.Contains(t, ",") {
			parts := strings.Split(t, ",")
			items := make([]any, 0, len(parts))
			for _, p := range parts {
				items = append(items, strings.TrimSpace(p))
			}
			return items
		}
		return []any{t}
	default:
		return []any{t}
	}
}
