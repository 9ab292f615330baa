package expr

import "strings"

// Scope is the value environment an expression evaluates against. Values are
// the natural Go forms of decoded document data: nil, bool, float64, string,
// []any and map[string]any.
type Scope map[string]any

// Child returns a copy of the scope with the given bindings applied on top.
// The receiver is never mutated, so sibling iterations cannot observe each
// other's bindings.
func (s Scope) Child(bindings map[string]any) Scope {
	child := make(Scope, len(s)+len(bindings))
	for k, v := range s {
		child[k] = v
	}
	for k, v := range bindings {
		child[k] = v
	}
	return child
}

// Lookup resolves a dot-separated path through nested mappings. The second
// return is false when any segment is missing or a non-mapping is traversed.
func (s Scope) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	var current any = map[string]any(s)
	for _, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			if sc, isScope := current.(Scope); isScope {
				m = map[string]any(sc)
			} else {
				return nil, false
			}
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
