package expr

import "strings"

// operators in recognition order. The first one found in the expression wins,
// so >= and <= must come before > and <.
var operators = []string{"==", "!=", ">=", "<=", ">", "<", " in ", " contains "}

// Condition evaluates a boolean expression against the scope. A leading !
// negates the rest. Otherwise the expression splits on the first recognized
// operator with both sides evaluated as tokens; an expression with no
// operator is a single token tested for truthiness.
func Condition(expression string, scope Scope) bool {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false
	}
	if strings.HasPrefix(expression, "!") {
		return !Condition(expression[1:], scope)
	}

	for _, op := range operators {
		idx := strings.Index(expression, op)
		if idx < 0 {
			continue
		}
		left := Value(expression[:idx], scope)
		right := Value(expression[idx+len(op):], scope)
		return compare(strings.TrimSpace(op), left, right)
	}

	return Truthy(Value(expression, scope))
}

func compare(op string, left, right any) bool {
	switch op {
	case "in":
		return member(left, right)
	case "contains":
		return member(right, left)
	}

	// Numeric comparison when both sides parse as finite numbers, otherwise
	// lexicographic comparison of the rendered strings.
	ln, lok := asNumber(left)
	rn, rok := asNumber(right)
	if lok && rok {
		switch op {
		case "==":
			return ln == rn
		case "!=":
			return ln != rn
		case ">=":
			return ln >= rn
		case "<=":
			return ln <= rn
		case ">":
			return ln > rn
		case "<":
			return ln < rn
		}
		return false
	}

	ls, rs := Render(left), Render(right)
	switch op {
	case "==":
		return ls == rs
	case "!=":
		return ls != rs
	case ">=":
		return ls >= rs
	case "<=":
		return ls <= rs
	case ">":
		return ls > rs
	case "<":
		return ls < rs
	}
	return false
}

// member reports whether needle occurs in haystack: element membership when
// haystack is a sequence, substring when it is a string.
func member(needle, haystack any) bool {
	switch h := haystack.(type) {
	case []any:
		target := Render(needle)
		for _, item := range h {
			if Render(item) == target {
				return true
			}
		}
		return false
	case string:
		return strings.Contains(h, Render(needle))
	case map[string]any:
		_, ok := h[Render(needle)]
		return ok
	default:
		return false
	}
}
