package expr

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value evaluates a single token against the scope. The forms are tried in
// order: ${path} lookup, quoted string, true/false/null, numeric literal,
// JSON object or array literal, bare identifier as a scope path, and finally
// the raw token itself.
func Value(token string, scope Scope) any {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}

	if strings.HasPrefix(token, "${") && strings.HasSuffix(token, "}") {
		v, _ := scope.Lookup(strings.TrimSpace(token[2 : len(token)-1]))
		return v
	}

	if len(token) >= 2 {
		if (token[0] == '"' && token[len(token)-1] == '"') ||
			(token[0] == '\'' && token[len(token)-1] == '\'') {
			return token[1 : len(token)-1]
		}
	}

	switch token {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return n
	}

	if token[0] == '{' || token[0] == '[' {
		var decoded any
		if err := json.Unmarshal([]byte(token), &decoded); err == nil {
			return decoded
		}
	}

	if v, ok := scope.Lookup(token); ok {
		return v
	}
	return token
}

// Render produces the textual form of a value for interpolation and
// comparison. Objects and arrays render as their compact JSON form; nil
// renders as the empty string.
func Render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(encoded)
	}
}

// Truthy reports whether a value counts as true in a bare-token condition.
// The empty string, zero, "false", empty sequences and empty mappings are
// all falsy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "false" && t != "0"
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
