package resolver

import (
	"regexp"

	"github.com/metyatech/automation-scenario-studio/internal/expr"
	"github.com/metyatech/automation-scenario-studio/internal/model"
)

// placeholderPattern matches ${identifier} placeholders. Identifiers follow
// sanitized id syntax (hyphens allowed) and may be dot-separated paths into
// nested mappings.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_.-]*)\}`)

// Interpolate replaces every ${identifier} placeholder in s with the textual
// form of its value. Unknown placeholders resolve to the empty string; this
// tolerance is deliberate, so partially-parameterized documents still compile.
func Interpolate(s string, values expr.Scope) string {
	return interpolate(s, values, false)
}

// interpolate does the replacement. In keepUnknown mode a placeholder with no
// value survives verbatim instead of blanking; the resolver uses this on step
// subtrees so loop variables bound later, during expansion, are not destroyed
// by document-level interpolation.
func interpolate(s string, values expr.Scope, keepUnknown bool) string {
	if s == "" {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		path := match[2 : len(match)-1]
		v, ok := values.Lookup(path)
		if !ok {
			if keepUnknown {
				return match
			}
			return ""
		}
		return expr.Render(v)
	})
}

// InterpolateStep returns a copy of the step subtree with every string field
// interpolated, unknown placeholders blanking. The expander calls this on
// each flattened action step with the iteration scope applied.
func InterpolateStep(step *model.Step, values expr.Scope) *model.Step {
	out := step.Clone()
	interpolateStepInPlace(out, values, false)
	return out
}

func interpolateStepInPlace(step *model.Step, values expr.Scope, keepUnknown bool) {
	step.Title = interpolate(step.Title, values, keepUnknown)
	step.Description = interpolate(step.Description, values, keepUnknown)
	step.Input = interpolateMap(step.Input, values, keepUnknown)
	step.Expect = interpolateMap(step.Expect, values, keepUnknown)
	step.Timing = interpolateMap(step.Timing, values, keepUnknown)
	step.Retry = interpolateMap(step.Retry, values, keepUnknown)
	step.Capture = interpolateMap(step.Capture, values, keepUnknown)
	for i, a := range step.Annotations {
		step.Annotations[i] = interpolateMap(a, values, keepUnknown)
	}
	interpolateSelectorInPlace(step.Target, values, keepUnknown)

	for _, nested := range step.Steps {
		interpolateStepInPlace(nested, values, keepUnknown)
	}
	for i := range step.Branches {
		for _, nested := range step.Branches[i].Steps {
			interpolateStepInPlace(nested, values, keepUnknown)
		}
	}
	for _, nested := range step.Else {
		interpolateStepInPlace(nested, values, keepUnknown)
	}
	for _, nested := range step.Finally {
		interpolateStepInPlace(nested, values, keepUnknown)
	}
	for _, nested := range step.Catch {
		interpolateStepInPlace(nested, values, keepUnknown)
	}
}

func interpolateSelectorInPlace(sel *model.Selector, values expr.Scope, keepUnknown bool) {
	if sel == nil {
		return
	}
	sel.Value = interpolate(sel.Value, values, keepUnknown)
	for _, fb := range sel.Fallbacks {
		interpolateSelectorInPlace(fb, values, keepUnknown)
	}
}

func interpolateMap(m map[string]any, values expr.Scope, keepUnknown bool) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = interpolateValue(v, values, keepUnknown)
	}
	return out
}

func interpolateValue(v any, values expr.Scope, keepUnknown bool) any {
	switch t := v.(type) {
	case string:
		return interpolate(t, values, keepUnknown)
	case map[string]any:
		return interpolateMap(t, values, keepUnknown)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = interpolateValue(e, values, keepUnknown)
		}
		return out
	default:
		return v
	}
}
