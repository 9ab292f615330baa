package robot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metyatech/automation-scenario-studio/internal/model"
)

// maxSelectorDepth bounds the fallback-chain traversal. Selector trees are
// authored by hand and stay shallow; a depth past this indicates a malformed
// document rather than a real preference chain.
const maxSelectorDepth = 16

// resolveSelector walks the selector and its fallback chain in declaration
// order (primary first, then fallbacks depth-first) and returns the first
// whose strategy is in the allowed set. stepID is only used for the error.
func resolveSelector(sel *model.Selector, allowed map[string]bool, stepID string) (*model.Selector, error) {
	if sel == nil {
		return nil, fmt.Errorf("step %q: target selector is required", stepID)
	}
	if found := findAcceptable(sel, allowed, 0); found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("step %q: no selector strategy in chain is supported (primary %q)",
		stepID, sel.Strategy)
}

func findAcceptable(sel *model.Selector, allowed map[string]bool, depth int) *model.Selector {
	if sel == nil || depth > maxSelectorDepth {
		return nil
	}
	if allowed[sel.Strategy] {
		return sel
	}
	for _, fb := range sel.Fallbacks {
		if found := findAcceptable(fb, allowed, depth+1); found != nil {
			return found
		}
	}
	return nil
}

// selectorCandidates flattens the chain (primary first, fallbacks
// depth-first) keeping only selectors with an allowed strategy. Used by the
// ordered-fallback keywords, which try every candidate at run time.
func selectorCandidates(sel *model.Selector, allowed map[string]bool) []*model.Selector {
	var out []*model.Selector
	collectCandidates(sel, allowed, 0, &out)
	return out
}

func collectCandidates(sel *model.Selector, allowed map[string]bool, depth int, out *[]*model.Selector) {
	if sel == nil || depth > maxSelectorDepth {
		return
	}
	if allowed[sel.Strategy] {
		*out = append(*out, sel)
	}
	for _, fb := range sel.Fallbacks {
		collectCandidates(fb, allowed, depth+1, out)
	}
}

// webLocator renders a selector as a SeleniumLibrary locator string.
func webLocator(sel *model.Selector) string {
	switch sel.Strategy {
	case "css":
		return "css:" + sel.Value
	case "xpath":
		return "xpath:" + sel.Value
	case "id":
		return "id:" + sel.Value
	case "text":
		return "xpath://*[normalize-space(.)=" + xpathLiteral(sel.Value) + "]"
	default:
		return sel.Value
	}
}

// editorLocator renders a selector as a locator for the editor automation
// bridge: uia:<attribute expression>, path:<hierarchy path> or
// coords:<x>,<y> with normalized 0..1 fractions.
func editorLocator(sel *model.Selector) string {
	switch sel.Strategy {
	case "uia":
		return "uia:" + sel.Value
	case "hierarchy":
		return "path:" + sel.Value
	case "coords":
		return "coords:" + formatCoord(sel.X) + "," + formatCoord(sel.Y)
	default:
		return sel.Value
	}
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// xpathLiteral quotes a string for use inside an XPath expression. Values
// containing both quote kinds fall back to a concat() expression.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
