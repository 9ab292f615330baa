package model

// StepKind discriminates the three step variants.
type StepKind string

const (
	StepAction  StepKind = "action"
	StepGroup   StepKind = "group"
	StepControl StepKind = "control"
)

// ControlKind names the control-flow verbs a control step may carry.
type ControlKind string

const (
	ControlIf       ControlKind = "if"
	ControlForEach  ControlKind = "for_each"
	ControlWhile    ControlKind = "while"
	ControlTry      ControlKind = "try"
	ControlParallel ControlKind = "parallel"
	ControlBreak    ControlKind = "break"
	ControlContinue ControlKind = "continue"
	ControlReturn   ControlKind = "return"
)

// Step is the tagged union over the three step variants. Only the fields of
// the active variant are populated; the Kind field says which one that is.
type Step struct {
	Kind        StepKind
	ID          string
	Title       string
	Description string

	// Action variant.
	Action      string
	Target      *Selector
	Input       map[string]any
	Expect      map[string]any
	Timing      map[string]any
	Retry       map[string]any
	Capture     map[string]any
	Annotations []map[string]any

	// Group variant (also the body of for_each, while and parallel).
	Steps []*Step

	// Control variant.
	Control       ControlKind
	Branches      []Branch // if: guarded branches, in declaration order
	Else          []*Step  // if: fallback body when no branch matches
	Items         string   // for_each: items-source expression
	As            string   // for_each: loop variable name
	Condition     string   // while: guard expression
	MaxIterations int      // while: iteration cap, 0 means the default
	Finally       []*Step  // try: always-expanded tail
	Catch         []*Step  // try: parsed and retained, never expanded
}

// Branch is one guarded arm of an if step.
type Branch struct {
	When  string
	Steps []*Step
}

// Selector locates a target element using one named strategy. Fallbacks are
// full selectors tried in declaration order when the primary strategy is not
// acceptable for a given action and platform.
//
// Value carries the strategy's payload: a CSS selector, an XPath, an element
// id, visible text, an automation-attribute expression (uia), or an
// object-hierarchy path. The coords strategy uses X and Y instead, as
// normalized 0..1 screen fractions.
type Selector struct {
	Strategy  string
	Value     string
	X         float64
	Y         float64
	Fallbacks []*Selector
}

// Clone returns a deep copy of the step and its whole subtree.
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	out := *s
	out.Target = s.Target.Clone()
	out.Input = cloneAnyMap(s.Input)
	out.Expect = cloneAnyMap(s.Expect)
	out.Timing = cloneAnyMap(s.Timing)
	out.Retry = cloneAnyMap(s.Retry)
	out.Capture = cloneAnyMap(s.Capture)
	if s.Annotations != nil {
		out.Annotations = make([]map[string]any, len(s.Annotations))
		for i, a := range s.Annotations {
			out.Annotations[i] = cloneAnyMap(a)
		}
	}
	out.Steps = cloneSteps(s.Steps)
	out.Else = cloneSteps(s.Else)
	out.Finally = cloneSteps(s.Finally)
	out.Catch = cloneSteps(s.Catch)
	if s.Branches != nil {
		out.Branches = make([]Branch, len(s.Branches))
		for i, b := range s.Branches {
			out.Branches[i] = Branch{When: b.When, Steps: cloneSteps(b.Steps)}
		}
	}
	return &out
}

// Clone returns a deep copy of the selector and its fallback chain.
func (sel *Selector) Clone() *Selector {
	if sel == nil {
		return nil
	}
	out := *sel
	if sel.Fallbacks != nil {
		out.Fallbacks = make([]*Selector, len(sel.Fallbacks))
		for i, fb := range sel.Fallbacks {
			out.Fallbacks[i] = fb.Clone()
		}
	}
	return &out
}

func cloneSteps(steps []*Step) []*Step {
	if steps == nil {
		return nil
	}
	out := make([]*Step, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneAnyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneAny(e)
		}
		return out
	default:
		return v
	}
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAny(v)
	}
	return out
}
