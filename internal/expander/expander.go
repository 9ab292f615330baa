// Package expander statically unrolls the step tree into a flat, ordered
// sequence of action steps. Branches, loops and signals are resolved at
// compile time against the effective variable values; nothing here observes
// the test run itself.
package expander

import (
	"fmt"
	"strings"

	"github.com/metyatech/automation-scenario-studio/internal/expr"
	"github.com/metyatech/automation-scenario-studio/internal/model"
	"github.com/metyatech/automation-scenario-studio/internal/resolver"
)

// DefaultMaxIterations bounds a while loop whose guard never turns false.
const DefaultMaxIterations = 50

// Options tunes one expansion call.
type Options struct {
	// MaxIterations caps while loops that do not set their own cap.
	// Zero means DefaultMaxIterations.
	MaxIterations int
}

// signal is the loop-control outcome of expanding a step list. It is returned
// up the recursion, not shared through mutable state, so independent
// expansions can never leak signals into each other. A signal raised inside a
// nested if still reaches the nearest enclosing loop because every frame
// between them propagates it upward.
type signal int

const (
	signalNone signal = iota
	signalBreak
	signalContinue
	signalReturn
)

// Expand flattens the step tree into the ordered action-step sequence,
// evaluating guards and loop sources against scope. Flattened ids are
// deduplicated in first-seen order: the first occurrence keeps the bare id,
// repeats get -2, -3, ... suffixes.
func Expand(steps []*model.Step, scope expr.Scope, opts Options) ([]*model.Step, error) {
	e := &expander{maxIterations: opts.MaxIterations}
	if e.maxIterations <= 0 {
		e.maxIterations = DefaultMaxIterations
	}

	flat, _, err := e.expandList(steps, scope, nil)
	if err != nil {
		return nil, err
	}
	dedupeIDs(flat)
	return flat, nil
}

type expander struct {
	maxIterations int
}

func (e *expander) expandList(steps []*model.Step, scope expr.Scope, titlePrefix []string) ([]*model.Step, signal, error) {
	var flat []*model.Step
	for _, step := range steps {
		produced, sig, err := e.expandStep(step, scope, titlePrefix)
		if err != nil {
			return nil, signalNone, err
		}
		flat = append(flat, produced...)
		if sig != signalNone {
			return flat, sig, nil
		}
	}
	return flat, signalNone, nil
}

func (e *expander) expandStep(step *model.Step, scope expr.Scope, titlePrefix []string) ([]*model.Step, signal, error) {
	switch step.Kind {
	case model.StepAction:
		out := resolver.InterpolateStep(step, scope)
		if len(titlePrefix) > 0 {
			out.Title = strings.Join(append(append([]string{}, titlePrefix...), out.Title), " > ")
		}
		return []*model.Step{out}, signalNone, nil

	case model.StepGroup:
		title := resolver.Interpolate(step.Title, scope)
		return e.expandListIn(step.Steps, scope, append(titlePrefix, title))

	case model.StepControl:
		return e.expandControl(step, scope, titlePrefix)

	default:
		return nil, signalNone, fmt.Errorf("step %q: unknown step kind %q", step.ID, step.Kind)
	}
}

// expandListIn exists so appends to the prefix slice cannot alias the
// caller's backing array across sibling groups.
func (e *expander) expandListIn(steps []*model.Step, scope expr.Scope, titlePrefix []string) ([]*model.Step, signal, error) {
	prefix := append([]string{}, titlePrefix...)
	return e.expandList(steps, scope, prefix)
}

func (e *expander) expandControl(step *model.Step, scope expr.Scope, titlePrefix []string) ([]*model.Step, signal, error) {
	switch step.Control {
	case model.ControlIf:
		for _, branch := range step.Branches {
			if expr.Condition(branch.When, scope) {
				return e.expandListIn(branch.Steps, scope, titlePrefix)
			}
		}
		if len(step.Else) > 0 {
			return e.expandListIn(step.Else, scope, titlePrefix)
		}
		return nil, signalNone, nil

	case model.ControlForEach:
		return e.expandForEach(step, scope, titlePrefix)

	case model.ControlWhile:
		return e.expandWhile(step, scope, titlePrefix)

	case model.ControlTry:
		// Body then always finally. Catch steps are retained in the tree but
		// never expanded; the generated script stays fail-fast. Known gap,
		// kept on purpose.
		body, sig, err := e.expandListIn(step.Steps, scope, titlePrefix)
		if err != nil {
			return nil, signalNone, err
		}
		tail, tailSig, err := e.expandListIn(step.Finally, scope, titlePrefix)
		if err != nil {
			return nil, signalNone, err
		}
		combined := append(body, tail...)
		if tailSig != signalNone {
			sig = tailSig
		}
		return combined, sig, nil

	case model.ControlParallel:
		// The target DSL has no concurrency primitive this compiler can use,
		// so parallel groups expand sequentially in declaration order.
		return e.expandListIn(step.Steps, scope, titlePrefix)

	case model.ControlBreak:
		return nil, signalBreak, nil
	case model.ControlContinue:
		return nil, signalContinue, nil
	case model.ControlReturn:
		return nil, signalReturn, nil

	default:
		return nil, signalNone, fmt.Errorf("step %q: unsupported control verb %q", step.ID, step.Control)
	}
}

func (e *expander) expandForEach(step *model.Step, scope expr.Scope, titlePrefix []string) ([]*model.Step, signal, error) {
	items := expr.Items(step.Items, scope)
	loopVar := step.As
	if loopVar == "" {
		loopVar = "item"
	}

	var flat []*model.Step
	for i, item := range items {
		iterScope := scope.Child(map[string]any{
			loopVar:            item,
			loopVar + "_index": i,
			"item":             item,
			"index":            i,
		})
		produced, sig, err := e.expandListIn(step.Steps, iterScope, titlePrefix)
		if err != nil {
			return nil, signalNone, err
		}
		flat = append(flat, produced...)

		switch sig {
		case signalReturn:
			return flat, signalReturn, nil
		case signalBreak:
			return flat, signalNone, nil
		case signalContinue:
			continue
		}
	}
	return flat, signalNone, nil
}

func (e *expander) expandWhile(step *model.Step, scope expr.Scope, titlePrefix []string) ([]*model.Step, signal, error) {
	limit := step.MaxIterations
	if limit <= 0 {
		limit = e.maxIterations
	}

	var flat []*model.Step
	for i := 0; i < limit; i++ {
		iterScope := scope.Child(map[string]any{"loop_index": i})
		if !expr.Condition(step.Condition, iterScope) {
			break
		}
		produced, sig, err := e.expandListIn(step.Steps, iterScope, titlePrefix)
		if err != nil {
			return nil, signalNone, err
		}
		flat = append(flat, produced...)

		switch sig {
		case signalReturn:
			return flat, signalReturn, nil
		case signalBreak:
			return flat, signalNone, nil
		case signalContinue:
			continue
		}
	}
	return flat, signalNone, nil
}

// dedupeIDs renames repeated ids in first-seen order. The first occurrence
// keeps the bare id; later ones get -2, -3, and so on, skipping suffixes an
// author already used so a repeat can never shadow a distinct id. Loop
// unrolling makes repeats the common case rather than an authoring mistake.
func dedupeIDs(steps []*model.Step) {
	used := make(map[string]bool, len(steps))
	next := make(map[string]int, len(steps))
	for _, step := range steps {
		if !used[step.ID] {
			used[step.ID] = true
			continue
		}
		n := next[step.ID]
		if n < 2 {
			n = 2
		}
		candidate := fmt.Sprintf("%s-%d", step.ID, n)
		for used[candidate] {
			n++
			candidate = fmt.Sprintf("%s-%d", step.ID, n)
		}
		next[step.ID] = n + 1
		step.ID = candidate
		used[candidate] = true
	}
}
