// Package compiler is the embedding surface of the scenario compiler. It
// stitches the pipeline stages together — normalize, validate, resolve,
// expand, generate — and re-exports each stage for hosts that want to stop
// halfway (an editor plugin validating on keystroke, say, has no use for the
// generated script).
package compiler

import (
	"context"

	"github.com/metyatech/automation-scenario-studio/internal/ctxlog"
	"github.com/metyatech/automation-scenario-studio/internal/expander"
	"github.com/metyatech/automation-scenario-studio/internal/loader"
	"github.com/metyatech/automation-scenario-studio/internal/model"
	"github.com/metyatech/automation-scenario-studio/internal/resolver"
	"github.com/metyatech/automation-scenario-studio/internal/robot"
)

// Options parameterizes one compilation.
type Options struct {
	// Profile selects a variable profile declared by the document.
	Profile string
	// Overrides are runtime variable values with the highest precedence.
	Overrides map[string]any
	// MaxIterations caps while loops; zero means the expander default.
	MaxIterations int
}

// Result carries every intermediate a host might want alongside the script.
type Result struct {
	// Document is the normalized, resolved document.
	Document *model.Document
	// Steps is the flat, expanded action list the script was generated from.
	Steps []*model.Step
	// Script is the generated Robot Framework source.
	Script string
}

// Compile runs the full pipeline over an already-decoded document.
func Compile(ctx context.Context, raw map[string]any, sourceID string, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	doc, err := model.Normalize(raw, sourceID)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(doc); err != nil {
		return nil, err
	}

	resolved, scope, err := resolver.Resolve(doc, resolver.Options{
		Profile:   opts.Profile,
		Overrides: opts.Overrides,
	})
	if err != nil {
		return nil, err
	}

	steps, err := expander.Expand(resolved.Steps, scope, expander.Options{
		MaxIterations: opts.MaxIterations,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Scenario expanded.", "scenario", resolved.ID, "action_count", len(steps))

	script, err := robot.Generate(resolved, steps)
	if err != nil {
		return nil, err
	}

	return &Result{Document: resolved, Steps: steps, Script: script}, nil
}

// CompileFile loads a scenario file and compiles it. The file path doubles as
// the source id named in diagnostics.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	raw, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, raw, path, opts)
}

// Normalize lowers an untyped document into the canonical model.
func Normalize(raw map[string]any, sourceID string) (*model.Document, error) {
	return model.Normalize(raw, sourceID)
}

// Validate checks structural rules the normalizer does not enforce.
func Validate(doc *model.Document) error {
	return model.Validate(doc)
}

// Resolve applies variable and profile resolution to a normalized document.
func Resolve(doc *model.Document, opts Options) (*model.Document, map[string]any, error) {
	resolved, scope, err := resolver.Resolve(doc, resolver.Options{
		Profile:   opts.Profile,
		Overrides: opts.Overrides,
	})
	return resolved, scope, err
}

// Expand flattens a resolved document's step tree into the linear action list.
func Expand(doc *model.Document, scope map[string]any, opts Options) ([]*model.Step, error) {
	return expander.Expand(doc.Steps, scope, expander.Options{
		MaxIterations: opts.MaxIterations,
	})
}

// Generate renders a Robot Framework script from a resolved document and its
// expanded steps.
func Generate(doc *model.Document, steps []*model.Step) (string, error) {
	return robot.Generate(doc, steps)
}
