// Package resolver computes the effective variable values for a compilation
// (declaration defaults, profile inheritance, runtime overrides) and rewrites
// the document with every ${...} placeholder interpolated.
package resolver

import (
	"fmt"
	"sort"

	"github.com/metyatech/automation-scenario-studio/internal/expr"
	"github.com/metyatech/automation-scenario-studio/internal/model"
)

// Options selects the profile and runtime overrides for one resolution.
// Overrides have the highest precedence.
type Options struct {
	Profile   string
	Overrides map[string]any
}

// Resolve produces a new document whose steps, metadata and configuration are
// fully interpolated against the effective variable values. The original
// variable and profile declarations are retained unmodified on the returned
// copy, since downstream tooling may need them.
func Resolve(doc *model.Document, opts Options) (*model.Document, expr.Scope, error) {
	values, err := Values(doc, opts)
	if err != nil {
		return nil, nil, err
	}

	out := doc.Clone()
	out.Name = Interpolate(out.Name, values)
	out.Description = Interpolate(out.Description, values)
	out.Metadata = interpolateMap(out.Metadata, values, false)
	out.Execution.BaseURL = Interpolate(out.Execution.BaseURL, values)
	out.Execution.Browser = Interpolate(out.Execution.Browser, values)
	out.Execution.EditorEndpoint = Interpolate(out.Execution.EditorEndpoint, values)
	out.Outputs.ScreenshotsDir = Interpolate(out.Outputs.ScreenshotsDir, values)
	out.Outputs.ArtifactsJSON = Interpolate(out.Outputs.ArtifactsJSON, values)
	out.Outputs.VideoPath = Interpolate(out.Outputs.VideoPath, values)
	out.Outputs.ManifestPath = Interpolate(out.Outputs.ManifestPath, values)
	// Step subtrees keep unknown placeholders: loop variables such as
	// ${part} only get values during expansion, and blanking them here would
	// destroy them before the expander can bind them.
	for _, step := range out.Steps {
		interpolateStepInPlace(step, values, true)
	}
	return out, values, nil
}

// Values merges variable defaults, the selected profile chain and the caller
// overrides into the effective value mapping, then checks that every required
// variable ended up defined.
func Values(doc *model.Document, opts Options) (expr.Scope, error) {
	values := make(expr.Scope, len(doc.Variables))
	for _, v := range doc.Variables {
		if v.Default != nil {
			values[v.ID] = v.Default
		}
	}

	if opts.Profile != "" {
		chain, err := profileChain(doc, opts.Profile)
		if err != nil {
			return nil, err
		}
		for _, p := range chain {
			for k, v := range p.Variables {
				values[k] = v
			}
		}
	}

	// Overrides applied in sorted key order; precedence is per key, so the
	// order only matters for determinism of map construction.
	keys := make([]string, 0, len(opts.Overrides))
	for k := range opts.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values[k] = opts.Overrides[k]
	}

	for _, v := range doc.Variables {
		if !v.Required {
			continue
		}
		if val, ok := values[v.ID]; !ok || val == nil {
			return nil, fmt.Errorf("required variable %q has no value", v.ID)
		}
	}
	return values, nil
}

// profileChain resolves a profile's inheritance chain, ancestors first, so a
// child's values always win on key collision. A missing profile or a cycle in
// the extends graph is a fatal error.
func profileChain(doc *model.Document, name string) ([]model.Profile, error) {
	var chain []model.Profile
	visited := make(map[string]bool)

	for current := name; current != ""; {
		if visited[current] {
			return nil, fmt.Errorf("profile inheritance cycle involving %q", current)
		}
		visited[current] = true

		profile, ok := doc.Profiles[current]
		if !ok {
			return nil, fmt.Errorf("profile %q is not defined", current)
		}
		chain = append([]model.Profile{profile}, chain...)
		current = profile.Extends
	}
	return chain, nil
}
