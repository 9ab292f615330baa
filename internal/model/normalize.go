package model

import (
	"fmt"
	"sort"
	"strings"
)

// Normalize turns an untyped, already-decoded document into the canonical
// Document tree. sourceID identifies the origin (usually a file path) and is
// named in every error. The schema major version must match
// SupportedSchemaMajor exactly; anything else is a hard failure.
func Normalize(raw map[string]any, sourceID string) (*Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%s: document is empty", sourceID)
	}
	raw = normalizeAnyMap(raw)

	version := getString(raw, "schemaVersion", "schema_version", "version")
	if version == "" {
		return nil, fmt.Errorf("%s: missing schemaVersion", sourceID)
	}
	if major := schemaMajor(version); major != SupportedSchemaMajor {
		return nil, fmt.Errorf("%s: unsupported schemaVersion %q (supported major version is %s)",
			sourceID, version, SupportedSchemaMajor)
	}

	doc := &Document{
		SchemaVersion: version,
		SourceID:      sourceID,
		ID:            SanitizeID(getString(raw, "id")),
		Name:          getString(raw, "name"),
		Description:   getString(raw, "description"),
		Platform:      Platform(getString(raw, "platform", "target")),
		Metadata:      getMap(raw, "metadata"),
	}
	switch doc.Platform {
	case "":
		doc.Platform = PlatformWeb
	case "desktop-editor":
		// Older documents predate the editor being named explicitly.
		doc.Platform = PlatformUnityEditor
	}

	doc.Variables = normalizeVariables(raw["variables"])
	doc.Profiles = normalizeProfiles(getMap(raw, "profiles"))
	doc.Execution = normalizeExecution(getMap(raw, "execution"))
	doc.Outputs = normalizeOutputs(getMap(raw, "outputs"))
	doc.Steps = normalizeSteps(getSlice(raw, "steps"))

	return doc, nil
}

// schemaMajor extracts the major component of a version string such as "1",
// "1.0" or "1.2.3".
func schemaMajor(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}

// normalizeVariables accepts both authoring shapes: the ordered list form
// (YAML/JSON) and the id-keyed mapping the HCL labeled-block syntax
// produces. The mapping form is ordered by id so compilation stays
// deterministic.
func normalizeVariables(raw any) []Variable {
	var vars []Variable
	switch t := raw.(type) {
	case []any:
		for _, entry := range t {
			m, ok := rawMap(entry)
			if !ok {
				continue
			}
			vars = append(vars, normalizeVariable(normalizeAnyMap(m), ""))
		}
	case map[string]any, map[any]any:
		m, _ := rawMap(t)
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			entry, ok := rawMap(m[id])
			if !ok {
				continue
			}
			vars = append(vars, normalizeVariable(normalizeAnyMap(entry), id))
		}
	}
	return vars
}

func normalizeVariable(m map[string]any, fallbackID string) Variable {
	id := getString(m, "id", "name")
	if id == "" {
		id = fallbackID
	}
	v := Variable{
		ID:       SanitizeID(id),
		Type:     getString(m, "type"),
		Required: getBool(m, "required"),
	}
	if def, ok := getAny(m, "default", "value"); ok {
		v.Default = def
	}
	return v
}

func normalizeProfiles(raw map[string]any) map[string]Profile {
	if raw == nil {
		return nil
	}
	profiles := make(map[string]Profile, len(raw))
	for name, entry := range raw {
		m, ok := rawMap(entry)
		if !ok {
			continue
		}
		m = normalizeAnyMap(m)
		profiles[name] = Profile{
			Extends:   getString(m, "extends"),
			Variables: getMap(m, "variables", "values"),
		}
	}
	return profiles
}

func normalizeExecution(raw map[string]any) Execution {
	if raw == nil {
		return Execution{}
	}
	return Execution{
		BaseURL:        getString(raw, "baseUrl", "base_url"),
		Browser:        getString(raw, "browser"),
		EditorEndpoint: getString(raw, "editorEndpoint", "editor_endpoint"),
		TimeoutSeconds: getInt(raw, "timeoutSeconds", "timeout_seconds"),
		RecordVideo:    getBool(raw, "recordVideo", "record_video"),
	}
}

func normalizeOutputs(raw map[string]any) Outputs {
	if raw == nil {
		return Outputs{}
	}
	return Outputs{
		ScreenshotsDir: getString(raw, "screenshotsDir", "screenshots_dir"),
		ArtifactsJSON:  getString(raw, "artifactsJson", "artifacts_json"),
		VideoPath:      getString(raw, "videoPath", "video_path"),
		ManifestPath:   getString(raw, "manifestPath", "manifest_path"),
	}
}

// normalizeSteps filters the raw list down to well-formed entries (discarding
// nulls and non-records) and normalizes each survivor. Positional
// placeholders for empty ids use the 1-based index within this list.
func normalizeSteps(raw []any) []*Step {
	var steps []*Step
	index := 0
	for _, entry := range raw {
		m, ok := rawMap(entry)
		if !ok {
			continue
		}
		index++
		steps = append(steps, normalizeStep(normalizeAnyMap(m), index))
	}
	return steps
}

func normalizeStep(raw map[string]any, position int) *Step {
	kind := stepKind(raw)

	step := &Step{
		Kind:        kind,
		Title:       getString(raw, "title"),
		Description: getString(raw, "description"),
	}
	step.ID = SanitizeIDOr(getString(raw, "id"), positionalID(kind, position))

	switch kind {
	case StepAction:
		step.Action = getString(raw, "action", "verb")
		step.Target = normalizeSelector(getMap(raw, "target", "selector"))
		step.Input = getMap(raw, "input", "inputs", "params")
		step.Expect = getMap(raw, "expect")
		step.Timing = getMap(raw, "timing")
		step.Retry = getMap(raw, "retry")
		step.Capture = getMap(raw, "capture")
		step.Annotations = normalizeAnnotations(getSlice(raw, "annotations"))

	case StepGroup:
		step.Steps = normalizeSteps(getSlice(raw, "steps"))

	case StepControl:
		step.Control = ControlKind(getString(raw, "control"))
		step.Steps = normalizeSteps(getSlice(raw, "steps", "body"))
		step.Else = normalizeSteps(getSlice(raw, "else", "else_steps"))
		step.Finally = normalizeSteps(getSlice(raw, "finally", "finally_steps"))
		step.Catch = normalizeSteps(getSlice(raw, "catch", "catch_steps"))
		step.Items = getString(raw, "items", "in")
		step.As = SanitizeID(getString(raw, "as", "var"))
		step.Condition = getString(raw, "condition", "when")
		step.MaxIterations = getInt(raw, "maxIterations", "max_iterations")
		for _, entry := range getSlice(raw, "branches") {
			m, ok := rawMap(entry)
			if !ok {
				continue
			}
			m = normalizeAnyMap(m)
			step.Branches = append(step.Branches, Branch{
				When:  getString(m, "when", "condition"),
				Steps: normalizeSteps(getSlice(m, "steps")),
			})
		}
	}

	return step
}

// stepKind honors an explicit kind field and otherwise defaults to action.
// A step that omits kind but carries a control verb or a nested step list is
// classified by that payload, since neither field has a meaning on an action.
func stepKind(raw map[string]any) StepKind {
	switch StepKind(getString(raw, "kind", "type")) {
	case StepGroup:
		return StepGroup
	case StepControl:
		return StepControl
	case StepAction:
		return StepAction
	}
	if getString(raw, "control") != "" {
		return StepControl
	}
	if _, ok := getAny(raw, "steps"); ok {
		return StepGroup
	}
	return StepAction
}

func positionalID(kind StepKind, position int) string {
	prefix := "step"
	switch kind {
	case StepGroup:
		prefix = "group"
	case StepControl:
		prefix = "control"
	}
	return fmt.Sprintf("%s-%d", prefix, position)
}

func normalizeSelector(raw map[string]any) *Selector {
	if raw == nil {
		return nil
	}
	sel := &Selector{
		Strategy: getString(raw, "strategy", "by"),
		Value:    getString(raw, "value", "path", "query"),
		X:        getFloat(raw, "x"),
		Y:        getFloat(raw, "y"),
	}
	for _, entry := range getSlice(raw, "fallbacks") {
		m, ok := rawMap(entry)
		if !ok {
			continue
		}
		if fb := normalizeSelector(normalizeAnyMap(m)); fb != nil {
			sel.Fallbacks = append(sel.Fallbacks, fb)
		}
	}
	return sel
}

func normalizeAnnotations(raw []any) []map[string]any {
	var out []map[string]any
	for _, entry := range raw {
		m, ok := rawMap(entry)
		if !ok {
			continue
		}
		out = append(out, normalizeAnyMap(m))
	}
	return out
}
