package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalRaw() map[string]any {
	return map[string]any{
		"schemaVersion": "1.0",
		"id":            "Avatar Smoke",
		"name":          "Avatar editor smoke",
		"platform":      "web",
		"steps": []any{
			map[string]any{"id": "open", "title": "Open page", "action": "navigate"},
		},
	}
}

func TestNormalizeSchemaVersion(t *testing.T) {
	testCases := []struct {
		name      string
		version   any
		expectErr string
	}{
		{name: "major only", version: "1"},
		{name: "major dot minor", version: "1.2"},
		{name: "numeric version", version: 1},
		{name: "wrong major", version: "2.0", expectErr: "unsupported schemaVersion"},
		{name: "missing version", version: nil, expectErr: "missing schemaVersion"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := minimalRaw()
			if tc.version == nil {
				delete(raw, "schemaVersion")
			} else {
				raw["schemaVersion"] = tc.version
			}

			doc, err := Normalize(raw, "scenario.yaml")
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				assert.Contains(t, err.Error(), "scenario.yaml", "error must name the source")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "avatar-smoke", doc.ID)
		})
	}
}

func TestNormalizeStepDefaults(t *testing.T) {
	raw := minimalRaw()
	raw["steps"] = []any{
		map[string]any{"id": "plain", "title": "Plain"}, // kind omitted
		nil,       // discarded
		"garbage", // discarded
		map[string]any{"id": "!!!", "title": "Symbols only", "action": "click"},
		map[string]any{
			"title": "A group",
			"kind":  "group",
			"steps": []any{
				map[string]any{"id": "inner", "title": "Inner", "action": "click"},
			},
		},
		map[string]any{
			"title":   "A loop",
			"control": "for_each",
			"items":   `["a","b"]`,
			"as":      "part",
			"steps": []any{
				map[string]any{"id": "body", "title": "Body", "action": "click"},
			},
		},
	}

	doc, err := Normalize(raw, "scenario.yaml")
	require.NoError(t, err)
	require.Len(t, doc.Steps, 4, "null and non-record entries are dropped")

	assert.Equal(t, StepAction, doc.Steps[0].Kind, "kind defaults to action")
	assert.Equal(t, "step-2", doc.Steps[1].ID, "all-symbol id falls back to positional placeholder")
	assert.Equal(t, StepGroup, doc.Steps[2].Kind)
	assert.Equal(t, "group-3", doc.Steps[2].ID)

	loop := doc.Steps[3]
	assert.Equal(t, StepControl, loop.Kind, "control payload classifies the step")
	assert.Equal(t, ControlForEach, loop.Control)
	assert.Equal(t, "part", loop.As)
	assert.Equal(t, "control-4", loop.ID)
	require.Len(t, loop.Steps, 1)
}

func TestNormalizeSelectorFallbacks(t *testing.T) {
	raw := minimalRaw()
	raw["steps"] = []any{
		map[string]any{
			"id":     "pick",
			"title":  "Pick button",
			"action": "click",
			"target": map[string]any{
				"strategy": "role",
				"value":    "button[name=Save]",
				"fallbacks": []any{
					map[string]any{"strategy": "css", "value": "#save"},
					map[string]any{
						"strategy": "xpath",
						"value":    "//button[@id='save']",
						"fallbacks": []any{
							map[string]any{"strategy": "coords", "x": 0.5, "y": 0.9},
						},
					},
				},
			},
		},
	}

	doc, err := Normalize(raw, "scenario.yaml")
	require.NoError(t, err)

	sel := doc.Steps[0].Target
	require.NotNil(t, sel)
	assert.Equal(t, "role", sel.Strategy)
	require.Len(t, sel.Fallbacks, 2)
	assert.Equal(t, "css", sel.Fallbacks[0].Strategy)
	require.Len(t, sel.Fallbacks[1].Fallbacks, 1)
	assert.InDelta(t, 0.9, sel.Fallbacks[1].Fallbacks[0].Y, 1e-9)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(doc *Document)
		expectErr string
	}{
		{name: "valid document", mutate: func(*Document) {}},
		{
			name:      "missing name",
			mutate:    func(d *Document) { d.Name = "" },
			expectErr: "scenario name is required",
		},
		{
			name:      "no steps",
			mutate:    func(d *Document) { d.Steps = nil },
			expectErr: "has no steps",
		},
		{
			name: "action without verb",
			mutate: func(d *Document) {
				d.Steps[0].Action = ""
			},
			expectErr: `step "open": action verb is required`,
		},
		{
			name: "empty group body",
			mutate: func(d *Document) {
				d.Steps = []*Step{{Kind: StepGroup, ID: "grp", Title: "Group"}}
			},
			expectErr: `group "grp": group body must not be empty`,
		},
		{
			name: "unknown control verb",
			mutate: func(d *Document) {
				d.Steps = []*Step{{Kind: StepControl, ID: "ctl", Title: "Bad", Control: "goto"}}
			},
			expectErr: `unsupported control verb "goto"`,
		},
		{
			name:      "bad platform",
			mutate:    func(d *Document) { d.Platform = "ios" },
			expectErr: `unsupported platform "ios"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Normalize(minimalRaw(), "scenario.yaml")
			require.NoError(t, err)
			tc.mutate(doc)

			err = Validate(doc)
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	doc, err := Normalize(minimalRaw(), "scenario.yaml")
	require.NoError(t, err)
	doc.Metadata = map[string]any{"suite": "smoke"}

	clone := doc.Clone()
	clone.Steps[0].Title = "changed"
	clone.Metadata["suite"] = "regression"

	assert.Equal(t, "Open page", doc.Steps[0].Title)
	assert.Equal(t, "smoke", doc.Metadata["suite"])
}
