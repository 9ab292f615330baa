package robot

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metyatech/automation-scenario-studio/internal/model"
)

func webDocument() *model.Document {
	return &model.Document{
		SchemaVersion: "1.0",
		ID:            "smoke",
		Name:          "Checkout smoke",
		Description:   "Walks the checkout happy path",
		Platform:      model.PlatformWeb,
		Execution:     model.Execution{BaseURL: "https://shop.example", Browser: "chrome"},
	}
}

func webClick(id, title string, target *model.Selector) *model.Step {
	return &model.Step{
		Kind:   model.StepAction,
		ID:     id,
		Title:  title,
		Action: "click",
		Target: target,
	}
}

func TestGenerateWebScriptShape(t *testing.T) {
	steps := []*model.Step{
		{Kind: model.StepAction, ID: "open", Title: "Open shop", Action: "navigate",
			Input: map[string]any{"url": "https://shop.example/cart"}},
		webClick("checkout", "Start checkout", &model.Selector{Strategy: "css", Value: "#checkout"}),
	}

	script, err := Generate(webDocument(), steps)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "*** Settings ***\n"))
	assert.Contains(t, script, "Library    SeleniumLibrary")
	assert.Contains(t, script, "\n*** Test Cases ***\nCheckout smoke\n")
	assert.Contains(t, script, "    Go To    https://shop.example/cart\n")
	assert.Contains(t, script, "    Click Element    css:#checkout\n")
	assert.Contains(t, script, "    Doc Web Step    checkout    Start checkout    ${EMPTY}\n")
	assert.Contains(t, script, "\n*** Keywords ***\n")
	assert.Contains(t, script, "Doc Web Step\n    [Arguments]    ${id}    ${title}    ${description}=${EMPTY}\n")
}

func TestGenerateUsesSupportedFallbackSelector(t *testing.T) {
	target := &model.Selector{
		Strategy: "role",
		Value:    "button[name=Save]",
		Fallbacks: []*model.Selector{
			{Strategy: "css", Value: "#save"},
		},
	}

	script, err := Generate(webDocument(), []*model.Step{webClick("save", "Save", target)})
	require.NoError(t, err)

	assert.Contains(t, script, "Click Element    css:#save",
		"the unsupported primary strategy is skipped in favor of the fallback")
	assert.NotContains(t, script, "button[name=Save]")
}

func TestGenerateErrors(t *testing.T) {
	testCases := []struct {
		name      string
		doc       *model.Document
		step      *model.Step
		expectErr string
	}{
		{
			name:      "unsupported platform",
			doc:       &model.Document{Platform: "ios", Name: "x"},
			step:      webClick("s", "S", &model.Selector{Strategy: "css", Value: "#x"}),
			expectErr: `unsupported target platform "ios"`,
		},
		{
			name:      "unsupported verb",
			doc:       webDocument(),
			step:      &model.Step{Kind: model.StepAction, ID: "shake", Title: "Shake", Action: "shake"},
			expectErr: `step "shake": unsupported action verb "shake"`,
		},
		{
			name:      "no acceptable strategy in chain",
			doc:       webDocument(),
			step:      webClick("pick", "Pick", &model.Selector{Strategy: "role", Value: "button"}),
			expectErr: `step "pick": no selector strategy in chain is supported`,
		},
		{
			name:      "missing selector",
			doc:       webDocument(),
			step:      webClick("pick", "Pick", nil),
			expectErr: `step "pick": target selector is required`,
		},
		{
			name: "missing required input",
			doc:  webDocument(),
			step: &model.Step{Kind: model.StepAction, ID: "enter", Title: "Enter", Action: "type",
				Target: &model.Selector{Strategy: "css", Value: "#q"}},
			expectErr: `step "enter": missing required input field "text"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Generate(tc.doc, []*model.Step{tc.step})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestGenerateEditorScript(t *testing.T) {
	doc := &model.Document{
		SchemaVersion: "1.0",
		ID:            "avatar",
		Name:          "Avatar editor",
		Platform:      model.PlatformUnityEditor,
		Execution:     model.Execution{EditorEndpoint: "http://127.0.0.1:8270"},
	}
	steps := []*model.Step{
		{Kind: model.StepAction, ID: "open-build", Title: "Open build settings", Action: "invoke_menu",
			Input: map[string]any{"paths": []any{"File/Build Settings...", "File/Build Profiles..."}}},
		{Kind: model.StepAction, ID: "pick-ear", Title: "Pick ear", Action: "select_object",
			Target: &model.Selector{
				Strategy: "hierarchy", Value: "Avatar/Head/Ear_L",
				Fallbacks: []*model.Selector{{Strategy: "hierarchy", Value: "Avatar/Head/ear_l"}},
			}},
		{Kind: model.StepAction, ID: "nudge", Title: "Nudge gizmo", Action: "click",
			Target: &model.Selector{Strategy: "coords", X: 0.5, Y: 0.25}},
	}

	script, err := Generate(doc, steps)
	require.NoError(t, err)

	assert.Contains(t, script, "Library    Remote    ${EDITOR_ENDPOINT}    WITH NAME    Editor")
	assert.Contains(t, script, "    Invoke First Available Menu    File/Build Settings...    File/Build Profiles...\n")
	assert.Contains(t, script, "    Select First Available Object    Avatar/Head/Ear_L    Avatar/Head/ear_l\n")
	assert.Contains(t, script, "    Editor.Click Element    coords:0.5,0.25\n")
	assert.Contains(t, script, "Doc Desktop Step    open-build    Open build settings")
}

func TestGenerateEmitsAnnotationPayload(t *testing.T) {
	step := webClick("save", "Save", &model.Selector{Strategy: "css", Value: "#save"})
	step.Annotations = []map[string]any{
		{"kind": "box", "label": "Save button"},
	}

	script, err := Generate(webDocument(), []*model.Step{step})
	require.NoError(t, err)

	assert.Contains(t, script,
		`Log    DOC_ANNOTATIONS:{"annotations":[{"kind":"box","label":"Save button"}],"stepId":"save"}`)
}

func TestGenerateIsDeterministic(t *testing.T) {
	steps := []*model.Step{
		{Kind: model.StepAction, ID: "open", Title: "Open", Action: "navigate"},
		webClick("a", "A", &model.Selector{Strategy: "css", Value: "#a"}),
	}
	steps[1].Annotations = []map[string]any{{"kind": "box", "z": 1.0, "a": "x", "m": true}}

	first, err := Generate(webDocument(), steps)
	require.NoError(t, err)
	second, err := Generate(webDocument(), steps)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("generated script is not byte-identical (-first +second):\n%s", diff)
	}
}

func TestNormalizeCell(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Click Element", expected: "Click Element"},
		{name: "inner run collapses", input: "a  b   c", expected: "a b c"},
		{name: "tabs become spaces", input: "a\tb", expected: "a b"},
		{name: "empty becomes placeholder", input: "", expected: "${EMPTY}"},
		{name: "whitespace only becomes placeholder", input: "   ", expected: "${EMPTY}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeCell(tc.input))
		})
	}
}
