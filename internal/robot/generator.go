package robot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/metyatech/automation-scenario-studio/internal/model"
)

// annotationTag prefixes the single-line payload the generated script logs
// for each annotated step. The downstream artifacts converter greps the
// execution log for this tag.
const annotationTag = "DOC_ANNOTATIONS"

// defaultTimeoutSeconds applies when neither the step timing nor the
// execution block names a timeout.
const defaultTimeoutSeconds = 10

// emitter is the per-platform half of the generator: everything that differs
// between the web and editor targets.
type emitter interface {
	// settings writes the platform's library imports and suite setup rows.
	settings(w *scriptWriter, doc *model.Document)
	// variables writes the platform's entries for the variables table.
	variables(w *scriptWriter, doc *model.Document)
	// action emits the statement rows implementing one action step.
	action(w *scriptWriter, doc *model.Document, step *model.Step) error
	// docKeyword names the step-documentation keyword closing each step.
	docKeyword() string
	// keywords writes the platform's keyword table body.
	keywords(w *scriptWriter, doc *model.Document)
}

// Generate assembles the full script for the document's platform from the
// flattened action sequence. The output is a pure function of its inputs;
// compiling the same document, profile and overrides twice yields
// byte-identical text.
func Generate(doc *model.Document, steps []*model.Step) (string, error) {
	emitters, err := emittersFor(doc.Platform)
	if err != nil {
		return "", err
	}

	w := &scriptWriter{}

	w.section("Settings")
	if doc.Description != "" {
		w.row(0, "Documentation", doc.Description)
	}
	for _, em := range emitters {
		em.settings(w, doc)
	}

	w.section("Variables")
	w.row(0, "${SCREENSHOTS_DIR}", screenshotsDir(doc))
	for _, em := range emitters {
		em.variables(w, doc)
	}

	w.section("Test Cases")
	w.name(normalizeCell(doc.Name))
	if doc.Description != "" {
		w.row(1, "[Documentation]", doc.Description)
	}
	for _, step := range steps {
		em, err := stepEmitter(doc, step, emitters)
		if err != nil {
			return "", err
		}
		if err := em.action(w, doc, step); err != nil {
			return "", err
		}
		w.row(1, em.docKeyword(), step.ID, step.Title, step.Description)
		if len(step.Annotations) > 0 {
			payload, err := annotationPayload(step)
			if err != nil {
				return "", fmt.Errorf("step %q: %w", step.ID, err)
			}
			w.row(1, "Log", payload)
		}
	}

	w.section("Keywords")
	for _, em := range emitters {
		em.keywords(w, doc)
	}

	return strings.TrimRight(w.String(), "\n") + "\n", nil
}

func emittersFor(platform model.Platform) ([]emitter, error) {
	switch platform {
	case model.PlatformWeb:
		return []emitter{&webEmitter{}}, nil
	case model.PlatformUnityEditor:
		return []emitter{&editorEmitter{}}, nil
	case model.PlatformHybrid:
		return []emitter{&webEmitter{}, &editorEmitter{}}, nil
	default:
		return nil, fmt.Errorf("unsupported target platform %q", platform)
	}
}

// stepEmitter picks the emitter for one step. Single-platform documents have
// exactly one; hybrid documents route per step via an optional platform input
// field, defaulting to web.
func stepEmitter(doc *model.Document, step *model.Step, emitters []emitter) (emitter, error) {
	if len(emitters) == 1 {
		return emitters[0], nil
	}
	switch inputString(step.Input, "platform") {
	case "", string(model.PlatformWeb):
		return emitters[0], nil
	case string(model.PlatformUnityEditor):
		return emitters[1], nil
	default:
		return nil, fmt.Errorf("step %q: unsupported step platform %q",
			step.ID, inputString(step.Input, "platform"))
	}
}

// annotationPayload renders the step's annotation list as the single-line
// tagged JSON the artifacts converter consumes.
func annotationPayload(step *model.Step) (string, error) {
	body := map[string]any{
		"stepId":      step.ID,
		"annotations": step.Annotations,
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding annotations: %w", err)
	}
	return annotationTag + ":" + string(encoded), nil
}

func screenshotsDir(doc *model.Document) string {
	if doc.Outputs.ScreenshotsDir != "" {
		return doc.Outputs.ScreenshotsDir
	}
	return "screenshots"
}

func timeoutSeconds(doc *model.Document, step *model.Step) int {
	if n := mapInt(step.Timing, "timeout_seconds", "timeoutSeconds"); n > 0 {
		return n
	}
	if doc.Execution.TimeoutSeconds > 0 {
		return doc.Execution.TimeoutSeconds
	}
	return defaultTimeoutSeconds
}

func secondsCell(n int) string {
	return strconv.Itoa(n) + "s"
}

// inputString fetches a string-ish input field; numbers and bools render
// through their textual form.
func inputString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}

func mapInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case int:
			return t
		case float64:
			return int(t)
		case string:
			if n, err := strconv.Atoi(t); err == nil {
				return n
			}
		}
	}
	return 0
}

// requireInput fetches a mandatory input field, failing with the step id and
// the missing field named.
func requireInput(step *model.Step, keys ...string) (string, error) {
	if v := inputString(step.Input, keys...); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("step %q: missing required input field %q", step.ID, keys[0])
}
