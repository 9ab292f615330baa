package robot

import (
	"fmt"

	"github.com/metyatech/automation-scenario-studio/internal/model"
)

// webEmitter targets a browser through SeleniumLibrary.
type webEmitter struct{}

// webTargetStrategies is the allowed selector set for web actions that
// locate an element. Role-based selectors are declared in documents but have
// no SeleniumLibrary rendering, so they only ever resolve via fallbacks.
var webTargetStrategies = map[string]bool{
	"css":   true,
	"xpath": true,
	"id":    true,
	"text":  true,
}

// webTypeStrategies excludes text matching: typing into an element located by
// its own text is ambiguous once the text changes.
var webTypeStrategies = map[string]bool{
	"css":   true,
	"xpath": true,
	"id":    true,
}

func (e *webEmitter) settings(w *scriptWriter, doc *model.Document) {
	w.row(0, "Library", "SeleniumLibrary")
	w.row(0, "Suite Setup", "Open Scenario Browser")
	w.row(0, "Suite Teardown", "Close Scenario Browser")
}

func (e *webEmitter) variables(w *scriptWriter, doc *model.Document) {
	baseURL := doc.Execution.BaseURL
	if baseURL == "" {
		baseURL = "about:blank"
	}
	browser := doc.Execution.Browser
	if browser == "" {
		browser = "headlesschrome"
	}
	w.row(0, "${BASE_URL}", baseURL)
	w.row(0, "${BROWSER}", browser)
}

func (e *webEmitter) docKeyword() string { return "Doc Web Step" }

func (e *webEmitter) action(w *scriptWriter, doc *model.Document, step *model.Step) error {
	switch step.Action {
	case "navigate":
		url := inputString(step.Input, "url")
		if url == "" {
			url = "${BASE_URL}"
		}
		w.row(1, "Go To", url)

	case "click":
		return e.targetRow(w, step, "Click Element")
	case "double_click":
		return e.targetRow(w, step, "Double Click Element")
	case "hover":
		return e.targetRow(w, step, "Mouse Over")

	case "drag":
		loc, err := e.locator(step, webTargetStrategies)
		if err != nil {
			return err
		}
		if to, ok := step.Input["to"].(map[string]any); ok {
			toSel, err := resolveSelector(selectorFromInput(to), webTargetStrategies, step.ID)
			if err != nil {
				return err
			}
			w.row(1, "Drag And Drop", loc, webLocator(toSel))
			return nil
		}
		dx := inputString(step.Input, "offset_x", "offsetX")
		dy := inputString(step.Input, "offset_y", "offsetY")
		if dx == "" || dy == "" {
			return fmt.Errorf("step %q: missing required input field %q", step.ID, "to")
		}
		w.row(1, "Drag And Drop By Offset", loc, dx, dy)

	case "type":
		text, err := requireInput(step, "text")
		if err != nil {
			return err
		}
		loc, err := e.locator(step, webTypeStrategies)
		if err != nil {
			return err
		}
		if clear := step.Input["clear"]; clear == true {
			w.row(1, "Clear Element Text", loc)
		}
		w.row(1, "Input Text", loc, text)

	case "press_keys":
		keys, err := requireInput(step, "keys")
		if err != nil {
			return err
		}
		if step.Target == nil {
			w.row(1, "Press Keys", "None", keys)
			return nil
		}
		loc, err := e.locator(step, webTargetStrategies)
		if err != nil {
			return err
		}
		w.row(1, "Press Keys", loc, keys)

	case "wait":
		if step.Target == nil {
			seconds := mapInt(step.Timing, "seconds")
			if seconds <= 0 {
				seconds = mapInt(step.Input, "seconds")
			}
			if seconds <= 0 {
				return fmt.Errorf("step %q: missing required input field %q", step.ID, "seconds")
			}
			w.row(1, "Sleep", secondsCell(seconds))
			return nil
		}
		loc, err := e.locator(step, webTargetStrategies)
		if err != nil {
			return err
		}
		w.row(1, "Wait Until Element Is Visible", loc, secondsCell(timeoutSeconds(doc, step)))

	case "assert_visible":
		return e.targetRow(w, step, "Element Should Be Visible")

	case "assert_text":
		text := inputString(step.Expect, "text")
		if text == "" {
			var err error
			text, err = requireInput(step, "text")
			if err != nil {
				return err
			}
		}
		loc, err := e.locator(step, webTargetStrategies)
		if err != nil {
			return err
		}
		w.row(1, "Element Should Contain", loc, text)

	case "screenshot":
		name := inputString(step.Input, "name")
		if name == "" {
			name = step.ID
		}
		w.row(1, "Capture Page Screenshot", "${SCREENSHOTS_DIR}${/}"+name+".png")

	default:
		return fmt.Errorf("step %q: unsupported action verb %q for platform web", step.ID, step.Action)
	}
	return nil
}

func (e *webEmitter) targetRow(w *scriptWriter, step *model.Step, keyword string) error {
	loc, err := e.locator(step, webTargetStrategies)
	if err != nil {
		return err
	}
	w.row(1, keyword, loc)
	return nil
}

func (e *webEmitter) locator(step *model.Step, allowed map[string]bool) (string, error) {
	sel, err := resolveSelector(step.Target, allowed, step.ID)
	if err != nil {
		return "", err
	}
	return webLocator(sel), nil
}

// selectorFromInput rebuilds a selector from an untyped input mapping, the
// shape used by drag's "to" field.
func selectorFromInput(m map[string]any) *model.Selector {
	sel := &model.Selector{
		Strategy: inputString(m, "strategy", "by"),
		Value:    inputString(m, "value", "path", "query"),
	}
	if fbs, ok := m["fallbacks"].([]any); ok {
		for _, entry := range fbs {
			if fm, ok := entry.(map[string]any); ok {
				sel.Fallbacks = append(sel.Fallbacks, selectorFromInput(fm))
			}
		}
	}
	return sel
}

func (e *webEmitter) keywords(w *scriptWriter, doc *model.Document) {
	w.name("Open Scenario Browser")
	w.row(1, "Open Browser", "${BASE_URL}", "${BROWSER}")
	w.row(1, "Maximize Browser Window")
	w.blank()
	w.name("Close Scenario Browser")
	w.row(1, "Close All Browsers")
	w.blank()
	w.name("Doc Web Step")
	w.row(1, "[Arguments]", "${id}", "${title}", "${description}=${EMPTY}")
	w.row(1, "Capture Page Screenshot", "${SCREENSHOTS_DIR}${/}${id}.png")
	w.row(1, "Log", "${title}")
	w.blank()
}
