package robot

import (
	"fmt"

	"github.com/metyatech/automation-scenario-studio/internal/model"
)

// editorEmitter targets the Unity Editor through a remote keyword bridge
// (Robot's Remote library pointed at the editor-side automation server).
type editorEmitter struct{}

var editorTargetStrategies = map[string]bool{
	"uia":       true,
	"hierarchy": true,
	"coords":    true,
}

// editorTypeStrategies excludes coordinates: there is no element to receive
// focus at a bare screen point.
var editorTypeStrategies = map[string]bool{
	"uia":       true,
	"hierarchy": true,
}

var hierarchyOnly = map[string]bool{"hierarchy": true}

func (e *editorEmitter) settings(w *scriptWriter, doc *model.Document) {
	w.row(0, "Library", "Remote", "${EDITOR_ENDPOINT}", "WITH NAME", "Editor")
	w.row(0, "Suite Setup", "Connect To Editor")
	w.row(0, "Suite Teardown", "Disconnect From Editor")
}

func (e *editorEmitter) variables(w *scriptWriter, doc *model.Document) {
	endpoint := doc.Execution.EditorEndpoint
	if endpoint == "" {
		endpoint = "http://127.0.0.1:8270"
	}
	w.row(0, "${EDITOR_ENDPOINT}", endpoint)
}

func (e *editorEmitter) docKeyword() string { return "Doc Desktop Step" }

func (e *editorEmitter) action(w *scriptWriter, doc *model.Document, step *model.Step) error {
	switch step.Action {
	case "invoke_menu":
		paths := menuPaths(step)
		if len(paths) == 0 {
			return fmt.Errorf("step %q: missing required input field %q", step.ID, "path")
		}
		if len(paths) == 1 {
			w.row(1, "Editor.Invoke Menu", paths[0])
			return nil
		}
		w.row(1, append([]string{"Invoke First Available Menu"}, paths...)...)

	case "select_object":
		candidates := selectorCandidates(step.Target, hierarchyOnly)
		if len(candidates) == 0 {
			return fmt.Errorf("step %q: no selector strategy in chain is supported (need %q)",
				step.ID, "hierarchy")
		}
		if len(candidates) == 1 {
			w.row(1, "Editor.Select Object", candidates[0].Value)
			return nil
		}
		cells := []string{"Select First Available Object"}
		for _, c := range candidates {
			cells = append(cells, c.Value)
		}
		w.row(1, cells...)

	case "click":
		return e.targetRow(w, step, "Editor.Click Element")
	case "double_click":
		return e.targetRow(w, step, "Editor.Double Click Element")

	case "drag":
		loc, err := e.locator(step, editorTargetStrategies)
		if err != nil {
			return err
		}
		to, ok := step.Input["to"].(map[string]any)
		if !ok {
			return fmt.Errorf("step %q: missing required input field %q", step.ID, "to")
		}
		toSel, err := resolveSelector(selectorFromInput(to), editorTargetStrategies, step.ID)
		if err != nil {
			return err
		}
		w.row(1, "Editor.Drag Element", loc, editorLocator(toSel))

	case "type":
		text, err := requireInput(step, "text")
		if err != nil {
			return err
		}
		loc, err := e.locator(step, editorTypeStrategies)
		if err != nil {
			return err
		}
		w.row(1, "Editor.Set Text", loc, text)

	case "press_keys":
		keys, err := requireInput(step, "keys")
		if err != nil {
			return err
		}
		w.row(1, "Editor.Press Keys", keys)

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
		loc, err := e.locator(step, editorTargetStrategies)
		if err != nil {
			return err
		}
		w.row(1, "Editor.Wait For Element", loc, secondsCell(timeoutSeconds(doc, step)))

	case "assert_visible":
		return e.targetRow(w, step, "Editor.Element Should Exist")

	case "screenshot":
		name := inputString(step.Input, "name")
		if name == "" {
			name = step.ID
		}
		w.row(1, "Editor.Capture Screenshot", "${SCREENSHOTS_DIR}${/}"+name+".png")

	default:
		return fmt.Errorf("step %q: unsupported action verb %q for platform unity-editor",
			step.ID, step.Action)
	}
	return nil
}

// menuPaths collects the ordered menu-path candidates: input "paths" when
// present, otherwise the single "path".
func menuPaths(step *model.Step) []string {
	if raw, ok := step.Input["paths"].([]any); ok {
		var paths []string
		for _, entry := range raw {
			if s, ok := entry.(string); ok && s != "" {
				paths = append(paths, s)
			}
		}
		return paths
	}
	if p := inputString(step.Input, "path"); p != "" {
		return []string{p}
	}
	return nil
}

func (e *editorEmitter) targetRow(w *scriptWriter, step *model.Step, keyword string) error {
	loc, err := e.locator(step, editorTargetStrategies)
	if err != nil {
		return err
	}
	w.row(1, keyword, loc)
	return nil
}

func (e *editorEmitter) locator(step *model.Step, allowed map[string]bool) (string, error) {
	sel, err := resolveSelector(step.Target, allowed, step.ID)
	if err != nil {
		return "", err
	}
	return editorLocator(sel), nil
}

func (e *editorEmitter) keywords(w *scriptWriter, doc *model.Document) {
	w.name("Connect To Editor")
	w.row(1, "Editor.Connect")
	w.blank()
	w.name("Disconnect From Editor")
	w.row(1, "Editor.Disconnect")
	w.blank()
	w.name("Invoke First Available Menu")
	w.row(1, "[Arguments]", "@{paths}")
	w.row(1, "FOR", "${path}", "IN", "@{paths}")
	w.row(2, "${ok}=", "Run Keyword And Return Status", "Editor.Invoke Menu", "${path}")
	w.row(2, "IF", "${ok}", "RETURN")
	w.row(1, "END")
	w.row(1, "Fail", "No menu path could be invoked: @{paths}")
	w.blank()
	w.name("Select First Available Object")
	w.row(1, "[Arguments]", "@{paths}")
	w.row(1, "FOR", "${path}", "IN", "@{paths}")
	w.row(2, "${ok}=", "Run Keyword And Return Status", "Editor.Select Object", "${path}")
	w.row(2, "IF", "${ok}", "RETURN")
	w.row(1, "END")
	w.row(1, "Fail", "No object path matched: @{paths}")
	w.blank()
	w.name("Doc Desktop Step")
	w.row(1, "[Arguments]", "${id}", "${title}", "${description}=${EMPTY}")
	w.row(1, "Editor.Capture Screenshot", "${SCREENSHOTS_DIR}${/}${id}.png")
	w.row(1, "Log", "${title}")
	w.blank()
}
