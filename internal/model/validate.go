package model

import "fmt"

// controlKinds is the closed set of verbs Validate accepts on control steps.
var controlKinds = map[ControlKind]bool{
	ControlIf:       true,
	ControlForEach:  true,
	ControlWhile:    true,
	ControlTry:      true,
	ControlParallel: true,
	ControlBreak:    true,
	ControlContinue: true,
	ControlReturn:   true,
}

// Validate performs the structural checks that must hold before variable
// resolution runs. Every error names the offending element; the first
// violation found is returned.
func Validate(doc *Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%s: scenario id is required", doc.SourceID)
	}
	if doc.Name == "" {
		return fmt.Errorf("%s: scenario name is required", doc.SourceID)
	}
	switch doc.Platform {
	case PlatformWeb, PlatformUnityEditor, PlatformHybrid:
	default:
		return fmt.Errorf("%s: unsupported platform %q", doc.SourceID, doc.Platform)
	}
	for _, v := range doc.Variables {
		if v.ID == "" {
			return fmt.Errorf("%s: variable with empty id", doc.SourceID)
		}
	}
	if len(doc.Steps) == 0 {
		return fmt.Errorf("%s: scenario has no steps", doc.SourceID)
	}
	return validateSteps(doc.Steps)
}

func validateSteps(steps []*Step) error {
	for _, step := range steps {
		if err := validateStep(step); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(step *Step) error {
	if step.ID == "" {
		return fmt.Errorf("step with empty id (title %q)", step.Title)
	}
	if step.Title == "" {
		return fmt.Errorf("step %q: title is required", step.ID)
	}

	switch step.Kind {
	case StepAction:
		if step.Action == "" {
			return fmt.Errorf("step %q: action verb is required", step.ID)
		}

	case StepGroup:
		if len(step.Steps) == 0 {
			return fmt.Errorf("group %q: group body must not be empty", step.ID)
		}
		return validateSteps(step.Steps)

	case StepControl:
		if !controlKinds[step.Control] {
			return fmt.Errorf("step %q: unsupported control verb %q", step.ID, step.Control)
		}
		for _, b := range step.Branches {
			if err := validateSteps(b.Steps); err != nil {
				return err
			}
		}
		for _, list := range [][]*Step{step.Steps, step.Else, step.Finally, step.Catch} {
			if err := validateSteps(list); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("step %q: unknown step kind %q", step.ID, step.Kind)
	}
	return nil
}
