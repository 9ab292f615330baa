// Package artifacts converts a Robot Framework output.xml into the
// run-artifacts JSON consumed by the report renderer. It recognizes the
// Doc Web Step / Doc Desktop Step keyword calls the generator plants after
// every action step and turns each passing call into one step artifact.
package artifacts

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/metyatech/automation-scenario-studio/internal/model"
)

// docKeywords are the step-documentation keywords emitted by the generator.
var docKeywords = map[string]bool{
	"Doc Web Step":     true,
	"Doc Desktop Step": true,
}

// timeFormats covers the two timestamp layouts Robot writes depending on
// version: compact and dashed, each with or without milliseconds.
var timeFormats = []string{
	"20060102 15:04:05.000",
	"20060102 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// RunArtifacts is the converter's output document.
type RunArtifacts struct {
	ScenarioID   string         `json:"scenarioId"`
	Title        string         `json:"title"`
	Steps        []StepArtifact `json:"steps"`
	VideoPath    string         `json:"videoPath,omitempty"`
	RawVideoPath string         `json:"rawVideoPath,omitempty"`
}

// StepArtifact describes one documented step of the run.
type StepArtifact struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImagePath   string `json:"imagePath"`
	StartedAtMs int64  `json:"startedAtMs,omitempty"`
	EndedAtMs   int64  `json:"endedAtMs,omitempty"`
}

// Options parameterizes one conversion.
type Options struct {
	// OutputDir is the runner's output directory; screenshots live in its
	// screenshots subdirectory.
	OutputDir string
	// SuiteID overrides the scenario id derived from the suite name.
	SuiteID string
	// VideoPath, when the file exists, is attached to the artifacts.
	VideoPath string
	// ManifestPath points at a pre-built manifest. When present it wins over
	// visiting the XML, which is how editor-side tooling injects richer step
	// data. Empty means OutputDir/unity-manifest.json.
	ManifestPath string
}

// robotOutput mirrors the slice of output.xml this converter cares about.
type robotOutput struct {
	Suite robotSuite `xml:"suite"`
}

type robotSuite struct {
	Name     string       `xml:"name,attr"`
	Suites   []robotSuite `xml:"suite"`
	Tests    []robotTest  `xml:"test"`
	Keywords []robotKw    `xml:"kw"`
}

type robotTest struct {
	Name     string    `xml:"name,attr"`
	Keywords []robotKw `xml:"kw"`
}

type robotKw struct {
	Name     string      `xml:"name,attr"`
	Args     []string    `xml:"arg"`
	Keywords []robotKw   `xml:"kw"`
	Status   robotStatus `xml:"status"`
}

type robotStatus struct {
	Status    string `xml:"status,attr"`
	StartTime string `xml:"starttime,attr"`
	EndTime   string `xml:"endtime,attr"`
}

// Convert parses outputXML and writes the run-artifacts JSON to
// artifactsPath, returning the document it wrote.
func Convert(outputXML, artifactsPath string, opts Options) (*RunArtifacts, error) {
	data, err := os.ReadFile(outputXML)
	if err != nil {
		return nil, fmt.Errorf("reading robot output: %w", err)
	}

	var parsed robotOutput
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing robot output %s: %w", outputXML, err)
	}

	suiteName := parsed.Suite.Name
	if suiteName == "" {
		suiteName = "Robot Suite"
	}
	scenarioID := opts.SuiteID
	if scenarioID == "" {
		scenarioID = model.SanitizeIDOr(suiteName, "robot-suite")
	}

	out := &RunArtifacts{
		ScenarioID: scenarioID,
		Title:      suiteName,
		Steps:      []StepArtifact{},
	}

	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = filepath.Join(opts.OutputDir, "unity-manifest.json")
	}
	if manifest, ok := readManifest(manifestPath); ok {
		out.Steps = manifest.Steps
		out.VideoPath = manifest.VideoPath
		out.RawVideoPath = manifest.RawVideoPath
	} else {
		visitor := &stepVisitor{outputDir: opts.OutputDir}
		visitor.visitSuite(parsed.Suite)
		out.Steps = visitor.steps
	}

	if opts.VideoPath != "" && out.VideoPath == "" {
		if _, err := os.Stat(opts.VideoPath); err == nil {
			out.VideoPath = opts.VideoPath
			out.RawVideoPath = opts.VideoPath
		}
	}

	if err := writeJSON(artifactsPath, out); err != nil {
		return nil, err
	}
	return out, nil
}

// manifest is the editor-side pre-built artifacts fragment.
type manifest struct {
	Steps        []StepArtifact `json:"steps"`
	VideoPath    string         `json:"videoPath"`
	RawVideoPath string         `json:"rawVideoPath"`
}

func readManifest(path string) (*manifest, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	if m.Steps == nil {
		m.Steps = []StepArtifact{}
	}
	return &m, true
}

// stepVisitor walks every keyword in the result tree collecting passing doc
// keywords, in document order.
type stepVisitor struct {
	outputDir string
	steps     []StepArtifact
	counter   int
}

func (v *stepVisitor) visitSuite(s robotSuite) {
	for _, kw := range s.Keywords {
		v.visitKeyword(kw)
	}
	for _, test := range s.Tests {
		for _, kw := range test.Keywords {
			v.visitKeyword(kw)
		}
	}
	for _, nested := range s.Suites {
		v.visitSuite(nested)
	}
}

func (v *stepVisitor) visitKeyword(kw robotKw) {
	for _, nested := range kw.Keywords {
		v.visitKeyword(nested)
	}

	if kw.Status.Status != "PASS" || !docKeywords[kw.Name] {
		return
	}
	v.counter++

	id := argAt(kw.Args, 0)
	if id == "" {
		id = fmt.Sprintf("step-%d", v.counter)
	}
	title := argAt(kw.Args, 1)
	if title == "" {
		title = id
	}

	step := StepArtifact{
		ID:          id,
		Title:       title,
		Description: argAt(kw.Args, 2),
		ImagePath:   filepath.Join(v.outputDir, "screenshots", id+".png"),
	}

	if start, ok := parseTimeMs(kw.Status.StartTime); ok {
		step.StartedAtMs = start
		if end, ok := parseTimeMs(kw.Status.EndTime); ok {
			step.EndedAtMs = end
		}
	}

	v.steps = append(v.steps, step)
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func parseTimeMs(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}
	for _, layout := range timeFormats {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifacts directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifacts: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
