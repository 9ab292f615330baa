package model

// SupportedSchemaMajor is the schema major version this compiler accepts.
// Documents declaring any other major version are rejected outright rather
// than silently downgraded.
const SupportedSchemaMajor = "1"

// Platform identifies the automation target a scenario runs against.
type Platform string

const (
	PlatformWeb         Platform = "web"
	PlatformUnityEditor Platform = "unity-editor"
	PlatformHybrid      Platform = "hybrid"
)

// Document is the canonical, fully-shaped representation of one scenario.
type Document struct {
	SchemaVersion string
	SourceID      string

	ID          string
	Name        string
	Description string
	Platform    Platform
	Metadata    map[string]any

	Variables []Variable
	Profiles  map[string]Profile

	Execution Execution
	Outputs   Outputs

	Steps []*Step
}

// Variable declares one interpolation variable. Type is a free-form tag and
// is not enforced beyond presence.
type Variable struct {
	ID       string
	Type     string
	Default  any
	Required bool
}

// Profile is a named bundle of variable overrides, optionally inheriting from
// another profile via Extends.
type Profile struct {
	Extends   string
	Variables map[string]any
}

// Execution carries run-time configuration consumed by the generator and the
// external runner.
type Execution struct {
	BaseURL        string
	Browser        string
	EditorEndpoint string
	TimeoutSeconds int
	RecordVideo    bool
}

// Outputs names the files and directories the generated script and the
// external runner write to.
type Outputs struct {
	ScreenshotsDir string
	ArtifactsJSON  string
	VideoPath      string
	ManifestPath   string
}

// Clone returns a deep copy of the document. The compiler never mutates a
// caller's tree in place; stages that rewrite fields (interpolation,
// expansion) work on copies.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Metadata = cloneAnyMap(d.Metadata)
	out.Variables = make([]Variable, len(d.Variables))
	for i, v := range d.Variables {
		v.Default = cloneAny(v.Default)
		out.Variables[i] = v
	}
	out.Profiles = make(map[string]Profile, len(d.Profiles))
	for name, p := range d.Profiles {
		p.Variables = cloneAnyMap(p.Variables)
		out.Profiles[name] = p
	}
	out.Steps = cloneSteps(d.Steps)
	return &out
}
