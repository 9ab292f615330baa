package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeOutputXML = `<?xml version="1.0"?>
<robot><suite name="Stub Suite">
<test name="t">
<kw name="Doc Web Step"><arg>only-step</arg><arg>Only step</arg><status status="PASS"/></kw>
</test>
</suite></robot>`

// fakeRobot writes a canned output.xml into --outputdir and exits with the
// given status, standing in for the real robot executable.
func fakeRobot(t *testing.T, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}

	script := `#!/bin/sh
outdir=""
while [ $# -gt 1 ]; do
  if [ "$1" = "--outputdir" ]; then outdir="$2"; shift; fi
  shift
done
cat > "$outdir/output.xml" <<'XML'
` + fakeOutputXML + `
XML
exit ` + itoa(exitCode)

	path := filepath.Join(t.TempDir(), "robot")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	return string(rune('0' + n))
}

func TestRunRequiresScript(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script path is required")
}

func TestRunReportsRobotOutputs(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "scenario.robot")
	require.NoError(t, os.WriteFile(script, []byte("*** Test Cases ***\n"), 0o644))

	result, err := Run(context.Background(), Options{
		ScriptPath:    script,
		OutputDir:     dir,
		ArtifactsPath: filepath.Join(dir, "run-artifacts.json"),
		RobotBin:      fakeRobot(t, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.RobotExitCode)
	assert.Equal(t, filepath.Join(dir, "output.xml"), result.OutputXML)
	require.NotNil(t, result.Artifacts)
	assert.Equal(t, "stub-suite", result.Artifacts.ScenarioID)
	require.Len(t, result.Artifacts.Steps, 1)
	assert.Equal(t, "only-step", result.Artifacts.Steps[0].ID)
	assert.FileExists(t, result.ArtifactsPath)
}

func TestRunKeepsArtifactsOnTestFailures(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "scenario.robot")
	require.NoError(t, os.WriteFile(script, []byte("*** Test Cases ***\n"), 0o644))

	result, err := Run(context.Background(), Options{
		ScriptPath:    script,
		OutputDir:     dir,
		ArtifactsPath: filepath.Join(dir, "run-artifacts.json"),
		RobotBin:      fakeRobot(t, 1),
	})
	require.NoError(t, err, "a failing suite is a result, not a runner error")
	assert.Equal(t, 1, result.RobotExitCode)
	require.NotNil(t, result.Artifacts)
}

func TestRunHonorsDeclaredManifestPath(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "scenario.robot")
	require.NoError(t, os.WriteFile(script, []byte("*** Test Cases ***\n"), 0o644))

	manifestPath := filepath.Join(dir, "editor", "capture-manifest.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(manifestPath), 0o755))
	manifest := `{"steps":[{"id":"from-manifest","title":"Manifest step","imagePath":"screenshots/from-manifest.png"}]}`
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o644))

	result, err := Run(context.Background(), Options{
		ScriptPath:    script,
		OutputDir:     dir,
		ArtifactsPath: filepath.Join(dir, "run-artifacts.json"),
		ManifestPath:  manifestPath,
		RobotBin:      fakeRobot(t, 0),
	})
	require.NoError(t, err)

	require.NotNil(t, result.Artifacts)
	require.Len(t, result.Artifacts.Steps, 1)
	assert.Equal(t, "from-manifest", result.Artifacts.Steps[0].ID,
		"a manifest outside the default location is still consulted")
}

func TestRunMissingRobotBinary(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "scenario.robot")
	require.NoError(t, os.WriteFile(script, []byte("*** Test Cases ***\n"), 0o644))

	_, err := Run(context.Background(), Options{
		ScriptPath: script,
		OutputDir:  dir,
		RobotBin:   filepath.Join(dir, "no-such-robot"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running robot")
}
