package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outputXML = `<?xml version="1.0" encoding="UTF-8"?>
<robot generator="Robot 6.1.1">
<suite id="s1" name="Avatar Smoke">
<test id="s1-t1" name="Avatar Smoke">
<kw name="Open Scenario Browser">
<status status="PASS" starttime="20250101 10:00:00.000" endtime="20250101 10:00:01.000"/>
</kw>
<kw name="Doc Web Step">
<arg>open-page</arg>
<arg>Open the page</arg>
<arg>Navigates to the start page</arg>
<status status="PASS" starttime="20250101 10:00:01.000" endtime="20250101 10:00:02.500"/>
</kw>
<kw name="Doc Web Step">
<arg>broken-step</arg>
<arg>Never happened</arg>
<status status="FAIL" starttime="20250101 10:00:03.000" endtime="20250101 10:00:03.100"/>
</kw>
<kw name="Run Keyword">
<kw name="Doc Desktop Step">
<arg>invoke-menu</arg>
<arg>Invoke the menu</arg>
<status status="PASS" starttime="2025-01-01 10:00:04.000" endtime="2025-01-01 10:00:04.250"/>
</kw>
<status status="PASS" starttime="20250101 10:00:04.000" endtime="20250101 10:00:04.300"/>
</kw>
</test>
</suite>
</robot>
`

func writeOutputXML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "output.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertCollectsPassingDocKeywords(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeOutputXML(t, dir, outputXML)
	artifactsPath := filepath.Join(dir, "run-artifacts.json")

	result, err := Convert(xmlPath, artifactsPath, Options{OutputDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "avatar-smoke", result.ScenarioID)
	assert.Equal(t, "Avatar Smoke", result.Title)
	require.Len(t, result.Steps, 2, "only passing doc keywords become steps")

	first := result.Steps[0]
	assert.Equal(t, "open-page", first.ID)
	assert.Equal(t, "Open the page", first.Title)
	assert.Equal(t, "Navigates to the start page", first.Description)
	assert.Equal(t, filepath.Join(dir, "screenshots", "open-page.png"), first.ImagePath)
	assert.Equal(t, int64(1500), first.EndedAtMs-first.StartedAtMs)

	second := result.Steps[1]
	assert.Equal(t, "invoke-menu", second.ID)
	assert.Empty(t, second.Description)
	assert.Equal(t, int64(250), second.EndedAtMs-second.StartedAtMs, "dashed timestamps parse too")

	written, err := os.ReadFile(artifactsPath)
	require.NoError(t, err)
	var roundTrip RunArtifacts
	require.NoError(t, json.Unmarshal(written, &roundTrip))
	assert.Equal(t, *result, roundTrip)
}

func TestConvertPrefersManifest(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeOutputXML(t, dir, outputXML)

	manifest := `{"steps":[{"id":"from-manifest","title":"Manifest wins","imagePath":"screenshots/from-manifest.png"}],"videoPath":"run.webm"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unity-manifest.json"), []byte(manifest), 0o644))

	result, err := Convert(xmlPath, filepath.Join(dir, "run-artifacts.json"), Options{OutputDir: dir})
	require.NoError(t, err)

	require.Len(t, result.Steps, 1)
	assert.Equal(t, "from-manifest", result.Steps[0].ID)
	assert.Equal(t, "run.webm", result.VideoPath)
}

func TestConvertVideoAttachment(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeOutputXML(t, dir, outputXML)

	video := filepath.Join(dir, "run.webm")
	require.NoError(t, os.WriteFile(video, []byte("webm"), 0o644))

	result, err := Convert(xmlPath, filepath.Join(dir, "run-artifacts.json"), Options{
		OutputDir: dir,
		VideoPath: video,
	})
	require.NoError(t, err)
	assert.Equal(t, video, result.VideoPath)
	assert.Equal(t, video, result.RawVideoPath)

	missing, err := Convert(xmlPath, filepath.Join(dir, "run-artifacts-2.json"), Options{
		OutputDir: dir,
		VideoPath: filepath.Join(dir, "never-recorded.webm"),
	})
	require.NoError(t, err)
	assert.Empty(t, missing.VideoPath, "a video that was never written is not referenced")
}

func TestConvertFallbacks(t *testing.T) {
	dir := t.TempDir()
	noArgs := `<?xml version="1.0"?>
<robot><suite name="">
<test name="t">
<kw name="Doc Web Step"><status status="PASS"/></kw>
</test>
</suite></robot>`
	xmlPath := writeOutputXML(t, dir, noArgs)

	result, err := Convert(xmlPath, filepath.Join(dir, "run-artifacts.json"), Options{OutputDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "robot-suite", result.ScenarioID)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, "step-1", result.Steps[0].ID)
	assert.Equal(t, "step-1", result.Steps[0].Title)
	assert.Zero(t, result.Steps[0].StartedAtMs)
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Convert(filepath.Join(dir, "missing.xml"), filepath.Join(dir, "a.json"), Options{OutputDir: dir})
	require.Error(t, err)

	broken := writeOutputXML(t, dir, "<robot><suite></robot>")
	_, err = Convert(broken, filepath.Join(dir, "a.json"), Options{OutputDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing robot output")
}
