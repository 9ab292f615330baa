package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metyatech/automation-scenario-studio/internal/model"
)

const yamlScenario = `
schemaVersion: "1.0"
id: avatar-smoke
name: Avatar smoke
platform: unity-editor
variables:
  - id: part
    type: string
    default: Ear_L
steps:
  - id: open-menu
    title: Open the menu
    action: invoke_menu
    input:
      path: Tools/Avatar
`

const hclScenario = `
schemaVersion = "1.0"
id            = "avatar-smoke"
name          = "Avatar smoke"
platform      = "unity-editor"

variable "part" {
  type    = "string"
  default = "Ear_L"
}

step {
  id     = "open-menu"
  title  = "Open the menu"
  action = "invoke_menu"
  input = {
    path = "Tools/Avatar"
  }
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	raw, err := Load(context.Background(), writeFile(t, "scenario.yaml", yamlScenario))
	require.NoError(t, err)

	assert.Equal(t, "1.0", raw["schemaVersion"])
	steps, ok := raw["steps"].([]any)
	require.True(t, ok)
	require.Len(t, steps, 1)
}

func TestLoadJSON(t *testing.T) {
	content := `{"schemaVersion":"1.0","id":"x","name":"X","steps":[{"id":"s","title":"S","action":"click"}]}`
	raw, err := Load(context.Background(), writeFile(t, "scenario.json", content))
	require.NoError(t, err)
	assert.Equal(t, "X", raw["name"])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(context.Background(), writeFile(t, "scenario.toml", "x = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scenario file extension")

	_, err = Load(context.Background(), writeFile(t, "broken.hcl", "step {"))
	require.Error(t, err)
}

func TestYAMLAndHCLNormalizeToSameDocument(t *testing.T) {
	ctx := context.Background()

	fromYAML, err := Load(ctx, writeFile(t, "scenario.yaml", yamlScenario))
	require.NoError(t, err)
	fromHCL, err := Load(ctx, writeFile(t, "scenario.hcl", hclScenario))
	require.NoError(t, err)

	docYAML, err := model.Normalize(fromYAML, "scenario")
	require.NoError(t, err)
	docHCL, err := model.Normalize(fromHCL, "scenario")
	require.NoError(t, err)

	assert.Equal(t, docYAML, docHCL, "both syntaxes describe the same canonical document")
}
