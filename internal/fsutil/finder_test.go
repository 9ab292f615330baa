package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"b.yaml", "a.hcl", "nested/c.json", "ignore.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	found, err := FindFilesByExtensions(dir, ".yaml", ".hcl", ".json")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.json"),
	}, found, "results are sorted and filtered")
}

func TestFindFilesByExtensionsMissingRoot(t *testing.T) {
	_, err := FindFilesByExtensions(filepath.Join(t.TempDir(), "nope"), ".yaml")
	require.Error(t, err)
}
