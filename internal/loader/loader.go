// Package loader reads scenario documents from disk into the untyped mapping
// the normalizer consumes. The schema is owned elsewhere; this package only
// decodes bytes. Three authoring syntaxes are accepted: YAML, JSON (a YAML
// subset for this purpose) and HCL.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/metyatech/automation-scenario-studio/internal/ctxlog"
)

// Extensions lists the scenario-file extensions the loader understands.
var Extensions = []string{".yaml", ".yml", ".json", ".hcl"}

// Load reads and decodes one scenario file into an untyped document. The
// returned mapping uses string keys throughout, regardless of syntax.
func Load(ctx context.Context, path string) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading scenario document.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		return decodeYAML(data, path)
	case ".hcl":
		return decodeHCL(data, path)
	default:
		return nil, fmt.Errorf("unsupported scenario file extension %q (%s)", filepath.Ext(path), path)
	}
}

func decodeYAML(data []byte, path string) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return raw, nil
}
