package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/metyatech/automation-scenario-studio/internal/ctxlog"
	"github.com/metyatech/automation-scenario-studio/internal/fsutil"
	"github.com/metyatech/automation-scenario-studio/internal/loader"
	"github.com/metyatech/automation-scenario-studio/internal/runner"
	"github.com/metyatech/automation-scenario-studio/pkg/compiler"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	scenarios, dirMode, err := a.scenarioPaths()
	if err != nil {
		return err
	}

	for _, scenarioPath := range scenarios {
		if err := a.compileOne(ctx, scenarioPath, a.outPathFor(scenarioPath, dirMode)); err != nil {
			return err
		}
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// scenarioPaths resolves the configured path to the list of scenario files to
// compile. A directory compiles every scenario file beneath it.
func (a *App) scenarioPaths() ([]string, bool, error) {
	info, err := os.Stat(a.config.ScenarioPath)
	if err != nil {
		return nil, false, fmt.Errorf("reading scenario path: %w", err)
	}
	if !info.IsDir() {
		return []string{a.config.ScenarioPath}, false, nil
	}

	found, err := fsutil.FindFilesByExtensions(a.config.ScenarioPath, loader.Extensions...)
	if err != nil {
		return nil, false, fmt.Errorf("scanning scenario directory: %w", err)
	}
	if len(found) == 0 {
		return nil, false, fmt.Errorf("no scenario files found under %s", a.config.ScenarioPath)
	}
	a.logger.Info("Scenario directory scanned.", "path", a.config.ScenarioPath, "count", len(found))
	return found, true, nil
}

// outPathFor picks the script destination for one scenario. In directory mode
// an explicit --out names a directory; otherwise it names the file itself.
func (a *App) outPathFor(scenarioPath string, dirMode bool) string {
	if a.config.OutPath == "" {
		return scriptPathFor(scenarioPath)
	}
	if dirMode {
		return filepath.Join(a.config.OutPath, filepath.Base(scriptPathFor(scenarioPath)))
	}
	return a.config.OutPath
}

func (a *App) compileOne(ctx context.Context, scenarioPath, outPath string) error {
	result, err := compiler.CompileFile(ctx, scenarioPath, compiler.Options{
		Profile:       a.config.Profile,
		Overrides:     a.config.Overrides,
		MaxIterations: a.config.MaxIterations,
	})
	if err != nil {
		return fmt.Errorf("failed to compile scenario: %w", err)
	}
	a.logger.Info("Scenario compiled.",
		"scenario", result.Document.ID,
		"platform", result.Document.Platform,
		"action_count", len(result.Steps))

	if err := writeScript(outPath, result.Script); err != nil {
		return err
	}
	a.logger.Info("Script written.", "path", outPath)

	if !a.config.Run {
		return nil
	}

	outputDir := filepath.Dir(outPath)
	runResult, err := runner.Run(ctx, runner.Options{
		ScriptPath:    outPath,
		OutputDir:     outputDir,
		ArtifactsPath: a.artifactsPath(outputDir, result.Document.Outputs.ArtifactsJSON),
		SuiteID:       result.Document.ID,
		Record:        a.config.Record || result.Document.Execution.RecordVideo,
		VideoPath:     resolveOutput(outputDir, result.Document.Outputs.VideoPath),
		ManifestPath:  resolveOutput(outputDir, result.Document.Outputs.ManifestPath),
	})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if runResult.RobotExitCode != 0 {
		return fmt.Errorf("robot reported failures (exit code %d), see %s", runResult.RobotExitCode, runResult.OutputXML)
	}
	return nil
}

// artifactsPath resolves where the run-artifacts JSON goes: an explicit flag
// wins, then the document's outputs block, then a default next to the script.
func (a *App) artifactsPath(outputDir, fromDocument string) string {
	if a.config.ArtifactsPath != "" {
		return a.config.ArtifactsPath
	}
	if fromDocument != "" {
		if filepath.IsAbs(fromDocument) {
			return fromDocument
		}
		return filepath.Join(outputDir, fromDocument)
	}
	return filepath.Join(outputDir, "run-artifacts.json")
}

// resolveOutput anchors a document-declared output path at the run's output
// directory; absolute paths and the empty string pass through.
func resolveOutput(outputDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(outputDir, path)
}

// scriptPathFor swaps the scenario file's extension for .robot.
func scriptPathFor(scenarioPath string) string {
	return strings.TrimSuffix(scenarioPath, filepath.Ext(scenarioPath)) + ".robot"
}

func writeScript(path, script string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating script directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return fmt.Errorf("writing script: %w", err)
	}
	return nil
}
