// Package runner executes a generated script through the robot executable
// and, when asked, keeps an ffmpeg screen recording alive for the duration of
// the run. It owns process lifecycle only; compilation and artifact
// conversion live in their own packages.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/metyatech/automation-scenario-studio/internal/artifacts"
	"github.com/metyatech/automation-scenario-studio/internal/ctxlog"
)

// Options configures one robot run.
type Options struct {
	// ScriptPath is the generated .robot file to execute.
	ScriptPath string
	// OutputDir receives robot's output.xml, log.html and screenshots. Empty
	// means the script's directory.
	OutputDir string
	// ArtifactsPath, when set, receives the run-artifacts JSON after the run.
	ArtifactsPath string
	// SuiteID overrides the scenario id recorded in the artifacts.
	SuiteID string
	// Record starts an ffmpeg screen capture alongside the run.
	Record bool
	// VideoPath is where the recording is written. Empty means
	// OutputDir/run.webm.
	VideoPath string
	// ManifestPath points at an editor-written manifest consulted during
	// artifacts conversion; empty means the converter's default location.
	ManifestPath string
	// RobotBin and FFmpegBin override the executables, mainly for tests.
	RobotBin  string
	FFmpegBin string
}

// Result reports where a finished run left its outputs.
type Result struct {
	OutputXML     string
	VideoPath     string
	ArtifactsPath string
	Artifacts     *artifacts.RunArtifacts
	RobotExitCode int
}

// recorderStopTimeout bounds how long we wait for ffmpeg to flush after a
// graceful interrupt before killing it.
const recorderStopTimeout = 10 * time.Second

// Run executes the script and returns where its outputs landed. A non-zero
// robot exit status is reported in the result, not as an error; robot exits
// non-zero whenever any test fails and the artifacts are still wanted then.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if opts.ScriptPath == "" {
		return nil, errors.New("script path is required")
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(opts.ScriptPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{
		OutputXML: filepath.Join(outputDir, "output.xml"),
	}

	var recorder *recording
	if opts.Record {
		videoPath := opts.VideoPath
		if videoPath == "" {
			videoPath = filepath.Join(outputDir, "run.webm")
		}
		rec, err := startRecording(ctx, ffmpegBin(opts), videoPath)
		if err != nil {
			return nil, err
		}
		recorder = rec
		result.VideoPath = videoPath
	}

	runErr := runRobot(ctx, robotBin(opts), opts.ScriptPath, outputDir, result)

	if recorder != nil {
		if err := recorder.stop(logger); err != nil {
			logger.Warn("Screen recording did not stop cleanly.", "error", err)
		}
	}
	if runErr != nil {
		return nil, runErr
	}

	if opts.ArtifactsPath != "" {
		converted, err := artifacts.Convert(result.OutputXML, opts.ArtifactsPath, artifacts.Options{
			OutputDir:    outputDir,
			SuiteID:      opts.SuiteID,
			VideoPath:    result.VideoPath,
			ManifestPath: opts.ManifestPath,
		})
		if err != nil {
			return nil, err
		}
		result.ArtifactsPath = opts.ArtifactsPath
		result.Artifacts = converted
	}

	logger.Info("Robot run finished.",
		"exit_code", result.RobotExitCode,
		"output", result.OutputXML)
	return result, nil
}

func robotBin(opts Options) string {
	if opts.RobotBin != "" {
		return opts.RobotBin
	}
	return "robot"
}

func ffmpegBin(opts Options) string {
	if opts.FFmpegBin != "" {
		return opts.FFmpegBin
	}
	return "ffmpeg"
}

func runRobot(ctx context.Context, bin, scriptPath, outputDir string, result *Result) error {
	cmd := exec.CommandContext(ctx, bin, "--outputdir", outputDir, scriptPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.RobotExitCode = exitErr.ExitCode()
		return nil
	}
	return fmt.Errorf("running robot: %w", err)
}

// recording wraps a live ffmpeg screen capture.
type recording struct {
	cmd  *exec.Cmd
	done chan error
}

func startRecording(ctx context.Context, bin, videoPath string) (*recording, error) {
	args := []string{
		"-y",
		"-f", captureFormat(),
		"-i", captureInput(),
		"-framerate", "15",
		videoPath,
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	// ffmpeg stops cleanly on SIGINT; CommandContext's default SIGKILL would
	// truncate the container and leave an unplayable file.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGINT)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting screen recording: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return &recording{cmd: cmd, done: done}, nil
}

// stop interrupts ffmpeg and waits for it to flush; a recorder that ignores
// the interrupt is killed.
func (r *recording) stop(logger interface{ Debug(string, ...any) }) error {
	if err := r.cmd.Process.Signal(syscall.SIGINT); err != nil {
		return fmt.Errorf("interrupting recorder: %w", err)
	}

	select {
	case err := <-r.done:
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			return err
		}
		logger.Debug("Screen recording stopped.")
		return nil
	case <-time.After(recorderStopTimeout):
		_ = r.cmd.Process.Kill()
		<-r.done
		return errors.New("recorder ignored interrupt and was killed")
	}
}
