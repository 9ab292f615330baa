package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/metyatech/automation-scenario-studio/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// setFlag collects repeated --set key=value occurrences.
type setFlag map[string]any

func (s setFlag) String() string {
	pairs := make([]string, 0, len(s))
	for k, v := range s {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(pairs, ",")
}

func (s setFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	s[key] = val
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("scenario-studio", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Scenario Studio - compiles declarative automation scenarios to Robot Framework.

Usage:
  scenario-studio [options] [SCENARIO_PATH]

Arguments:
  SCENARIO_PATH
    Path to a scenario document (.yaml, .yml, .json or .hcl).

Options:
`)
		flagSet.PrintDefaults()
	}

	scenarioFlag := flagSet.String("scenario", "", "Path to the scenario document.")
	sFlag := flagSet.String("s", "", "Path to the scenario document (shorthand).")
	outFlag := flagSet.String("out", "", "Path for the generated .robot script. Defaults to the scenario path with a .robot extension.")
	profileFlag := flagSet.String("profile", "", "Variable profile to apply.")
	overrides := setFlag{}
	flagSet.Var(overrides, "set", "Override a variable as key=value. Repeatable.")
	runFlag := flagSet.Bool("run", false, "Execute the generated script with robot after compiling.")
	recordFlag := flagSet.Bool("record", false, "Keep an ffmpeg screen recording for the duration of the run.")
	artifactsFlag := flagSet.String("artifacts", "", "Path for the run-artifacts JSON produced after a run.")
	maxIterFlag := flagSet.Int("max-iterations", 0, "Cap for while-loop unrolling. 0 uses the built-in default.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *scenarioFlag != "" {
		path = *scenarioFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Scenario path determined.", "path", path)

	if path == "" {
		slog.Debug("No scenario path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *maxIterFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid max-iterations: must not be negative"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ScenarioPath:  path,
		OutPath:       *outFlag,
		Profile:       *profileFlag,
		Overrides:     overrides,
		Run:           *runFlag,
		Record:        *recordFlag,
		ArtifactsPath: *artifactsFlag,
		MaxIterations: *maxIterFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
