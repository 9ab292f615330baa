package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScenarioPath string // yaml/json/hcl scenario document
	OutPath      string // generated .robot script; empty derives from the scenario path

	Profile   string
	Overrides map[string]any

	Run           bool // execute the script after generating it
	Record        bool // keep a screen recording during the run
	ArtifactsPath string
	MaxIterations int

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenarioPath == "" {
		return nil, errors.New("ScenarioPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
