package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"smew/internal/config"
	"smew/internal/logging"
	"smew/internal/scenario"
)

// loadProject reads the project config and installs the default logger.
// A missing config at the default path falls back to config.Default.
func loadProject() (*config.ProjectConfig, *slog.Logger, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || configPath != config.DefaultPath {
			return nil, nil, err
		}
		cfg = config.Default()
	}

	format, level := cfg.Log.Format, cfg.Log.Level
	if logFormat != "" {
		format = logFormat
	}
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.SetDefault("smew", version, format, level)
	return cfg, logger, nil
}

// loadScenario resolves a configured scenario name, falling back to a path.
func loadScenario(cfg *config.ProjectConfig, name string) (*scenario.Scenario, error) {
	if path, ok := cfg.ScenarioPath(name); ok {
		return scenario.Load(path)
	}
	if _, err := os.Stat(name); err != nil {
		return nil, err
	}
	return scenario.Load(name)
}
