package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the project config.
const DefaultPath = "smew.yaml"

type ProjectConfig struct {
	Project   string           `yaml:"project"`
	Version   int              `yaml:"version"`
	Log       LogConfig        `yaml:"log"`
	Run       RunConfig        `yaml:"run"`
	Store     StoreConfig      `yaml:"store"`
	Scenarios []ScenarioConfig `yaml:"scenarios"`

	// Dir is the directory holding the config file.
	Dir string `yaml:"-"`
}

type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

type RunConfig struct {
	Steps int     `yaml:"steps"`
	Seed  *uint64 `yaml:"seed"`
}

type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

type ScenarioConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg.Dir = filepath.Dir(path)
	return &cfg, nil
}

// Default is the configuration used when no smew.yaml exists.
func Default() *ProjectConfig {
	cfg := &ProjectConfig{Project: "smew", Version: 1, Dir: "."}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Log.Format)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.Log.Level)
	}
	if cfg.Run.Steps < 0 {
		return fmt.Errorf("run steps must not be negative")
	}
	if dsn := strings.TrimSpace(cfg.Store.DSN); dsn != "" &&
		!strings.HasPrefix(dsn, "sqlite://") &&
		!strings.HasPrefix(dsn, "postgres://") &&
		!strings.HasPrefix(dsn, "postgresql://") {
		return fmt.Errorf("unsupported store dsn scheme: %s", dsn)
	}

	seen := make(map[string]struct{})
	for i, sc := range cfg.Scenarios {
		if strings.TrimSpace(sc.Name) == "" {
			return fmt.Errorf("scenario %d name is required", i)
		}
		if strings.TrimSpace(sc.Path) == "" {
			return fmt.Errorf("scenario %d path is required", i)
		}
		key := strings.ToLower(sc.Name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate scenario name: %s", sc.Name)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// ScenarioPath resolves a scenario by its configured name, relative to the
// config file. Names are matched case-insensitively.
func (c *ProjectConfig) ScenarioPath(name string) (string, bool) {
	for _, sc := range c.Scenarios {
		if strings.EqualFold(sc.Name, name) {
			if filepath.IsAbs(sc.Path) {
				return sc.Path, true
			}
			return filepath.Join(c.Dir, sc.Path), true
		}
	}
	return "", false
}
