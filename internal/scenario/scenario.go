// Package scenario loads YAML scenario files: the initial cast, their
// relationships, the Lua script holding the events and run defaults.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSteps is used when neither the scenario nor the caller sets a step
// limit.
const DefaultSteps = 50

type Scenario struct {
	Title         string             `yaml:"title" jsonschema:"description=Human readable name of the story"`
	Script        string             `yaml:"script" jsonschema:"description=Lua file defining the events (relative to the scenario file)"`
	Steps         int                `yaml:"steps,omitempty" jsonschema:"minimum=0,description=Default maximum number of ticks"`
	Seed          *uint64            `yaml:"seed,omitempty" jsonschema:"description=Default random seed"`
	Actors        []ActorSpec        `yaml:"actors"`
	Relationships []RelationshipSpec `yaml:"relationships,omitempty"`

	// Dir is the directory relative paths resolve against.
	Dir string `yaml:"-"`
}

// ActorSpec declares one actor, or several sharing tags and properties when
// Names is used.
type ActorSpec struct {
	Name       string         `yaml:"name,omitempty"`
	Names      []string       `yaml:"names,omitempty"`
	Tags       []string       `yaml:"tags,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

type RelationshipSpec struct {
	Subject    string `yaml:"subject"`
	Label      string `yaml:"label"`
	Object     string `yaml:"object"`
	Reciprocal bool   `yaml:"reciprocal,omitempty"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", path, err)
	}
	sc.Dir = filepath.Dir(path)
	return sc, nil
}

// Parse decodes and validates a scenario document. Unknown keys are errors.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scenario is empty")
		}
		return nil, err
	}
	if err := validateScenario(&sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func validateScenario(sc *Scenario) error {
	if strings.TrimSpace(sc.Script) == "" {
		return fmt.Errorf("script is required")
	}
	if sc.Steps < 0 {
		return fmt.Errorf("steps must not be negative")
	}
	if len(sc.Actors) == 0 {
		return fmt.Errorf("at least one actor is required")
	}

	seen := make(map[string]struct{})
	for i, spec := range sc.Actors {
		if spec.Name != "" && len(spec.Names) > 0 {
			return fmt.Errorf("actor %d sets both name and names", i)
		}
		names := spec.AllNames()
		if len(names) == 0 {
			return fmt.Errorf("actor %d name is required", i)
		}
		for _, name := range names {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("actor %d has an empty name", i)
			}
			if _, exists := seen[name]; exists {
				return fmt.Errorf("duplicate actor name: %s", name)
			}
			seen[name] = struct{}{}
		}
		for _, tag := range spec.Tags {
			if strings.TrimSpace(tag) == "" {
				return fmt.Errorf("actor %s has an empty tag", names[0])
			}
		}
	}

	for i, rel := range sc.Relationships {
		if rel.Subject == "" || rel.Object == "" {
			return fmt.Errorf("relationship %d needs a subject and an object", i)
		}
		if strings.TrimSpace(rel.Label) == "" {
			return fmt.Errorf("relationship %d label is required", i)
		}
	}
	return nil
}

// AllNames returns the names this declaration expands to.
func (a ActorSpec) AllNames() []string {
	if a.Name != "" {
		return []string{a.Name}
	}
	return a.Names
}

// ActorNames returns every declared actor name in declaration order.
func (sc *Scenario) ActorNames() []string {
	var out []string
	for _, spec := range sc.Actors {
		out = append(out, spec.AllNames()...)
	}
	return out
}

// ScriptPath resolves the script against the scenario's directory.
func (sc *Scenario) ScriptPath() string {
	if filepath.IsAbs(sc.Script) || sc.Dir == "" {
		return sc.Script
	}
	return filepath.Join(sc.Dir, sc.Script)
}

// MaxSteps returns override when positive, else the scenario's steps, else
// DefaultSteps.
func (sc *Scenario) MaxSteps(override int) int {
	switch {
	case override > 0:
		return override
	case sc.Steps > 0:
		return sc.Steps
	default:
		return DefaultSteps
	}
}
