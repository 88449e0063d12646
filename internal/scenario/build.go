package scenario

import (
	"log/slog"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"smew/internal/script"
	"smew/internal/sim"
	"smew/internal/world"
)

// Story is a scenario ready to run.
type Story struct {
	Scenario *Scenario
	Model    *sim.Model
	Script   *script.Script
}

// Close releases the story's Lua state.
func (s *Story) Close() {
	if s.Script != nil {
		s.Script.Close()
	}
}

// BuildOptions controls how a scenario becomes a model.
type BuildOptions struct {
	Logger *slog.Logger
	// Events restricts which script events are registered. Nil keeps all.
	Events EventFilter
	Model  []sim.Option
}

// EventFilter selects events by name.
type EventFilter func(name string) bool

// MatchEvents returns a filter accepting event names matching any of the
// glob patterns.
func MatchEvents(patterns ...string) (EventFilter, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, oops.Code("BAD_PATTERN").With("pattern", p).Wrapf(err, "compiling event pattern")
		}
		globs = append(globs, g)
	}
	return func(name string) bool {
		for _, g := range globs {
			if g.Match(name) {
				return true
			}
		}
		return false
	}, nil
}

// Cast builds fresh actors from the scenario's declarations.
func (sc *Scenario) Cast() ([]*world.Actor, error) {
	var actors []*world.Actor
	for _, spec := range sc.Actors {
		for _, name := range spec.AllNames() {
			a, err := world.NewActorWith(name, spec.Tags, spec.Properties)
			if err != nil {
				return nil, oops.With("actor", name).Wrap(err)
			}
			actors = append(actors, a)
		}
	}
	return actors, nil
}

// Build loads the script and returns a model holding the cast and initial
// relationships. The caller must Close the story.
func (sc *Scenario) Build(opts BuildOptions) (*Story, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	actors, err := sc.Cast()
	if err != nil {
		return nil, err
	}

	scr, err := script.Load(sc.ScriptPath(), script.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var defs []sim.Definition
	for _, def := range scr.Definitions() {
		if opts.Events == nil || opts.Events(def.Name) {
			defs = append(defs, def)
		}
	}

	modelOpts := append([]sim.Option{sim.WithLogger(logger)}, opts.Model...)
	m, err := sim.New(actors, defs, modelOpts...)
	if err != nil {
		scr.Close()
		return nil, err
	}

	for _, rel := range sc.Relationships {
		subject, err := m.Actor(rel.Subject)
		if err != nil {
			scr.Close()
			return nil, oops.With("relationship", rel.Label).Wrap(err)
		}
		object, err := m.Actor(rel.Object)
		if err != nil {
			scr.Close()
			return nil, oops.With("relationship", rel.Label).Wrap(err)
		}
		m.Relate(subject, rel.Label, object, rel.Reciprocal)
	}

	return &Story{Scenario: sc, Model: m, Script: scr}, nil
}
