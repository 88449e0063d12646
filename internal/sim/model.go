// Package sim runs stories: it matches event definitions against the actor
// population each tick, picks one valid instance at random and executes it.
package sim

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/samber/oops"

	"smew/internal/narrate"
	"smew/internal/world"
)

// maxChainDepth bounds events triggered from other events' actions.
const maxChainDepth = 64

// Model owns the world, the event registry and the random source for one run.
// It is not safe for concurrent use.
type Model struct {
	world   *world.World
	events  []*Definition
	byName  map[string]*Definition
	rng     *rand.Rand
	sink    narrate.Sink
	logger  *slog.Logger
	metrics *Metrics

	ended bool
	ticks int
	depth int
}

// Option configures a Model.
type Option func(*Model)

// WithRand sets the random source used for event and narration choice.
func WithRand(rng *rand.Rand) Option {
	return func(m *Model) { m.rng = rng }
}

// WithSeed seeds a PCG source so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(m *Model) { m.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithSink sets where narration goes. The default discards it.
func WithSink(sink narrate.Sink) Option {
	return func(m *Model) { m.sink = sink }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

func WithMetrics(metrics *Metrics) Option {
	return func(m *Model) { m.metrics = metrics }
}

// New builds a model from the initial actors and event definitions.
func New(actors []*world.Actor, events []Definition, opts ...Option) (*Model, error) {
	m := &Model{
		world:  world.New(),
		byName: make(map[string]*Definition),
		sink:   narrate.Discard,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	for _, a := range actors {
		if err := m.AddActor(a); err != nil {
			return nil, err
		}
	}
	for _, def := range events {
		if err := m.AddEvent(def); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddEvent validates and registers an event definition.
func (m *Model) AddEvent(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, exists := m.byName[def.Name]; exists {
		return oops.Code(world.CodeDuplicateName).
			With("event", def.Name).
			Wrapf(world.ErrDuplicateName, "event %q is already in the model", def.Name)
	}
	def.Tags = slices.Clone(def.Tags)
	m.events = append(m.events, &def)
	m.byName[def.Name] = &def
	return nil
}

// Event returns the named definition.
func (m *Model) Event(name string) (*Definition, error) {
	def, ok := m.byName[name]
	if !ok {
		return nil, oops.Code(world.CodeNotFound).
			With("event", name).
			Wrapf(world.ErrNotFound, "event %q", name)
	}
	return def, nil
}

// Events returns the definitions in registration order.
func (m *Model) Events() []*Definition {
	return slices.Clone(m.events)
}

func (m *Model) AddActor(a *world.Actor) error {
	return m.world.Actors.Add(a)
}

// RemoveActor deletes the named actor, pruning its relationships when prune is true.
func (m *Model) RemoveActor(name string, prune bool) error {
	_, err := m.world.RemoveActor(name, prune)
	return err
}

func (m *Model) Actor(name string) (*world.Actor, error) {
	return m.world.Actors.Lookup(name)
}

// Tagged returns the actors with tag in insertion order.
func (m *Model) Tagged(tag string) []*world.Actor {
	return m.world.Actors.Tagged(tag)
}

// Actors returns every actor in insertion order.
func (m *Model) Actors() []*world.Actor {
	return m.world.Actors.All()
}

func (m *Model) Relate(a *world.Actor, label string, b *world.Actor, reciprocal bool) {
	m.world.Relations.Relate(a.Name(), label, b.Name(), reciprocal)
}

func (m *Model) Unrelate(a *world.Actor, label string, b *world.Actor, reciprocal bool) error {
	return m.world.Relations.Unrelate(a.Name(), label, b.Name(), reciprocal)
}

func (m *Model) TryUnrelate(a *world.Actor, label string, b *world.Actor, reciprocal bool) bool {
	return m.world.Relations.TryUnrelate(a.Name(), label, b.Name(), reciprocal)
}

// Related reports whether (subject, label, object) holds.
func (m *Model) Related(subject *world.Actor, label string, object *world.Actor) bool {
	return m.world.Relations.Related(subject.Name(), label, object.Name())
}

// Subjects returns the actors X with (X, label, object). Names that no
// longer resolve to an actor are skipped.
func (m *Model) Subjects(label string, object *world.Actor) []*world.Actor {
	return m.world.Resolve(m.world.Relations.Subjects(label, object.Name()))
}

// Objects returns the actors Y with (subject, label, Y). Names that no
// longer resolve to an actor are skipped.
func (m *Model) Objects(subject *world.Actor, label string) []*world.Actor {
	return m.world.Resolve(m.world.Relations.Objects(subject.Name(), label))
}

// Relationships returns every stored triple in insertion order.
func (m *Model) Relationships() []world.Relationship {
	return m.world.Relations.All()
}

func (m *Model) Ended() bool { return m.ended }

// End stops the run; later calls to Advance do nothing.
func (m *Model) End() { m.ended = true }

// Ticks returns how many ticks executed an event.
func (m *Model) Ticks() int { return m.ticks }

// Rand returns the model's random source.
func (m *Model) Rand() *rand.Rand { return m.rng }

// Possible returns every valid event instance for the current state, in
// registration order of the events and candidate order within each event.
func (m *Model) Possible() []*Instance {
	var pool []*Instance
	for _, def := range m.events {
		pool = append(pool, match(def, m.world.Actors, m)...)
	}
	return pool
}

// Candidates returns the tuples def could be instantiated with before its
// filter runs.
func (m *Model) Candidates(def *Definition) [][]*world.Actor {
	return Candidates(def, m.world.Actors)
}

// Advance runs one tick. With no valid instance the model ends; otherwise one
// instance is chosen uniformly at random and executed.
func (m *Model) Advance() error {
	if m.ended {
		return nil
	}

	pool := m.Possible()
	m.metrics.tick(len(pool))
	if len(pool) == 0 {
		m.ended = true
		m.metrics.deadlock()
		m.logger.Info("no event possible, story ended", "ticks", m.ticks)
		return nil
	}

	m.ticks++
	chosen := pool[m.rng.IntN(len(pool))]
	m.logger.Debug("tick",
		"tick", m.ticks,
		"pool", len(pool),
		"event", chosen.Def.Name,
		"actors", chosen.String())

	if err := chosen.Run(m); err != nil {
		return oops.Code("ACTION_FAILED").
			With("event", chosen.Def.Name).
			With("tick", m.ticks).
			Wrapf(err, "running %s", chosen)
	}
	return nil
}

// Generate advances until the model ends or maxSteps ticks have been
// attempted, and returns the number of Advance calls made.
func (m *Model) Generate(maxSteps int) (int, error) {
	steps := 0
	for steps < maxSteps && !m.ended {
		if err := m.Advance(); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}

func (m *Model) run(def *Definition, actors []*world.Actor) error {
	if m.depth >= maxChainDepth {
		return oops.Code("CHAIN_TOO_DEEP").
			With("event", def.Name).
			Errorf("event chain exceeds depth %d", maxChainDepth)
	}
	m.depth++
	defer func() { m.depth-- }()

	m.metrics.fired(def.Name)
	return def.Action(&Scene{model: m, def: def, actors: actors}, actors)
}
