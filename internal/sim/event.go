package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"

	"smew/internal/narrate"
	"smew/internal/world"
)

// ErrMalformedEvent indicates an event definition that cannot be registered.
var ErrMalformedEvent = errors.New("malformed event definition")

// CodeMalformedEvent is the oops code for ErrMalformedEvent.
const CodeMalformedEvent = "MALFORMED_EVENT"

// FilterFunc decides whether an event may fire for the given actors. It must
// not mutate anything.
type FilterFunc func(v View, actors []*world.Actor) bool

// ActionFunc performs the event for the given actors.
type ActionFunc func(s *Scene, actors []*world.Actor) error

// Definition is one kind of event. Tags, when present, constrain each slot
// positionally; otherwise Arity gives the slot count and every permutation of
// the population is considered.
type Definition struct {
	Name      string
	Tags      []string
	Arity     int
	Filter    FilterFunc
	Action    ActionFunc
	Narrative narrate.Templates
}

// Slots returns the number of actors the event binds.
func (d *Definition) Slots() int {
	if len(d.Tags) > 0 {
		return len(d.Tags)
	}
	return d.Arity
}

// Validate reports a malformed definition.
func (d *Definition) Validate() error {
	fail := func(format string, args ...any) error {
		return oops.Code(CodeMalformedEvent).
			With("event", d.Name).
			Wrapf(ErrMalformedEvent, format, args...)
	}

	if strings.TrimSpace(d.Name) == "" {
		return fail("event name is required")
	}
	if d.Filter == nil {
		return fail("event %s has no filter", d.Name)
	}
	if d.Action == nil {
		return fail("event %s has no action", d.Name)
	}
	if len(d.Tags) > 0 && d.Arity != 0 && d.Arity != len(d.Tags) {
		return fail("event %s declares %d tags but its action takes %d actors", d.Name, len(d.Tags), d.Arity)
	}
	for i, tag := range d.Tags {
		if strings.TrimSpace(tag) == "" {
			return fail("event %s tag %d is empty", d.Name, i)
		}
	}
	if d.Slots() < 1 {
		return fail("event %s binds no actors", d.Name)
	}
	return nil
}

// Instance binds concrete actors to a definition for one tick.
type Instance struct {
	Def    *Definition
	Actors []*world.Actor
}

func (in *Instance) String() string {
	names := make([]string, len(in.Actors))
	for i, a := range in.Actors {
		names[i] = a.Name()
	}
	return fmt.Sprintf("%s(%s)", in.Def.Name, strings.Join(names, ", "))
}

// Run executes the instance's action against m.
func (in *Instance) Run(m *Model) error {
	return m.run(in.Def, in.Actors)
}

// View is the read-only access a filter gets to the model.
type View interface {
	Actor(name string) (*world.Actor, error)
	Tagged(tag string) []*world.Actor
	Related(subject *world.Actor, label string, object *world.Actor) bool
	Subjects(label string, object *world.Actor) []*world.Actor
	Objects(subject *world.Actor, label string) []*world.Actor
}

var _ View = (*Model)(nil)
