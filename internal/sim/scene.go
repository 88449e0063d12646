package sim

import (
	"math/rand/v2"

	"github.com/samber/oops"

	"smew/internal/narrate"
	"smew/internal/world"
)

// Scene is what an action sees: the bound actors plus the model operations an
// action is allowed to perform. A Scene is only valid during its action.
type Scene struct {
	model  *Model
	def    *Definition
	actors []*world.Actor
}

// Event returns the definition being run.
func (s *Scene) Event() *Definition { return s.def }

// Bound returns the actors bound to this event.
func (s *Scene) Bound() []*world.Actor { return s.actors }

// Narrate renders one of the event's flat templates and emits it.
func (s *Scene) Narrate(vars narrate.Vars) error {
	line, err := s.def.Narrative.Render(s.model.rng, vars)
	if err != nil {
		return oops.With("event", s.def.Name).Wrap(err)
	}
	s.model.sink.Narrate(line)
	return nil
}

// NarrateGroup renders a template from the named group and emits it.
func (s *Scene) NarrateGroup(group string, vars narrate.Vars) error {
	line, err := s.def.Narrative.RenderGroup(s.model.rng, group, vars)
	if err != nil {
		return oops.With("event", s.def.Name).Wrap(err)
	}
	s.model.sink.Narrate(line)
	return nil
}

// Say emits text verbatim.
func (s *Scene) Say(text string) {
	s.model.sink.Narrate(text)
}

// Trigger runs another event's action directly with the given actors. Its
// filter is not consulted. Errors carry the target under "triggered" so that
// "event" keeps naming the scheduled instance.
func (s *Scene) Trigger(name string, actors ...*world.Actor) error {
	def, ok := s.model.byName[name]
	if !ok {
		return oops.Code(world.CodeNotFound).
			With("triggered", name).
			Wrapf(world.ErrNotFound, "event %q", name)
	}
	if len(actors) != def.Slots() {
		return oops.Code(CodeMalformedEvent).
			With("triggered", name).
			With("want", def.Slots()).
			With("got", len(actors)).
			Wrapf(ErrMalformedEvent, "event %s takes %d actors, triggered with %d", name, def.Slots(), len(actors))
	}
	return s.model.run(def, actors)
}

// End stops the run after this tick.
func (s *Scene) End() { s.model.End() }

// Rand returns the model's seeded random source.
func (s *Scene) Rand() *rand.Rand { return s.model.rng }

func (s *Scene) AddActor(a *world.Actor) error { return s.model.AddActor(a) }

func (s *Scene) RemoveActor(a *world.Actor, prune bool) error {
	return s.model.RemoveActor(a.Name(), prune)
}

func (s *Scene) Relate(a *world.Actor, label string, b *world.Actor, reciprocal bool) {
	s.model.Relate(a, label, b, reciprocal)
}

func (s *Scene) Unrelate(a *world.Actor, label string, b *world.Actor, reciprocal bool) error {
	return s.model.Unrelate(a, label, b, reciprocal)
}

func (s *Scene) TryUnrelate(a *world.Actor, label string, b *world.Actor, reciprocal bool) bool {
	return s.model.TryUnrelate(a, label, b, reciprocal)
}

func (s *Scene) Actor(name string) (*world.Actor, error) { return s.model.Actor(name) }
func (s *Scene) Tagged(tag string) []*world.Actor        { return s.model.Tagged(tag) }

func (s *Scene) Related(subject *world.Actor, label string, object *world.Actor) bool {
	return s.model.Related(subject, label, object)
}

func (s *Scene) Subjects(label string, object *world.Actor) []*world.Actor {
	return s.model.Subjects(label, object)
}

func (s *Scene) Objects(subject *world.Actor, label string) []*world.Actor {
	return s.model.Objects(subject, label)
}

var _ View = (*Scene)(nil)
