package world

import (
	"slices"

	"github.com/samber/oops"
)

// ActorStore holds actors by unique name, preserving insertion order.
type ActorStore struct {
	order  []*Actor
	byName map[string]*Actor
}

func NewActorStore() *ActorStore {
	return &ActorStore{byName: make(map[string]*Actor)}
}

// Add inserts a. It returns ErrDuplicateName when the name is taken.
func (s *ActorStore) Add(a *Actor) error {
	if _, exists := s.byName[a.Name()]; exists {
		return oops.Code(CodeDuplicateName).
			With("actor", a.Name()).
			Wrapf(ErrDuplicateName, "actor %q is already in the model", a.Name())
	}
	s.order = append(s.order, a)
	s.byName[a.Name()] = a
	return nil
}

// Remove deletes the named actor and returns it.
func (s *ActorStore) Remove(name string) (*Actor, error) {
	a, ok := s.byName[name]
	if !ok {
		return nil, notFound(name)
	}
	delete(s.byName, name)
	s.order = slices.DeleteFunc(s.order, func(other *Actor) bool { return other == a })
	return a, nil
}

func (s *ActorStore) Lookup(name string) (*Actor, error) {
	a, ok := s.byName[name]
	if !ok {
		return nil, notFound(name)
	}
	return a, nil
}

// Has reports whether an actor with the name exists.
func (s *ActorStore) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Tagged returns the actors carrying tag in insertion order.
func (s *ActorStore) Tagged(tag string) []*Actor {
	var out []*Actor
	for _, a := range s.order {
		if a.HasTag(tag) {
			out = append(out, a)
		}
	}
	return out
}

// All returns every actor in insertion order. The slice is a copy.
func (s *ActorStore) All() []*Actor {
	return slices.Clone(s.order)
}

func (s *ActorStore) Len() int { return len(s.order) }

func notFound(name string) error {
	return oops.Code(CodeNotFound).
		With("actor", name).
		Wrapf(ErrNotFound, "actor %q", name)
}
