// Package world holds the actor and relationship stores that event actions
// read and mutate.
package world

// World pairs the actor store with the relationship store so that removing an
// actor can prune the relationships naming it.
type World struct {
	Actors    *ActorStore
	Relations *RelationStore
}

func New() *World {
	return &World{
		Actors:    NewActorStore(),
		Relations: NewRelationStore(),
	}
}

// RemoveActor deletes the named actor. When prune is true every relationship
// mentioning the actor is removed as well; otherwise they are left dangling.
func (w *World) RemoveActor(name string, prune bool) (*Actor, error) {
	a, err := w.Actors.Remove(name)
	if err != nil {
		return nil, err
	}
	if prune {
		w.Relations.Prune(name)
	}
	return a, nil
}

// Resolve maps names to actors, skipping names that no longer exist.
func (w *World) Resolve(names []string) []*Actor {
	out := make([]*Actor, 0, len(names))
	for _, name := range names {
		if a, err := w.Actors.Lookup(name); err == nil {
			out = append(out, a)
		}
	}
	return out
}
