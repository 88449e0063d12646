package sim

import (
	"slices"

	"smew/internal/world"
)

// Population is the actor set the matcher draws candidates from.
type Population interface {
	All() []*world.Actor
	Tagged(tag string) []*world.Actor
}

// Candidates returns every actor tuple structurally eligible for def, before
// its filter runs. Tagged events take the Cartesian product of the per-slot
// tag populations without repeating an actor; untagged events take every
// ordered permutation of the whole population of length def.Slots().
func Candidates(def *Definition, pop Population) [][]*world.Actor {
	var out [][]*world.Actor
	eachCandidate(def, pop, func(tuple []*world.Actor) {
		out = append(out, slices.Clone(tuple))
	})
	return out
}

// eachCandidate calls fn for every candidate tuple. The tuple slice is reused
// between calls.
func eachCandidate(def *Definition, pop Population, fn func([]*world.Actor)) {
	k := def.Slots()
	if k < 1 {
		return
	}

	slots := make([][]*world.Actor, k)
	if len(def.Tags) > 0 {
		byTag := make(map[string][]*world.Actor, k)
		for i, tag := range def.Tags {
			actors, ok := byTag[tag]
			if !ok {
				actors = pop.Tagged(tag)
				byTag[tag] = actors
			}
			if len(actors) == 0 {
				return
			}
			slots[i] = actors
		}
	} else {
		all := pop.All()
		if len(all) < k {
			return
		}
		for i := range slots {
			slots[i] = all
		}
	}

	tuple := make([]*world.Actor, k)
	var fill func(slot int)
	fill = func(slot int) {
		if slot == k {
			fn(tuple)
			return
		}
		for _, a := range slots[slot] {
			if slices.Contains(tuple[:slot], a) {
				continue
			}
			tuple[slot] = a
			fill(slot + 1)
		}
	}
	fill(0)
}

// match returns the instances of def whose filter accepts them.
func match(def *Definition, pop Population, v View) []*Instance {
	var out []*Instance
	eachCandidate(def, pop, func(tuple []*world.Actor) {
		if def.Filter(v, tuple) {
			out = append(out, &Instance{Def: def, Actors: slices.Clone(tuple)})
		}
	})
	return out
}
