package world

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Actor is a named participant in the story. Tags are fixed at creation;
// properties are mutated freely by event actions.
type Actor struct {
	name  string
	tags  []string
	props map[string]Value
}

// NewActor creates an actor with the given name and tags.
func NewActor(name string, tags ...string) *Actor {
	return &Actor{
		name:  name,
		tags:  slices.Clone(tags),
		props: make(map[string]Value),
	}
}

// NewActorWith creates an actor and converts the initial properties with ValueOf.
func NewActorWith(name string, tags []string, props map[string]any) (*Actor, error) {
	a := NewActor(name, tags...)
	for key, raw := range props {
		v, err := ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("actor %s property %s: %w", name, key, err)
		}
		a.Set(key, v)
	}
	return a, nil
}

func (a *Actor) Name() string { return a.name }

// String renders the display name; narration relies on this.
func (a *Actor) String() string { return a.name }

func (a *Actor) Tags() []string { return slices.Clone(a.tags) }

func (a *Actor) HasTag(tag string) bool { return slices.Contains(a.tags, tag) }

// Get returns the property value, or Absent when it was never set.
func (a *Actor) Get(key string) Value { return a.props[key] }

// Set stores v. Setting Absent removes the property.
func (a *Actor) Set(key string, v Value) {
	if !v.IsSet() {
		delete(a.props, key)
		return
	}
	a.props[key] = v
}

func (a *Actor) SetBool(key string, b bool)      { a.Set(key, Bool(b)) }
func (a *Actor) SetNumber(key string, n float64) { a.Set(key, Number(n)) }
func (a *Actor) SetInt(key string, n int)        { a.Set(key, Int(n)) }
func (a *Actor) SetString(key string, s string)  { a.Set(key, String(s)) }
func (a *Actor) Unset(key string)                { delete(a.props, key) }

// Properties returns a copy of the set properties.
func (a *Actor) Properties() map[string]Value {
	return maps.Clone(a.props)
}

// PropertyNames returns the set property names in sorted order.
func (a *Actor) PropertyNames() []string {
	return slices.Sorted(maps.Keys(a.props))
}

func (a *Actor) GoString() string {
	return fmt.Sprintf("Actor(%s, [%s])", a.name, strings.Join(a.tags, ", "))
}
