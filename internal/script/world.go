package script

import (
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"smew/internal/narrate"
	"smew/internal/sim"
	"smew/internal/world"
)

// newWorldTable builds the w object passed as the first argument to every
// filter and action. Its functions are called with method syntax, so the
// table itself is argument 1.
func (s *Script) newWorldTable() *lua.LTable {
	w := s.L.NewTable()
	s.L.SetFuncs(w, map[string]lua.LGFunction{
		// queries
		"related":  s.related,
		"subjects": s.subjects,
		"objects":  s.objects,
		"actor":    s.actor,
		"tagged":   s.tagged,

		// actions only
		"relate":        s.relate,
		"unrelate":      s.unrelate,
		"try_unrelate":  s.tryUnrelate,
		"remove":        s.remove,
		"spawn":         s.spawn,
		"narrate":       s.narrate,
		"narrate_group": s.narrateGroup,
		"say":           s.say,
		"trigger":       s.trigger,
		"finish":        s.finish,
		"random":        s.random,
		"choice":        s.choice,
	})
	return w
}

func (s *Script) view(L *lua.LState) sim.View {
	if s.frame.view == nil {
		s.raise(L, oops.Code("NO_MODEL").Errorf("world queries are only available while a model runs"))
	}
	return s.frame.view
}

// scene returns the running action's scene, raising an error inside filters.
func (s *Script) scene(L *lua.LState, fn string) *sim.Scene {
	if s.frame.scene == nil {
		s.raise(L, oops.Code("READ_ONLY").
			With("function", fn).
			Errorf("w:%s can only be called from an action", fn))
	}
	return s.frame.scene
}

func (s *Script) related(L *lua.LState) int {
	v := s.view(L)
	L.Push(lua.LBool(v.Related(checkActor(L, 2), L.CheckString(3), checkActor(L, 4))))
	return 1
}

func (s *Script) subjects(L *lua.LState) int {
	v := s.view(L)
	L.Push(s.actorList(v.Subjects(L.CheckString(2), checkActor(L, 3))))
	return 1
}

func (s *Script) objects(L *lua.LState) int {
	v := s.view(L)
	L.Push(s.actorList(v.Objects(checkActor(L, 2), L.CheckString(3))))
	return 1
}

// actor returns the named actor or nil.
func (s *Script) actor(L *lua.LState) int {
	v := s.view(L)
	a, err := v.Actor(L.CheckString(2))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(s.actorValue(a))
	return 1
}

func (s *Script) tagged(L *lua.LState) int {
	v := s.view(L)
	L.Push(s.actorList(v.Tagged(L.CheckString(2))))
	return 1
}

// relate(a, label, b [, reciprocal]) defaults to a reciprocal relationship.
func (s *Script) relate(L *lua.LState) int {
	sc := s.scene(L, "relate")
	sc.Relate(checkActor(L, 2), L.CheckString(3), checkActor(L, 4), L.OptBool(5, true))
	return 0
}

func (s *Script) unrelate(L *lua.LState) int {
	sc := s.scene(L, "unrelate")
	if err := sc.Unrelate(checkActor(L, 2), L.CheckString(3), checkActor(L, 4), L.OptBool(5, true)); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *Script) tryUnrelate(L *lua.LState) int {
	sc := s.scene(L, "try_unrelate")
	L.Push(lua.LBool(sc.TryUnrelate(checkActor(L, 2), L.CheckString(3), checkActor(L, 4), L.OptBool(5, true))))
	return 1
}

// remove(a [, prune]) prunes relationships unless prune is false.
func (s *Script) remove(L *lua.LState) int {
	sc := s.scene(L, "remove")
	if err := sc.RemoveActor(checkActor(L, 2), L.OptBool(3, true)); err != nil {
		return s.raise(L, err)
	}
	return 0
}

// spawn(name, tags, properties) adds a new actor and returns it.
func (s *Script) spawn(L *lua.LState) int {
	sc := s.scene(L, "spawn")
	name := L.CheckString(2)
	tags, err := stringList(L.Get(3))
	if err != nil {
		return s.raise(L, oops.With("actor", name).Wrap(err))
	}

	props := make(map[string]any)
	if t, ok := L.Get(4).(*lua.LTable); ok {
		t.ForEach(func(k, v lua.LValue) {
			if err != nil {
				return
			}
			val, convErr := fromLua(v)
			if convErr != nil {
				err = oops.With("property", k.String()).Wrap(convErr)
				return
			}
			props[k.String()] = val
		})
	}
	if err != nil {
		return s.raise(L, oops.With("actor", name).Wrap(err))
	}

	a, err := world.NewActorWith(name, tags, props)
	if err != nil {
		return s.raise(L, err)
	}
	if err := sc.AddActor(a); err != nil {
		return s.raise(L, err)
	}
	L.Push(s.actorValue(a))
	return 1
}

func (s *Script) narrate(L *lua.LState) int {
	sc := s.scene(L, "narrate")
	if err := sc.Narrate(s.vars(L.OptTable(2, nil))); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *Script) narrateGroup(L *lua.LState) int {
	sc := s.scene(L, "narrate_group")
	if err := sc.NarrateGroup(L.CheckString(2), s.vars(L.OptTable(3, nil))); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *Script) say(L *lua.LState) int {
	s.scene(L, "say").Say(L.CheckString(2))
	return 0
}

// trigger(name, actors...) runs another event's action directly.
func (s *Script) trigger(L *lua.LState) int {
	sc := s.scene(L, "trigger")
	name := L.CheckString(2)
	actors := make([]*world.Actor, 0, L.GetTop()-2)
	for i := 3; i <= L.GetTop(); i++ {
		actors = append(actors, checkActor(L, i))
	}
	if err := sc.Trigger(name, actors...); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *Script) finish(L *lua.LState) int {
	s.scene(L, "finish").End()
	return 0
}

// random() returns a float in [0, 1), random(n) an integer in [1, n] and
// random(m, n) an integer in [m, n], all from the model's seeded source.
func (s *Script) random(L *lua.LState) int {
	rng := s.scene(L, "random").Rand()
	switch L.GetTop() {
	case 1:
		L.Push(lua.LNumber(rng.Float64()))
	case 2:
		n := L.CheckInt(2)
		if n < 1 {
			L.ArgError(2, "interval is empty")
		}
		L.Push(lua.LNumber(1 + rng.IntN(n)))
	default:
		lo, hi := L.CheckInt(2), L.CheckInt(3)
		if hi < lo {
			L.ArgError(3, "interval is empty")
		}
		L.Push(lua.LNumber(lo + rng.IntN(hi-lo+1)))
	}
	return 1
}

// choice(list) returns a random element, or nil for an empty list.
func (s *Script) choice(L *lua.LState) int {
	rng := s.scene(L, "choice").Rand()
	t := L.CheckTable(2)
	if t.Len() == 0 {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(t.RawGetInt(1 + rng.IntN(t.Len())))
	return 1
}

// vars converts a Lua table of template variables. Actors stay actors so
// they render by name.
func (s *Script) vars(t *lua.LTable) narrate.Vars {
	vars := narrate.Vars{}
	if t == nil {
		return vars
	}
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		switch val := v.(type) {
		case *lua.LUserData:
			if a, ok := val.Value.(*world.Actor); ok {
				vars[string(key)] = a
				return
			}
			vars[string(key)] = val.String()
		case lua.LBool:
			vars[string(key)] = bool(val)
		case lua.LNumber:
			vars[string(key)] = float64(val)
		case lua.LString:
			vars[string(key)] = string(val)
		default:
			vars[string(key)] = v.String()
		}
	})
	return vars
}
