package script

import (
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"smew/internal/world"
)

const actorTypeName = "smew.actor"

func (s *Script) registerActorType() {
	mt := s.L.NewTypeMetatable(actorTypeName)
	s.L.SetField(mt, "__index", s.L.NewFunction(s.actorIndex))
	s.L.SetField(mt, "__newindex", s.L.NewFunction(s.actorNewIndex))
	s.L.SetField(mt, "__tostring", s.L.NewFunction(actorToString))
}

// actorValue returns the userdata for a. The same actor always maps to the
// same userdata so == works in scripts.
func (s *Script) actorValue(a *world.Actor) lua.LValue {
	if a == nil {
		return lua.LNil
	}
	if ud, ok := s.actors[a]; ok {
		return ud
	}
	ud := s.L.NewUserData()
	ud.Value = a
	s.L.SetMetatable(ud, s.L.GetTypeMetatable(actorTypeName))
	s.actors[a] = ud
	return ud
}

func (s *Script) actorList(actors []*world.Actor) *lua.LTable {
	t := s.L.CreateTable(len(actors), 0)
	for _, a := range actors {
		t.Append(s.actorValue(a))
	}
	return t
}

func checkActor(L *lua.LState, n int) *world.Actor {
	ud := L.CheckUserData(n)
	a, ok := ud.Value.(*world.Actor)
	if !ok {
		L.ArgError(n, "actor expected")
		return nil
	}
	return a
}

func (s *Script) actorIndex(L *lua.LState) int {
	a := checkActor(L, 1)
	key := L.CheckString(2)
	switch key {
	case "name":
		L.Push(lua.LString(a.Name()))
	case "tags":
		t := L.NewTable()
		for _, tag := range a.Tags() {
			t.Append(lua.LString(tag))
		}
		L.Push(t)
	case "has_tag":
		L.Push(L.NewFunction(actorHasTag))
	default:
		L.Push(toLua(a.Get(key)))
	}
	return 1
}

func (s *Script) actorNewIndex(L *lua.LState) int {
	a := checkActor(L, 1)
	key := L.CheckString(2)
	if s.frame.scene == nil {
		return s.raise(L, oops.Code("READ_ONLY").
			With("actor", a.Name()).
			With("property", key).
			Errorf("cannot set %s.%s outside an action", a.Name(), key))
	}
	switch key {
	case "name", "tags", "has_tag":
		return s.raise(L, oops.Code("READ_ONLY").
			With("actor", a.Name()).
			Errorf("%s is built in and cannot be assigned", key))
	}
	v, err := fromLua(L.Get(3))
	if err != nil {
		return s.raise(L, oops.With("actor", a.Name()).With("property", key).Wrap(err))
	}
	a.Set(key, v)
	return 0
}

func actorHasTag(L *lua.LState) int {
	a := checkActor(L, 1)
	L.Push(lua.LBool(a.HasTag(L.CheckString(2))))
	return 1
}

func actorToString(L *lua.LState) int {
	L.Push(lua.LString(checkActor(L, 1).Name()))
	return 1
}

func toLua(v world.Value) lua.LValue {
	switch v.Kind() {
	case world.KindBool:
		return lua.LBool(v.Bool())
	case world.KindNumber:
		return lua.LNumber(v.Number())
	case world.KindString:
		return lua.LString(v.Str())
	default:
		return lua.LNil
	}
}

func fromLua(v lua.LValue) (world.Value, error) {
	switch t := v.(type) {
	case *lua.LNilType:
		return world.Absent, nil
	case lua.LBool:
		return world.Bool(bool(t)), nil
	case lua.LNumber:
		return world.Number(float64(t)), nil
	case lua.LString:
		return world.String(string(t)), nil
	default:
		return world.Absent, oops.Code("UNSUPPORTED_VALUE").
			With("type", v.Type().String()).
			Errorf("cannot store a Lua %s as a property", v.Type())
	}
}
