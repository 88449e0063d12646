// Package script loads event definitions written in Lua.
//
// A script registers events by calling the global event function:
//
//	event {
//	  name = "Notice",
//	  match = {"character", "character"},
//	  narrative = {"{a} notices {b} across the room."},
//	  filter = function(w, a, b)
//	    return a.location == b.location and not w:related(a, "loves", b)
//	  end,
//	  action = function(w, a, b)
//	    w:narrate{a = a, b = b}
//	    w:trigger("FallInLove", a, b)
//	  end,
//	}
//
// The number of actors an event takes is the action's parameter count minus
// one for w. Actors are userdata: indexing reads a property (nil when unset)
// and assignment sets one. name, tags and has_tag are built in.
package script

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"smew/internal/narrate"
	"smew/internal/sim"
	"smew/internal/world"
)

// blockedGlobals are base functions that reach the filesystem or bypass the
// seeded random source.
var blockedGlobals = []string{"dofile", "loadfile", "loadstring", "load", "require"}

// Script is a loaded Lua file and the events it registered. It owns a Lua
// state and is not safe for concurrent use; build one Script per Model.
type Script struct {
	name   string
	L      *lua.LState
	logger *slog.Logger

	defs   []sim.Definition
	seen   map[string]bool
	w      *lua.LTable
	actors map[*world.Actor]*lua.LUserData

	// frame is the view and scene of the filter or action currently running.
	frame frame
	// pending holds the Go error behind the most recent RaiseError so callers
	// get the typed error back instead of a Lua string.
	pending error
}

type frame struct {
	view  sim.View
	scene *sim.Scene
}

// Option configures a Script.
type Option func(*Script)

// WithLogger sets the logger used for filter failures and the Lua log function.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Script) { s.logger = logger }
}

// Load reads and runs the Lua file at path.
func Load(path string, opts ...Option) (*Script, error) {
	src, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.In("lua").With("script", path).Hint("failed to read script").Wrap(err)
	}
	return LoadString(filepath.Base(path), string(src), opts...)
}

// LoadString runs src, collecting the events it registers.
func LoadString(name, src string, opts ...Option) (*Script, error) {
	s := &Script{
		name:   name,
		logger: slog.Default(),
		seen:   make(map[string]bool),
		actors: make(map[*world.Actor]*lua.LUserData),
	}
	for _, opt := range opts {
		opt(s)
	}

	L, err := newState()
	if err != nil {
		return nil, oops.In("lua").With("script", name).Hint("failed to create state").Wrap(err)
	}
	s.L = L
	s.registerActorType()
	s.w = s.newWorldTable()
	L.SetGlobal("event", L.NewFunction(s.defineEvent))
	L.SetGlobal("log", L.NewFunction(s.log))

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, oops.In("lua").With("script", name).Hint("script failed to load").Wrap(s.takeError(err))
	}
	return s, nil
}

// newState creates a Lua state with only the base, table, string and math
// libraries.
func newState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.Wrapf(err, "opening library %s", lib.name)
		}
	}
	for _, fn := range blockedGlobals {
		L.SetGlobal(fn, lua.LNil)
	}
	if math, ok := L.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		math.RawSetString("random", lua.LNil)
		math.RawSetString("randomseed", lua.LNil)
	}
	return L, nil
}

// Name returns the script's file name.
func (s *Script) Name() string { return s.name }

// Definitions returns the registered events in registration order.
func (s *Script) Definitions() []sim.Definition {
	out := make([]sim.Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Close releases the Lua state. Definitions must not be run afterwards.
func (s *Script) Close() {
	if s.L != nil {
		s.L.Close()
	}
}

// defineEvent implements event{...}.
func (s *Script) defineEvent(L *lua.LState) int {
	spec := L.CheckTable(1)

	name, ok := spec.RawGetString("name").(lua.LString)
	if !ok || name == "" {
		return s.raise(L, malformed("", "event needs a name"))
	}
	if s.seen[string(name)] {
		return s.raise(L, oops.Code(world.CodeDuplicateName).
			With("event", string(name)).
			Wrapf(world.ErrDuplicateName, "event %q is defined twice", string(name)))
	}

	action, ok := spec.RawGetString("action").(*lua.LFunction)
	if !ok || action.IsG {
		return s.raise(L, malformed(string(name), "action must be a Lua function"))
	}
	filter, ok := spec.RawGetString("filter").(*lua.LFunction)
	if !ok || filter.IsG {
		return s.raise(L, malformed(string(name), "filter must be a Lua function"))
	}
	if action.Proto.IsVarArg != 0 || filter.Proto.IsVarArg != 0 {
		return s.raise(L, malformed(string(name), "filter and action cannot be variadic"))
	}
	arity := int(action.Proto.NumParameters) - 1
	if got := int(filter.Proto.NumParameters) - 1; got != arity {
		return s.raise(L, malformed(string(name), "filter takes %d actors but action takes %d", got, arity))
	}

	tags, err := stringList(spec.RawGetString("match"))
	if err != nil {
		return s.raise(L, malformed(string(name), "match: %v", err))
	}
	narrative, err := templates(spec.RawGetString("narrative"))
	if err != nil {
		return s.raise(L, malformed(string(name), "narrative: %v", err))
	}

	def := sim.Definition{
		Name:      string(name),
		Tags:      tags,
		Filter:    s.filterFunc(string(name), filter),
		Action:    s.actionFunc(string(name), action),
		Narrative: narrative,
	}
	if len(tags) == 0 {
		def.Arity = arity
	} else if len(tags) != arity {
		return s.raise(L, malformed(string(name), "match lists %d tags but action takes %d actors", len(tags), arity))
	}
	if err := def.Validate(); err != nil {
		return s.raise(L, err)
	}

	s.seen[def.Name] = true
	s.defs = append(s.defs, def)
	return 0
}

func malformed(event, format string, args ...any) error {
	return oops.Code(sim.CodeMalformedEvent).
		With("event", event).
		Wrapf(sim.ErrMalformedEvent, format, args...)
}

func (s *Script) filterFunc(name string, fn *lua.LFunction) sim.FilterFunc {
	return func(v sim.View, actors []*world.Actor) bool {
		defer s.enter(frame{view: v})()
		if err := s.call(fn, 1, actors); err != nil {
			s.logger.Warn("event filter failed", "event", name, "error", err)
			return false
		}
		ret := s.L.Get(-1)
		s.L.Pop(1)
		return lua.LVAsBool(ret)
	}
}

func (s *Script) actionFunc(name string, fn *lua.LFunction) sim.ActionFunc {
	return func(scene *sim.Scene, actors []*world.Actor) error {
		defer s.enter(frame{view: scene, scene: scene})()
		if err := s.call(fn, 0, actors); err != nil {
			return oops.In("lua").With("event", name).Wrap(err)
		}
		return nil
	}
}

// enter makes f the current frame and returns a function restoring the
// previous one. Frames nest when an action triggers another event.
func (s *Script) enter(f frame) func() {
	prev := s.frame
	s.frame = f
	return func() { s.frame = prev }
}

func (s *Script) call(fn *lua.LFunction, nret int, actors []*world.Actor) error {
	s.pending = nil
	args := make([]lua.LValue, 0, len(actors)+1)
	args = append(args, s.w)
	for _, a := range actors {
		args = append(args, s.actorValue(a))
	}
	err := s.L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...)
	if err != nil {
		return s.takeError(err)
	}
	return nil
}

// raise records err and raises it as a Lua error.
func (s *Script) raise(L *lua.LState, err error) int {
	s.pending = err
	L.RaiseError("%s", err.Error())
	return 0
}

// takeError returns the Go error behind a Lua error when there is one.
func (s *Script) takeError(err error) error {
	if s.pending == nil {
		return err
	}
	pending := s.pending
	s.pending = nil
	return oops.With("lua", err.Error()).Wrap(pending)
}

func (s *Script) log(L *lua.LState) int {
	level := L.CheckString(1)
	message := L.CheckString(2)
	logger := s.logger.With("script", s.name)
	switch level {
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error":
		logger.Error(message)
	default:
		logger.Info(message)
	}
	return 0
}

func stringList(v lua.LValue) ([]string, error) {
	switch t := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LString:
		return []string{string(t)}, nil
	case *lua.LTable:
		out := make([]string, 0, t.Len())
		for i := 1; i <= t.Len(); i++ {
			str, ok := t.RawGetInt(i).(lua.LString)
			if !ok {
				return nil, oops.Errorf("entry %d is a %s, want string", i, t.RawGetInt(i).Type())
			}
			out = append(out, string(str))
		}
		return out, nil
	default:
		return nil, oops.Errorf("got %s, want a list of strings", v.Type())
	}
}

// templates reads a narrative: a string, a list of strings, or a table of
// named lists.
func templates(v lua.LValue) (narrate.Templates, error) {
	t, ok := v.(*lua.LTable)
	if ok && t.Len() > 0 && hasStringKeys(t) {
		return narrate.Templates{}, oops.Errorf("narrative mixes lines and groups")
	}
	if !ok || t.Len() > 0 {
		lines, err := stringList(v)
		if err != nil {
			return narrate.Templates{}, err
		}
		return narrate.Flat(lines...), nil
	}

	groups := make(map[string][]string)
	var err error
	t.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			err = oops.Errorf("group key %s is not a string", k.String())
			return
		}
		lines, listErr := stringList(v)
		if listErr != nil {
			err = oops.Wrapf(listErr, "group %s", string(key))
			return
		}
		groups[string(key)] = lines
	})
	if err != nil {
		return narrate.Templates{}, err
	}
	return narrate.Grouped(groups), nil
}

func hasStringKeys(t *lua.LTable) bool {
	found := false
	t.ForEach(func(k, _ lua.LValue) {
		if _, ok := k.(lua.LString); ok {
			found = true
		}
	})
	return found
}
