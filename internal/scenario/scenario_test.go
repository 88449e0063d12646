package scenario

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smew/internal/narrate"
	"smew/internal/sim"
	"smew/internal/world"
)

func TestLoad(t *testing.T) {
	t.Run("ball loads", func(t *testing.T) {
		sc, err := Load(filepath.Join("testdata", "ball.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "Lady Dunderscore's Ball", sc.Title)
		assert.Equal(t, filepath.Join("testdata", "ball.lua"), sc.ScriptPath())
		require.NotNil(t, sc.Seed)
		assert.Equal(t, uint64(1811), *sc.Seed)
		assert.Len(t, sc.ActorNames(), 13)
		assert.Equal(t, 50, sc.MaxSteps(0))
		assert.Equal(t, 7, sc.MaxSteps(7))
	})

	tests := []struct {
		name     string
		contents string
	}{
		{name: "missing script", contents: "actors:\n  - name: a\n"},
		{name: "no actors", contents: "script: x.lua\n"},
		{name: "actor without name", contents: "script: x.lua\nactors:\n  - tags: [x]\n"},
		{name: "name and names", contents: "script: x.lua\nactors:\n  - name: a\n    names: [b]\n"},
		{name: "duplicate actor", contents: "script: x.lua\nactors:\n  - name: a\n  - names: [b, a]\n"},
		{name: "empty tag", contents: "script: x.lua\nactors:\n  - name: a\n    tags: [\"\"]\n"},
		{name: "negative steps", contents: "script: x.lua\nsteps: -1\nactors:\n  - name: a\n"},
		{name: "relationship without label", contents: "script: x.lua\nactors:\n  - name: a\nrelationships:\n  - subject: a\n    object: a\n"},
		{name: "unknown key", contents: "script: x.lua\nactor:\n  - name: a\n"},
		{name: "empty file", contents: ""},
		{name: "invalid yaml", contents: "script: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, "scenario.yaml", tt.contents))
			assert.Error(t, err)
		})
	}

	t.Run("file not found", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestCast(t *testing.T) {
	sc, err := Parse([]byte(`
script: x.lua
actors:
  - name: Chris
    tags: [person]
    properties: {sleepiness: 0, awake: true, mood: grumpy, height: 1.8}
  - names: [bed, couch]
    tags: [furniture]
`))
	require.NoError(t, err)

	actors, err := sc.Cast()
	require.NoError(t, err)
	require.Len(t, actors, 3)
	chris := actors[0]
	assert.Equal(t, 0, chris.Get("sleepiness").Int())
	assert.True(t, chris.Get("sleepiness").IsSet())
	assert.True(t, chris.Get("awake").Bool())
	assert.Equal(t, "grumpy", chris.Get("mood").Str())
	assert.InDelta(t, 1.8, chris.Get("height").Number(), 1e-9)
	assert.Equal(t, "couch", actors[2].Name())
	assert.True(t, actors[2].HasTag("furniture"))

	again, err := sc.Cast()
	require.NoError(t, err)
	assert.NotSame(t, actors[0], again[0], "each cast is fresh")

	t.Run("nested property", func(t *testing.T) {
		sc, err := Parse([]byte("script: x.lua\nactors:\n  - name: a\n    properties: {pos: {x: 1}}\n"))
		require.NoError(t, err)
		_, err = sc.Cast()
		assert.Error(t, err)
	})
}

func TestBuildBall(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "ball.yaml"))
	require.NoError(t, err)

	run := func() []string {
		rec := &narrate.Recorder{}
		story, err := sc.Build(BuildOptions{Model: []sim.Option{sim.WithSeed(*sc.Seed), sim.WithSink(rec)}})
		require.NoError(t, err)
		defer story.Close()

		assert.Len(t, story.Model.Events(), 9)
		// Before anyone arrives only GetReady and Arrive are possible.
		for _, in := range story.Model.Possible() {
			assert.Contains(t, []string{"GetReady", "Arrive"}, in.Def.Name)
		}

		_, err = story.Model.Generate(sc.MaxSteps(0))
		require.NoError(t, err)
		return rec.Lines()
	}

	first := run()
	assert.GreaterOrEqual(t, len(first), 50)
	assert.Equal(t, first, run())
}

func TestBuildRelationshipsAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "love.lua", `
event {
  name = "Pine",
  match = {"character", "character"},
  filter = function(w, a, b) return w:related(a, "loves", b) end,
  action = function(w, a, b) w:finish() end,
}
event {
  name = "Sulk",
  match = {"character"},
  filter = function(w, a) return true end,
  action = function(w, a) end,
}`)
	path := writeFile(t, dir, "love.yaml", `
script: love.lua
actors:
  - names: [Arabella, Brenden]
    tags: [character]
relationships:
  - {subject: Arabella, label: loves, object: Brenden}
  - {subject: Arabella, label: knows, object: Brenden, reciprocal: true}
`)
	sc, err := Load(path)
	require.NoError(t, err)

	story, err := sc.Build(BuildOptions{})
	require.NoError(t, err)
	defer story.Close()
	assert.Len(t, story.Model.Relationships(), 3)
	assert.Len(t, story.Model.Possible(), 3)

	filter, err := MatchEvents("P*")
	require.NoError(t, err)
	only, err := sc.Build(BuildOptions{Events: filter})
	require.NoError(t, err)
	defer only.Close()
	require.Len(t, only.Model.Events(), 1)
	assert.Equal(t, "Pine", only.Model.Events()[0].Name)

	t.Run("unknown actor in relationship", func(t *testing.T) {
		sc.Relationships = append(sc.Relationships, RelationshipSpec{Subject: "Arabella", Label: "loves", Object: "Nobody"})
		_, err := sc.Build(BuildOptions{})
		assert.True(t, errors.Is(err, world.ErrNotFound))
	})

	t.Run("missing script", func(t *testing.T) {
		sc.Script = "gone.lua"
		_, err := sc.Build(BuildOptions{})
		assert.Error(t, err)
	})
}

func TestMatchEvents(t *testing.T) {
	f, err := MatchEvents("Fall*", "Notice")
	require.NoError(t, err)
	assert.True(t, f("FallInLove"))
	assert.True(t, f("Notice"))
	assert.False(t, f("Arrive"))

	_, err = MatchEvents("[")
	assert.Error(t, err)
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaID, doc["$id"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "actors")
	assert.Contains(t, props, "relationships")
	assert.NotContains(t, props, "Dir")
}

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), name, contents)
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestRun(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "ball.yaml"))
	require.NoError(t, err)

	var streamed []string
	res, err := sc.Run(RunOptions{
		Seed:  *sc.Seed,
		Steps: 10,
		Sink:  narrate.SinkFunc(func(line string) { streamed = append(streamed, line) }),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Steps)
	assert.Equal(t, 10, res.Ticks)
	assert.False(t, res.Ended)
	assert.Equal(t, streamed, res.Lines)

	again, err := sc.Run(RunOptions{Seed: *sc.Seed, Steps: 10})
	require.NoError(t, err)
	assert.Equal(t, res.Lines, again.Lines)

	filter, err := MatchEvents("GetReady")
	require.NoError(t, err)
	stuck, err := sc.Run(RunOptions{Seed: 1, Steps: 5, Events: filter})
	require.NoError(t, err)
	assert.Len(t, stuck.Lines, 5, "GetReady never changes state so it stays possible")
}

func TestPickSeed(t *testing.T) {
	one, two := uint64(1), uint64(2)
	assert.Equal(t, one, PickSeed(nil, &one, &two))
	assert.Equal(t, two, PickSeed(&two))
	_ = PickSeed(nil, nil)
}
