package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smew/internal/world"
)

func always(View, []*world.Actor) bool { return true }

func noop(*Scene, []*world.Actor) error { return nil }

func population(t *testing.T, actors ...*world.Actor) *world.ActorStore {
	t.Helper()
	store := world.NewActorStore()
	for _, a := range actors {
		require.NoError(t, store.Add(a))
	}
	return store
}

func tagged(tag string, n int) []*world.Actor {
	out := make([]*world.Actor, n)
	for i := range out {
		out[i] = world.NewActor(fmt.Sprintf("%s-%d", tag, i), tag)
	}
	return out
}

func tupleNames(tuples [][]*world.Actor) []string {
	out := make([]string, 0, len(tuples))
	for _, tuple := range tuples {
		s := ""
		for i, a := range tuple {
			if i > 0 {
				s += ","
			}
			s += a.Name()
		}
		out = append(out, s)
	}
	return out
}

func TestCandidatesTagged(t *testing.T) {
	tests := []struct {
		name   string
		tags   []string
		people int
		rooms  int
		want   int
	}{
		{name: "single slot", tags: []string{"character"}, people: 4, rooms: 3, want: 4},
		{name: "distinct tags multiply", tags: []string{"character", "room"}, people: 4, rooms: 3, want: 12},
		{name: "same tag twice excludes repeats", tags: []string{"character", "character"}, people: 4, rooms: 3, want: 4 * 3},
		{name: "three slots", tags: []string{"character", "character", "room"}, people: 3, rooms: 2, want: 3 * 2 * 2},
		{name: "missing tag yields nothing", tags: []string{"character", "bed"}, people: 3, rooms: 2, want: 0},
		{name: "more slots than actors", tags: []string{"room", "room", "room"}, people: 1, rooms: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actors := append(tagged("character", tt.people), tagged("room", tt.rooms)...)
			def := &Definition{Name: "E", Tags: tt.tags, Filter: always, Action: noop}
			got := Candidates(def, population(t, actors...))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestCandidatesTaggedOverlap(t *testing.T) {
	// William is both a person and a sheriff; he may not fill two slots at once.
	hank := world.NewActor("Hank", "person")
	william := world.NewActor("William", "person", "sheriff")
	def := &Definition{Name: "Steal", Tags: []string{"person", "sheriff"}, Filter: always, Action: noop}

	got := Candidates(def, population(t, hank, william))
	assert.Equal(t, []string{"Hank,William"}, tupleNames(got))
}

func TestCandidatesPermutations(t *testing.T) {
	perm := func(n, k int) int {
		out := 1
		for i := 0; i < k; i++ {
			out *= n - i
		}
		return out
	}

	for _, tc := range []struct{ n, k int }{{1, 1}, {3, 1}, {3, 2}, {4, 3}, {5, 2}, {2, 3}} {
		t.Run(fmt.Sprintf("P(%d,%d)", tc.n, tc.k), func(t *testing.T) {
			actors := make([]*world.Actor, tc.n)
			for i := range actors {
				actors[i] = world.NewActor(fmt.Sprintf("a%d", i), fmt.Sprintf("tag%d", i%2))
			}
			def := &Definition{Name: "E", Arity: tc.k, Filter: always, Action: noop}
			want := 0
			if tc.k <= tc.n {
				want = perm(tc.n, tc.k)
			}
			assert.Len(t, Candidates(def, population(t, actors...)), want)
		})
	}
}

func TestCandidatesOrder(t *testing.T) {
	a := world.NewActor("a", "x")
	b := world.NewActor("b", "y")
	c := world.NewActor("c", "x")

	t.Run("permutations follow population order", func(t *testing.T) {
		def := &Definition{Name: "E", Arity: 2, Filter: always, Action: noop}
		got := Candidates(def, population(t, a, b, c))
		assert.Equal(t, []string{"a,b", "a,c", "b,a", "b,c", "c,a", "c,b"}, tupleNames(got))
	})

	t.Run("tagged slots keep declared order", func(t *testing.T) {
		def := &Definition{Name: "E", Tags: []string{"y", "x"}, Filter: always, Action: noop}
		got := Candidates(def, population(t, a, b, c))
		assert.Equal(t, []string{"b,a", "b,c"}, tupleNames(got))
	})
}

func TestCandidatesAreIndependentSlices(t *testing.T) {
	def := &Definition{Name: "E", Arity: 1, Filter: always, Action: noop}
	got := Candidates(def, population(t, tagged("p", 3)...))
	require.Len(t, got, 3)
	assert.NotSame(t, got[0][0], got[1][0])
}
