package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smew/pkg/errutil"
)

func TestActorStore(t *testing.T) {
	t.Run("add and lookup", func(t *testing.T) {
		s := NewActorStore()
		require.NoError(t, s.Add(NewActor("Arabella", "character")))
		a, err := s.Lookup("Arabella")
		require.NoError(t, err)
		assert.Equal(t, "Arabella", a.Name())
		assert.True(t, s.Has("Arabella"))
	})

	t.Run("duplicate name", func(t *testing.T) {
		s := NewActorStore()
		require.NoError(t, s.Add(NewActor("Arabella", "character")))
		err := s.Add(NewActor("Arabella", "room"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateName))
		errutil.AssertErrorCode(t, err, CodeDuplicateName)
		errutil.AssertErrorContext(t, err, "actor", "Arabella")
		assert.Equal(t, 1, s.Len())
	})

	t.Run("lookup missing", func(t *testing.T) {
		_, err := NewActorStore().Lookup("nobody")
		assert.True(t, errors.Is(err, ErrNotFound))
		errutil.AssertErrorCode(t, err, CodeNotFound)
	})

	t.Run("remove missing", func(t *testing.T) {
		_, err := NewActorStore().Remove("nobody")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("tagged keeps insertion order", func(t *testing.T) {
		s := NewActorStore()
		for _, a := range []*Actor{
			NewActor("Brenden", "character"),
			NewActor("salon", "room"),
			NewActor("Arabella", "character"),
			NewActor("gardens", "room"),
		} {
			require.NoError(t, s.Add(a))
		}
		assert.Equal(t, []string{"Brenden", "Arabella"}, names(s.Tagged("character")))
		assert.Equal(t, []string{"salon", "gardens"}, names(s.Tagged("room")))
		assert.Empty(t, s.Tagged("bed"))

		_, err := s.Remove("Brenden")
		require.NoError(t, err)
		assert.Equal(t, []string{"salon", "Arabella", "gardens"}, names(s.All()))
	})
}

func TestRelationStore(t *testing.T) {
	t.Run("relate is idempotent", func(t *testing.T) {
		s := NewRelationStore()
		s.Relate("a", "loves", "b", false)
		s.Relate("a", "loves", "b", false)
		assert.Equal(t, 1, s.Len())
		assert.True(t, s.Related("a", "loves", "b"))
		assert.False(t, s.Related("b", "loves", "a"))
	})

	t.Run("reciprocal relate and unrelate", func(t *testing.T) {
		s := NewRelationStore()
		s.Relate("a", "loves", "b", true)
		assert.True(t, s.Related("a", "loves", "b"))
		assert.True(t, s.Related("b", "loves", "a"))

		require.NoError(t, s.Unrelate("a", "loves", "b", true))
		assert.Zero(t, s.Len())
	})

	t.Run("unrelate missing triple", func(t *testing.T) {
		s := NewRelationStore()
		err := s.Unrelate("a", "loves", "b", false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRelationshipNotFound))
		errutil.AssertErrorCode(t, err, CodeRelationshipNotFound)
		errutil.AssertErrorContext(t, err, "label", "loves")
	})

	t.Run("reciprocal unrelate is atomic", func(t *testing.T) {
		s := NewRelationStore()
		s.Relate("Carl", "has", "medicine", false)
		err := s.Unrelate("Carl", "has", "medicine", true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRelationshipNotFound))
		assert.True(t, s.Related("Carl", "has", "medicine"), "forward triple must survive a failed reciprocal removal")
	})

	t.Run("asymmetric removal is allowed", func(t *testing.T) {
		s := NewRelationStore()
		s.Relate("a", "loves", "b", true)
		require.NoError(t, s.Unrelate("a", "loves", "b", false))
		assert.False(t, s.Related("a", "loves", "b"))
		assert.True(t, s.Related("b", "loves", "a"))
	})

	t.Run("try unrelate", func(t *testing.T) {
		s := NewRelationStore()
		s.Relate("Carl", "has", "medicine", false)
		assert.True(t, s.TryUnrelate("Carl", "has", "medicine", true))
		assert.False(t, s.TryUnrelate("Carl", "has", "medicine", true))
		assert.Zero(t, s.Len())
	})

	t.Run("queries", func(t *testing.T) {
		s := NewRelationStore()
		s.Relate("a", "loves", "c", false)
		s.Relate("b", "loves", "c", false)
		s.Relate("a", "loves", "d", false)
		s.Relate("a", "hates", "b", false)

		assert.Equal(t, []string{"a", "b"}, s.Subjects("loves", "c"))
		assert.Equal(t, []string{"c", "d"}, s.Objects("a", "loves"))
		assert.Equal(t, []string{"b"}, s.Objects("a", "hates"))
		assert.Empty(t, s.Subjects("loves", "a"))
	})

	t.Run("prune", func(t *testing.T) {
		s := NewRelationStore()
		s.Relate("a", "loves", "b", true)
		s.Relate("c", "hates", "a", false)
		s.Relate("c", "loves", "b", false)
		assert.Equal(t, 3, s.Prune("a"))
		assert.Equal(t, []Relationship{{Subject: "c", Label: "loves", Object: "b"}}, s.All())
		assert.False(t, s.Has(Relationship{Subject: "a", Label: "loves", Object: "b"}))
	})
}

func TestWorldRemoveActor(t *testing.T) {
	setup := func(t *testing.T) *World {
		t.Helper()
		w := New()
		require.NoError(t, w.Actors.Add(NewActor("Timmy", "person")))
		require.NoError(t, w.Actors.Add(NewActor("Carl", "person")))
		w.Relations.Relate("Timmy", "after", "Carl", true)
		w.Relations.Relate("Carl", "has", "medicine", false)
		return w
	}

	t.Run("prune removes every triple naming the actor", func(t *testing.T) {
		w := setup(t)
		_, err := w.RemoveActor("Timmy", true)
		require.NoError(t, err)
		for _, r := range w.Relations.All() {
			assert.False(t, r.Mentions("Timmy"), "dangling triple %s", r)
		}
		assert.Equal(t, 1, w.Relations.Len())
	})

	t.Run("without prune relationships dangle", func(t *testing.T) {
		w := setup(t)
		_, err := w.RemoveActor("Timmy", false)
		require.NoError(t, err)
		assert.True(t, w.Relations.Related("Carl", "after", "Timmy"))
		assert.Empty(t, w.Resolve(w.Relations.Objects("Carl", "after")))
	})

	t.Run("missing actor", func(t *testing.T) {
		w := setup(t)
		_, err := w.RemoveActor("Hank", true)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, 3, w.Relations.Len())
	})
}

func names(actors []*Actor) []string {
	out := make([]string, 0, len(actors))
	for _, a := range actors {
		out = append(out, a.Name())
	}
	return out
}
