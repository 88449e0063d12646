package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsMonotonic(t *testing.T) {
	prev := NewID()
	for range 100 {
		next := NewID()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestPrepare(t *testing.T) {
	tr := &Transcript{Scenario: "ball"}
	require.NoError(t, Prepare(tr))
	_, err := ParseID(tr.ID)
	require.NoError(t, err)
	assert.False(t, tr.CreatedAt.IsZero())
	assert.NotNil(t, tr.Lines)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	kept := &Transcript{ID: tr.ID, CreatedAt: at}
	require.NoError(t, Prepare(kept))
	assert.Equal(t, tr.ID, kept.ID)
	assert.Equal(t, at, kept.CreatedAt)

	assert.Error(t, Prepare(&Transcript{ID: "not-a-ulid"}))
}

func TestSummaryAndLimit(t *testing.T) {
	tr := &Transcript{ID: "x", Scenario: "ball", Ticks: 3, Lines: []string{"a", "b"}}
	s := tr.Summary()
	assert.Equal(t, 2, s.Lines)
	assert.Equal(t, 3, s.Ticks)

	assert.Equal(t, 50, ListLimit(0))
	assert.Equal(t, 5, ListLimit(5))
}
