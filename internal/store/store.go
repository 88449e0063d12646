// Package store persists run transcripts: the narration a model produced
// together with the scenario, seed and outcome that produced it.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a transcript id is unknown.
var ErrNotFound = errors.New("transcript not found")

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	// SaveTranscript stores t, assigning an id and creation time when unset.
	SaveTranscript(ctx context.Context, t *Transcript) error
	GetTranscript(ctx context.Context, id string) (*Transcript, error)
	// ListTranscripts returns the newest transcripts first, optionally for a
	// single scenario. A limit of zero or less means the default of 50.
	ListTranscripts(ctx context.Context, scenario string, limit int) ([]TranscriptSummary, error)
	// Search matches narration lines using websearch syntax.
	Search(ctx context.Context, query, scenario string) ([]SearchResult, error)
}
