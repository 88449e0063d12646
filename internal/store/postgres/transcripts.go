package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"smew/internal/store"
)

func (c *Client) SaveTranscript(ctx context.Context, t *store.Transcript) error {
	if err := store.Prepare(t); err != nil {
		return err
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Seeds are stored bit-for-bit in a signed column.
	_, err = tx.Exec(ctx, `
INSERT INTO transcripts (id, scenario, title, seed, steps, ticks, ended, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, t.ID, t.Scenario, t.Title, int64(t.Seed), t.Steps, t.Ticks, t.Ended, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting transcript %s: %w", t.ID, err)
	}

	rows := make([][]any, len(t.Lines))
	for i, line := range t.Lines {
		rows[i] = []any{t.ID, i, line}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"transcript_lines"},
		[]string{"transcript_id", "idx", "text"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copying transcript lines: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transcript: %w", err)
	}
	return nil
}

func (c *Client) GetTranscript(ctx context.Context, id string) (*store.Transcript, error) {
	var (
		t    store.Transcript
		seed int64
	)
	err := c.pool.QueryRow(ctx, `
SELECT id, scenario, title, seed, steps, ticks, ended, created_at
FROM transcripts WHERE id = $1
`, id).Scan(&t.ID, &t.Scenario, &t.Title, &seed, &t.Steps, &t.Ticks, &t.Ended, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transcript %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting transcript %s: %w", id, err)
	}
	t.Seed = uint64(seed)

	rows, err := c.pool.Query(ctx, `SELECT text FROM transcript_lines WHERE transcript_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("getting transcript lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting transcript lines: %w", err)
	}
	t.Lines = lines
	if t.Lines == nil {
		t.Lines = []string{}
	}
	return &t, nil
}

func (c *Client) ListTranscripts(ctx context.Context, scenario string, limit int) ([]store.TranscriptSummary, error) {
	rows, err := c.pool.Query(ctx, `
SELECT t.id, t.scenario, t.title, t.seed, t.ticks, t.ended, t.created_at,
    (SELECT COUNT(*) FROM transcript_lines l WHERE l.transcript_id = t.id)
FROM transcripts t
WHERE ($1 = '' OR t.scenario = $1)
ORDER BY t.id DESC
LIMIT $2
`, scenario, store.ListLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing transcripts: %w", err)
	}
	defer rows.Close()

	results := []store.TranscriptSummary{}
	for rows.Next() {
		var (
			s    store.TranscriptSummary
			seed int64
		)
		if err := rows.Scan(&s.ID, &s.Scenario, &s.Title, &seed, &s.Ticks, &s.Ended, &s.CreatedAt, &s.Lines); err != nil {
			return nil, fmt.Errorf("scanning transcript: %w", err)
		}
		s.Seed = uint64(seed)
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcripts: %w", err)
	}
	return results, nil
}
