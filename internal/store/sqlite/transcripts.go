package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smew/internal/store"
)

func (c *Client) SaveTranscript(ctx context.Context, t *store.Transcript) error {
	if err := store.Prepare(t); err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Seeds are stored bit-for-bit in a signed column.
	_, err = tx.ExecContext(ctx, `
	INSERT INTO transcripts (id, scenario, title, seed, steps, ticks, ended, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Scenario, t.Title, int64(t.Seed), t.Steps, t.Ticks, t.Ended, t.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting transcript %s: %w", t.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transcript_lines (transcript_id, idx, text) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing line insert: %w", err)
	}
	defer stmt.Close()
	for i, line := range t.Lines {
		if _, err := stmt.ExecContext(ctx, t.ID, i, line); err != nil {
			return fmt.Errorf("inserting line %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transcript: %w", err)
	}
	return nil
}

func (c *Client) GetTranscript(ctx context.Context, id string) (*store.Transcript, error) {
	var (
		t       store.Transcript
		seed    int64
		created string
	)
	err := c.db.QueryRowContext(ctx, `
	SELECT id, scenario, title, seed, steps, ticks, ended, created_at
	FROM transcripts WHERE id = ?
	`, id).Scan(&t.ID, &t.Scenario, &t.Title, &seed, &t.Steps, &t.Ticks, &t.Ended, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transcript %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting transcript %s: %w", id, err)
	}
	t.Seed = uint64(seed)
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT text FROM transcript_lines WHERE transcript_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("getting transcript lines: %w", err)
	}
	defer rows.Close()

	t.Lines = []string{}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		t.Lines = append(t.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lines: %w", err)
	}
	return &t, nil
}

func (c *Client) ListTranscripts(ctx context.Context, scenario string, limit int) ([]store.TranscriptSummary, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT t.id, t.scenario, t.title, t.seed, t.ticks, t.ended, t.created_at,
	       (SELECT COUNT(*) FROM transcript_lines l WHERE l.transcript_id = t.id)
	FROM transcripts t
	WHERE (? = '' OR t.scenario = ?)
	ORDER BY t.id DESC
	LIMIT ?
	`, scenario, scenario, store.ListLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing transcripts: %w", err)
	}
	defer rows.Close()

	results := []store.TranscriptSummary{}
	for rows.Next() {
		var (
			s       store.TranscriptSummary
			seed    int64
			created string
		)
		if err := rows.Scan(&s.ID, &s.Scenario, &s.Title, &seed, &s.Ticks, &s.Ended, &created, &s.Lines); err != nil {
			return nil, fmt.Errorf("scanning transcript: %w", err)
		}
		s.Seed = uint64(seed)
		if s.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcripts: %w", err)
	}
	return results, nil
}
