package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// PostgreSQL runs a multi-statement simple query in one implicit
	// transaction, and every statement is IF NOT EXISTS.
	ddl := `
CREATE TABLE IF NOT EXISTS transcripts (
    id         TEXT PRIMARY KEY,
    scenario   TEXT NOT NULL,
    title      TEXT NOT NULL DEFAULT '',
    seed       BIGINT NOT NULL,
    steps      INTEGER NOT NULL,
    ticks      INTEGER NOT NULL,
    ended      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS transcript_lines (
    transcript_id TEXT NOT NULL REFERENCES transcripts(id) ON DELETE CASCADE,
    idx           INTEGER NOT NULL,
    text          TEXT NOT NULL,
    search_vector TSVECTOR GENERATED ALWAYS AS (to_tsvector('english', text)) STORED,
    PRIMARY KEY (transcript_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_transcripts_scenario ON transcripts (scenario);
CREATE INDEX IF NOT EXISTS idx_transcript_lines_search ON transcript_lines USING GIN (search_vector);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
