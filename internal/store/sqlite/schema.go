package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS transcripts (
	id         TEXT PRIMARY KEY,
	scenario   TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	seed       INTEGER NOT NULL,
	steps      INTEGER NOT NULL,
	ticks      INTEGER NOT NULL,
	ended      INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transcript_lines (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	transcript_id TEXT NOT NULL REFERENCES transcripts(id) ON DELETE CASCADE,
	idx           INTEGER NOT NULL,
	text          TEXT NOT NULL,
	CONSTRAINT uq_transcript_line UNIQUE (transcript_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_transcripts_scenario ON transcripts (scenario);
CREATE INDEX IF NOT EXISTS idx_lines_transcript ON transcript_lines (transcript_id);

CREATE VIRTUAL TABLE IF NOT EXISTS lines_fts USING fts5(
	text,
	content=transcript_lines,
	content_rowid=id
);

CREATE TRIGGER IF NOT EXISTS transcript_lines_ai AFTER INSERT ON transcript_lines BEGIN
	INSERT INTO lines_fts(rowid, text) VALUES (new.id, new.text);
END;

CREATE TRIGGER IF NOT EXISTS transcript_lines_ad AFTER DELETE ON transcript_lines BEGIN
	INSERT INTO lines_fts(lines_fts, rowid, text) VALUES ('delete', old.id, old.text);
END;
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

// splitStatements splits DDL on lines ending in a semicolon. Trigger bodies
// contain inner semicolons, so a statement opened with BEGIN runs until END;.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inBlock := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, "BEGIN") {
			inBlock = true
		}
		if inBlock {
			if stripped == "END;" {
				inBlock = false
				statements = append(statements, current.String())
				current.Reset()
			}
			continue
		}
		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}
