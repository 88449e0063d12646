package postgres

import (
	"context"
	"fmt"
	"strings"

	"smew/internal/store"
)

func (c *Client) Search(ctx context.Context, query, scenario string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sql := `
SELECT l.transcript_id, t.scenario, l.idx, l.text,
    ts_rank(l.search_vector, websearch_to_tsquery('english', $1)) AS score,
    ts_headline('english', l.text, websearch_to_tsquery('english', $1),
        'MaxWords=20, MinWords=5, StartSel=**, StopSel=**') AS snippet
FROM transcript_lines l
JOIN transcripts t ON t.id = l.transcript_id
WHERE l.search_vector @@ websearch_to_tsquery('english', $1)
  AND ($2 = '' OR t.scenario = $2)
ORDER BY score DESC, l.transcript_id DESC, l.idx ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query, scenario)
	if err != nil {
		return nil, fmt.Errorf("searching transcripts: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var score float32
		if err := rows.Scan(&r.TranscriptID, &r.Scenario, &r.Line, &r.Text, &score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Score = float64(score)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}
