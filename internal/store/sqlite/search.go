package sqlite

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

	// bm25 is lower for better matches; negate it so higher scores rank first.
	rows, err := c.db.QueryContext(ctx, `
	SELECT l.transcript_id, t.scenario, l.idx, l.text,
	       -bm25(lines_fts) AS score,
	       snippet(lines_fts, 0, '**', '**', '...', 20) AS snippet
	FROM lines_fts
	JOIN transcript_lines l ON lines_fts.rowid = l.id
	JOIN transcripts t ON t.id = l.transcript_id
	WHERE lines_fts MATCH ?
	  AND (? = '' OR t.scenario = ?)
	ORDER BY score DESC, l.transcript_id DESC, l.idx ASC
	LIMIT 50
	`, convertWebsearchToFTS5(query), scenario, scenario)
	if err != nil {
		return nil, fmt.Errorf("searching transcripts: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.TranscriptID, &r.Scenario, &r.Line, &r.Text, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}

// convertWebsearchToFTS5 translates websearch-style queries (implicit AND,
// quoted phrases, -term, OR) into FTS5 syntax.
func convertWebsearchToFTS5(query string) string {
	var result strings.Builder
	var current strings.Builder
	inQuote := false

	isOperator := func(word string) bool {
		return word == "AND" || word == "OR" || word == "NOT"
	}
	join := func() {
		if result.Len() == 0 {
			return
		}
		if last := lastWord(result.String()); isOperator(last) {
			result.WriteString(" ")
		} else {
			result.WriteString(" AND ")
		}
	}

	flushToken := func() {
		token := current.String()
		current.Reset()
		if token == "" {
			return
		}
		if upper := strings.ToUpper(token); isOperator(upper) {
			if result.Len() > 0 {
				result.WriteString(" ")
			}
			result.WriteString(upper)
			return
		}
		// FTS5 NOT is binary, so a negated term attaches to what precedes it
		// and is dropped when nothing does.
		if strings.HasPrefix(token, "-") && len(token) > 1 {
			if result.Len() > 0 {
				result.WriteString(" NOT " + token[1:])
			}
			return
		}
		join()
		result.WriteString(token)
	}

	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '"':
			if !inQuote {
				flushToken()
				inQuote = true
				continue
			}
			inQuote = false
			phrase := current.String()
			current.Reset()
			if phrase != "" {
				join()
				result.WriteString(`"` + phrase + `"`)
			}
		case inQuote:
			current.WriteByte(ch)
		case ch == ' ' || ch == '\t':
			flushToken()
		default:
			current.WriteByte(ch)
		}
	}
	flushToken()

	return result.String()
}

func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}
