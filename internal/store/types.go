package store

import "time"

type Transcript struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Title     string    `json:"title,omitempty"`
	Seed      uint64    `json:"seed"`
	Steps     int       `json:"steps"`
	Ticks     int       `json:"ticks"`
	Ended     bool      `json:"ended"`
	Lines     []string  `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

type TranscriptSummary struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Title     string    `json:"title,omitempty"`
	Seed      uint64    `json:"seed"`
	Ticks     int       `json:"ticks"`
	Ended     bool      `json:"ended"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult is one matching narration line.
type SearchResult struct {
	TranscriptID string  `json:"transcript_id"`
	Scenario     string  `json:"scenario"`
	Line         int     `json:"line"`
	Text         string  `json:"text"`
	Score        float64 `json:"score"`
	Snippet      string  `json:"snippet"`
}

// Summary returns the listing view of t.
func (t *Transcript) Summary() TranscriptSummary {
	return TranscriptSummary{
		ID:        t.ID,
		Scenario:  t.Scenario,
		Title:     t.Title,
		Seed:      t.Seed,
		Ticks:     t.Ticks,
		Ended:     t.Ended,
		Lines:     len(t.Lines),
		CreatedAt: t.CreatedAt,
	}
}
