package store

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewID returns a new transcript id. Ids sort by creation time.
func NewID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ParseID validates a transcript id.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid transcript id %q: %w", s, err)
	}
	return id, nil
}

// Prepare fills in the id and creation time of a transcript about to be
// saved.
func Prepare(t *Transcript) error {
	if t.ID == "" {
		t.ID = NewID()
	} else if _, err := ParseID(t.ID); err != nil {
		return err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Lines == nil {
		t.Lines = []string{}
	}
	return nil
}

// ListLimit applies the default listing limit.
func ListLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
