package errutil

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
)

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := oops.Code("CHAIN_TOO_DEEP").With("event", "Notice").Errorf("event chain exceeds depth 64")
	LogError(logger, "run failed", err)
	out := buf.String()
	assert.Contains(t, out, "code=CHAIN_TOO_DEEP")
	assert.Contains(t, out, "event chain exceeds depth 64")
	assert.Contains(t, out, "Notice")

	buf.Reset()
	LogError(logger, "run failed", errors.New("plain"))
	assert.Contains(t, buf.String(), "error=plain")
	assert.NotContains(t, buf.String(), "code=")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "", Code(errors.New("plain")))
	assert.Equal(t, "READ_ONLY", Code(oops.Code("READ_ONLY").Errorf("nope")))
}
