package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator mints unique identifiers for messages and session id
// suffixes. Injected so tests can supply deterministic ids.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production generator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// NewSessionID builds a session identifier from a time component plus a
// short random suffix taken from the generator. Uniqueness among stored
// sessions follows from the suffix even when two sessions are created
// within the same millisecond.
func NewSessionID(now time.Time, ids IDGenerator) string {
	suffix := strings.ReplaceAll(ids.NewID(), "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}
