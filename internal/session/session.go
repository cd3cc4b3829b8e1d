package session

import (
	"biochat/internal/chat"
	"biochat/internal/filecontext"
)

// MaxStored caps the durable session list; the oldest entries beyond the
// cap are dropped on upsert.
const MaxStored = 10

// Session is the persisted form of a conversation. Timestamp is a date
// label used for display; ordering in the store is newest-first and is
// maintained positionally by Upsert.
type Session struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Timestamp   string                    `json:"timestamp"`
	Messages    []chat.Message            `json:"messages"`
	FileContext []filecontext.FileContext `json:"fileContext,omitempty"`
}

// Store abstracts durable persistence of sessions.
// LoadAll returns sessions newest-first; corrupt or missing data reads
// as an empty list, never an error the caller must branch on.
// Upsert replaces any entry with the same dedupe key, prepends the new
// session and enforces MaxStored.
type Store interface {
	LoadAll() ([]Session, error)
	Upsert(s Session) error
}

// sameEntry is the dedupe key: primarily the session id; entries without
// an id (legacy rows) fall back to identical message count and title.
func sameEntry(a, b Session) bool {
	if a.ID != "" || b.ID != "" {
		return a.ID == b.ID
	}
	return len(a.Messages) == len(b.Messages) && a.Title == b.Title
}
