package filecontext

import (
	"strings"
	"sync"
	"time"
)

// MaxEntries is the size of the rolling window of file contexts carried
// across turns. Older entries are evicted oldest-first.
const MaxEntries = 3

const (
	maxContentBytes = 8 * 1024
	maxSummaryRunes = 200
)

// FileContext is the summarized memory of a previously analyzed file.
type FileContext struct {
	Filename  string    `json:"filename"`
	FileType  string    `json:"fileType"`
	Size      int64     `json:"size"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content,omitempty"`
	Summary   string    `json:"summary"`
}

// Tracker holds the bounded window for the active conversation.
type Tracker struct {
	mu      sync.Mutex
	entries []FileContext
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Add appends a file context, bounding its content and deriving a
// summary when none is supplied, then evicts beyond MaxEntries.
func (t *Tracker) Add(fc FileContext) {
	if len(fc.Content) > maxContentBytes {
		fc.Content = fc.Content[:maxContentBytes]
	}
	if fc.Summary == "" {
		fc.Summary = deriveSummary(fc.Content)
	}
	if r := []rune(fc.Summary); len(r) > maxSummaryRunes {
		fc.Summary = string(r[:maxSummaryRunes])
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, fc)
	if n := len(t.entries); n > MaxEntries {
		t.entries = append([]FileContext(nil), t.entries[n-MaxEntries:]...)
	}
}

// Snapshot returns a copy of the current window, oldest first.
func (t *Tracker) Snapshot() []FileContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]FileContext, len(t.entries))
	copy(out, t.entries)
	return out
}

// Restore replaces the window with a persisted snapshot, applying the
// cap in case the stored data predates the current limit.
func (t *Tracker) Restore(entries []FileContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(entries); n > MaxEntries {
		entries = entries[n-MaxEntries:]
	}
	t.entries = append([]FileContext(nil), entries...)
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func deriveSummary(content string) string {
	s := strings.TrimSpace(content)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if r := []rune(s); len(r) > maxSummaryRunes {
		s = string(r[:maxSummaryRunes])
	}
	return s
}
