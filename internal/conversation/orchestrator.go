// Package conversation owns the state of the active conversation: the
// message list, the active session id, the file context window and the
// in-memory session list. It is the single source of truth the UI reads
// from and the only component that drives the dispatcher and the store.
package conversation

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"biochat/internal/chat"
	"biochat/internal/dispatch"
	"biochat/internal/filecontext"
	"biochat/internal/session"
	"biochat/internal/title"
)

var (
	// ErrSendInFlight makes an overlapping SendMessage a no-op: state is
	// untouched and the caller simply waits for the pending turn.
	ErrSendInFlight = errors.New("a send is already in flight")
	// ErrTooManyAttachments rejects multi-file sends up front instead of
	// silently dropping trailing files.
	ErrTooManyAttachments = errors.New("only one file may be attached per message")
)

// Dispatcher performs one turn against the backend. Implementations
// never return transport errors through a panic or a missing reply; the
// Result always carries an assistant message.
type Dispatcher interface {
	Send(ctx context.Context, req dispatch.Request) dispatch.Result
}

type Orchestrator struct {
	mu         sync.Mutex
	dispatcher Dispatcher
	store      session.Store
	files      *filecontext.Tracker
	ids        chat.IDGenerator

	messages  []chat.Message
	sessions  []session.Session
	sessionID string
	loading   bool
}

// New builds an orchestrator and preloads the persisted session list.
// store may be nil, in which case sessions live only in memory.
func New(d Dispatcher, store session.Store, ids chat.IDGenerator) *Orchestrator {
	o := &Orchestrator{
		dispatcher: d,
		store:      store,
		files:      filecontext.NewTracker(),
		ids:        ids,
	}
	if store != nil {
		sessions, err := store.LoadAll()
		if err != nil {
			log.Printf("failed to load sessions: %v", err)
		} else {
			o.sessions = sessions
		}
	}
	return o
}

// SendMessage runs one turn: the user message is appended immediately
// and never rolled back; the assistant half is appended on completion,
// apology included on failure, so a user turn is never left unpaired.
// The session is persisted only after a successful turn.
func (o *Orchestrator) SendMessage(ctx context.Context, content string, files []dispatch.Attachment) error {
	if len(files) > 1 {
		return ErrTooManyAttachments
	}

	o.mu.Lock()
	if o.loading {
		o.mu.Unlock()
		return ErrSendInFlight
	}
	o.loading = true

	history := copyMessages(o.messages)

	userMsg := chat.Message{
		ID:        o.ids.NewID(),
		Role:      chat.RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
	var file *dispatch.Attachment
	if len(files) == 1 {
		f := files[0]
		file = &f
		userMsg.AttachedFiles = []chat.AttachedFile{{Name: f.Name, Size: int64(len(f.Data)), MimeType: f.MimeType}}
	}
	o.messages = append(o.messages, userMsg)

	req := dispatch.Request{
		Message:        content,
		ConversationID: o.sessionID,
		History:        history,
		File:           file,
		FileContext:    o.files.Snapshot(),
	}
	o.mu.Unlock()

	res := o.dispatcher.Send(ctx, req)

	o.mu.Lock()
	o.messages = append(o.messages, res.Reply)
	if res.Err == nil {
		o.sessionID = res.ConversationID
		if res.FileContext != nil {
			o.files.Add(*res.FileContext)
		}
		o.persistActiveLocked()
	}
	o.loading = false
	o.mu.Unlock()
	return nil
}

// NewChat clears the active conversation. Persisted sessions are kept.
func (o *Orchestrator) NewChat() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = nil
	o.sessionID = ""
	o.files.Reset()
}

// SwitchToSession replaces the active conversation with a stored one and
// promotes it to the front of the session list without duplicating it.
func (o *Orchestrator) SwitchToSession(s session.Session) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = copyMessages(s.Messages)
	o.sessionID = s.ID
	o.files.Restore(s.FileContext)
	o.promoteLocked(s)
}

// LoadSession re-reads a session from the store by id. A missing id is
// not fatal: the active conversation resets to empty.
func (o *Orchestrator) LoadSession(id string) {
	var found *session.Session
	if o.store != nil {
		sessions, err := o.store.LoadAll()
		if err != nil {
			log.Printf("failed to load sessions: %v", err)
		} else {
			for i := range sessions {
				if sessions[i].ID == id {
					found = &sessions[i]
					break
				}
			}
		}
	}
	if found == nil {
		o.NewChat()
		return
	}
	o.SwitchToSession(*found)
}

func (o *Orchestrator) Messages() []chat.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyMessages(o.messages)
}

func (o *Orchestrator) Sessions() []session.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]session.Session, len(o.sessions))
	copy(out, o.sessions)
	return out
}

func (o *Orchestrator) IsLoading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

func (o *Orchestrator) SessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessionID
}

func (o *Orchestrator) FileContexts() []filecontext.FileContext {
	return o.files.Snapshot()
}

// persistActiveLocked snapshots the active conversation into the store
// and mirrors the MRU promotion in memory. The whole session object
// replaces the prior entry; there is no partial write.
func (o *Orchestrator) persistActiveLocked() {
	snapshot := session.Session{
		ID:          o.sessionID,
		Title:       o.activeTitleLocked(),
		Timestamp:   time.Now().Format("Jan 2, 2006"),
		Messages:    copyMessages(o.messages),
		FileContext: o.files.Snapshot(),
	}
	if o.store != nil {
		if err := o.store.Upsert(snapshot); err != nil {
			log.Printf("failed to persist session %s: %v", snapshot.ID, err)
		}
	}
	o.promoteLocked(snapshot)
}

// activeTitleLocked reuses the stored title for a known session and
// derives one from the first user message otherwise.
func (o *Orchestrator) activeTitleLocked() string {
	for _, s := range o.sessions {
		if s.ID == o.sessionID {
			return s.Title
		}
	}
	for _, m := range o.messages {
		if m.Role == chat.RoleUser {
			return title.Generate(m.Content)
		}
	}
	return "New Conversation"
}

func (o *Orchestrator) promoteLocked(s session.Session) {
	out := make([]session.Session, 0, len(o.sessions)+1)
	out = append(out, s)
	for _, existing := range o.sessions {
		if existing.ID == s.ID {
			continue
		}
		out = append(out, existing)
	}
	if len(out) > session.MaxStored {
		out = out[:session.MaxStored]
	}
	o.sessions = out
}

func copyMessages(msgs []chat.Message) []chat.Message {
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}
