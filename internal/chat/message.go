package chat

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// LimitStatus is the backend's assessment of how close the conversation
// is to its context limit.
type LimitStatus string

const (
	LimitOK       LimitStatus = "ok"
	LimitWarning  LimitStatus = "warning"
	LimitCritical LimitStatus = "critical"
	LimitExceeded LimitStatus = "exceeded"
)

// ValidLimitStatus reports whether s is one of the known statuses.
func ValidLimitStatus(s LimitStatus) bool {
	switch s {
	case LimitOK, LimitWarning, LimitCritical, LimitExceeded:
		return true
	}
	return false
}

// AttachedFile describes a file that was sent with a message. Only the
// descriptor is retained in conversation state; the bytes are not kept
// after the send completes.
type AttachedFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// Metadata carries backend-supplied counters for assistant messages.
type Metadata struct {
	PromptTokens     int         `json:"promptTokens"`
	CompletionTokens int         `json:"completionTokens"`
	TotalTokens      int         `json:"totalTokens"`
	LimitStatus      LimitStatus `json:"limitStatus,omitempty"`
}

// Message is a single conversation turn half. Messages within a session
// are stored in insertion order and never reordered after append.
// Timestamps serialize as RFC 3339 strings and re-hydrate to time.Time.
type Message struct {
	ID            string         `json:"id"`
	Role          Role           `json:"role"`
	Content       string         `json:"content"`
	Timestamp     time.Time      `json:"timestamp"`
	AttachedFiles []AttachedFile `json:"attachedFiles,omitempty"`
	Metadata      *Metadata      `json:"metadata,omitempty"`
}
