package dispatch

import (
	"encoding/json"

	"biochat/internal/chat"
)

// envelope is the backend response. The reply lives in a nested field
// whose shape varies between deployments, so it is kept raw and resolved
// with an explicit precedence instead of ad hoc property probing.
type envelope struct {
	Response     json.RawMessage  `json:"response"`
	FileAnalysis *fileAnalysis    `json:"fileAnalysis"`
	Metadata     *metadataPayload `json:"metadata"`
}

type fileAnalysis struct {
	Summary         string `json:"summary"`
	FileType        string `json:"fileType"`
	DocumentContent string `json:"documentContent"`
	Sequence        string `json:"sequence"`
}

type metadataPayload struct {
	PromptTokens     int    `json:"promptTokens"`
	CompletionTokens int    `json:"completionTokens"`
	TotalTokens      int    `json:"totalTokens"`
	LimitStatus      string `json:"limitStatus"`
}

// replyText resolves the reply with precedence response.content, then
// response.response, then a bare string response. ok is false when no
// variant yields a non-empty string; the caller substitutes the fixed
// fallback so a reply is always a string, never absent.
func (e envelope) replyText() (string, bool) {
	if len(e.Response) == 0 {
		return "", false
	}
	var nested struct {
		Content  json.RawMessage `json:"content"`
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(e.Response, &nested); err == nil {
		if s, ok := asString(nested.Content); ok {
			return s, true
		}
		if s, ok := asString(nested.Response); ok {
			return s, true
		}
	}
	return asString(e.Response)
}

func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func (m *metadataPayload) toDomain() *chat.Metadata {
	if m == nil {
		return nil
	}
	out := &chat.Metadata{
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.CompletionTokens,
		TotalTokens:      m.TotalTokens,
	}
	if s := chat.LimitStatus(m.LimitStatus); chat.ValidLimitStatus(s) {
		out.LimitStatus = s
	}
	return out
}
