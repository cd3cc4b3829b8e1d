package analytics

import (
	"encoding/json"
	"fmt"

	"biochat/internal/chat"
	"biochat/internal/session"
)

// UsageStats aggregates token usage and conversation-limit pressure
// across stored sessions.
type UsageStats struct {
	Sessions          int                      `json:"sessions"`
	Messages          int                      `json:"messages"`
	UserMessages      int                      `json:"user_messages"`
	AssistantMessages int                      `json:"assistant_messages"`
	PromptTokens      int                      `json:"prompt_tokens"`
	CompletionTokens  int                      `json:"completion_tokens"`
	TotalTokens       int                      `json:"total_tokens"`
	ByLimitStatus     map[chat.LimitStatus]int `json:"by_limit_status"`
	PerSession        []SessionUsage           `json:"per_session"`
}

// SessionUsage is the per-session slice of the aggregate.
type SessionUsage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Messages    int    `json:"messages"`
	TotalTokens int    `json:"total_tokens"`
}

// Summarize walks the stored sessions and tallies message and token
// counts. Only assistant messages carry metadata.
func Summarize(sessions []session.Session) *UsageStats {
	stats := &UsageStats{
		Sessions:      len(sessions),
		ByLimitStatus: make(map[chat.LimitStatus]int),
	}
	for _, s := range sessions {
		su := SessionUsage{ID: s.ID, Title: s.Title, Messages: len(s.Messages)}
		for _, m := range s.Messages {
			stats.Messages++
			switch m.Role {
			case chat.RoleUser:
				stats.UserMessages++
			case chat.RoleAssistant:
				stats.AssistantMessages++
			}
			if m.Metadata == nil {
				continue
			}
			stats.PromptTokens += m.Metadata.PromptTokens
			stats.CompletionTokens += m.Metadata.CompletionTokens
			stats.TotalTokens += m.Metadata.TotalTokens
			su.TotalTokens += m.Metadata.TotalTokens
			if m.Metadata.LimitStatus != "" {
				stats.ByLimitStatus[m.Metadata.LimitStatus]++
			}
		}
		stats.PerSession = append(stats.PerSession, su)
	}
	return stats
}

// ReportSummary renders a plain text report for the REPL.
func (s *UsageStats) ReportSummary() string {
	out := fmt.Sprintf(`Usage across %d stored sessions:

- Messages: %d (%d user, %d assistant)
- Tokens: %d total (%d prompt, %d completion)
`, s.Sessions, s.Messages, s.UserMessages, s.AssistantMessages,
		s.TotalTokens, s.PromptTokens, s.CompletionTokens)

	if len(s.ByLimitStatus) > 0 {
		out += "\nConversation limit statuses:\n"
		for _, status := range []chat.LimitStatus{chat.LimitOK, chat.LimitWarning, chat.LimitCritical, chat.LimitExceeded} {
			if n := s.ByLimitStatus[status]; n > 0 {
				out += fmt.Sprintf("- %s: %d\n", status, n)
			}
		}
	}

	if len(s.PerSession) > 0 {
		out += "\nPer session:\n"
		for _, su := range s.PerSession {
			out += fmt.Sprintf("- %s: %d messages, %d tokens\n", su.Title, su.Messages, su.TotalTokens)
		}
	}
	return out
}

// ToJSON serializes the stats for detailed inspection.
func (s *UsageStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
