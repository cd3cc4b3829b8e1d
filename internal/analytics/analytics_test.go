package analytics

import (
	"strings"
	"testing"

	"biochat/internal/chat"
	"biochat/internal/session"
)

func sampleSessions() []session.Session {
	return []session.Session{
		{
			ID: "s1", Title: "DNA Sequence Analysis",
			Messages: []chat.Message{
				{Role: chat.RoleUser, Content: "q1"},
				{Role: chat.RoleAssistant, Content: "a1",
					Metadata: &chat.Metadata{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, LimitStatus: chat.LimitOK}},
				{Role: chat.RoleUser, Content: "q2"},
				{Role: chat.RoleAssistant, Content: "a2",
					Metadata: &chat.Metadata{PromptTokens: 200, CompletionTokens: 100, TotalTokens: 300, LimitStatus: chat.LimitWarning}},
			},
		},
		{
			ID: "s2", Title: "Python Script",
			Messages: []chat.Message{
				{Role: chat.RoleUser, Content: "q"},
				{Role: chat.RoleAssistant, Content: "a"},
			},
		},
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(sampleSessions())
	if stats.Sessions != 2 || stats.Messages != 6 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.UserMessages != 3 || stats.AssistantMessages != 3 {
		t.Fatalf("role counts wrong: %+v", stats)
	}
	if stats.PromptTokens != 300 || stats.CompletionTokens != 150 || stats.TotalTokens != 450 {
		t.Fatalf("token totals wrong: %+v", stats)
	}
	if stats.ByLimitStatus[chat.LimitOK] != 1 || stats.ByLimitStatus[chat.LimitWarning] != 1 {
		t.Fatalf("limit statuses wrong: %+v", stats.ByLimitStatus)
	}
	if len(stats.PerSession) != 2 || stats.PerSession[0].TotalTokens != 450 || stats.PerSession[1].TotalTokens != 0 {
		t.Fatalf("per-session slice wrong: %+v", stats.PerSession)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	if stats.Sessions != 0 || stats.Messages != 0 || len(stats.PerSession) != 0 {
		t.Fatalf("empty input should yield zero stats: %+v", stats)
	}
}

func TestReportSummary(t *testing.T) {
	report := Summarize(sampleSessions()).ReportSummary()
	for _, want := range []string{"2 stored sessions", "450 total", "warning: 1", "DNA Sequence Analysis"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestToJSON(t *testing.T) {
	out, err := Summarize(sampleSessions()).ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	if !strings.Contains(out, `"total_tokens": 450`) {
		t.Fatalf("json missing totals:\n%s", out)
	}
}
