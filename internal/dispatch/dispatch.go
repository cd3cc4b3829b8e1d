// Package dispatch translates one outbound conversation turn into an
// HTTP request against the chat backend and the response into a
// validated assistant message. All transport, status and parse failures
// resolve to the same outcome: a fixed apology reply with the cause
// logged, never an error the caller has to branch on mid-conversation.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"biochat/internal/chat"
	"biochat/internal/filecontext"
	"biochat/internal/ident"
)

const (
	// reply when the backend answered but carried no usable reply field
	missingReplyText = "I'm sorry, I couldn't generate a response. Please try asking again."
	// reply when the request itself failed
	errorReplyText = "I'm sorry, something went wrong while processing your message. Please try again."
)

// Attachment carries the bytes of a file for a single send. The bytes
// are not retained in conversation state after the send completes.
type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

// Request is one outbound turn.
type Request struct {
	Message        string
	ConversationID string
	History        []chat.Message
	File           *Attachment
	FileContext    []filecontext.FileContext
}

// Result is the outcome of a send. Reply is always populated, apology
// included on failure; Err records the cause for the orchestrator's
// persistence decision and is never an apology on its own.
type Result struct {
	Reply          chat.Message
	FileContext    *filecontext.FileContext
	ConversationID string
	Err            error
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	identity   ident.Provider
	ids        chat.IDGenerator
}

func New(endpoint string, identity ident.Provider, ids chat.IDGenerator, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		identity:   identity,
		ids:        ids,
	}
}

// Send performs one turn. It blocks until the backend responds or the
// transport gives up; there is no mid-flight cancellation beyond ctx.
func (c *Client) Send(ctx context.Context, req Request) Result {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = chat.NewSessionID(time.Now(), c.ids)
	}

	httpReq, err := c.buildRequest(ctx, req, conversationID)
	if err != nil {
		return c.failure(conversationID, fmt.Errorf("build request: %w", err))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.failure(conversationID, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failure(conversationID, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.failure(conversationID, fmt.Errorf("backend error %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return c.failure(conversationID, fmt.Errorf("parse response: %w", err))
	}

	text, ok := env.replyText()
	if !ok {
		text = missingReplyText
	}

	res := Result{
		Reply: chat.Message{
			ID:        c.ids.NewID(),
			Role:      chat.RoleAssistant,
			Content:   text,
			Timestamp: time.Now(),
			Metadata:  env.Metadata.toDomain(),
		},
		ConversationID: conversationID,
	}
	if req.File != nil && env.FileAnalysis != nil {
		res.FileContext = deriveFileContext(req.File, env.FileAnalysis)
	}
	return res
}

func (c *Client) failure(conversationID string, cause error) Result {
	log.Printf("chat send failed: %v", cause)
	return Result{
		Reply: chat.Message{
			ID:        c.ids.NewID(),
			Role:      chat.RoleAssistant,
			Content:   errorReplyText,
			Timestamp: time.Now(),
		},
		ConversationID: conversationID,
		Err:            cause,
	}
}

type historyEntry struct {
	Role      chat.Role `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type jsonBody struct {
	Message             string                    `json:"message"`
	ConversationID      string                    `json:"conversationId"`
	ConversationHistory []historyEntry            `json:"conversationHistory"`
	FileContext         []filecontext.FileContext `json:"fileContext,omitempty"`
}

func (c *Client) buildRequest(ctx context.Context, req Request, conversationID string) (*http.Request, error) {
	var httpReq *http.Request
	var err error
	if req.File != nil {
		httpReq, err = c.buildMultipart(ctx, req)
	} else {
		httpReq, err = c.buildJSON(ctx, req, conversationID)
	}
	if err != nil {
		return nil, err
	}
	c.setIdentityHeaders(httpReq)
	return httpReq, nil
}

func (c *Client) buildJSON(ctx context.Context, req Request, conversationID string) (*http.Request, error) {
	history := make([]historyEntry, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, historyEntry{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
	body := jsonBody{
		Message:             req.Message,
		ConversationID:      conversationID,
		ConversationHistory: history,
		FileContext:         req.FileContext,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

func (c *Client) buildMultipart(ctx context.Context, req Request) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("message", req.Message); err != nil {
		return nil, fmt.Errorf("write message field: %w", err)
	}
	part, err := createFilePart(w, req.File)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(req.File.Data); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	if len(req.FileContext) > 0 {
		fcJSON, err := json.Marshal(req.FileContext)
		if err != nil {
			return nil, fmt.Errorf("marshal file context: %w", err)
		}
		if err := w.WriteField("fileContext", string(fcJSON)); err != nil {
			return nil, fmt.Errorf("write file context field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	return httpReq, nil
}

func createFilePart(w *multipart.Writer, f *Attachment) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(f.Name)))
	mt := f.MimeType
	if mt == "" {
		mt = "application/octet-stream"
	}
	h.Set("Content-Type", mt)
	return w.CreatePart(h)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// setIdentityHeaders tags the request with the active identity. Missing
// identity falls back to the demo profile; a send never blocks on it.
func (c *Client) setIdentityHeaders(httpReq *http.Request) {
	p := ident.Demo()
	if c.identity != nil {
		if cur := c.identity.Current(); cur.UID != "" {
			p = cur
		}
	}
	httpReq.Header.Set("x-identity-uid", p.UID)
	httpReq.Header.Set("x-identity-email", p.Email)
	httpReq.Header.Set("x-identity-display-name", p.DisplayName)
	if p.PhotoURL != "" {
		httpReq.Header.Set("x-identity-photo-url", p.PhotoURL)
	}
}

func deriveFileContext(f *Attachment, fa *fileAnalysis) *filecontext.FileContext {
	content := fa.DocumentContent
	if content == "" {
		content = fa.Sequence
	}
	fileType := fa.FileType
	if fileType == "" {
		fileType = f.MimeType
	}
	return &filecontext.FileContext{
		Filename:  f.Name,
		FileType:  fileType,
		Size:      int64(len(f.Data)),
		Timestamp: time.Now(),
		Content:   content,
		Summary:   fa.Summary,
	}
}
