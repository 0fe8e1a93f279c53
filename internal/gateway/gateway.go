// Package gateway is the client for the LLM chat gateway (an Open WebUI
// compatible server). Chat completions go through the OpenAI-compatible
// surface; knowledge collections and file processing use the gateway's own
// REST endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrNotConfigured is returned when no gateway URL has been set.
var ErrNotConfigured = errors.New("gateway not configured: set the server URL and API key in chat settings")

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Attachment references uploaded context for a completion: either a single
// processed file or a whole knowledge collection.
type Attachment struct {
	Type string `json:"type"` // "file" or "collection"
	ID   string `json:"id"`
}

// Model is one entry of the gateway's model catalog.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// KnowledgeItem is one knowledge collection on the gateway.
type KnowledgeItem struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// UploadedFile describes a file accepted by the gateway.
type UploadedFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename,omitempty"`
}

// FileStatus reports the processing state of an uploaded file.
type FileStatus struct {
	Status string `json:"status"` // pending, completed or failed
	Error  string `json:"error,omitempty"`
}

// Client talks to one gateway instance.
type Client struct {
	baseURL string
	apiKey  string
	ai      *openai.Client
	http    *http.Client
}

// New creates a Client for the gateway at baseURL. The URL must point at
// the server root (for example http://localhost:3000); API paths are
// appended by the client.
func New(baseURL, apiKey string) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		baseURL: base,
		apiKey:  apiKey,
		ai: openai.NewClient(
			option.WithBaseURL(base+"/api/"),
			option.WithAPIKey(apiKey),
		),
		http: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Complete runs a non-streaming chat completion and returns the assistant's
// reply. Attachments are passed through to the gateway in its "files"
// extension field.
func (c *Client) Complete(ctx context.Context, model string, messages []Message, attachments []Attachment) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.F(openai.ChatModel(model)),
		Messages: openai.F(toMessageUnion(messages)),
	}

	var opts []option.RequestOption
	if len(attachments) > 0 {
		opts = append(opts, option.WithJSONSet("files", attachments))
	}

	resp, err := c.ai.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: server returned no choices; check the gateway URL and model in chat settings")
	}
	return resp.Choices[0].Message.Content, nil
}

func toMessageUnion(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// Models lists the gateway's available models. The gateway may answer with
// either a bare array or an OpenAI-style {data: [...]} wrapper.
func (c *Client) Models(ctx context.Context) ([]Model, error) {
	body, err := c.getRaw(ctx, "/api/models")
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	var wrapped struct {
		Data []Model `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}
	var plain []Model
	if err := json.Unmarshal(body, &plain); err == nil {
		return plain, nil
	}
	return nil, fmt.Errorf("list models: unexpected response shape: %s", snippet(body))
}

// ListKnowledge lists the gateway's knowledge collections, normalizing the
// several response shapes the gateway is known to produce.
func (c *Client) ListKnowledge(ctx context.Context) ([]KnowledgeItem, error) {
	body, err := c.getRaw(ctx, "/api/v1/knowledge/")
	if err != nil {
		return nil, fmt.Errorf("list knowledge: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		var wrapped struct {
			Items []map[string]any `json:"items"`
			Data  []map[string]any `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("list knowledge: unexpected response shape: %s", snippet(body))
		}
		raw = wrapped.Items
		if raw == nil {
			raw = wrapped.Data
		}
	}

	out := make([]KnowledgeItem, 0, len(raw))
	for _, item := range raw {
		id := stringField(item, "id", "knowledge_id")
		name := stringField(item, "name", "title")
		if name == "" {
			name = id
		}
		out = append(out, KnowledgeItem{ID: id, Name: name})
	}
	return out, nil
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// UploadFile sends a file to the gateway for processing.
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (UploadedFile, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadedFile{}, fmt.Errorf("upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadedFile{}, fmt.Errorf("upload file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/files/", &body)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload file: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload file: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UploadedFile{}, fmt.Errorf("upload file: status %d: %s", resp.StatusCode, uploadErrorDetail(raw))
	}

	var out UploadedFile
	if err := json.Unmarshal(raw, &out); err != nil {
		return UploadedFile{}, fmt.Errorf("upload file: decode response: %w", err)
	}
	return out, nil
}

// uploadErrorDetail prefers the gateway's detail/message fields over the
// raw body.
func uploadErrorDetail(raw []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return snippet(raw)
}

// FileStatus reports the processing state of an uploaded file.
func (c *Client) FileStatus(ctx context.Context, fileID string) (FileStatus, error) {
	body, err := c.getRaw(ctx, "/api/v1/files/"+url.PathEscape(fileID)+"/process/status")
	if err != nil {
		return FileStatus{}, fmt.Errorf("file status: %w", err)
	}
	var out FileStatus
	if err := json.Unmarshal(body, &out); err != nil {
		return FileStatus{}, fmt.Errorf("file status: decode response: %w", err)
	}
	return out, nil
}

// WaitForFileReady polls the file's processing status until it completes,
// fails, or the timeout elapses.
func (c *Client) WaitForFileReady(ctx context.Context, fileID string, timeout, interval time.Duration) error {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.FileStatus(ctx, fileID)
		if err != nil {
			if ctx.Err() != nil {
				return errors.New("file processing timeout")
			}
			return err
		}
		switch status.Status {
		case "completed":
			return nil
		case "failed":
			if status.Error != "" {
				return fmt.Errorf("file processing failed: %s", status.Error)
			}
			return errors.New("file processing failed")
		}

		select {
		case <-ctx.Done():
			return errors.New("file processing timeout")
		case <-ticker.C:
		}
	}
}

// getRaw performs an authorized GET and returns the body, translating HTML
// payloads (a sign the URL points at a web page, not the API) into a
// readable error.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if looksLikeHTML(body) {
		return nil, fmt.Errorf("server returned HTML instead of JSON (status %d); check the gateway URL in chat settings", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, snippet(body))
	}
	return body, nil
}

func looksLikeHTML(body []byte) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(string(body))), "<!")
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
