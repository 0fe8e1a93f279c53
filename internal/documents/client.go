// Package documents is the client for the knowledge-base document backend.
// The backend stores uploaded source documents, groups them into
// collections, and parses document content into structured JSON on demand.
package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DocumentMeta describes one stored document.
type DocumentMeta struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	DocumentType string         `json:"document_type"`
	CollectionID string         `json:"collection_id,omitempty"`
	Size         int64          `json:"size,omitempty"`
	ContentType  string         `json:"content_type,omitempty"`
	UploadedAt   string         `json:"uploaded_at,omitempty"`
	Preprocessed bool           `json:"preprocessed"`
	ParsedJSON   map[string]any `json:"parsed_json,omitempty"`
}

// CollectionMeta describes one document collection.
type CollectionMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// DocumentList is the paginated document listing response.
type DocumentList struct {
	Items []DocumentMeta `json:"items"`
	Total int            `json:"total"`
}

// DocumentType is one entry of the backend's document type catalog.
type DocumentType struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PreprocessResult reports the outcome of parsing a document.
type PreprocessResult struct {
	DocumentID   string         `json:"document_id"`
	Preprocessed bool           `json:"preprocessed"`
	ParsedJSON   map[string]any `json:"parsed_json,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// Client talks to the document backend over its JSON REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client for the backend at baseURL. A trailing slash on the
// URL is tolerated.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Types lists the document type catalog.
func (c *Client) Types(ctx context.Context) ([]DocumentType, error) {
	var out []DocumentType
	if err := c.getJSON(ctx, "/api/documents/types", &out); err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	return out, nil
}

// List returns documents, optionally filtered by type and collection.
func (c *Client) List(ctx context.Context, documentType, collectionID string) (DocumentList, error) {
	params := url.Values{}
	if documentType != "" {
		params.Set("document_type", documentType)
	}
	if collectionID != "" {
		params.Set("collection_id", collectionID)
	}
	path := "/api/documents"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out DocumentList
	if err := c.getJSON(ctx, path, &out); err != nil {
		return DocumentList{}, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

// Get fetches one document's metadata, including its parsed JSON when
// includeJSON is set.
func (c *Client) Get(ctx context.Context, documentID string, includeJSON bool) (DocumentMeta, error) {
	path := "/api/documents/" + url.PathEscape(documentID)
	if includeJSON {
		path += "?include_json=true"
	}

	var out DocumentMeta
	if err := c.getJSON(ctx, path, &out); err != nil {
		return DocumentMeta{}, fmt.Errorf("get document: %w", err)
	}
	return out, nil
}

// Upload stores a new document of the given type, optionally into a
// collection. The file content is sent as a multipart form part named
// "file".
func (c *Client) Upload(ctx context.Context, documentType, collectionID, filename string, content io.Reader) (DocumentMeta, error) {
	params := url.Values{"document_type": {documentType}}
	if collectionID != "" {
		params.Set("collection_id", collectionID)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return DocumentMeta{}, fmt.Errorf("upload document: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return DocumentMeta{}, fmt.Errorf("upload document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return DocumentMeta{}, fmt.Errorf("upload document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/documents/upload?"+params.Encode(), &body)
	if err != nil {
		return DocumentMeta{}, fmt.Errorf("upload document: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out DocumentMeta
	if err := c.do(req, &out); err != nil {
		return DocumentMeta{}, fmt.Errorf("upload document: %w", err)
	}
	return out, nil
}

// Delete removes a document.
func (c *Client) Delete(ctx context.Context, documentID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/documents/"+url.PathEscape(documentID), nil)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Preprocess asks the backend to parse a document into structured JSON.
func (c *Client) Preprocess(ctx context.Context, documentID string) (PreprocessResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/documents/"+url.PathEscape(documentID)+"/preprocess", nil)
	if err != nil {
		return PreprocessResult{}, fmt.Errorf("preprocess document: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var out PreprocessResult
	if err := c.do(req, &out); err != nil {
		return PreprocessResult{}, fmt.Errorf("preprocess document: %w", err)
	}
	return out, nil
}

// Collections lists all collections.
func (c *Client) Collections(ctx context.Context) ([]CollectionMeta, error) {
	var out []CollectionMeta
	if err := c.getJSON(ctx, "/api/collections", &out); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return out, nil
}

// defaultCollectionName is used when a collection is created without a name.
const defaultCollectionName = "Новая коллекция"

// CreateCollection creates a collection. An empty name gets the default.
func (c *Client) CreateCollection(ctx context.Context, name string) (CollectionMeta, error) {
	if name == "" {
		name = defaultCollectionName
	}
	var out CollectionMeta
	if err := c.sendJSON(ctx, http.MethodPost, "/api/collections", map[string]string{"name": name}, &out); err != nil {
		return CollectionMeta{}, fmt.Errorf("create collection: %w", err)
	}
	return out, nil
}

// UpdateCollection renames a collection.
func (c *Client) UpdateCollection(ctx context.Context, collectionID, name string) (CollectionMeta, error) {
	var out CollectionMeta
	path := "/api/collections/" + url.PathEscape(collectionID)
	if err := c.sendJSON(ctx, http.MethodPatch, path, map[string]string{"name": name}, &out); err != nil {
		return CollectionMeta{}, fmt.Errorf("update collection: %w", err)
	}
	return out, nil
}

// DeleteCollection removes a collection.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/collections/"+url.PathEscape(collectionID), nil)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

// do executes the request and decodes the JSON response into out when out
// is non-nil. An HTML payload means the request hit something other than
// the backend API, which gets a clearer error than a JSON parse failure.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, snippet(body))
	}
	if out == nil {
		return nil
	}
	if looksLikeHTML(body) {
		return fmt.Errorf("backend returned HTML instead of JSON; check that the document backend is running at %s", c.baseURL)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

func looksLikeHTML(body []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(string(body)), "<!")
}

// snippet truncates an error body for inclusion in messages.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
