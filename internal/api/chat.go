package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/scai-digital/cascade/internal/gateway"
	"github.com/scai-digital/cascade/internal/types"
	"github.com/scai-digital/cascade/internal/validation"
)

// gatewayClient builds a gateway client from the stored chat settings,
// falling back to the server-level configuration when none are stored.
func (h *Handler) gatewayClient(r *http.Request) (*gateway.Client, error) {
	settings, err := h.store.LoadSettings(r.Context())
	if err != nil {
		return nil, err
	}
	baseURL, apiKey := settings.APIURL, settings.APIKey
	if baseURL == "" {
		baseURL, apiKey = h.gateway.BaseURL, h.gateway.APIKey
	}
	return gateway.New(baseURL, apiKey)
}

// Models handles GET /chat/models.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	client, err := h.gatewayClient(r)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}

	models, err := client.Models(r.Context())
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

// completionRequest is the POST /chat/completions body.
type completionRequest struct {
	Model       string               `json:"model"`
	Messages    []gateway.Message    `json:"messages"`
	Attachments []gateway.Attachment `json:"attachments,omitempty"`
}

// completionResponse carries the assistant's reply.
type completionResponse struct {
	Content string `json:"content"`
}

// Completions handles POST /chat/completions.
func (h *Handler) Completions(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("model", req.Model))
	if len(req.Messages) == 0 {
		c.Add(&validation.ValidationError{Field: "messages", Message: "is required"})
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid parameters", c.Errors())
		return
	}

	client, err := h.gatewayClient(r)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}

	content, err := client.Complete(r.Context(), req.Model, req.Messages, req.Attachments)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, completionResponse{Content: content})
}

// Knowledge handles GET /chat/knowledge.
func (h *Handler) Knowledge(w http.ResponseWriter, r *http.Request) {
	client, err := h.gatewayClient(r)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}

	items, err := client.ListKnowledge(r.Context())
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetChats handles GET /chats.
func (h *Handler) GetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.store.LoadChats(r.Context())
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	if chats == nil {
		chats = []types.StoredChat{}
	}
	writeJSON(w, http.StatusOK, chats)
}

// PutChats handles PUT /chats: replace the stored conversation list.
func (h *Handler) PutChats(w http.ResponseWriter, r *http.Request) {
	var chats []types.StoredChat
	if err := json.NewDecoder(r.Body).Decode(&chats); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if err := h.store.SaveChats(r.Context(), chats); err != nil {
		MapDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetChatSettings handles GET /chat/settings.
func (h *Handler) GetChatSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.LoadSettings(r.Context())
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutChatSettings handles PUT /chat/settings.
func (h *Handler) PutChatSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.ChatSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		MapDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetChatFiles handles GET /chat/files: files already uploaded to the
// gateway, available for re-attachment.
func (h *Handler) GetChatFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.LoadUploadedFiles(r.Context())
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	if files == nil {
		files = []types.StoredUploadedFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

// UploadChatFile handles POST /chat/files: forward a file to the gateway,
// wait for its processing to finish, and record it for re-use.
func (h *Handler) UploadChatFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Multipart form must carry a \"file\" part")
		return
	}
	defer file.Close()

	client, err := h.gatewayClient(r)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}

	uploaded, err := client.UploadFile(r.Context(), header.Filename, file)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	if err := client.WaitForFileReady(r.Context(), uploaded.ID, 2*time.Minute, 2*time.Second); err != nil {
		MapUpstreamError(w, r, err)
		return
	}

	stored := types.StoredUploadedFile{
		FileID:     uploaded.ID,
		Name:       header.Filename,
		UploadedAt: time.Now().UnixMilli(),
	}
	files, err := h.store.LoadUploadedFiles(r.Context())
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	files = append(files, stored)
	if err := h.store.SaveUploadedFiles(r.Context(), files); err != nil {
		MapDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// GetChatCollections handles GET /chat/collections: locally tracked
// groupings of uploaded files.
func (h *Handler) GetChatCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.store.LoadCollections(r.Context())
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	if collections == nil {
		collections = []types.StoredCollection{}
	}
	writeJSON(w, http.StatusOK, collections)
}

// PutChatCollections handles PUT /chat/collections.
func (h *Handler) PutChatCollections(w http.ResponseWriter, r *http.Request) {
	var collections []types.StoredCollection
	if err := json.NewDecoder(r.Body).Decode(&collections); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if err := h.store.SaveCollections(r.Context(), collections); err != nil {
		MapDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
