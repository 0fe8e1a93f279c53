package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DocumentTypes handles GET /documents/types.
func (h *Handler) DocumentTypes(w http.ResponseWriter, r *http.Request) {
	docTypes, err := h.docs.Types(r.Context())
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docTypes)
}

// ListDocuments handles GET /documents with optional document_type and
// collection_id filters.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	list, err := h.docs.List(r.Context(), r.URL.Query().Get("document_type"), r.URL.Query().Get("collection_id"))
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetDocument handles GET /documents/{id}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Get(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("include_json") == "true")
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// UploadDocument handles POST /documents/upload: forward the multipart file
// to the document backend.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Multipart form must carry a \"file\" part")
		return
	}
	defer file.Close()

	doc, err := h.docs.Upload(r.Context(), r.URL.Query().Get("document_type"), r.URL.Query().Get("collection_id"), header.Filename, file)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// DeleteDocument handles DELETE /documents/{id}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreprocessDocument handles POST /documents/{id}/preprocess.
func (h *Handler) PreprocessDocument(w http.ResponseWriter, r *http.Request) {
	result, err := h.docs.Preprocess(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListDocumentCollections handles GET /documents/collections.
func (h *Handler) ListDocumentCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.docs.Collections(r.Context())
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collections)
}

// collectionRequest is the body for creating or renaming a backend collection.
type collectionRequest struct {
	Name string `json:"name"`
}

// CreateDocumentCollection handles POST /documents/collections.
func (h *Handler) CreateDocumentCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	collection, err := h.docs.CreateCollection(r.Context(), req.Name)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, collection)
}

// UpdateDocumentCollection handles PATCH /documents/collections/{id}.
func (h *Handler) UpdateDocumentCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	collection, err := h.docs.UpdateCollection(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collection)
}

// DeleteDocumentCollection handles DELETE /documents/collections/{id}.
func (h *Handler) DeleteDocumentCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
		MapUpstreamError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
