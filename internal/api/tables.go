package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/scai-digital/cascade/internal/dashboard"
	"github.com/scai-digital/cascade/internal/export"
	"github.com/scai-digital/cascade/internal/types"
	"github.com/scai-digital/cascade/internal/validation"
	"github.com/scai-digital/cascade/internal/view"
)

// resolveTable returns the handle for the {table} URL parameter, writing a
// problem response and returning nil when the table is unknown.
func (h *Handler) resolveTable(w http.ResponseWriter, r *http.Request) *tableHandle {
	raw := chi.URLParam(r, "table")
	if err := validation.ValidateTable("table", raw); err != nil {
		WriteProblem(w, r, http.StatusNotFound, fmt.Sprintf("Unknown table %q", raw))
		return nil
	}
	return h.tables[types.TableID(raw)]
}

// parseQuery validates and extracts the view query parameters.
func parseQuery(r *http.Request, spec types.TableSpec) (view.Query, []validation.ValidationError) {
	var c validation.Collector

	params := r.URL.Query()
	c.Add(validation.ValidateSortKey("sort", spec, params.Get("sort")))
	c.Add(validation.ValidateDirection("dir", params.Get("dir")))
	page, pageErr := validation.ValidatePage("page", params.Get("page"))
	c.Add(pageErr)

	if c.HasErrors() {
		return view.Query{}, c.Errors()
	}

	dir := view.Direction(params.Get("dir"))
	if dir == "" {
		dir = view.Ascending
	}
	return view.Query{
		NameFilter: params.Get("name"),
		GoalFilter: params.Get("goal"),
		SortKey:    types.Field(params.Get("sort")),
		SortDir:    dir,
		Page:       page,
	}, nil
}

// rowsResponse is the GET /tables/{table}/rows payload: the projection plus
// the editing state, if any.
type rowsResponse struct {
	view.Projection
	Editing *editingState `json:"editing,omitempty"`
}

type editingState struct {
	RowID string        `json:"rowId"`
	Draft types.GoalRow `json:"draft"`
}

// ListRows handles GET /tables/{table}/rows.
// While an edit is in progress the view is pinned: requests for a different
// filter, sort or page are refused so the edited row cannot scroll away.
func (h *Handler) ListRows(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}

	q, errs := parseQuery(r, t.spec)
	if errs != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid parameters", errs)
		return
	}

	if _, active := t.session.Active(); active {
		t.mu.Lock()
		locked := t.lockedQuery
		t.mu.Unlock()
		if q != locked {
			WriteProblem(w, r, http.StatusConflict, "An edit is in progress; commit or cancel it before changing the view")
			return
		}
	}

	state, err := h.store.LoadTable(r.Context(), t.spec.ID)
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	resp := rowsResponse{Projection: view.Apply(state.Rows, q, t.spec.PageSize)}
	if rowID, active := t.session.Active(); active {
		if draft, ok := t.session.Draft(); ok {
			resp.Editing = &editingState{RowID: rowID, Draft: draft}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// createRowResponse is the POST /tables/{table}/rows payload.
type createRowResponse struct {
	Row  types.GoalRow `json:"row"`
	Page int           `json:"page"`
}

// CreateRow handles POST /tables/{table}/rows: append a blank row, start
// editing it, and report the last page, where the new row is shown.
func (h *Handler) CreateRow(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}

	q, errs := parseQuery(r, t.spec)
	if errs != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid parameters", errs)
		return
	}

	row := types.NewRow()
	if err := t.session.Start(row); err != nil {
		MapDomainError(w, r, err)
		return
	}

	state, err := h.store.AppendRow(r.Context(), t.spec.ID, row)
	if err != nil {
		t.session.Cancel()
		MapDomainError(w, r, err)
		return
	}

	q.Page = view.LastPage(len(state.Rows), t.spec.PageSize)
	t.mu.Lock()
	t.lockedQuery = q
	t.mu.Unlock()

	writeJSON(w, http.StatusCreated, createRowResponse{Row: row, Page: q.Page})
}

// DeleteRow handles DELETE /tables/{table}/rows/{id}. Deletion wins over an
// in-flight edit of the same row.
func (h *Handler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteRow(r.Context(), t.spec.ID, id); err != nil {
		MapDomainError(w, r, err)
		return
	}
	t.session.RowDeleted(id)

	w.WriteHeader(http.StatusNoContent)
}

// StartEdit handles POST /tables/{table}/rows/{id}/edit.
func (h *Handler) StartEdit(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}
	id := chi.URLParam(r, "id")

	q, errs := parseQuery(r, t.spec)
	if errs != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid parameters", errs)
		return
	}

	state, err := h.store.LoadTable(r.Context(), t.spec.ID)
	if err != nil {
		MapDomainError(w, r, err)
		return
	}

	var row *types.GoalRow
	for i := range state.Rows {
		if state.Rows[i].ID == id {
			row = &state.Rows[i]
			break
		}
	}
	if row == nil {
		WriteProblem(w, r, http.StatusNotFound, "Row not found")
		return
	}

	if err := t.session.Start(*row); err != nil {
		MapDomainError(w, r, err)
		return
	}
	t.mu.Lock()
	t.lockedQuery = q
	t.mu.Unlock()

	writeJSON(w, http.StatusOK, *row)
}

// editUpdateRequest is the PATCH /tables/{table}/edit body.
type editUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateEdit handles PATCH /tables/{table}/edit: one draft cell update.
func (h *Handler) UpdateEdit(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}

	var req editUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if err := validation.ValidateEditableField("field", req.Field); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid parameters", []validation.ValidationError{*err})
		return
	}

	if err := t.session.UpdateField(types.Field(req.Field), req.Value); err != nil {
		MapDomainError(w, r, err)
		return
	}

	draft, _ := t.session.Draft()
	writeJSON(w, http.StatusOK, draft)
}

// CommitEdit handles POST /tables/{table}/edit/commit.
func (h *Handler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}

	row, err := t.session.Commit(r.Context())
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// CancelEdit handles POST /tables/{table}/edit/cancel.
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}

	if err := t.session.Cancel(); err != nil {
		MapDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard handles GET /tables/{table}/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}

	state, err := h.store.LoadTable(r.Context(), t.spec.ID)
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.Compute(state.Rows))
}

// Export handles GET /tables/{table}/export?format=...
// The exported file carries the current view: the same filter and sort
// parameters the rows endpoint takes, with pagination excluded. The file is
// rendered fully before any byte is written, so a render failure still
// produces a problem response.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTable(w, r)
	if t == nil {
		return
	}

	q, errs := parseQuery(r, t.spec)
	if errs != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid parameters", errs)
		return
	}

	rawFormat := r.URL.Query().Get("format")
	if err := validation.ValidateFormat("format", rawFormat); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid parameters", []validation.ValidationError{*err})
		return
	}
	format, _ := export.ParseFormat(rawFormat)

	state, err := h.store.LoadTable(r.Context(), t.spec.ID)
	if err != nil {
		MapDomainError(w, r, err)
		return
	}
	rows := view.Sort(view.Filter(state.Rows, q.NameFilter, q.GoalFilter), q.SortKey, q.SortDir)

	var buf bytes.Buffer
	if err := h.exporter.Export(r.Context(), &buf, t.spec.ExportPrefix, rows, format); err != nil {
		slog.Error("export failed",
			"table", t.spec.ID,
			"format", format,
			"error", err,
		)
		WriteProblem(w, r, http.StatusInternalServerError, fmt.Sprintf("Export to %s failed", format))
		return
	}

	filename := export.Filename(t.spec.ExportPrefix, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="%s.%s"; filename*=UTF-8''%s`,
		t.spec.ID, format, url.PathEscape(filename),
	))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
