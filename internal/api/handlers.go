package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/scai-digital/cascade/internal/config"
	"github.com/scai-digital/cascade/internal/documents"
	"github.com/scai-digital/cascade/internal/export"
	"github.com/scai-digital/cascade/internal/session"
	"github.com/scai-digital/cascade/internal/store"
	"github.com/scai-digital/cascade/internal/types"
	"github.com/scai-digital/cascade/internal/view"
)

// Handler implements the API handlers.
type Handler struct {
	store    store.Store
	exporter *export.Exporter
	docs     *documents.Client
	gateway  config.GatewayConfig
	apiKey   string
	version  string

	tables map[types.TableID]*tableHandle
}

// tableHandle binds one table to its editing session. While an edit is
// active, lockedQuery remembers the view the edit was started from, so
// requests that would change the view can be refused.
type tableHandle struct {
	spec    types.TableSpec
	session *session.Session

	mu          sync.Mutex
	lockedQuery view.Query
}

// NewHandler creates a new Handler over the given store and collaborators.
func NewHandler(s store.Store, exporter *export.Exporter, docs *documents.Client, gatewayCfg config.GatewayConfig, apiKey, version string) *Handler {
	h := &Handler{
		store:    s,
		exporter: exporter,
		docs:     docs,
		gateway:  gatewayCfg,
		apiKey:   apiKey,
		version:  version,
		tables:   make(map[types.TableID]*tableHandle),
	}
	for _, id := range types.Tables() {
		spec, _ := types.Spec(id)
		h.tables[id] = &tableHandle{
			spec:    spec,
			session: session.New(id, s),
		}
	}
	return h
}

// healthResponse is the GET /health payload.
type healthResponse struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	RowCount map[string]int `json:"rowCount"`
}

// Health returns the health status with per-table row counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(h.tables))
	for id := range h.tables {
		state, err := h.store.LoadTable(r.Context(), id)
		if err != nil {
			WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		counts[string(id)] = len(state.Rows)
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "healthy",
		Version:  h.version,
		RowCount: counts,
	})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
