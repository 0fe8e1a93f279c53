package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/scai-digital/cascade/internal/gateway"
	"github.com/scai-digital/cascade/internal/session"
	"github.com/scai-digital/cascade/internal/store"
	"github.com/scai-digital/cascade/internal/validation"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// problemTypes maps HTTP status codes to RFC 7807 type URIs and titles.
var problemTypes = map[int]struct {
	typeURI string
	title   string
}{
	http.StatusUnauthorized: {
		typeURI: "https://cascade.scai.digital/errors/unauthorized",
		title:   "Unauthorized",
	},
	http.StatusBadRequest: {
		typeURI: "https://cascade.scai.digital/errors/bad-request",
		title:   "Bad Request",
	},
	http.StatusNotFound: {
		typeURI: "https://cascade.scai.digital/errors/not-found",
		title:   "Not Found",
	},
	http.StatusConflict: {
		typeURI: "https://cascade.scai.digital/errors/conflict",
		title:   "Conflict",
	},
	http.StatusUnprocessableEntity: {
		typeURI: "https://cascade.scai.digital/errors/validation-error",
		title:   "Validation Error",
	},
	http.StatusBadGateway: {
		typeURI: "https://cascade.scai.digital/errors/upstream-error",
		title:   "Upstream Error",
	},
	http.StatusServiceUnavailable: {
		typeURI: "https://cascade.scai.digital/errors/service-unavailable",
		title:   "Service Unavailable",
	},
	http.StatusInternalServerError: {
		typeURI: "https://cascade.scai.digital/errors/internal-error",
		title:   "Internal Server Error",
	},
}

// WriteProblem writes an RFC 7807 Problem Details response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	pt, ok := problemTypes[status]
	if !ok {
		pt = struct {
			typeURI string
			title   string
		}{
			typeURI: "https://cascade.scai.digital/errors/unknown",
			title:   http.StatusText(status),
		}
	}

	p := Problem{
		Type:     pt.typeURI,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// ProblemWithErrors extends Problem with validation error details.
type ProblemWithErrors struct {
	Problem
	Errors []validation.ValidationError `json:"errors,omitempty"`
}

// WriteProblemWithErrors writes a 422 Problem Details response with field errors.
func WriteProblemWithErrors(w http.ResponseWriter, r *http.Request, detail string, errs []validation.ValidationError) {
	pt := problemTypes[http.StatusUnprocessableEntity]

	p := ProblemWithErrors{
		Problem: Problem{
			Type:     pt.typeURI,
			Title:    pt.title,
			Status:   http.StatusUnprocessableEntity,
			Detail:   detail,
			Instance: r.URL.Path,
		},
		Errors: errs,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// MapDomainError converts store, session and gateway errors to Problem
// Details responses.
func MapDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrRowNotFound):
		WriteProblem(w, r, http.StatusNotFound, "Row not found")
	case errors.Is(err, store.ErrUnknownTable):
		WriteProblem(w, r, http.StatusNotFound, "Unknown table")
	case errors.Is(err, session.ErrEditInProgress):
		WriteProblem(w, r, http.StatusConflict, "Another row is being edited; commit or cancel it first")
	case errors.Is(err, session.ErrNoActiveEdit):
		WriteProblem(w, r, http.StatusConflict, "No edit in progress")
	case errors.Is(err, session.ErrUnknownField):
		WriteProblem(w, r, http.StatusUnprocessableEntity, "Unknown row field")
	case errors.Is(err, gateway.ErrNotConfigured):
		WriteProblem(w, r, http.StatusServiceUnavailable, err.Error())
	default:
		// Never expose internal error details to client
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}

// MapUpstreamError reports a collaborator (gateway or document backend)
// failure. The message is already human-readable; 502 tells the client the
// failure is upstream, not local.
func MapUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gateway.ErrNotConfigured) {
		WriteProblem(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	WriteProblem(w, r, http.StatusBadGateway, err.Error())
}
