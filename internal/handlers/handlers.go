package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"penside/internal/herd"
	applog "penside/internal/log"
	"penside/internal/repository"
)

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
	repo           repository.Repository
	manager        *herd.Manager
	finder         *herd.Finder
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, db *gorm.DB) {
	sessionManager = sm
	database = db
	if db != nil {
		repo = repository.NewGorm(db)
		manager = herd.NewManager(repo)
		finder = herd.NewFinder(repo)
	} else {
		repo = nil
		manager = nil
		finder = nil
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorResponse is the uniform error envelope. Code distinguishes the error
// kinds the UI reacts to; Fields and Status carry the recoverable detail.
type errorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Fields []string `json:"fields,omitempty"`
	Status string   `json:"status,omitempty"`
}

// writeLifecycleError maps the core error taxonomy onto HTTP statuses.
func writeLifecycleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *herd.ValidationError
		invalid    *herd.InvalidTransitionError
		partial    *herd.PartialWriteError
		integrity  *repository.IntegrityError
		repoErr    *repository.Error
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  validation.Error(),
			Code:   "validation",
			Fields: validation.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: "record not found",
			Code:  "not_found",
		})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:  invalid.Error(),
			Code:   "invalid_transition",
			Status: string(invalid.Current),
		})
	case errors.As(err, &partial):
		applog.Error(r.Context(), "partial write", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: partial.Error(),
			Code:  "partial_write",
		})
	case errors.As(err, &integrity):
		applog.Error(r.Context(), "data integrity failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "stored record failed integrity checks",
			Code:  "data_integrity",
		})
	case errors.As(err, &repoErr):
		applog.Error(r.Context(), "repository failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "storage unavailable",
			Code:  "repository",
		})
	default:
		applog.Error(r.Context(), "unexpected handler error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal error",
			Code:  "internal",
		})
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		applog.Debug(r.Context(), "failed to decode request body", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}
