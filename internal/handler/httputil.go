// Package handler implements the HTTP API over the dashboard engine.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/glasspane/glasspane/internal/gateway"
	"github.com/glasspane/glasspane/internal/layout"
	"github.com/glasspane/glasspane/internal/store"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// Pagination holds parsed pagination parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts page_size and offset from query params.
func parsePagination(r *http.Request) Pagination {
	p := Pagination{Limit: 20, Offset: 0}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Offset = n
		}
	}
	return p
}

// errorToHTTP maps engine errors to appropriate HTTP responses.
func errorToHTTP(w http.ResponseWriter, err error) {
	var notFound *gateway.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	var invalidArgs *gateway.InvalidArgsError
	if errors.As(err, &invalidArgs) {
		writeError(w, http.StatusBadRequest, "INVALID_ARGS", err.Error())
		return
	}
	var parseErr *layout.ParseError
	if errors.As(err, &parseErr) {
		writeError(w, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
		return
	}
	var skillMissing *gateway.SkillMissingError
	if errors.As(err, &skillMissing) {
		writeError(w, http.StatusBadGateway, "SKILL_MISSING", err.Error())
		return
	}
	var fetchErr *gateway.FetchError
	if errors.As(err, &fetchErr) {
		writeError(w, http.StatusBadGateway, "FETCH_FAILED", err.Error())
		return
	}
	var actionErr *gateway.ActionError
	if errors.As(err, &actionErr) {
		writeError(w, http.StatusBadGateway, "ACTION_FAILED", err.Error())
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	log.Printf("internal error: %v", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// userID extracts the acting user from request headers, defaulting to
// "anonymous" so audit entries are never empty.
func userID(r *http.Request) string {
	if u := r.Header.Get("X-User-ID"); u != "" {
		return u
	}
	return "anonymous"
}
