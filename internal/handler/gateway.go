package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glasspane/glasspane/internal/catalog"
	"github.com/glasspane/glasspane/internal/gateway"
)

// GatewayHandler serves widget data binding and action execution.
type GatewayHandler struct {
	catalogs *catalog.Registry
	resolver *gateway.Resolver
}

// NewGatewayHandler wires the binding endpoints.
func NewGatewayHandler(c *catalog.Registry, r *gateway.Resolver) *GatewayHandler {
	return &GatewayHandler{catalogs: c, resolver: r}
}

// ListCatalogs returns the registered namespace names.
func (h *GatewayHandler) ListCatalogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"namespaces": h.catalogs.Names()})
}

// AvailableWidgets returns the bindable read and action keys of one
// namespace, for authoring and suggestion UIs.
func (h *GatewayHandler) AvailableWidgets(w http.ResponseWriter, r *http.Request) {
	ns := chi.URLParam(r, "namespace")
	widgets := h.catalogs.AvailableWidgets(ns)
	if widgets == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown namespace: "+ns)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"widgets": widgets})
}

// FetchData resolves a widget's bind key to a live value. The request body
// carries the caller params.
func (h *GatewayHandler) FetchData(w http.ResponseWriter, r *http.Request) {
	var params map[string]any
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &params); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
			return
		}
	}

	value, err := h.resolver.FetchData(r.Context(), chi.URLParam(r, "namespace"), chi.URLParam(r, "key"), params)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": value})
}

// ExecuteAction triggers a catalog action and returns the skill envelope
// unchanged.
func (h *GatewayHandler) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	var params map[string]any
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &params); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
			return
		}
	}

	result, err := h.resolver.ExecuteAction(r.Context(), chi.URLParam(r, "namespace"), chi.URLParam(r, "key"), params, userID(r))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
