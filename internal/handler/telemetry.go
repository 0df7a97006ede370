package handler

import (
	"net/http"

	"github.com/glasspane/glasspane/internal/telemetry"
)

// TelemetryHandler accepts widget usage events posted by the UI and serves
// the aggregated snapshot.
type TelemetryHandler struct {
	buffer     *telemetry.Buffer
	aggregator *telemetry.Aggregator
}

// NewTelemetryHandler wires the telemetry endpoints.
func NewTelemetryHandler(b *telemetry.Buffer, a *telemetry.Aggregator) *TelemetryHandler {
	return &TelemetryHandler{buffer: b, aggregator: a}
}

type eventsRequest struct {
	Events []telemetry.Event `json:"events"`
}

// Intake queues a batch of usage events. Always 202: the buffer owns
// delivery, the UI should never retry.
func (h *TelemetryHandler) Intake(w http.ResponseWriter, r *http.Request) {
	var req eventsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if len(req.Events) == 0 {
		writeError(w, http.StatusBadRequest, "NO_EVENTS", "events is required")
		return
	}

	for _, ev := range req.Events {
		h.buffer.Record(r.Context(), ev)
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"accepted": len(req.Events)})
}

// Snapshot returns the current per-widget usage aggregation. Events still
// sitting in the buffer are flushed first so the snapshot is current.
func (h *TelemetryHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.buffer.Flush(r.Context()); err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.aggregator.Snapshot())
}
