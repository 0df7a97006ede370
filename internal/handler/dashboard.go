package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glasspane/glasspane/internal/event"
	"github.com/glasspane/glasspane/internal/eventbus"
	"github.com/glasspane/glasspane/internal/layout"
	"github.com/glasspane/glasspane/internal/store"
	"github.com/glasspane/glasspane/internal/studio/intent"
	"github.com/glasspane/glasspane/internal/studio/mutator"
	"github.com/glasspane/glasspane/internal/studio/suggest"
	"github.com/glasspane/glasspane/internal/telemetry"
)

// DashboardHandler serves dashboard lifecycle endpoints: generate, read,
// edit, publish, suggest.
type DashboardHandler struct {
	store   *store.Store
	mutator *mutator.Mutator
	parser  intent.Parser
	suggest *suggest.Engine
	bus     *eventbus.Bus
}

// NewDashboardHandler wires the dashboard endpoints. A nil bus disables
// lifecycle event publishing.
func NewDashboardHandler(s *store.Store, m *mutator.Mutator, p intent.Parser, e *suggest.Engine, bus *eventbus.Bus) *DashboardHandler {
	return &DashboardHandler{store: s, mutator: m, parser: p, suggest: e, bus: bus}
}

func (h *DashboardHandler) publish(r *http.Request, evt event.Event) {
	if h.bus != nil {
		h.bus.Publish(r.Context(), evt)
	}
}

type generateRequest struct {
	Product      string   `json:"product"`
	Skills       []string `json:"skills,omitempty"`
	Integrations []string `json:"integrations,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Generate creates a dashboard from a product template plus an optional
// free-form description and persists it.
func (h *DashboardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.Product == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PRODUCT", "product is required")
		return
	}

	in := h.parser.Parse(req.Description)
	doc := h.mutator.Generate(req.Product, req.Skills, req.Integrations, in)

	saved, err := h.store.SaveDashboard(r.Context(), req.Product, doc)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	h.publish(r, event.NewDashboardCreated(saved.ID, saved.Product, userID(r)))
	writeJSON(w, http.StatusCreated, saved)
}

// Get returns one dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.GetDashboard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// List returns dashboards, optionally filtered by product.
func (h *DashboardHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListDashboards(r.Context(), r.URL.Query().Get("product"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	p := parsePagination(r)
	if p.Offset >= len(list) {
		list = nil
	} else {
		list = list[p.Offset:]
	}
	if len(list) > p.Limit {
		list = list[:p.Limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{"dashboards": list})
}

type editRequest struct {
	Instruction string `json:"instruction"`
	Apply       bool   `json:"apply,omitempty"`
}

type editResponse struct {
	Intent    intent.Intent    `json:"intent"`
	Layout    *layout.Document `json:"layout"`
	Diff      *layout.TabDiff  `json:"diff"`
	Rationale string           `json:"rationale"`
	Applied   bool             `json:"applied"`
}

// Edit parses a free-form instruction against a stored dashboard and
// returns the draft plus diff. With apply=true the draft replaces the
// stored document.
func (h *DashboardHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "MISSING_INSTRUCTION", "instruction is required")
		return
	}

	id := chi.URLParam(r, "id")
	d, err := h.store.GetDashboard(r.Context(), id)
	if err != nil {
		errorToHTTP(w, err)
		return
	}

	in := h.parser.Parse(req.Instruction)
	res := h.mutator.Modify(d.Document, in, req.Instruction)

	applied := false
	if req.Apply && !res.Diff.Empty() {
		if err := h.store.UpdateDashboard(r.Context(), id, res.Layout); err != nil {
			errorToHTTP(w, err)
			return
		}
		applied = true
		h.publish(r, event.NewDashboardEdited(id, userID(r), event.EditedPayload{
			Instruction: req.Instruction,
			Rationale:   res.Rationale,
			TabsAdded:   len(res.Diff.TabsAdded),
			TabsRemoved: len(res.Diff.TabsRemoved),
		}))
	}

	writeJSON(w, http.StatusOK, editResponse{
		Intent:    in,
		Layout:    res.Layout,
		Diff:      res.Diff,
		Rationale: res.Rationale,
		Applied:   applied,
	})
}

// Publish snapshots the current document into the publish history.
func (h *DashboardHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.store.PublishDashboard(r.Context(), id, userID(r))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	h.publish(r, event.NewDashboardPublished(id, userID(r), p.Revision))
	writeJSON(w, http.StatusCreated, p)
}

// PublishHistory lists a dashboard's publishes, newest first.
func (h *DashboardHandler) PublishHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.store.PublishHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"publishes": history})
}

// Suggest runs the suggestion rules for a stored dashboard against a
// telemetry snapshot supplied in the request body.
func (h *DashboardHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var snap telemetry.Snapshot
	if err := decodeJSON(r, &snap); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	d, err := h.store.GetDashboard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}

	suggestions := h.suggest.Propose(d.Document, snap)
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
