package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/glasspane/glasspane/internal/layout"
	"github.com/glasspane/glasspane/internal/store"
	"github.com/glasspane/glasspane/internal/studio/intent"
	"github.com/glasspane/glasspane/internal/studio/mutator"
)

// Handler manages WebSocket connections for the live edit studio. Each
// connection holds a working draft of one dashboard; edits accumulate on
// the draft and hit storage only on publish.
type Handler struct {
	store   *store.Store
	parser  intent.Parser
	mutator *mutator.Mutator
}

// NewHandler creates a WebSocket handler with all dependencies.
func NewHandler(s *store.Store, p intent.Parser, m *mutator.Mutator) *Handler {
	return &Handler{store: s, parser: p, mutator: m}
}

// session is the per-connection editing state.
type session struct {
	dashboardID string
	userID      string
	draft       *layout.Document
	dirty       bool
}

// ServeHTTP upgrades to WebSocket and runs the message loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dashboardID := chi.URLParam(r, "id")
	ctx := r.Context()

	d, err := h.store.GetDashboard(ctx, dashboardID)
	if err != nil {
		http.Error(w, "unknown dashboard: "+dashboardID, http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("studio: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		userID = "studio"
	}
	sess := &session{dashboardID: dashboardID, userID: userID, draft: d.Document}

	h.send(ctx, conn, ServerMessage{
		Type: "session",
		Data: SessionData{
			DashboardID: sess.dashboardID,
			Layout:      sess.draft,
		},
	})

	// Message loop
	for {
		var msg ClientMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("studio: connection closed: %v", websocket.CloseStatus(err))
			}
			return
		}

		switch msg.Type {
		case "edit":
			h.handleEdit(ctx, conn, sess, msg)
		case "reset":
			h.handleReset(ctx, conn, sess, msg)
		case "publish":
			h.handlePublish(ctx, conn, sess, msg)
		case "ping":
			h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleEdit(ctx context.Context, conn *websocket.Conn, sess *session, msg ClientMessage) {
	var data EditData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid edit data")
		return
	}
	if data.Instruction == "" {
		h.sendError(ctx, conn, msg.ID, "empty_instruction", "empty edit instruction")
		return
	}

	in := h.parser.Parse(data.Instruction)
	res := h.mutator.Modify(sess.draft, in, data.Instruction)

	sess.draft = res.Layout
	if !res.Diff.Empty() {
		sess.dirty = true
	}

	h.send(ctx, conn, ServerMessage{
		Type:      "draft",
		RequestID: msg.ID,
		Data: DraftData{
			Intent:    in,
			Layout:    res.Layout,
			Diff:      res.Diff,
			Rationale: res.Rationale,
		},
	})
}

func (h *Handler) handleReset(ctx context.Context, conn *websocket.Conn, sess *session, msg ClientMessage) {
	d, err := h.store.GetDashboard(ctx, sess.dashboardID)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, "load_error", err.Error())
		return
	}
	sess.draft = d.Document
	sess.dirty = false

	h.send(ctx, conn, ServerMessage{
		Type:      "session",
		RequestID: msg.ID,
		Data: SessionData{
			DashboardID: sess.dashboardID,
			Layout:      sess.draft,
		},
	})
}

func (h *Handler) handlePublish(ctx context.Context, conn *websocket.Conn, sess *session, msg ClientMessage) {
	if sess.dirty {
		if err := h.store.UpdateDashboard(ctx, sess.dashboardID, sess.draft); err != nil {
			h.sendError(ctx, conn, msg.ID, "save_error", err.Error())
			return
		}
	}

	p, err := h.store.PublishDashboard(ctx, sess.dashboardID, sess.userID)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, "publish_error", err.Error())
		return
	}
	sess.dirty = false

	h.send(ctx, conn, ServerMessage{
		Type:      "published",
		RequestID: msg.ID,
		Data:      PublishedData{Revision: p.Revision},
	})
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		log.Printf("studio: write error: %v", err)
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: message,
		},
	})
}
