// Package wire defines the WebSocket protocol for the live edit studio.
package wire

import (
	"encoding/json"

	"github.com/glasspane/glasspane/internal/layout"
	"github.com/glasspane/glasspane/internal/studio/intent"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // "edit", "reset", "publish", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// EditData is the payload for "edit" messages.
type EditData struct {
	Instruction string `json:"instruction"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "session", "draft", "published", "error", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData is sent once after connect with the working document.
type SessionData struct {
	DashboardID string           `json:"dashboard_id"`
	Layout      *layout.Document `json:"layout"`
}

// DraftData carries the result of applying one edit instruction to the
// session's working draft.
type DraftData struct {
	Intent    intent.Intent    `json:"intent"`
	Layout    *layout.Document `json:"layout"`
	Diff      *layout.TabDiff  `json:"diff"`
	Rationale string           `json:"rationale"`
}

// PublishedData confirms a publish with the recorded revision.
type PublishedData struct {
	Revision int `json:"revision"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
