// Package event defines the dashboard lifecycle events published on the
// in-process bus.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type names a lifecycle event.
type Type string

const (
	DashboardCreated   Type = "dashboard_created"
	DashboardEdited    Type = "dashboard_edited"
	DashboardPublished Type = "dashboard_published"
)

// Event carries the canonical shape of every lifecycle event.
type Event struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	DashboardID string          `json:"dashboard_id"`
	Product     string          `json:"product,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Summary     string          `json:"summary"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

func newID() string { return uuid.New().String() }

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// NewDashboardCreated records the generation of a dashboard.
func NewDashboardCreated(dashboardID, product, userID string) Event {
	return Event{
		ID:          newID(),
		Type:        DashboardCreated,
		DashboardID: dashboardID,
		Product:     product,
		UserID:      userID,
		OccurredAt:  time.Now().UTC(),
		Summary:     fmt.Sprintf("Dashboard generated for product %s", product),
	}
}

// EditedPayload carries event-specific data for DashboardEdited.
type EditedPayload struct {
	Instruction string `json:"instruction"`
	Rationale   string `json:"rationale"`
	TabsAdded   int    `json:"tabs_added"`
	TabsRemoved int    `json:"tabs_removed"`
}

// NewDashboardEdited records an applied edit.
func NewDashboardEdited(dashboardID, userID string, p EditedPayload) Event {
	return Event{
		ID:          newID(),
		Type:        DashboardEdited,
		DashboardID: dashboardID,
		UserID:      userID,
		OccurredAt:  time.Now().UTC(),
		Summary:     fmt.Sprintf("Dashboard edited: %s", p.Rationale),
		Payload:     mustJSON(p),
	}
}

// NewDashboardPublished records a publish with its revision.
func NewDashboardPublished(dashboardID, userID string, revision int) Event {
	return Event{
		ID:          newID(),
		Type:        DashboardPublished,
		DashboardID: dashboardID,
		UserID:      userID,
		OccurredAt:  time.Now().UTC(),
		Summary:     fmt.Sprintf("Dashboard published as revision %d", revision),
		Payload:     mustJSON(map[string]int{"revision": revision}),
	}
}
