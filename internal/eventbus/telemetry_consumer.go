package eventbus

import (
	"context"

	"github.com/glasspane/glasspane/internal/event"
	"github.com/glasspane/glasspane/internal/telemetry"
)

// TelemetryConsumer feeds lifecycle events into the telemetry buffer so
// authoring activity shows up alongside widget usage.
type TelemetryConsumer struct {
	buffer *telemetry.Buffer
}

func NewTelemetryConsumer(b *telemetry.Buffer) *TelemetryConsumer {
	return &TelemetryConsumer{buffer: b}
}

func (c *TelemetryConsumer) HandleEvent(ctx context.Context, evt event.Event) error {
	c.buffer.Record(ctx, telemetry.Event{
		Kind:      telemetry.EventKind(evt.Type),
		UserID:    evt.UserID,
		Timestamp: evt.OccurredAt,
		Detail: map[string]any{
			"dashboard_id": evt.DashboardID,
			"summary":      evt.Summary,
		},
	})
	return nil
}
