package eventbus

import (
	"context"
	"log"

	"github.com/glasspane/glasspane/internal/event"
)

// LogConsumer logs all lifecycle events for observability.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.Event) error {
	log.Printf("event: %s [dashboard=%s user=%s] %s", evt.Type, evt.DashboardID, evt.UserID, evt.Summary)
	return nil
}
