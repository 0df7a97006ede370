package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_CountsViewsAndClicks(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	a := NewAggregatorWithClock(func() time.Time { return now })

	firstSeen := now.AddDate(0, 0, -9)
	events := []Event{
		{Kind: EventView, WidgetID: "w1", Timestamp: firstSeen},
		{Kind: EventView, WidgetID: "w1", Timestamp: now},
		{Kind: EventActionClick, WidgetID: "w1", Timestamp: now},
		{Kind: EventView, WidgetID: "w2", Timestamp: now},
		{Kind: EventError, WidgetID: "w2", Timestamp: now},
	}
	require.NoError(t, a.Flush(context.Background(), events))

	snap := a.Snapshot()
	require.Len(t, snap.Widgets, 2)

	w1, ok := snap.Stat("w1")
	require.True(t, ok)
	assert.Equal(t, 2, w1.Views)
	assert.Equal(t, 1, w1.ActionClicks)
	assert.Equal(t, 9, w1.AgeDays)

	w2, ok := snap.Stat("w2")
	require.True(t, ok)
	assert.Equal(t, 1, w2.Views)
	assert.Equal(t, 0, w2.ActionClicks)
	assert.Equal(t, 0, w2.AgeDays)
}

func TestAggregator_IgnoresEventsWithoutWidget(t *testing.T) {
	a := NewAggregator()

	require.NoError(t, a.Flush(context.Background(), []Event{
		{Kind: EventKind("dashboard_published"), UserID: "ana"},
	}))
	assert.Empty(t, a.Snapshot().Widgets)
}

func TestAggregator_AsBufferSink(t *testing.T) {
	a := NewAggregator()
	b := NewBuffer(a, BufferOptions{FlushThreshold: 2})
	ctx := context.Background()

	b.Record(ctx, Event{Kind: EventView, WidgetID: "w1"})
	b.Record(ctx, Event{Kind: EventView, WidgetID: "w1"})

	snap := a.Snapshot()
	w1, ok := snap.Stat("w1")
	require.True(t, ok)
	assert.Equal(t, 2, w1.Views)
}
