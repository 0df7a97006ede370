package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu      sync.Mutex
	batches [][]Event
	fail    bool
}

func (s *captureSink) Flush(ctx context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink unavailable")
	}
	batch := make([]Event, len(events))
	copy(batch, events)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *captureSink) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func fixedNow() func() time.Time {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestBuffer_FlushesAtThreshold(t *testing.T) {
	sink := &captureSink{}
	b := NewBuffer(sink, BufferOptions{FlushThreshold: 5, Now: fixedNow()})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		b.Record(ctx, Event{Kind: EventView, WidgetID: "w1"})
	}
	assert.Equal(t, 0, sink.batchCount())
	assert.Equal(t, 4, b.Len())

	b.Record(ctx, Event{Kind: EventView, WidgetID: "w1"})
	require.Equal(t, 1, sink.batchCount())
	assert.Len(t, sink.batches[0], 5)
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_ErrorEventFlushesImmediately(t *testing.T) {
	sink := &captureSink{}
	b := NewBuffer(sink, BufferOptions{FlushThreshold: 100, Now: fixedNow()})
	ctx := context.Background()

	b.Record(ctx, Event{Kind: EventView, WidgetID: "w1"})
	assert.Equal(t, 0, sink.batchCount())

	b.Record(ctx, Event{Kind: EventError, WidgetID: "w1"})
	require.Equal(t, 1, sink.batchCount())
	assert.Len(t, sink.batches[0], 2)
}

func TestBuffer_FailedFlushRequeuesAtFront(t *testing.T) {
	sink := &captureSink{fail: true}
	b := NewBuffer(sink, BufferOptions{FlushThreshold: 100, Now: fixedNow()})
	ctx := context.Background()

	b.Record(ctx, Event{Kind: EventView, WidgetID: "w1"})
	b.Record(ctx, Event{Kind: EventView, WidgetID: "w2"})
	require.Error(t, b.Flush(ctx))
	assert.Equal(t, 2, b.Len())

	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()

	b.Record(ctx, Event{Kind: EventView, WidgetID: "w3"})
	require.NoError(t, b.Flush(ctx))
	require.Equal(t, 1, sink.batchCount())
	require.Len(t, sink.batches[0], 3)
	assert.Equal(t, "w1", sink.batches[0][0].WidgetID)
	assert.Equal(t, "w3", sink.batches[0][2].WidgetID)
}

func TestBuffer_CapDropsOldest(t *testing.T) {
	sink := &captureSink{fail: true}
	b := NewBuffer(sink, BufferOptions{FlushThreshold: 100, MaxPending: 3, Now: fixedNow()})
	ctx := context.Background()

	for _, id := range []string{"w1", "w2", "w3", "w4", "w5"} {
		b.Record(ctx, Event{Kind: EventView, WidgetID: id})
	}

	assert.Equal(t, 3, b.Len())

	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()

	require.NoError(t, b.Flush(ctx))
	require.Len(t, sink.batches[0], 3)
	assert.Equal(t, "w3", sink.batches[0][0].WidgetID)
	assert.Equal(t, "w5", sink.batches[0][2].WidgetID)
}

func TestBuffer_FlushEmptyIsNoOp(t *testing.T) {
	sink := &captureSink{}
	b := NewBuffer(sink, BufferOptions{Now: fixedNow()})

	require.NoError(t, b.Flush(context.Background()))
	assert.Equal(t, 0, sink.batchCount())
}

func TestBuffer_StampsMissingTimestamps(t *testing.T) {
	sink := &captureSink{}
	b := NewBuffer(sink, BufferOptions{FlushThreshold: 1, Now: fixedNow()})

	b.Record(context.Background(), Event{Kind: EventView, WidgetID: "w1"})
	require.Equal(t, 1, sink.batchCount())
	assert.Equal(t, fixedNow()(), sink.batches[0][0].Timestamp)
}

func TestSnapshot_Stat(t *testing.T) {
	snap := Snapshot{Widgets: []WidgetStat{{WidgetID: "w1", Views: 3, AgeDays: 10}}}

	got, ok := snap.Stat("w1")
	require.True(t, ok)
	assert.Equal(t, 3, got.Views)

	_, ok = snap.Stat("missing")
	assert.False(t, ok)
}
