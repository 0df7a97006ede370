package telemetry

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// EventKind classifies a telemetry event.
type EventKind string

const (
	EventView        EventKind = "widget_view"
	EventActionClick EventKind = "action_click"
	EventError       EventKind = "error"
)

// Event is a single usage occurrence reported by the UI.
type Event struct {
	Kind      EventKind      `json:"kind"`
	WidgetID  string         `json:"widget_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Sink receives flushed event batches. Implementations must tolerate
// being called again with events they already saw, since a failed flush
// re-queues its batch.
type Sink interface {
	Flush(ctx context.Context, events []Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, events []Event) error

func (f SinkFunc) Flush(ctx context.Context, events []Event) error { return f(ctx, events) }

const (
	defaultFlushThreshold = 100
	defaultFlushInterval  = 30 * time.Second
	defaultMaxPending     = 1000
)

// BufferOptions tunes the buffer. Zero values take the defaults above.
type BufferOptions struct {
	FlushThreshold int
	FlushInterval  time.Duration
	MaxPending     int
	Now            func() time.Time
}

// Buffer accumulates events and flushes them to a sink when the batch
// threshold is reached, when the flush interval elapses, or immediately on
// an error event. A failed flush puts its batch back at the front of the
// queue; the queue is bounded, dropping the oldest events past MaxPending.
type Buffer struct {
	mu      sync.Mutex
	pending []Event
	dropped int

	sink      Sink
	threshold int
	interval  time.Duration
	maxQueued int
	now       func() time.Time
}

// NewBuffer creates a buffer flushing into sink.
func NewBuffer(sink Sink, opts BufferOptions) *Buffer {
	if opts.FlushThreshold <= 0 {
		opts.FlushThreshold = defaultFlushThreshold
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = defaultFlushInterval
	}
	if opts.MaxPending <= 0 {
		opts.MaxPending = defaultMaxPending
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Buffer{
		sink:      sink,
		threshold: opts.FlushThreshold,
		interval:  opts.FlushInterval,
		maxQueued: opts.MaxPending,
		now:       opts.Now,
	}
}

// Record queues an event. Reaching the batch threshold or recording an
// error event flushes synchronously with a single attempt; a failure just
// leaves the batch queued for the next timer tick.
func (b *Buffer) Record(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = b.now().UTC()
	}

	b.mu.Lock()
	b.pending = append(b.pending, ev)
	b.enforceCap()
	shouldFlush := len(b.pending) >= b.threshold || ev.Kind == EventError
	b.mu.Unlock()

	if shouldFlush {
		if err := b.Flush(ctx); err != nil {
			log.Printf("telemetry: flush of %d event(s) failed, re-queued: %v", b.Len(), err)
		}
	}
}

// Len reports the number of queued events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush sends every queued event to the sink in one batch. On failure the
// batch goes back to the front of the queue, ahead of anything recorded
// while the flush was in flight.
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return nil
	}
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if err := b.sink.Flush(ctx, batch); err != nil {
		b.mu.Lock()
		b.pending = append(batch, b.pending...)
		b.enforceCap()
		b.mu.Unlock()
		return err
	}
	return nil
}

// Run drives the interval flush until ctx is cancelled, then performs one
// final drain. Interval flushes retry with exponential backoff so a
// briefly unavailable sink does not shed events.
func (b *Buffer) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := b.Flush(context.Background()); err != nil {
				log.Printf("telemetry: final drain failed, %d event(s) lost: %v", b.Len(), err)
			}
			return
		case <-ticker.C:
			policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
			if err := backoff.Retry(func() error { return b.Flush(ctx) }, policy); err != nil {
				log.Printf("telemetry: interval flush failed after retries: %v", err)
			}
		}
	}
}

// enforceCap drops the oldest events past maxQueued. Callers hold mu.
func (b *Buffer) enforceCap() {
	if over := len(b.pending) - b.maxQueued; over > 0 {
		b.pending = b.pending[over:]
		b.dropped += over
		log.Printf("telemetry: queue over capacity, dropped %d oldest event(s)", over)
	}
}
