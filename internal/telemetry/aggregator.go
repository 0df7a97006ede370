package telemetry

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Aggregator folds flushed event batches into per-widget usage counters.
// It implements Sink, so it plugs in directly as the buffer's destination.
// Widget age is measured from the first event seen for that widget.
type Aggregator struct {
	mu      sync.RWMutex
	widgets map[string]*widgetCounters
	now     func() time.Time
}

type widgetCounters struct {
	views        int
	actionClicks int
	firstSeen    time.Time
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{widgets: make(map[string]*widgetCounters), now: time.Now}
}

// NewAggregatorWithClock creates an aggregator with an injected clock, for
// tests.
func NewAggregatorWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{widgets: make(map[string]*widgetCounters), now: now}
}

// Flush folds a batch into the counters. Events without a widget id (for
// instance lifecycle events from the bus) are ignored. Never fails.
func (a *Aggregator) Flush(_ context.Context, events []Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, ev := range events {
		if ev.WidgetID == "" {
			continue
		}
		wc, ok := a.widgets[ev.WidgetID]
		if !ok {
			first := ev.Timestamp
			if first.IsZero() {
				first = a.now().UTC()
			}
			wc = &widgetCounters{firstSeen: first}
			a.widgets[ev.WidgetID] = wc
		}
		switch ev.Kind {
		case EventView:
			wc.views++
		case EventActionClick:
			wc.actionClicks++
		}
	}
	return nil
}

// Snapshot returns the current aggregation, widgets sorted by id.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := a.now().UTC()
	snap := Snapshot{Widgets: make([]WidgetStat, 0, len(a.widgets))}
	for id, wc := range a.widgets {
		snap.Widgets = append(snap.Widgets, WidgetStat{
			WidgetID:     id,
			Views:        wc.views,
			ActionClicks: wc.actionClicks,
			AgeDays:      int(now.Sub(wc.firstSeen).Hours() / 24),
		})
	}
	sort.Slice(snap.Widgets, func(i, j int) bool {
		return snap.Widgets[i].WidgetID < snap.Widgets[j].WidgetID
	})
	return snap
}
