// Package telemetry buffers widget usage events and aggregates them into
// per-widget snapshots consumed by the suggestion engine.
package telemetry

// WidgetStat is the aggregated usage record for one widget.
type WidgetStat struct {
	WidgetID     string `json:"id"`
	Views        int    `json:"views"`
	AgeDays      int    `json:"age_days"`
	ActionClicks int    `json:"action_clicks"`
}

// Snapshot is a point-in-time aggregation over all widgets of a dashboard.
type Snapshot struct {
	Product string       `json:"product,omitempty"`
	Widgets []WidgetStat `json:"widgets"`
}

// Stat returns the entry for the given widget id, or false.
func (s Snapshot) Stat(widgetID string) (WidgetStat, bool) {
	for _, w := range s.Widgets {
		if w.WidgetID == widgetID {
			return w, true
		}
	}
	return WidgetStat{}, false
}
