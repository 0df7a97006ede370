// Package layout defines the versioned dashboard document model: a document
// is an ordered list of tabs, each tab holds rows of columns, and columns
// hold widgets bound to catalog keys. Documents are plain data — all
// interpretation of a widget's bind string happens in the gateway, and all
// mutation happens in the studio mutator.
package layout

import "time"

// SchemaVersion is the document schema version written by this engine.
const SchemaVersion = "1.0"

// WidgetType enumerates the renderable widget kinds.
type WidgetType string

const (
	WidgetKPI           WidgetType = "kpi"
	WidgetTable         WidgetType = "table"
	WidgetChart         WidgetType = "chart"
	WidgetForm          WidgetType = "form"
	WidgetText          WidgetType = "text"
	WidgetLog           WidgetType = "log"
	WidgetTimeline      WidgetType = "timeline"
	WidgetIframe        WidgetType = "iframe"
	WidgetActionButton  WidgetType = "action"
	WidgetSegmentPicker WidgetType = "segment_picker"
	WidgetDataExplorer  WidgetType = "data_explorer"
)

// Document is a complete dashboard layout. Version and Meta.Product are
// always present; tab order is render order and is preserved by every
// mutation unless a reorder is explicitly requested.
type Document struct {
	Version  string         `json:"version"`
	Meta     Meta           `json:"meta"`
	Tabs     []Tab          `json:"tabs"`
	Theme    string         `json:"theme,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Meta holds document-level descriptive fields.
type Meta struct {
	Title       string     `json:"title"`
	Product     string     `json:"product"`
	Description string     `json:"description,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// Tab is one top-level page of the dashboard. IDs must be unique within a
// document; the engine does not deduplicate — a caller that introduces a
// colliding id produces an ambiguous document.
type Tab struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Icon        string   `json:"icon,omitempty"`
	Rows        []Row    `json:"rows"`
	Permissions []string `json:"permissions,omitempty"`
}

// Row is a horizontal band of columns.
type Row struct {
	Columns []Column `json:"columns"`
	Height  string   `json:"height,omitempty"`
}

// Column occupies Width units of a 12-unit grid. Column widths within a row
// are expected to sum to at most 12; that convention is advisory and never
// validated here.
type Column struct {
	Width   int      `json:"width"`
	Widgets []Widget `json:"widgets"`
}

// Widget is a single bound component. Bind is an opaque dot-path string
// (e.g. "metrics.total_conversations") interpreted only by the gateway
// against a namespace catalog.
type Widget struct {
	ID              string         `json:"id"`
	Type            WidgetType     `json:"type"`
	Title           string         `json:"title"`
	Bind            string         `json:"bind"`
	Viz             string         `json:"viz,omitempty"`
	Actions         []WidgetAction `json:"actions,omitempty"`
	Config          map[string]any `json:"config,omitempty"`
	RefreshInterval int            `json:"refresh_interval,omitempty"`
	Height          string         `json:"height,omitempty"`
	Permissions     []string       `json:"permissions,omitempty"`
}

// WidgetAction is a button attached to a widget. Bind refers to a catalog
// action key, not a read key.
type WidgetAction struct {
	Title        string `json:"title"`
	Bind         string `json:"bind"`
	Icon         string `json:"icon,omitempty"`
	Confirmation string `json:"confirmation,omitempty"`
	Variant      string `json:"variant,omitempty"`
}

// WidgetCount returns the number of widgets across every tab.
func (d *Document) WidgetCount() int {
	n := 0
	for _, t := range d.Tabs {
		for _, r := range t.Rows {
			for _, c := range r.Columns {
				n += len(c.Widgets)
			}
		}
	}
	return n
}

// FindWidget returns the widget with the given id, or nil.
func (d *Document) FindWidget(id string) *Widget {
	for ti := range d.Tabs {
		for ri := range d.Tabs[ti].Rows {
			for ci := range d.Tabs[ti].Rows[ri].Columns {
				col := &d.Tabs[ti].Rows[ri].Columns[ci]
				for wi := range col.Widgets {
					if col.Widgets[wi].ID == id {
						return &col.Widgets[wi]
					}
				}
			}
		}
	}
	return nil
}
