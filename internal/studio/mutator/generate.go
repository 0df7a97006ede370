package mutator

import (
	"time"

	"github.com/glasspane/glasspane/internal/layout"
	"github.com/glasspane/glasspane/internal/studio/intent"
)

// maxWidgetsPerColumn is the fill limit used when slotting generated KPI
// widgets into an existing row.
const maxWidgetsPerColumn = 2

// Mutator generates and edits layout documents. The catalog registry is
// consulted only to list available widgets for rationale text — resolution
// stays the gateway's job.
type Mutator struct {
	now func() time.Time
}

// New creates a mutator with the real clock.
func New() *Mutator {
	return &Mutator{now: time.Now}
}

// NewWithClock creates a mutator with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Mutator {
	return &Mutator{now: now}
}

// Generate builds a fresh document for a product from its hardcoded
// template. Unknown products receive a minimal one-tab fallback. The result
// is deterministic for identical inputs apart from meta.created_at.
func (m *Mutator) Generate(product string, skills, integrations []string, in intent.Intent) *layout.Document {
	doc := templateFor(product)

	at := m.now().UTC()
	doc.Meta.CreatedAt = &at

	if len(skills) > 0 {
		if doc.Settings == nil {
			doc.Settings = make(map[string]any)
		}
		enabled := make([]any, len(skills))
		for i, s := range skills {
			enabled[i] = s
		}
		doc.Settings["skills"] = enabled
	}

	if in.Action == intent.ActionAdd && len(in.Metrics) > 0 {
		for _, metric := range in.Metrics {
			appendKPI(doc, metric)
		}
	}

	for _, integration := range integrations {
		doc.Tabs = append(doc.Tabs, integrationTab(integration))
	}

	return doc
}

// appendKPI slots one KPI widget into the first row of the first tab:
// existing columns holding fewer than two widgets are filled first, then a
// new width-3 column is created.
func appendKPI(doc *layout.Document, metric string) {
	if len(doc.Tabs) == 0 || len(doc.Tabs[0].Rows) == 0 {
		return
	}
	row := &doc.Tabs[0].Rows[0]
	w := kpiWidget(metric)

	for i := range row.Columns {
		if len(row.Columns[i].Widgets) < maxWidgetsPerColumn {
			row.Columns[i].Widgets = append(row.Columns[i].Widgets, w)
			return
		}
	}
	row.Columns = append(row.Columns, layout.Column{Width: 3, Widgets: []layout.Widget{w}})
}

func kpiWidget(metric string) layout.Widget {
	return layout.Widget{
		ID:    "kpi-" + slug(metric),
		Type:  layout.WidgetKPI,
		Title: titleCase(metric),
		Bind:  "metrics." + slug(metric),
	}
}

// integrationTab builds the per-integration tab: a full-width table bound
// to the integration's data feed with a Sync action.
func integrationTab(integration string) layout.Tab {
	return layout.Tab{
		ID:    "tab-" + slug(integration),
		Title: titleCase(integration),
		Icon:  "plug",
		Rows: []layout.Row{
			{
				Columns: []layout.Column{
					{Width: 12, Widgets: []layout.Widget{{
						ID:    "table-" + slug(integration),
						Type:  layout.WidgetTable,
						Title: titleCase(integration) + " Data",
						Bind:  integration + ".data",
						Actions: []layout.WidgetAction{
							{Title: "Sync", Bind: "actions.sync_" + integration, Icon: "refresh"},
						},
					}}},
				},
			},
		},
	}
}
