package mutator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/glasspane/glasspane/internal/layout"
	"github.com/glasspane/glasspane/internal/studio/intent"
)

// ModifyResult pairs the new document with the diff against the input and a
// human-readable rationale for review UIs.
type ModifyResult struct {
	Layout    *layout.Document `json:"layout"`
	Diff      *layout.TabDiff  `json:"diff"`
	Rationale string           `json:"rationale"`
}

const genericRationale = "No supported change detected; layout left unchanged."

// Modify applies a structured intent to a document. The input is never
// mutated — the result holds a full structural copy. An intent with no
// matching target degrades to an unchanged copy with a generic rationale so
// an interactive editing session never fails on a misunderstood instruction.
func (m *Mutator) Modify(current *layout.Document, in intent.Intent, description string) *ModifyResult {
	doc := layout.Clone(current)
	rationale := genericRationale

	switch {
	case in.Action == intent.ActionAdd && in.HasTarget("tab") && len(in.Metrics) > 0:
		rationale = m.addTab(doc, in)

	case in.Action == intent.ActionAdd && in.HasWidget("kpi") && len(in.Metrics) > 0:
		rationale = m.addKPIColumns(doc, in)

	case in.Action == intent.ActionRemove && len(in.Metrics) > 0:
		rationale = m.removeByMetric(doc, in)

	case in.Action == intent.ActionPin && len(in.Metrics) > 0 && (in.Position == "left" || in.Position == "right"):
		rationale = m.pinWidget(doc, in)
	}

	return &ModifyResult{
		Layout:    doc,
		Diff:      layout.Diff(current, doc),
		Rationale: rationale,
	}
}

// addTab appends a new tab holding one widget per metric x widget-type
// combination. An instruction that named no widget type gets KPIs.
func (m *Mutator) addTab(doc *layout.Document, in intent.Intent) string {
	widgetTypes := in.Widgets
	if len(widgetTypes) == 0 {
		widgetTypes = []string{"kpi"}
	}

	col := layout.Column{Width: 12}
	for _, metric := range in.Metrics {
		for _, wt := range widgetTypes {
			w := layout.Widget{
				ID:    wt + "-" + slug(metric),
				Type:  layout.WidgetType(wt),
				Title: titleCase(metric),
				Bind:  "metrics." + slug(metric),
			}
			if wt == "chart" && in.Viz != "" {
				w.Viz = in.Viz
			}
			col.Widgets = append(col.Widgets, w)
		}
	}

	title := titleCase(strings.Join(in.Metrics, " & "))
	tab := layout.Tab{
		ID:    "tab-" + strconv.FormatInt(m.now().UnixMilli(), 10),
		Title: title,
		Rows:  []layout.Row{{Columns: []layout.Column{col}}},
	}
	doc.Tabs = append(doc.Tabs, tab)

	return fmt.Sprintf("Added tab '%s' with %d widget(s).", tab.Title, len(col.Widgets))
}

// addKPIColumns appends one width-3 column per metric to the first row of
// the first tab, each holding a single KPI widget.
func (m *Mutator) addKPIColumns(doc *layout.Document, in intent.Intent) string {
	if len(doc.Tabs) == 0 || len(doc.Tabs[0].Rows) == 0 {
		return genericRationale
	}
	row := &doc.Tabs[0].Rows[0]
	for _, metric := range in.Metrics {
		row.Columns = append(row.Columns, layout.Column{
			Width:   3,
			Widgets: []layout.Widget{kpiWidget(metric)},
		})
	}
	return fmt.Sprintf("Added %d KPI widget(s) to '%s'.", len(in.Metrics), doc.Tabs[0].Title)
}

// removeByMetric drops every widget whose bind contains any requested
// metric token. The match is a plain substring check over the normalized
// token — a widget bound to "metrics.revenue_growth" IS removed by a
// request targeting "revenue". That blast radius is part of the documented
// contract; do not tighten it to an exact match.
func (m *Mutator) removeByMetric(doc *layout.Document, in intent.Intent) string {
	tokens := make([]string, len(in.Metrics))
	for i, metric := range in.Metrics {
		tokens[i] = slug(metric)
	}

	removed := 0
	for ti := range doc.Tabs {
		for ri := range doc.Tabs[ti].Rows {
			for ci := range doc.Tabs[ti].Rows[ri].Columns {
				col := &doc.Tabs[ti].Rows[ri].Columns[ci]
				kept := col.Widgets[:0]
				for _, w := range col.Widgets {
					if bindMatchesAny(w.Bind, tokens) {
						removed += 1
						continue
					}
					kept = append(kept, w)
				}
				col.Widgets = kept
			}
		}
	}

	if removed == 0 {
		return genericRationale
	}
	return fmt.Sprintf("Removed %d widget(s) matching %s.", removed, strings.Join(in.Metrics, ", "))
}

// pinWidget moves the first widget matching a requested metric into the
// first row of the first tab: column index 0 for "left", the last column
// for "right". Positions "top" and "bottom" are parsed upstream but have no
// mutation behavior here, so those intents fall through to a no-op copy.
func (m *Mutator) pinWidget(doc *layout.Document, in intent.Intent) string {
	tokens := make([]string, len(in.Metrics))
	for i, metric := range in.Metrics {
		tokens[i] = slug(metric)
	}

	// Validate the destination before detaching anything: bailing out after
	// the detach would drop the widget from the draft.
	if len(doc.Tabs) == 0 || len(doc.Tabs[0].Rows) == 0 || len(doc.Tabs[0].Rows[0].Columns) == 0 {
		return genericRationale
	}
	w, ok := detachFirstMatch(doc, tokens)
	if !ok {
		return genericRationale
	}

	row := &doc.Tabs[0].Rows[0]
	idx := 0
	if in.Position == "right" {
		idx = len(row.Columns) - 1
	}
	row.Columns[idx].Widgets = append(row.Columns[idx].Widgets, w)

	return fmt.Sprintf("Pinned '%s' to the %s of '%s'.", w.Title, in.Position, doc.Tabs[0].Title)
}

// detachFirstMatch removes and returns the first widget anywhere in the
// document whose bind contains one of the tokens.
func detachFirstMatch(doc *layout.Document, tokens []string) (layout.Widget, bool) {
	for ti := range doc.Tabs {
		for ri := range doc.Tabs[ti].Rows {
			for ci := range doc.Tabs[ti].Rows[ri].Columns {
				col := &doc.Tabs[ti].Rows[ri].Columns[ci]
				for wi, w := range col.Widgets {
					if bindMatchesAny(w.Bind, tokens) {
						col.Widgets = append(col.Widgets[:wi], col.Widgets[wi+1:]...)
						return w, true
					}
				}
			}
		}
	}
	return layout.Widget{}, false
}

func bindMatchesAny(bind string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(bind, tok) {
			return true
		}
	}
	return false
}
