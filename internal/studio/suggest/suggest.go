// Package suggest proposes layout changes from widget usage telemetry.
package suggest

import (
	"fmt"
	"strings"

	"github.com/glasspane/glasspane/internal/layout"
	"github.com/glasspane/glasspane/internal/telemetry"
)

// Usage thresholds. These are contract values shared with the UI's
// compatibility tests; changing them changes which suggestions appear.
const (
	pruneMaxViews    = 10
	pruneMinAgeDays  = 7
	augmentMinClicks = 50
)

// Suggestion pairs a candidate document with the diff against the current
// one and a rationale shown to the user for review.
type Suggestion struct {
	Draft     *layout.Document `json:"draft_layout"`
	Rationale string           `json:"rationale"`
	Diff      *layout.TabDiff  `json:"diff"`
}

// Engine derives suggestions from a telemetry snapshot. It is stateless;
// Propose is a pure function of its inputs.
type Engine struct{}

// New creates an engine.
func New() *Engine { return &Engine{} }

// Propose runs both suggestion rules against the document and returns zero
// or more candidates. The input document is never mutated.
func (e *Engine) Propose(doc *layout.Document, snap telemetry.Snapshot) []*Suggestion {
	var out []*Suggestion
	if s := e.pruneLowUsage(doc, snap); s != nil {
		out = append(out, s)
	}
	out = append(out, e.augmentHighEngagement(doc, snap)...)
	return out
}

// pruneLowUsage removes every widget that is both stale and rarely viewed
// in one combined suggestion, or returns nil when nothing qualifies.
func (e *Engine) pruneLowUsage(doc *layout.Document, snap telemetry.Snapshot) *Suggestion {
	stale := make(map[string]bool)
	for _, stat := range snap.Widgets {
		if stat.Views < pruneMaxViews && stat.AgeDays > pruneMinAgeDays {
			stale[stat.WidgetID] = true
		}
	}
	if len(stale) == 0 {
		return nil
	}

	draft := layout.Clone(doc)
	var removed []string
	for ti := range draft.Tabs {
		for ri := range draft.Tabs[ti].Rows {
			for ci := range draft.Tabs[ti].Rows[ri].Columns {
				col := &draft.Tabs[ti].Rows[ri].Columns[ci]
				kept := col.Widgets[:0]
				for _, w := range col.Widgets {
					if stale[w.ID] {
						removed = append(removed, w.ID)
						continue
					}
					kept = append(kept, w)
				}
				col.Widgets = kept
			}
		}
	}
	if len(removed) == 0 {
		return nil
	}

	return &Suggestion{
		Draft: draft,
		Rationale: fmt.Sprintf("Remove %d rarely used widget(s) (%s): fewer than %d views and older than %d days.",
			len(removed), strings.Join(removed, ", "), pruneMaxViews, pruneMinAgeDays),
		Diff: layout.Diff(doc, draft),
	}
}

// augmentHighEngagement proposes, per heavily clicked widget without
// actions, an action set guessed from the widget's bind string.
func (e *Engine) augmentHighEngagement(doc *layout.Document, snap telemetry.Snapshot) []*Suggestion {
	var out []*Suggestion
	for _, stat := range snap.Widgets {
		if stat.ActionClicks <= augmentMinClicks {
			continue
		}
		current := doc.FindWidget(stat.WidgetID)
		if current == nil || len(current.Actions) > 0 {
			continue
		}

		draft := layout.Clone(doc)
		w := draft.FindWidget(stat.WidgetID)
		w.Actions = heuristicActions(w.Bind)

		out = append(out, &Suggestion{
			Draft: draft,
			Rationale: fmt.Sprintf("Widget '%s' has %d action clicks but no actions; add %d suggested action(s).",
				stat.WidgetID, stat.ActionClicks, len(w.Actions)),
			Diff: layout.Diff(doc, draft),
		})
	}
	return out
}

// heuristicActions maps a bind string to a canned action set by substring.
// An unrecognized bind yields no actions; the suggestion is still emitted
// so the UI can show the engagement signal.
func heuristicActions(bind string) []layout.WidgetAction {
	switch {
	case strings.Contains(bind, "campaigns"):
		return []layout.WidgetAction{{Title: "Send Follow-ups", Bind: "actions.send_followups", Variant: "primary"}}
	case strings.Contains(bind, "workflows"):
		return []layout.WidgetAction{{Title: "Restart", Bind: "actions.restart_workflow", Confirmation: "Restart this workflow?"}}
	case strings.Contains(bind, "insights"):
		return []layout.WidgetAction{{Title: "Export", Bind: "actions.export_data"}}
	default:
		return nil
	}
}
