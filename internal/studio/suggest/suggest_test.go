package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glasspane/glasspane/internal/layout"
	"github.com/glasspane/glasspane/internal/telemetry"
)

func usageDocument() *layout.Document {
	return &layout.Document{
		Version: layout.SchemaVersion,
		Meta:    layout.Meta{Title: "Chatbot Dashboard", Product: "chatbot"},
		Tabs: []layout.Tab{
			{
				ID:    "tab-overview",
				Title: "Overview",
				Rows: []layout.Row{
					{
						Columns: []layout.Column{
							{Width: 6, Widgets: []layout.Widget{
								{ID: "w1", Type: layout.WidgetKPI, Title: "Reply Rate", Bind: "metrics.reply_rate"},
								{ID: "w2", Type: layout.WidgetTable, Title: "Campaigns", Bind: "tables.campaigns"},
							}},
							{Width: 6, Widgets: []layout.Widget{
								{ID: "w3", Type: layout.WidgetLog, Title: "Workflow Errors", Bind: "logs.workflows"},
							}},
						},
					},
				},
			},
		},
	}
}

func TestPropose_PruneCombinesStaleWidgets(t *testing.T) {
	doc := usageDocument()
	snap := telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "w1", Views: 3, AgeDays: 10, ActionClicks: 0},
		{WidgetID: "w3", Views: 2, AgeDays: 30, ActionClicks: 0},
	}}

	got := New().Propose(doc, snap)
	require.Len(t, got, 1)

	assert.Nil(t, got[0].Draft.FindWidget("w1"))
	assert.Nil(t, got[0].Draft.FindWidget("w3"))
	assert.NotNil(t, got[0].Draft.FindWidget("w2"))
	require.Len(t, got[0].Diff.TabsModified, 1)
}

func TestPropose_PruneThresholdsAreExact(t *testing.T) {
	doc := usageDocument()

	// Enough views, or not old enough: neither qualifies.
	snap := telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "w1", Views: 15, AgeDays: 10},
		{WidgetID: "w3", Views: 3, AgeDays: 3},
	}}
	assert.Empty(t, New().Propose(doc, snap))

	// Boundary values do not qualify either.
	snap = telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "w1", Views: 10, AgeDays: 10},
		{WidgetID: "w3", Views: 3, AgeDays: 7},
	}}
	assert.Empty(t, New().Propose(doc, snap))
}

func TestPropose_PruneIgnoresUnknownWidgetIDs(t *testing.T) {
	doc := usageDocument()
	snap := telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "gone", Views: 0, AgeDays: 100},
	}}

	assert.Empty(t, New().Propose(doc, snap))
}

func TestPropose_AugmentPerWidget(t *testing.T) {
	doc := usageDocument()
	snap := telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "w2", Views: 500, AgeDays: 2, ActionClicks: 80},
		{WidgetID: "w3", Views: 400, AgeDays: 2, ActionClicks: 60},
	}}

	got := New().Propose(doc, snap)
	require.Len(t, got, 2)

	w2 := got[0].Draft.FindWidget("w2")
	require.Len(t, w2.Actions, 1)
	assert.Equal(t, "Send Follow-ups", w2.Actions[0].Title)

	w3 := got[1].Draft.FindWidget("w3")
	require.Len(t, w3.Actions, 1)
	assert.Equal(t, "Restart", w3.Actions[0].Title)
}

func TestPropose_AugmentSkipsWidgetsWithActions(t *testing.T) {
	doc := usageDocument()
	doc.Tabs[0].Rows[0].Columns[0].Widgets[1].Actions = []layout.WidgetAction{
		{Title: "Send Follow-ups", Bind: "actions.send_followups"},
	}
	snap := telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "w2", Views: 500, AgeDays: 2, ActionClicks: 80},
	}}

	assert.Empty(t, New().Propose(doc, snap))
}

func TestPropose_AugmentClickThresholdIsExact(t *testing.T) {
	doc := usageDocument()
	snap := telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "w2", Views: 500, AgeDays: 2, ActionClicks: 50},
	}}

	assert.Empty(t, New().Propose(doc, snap))
}

func TestPropose_AugmentUnrecognizedBindEmitsEmptyActionSet(t *testing.T) {
	doc := usageDocument()
	snap := telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "w1", Views: 500, AgeDays: 2, ActionClicks: 90},
	}}

	got := New().Propose(doc, snap)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Draft.FindWidget("w1").Actions)
	assert.True(t, got[0].Diff.Empty())
}

func TestPropose_InputNeverMutated(t *testing.T) {
	doc := usageDocument()
	snap := telemetry.Snapshot{Widgets: []telemetry.WidgetStat{
		{WidgetID: "w1", Views: 3, AgeDays: 10},
		{WidgetID: "w2", Views: 500, AgeDays: 2, ActionClicks: 80},
	}}

	_ = New().Propose(doc, snap)

	assert.NotNil(t, doc.FindWidget("w1"))
	assert.Empty(t, doc.FindWidget("w2").Actions)
}
