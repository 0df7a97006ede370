// Package mutator generates dashboard documents from per-product templates
// and applies structured edit intents to existing documents, always
// returning a fresh document paired with a tab-level diff.
package mutator

import (
	"strings"

	"github.com/glasspane/glasspane/internal/layout"
)

// templateFor returns a fresh document for a known product, or a minimal
// one-tab fallback for anything else. Widget ids in templates are stable
// slugs so generation is deterministic.
func templateFor(product string) *layout.Document {
	switch product {
	case "chatbot":
		return chatbotTemplate()
	case "ops-agent":
		return opsAgentTemplate()
	case "data-insights":
		return dataInsightsTemplate()
	default:
		return fallbackTemplate(product)
	}
}

func chatbotTemplate() *layout.Document {
	return &layout.Document{
		Version: layout.SchemaVersion,
		Meta: layout.Meta{
			Title:   "Chatbot Dashboard",
			Product: "chatbot",
		},
		Tabs: []layout.Tab{
			{
				ID:    "tab-overview",
				Title: "Overview",
				Icon:  "home",
				Rows: []layout.Row{
					{
						Columns: []layout.Column{
							{Width: 3, Widgets: []layout.Widget{{
								ID:    "kpi-total-conversations",
								Type:  layout.WidgetKPI,
								Title: "Conversations",
								Bind:  "metrics.total_conversations",
							}}},
							{Width: 3, Widgets: []layout.Widget{{
								ID:    "kpi-reply-rate",
								Type:  layout.WidgetKPI,
								Title: "Reply Rate",
								Bind:  "metrics.reply_rate",
							}}},
							{Width: 6, Widgets: []layout.Widget{{
								ID:    "chart-conversations",
								Type:  layout.WidgetChart,
								Title: "Conversations Over Time",
								Bind:  "metrics.conversations_by_day",
								Viz:   "line",
							}}},
						},
					},
					{
						Columns: []layout.Column{
							{Width: 12, Widgets: []layout.Widget{{
								ID:    "table-conversations",
								Type:  layout.WidgetTable,
								Title: "Recent Conversations",
								Bind:  "tables.conversations",
							}}},
						},
					},
				},
			},
			{
				ID:    "tab-campaigns",
				Title: "Campaigns",
				Icon:  "send",
				Rows: []layout.Row{
					{
						Columns: []layout.Column{
							{Width: 12, Widgets: []layout.Widget{{
								ID:    "table-campaigns",
								Type:  layout.WidgetTable,
								Title: "Campaigns",
								Bind:  "tables.campaigns",
								Actions: []layout.WidgetAction{
									{Title: "Send Follow-ups", Bind: "actions.send_followups", Variant: "primary"},
								},
							}}},
						},
					},
				},
			},
		},
	}
}

func opsAgentTemplate() *layout.Document {
	return &layout.Document{
		Version: layout.SchemaVersion,
		Meta: layout.Meta{
			Title:   "Ops Agent Dashboard",
			Product: "ops-agent",
		},
		Tabs: []layout.Tab{
			{
				ID:    "tab-workflows",
				Title: "Workflows",
				Icon:  "activity",
				Rows: []layout.Row{
					{
						Columns: []layout.Column{
							{Width: 3, Widgets: []layout.Widget{{
								ID:    "kpi-active-workflows",
								Type:  layout.WidgetKPI,
								Title: "Active Workflows",
								Bind:  "metrics.active_workflows",
							}}},
							{Width: 9, Widgets: []layout.Widget{{
								ID:    "timeline-runs",
								Type:  layout.WidgetTimeline,
								Title: "Recent Runs",
								Bind:  "tables.workflow_runs",
							}}},
						},
					},
					{
						Columns: []layout.Column{
							{Width: 12, Widgets: []layout.Widget{{
								ID:    "log-errors",
								Type:  layout.WidgetLog,
								Title: "Error Log",
								Bind:  "logs.workflow_errors",
								Actions: []layout.WidgetAction{
									{Title: "Restart", Bind: "actions.restart_workflow", Confirmation: "Restart this workflow?"},
								},
							}}},
						},
					},
				},
			},
		},
	}
}

func dataInsightsTemplate() *layout.Document {
	return &layout.Document{
		Version: layout.SchemaVersion,
		Meta: layout.Meta{
			Title:   "Data Insights Dashboard",
			Product: "data-insights",
		},
		Tabs: []layout.Tab{
			{
				ID:    "tab-insights",
				Title: "Insights",
				Icon:  "bar-chart",
				Rows: []layout.Row{
					{
						Columns: []layout.Column{
							{Width: 4, Widgets: []layout.Widget{{
								ID:    "kpi-revenue",
								Type:  layout.WidgetKPI,
								Title: "Revenue",
								Bind:  "metrics.revenue",
							}}},
							{Width: 8, Widgets: []layout.Widget{{
								ID:    "chart-revenue",
								Type:  layout.WidgetChart,
								Title: "Revenue Trend",
								Bind:  "metrics.revenue_by_week",
								Viz:   "bar",
							}}},
						},
					},
					{
						Columns: []layout.Column{
							{Width: 12, Widgets: []layout.Widget{{
								ID:    "explorer-segments",
								Type:  layout.WidgetDataExplorer,
								Title: "Segment Explorer",
								Bind:  "tables.segments",
							}}},
						},
					},
				},
			},
		},
	}
}

func fallbackTemplate(product string) *layout.Document {
	return &layout.Document{
		Version: layout.SchemaVersion,
		Meta: layout.Meta{
			Title:   titleCase(product) + " Dashboard",
			Product: product,
		},
		Tabs: []layout.Tab{
			{
				ID:    "tab-main",
				Title: "Main",
				Rows: []layout.Row{
					{
						Columns: []layout.Column{
							{Width: 12, Widgets: []layout.Widget{{
								ID:    "text-welcome",
								Type:  layout.WidgetText,
								Title: "Welcome",
								Bind:  "static.welcome",
							}}},
						},
					},
				},
			},
		},
	}
}

// slug normalizes a metric name to its bind form ("reply rate" -> "reply_rate").
func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// titleCase uppercases the first letter of each space- or dash-separated word.
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
