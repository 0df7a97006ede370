package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_Actions(t *testing.T) {
	p := NewKeywordParser()

	tests := []struct {
		text string
		want Action
	}{
		{"add a kpi for revenue", ActionAdd},
		{"create a new tab", ActionAdd},
		{"remove the leads table", ActionRemove},
		{"delete everything about campaigns", ActionRemove},
		{"move the revenue chart", ActionMove},
		{"reorder the tabs", ActionMove},
		{"pin conversion to the left", ActionPin},
		{"lock the revenue widget", ActionPin},
		{"show me something nice", ActionUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Parse(tt.text).Action, "text: %q", tt.text)
	}
}

func TestParse_ActionPrecedence(t *testing.T) {
	p := NewKeywordParser()

	// "add" wins over "remove" when both match, by rule order.
	in := p.Parse("add a chart and remove the table")
	assert.Equal(t, ActionAdd, in.Action)
}

func TestParse_TabTarget(t *testing.T) {
	p := NewKeywordParser()

	assert.True(t, p.Parse("add a new tab for campaigns").HasTarget("tab"))
	assert.False(t, p.Parse("add a kpi for revenue").HasTarget("tab"))
}

func TestParse_WidgetsAccumulate(t *testing.T) {
	p := NewKeywordParser()

	in := p.Parse("add a kpi and a bar chart plus a table")
	assert.ElementsMatch(t, []string{"kpi", "chart", "table"}, in.Widgets)

	in = p.Parse("add a button for campaigns")
	assert.Equal(t, []string{"action"}, in.Widgets)
}

func TestParse_Metrics(t *testing.T) {
	p := NewKeywordParser()

	in := p.Parse("Add KPIs for Reply Rate and Revenue and conversion")
	assert.Equal(t, []string{"reply rate", "revenue", "conversion"}, in.Metrics)

	in = p.Parse("nothing relevant here")
	assert.Empty(t, in.Metrics)
}

func TestParse_Viz(t *testing.T) {
	p := NewKeywordParser()

	assert.Equal(t, "bar", p.Parse("add a bar chart for leads").Viz)
	assert.Equal(t, "line", p.Parse("add a line chart for revenue").Viz)
	assert.Equal(t, "pie", p.Parse("add a pie chart").Viz)
	assert.Empty(t, p.Parse("add a chart").Viz)
}

func TestParse_PositionOrder(t *testing.T) {
	p := NewKeywordParser()

	assert.Equal(t, "top", p.Parse("pin revenue to the top").Position)
	assert.Equal(t, "left", p.Parse("pin revenue on the left").Position)
	assert.Equal(t, "right", p.Parse("pin revenue to the right").Position)
	// top is checked before left, so a sentence with both yields top.
	assert.Equal(t, "top", p.Parse("pin it top left").Position)
	assert.Empty(t, p.Parse("pin revenue").Position)
}

func TestParse_Deterministic(t *testing.T) {
	p := NewKeywordParser()
	text := "add a kpi tab for reply rate and revenue with a bar chart on the left"

	first := p.Parse(text)
	second := p.Parse(text)
	assert.Equal(t, first, second)
}
