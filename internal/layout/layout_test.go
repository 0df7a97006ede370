package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return &Document{
		Version: SchemaVersion,
		Meta: Meta{
			Title:     "Chatbot Overview",
			Product:   "chatbot",
			CreatedBy: "system",
			CreatedAt: &created,
			Tags:      []string{"default"},
		},
		Tabs: []Tab{
			{
				ID:    "tab-overview",
				Title: "Overview",
				Icon:  "home",
				Rows: []Row{
					{
						Columns: []Column{
							{Width: 3, Widgets: []Widget{{
								ID:    "w-conv",
								Type:  WidgetKPI,
								Title: "Conversations",
								Bind:  "metrics.total_conversations",
							}}},
							{Width: 9, Widgets: []Widget{{
								ID:    "w-table",
								Type:  WidgetTable,
								Title: "Recent",
								Bind:  "tables.conversations",
								Actions: []WidgetAction{
									{Title: "Archive", Bind: "actions.archive", Confirmation: "Archive this conversation?"},
								},
							}}},
						},
					},
				},
			},
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := ToJSON(doc)
	require.NoError(t, err)

	got, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestFromJSON_Malformed(t *testing.T) {
	_, err := FromJSON([]byte(`{"version": "1.0", "tabs": [`))
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestFromJSON_MissingProduct(t *testing.T) {
	_, err := FromJSON([]byte(`{"version":"1.0","meta":{"title":"x"},"tabs":[]}`))
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestClone_NoAliasing(t *testing.T) {
	doc := sampleDocument()
	cp := Clone(doc)

	require.Equal(t, doc, cp)

	cp.Tabs[0].Rows[0].Columns[0].Widgets[0].Title = "Changed"
	cp.Tabs[0].Title = "Changed"
	cp.Meta.Tags[0] = "changed"

	assert.Equal(t, "Conversations", doc.Tabs[0].Rows[0].Columns[0].Widgets[0].Title)
	assert.Equal(t, "Overview", doc.Tabs[0].Title)
	assert.Equal(t, "default", doc.Meta.Tags[0])
}

func TestDiff_Idempotent(t *testing.T) {
	doc := sampleDocument()
	d := Diff(doc, doc)

	assert.False(t, d.Version)
	assert.Empty(t, d.TabsAdded)
	assert.Empty(t, d.TabsRemoved)
	assert.Empty(t, d.TabsModified)
	assert.True(t, d.Empty())
}

func TestDiff_AddedRemovedModified(t *testing.T) {
	oldDoc := sampleDocument()
	newDoc := Clone(oldDoc)

	// Modify the existing tab, add a new one, and remove nothing yet.
	newDoc.Tabs[0].Title = "Renamed"
	newDoc.Tabs = append(newDoc.Tabs, Tab{ID: "tab-extra", Title: "Extra"})

	d := Diff(oldDoc, newDoc)
	require.Len(t, d.TabsAdded, 1)
	assert.Equal(t, "tab-extra", d.TabsAdded[0].ID)
	require.Len(t, d.TabsModified, 1)
	assert.Equal(t, "tab-overview", d.TabsModified[0].ID)
	assert.Empty(t, d.TabsRemoved)

	// Removal is, by symmetry, the reverse comparison.
	rd := Diff(newDoc, oldDoc)
	require.Len(t, rd.TabsRemoved, 1)
	assert.Equal(t, "tab-extra", rd.TabsRemoved[0].ID)
}

func TestWidgetCountAndFind(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, 2, doc.WidgetCount())

	w := doc.FindWidget("w-table")
	require.NotNil(t, w)
	assert.Equal(t, WidgetTable, w.Type)

	assert.Nil(t, doc.FindWidget("nope"))
}

func TestClone_PreservesNilSlices(t *testing.T) {
	doc := &Document{
		Version: SchemaVersion,
		Meta:    Meta{Title: "Bare", Product: "chatbot"},
		Tabs: []Tab{
			{ID: "tab-empty", Title: "Empty"},
			{ID: "tab-thin", Title: "Thin", Rows: []Row{{}}},
		},
	}
	cp := Clone(doc)

	// Nil slices must stay nil so the clone serializes identically and an
	// untouched clone diffs empty against the original.
	assert.Nil(t, cp.Tabs[0].Rows)
	assert.Nil(t, cp.Tabs[1].Rows[0].Columns)

	orig, err := ToJSON(doc)
	require.NoError(t, err)
	cloned, err := ToJSON(cp)
	require.NoError(t, err)
	assert.Equal(t, string(orig), string(cloned))

	assert.True(t, Diff(doc, cp).Empty())
}

func TestWidgetActionButtonType(t *testing.T) {
	w := Widget{
		ID:      "btn-sync",
		Type:    WidgetActionButton,
		Title:   "Sync",
		Actions: []WidgetAction{{Title: "Sync now", Bind: "actions.sync_salesforce"}},
	}
	assert.Equal(t, WidgetType("action"), w.Type)
	assert.Equal(t, "actions.sync_salesforce", w.Actions[0].Bind)
}
