package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/glasspane/glasspane/internal/gateway"
	"github.com/glasspane/glasspane/internal/layout"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	at := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	s := NewWithClock(db, func() time.Time { return at })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testDocument() *layout.Document {
	return &layout.Document{
		Version: layout.SchemaVersion,
		Meta:    layout.Meta{Title: "Chatbot Dashboard", Product: "chatbot"},
		Tabs: []layout.Tab{
			{ID: "tab-overview", Title: "Overview", Rows: []layout.Row{
				{Columns: []layout.Column{{Width: 12, Widgets: []layout.Widget{
					{ID: "kpi-reply-rate", Type: layout.WidgetKPI, Title: "Reply Rate", Bind: "metrics.reply_rate"},
				}}}},
			}},
		},
	}
}

func TestSaveAndGetDashboard(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved, err := s.SaveDashboard(ctx, "chatbot", testDocument())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.GetDashboard(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "chatbot", got.Product)
	assert.Equal(t, testDocument(), got.Document)
}

func TestGetDashboard_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetDashboard(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDashboard(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved, err := s.SaveDashboard(ctx, "chatbot", testDocument())
	require.NoError(t, err)

	doc := testDocument()
	doc.Meta.Title = "Renamed"
	require.NoError(t, s.UpdateDashboard(ctx, saved.ID, doc))

	got, err := s.GetDashboard(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Document.Meta.Title)

	assert.ErrorIs(t, s.UpdateDashboard(ctx, "missing", doc), ErrNotFound)
}

func TestListDashboards_ProductFilter(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveDashboard(ctx, "chatbot", testDocument())
	require.NoError(t, err)
	_, err = s.SaveDashboard(ctx, "ops-agent", testDocument())
	require.NoError(t, err)

	all, err := s.ListDashboards(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	chatbot, err := s.ListDashboards(ctx, "chatbot")
	require.NoError(t, err)
	require.Len(t, chatbot, 1)
	assert.Equal(t, "chatbot", chatbot[0].Product)
}

func TestPublishDashboard_RevisionsIncrement(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved, err := s.SaveDashboard(ctx, "chatbot", testDocument())
	require.NoError(t, err)

	first, err := s.PublishDashboard(ctx, saved.ID, "ana")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Revision)

	second, err := s.PublishDashboard(ctx, saved.ID, "ana")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Revision)

	history, err := s.PublishHistory(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Revision)
	assert.Equal(t, "ana", history[0].PublishedBy)
}

func TestPublishDashboard_UnknownID(t *testing.T) {
	s := testStore(t)

	_, err := s.PublishDashboard(context.Background(), "missing", "ana")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendAuditEntry(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	entry := gateway.AuditEntry{
		Namespace: "chatbot",
		Action:    "send_campaign",
		Params:    map[string]any{"campaign_id": "c-1"},
		UserID:    "u-1",
		Timestamp: time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, s.Append(ctx, entry))

	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log WHERE namespace = ? AND action = ?`, "chatbot", "send_campaign")
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}
