// Package store persists dashboard documents, their publish history, and
// the action audit log in sqlite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/glasspane/glasspane/internal/gateway"
	"github.com/glasspane/glasspane/internal/layout"
)

// ErrNotFound is returned when a dashboard id has no row.
var ErrNotFound = errors.New("store: dashboard not found")

// Dashboard is one stored document with its identity and timestamps.
type Dashboard struct {
	ID        string           `json:"id"`
	Product   string           `json:"product"`
	Document  *layout.Document `json:"document"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Publish is one entry in a dashboard's publish history.
type Publish struct {
	ID          int64     `json:"id"`
	DashboardID string    `json:"dashboard_id"`
	Revision    int       `json:"revision"`
	PublishedBy string    `json:"published_by"`
	PublishedAt time.Time `json:"published_at"`
}

// Store wraps a sqlite handle. It also implements gateway.AuditSink.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// NewWithClock wraps a handle with an injected clock, for tests.
func NewWithClock(db *sql.DB, now func() time.Time) *Store {
	return &Store{db: db, now: now}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS dashboards (
		id         TEXT PRIMARY KEY,
		product    TEXT NOT NULL,
		document   TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS publishes (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		dashboard_id TEXT NOT NULL REFERENCES dashboards(id),
		revision     INTEGER NOT NULL,
		document     TEXT NOT NULL,
		published_by TEXT NOT NULL,
		published_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		namespace   TEXT NOT NULL,
		action      TEXT NOT NULL,
		params      TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		occurred_at TIMESTAMP NOT NULL
	)`,
}

// Migrate creates the tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// SaveDashboard inserts a new dashboard and returns its generated id.
// Documents with colliding tab ids are stored as-is but logged, since the
// engine never deduplicates and such documents render ambiguously.
func (s *Store) SaveDashboard(ctx context.Context, product string, doc *layout.Document) (*Dashboard, error) {
	warnDuplicateTabs(doc)

	raw, err := layout.ToJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	d := &Dashboard{
		ID:        uuid.NewString(),
		Product:   product,
		Document:  doc,
		CreatedAt: s.now().UTC(),
	}
	d.UpdatedAt = d.CreatedAt

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dashboards (id, product, document, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Product, string(raw), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting dashboard: %w", err)
	}
	return d, nil
}

// UpdateDashboard replaces a stored document.
func (s *Store) UpdateDashboard(ctx context.Context, id string, doc *layout.Document) error {
	warnDuplicateTabs(doc)

	raw, err := layout.ToJSON(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE dashboards SET document = ?, updated_at = ? WHERE id = ?`,
		string(raw), s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating dashboard: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDashboard loads one dashboard by id.
func (s *Store) GetDashboard(ctx context.Context, id string) (*Dashboard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, product, document, created_at, updated_at FROM dashboards WHERE id = ?`, id)
	return scanDashboard(row)
}

// ListDashboards returns every dashboard, newest first. Product filters
// when non-empty.
func (s *Store) ListDashboards(ctx context.Context, product string) ([]*Dashboard, error) {
	query := `SELECT id, product, document, created_at, updated_at FROM dashboards ORDER BY updated_at DESC`
	args := []any{}
	if product != "" {
		query = `SELECT id, product, document, created_at, updated_at FROM dashboards WHERE product = ? ORDER BY updated_at DESC`
		args = append(args, product)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dashboards: %w", err)
	}
	defer rows.Close()

	var out []*Dashboard
	for rows.Next() {
		d, err := scanDashboard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// PublishDashboard snapshots the current document into the publish history
// and returns the new revision number.
func (s *Store) PublishDashboard(ctx context.Context, id, publishedBy string) (*Publish, error) {
	d, err := s.GetDashboard(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := layout.ToJSON(d.Document)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	p := &Publish{
		DashboardID: id,
		PublishedBy: publishedBy,
		PublishedAt: s.now().UTC(),
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(revision), 0) + 1 FROM publishes WHERE dashboard_id = ?`, id)
	if err := row.Scan(&p.Revision); err != nil {
		return nil, fmt.Errorf("next revision: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO publishes (dashboard_id, revision, document, published_by, published_at) VALUES (?, ?, ?, ?, ?)`,
		p.DashboardID, p.Revision, string(raw), p.PublishedBy, p.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting publish: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PublishHistory lists a dashboard's publishes, newest first.
func (s *Store) PublishHistory(ctx context.Context, id string) ([]*Publish, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dashboard_id, revision, published_by, published_at FROM publishes WHERE dashboard_id = ? ORDER BY revision DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("listing publishes: %w", err)
	}
	defer rows.Close()

	var out []*Publish
	for rows.Next() {
		p := &Publish{}
		if err := rows.Scan(&p.ID, &p.DashboardID, &p.Revision, &p.PublishedBy, &p.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Append writes one audit record. Implements gateway.AuditSink.
func (s *Store) Append(ctx context.Context, entry gateway.AuditEntry) error {
	params, err := json.Marshal(entry.Params)
	if err != nil {
		return fmt.Errorf("encoding audit params: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_log (namespace, action, params, user_id, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		entry.Namespace, entry.Action, string(params), entry.UserID, entry.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDashboard(row rowScanner) (*Dashboard, error) {
	d := &Dashboard{}
	var raw string
	if err := row.Scan(&d.ID, &d.Product, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning dashboard: %w", err)
	}
	doc, err := layout.FromJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding stored document: %w", err)
	}
	d.Document = doc
	return d, nil
}

// warnDuplicateTabs logs when a document carries colliding tab ids.
func warnDuplicateTabs(doc *layout.Document) {
	seen := make(map[string]bool, len(doc.Tabs))
	for _, t := range doc.Tabs {
		if seen[t.ID] {
			log.Printf("store: document %q has duplicate tab id %q", doc.Meta.Title, t.ID)
		}
		seen[t.ID] = true
	}
}
