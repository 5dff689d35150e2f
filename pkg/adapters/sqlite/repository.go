// Package sqlite stores documents in a single SQLite table, one row per
// document, with metadata kept as a JSON column.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/memodesk/pkg/core"
)

// timeLayout sorts lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	metadata   TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_created ON documents (collection, created_at, id);
`

// Open opens (or creates) a database file using the pure Go driver.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Serialize writers; sqlite allows a single writer anyway.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Repository implements core.Repository for one collection.
type Repository struct {
	db         *sql.DB
	collection string
	logger     *slog.Logger
}

// NewRepository binds a repository to a collection in db.
func NewRepository(db *sql.DB, collection string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, collection: collection, logger: logger}
}

// Initialize runs the schema migration.
func (r *Repository) Initialize(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate documents table: %w", err)
	}
	return nil
}

// Save upserts doc.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if doc.ID == "" {
		return core.ErrEmptyID
	}
	md := doc.Metadata
	if md == nil {
		md = core.Metadata{}
	}
	raw, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("marshal metadata failed: %w", err)
	}

	created := ""
	if !doc.CreatedAt.IsZero() {
		created = doc.CreatedAt.UTC().Format(timeLayout)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			created_at = excluded.created_at
	`, r.collection, doc.ID, doc.Content, string(raw), created)
	if err != nil {
		return fmt.Errorf("save document failed: %w", err)
	}
	r.logger.Debug("document saved", "collection", r.collection, "id", doc.ID)
	return nil
}

// Get retrieves a document by id.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, content, metadata, created_at FROM documents
		WHERE collection = ? AND id = ?
	`, r.collection, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Document{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	return doc, err
}

// List returns documents ordered by created_at, then id.
func (r *Repository) List(ctx context.Context, q core.Query) ([]core.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, metadata, created_at FROM documents
		WHERE collection = ?
		ORDER BY created_at, id
	`, r.collection)
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return q.Apply(docs), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (core.Document, error) {
	var (
		doc     core.Document
		rawMeta string
		created string
	)
	if err := s.Scan(&doc.ID, &doc.Content, &rawMeta, &created); err != nil {
		return core.Document{}, err
	}
	doc.Metadata = core.Metadata{}
	if err := json.Unmarshal([]byte(rawMeta), &doc.Metadata); err != nil {
		return core.Document{}, fmt.Errorf("decode metadata of %s: %w", doc.ID, err)
	}
	if created != "" {
		t, err := time.Parse(timeLayout, created)
		if err != nil {
			return core.Document{}, fmt.Errorf("decode created_at of %s: %w", doc.ID, err)
		}
		doc.CreatedAt = t
	}
	return doc, nil
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	return map[string]any{
		"collection": r.collection,
		"open_conns": r.db.Stats().OpenConnections,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite-repository"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
