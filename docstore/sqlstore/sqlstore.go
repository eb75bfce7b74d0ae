// Package sqlstore provides a SQLite-backed docstore backend with keyset
// pagination. It uses the pure-Go modernc.org/sqlite driver, so no cgo is
// required.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/c360/fetchkit/docstore"
	"github.com/c360/fetchkit/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	resource TEXT NOT NULL,
	id       TEXT NOT NULL,
	sort_key TEXT NOT NULL,
	data     BLOB,
	PRIMARY KEY (resource, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_order
	ON documents (resource, sort_key, id);
`

// Store wraps a SQLite database holding one documents table shared by all
// resources. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and ensures the
// schema exists. Pass ":memory:" as dataDir for an in-memory database
// (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, errors.WrapFatal(err, "sqlstore", "Open", "create data directory")
		}
		dsn = filepath.Join(dataDir, "fetchkit.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapFatal(err, "sqlstore", "Open", "open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WrapTransient(err, "sqlstore", "Open", "ping database")
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.WrapFatal(err, "sqlstore", "Open", "set busy timeout")
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.WrapFatal(err, "sqlstore", "Open", "set journal mode")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.WrapFatal(err, "sqlstore", "Open", "create schema")
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces a document. A document with an empty ID is
// assigned a random one; the assigned ID is returned.
func (s *Store) Put(ctx context.Context, resource string, doc docstore.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (resource, id, sort_key, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT (resource, id) DO UPDATE SET sort_key = excluded.sort_key, data = excluded.data`,
		resource, doc.ID, doc.SortKey, doc.Data)
	if err != nil {
		return "", errors.WrapTransient(err, "sqlstore", "Put", "upsert document")
	}
	return doc.ID, nil
}

// Delete removes a document by ID. Removing an absent document is a no-op.
func (s *Store) Delete(ctx context.Context, resource, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE resource = ? AND id = ?`, resource, id)
	if err != nil {
		return errors.WrapTransient(err, "sqlstore", "Delete", "delete document")
	}
	return nil
}

// Query returns one page of documents ordered by (sort_key, id) using
// keyset pagination: the cursor document's keys anchor the WHERE clause, so
// page cost stays flat regardless of depth.
func (s *Store) Query(ctx context.Context, resource string, q docstore.Query) (docstore.Page, error) {
	if q.Limit <= 0 {
		return docstore.Page{}, errors.WrapInvalid(
			fmt.Errorf("limit %d", q.Limit), "sqlstore", "Query", "validate limit")
	}

	var (
		query string
		args  []any
	)

	if q.StartAfter != "" {
		// Resolve the cursor document to its sort key. A vanished
		// cursor is the invalid-cursor condition, not a general error.
		var cursorKey string
		err := s.db.QueryRowContext(ctx,
			`SELECT sort_key FROM documents WHERE resource = ? AND id = ?`,
			resource, q.StartAfter).Scan(&cursorKey)
		if err == sql.ErrNoRows {
			return docstore.Page{}, fmt.Errorf("sqlstore.Query: cursor %q: %w",
				q.StartAfter, docstore.ErrInvalidCursor)
		}
		if err != nil {
			return docstore.Page{}, errors.WrapTransient(err, "sqlstore", "Query", "resolve cursor")
		}

		if q.Descending {
			query = `SELECT id, sort_key, data FROM documents
				 WHERE resource = ? AND (sort_key < ? OR (sort_key = ? AND id < ?))
				 ORDER BY sort_key DESC, id DESC LIMIT ?`
		} else {
			query = `SELECT id, sort_key, data FROM documents
				 WHERE resource = ? AND (sort_key > ? OR (sort_key = ? AND id > ?))
				 ORDER BY sort_key ASC, id ASC LIMIT ?`
		}
		args = []any{resource, cursorKey, cursorKey, q.StartAfter, q.Limit}
	} else {
		if q.Descending {
			query = `SELECT id, sort_key, data FROM documents
				 WHERE resource = ? ORDER BY sort_key DESC, id DESC LIMIT ?`
		} else {
			query = `SELECT id, sort_key, data FROM documents
				 WHERE resource = ? ORDER BY sort_key ASC, id ASC LIMIT ?`
		}
		args = []any{resource, q.Limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return docstore.Page{}, errors.WrapTransient(err, "sqlstore", "Query", "select documents")
	}
	defer rows.Close()

	var items []docstore.Document
	for rows.Next() {
		var doc docstore.Document
		if err := rows.Scan(&doc.ID, &doc.SortKey, &doc.Data); err != nil {
			return docstore.Page{}, errors.WrapTransient(err, "sqlstore", "Query", "scan document")
		}
		items = append(items, doc)
	}
	if err := rows.Err(); err != nil {
		return docstore.Page{}, errors.WrapTransient(err, "sqlstore", "Query", "iterate rows")
	}

	return docstore.Page{
		Items:      items,
		IsLastPage: len(items) < q.Limit,
	}, nil
}
