// Package docstore defines the pluggable remote document store interface the
// pager consumes. The core is agnostic to the concrete store (document
// database, key-value bucket, SQL table) as long as this shape is satisfiable.
package docstore

import (
	"context"
	"errors"
)

// ErrInvalidCursor is reported by backends when a query's StartAfter cursor
// references a document that no longer exists. Backends wrap it so callers
// can detect the condition with errors.Is or IsInvalidCursor.
var ErrInvalidCursor = errors.New("pagination cursor not found")

// IsInvalidCursor reports whether err indicates a dangling pagination cursor.
func IsInvalidCursor(err error) bool {
	return errors.Is(err, ErrInvalidCursor)
}

// Document is a single stored item. The payload is opaque to the pagination
// layer; callers apply their own typing at the boundary.
type Document struct {
	// ID uniquely identifies the document within its resource. It doubles
	// as the pagination cursor.
	ID string
	// SortKey is the value of the resource's configured sort field,
	// maintained by the backend. Query results are ordered by it.
	SortKey string
	// Data is the raw document payload.
	Data []byte
}

// Query describes one page-shaped read against a resource.
type Query struct {
	// OrderBy names the sort field. Backends with a single intrinsic
	// order (e.g. key-ordered KV buckets) may ignore it.
	OrderBy string
	// Descending reverses the sort direction.
	Descending bool
	// Limit is the maximum number of documents to return. Must be > 0.
	Limit int
	// StartAfter is the ID of the last document of the previous page;
	// results begin strictly after it. Empty means start from the top.
	StartAfter string
}

// Page is the result of one Query.
type Page struct {
	// Items in sort order. Never reordered by the pagination layer.
	Items []Document
	// IsLastPage is true when the backend knows no further documents
	// follow this page (it returned fewer items than requested).
	IsLastPage bool
}

// Store is the pluggable backend interface for page-shaped reads.
//
// Each backend instance owns its own configuration (bucket, DSN, table) and
// must be safe for concurrent use from multiple goroutines. A dangling
// StartAfter cursor must surface as an error matching ErrInvalidCursor;
// every other failure is backend-specific and treated as transient or not
// by the caller's retry policy.
//
// Example implementations:
//   - memstore.Store: in-memory ordered slices (tests, examples)
//   - sqlstore.Store: SQLite table with keyset pagination
//   - natskv.Store: NATS JetStream KV bucket, key-ordered
type Store interface {
	Query(ctx context.Context, resource string, q Query) (Page, error)
}
