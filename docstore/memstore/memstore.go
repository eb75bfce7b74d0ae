// Package memstore provides an in-memory docstore backend. It is the
// in-process double used by pager tests and examples, and is usable as a
// real backend for small, ephemeral data sets.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/c360/fetchkit/docstore"
	"github.com/c360/fetchkit/errors"
)

// Store holds per-resource document slices sorted ascending by
// (SortKey, ID). Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	resources map[string][]docstore.Document
	failNext  error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		resources: make(map[string][]docstore.Document),
	}
}

// Put inserts or replaces a document. A document with an empty ID is
// assigned a random one; the assigned ID is returned.
func (s *Store) Put(resource string, doc docstore.Document) string {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.resources[resource]
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs = append(docs[:i], docs[i+1:]...)
			break
		}
	}
	docs = append(docs, doc)
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].SortKey != docs[j].SortKey {
			return docs[i].SortKey < docs[j].SortKey
		}
		return docs[i].ID < docs[j].ID
	})
	s.resources[resource] = docs
	return doc.ID
}

// Delete removes a document by ID. Removing an absent document is a no-op.
func (s *Store) Delete(resource, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.resources[resource]
	for i := range docs {
		if docs[i].ID == id {
			s.resources[resource] = append(docs[:i], docs[i+1:]...)
			return
		}
	}
}

// Seed inserts n documents with zero-padded sort keys ("000001", ...) and
// returns their IDs in sort order. Intended for tests and demos.
func (s *Store) Seed(resource string, n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		key := fmt.Sprintf("%06d", i)
		id := s.Put(resource, docstore.Document{
			ID:      key,
			SortKey: key,
			Data:    []byte(fmt.Sprintf(`{"seq":%d}`, i)),
		})
		ids = append(ids, id)
	}
	return ids
}

// FailNext makes the next Query call return err instead of results.
// Used by tests to simulate transient backend failures.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Query returns one page of documents in the configured direction.
func (s *Store) Query(ctx context.Context, resource string, q docstore.Query) (docstore.Page, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Page{}, errors.WrapTransient(err, "memstore", "Query", "context check")
	}
	if q.Limit <= 0 {
		return docstore.Page{}, errors.WrapInvalid(
			fmt.Errorf("limit %d", q.Limit), "memstore", "Query", "validate limit")
	}

	s.mu.Lock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		s.mu.Unlock()
		return docstore.Page{}, err
	}
	docs := append([]docstore.Document(nil), s.resources[resource]...)
	s.mu.Unlock()

	// Traversal order: the stored slice is ascending; reverse for
	// descending queries.
	if q.Descending {
		for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
			docs[i], docs[j] = docs[j], docs[i]
		}
	}

	start := 0
	if q.StartAfter != "" {
		found := false
		for i := range docs {
			if docs[i].ID == q.StartAfter {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			return docstore.Page{}, fmt.Errorf("memstore.Query: cursor %q: %w",
				q.StartAfter, docstore.ErrInvalidCursor)
		}
	}

	end := start + q.Limit
	if end > len(docs) {
		end = len(docs)
	}
	items := append([]docstore.Document(nil), docs[start:end]...)

	return docstore.Page{
		Items:      items,
		IsLastPage: len(items) < q.Limit,
	}, nil
}
