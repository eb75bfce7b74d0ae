// Package natskv provides a NATS JetStream KV docstore backend. Documents
// live under "<resource>.<id>" keys in a single bucket; the intrinsic
// lexicographic key order is the sort order, so Query.OrderBy is ignored.
package natskv

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/fetchkit/docstore"
	"github.com/c360/fetchkit/errors"
)

// Store backs docstore.Store with a JetStream KV bucket. Safe for
// concurrent use; concurrency control is delegated to JetStream.
type Store struct {
	kv     jetstream.KeyValue
	logger *slog.Logger
}

// New creates (or binds to) the named KV bucket.
func New(ctx context.Context, js jetstream.JetStream, bucket string, logger *slog.Logger) (*Store, error) {
	if js == nil {
		return nil, errors.WrapInvalid(stderrors.New("nil jetstream"), "natskv", "New", "validate client")
	}
	if logger == nil {
		logger = slog.Default()
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "fetchkit documents",
	})
	if err != nil {
		return nil, errors.WrapTransient(err, "natskv", "New", "create KV bucket")
	}

	return &Store{kv: kv, logger: logger}, nil
}

// NewWithBucket wraps an existing KV bucket. Useful when the caller manages
// bucket lifecycle itself.
func NewWithBucket(kv jetstream.KeyValue, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// key builds the bucket key for a document.
func key(resource, id string) string {
	return resource + "." + id
}

// Put stores a document. The document ID becomes part of the bucket key and
// must be non-empty and free of NATS KV key separators.
func (s *Store) Put(ctx context.Context, resource string, doc docstore.Document) error {
	if doc.ID == "" {
		return errors.WrapInvalid(fmt.Errorf("resource %s", resource),
			"natskv", "Put", "document ID cannot be empty")
	}
	if _, err := s.kv.Put(ctx, key(resource, doc.ID), doc.Data); err != nil {
		return errors.WrapTransient(err, "natskv", "Put", "put to KV")
	}
	return nil
}

// Delete removes a document. Deleting an absent document is a no-op.
func (s *Store) Delete(ctx context.Context, resource, id string) error {
	if err := s.kv.Delete(ctx, key(resource, id)); err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return nil
		}
		return errors.WrapTransient(err, "natskv", "Delete", "delete from KV")
	}
	return nil
}

// Query returns one page of documents in lexicographic key order. The key
// list is read fresh on every call, so the page reflects the bucket at
// query time.
func (s *Store) Query(ctx context.Context, resource string, q docstore.Query) (docstore.Page, error) {
	if q.Limit <= 0 {
		return docstore.Page{}, errors.WrapInvalid(
			fmt.Errorf("limit %d", q.Limit), "natskv", "Query", "validate limit")
	}

	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrNoKeysFound) {
			return docstore.Page{IsLastPage: true}, nil
		}
		return docstore.Page{}, errors.WrapTransient(err, "natskv", "Query", "list KV keys")
	}

	prefix := resource + "."
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			ids = append(ids, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(ids)
	if q.Descending {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}

	start := 0
	if q.StartAfter != "" {
		found := false
		for i, id := range ids {
			if id == q.StartAfter {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			return docstore.Page{}, fmt.Errorf("natskv.Query: cursor %q: %w",
				q.StartAfter, docstore.ErrInvalidCursor)
		}
	}

	end := start + q.Limit
	if end > len(ids) {
		end = len(ids)
	}

	items := make([]docstore.Document, 0, end-start)
	for _, id := range ids[start:end] {
		entry, err := s.kv.Get(ctx, key(resource, id))
		if err != nil {
			if stderrors.Is(err, jetstream.ErrKeyNotFound) {
				// Deleted between the key listing and the read; a
				// thinner page is fine, the cursor still advances.
				s.logger.Debug("document vanished during page read",
					"resource", resource, "id", id)
				continue
			}
			return docstore.Page{}, errors.WrapTransient(err, "natskv", "Query", "get from KV")
		}
		items = append(items, docstore.Document{
			ID:      id,
			SortKey: id,
			Data:    entry.Value(),
		})
	}

	return docstore.Page{
		Items:      items,
		IsLastPage: end >= len(ids),
	}, nil
}
