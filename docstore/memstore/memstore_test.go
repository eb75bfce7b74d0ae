package memstore

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/fetchkit/docstore"
)

func TestQuery_FirstPage(t *testing.T) {
	s := New()
	s.Seed("events", 10)

	page, err := s.Query(context.Background(), "events", docstore.Query{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.False(t, page.IsLastPage)
	assert.Equal(t, "000001", page.Items[0].ID)
	assert.Equal(t, "000003", page.Items[2].ID)
}

func TestQuery_StartAfter(t *testing.T) {
	s := New()
	s.Seed("events", 10)

	page, err := s.Query(context.Background(), "events", docstore.Query{Limit: 3, StartAfter: "000003"})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "000004", page.Items[0].ID)
}

func TestQuery_Descending(t *testing.T) {
	s := New()
	s.Seed("events", 5)

	page, err := s.Query(context.Background(), "events", docstore.Query{Limit: 2, Descending: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "000005", page.Items[0].ID)
	assert.Equal(t, "000004", page.Items[1].ID)

	page, err = s.Query(context.Background(), "events", docstore.Query{
		Limit: 2, Descending: true, StartAfter: "000004",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "000003", page.Items[0].ID)
}

func TestQuery_LastPage(t *testing.T) {
	s := New()
	s.Seed("events", 5)

	page, err := s.Query(context.Background(), "events", docstore.Query{Limit: 3, StartAfter: "000003"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.IsLastPage)
}

func TestQuery_InvalidCursor(t *testing.T) {
	s := New()
	s.Seed("events", 5)

	_, err := s.Query(context.Background(), "events", docstore.Query{Limit: 3, StartAfter: "missing"})
	require.Error(t, err)
	assert.True(t, docstore.IsInvalidCursor(err))
}

func TestQuery_EmptyResource(t *testing.T) {
	s := New()

	page, err := s.Query(context.Background(), "nothing", docstore.Query{Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.True(t, page.IsLastPage)
}

func TestQuery_FailNext(t *testing.T) {
	s := New()
	s.Seed("events", 3)
	boom := stderrors.New("boom")
	s.FailNext(boom)

	_, err := s.Query(context.Background(), "events", docstore.Query{Limit: 3})
	assert.ErrorIs(t, err, boom)

	// One-shot: the next query succeeds.
	_, err = s.Query(context.Background(), "events", docstore.Query{Limit: 3})
	assert.NoError(t, err)
}

func TestPut_ReplaceAndDelete(t *testing.T) {
	s := New()
	s.Put("events", docstore.Document{ID: "a", SortKey: "1", Data: []byte("one")})
	s.Put("events", docstore.Document{ID: "a", SortKey: "2", Data: []byte("two")})

	page, err := s.Query(context.Background(), "events", docstore.Query{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2", page.Items[0].SortKey)

	s.Delete("events", "a")
	page, err = s.Query(context.Background(), "events", docstore.Query{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestPut_GeneratesID(t *testing.T) {
	s := New()
	id := s.Put("events", docstore.Document{SortKey: "1"})
	assert.NotEmpty(t, id)
}

func TestQuery_InvalidLimit(t *testing.T) {
	s := New()
	_, err := s.Query(context.Background(), "events", docstore.Query{Limit: 0})
	assert.Error(t, err)
}

func TestQuery_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Query(ctx, "events", docstore.Query{Limit: 3})
	assert.Error(t, err)
}
