package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclub/bookclub-server/internal/catalog"
)

func setupIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	var docs []*Document
	for _, b := range catalog.MustDefault().All() {
		docs = append(docs, FromBook(b))
	}
	require.NoError(t, idx.IndexDocuments(docs))
	return idx
}

func ids(r *Result) []string {
	out := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		out = append(out, h.ID)
	}
	return out
}

func TestSearch_ByTitle(t *testing.T) {
	idx := setupIndex(t)

	res, err := idx.Search(context.Background(), Params{Query: "moby"})
	require.NoError(t, err)
	assert.Equal(t, []string{"moby-dick"}, ids(res))
	assert.Equal(t, "Moby Dick", res.Hits[0].Title)
}

func TestSearch_ByAuthor(t *testing.T) {
	idx := setupIndex(t)

	res, err := idx.Search(context.Background(), Params{Query: "Melville"})
	require.NoError(t, err)
	assert.Equal(t, []string{"moby-dick"}, ids(res))

	res, err = idx.Search(context.Background(), Params{Query: "shakespeare"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"romeo-juliet", "shakespeare"}, ids(res))
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	idx := setupIndex(t)

	res, err := idx.Search(context.Background(), Params{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Total)
}

func TestSearch_NoMatch(t *testing.T) {
	idx := setupIndex(t)

	res, err := idx.Search(context.Background(), Params{Query: "xylophone"})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func TestIndex_DocumentCountAndDelete(t *testing.T) {
	idx := setupIndex(t)

	n, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	require.NoError(t, idx.DeleteDocument("moby-dick"))
	n, err = idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func TestOpen_OnDiskReopen(t *testing.T) {
	dir := t.TempDir()

	idx, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, idx.IndexDocuments([]*Document{{ID: "a", Title: "Alpha"}}))
	require.NoError(t, idx.Close())

	idx, err = Open(Options{DataPath: dir})
	require.NoError(t, err)
	defer idx.Close()

	n, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}
