package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *ChromemIndex {
	t.Helper()
	idx, err := NewChromemIndex("", "test-collection", true, "")
	require.NoError(t, err)
	return idx
}

func testEntries() []Entry {
	return []Entry{
		{Source: "a.pdf", PageNumber: 1, ChunkID: 1, Content: "alpha text", Embedding: []float32{1, 0, 0}},
		{Source: "a.pdf", PageNumber: 2, ChunkID: 2, Content: "more alpha", Embedding: []float32{0.9, 0.1, 0}},
		{Source: "b.pdf", PageNumber: 1, ChunkID: 1, Content: "beta text", Embedding: []float32{0, 1, 0}},
	}
}

func TestUpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)
	require.NoError(t, idx.Upsert(ctx, testEntries()))

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "a.pdf", matches[0].Source)
	assert.Equal(t, "alpha text", matches[0].Content)
	assert.Equal(t, 1, matches[0].PageNumber)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestQueryClampsK(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)
	require.NoError(t, idx.Upsert(ctx, testEntries()))

	// k larger than the collection must not error
	matches, err := idx.Query(ctx, []float32{0, 1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
	assert.Equal(t, "b.pdf", matches[0].Source)
}

func TestQueryEmptyCollection(t *testing.T) {
	idx := newTestIndex(t)
	matches, err := idx.Query(context.Background(), []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)
	entries := testEntries()

	require.NoError(t, idx.Upsert(ctx, entries))
	require.NoError(t, idx.Upsert(ctx, entries))

	// content-hash IDs: re-ingesting identical chunks must not duplicate them
	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestDeleteSource(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)
	require.NoError(t, idx.Upsert(ctx, testEntries()))

	require.NoError(t, idx.DeleteSource(ctx, "a.pdf"))

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 50)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b.pdf", matches[0].Source)
}

func TestExportRequiresEncryptionKey(t *testing.T) {
	idx := newTestIndex(t)
	require.Error(t, idx.Export(context.Background()))
	require.Error(t, idx.Import(context.Background()))
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	// AES-256-GCM needs a 32 byte key
	const key = "0123456789abcdef0123456789abcdef"
	dir := t.TempDir()

	src, err := NewChromemIndex(dir, "roundtrip", true, key)
	require.NoError(t, err)
	require.NoError(t, src.Upsert(ctx, testEntries()))
	require.NoError(t, src.Export(ctx))

	dst, err := NewChromemIndex(dir, "roundtrip", true, key)
	require.NoError(t, err)
	require.NoError(t, dst.Import(ctx))

	matches, err := dst.Query(ctx, []float32{1, 0, 0}, 50)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "a.pdf", matches[0].Source)
	assert.Equal(t, "alpha text", matches[0].Content)
}
