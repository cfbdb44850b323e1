package sparseindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage/badger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return New(backend)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"neural", "networks", "101"}, Tokenize("Neural Networks 101!"))
}

func TestStore_RebuildAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunks := []core.Chunk{
		{Id: core.ID(1), Text: "neural networks are a subset of machine learning"},
		{Id: core.ID(2), Text: "gardening tips for growing tomatoes"},
		{Id: core.ID(3), Text: "deep neural networks require large datasets"},
	}
	require.NoError(t, s.Rebuild(ctx, chunks))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	results, err := s.Search(ctx, Tokenize("neural networks"), 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	ids := []core.ID{results[0].ChunkId, results[1].ChunkId}
	assert.Contains(t, ids, core.ID(1))
	assert.Contains(t, ids, core.ID(3))
}

func TestStore_Search_EmptyQuery(t *testing.T) {
	s := newTestStore(t)
	results, err := s.Search(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_Search_BeforeRebuild(t *testing.T) {
	s := newTestStore(t)
	results, err := s.Search(context.Background(), Tokenize("anything"), 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
