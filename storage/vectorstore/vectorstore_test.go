package vectorstore

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

func TestStore_UpsertAndFindSimilar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunks := []core.Chunk{
		{Id: core.ID(1), Vector: []float32{1, 0, 0}},
		{Id: core.ID(2), Vector: []float32{0, 1, 0}},
		{Id: core.ID(3), Vector: []float32{0.9, 0.1, 0}},
	}
	require.NoError(t, s.UpsertVectors(ctx, chunks))

	results, err := s.FindSimilar(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(1), results[0].ChunkId)
	assert.Equal(t, core.ID(3), results[1].ChunkId)
}

func TestStore_SkipsChunksWithoutVectors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertVectors(ctx, []core.Chunk{{Id: core.ID(1)}}))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_DeleteVectors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertVectors(ctx, []core.Chunk{{Id: core.ID(1), Vector: []float32{1, 0}}}))
	require.NoError(t, s.DeleteVectors(ctx, []core.ID{core.ID(1)}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
