package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/ai/mock"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/vectorstore"
)

func TestDense_Retrieve(t *testing.T) {
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	vectors := vectorstore.New(backend)
	ctx := context.Background()
	require.NoError(t, vectors.UpsertVectors(ctx, []core.Chunk{
		{Id: 1, Vector: []float32{1, 0, 0}},
		{Id: 2, Vector: []float32{0, 1, 0}},
	}))

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	dense, err := NewDense(embedder, vectors)
	require.NoError(t, err)

	results, err := dense.Retrieve(ctx, "query", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, core.ID(1), results[0].ChunkId)
}

func TestNewDense_RequiresDependencies(t *testing.T) {
	_, err := NewDense(nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
