package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/sparseindex"
)

func TestSparse_Retrieve(t *testing.T) {
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	index := sparseindex.New(backend)
	ctx := context.Background()
	require.NoError(t, index.Rebuild(ctx, []core.Chunk{
		{Id: 1, Text: "neural networks and deep learning"},
		{Id: 2, Text: "gardening tips for spring"},
	}))

	sparse, err := NewSparse(index)
	require.NoError(t, err)

	results, err := sparse.Retrieve(ctx, "neural networks", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, core.ID(1), results[0].ChunkId)
}

func TestSparse_EmptyQueryReturnsEmpty(t *testing.T) {
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	sparse, err := NewSparse(sparseindex.New(backend))
	require.NoError(t, err)

	results, err := sparse.Retrieve(context.Background(), "!!!", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
