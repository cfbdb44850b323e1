package reembed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/metastore"
)

func newTestMeta(t *testing.T) storage.MetaStore {
	t.Helper()
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return metastore.New(backend)
}

func seedChunks(t *testing.T, meta storage.MetaStore, path string, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, meta.UpsertFile(ctx, &core.File{Path: path}))

	chunks := make([]core.Chunk, n)
	for i := 0; i < n; i++ {
		chunks[i] = core.Chunk{Id: core.ChunkID(path, i), FilePath: path, Ordinal: i, Text: "text"}
	}
	require.NoError(t, meta.UpsertChunks(ctx, chunks))
}

func TestChunkIterator_Basic(t *testing.T) {
	meta := newTestMeta(t)
	seedChunks(t, meta, "/a.md", 3)

	iter := NewChunkIterator(meta, 2)
	count := 0
	var ids []core.ID

	err := iter.ForEach(context.Background(), func(chunks []core.Chunk) error {
		count += len(chunks)
		for _, c := range chunks {
			ids = append(ids, c.Id)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, ids, 3)
}

func TestChunkIterator_BatchSizes(t *testing.T) {
	meta := newTestMeta(t)
	seedChunks(t, meta, "/a.md", 10)

	tests := []struct {
		name          string
		batchSize     int
		expectedBatch int
	}{
		{"batch size 1", 1, 10},
		{"batch size 3", 3, 4},
		{"batch size 5", 5, 2},
		{"batch size 10", 10, 1},
		{"batch size 100", 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iter := NewChunkIterator(meta, tt.batchSize)
			batchCount := 0
			totalChunks := 0

			err := iter.ForEach(context.Background(), func(chunks []core.Chunk) error {
				batchCount++
				totalChunks += len(chunks)
				assert.LessOrEqual(t, len(chunks), tt.batchSize)
				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedBatch, batchCount)
			assert.Equal(t, 10, totalChunks)
		})
	}
}

func TestChunkIterator_EmptyIndex(t *testing.T) {
	meta := newTestMeta(t)

	iter := NewChunkIterator(meta, 10)
	called := false

	err := iter.ForEach(context.Background(), func(chunks []core.Chunk) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestChunkIterator_ErrorHandling(t *testing.T) {
	meta := newTestMeta(t)
	seedChunks(t, meta, "/a.md", 2)

	iter := NewChunkIterator(meta, 1)
	called := 0

	expectedErr := assert.AnError
	err := iter.ForEach(context.Background(), func(chunks []core.Chunk) error {
		called++
		if called == 1 {
			return expectedErr
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 1, called)
}

func TestChunkIterator_ContextCancellation(t *testing.T) {
	meta := newTestMeta(t)
	seedChunks(t, meta, "/a.md", 5)

	ctx, cancel := context.WithCancel(context.Background())

	iter := NewChunkIterator(meta, 1)
	called := 0

	err := iter.ForEach(ctx, func(chunks []core.Chunk) error {
		called++
		if called == 2 {
			cancel()
		}
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, called)
}

func TestChunkIterator_InvalidBatchSize(t *testing.T) {
	meta := newTestMeta(t)

	iter := NewChunkIterator(meta, 0)
	assert.Greater(t, iter.batchSize, 0)

	iter = NewChunkIterator(meta, -10)
	assert.Greater(t, iter.batchSize, 0)
}
