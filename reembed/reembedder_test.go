package reembed

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/metastore"
	"github.com/dotmd/dotmd/storage/vectorstore"
)

func newTestBackend(t *testing.T) *badger.Backend {
	t.Helper()
	backend, err := badger.OpenBackend(filepath.Join(t.TempDir(), "db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func seedForReembed(t *testing.T, meta storage.MetaStore, n int) {
	t.Helper()
	ctx := context.Background()
	path := "/a.md"
	require.NoError(t, meta.UpsertFile(ctx, &core.File{Path: path}))

	chunks := make([]core.Chunk, n)
	for i := 0; i < n; i++ {
		chunks[i] = core.Chunk{Id: core.ChunkID(path, i), FilePath: path, Ordinal: i, Text: "test message"}
	}
	require.NoError(t, meta.UpsertChunks(ctx, chunks))
}

func TestReembedder_Run(t *testing.T) {
	backend := newTestBackend(t)
	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)
	seedForReembed(t, meta, 10)

	var buf bytes.Buffer
	embedder := &mockEmbedder{}
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reembedder := NewReembedder(meta, vectors, embedder, config, &buf)
	require.NoError(t, reembedder.Run(context.Background()))

	count, err := vectors.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	output := buf.String()
	assert.Contains(t, output, "10/10")
}

func TestReembedder_EmptyIndex(t *testing.T) {
	backend := newTestBackend(t)
	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)

	var buf bytes.Buffer
	embedder := &mockEmbedder{}
	config := DefaultConfig()

	reembedder := NewReembedder(meta, vectors, embedder, config, &buf)
	require.NoError(t, reembedder.Run(context.Background()))

	assert.Contains(t, buf.String(), "0 chunks")
}

func TestReembedder_ContextCancellation(t *testing.T) {
	backend := newTestBackend(t)
	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)
	seedForReembed(t, meta, 10)

	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			callCount++
			if callCount == 2 {
				cancel()
			}
			result := make([][]float32, len(texts))
			for i := range result {
				result[i] = []float32{1.0, 0.0, 0.0}
			}
			return result, nil
		},
	}

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reembedder := NewReembedder(meta, vectors, embedder, config, &buf)
	err := reembedder.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReembedder_EmbeddingError(t *testing.T) {
	backend := newTestBackend(t)
	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)
	seedForReembed(t, meta, 1)

	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("persistent error")
		},
	}

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      1,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     10 * time.Millisecond,
	}

	reembedder := NewReembedder(meta, vectors, embedder, config, &buf)
	err := reembedder.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Greater(t, config.BatchSize, 0)
	assert.Greater(t, config.ReportInterval, 0)
	assert.Greater(t, config.MaxRetries, 0)
	assert.Greater(t, config.RetryDelay, time.Duration(0))
}

func TestReembedder_ProgressTracking(t *testing.T) {
	backend := newTestBackend(t)
	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)
	seedForReembed(t, meta, 25)

	var buf bytes.Buffer
	embedder := &mockEmbedder{}
	config := &Config{
		BatchSize:      5,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reembedder := NewReembedder(meta, vectors, embedder, config, &buf)
	require.NoError(t, reembedder.Run(context.Background()))

	output := buf.String()
	assert.Contains(t, output, "Progress:")
	assert.Contains(t, output, "25/25")
}
