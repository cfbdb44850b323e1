package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/vectorstore"
)

// mockEmbedder for testing
type mockEmbedder struct {
	embedTextFunc  func(ctx context.Context, text string) ([]float32, error)
	embedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.embedTextFunc != nil {
		return m.embedTextFunc(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedTextsFunc != nil {
		return m.embedTextsFunc(ctx, texts)
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{1.0, 2.0, 2.0} // magnitude = 3.0
	}
	return result, nil
}

func newTestVectors(t *testing.T) storage.VectorStore {
	t.Helper()
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return vectorstore.New(backend)
}

func testChunks(n int) []core.Chunk {
	chunks := make([]core.Chunk, n)
	for i := 0; i < n; i++ {
		chunks[i] = core.Chunk{Id: core.ChunkID("/a.md", i), FilePath: "/a.md", Ordinal: i, Text: "test"}
	}
	return chunks
}

func TestBatchProcessor_Process(t *testing.T) {
	vectors := newTestVectors(t)
	ctx := context.Background()

	chunks := testChunks(2)
	embedder := &mockEmbedder{}
	processor := NewBatchProcessor(vectors, embedder, 3, 10*time.Millisecond)

	require.NoError(t, processor.Process(ctx, chunks))

	count, err := vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, c := range chunks {
		require.NotEmpty(t, c.Vector)
		var magnitude float32
		for _, v := range c.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.01)
	}
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	vectors := newTestVectors(t)
	embedder := &mockEmbedder{}
	processor := NewBatchProcessor(vectors, embedder, 3, 10*time.Millisecond)

	err := processor.Process(context.Background(), []core.Chunk{})
	require.NoError(t, err)
}

func TestBatchProcessor_EmbeddingError(t *testing.T) {
	vectors := newTestVectors(t)
	chunks := testChunks(1)

	expectedErr := errors.New("embedding error")
	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, expectedErr
		},
	}
	processor := NewBatchProcessor(vectors, embedder, 3, 10*time.Millisecond)

	err := processor.Process(context.Background(), chunks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding error")
}

func TestBatchProcessor_Retry(t *testing.T) {
	vectors := newTestVectors(t)
	chunks := testChunks(1)

	attempts := 0
	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			attempts++
			if attempts < 2 {
				return nil, errors.New("temporary error")
			}
			result := make([][]float32, len(texts))
			for i := range texts {
				result[i] = []float32{1.0, 0.0, 0.0}
			}
			return result, nil
		},
	}
	processor := NewBatchProcessor(vectors, embedder, 3, 10*time.Millisecond)

	err := processor.Process(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.NotEmpty(t, chunks[0].Vector)
}

func TestBatchProcessor_ContextCancellation(t *testing.T) {
	vectors := newTestVectors(t)
	chunks := testChunks(1)

	ctx, cancel := context.WithCancel(context.Background())

	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			cancel()
			return nil, errors.New("error")
		},
	}
	processor := NewBatchProcessor(vectors, embedder, 3, 10*time.Millisecond)

	err := processor.Process(ctx, chunks)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchProcessor_VectorNormalization(t *testing.T) {
	vectors := newTestVectors(t)
	chunks := testChunks(1)

	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			// Vector (3, 4) has magnitude 5
			return [][]float32{{3.0, 4.0}}, nil
		},
	}
	processor := NewBatchProcessor(vectors, embedder, 3, 10*time.Millisecond)

	require.NoError(t, processor.Process(context.Background(), chunks))

	vec := chunks[0].Vector
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 0.001)
	assert.InDelta(t, 0.8, vec[1], 0.001)

	magnitude := vec[0]*vec[0] + vec[1]*vec[1]
	assert.InDelta(t, 1.0, magnitude, 0.001)
}
