package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/ai"
	"github.com/dotmd/dotmd/ai/mock"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/fuse"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/metastore"
)

func newTestReranker(t *testing.T, floor float64) (*Reranker, *metastore.Store) {
	t.Helper()
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	meta := metastore.New(backend)
	reranker, err := New(mock.NewMockReranker(), meta, floor)
	require.NoError(t, err)
	return reranker, meta
}

func TestReranker_ScoresAndFilters(t *testing.T) {
	reranker, meta := newTestReranker(t, -8.0)
	ctx := context.Background()

	chunks := []core.Chunk{
		{Id: 1, FilePath: "a.md", HeadingPath: []string{"Intro"}, Text: "golang concurrency patterns explained in depth"},
		{Id: 2, FilePath: "b.md", HeadingPath: []string{"Other"}, Text: "gardening tips for spring"},
	}
	require.NoError(t, meta.UpsertChunks(ctx, chunks))

	candidates := []fuse.Candidate{
		{ChunkId: 1, Score: 0.5, EngineScores: map[string]float64{"dense": 0.9}},
		{ChunkId: 2, Score: 0.4, EngineScores: map[string]float64{"dense": 0.3}},
	}

	results, err := reranker.Rerank(ctx, "golang concurrency", candidates, 10, true)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, core.ID(1), results[0].ChunkId, "the lexically-overlapping chunk should rank first")
}

func TestReranker_BypassReturnsFusedOrder(t *testing.T) {
	reranker, meta := newTestReranker(t, -8.0)
	ctx := context.Background()

	chunks := []core.Chunk{
		{Id: 1, FilePath: "a.md", HeadingPath: []string{"Intro"}, Text: "first chunk"},
		{Id: 2, FilePath: "b.md", HeadingPath: []string{"Other"}, Text: "second chunk"},
	}
	require.NoError(t, meta.UpsertChunks(ctx, chunks))

	candidates := []fuse.Candidate{
		{ChunkId: 1, Score: 0.9},
		{ChunkId: 2, Score: 0.4},
	}

	results, err := reranker.Rerank(ctx, "irrelevant", candidates, 10, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(1), results[0].ChunkId)
	assert.Equal(t, 0.9, results[0].Score)
}

func TestReranker_LengthPenaltyShrinksShortChunkScore(t *testing.T) {
	reranker, meta := newTestReranker(t, -8.0)
	ctx := context.Background()

	// Force a deterministic raw score via RerankFunc so the penalty's
	// effect is isolated.
	custom := mock.NewMockReranker()
	custom.RerankFunc = func(_ context.Context, _ string, candidates []ai.RerankCandidate) ([]ai.RerankResult, error) {
		results := make([]ai.RerankResult, len(candidates))
		for i, c := range candidates {
			results[i] = ai.RerankResult{ChunkID: c.ChunkID, Score: 10.0}
		}
		return results, nil
	}
	reranker, err := New(custom, meta, -8.0)
	require.NoError(t, err)

	chunks := []core.Chunk{{Id: 1, FilePath: "a.md", HeadingPath: nil, Text: "short"}}
	require.NoError(t, meta.UpsertChunks(ctx, chunks))

	results, err := reranker.Rerank(ctx, "q", []fuse.Candidate{{ChunkId: 1, Score: 1}}, 10, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Less(t, results[0].Score, 10.0)
}
