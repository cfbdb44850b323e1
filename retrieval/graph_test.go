package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/config"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/graphstore"
	"github.com/dotmd/dotmd/storage/metastore"
)

// stubRetriever returns a fixed result list regardless of query.
type stubRetriever struct {
	chunks []core.ScoredChunk
}

func (s stubRetriever) Retrieve(_ context.Context, _ string, _ int) ([]core.ScoredChunk, error) {
	return s.chunks, nil
}

func TestGraph_SeedsFromDenseAndSparse(t *testing.T) {
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	graph := graphstore.New(backend)
	meta := metastore.New(backend)
	ctx := context.Background()

	// chunkA MENTIONS entity, chunkB MENTIONS the same entity: chunkA
	// should reach chunkB via the reverse edge at hop 2. The entity node
	// itself is also reachable at hop 1 but is not a chunk, so Graph
	// must filter it out of the returned results.
	entityID := core.EntityID("acme", core.EntityOrganization)
	require.NoError(t, meta.UpsertChunks(ctx, []core.Chunk{{Id: 1, FilePath: "a.md"}, {Id: 2, FilePath: "b.md"}}))
	require.NoError(t, graph.UpsertEntities(ctx, "a.md", []core.Entity{{Id: entityID, CanonicalName: "acme", Type: core.EntityOrganization}}))
	require.NoError(t, graph.UpsertEdges(ctx, "a.md", []core.Edge{{Kind: core.EdgeMentions, From: 1, To: entityID, Weight: 1}}))
	require.NoError(t, graph.UpsertEdges(ctx, "b.md", []core.Edge{{Kind: core.EdgeMentions, From: 2, To: entityID, Weight: 1}}))

	dense := stubRetriever{chunks: []core.ScoredChunk{{ChunkId: 1, Score: 0.9}}}
	sparse := stubRetriever{chunks: nil}

	g, err := NewGraph(graph, meta, dense, sparse, 20, config.DefaultEdgeWeights())
	require.NoError(t, err)

	results, err := g.Retrieve(ctx, "acme", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, core.ID(2), results[0].ChunkId)
}

func TestGraph_NoSeedsReturnsEmpty(t *testing.T) {
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	graph := graphstore.New(backend)
	meta := metastore.New(backend)
	g, err := NewGraph(graph, meta, stubRetriever{}, stubRetriever{}, 20, config.DefaultEdgeWeights())
	require.NoError(t, err)

	results, err := g.Retrieve(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
