package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/ai/mock"
	"github.com/dotmd/dotmd/config"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/graphstore"
	"github.com/dotmd/dotmd/storage/metastore"
	"github.com/dotmd/dotmd/storage/sparseindex"
	"github.com/dotmd/dotmd/storage/vectorstore"
)

func newTestIndexer(t *testing.T) (*Indexer, *metastore.Store) {
	t.Helper()
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)
	sparse := sparseindex.New(backend)
	graph := graphstore.New(backend)
	checkpoints := badger.NewCheckpointStore(backend)
	provider := mock.NewMockProvider()

	cfg := config.DefaultConfig()
	idx, err := New(meta, vectors, sparse, graph, checkpoints, provider, nil, cfg)
	require.NoError(t, err)
	t.Cleanup(idx.Release)

	return idx, meta
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestIndexer_IndexAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# Title\n\nSome content about #golang and [[Other]].\n")
	writeFile(t, dir, "other.md", "# Other\n\nLinked-to content.\n")

	idx, meta := newTestIndexer(t)
	ctx := context.Background()

	result, err := idx.IndexAll(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesIndexed)
	assert.Equal(t, 0, result.FilesFailed)

	count, err := meta.FileCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	chunkCount, err := meta.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Greater(t, chunkCount, 0)
}

func TestIndexer_IndexFile_RollsBackOnMidPipelineFailure(t *testing.T) {
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)
	sparse := sparseindex.New(backend)
	graph := graphstore.New(backend)
	checkpoints := badger.NewCheckpointStore(backend)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, errors.New("embedding service unavailable")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockEntityExtractor(), mock.NewMockReranker())

	cfg := config.DefaultConfig()
	idx, err := New(meta, vectors, sparse, graph, checkpoints, provider, nil, cfg)
	require.NoError(t, err)
	t.Cleanup(idx.Release)

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# Title\n\nSome content that will fail to embed.\n")

	ctx := context.Background()
	result, err := idx.IndexAll(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, result.FilesIndexed)
	assert.Equal(t, 1, result.FilesFailed)

	fileCount, err := meta.FileCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fileCount, "failed index must not leave an orphaned file row")

	chunkCount, err := meta.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, chunkCount, "failed index must not leave chunks with no vector")
}

func TestIndexer_WikilinkEdge_ReachesTargetFileWithinTwoHops(t *testing.T) {
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)
	sparse := sparseindex.New(backend)
	graph := graphstore.New(backend)
	checkpoints := badger.NewCheckpointStore(backend)
	provider := mock.NewMockProvider()

	cfg := config.DefaultConfig()
	idx, err := New(meta, vectors, sparse, graph, checkpoints, provider, nil, cfg)
	require.NoError(t, err)
	t.Cleanup(idx.Release)

	dir := t.TempDir()
	writeFile(t, dir, "source.md", "# Source\n\nSee [[Target]] for background.\n")
	writeFile(t, dir, "target.md", "# Target\n\nTarget file content.\n")

	ctx := context.Background()
	result, err := idx.IndexAll(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesIndexed)

	sourceChunks, err := meta.GetChunksByFile(ctx, filepath.Join(dir, "source.md"))
	require.NoError(t, err)
	require.NotEmpty(t, sourceChunks)

	targetChunks, err := meta.GetChunksByFile(ctx, filepath.Join(dir, "target.md"))
	require.NoError(t, err)
	require.NotEmpty(t, targetChunks)

	raw, err := graph.Traverse(ctx, []core.ID{sourceChunks[0].Id}, 2, config.DefaultEdgeWeights(), 50)
	require.NoError(t, err)

	var found bool
	for _, r := range raw {
		if r.ChunkId == targetChunks[0].Id {
			found = true
		}
	}
	assert.True(t, found, "target file's chunk should be reachable within 2 hops via LINKS_TO and the file's chunk-membership edge")
}

func TestIndexer_MarkdownLinkEdge_ReachesTargetFileWithinTwoHops(t *testing.T) {
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	meta := metastore.New(backend)
	vectors := vectorstore.New(backend)
	sparse := sparseindex.New(backend)
	graph := graphstore.New(backend)
	checkpoints := badger.NewCheckpointStore(backend)
	provider := mock.NewMockProvider()

	cfg := config.DefaultConfig()
	idx, err := New(meta, vectors, sparse, graph, checkpoints, provider, nil, cfg)
	require.NoError(t, err)
	t.Cleanup(idx.Release)

	dir := t.TempDir()
	writeFile(t, dir, "source.md", "# Source\n\nSee [the target](target.md) for background.\n")
	writeFile(t, dir, "target.md", "# Target\n\nTarget file content.\n")

	ctx := context.Background()
	result, err := idx.IndexAll(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesIndexed)

	sourceChunks, err := meta.GetChunksByFile(ctx, filepath.Join(dir, "source.md"))
	require.NoError(t, err)
	require.NotEmpty(t, sourceChunks)

	targetChunks, err := meta.GetChunksByFile(ctx, filepath.Join(dir, "target.md"))
	require.NoError(t, err)
	require.NotEmpty(t, targetChunks)

	raw, err := graph.Traverse(ctx, []core.ID{sourceChunks[0].Id}, 2, config.DefaultEdgeWeights(), 50)
	require.NoError(t, err)

	var found bool
	for _, r := range raw {
		if r.ChunkId == targetChunks[0].Id {
			found = true
		}
	}
	assert.True(t, found, "markdown-link target file's chunk should be reachable within 2 hops")
}

func TestIndexer_FrontmatterEdge_IsConstructed(t *testing.T) {
	idx, meta := newTestIndexer(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "---\nstatus: draft\n---\n\n# Title\n\nBody text.\n")

	ctx := context.Background()
	result, err := idx.IndexAll(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesIndexed)

	chunks, err := meta.GetChunksByFile(ctx, filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	fileID := core.FileID(filepath.Join(dir, "a.md"))
	targetID := core.IDFromContent("frontmatter:status=draft")

	raw, err := idx.graph.Traverse(ctx, []core.ID{fileID}, 1, config.DefaultEdgeWeights(), 50)
	require.NoError(t, err)

	var found bool
	for _, r := range raw {
		if r.ChunkId == targetID {
			found = true
		}
	}
	assert.True(t, found, "HAS_FRONTMATTER edge should connect the file to a node keyed by its frontmatter key/value")
}

func TestIndexer_ReindexUnchangedIsNoop(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# Title\n\nContent.\n")

	idx, meta := newTestIndexer(t)
	ctx := context.Background()

	_, err := idx.IndexAll(ctx, dir)
	require.NoError(t, err)

	before, err := meta.ChunkCount(ctx)
	require.NoError(t, err)

	_, err = idx.IndexAll(ctx, dir)
	require.NoError(t, err)

	after, err := meta.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
