package metastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	backend, err := badger.NewMemoryBackend()
	require.NoError(t, err)
	s := New(backend)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_UpsertAndGetFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	f := &core.File{Path: "/notes/a.md", Title: "A", Checksum: "abc", IndexedAt: time.Now().UTC()}
	require.NoError(t, s.UpsertFile(ctx, f))

	got, err := s.GetFile(ctx, "/notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "abc", got.Checksum)
}

func TestStore_GetFile_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetFile(context.Background(), "/missing.md")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ChunksByFileLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunks := []core.Chunk{
		{Id: core.ChunkID("/notes/a.md", 0), FilePath: "/notes/a.md", Ordinal: 0, Text: "one"},
		{Id: core.ChunkID("/notes/a.md", 1), FilePath: "/notes/a.md", Ordinal: 1, Text: "two"},
	}
	require.NoError(t, s.UpsertChunks(ctx, chunks))

	got, err := s.GetChunksByFile(ctx, "/notes/a.md")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	count, err := s.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.DeleteChunksByFile(ctx, "/notes/a.md"))

	got, err = s.GetChunksByFile(ctx, "/notes/a.md")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_SectionsByFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sec := core.Section{Id: core.SectionID("/notes/a.md", []string{"Intro"}), FilePath: "/notes/a.md", Heading: "Intro"}
	require.NoError(t, s.UpsertSections(ctx, []core.Section{sec}))

	got, err := s.GetSection(ctx, sec.Id)
	require.NoError(t, err)
	assert.Equal(t, "Intro", got.Heading)

	require.NoError(t, s.DeleteSectionsByFile(ctx, "/notes/a.md"))
	_, err = s.GetSection(ctx, sec.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_GetChunk_CachedAfterFirstRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := core.Chunk{Id: core.ChunkID("/notes/a.md", 0), FilePath: "/notes/a.md", Text: "hello"}
	require.NoError(t, s.UpsertChunks(ctx, []core.Chunk{c}))

	got, err := s.GetChunk(ctx, c.Id)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	s.cache.Wait()

	cached, ok := s.cache.Get(uint64(c.Id))
	require.True(t, ok)
	assert.Equal(t, "hello", cached.Text)

	got, err = s.GetChunk(ctx, c.Id)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
}

func TestStore_GetChunk_CacheInvalidatedByUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := core.Chunk{Id: core.ChunkID("/notes/a.md", 0), FilePath: "/notes/a.md", Text: "v1"}
	require.NoError(t, s.UpsertChunks(ctx, []core.Chunk{c}))
	_, err := s.GetChunk(ctx, c.Id)
	require.NoError(t, err)
	s.cache.Wait()

	c.Text = "v2"
	require.NoError(t, s.UpsertChunks(ctx, []core.Chunk{c}))

	got, err := s.GetChunk(ctx, c.Id)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Text)
}

func TestStore_GetChunks_MixedCacheHitsAndMisses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunks := []core.Chunk{
		{Id: core.ChunkID("/notes/a.md", 0), FilePath: "/notes/a.md", Text: "one"},
		{Id: core.ChunkID("/notes/a.md", 1), FilePath: "/notes/a.md", Text: "two"},
	}
	require.NoError(t, s.UpsertChunks(ctx, chunks))

	_, err := s.GetChunk(ctx, chunks[0].Id)
	require.NoError(t, err)
	s.cache.Wait()

	got, err := s.GetChunks(ctx, []core.ID{chunks[0].Id, chunks[1].Id})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStore_ListFilePaths(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertFile(ctx, &core.File{Path: "/a.md"}))
	require.NoError(t, s.UpsertFile(ctx, &core.File{Path: "/b.md"}))

	paths, err := s.ListFilePaths(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/a.md", "/b.md"}, paths)
}

func TestStore_LastIndexedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	require.NoError(t, s.UpsertFile(ctx, &core.File{Path: "/a.md", IndexedAt: older}))
	require.NoError(t, s.UpsertFile(ctx, &core.File{Path: "/b.md", IndexedAt: newer}))

	got, err := s.LastIndexedAt(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, newer, got, time.Second)
}
