package graphstore

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

func TestStore_UpsertEntitiesAndTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entity := core.Entity{Id: core.EntityID("go", core.EntityTechnology), CanonicalName: "go", Type: core.EntityTechnology}
	require.NoError(t, s.UpsertEntities(ctx, "/a.md", []core.Entity{entity}))

	count, err := s.EntityCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tag := core.Tag{Id: core.TagID("golang"), Raw: "golang"}
	require.NoError(t, s.UpsertTags(ctx, "/a.md", []core.Tag{tag}))
}

func TestStore_TraverseTwoHops(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunkA := core.ID(1)
	chunkB := core.ID(2)
	entity := core.ID(100)

	edges := []core.Edge{
		{Kind: core.EdgeMentions, From: chunkA, To: entity, Weight: 1.0},
		{Kind: core.EdgeMentions, From: chunkB, To: entity, Weight: 1.0},
	}
	require.NoError(t, s.UpsertEdges(ctx, "/a.md", edges))

	weights := map[core.EdgeKind]float64{core.EdgeMentions: 1.0}
	results, err := s.Traverse(ctx, []core.ID{chunkA}, 2, weights, 10)
	require.NoError(t, err)

	found := false
	for _, r := range results {
		if r.ChunkId == chunkB {
			found = true
		}
		assert.NotEqual(t, chunkA, r.ChunkId, "seed should not appear in results")
	}
	assert.True(t, found, "chunkB should be reachable via the shared entity")
}

func TestStore_Traverse_NoSeeds(t *testing.T) {
	s := newTestStore(t)
	results, err := s.Traverse(context.Background(), nil, 2, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_Sweep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	live := core.Entity{Id: core.EntityID("go", core.EntityTechnology), CanonicalName: "go", Type: core.EntityTechnology}
	orphan := core.Entity{Id: core.EntityID("rust", core.EntityTechnology), CanonicalName: "rust", Type: core.EntityTechnology}
	require.NoError(t, s.UpsertEntities(ctx, "/a.md", []core.Entity{live, orphan}))

	liveTag := core.Tag{Id: core.TagID("golang"), Raw: "golang"}
	orphanTag := core.Tag{Id: core.TagID("cobol"), Raw: "cobol"}
	require.NoError(t, s.UpsertTags(ctx, "/a.md", []core.Tag{liveTag, orphanTag}))

	edges := []core.Edge{{Kind: core.EdgeMentions, From: core.ID(1), To: live.Id, Weight: 1.0}}
	require.NoError(t, s.UpsertEdges(ctx, "/a.md", edges))

	result, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EntitiesRemoved)
	assert.Equal(t, 2, result.TagsRemoved)

	count, err := s.EntityCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_DeleteByFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	edges := []core.Edge{{Kind: core.EdgeMentions, From: core.ID(1), To: core.ID(2), Weight: 1.0}}
	require.NoError(t, s.UpsertEdges(ctx, "/a.md", edges))

	count, err := s.EdgeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.DeleteByFile(ctx, "/a.md"))

	count, err = s.EdgeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
