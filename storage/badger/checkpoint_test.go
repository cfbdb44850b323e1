package badger

import (
	"context"
	"testing"

	"github.com/dotmd/dotmd/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointStore_SaveAndLoad(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	store := NewCheckpointStore(backend)
	ctx := context.Background()

	cp := &core.Checkpoint{ProcessorType: "indexer", LastId: core.ID(42)}
	require.NoError(t, store.SaveCheckpoint(ctx, cp))

	loaded, err := store.LoadCheckpoint(ctx, "indexer")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, core.ID(42), loaded.LastId)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestCheckpointStore_LoadMissing(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	store := NewCheckpointStore(backend)
	loaded, err := store.LoadCheckpoint(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
