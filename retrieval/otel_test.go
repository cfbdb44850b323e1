package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotmd/dotmd/core"
)

func TestTraced_PassesThroughResults(t *testing.T) {
	want := []core.ScoredChunk{{ChunkId: core.ID(1), Score: 0.9}}
	got, err := traced(context.Background(), "dense", func(ctx context.Context) ([]core.ScoredChunk, error) {
		assert.NotNil(t, ctx)
		return want, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTraced_PassesThroughError(t *testing.T) {
	boom := errors.New("boom")
	_, err := traced(context.Background(), "sparse", func(ctx context.Context) ([]core.ScoredChunk, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
