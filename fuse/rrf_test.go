package fuse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmd/dotmd/core"
)

func TestRRF_AgreementBeatsSingleFirstPlace(t *testing.T) {
	lists := []NamedList{
		{Engine: "dense", Chunks: []core.ScoredChunk{
			{ChunkId: 1, Score: 0.9},
			{ChunkId: 2, Score: 0.5},
		}},
		{Engine: "sparse", Chunks: []core.ScoredChunk{
			{ChunkId: 2, Score: 4.0},
			{ChunkId: 3, Score: 3.0},
		}},
	}
	result := RRF(lists)
	require.NotEmpty(t, result)
	assert.Equal(t, core.ID(2), result[0].ChunkId, "chunk appearing in both lists should outrank a single first place")
}

func TestRRF_TieBreakByListCountThenID(t *testing.T) {
	lists := []NamedList{
		{Engine: "dense", Chunks: []core.ScoredChunk{{ChunkId: 5, Score: 1}, {ChunkId: 9, Score: 1}}},
		{Engine: "sparse", Chunks: []core.ScoredChunk{{ChunkId: 9, Score: 1}, {ChunkId: 5, Score: 1}}},
	}
	result := RRF(lists)
	// both chunks appear in both lists at symmetric ranks, so scores tie;
	// list count also ties, so ascending chunk ID decides.
	require.Len(t, result, 2)
	assert.Equal(t, core.ID(5), result[0].ChunkId)
	assert.Equal(t, core.ID(9), result[1].ChunkId)
}

func TestRRF_SingleListDegeneratesToRename(t *testing.T) {
	lists := []NamedList{
		{Engine: "dense", Chunks: []core.ScoredChunk{{ChunkId: 1, Score: 0.9}, {ChunkId: 2, Score: 0.1}}},
	}
	result := RRF(lists)
	require.Len(t, result, 2)
	assert.Equal(t, core.ID(1), result[0].ChunkId)
	assert.Equal(t, core.ID(2), result[1].ChunkId)
}

func TestRRF_CapsAtMaxCandidates(t *testing.T) {
	chunks := make([]core.ScoredChunk, 150)
	for i := range chunks {
		chunks[i] = core.ScoredChunk{ChunkId: core.ID(i + 1), Score: float64(150 - i)}
	}
	result := RRF([]NamedList{{Engine: "dense", Chunks: chunks}})
	assert.Len(t, result, MaxCandidates)
}
