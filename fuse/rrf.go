// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fuse combines the ranked lists produced by the retrievers
// into one candidate list, using Reciprocal Rank Fusion.
package fuse

import (
	"sort"

	"github.com/dotmd/dotmd/core"
)

// K is RRF's rank-smoothing constant.
const K = 60.0

// MaxCandidates bounds the fused output.
const MaxCandidates = 100

// NamedList is one retriever's ranked output, best result first.
type NamedList struct {
	Engine string
	Chunks []core.ScoredChunk
}

// Candidate is one fused result: its RRF score, the engine scores it
// carried in, and how many lists it appeared in (used for tie-breaking).
type Candidate struct {
	ChunkId      core.ID
	Score        float64
	EngineScores map[string]float64
	ListCount    int
}

// RRF fuses lists by Σ 1/(K+rank) over the lists each chunk appears in.
// Ties are broken by list count (descending) then chunk ID (ascending),
// so the fused order is deterministic. When only one list is supplied (single-mode search: mode
// != hybrid), this formula reduces to a monotonic function of rank
// alone, so fusing degenerates to renaming that list's order — no
// special case is needed.
func RRF(lists []NamedList) []Candidate {
	scores := make(map[core.ID]float64)
	engineScores := make(map[core.ID]map[string]float64)
	listCount := make(map[core.ID]int)
	var order []core.ID
	seen := make(map[core.ID]bool)

	for _, list := range lists {
		for i, c := range list.Chunks {
			rank := i + 1
			scores[c.ChunkId] += 1.0 / (K + float64(rank))
			if engineScores[c.ChunkId] == nil {
				engineScores[c.ChunkId] = make(map[string]float64)
			}
			engineScores[c.ChunkId][list.Engine] = c.Score
			listCount[c.ChunkId]++
			if !seen[c.ChunkId] {
				seen[c.ChunkId] = true
				order = append(order, c.ChunkId)
			}
		}
	}

	candidates := make([]Candidate, 0, len(order))
	for _, id := range order {
		candidates = append(candidates, Candidate{
			ChunkId:      id,
			Score:        scores[id],
			EngineScores: engineScores[id],
			ListCount:    listCount[id],
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].ListCount != candidates[j].ListCount {
			return candidates[i].ListCount > candidates[j].ListCount
		}
		return candidates[i].ChunkId < candidates[j].ChunkId
	})

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}
