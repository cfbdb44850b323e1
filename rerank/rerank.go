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

// Package rerank scores fused candidates with a cross-encoder and turns
// the survivors into final, presentable results.
package rerank

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dotmd/dotmd/ai"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/fuse"
	"github.com/dotmd/dotmd/storage"
)

// tracer uses the global otel provider, a no-op until a caller installs a
// real SDK.
var tracer = otel.Tracer("github.com/dotmd/dotmd/rerank")

// maxPassageChars bounds the (heading path + chunk text) passage sent
// to the cross-encoder, roughly matching typical cross-encoder input
// windows.
const maxPassageChars = 2000

// Result is one final, presentable search hit.
type Result struct {
	ChunkId      core.ID
	FilePath     string
	HeadingPath  []string
	Snippet      string
	Score        float64
	EngineScores map[string]float64
}

// Reranker scores fused candidates against the query with a
// cross-encoder, applying a length penalty and a score floor.
type Reranker struct {
	reranker   ai.Reranker
	meta       storage.MetaStore
	scoreFloor float64
}

// New builds a Reranker. scoreFloor drops adjusted scores below it
// (spec default: -8.0).
func New(reranker ai.Reranker, meta storage.MetaStore, scoreFloor float64) (*Reranker, error) {
	if reranker == nil {
		return nil, ErrRerankerRequired
	}
	if meta == nil {
		return nil, ErrMetaStoreRequired
	}
	return &Reranker{reranker: reranker, meta: meta, scoreFloor: scoreFloor}, nil
}

// Rerank scores candidates against query and returns the top topK by
// adjusted score. When apply is false, reranking is bypassed and the
// fused top topK is returned directly, in fused order.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []fuse.Candidate, topK int, apply bool) ([]Result, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if !apply {
		return r.bypass(ctx, candidates, topK)
	}

	chunkByID, err := r.loadChunks(ctx, candidates)
	if err != nil {
		return nil, err
	}

	rcCandidates := make([]ai.RerankCandidate, 0, len(candidates))
	for _, cand := range candidates {
		chunk, ok := chunkByID[cand.ChunkId]
		if !ok {
			continue
		}
		passage := strings.Join(chunk.HeadingPath, " > ") + "\n" + chunk.Text
		rcCandidates = append(rcCandidates, ai.RerankCandidate{
			ChunkID: cand.ChunkId,
			Text:    truncate(passage, maxPassageChars),
		})
	}
	if len(rcCandidates) == 0 {
		return nil, nil
	}

	scored, err := r.rerankTraced(ctx, query, rcCandidates)
	if err != nil {
		return nil, err
	}

	engineScoresByID := make(map[core.ID]map[string]float64, len(candidates))
	for _, cand := range candidates {
		engineScoresByID[cand.ChunkId] = cand.EngineScores
	}

	results := make([]Result, 0, len(scored))
	for _, s := range scored {
		chunk, ok := chunkByID[s.ChunkID]
		if !ok {
			continue
		}
		adjusted := lengthPenalty(chunk.Text, s.Score)
		if adjusted < r.scoreFloor {
			continue
		}
		results = append(results, Result{
			ChunkId:      s.ChunkID,
			FilePath:     chunk.FilePath,
			HeadingPath:  chunk.HeadingPath,
			Snippet:      Snippet(query, chunk.Text),
			Score:        adjusted,
			EngineScores: engineScoresByID[s.ChunkID],
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// rerankTraced wraps the cross-encoder call in a span recording the
// candidate count, so a configured otel SDK can attribute reranking
// latency separately from the retrievers it runs after.
func (r *Reranker) rerankTraced(ctx context.Context, query string, candidates []ai.RerankCandidate) ([]ai.RerankResult, error) {
	ctx, span := tracer.Start(ctx, "rerank.cross_encoder", trace.WithAttributes(attribute.Int("candidates", len(candidates))))
	defer span.End()

	scored, err := r.reranker.Rerank(ctx, query, candidates)
	if err != nil {
		span.RecordError(err)
	}
	return scored, err
}

// bypass turns the fused top topK directly into Results without
// invoking the cross-encoder.
func (r *Reranker) bypass(ctx context.Context, candidates []fuse.Candidate, topK int) ([]Result, error) {
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	chunkByID, err := r.loadChunks(ctx, candidates)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(candidates))
	for _, cand := range candidates {
		chunk, ok := chunkByID[cand.ChunkId]
		if !ok {
			continue
		}
		results = append(results, Result{
			ChunkId:      cand.ChunkId,
			FilePath:     chunk.FilePath,
			HeadingPath:  chunk.HeadingPath,
			Snippet:      Snippet("", chunk.Text),
			Score:        cand.Score,
			EngineScores: cand.EngineScores,
		})
	}
	return results, nil
}

func (r *Reranker) loadChunks(ctx context.Context, candidates []fuse.Candidate) (map[core.ID]core.Chunk, error) {
	ids := make([]core.ID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ChunkId
	}
	chunks, err := r.meta.GetChunks(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[core.ID]core.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.Id] = c
	}
	return byID, nil
}

// lengthPenalty multiplicatively discounts raw scores for chunks
// shorter than 100 characters, per spec.md §4.8.
func lengthPenalty(text string, raw float64) float64 {
	n := len([]rune(text))
	if n >= 100 {
		return raw
	}
	factor := 0.5 + 0.5*(float64(n)/100.0)
	return raw * factor
}
