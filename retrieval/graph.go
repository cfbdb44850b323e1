package retrieval

import (
	"context"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
)

// maxHops bounds graph traversal per spec.md §4.6.
const maxHops = 2

// overfetchFactor requests more candidates than limit from the graph
// store's Traverse, since it returns entity and tag nodes alongside
// chunks and those get filtered out below.
const overfetchFactor = 5

// Graph seeds a bounded-hop weighted walk from the union of the dense
// and sparse retrievers' top results. If neither produces a seed, it
// returns no results without touching the graph store. Traverse walks
// the raw property graph and returns every reachable node, chunk or
// not, so Graph resolves results against the metadata store and keeps
// only the ones that name a chunk.
type Graph struct {
	graph      storage.GraphStore
	meta       storage.MetaStore
	dense      Retriever
	sparse     Retriever
	seedBudget int
	weights    map[core.EdgeKind]float64
}

var _ Retriever = (*Graph)(nil)

// NewGraph builds a Graph retriever. seedBudget caps the union of dense
// and sparse seed chunks (spec default: 20); weights are the per-edge-
// type constants used by the Σ edge_weight/hop² scoring formula.
func NewGraph(graph storage.GraphStore, meta storage.MetaStore, dense, sparse Retriever, seedBudget int, weights map[core.EdgeKind]float64) (*Graph, error) {
	if graph == nil {
		return nil, ErrGraphStoreRequired
	}
	if meta == nil {
		return nil, ErrMetaStoreRequired
	}
	if seedBudget <= 0 {
		seedBudget = 20
	}
	return &Graph{graph: graph, meta: meta, dense: dense, sparse: sparse, seedBudget: seedBudget, weights: weights}, nil
}

// Retrieve seeds a traversal from dense+sparse results and returns the
// top limit reachable chunks by accumulated score.
func (g *Graph) Retrieve(ctx context.Context, query string, limit int) ([]core.ScoredChunk, error) {
	return traced(ctx, "graph", func(ctx context.Context) ([]core.ScoredChunk, error) {
		seeds, err := g.seedIDs(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(seeds) == 0 {
			return nil, nil
		}

		raw, err := g.graph.Traverse(ctx, seeds, maxHops, g.weights, limit*overfetchFactor)
		if err != nil {
			return nil, err
		}

		ids := make([]core.ID, len(raw))
		for i, r := range raw {
			ids[i] = r.ChunkId
		}
		chunks, err := g.meta.GetChunks(ctx, ids)
		if err != nil {
			return nil, err
		}
		isChunk := make(map[core.ID]bool, len(chunks))
		for _, c := range chunks {
			isChunk[c.Id] = true
		}

		results := make([]core.ScoredChunk, 0, limit)
		for _, r := range raw {
			if !isChunk[r.ChunkId] {
				continue
			}
			results = append(results, r)
			if len(results) == limit {
				break
			}
		}
		return results, nil
	})
}

// seedIDs collects the union of the dense and sparse retrievers' top
// chunk IDs, up to the configured seed budget, preserving the order
// they were first seen in (dense first, then sparse).
func (g *Graph) seedIDs(ctx context.Context, query string) ([]core.ID, error) {
	seen := make(map[core.ID]bool)
	var seeds []core.ID

	add := func(chunks []core.ScoredChunk) {
		for _, c := range chunks {
			if len(seeds) >= g.seedBudget {
				return
			}
			if seen[c.ChunkId] {
				continue
			}
			seen[c.ChunkId] = true
			seeds = append(seeds, c.ChunkId)
		}
	}

	if g.dense != nil {
		dense, err := g.dense.Retrieve(ctx, query, g.seedBudget)
		if err != nil {
			return nil, err
		}
		add(dense)
	}
	if g.sparse != nil && len(seeds) < g.seedBudget {
		sparse, err := g.sparse.Retrieve(ctx, query, g.seedBudget)
		if err != nil {
			return nil, err
		}
		add(sparse)
	}
	return seeds, nil
}
