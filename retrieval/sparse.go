package retrieval

import (
	"context"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/sparseindex"
)

// Sparse tokenises the query with the same tokeniser used at index time
// and scores it against the corpus's BM25 postings.
type Sparse struct {
	index storage.SparseIndex
}

var _ Retriever = (*Sparse)(nil)

// NewSparse builds a Sparse retriever.
func NewSparse(index storage.SparseIndex) (*Sparse, error) {
	if index == nil {
		return nil, ErrSparseIndexRequired
	}
	return &Sparse{index: index}, nil
}

// Retrieve tokenises query and returns the top limit chunks by BM25
// score. An empty query tokenises to nothing and returns an empty
// result, per spec: empty-query scores are undefined.
func (s *Sparse) Retrieve(ctx context.Context, query string, limit int) ([]core.ScoredChunk, error) {
	return traced(ctx, "sparse", func(ctx context.Context) ([]core.ScoredChunk, error) {
		tokens := sparseindex.Tokenize(query)
		if len(tokens) == 0 {
			return nil, nil
		}
		return s.index.Search(ctx, tokens, limit)
	})
}
