package retrieval

import (
	"context"

	"github.com/dotmd/dotmd/ai"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
)

// Dense encodes the query with the same embedding model used at index
// time and runs approximate-nearest-neighbour search against the
// vector store.
type Dense struct {
	embedder ai.Embedder
	vectors  storage.VectorStore
}

var _ Retriever = (*Dense)(nil)

// NewDense builds a Dense retriever.
func NewDense(embedder ai.Embedder, vectors storage.VectorStore) (*Dense, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	return &Dense{embedder: embedder, vectors: vectors}, nil
}

// Retrieve embeds query and returns up to limit nearest neighbours by
// cosine similarity. Model identity mismatch between index and query is
// checked upstream, at config load time, not here.
func (d *Dense) Retrieve(ctx context.Context, query string, limit int) ([]core.ScoredChunk, error) {
	return traced(ctx, "dense", func(ctx context.Context) ([]core.ScoredChunk, error) {
		vector, err := d.embedder.EmbedText(ctx, query)
		if err != nil {
			return nil, err
		}
		return d.vectors.FindSimilar(ctx, vector, limit)
	})
}
