package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// a batch. The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EntityExtractor performs zero-shot named entity recognition over a
// chunk of text. Implementations must be thread-safe for concurrent use.
type EntityExtractor interface {
	// ExtractEntities analyzes text and returns the named entities it
	// mentions, each tagged with a type and confidence score. Returns an
	// empty slice if no entities are found.
	ExtractEntities(ctx context.Context, text string) ([]ExtractedEntity, error)
}

// Reranker scores a query against a batch of candidate passages using a
// cross-encoder model, producing a relevance score per candidate.
// Implementations must be thread-safe for concurrent use.
type Reranker interface {
	// Rerank scores each candidate against query. The returned slice has
	// one result per candidate, in the same order.
	Rerank(ctx context.Context, query string, candidates []RerankCandidate) ([]RerankResult, error)
}

// Provider aggregates the AI services used across indexing and query,
// so they can share configuration and lifecycle.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// EntityExtractor returns the entity extraction service.
	EntityExtractor() EntityExtractor

	// Reranker returns the cross-encoder reranking service.
	Reranker() Reranker

	// Close releases resources held by the provider and its services.
	Close() error
}
