package retrieval

import "errors"

var (
	// ErrEmbedderRequired is returned by NewDense when no embedder is
	// supplied.
	ErrEmbedderRequired = errors.New("retrieval: embedder is required")
	// ErrVectorStoreRequired is returned by NewDense when no vector
	// store is supplied.
	ErrVectorStoreRequired = errors.New("retrieval: vector store is required")
	// ErrSparseIndexRequired is returned by NewSparse when no sparse
	// index is supplied.
	ErrSparseIndexRequired = errors.New("retrieval: sparse index is required")
	// ErrGraphStoreRequired is returned by NewGraph when no graph store
	// is supplied.
	ErrGraphStoreRequired = errors.New("retrieval: graph store is required")
	// ErrMetaStoreRequired is returned by NewGraph when no metadata
	// store is supplied.
	ErrMetaStoreRequired = errors.New("retrieval: metadata store is required")
)
