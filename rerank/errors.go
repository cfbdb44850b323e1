package rerank

import "errors"

var (
	// ErrRerankerRequired is returned by New when no cross-encoder
	// client is supplied.
	ErrRerankerRequired = errors.New("rerank: reranker is required")
	// ErrMetaStoreRequired is returned by New when no metadata store is
	// supplied.
	ErrMetaStoreRequired = errors.New("rerank: metadata store is required")
)
