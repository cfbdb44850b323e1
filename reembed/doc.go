// Package reembed re-runs the dense embedding step over an already-indexed
// corpus, for use after an embedding model identity change.
//
// This package supports batch processing of chunks, progress tracking,
// retry logic with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search.
package reembed
