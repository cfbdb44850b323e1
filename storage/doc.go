// Package storage defines the role interfaces dotmd's stores implement:
// metadata, dense vectors, the sparse BM25 index, the property graph,
// and processor checkpoints. storage/badger provides a BadgerDB-backed
// implementation of all five.
package storage
