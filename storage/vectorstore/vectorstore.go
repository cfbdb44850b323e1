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

// Package vectorstore implements storage.VectorStore on top of
// BadgerDB: one dense embedding per chunk, searched by brute-force
// cosine similarity. Chunks are expected to carry unit-normalized
// vectors, so cosine similarity reduces to a dot product.
package vectorstore

import (
	"context"
	"encoding/binary"
	"math"
	"slices"
	"strconv"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
)

// Store implements storage.VectorStore for BadgerDB.
type Store struct {
	backend *badger.Backend
}

var _ storage.VectorStore = (*Store)(nil)

// New creates a vector store over an already-open backend.
func New(backend *badger.Backend) *Store {
	return &Store{backend: backend}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// UpsertVectors writes each chunk's Vector field, keyed by chunk ID.
// Chunks with no vector are skipped.
func (s *Store) UpsertVectors(ctx context.Context, chunks []core.Chunk) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for _, c := range chunks {
			if len(c.Vector) == 0 {
				continue
			}
			key := badger.MakeVectorKey(c.Id)
			if err := tx.Set(key, marshalVector(c.Vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteVectors removes the vectors for the given chunk IDs.
func (s *Store) DeleteVectors(ctx context.Context, ids []core.ID) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(badger.MakeVectorKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar performs a brute-force nearest-neighbour scan over every
// stored vector, scoring by cosine similarity, and returns the top
// limit chunks by descending score.
func (s *Store) FindSimilar(ctx context.Context, vector []float32, limit int) ([]core.ScoredChunk, error) {
	var results []core.ScoredChunk

	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true
		prefix := []byte(badger.VectorPrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id, err := chunkIDFromVectorKey(item.Key())
			if err != nil {
				return err
			}

			var score float64
			err = item.Value(func(val []byte) error {
				stored := unmarshalVector(val)
				score = cosineSimilarity(vector, stored)
				return nil
			})
			if err != nil {
				return err
			}

			results = append(results, core.ScoredChunk{ChunkId: id, Score: score})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of stored vectors.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(badger.VectorPrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	}, false)
	return n, err
}

func marshalVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func unmarshalVector(data []byte) []float32 {
	n := len(data) / 4
	v := make([]float32, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float32frombits(binary.BigEndian.Uint32(data[i*4:]))
	}
	return v
}

func chunkIDFromVectorKey(key []byte) (core.ID, error) {
	// Format: "vector:<id>"
	prefixLen := len(badger.VectorPrefix) + 1
	id, err := strconv.ParseUint(string(key[prefixLen:]), 10, 64)
	if err != nil {
		return 0, err
	}
	return core.ID(id), nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
