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

// Package sparseindex implements storage.SparseIndex: a BM25 postings
// index over the full chunk corpus, rebuilt in one pass and stored as
// a single gob-serialized, zstd-compressed blob in BadgerDB.
package sparseindex

import (
	"bytes"
	"context"
	"encoding/gob"
	"math"
	"regexp"
	"slices"
	"strings"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
)

const (
	k1 = 1.5
	b  = 0.75
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Tokenize lowercases text and splits it into alphanumeric terms. Used
// both to build the index and to tokenize incoming queries, so the two
// sides of a lookup are always tokenized identically.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// bm25Index is the serialized form of the postings table.
type bm25Index struct {
	K1              float64
	B               float64
	DocCount        int
	AvgDocLen       float64
	DocLens         map[core.ID]int
	Postings        map[string]map[core.ID]int // term -> chunkID -> term frequency
	DocFreq         map[string]int             // term -> number of docs containing it
}

// Store implements storage.SparseIndex for BadgerDB.
type Store struct {
	backend *badger.Backend
}

var _ storage.SparseIndex = (*Store)(nil)

// New creates a sparse index store over an already-open backend.
func New(backend *badger.Backend) *Store {
	return &Store{backend: backend}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Rebuild recomputes the whole postings table from the given corpus and
// writes it as a single blob, replacing whatever was there before. BM25
// needs a full-corpus view of document frequency and average length, so
// there is no incremental variant.
func (s *Store) Rebuild(ctx context.Context, chunks []core.Chunk) error {
	idx := bm25Index{
		K1:       k1,
		B:        b,
		DocCount: len(chunks),
		DocLens:  make(map[core.ID]int, len(chunks)),
		Postings: make(map[string]map[core.ID]int),
		DocFreq:  make(map[string]int),
	}

	var totalLen int
	for _, c := range chunks {
		terms := Tokenize(c.Text)
		idx.DocLens[c.Id] = len(terms)
		totalLen += len(terms)

		seen := make(map[string]bool, len(terms))
		freq := make(map[string]int, len(terms))
		for _, t := range terms {
			freq[t]++
		}
		for t, tf := range freq {
			if idx.Postings[t] == nil {
				idx.Postings[t] = make(map[core.ID]int)
			}
			idx.Postings[t][c.Id] = tf
			if !seen[t] {
				idx.DocFreq[t]++
				seen[t] = true
			}
		}
	}
	if idx.DocCount > 0 {
		idx.AvgDocLen = float64(totalLen) / float64(idx.DocCount)
	}

	blob, err := marshalIndex(&idx)
	if err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(badger.MakeSparseIndexKey(), blob); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Search scores every document that contains at least one query term
// with the standard BM25 formula and returns the top limit chunks by
// descending score. An empty token list yields an empty result.
func (s *Store) Search(ctx context.Context, tokens []string, limit int) ([]core.ScoredChunk, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	idx, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if idx == nil || idx.DocCount == 0 {
		return nil, nil
	}

	scores := make(map[core.ID]float64)
	for _, term := range tokens {
		postings := idx.Postings[term]
		if len(postings) == 0 {
			continue
		}
		df := idx.DocFreq[term]
		idf := math.Log(1 + (float64(idx.DocCount)-float64(df)+0.5)/(float64(df)+0.5))
		for chunkID, tf := range postings {
			docLen := float64(idx.DocLens[chunkID])
			denom := float64(tf) + idx.K1*(1-idx.B+idx.B*docLen/idx.AvgDocLen)
			scores[chunkID] += idf * (float64(tf) * (idx.K1 + 1)) / denom
		}
	}

	results := make([]core.ScoredChunk, 0, len(scores))
	for id, score := range scores {
		results = append(results, core.ScoredChunk{ChunkId: id, Score: score})
	}
	slices.SortFunc(results, func(a, b core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.ChunkId < b.ChunkId {
			return -1
		}
		if a.ChunkId > b.ChunkId {
			return 1
		}
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of documents in the current index.
func (s *Store) Count(ctx context.Context) (int, error) {
	idx, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if idx == nil {
		return 0, nil
	}
	return idx.DocCount, nil
}

func (s *Store) load(ctx context.Context) (*bm25Index, error) {
	var idx *bm25Index
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(badger.MakeSparseIndexKey())
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var innerErr error
			idx, innerErr = unmarshalIndex(val)
			return innerErr
		})
	}, false)
	return idx, err
}

func marshalIndex(idx *bm25Index) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(idx); err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw.Bytes(), nil), nil
}

func unmarshalIndex(data []byte) (*bm25Index, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}

	var idx bm25Index
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&idx); err != nil {
		return nil, err
	}
	return &idx, nil
}
