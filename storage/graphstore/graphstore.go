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

// Package graphstore implements storage.GraphStore on top of BadgerDB.
// Entities, tags and edges are node/edge tables keyed by stable IDs;
// cross-record navigation always goes through those IDs, never through
// an in-memory object graph, so the property graph can hold cycles
// safely.
package graphstore

import (
	"context"
	"slices"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
)

// Store implements storage.GraphStore for BadgerDB.
type Store struct {
	backend *badger.Backend
}

var _ storage.GraphStore = (*Store)(nil)

// New creates a graph store over an already-open backend.
func New(backend *badger.Backend) *Store {
	return &Store{backend: backend}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// UpsertEntities writes entity records and their (type, name) tuple
// index. filePath is not recorded: entities belong to no file, and
// Sweep reclaims those that no edge references any more.
func (s *Store) UpsertEntities(ctx context.Context, filePath string, entities []core.Entity) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for i := range entities {
			e := entities[i]
			if err := tx.Set(badger.MakeEntityKey(e.Id), storage.MarshalEntity(&e)); err != nil {
				return err
			}
			tuple := badger.MakeEntityTupleKey(e.Type, e.CanonicalName)
			if err := tx.Set(tuple, storage.MarshalID(e.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpsertTags writes tag records and their raw-text tuple index.
func (s *Store) UpsertTags(ctx context.Context, filePath string, tags []core.Tag) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for i := range tags {
			t := tags[i]
			if err := tx.Set(badger.MakeTagKey(t.Id), storage.MarshalTag(&t)); err != nil {
				return err
			}
			tuple := badger.MakeTagTupleKey(t.Raw)
			if err := tx.Set(tuple, storage.MarshalID(t.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpsertEdges writes each edge under its forward key, its reverse
// adjacency key, and a by-file index entry so a re-index can find and
// remove exactly the edges it produced.
func (s *Store) UpsertEdges(ctx context.Context, filePath string, edges []core.Edge) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for i := range edges {
			e := edges[i]
			value := storage.MarshalEdge(&e)
			if err := tx.Set(badger.MakeEdgeKey(e.Kind, e.From, e.To), value); err != nil {
				return err
			}
			if err := tx.Set(badger.MakeEdgeRevKey(e.Kind, e.From, e.To), value); err != nil {
				return err
			}
			fkey := badger.MakeEdgeByFileKey(filePath, e.Kind, e.From, e.To)
			if err := tx.Set(fkey, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteByFile removes every edge this file produced, along with their
// reverse-adjacency entries. Entities and tags are left in place since
// they may still be referenced by other files; a separate garbage
// collection sweep reclaims ones with no remaining edges.
func (s *Store) DeleteByFile(ctx context.Context, filePath string) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true
		prefix := badger.MakePartialEdgeByFileKey(filePath)
		it := tx.NewIterator(opts)
		var edges []core.Edge
		var fkeys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			fkeys = append(fkeys, append([]byte(nil), it.Item().Key()...))
			err := it.Item().Value(func(val []byte) error {
				e, innerErr := storage.UnmarshalEdge(val)
				if innerErr != nil {
					return innerErr
				}
				edges = append(edges, *e)
				return nil
			})
			if err != nil {
				it.Close()
				return err
			}
		}
		it.Close()

		for i, e := range edges {
			if err := tx.Delete(badger.MakeEdgeKey(e.Kind, e.From, e.To)); err != nil {
				return err
			}
			if err := tx.Delete(badger.MakeEdgeRevKey(e.Kind, e.From, e.To)); err != nil {
				return err
			}
			if err := tx.Delete(fkeys[i]); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

type adjEdge struct {
	kind core.EdgeKind
	node core.ID
}

// Traverse performs a bounded-hop weighted walk from seeds, following
// edges in both directions (an entity MENTIONed by one chunk connects
// it to every other chunk mentioning the same entity, which requires
// walking the MENTIONS edge backward from the entity). Every reachable
// node accumulates Σ edge_weight / hop² across all paths that reach it;
// seeds themselves are excluded from the result. Callers are expected
// to resolve returned IDs against the metadata store and discard any
// that do not name a chunk.
func (s *Store) Traverse(ctx context.Context, seeds []core.ID, maxHops int, weights map[core.EdgeKind]float64, limit int) ([]core.ScoredChunk, error) {
	if len(seeds) == 0 {
		return nil, nil
	}

	scores := make(map[core.ID]float64)
	seedSet := make(map[core.ID]bool, len(seeds))
	for _, id := range seeds {
		seedSet[id] = true
	}

	frontier := append([]core.ID(nil), seeds...)
	visited := make(map[core.ID]bool, len(seeds))
	for _, id := range seeds {
		visited[id] = true
	}

	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
			hopWeight := 1.0 / float64(hop*hop)
			next := make([]core.ID, 0)
			seenThisHop := make(map[core.ID]bool)

			for _, node := range frontier {
				neighbors, err := adjacency(tx, node)
				if err != nil {
					return err
				}
				for _, adj := range neighbors {
					w, ok := weights[adj.kind]
					if !ok {
						continue
					}
					if !seedSet[adj.node] {
						scores[adj.node] += w * hopWeight
					}
					if !visited[adj.node] && !seenThisHop[adj.node] {
						next = append(next, adj.node)
						seenThisHop[adj.node] = true
					}
				}
			}

			for _, id := range next {
				visited[id] = true
			}
			frontier = next
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
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
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func adjacency(tx *badgerdb.Txn, node core.ID) ([]adjEdge, error) {
	var out []adjEdge

	fwd := badger.MakeEdgeFromPrefix(node)
	fwdLen := len(fwd)
	opts := badgerdb.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := tx.NewIterator(opts)
	for it.Seek(fwd); it.ValidForPrefix(fwd); it.Next() {
		kind, other := badger.ParseEdgeAdjKey(it.Item().Key(), fwdLen-8)
		out = append(out, adjEdge{kind: kind, node: other})
	}
	it.Close()

	rev := badger.MakeEdgeRevPrefix(node)
	revLen := len(rev)
	it2 := tx.NewIterator(opts)
	for it2.Seek(rev); it2.ValidForPrefix(rev); it2.Next() {
		kind, other := badger.ParseEdgeAdjKey(it2.Item().Key(), revLen-8)
		out = append(out, adjEdge{kind: kind, node: other})
	}
	it2.Close()

	return out, nil
}

// Sweep removes every entity and tag with no edge referencing it in
// either direction. It runs in one transaction: a full scan of the
// edge table builds the referenced-ID set, then entity and tag records
// not in that set are deleted along with their tuple-index entries.
func (s *Store) Sweep(ctx context.Context) (storage.SweepResult, error) {
	var result storage.SweepResult
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		referenced, err := referencedNodeSet(tx)
		if err != nil {
			return err
		}

		var deleteKeys [][]byte

		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true

		entityPrefix := []byte(badger.EntityPrefix + ":")
		eit := tx.NewIterator(opts)
		for eit.Seek(entityPrefix); eit.ValidForPrefix(entityPrefix); eit.Next() {
			key := append([]byte(nil), eit.Item().Key()...)
			err := eit.Item().Value(func(val []byte) error {
				e, err := storage.UnmarshalEntity(val)
				if err != nil {
					return err
				}
				if referenced[e.Id] {
					return nil
				}
				deleteKeys = append(deleteKeys, key, badger.MakeEntityTupleKey(e.Type, e.CanonicalName))
				result.EntitiesRemoved++
				return nil
			})
			if err != nil {
				eit.Close()
				return err
			}
		}
		eit.Close()

		tagPrefix := []byte(badger.TagPrefix + ":")
		tit := tx.NewIterator(opts)
		for tit.Seek(tagPrefix); tit.ValidForPrefix(tagPrefix); tit.Next() {
			key := append([]byte(nil), tit.Item().Key()...)
			err := tit.Item().Value(func(val []byte) error {
				tg, err := storage.UnmarshalTag(val)
				if err != nil {
					return err
				}
				if referenced[tg.Id] {
					return nil
				}
				deleteKeys = append(deleteKeys, key, badger.MakeTagTupleKey(tg.Raw))
				result.TagsRemoved++
				return nil
			})
			if err != nil {
				tit.Close()
				return err
			}
		}
		tit.Close()

		for _, key := range deleteKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	return result, err
}

// referencedNodeSet scans the full forward edge table and returns every
// node ID that appears as either endpoint of an edge.
func referencedNodeSet(tx *badgerdb.Txn) (map[core.ID]bool, error) {
	referenced := make(map[core.ID]bool)
	opts := badgerdb.DefaultIteratorOptions
	opts.PrefetchValues = true
	prefix := []byte(badger.EdgePrefix + ":")
	it := tx.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			e, err := storage.UnmarshalEdge(val)
			if err != nil {
				return err
			}
			referenced[e.From] = true
			referenced[e.To] = true
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return referenced, nil
}

// EntityCount returns the number of distinct entities in the graph.
func (s *Store) EntityCount(ctx context.Context) (int, error) {
	return s.countPrefix([]byte(badger.EntityPrefix + ":"))
}

// EdgeCount returns the number of distinct forward edges in the graph.
func (s *Store) EdgeCount(ctx context.Context) (int, error) {
	return s.countPrefix([]byte(badger.EdgePrefix + ":"))
}

func (s *Store) countPrefix(prefix []byte) (int, error) {
	var n int
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	}, false)
	return n, err
}
