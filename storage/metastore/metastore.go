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

// Package metastore implements storage.MetaStore on top of BadgerDB:
// files, sections and chunks, the source of truth for everything
// except vectors, postings and graph edges.
package metastore

import (
	"context"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
)

// chunkCacheCounters and chunkCacheMaxCost size the read-through cache in
// front of GetChunk: query-time hot paths (dense/sparse/graph retrieval all
// resolve the same handful of chunk IDs repeatedly per query) benefit from
// avoiding a badger lookup on every hit.
const (
	chunkCacheCounters = 10_000
	chunkCacheMaxCost  = 1 << 20 // 1MiB of chunk bytes, ristretto cost units
)

// Store implements storage.MetaStore for BadgerDB, with a ristretto
// read-through cache in front of chunk reads. The cache is keyed on the
// plain uint64 underlying core.ID, since ristretto's built-in key hashing
// only recognizes a fixed set of primitive types.
type Store struct {
	backend *badger.Backend
	cache   *ristretto.Cache[uint64, *core.Chunk]
}

var _ storage.MetaStore = (*Store)(nil)

// New creates a metadata store over an already-open backend.
func New(backend *badger.Backend) *Store {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, *core.Chunk]{
		NumCounters: chunkCacheCounters,
		MaxCost:     chunkCacheMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		// NumCounters/MaxCost/BufferItems are compile-time constants above;
		// ristretto only rejects a malformed Config, which this isn't.
		panic(err)
	}
	return &Store{backend: backend, cache: cache}
}

// Close closes the read-through cache and the underlying backend.
func (s *Store) Close() error {
	s.cache.Close()
	return s.backend.Close()
}

// UpsertFile writes a file record, keyed by its path.
func (s *Store) UpsertFile(ctx context.Context, file *core.File) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		key := badger.MakeFileKey(file.Path)
		if err := tx.Set(key, storage.MarshalFile(file)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetFile reads a file record by path.
func (s *Store) GetFile(ctx context.Context, path string) (*core.File, error) {
	var result *core.File
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(badger.MakeFileKey(path))
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalFile(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// DeleteFile removes a file record by path. It does not touch the
// file's chunks or sections; callers delete those first.
func (s *Store) DeleteFile(ctx context.Context, path string) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Delete(badger.MakeFileKey(path)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// UpsertChunks writes chunk records and their by-file index entries. The
// cache entries are invalidated rather than refreshed in place, so a
// reader never observes a chunk written outside its own transaction.
func (s *Store) UpsertChunks(ctx context.Context, chunks []core.Chunk) error {
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for i := range chunks {
			c := chunks[i]
			key := badger.MakeChunkKey(c.Id)
			if err := tx.Set(key, storage.MarshalChunk(&c)); err != nil {
				return err
			}
			fkey := badger.MakeChunkByFileKey(c.FilePath, c.Id)
			if err := tx.Set(fkey, storage.MarshalID(c.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}
	for i := range chunks {
		s.cache.Del(uint64(chunks[i].Id))
	}
	return nil
}

// GetChunk reads a chunk record by ID, through the read-through cache.
func (s *Store) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	if c, ok := s.cache.Get(uint64(id)); ok {
		return c, nil
	}
	var result *core.Chunk
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		var err error
		result, err = readChunk(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	s.cache.Set(uint64(id), result, int64(len(result.Text)))
	return result, nil
}

// GetChunks reads multiple chunk records by ID, skipping any that no
// longer exist. Cache hits skip the badger lookup entirely; misses are
// read and cached in one transaction.
func (s *Store) GetChunks(ctx context.Context, ids []core.ID) ([]core.Chunk, error) {
	result := make([]core.Chunk, 0, len(ids))
	var misses []core.ID
	for _, id := range ids {
		if c, ok := s.cache.Get(uint64(id)); ok {
			result = append(result, *c)
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return result, nil
	}

	var fetched []core.Chunk
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for _, id := range misses {
			c, err := readChunk(tx, id)
			if err != nil {
				return err
			}
			if c != nil {
				fetched = append(fetched, *c)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	for i := range fetched {
		c := fetched[i]
		s.cache.Set(uint64(c.Id), &c, int64(len(c.Text)))
	}
	return append(result, fetched...), nil
}

// GetChunksByFile reads every chunk belonging to a file, via the
// by-file index.
func (s *Store) GetChunksByFile(ctx context.Context, path string) ([]core.Chunk, error) {
	var result []core.Chunk
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := badger.MakePartialChunkByFileKey(path)
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var id core.ID
			err := it.Item().Value(func(val []byte) error {
				var innerErr error
				id, innerErr = storage.UnmarshalID(val)
				return innerErr
			})
			if err != nil {
				return err
			}
			c, err := readChunk(tx, id)
			if err != nil {
				return err
			}
			if c != nil {
				result = append(result, *c)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeleteChunksByFile removes every chunk and by-file index entry for a
// file, and evicts each from the read-through cache.
func (s *Store) DeleteChunksByFile(ctx context.Context, path string) error {
	var deleted []core.ID
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true
		prefix := badger.MakePartialChunkByFileKey(path)
		it := tx.NewIterator(opts)
		var fkeys, ids [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := append([]byte(nil), it.Item().Key()...)
			var idBytes []byte
			err := it.Item().Value(func(val []byte) error {
				idBytes = append([]byte(nil), val...)
				return nil
			})
			if err != nil {
				it.Close()
				return err
			}
			fkeys = append(fkeys, key)
			ids = append(ids, idBytes)
		}
		it.Close()

		for i, fkey := range fkeys {
			id, err := storage.UnmarshalID(ids[i])
			if err != nil {
				return err
			}
			if err := tx.Delete(badger.MakeChunkKey(id)); err != nil {
				return err
			}
			if err := tx.Delete(fkey); err != nil {
				return err
			}
			deleted = append(deleted, id)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}
	for _, id := range deleted {
		s.cache.Del(uint64(id))
	}
	return nil
}

func readChunk(tx *badgerdb.Txn, id core.ID) (*core.Chunk, error) {
	item, err := tx.Get(badger.MakeChunkKey(id))
	if err != nil {
		if err == badgerdb.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var result *core.Chunk
	err = item.Value(func(val []byte) error {
		var innerErr error
		result, innerErr = storage.UnmarshalChunk(val)
		return innerErr
	})
	return result, err
}

// UpsertSections writes section records.
func (s *Store) UpsertSections(ctx context.Context, sections []core.Section) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for i := range sections {
			sec := sections[i]
			key := badger.MakeSectionKey(sec.Id)
			if err := tx.Set(key, storage.MarshalSection(&sec)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetSection reads a section record by ID.
func (s *Store) GetSection(ctx context.Context, id core.ID) (*core.Section, error) {
	var result *core.Section
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(badger.MakeSectionKey(id))
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var innerErr error
			result, innerErr = storage.UnmarshalSection(val)
			return innerErr
		})
	}, false)
	return result, err
}

// DeleteSectionsByFile removes every section belonging to a file.
// Sections have no by-file secondary index, since a heading tree is
// small enough per file that a full prefix scan over all sections is
// cheap relative to the chunk and vector writes in the same batch.
func (s *Store) DeleteSectionsByFile(ctx context.Context, path string) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true
		prefix := []byte(badger.SectionPrefix + ":")
		it := tx.NewIterator(opts)
		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := append([]byte(nil), it.Item().Key()...)
			var sec *core.Section
			err := it.Item().Value(func(val []byte) error {
				var innerErr error
				sec, innerErr = storage.UnmarshalSection(val)
				return innerErr
			})
			if err != nil {
				it.Close()
				return err
			}
			if sec.FilePath == path {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ListFilePaths returns every indexed file's path.
func (s *Store) ListFilePaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(badger.FilePrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			paths = append(paths, string(key[len(prefix):]))
		}
		return nil
	}, false)
	return paths, err
}

// FileCount returns the number of indexed files.
func (s *Store) FileCount(ctx context.Context) (int, error) {
	return s.countPrefix([]byte(badger.FilePrefix + ":"))
}

// ChunkCount returns the number of indexed chunks.
func (s *Store) ChunkCount(ctx context.Context) (int, error) {
	return s.countPrefix([]byte(badger.ChunkPrefix + ":"))
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

// LastIndexedAt returns the most recent IndexedAt timestamp across all
// files, or the zero time if none have been indexed.
func (s *Store) LastIndexedAt(ctx context.Context) (time.Time, error) {
	var latest time.Time
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true
		prefix := []byte(badger.FilePrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				f, innerErr := storage.UnmarshalFile(val)
				if innerErr != nil {
					return innerErr
				}
				if f.IndexedAt.After(latest) {
					latest = f.IndexedAt
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return latest, err
}
