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


package reembed

import (
	"context"

	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/storage"
)

const (
	// DefaultBatchSize is the default number of chunks to fetch in each batch
	DefaultBatchSize = 100
)

// ChunkIterator iterates over every chunk in the corpus in batches.
type ChunkIterator struct {
	meta      storage.MetaStore
	batchSize int
}

// NewChunkIterator creates a new chunk iterator.
// batchSize: number of chunks to hand to fn per call (must be > 0)
func NewChunkIterator(meta storage.MetaStore, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ChunkIterator{
		meta:      meta,
		batchSize: batchSize,
	}
}

// ForEach walks every indexed file, loading its chunks, and calls fn once
// per batchSize-sized slice. Iteration stops on first error from fn.
// Context cancellation is checked between files and between batches.
func (it *ChunkIterator) ForEach(ctx context.Context, fn func([]core.Chunk) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	paths, err := it.meta.ListFilePaths(ctx)
	if err != nil {
		return err
	}

	var pending []core.Chunk
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := fn(pending); err != nil {
			return err
		}
		pending = pending[:0]
		return nil
	}

	for _, path := range paths {
		chunks, err := it.meta.GetChunksByFile(ctx, path)
		if err != nil {
			return err
		}

		for _, c := range chunks {
			pending = append(pending, c)
			if len(pending) >= it.batchSize {
				if err := flush(); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return flush()
}
