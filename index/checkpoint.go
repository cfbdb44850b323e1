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

package index

import (
	"context"

	"github.com/dotmd/dotmd/core"
)

// ProcessorType identifies the indexer for checkpoint bookkeeping.
const ProcessorType = "indexer"

// SaveCheckpoint records the highest chunk ID successfully indexed this
// batch, so a cancelled or crashed run can report exactly what remains.
func (idx *Indexer) SaveCheckpoint(ctx context.Context, lastID core.ID) error {
	if idx.checkpoints == nil {
		return nil
	}
	return idx.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		ProcessorType: ProcessorType,
		LastId:        lastID,
	})
}

// LoadCheckpoint returns the indexer's last saved checkpoint, or nil if
// none exists.
func (idx *Indexer) LoadCheckpoint(ctx context.Context) (*core.Checkpoint, error) {
	if idx.checkpoints == nil {
		return nil, nil
	}
	return idx.checkpoints.LoadCheckpoint(ctx, ProcessorType)
}
