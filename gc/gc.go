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

// Package gc runs the entity/tag garbage collection sweep: not part of
// the hot indexing path, invoked on its own schedule to reclaim entities
// and tags left with no edge after their mentioning files were
// re-indexed or deleted.
package gc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dotmd/dotmd/storage"
)

// Result reports what one Sweep call reclaimed.
type Result struct {
	EntitiesRemoved int
	TagsRemoved     int
	Duration        time.Duration
}

// Sweep removes zero-degree entities and tags from graph, reporting
// progress to progress if non-nil.
func Sweep(ctx context.Context, graph storage.GraphStore, progress io.Writer) (Result, error) {
	start := time.Now()
	swept, err := graph.Sweep(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		EntitiesRemoved: swept.EntitiesRemoved,
		TagsRemoved:     swept.TagsRemoved,
		Duration:        time.Since(start),
	}

	if progress != nil {
		fmt.Fprintf(progress, "gc: removed %d entities, %d tags in %s\n",
			result.EntitiesRemoved, result.TagsRemoved, result.Duration.Round(time.Millisecond))
	}

	return result, nil
}
