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

// Package retrieval implements the three retrievers that run against an
// expanded query: dense (vector similarity), sparse (BM25) and graph
// (bounded-hop weighted walk). Each is independent and safe to run
// concurrently against the same query.
package retrieval

import (
	"context"

	"github.com/dotmd/dotmd/core"
)

// Retriever returns an ordered list of scored chunks for a query,
// without duplicates, up to limit results.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]core.ScoredChunk, error)
}
