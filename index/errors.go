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

import "errors"

var (
	// ErrMetaStoreRequired indicates a nil MetaStore was passed to NewIndexer.
	ErrMetaStoreRequired = errors.New("index: metadata store is required")

	// ErrVectorStoreRequired indicates a nil VectorStore was passed to NewIndexer.
	ErrVectorStoreRequired = errors.New("index: vector store is required")

	// ErrSparseIndexRequired indicates a nil SparseIndex was passed to NewIndexer.
	ErrSparseIndexRequired = errors.New("index: sparse index is required")

	// ErrGraphStoreRequired indicates a nil GraphStore was passed to NewIndexer.
	ErrGraphStoreRequired = errors.New("index: graph store is required")

	// ErrProviderRequired indicates a nil ai.Provider was passed to NewIndexer.
	ErrProviderRequired = errors.New("index: AI provider is required")
)

// FileError wraps a failure indexing a single file at a specific step.
// The file is left in its pre-indexing state; the batch continues with
// the next file.
type FileError struct {
	Path string
	Step State
	Err  error
}

func (e *FileError) Error() string {
	return "index: " + e.Path + " failed at " + e.Step.String() + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error { return e.Err }
