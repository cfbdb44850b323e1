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

package core

import "errors"

// Domain validation errors.
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidFile indicates a File failed validation.
	ErrInvalidFile = errors.New("invalid file")

	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyPath indicates the Path field is empty.
	ErrEmptyPath = errors.New("path cannot be empty")

	// ErrInvalidEntityType indicates an unrecognised EntityType value.
	ErrInvalidEntityType = errors.New("invalid entity type")

	// ErrEmptyCanonicalName indicates the entity CanonicalName field is empty.
	ErrEmptyCanonicalName = errors.New("canonical name cannot be empty")
)

// Error kinds surfaced across the ingestion and query pipelines, per the
// error propagation policy: batch ingestion recovers ReadError, ParseError
// and IndexWriteError locally; ModelMismatch, IndexMissing, Cancelled and
// ConfigError are fatal and propagate to the caller unchanged.
var (
	// ErrRead wraps an I/O failure reading a single source file. The
	// batch continues; the file is skipped.
	ErrRead = errors.New("read error")

	// ErrParse wraps a malformed-frontmatter or similar parse failure.
	// The batch continues; the section is treated as opaque text.
	ErrParse = errors.New("parse error")

	// ErrIndexWrite wraps a failure in a backing store during ingestion.
	// The current file is rolled back; the batch continues.
	ErrIndexWrite = errors.New("index write error")

	// ErrModelMismatch indicates the index was built with a different
	// embedding model identity than the one configured at query time.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrIndexMissing indicates search was called before any successful
	// index.
	ErrIndexMissing = errors.New("no index present")

	// ErrCancelled indicates a caller-supplied deadline expired.
	ErrCancelled = errors.New("operation cancelled")

	// ErrConfig indicates invalid configuration.
	ErrConfig = errors.New("invalid configuration")
)
