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

// State names a file's position in the per-file indexing pipeline. A
// file only ever moves forward; a failure at any step reports FAILED
// with the step it failed at, and indexFile rolls back whatever rows it
// wrote for that file before failing. A file that was not previously
// indexed is left absent, not half-written; a file being re-indexed
// after an edit is left absent too, since its prior rows are deleted
// before the new write begins — a failed re-index means "not indexed",
// never "indexed with orphaned chunks or vectors".
type State int

const (
	Idle State = iota
	Discovered
	GraphWritten
	Chunked
	Embedded
	Indexed
	Failed
)

// String renders a State for logging and FileError messages.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Discovered:
		return "discovered"
	case GraphWritten:
		return "graph_written"
	case Chunked:
		return "chunked"
	case Embedded:
		return "embedded"
	case Indexed:
		return "indexed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
