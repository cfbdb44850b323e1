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

package badger

// NewMemoryBackend opens a throwaway in-memory BadgerDB instance for
// tests. The five storage.* implementations key their records with
// disjoint prefixes, so callers construct each on top of the same
// Backend rather than opening five separate databases.
func NewMemoryBackend() (*Backend, error) {
	return OpenBackend("", true)
}
