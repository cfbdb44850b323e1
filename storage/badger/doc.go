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

// Package badger implements dotmd's storage interfaces on top of
// embedded BadgerDB instances. Backend wraps a single database handle;
// storage/metastore, storage/vectorstore, storage/sparseindex and
// storage/graphstore are each constructed on a shared Backend and
// implement one of the storage package's role interfaces against it. CheckpointStore
// lives here directly since it has no companion package of its own.
package badger
