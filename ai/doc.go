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

// Package ai provides abstractions for the model-backed services dotmd
// depends on: text embedding, zero-shot entity extraction, and
// cross-encoder reranking. Business logic depends on the Embedder,
// EntityExtractor, and Reranker interfaces, never on a concrete
// implementation.
//
// ai/openai implements these interfaces against OpenAI-compatible chat
// and embedding APIs (Ollama, LocalAI, vLLM, or hosted OpenAI). ai/mock
// provides deterministic test doubles.
//
// Public constructors (openai.NewProvider) return interface types to
// keep callers decoupled from the concrete implementation; mock
// constructors return concrete types so tests can inject behavior and
// assert call counts.
package ai
