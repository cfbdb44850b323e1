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

package mock

import "github.com/dotmd/dotmd/ai"

// MockProvider is a test double for ai.Provider.
type MockProvider struct {
	embedder  *MockEmbedder
	extractor *MockEntityExtractor
	reranker  *MockReranker
}

// NewMockProvider creates a new mock provider with default mock
// services.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		extractor: NewMockEntityExtractor(),
		reranker:  NewMockReranker(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services, for tests that need full control over behavior.
func NewMockProviderWithServices(embedder *MockEmbedder, extractor *MockEntityExtractor, reranker *MockReranker) ai.Provider {
	return &MockProvider{embedder: embedder, extractor: extractor, reranker: reranker}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder { return p.embedder }

// EntityExtractor returns the mock entity extractor.
func (p *MockProvider) EntityExtractor() ai.EntityExtractor { return p.extractor }

// Reranker returns the mock reranker.
func (p *MockProvider) Reranker() ai.Reranker { return p.reranker }

// Close is a no-op for the mock provider.
func (p *MockProvider) Close() error { return nil }

// GetMockEmbedder returns the underlying mock embedder for test
// assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder { return p.embedder }

// GetMockExtractor returns the underlying mock extractor for test
// assertions.
func (p *MockProvider) GetMockExtractor() *MockEntityExtractor { return p.extractor }

// GetMockReranker returns the underlying mock reranker for test
// assertions.
func (p *MockProvider) GetMockReranker() *MockReranker { return p.reranker }
