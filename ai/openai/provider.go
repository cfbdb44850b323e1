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

package openai

import (
	"log/slog"

	"github.com/dotmd/dotmd/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
type Provider struct {
	embedder  *Embedder
	extractor *EntityExtractor
	reranker  *Reranker
	logger    *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider (not *Provider) to keep callers decoupled from the
// concrete implementation.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	extractor, err := newEntityExtractor(config)
	if err != nil {
		return nil, err
	}
	reranker, err := newReranker(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder:  embedder,
		extractor: extractor,
		reranker:  reranker,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder { return p.embedder }

// EntityExtractor returns the entity extraction service.
func (p *Provider) EntityExtractor() ai.EntityExtractor { return p.extractor }

// Reranker returns the cross-encoder reranking service.
func (p *Provider) Reranker() ai.Reranker { return p.reranker }

// Close releases resources held by the provider. Currently a no-op, as
// the underlying HTTP clients require no explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
