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

package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for the embedding, NER, and reranking
// services used by a Provider.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	EmbeddingHost string

	// ClassifierHost is the base URL for the NER/classification service.
	ClassifierHost string

	// RerankerHost is the base URL for the cross-encoder reranker.
	RerankerHost string

	// EmbeddingModel is the model identifier for text embeddings.
	EmbeddingModel string

	// ClassifierModel is the model identifier for entity extraction.
	ClassifierModel string

	// RerankerModel is the cross-encoder model identifier.
	RerankerModel string

	// EntityTypes is the set of entity type labels passed to the
	// zero-shot extractor.
	EntityTypes []string

	// MinScore is the minimum confidence (0.0-1.0) for extracted
	// entities. Entities scoring below this are filtered out.
	MinScore float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) { c.EmbeddingHost = host }
}

// WithClassifierHost sets the classifier service host URL.
func WithClassifierHost(host string) ConfigOption {
	return func(c *Config) { c.ClassifierHost = host }
}

// WithRerankerHost sets the reranker service host URL.
func WithRerankerHost(host string) ConfigOption {
	return func(c *Config) { c.RerankerHost = host }
}

// WithHost sets all three service hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ClassifierHost = host
		c.RerankerHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) { c.EmbeddingModel = model }
}

// WithClassifierModel sets the classifier model identifier.
func WithClassifierModel(model string) ConfigOption {
	return func(c *Config) { c.ClassifierModel = model }
}

// WithRerankerModel sets the cross-encoder model identifier.
func WithRerankerModel(model string) ConfigOption {
	return func(c *Config) { c.RerankerModel = model }
}

// WithEntityTypes sets the entity type labels passed to the extractor.
func WithEntityTypes(types []string) ConfigOption {
	return func(c *Config) { c.EntityTypes = types }
}

// WithMinScore sets the minimum confidence threshold for extracted
// entities.
func WithMinScore(min float64) ConfigOption {
	return func(c *Config) { c.MinScore = min }
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services, all sharing one host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:   defaultHost,
		ClassifierHost:  defaultHost,
		RerankerHost:    defaultHost,
		EmbeddingModel:  "bge-small-en-v1.5",
		ClassifierModel: "qwen2.5:3b",
		RerankerModel:   "cross-encoder/ms-marco-MiniLM-L-6-v2",
		EntityTypes:     []string{"person", "organization", "technology", "concept", "location"},
		MinScore:        0.5,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize brings host URLs into canonical form, adding the /v1 suffix
// required by OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.ClassifierHost = normalizeHost(c.ClassifierHost)
	c.RerankerHost = normalizeHost(c.RerankerHost)
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is complete. It normalizes
// first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" || c.EmbeddingModel == "" {
		return errors.New("ai config: embedding host and model are required")
	}
	if c.ClassifierHost == "" || c.ClassifierModel == "" {
		return errors.New("ai config: classifier host and model are required")
	}
	if c.RerankerHost == "" || c.RerankerModel == "" {
		return errors.New("ai config: reranker host and model are required")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return errors.New("ai config: MinScore must be between 0 and 1")
	}
	return nil
}
