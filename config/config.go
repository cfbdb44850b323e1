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

// Package config holds the process-wide configuration for dotmd, read
// once at startup and frozen into the on-disk config.json when an index
// is built.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotmd/dotmd/core"
)

// ExtractDepth selects which extractor layers run during indexing.
type ExtractDepth string

const (
	// ExtractStructural runs only the always-on structural extractor.
	ExtractStructural ExtractDepth = "structural"
	// ExtractNER additionally runs the zero-shot NER extractor.
	ExtractNER ExtractDepth = "ner"
)

// Mode selects which retrievers run during search.
type Mode string

const (
	ModeHybrid   Mode = "hybrid"
	ModeSemantic Mode = "semantic"
	ModeBM25     Mode = "bm25"
	ModeGraph    Mode = "graph"
)

// Config is dotmd's process-wide configuration.
type Config struct {
	// IndexDir is the root of the on-disk layout, default ~/.dotmd.
	IndexDir string

	// ExtractDepth selects which extractor layers run at index time.
	ExtractDepth ExtractDepth

	// EmbeddingHost is the base URL for the embedding service API.
	EmbeddingHost string

	// EmbeddingModel is the model identity frozen into config.json. A
	// mismatch between this value and the one recorded at index time is
	// a fatal ModelMismatch.
	EmbeddingModel string

	// ClassifierHost is the base URL for the NER/classification API.
	ClassifierHost string

	// ClassifierModel is the model identity used for concept/entity
	// extraction when ExtractDepth is ExtractNER.
	ClassifierModel string

	// RerankerHost is the base URL for the cross-encoder reranker API.
	RerankerHost string

	// RerankerModel is the cross-encoder model identity.
	RerankerModel string

	// NEREntityTypes is the configured set of entity type tags passed to
	// the zero-shot extractor.
	NEREntityTypes []string

	// NERMinScore discards NER-extracted entities scoring below this
	// floor.
	NERMinScore float64

	// DefaultTopK is used when callers do not supply a top-K.
	DefaultTopK int

	// PoolSize bounds the ingestion worker pool. Default is CPU count.
	PoolSize int

	// SeedBudget bounds how many dense+sparse seeds feed the graph
	// retriever (spec default: 20).
	SeedBudget int

	// BM25K1 and BM25B are frozen BM25 parameters (spec defaults:
	// 1.5, 0.75).
	BM25K1 float64
	BM25B  float64

	// EdgeWeights are the per-edge-type constants used by the graph
	// retriever's Σ edge_weight / hop² scoring formula.
	EdgeWeights map[core.EdgeKind]float64

	// RerankScoreFloor drops reranked candidates below this adjusted
	// score (spec default: -8.0).
	RerankScoreFloor float64

	// Acronyms supplements the acronym dictionary the query expander
	// derives from the corpus at search time. Entries here take
	// precedence over a corpus-derived expansion for the same acronym,
	// for domain jargon a pattern scan of the corpus text won't reliably
	// catch.
	Acronyms map[string]string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithIndexDir sets the on-disk index root.
func WithIndexDir(dir string) ConfigOption {
	return func(c *Config) { c.IndexDir = dir }
}

// WithExtractDepth sets which extractor layers run.
func WithExtractDepth(depth ExtractDepth) ConfigOption {
	return func(c *Config) { c.ExtractDepth = depth }
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) { c.EmbeddingHost = host }
}

// WithEmbeddingModel sets the embedding model identity.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) { c.EmbeddingModel = model }
}

// WithClassifierHost sets the classifier/NER service host URL.
func WithClassifierHost(host string) ConfigOption {
	return func(c *Config) { c.ClassifierHost = host }
}

// WithClassifierModel sets the classifier/NER model identity.
func WithClassifierModel(model string) ConfigOption {
	return func(c *Config) { c.ClassifierModel = model }
}

// WithNEREntityTypes sets the entity type set passed to the extractor.
func WithNEREntityTypes(types []string) ConfigOption {
	return func(c *Config) { c.NEREntityTypes = types }
}

// WithDefaultTopK sets the default result count for search.
func WithDefaultTopK(k int) ConfigOption {
	return func(c *Config) { c.DefaultTopK = k }
}

// WithPoolSize sets the ingestion worker pool size.
func WithPoolSize(n int) ConfigOption {
	return func(c *Config) { c.PoolSize = n }
}

// WithAcronyms sets user-supplied acronym expansions, layered over the
// dictionary the query expander derives from the corpus at search time.
func WithAcronyms(acronyms map[string]string) ConfigOption {
	return func(c *Config) { c.Acronyms = acronyms }
}

// DefaultEntityTypes is the minimum configurable entity type set (spec.md
// §3 Entity attributes).
var DefaultEntityTypes = []string{"person", "organization", "technology", "concept", "location"}

// DefaultEdgeWeights are the frozen starting weights for graph traversal
// scoring. spec.md §9 leaves these uncalibrated; these are the documented
// defaults (see DESIGN.md "Open Question decisions").
func DefaultEdgeWeights() map[core.EdgeKind]float64 {
	return map[core.EdgeKind]float64{
		core.EdgeMentions:       1.0,
		core.EdgeCoOccurs:       0.8,
		core.EdgeLinksTo:        0.6,
		core.EdgeParentOf:       0.5,
		core.EdgeHasTag:         0.4,
		core.EdgeHasSection:     0.3,
		core.EdgeHasFrontmatter: 0.2,
	}
}

// DefaultConfig returns a Config with sensible defaults for a local,
// fully offline deployment.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		IndexDir:         filepath.Join(home, ".dotmd"),
		ExtractDepth:     ExtractStructural,
		EmbeddingHost:    "http://localhost:11434/v1",
		EmbeddingModel:   "bge-small-en-v1.5",
		ClassifierHost:   "http://localhost:11434/v1",
		ClassifierModel:  "qwen2.5:3b",
		RerankerHost:     "http://localhost:11434/v1",
		RerankerModel:    "cross-encoder/ms-marco-MiniLM-L-6-v2",
		NEREntityTypes:   DefaultEntityTypes,
		NERMinScore:      0.5,
		DefaultTopK:      10,
		PoolSize:         0, // 0 = runtime.NumCPU() at use site
		SeedBudget:       20,
		BM25K1:           1.5,
		BM25B:            0.75,
		EdgeWeights:      DefaultEdgeWeights(),
		RerankScoreFloor: -8.0,
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

// Normalize brings the configuration into a canonical form: hosts get a
// trailing /v1 for OpenAI-compatible APIs, IndexDir is made absolute.
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.ClassifierHost = normalizeHost(c.ClassifierHost)
	c.RerankerHost = normalizeHost(c.RerankerHost)
	if abs, err := filepath.Abs(c.IndexDir); err == nil {
		c.IndexDir = abs
	}
	if c.EdgeWeights == nil {
		c.EdgeWeights = DefaultEdgeWeights()
	}
}

func normalizeHost(host string) string {
	if host == "" {
		return host
	}
	host = strings.TrimSuffix(host, "/")
	if !strings.HasSuffix(host, "/v1") {
		host += "/v1"
	}
	return host
}

// Validate checks that the configuration is complete and internally
// consistent. It normalizes first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.IndexDir == "" {
		return errors.New("config: IndexDir is required")
	}
	if c.EmbeddingHost == "" || c.EmbeddingModel == "" {
		return errors.New("config: embedding host and model are required")
	}
	switch c.ExtractDepth {
	case ExtractStructural, ExtractNER:
	default:
		return errors.New("config: ExtractDepth must be structural or ner")
	}
	if c.ExtractDepth == ExtractNER {
		if c.ClassifierHost == "" || c.ClassifierModel == "" {
			return errors.New("config: classifier host and model are required when extract depth is ner")
		}
		if len(c.NEREntityTypes) == 0 {
			return errors.New("config: at least one NER entity type is required")
		}
	}
	if c.DefaultTopK <= 0 {
		return errors.New("config: DefaultTopK must be positive")
	}
	if c.SeedBudget <= 0 {
		return errors.New("config: SeedBudget must be positive")
	}
	if c.BM25K1 <= 0 || c.BM25B < 0 || c.BM25B > 1 {
		return errors.New("config: BM25K1 must be positive and BM25B in [0,1]")
	}
	return nil
}

// frozen is the subset of Config written verbatim to config.json at index
// time and compared against at query time (spec.md §6).
type frozen struct {
	EmbeddingModel  string             `json:"embedding_model"`
	EmbeddingHost   string             `json:"embedding_host"`
	ClassifierModel string             `json:"classifier_model,omitempty"`
	NEREntityTypes  []string           `json:"ner_entity_types,omitempty"`
	BM25K1          float64            `json:"bm25_k1"`
	BM25B           float64            `json:"bm25_b"`
	EdgeWeights     map[string]float64 `json:"edge_weights"`
}

// WriteFrozen writes the model identities and index parameters that must
// stay stable across the index's lifetime to <IndexDir>/config.json.
func (c *Config) WriteFrozen() error {
	f := frozen{
		EmbeddingModel:  c.EmbeddingModel,
		EmbeddingHost:   c.EmbeddingHost,
		ClassifierModel: c.ClassifierModel,
		NEREntityTypes:  c.NEREntityTypes,
		BM25K1:          c.BM25K1,
		BM25B:           c.BM25B,
		EdgeWeights:     edgeWeightsToNames(c.EdgeWeights),
	}
	bs, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.IndexDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.IndexDir, "config.json"), bs, 0644)
}

// CheckFrozen loads <IndexDir>/config.json, if present, and returns
// core.ErrModelMismatch if the configured embedding model differs from
// the one the index was built with. Returns nil if no index exists
// yet.
func (c *Config) CheckFrozen() error {
	path := filepath.Join(c.IndexDir, "config.json")
	bs, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var f frozen
	if err := json.Unmarshal(bs, &f); err != nil {
		return err
	}
	if f.EmbeddingModel != "" && f.EmbeddingModel != c.EmbeddingModel {
		return core.ErrModelMismatch
	}
	return nil
}

func edgeWeightsToNames(weights map[core.EdgeKind]float64) map[string]float64 {
	names := map[core.EdgeKind]string{
		core.EdgeHasSection:     "HAS_SECTION",
		core.EdgeParentOf:       "PARENT_OF",
		core.EdgeLinksTo:        "LINKS_TO",
		core.EdgeHasTag:         "HAS_TAG",
		core.EdgeMentions:       "MENTIONS",
		core.EdgeCoOccurs:       "CO_OCCURS",
		core.EdgeHasFrontmatter: "HAS_FRONTMATTER",
	}
	out := make(map[string]float64, len(weights))
	for k, w := range weights {
		if name, ok := names[k]; ok {
			out[name] = w
		}
	}
	return out
}
