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

// Package dotmd wires the storage, retrieval and AI layers into a single
// Database, the top-level entry point used by cmd/dotmd.
package dotmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dotmd/dotmd/ai"
	"github.com/dotmd/dotmd/ai/openai"
	"github.com/dotmd/dotmd/config"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/extract"
	"github.com/dotmd/dotmd/fuse"
	"github.com/dotmd/dotmd/gc"
	"github.com/dotmd/dotmd/index"
	"github.com/dotmd/dotmd/lock"
	"github.com/dotmd/dotmd/queryexpand"
	"github.com/dotmd/dotmd/reembed"
	"github.com/dotmd/dotmd/rerank"
	"github.com/dotmd/dotmd/retrieval"
	"github.com/dotmd/dotmd/storage"
	"github.com/dotmd/dotmd/storage/badger"
	"github.com/dotmd/dotmd/storage/graphstore"
	"github.com/dotmd/dotmd/storage/metastore"
	"github.com/dotmd/dotmd/storage/sparseindex"
	"github.com/dotmd/dotmd/storage/vectorstore"
)

// Database wires the five stores, the AI provider and the retrieval
// pipeline over one on-disk badger directory, guarded by an advisory
// single-writer lock.
type Database struct {
	backend     *badger.Backend
	meta        storage.MetaStore
	vectors     storage.VectorStore
	sparse      storage.SparseIndex
	graph       storage.GraphStore
	checkpoints storage.CheckpointStore
	provider    ai.Provider
	lock        *lock.FileLock
	cfg         *config.Config
	logger      *slog.Logger
}

// OpenOption customizes Open.
type OpenOption func(*openOptions)

type openOptions struct {
	skipFrozenCheck bool
}

// SkipFrozenCheck opens the index even if cfg's embedding model identity
// differs from the one it was built with. Used by the reembed command,
// whose entire purpose is to change that identity.
func SkipFrozenCheck() OpenOption {
	return func(o *openOptions) { o.skipFrozenCheck = true }
}

// Open opens (creating if absent) the index rooted at cfg.IndexDir,
// acquiring the single-writer lock and checking the frozen embedding
// model identity against the one recorded at index time.
func Open(cfg *config.Config, opts ...OpenOption) (*Database, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.skipFrozenCheck {
		if err := cfg.CheckFrozen(); err != nil {
			return nil, err
		}
	}

	fileLock := lock.New(cfg.IndexDir)
	if err := fileLock.Acquire(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filepath.Join(cfg.IndexDir, "db"), false)
	if err != nil {
		fileLock.Release()
		return nil, err
	}

	provider, err := openai.NewProvider(ai.NewConfig(
		ai.WithEmbeddingHost(cfg.EmbeddingHost),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
		ai.WithClassifierHost(cfg.ClassifierHost),
		ai.WithClassifierModel(cfg.ClassifierModel),
		ai.WithRerankerHost(cfg.RerankerHost),
		ai.WithRerankerModel(cfg.RerankerModel),
		ai.WithEntityTypes(cfg.NEREntityTypes),
		ai.WithMinScore(cfg.NERMinScore),
	))
	if err != nil {
		backend.Close()
		fileLock.Release()
		return nil, err
	}

	return newDatabase(backend, provider, fileLock, cfg), nil
}

// newDatabase wires an already-open backend, provider and lock into a
// Database. Split out from Open so tests can substitute an in-memory
// backend and a mock provider without touching the network.
func newDatabase(backend *badger.Backend, provider ai.Provider, fileLock *lock.FileLock, cfg *config.Config) *Database {
	return &Database{
		backend:     backend,
		meta:        metastore.New(backend),
		vectors:     vectorstore.New(backend),
		sparse:      sparseindex.New(backend),
		graph:       graphstore.New(backend),
		checkpoints: badger.NewCheckpointStore(backend),
		provider:    provider,
		lock:        fileLock,
		cfg:         cfg,
		logger:      slog.Default().With("component", "database"),
	}
}

// Close releases the AI provider, the badger backend and the
// single-writer lock, in that order.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		db.lock.Release()
		return err
	}
	return db.lock.Release()
}

// Index walks root and indexes every Markdown file found, per spec.md
// §4.4's write order.
func (db *Database) Index(ctx context.Context, root string) (*index.Result, error) {
	var ner *extract.NER
	if db.cfg.ExtractDepth == config.ExtractNER {
		n, err := extract.NewNER(db.provider.EntityExtractor(), db.cfg.NEREntityTypes, db.cfg.NERMinScore)
		if err != nil {
			return nil, err
		}
		ner = n
	}

	idx, err := index.New(db.meta, db.vectors, db.sparse, db.graph, db.checkpoints, db.provider, ner, db.cfg)
	if err != nil {
		return nil, err
	}
	defer idx.Release()

	result, err := idx.IndexAll(ctx, root)
	if err != nil {
		return nil, err
	}
	if err := db.cfg.WriteFrozen(); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchOptions controls one Search call.
type SearchOptions struct {
	// Mode selects which retrievers run. Empty defaults to config.ModeHybrid.
	Mode config.Mode

	// TopK is the number of results to return. Zero uses cfg.DefaultTopK.
	TopK int

	// Rerank runs the cross-encoder reranker over the fused candidates
	// when true. When false, the fused top-K is returned directly.
	Rerank bool

	// Monitor, if non-nil, observes retrieval timing and candidate
	// counts per engine. Defaults to retrieval.NoopMonitor().
	Monitor retrieval.Monitor
}

// Search runs the query expander, the retrievers selected by opts.Mode,
// RRF fusion, and (if requested) cross-encoder reranking. In hybrid mode
// the dense, sparse and graph retrievers run one after another, not
// concurrently.
func (db *Database) Search(ctx context.Context, query string, opts SearchOptions) ([]rerank.Result, error) {
	if query == "" {
		return nil, nil
	}
	if opts.Mode == "" {
		opts.Mode = config.ModeHybrid
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = db.cfg.DefaultTopK
	}
	mon := opts.Monitor
	if mon == nil {
		mon = retrieval.NoopMonitor()
	}
	mon.Start(query)
	defer mon.Finish()

	expander, err := db.buildExpander(ctx)
	if err != nil {
		return nil, err
	}
	expanded := expander.Expand(query)

	dense, err := retrieval.NewDense(db.provider.Embedder(), db.vectors)
	if err != nil {
		return nil, err
	}
	sparse, err := retrieval.NewSparse(db.sparse)
	if err != nil {
		return nil, err
	}

	retrieveDense := func() ([]core.ScoredChunk, error) {
		start := time.Now()
		chunks, err := dense.Retrieve(ctx, expanded, fuse.MaxCandidates)
		mon.AfterDense(chunks, time.Since(start))
		return chunks, err
	}
	retrieveSparse := func() ([]core.ScoredChunk, error) {
		start := time.Now()
		chunks, err := sparse.Retrieve(ctx, expanded, fuse.MaxCandidates)
		mon.AfterSparse(chunks, time.Since(start))
		return chunks, err
	}
	retrieveGraph := func(graph *retrieval.Graph) ([]core.ScoredChunk, error) {
		start := time.Now()
		chunks, err := graph.Retrieve(ctx, expanded, fuse.MaxCandidates)
		mon.AfterGraph(chunks, time.Since(start))
		return chunks, err
	}

	var lists []fuse.NamedList
	switch opts.Mode {
	case config.ModeSemantic:
		chunks, err := retrieveDense()
		if err != nil {
			return nil, err
		}
		lists = append(lists, fuse.NamedList{Engine: "dense", Chunks: chunks})
	case config.ModeBM25:
		chunks, err := retrieveSparse()
		if err != nil {
			return nil, err
		}
		lists = append(lists, fuse.NamedList{Engine: "sparse", Chunks: chunks})
	case config.ModeGraph:
		graph, err := retrieval.NewGraph(db.graph, db.meta, dense, sparse, db.cfg.SeedBudget, db.cfg.EdgeWeights)
		if err != nil {
			return nil, err
		}
		chunks, err := retrieveGraph(graph)
		if err != nil {
			return nil, err
		}
		lists = append(lists, fuse.NamedList{Engine: "graph", Chunks: chunks})
	default:
		graph, err := retrieval.NewGraph(db.graph, db.meta, dense, sparse, db.cfg.SeedBudget, db.cfg.EdgeWeights)
		if err != nil {
			return nil, err
		}
		denseChunks, err := retrieveDense()
		if err != nil {
			return nil, err
		}
		sparseChunks, err := retrieveSparse()
		if err != nil {
			return nil, err
		}
		graphChunks, err := retrieveGraph(graph)
		if err != nil {
			return nil, err
		}
		lists = []fuse.NamedList{
			{Engine: "dense", Chunks: denseChunks},
			{Engine: "sparse", Chunks: sparseChunks},
			{Engine: "graph", Chunks: graphChunks},
		}
	}

	candidates := fuse.RRF(lists)

	reranker, err := rerank.New(db.provider.Reranker(), db.meta, db.cfg.RerankScoreFloor)
	if err != nil {
		return nil, err
	}
	return reranker.Rerank(ctx, expanded, candidates, topK, opts.Rerank)
}

// buildExpander assembles a queryexpand.Expander from the corpus's
// current heading structure and its acronym definitions. The acronym
// dictionary is the pattern-derived one found in the corpus's own chunk
// text (see extract.AcronymsFromChunks), with any entries configured in
// db.cfg.Acronyms layered on top for jargon the pattern scan misses.
func (db *Database) buildExpander(ctx context.Context) (*queryexpand.Expander, error) {
	paths, err := db.meta.ListFilePaths(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	acronyms := make(map[string]map[string]bool)
	var headings []queryexpand.HeadingEntry
	for _, path := range paths {
		chunks, err := db.meta.GetChunksByFile(ctx, path)
		if err != nil {
			return nil, err
		}
		for acronym, expansions := range extract.AcronymsFromChunks(chunks) {
			if acronyms[acronym] == nil {
				acronyms[acronym] = make(map[string]bool)
			}
			for _, e := range expansions {
				acronyms[acronym][e] = true
			}
		}
		for _, c := range chunks {
			if len(c.HeadingPath) == 0 {
				continue
			}
			leaf := c.HeadingPath[len(c.HeadingPath)-1]
			if seen[leaf] {
				continue
			}
			seen[leaf] = true
			headings = append(headings, queryexpand.HeadingEntry{
				Heading:  leaf,
				Ancestry: c.HeadingPath[:len(c.HeadingPath)-1],
			})
		}
	}

	dict := make(map[string]string, len(acronyms))
	for acronym, expansions := range acronyms {
		list := make([]string, 0, len(expansions))
		for e := range expansions {
			list = append(list, e)
		}
		sort.Strings(list)
		dict[acronym] = strings.Join(list, "; ")
	}
	for acronym, expansion := range db.cfg.Acronyms {
		dict[strings.ToUpper(acronym)] = expansion
	}

	return queryexpand.New(dict, headings), nil
}

// Status reports the corpus's current size and provenance.
type Status struct {
	Files     int
	Chunks    int
	Entities  int
	Edges     int
	LastIndex string
	IndexDir  string
}

// Status reports the corpus's current size.
func (db *Database) Status(ctx context.Context) (Status, error) {
	files, err := db.meta.FileCount(ctx)
	if err != nil {
		return Status{}, err
	}
	chunks, err := db.meta.ChunkCount(ctx)
	if err != nil {
		return Status{}, err
	}
	entities, err := db.graph.EntityCount(ctx)
	if err != nil {
		return Status{}, err
	}
	edges, err := db.graph.EdgeCount(ctx)
	if err != nil {
		return Status{}, err
	}
	lastIndexed, err := db.meta.LastIndexedAt(ctx)
	if err != nil {
		return Status{}, err
	}

	return Status{
		Files:     files,
		Chunks:    chunks,
		Entities:  entities,
		Edges:     edges,
		LastIndex: lastIndexed.Format("2006-01-02T15:04:05Z07:00"),
		IndexDir:  db.cfg.IndexDir,
	}, nil
}

// GC runs the entity/tag garbage collection sweep.
func (db *Database) GC(ctx context.Context) (gc.Result, error) {
	return gc.Sweep(ctx, db.graph, nil)
}

// Reembed re-runs the dense embedding step over every indexed chunk with
// the database's configured embedder, writing a new EmbeddingModel into
// the frozen config on success. Used after an embedding model change that
// cfg.CheckFrozen would otherwise reject at Open.
func (db *Database) Reembed(ctx context.Context, progress io.Writer) error {
	reembedder := reembed.NewReembedder(db.meta, db.vectors, db.provider.Embedder(), reembed.DefaultConfig(), progress)
	if err := reembedder.Run(ctx); err != nil {
		return err
	}
	return db.cfg.WriteFrozen()
}

// Clear wipes the entire index: the badger backend is closed and its
// on-disk directory removed, and config.json is deleted so the next
// Open starts from an empty, unfrozen index. The Database must not be
// used again after Clear; callers should still call Close for the lock.
func (db *Database) Clear() error {
	if err := db.backend.Close(); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(db.cfg.IndexDir, "db")); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(db.cfg.IndexDir, "config.json")); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
