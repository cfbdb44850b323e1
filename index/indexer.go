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

// Package index orchestrates the write path: turning discovered files
// into chunks, vectors, sparse postings and graph structure, in the
// order that keeps every store free of dangling references.
package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/dotmd/dotmd/ai"
	"github.com/dotmd/dotmd/chunk"
	"github.com/dotmd/dotmd/config"
	"github.com/dotmd/dotmd/core"
	"github.com/dotmd/dotmd/extract"
	"github.com/dotmd/dotmd/reader"
	"github.com/dotmd/dotmd/storage"
)

// Indexer writes discovered files into the metadata, vector, sparse and
// graph stores per spec.md §4.4's ordering.
type Indexer struct {
	meta        storage.MetaStore
	vectors     storage.VectorStore
	sparse      storage.SparseIndex
	graph       storage.GraphStore
	checkpoints storage.CheckpointStore
	provider    ai.Provider
	ner         *extract.NER
	cfg         *config.Config
	pool        *ants.Pool
	logger      *slog.Logger
}

// New constructs an Indexer. cfg.PoolSize bounds file-level concurrency
// (0 defaults to runtime.NumCPU()). ner may be nil, in which case only
// the always-on structural extractor runs regardless of cfg.ExtractDepth.
func New(meta storage.MetaStore, vectors storage.VectorStore, sparse storage.SparseIndex, graph storage.GraphStore, checkpoints storage.CheckpointStore, provider ai.Provider, ner *extract.NER, cfg *config.Config) (*Indexer, error) {
	if meta == nil {
		return nil, ErrMetaStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if sparse == nil {
		return nil, ErrSparseIndexRequired
	}
	if graph == nil {
		return nil, ErrGraphStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	poolSize := cfg.PoolSize
	if poolSize < 1 {
		poolSize = runtime.NumCPU()
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		meta:        meta,
		vectors:     vectors,
		sparse:      sparse,
		graph:       graph,
		checkpoints: checkpoints,
		provider:    provider,
		ner:         ner,
		cfg:         cfg,
		pool:        pool,
		logger:      slog.Default().With("component", "indexer"),
	}, nil
}

// Release releases the indexer's worker pool. The indexer must not be
// used after calling Release.
func (idx *Indexer) Release() {
	idx.pool.Release()
}

// Result summarizes one IndexAll call.
type Result struct {
	FilesIndexed int
	FilesFailed  int
	Errors       []error
}

// IndexAll discovers every Markdown file under root and indexes it,
// then rebuilds the sparse index from the full corpus. Per-file
// failures are collected and do not abort the batch.
func (idx *Indexer) IndexAll(ctx context.Context, root string) (*Result, error) {
	files, walkErr := reader.New().Walk(root, func(path string, err error) {
		idx.logger.Warn("skipping unreadable file", "path", path, "err", err)
	})
	if walkErr != nil {
		return nil, walkErr
	}

	titleMap, knownPaths, err := idx.titleIndex(ctx)
	if err != nil {
		return nil, err
	}
	titles := &titleRegistry{m: titleMap, paths: knownPaths}
	// Register every discovered file before the fan-out, so a link to a
	// file later in this batch resolves regardless of processing order.
	for _, fr := range files {
		titles.set(strings.ToLower(fr.File.Title), fr.File.Path)
		titles.setPath(fr.File.Path)
	}

	var (
		mu     sync.Mutex
		result = &Result{}
		wg     sync.WaitGroup
	)

	for i := range files {
		fr := files[i]
		wg.Add(1)
		submitErr := idx.pool.Submit(func() {
			defer wg.Done()
			if err := idx.indexFile(ctx, fr, titles); err != nil {
				mu.Lock()
				result.FilesFailed++
				result.Errors = append(result.Errors, err)
				mu.Unlock()
				idx.logger.Error("file indexing failed", "path", fr.File.Path, "err", err)
				return
			}
			mu.Lock()
			result.FilesIndexed++
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.FilesFailed++
			result.Errors = append(result.Errors, submitErr)
			mu.Unlock()
		}
	}
	wg.Wait()

	if err := idx.rebuildSparseIndex(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// titleIndex builds a case-insensitive map of file title to path, used
// to resolve wikilink targets, alongside the set of every already-
// indexed path, used to resolve markdown-link targets.
func (idx *Indexer) titleIndex(ctx context.Context) (map[string]string, map[string]bool, error) {
	paths, err := idx.meta.ListFilePaths(ctx)
	if err != nil {
		return nil, nil, err
	}
	titles := make(map[string]string, len(paths))
	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		known[p] = true
		f, err := idx.meta.GetFile(ctx, p)
		if err != nil {
			continue
		}
		titles[strings.ToLower(f.Title)] = f.Path
	}
	return titles, known, nil
}

// titleRegistry is a title-to-path map and known-path set shared across
// the concurrent per-file workers submitted to idx.pool: each worker
// resolves wikilink and markdown-link targets against it and registers
// its own file's title and path, so access must be synchronized.
type titleRegistry struct {
	mu    sync.RWMutex
	m     map[string]string
	paths map[string]bool
}

func (r *titleRegistry) resolve(title string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	path, ok := r.m[title]
	return path, ok
}

func (r *titleRegistry) set(title, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[title] = path
}

// resolvePath resolves a markdown link href relative to sourcePath's
// directory, the way a renderer would, and reports whether the result
// names an already-indexed file.
func (r *titleRegistry) resolvePath(sourcePath, href string) (string, bool) {
	candidate := href
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(filepath.Dir(sourcePath), candidate)
	}
	candidate = filepath.Clean(candidate)

	r.mu.RLock()
	defer r.mu.RUnlock()
	return candidate, r.paths[candidate]
}

func (r *titleRegistry) setPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[path] = true
}

// indexFile runs the five-step write order for one file. On re-index it
// first deletes the file's prior rows from every store, in reverse
// order, so the write side never observes a mix of old and new state.
// If a write past that point fails partway through, the rows this call
// itself wrote are rolled back via deleteFile, so a failed re-index
// never leaves orphaned chunks, sections or vectors behind for the
// batch's caller to trip over later.
func (idx *Indexer) indexFile(ctx context.Context, fr reader.FileResult, titles *titleRegistry) (retErr error) {
	path := fr.File.Path

	existing, err := idx.meta.GetFile(ctx, path)
	if err == nil && existing != nil && existing.Checksum == fr.File.Checksum {
		return nil // unchanged, nothing to do
	}
	if err == nil && existing != nil {
		if delErr := idx.deleteFile(ctx, path); delErr != nil {
			return &FileError{Path: path, Step: Discovered, Err: delErr}
		}
	}

	wrote := false
	defer func() {
		if retErr == nil || !wrote {
			return
		}
		if rbErr := idx.deleteFile(ctx, path); rbErr != nil {
			idx.logger.Error("rollback after failed index left partial rows", "path", path, "err", rbErr)
			return
		}
		idx.logger.Warn("rolled back partial index after failure", "path", path)
	}()

	fail := func(step State, err error) error {
		retErr = &FileError{Path: path, Step: step, Err: err}
		return retErr
	}

	result, err := chunk.Chunk(path, string(fr.Content))
	if err != nil {
		return fail(Chunked, err)
	}
	fr.File.Frontmatter = result.Frontmatter
	titles.set(strings.ToLower(fr.File.Title), path)
	titles.setPath(path)

	fileID := core.FileID(path)
	sectionEdges, sections := buildSectionGraph(fileID, path, result.Sections, result.Chunks)
	if err := idx.graph.UpsertEdges(ctx, path, sectionEdges); err != nil {
		return fail(GraphWritten, err)
	}
	wrote = true
	if err := idx.meta.UpsertSections(ctx, sections); err != nil {
		return fail(GraphWritten, err)
	}

	if err := idx.meta.UpsertFile(ctx, &fr.File); err != nil {
		return fail(Discovered, err)
	}
	if err := idx.meta.UpsertChunks(ctx, result.Chunks); err != nil {
		return fail(Chunked, err)
	}

	if err := idx.embedChunks(ctx, result.Chunks); err != nil {
		return fail(Embedded, err)
	}
	if err := idx.vectors.UpsertVectors(ctx, result.Chunks); err != nil {
		return fail(Embedded, err)
	}

	entities, tags, edges, err := idx.extractGraphData(ctx, path, titles, result.Chunks, fr.File.Frontmatter)
	if err != nil {
		return fail(Indexed, err)
	}
	if len(entities) > 0 {
		if err := idx.graph.UpsertEntities(ctx, path, entities); err != nil {
			return fail(Indexed, err)
		}
	}
	if len(tags) > 0 {
		if err := idx.graph.UpsertTags(ctx, path, tags); err != nil {
			return fail(Indexed, err)
		}
	}
	if len(edges) > 0 {
		if err := idx.graph.UpsertEdges(ctx, path, edges); err != nil {
			return fail(Indexed, err)
		}
	}

	return nil
}

// deleteFile removes a file's prior rows from every store, in the
// reverse of the write order.
func (idx *Indexer) deleteFile(ctx context.Context, path string) error {
	if err := idx.graph.DeleteByFile(ctx, path); err != nil {
		return err
	}
	chunks, err := idx.meta.GetChunksByFile(ctx, path)
	if err != nil {
		return err
	}
	ids := make([]core.ID, len(chunks))
	for i, c := range chunks {
		ids[i] = c.Id
	}
	if err := idx.vectors.DeleteVectors(ctx, ids); err != nil {
		return err
	}
	if err := idx.meta.DeleteChunksByFile(ctx, path); err != nil {
		return err
	}
	if err := idx.meta.DeleteSectionsByFile(ctx, path); err != nil {
		return err
	}
	return idx.meta.DeleteFile(ctx, path)
}

// embedChunks batches embedding calls and writes the resulting vectors
// back onto each chunk's Vector field.
func (idx *Indexer) embedChunks(ctx context.Context, chunks []core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := idx.provider.Embedder().EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	for i := range chunks {
		if i < len(vectors) {
			chunks[i].Vector = vectors[i]
		}
	}
	return nil
}

// rebuildSparseIndex re-tokenizes every chunk in the corpus and rebuilds
// the BM25 postings table in one pass, per spec.md §4.4 step 4.
func (idx *Indexer) rebuildSparseIndex(ctx context.Context) error {
	paths, err := idx.meta.ListFilePaths(ctx)
	if err != nil {
		return err
	}
	var all []core.Chunk
	for _, p := range paths {
		chunks, err := idx.meta.GetChunksByFile(ctx, p)
		if err != nil {
			return err
		}
		all = append(all, chunks...)
	}
	return idx.sparse.Rebuild(ctx, all)
}

// buildSectionGraph derives HAS_SECTION (file -> root sections, and
// file -> every one of its own chunks) and PARENT_OF (section -> child
// section) edges from the chunker's flat heading-path sections, and
// assigns each section a stable ParentId. The file -> chunk edges are
// what let a traversal that has crossed into file space via a LINKS_TO
// edge reach that file's own chunks in the very next hop, since
// Traverse walks every edge in both directions regardless of which
// endpoint holds a chunk: without them, a LINKS_TO edge into a File ID
// would be a dead end within the 2-hop budget spec.md §4.6 allows.
func buildSectionGraph(fileID core.ID, path string, sections []core.Section, chunks []core.Chunk) ([]core.Edge, []core.Section) {
	var edges []core.Edge
	byPath := make(map[string]core.ID, len(sections))
	for _, s := range sections {
		byPath[strings.Join(s.HeadingPath, ">")] = s.Id
	}

	out := make([]core.Section, len(sections))
	for i, s := range sections {
		if len(s.HeadingPath) <= 1 {
			edges = append(edges, core.Edge{Kind: core.EdgeHasSection, From: fileID, To: s.Id, Weight: 1})
			s.ParentId = 0
		} else {
			parentPath := strings.Join(s.HeadingPath[:len(s.HeadingPath)-1], ">")
			if parentID, ok := byPath[parentPath]; ok {
				edges = append(edges, core.Edge{Kind: core.EdgeParentOf, From: parentID, To: s.Id, Weight: 1})
				s.ParentId = parentID
			} else {
				edges = append(edges, core.Edge{Kind: core.EdgeHasSection, From: fileID, To: s.Id, Weight: 1})
			}
		}
		out[i] = s
	}

	for _, c := range chunks {
		edges = append(edges, core.Edge{Kind: core.EdgeHasSection, From: fileID, To: c.Id, Weight: 1})
	}

	return edges, out
}

// extractGraphData runs the structural extractor (always) and the NER
// extractor (if configured) over each chunk, producing the entities,
// tags and edges the graph store needs. frontmatter is the file's
// parsed frontmatter map, turned into one HAS_FRONTMATTER edge per
// key/value pair.
func (idx *Indexer) extractGraphData(ctx context.Context, path string, titles *titleRegistry, chunks []core.Chunk, frontmatter map[string]string) ([]core.Entity, []core.Tag, []core.Edge, error) {
	var entities []core.Entity
	var tags []core.Tag
	var edges []core.Edge
	seenEntity := make(map[core.ID]bool)
	seenTag := make(map[core.ID]bool)

	for _, c := range chunks {
		s := extract.Structural(c.Text)

		for _, t := range s.Tags {
			tagID := core.TagID(t)
			if !seenTag[tagID] {
				tags = append(tags, core.Tag{Id: tagID, Raw: t})
				seenTag[tagID] = true
			}
			edges = append(edges, core.Edge{Kind: core.EdgeHasTag, From: c.Id, To: tagID, Weight: 1})
		}

		// Wikilinks and markdown links both produce LINKS_TO edges
		// originating from the chunk that contains the link, so a
		// graph traversal seeded at that chunk can actually reach the
		// edge: an edge keyed at the containing file's ID is never
		// found by adjacency(), since seeds are always chunk IDs.
		for _, target := range s.WikiLinks {
			if targetPath, ok := titles.resolve(strings.ToLower(target)); ok {
				edges = append(edges, core.Edge{Kind: core.EdgeLinksTo, From: c.Id, To: core.FileID(targetPath), Weight: 1})
			} else {
				// Unresolved link: point at a synthetic file node keyed by title.
				edges = append(edges, core.Edge{Kind: core.EdgeLinksTo, From: c.Id, To: core.FileID("title:" + strings.ToLower(target)), Weight: 1})
			}
		}

		for _, href := range s.MarkdownLinkTargets {
			target := strings.SplitN(href, "#", 2)[0]
			if target == "" {
				continue
			}
			if strings.Contains(target, "://") {
				// External URL: no file to resolve against, point at
				// a synthetic node keyed by the URL itself.
				edges = append(edges, core.Edge{Kind: core.EdgeLinksTo, From: c.Id, To: core.FileID("link:" + target), Weight: 1})
				continue
			}
			if resolved, ok := titles.resolvePath(path, target); ok {
				edges = append(edges, core.Edge{Kind: core.EdgeLinksTo, From: c.Id, To: core.FileID(resolved), Weight: 1})
			} else {
				edges = append(edges, core.Edge{Kind: core.EdgeLinksTo, From: c.Id, To: core.FileID("link:" + target), Weight: 1})
			}
		}

		if idx.ner == nil {
			continue
		}
		chunkEntities, err := idx.ner.Entities(ctx, c.Text)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, e := range chunkEntities {
			if !seenEntity[e.Id] {
				entities = append(entities, e)
				seenEntity[e.Id] = true
			}
			edges = append(edges, core.Edge{Kind: core.EdgeMentions, From: c.Id, To: e.Id, Weight: 1})
		}
		for i := 0; i < len(chunkEntities); i++ {
			for j := i + 1; j < len(chunkEntities); j++ {
				edges = append(edges, core.Edge{Kind: core.EdgeCoOccurs, From: chunkEntities[i].Id, To: chunkEntities[j].Id, Weight: 1})
			}
		}
	}

	// Frontmatter is file-scoped, not chunk-scoped (it is stripped
	// before chunking), so one HAS_FRONTMATTER edge is emitted per
	// key/value pair from the file node rather than from any chunk.
	fileID := core.FileID(path)
	for key, value := range frontmatter {
		edges = append(edges, core.Edge{Kind: core.EdgeHasFrontmatter, From: fileID, To: core.IDFromContent("frontmatter:" + key + "=" + value), Weight: 1})
	}

	return entities, tags, edges, nil
}
