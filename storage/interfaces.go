package storage

import (
	"context"
	"time"

	"github.com/dotmd/dotmd/core"
)

// MetaStore holds file and chunk records: the source of truth for
// everything except vectors, postings, and graph edges.
type MetaStore interface {
	UpsertFile(ctx context.Context, file *core.File) error
	GetFile(ctx context.Context, path string) (*core.File, error)
	DeleteFile(ctx context.Context, path string) error

	UpsertChunks(ctx context.Context, chunks []core.Chunk) error
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)
	GetChunks(ctx context.Context, ids []core.ID) ([]core.Chunk, error)
	GetChunksByFile(ctx context.Context, path string) ([]core.Chunk, error)
	DeleteChunksByFile(ctx context.Context, path string) error

	UpsertSections(ctx context.Context, sections []core.Section) error
	GetSection(ctx context.Context, id core.ID) (*core.Section, error)
	DeleteSectionsByFile(ctx context.Context, path string) error

	// ListFilePaths returns every indexed file's path. Used to assemble
	// the full-corpus chunk set the sparse index rebuild needs.
	ListFilePaths(ctx context.Context) ([]string, error)

	FileCount(ctx context.Context) (int, error)
	ChunkCount(ctx context.Context) (int, error)
	LastIndexedAt(ctx context.Context) (time.Time, error)

	Close() error
}

// VectorStore holds one dense embedding per chunk and answers
// approximate-nearest-neighbour queries by cosine similarity.
type VectorStore interface {
	UpsertVectors(ctx context.Context, chunks []core.Chunk) error
	DeleteVectors(ctx context.Context, ids []core.ID) error
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]core.ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// SparseIndex holds the corpus-wide BM25 postings. The full index is
// rebuilt from every chunk at the end of a batch, never incrementally,
// since IDF requires a full-corpus view.
type SparseIndex interface {
	Rebuild(ctx context.Context, chunks []core.Chunk) error
	Search(ctx context.Context, tokens []string, limit int) ([]core.ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// GraphStore holds the property graph: entities, tags, and the edges
// connecting them to files, sections, and chunks.
type GraphStore interface {
	UpsertEntities(ctx context.Context, filePath string, entities []core.Entity) error
	UpsertTags(ctx context.Context, filePath string, tags []core.Tag) error
	UpsertEdges(ctx context.Context, filePath string, edges []core.Edge) error
	DeleteByFile(ctx context.Context, filePath string) error

	// Traverse performs a bounded-hop weighted walk from seeds, returning
	// up to limit reachable nodes (chunks or not) with their accumulated
	// Σ edge_weight/hop² score.
	Traverse(ctx context.Context, seeds []core.ID, maxHops int, weights map[core.EdgeKind]float64, limit int) ([]core.ScoredChunk, error)

	// Sweep removes every entity and tag with no remaining edge
	// referencing it: the garbage left behind once the files that
	// mentioned them have all been re-indexed or deleted.
	Sweep(ctx context.Context) (SweepResult, error)

	EntityCount(ctx context.Context) (int, error)
	EdgeCount(ctx context.Context) (int, error)
	Close() error
}

// SweepResult summarizes one GraphStore.Sweep call.
type SweepResult struct {
	EntitiesRemoved int
	TagsRemoved     int
}

// CheckpointStore persists per-processor progress markers so a
// cancelled or crashed batch can report exactly what remains.
type CheckpointStore interface {
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)
}
