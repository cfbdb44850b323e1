package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/dotmd/dotmd/core"
)

// Key prefixes for different data types. Exported so the sibling
// metastore/vectorstore/sparseindex/graphstore packages, which share
// one Backend, can build and scan keys consistently.
const (
	FilePrefix        = "file"
	ChunkPrefix       = "chunk"
	ChunkByFilePrefix = "chunkf"
	SectionPrefix     = "section"
	EntityPrefix      = "entity"
	EntityTuplePrefix = "entitup"
	TagPrefix         = "tag"
	TagTuplePrefix    = "tagtup"
	EdgePrefix        = "edge"
	EdgeRevPrefix     = "edgerev"
	EdgeByFilePrefix  = "edgef"
	VectorPrefix      = "vector"
	SparseIndexKey    = "sparseindex"
)

// MakeFileKey generates a key for a file record by path.
func MakeFileKey(path string) []byte {
	return []byte(fmt.Sprintf("%s:%s", FilePrefix, path))
}

// MakeChunkKey generates a key for a chunk record by ID.
func MakeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", ChunkPrefix, id))
}

// MakeChunkByFileKey generates a composite key indexing chunks by their
// source file so a re-index can enumerate and delete them in one scan.
// Format: prefix:path:id
func MakeChunkByFileKey(path string, id core.ID) []byte {
	prefix := []byte(ChunkByFilePrefix + ":" + path + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// MakePartialChunkByFileKey generates a partial key for scanning every
// chunk belonging to a file.
func MakePartialChunkByFileKey(path string) []byte {
	return []byte(ChunkByFilePrefix + ":" + path + ":")
}

// MakeSectionKey generates a key for a section record by ID.
func MakeSectionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", SectionPrefix, id))
}

// MakeEntityKey generates a key for an entity record by ID.
func MakeEntityKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", EntityPrefix, id))
}

// MakeEntityTupleKey generates a lookup key from an entity's normalised
// (type, name) tuple to its ID.
func MakeEntityTupleKey(entityType core.EntityType, name string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", EntityTuplePrefix, entityType.String(), name))
}

// MakeTagKey generates a key for a tag record by ID.
func MakeTagKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", TagPrefix, id))
}

// MakeTagTupleKey generates a lookup key from a tag's normalised raw
// text to its ID.
func MakeTagTupleKey(raw string) []byte {
	return []byte(fmt.Sprintf("%s:%s", TagTuplePrefix, raw))
}

// MakeEdgeKey generates a key for an edge by its (from, kind, to) tuple,
// which is also the edge's natural identity.
func MakeEdgeKey(kind core.EdgeKind, from, to core.ID) []byte {
	buf := make([]byte, len(EdgePrefix)+1+24)
	offset := copy(buf, EdgePrefix)
	buf[offset] = ':'
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(from))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(kind))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(to))
	return buf
}

// MakeEdgeRevKey generates the reverse-adjacency key for an edge, keyed
// by (to, kind, from), so a traversal can walk edges backward without
// a full scan.
func MakeEdgeRevKey(kind core.EdgeKind, from, to core.ID) []byte {
	buf := make([]byte, len(EdgeRevPrefix)+1+24)
	offset := copy(buf, EdgeRevPrefix)
	buf[offset] = ':'
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(to))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(kind))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(from))
	return buf
}

// MakeEdgeByFileKey generates a composite key indexing edges by the file
// that produced them, so a re-index can delete stale edges in one scan.
func MakeEdgeByFileKey(path string, kind core.EdgeKind, from, to core.ID) []byte {
	prefix := []byte(EdgeByFilePrefix + ":" + path + ":")
	buf := make([]byte, len(prefix)+24)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(from))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(kind))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(to))
	return buf
}

// MakePartialEdgeByFileKey generates a partial key for scanning every
// edge produced by a file.
func MakePartialEdgeByFileKey(path string) []byte {
	return []byte(EdgeByFilePrefix + ":" + path + ":")
}

// MakeEdgeFromPrefix generates a prefix for scanning every outgoing
// edge from a node.
func MakeEdgeFromPrefix(from core.ID) []byte {
	buf := make([]byte, len(EdgePrefix)+1+8)
	offset := copy(buf, EdgePrefix)
	buf[offset] = ':'
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(from))
	return buf
}

// MakeEdgeRevPrefix generates a prefix for scanning every incoming
// edge to a node.
func MakeEdgeRevPrefix(to core.ID) []byte {
	buf := make([]byte, len(EdgeRevPrefix)+1+8)
	offset := copy(buf, EdgeRevPrefix)
	buf[offset] = ':'
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(to))
	return buf
}

// ParseEdgeAdjKey extracts the (kind, other) pair from a key produced
// by MakeEdgeFromPrefix or MakeEdgeRevPrefix's scan, given the fixed
// prefix length ahead of the 8-byte node ID.
func ParseEdgeAdjKey(key []byte, prefixLen int) (kind core.EdgeKind, other core.ID) {
	rest := key[prefixLen+8:]
	kind = core.EdgeKind(binary.BigEndian.Uint64(rest[:8]))
	other = core.ID(binary.BigEndian.Uint64(rest[8:16]))
	return kind, other
}

// MakeVectorKey generates a key for a chunk's dense embedding.
func MakeVectorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", VectorPrefix, id))
}

// MakeSparseIndexKey generates the single key under which the whole
// serialized BM25 postings blob is stored.
func MakeSparseIndexKey() []byte {
	return []byte(SparseIndexKey)
}

// MakeCheckpointKey generates a key for processor checkpoints.
func MakeCheckpointKey(processorType string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", processorType))
}
