package core

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic ID from text content using
// BLAKE2b hashing. Identical content always produces identical IDs, which
// is what keeps chunk/section/entity IDs stable across re-indexings.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FileID composes a file's deterministic graph-node ID from its path.
// Distinct from the File record's own identity (its Path), this is the
// ID used to address the file as a vertex in the property graph.
func FileID(path string) ID {
	return IDFromContent("file:" + path)
}

// ChunkID composes a chunk's deterministic ID from its owning file path and
// ordinal, per the "file_path:chunk_index" rule.
func ChunkID(filePath string, ordinal int) ID {
	var b strings.Builder
	b.WriteString(filePath)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(ordinal))
	return IDFromContent(b.String())
}

// SectionID composes a section's deterministic ID from its owning file path
// and heading path.
func SectionID(filePath string, headingPath []string) ID {
	var b strings.Builder
	b.WriteString(filePath)
	for _, h := range headingPath {
		b.WriteByte('>')
		b.WriteString(h)
	}
	return IDFromContent(b.String())
}

// EntityID composes an entity's deterministic ID from its normalised name
// and type, so mentions of the same entity always resolve to one node.
func EntityID(normalizedName string, entityType EntityType) ID {
	return IDFromContent("(" + entityType.String() + "," + normalizedName + ")")
}

// TagID composes a tag's deterministic ID from its normalised string.
func TagID(normalized string) ID {
	return IDFromContent("#" + normalized)
}
