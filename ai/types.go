package ai

import "github.com/dotmd/dotmd/core"

// ExtractedEntity represents a named entity identified in a chunk of text
// by the NER extractor.
type ExtractedEntity struct {
	// Name is the entity's surface form as it appeared in the text.
	Name string

	// Type categorizes the entity (person, organization, technology,
	// concept, location).
	Type core.EntityType

	// Score is the extractor's confidence, 0.0-1.0. Entities scoring
	// below config.Config.NERMinScore are discarded by the caller.
	Score float64
}

// RerankCandidate is one chunk offered to the cross-encoder reranker
// alongside the query it should be scored against.
type RerankCandidate struct {
	ChunkID core.ID
	Text    string
}

// RerankResult pairs a candidate's ID with its cross-encoder score.
type RerankResult struct {
	ChunkID core.ID
	Score   float64
}
