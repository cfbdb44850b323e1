package mock

import (
	"context"
	"strings"

	"github.com/dotmd/dotmd/ai"
	"github.com/dotmd/dotmd/core"
)

// MockEntityExtractor is a test double for ai.EntityExtractor.
type MockEntityExtractor struct {
	// ExtractEntitiesFunc is called by ExtractEntities if set. If nil,
	// uses default simple word extraction.
	ExtractEntitiesFunc func(ctx context.Context, text string) ([]ai.ExtractedEntity, error)

	callCount int
}

// NewMockEntityExtractor creates a mock entity extractor with default
// behavior.
func NewMockEntityExtractor() *MockEntityExtractor {
	return &MockEntityExtractor{}
}

// ExtractEntities extracts mock entities from text.
// Default behavior: capitalized words become Concept entities, everything
// else is ignored, giving deterministic but plausible test fixtures.
func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, text string) ([]ai.ExtractedEntity, error) {
	m.callCount++

	if m.ExtractEntitiesFunc != nil {
		return m.ExtractEntitiesFunc(ctx, text)
	}

	words := strings.Fields(text)
	entities := make([]ai.ExtractedEntity, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()[]{}")
		if w == "" || !isCapitalized(w) {
			continue
		}
		entities = append(entities, ai.ExtractedEntity{
			Name:  w,
			Type:  core.EntityConcept,
			Score: 0.9,
		})
	}
	return entities, nil
}

func isCapitalized(w string) bool {
	r := []rune(w)
	return len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z'
}

// CallCount returns the number of times ExtractEntities was called.
func (m *MockEntityExtractor) CallCount() int { return m.callCount }

// Reset clears the call count and custom function.
func (m *MockEntityExtractor) Reset() {
	m.callCount = 0
	m.ExtractEntitiesFunc = nil
}
