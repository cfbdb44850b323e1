package mock

import (
	"context"
	"strings"

	"github.com/dotmd/dotmd/ai"
)

// MockReranker is a test double for ai.Reranker.
type MockReranker struct {
	// RerankFunc is called by Rerank if set. If nil, uses default
	// behavior: score by the fraction of query terms present in the
	// candidate text.
	RerankFunc func(ctx context.Context, query string, candidates []ai.RerankCandidate) ([]ai.RerankResult, error)

	callCount int
}

// NewMockReranker creates a mock reranker with default behavior.
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// Rerank scores candidates by lexical overlap with the query.
func (m *MockReranker) Rerank(ctx context.Context, query string, candidates []ai.RerankCandidate) ([]ai.RerankResult, error) {
	m.callCount++

	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, query, candidates)
	}

	terms := strings.Fields(strings.ToLower(query))
	results := make([]ai.RerankResult, len(candidates))
	for i, c := range candidates {
		lower := strings.ToLower(c.Text)
		hits := 0
		for _, t := range terms {
			if strings.Contains(lower, t) {
				hits++
			}
		}
		score := 0.0
		if len(terms) > 0 {
			score = float64(hits) / float64(len(terms))
		}
		results[i] = ai.RerankResult{ChunkID: c.ChunkID, Score: score}
	}
	return results, nil
}

// CallCount returns the number of times Rerank was called.
func (m *MockReranker) CallCount() int { return m.callCount }

// Reset clears the call count and custom function.
func (m *MockReranker) Reset() {
	m.callCount = 0
	m.RerankFunc = nil
}
