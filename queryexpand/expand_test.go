package queryexpand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpander_ExactAcronym(t *testing.T) {
	e := New(map[string]string{"RRF": "reciprocal rank fusion"}, nil)
	got := e.Expand("what is RRF used for")
	assert.Contains(t, got, "reciprocal rank fusion")
}

func TestExpander_FuzzyAcronym(t *testing.T) {
	e := New(map[string]string{"BM25": "best matching 25"}, nil)
	got := e.Expand("explain BM26 scoring")
	assert.Contains(t, got, "best matching 25")
}

func TestExpander_NoMatchLeavesQueryUnchanged(t *testing.T) {
	e := New(map[string]string{"RRF": "reciprocal rank fusion"}, nil)
	got := e.Expand("plain query with no acronyms")
	assert.Equal(t, "plain query with no acronyms", got)
}

func TestExpander_HeadingContext(t *testing.T) {
	e := New(nil, []HeadingEntry{
		{Heading: "Installation", Ancestry: []string{"Guide", "Getting Started"}},
	})
	got := e.Expand("How do I do the installation")
	assert.Contains(t, got, "Guide")
	assert.Contains(t, got, "Getting Started")
}

func TestExpander_ShortTokensSkipFuzzyMatch(t *testing.T) {
	e := New(map[string]string{"RRF": "reciprocal rank fusion"}, nil)
	got := e.Expand("an RF signal")
	assert.NotContains(t, got, "reciprocal rank fusion")
}
