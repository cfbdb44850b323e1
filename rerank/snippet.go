package rerank

import (
	"regexp"
	"strings"

	"github.com/dotmd/dotmd/storage/sparseindex"
)

// maxSnippetChars bounds the returned snippet length.
const maxSnippetChars = 240

var sentenceBoundary = regexp.MustCompile(`(?:[.!?])\s+`)

// Snippet returns up to one sentence on either side of the sentence
// with the strongest query-term overlap. If no sentence overlaps the
// query at all, it falls back to the chunk's head.
func Snippet(query, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return truncate(text, maxSnippetChars)
	}

	queryTerms := make(map[string]bool)
	for _, t := range sparseindex.Tokenize(query) {
		queryTerms[t] = true
	}

	bestIdx, bestOverlap := -1, 0
	for i, s := range sentences {
		overlap := 0
		for _, t := range sparseindex.Tokenize(s) {
			if queryTerms[t] {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return truncate(text, maxSnippetChars)
	}

	start := bestIdx - 1
	if start < 0 {
		start = 0
	}
	end := bestIdx + 1
	if end >= len(sentences) {
		end = len(sentences) - 1
	}
	return truncate(strings.Join(sentences[start:end+1], " "), maxSnippetChars)
}

func splitSentences(text string) []string {
	parts := sentenceBoundary.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
