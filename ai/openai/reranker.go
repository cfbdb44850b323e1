package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/dotmd/dotmd/ai"
)

// Reranker implements ai.Reranker against an OpenAI-compatible chat
// endpoint serving a cross-encoder-style relevance model. Candidates are
// scored in a single JSON-mode call per batch, the same request shape
// used for entity extraction.
type Reranker struct {
	client llms.Model
	logger *slog.Logger
}

type rerankScore struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

type rerankResponse struct {
	Scores []rerankScore `json:"scores"`
}

func newReranker(config *ai.Config) (*Reranker, error) {
	client, err := openai.New(
		openai.WithBaseURL(config.RerankerHost),
		openai.WithToken("none"),
		openai.WithModel(config.RerankerModel),
	)
	if err != nil {
		return nil, err
	}
	return &Reranker{client: client, logger: slog.Default().With("component", "openai-reranker")}, nil
}

// NewReranker creates a new cross-encoder reranker using the provided
// configuration.
func NewReranker(config *ai.Config) (ai.Reranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newReranker(config)
}

// Rerank scores each candidate's relevance to query in [0, 1]. On
// parsing failure after retries, returns a zero score for every
// candidate rather than erroring the whole query.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []ai.RerankCandidate) ([]ai.RerankResult, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	content := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(rerankSystemPrompt)}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(buildRerankPrompt(query, candidates))}},
	}

	var (
		parsed  rerankResponse
		lastErr error
	)
	for attempt := 0; attempt < 3; attempt++ {
		response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			r.logger.Error("failed to generate rerank scores", "attempt", attempt+1, "err", err)
			return nil, err
		}
		if len(response.Choices) < 1 {
			return zeroScores(candidates), nil
		}

		text := strings.TrimSpace(response.Choices[0].Content)
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
		text = repairJSON(text)

		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			lastErr = err
			r.logger.Warn("error parsing rerank response", "attempt", attempt+1, "err", err)
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		r.logger.Error("failed to parse rerank response after retries", "err", lastErr)
		return zeroScores(candidates), nil
	}

	byIndex := make(map[int]float64, len(parsed.Scores))
	for _, s := range parsed.Scores {
		byIndex[s.Index] = s.Score
	}

	results := make([]ai.RerankResult, len(candidates))
	for i, c := range candidates {
		results[i] = ai.RerankResult{ChunkID: c.ChunkID, Score: byIndex[i]}
	}
	return results, nil
}

func zeroScores(candidates []ai.RerankCandidate) []ai.RerankResult {
	results := make([]ai.RerankResult, len(candidates))
	for i, c := range candidates {
		results[i] = ai.RerankResult{ChunkID: c.ChunkID, Score: 0}
	}
	return results
}

const rerankSystemPrompt = `You are a relevance scoring model. Given a query and a numbered list of
passages, output ONLY valid JSON of the form {"scores":[{"index":0,"score":0.0}, ...]} with one
entry per passage, in any order. Score is relevance to the query from 0.0 (irrelevant) to 1.0
(directly answers the query). Do not include any text outside the JSON object.`

func buildRerankPrompt(query string, candidates []ai.RerankCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nPassages:\n", query)
	for i, c := range candidates {
		fmt.Fprintf(&b, "[%d] %s\n", i, c.Text)
	}
	return b.String()
}
