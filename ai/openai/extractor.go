package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/dotmd/dotmd/ai"
	"github.com/dotmd/dotmd/core"
)

// EntityExtractor implements ai.EntityExtractor using OpenAI-compatible
// chat APIs in JSON mode.
type EntityExtractor struct {
	client      llms.Model
	minScore    float64
	entityTypes []string
	logger      *slog.Logger
}

type entityRecord struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

type entityResponse struct {
	Entities []entityRecord `json:"entities"`
}

func newEntityExtractor(config *ai.Config) (*EntityExtractor, error) {
	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &EntityExtractor{
		client:      client,
		minScore:    config.MinScore,
		entityTypes: config.EntityTypes,
		logger:      slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewEntityExtractor creates a new entity extractor using the provided
// configuration.
func NewEntityExtractor(config *ai.Config) (ai.EntityExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newEntityExtractor(config)
}

// ExtractEntities extracts named entities from text using a zero-shot
// LLM classifier. Entities scoring below the configured minimum are
// filtered out.
func (e *EntityExtractor) ExtractEntities(ctx context.Context, text string) ([]ai.ExtractedEntity, error) {
	text = scrubString(text)

	content := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(buildEntitySystemPrompt(e.entityTypes))}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(text)}},
	}

	var (
		result  entityResponse
		lastErr error
	)
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}
		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []ai.ExtractedEntity{}, nil
		}

		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response", "attempt", attempt+1, "response", responseText, "err", err)
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, lastErr
	}

	extracted := make([]ai.ExtractedEntity, 0, len(result.Entities))
	for _, r := range result.Entities {
		if r.Score < e.minScore {
			continue
		}
		extracted = append(extracted, ai.ExtractedEntity{
			Name:  r.Name,
			Type:  core.ParseEntityType(r.Type),
			Score: r.Score,
		})
	}

	e.logger.Debug("extracted entities", "total", len(result.Entities), "filtered", len(extracted))
	return extracted, nil
}
