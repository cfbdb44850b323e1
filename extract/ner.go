package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dotmd/dotmd/ai"
	"github.com/dotmd/dotmd/core"
)

// NER wraps an ai.EntityExtractor with the entity-type allowlist and
// minimum-score filtering configured for a given index.
type NER struct {
	extractor   ai.EntityExtractor
	entityTypes map[string]bool
	minScore    float64
	logger      *slog.Logger
}

// NewNER builds a NER extractor. entityTypes restricts which extracted
// types are kept (case-insensitive); an empty set accepts all types the
// fixed EntityType enum recognizes.
func NewNER(extractor ai.EntityExtractor, entityTypes []string, minScore float64) (*NER, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	allowed := make(map[string]bool, len(entityTypes))
	for _, t := range entityTypes {
		allowed[strings.ToLower(t)] = true
	}
	return &NER{
		extractor:   extractor,
		entityTypes: allowed,
		minScore:    minScore,
		logger:      slog.Default().With("component", "ner"),
	}, nil
}

// Entities runs zero-shot NER over chunk text, filtering by the
// configured entity types and minimum score, and normalizing surface
// forms to their canonical lowercase name.
func (n *NER) Entities(ctx context.Context, text string) ([]core.Entity, error) {
	extracted, err := n.extractor.ExtractEntities(ctx, text)
	if err != nil {
		n.logger.Warn("entity extraction failed", "err", err)
		return nil, err
	}

	entities := make([]core.Entity, 0, len(extracted))
	for _, e := range extracted {
		if e.Score < n.minScore {
			continue
		}
		if len(n.entityTypes) > 0 && !n.entityTypes[strings.ToLower(e.Type.String())] {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			continue
		}
		entities = append(entities, core.Entity{
			Id:            core.EntityID(name, e.Type),
			CanonicalName: name,
			Type:          e.Type,
		})
	}
	return entities, nil
}
