package extract

import "errors"

var (
	// ErrExtractorRequired is returned when no ai.EntityExtractor was
	// configured but ExtractDepth requires one.
	ErrExtractorRequired = errors.New("entity extractor required")

	// ErrEmptyEntityTypes is returned when the NER layer is enabled with
	// no configured entity type labels.
	ErrEmptyEntityTypes = errors.New("at least one entity type is required")
)
