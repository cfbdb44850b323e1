package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// UserSettings is the pre-index, user-editable overlay read from
// <IndexDir>/config.toml. Unlike config.json (frozen at index time and
// fatal to change without re-indexing), this file is meant to be hand
// edited between runs.
type UserSettings struct {
	EmbeddingHost   string   `toml:"embedding_host"`
	EmbeddingModel  string   `toml:"embedding_model"`
	ClassifierHost  string   `toml:"classifier_host"`
	ClassifierModel string   `toml:"classifier_model"`
	RerankerHost    string   `toml:"reranker_host"`
	RerankerModel   string   `toml:"reranker_model"`
	ExtractDepth    string   `toml:"extract_depth"`
	NEREntityTypes  []string `toml:"ner_entity_types"`
	DefaultTopK     int      `toml:"default_top_k"`

	// Acronyms are hand-authored acronym -> expansion pairs, layered
	// over whatever the query expander derives from the corpus text at
	// search time. Useful for jargon a pattern scan won't reliably find.
	Acronyms map[string]string `toml:"acronyms"`
}

// LoadUserSettings reads a TOML settings file, if present, and applies
// its non-zero fields onto c. Missing file is not an error.
func LoadUserSettings(c *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	var s UserSettings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return err
	}

	if s.EmbeddingHost != "" {
		c.EmbeddingHost = s.EmbeddingHost
	}
	if s.EmbeddingModel != "" {
		c.EmbeddingModel = s.EmbeddingModel
	}
	if s.ClassifierHost != "" {
		c.ClassifierHost = s.ClassifierHost
	}
	if s.ClassifierModel != "" {
		c.ClassifierModel = s.ClassifierModel
	}
	if s.RerankerHost != "" {
		c.RerankerHost = s.RerankerHost
	}
	if s.RerankerModel != "" {
		c.RerankerModel = s.RerankerModel
	}
	if s.ExtractDepth != "" {
		c.ExtractDepth = ExtractDepth(s.ExtractDepth)
	}
	if len(s.NEREntityTypes) > 0 {
		c.NEREntityTypes = s.NEREntityTypes
	}
	if s.DefaultTopK > 0 {
		c.DefaultTopK = s.DefaultTopK
	}
	if len(s.Acronyms) > 0 {
		if c.Acronyms == nil {
			c.Acronyms = make(map[string]string, len(s.Acronyms))
		}
		for k, v := range s.Acronyms {
			c.Acronyms[k] = v
		}
	}
	return nil
}
