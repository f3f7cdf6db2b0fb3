package vocab

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// savedVocabulary is the on-disk form. The id-ordered token list is the
// whole state; indexes are rebuilt on load.
type savedVocabulary struct {
	Version int      `json:"version"`
	Tokens  []string `json:"tokens"`
}

const persistVersion = 1

// Save writes the vocabulary to path as JSON, creating parent directories
// as needed.
func (v *Vocabulary) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create vocab directory: %w", err)
	}

	data, err := json.Marshal(savedVocabulary{Version: persistVersion, Tokens: v.tokens})
	if err != nil {
		return fmt.Errorf("failed to marshal vocabulary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vocabulary: %w", err)
	}
	return nil
}

// Load reads a vocabulary previously written by Save. The reserved-token
// invariant is re-validated so a tampered file cannot produce shifted ids.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	var saved savedVocabulary
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vocabulary: %w", err)
	}
	if saved.Version != persistVersion {
		return nil, fmt.Errorf("unsupported vocabulary version %d", saved.Version)
	}

	return newVocabulary(saved.Tokens)
}
