package model

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"
)

// checkpoint is the serialized model: dimensions, label names, and flat
// row-major weight buffers.
type checkpoint struct {
	Version    int       `json:"version"`
	VocabSize  int       `json:"vocabSize"`
	EmbedDim   int       `json:"embedDim"`
	NumClasses int       `json:"numClasses"`
	Labels     []string  `json:"labels"`
	Embedding  []float64 `json:"embedding"`
	Weight     []float64 `json:"weight"`
	Bias       []float64 `json:"bias"`
}

const checkpointVersion = 1

// Save writes the model as gzip-compressed JSON, creating parent
// directories as needed.
func (m *TextClassifier) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create checkpoint directory: %w", err)
	}

	ck := checkpoint{
		Version:    checkpointVersion,
		VocabSize:  m.VocabSize,
		EmbedDim:   m.EmbedDim,
		NumClasses: m.numClasses,
		Labels:     m.Labels,
		Embedding:  m.Embedding.RawMatrix().Data,
		Weight:     m.Weight.RawMatrix().Data,
		Bias:       m.Bias.RawVector().Data,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create checkpoint: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(ck); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}
	return nil
}

// Load reads a checkpoint written by Save and rebuilds the classifier.
func Load(path string) (*TextClassifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open checkpoint: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("checkpoint is not gzip data: %w", err)
	}
	defer zr.Close()

	var ck checkpoint
	if err := json.NewDecoder(zr).Decode(&ck); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if ck.Version != checkpointVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d", ck.Version)
	}
	if len(ck.Embedding) != ck.VocabSize*ck.EmbedDim ||
		len(ck.Weight) != ck.NumClasses*ck.EmbedDim ||
		len(ck.Bias) != ck.NumClasses {
		return nil, fmt.Errorf("checkpoint weight buffers do not match dimensions")
	}

	return &TextClassifier{
		Embedding:  mat.NewDense(ck.VocabSize, ck.EmbedDim, ck.Embedding),
		Weight:     mat.NewDense(ck.NumClasses, ck.EmbedDim, ck.Weight),
		Bias:       mat.NewVecDense(ck.NumClasses, ck.Bias),
		VocabSize:  ck.VocabSize,
		EmbedDim:   ck.EmbedDim,
		numClasses: ck.NumClasses,
		Labels:     ck.Labels,
	}, nil
}
