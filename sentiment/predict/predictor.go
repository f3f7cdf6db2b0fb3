package predict

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/dataset"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/model"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/vocab"
)

// Predictor bundles the text pipeline, the vocabulary, and a scoring
// backend for ad-hoc inference on user text. Vectorization applies the same
// bigram setting as training; unknown tokens silently map to <unk>.
type Predictor struct {
	pipeline dataset.Pipeline
	vocab    *vocab.Vocabulary
	backend  model.Backend
	labels   []string
}

// Prediction is the scored outcome for one text.
type Prediction struct {
	Label  string    `json:"label"`
	Class  int       `json:"class"`
	Score  float64   `json:"score"`
	Scores []float64 `json:"scores"`
}

func New(p dataset.Pipeline, v *vocab.Vocabulary, backend model.Backend, labels []string) (*Predictor, error) {
	if v == nil || backend == nil {
		return nil, fmt.Errorf("predictor requires a vocabulary and a backend")
	}
	if len(labels) != backend.NumClasses() {
		labels = make([]string, backend.NumClasses())
		for c := range labels {
			labels[c] = dataset.LabelName(c)
		}
	}
	return &Predictor{pipeline: p, vocab: v, backend: backend, labels: labels}, nil
}

// Open loads a trained checkpoint plus its vocabulary into a Predictor with
// the native linear backend.
func Open(checkpointPath, vocabPath string, pipeline dataset.Pipeline) (*Predictor, error) {
	m, err := model.Load(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("could not load model: %w", err)
	}
	v, err := vocab.Load(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("could not load vocabulary: %w", err)
	}
	if v.Size() != m.VocabSize {
		return nil, fmt.Errorf("vocabulary has %d ids but model expects %d", v.Size(), m.VocabSize)
	}
	return New(pipeline, v, m, m.Labels)
}

// PredictText tokenizes, vectorizes, and scores one text.
func (p *Predictor) PredictText(ctx context.Context, text string) (*Prediction, error) {
	tokens, err := p.pipeline.Tokens(text)
	if err != nil {
		return nil, err
	}

	ids := dataset.Vectorize(tokens, p.vocab)
	scores, err := p.backend.Scores(ctx, ids)
	if err != nil {
		return nil, err
	}

	best := 0
	for c, s := range scores {
		if s > scores[best] {
			best = c
		}
	}
	return &Prediction{
		Label:  p.labels[best],
		Class:  best,
		Score:  scores[best],
		Scores: scores,
	}, nil
}

// Vocab exposes the read-only vocabulary for inspection endpoints.
func (p *Predictor) Vocab() *vocab.Vocabulary {
	return p.vocab
}
