package dataset

import (
	"fmt"
	"math/rand"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/textproc"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/vocab"
)

// Labels for the binary sentiment task.
const (
	LabelNegative = 0
	LabelPositive = 1

	NumLabels = 2
)

// LabelName returns the human-readable form of a label.
func LabelName(label int) string {
	if label == LabelPositive {
		return "positive"
	}
	return "negative"
}

// Example is one vectorized document: an ordered id sequence plus a binary
// label. Immutable once constructed.
type Example struct {
	IDs   []int64
	Label int
}

// Dataset is an ordered collection of Examples plus the Vocabulary they were
// built against. Created by vectorization, consumed read-only by batching
// and training.
type Dataset struct {
	Examples []Example
	Vocab    *vocab.Vocabulary
}

// Pipeline bundles the tokenizer with the bigram-augmentation flag so that
// training and inference vectorize text identically.
type Pipeline struct {
	Tokenizer textproc.Tokenizer
	Bigrams   bool
}

// Tokens runs the pipeline over one text: tokenize, then optionally append
// consecutive-pair bigrams.
func (p Pipeline) Tokens(text string) ([]string, error) {
	tokens, err := p.Tokenizer.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	if p.Bigrams {
		tokens = textproc.WithBigrams(tokens)
	}
	return tokens, nil
}

// Vectorize maps tokens to vocabulary ids. Pure: no side effects, stable
// across repeated calls. Out-of-vocabulary tokens become the unknown id.
func Vectorize(tokens []string, v *vocab.Vocabulary) []int64 {
	ids := make([]int64, len(tokens))
	for i, tok := range tokens {
		ids[i] = v.ID(tok)
	}
	return ids
}

// New vectorizes labeled texts against an already-built vocabulary.
func New(texts []LabeledText, p Pipeline, v *vocab.Vocabulary) (*Dataset, error) {
	examples := make([]Example, 0, len(texts))
	for i, lt := range texts {
		if lt.Label != LabelNegative && lt.Label != LabelPositive {
			return nil, fmt.Errorf("example %d: label %d out of range", i, lt.Label)
		}
		tokens, err := p.Tokens(lt.Text)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		examples = append(examples, Example{IDs: Vectorize(tokens, v), Label: lt.Label})
	}
	return &Dataset{Examples: examples, Vocab: v}, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Examples)
}

// Split partitions the dataset into train and validation subsets. The split
// is a shuffled partition driven by rng, so a fixed seed reproduces it. Both
// halves share the read-only vocabulary.
func (d *Dataset) Split(validRatio float64, rng *rand.Rand) (train, valid *Dataset) {
	if validRatio <= 0 {
		return d, &Dataset{Vocab: d.Vocab}
	}
	if validRatio >= 1 {
		return &Dataset{Vocab: d.Vocab}, d
	}

	perm := rng.Perm(len(d.Examples))
	nValid := int(float64(len(d.Examples)) * validRatio)

	validEx := make([]Example, 0, nValid)
	trainEx := make([]Example, 0, len(d.Examples)-nValid)
	for i, idx := range perm {
		if i < nValid {
			validEx = append(validEx, d.Examples[idx])
		} else {
			trainEx = append(trainEx, d.Examples[idx])
		}
	}

	return &Dataset{Examples: trainEx, Vocab: d.Vocab},
		&Dataset{Examples: validEx, Vocab: d.Vocab}
}
