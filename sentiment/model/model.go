package model

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/dataset"

	"gonum.org/v1/gonum/mat"
)

// Backend scores a vectorized example into class probabilities. The linear
// classifier implements it natively; an ONNX session can stand in for it at
// inference time when built with -tags onnx.
type Backend interface {
	NumClasses() int
	Scores(ctx context.Context, ids []int64) ([]float64, error)
}

// TextClassifier is the embedding-average model: a trainable embedding
// table mean-pooled per example, followed by a single linear layer.
type TextClassifier struct {
	Embedding *mat.Dense    // [vocabSize x embedDim]
	Weight    *mat.Dense    // [numClasses x embedDim]
	Bias      *mat.VecDense // [numClasses]

	VocabSize  int
	EmbedDim   int
	numClasses int
	Labels     []string
}

// New creates a classifier with normal-initialized embeddings and a
// Kaiming-initialized linear layer.
func New(vocabSize, embedDim, numClasses int, rng *rand.Rand) (*TextClassifier, error) {
	if vocabSize <= 0 || embedDim <= 0 || numClasses <= 1 {
		return nil, fmt.Errorf("invalid model dimensions: vocab=%d dim=%d classes=%d", vocabSize, embedDim, numClasses)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	embData := make([]float64, vocabSize*embedDim)
	for i := range embData {
		embData[i] = rng.NormFloat64() * 0.02
	}

	// Kaiming He init: scale = sqrt(2 / fan_in)
	scale := math.Sqrt(2.0 / float64(embedDim))
	wData := make([]float64, numClasses*embedDim)
	for i := range wData {
		wData[i] = rng.NormFloat64() * scale
	}

	labels := make([]string, numClasses)
	for c := range labels {
		labels[c] = dataset.LabelName(c)
	}

	return &TextClassifier{
		Embedding:  mat.NewDense(vocabSize, embedDim, embData),
		Weight:     mat.NewDense(numClasses, embedDim, wData),
		Bias:       mat.NewVecDense(numClasses, nil),
		VocabSize:  vocabSize,
		EmbedDim:   embedDim,
		numClasses: numClasses,
		Labels:     labels,
	}, nil
}

// NumClasses returns the number of output classes.
func (m *TextClassifier) NumClasses() int { return m.numClasses }

// NumParameters returns the total trainable parameter count.
func (m *TextClassifier) NumParameters() int {
	return m.VocabSize*m.EmbedDim + m.numClasses*m.EmbedDim + m.numClasses
}

// pool writes the mean of the embedding rows for ids into dst.
// Ids outside the table are skipped; an all-out-of-range sequence pools to
// the zero vector.
func (m *TextClassifier) pool(ids []int64, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	n := 0
	for _, id := range ids {
		if id < 0 || id >= int64(m.VocabSize) {
			continue
		}
		row := m.Embedding.RawRowView(int(id))
		for j, v := range row {
			dst[j] += v
		}
		n++
	}
	if n > 1 {
		inv := 1.0 / float64(n)
		for j := range dst {
			dst[j] *= inv
		}
	}
}

// Pooled returns the mean-pooled embeddings for a batch as a
// [batch x embedDim] matrix.
func (m *TextClassifier) Pooled(b dataset.Batch) *mat.Dense {
	pooled := mat.NewDense(b.Size(), m.EmbedDim, nil)
	for i := 0; i < b.Size(); i++ {
		start, end := b.Bounds(i)
		m.pool(b.IDs[start:end], pooled.RawRowView(i))
	}
	return pooled
}

// Logits computes pooled @ W^T + bias for a batch of pooled embeddings.
func (m *TextClassifier) Logits(pooled *mat.Dense) *mat.Dense {
	rows, _ := pooled.Dims()
	logits := mat.NewDense(rows, m.numClasses, nil)
	logits.Mul(pooled, m.Weight.T())
	for i := 0; i < rows; i++ {
		row := logits.RawRowView(i)
		for c := 0; c < m.numClasses; c++ {
			row[c] += m.Bias.AtVec(c)
		}
	}
	return logits
}

// softmaxInPlace converts one logit row to probabilities, numerically
// stable via max subtraction.
func softmaxInPlace(row []float64) {
	maxVal := math.Inf(-1)
	for _, v := range row {
		if v > maxVal {
			maxVal = v
		}
	}
	sum := 0.0
	for i, v := range row {
		row[i] = math.Exp(v - maxVal)
		sum += row[i]
	}
	for i := range row {
		row[i] /= sum
	}
}

// Scores returns class probabilities for one vectorized example.
func (m *TextClassifier) Scores(_ context.Context, ids []int64) ([]float64, error) {
	pooled := make([]float64, m.EmbedDim)
	m.pool(ids, pooled)

	pv := mat.NewVecDense(m.EmbedDim, pooled)
	scores := make([]float64, m.numClasses)
	for c := 0; c < m.numClasses; c++ {
		scores[c] = mat.Dot(pv, m.Weight.RowView(c)) + m.Bias.AtVec(c)
	}
	softmaxInPlace(scores)
	return scores, nil
}

// Predict returns the argmax class and its probability for one example.
func (m *TextClassifier) Predict(ids []int64) (int, float64) {
	scores, _ := m.Scores(context.Background(), ids)
	best, bestP := 0, scores[0]
	for c, p := range scores {
		if p > bestP {
			best, bestP = c, p
		}
	}
	return best, bestP
}
