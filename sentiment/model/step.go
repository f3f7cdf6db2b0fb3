package model

import (
	"math"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/dataset"

	"gonum.org/v1/gonum/mat"
)

// SGDConfig holds the per-step optimizer settings.
type SGDConfig struct {
	LearningRate float64
	WeightDecay  float64
}

// TrainStep runs one forward/backward/update cycle over a batch and returns
// the mean cross-entropy loss. Gradients for this two-layer model are
// closed-form:
//
//	loss      = -1/N * sum log(softmax(logits)[label])
//	dlogits   = (softmax(logits) - onehot(label)) / N
//	dW        = dlogits^T @ pooled       db = sum(dlogits)
//	dPooled   = dlogits @ W
//	dEmbed[t] = dPooled[i] / len(example i)   for each id t of example i
func (m *TextClassifier) TrainStep(b dataset.Batch, cfg SGDConfig) float64 {
	n := b.Size()
	if n == 0 {
		return 0
	}

	pooled := m.Pooled(b)
	logits := m.Logits(pooled)

	// Softmax + loss; dlogits overwrites the logits buffer in place.
	totalLoss := 0.0
	invN := 1.0 / float64(n)
	for i := 0; i < n; i++ {
		row := logits.RawRowView(i)
		softmaxInPlace(row)

		p := row[b.Labels[i]]
		if p < 1e-10 {
			p = 1e-10
		}
		totalLoss -= math.Log(p)

		row[b.Labels[i]] -= 1.0
		for c := range row {
			row[c] *= invN
		}
	}
	dlogits := logits

	// Linear layer gradients.
	var dW mat.Dense
	dW.Mul(dlogits.T(), pooled) // [classes x embedDim]

	db := make([]float64, m.numClasses)
	for i := 0; i < n; i++ {
		row := dlogits.RawRowView(i)
		for c := 0; c < m.numClasses; c++ {
			db[c] += row[c]
		}
	}

	// Input gradient, needed before the weight update below.
	var dPooled mat.Dense
	dPooled.Mul(dlogits, m.Weight) // [batch x embedDim]

	// SGD update: linear layer.
	lr := cfg.LearningRate
	for c := 0; c < m.numClasses; c++ {
		wRow := m.Weight.RawRowView(c)
		gRow := dW.RawRowView(c)
		for j := range wRow {
			wRow[j] -= lr * (gRow[j] + cfg.WeightDecay*wRow[j])
		}
		m.Bias.SetVec(c, m.Bias.AtVec(c)-lr*db[c])
	}

	// SGD update: embedding rows touched by this batch. Mean pooling
	// spreads each example's gradient evenly over its token rows.
	for i := 0; i < n; i++ {
		start, end := b.Bounds(i)
		ids := b.IDs[start:end]
		valid := 0
		for _, id := range ids {
			if id >= 0 && id < int64(m.VocabSize) {
				valid++
			}
		}
		if valid == 0 {
			continue
		}
		gRow := dPooled.RawRowView(i)
		scale := lr / float64(valid)
		for _, id := range ids {
			if id < 0 || id >= int64(m.VocabSize) {
				continue
			}
			eRow := m.Embedding.RawRowView(int(id))
			for j := range eRow {
				eRow[j] -= scale * gRow[j]
			}
		}
	}

	return totalLoss * invN
}

// Loss computes the mean cross-entropy over a batch without touching any
// parameter. Used for validation.
func (m *TextClassifier) Loss(b dataset.Batch) float64 {
	n := b.Size()
	if n == 0 {
		return 0
	}

	logits := m.Logits(m.Pooled(b))
	totalLoss := 0.0
	for i := 0; i < n; i++ {
		row := logits.RawRowView(i)
		softmaxInPlace(row)
		p := row[b.Labels[i]]
		if p < 1e-10 {
			p = 1e-10
		}
		totalLoss -= math.Log(p)
	}
	return totalLoss / float64(n)
}

// Accuracy returns the fraction of batch examples whose argmax logit matches
// the label.
func (m *TextClassifier) Accuracy(b dataset.Batch) float64 {
	n := b.Size()
	if n == 0 {
		return 0
	}

	logits := m.Logits(m.Pooled(b))
	correct := 0
	for i := 0; i < n; i++ {
		row := logits.RawRowView(i)
		best := 0
		for c, v := range row {
			if v > row[best] {
				best = c
			}
		}
		if best == b.Labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}
