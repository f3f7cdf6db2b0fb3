package model

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *TextClassifier {
	t.Helper()
	m, err := New(10, 8, 2, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	return m
}

// toyDataset builds a linearly separable corpus: even ids mean positive,
// odd ids mean negative.
func toyDataset() *dataset.Dataset {
	var examples []dataset.Example
	for i := 0; i < 40; i++ {
		if i%2 == 0 {
			examples = append(examples, dataset.Example{IDs: []int64{2, 4, 6}, Label: dataset.LabelPositive})
		} else {
			examples = append(examples, dataset.Example{IDs: []int64{3, 5, 7}, Label: dataset.LabelNegative})
		}
	}
	return &dataset.Dataset{Examples: examples}
}

func TestNewRejectsBadDims(t *testing.T) {
	_, err := New(0, 8, 2, nil)
	assert.Error(t, err)
	_, err = New(10, 0, 2, nil)
	assert.Error(t, err)
	_, err = New(10, 8, 1, nil)
	assert.Error(t, err)
}

func TestNumParameters(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 10*8+2*8+2, m.NumParameters())
}

func TestScoresSumToOne(t *testing.T) {
	m := newTestModel(t)

	scores, err := m.Scores(context.Background(), []int64{2, 3, 4})
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.InDelta(t, 1.0, scores[0]+scores[1], 1e-9)
	assert.Greater(t, scores[0], 0.0)
	assert.Greater(t, scores[1], 0.0)
}

func TestScoresDeterministic(t *testing.T) {
	m := newTestModel(t)

	a, err := m.Scores(context.Background(), []int64{2, 5})
	require.NoError(t, err)
	b, err := m.Scores(context.Background(), []int64{2, 5})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPoolSkipsOutOfRangeIDs(t *testing.T) {
	m := newTestModel(t)

	// An id beyond the table must not change the pooled result.
	inRange, err := m.Scores(context.Background(), []int64{2, 4})
	require.NoError(t, err)
	withBad, err := m.Scores(context.Background(), []int64{2, 4, 99})
	require.NoError(t, err)
	assert.Equal(t, inRange, withBad)

	// All-out-of-range pools to the zero vector: bias-only logits.
	scores, err := m.Scores(context.Background(), []int64{99, -1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, scores[0], 1e-9)
}

func TestTrainStepReducesLoss(t *testing.T) {
	m := newTestModel(t)
	ds := toyDataset()
	cfg := SGDConfig{LearningRate: 0.5}

	all := make([]int, ds.Len())
	for i := range all {
		all[i] = i
	}
	b := ds.Batch(all)

	before := m.Loss(b)
	for i := 0; i < 50; i++ {
		m.TrainStep(b, cfg)
	}
	after := m.Loss(b)

	assert.Less(t, after, before)
	assert.Equal(t, 1.0, m.Accuracy(b))
}

func TestTrainStepEmptyBatch(t *testing.T) {
	m := newTestModel(t)
	assert.Zero(t, m.TrainStep(dataset.Batch{}, SGDConfig{LearningRate: 0.1}))
	assert.Zero(t, m.Loss(dataset.Batch{}))
	assert.Zero(t, m.Accuracy(dataset.Batch{}))
}

func TestPredictAfterTraining(t *testing.T) {
	m := newTestModel(t)
	ds := toyDataset()

	all := make([]int, ds.Len())
	for i := range all {
		all[i] = i
	}
	b := ds.Batch(all)
	for i := 0; i < 50; i++ {
		m.TrainStep(b, SGDConfig{LearningRate: 0.5})
	}

	label, p := m.Predict([]int64{2, 4, 6})
	assert.Equal(t, dataset.LabelPositive, label)
	assert.Greater(t, p, 0.5)

	label, p = m.Predict([]int64{3, 5, 7})
	assert.Equal(t, dataset.LabelNegative, label)
	assert.Greater(t, p, 0.5)
}

func TestTrainStepWithWeightDecay(t *testing.T) {
	m := newTestModel(t)
	ds := toyDataset()
	b := ds.Batch([]int{0, 1})

	loss := m.TrainStep(b, SGDConfig{LearningRate: 0.1, WeightDecay: 0.01})
	assert.Greater(t, loss, 0.0)
}

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json.gz")

	m := newTestModel(t)
	ds := toyDataset()
	b := ds.Batch([]int{0, 1, 2, 3})
	for i := 0; i < 10; i++ {
		m.TrainStep(b, SGDConfig{LearningRate: 0.5})
	}
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, m.VocabSize, loaded.VocabSize)
	assert.Equal(t, m.EmbedDim, loaded.EmbedDim)
	assert.Equal(t, m.numClasses, loaded.numClasses)
	assert.Equal(t, m.Labels, loaded.Labels)

	want, err := m.Scores(context.Background(), []int64{2, 3})
	require.NoError(t, err)
	got, err := loaded.Scores(context.Background(), []int64{2, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-12)
}

func TestLoadMissingCheckpoint(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json.gz"))
	assert.Error(t, err)
}

func TestONNXBackendStub(t *testing.T) {
	b, err := NewONNXBackend("model.onnx", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, b.NumClasses())

	_, err = b.Scores(context.Background(), []int64{1, 2})
	assert.Error(t, err)
}
