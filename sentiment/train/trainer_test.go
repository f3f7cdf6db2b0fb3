package train

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/dataset"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/model"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/textproc"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/vocab"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableCorpus builds a trivially separable review corpus so a few
// epochs reach full accuracy.
func separableCorpus(t *testing.T) (*dataset.Dataset, *dataset.Dataset) {
	t.Helper()

	var texts []dataset.LabeledText
	for i := 0; i < 30; i++ {
		texts = append(texts,
			dataset.LabeledText{Text: "wonderful great superb film", Label: dataset.LabelPositive},
			dataset.LabeledText{Text: "terrible awful dreadful film", Label: dataset.LabelNegative},
		)
	}

	p := dataset.Pipeline{Tokenizer: textproc.NewBasicEnglish(), Bigrams: true}
	b := vocab.NewBuilder(vocab.Options{})
	for _, lt := range texts {
		tokens, err := p.Tokens(lt.Text)
		require.NoError(t, err)
		b.AddExample(tokens)
	}
	v, err := b.Build()
	require.NoError(t, err)

	ds, err := dataset.New(texts, p, v)
	require.NoError(t, err)

	return ds.Split(0.2, rand.New(rand.NewSource(3)))
}

func TestTrainerLearnsSeparableCorpus(t *testing.T) {
	trainDS, validDS := separableCorpus(t)

	m, err := model.New(trainDS.Vocab.Size(), 16, dataset.NumLabels, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Epochs = 10
	cfg.BatchSize = 8
	tr := New(m, trainDS, validDS, cfg)

	result, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, result.Epochs)
	assert.Equal(t, 1.0, result.BestValidAcc)
	assert.Less(t, result.BestValidLoss, 0.5)
	assert.Equal(t, uuid.Nil, result.RunID, "no tracker configured")
}

func TestTrainerSavesBestCheckpoint(t *testing.T) {
	trainDS, validDS := separableCorpus(t)

	m, err := model.New(trainDS.Vocab.Size(), 16, dataset.NumLabels, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json.gz")
	cfg := DefaultConfig()
	cfg.Epochs = 3
	cfg.BatchSize = 8
	cfg.CheckpointPath = path
	tr := New(m, trainDS, validDS, cfg)

	_, err = tr.Run(context.Background())
	require.NoError(t, err)

	loaded, err := model.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.VocabSize, loaded.VocabSize)
	assert.Equal(t, m.EmbedDim, loaded.EmbedDim)
}

func TestTrainerEmptyDataset(t *testing.T) {
	v, err := vocab.Build([][]string{{"x"}}, vocab.Options{})
	require.NoError(t, err)

	m, err := model.New(v.Size(), 4, dataset.NumLabels, nil)
	require.NoError(t, err)

	tr := New(m, &dataset.Dataset{Vocab: v}, &dataset.Dataset{Vocab: v}, DefaultConfig())
	_, err = tr.Run(context.Background())
	assert.Error(t, err)
}

func TestTrainerHonorsCancellation(t *testing.T) {
	trainDS, validDS := separableCorpus(t)

	m, err := model.New(trainDS.Vocab.Size(), 16, dataset.NumLabels, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := New(m, trainDS, validDS, DefaultConfig())
	_, err = tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.Epochs)
	assert.Equal(t, 64, cfg.BatchSize)
	assert.Greater(t, cfg.LearningRate, 0.0)
}
