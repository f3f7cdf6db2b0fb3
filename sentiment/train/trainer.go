package train

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/ZanzyTHEbar/assert-lib"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/dataset"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/model"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/runs"
)

// Config holds training hyperparameters.
type Config struct {
	Epochs         int     `json:"epochs"`
	BatchSize      int     `json:"batchSize"`
	LearningRate   float64 `json:"learningRate"`
	WeightDecay    float64 `json:"weightDecay"`
	LRDecay        float64 `json:"lrDecay"`
	Seed           int64   `json:"seed"`
	CheckpointPath string  `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		Epochs:       5,
		BatchSize:    64,
		LearningRate: 0.5,
		WeightDecay:  0.0,
		LRDecay:      0.5,
		Seed:         1,
	}
}

// Result summarizes a finished training run.
type Result struct {
	Epochs        int
	BestValidLoss float64
	BestValidAcc  float64
	RunID         uuid.UUID // zero when tracking is disabled
}

// Trainer drives the synchronous epoch/batch loop: shuffle, forward, loss,
// backward, step, evaluate. One goroutine, one model.
type Trainer struct {
	Model  *model.TextClassifier
	Train  *dataset.Dataset
	Valid  *dataset.Dataset
	Config Config

	tracker *runs.Store
	asserts *assert.AssertHandler
	rng     *rand.Rand
}

func New(m *model.TextClassifier, train, valid *dataset.Dataset, cfg Config) *Trainer {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	return &Trainer{
		Model:   m,
		Train:   train,
		Valid:   valid,
		Config:  cfg,
		asserts: assert.NewAssertHandler(),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}
}

// WithTracker enables run/metric persistence.
func (t *Trainer) WithTracker(s *runs.Store) *Trainer {
	t.tracker = s
	return t
}

// Run executes the full training loop. Cancelling ctx stops cleanly at the
// next epoch boundary with the error from ctx.
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	if t.Train.Len() == 0 {
		return nil, fmt.Errorf("training dataset is empty")
	}
	t.asserts.Assert(ctx, t.Model.VocabSize == t.Train.Vocab.Size(), "model vocab size must match dataset vocabulary")

	result := &Result{BestValidLoss: math.MaxFloat64}

	var run *runs.Run
	if t.tracker != nil {
		cfgJSON, err := json.Marshal(t.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize training config: %w", err)
		}
		run, err = t.tracker.Begin(string(cfgJSON))
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		result.RunID = run.ID
	}

	slog.Info("Starting training",
		"examples", t.Train.Len(),
		"validExamples", t.Valid.Len(),
		"parameters", t.Model.NumParameters(),
		"epochs", t.Config.Epochs,
		"batchSize", t.Config.BatchSize,
		"lr", t.Config.LearningRate)

	lr := t.Config.LearningRate
	totalStart := time.Now()

	for epoch := 1; epoch <= t.Config.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		epochStart := time.Now()

		sgd := model.SGDConfig{LearningRate: lr, WeightDecay: t.Config.WeightDecay}
		trainLoss := 0.0
		trainAcc := 0.0
		seen := 0
		for _, b := range t.Train.Batches(t.Config.BatchSize, t.rng) {
			loss := t.Model.TrainStep(b, sgd)
			trainLoss += loss * float64(b.Size())
			trainAcc += t.Model.Accuracy(b) * float64(b.Size())
			seen += b.Size()
		}
		trainLoss /= float64(seen)
		trainAcc /= float64(seen)

		validLoss, validAcc := t.evaluate(t.Valid)

		slog.Info("Epoch complete",
			"epoch", epoch,
			"trainLoss", trainLoss,
			"trainAcc", trainAcc,
			"validLoss", validLoss,
			"validAcc", validAcc,
			"lr", lr,
			"elapsed", time.Since(epochStart))

		if run != nil {
			if err := t.tracker.Record(runs.Metric{RunID: run.ID, Epoch: epoch, Split: "train", Loss: trainLoss, Accuracy: trainAcc}); err != nil {
				return result, err
			}
			if t.Valid.Len() > 0 {
				if err := t.tracker.Record(runs.Metric{RunID: run.ID, Epoch: epoch, Split: "valid", Loss: validLoss, Accuracy: validAcc}); err != nil {
					return result, err
				}
			}
		}

		// No validation split: train loss is the improvement signal.
		signal := validLoss
		if t.Valid.Len() == 0 {
			signal = trainLoss
		}

		if signal < result.BestValidLoss {
			result.BestValidLoss = signal
			result.BestValidAcc = validAcc
			if t.Config.CheckpointPath != "" {
				if err := t.Model.Save(t.Config.CheckpointPath); err != nil {
					return result, fmt.Errorf("failed to save checkpoint: %w", err)
				}
				slog.Debug("Saved checkpoint", "path", t.Config.CheckpointPath, "epoch", epoch)
			}
		} else if t.Config.LRDecay > 0 && t.Config.LRDecay < 1 {
			lr *= t.Config.LRDecay
			slog.Debug("Decayed learning rate", "lr", lr)
		}

		result.Epochs = epoch
	}

	slog.Info("Training complete",
		"epochs", result.Epochs,
		"bestLoss", result.BestValidLoss,
		"bestAcc", result.BestValidAcc,
		"elapsed", time.Since(totalStart))

	return result, nil
}

// evaluate computes mean loss and accuracy over a dataset without updating
// any parameter. Unshuffled; evaluation order does not matter.
func (t *Trainer) evaluate(ds *dataset.Dataset) (float64, float64) {
	if ds.Len() == 0 {
		return 0, 0
	}
	loss := 0.0
	acc := 0.0
	for _, b := range ds.Batches(t.Config.BatchSize, nil) {
		loss += t.Model.Loss(b) * float64(b.Size())
		acc += t.Model.Accuracy(b) * float64(b.Size())
	}
	return loss / float64(ds.Len()), acc / float64(ds.Len())
}
