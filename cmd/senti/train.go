package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/urfave/cli/v3"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/dataset"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/model"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/runs"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/train"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/vocab"
)

func trainCmd() *cli.Command {
	var (
		corpusPath string
		epochs     int64
		noTrack    bool
	)

	return &cli.Command{
		Name:  "train",
		Usage: "Train a classifier on a labeled movie-review corpus",
		Flags: append(append(commonConfigFlags(), commonModelFlags()...),
			&cli.StringFlag{
				Name:        "corpus",
				Usage:       "corpus directory (pos/ and neg/ of .txt files) or .tsv file",
				Destination: &corpusPath,
			},
			&cli.Int64Flag{
				Name:        "epochs",
				Usage:       "override configured epoch count",
				Destination: &epochs,
			},
			&cli.BoolFlag{
				Name:        "no-track",
				Usage:       "disable run tracking",
				Destination: &noTrack,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if corpusPath == "" {
				corpusPath = cfg.Data.TrainDir
			}

			pipeline, err := buildPipeline(cfg)
			if err != nil {
				return err
			}

			texts, err := loadCorpus(ctx, corpusPath, cfg.Data.IgnoreFile)
			if err != nil {
				return err
			}
			if len(texts) == 0 {
				return fmt.Errorf("corpus %s contains no examples", corpusPath)
			}

			builder := vocab.NewBuilder(vocab.Options{
				MinDocFreq: cfg.Pipeline.MinDocFreq,
				MaxSize:    cfg.Pipeline.MaxVocabSize,
			})
			for i, lt := range texts {
				tokens, err := pipeline.Tokens(lt.Text)
				if err != nil {
					return fmt.Errorf("example %d: %w", i, err)
				}
				builder.AddExample(tokens)
			}
			v, err := builder.Build()
			if err != nil {
				return err
			}

			ds, err := dataset.New(texts, pipeline, v)
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(cfg.Training.Seed))
			trainDS, validDS := ds.Split(cfg.Data.ValidRatio, rng)

			m, err := model.New(v.Size(), cfg.Model.EmbedDim, dataset.NumLabels, rng)
			if err != nil {
				return err
			}

			trainCfg := train.Config{
				Epochs:         cfg.Training.Epochs,
				BatchSize:      cfg.Training.BatchSize,
				LearningRate:   cfg.Training.LearningRate,
				WeightDecay:    cfg.Training.WeightDecay,
				LRDecay:        cfg.Training.LRDecay,
				Seed:           cfg.Training.Seed,
				CheckpointPath: cfg.Model.CheckpointPath,
			}
			if epochs > 0 {
				trainCfg.Epochs = int(epochs)
			}

			trainer := train.New(m, trainDS, validDS, trainCfg)
			if cfg.Runs.Enabled && !noTrack {
				store, err := runs.Open(cfg.Runs.DSN)
				if err != nil {
					return err
				}
				defer store.Close()
				trainer = trainer.WithTracker(store)
			}

			result, err := trainer.Run(ctx)
			if err != nil {
				return err
			}

			if err := v.Save(cfg.Model.VocabPath); err != nil {
				return err
			}

			fmt.Printf("trained %d epochs | best loss %.4f | best accuracy %.4f\n",
				result.Epochs, result.BestValidLoss, result.BestValidAcc)
			fmt.Printf("model: %s\nvocab: %s\n", cfg.Model.CheckpointPath, cfg.Model.VocabPath)
			return nil
		},
	}
}
