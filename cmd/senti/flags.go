package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/config"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/dataset"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/textproc"
)

var (
	configPath     string
	checkpointPath string
	vocabPath      string
)

func commonConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to config file",
			Destination: &configPath,
		},
	}
}

func commonModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "path to model checkpoint",
			Destination: &checkpointPath,
		},
		&cli.StringFlag{
			Name:        "vocab",
			Usage:       "path to saved vocabulary",
			Destination: &vocabPath,
		},
	}
}

// loadConfig resolves the effective config, letting model/vocab flags
// override the file values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if checkpointPath != "" {
		cfg.Model.CheckpointPath = checkpointPath
	}
	if vocabPath != "" {
		cfg.Model.VocabPath = vocabPath
	}
	return cfg, nil
}

// buildPipeline constructs the text pipeline named by the config.
func buildPipeline(cfg *config.Config) (dataset.Pipeline, error) {
	tok, err := textproc.New(cfg.Pipeline.Tokenizer, cfg.Pipeline.VocabFile)
	if err != nil {
		return dataset.Pipeline{}, fmt.Errorf("could not build tokenizer: %w", err)
	}
	return dataset.Pipeline{Tokenizer: tok, Bigrams: cfg.Pipeline.Bigrams}, nil
}

// loadCorpus reads labeled texts from a directory layout or a .tsv file.
func loadCorpus(ctx context.Context, path, ignoreFile string) ([]dataset.LabeledText, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not stat corpus path: %w", err)
	}
	if !fi.IsDir() && strings.HasSuffix(path, ".tsv") {
		return dataset.LoadTSV(path)
	}
	return dataset.LoadDir(ctx, path, ignoreFile)
}
