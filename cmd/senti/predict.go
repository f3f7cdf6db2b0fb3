package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/predict"
)

func predictCmd() *cli.Command {
	var (
		text     string
		asJSON   bool
		fromStdn bool
	)

	return &cli.Command{
		Name:  "predict",
		Usage: "Classify ad-hoc text with a trained model",
		Flags: append(append(commonConfigFlags(), commonModelFlags()...),
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"t"},
				Usage:       "text to classify",
				Destination: &text,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the full prediction as JSON",
				Destination: &asJSON,
			},
			&cli.BoolFlag{
				Name:        "stdin",
				Usage:       "classify each line read from stdin",
				Destination: &fromStdn,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pipeline, err := buildPipeline(cfg)
			if err != nil {
				return err
			}

			p, err := predict.Open(cfg.Model.CheckpointPath, cfg.Model.VocabPath, pipeline)
			if err != nil {
				return err
			}

			emit := func(input string) error {
				out, err := p.PredictText(ctx, input)
				if err != nil {
					return err
				}
				if asJSON {
					data, err := json.Marshal(out)
					if err != nil {
						return err
					}
					fmt.Println(string(data))
					return nil
				}
				fmt.Printf("%s (%.2f%%)\n", out.Label, out.Score*100)
				return nil
			}

			if fromStdn {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					line := scanner.Text()
					if line == "" {
						continue
					}
					if err := emit(line); err != nil {
						return err
					}
				}
				return scanner.Err()
			}

			if text == "" {
				return fmt.Errorf("provide --text or --stdin")
			}
			return emit(text)
		},
	}
}
