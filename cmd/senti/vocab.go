package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/vocab"
)

func vocabCmd() *cli.Command {
	var (
		prefix string
		limit  int64
	)

	return &cli.Command{
		Name:  "vocab",
		Usage: "Inspect a saved vocabulary",
		Flags: append(append(commonConfigFlags(), commonModelFlags()...),
			&cli.StringFlag{
				Name:        "prefix",
				Aliases:     []string{"p"},
				Usage:       "list tokens with this prefix (empty shows a summary)",
				Destination: &prefix,
			},
			&cli.Int64Flag{
				Name:        "limit",
				Usage:       "max tokens to list",
				Value:       50,
				Destination: &limit,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			v, err := vocab.Load(cfg.Model.VocabPath)
			if err != nil {
				return err
			}

			if prefix == "" {
				fmt.Printf("%s: %d tokens (2 reserved)\n", cfg.Model.VocabPath, v.Size())
				return nil
			}

			entries := v.WithPrefix(prefix, int(limit))
			if len(entries) == 0 {
				fmt.Printf("no tokens with prefix %q\n", prefix)
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%6d  %s\n", e.ID, e.Token)
			}
			return nil
		},
	}
}
