package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/ZanzyTHEbar/go-sentiment/sentiment/runs"
)

func runsCmd() *cli.Command {
	var runID string

	return &cli.Command{
		Name:  "runs",
		Usage: "List recorded training runs and their metrics",
		Flags: append(commonConfigFlags(),
			&cli.StringFlag{
				Name:        "id",
				Usage:       "show per-epoch metrics for one run",
				Destination: &runID,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := runs.Open(cfg.Runs.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			if runID != "" {
				id, err := uuid.Parse(runID)
				if err != nil {
					return fmt.Errorf("invalid run id: %w", err)
				}
				metrics, err := store.Metrics(id)
				if err != nil {
					return err
				}
				for _, m := range metrics {
					fmt.Printf("epoch %3d  %-5s  loss %.4f  accuracy %.4f\n", m.Epoch, m.Split, m.Loss, m.Accuracy)
				}
				return nil
			}

			all, err := store.Runs()
			if err != nil {
				return err
			}
			for _, r := range all {
				fmt.Printf("%s  %s  %s\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Config)
			}
			return nil
		},
	}
}
