package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	internal "github.com/ZanzyTHEbar/go-sentiment/sentiment"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/api"
	"github.com/ZanzyTHEbar/go-sentiment/sentiment/predict"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the prediction REST API",
		Flags: append(append(commonConfigFlags(), commonModelFlags()...),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := internal.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			pipeline, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			p, err := predict.Open(cfg.Model.CheckpointPath, cfg.Model.VocabPath, pipeline)
			if err != nil {
				return err
			}

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			api.NewServer(p).Register(e)

			log.Info().Str("address", addr).Msg("starting server")
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
