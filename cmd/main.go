package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/lineup/internal/shared"
	"github.com/urfave/cli/v3"
)

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lineup",
		Usage:   "Build your All Star Music Lineup from Spotify, Apple Music or Last.fm",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a dotenv file with LINEUP_* overrides",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Setup,
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotSupported) {
			logger.Warn("operation not supported by this provider", "err", err)
			os.Exit(2)
		}
		logger.Fatalf("application error: %v", err)
	}
}
