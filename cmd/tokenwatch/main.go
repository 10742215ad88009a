package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/anomredux/tokenwatch/internal/config"
)

// version is set by goreleaser via ldflags.
var version = "dev"

func main() {
	a := newApp()
	if err := newRootCommand(a).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tokenwatch: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    "tokenwatch",
		Usage:   "track Claude token usage against a rolling five hour budget",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file path",
				Value: config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "directory holding the usage record (overrides paths.dir)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log at debug level",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.reportStatus(ctx, cmd, false, false)
		},
		Commands: []*cli.Command{
			a.statusCommand(),
			a.detailCommand(),
			a.addCommand(),
			a.estimateCommand(),
			a.resetCommand(),
			a.modelCommand(),
			a.requestCommand(),
			a.monitorCommand(),
			a.watchCommand(),
		},
	}
}
