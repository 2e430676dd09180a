package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panbanda/cxxlens/pkg/analyzer/inheritance"
	"github.com/urfave/cli/v2"
)

func classesCmd() *cli.Command {
	return &cli.Command{
		Name:      "classes",
		Aliases:   []string{"inheritance"},
		Usage:     "Classify the class declarations of each file by where their bases live",
		ArgsUsage: "[file or directory...]",
		Description: `Collects every class, struct and union declared in each file's main
source (declarations from included headers are skipped) and reports, in
declaration order, which other collected classes it derives from, whether
its bases all live outside the file, or whether it has no bases.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "headers",
				Usage: "Also analyze header files found in directories",
			},
		},
		Action: runClassesCmd,
	}
}

func runClassesCmd(c *cli.Context) error {
	cfg := getConfig(c)
	files, err := scanFiles(c, cfg, c.Bool("headers"))
	if err != nil {
		return err
	}

	a := inheritance.New(
		inheritance.WithIncludeDirs(cfg.Frontend.IncludeDirs...),
		inheritance.WithMaxIncludeDepth(cfg.Frontend.MaxIncludeDepth),
		inheritance.WithWorkers(cfg.Workers),
		inheritance.WithLogger(slog.Default()),
	)
	defer a.Close()

	analysis, err := withProgress(c.Context, "Classifying...", files, func(ctx context.Context) (*inheritance.Analysis, error) {
		return a.Analyze(ctx, files)
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(analysis)
}
