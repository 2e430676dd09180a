package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/panbanda/cxxlens/pkg/analyzer/opcount"
	"github.com/urfave/cli/v2"
)

func opsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ops",
		Aliases:   []string{"matchers"},
		Usage:     "Count floating-point operations and variable references",
		ArgsUsage: "[file or directory...]",
		Description: `Runs two AST matcher queries over every translation unit:

  flops   binary operators with an operand that references a variable of
          float, double or long double type
  memops  references to variables and parameters

Both queries share one walk of the tree unless --separate-passes is set.
Code in included headers is counted unless --primary-only is set.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Query to run: flops or memops (repeatable, default from config)",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "Dump every counted node before the totals",
			},
			&cli.BoolFlag{
				Name:  "separate-passes",
				Usage: "Walk each translation unit once per query",
			},
			&cli.BoolFlag{
				Name:  "primary-only",
				Usage: "Skip matches located in included headers",
			},
			&cli.BoolFlag{
				Name:  "headers",
				Usage: "Also analyze header files found in directories",
			},
		},
		Action: runOpsCmd,
	}
}

func runOpsCmd(c *cli.Context) error {
	cfg := getConfig(c)

	queries := opcount.Enabled(cfg.Queries.Flops, cfg.Queries.Memops)
	if names := c.StringSlice("query"); len(names) > 0 {
		var err error
		if queries, err = opcount.ParseQueries(names); err != nil {
			return err
		}
	}
	if len(queries) == 0 {
		return errors.New("no queries enabled")
	}

	files, err := scanFiles(c, cfg, c.Bool("headers"))
	if err != nil {
		return err
	}

	runOpts := []opcount.RunOption{opcount.WithQueries(queries...)}
	if c.Bool("separate-passes") || cfg.Queries.SeparatePasses {
		runOpts = append(runOpts, opcount.WithSeparatePasses())
	}
	if c.Bool("primary-only") || cfg.Queries.PrimaryFileOnly {
		runOpts = append(runOpts, opcount.WithPrimaryFileOnly())
	}

	a := opcount.New(
		opcount.WithIncludeDirs(cfg.Frontend.IncludeDirs...),
		opcount.WithMaxIncludeDepth(cfg.Frontend.MaxIncludeDepth),
		opcount.WithWorkers(cfg.Workers),
		opcount.WithLogger(slog.Default()),
		opcount.WithRunOptions(runOpts...),
		opcount.WithNodeDump(c.Bool("dump") || cfg.Queries.Dump),
	)
	defer a.Close()

	analysis, err := withProgress(c.Context, "Counting...", files, func(ctx context.Context) (*opcount.Analysis, error) {
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
