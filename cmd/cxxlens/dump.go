package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/panbanda/cxxlens/pkg/ast/treesitter"
	"github.com/urfave/cli/v2"
)

func dumpCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the structural AST of a translation unit",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "primary-only",
				Usage: "Only dump top-level declarations of the file itself, not of included headers",
			},
		},
		Action: runDumpCmd,
	}
}

func runDumpCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("dump takes exactly one file")
	}
	cfg := getConfig(c)

	p := treesitter.New(
		treesitter.WithIncludeDirs(cfg.Frontend.IncludeDirs...),
		treesitter.WithMaxIncludeDepth(cfg.Frontend.MaxIncludeDepth),
		treesitter.WithLogger(slog.Default()),
	)
	defer p.Close()

	unit, err := p.ParseFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()
	w := formatter.Writer()

	if !c.Bool("primary-only") {
		return ast.Dump(w, unit.Root)
	}
	for _, child := range unit.Root.Children {
		if !unit.IsInPrimaryFile(child.Pos) {
			continue
		}
		if err := ast.Dump(w, child); err != nil {
			return err
		}
	}
	return nil
}
