package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/cxxlens/internal/output"
	"github.com/panbanda/cxxlens/internal/progress"
	"github.com/panbanda/cxxlens/internal/scanner"
	"github.com/panbanda/cxxlens/pkg/config"
	"github.com/urfave/cli/v2"
)

var errNoFiles = errors.New("no source files found")

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// scanFiles expands the positional arguments into translation units.
func scanFiles(c *cli.Context, cfg *config.Config, headers bool) ([]string, error) {
	var opts []scanner.Option
	if headers {
		opts = append(opts, scanner.WithHeaders())
	}
	files, err := scanner.NewScanner(cfg, opts...).ScanPaths(getPaths(c))
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(files) == 0 {
		return nil, errNoFiles
	}
	return files, nil
}

// newFormatter creates the formatter selected by the global flags.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), !color.NoColor)
}

// withProgress runs fn with a progress bar on stderr when more than one
// file is analyzed.
func withProgress[T any](ctx context.Context, label string, files []string, fn func(context.Context) (T, error)) (T, error) {
	if len(files) < 2 {
		return fn(ctx)
	}

	bar := progress.NewBar(label, os.Stderr)
	result, err := fn(bar.Attach(ctx))
	if err != nil {
		bar.FinishError(err)
		return result, err
	}
	bar.FinishSuccess()
	return result, nil
}
