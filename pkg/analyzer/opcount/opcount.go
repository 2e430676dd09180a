// Package opcount counts floating-point operations and variable references
// in C and C++ translation units using the match engine.
package opcount

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/panbanda/cxxlens/internal/fileproc"
	"github.com/panbanda/cxxlens/pkg/analyzer"
	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/panbanda/cxxlens/pkg/ast/treesitter"
	"github.com/spf13/afero"
)

// Ensure Analyzer implements the analyzer contracts.
var (
	_ analyzer.FileAnalyzer[*Analysis] = (*Analyzer)(nil)
	_ analyzer.UnitAnalyzer[*Result]   = (*Analyzer)(nil)
)

// Analyzer counts operations in C++ files.
type Analyzer struct {
	fs              afero.Fs
	includeDirs     []string
	maxIncludeDepth int
	workers         int
	logger          *slog.Logger
	runOpts         []RunOption
	dumpNodes       bool
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithFS reads sources from fs instead of the OS file system.
func WithFS(fs afero.Fs) Option {
	return func(a *Analyzer) {
		a.fs = fs
	}
}

// WithIncludeDirs adds directories searched for quoted includes.
func WithIncludeDirs(dirs ...string) Option {
	return func(a *Analyzer) {
		a.includeDirs = append(a.includeDirs, dirs...)
	}
}

// WithMaxIncludeDepth limits how deep quoted includes are followed.
func WithMaxIncludeDepth(depth int) Option {
	return func(a *Analyzer) {
		a.maxIncludeDepth = depth
	}
}

// WithWorkers sets how many files are analyzed concurrently (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithLogger sets the analyzer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRunOptions applies opts to every file's counting run.
func WithRunOptions(opts ...RunOption) Option {
	return func(a *Analyzer) {
		a.runOpts = append(a.runOpts, opts...)
	}
}

// WithNodeDump records a structural dump of every counted node in each
// file's result.
func WithNodeDump(enabled bool) Option {
	return func(a *Analyzer) {
		a.dumpNodes = enabled
	}
}

// New creates a new operation counting analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		fs:              afero.NewOsFs(),
		maxIncludeDepth: treesitter.DefaultMaxIncludeDepth,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) newProvider() ast.Provider {
	return treesitter.New(
		treesitter.WithFS(a.fs),
		treesitter.WithIncludeDirs(a.includeDirs...),
		treesitter.WithMaxIncludeDepth(a.maxIncludeDepth),
		treesitter.WithLogger(a.logger),
	)
}

// AnalyzeUnit runs the counting queries over one unit.
func (a *Analyzer) AnalyzeUnit(ctx context.Context, unit *ast.Unit) (*Result, error) {
	if unit == nil {
		return nil, fmt.Errorf("nil translation unit")
	}

	opts := a.runOpts
	var dump bytes.Buffer
	if a.dumpNodes {
		opts = append(opts[:len(opts):len(opts)], WithDump(&dump))
	}

	counts, err := Run(ctx, unit, opts...)
	if err != nil {
		return nil, fmt.Errorf("count operations in %s: %w", unit.Path, err)
	}

	result := &Result{
		Path:   unit.Path,
		Flops:  counts.FlopsCount(),
		Memops: counts.MemopsCount(),
		Dump:   dump.String(),
	}
	if counts.Flops != nil {
		result.FlopsSites = counts.Flops.Sites
	}
	if counts.Memops != nil {
		result.MemopsSites = counts.Memops.Sites
	}
	a.logger.Debug("counted operations",
		"path", unit.Path,
		"flops", result.Flops,
		"memops", result.Memops)
	return result, nil
}

// Analyze parses every file as its own translation unit and counts each one
// independently. Files that fail to parse are logged and skipped; an error
// is returned only when no file could be analyzed.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	results, errs := fileproc.MapUnits(ctx, files, a.workers, a.newProvider,
		func(unit *ast.Unit) (*Result, error) {
			return a.AnalyzeUnit(ctx, unit)
		})

	if errs.HasErrors() {
		for _, e := range errs.Errors {
			a.logger.Warn("skipping file", "path", e.Path, "error", e.Err)
		}
		if len(results) == 0 {
			return nil, errs
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis := &Analysis{
		GeneratedAt: time.Now().UTC(),
		Files:       results,
	}
	analysis.CalculateSummary()
	return analysis, nil
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {}
