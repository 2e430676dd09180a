// Package inheritance collects the class-like declarations of a translation
// unit's primary file and classifies where each one's bases live.
package inheritance

import (
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

// Analyzer runs the collector and classifier over C++ files.
type Analyzer struct {
	fs              afero.Fs
	includeDirs     []string
	maxIncludeDepth int
	workers         int
	logger          *slog.Logger
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

// WithLogger sets the logger used for discovery notices.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates a new inheritance analyzer.
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

// AnalyzeUnit collects and classifies the declarations of one unit.
func (a *Analyzer) AnalyzeUnit(_ context.Context, unit *ast.Unit) (*Result, error) {
	if unit == nil {
		return nil, fmt.Errorf("nil translation unit")
	}

	set := Collect(unit, WithDiscovery(func(n *ast.Node) {
		a.logger.Debug("found class declaration",
			"name", n.Name,
			"line", n.Pos.Line,
			"column", n.Pos.Column)
	}))

	result := &Result{
		Path:            unit.Path,
		Classifications: Classify(unit, set),
		Hierarchy:       NewHierarchy(unit, set),
	}
	result.Classes = make([]ClassInfo, 0, len(result.Classifications))
	for _, c := range result.Classifications {
		result.Classes = append(result.Classes, newClassInfo(c))
	}
	return result, nil
}

// Analyze parses every file as its own translation unit and classifies
// each one independently. Files that fail to parse are logged and skipped;
// an error is returned only when no file could be analyzed.
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
