// Package analyzer defines the contracts shared by the cxxlens analyzers.
package analyzer

import (
	"context"

	"github.com/panbanda/cxxlens/pkg/ast"
)

// FileAnalyzer is the interface that all file-based analyzers must implement.
// It provides a standard way to analyze collections of files with context support.
type FileAnalyzer[T any] interface {
	// Analyze parses each file as its own translation unit and returns the
	// combined analysis result.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}

// UnitAnalyzer analyzes one already-built translation unit. Implementations
// keep no state between calls.
type UnitAnalyzer[T any] interface {
	AnalyzeUnit(ctx context.Context, unit *ast.Unit) (T, error)
}
