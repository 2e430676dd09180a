// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/panbanda/cxxlens/pkg/analyzer"
	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *ProcessingErrors) Unwrap() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}
	return errs
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed I/O and CGO workloads.
const DefaultWorkerMultiplier = 2

// ProviderFactory creates the front end owned by one worker. Providers are
// never shared between goroutines.
type ProviderFactory func() ast.Provider

// MapUnits parses every file into its own translation unit and calls fn on
// it, in parallel. Each worker owns one provider for its lifetime. Results
// are returned in input order, skipping files that failed.
// Progress is tracked via context using analyzer.WithTracker.
// If maxWorkers is <= 0, defaults to 2x NumCPU.
func MapUnits[T any](
	ctx context.Context,
	files []string,
	maxWorkers int,
	newProvider ProviderFactory,
	fn func(*ast.Unit) (T, error),
) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}
	maxWorkers = min(maxWorkers, len(files))

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(files))
	}

	providers := make(chan ast.Provider, maxWorkers)
	for range maxWorkers {
		providers <- newProvider()
	}

	results := make([]T, len(files))
	done := make([]bool, len(files))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			var fileErr error
			defer func() {
				if fileErr != nil {
					errs.Add(path, fileErr)
				}
				if tracker != nil {
					tracker.Finish(path, fileErr)
				}
			}()

			select {
			case <-ctx.Done():
				fileErr = ctx.Err()
				return fileErr
			default:
			}

			provider := <-providers
			defer func() { providers <- provider }()

			unit, err := provider.ParseFile(path)
			if err != nil {
				fileErr = err
				return nil // Don't stop pool on individual file errors
			}

			result, err := fn(unit)
			if err != nil {
				fileErr = err
				return nil
			}

			results[i] = result
			done[i] = true
			return nil
		})
	}
	_ = p.Wait() // Context errors are already captured in errs

	close(providers)
	for provider := range providers {
		provider.Close()
	}

	out := make([]T, 0, len(files))
	for i, ok := range done {
		if ok {
			out = append(out, results[i])
		}
	}

	if !errs.HasErrors() {
		return out, nil
	}
	return out, errs
}
