package opcount

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/panbanda/cxxlens/pkg/match"
)

type runConfig struct {
	queries     []Query
	separate    bool
	primaryOnly bool
	dump        io.Writer
}

// RunOption configures a single counting run.
type RunOption func(*runConfig)

// WithQueries selects which queries run, in the given order. The default is
// Flops then Memops.
func WithQueries(queries ...Query) RunOption {
	return func(c *runConfig) {
		c.queries = queries
	}
}

// WithSeparatePasses walks the unit once per query instead of evaluating
// every query during a single walk.
func WithSeparatePasses() RunOption {
	return func(c *runConfig) {
		c.separate = true
	}
}

// WithPrimaryFileOnly skips matches located in included headers.
func WithPrimaryFileOnly() RunOption {
	return func(c *runConfig) {
		c.primaryOnly = true
	}
}

// WithDump dumps every counted node to w.
func WithDump(w io.Writer) RunOption {
	return func(c *runConfig) {
		c.dump = w
	}
}

// Counts holds the counters of one run.
type Counts struct {
	Flops  *Counter
	Memops *Counter
}

// Run evaluates the selected queries over unit and returns their counters.
// Each query's callbacks arrive in traversal order whether the queries share
// one walk or not. Dumps are buffered per query and written query by query
// once every walk is done.
func Run(ctx context.Context, unit *ast.Unit, opts ...RunOption) (*Counts, error) {
	cfg := runConfig{queries: []Query{Flops, Memops}}
	for _, opt := range opts {
		opt(&cfg)
	}

	counts := &Counts{}
	var dumps []*bytes.Buffer
	dumpTo := func() io.Writer {
		if cfg.dump == nil {
			return nil
		}
		buf := &bytes.Buffer{}
		dumps = append(dumps, buf)
		return buf
	}
	var finders []*match.Finder
	finder := match.NewFinder()
	for _, q := range cfg.queries {
		var m match.Matcher
		var c *Counter
		switch q {
		case Flops:
			if counts.Flops != nil {
				continue
			}
			m, c = FlopsMatcher(), NewFlopsCounter(dumpTo())
			counts.Flops = c
		case Memops:
			if counts.Memops != nil {
				continue
			}
			m, c = MemopsMatcher(), NewMemopsCounter(dumpTo())
			counts.Memops = c
		default:
			return nil, fmt.Errorf("unknown query %q", q)
		}
		if cfg.primaryOnly {
			m = match.AllOf(match.IsInPrimaryFile(), m)
		}
		if cfg.separate {
			finder = match.NewFinder()
		}
		if err := finder.AddMatcher(m, c); err != nil {
			return nil, err
		}
		if cfg.separate || len(finders) == 0 {
			finders = append(finders, finder)
		}
	}

	for _, f := range finders {
		if err := f.Match(ctx, unit); err != nil {
			return nil, err
		}
	}
	for _, buf := range dumps {
		if _, err := buf.WriteTo(cfg.dump); err != nil {
			return nil, fmt.Errorf("write dump: %w", err)
		}
	}
	return counts, nil
}

// FlopsCount returns the flops count, 0 when the query did not run.
func (c *Counts) FlopsCount() int {
	if c == nil || c.Flops == nil {
		return 0
	}
	return c.Flops.Count
}

// MemopsCount returns the memops count, 0 when the query did not run.
func (c *Counts) MemopsCount() int {
	if c == nil || c.Memops == nil {
		return 0
	}
	return c.Memops.Count
}
