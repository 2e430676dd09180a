package opcount

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/panbanda/cxxlens/pkg/match"
)

// Query names one of the operation counting queries.
type Query string

const (
	// Flops counts binary operators with a floating-point variable
	// reference somewhere inside one of their operands.
	Flops Query = "flops"
	// Memops counts references to variables.
	Memops Query = "memops"
)

func (q Query) String() string { return string(q) }

// ParseQuery returns the query named name, ignoring case.
func ParseQuery(name string) (Query, error) {
	switch q := Query(strings.ToLower(strings.TrimSpace(name))); q {
	case Flops, Memops:
		return q, nil
	}
	return "", fmt.Errorf("unknown query %q, want flops or memops", name)
}

// ParseQueries parses names in order, dropping repeats.
func ParseQueries(names []string) ([]Query, error) {
	var queries []Query
	for _, name := range names {
		q, err := ParseQuery(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(queries, q) {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

// Enabled returns the queries switched on, in the default order.
func Enabled(flops, memops bool) []Query {
	var queries []Query
	if flops {
		queries = append(queries, Flops)
	}
	if memops {
		queries = append(queries, Memops)
	}
	return queries
}

// Bind keys used by the queries.
const (
	FlopsKey  = "float"
	MemopsKey = "reference"
)

// FlopsMatcher matches binary operators where either operand contains a
// reference to a variable of real floating-point type.
func FlopsMatcher() match.Matcher {
	return match.Bind(FlopsKey, match.BinaryOperator(
		match.HasEitherOperand(match.HasDescendant(
			match.DeclRefExpr(match.To(match.VarDecl(
				match.HasType(match.RealFloatingPointType()),
			))),
		)),
	))
}

// MemopsMatcher matches every reference to a variable.
func MemopsMatcher() match.Matcher {
	return match.Bind(MemopsKey, match.DeclRefExpr(match.To(match.VarDecl())))
}

// Site is the location of one counted match.
type Site struct {
	File   string `json:"file" toon:"file"`
	Line   int    `json:"line" toon:"line"`
	Column int    `json:"column" toon:"column"`
	Node   string `json:"node" toon:"node"`
}

// Counter is the callback of one query. It owns its count.
type Counter struct {
	Query Query
	Count int
	Sites []Site

	get  func(match.Bindings) *ast.Node
	dump io.Writer
}

var _ match.Callback = (*Counter)(nil)

// NewFlopsCounter creates the callback for FlopsMatcher. When dump is not
// nil every counted operator is dumped to it.
func NewFlopsCounter(dump io.Writer) *Counter {
	return &Counter{
		Query: Flops,
		get:   func(b match.Bindings) *ast.Node { return b.BinaryOperator(FlopsKey) },
		dump:  dump,
	}
}

// NewMemopsCounter creates the callback for MemopsMatcher.
func NewMemopsCounter(dump io.Writer) *Counter {
	return &Counter{
		Query: Memops,
		get:   func(b match.Bindings) *ast.Node { return b.DeclRef(MemopsKey) },
		dump:  dump,
	}
}

// Run counts the match when the query's binding is present.
func (c *Counter) Run(r *match.Result) {
	n := c.get(r.Nodes)
	if n == nil {
		return
	}
	c.Count++
	c.Sites = append(c.Sites, Site{
		File:   n.Pos.File,
		Line:   n.Pos.Line,
		Column: n.Pos.Column,
		Node:   n.Describe(),
	})
	if c.dump != nil {
		_ = ast.Dump(c.dump, n)
	}
}

// Reset zeroes the counter.
func (c *Counter) Reset() {
	c.Count = 0
	c.Sites = nil
}
