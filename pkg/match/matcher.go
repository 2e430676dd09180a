// Package match is a declarative matcher library over ast nodes.
//
// Matchers are immutable trees built once from the constructors in this
// package and evaluated against candidate nodes:
//
//	m := match.Bind("op", match.BinaryOperator(
//	    match.HasOperatorName("*"),
//	    match.HasEitherOperand(match.DeclRefExpr(match.To(match.VarDecl()))),
//	))
//
//	finder := match.NewFinder()
//	_ = finder.AddMatcher(m, match.CallbackFunc(func(r *match.Result) {
//	    fmt.Println(r.Nodes.Node("op").Pos)
//	}))
//	_ = finder.Match(ctx, unit)
//
// Evaluating a matcher against a node of the wrong kind, or against nil,
// fails without error. Bindings made inside a branch that ultimately fails
// are discarded.
package match

import (
	"slices"
	"strings"

	"github.com/panbanda/cxxlens/pkg/ast"
)

// Matcher tests one node. The set of matchers is closed: values are built
// only by this package's constructors.
type Matcher interface {
	// String describes the matcher in clang AST matcher syntax.
	String() string

	matches(n *ast.Node, out Bindings) bool
	children() []Matcher
}

// Bindings maps bind keys to the nodes that satisfied the bound matchers.
type Bindings map[string]*ast.Node

// Node returns the node bound to key, or nil.
func (b Bindings) Node(key string) *ast.Node {
	return b[key]
}

// BinaryOperator returns the node bound to key if it is a binary operator.
func (b Bindings) BinaryOperator(key string) *ast.Node {
	return b.ofKind(key, ast.KindBinaryOperator)
}

// DeclRef returns the node bound to key if it is a variable or function
// reference.
func (b Bindings) DeclRef(key string) *ast.Node {
	return b.ofKind(key, ast.KindDeclRef)
}

// Record returns the node bound to key if it is a record declaration.
func (b Bindings) Record(key string) *ast.Node {
	return b.ofKind(key, ast.KindRecord)
}

func (b Bindings) ofKind(key string, kind ast.Kind) *ast.Node {
	if n := b[key]; n != nil && n.Kind == kind {
		return n
	}
	return nil
}

// Keys returns the bound keys in sorted order.
func (b Bindings) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// eval evaluates m against n and merges its bindings into out only when it
// succeeds.
func eval(m Matcher, n *ast.Node, out Bindings) bool {
	if m == nil || n == nil {
		return false
	}
	scratch := Bindings{}
	if !m.matches(n, scratch) {
		return false
	}
	for k, v := range scratch {
		out[k] = v
	}
	return true
}

// Matches evaluates m against n and returns the bindings of a successful
// match.
func Matches(m Matcher, n *ast.Node) (Bindings, bool) {
	out := Bindings{}
	if !eval(m, n, out) {
		return nil, false
	}
	return out, true
}

func describe(name string, inner []Matcher) string {
	parts := make([]string, len(inner))
	for i, m := range inner {
		if m == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = m.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
