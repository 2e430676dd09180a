package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/panbanda/cxxlens/pkg/ast"
)

var (
	// ErrNilMatcher is returned when a nil matcher is registered or nested.
	ErrNilMatcher = errors.New("nil matcher")

	// ErrDuplicateBinding is returned when a matcher tree binds one key twice.
	ErrDuplicateBinding = errors.New("duplicate bind key")

	// ErrNilCallback is returned when a matcher is registered without a callback.
	ErrNilCallback = errors.New("nil callback")
)

// Result is passed to a callback for every successful match.
type Result struct {
	Nodes Bindings
	Unit  *ast.Unit
}

// Callback receives match results.
type Callback interface {
	Run(r *Result)
}

// CallbackFunc adapts a function to Callback.
type CallbackFunc func(r *Result)

// Run calls f(r).
func (f CallbackFunc) Run(r *Result) { f(r) }

type entry struct {
	m  Matcher
	cb Callback
}

// Finder runs registered matchers over every node of a unit.
type Finder struct {
	entries []entry
}

// NewFinder creates an empty finder.
func NewFinder() *Finder {
	return &Finder{}
}

// Validate checks that a matcher tree has no nil nodes and binds every key
// at most once.
func Validate(m Matcher) error {
	return validate(m, make(map[string]struct{}))
}

func validate(m Matcher, seen map[string]struct{}) error {
	if m == nil {
		return ErrNilMatcher
	}
	if b, ok := m.(*bound); ok {
		if _, dup := seen[b.key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateBinding, b.key)
		}
		seen[b.key] = struct{}{}
	}
	if h, ok := m.(*hasType); ok && h.inner == nil {
		return ErrNilMatcher
	}
	for _, c := range m.children() {
		if err := validate(c, seen); err != nil {
			return err
		}
	}
	return nil
}

// AddMatcher registers m with the callback to invoke for each node it
// matches. Matchers run in registration order.
func (f *Finder) AddMatcher(m Matcher, cb Callback) error {
	if err := Validate(m); err != nil {
		return fmt.Errorf("add matcher: %w", err)
	}
	if cb == nil {
		return fmt.Errorf("add matcher %s: %w", m, ErrNilCallback)
	}
	f.entries = append(f.entries, entry{m: m, cb: cb})
	return nil
}

// Len returns the number of registered matchers.
func (f *Finder) Len() int {
	return len(f.entries)
}

// Match walks the whole unit.
func (f *Finder) Match(ctx context.Context, unit *ast.Unit) error {
	if unit == nil {
		return nil
	}
	return f.MatchNode(ctx, unit, unit.Root)
}

// MatchNode walks the subtree rooted at root in pre-order. For each node
// every matcher is evaluated in registration order. A cancelled context
// stops the walk.
func (f *Finder) MatchNode(ctx context.Context, unit *ast.Unit, root *ast.Node) error {
	if root == nil || len(f.entries) == 0 {
		return nil
	}
	for n := range root.Descendants() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, e := range f.entries {
			if nodes, ok := Matches(e.m, n); ok {
				e.cb.Run(&Result{Nodes: nodes, Unit: unit})
			}
		}
	}
	return nil
}
