package match

import (
	"fmt"

	"github.com/panbanda/cxxlens/pkg/ast"
)

type allOfMatcher struct{ inner []Matcher }

// AllOf matches when every inner matcher matches the same node.
func AllOf(inner ...Matcher) Matcher { return &allOfMatcher{inner: inner} }

func (m *allOfMatcher) String() string      { return describe("allOf", m.inner) }
func (m *allOfMatcher) children() []Matcher { return m.inner }

func (m *allOfMatcher) matches(n *ast.Node, out Bindings) bool {
	return allOf(m.inner, n, out)
}

type anyOfMatcher struct{ inner []Matcher }

// AnyOf matches when one inner matcher matches. Only the bindings of the
// first matching alternative are kept.
func AnyOf(inner ...Matcher) Matcher { return &anyOfMatcher{inner: inner} }

func (m *anyOfMatcher) String() string      { return describe("anyOf", m.inner) }
func (m *anyOfMatcher) children() []Matcher { return m.inner }

func (m *anyOfMatcher) matches(n *ast.Node, out Bindings) bool {
	for _, alt := range m.inner {
		if eval(alt, n, out) {
			return true
		}
	}
	return false
}

type unless struct{ inner Matcher }

// Unless matches when inner does not. It never binds.
func Unless(inner Matcher) Matcher { return &unless{inner: inner} }

func (m *unless) String() string      { return describe("unless", m.children()) }
func (m *unless) children() []Matcher { return []Matcher{m.inner} }

func (m *unless) matches(n *ast.Node, _ Bindings) bool {
	if m.inner == nil {
		return false
	}
	return !eval(m.inner, n, Bindings{})
}

type bound struct {
	key   string
	inner Matcher
}

// Bind records the node matched by inner under key.
func Bind(key string, inner Matcher) Matcher {
	return &bound{key: key, inner: inner}
}

func (m *bound) String() string {
	if m.inner == nil {
		return fmt.Sprintf("<nil>.bind(%q)", m.key)
	}
	return fmt.Sprintf("%s.bind(%q)", m.inner.String(), m.key)
}

func (m *bound) children() []Matcher { return []Matcher{m.inner} }

func (m *bound) matches(n *ast.Node, out Bindings) bool {
	if !eval(m.inner, n, out) {
		return false
	}
	out[m.key] = n
	return true
}
