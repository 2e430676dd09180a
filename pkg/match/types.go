package match

import (
	"fmt"

	"github.com/panbanda/cxxlens/pkg/ast"
)

// TypeMatcher tests a type descriptor.
type TypeMatcher interface {
	String() string
	matchesType(t *ast.Type) bool
}

type typePredicate struct {
	desc string
	test func(*ast.Type) bool
}

func (p *typePredicate) String() string               { return p.desc }
func (p *typePredicate) matchesType(t *ast.Type) bool { return t != nil && p.test(t) }

// RealFloatingPointType matches float, double and long double, including
// aliases of them. Pointers, references and arrays do not match.
func RealFloatingPointType() TypeMatcher {
	return &typePredicate{
		desc: "realFloatingPointType()",
		test: (*ast.Type).IsFloatingPoint,
	}
}

// IsInteger matches integral types.
func IsInteger() TypeMatcher {
	return &typePredicate{
		desc: "isInteger()",
		test: func(t *ast.Type) bool { return t.Category == ast.TypeIntegral },
	}
}

// PointerType matches pointer types.
func PointerType() TypeMatcher {
	return &typePredicate{
		desc: "pointerType()",
		test: func(t *ast.Type) bool { return t.Category == ast.TypePointer },
	}
}

// AsString matches types spelled exactly s.
func AsString(s string) TypeMatcher {
	return &typePredicate{
		desc: fmt.Sprintf("asString(%q)", s),
		test: func(t *ast.Type) bool { return t.Spelling == s },
	}
}

// hasType matches declarations, and references to declarations, whose
// declared type satisfies a type matcher.
type hasType struct {
	inner TypeMatcher
}

// HasType matches value declarations whose declared type satisfies tm.
// On a reference expression the referenced declaration's type is tested.
func HasType(tm TypeMatcher) Matcher {
	return &hasType{inner: tm}
}

func (m *hasType) String() string {
	if m.inner == nil {
		return "hasType(<nil>)"
	}
	return "hasType(" + m.inner.String() + ")"
}

func (m *hasType) children() []Matcher { return nil }

func (m *hasType) matches(n *ast.Node, _ Bindings) bool {
	if m.inner == nil {
		return false
	}
	if target := n.ResolvesTo(); target != nil {
		n = target
	}
	return m.inner.matchesType(n.DeclaredType())
}
