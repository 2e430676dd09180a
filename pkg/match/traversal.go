package match

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/cxxlens/pkg/ast"
)

type hasDescendant struct{ inner Matcher }

// HasDescendant matches a node if inner matches the node itself or any node
// below it. Candidates are tried in pre-order and the first success wins.
func HasDescendant(inner Matcher) Matcher { return &hasDescendant{inner: inner} }

func (m *hasDescendant) String() string      { return describe("hasDescendant", m.children()) }
func (m *hasDescendant) children() []Matcher { return []Matcher{m.inner} }

func (m *hasDescendant) matches(n *ast.Node, out Bindings) bool {
	for d := range n.Descendants() {
		if eval(m.inner, d, out) {
			return true
		}
	}
	return false
}

type hasEitherOperand struct{ inner Matcher }

// HasEitherOperand matches an operator if inner matches one of its direct
// operands, tried left to right.
func HasEitherOperand(inner Matcher) Matcher { return &hasEitherOperand{inner: inner} }

func (m *hasEitherOperand) String() string      { return describe("hasEitherOperand", m.children()) }
func (m *hasEitherOperand) children() []Matcher { return []Matcher{m.inner} }

func (m *hasEitherOperand) matches(n *ast.Node, out Bindings) bool {
	for _, op := range n.Operands() {
		if eval(m.inner, op, out) {
			return true
		}
	}
	return false
}

type operand struct {
	name string
	pick func(*ast.Node) *ast.Node
	m    Matcher
}

// HasLHS matches a binary operator whose left operand matches inner.
func HasLHS(inner Matcher) Matcher {
	return &operand{name: "hasLHS", pick: (*ast.Node).LHS, m: inner}
}

// HasRHS matches a binary operator whose right operand matches inner.
func HasRHS(inner Matcher) Matcher {
	return &operand{name: "hasRHS", pick: (*ast.Node).RHS, m: inner}
}

func (m *operand) String() string      { return describe(m.name, m.children()) }
func (m *operand) children() []Matcher { return []Matcher{m.m} }

func (m *operand) matches(n *ast.Node, out Bindings) bool {
	return eval(m.m, m.pick(n), out)
}

type to struct{ inner Matcher }

// To matches a reference expression whose resolved declaration matches
// inner. Unresolved references never match.
func To(inner Matcher) Matcher { return &to{inner: inner} }

func (m *to) String() string      { return describe("to", m.children()) }
func (m *to) children() []Matcher { return []Matcher{m.inner} }

func (m *to) matches(n *ast.Node, out Bindings) bool {
	return eval(m.inner, n.ResolvesTo(), out)
}

type hasBase struct{ inner Matcher }

// HasBase matches a record with a direct base, resolved inside the unit,
// that matches inner.
func HasBase(inner Matcher) Matcher { return &hasBase{inner: inner} }

func (m *hasBase) String() string      { return describe("hasDirectBase", m.children()) }
func (m *hasBase) children() []Matcher { return []Matcher{m.inner} }

func (m *hasBase) matches(n *ast.Node, out Bindings) bool {
	for _, base := range n.Unit().DirectBases(n) {
		if eval(m.inner, base, out) {
			return true
		}
	}
	return false
}

type isDerivedFrom struct{ inner Matcher }

// IsDerivedFrom matches a record with any direct or indirect base that
// matches inner. Nearer bases are tried first.
func IsDerivedFrom(inner Matcher) Matcher { return &isDerivedFrom{inner: inner} }

func (m *isDerivedFrom) String() string      { return describe("isDerivedFrom", m.children()) }
func (m *isDerivedFrom) children() []Matcher { return []Matcher{m.inner} }

func (m *isDerivedFrom) matches(n *ast.Node, out Bindings) bool {
	unit := n.Unit()
	visited := roaring.New()
	visited.Add(uint32(n.ID))
	queue := unit.DirectBases(n)
	for len(queue) > 0 {
		base := queue[0]
		queue = queue[1:]
		if !visited.CheckedAdd(uint32(base.ID)) {
			continue
		}
		if eval(m.inner, base, out) {
			return true
		}
		queue = append(queue, unit.DirectBases(base)...)
	}
	return false
}
