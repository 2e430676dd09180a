package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(u *Unit, name, file string, line int, bases ...*Node) *Node {
	r := u.NewNode(KindRecord, Position{File: file, Line: line, Column: 1})
	r.Name = name
	r.TagKind = "class"
	for _, b := range bases {
		spec := BaseSpec{Name: "external", Access: "public", Target: NoNode}
		if b != nil {
			spec.Name = b.Name
			spec.Target = b.ID
		}
		r.Bases = append(r.Bases, spec)
	}
	u.Root.Children = append(u.Root.Children, r)
	return r
}

func TestIsDerivedFrom(t *testing.T) {
	u := NewUnit("main.cpp", LangCPP)
	a := newRecord(u, "A", "main.cpp", 1)
	b := newRecord(u, "B", "main.cpp", 2, a)
	c := newRecord(u, "C", "main.cpp", 3, b)
	d := newRecord(u, "D", "main.cpp", 4, nil)

	tests := []struct {
		name string
		d, p *Node
		want bool
	}{
		{"direct", b, a, true},
		{"transitive", c, a, true},
		{"reverse", a, b, false},
		{"self", a, a, false},
		{"external only", d, a, false},
		{"nil derived", nil, a, false},
		{"nil parent", a, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.IsDerivedFrom(tt.d, tt.p))
		})
	}
}

func TestIsDerivedFromCycle(t *testing.T) {
	u := NewUnit("main.cpp", LangCPP)
	x := newRecord(u, "X", "main.cpp", 1)
	y := newRecord(u, "Y", "main.cpp", 2, x)
	x.Bases = append(x.Bases, BaseSpec{Name: "Y", Target: y.ID})
	z := newRecord(u, "Z", "main.cpp", 3)

	assert.True(t, u.IsDerivedFrom(x, y))
	assert.True(t, u.IsDerivedFrom(y, x))
	assert.False(t, u.IsDerivedFrom(x, z), "cyclic chain must terminate")
	assert.False(t, u.IsDerivedFrom(x, x))
}

func TestIsDerivedFromNonRecord(t *testing.T) {
	u := NewUnit("main.cpp", LangCPP)
	a := newRecord(u, "A", "main.cpp", 1)
	v := u.NewNode(KindVar, Position{File: "main.cpp", Line: 2, Column: 1})
	assert.False(t, u.IsDerivedFrom(v, a))
	assert.False(t, u.IsDerivedFrom(a, v))
}

func TestIsInPrimaryFile(t *testing.T) {
	u := NewUnit("main.cpp", LangCPP)
	assert.True(t, u.IsInPrimaryFile(Position{File: "main.cpp", Line: 3, Column: 1}))
	assert.False(t, u.IsInPrimaryFile(Position{File: "base.h", Line: 3, Column: 1}))
	assert.False(t, u.IsInPrimaryFile(Position{}))

	var nilUnit *Unit
	assert.False(t, nilUnit.IsInPrimaryFile(Position{File: "main.cpp", Line: 1}))
}

func TestAccessorsOnWrongKind(t *testing.T) {
	u := NewUnit("main.cpp", LangCPP)
	v := u.NewNode(KindVar, Position{File: "main.cpp", Line: 1, Column: 1})
	v.Type = &Type{Spelling: "double", Category: TypeFloating}

	assert.Nil(t, v.Operands())
	assert.Nil(t, v.ResolvesTo())
	assert.Nil(t, v.LHS())
	assert.Equal(t, 0, v.BaseCount())
	assert.True(t, v.DeclaredType().IsFloatingPoint())

	ref := u.NewNode(KindDeclRef, Position{File: "main.cpp", Line: 2, Column: 1})
	ref.Name = "v"
	assert.Nil(t, ref.ResolvesTo(), "unresolved reference has no target")
	ref.Target = v.ID
	assert.Same(t, v, ref.ResolvesTo())
	assert.Same(t, v, u.ResolvesTo(ref))
	assert.Nil(t, ref.DeclaredType())

	var nilNode *Node
	assert.Nil(t, nilNode.Operands())
	assert.Nil(t, nilNode.ResolvesTo())
	assert.False(t, nilNode.IsVariable())
}

func TestTypeIsFloatingPoint(t *testing.T) {
	var nilType *Type
	assert.False(t, nilType.IsFloatingPoint())
	assert.True(t, (&Type{Spelling: "long double", Category: TypeFloating}).IsFloatingPoint())
	assert.False(t, (&Type{Spelling: "double *", Category: TypePointer}).IsFloatingPoint())
}

func TestDescendantsStopsEarly(t *testing.T) {
	u := NewUnit("main.cpp", LangCPP)
	for i := range 5 {
		newRecord(u, string(rune('A'+i)), "main.cpp", i+1)
	}

	var seen []string
	for n := range u.Root.Descendants() {
		if n.Kind == KindRecord {
			seen = append(seen, n.Name)
			if n.Name == "B" {
				break
			}
		}
	}
	assert.Equal(t, []string{"A", "B"}, seen)
}

func TestWalkPreOrder(t *testing.T) {
	u := NewUnit("main.cpp", LangCPP)
	ns := u.NewNode(KindNamespace, Position{File: "main.cpp", Line: 1, Column: 1})
	ns.Name = "geo"
	u.Root.Children = append(u.Root.Children, ns)
	inner := u.NewNode(KindRecord, Position{File: "main.cpp", Line: 2, Column: 1})
	inner.Name = "Inner"
	ns.Children = append(ns.Children, inner)
	newRecord(u, "Outer", "main.cpp", 5)

	var order []string
	Walk(u.Root, func(n *Node) bool {
		if n.Kind == KindRecord {
			order = append(order, n.Name)
		}
		return true
	})
	assert.Equal(t, []string{"Inner", "Outer"}, order)
	assert.Len(t, FindByKind(u.Root, KindRecord), 2)
}

func TestDump(t *testing.T) {
	u := NewUnit("main.cpp", LangCPP)
	d := u.NewNode(KindVar, Position{File: "main.cpp", Line: 1, Column: 8})
	d.Name = "d"
	d.Type = &Type{Spelling: "double", Category: TypeFloating}

	op := u.NewNode(KindBinaryOperator, Position{File: "main.cpp", Line: 2, Column: 11})
	op.Operator = "+"
	lhs := u.NewNode(KindDeclRef, Position{File: "main.cpp", Line: 2, Column: 11})
	lhs.Name = "d"
	lhs.Target = d.ID
	rhs := u.NewNode(KindLiteral, Position{File: "main.cpp", Line: 2, Column: 15})
	rhs.Text = "1"
	op.Children = []*Node{lhs, rhs}

	out := DumpString(op)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "BinaryOperator <line:2:11> '+'", lines[0])
	assert.Equal(t, "|-DeclRefExpr <line:2:11> 'd' -> VarDecl 'double'", lines[1])
	assert.Equal(t, "`-Literal <line:2:15> 1", lines[2])
}
