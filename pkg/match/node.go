package match

import (
	"fmt"
	"slices"
	"strings"

	"github.com/panbanda/cxxlens/pkg/ast"
)

// kindMatcher matches nodes of the given kinds that satisfy every inner
// matcher.
type kindMatcher struct {
	name  string
	kinds []ast.Kind
	inner []Matcher
}

func (m *kindMatcher) String() string      { return describe(m.name, m.inner) }
func (m *kindMatcher) children() []Matcher { return m.inner }

func (m *kindMatcher) matches(n *ast.Node, out Bindings) bool {
	if !slices.Contains(m.kinds, n.Kind) {
		return false
	}
	return allOf(m.inner, n, out)
}

func allOf(ms []Matcher, n *ast.Node, out Bindings) bool {
	scratch := Bindings{}
	for _, m := range ms {
		if !eval(m, n, scratch) {
			return false
		}
	}
	for k, v := range scratch {
		out[k] = v
	}
	return true
}

// BinaryOperator matches binary, assignment and compound assignment
// expressions satisfying every inner matcher.
func BinaryOperator(inner ...Matcher) Matcher {
	return &kindMatcher{name: "binaryOperator", kinds: []ast.Kind{ast.KindBinaryOperator}, inner: inner}
}

// UnaryOperator matches unary and increment/decrement expressions.
func UnaryOperator(inner ...Matcher) Matcher {
	return &kindMatcher{name: "unaryOperator", kinds: []ast.Kind{ast.KindUnaryOperator}, inner: inner}
}

// DeclRefExpr matches references to variables and functions by name.
// Accesses to non-static data members are member expressions and do not
// match.
func DeclRefExpr(inner ...Matcher) Matcher {
	return &kindMatcher{name: "declRefExpr", kinds: []ast.Kind{ast.KindDeclRef}, inner: inner}
}

// MemberExpr matches data member accesses, implicit or through . and ->.
func MemberExpr(inner ...Matcher) Matcher {
	return &kindMatcher{name: "memberExpr", kinds: []ast.Kind{ast.KindMemberRef}, inner: inner}
}

// CallExpr matches function calls.
func CallExpr(inner ...Matcher) Matcher {
	return &kindMatcher{name: "callExpr", kinds: []ast.Kind{ast.KindCall}, inner: inner}
}

// VarDecl matches variable declarations, including function parameters.
func VarDecl(inner ...Matcher) Matcher {
	return &kindMatcher{name: "varDecl", kinds: []ast.Kind{ast.KindVar, ast.KindParam}, inner: inner}
}

// ParmVarDecl matches function parameters.
func ParmVarDecl(inner ...Matcher) Matcher {
	return &kindMatcher{name: "parmVarDecl", kinds: []ast.Kind{ast.KindParam}, inner: inner}
}

// FieldDecl matches non-static data members.
func FieldDecl(inner ...Matcher) Matcher {
	return &kindMatcher{name: "fieldDecl", kinds: []ast.Kind{ast.KindField}, inner: inner}
}

// FunctionDecl matches function declarations and definitions.
func FunctionDecl(inner ...Matcher) Matcher {
	return &kindMatcher{name: "functionDecl", kinds: []ast.Kind{ast.KindFunction}, inner: inner}
}

// RecordDecl matches class, struct and union definitions.
func RecordDecl(inner ...Matcher) Matcher {
	return &kindMatcher{name: "recordDecl", kinds: []ast.Kind{ast.KindRecord}, inner: inner}
}

var exprKinds = []ast.Kind{
	ast.KindBinaryOperator,
	ast.KindUnaryOperator,
	ast.KindDeclRef,
	ast.KindMemberRef,
	ast.KindCall,
	ast.KindLiteral,
	ast.KindExpr,
}

// Expr matches any expression.
func Expr(inner ...Matcher) Matcher {
	return &kindMatcher{name: "expr", kinds: exprKinds, inner: inner}
}

// predicate is a leaf matcher testing one property of a node.
type predicate struct {
	desc string
	test func(*ast.Node) bool
}

func (p *predicate) String() string                       { return p.desc }
func (p *predicate) children() []Matcher                  { return nil }
func (p *predicate) matches(n *ast.Node, _ Bindings) bool { return p.test(n) }

// HasName matches declarations and references whose name is name, or whose
// qualified name ends in "::name".
func HasName(name string) Matcher {
	return &predicate{
		desc: fmt.Sprintf("hasName(%q)", name),
		test: func(n *ast.Node) bool {
			switch n.Kind {
			case ast.KindLiteral, ast.KindStmt, ast.KindTranslationUnit:
				return false
			}
			return n.Name == name || strings.HasSuffix(n.Name, "::"+name)
		},
	}
}

// HasOperatorName matches operators spelled op.
func HasOperatorName(op string) Matcher {
	return &predicate{
		desc: fmt.Sprintf("hasOperatorName(%q)", op),
		test: func(n *ast.Node) bool {
			switch n.Kind {
			case ast.KindBinaryOperator, ast.KindUnaryOperator:
				return n.Operator == op
			}
			return false
		},
	}
}

// IsInPrimaryFile matches nodes located in their unit's primary file.
func IsInPrimaryFile() Matcher {
	return &predicate{
		desc: "isExpansionInMainFile()",
		test: func(n *ast.Node) bool {
			return n.Unit().IsInPrimaryFile(n.Pos)
		},
	}
}
