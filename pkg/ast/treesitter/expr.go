package treesitter

import (
	"github.com/panbanda/cxxlens/pkg/ast"
	sitter "github.com/smacker/go-tree-sitter"
)

// Syntax that never contributes expression nodes.
var nonExpressions = map[string]bool{
	"comment":                    true,
	"type_descriptor":            true,
	"primitive_type":             true,
	"type_identifier":            true,
	"sized_type_specifier":       true,
	"template_argument_list":     true,
	"namespace_identifier":       true,
	"statement_identifier":       true,
	"field_identifier":           true,
	"type_qualifier":             true,
	"storage_class_specifier":    true,
	"placeholder_type_specifier": true,
	"auto":                       true,
	"lambda_default_capture":     true,
	"virtual_specifier":          true,
	"attribute_specifier":        true,
	"attribute_declaration":      true,
	"ms_declspec_modifier":       true,
	"escape_sequence":            true,
}

var literals = map[string]bool{
	"number_literal":       true,
	"string_literal":       true,
	"raw_string_literal":   true,
	"concatenated_string":  true,
	"char_literal":         true,
	"user_defined_literal": true,
	"true":                 true,
	"false":                true,
	"null":                 true,
	"nullptr":              true,
}

// expr lowers an expression. It returns nil for syntax that only names
// types.
func (b *builder) expr(n *sitter.Node, f *sourceFile, sc *scope) *ast.Node {
	if n == nil || !n.IsNamed() {
		return nil
	}

	t := n.Type()
	if nonExpressions[t] {
		return nil
	}
	if literals[t] {
		node := b.newNode(ast.KindLiteral, n, f)
		node.Text = f.text(n)
		return node
	}

	switch t {
	case "binary_expression", "assignment_expression", "comma_expression":
		node := b.newNode(ast.KindBinaryOperator, n, f)
		node.Operator = ","
		if op := n.ChildByFieldName("operator"); op != nil {
			node.Operator = op.Type()
		}
		left := b.expr(n.ChildByFieldName("left"), f, sc)
		if b.isStreamOperator(node.Operator, left) {
			node.Kind = ast.KindCall
			node.Syntax = "operator_call"
		}
		appendChild(node, left)
		appendChild(node, b.expr(n.ChildByFieldName("right"), f, sc))
		return node

	case "unary_expression", "pointer_expression", "update_expression":
		node := b.newNode(ast.KindUnaryOperator, n, f)
		if op := n.ChildByFieldName("operator"); op != nil {
			node.Operator = op.Type()
		}
		appendChild(node, b.expr(n.ChildByFieldName("argument"), f, sc))
		return node

	case "identifier":
		return b.reference(n, f, sc, false)

	case "qualified_identifier":
		return b.reference(n, f, sc, true)

	case "field_expression":
		node := b.newNode(ast.KindMemberRef, n, f)
		node.Name = f.text(n.ChildByFieldName("field"))
		appendChild(node, b.expr(n.ChildByFieldName("argument"), f, sc))
		return node

	case "call_expression":
		node := b.newNode(ast.KindCall, n, f)
		appendChild(node, b.expr(n.ChildByFieldName("function"), f, sc))
		if args := n.ChildByFieldName("arguments"); args != nil {
			for _, arg := range namedChildren(args) {
				appendChild(node, b.expr(arg, f, sc))
			}
		}
		return node

	case "lambda_expression":
		return b.lambda(n, f, sc)

	case "compound_statement":
		holder := b.newNode(ast.KindExpr, n, f)
		holder.Syntax = "statement_expression"
		b.stmt(holder, n, f, sc)
		return holder
	}

	node := b.newNode(ast.KindExpr, n, f)
	for _, c := range namedChildren(n) {
		if statementTypes[c.Type()] || c.Type() == "compound_statement" {
			b.stmt(node, c, f, sc)
			continue
		}
		appendChild(node, b.expr(c, f, sc))
	}
	return node
}

// isStreamOperator reports whether a shift applies to an overloaded
// operator rather than the built-in one: the left operand is a class object,
// an unresolved name such as std::cout, or an earlier overloaded shift in
// the same chain.
func (b *builder) isStreamOperator(op string, left *ast.Node) bool {
	if op != "<<" && op != ">>" {
		return false
	}
	if left == nil {
		return false
	}
	switch {
	case left.Kind == ast.KindCall && left.Syntax == "operator_call":
		return true
	case left.Kind == ast.KindDeclRef && left.Target == ast.NoNode:
		return true
	}
	t := b.deduceType(left)
	if t == nil && left.Kind == ast.KindMemberRef {
		t = b.unit.Node(left.Target).DeclaredType()
	}
	return t != nil && t.Category == ast.TypeRecord
}

// reference resolves a name used as an expression. Names of fields become
// member references, names of types become type references and unresolved
// names keep no target.
func (b *builder) reference(n *sitter.Node, f *sourceFile, sc *scope, qualified bool) *ast.Node {
	text := f.text(n)

	var id ast.NodeID
	if qualified {
		id = sc.lookupQualifiedValue(text)
	} else {
		id = sc.lookupValue(text)
	}

	target := b.unit.Node(id)
	if target == nil && sc.lookupQualifiedType(text) != ast.NoNode {
		node := b.newNode(ast.KindExpr, n, f)
		node.Syntax = "type_reference"
		node.Name = text
		return node
	}

	kind := ast.KindDeclRef
	if target != nil && target.Kind == ast.KindField {
		kind = ast.KindMemberRef
	}
	node := b.newNode(kind, n, f)
	node.Name = text
	if target != nil {
		node.Target = target.ID
	}
	return node
}

func (b *builder) lambda(n *sitter.Node, f *sourceFile, sc *scope) *ast.Node {
	node := b.newNode(ast.KindExpr, n, f)
	inner := sc.child(scopeFunction)

	if captures := n.ChildByFieldName("captures"); captures != nil {
		for _, c := range namedChildren(captures) {
			appendChild(node, b.expr(c, f, sc))
		}
	}
	if d := n.ChildByFieldName("declarator"); d != nil {
		b.params(node, d.ChildByFieldName("parameters"), f, inner)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		b.stmt(node, body, f, inner)
	}
	return node
}
