package ast

// NodeID identifies a node within its Unit. IDs are dense arena indexes.
type NodeID int32

// NoNode marks an absent cross reference, e.g. a base class that is not
// declared anywhere in the unit.
const NoNode NodeID = -1

// Kind is the closed set of node kinds the analyses understand.
type Kind string

const (
	KindTranslationUnit Kind = "translation_unit"
	KindNamespace       Kind = "namespace"
	KindRecord          Kind = "record"
	KindField           Kind = "field"
	KindFunction        Kind = "function"
	KindVar             Kind = "var"
	KindParam           Kind = "param"
	KindTypeAlias       Kind = "type_alias"
	KindStmt            Kind = "stmt"
	KindBinaryOperator  Kind = "binary_operator"
	KindUnaryOperator   Kind = "unary_operator"
	KindDeclRef         Kind = "decl_ref"
	KindMemberRef       Kind = "member_ref"
	KindCall            Kind = "call"
	KindLiteral         Kind = "literal"
	KindExpr            Kind = "expr"
)

func (k Kind) String() string { return string(k) }

// IsDecl reports whether the kind is a declaration.
func (k Kind) IsDecl() bool {
	switch k {
	case KindTranslationUnit, KindNamespace, KindRecord, KindField,
		KindFunction, KindVar, KindParam, KindTypeAlias:
		return true
	}
	return false
}

// IsExpr reports whether the kind is an expression.
func (k Kind) IsExpr() bool {
	switch k {
	case KindBinaryOperator, KindUnaryOperator, KindDeclRef, KindMemberRef,
		KindCall, KindLiteral, KindExpr:
		return true
	}
	return false
}

// BaseSpec is one entry of a record's base-class list.
type BaseSpec struct {
	Name    string
	Access  string // public, protected, private or empty when implicit
	Virtual bool
	Pos     Position
	// Target is the record the base name resolved to, or NoNode when the
	// base is declared outside the unit (e.g. a system header).
	Target NodeID
}

// IsExternal reports whether the base did not resolve to a record in the unit.
func (b BaseSpec) IsExternal() bool {
	return b.Target == NoNode
}

// Node is a single declaration, statement or expression.
//
// Which fields are meaningful depends on Kind:
//
//	KindRecord                   Name, TagKind, Bases
//	KindVar, KindParam, KindField Name, Type
//	KindFunction                 Name, Type (return type)
//	KindTypeAlias                Name, Type (aliased type)
//	KindBinaryOperator           Operator, Children = [lhs, rhs]
//	KindUnaryOperator            Operator, Children = [operand]
//	KindCall                     Children = [callee, args...]; Operator for
//	                             overloaded operators, Children = [lhs, rhs]
//	KindDeclRef, KindMemberRef   Name, Target
//	KindLiteral                  Text
//	KindStmt, KindExpr           Syntax
type Node struct {
	ID       NodeID
	Kind     Kind
	Name     string
	Pos      Position
	Children []*Node

	// Syntax is the front end's name for the construct (e.g. "if_statement").
	Syntax string

	TagKind  string
	Bases    []BaseSpec
	Type     *Type
	Operator string
	Target   NodeID
	Text     string

	unit *Unit
}

// Unit returns the translation unit owning the node.
func (n *Node) Unit() *Unit {
	if n == nil {
		return nil
	}
	return n.unit
}

// BaseCount returns the number of base classes of a record, 0 for any other kind.
func (n *Node) BaseCount() int {
	if n == nil || n.Kind != KindRecord {
		return 0
	}
	return len(n.Bases)
}

// Operands returns the direct operands of an operator node in source order.
// It returns nil for every other kind.
func (n *Node) Operands() []*Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindBinaryOperator, KindUnaryOperator:
		return n.Children
	}
	return nil
}

// LHS returns the left operand of a binary operator.
func (n *Node) LHS() *Node {
	if n == nil || n.Kind != KindBinaryOperator || len(n.Children) < 1 {
		return nil
	}
	return n.Children[0]
}

// RHS returns the right operand of a binary operator.
func (n *Node) RHS() *Node {
	if n == nil || n.Kind != KindBinaryOperator || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1]
}

// ResolvesTo returns the declaration a reference expression names, or nil
// when the node is not a reference or the name did not resolve.
func (n *Node) ResolvesTo() *Node {
	if n == nil || (n.Kind != KindDeclRef && n.Kind != KindMemberRef) {
		return nil
	}
	return n.unit.Node(n.Target)
}

// DeclaredType returns the declared type of a value declaration.
func (n *Node) DeclaredType() *Type {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindVar, KindParam, KindField:
		return n.Type
	}
	return nil
}

// IsVariable reports whether the node declares a variable. Parameters are
// variables; non-static data members are not.
func (n *Node) IsVariable() bool {
	return n != nil && (n.Kind == KindVar || n.Kind == KindParam)
}
