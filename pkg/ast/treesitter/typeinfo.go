package treesitter

import (
	"strings"

	"github.com/panbanda/cxxlens/pkg/ast"
	sitter "github.com/smacker/go-tree-sitter"
)

// floatingAliases are standard library typedefs for floating-point types
// whose declarations live in system headers the front end never reads.
var floatingAliases = map[string]bool{
	"float_t":        true,
	"double_t":       true,
	"std::float_t":   true,
	"std::double_t":  true,
	"std::float32_t": true,
	"std::float64_t": true,
	"_Float32":       true,
	"_Float64":       true,
}

func primitiveCategory(spelling string) ast.TypeCategory {
	words := strings.Fields(spelling)
	for _, w := range words {
		if w == "float" || w == "double" {
			return ast.TypeFloating
		}
	}
	for _, w := range words {
		switch w {
		case "bool", "_Bool":
			return ast.TypeBool
		case "void":
			return ast.TypeVoid
		}
	}
	return ast.TypeIntegral
}

func recordType(rec *ast.Node) *ast.Type {
	spelling := rec.Name
	if spelling == "" {
		spelling = "(anonymous " + rec.TagKind + ")"
	}
	return &ast.Type{Spelling: spelling, Category: ast.TypeRecord, Record: rec.ID}
}

// specifierType computes the type named by a declaration's type specifier.
// Record definitions embedded in the specifier are built into parent.
func (b *builder) specifierType(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) *ast.Type {
	if n == nil {
		return ast.NewType("", ast.TypeUnknown)
	}

	switch n.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		if rec := b.record(parent, n, f, sc); rec != nil {
			return recordType(rec)
		}
		return b.namedType(f.text(n.ChildByFieldName("name")), sc)
	case "enum_specifier":
		return ast.NewType(f.text(n.ChildByFieldName("name")), ast.TypeIntegral)
	case "primitive_type", "sized_type_specifier":
		text := f.text(n)
		return ast.NewType(text, primitiveCategory(text))
	case "type_identifier", "qualified_identifier", "template_type", "scoped_type_identifier":
		return b.namedType(f.text(n), sc)
	case "placeholder_type_specifier", "auto":
		return ast.NewType("auto", ast.TypeUnknown)
	}
	return ast.NewType(f.text(n), ast.TypeUnknown)
}

// namedType resolves a type name through aliases to its canonical category.
func (b *builder) namedType(name string, sc *scope) *ast.Type {
	if name == "" {
		return ast.NewType("", ast.TypeUnknown)
	}
	if floatingAliases[name] {
		return ast.NewType(name, ast.TypeFloating)
	}

	target := b.unit.Node(sc.lookupQualifiedType(name))
	switch {
	case target == nil:
		return ast.NewType(name, ast.TypeUnknown)
	case target.Kind == ast.KindRecord:
		return &ast.Type{Spelling: name, Category: ast.TypeRecord, Record: target.ID}
	case target.Kind == ast.KindTypeAlias && target.Type != nil:
		return &ast.Type{Spelling: name, Category: target.Type.Category, Record: target.Type.Record}
	}
	return ast.NewType(name, ast.TypeUnknown)
}

// resolveRecord resolves a base-class name to a record in the unit.
func (b *builder) resolveRecord(name string, sc *scope) ast.NodeID {
	target := b.unit.Node(sc.lookupQualifiedType(name))
	if target == nil {
		return ast.NoNode
	}
	switch target.Kind {
	case ast.KindRecord:
		return target.ID
	case ast.KindTypeAlias:
		if target.Type != nil && target.Type.Category == ast.TypeRecord {
			return target.Type.Record
		}
	}
	return ast.NoNode
}

// declInfo is what a declarator contributes on top of the specifier type.
type declInfo struct {
	name     string
	nameNode *sitter.Node
	typ      *ast.Type
	function *sitter.Node
}

func (d declInfo) isFunction() bool {
	return d.typ != nil && d.typ.Category == ast.TypeFunction
}

// declarator unwraps a declarator chain down to the declared name. The
// wrapper closest to the name decides the category, so "double *a[3]" is an
// array and "int (*fp)(double)" is a pointer.
func (b *builder) declarator(base *ast.Type, d *sitter.Node, f *sourceFile) declInfo {
	info := declInfo{}
	category := base.Category
	record := base.Record
	var suffix strings.Builder

	for d != nil {
		switch d.Type() {
		case "identifier", "field_identifier", "type_identifier", "qualified_identifier",
			"destructor_name", "operator_name", "template_function", "operator_cast":
			info.name = f.text(d)
			info.nameNode = d
			d = nil
		case "init_declarator":
			d = d.ChildByFieldName("declarator")
		case "pointer_declarator", "abstract_pointer_declarator":
			category, record = ast.TypePointer, ast.NoNode
			suffix.WriteString(" *")
			d = innerDeclarator(d)
		case "reference_declarator", "abstract_reference_declarator":
			category, record = ast.TypeReference, ast.NoNode
			suffix.WriteString(" &")
			d = innerDeclarator(d)
		case "array_declarator", "abstract_array_declarator":
			category, record = ast.TypeArray, ast.NoNode
			suffix.WriteString("[]")
			d = innerDeclarator(d)
		case "function_declarator", "abstract_function_declarator":
			if info.function == nil {
				info.function = d
			}
			category, record = ast.TypeFunction, ast.NoNode
			d = d.ChildByFieldName("declarator")
		case "parenthesized_declarator", "attributed_declarator":
			d = innerDeclarator(d)
		default:
			d = nil
		}
	}

	info.typ = &ast.Type{
		Spelling: base.Spelling + suffix.String(),
		Category: category,
		Record:   record,
	}
	return info
}

func innerDeclarator(d *sitter.Node) *sitter.Node {
	if inner := d.ChildByFieldName("declarator"); inner != nil {
		return inner
	}
	count := int(d.NamedChildCount())
	for i := count - 1; i >= 0; i-- {
		c := d.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "type_qualifier", "ms_pointer_modifier", "attribute_specifier":
			continue
		}
		return c
	}
	return nil
}

func isAuto(t *ast.Type) bool {
	return t != nil && t.Spelling == "auto" && t.Category == ast.TypeUnknown
}

// deduceType computes the type an auto variable takes from its initializer.
// It returns nil when the initializer's type is not known.
func (b *builder) deduceType(e *ast.Node) *ast.Type {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case ast.KindLiteral:
		return literalType(e)

	case ast.KindDeclRef:
		return valueType(b.unit.Node(e.Target).DeclaredType())

	case ast.KindCall:
		if len(e.Children) == 0 || e.Children[0].Kind != ast.KindDeclRef {
			return nil
		}
		callee := b.unit.Node(e.Children[0].Target)
		if callee == nil || callee.Kind != ast.KindFunction {
			return nil
		}
		return valueType(callee.Type)

	case ast.KindUnaryOperator:
		switch e.Operator {
		case "!":
			return ast.NewType("bool", ast.TypeBool)
		case "-", "+", "~", "++", "--":
			if len(e.Children) > 0 {
				return b.deduceType(e.Children[0])
			}
		}
		return nil

	case ast.KindBinaryOperator:
		return b.deduceBinary(e)

	case ast.KindExpr:
		if e.Syntax == "parenthesized_expression" && len(e.Children) == 1 {
			return b.deduceType(e.Children[0])
		}
	}
	return nil
}

func (b *builder) deduceBinary(e *ast.Node) *ast.Type {
	switch e.Operator {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||", "and", "or", "not_eq":
		return ast.NewType("bool", ast.TypeBool)
	case "=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "|=", "^=":
		return b.deduceType(e.LHS())
	case ",":
		return b.deduceType(e.RHS())
	}

	lhs, rhs := b.deduceType(e.LHS()), b.deduceType(e.RHS())
	switch {
	case lhs != nil && lhs.IsFloatingPoint():
		return lhs
	case rhs != nil && rhs.IsFloatingPoint():
		return rhs
	case lhs != nil && rhs != nil && isArithmetic(lhs) && isArithmetic(rhs):
		return ast.NewType("int", ast.TypeIntegral)
	}
	return nil
}

func isArithmetic(t *ast.Type) bool {
	return t.Category == ast.TypeIntegral || t.Category == ast.TypeBool
}

// valueType is the type an auto variable copies from t. References and
// functions are not deduced.
func valueType(t *ast.Type) *ast.Type {
	if t == nil {
		return nil
	}
	switch t.Category {
	case ast.TypeUnknown, ast.TypeReference, ast.TypeFunction, ast.TypeVoid:
		return nil
	}
	c := *t
	return &c
}

func literalType(e *ast.Node) *ast.Type {
	switch e.Syntax {
	case "true", "false":
		return ast.NewType("bool", ast.TypeBool)
	case "char_literal":
		return ast.NewType("char", ast.TypeIntegral)
	case "number_literal":
	default:
		return nil
	}

	text := strings.ToLower(strings.ReplaceAll(e.Text, "'", ""))
	hex := strings.HasPrefix(text, "0x")
	floating := strings.Contains(text, ".") ||
		(!hex && strings.Contains(text, "e")) ||
		(hex && strings.Contains(text, "p"))
	if !floating {
		return ast.NewType("int", ast.TypeIntegral)
	}
	switch {
	case !hex && strings.HasSuffix(text, "f"):
		return ast.NewType("float", ast.TypeFloating)
	case strings.HasSuffix(text, "l"):
		return ast.NewType("long double", ast.TypeFloating)
	}
	return ast.NewType("double", ast.TypeFloating)
}
