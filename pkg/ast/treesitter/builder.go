package treesitter

import (
	"log/slog"
	"strings"

	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/panbanda/cxxlens/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// sourceFile is the file a syntax node was parsed from.
type sourceFile struct {
	path string
	src  []byte
}

func (f *sourceFile) text(n *sitter.Node) string {
	return parser.GetNodeText(n, f.src)
}

func (f *sourceFile) pos(n *sitter.Node) ast.Position {
	if n == nil {
		return ast.Position{File: f.path}
	}
	p := n.StartPoint()
	return ast.Position{
		File:   f.path,
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
		Offset: int(n.StartByte()),
	}
}

// builder lowers tree-sitter syntax trees into one ast.Unit, resolving names
// as it goes.
type builder struct {
	p          *Provider
	unit       *ast.Unit
	lang       parser.Language
	global     *scope
	seenPaths  map[string]bool
	seenHashes map[uint64]bool
	depth      int
	log        *slog.Logger
}

func newBuilder(p *Provider, unit *ast.Unit, lang parser.Language) *builder {
	return &builder{
		p:          p,
		unit:       unit,
		lang:       lang,
		global:     newScope(nil, scopeGlobal, ""),
		seenPaths:  make(map[string]bool),
		seenHashes: make(map[uint64]bool),
		log:        p.logger,
	}
}

func (b *builder) newNode(kind ast.Kind, n *sitter.Node, f *sourceFile) *ast.Node {
	node := b.unit.NewNode(kind, f.pos(n))
	if n != nil {
		node.Syntax = n.Type()
	}
	return node
}

func appendChild(parent, child *ast.Node) {
	if parent != nil && child != nil {
		parent.Children = append(parent.Children, child)
	}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := range count {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// fieldChildren returns every child stored under field, for grammar rules
// that repeat a field such as a declaration's declarators.
func fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := range int(n.ChildCount()) {
		if n.FieldNameForChild(i) == field {
			if c := n.Child(i); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

var statementTypes = map[string]bool{
	"if_statement":        true,
	"while_statement":     true,
	"do_statement":        true,
	"for_statement":       true,
	"switch_statement":    true,
	"case_statement":      true,
	"return_statement":    true,
	"throw_statement":     true,
	"try_statement":       true,
	"labeled_statement":   true,
	"condition_clause":    true,
	"else_clause":         true,
	"init_statement":      true,
	"break_statement":     true,
	"continue_statement":  true,
	"goto_statement":      true,
	"co_return_statement": true,
	"co_yield_statement":  true,
	"seh_try_statement":   true,
	"seh_except_clause":   true,
	"seh_finally_clause":  true,
}

// scopedStatements introduce a block scope for declarations in their headers.
var scopedStatements = map[string]bool{
	"if_statement":     true,
	"while_statement":  true,
	"for_statement":    true,
	"switch_statement": true,
}

var ignoredItems = map[string]bool{
	"comment":                    true,
	"access_specifier":           true,
	"using_declaration":          true,
	"static_assert_declaration":  true,
	"friend_declaration":         true,
	"preproc_def":                true,
	"preproc_function_def":       true,
	"preproc_call":               true,
	"template_instantiation":     true,
	"concept_definition":         true,
	"namespace_alias_definition": true,
	"attribute_declaration":      true,
	"enum_specifier":             true,
	"empty_statement":            true,
	";":                          true,
}

// items builds every named child of container into parent.
func (b *builder) items(parent *ast.Node, container *sitter.Node, f *sourceFile, sc *scope) {
	for _, c := range namedChildren(container) {
		b.stmt(parent, c, f, sc)
	}
}

// stmt builds a declaration or statement into parent.
func (b *builder) stmt(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) {
	if n == nil {
		return
	}

	t := n.Type()
	if ignoredItems[t] {
		return
	}

	switch t {
	case "preproc_include":
		b.include(parent, n, f, sc)
	case "preproc_if", "preproc_ifdef", "preproc_elif", "preproc_else", "preproc_elifdef":
		b.preprocBranch(parent, n, f, sc)
	case "namespace_definition":
		b.namespace(parent, n, f, sc)
	case "linkage_specification":
		if body := n.ChildByFieldName("body"); body != nil {
			b.stmt(parent, body, f, sc)
		}
	case "declaration_list", "translation_unit":
		b.items(parent, n, f, sc)
	case "template_declaration":
		for _, c := range namedChildren(n) {
			if c.Type() != "template_parameter_list" {
				b.stmt(parent, c, f, sc)
			}
		}
	case "class_specifier", "struct_specifier", "union_specifier":
		b.record(parent, n, f, sc)
	case "function_definition":
		b.function(parent, n, f, sc, nil)
	case "declaration", "field_declaration":
		b.declaration(parent, n, f, sc, nil)
	case "type_definition":
		b.typedef(parent, n, f, sc)
	case "alias_declaration":
		b.alias(parent, n, f, sc)
	case "compound_statement":
		block := b.newNode(ast.KindStmt, n, f)
		appendChild(parent, block)
		b.items(block, n, f, sc.child(scopeBlock))
	case "expression_statement":
		for _, c := range namedChildren(n) {
			appendChild(parent, b.expr(c, f, sc))
		}
	case "for_range_loop":
		b.forRange(parent, n, f, sc)
	case "catch_clause":
		b.catch(parent, n, f, sc)
	case "ERROR":
		b.items(parent, n, f, sc)
	default:
		if statementTypes[t] {
			node := b.newNode(ast.KindStmt, n, f)
			appendChild(parent, node)
			inner := sc
			if scopedStatements[t] {
				inner = sc.child(scopeBlock)
			}
			b.items(node, n, f, inner)
			return
		}
		appendChild(parent, b.expr(n, f, sc))
	}
}

// preprocBranch builds every branch of a conditional directive. Conditions
// are not evaluated.
func (b *builder) preprocBranch(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) {
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c == nil || !c.IsNamed() {
			continue
		}
		switch n.FieldNameForChild(i) {
		case "name", "condition":
			continue
		}
		b.stmt(parent, c, f, sc)
	}
}

func (b *builder) namespace(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) {
	node := b.newNode(ast.KindNamespace, n, f)
	node.Name = f.text(n.ChildByFieldName("name"))
	appendChild(parent, node)

	inner := sc
	parts, _ := splitQualified(node.Name)
	for _, part := range parts {
		inner = inner.nest(part, scopeNamespace)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		b.items(node, body, f, inner)
	}
}

// record builds a class, struct or union definition. Declarations without a
// body produce no node.
func (b *builder) record(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) *ast.Node {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	node := b.newNode(ast.KindRecord, n, f)
	node.TagKind = strings.TrimSuffix(n.Type(), "_specifier")

	declScope := sc
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		qualified := f.text(nameNode)
		node.Name = lastPart(qualified)
		if parts, global := splitQualified(qualified); len(parts) > 1 {
			if q := sc.qualifier(parts, global); q != nil {
				declScope = q
			}
		}
	}
	node.Bases = b.bases(n, f, sc)
	appendChild(parent, node)

	declScope.declareType(node.Name, node.ID)
	b.members(node, body, f, declScope.nest(node.Name, scopeRecord))
	return node
}

func (b *builder) bases(n *sitter.Node, f *sourceFile, sc *scope) []ast.BaseSpec {
	clause := parser.FindChildByType(n, "base_class_clause")
	if clause == nil {
		return nil
	}

	var bases []ast.BaseSpec
	access, virtual := "", false
	for i := range int(clause.ChildCount()) {
		c := clause.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "access_specifier", "public", "private", "protected":
			access = strings.TrimSpace(f.text(c))
		case "virtual":
			virtual = true
		case "type_identifier", "qualified_identifier", "template_type":
			name := f.text(c)
			bases = append(bases, ast.BaseSpec{
				Name:    name,
				Access:  access,
				Virtual: virtual,
				Pos:     f.pos(c),
				Target:  b.resolveRecord(name, sc),
			})
			access, virtual = "", false
		}
	}
	return bases
}

// members builds a class body in two phases: every member is declared
// first, then method bodies and default member initializers are built so
// they can refer to members declared after them.
func (b *builder) members(rec *ast.Node, body *sitter.Node, f *sourceFile, rs *scope) {
	var deferred []func()
	for _, c := range namedChildren(body) {
		b.member(rec, c, f, rs, &deferred)
	}
	for _, build := range deferred {
		build()
	}
}

func (b *builder) member(rec *ast.Node, c *sitter.Node, f *sourceFile, rs *scope, deferred *[]func()) {
	switch c.Type() {
	case "function_definition":
		b.function(rec, c, f, rs, deferred)
	case "field_declaration", "declaration":
		b.declaration(rec, c, f, rs, deferred)
	case "template_declaration":
		for _, inner := range namedChildren(c) {
			if inner.Type() != "template_parameter_list" {
				b.member(rec, inner, f, rs, deferred)
			}
		}
	default:
		b.stmt(rec, c, f, rs)
	}
}

func hasStorageClass(n *sitter.Node, f *sourceFile, class string) bool {
	for _, c := range namedChildren(n) {
		if c.Type() == "storage_class_specifier" && f.text(c) == class {
			return true
		}
	}
	return false
}

// declaration builds variables, fields and function prototypes. A variable
// is in scope before its initializer is built.
func (b *builder) declaration(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope, deferred *[]func()) {
	base := b.specifierType(parent, n.ChildByFieldName("type"), f, sc)
	declarators := fieldChildren(n, "declarator")
	field := sc.kind == scopeRecord && !hasStorageClass(n, f, "static")

	for _, d := range declarators {
		info := b.declarator(base, d, f)
		if info.name == "" {
			continue
		}

		if info.isFunction() {
			fn := b.newNode(ast.KindFunction, info.nameNode, f)
			fn.Name = info.name
			fn.Type = base
			appendChild(parent, fn)
			if !strings.Contains(info.name, "::") {
				sc.declareValue(info.name, fn.ID)
			}
			continue
		}

		kind := ast.KindVar
		if field {
			kind = ast.KindField
		}
		v := b.newNode(kind, info.nameNode, f)
		v.Name = info.name
		v.Type = info.typ
		appendChild(parent, v)
		if !strings.Contains(info.name, "::") {
			sc.declareValue(info.name, v.ID)
		}

		var init *sitter.Node
		if d.Type() == "init_declarator" {
			init = d.ChildByFieldName("value")
		} else if len(declarators) == 1 {
			init = n.ChildByFieldName("default_value")
		}
		if init == nil {
			continue
		}
		deduce := isAuto(info.typ)
		build := func() {
			e := b.expr(init, f, sc)
			appendChild(v, e)
			if deduce {
				if t := b.deduceType(e); t != nil {
					v.Type = t
				}
			}
		}
		if deferred != nil {
			*deferred = append(*deferred, build)
		} else {
			build()
		}
	}
}

func (b *builder) function(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope, deferred *[]func()) {
	ret := b.specifierType(parent, n.ChildByFieldName("type"), f, sc)
	info := b.declarator(ret, n.ChildByFieldName("declarator"), f)

	fn := b.newNode(ast.KindFunction, n, f)
	fn.Name = info.name
	fn.Type = ret
	appendChild(parent, fn)

	outer := sc
	if parts, global := splitQualified(info.name); len(parts) > 1 {
		if q := sc.qualifier(parts, global); q != nil {
			outer = q
		}
	} else {
		sc.declareValue(info.name, fn.ID)
	}

	fs := outer.child(scopeFunction)
	if info.function != nil {
		b.params(fn, info.function.ChildByFieldName("parameters"), f, fs)
	}

	build := func() {
		if inits := parser.FindChildByType(n, "field_initializer_list"); inits != nil {
			for _, fi := range namedChildren(inits) {
				b.fieldInitializer(fn, fi, f, fs)
			}
		}
		if body := n.ChildByFieldName("body"); body != nil {
			b.stmt(fn, body, f, fs)
		}
	}
	if deferred != nil {
		*deferred = append(*deferred, build)
	} else {
		build()
	}
}

func (b *builder) fieldInitializer(fn *ast.Node, fi *sitter.Node, f *sourceFile, sc *scope) {
	init := b.newNode(ast.KindExpr, fi, f)
	appendChild(fn, init)
	for _, c := range namedChildren(fi) {
		switch c.Type() {
		case "field_identifier", "qualified_identifier", "template_method", "type_identifier":
			if init.Name == "" {
				init.Name = f.text(c)
			}
		case "argument_list", "initializer_list":
			for _, arg := range namedChildren(c) {
				appendChild(init, b.expr(arg, f, sc))
			}
		}
	}
}

func (b *builder) params(parent *ast.Node, list *sitter.Node, f *sourceFile, sc *scope) {
	for _, p := range namedChildren(list) {
		switch p.Type() {
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}

		base := b.specifierType(nil, p.ChildByFieldName("type"), f, sc)
		param := b.newNode(ast.KindParam, p, f)
		param.Type = base
		if d := p.ChildByFieldName("declarator"); d != nil {
			info := b.declarator(base, d, f)
			param.Name = info.name
			param.Type = info.typ
			if info.nameNode != nil {
				param.Pos = f.pos(info.nameNode)
			}
		}
		appendChild(parent, param)
		sc.declareValue(param.Name, param.ID)

		if def := p.ChildByFieldName("default_value"); def != nil {
			appendChild(param, b.expr(def, f, sc))
		}
	}
}

func (b *builder) typedef(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) {
	base := b.specifierType(parent, n.ChildByFieldName("type"), f, sc)
	for _, d := range fieldChildren(n, "declarator") {
		info := b.declarator(base, d, f)
		if info.name == "" {
			continue
		}
		alias := b.newNode(ast.KindTypeAlias, info.nameNode, f)
		alias.Name = info.name
		alias.Type = info.typ
		appendChild(parent, alias)
		sc.declareType(info.name, alias.ID)
	}
}

func (b *builder) alias(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	t := ast.NewType("", ast.TypeUnknown)
	if td := n.ChildByFieldName("type"); td != nil {
		t = b.specifierType(parent, td.ChildByFieldName("type"), f, sc)
		if d := td.ChildByFieldName("declarator"); d != nil {
			t = b.declarator(t, d, f).typ
		}
	}

	alias := b.newNode(ast.KindTypeAlias, nameNode, f)
	alias.Name = f.text(nameNode)
	alias.Type = t
	appendChild(parent, alias)
	sc.declareType(alias.Name, alias.ID)
}

func (b *builder) forRange(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) {
	node := b.newNode(ast.KindStmt, n, f)
	appendChild(parent, node)
	inner := sc.child(scopeBlock)

	base := b.specifierType(node, n.ChildByFieldName("type"), f, inner)
	if d := n.ChildByFieldName("declarator"); d != nil {
		info := b.declarator(base, d, f)
		v := b.newNode(ast.KindVar, d, f)
		if info.nameNode != nil {
			v.Pos = f.pos(info.nameNode)
		}
		v.Name = info.name
		v.Type = info.typ
		appendChild(node, v)
		inner.declareValue(v.Name, v.ID)
	}
	if r := n.ChildByFieldName("right"); r != nil {
		appendChild(node, b.expr(r, f, sc))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		b.stmt(node, body, f, inner)
	}
}

func (b *builder) catch(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) {
	node := b.newNode(ast.KindStmt, n, f)
	appendChild(parent, node)
	inner := sc.child(scopeBlock)

	for _, p := range namedChildren(n.ChildByFieldName("parameters")) {
		if p.Type() != "parameter_declaration" {
			continue
		}
		base := b.specifierType(node, p.ChildByFieldName("type"), f, inner)
		d := p.ChildByFieldName("declarator")
		if d == nil {
			continue
		}
		info := b.declarator(base, d, f)
		v := b.newNode(ast.KindVar, info.nameNode, f)
		v.Name = info.name
		v.Type = info.typ
		appendChild(node, v)
		inner.declareValue(v.Name, v.ID)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		b.stmt(node, body, f, inner)
	}
}
