package treesitter

import (
	"strings"

	"github.com/panbanda/cxxlens/pkg/ast"
)

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeNamespace
	scopeRecord
	scopeFunction
	scopeBlock
)

// scope is one level of the lexical name lookup chain.
type scope struct {
	parent *scope
	kind   scopeKind
	name   string
	values map[string]ast.NodeID
	types  map[string]ast.NodeID
	nested map[string]*scope
}

func newScope(parent *scope, kind scopeKind, name string) *scope {
	return &scope{
		parent: parent,
		kind:   kind,
		name:   name,
		values: make(map[string]ast.NodeID),
		types:  make(map[string]ast.NodeID),
		nested: make(map[string]*scope),
	}
}

// child opens an unnamed block scope.
func (s *scope) child(kind scopeKind) *scope {
	return newScope(s, kind, "")
}

// nest returns the named nested scope, creating it on first use so that
// reopened namespaces share one scope.
func (s *scope) nest(name string, kind scopeKind) *scope {
	if name == "" {
		return s.child(kind)
	}
	if existing, ok := s.nested[name]; ok {
		return existing
	}
	ns := newScope(s, kind, name)
	s.nested[name] = ns
	return ns
}

func (s *scope) declareValue(name string, id ast.NodeID) {
	if name != "" {
		s.values[name] = id
	}
}

func (s *scope) declareType(name string, id ast.NodeID) {
	if name != "" {
		s.types[name] = id
	}
}

func (s *scope) root() *scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

func (s *scope) lookupValue(name string) ast.NodeID {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.values[name]; ok {
			return id
		}
	}
	return ast.NoNode
}

func (s *scope) lookupType(name string) ast.NodeID {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.types[name]; ok {
			return id
		}
	}
	return ast.NoNode
}

func (s *scope) lookupScope(name string) *scope {
	for cur := s; cur != nil; cur = cur.parent {
		if ns, ok := cur.nested[name]; ok {
			return ns
		}
	}
	return nil
}

// qualifier resolves every part but the last of a qualified name to the
// scope that should contain the final name.
func (s *scope) qualifier(parts []string, global bool) *scope {
	if len(parts) < 2 {
		if global {
			return s.root()
		}
		return nil
	}
	var cur *scope
	if global {
		cur = s.root().nested[parts[0]]
	} else {
		cur = s.lookupScope(parts[0])
	}
	for _, part := range parts[1 : len(parts)-1] {
		if cur == nil {
			return nil
		}
		cur = cur.nested[part]
	}
	return cur
}

// lookupQualifiedType resolves names like "Shape", "geo::Shape" or
// "::geo::Shape". Template arguments are ignored.
func (s *scope) lookupQualifiedType(text string) ast.NodeID {
	parts, global := splitQualified(text)
	if len(parts) == 0 {
		return ast.NoNode
	}
	if len(parts) == 1 && !global {
		return s.lookupType(parts[0])
	}
	q := s.qualifier(parts, global)
	if q == nil {
		return ast.NoNode
	}
	if id, ok := q.types[parts[len(parts)-1]]; ok {
		return id
	}
	return ast.NoNode
}

// lookupQualifiedValue is lookupQualifiedType for variables and functions.
func (s *scope) lookupQualifiedValue(text string) ast.NodeID {
	parts, global := splitQualified(text)
	if len(parts) == 0 {
		return ast.NoNode
	}
	if len(parts) == 1 && !global {
		return s.lookupValue(parts[0])
	}
	q := s.qualifier(parts, global)
	if q == nil {
		return ast.NoNode
	}
	if id, ok := q.values[parts[len(parts)-1]]; ok {
		return id
	}
	return ast.NoNode
}

// splitQualified splits "a::b<int>::C" into [a b C], dropping template
// argument lists and reporting a leading "::".
func splitQualified(text string) ([]string, bool) {
	var sb strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0 && r != ' ' && r != '\t' && r != '\n':
			sb.WriteRune(r)
		}
	}
	stripped := sb.String()
	global := strings.HasPrefix(stripped, "::")
	stripped = strings.TrimPrefix(stripped, "::")
	if stripped == "" {
		return nil, global
	}

	var parts []string
	for _, p := range strings.Split(stripped, "::") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts, global
}

// lastPart returns the unqualified name of a possibly qualified name.
func lastPart(text string) string {
	parts, _ := splitQualified(text)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
