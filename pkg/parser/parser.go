package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Language represents a supported source language.
type Language string

const (
	LangC       Language = "c"
	LangCPP     Language = "cpp"
	LangUnknown Language = "unknown"
)

// Parser wraps tree-sitter for C and C++ parsing. A Parser is not safe for
// concurrent use; give each goroutine its own.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed syntax tree and metadata.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	Source   []byte
	Path     string
}

// Close releases the syntax tree.
func (r *ParseResult) Close() {
	if r != nil && r.Tree != nil {
		r.Tree.Close()
	}
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// Parse parses source code with a specified language.
func (p *Parser) Parse(source []byte, lang Language, path string) (*ParseResult, error) {
	return p.ParseCtx(context.Background(), source, lang, path)
}

// ParseCtx is Parse with a caller-supplied context.
func (p *Parser) ParseCtx(ctx context.Context, source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := GetTreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		Path:     path,
	}, nil
}

// GetTreeSitterLanguage returns the tree-sitter language for a Language enum.
func GetTreeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangC:
		return c.GetLanguage(), nil
	case LangCPP:
		return cpp.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// DetectLanguage determines the language from a file path. Headers are
// treated as C++ since a .h file may declare classes.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".c":
		return LangC
	case ".cpp", ".cc", ".cxx", ".c++", ".h", ".hh", ".hpp", ".hxx", ".inl", ".ipp":
		return LangCPP
	default:
		return LangUnknown
	}
}

// IsHeader reports whether path names a header file.
func IsHeader(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".hh", ".hpp", ".hxx", ".inl", ".ipp":
		return true
	}
	return false
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits syntax nodes.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the tree calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// FindNodes returns all nodes matching a predicate.
func FindNodes(root *sitter.Node, source []byte, predicate func(*sitter.Node) bool) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, source []byte) bool {
		if predicate(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindNodesByType returns all nodes of a specific type.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	return FindNodes(root, source, func(n *sitter.Node) bool {
		return n.Type() == nodeType
	})
}

// SyntaxErrors returns the ERROR nodes tree-sitter recovered from, in
// source order.
func (r *ParseResult) SyntaxErrors() []*sitter.Node {
	if r == nil || r.Tree == nil {
		return nil
	}
	return FindNodesByType(r.Tree.RootNode(), r.Source, "ERROR")
}

// FindChildByType returns the first direct child of the given type.
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child != nil && child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}
