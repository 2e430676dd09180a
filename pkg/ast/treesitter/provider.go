package treesitter

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/panbanda/cxxlens/pkg/parser"
	"github.com/spf13/afero"
)

// DefaultMaxIncludeDepth bounds nested quoted includes.
const DefaultMaxIncludeDepth = 32

// Provider implements ast.Provider for C and C++ using tree-sitter.
//
// A Provider owns a tree-sitter parser and is not safe for concurrent use.
type Provider struct {
	parser      *parser.Parser
	fs          afero.Fs
	includeDirs []string
	maxDepth    int
	logger      *slog.Logger
}

// Option is a functional option for configuring Provider.
type Option func(*Provider)

// WithFS reads sources and headers from fs instead of the OS file system.
func WithFS(fs afero.Fs) Option {
	return func(p *Provider) {
		p.fs = fs
	}
}

// WithIncludeDirs adds directories searched for quoted includes after the
// including file's own directory.
func WithIncludeDirs(dirs ...string) Option {
	return func(p *Provider) {
		p.includeDirs = append(p.includeDirs, dirs...)
	}
}

// WithMaxIncludeDepth limits how deep quoted includes are followed.
func WithMaxIncludeDepth(depth int) Option {
	return func(p *Provider) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used for include diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a new tree-sitter based provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		parser:   parser.New(),
		fs:       afero.NewOsFs(),
		maxDepth: DefaultMaxIncludeDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile reads path and builds its translation unit.
func (p *Provider) ParseFile(path string) (*ast.Unit, error) {
	source, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(path, source)
}

// Parse builds the translation unit for source, treating path as the
// primary file. Quoted includes are resolved through the provider's file
// system.
func (p *Provider) Parse(path string, source []byte) (*ast.Unit, error) {
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", ast.ErrUnsupportedLanguage, path)
	}

	path = filepath.Clean(path)
	result, err := p.parser.Parse(source, lang, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	p.logSyntaxErrors(path, result)

	unit := ast.NewUnit(path, ast.Language(lang))
	b := newBuilder(p, unit, lang)
	b.markSeen(path, source)
	b.items(unit.Root, result.Tree.RootNode(), &sourceFile{path: path, src: source}, b.global)

	p.logger.Debug("built translation unit",
		"path", path,
		"nodes", unit.Len(),
		"files", len(unit.Files()))
	return unit, nil
}

// logSyntaxErrors reports the regions tree-sitter recovered from. They are
// built as generic nodes.
func (p *Provider) logSyntaxErrors(path string, result *parser.ParseResult) {
	errs := result.SyntaxErrors()
	if len(errs) == 0 {
		return
	}
	first := errs[0].StartPoint()
	p.logger.Debug("syntax errors recovered",
		"path", path,
		"count", len(errs),
		"line", int(first.Row)+1,
		"column", int(first.Column)+1)
}

// Language returns the detected language for a file path.
func (p *Provider) Language(path string) ast.Language {
	return ast.Language(parser.DetectLanguage(path))
}

// Close releases parser resources.
func (p *Provider) Close() {
	p.parser.Close()
}
