package treesitter

import (
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/panbanda/cxxlens/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/spf13/afero"
)

// markSeen records a file so later includes of the same path, or of a file
// with identical contents, are skipped.
func (b *builder) markSeen(path string, src []byte) bool {
	hash := xxhash.Sum64(src)
	if b.seenPaths[path] || b.seenHashes[hash] {
		return false
	}
	b.seenPaths[path] = true
	b.seenHashes[hash] = true
	return true
}

// include splices the declarations of a quoted include into parent at the
// point of inclusion. System includes are external to the unit.
func (b *builder) include(parent *ast.Node, n *sitter.Node, f *sourceFile, sc *scope) {
	pathNode := n.ChildByFieldName("path")
	if pathNode == nil {
		return
	}

	switch pathNode.Type() {
	case "system_lib_string":
		b.log.Debug("skipping system include", "include", f.text(pathNode), "from", f.path)
		return
	case "string_literal":
	default:
		return
	}

	target := strings.Trim(f.text(pathNode), `"`)
	resolved, ok := b.resolveInclude(target, f.path)
	if !ok {
		b.log.Debug("include not found", "include", target, "from", f.path)
		return
	}

	if b.depth >= b.p.maxDepth {
		b.log.Warn("include depth exceeded", "include", resolved, "depth", b.depth)
		return
	}

	src, err := afero.ReadFile(b.p.fs, resolved)
	if err != nil {
		b.log.Debug("failed to read include", "include", resolved, "error", err)
		return
	}
	if !b.markSeen(resolved, src) {
		return
	}

	result, err := b.p.parser.Parse(src, b.lang, resolved)
	if err != nil {
		b.log.Debug("failed to parse include", "include", resolved, "error", err)
		return
	}
	defer result.Close()
	b.p.logSyntaxErrors(resolved, result)

	b.unit.AddFile(resolved)
	b.depth++
	b.items(parent, result.Tree.RootNode(), &sourceFile{path: resolved, src: src}, sc)
	b.depth--
}

// resolveInclude searches the including file's directory, then the
// configured include directories.
func (b *builder) resolveInclude(target, from string) (string, bool) {
	if target == "" {
		return "", false
	}

	var candidates []string
	if filepath.IsAbs(target) {
		candidates = append(candidates, target)
	} else {
		candidates = append(candidates, filepath.Join(filepath.Dir(from), target))
		for _, dir := range b.p.includeDirs {
			candidates = append(candidates, filepath.Join(dir, target))
		}
	}

	for _, c := range candidates {
		c = filepath.Clean(c)
		if parser.DetectLanguage(c) == parser.LangUnknown && filepath.Ext(c) != "" {
			continue
		}
		info, err := b.p.fs.Stat(c)
		if err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}
