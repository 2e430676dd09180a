// Package scanner finds C and C++ translation units to analyze.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/cxxlens/pkg/config"
	"github.com/panbanda/cxxlens/pkg/parser"
)

// Scanner finds source files in a directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
	// base is the directory exclusion paths are relative to: the git root
	// when gitignore files were read, otherwise the scan root.
	base    string
	headers bool
}

// Option is a functional option for configuring Scanner.
type Option func(*Scanner)

// WithHeaders makes directory scans return header files as translation
// units too. By default headers are only reached through includes.
func WithHeaders() Option {
	return func(s *Scanner) {
		s.headers = true
	}
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config, opts ...Option) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Scanner{config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns loads exclusion patterns from the config and from
// .gitignore files. Config patterns and directories use gitignore syntax.
func (s *Scanner) loadExcludePatterns(root string) {
	s.matchers = nil
	s.base = root
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}
	for _, dir := range s.config.Exclude.Dirs {
		patterns = append(patterns, gitignore.ParsePattern(strings.TrimSuffix(dir, "/")+"/", nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, gitPatterns...)
				s.base = gitRoot
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isExcluded checks if a path matches any exclusion pattern.
func (s *Scanner) isExcluded(path string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}

	pathParts := strings.Split(path, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

func (s *Scanner) accepts(path string) bool {
	if parser.DetectLanguage(path) == parser.LangUnknown {
		return false
	}
	return s.headers || !parser.IsHeader(path)
}

// ScanDir recursively scans a directory for translation units, sorted by
// path. Returned paths are absolute. Symlinks that leave the root are
// skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	var files []string

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == absRoot {
			return nil
		}
		relPath, _ := filepath.Rel(s.base, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.isExcluded(relPath, false) && s.accepts(path) {
			files = append(files, path)
		}
		return nil
	})

	slices.Sort(files)
	return files, walkErr
}

// ScanPaths expands every path: directories are scanned and files are kept
// as given, even headers. Duplicates are dropped.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		found, err := s.ScanDir(abs)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanFile checks if a single file should be analyzed.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	if len(s.matchers) == 0 {
		s.loadExcludePatterns(filepath.Dir(path))
	}
	if s.isExcluded(filepath.Base(path), false) {
		return false, nil
	}
	return s.accepts(path), nil
}

// GroupByLanguage groups files by their detected language.
func (s *Scanner) GroupByLanguage(files []string) map[parser.Language][]string {
	groups := make(map[parser.Language][]string)
	for _, f := range files {
		lang := parser.DetectLanguage(f)
		if lang != parser.LangUnknown {
			groups[lang] = append(groups[lang], f)
		}
	}
	return groups
}
