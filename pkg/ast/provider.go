package ast

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is returned when parsing a file with an unsupported language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language represents a programming language.
type Language string

const (
	LangC       Language = "c"
	LangCPP     Language = "cpp"
	LangUnknown Language = "unknown"
)

func (l Language) String() string { return string(l) }

// Position represents a location in source code.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

// IsValid reports whether the position points into a file.
func (p Position) IsValid() bool {
	return p.File != "" && p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "<invalid>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Provider builds translation units from source files.
type Provider interface {
	// ParseFile parses the primary file and everything it includes.
	ParseFile(path string) (*Unit, error)

	// Language returns the detected language for a file path.
	Language(path string) Language

	// Close releases provider resources.
	Close()
}
