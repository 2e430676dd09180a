package inheritance

import (
	"time"

	"github.com/panbanda/cxxlens/pkg/ast"
)

// Category classifies a collected declaration by where its bases live.
type Category string

const (
	// DerivesFromCollected means the declaration derives, directly or
	// transitively, from another declaration of the same file.
	DerivesFromCollected Category = "derives_from_collected"
	// ExternalBasesOnly means the declaration has bases, none of which
	// lead back into the collected set.
	ExternalBasesOnly Category = "external_bases_only"
	// BaseOnly means the declaration has no bases.
	BaseOnly Category = "base_only"
)

func (c Category) String() string { return string(c) }

// CollectedSet is the ordered list of record declarations found in the
// primary file, in pre-order encounter order.
type CollectedSet []*ast.Node

// Derivation is one "derives from" finding.
type Derivation struct {
	Base *ast.Node
}

// Classification is the result for one collected declaration.
type Classification struct {
	Decl        *ast.Node
	Category    Category
	Derivations []Derivation
	BaseCount   int
}

// Result is the inheritance report for one translation unit.
type Result struct {
	Path            string           `json:"path" toon:"path"`
	Classes         []ClassInfo      `json:"classes" toon:"classes"`
	Classifications []Classification `json:"-" toon:"-"`
	Hierarchy       *Hierarchy       `json:"-" toon:"-"`
}

// ClassInfo is the serializable form of a Classification.
type ClassInfo struct {
	Name        string   `json:"name" toon:"name"`
	Kind        string   `json:"kind" toon:"kind"`
	Line        int      `json:"line" toon:"line"`
	Column      int      `json:"column" toon:"column"`
	Category    Category `json:"category" toon:"category"`
	BaseCount   int      `json:"base_count" toon:"base_count"`
	DerivesFrom []string `json:"derives_from,omitempty" toon:"derives_from,omitempty"`
}

// Summary counts classifications across every analyzed file.
type Summary struct {
	TotalFiles           int `json:"total_files" toon:"total_files"`
	TotalClasses         int `json:"total_classes" toon:"total_classes"`
	DerivesFromCollected int `json:"derives_from_collected" toon:"derives_from_collected"`
	ExternalBasesOnly    int `json:"external_bases_only" toon:"external_bases_only"`
	BaseOnly             int `json:"base_only" toon:"base_only"`
	MaxDepth             int `json:"max_depth" toon:"max_depth"`
}

// Analysis is the inheritance analysis of a set of files.
type Analysis struct {
	GeneratedAt time.Time `json:"generated_at" toon:"generated_at"`
	Files       []*Result `json:"files" toon:"files"`
	Summary     Summary   `json:"summary" toon:"summary"`
}

// CalculateSummary computes summary statistics.
func (a *Analysis) CalculateSummary() {
	s := Summary{TotalFiles: len(a.Files)}
	for _, f := range a.Files {
		for _, c := range f.Classes {
			s.TotalClasses++
			switch c.Category {
			case DerivesFromCollected:
				s.DerivesFromCollected++
			case ExternalBasesOnly:
				s.ExternalBasesOnly++
			case BaseOnly:
				s.BaseOnly++
			}
		}
		if f.Hierarchy != nil {
			s.MaxDepth = max(s.MaxDepth, f.Hierarchy.MaxDepth())
		}
	}
	a.Summary = s
}

func newClassInfo(c Classification) ClassInfo {
	info := ClassInfo{
		Name:      c.Decl.Name,
		Kind:      c.Decl.TagKind,
		Line:      c.Decl.Pos.Line,
		Column:    c.Decl.Pos.Column,
		Category:  c.Category,
		BaseCount: c.BaseCount,
	}
	for _, d := range c.Derivations {
		info.DerivesFrom = append(info.DerivesFrom, d.Base.Name)
	}
	return info
}
