package inheritance

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/cxxlens/internal/output"
	"github.com/panbanda/cxxlens/pkg/ast"
)

// WriteReport writes the per-declaration report in collected order: one
// discovery line per declaration, then one or more classification lines
// per declaration. It stops at the first write error.
func (r *Result) WriteReport(w io.Writer, colored bool) error {
	paint := func(attr color.Attribute, format string, args ...any) error {
		if colored {
			_, err := color.New(attr).Fprintf(w, format, args...)
			return err
		}
		_, err := fmt.Fprintf(w, format, args...)
		return err
	}

	for _, c := range r.Classifications {
		if _, err := fmt.Fprintf(w, "Found class declaration: %s <%d, %d>\n",
			c.Decl.Name, c.Decl.Pos.Line, c.Decl.Pos.Column); err != nil {
			return err
		}
	}
	for _, c := range r.Classifications {
		var err error
		switch c.Category {
		case DerivesFromCollected:
			for _, d := range c.Derivations {
				if err = paint(color.FgGreen, "%s derives from class: %s\n", c.Decl.Name, d.Base.Name); err != nil {
					break
				}
			}
		case ExternalBasesOnly:
			err = paint(color.FgYellow, "%s has %d base class(es) and derives from class(es) outside main file\n",
				c.Decl.Name, c.BaseCount)
		default:
			err = paint(color.FgCyan, "%s is a base class\n", c.Decl.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderText writes the report of every file. Files are headed by their path
// when more than one was analyzed.
func (a *Analysis) RenderText(w io.Writer, colored bool) error {
	for i, f := range a.Files {
		if len(a.Files) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if colored {
				color.New(color.Bold).Fprintln(w, f.Path)
			} else {
				fmt.Fprintln(w, f.Path)
			}
			fmt.Fprintln(w, strings.Repeat("=", len(f.Path)))
		}
		if err := f.WriteReport(w, colored); err != nil {
			return err
		}
	}
	return nil
}

// RenderMarkdown writes a table per file, bases listed before the classes
// deriving from them, followed by the class hierarchy as a nested list.
func (a *Analysis) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "# Inheritance")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d classes in %d files: %d derive from collected classes, %d have only external bases, %d are base classes.\n\n",
		a.Summary.TotalClasses, a.Summary.TotalFiles,
		a.Summary.DerivesFromCollected, a.Summary.ExternalBasesOnly, a.Summary.BaseOnly)

	for _, f := range a.Files {
		fmt.Fprintf(w, "## %s\n\n", f.Path)
		if len(f.Classes) == 0 {
			fmt.Fprintln(w, "No class declarations.")
			fmt.Fprintln(w)
			continue
		}

		rows := make([][]string, 0, len(f.Classes))
		for _, c := range f.orderedClasses() {
			rows = append(rows, []string{
				displayName(c.Name), c.Kind, fmt.Sprintf("%d:%d", c.Line, c.Column),
				c.Category.String(), strings.Join(c.DerivesFrom, ", "),
			})
		}
		table := output.NewTable("", []string{"Class", "Kind", "Location", "Category", "Derives From"}, rows, nil, nil)
		if err := table.RenderMarkdown(w); err != nil {
			return err
		}

		if f.Hierarchy == nil {
			continue
		}
		fmt.Fprintln(w, "### Hierarchy")
		fmt.Fprintln(w)
		for _, root := range f.Hierarchy.Roots() {
			writeTree(w, f.Hierarchy, root, 0, make(map[ast.NodeID]bool))
		}
		for _, cycle := range f.Hierarchy.Cycles() {
			names := make([]string, len(cycle))
			for i, n := range cycle {
				names[i] = displayName(n.Name)
			}
			fmt.Fprintf(w, "- cycle: %s\n", strings.Join(names, " -> "))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// orderedClasses returns the class rows in hierarchy order, or in collected
// order when no hierarchy was built.
func (r *Result) orderedClasses() []ClassInfo {
	if r.Hierarchy == nil || len(r.Classifications) != len(r.Classes) {
		return r.Classes
	}
	byDecl := make(map[ast.NodeID]ClassInfo, len(r.Classes))
	for i, c := range r.Classifications {
		byDecl[c.Decl.ID] = r.Classes[i]
	}
	out := make([]ClassInfo, 0, len(r.Classes))
	for _, d := range r.Hierarchy.Order() {
		if info, ok := byDecl[d.ID]; ok {
			out = append(out, info)
		}
	}
	return out
}

func writeTree(w io.Writer, h *Hierarchy, n *ast.Node, depth int, seen map[ast.NodeID]bool) {
	if seen[n.ID] {
		return
	}
	seen[n.ID] = true
	fmt.Fprintf(w, "%s- %s\n", strings.Repeat("  ", depth), displayName(n.Name))
	for _, child := range h.Children(n) {
		writeTree(w, h, child, depth+1, seen)
	}
	delete(seen, n.ID)
}

func displayName(name string) string {
	if name == "" {
		return "(anonymous)"
	}
	return name
}

// RenderData returns the analysis for JSON and TOON serialization.
func (a *Analysis) RenderData() any {
	return a
}
