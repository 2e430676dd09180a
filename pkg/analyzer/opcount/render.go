package opcount

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/panbanda/cxxlens/internal/output"
)

// WriteReport writes the node dumps, if any, followed by the two count
// lines.
func (r *Result) WriteReport(w io.Writer) error {
	if _, err := io.WriteString(w, r.Dump); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "flops: %d\nmemops: %d\n", r.Flops, r.Memops)
	return err
}

func (a *Analysis) table() *output.Table {
	rows := make([][]string, 0, len(a.Files))
	for _, f := range a.Files {
		rows = append(rows, []string{f.Path, strconv.Itoa(f.Flops), strconv.Itoa(f.Memops)})
	}
	return output.NewTable("Operation Counts",
		[]string{"File", "Flops", "Memops"},
		rows,
		[]string{"Total", strconv.Itoa(a.Summary.Flops), strconv.Itoa(a.Summary.Memops)},
		a)
}

// RenderText writes the dumps of every file, a per-file table when more
// than one file was analyzed, and the totals.
func (a *Analysis) RenderText(w io.Writer, colored bool) error {
	if len(a.Files) == 1 && !colored {
		return a.Files[0].WriteReport(w)
	}
	for _, f := range a.Files {
		if _, err := io.WriteString(w, f.Dump); err != nil {
			return err
		}
	}
	if len(a.Files) > 1 {
		if err := a.table().RenderText(w, colored); err != nil {
			return err
		}
	}
	if colored {
		color.New(color.FgGreen).Fprintf(w, "flops: %d\n", a.Summary.Flops)
		color.New(color.FgGreen).Fprintf(w, "memops: %d\n", a.Summary.Memops)
		return nil
	}
	_, err := fmt.Fprintf(w, "flops: %d\nmemops: %d\n", a.Summary.Flops, a.Summary.Memops)
	return err
}

// RenderMarkdown writes the per-file table and the matched sites.
func (a *Analysis) RenderMarkdown(w io.Writer) error {
	if err := a.table().RenderMarkdown(w); err != nil {
		return err
	}
	for _, f := range a.Files {
		if len(f.FlopsSites) == 0 && len(f.MemopsSites) == 0 {
			continue
		}
		fmt.Fprintf(w, "### %s\n\n", f.Path)
		writeSites(w, "Floating-point operations", f.FlopsSites)
		writeSites(w, "Variable references", f.MemopsSites)
	}
	return nil
}

func writeSites(w io.Writer, title string, sites []Site) {
	if len(sites) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n\n", title)
	for _, s := range sites {
		fmt.Fprintf(w, "- `%s:%d:%d` %s\n", s.File, s.Line, s.Column, s.Node)
	}
	fmt.Fprintln(w)
}

// RenderData returns the analysis for JSON and TOON serialization.
func (a *Analysis) RenderData() any {
	return a
}
