package inheritance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/panbanda/cxxlens/pkg/ast/treesitter"
	"github.com/panbanda/cxxlens/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, files map[string]string, primary string) *ast.Unit {
	t.Helper()
	fs := testutil.MemFS()
	for path, content := range files {
		testutil.WriteFile(t, fs, path, content)
	}
	p := treesitter.New(treesitter.WithFS(fs))
	defer p.Close()

	unit, err := p.ParseFile(primary)
	require.NoError(t, err)
	return unit
}

func names(nodes []*ast.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func report(t *testing.T, unit *ast.Unit) string {
	t.Helper()
	a := New()
	res, err := a.AnalyzeUnit(context.Background(), unit)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, res.WriteReport(&buf, false))
	return buf.String()
}

func TestParentChild(t *testing.T) {
	unit := parse(t, map[string]string{
		"/src/main.cpp": "class Parent {}; class Child : public Parent {};\n",
	}, "/src/main.cpp")

	set := Collect(unit)
	assert.Equal(t, []string{"Parent", "Child"}, names(set))

	cs := Classify(unit, set)
	require.Len(t, cs, 2)
	assert.Equal(t, BaseOnly, cs[0].Category)
	assert.Equal(t, DerivesFromCollected, cs[1].Category)
	require.Len(t, cs[1].Derivations, 1)
	assert.Same(t, set[0], cs[1].Derivations[0].Base)

	want := "Found class declaration: Parent <1, 1>\n" +
		"Found class declaration: Child <1, 18>\n" +
		"Parent is a base class\n" +
		"Child derives from class: Parent\n"
	assert.Equal(t, want, report(t, unit))
}

func TestExternalBase(t *testing.T) {
	unit := parse(t, map[string]string{
		"/src/main.cpp": "#include <exception>\nclass A {};\nclass B : public std::exception {};\n",
	}, "/src/main.cpp")

	cs := Classify(unit, Collect(unit))
	require.Len(t, cs, 2)
	assert.Equal(t, BaseOnly, cs[0].Category)
	assert.Equal(t, ExternalBasesOnly, cs[1].Category)
	assert.Equal(t, 1, cs[1].BaseCount)
	assert.Empty(t, cs[1].Derivations)

	assert.Contains(t, report(t, unit),
		"B has 1 base class(es) and derives from class(es) outside main file\n")
}

func TestBaseFromIncludedHeader(t *testing.T) {
	unit := parse(t, map[string]string{
		"/src/y.h":      "class Y {};\n",
		"/src/main.cpp": "#include \"y.h\"\nclass X : public Y {};\n",
	}, "/src/main.cpp")

	set := Collect(unit)
	assert.Equal(t, []string{"X"}, names(set), "declarations from headers are not collected")

	cs := Classify(unit, set)
	require.Len(t, cs, 1)
	assert.Equal(t, ExternalBasesOnly, cs[0].Category)
	assert.Equal(t, 1, cs[0].BaseCount)
}

func TestEmptyUnit(t *testing.T) {
	unit := parse(t, map[string]string{"/src/empty.cpp": ""}, "/src/empty.cpp")

	set := Collect(unit)
	assert.Empty(t, set)
	assert.Empty(t, Classify(unit, set))
	assert.Empty(t, report(t, unit))

	assert.Empty(t, Collect(nil))
}

func TestTransitiveAndMultipleDerivations(t *testing.T) {
	src := `struct A {};
struct B : A {};
struct C : B {};
struct M {};
struct D : M, C {};
`
	unit := parse(t, map[string]string{"/src/main.cpp": src}, "/src/main.cpp")
	set := Collect(unit)
	cs := Classify(unit, set)
	require.Len(t, cs, 5)

	derived := func(c Classification) []string {
		var out []string
		for _, d := range c.Derivations {
			out = append(out, d.Base.Name)
		}
		return out
	}
	assert.Equal(t, []string{"A"}, derived(cs[1]))
	assert.Equal(t, []string{"A", "B"}, derived(cs[2]))
	assert.Equal(t, []string{"A", "B", "C", "M"}, derived(cs[4]), "reports follow collected order")

	out := report(t, unit)
	assert.Contains(t, out, "C derives from class: A\nC derives from class: B\n")
}

func TestNestedAndNamespacedDeclarations(t *testing.T) {
	src := `namespace geo {
class Shape {
  struct Cache {};
};
}
class Circle : public geo::Shape {};
`
	unit := parse(t, map[string]string{"/src/main.cpp": src}, "/src/main.cpp")
	set := Collect(unit)
	assert.Equal(t, []string{"Shape", "Cache", "Circle"}, names(set), "pre-order encounter order")

	cs := Classify(unit, set)
	assert.Equal(t, DerivesFromCollected, cs[2].Category)
	assert.Equal(t, "Shape", cs[2].Derivations[0].Base.Name)
}

func TestWithDiscovery(t *testing.T) {
	unit := parse(t, map[string]string{
		"/src/main.cpp": "class A {};\nclass B {};\n",
	}, "/src/main.cpp")

	var seen []string
	Collect(unit, WithDiscovery(func(n *ast.Node) {
		seen = append(seen, n.Name)
	}))
	assert.Equal(t, []string{"A", "B"}, seen)
}

// syntheticUnit builds records directly so hierarchies the front end never
// produces (cycles) can be classified.
func syntheticUnit() (*ast.Unit, map[string]*ast.Node) {
	u := ast.NewUnit("main.cpp", ast.LangCPP)
	nodes := map[string]*ast.Node{}
	add := func(name, file string, line int) *ast.Node {
		n := u.NewNode(ast.KindRecord, ast.Position{File: file, Line: line, Column: 1})
		n.Name = name
		n.TagKind = "class"
		u.Root.Children = append(u.Root.Children, n)
		nodes[name] = n
		return n
	}
	link := func(d, b *ast.Node) {
		spec := ast.BaseSpec{Name: "ext", Target: ast.NoNode}
		if b != nil {
			spec = ast.BaseSpec{Name: b.Name, Target: b.ID}
		}
		d.Bases = append(d.Bases, spec)
	}

	hdr := add("Hdr", "base.h", 1)
	a := add("A", "main.cpp", 1)
	b := add("B", "main.cpp", 2)
	c := add("C", "main.cpp", 3)
	x := add("X", "main.cpp", 4)
	y := add("Y", "main.cpp", 5)
	e := add("E", "main.cpp", 6)
	link(b, a)
	link(c, b)
	link(x, y)
	link(y, x)
	link(e, nil)
	link(e, hdr)
	return u, nodes
}

func TestClassificationProperties(t *testing.T) {
	u, nodes := syntheticUnit()
	set := Collect(u)
	assert.Equal(t, []string{"A", "B", "C", "X", "Y", "E"}, names(set))

	cs := Classify(u, set)
	require.Len(t, cs, len(set), "every declaration gets exactly one category")

	for i, c := range cs {
		assert.Same(t, set[i], c.Decl)
		switch {
		case len(c.Decl.Bases) == 0:
			assert.Equal(t, BaseOnly, c.Category, c.Decl.Name)
		case len(c.Derivations) > 0:
			assert.Equal(t, DerivesFromCollected, c.Category, c.Decl.Name)
		default:
			assert.Equal(t, ExternalBasesOnly, c.Category, c.Decl.Name)
		}
		for _, d := range c.Derivations {
			assert.NotSame(t, c.Decl, d.Base, "a declaration never derives from itself")
		}
	}

	byName := map[string]Classification{}
	for _, c := range cs {
		byName[c.Decl.Name] = c
	}
	assert.Equal(t, DerivesFromCollected, byName["X"].Category)
	assert.Len(t, byName["X"].Derivations, 1)
	assert.Same(t, nodes["Y"], byName["X"].Derivations[0].Base)
	assert.Equal(t, ExternalBasesOnly, byName["E"].Category)
	assert.Equal(t, 2, byName["E"].BaseCount)
}

func TestHierarchy(t *testing.T) {
	u, nodes := syntheticUnit()
	set := Collect(u)
	h := NewHierarchy(u, set)

	assert.Equal(t, []string{"A", "E"}, names(h.Roots()))
	assert.Equal(t, []string{"B"}, names(h.Children(nodes["A"])))
	assert.Equal(t, 2, h.Depth(nodes["C"]))
	assert.Equal(t, 0, h.Depth(nodes["Hdr"]))
	assert.Equal(t, 2, h.MaxDepth())

	cycles := h.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"X", "Y"}, names(cycles[0]))

	assert.Equal(t, names(set), names(h.Order()), "cyclic hierarchy falls back to set order")
}

func TestHierarchyOrder(t *testing.T) {
	src := `struct D;
struct B {};
struct A {};
struct D : B, A {};
struct C : A {};
`
	unit := parse(t, map[string]string{"/src/main.cpp": src}, "/src/main.cpp")
	h := NewHierarchy(unit, Collect(unit))
	assert.Equal(t, []string{"B", "A", "D", "C"}, names(h.Order()))
	assert.Equal(t, []string{"B", "A"}, names(h.Roots()))
}

func TestHierarchyOrderPutsBasesFirst(t *testing.T) {
	u := ast.NewUnit("main.cpp", ast.LangCPP)
	add := func(name string, line int) *ast.Node {
		n := u.NewNode(ast.KindRecord, ast.Position{File: "main.cpp", Line: line, Column: 1})
		n.Name = name
		n.TagKind = "struct"
		u.Root.Children = append(u.Root.Children, n)
		return n
	}
	derived := add("Derived", 1)
	base := add("Base", 2)
	add("Other", 3)
	derived.Bases = []ast.BaseSpec{{Name: "Base", Target: base.ID}}

	result, err := New().AnalyzeUnit(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, []string{"Base", "Derived", "Other"}, names(result.Hierarchy.Order()))

	analysis := &Analysis{Files: []*Result{result}}
	analysis.CalculateSummary()
	var md bytes.Buffer
	require.NoError(t, analysis.RenderMarkdown(&md))
	out := md.String()
	assert.Less(t, strings.Index(out, "| Base "), strings.Index(out, "| Derived "))
	assert.Less(t, strings.Index(out, "| Derived "), strings.Index(out, "| Other "))
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWriteReportPropagatesWriteErrors(t *testing.T) {
	unit := parse(t, map[string]string{"/src/main.cpp": "struct A {};\nstruct B : A {};\n"}, "/src/main.cpp")
	result, err := New().AnalyzeUnit(context.Background(), unit)
	require.NoError(t, err)

	for _, after := range []int{0, 1, 2, 3} {
		err := result.WriteReport(&failingWriter{after: after}, false)
		assert.EqualError(t, err, "disk full", "failing after %d writes", after)
	}
	require.NoError(t, result.WriteReport(&failingWriter{after: 4}, false))
}

func TestAnalyze(t *testing.T) {
	fs := testutil.MemFS()
	testutil.WriteFile(t, fs, "/src/shapes.h", "class Shape { public: virtual ~Shape() {} };\n")
	testutil.WriteFile(t, fs, "/src/a.cpp", "#include \"shapes.h\"\nclass Circle : public Shape {};\n")
	testutil.WriteFile(t, fs, "/src/b.cpp", "class Base {};\nclass Derived : public Base {};\n")

	a := New(WithFS(fs), WithWorkers(2))
	defer a.Close()

	analysis, err := a.Analyze(context.Background(), []string{"/src/a.cpp", "/src/missing.cpp", "/src/b.cpp"})
	require.NoError(t, err)
	require.Len(t, analysis.Files, 2)
	assert.Equal(t, "/src/a.cpp", analysis.Files[0].Path)
	assert.Equal(t, "/src/b.cpp", analysis.Files[1].Path)

	assert.Equal(t, Summary{
		TotalFiles:           2,
		TotalClasses:         3,
		DerivesFromCollected: 1,
		ExternalBasesOnly:    1,
		BaseOnly:             1,
		MaxDepth:             1,
	}, analysis.Summary)

	var text bytes.Buffer
	require.NoError(t, analysis.RenderText(&text, false))
	assert.Contains(t, text.String(), "/src/a.cpp\n==========\n")
	assert.Contains(t, text.String(), "Circle has 1 base class(es) and derives from class(es) outside main file\n")

	var md bytes.Buffer
	require.NoError(t, analysis.RenderMarkdown(&md))
	assert.Contains(t, md.String(), "| Derived | class | 2:1 | derives_from_collected | Base |")
	assert.Contains(t, md.String(), "- Base\n  - Derived\n")

	data, err := json.Marshal(analysis.RenderData())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category":"external_bases_only"`)
}

func TestAnalyzeAllFilesFail(t *testing.T) {
	a := New(WithFS(testutil.MemFS()))
	_, err := a.Analyze(context.Background(), []string{"/nope.cpp"})
	assert.Error(t, err)
}

func TestAnalyzeFixture(t *testing.T) {
	dir, err := filepath.Abs("testdata")
	require.NoError(t, err)
	a := New(WithFS(testutil.CopyDir(t, dir)))
	defer a.Close()

	analysis, err := a.Analyze(context.Background(), []string{filepath.Join(dir, "geometry", "shapes.cpp")})
	require.NoError(t, err)
	require.Len(t, analysis.Files, 1)

	got := map[string]ClassInfo{}
	var order []string
	for _, c := range analysis.Files[0].Classes {
		got[c.Name] = c
		order = append(order, c.Name)
	}
	assert.Equal(t, []string{"Point", "Circle", "Polygon", "Square", "Tile"}, order)

	assert.Equal(t, BaseOnly, got["Point"].Category)
	assert.Equal(t, ExternalBasesOnly, got["Circle"].Category)
	assert.Equal(t, 1, got["Circle"].BaseCount)
	assert.Equal(t, BaseOnly, got["Polygon"].Category)
	assert.Equal(t, []string{"Polygon"}, got["Square"].DerivesFrom)
	assert.Equal(t, DerivesFromCollected, got["Tile"].Category)
	assert.Equal(t, []string{"Circle", "Polygon", "Square"}, got["Tile"].DerivesFrom)
	assert.Equal(t, 2, analysis.Summary.MaxDepth)
}
