package inheritance

import (
	"cmp"
	"errors"
	"slices"

	"github.com/panbanda/cxxlens/pkg/ast"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Hierarchy is the graph of direct base relations between collected
// declarations. Edges point from base to derived.
type Hierarchy struct {
	set   CollectedSet
	g     *simple.DirectedGraph
	index map[ast.NodeID]int64
}

// NewHierarchy builds the hierarchy of set. Bases that resolve outside the
// set contribute no edge.
func NewHierarchy(unit *ast.Unit, set CollectedSet) *Hierarchy {
	h := &Hierarchy{
		set:   set,
		g:     simple.NewDirectedGraph(),
		index: make(map[ast.NodeID]int64, len(set)),
	}
	for i, d := range set {
		h.index[d.ID] = int64(i)
		h.g.AddNode(simple.Node(i))
	}
	for i, d := range set {
		for _, base := range unit.DirectBases(d) {
			from, ok := h.index[base.ID]
			// gonum simple graphs reject self-loops
			if !ok || from == int64(i) {
				continue
			}
			h.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(i)})
		}
	}
	return h
}

func (h *Hierarchy) decl(n graph.Node) *ast.Node {
	return h.set[n.ID()]
}

// Roots returns the collected declarations with no collected base, in set
// order.
func (h *Hierarchy) Roots() []*ast.Node {
	var roots []*ast.Node
	for i, d := range h.set {
		if h.g.To(int64(i)).Len() == 0 {
			roots = append(roots, d)
		}
	}
	return roots
}

// Children returns the declarations that name d as a direct base.
func (h *Hierarchy) Children(d *ast.Node) []*ast.Node {
	id, ok := h.index[d.ID]
	if !ok {
		return nil
	}
	var out []*ast.Node
	for _, n := range graph.NodesOf(h.g.From(id)) {
		out = append(out, h.decl(n))
	}
	slices.SortFunc(out, func(a, b *ast.Node) int {
		return int(h.index[a.ID] - h.index[b.ID])
	})
	return out
}

// Order returns the declarations with every base before the classes
// deriving from it. Independent declarations keep a stable order driven by
// set order. A cyclic hierarchy falls back to set order.
func (h *Hierarchy) Order() []*ast.Node {
	sorted, err := topo.SortStabilized(h.g, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) int {
			return cmp.Compare(a.ID(), b.ID())
		})
	})
	var unorderable topo.Unorderable
	if errors.As(err, &unorderable) {
		return slices.Clone(h.set)
	}

	out := make([]*ast.Node, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, h.decl(n))
	}
	return out
}

// Cycles returns groups of declarations that derive from each other.
func (h *Hierarchy) Cycles() [][]*ast.Node {
	var cycles [][]*ast.Node
	for _, scc := range topo.TarjanSCC(h.g) {
		if len(scc) < 2 {
			continue
		}
		group := make([]*ast.Node, 0, len(scc))
		for _, n := range scc {
			group = append(group, h.decl(n))
		}
		slices.SortFunc(group, func(a, b *ast.Node) int {
			return int(h.index[a.ID] - h.index[b.ID])
		})
		cycles = append(cycles, group)
	}
	return cycles
}

// Depth returns the length of the longest chain of collected bases above d.
func (h *Hierarchy) Depth(d *ast.Node) int {
	id, ok := h.index[d.ID]
	if !ok {
		return 0
	}
	return h.depth(id, make(map[int64]bool))
}

func (h *Hierarchy) depth(id int64, visiting map[int64]bool) int {
	if visiting[id] {
		return 0
	}
	visiting[id] = true
	defer delete(visiting, id)

	best := 0
	for _, base := range graph.NodesOf(h.g.To(id)) {
		best = max(best, h.depth(base.ID(), visiting)+1)
	}
	return best
}

// MaxDepth returns the deepest inheritance chain in the hierarchy.
func (h *Hierarchy) MaxDepth() int {
	best := 0
	for _, d := range h.set {
		best = max(best, h.Depth(d))
	}
	return best
}
