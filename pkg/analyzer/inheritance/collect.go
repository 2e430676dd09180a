package inheritance

import "github.com/panbanda/cxxlens/pkg/ast"

// CollectOption configures Collect.
type CollectOption func(*collector)

type collector struct {
	discover func(*ast.Node)
}

// WithDiscovery calls fn for every declaration as it is collected.
func WithDiscovery(fn func(*ast.Node)) CollectOption {
	return func(c *collector) {
		c.discover = fn
	}
}

// Collect walks the unit in pre-order and returns every record declaration
// located in the primary file. Declarations from included headers are
// skipped. A nil unit yields an empty set.
func Collect(unit *ast.Unit, opts ...CollectOption) CollectedSet {
	c := &collector{}
	for _, opt := range opts {
		opt(c)
	}
	if unit == nil || unit.Root == nil {
		return nil
	}

	var set CollectedSet
	seen := make(map[ast.NodeID]bool)
	ast.Walk(unit.Root, func(n *ast.Node) bool {
		if n.Kind != ast.KindRecord || seen[n.ID] || !unit.IsInPrimaryFile(n.Pos) {
			return true
		}
		seen[n.ID] = true
		set = append(set, n)
		if c.discover != nil {
			c.discover(n)
		}
		return true
	})
	return set
}
