package inheritance

import "github.com/panbanda/cxxlens/pkg/ast"

// Classify assigns a category to every member of set, in set order. For
// each declaration every other member it derives from is reported, also in
// set order.
func Classify(unit *ast.Unit, set CollectedSet) []Classification {
	out := make([]Classification, 0, len(set))
	for _, d := range set {
		if d == nil {
			continue
		}

		c := Classification{Decl: d, BaseCount: d.BaseCount()}
		for _, p := range set {
			if p == nil || p == d {
				continue
			}
			if unit.IsDerivedFrom(d, p) {
				c.Derivations = append(c.Derivations, Derivation{Base: p})
			}
		}

		switch {
		case len(c.Derivations) > 0:
			c.Category = DerivesFromCollected
		case c.BaseCount > 0:
			c.Category = ExternalBasesOnly
		default:
			c.Category = BaseOnly
		}
		out = append(out, c)
	}
	return out
}
