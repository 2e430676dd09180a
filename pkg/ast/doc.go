// Package ast is the in-memory syntax model every cxxlens analysis runs on.
//
// A Unit holds one translation unit: the primary source file plus every
// quoted header the front end spliced in. Nodes form a closed set of kinds
// (declarations, statements and expressions) with per-kind accessors, and
// cross references between nodes (a base class, the target of a variable
// reference) are NodeIDs looked up in the unit's arena rather than owning
// pointers.
//
// Units are built by a front end (see package treesitter) and are read-only
// afterwards.
//
// Usage:
//
//	provider := treesitter.New()
//	defer provider.Close()
//
//	unit, err := provider.ParseFile("shapes.cpp")
//	if err != nil {
//	    return err
//	}
//
//	ast.Walk(unit.Root, func(n *ast.Node) bool {
//	    if n.Kind == ast.KindRecord && unit.IsInPrimaryFile(n.Pos) {
//	        fmt.Printf("%s at line %d\n", n.Name, n.Pos.Line)
//	    }
//	    return true
//	})
package ast
