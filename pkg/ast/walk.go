package ast

import "iter"

// Visitor is called for each node during Walk. Returning false skips the
// node's children.
type Visitor func(n *Node) bool

// Walk traverses the tree rooted at n in pre-order.
func Walk(n *Node, visit Visitor) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// Descendants yields n and then every node below it in pre-order. The walk
// stops as soon as the consumer stops ranging.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		descend(n, yield)
	}
}

func descend(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !descend(c, yield) {
			return false
		}
	}
	return true
}

// FindNodes returns all nodes under root matching a predicate.
func FindNodes(root *Node, predicate func(*Node) bool) []*Node {
	var results []*Node
	Walk(root, func(n *Node) bool {
		if predicate(n) {
			results = append(results, n)
		}
		return true
	})
	return results
}

// FindByKind returns all nodes of a specific kind.
func FindByKind(root *Node, kind Kind) []*Node {
	return FindNodes(root, func(n *Node) bool {
		return n.Kind == kind
	})
}
