package ast

// Unit is one parsed translation unit. It owns every node reachable from
// Root; nodes refer to each other through NodeIDs into the unit's arena.
type Unit struct {
	// Path is the primary file the unit was built from.
	Path     string
	Language Language
	Root     *Node

	nodes []*Node
	files []string
}

// NewUnit creates an empty unit whose root is a translation-unit node.
func NewUnit(path string, lang Language) *Unit {
	u := &Unit{Path: path, Language: lang}
	u.Root = u.NewNode(KindTranslationUnit, Position{File: path, Line: 1, Column: 1})
	u.Root.Name = path
	u.files = append(u.files, path)
	return u
}

// NewNode allocates a node in the unit's arena. The caller attaches it to
// its parent.
func (u *Unit) NewNode(kind Kind, pos Position) *Node {
	n := &Node{
		ID:     NodeID(len(u.nodes)),
		Kind:   kind,
		Pos:    pos,
		Target: NoNode,
		unit:   u,
	}
	u.nodes = append(u.nodes, n)
	return n
}

// Node looks up a node by ID. It returns nil for NoNode or an unknown ID.
func (u *Unit) Node(id NodeID) *Node {
	if u == nil || id < 0 || int(id) >= len(u.nodes) {
		return nil
	}
	return u.nodes[id]
}

// Len returns the number of nodes in the arena.
func (u *Unit) Len() int {
	if u == nil {
		return 0
	}
	return len(u.nodes)
}

// AddFile records a header spliced into the unit.
func (u *Unit) AddFile(path string) {
	u.files = append(u.files, path)
}

// Files returns the primary file followed by every included file, in
// inclusion order.
func (u *Unit) Files() []string {
	if u == nil {
		return nil
	}
	return u.files
}

// IsInPrimaryFile reports whether pos lies in the unit's primary file.
func (u *Unit) IsInPrimaryFile(pos Position) bool {
	return u != nil && pos.IsValid() && pos.File == u.Path
}

// ResolvesTo returns the declaration a reference expression names.
func (u *Unit) ResolvesTo(ref *Node) *Node {
	if ref == nil || ref.unit != u {
		return nil
	}
	return ref.ResolvesTo()
}

// Base returns the record a base specifier resolved to, or nil when the
// base is external to the unit.
func (u *Unit) Base(b BaseSpec) *Node {
	return u.Node(b.Target)
}
