package ast

import "github.com/RoaringBitmap/roaring/v2"

// IsDerivedFrom reports whether record d inherits, directly or through
// intermediate bases, from record p. A record never derives from itself.
//
// The walk follows only bases that resolved inside the unit and visits each
// record at most once, so malformed (cyclic) hierarchies terminate.
func (u *Unit) IsDerivedFrom(d, p *Node) bool {
	if u == nil || d == nil || p == nil || d == p {
		return false
	}
	if d.Kind != KindRecord || p.Kind != KindRecord {
		return false
	}
	return u.derives(d, p, roaring.New())
}

func (u *Unit) derives(d, p *Node, visited *roaring.Bitmap) bool {
	if !visited.CheckedAdd(uint32(d.ID)) {
		return false
	}
	for _, b := range d.Bases {
		base := u.Node(b.Target)
		if base == nil {
			continue
		}
		if base == p {
			return true
		}
		if u.derives(base, p, visited) {
			return true
		}
	}
	return false
}

// DirectBases returns the records d names in its base clause that resolved
// inside the unit, in declaration order.
func (u *Unit) DirectBases(d *Node) []*Node {
	if d == nil || d.Kind != KindRecord {
		return nil
	}
	var bases []*Node
	for _, b := range d.Bases {
		if base := u.Node(b.Target); base != nil {
			bases = append(bases, base)
		}
	}
	return bases
}
