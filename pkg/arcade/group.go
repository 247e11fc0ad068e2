package arcade

import (
	"cmp"
	"slices"
)

// Target is anything Collide and Overlap accept: *Body, *Group, *TileLayer
// or a Targets list.
type Target interface {
	collisionTarget()
}

// Targets is a list of targets. A Targets argument is cross-producted
// against the other argument in order.
type Targets []Target

func (*Body) collisionTarget()      {}
func (*Group) collisionTarget()     {}
func (*TileLayer) collisionTarget() {}
func (Targets) collisionTarget()    {}

// Group is an ordered collection of bodies and nested groups. Children
// keeps insertion order for group-vs-group traversal; the body list is
// re-sorted before scans when a sort direction is active.
type Group struct {
	Name string
	// SortDirection overrides the world setting unless it is SortInherit.
	SortDirection SortDirection
	// Disabled groups are skipped by every collision pass.
	Disabled bool

	children []Target
	hash     []*Body
}

// NewGroup creates an empty group that inherits the world sort direction.
func NewGroup(name string, bodies ...*Body) *Group {
	g := &Group{Name: name}
	for _, b := range bodies {
		g.Add(b)
	}
	return g
}

// Add appends b unless it is already a member.
func (g *Group) Add(b *Body) {
	if b == nil || slices.Contains(g.hash, b) {
		return
	}
	g.children = append(g.children, b)
	g.hash = append(g.hash, b)
	b.groups = append(b.groups, g)
}

// AddGroup nests child inside g. Nesting a group inside itself is ignored.
func (g *Group) AddGroup(child *Group) {
	if child == nil || child == g || slices.Contains(g.children, Target(child)) {
		return
	}
	g.children = append(g.children, child)
}

// Remove drops b from the group. Lists are replaced rather than edited in
// place so a pass iterating the old list is unaffected.
func (g *Group) Remove(b *Body) bool {
	i := slices.Index(g.hash, b)
	if i < 0 {
		return false
	}
	g.hash = slices.Delete(slices.Clone(g.hash), i, i+1)
	if j := slices.Index(g.children, Target(b)); j >= 0 {
		g.children = slices.Delete(slices.Clone(g.children), j, j+1)
	}
	if k := slices.Index(b.groups, g); k >= 0 {
		b.groups = slices.Delete(b.groups, k, k+1)
	}
	return true
}

// RemoveGroup drops a nested group.
func (g *Group) RemoveGroup(child *Group) bool {
	j := slices.Index(g.children, Target(child))
	if j < 0 {
		return false
	}
	g.children = slices.Delete(slices.Clone(g.children), j, j+1)
	return true
}

// Len returns the number of direct children, bodies and groups.
func (g *Group) Len() int { return len(g.children) }

// Children returns a copy of the direct children in insertion order.
func (g *Group) Children() []Target { return slices.Clone(g.children) }

// Bodies returns a copy of the direct body members in scan order.
func (g *Group) Bodies() []*Body { return slices.Clone(g.hash) }

// Walk calls fn for every body in g and its nested groups, depth first.
func (g *Group) Walk(fn func(b *Body)) {
	for _, c := range g.children {
		switch c := c.(type) {
		case *Body:
			fn(c)
		case *Group:
			c.Walk(fn)
		}
	}
}

func (g *Group) exists() bool { return g != nil && !g.Disabled }

// sortBodies orders the body list for dir. Right-to-left and bottom-to-top
// sort on the far edge so the early exit in a scan stays exact for bodies
// of different sizes.
func (g *Group) sortBodies(dir SortDirection) {
	var key func(b *Body) float64
	desc := false
	switch dir {
	case SortLeftRight:
		key = (*Body).Left
	case SortRightLeft:
		key, desc = (*Body).Right, true
	case SortTopBottom:
		key = (*Body).Top
	case SortBottomTop:
		key, desc = (*Body).Bottom, true
	default:
		return
	}
	less := func(a, b *Body) int {
		if desc {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	}
	if slices.IsSortedFunc(g.hash, less) {
		return
	}
	// Sort a copy; an outer pass may still be scanning the old list.
	sorted := slices.Clone(g.hash)
	slices.SortStableFunc(sorted, less)
	g.hash = sorted
}
