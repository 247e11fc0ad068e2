package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Default limits used when Reset is given non-positive values.
const (
	DefaultMaxObjects = 10
	DefaultMaxLevels  = 4
)

// Quadrant positions inside a split node, in insertion order.
const (
	quadTopRight = iota
	quadTopLeft
	quadBottomLeft
	quadBottomRight
)

const noChildren = -1

// QuadTree is a broad-phase index over a rectangular region. It is meant to
// be rebuilt for every query batch: Clear and Reset keep the allocated node
// arena so repopulating does not allocate in the steady state.
//
// Regions and item bounds are stored as cp.BB with L/R the horizontal
// extent and B/T the vertical extent (B is the smaller y, the top edge on
// screen).
type QuadTree[T any] struct {
	maxObjects int
	maxLevels  int
	nodes      []quadNode
	entries    []quadEntry[T]
	stack      []int32
}

type quadNode struct {
	region   cp.BB
	splitX   float64
	splitY   float64
	level    int
	items    []int32
	children int32
}

type quadEntry[T any] struct {
	bounds cp.BB
	item   T
}

// NewQuadTree creates an index covering the given region.
func NewQuadTree[T any](x, y, width, height float64, maxObjects, maxLevels int) *QuadTree[T] {
	qt := &QuadTree[T]{}
	qt.Reset(x, y, width, height, maxObjects, maxLevels)
	return qt
}

// Reset discards every node and item and reinitializes the root region and
// the subdivision limits.
func (qt *QuadTree[T]) Reset(x, y, width, height float64, maxObjects, maxLevels int) {
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}
	if maxLevels <= 0 {
		maxLevels = DefaultMaxLevels
	}
	qt.maxObjects = maxObjects
	qt.maxLevels = maxLevels
	qt.nodes = qt.nodes[:0]
	clear(qt.entries)
	qt.entries = qt.entries[:0]
	qt.newNode(math.Round(x), math.Round(y), width, height, 0)
}

// Clear removes all items and child nodes but keeps the root region.
func (qt *QuadTree[T]) Clear() {
	var root quadNode
	hasRoot := len(qt.nodes) > 0
	if hasRoot {
		root = qt.nodes[0]
	}
	qt.nodes = qt.nodes[:0]
	clear(qt.entries)
	qt.entries = qt.entries[:0]
	if hasRoot {
		r := root.region
		qt.newNode(r.L, r.B, r.R-r.L, r.T-r.B, 0)
	}
}

// Region returns the root region as a Rect.
func (qt *QuadTree[T]) Region() Rect {
	if len(qt.nodes) == 0 {
		return Rect{}
	}
	return bbToRect(qt.nodes[0].region)
}

// Len returns the number of inserted items.
func (qt *QuadTree[T]) Len() int { return len(qt.entries) }

// NodeCount returns the number of live nodes, root included.
func (qt *QuadTree[T]) NodeCount() int { return len(qt.nodes) }

// Depth returns the deepest level that has been created.
func (qt *QuadTree[T]) Depth() int {
	depth := 0
	for i := range qt.nodes {
		if qt.nodes[i].level > depth {
			depth = qt.nodes[i].level
		}
	}
	return depth
}

// Insert adds item with the given bounds. Nodes split lazily once they
// hold more than maxObjects items and have not reached maxLevels.
func (qt *QuadTree[T]) Insert(bounds Rect, item T) {
	if len(qt.nodes) == 0 {
		qt.Reset(bounds.X, bounds.Y, bounds.Width, bounds.Height, qt.maxObjects, qt.maxLevels)
	}
	qt.entries = append(qt.entries, quadEntry[T]{bounds: rectToBB(bounds), item: item})
	qt.insert(0, int32(len(qt.entries)-1))
}

func (qt *QuadTree[T]) insert(n int32, e int32) {
	bb := qt.entries[e].bounds
	for qt.nodes[n].children != noChildren {
		q := qt.quadrant(n, bb)
		if q < 0 {
			break
		}
		n = qt.nodes[n].children + int32(q)
	}

	qt.nodes[n].items = append(qt.nodes[n].items, e)
	if len(qt.nodes[n].items) <= qt.maxObjects || qt.nodes[n].level >= qt.maxLevels {
		return
	}

	if qt.nodes[n].children == noChildren {
		qt.split(n)
	}

	items := qt.nodes[n].items
	i := 0
	for i < len(items) {
		q := qt.quadrant(n, qt.entries[items[i]].bounds)
		if q < 0 {
			i++
			continue
		}
		moved := items[i]
		items = append(items[:i], items[i+1:]...)
		qt.nodes[n].items = items
		qt.insert(qt.nodes[n].children+int32(q), moved)
		items = qt.nodes[n].items
	}
}

func (qt *QuadTree[T]) split(n int32) {
	node := qt.nodes[n]
	subW := math.Floor((node.region.R - node.region.L) / 2)
	subH := math.Floor((node.region.T - node.region.B) / 2)
	level := node.level + 1

	first := qt.newNode(node.splitX, node.region.B, subW, subH, level)
	qt.newNode(node.region.L, node.region.B, subW, subH, level)
	qt.newNode(node.region.L, node.splitY, subW, subH, level)
	qt.newNode(node.splitX, node.splitY, subW, subH, level)
	qt.nodes[n].children = first
}

func (qt *QuadTree[T]) newNode(x, y, width, height float64, level int) int32 {
	idx := len(qt.nodes)
	if idx < cap(qt.nodes) {
		qt.nodes = qt.nodes[:idx+1]
	} else {
		qt.nodes = append(qt.nodes, quadNode{})
	}
	node := &qt.nodes[idx]
	node.region = cp.BB{L: x, B: y, R: x + width, T: y + height}
	node.splitX = x + math.Floor(width/2)
	node.splitY = y + math.Floor(height/2)
	node.level = level
	node.items = node.items[:0]
	node.children = noChildren
	return int32(idx)
}

// quadrant returns which child of n fully contains bb, or -1 when bb
// straddles a split line.
func (qt *QuadTree[T]) quadrant(n int32, bb cp.BB) int {
	node := &qt.nodes[n]
	top := bb.B < node.splitY && bb.T < node.splitY
	bottom := bb.B > node.splitY

	if bb.L < node.splitX && bb.R < node.splitX {
		switch {
		case top:
			return quadTopLeft
		case bottom:
			return quadBottomLeft
		}
	} else if bb.L > node.splitX {
		switch {
		case top:
			return quadTopRight
		case bottom:
			return quadBottomRight
		}
	}
	return -1
}

// Retrieve returns every item stored in a node that bounds could fall in.
// The result is a candidate superset; callers still run an exact test.
func (qt *QuadTree[T]) Retrieve(bounds Rect) []T {
	return qt.AppendRetrieve(nil, bounds)
}

// AppendRetrieve is Retrieve appending into dst.
func (qt *QuadTree[T]) AppendRetrieve(dst []T, bounds Rect) []T {
	if len(qt.nodes) == 0 {
		return dst
	}
	bb := rectToBB(bounds)
	n := int32(0)
	for {
		for _, e := range qt.nodes[n].items {
			dst = append(dst, qt.entries[e].item)
		}
		first := qt.nodes[n].children
		if first == noChildren {
			return dst
		}
		q := qt.quadrant(n, bb)
		if q < 0 {
			return qt.appendSubtrees(dst, first)
		}
		n = first + int32(q)
	}
}

func (qt *QuadTree[T]) appendSubtrees(dst []T, first int32) []T {
	qt.stack = append(qt.stack[:0], first+3, first+2, first+1, first)
	for len(qt.stack) > 0 {
		n := qt.stack[len(qt.stack)-1]
		qt.stack = qt.stack[:len(qt.stack)-1]
		for _, e := range qt.nodes[n].items {
			dst = append(dst, qt.entries[e].item)
		}
		if c := qt.nodes[n].children; c != noChildren {
			qt.stack = append(qt.stack, c+3, c+2, c+1, c)
		}
	}
	return dst
}

// RetrieveRegion returns only the items whose bounds touch area. Children
// are pruned by the split lines items were filed under, so items lying
// outside the root region are still found.
func (qt *QuadTree[T]) RetrieveRegion(area Rect) []T {
	if len(qt.nodes) == 0 {
		return nil
	}
	bb := rectToBB(area)
	var found []T
	qt.stack = append(qt.stack[:0], 0)
	for len(qt.stack) > 0 {
		n := qt.stack[len(qt.stack)-1]
		qt.stack = qt.stack[:len(qt.stack)-1]
		node := &qt.nodes[n]
		for _, e := range node.items {
			if qt.entries[e].bounds.Intersects(bb) {
				found = append(found, qt.entries[e].item)
			}
		}
		first := node.children
		if first == noChildren {
			continue
		}
		left, right := bb.L < node.splitX, bb.R > node.splitX
		top, bottom := bb.B < node.splitY, bb.T > node.splitY
		if bottom && right {
			qt.stack = append(qt.stack, first+quadBottomRight)
		}
		if bottom && left {
			qt.stack = append(qt.stack, first+quadBottomLeft)
		}
		if top && left {
			qt.stack = append(qt.stack, first+quadTopLeft)
		}
		if top && right {
			qt.stack = append(qt.stack, first+quadTopRight)
		}
	}
	return found
}

func rectToBB(r Rect) cp.BB {
	return cp.BB{L: r.X, B: r.Y, R: r.Right(), T: r.Bottom()}
}

func bbToRect(bb cp.BB) Rect {
	return Rect{X: bb.L, Y: bb.B, Width: bb.R - bb.L, Height: bb.T - bb.B}
}
