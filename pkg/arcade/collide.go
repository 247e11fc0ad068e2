package arcade

import (
	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

// Collide separates every intersecting pair drawn from a and b and reports
// whether at least one pair was separated. b may be nil to test a group
// against itself. onCollide receives the owners of each separated pair
// (for tiles, the owner and the *tilemap.Tile); body-vs-group pairs always
// list the body first. process may veto a pair before separation.
func (w *World) Collide(a, b Target, onCollide PairFunc, process ProcessFunc) bool {
	return w.run(a, b, onCollide, process, false)
}

// Overlap is Collide without position or velocity changes.
func (w *World) Overlap(a, b Target, onOverlap PairFunc, process ProcessFunc) bool {
	return w.run(a, b, onOverlap, process, true)
}

// pass carries the state of one Collide or Overlap call so callbacks may
// start nested calls safely.
type pass struct {
	w           *World
	cb          PairFunc
	process     ProcessFunc
	overlapOnly bool
	total       int
}

func (w *World) run(a, b Target, cb PairFunc, process ProcessFunc, overlapOnly bool) bool {
	p := &pass{w: w, cb: cb, process: process, overlapOnly: overlapOnly}

	first := flatten(nil, a)
	if b == nil {
		for _, x := range first {
			p.handle(x, nil)
		}
		return p.total > 0
	}

	second := flatten(nil, b)
	for _, x := range first {
		for _, y := range second {
			p.handle(x, y)
		}
	}
	return p.total > 0
}

func flatten(dst []Target, t Target) []Target {
	if ts, ok := t.(Targets); ok {
		for _, x := range ts {
			dst = flatten(dst, x)
		}
		return dst
	}
	if t != nil {
		dst = append(dst, t)
	}
	return dst
}

func targetExists(t Target) bool {
	switch t := t.(type) {
	case *Body:
		return t.exists()
	case *Group:
		return t.exists()
	case *TileLayer:
		return t.exists()
	}
	return false
}

// handle dispatches one pair of targets by kind.
func (p *pass) handle(a, b Target) {
	w := p.w
	if b == nil {
		if g, ok := a.(*Group); ok && g.exists() {
			g.sortBodies(w.effectiveSort(g))
			p.groupVsSelf(g)
		}
		return
	}
	if !targetExists(a) || !targetExists(b) {
		return
	}

	if g, ok := a.(*Group); ok {
		g.sortBodies(w.effectiveSort(g))
	}
	if g, ok := b.(*Group); ok && b != a {
		g.sortBodies(w.effectiveSort(g))
	}

	switch a := a.(type) {
	case *Body:
		switch b := b.(type) {
		case *Body:
			p.bodyVsBody(a, b)
		case *Group:
			p.bodyVsGroup(a, b)
		case *TileLayer:
			p.bodyVsTiles(a, b)
		}
	case *Group:
		switch b := b.(type) {
		case *Body:
			p.bodyVsGroup(b, a)
		case *Group:
			p.groupVsGroup(a, b)
		case *TileLayer:
			p.groupVsTiles(a, b)
		}
	case *TileLayer:
		switch b := b.(type) {
		case *Body:
			p.bodyVsTiles(b, a)
		case *Group:
			p.groupVsTiles(b, a)
		}
	}
}

func (p *pass) bodyVsBody(a, b *Body) {
	if !a.exists() || !b.exists() {
		return
	}
	if p.w.Separate(a, b, p.process, p.overlapOnly) {
		p.total++
		if p.cb != nil {
			p.cb(a.ownerValue(), b.ownerValue())
		}
	}
}

// bodyVsGroup tests b against the direct body members of g, either with
// a sorted scan that stops once members are out of reach or through the
// quadtree.
func (p *pass) bodyVsGroup(b *Body, g *Group) {
	if len(g.hash) == 0 || !b.exists() {
		return
	}
	w := p.w

	if !w.SkipQuadTree && !b.SkipQuadTree {
		qt := w.quadTree
		qt.Reset(w.Bounds.X, w.Bounds.Y, w.Bounds.Width, w.Bounds.Height, w.MaxObjects, w.MaxLevels)
		for _, other := range g.hash {
			if other.exists() {
				qt.Insert(other.Bounds(), other)
			}
		}
		for _, other := range qt.Retrieve(b.Bounds()) {
			p.bodyVsBody(b, other)
		}
		return
	}

	dir := w.effectiveSort(g)
	sb := b.Bounds()
	for _, other := range g.hash {
		if !other.exists() {
			continue
		}
		ob := other.Bounds()
		switch dir {
		case SortLeftRight:
			if sb.Right() < ob.X {
				return
			}
			if ob.Right() < sb.X {
				continue
			}
		case SortRightLeft:
			if sb.X > ob.Right() {
				return
			}
			if ob.X > sb.Right() {
				continue
			}
		case SortTopBottom:
			if sb.Bottom() < ob.Y {
				return
			}
			if ob.Bottom() < sb.Y {
				continue
			}
		case SortBottomTop:
			if sb.Y > ob.Bottom() {
				return
			}
			if ob.Y > sb.Bottom() {
				continue
			}
		}
		p.bodyVsBody(b, other)
	}
}

// groupVsSelf tests every unique pair of direct members once.
func (p *pass) groupVsSelf(g *Group) {
	hash := g.hash
	if len(hash) == 0 {
		return
	}
	dir := p.w.effectiveSort(g)

	for i := 0; i < len(hash); i++ {
		b1 := hash[i]
		if !b1.exists() {
			continue
		}
		bb1 := b1.Bounds()

	pairs:
		for j := i + 1; j < len(hash); j++ {
			b2 := hash[j]
			if !b2.exists() {
				continue
			}
			bb2 := b2.Bounds()
			switch dir {
			case SortLeftRight:
				if bb1.Right() < bb2.X {
					break pairs
				}
			case SortRightLeft:
				if bb2.Right() < bb1.X {
					break pairs
				}
			case SortTopBottom:
				if bb1.Bottom() < bb2.Y {
					break pairs
				}
			case SortBottomTop:
				if bb2.Bottom() < bb1.Y {
					break pairs
				}
			}
			p.bodyVsBody(b1, b2)
		}
	}
}

// groupVsGroup tests every child of g1, recursing into nested groups,
// against the body members of g2.
func (p *pass) groupVsGroup(g1, g2 *Group) {
	if g1.Len() == 0 || g2.Len() == 0 {
		return
	}
	for _, c := range g1.children {
		switch c := c.(type) {
		case *Group:
			if c.exists() {
				p.groupVsGroup(c, g2)
			}
		case *Body:
			if c.exists() {
				p.bodyVsGroup(c, g2)
			}
		}
	}
}

func (p *pass) groupVsTiles(g *Group, layer *TileLayer) {
	for _, c := range g.children {
		switch c := c.(type) {
		case *Group:
			if c.exists() {
				p.groupVsTiles(c, layer)
			}
		case *Body:
			p.bodyVsTiles(c, layer)
		}
	}
}

func (p *pass) bodyVsTiles(b *Body, layer *TileLayer) {
	w := p.w
	p.total += w.Tiles.CollideBody(b, layer.Grid, p.process, p.overlapOnly, func(t *tilemap.Tile) {
		if w.Events != nil {
			w.Events.Push(event.NewTileEvent(w, b.ownerValue(), t))
		}
		if p.cb != nil {
			p.cb(b.ownerValue(), t)
		}
	})
}
