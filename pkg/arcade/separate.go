package arcade

import (
	"math"

	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/physics"
)

// Intersects reports whether two distinct bodies overlap. Rectangles that
// only share an edge do not intersect; circles that touch do.
func (w *World) Intersects(b1, b2 *Body) bool {
	if b1 == b2 {
		return false
	}
	switch {
	case b1.IsCircle() && b2.IsCircle():
		return b1.Circle().Collides(b2.Circle())
	case b1.IsCircle():
		return b1.Circle().IntersectsRect(b2.Bounds())
	case b2.IsCircle():
		return b2.Circle().IntersectsRect(b1.Bounds())
	}
	return b1.Bounds().Intersects(b2.Bounds())
}

// Separate resolves a single pair. It returns false without touching
// either body when one is disabled, has collision switched off, the two do
// not intersect, or process vetoes the pair.
func (w *World) Separate(b1, b2 *Body, process ProcessFunc, overlapOnly bool) bool {
	if !b1.Enable || !b2.Enable || b1.CheckCollision.None || b2.CheckCollision.None || !w.Intersects(b1, b2) {
		return false
	}
	if process != nil && !process(b1.ownerValue(), b2.ownerValue()) {
		return false
	}

	if b1.IsCircle() && b2.IsCircle() {
		return w.separateCircle(b1, b2, overlapOnly)
	}

	// A circle against a rectangle corner behaves like two circles.
	if b1.IsCircle() != b2.IsCircle() {
		rect, circle := b1, b2
		if b1.IsCircle() {
			rect, circle = b2, b1
		}
		if _, corner := physics.CornerOf(rect.Bounds(), circle.Center()); corner {
			return w.separateCircle(b1, b2, overlapOnly)
		}
	}

	var resultX, resultY bool
	if w.ForceX || math.Abs(w.Gravity.Y+b1.Gravity.Y) < math.Abs(w.Gravity.X+b1.Gravity.X) {
		resultX = w.separateX(b1, b2, overlapOnly)
		if w.Intersects(b1, b2) {
			resultY = w.separateY(b1, b2, overlapOnly)
		}
	} else {
		resultY = w.separateY(b1, b2, overlapOnly)
		if w.Intersects(b1, b2) {
			resultX = w.separateX(b1, b2, overlapOnly)
		}
	}

	result := resultX || resultY
	if result {
		w.signal(b1, b2, overlapOnly)
	}
	return result
}

// signal fires OnCollide or OnOverlap on both bodies, each with itself
// first, and queues one event for the pair.
func (w *World) signal(b1, b2 *Body, overlapOnly bool) {
	o1, o2 := b1.ownerValue(), b2.ownerValue()
	if overlapOnly {
		if b1.OnOverlap != nil {
			b1.OnOverlap(o1, o2)
		}
		if b2.OnOverlap != nil {
			b2.OnOverlap(o2, o1)
		}
	} else {
		if b1.OnCollide != nil {
			b1.OnCollide(o1, o2)
		}
		if b2.OnCollide != nil {
			b2.OnCollide(o2, o1)
		}
	}
	if w.Events != nil {
		w.Events.Push(event.NewCollisionEvent(w, o1, o2, overlapOnly))
	}
}

// OverlapX computes the horizontal overlap of an intersecting pair from
// the direction each body moved this tick and records it on both bodies,
// along with the touching sides. Overlaps deeper than the combined
// movement plus OverlapBias are rejected (0) unless overlapOnly. Two
// bodies that did not move horizontally are marked embedded instead.
func (w *World) OverlapX(b1, b2 *Body, overlapOnly bool) float64 {
	var overlap float64
	maxOverlap := b1.DeltaAbsX() + b2.DeltaAbsX() + w.OverlapBias
	d1, d2 := b1.DeltaX(), b2.DeltaX()

	switch {
	case d1 == 0 && d2 == 0:
		b1.Embedded = true
		b2.Embedded = true
	case d1 > d2:
		overlap = b1.Right() - b2.Left()
		if (overlap > maxOverlap && !overlapOnly) || !b1.CheckCollision.Right || !b2.CheckCollision.Left {
			overlap = 0
		} else {
			b1.Touching.Right = true
			b2.Touching.Left = true
		}
	case d1 < d2:
		overlap = b1.Left() - b2.width - b2.Left()
		if (-overlap > maxOverlap && !overlapOnly) || !b1.CheckCollision.Left || !b2.CheckCollision.Right {
			overlap = 0
		} else {
			b1.Touching.Left = true
			b2.Touching.Right = true
		}
	}

	b1.OverlapX = overlap
	b2.OverlapX = overlap
	return overlap
}

// OverlapY is OverlapX on the vertical axis.
func (w *World) OverlapY(b1, b2 *Body, overlapOnly bool) float64 {
	var overlap float64
	maxOverlap := b1.DeltaAbsY() + b2.DeltaAbsY() + w.OverlapBias
	d1, d2 := b1.DeltaY(), b2.DeltaY()

	switch {
	case d1 == 0 && d2 == 0:
		b1.Embedded = true
		b2.Embedded = true
	case d1 > d2:
		overlap = b1.Bottom() - b2.Top()
		if (overlap > maxOverlap && !overlapOnly) || !b1.CheckCollision.Down || !b2.CheckCollision.Up {
			overlap = 0
		} else {
			b1.Touching.Down = true
			b2.Touching.Up = true
		}
	case d1 < d2:
		overlap = b1.Top() - b2.height - b2.Top()
		if (-overlap > maxOverlap && !overlapOnly) || !b1.CheckCollision.Up || !b2.CheckCollision.Down {
			overlap = 0
		} else {
			b1.Touching.Up = true
			b2.Touching.Down = true
		}
	}

	b1.OverlapY = overlap
	b2.OverlapY = overlap
	return overlap
}

func (w *World) separateX(b1, b2 *Body, overlapOnly bool) bool {
	overlap := w.OverlapX(b1, b2, overlapOnly)
	if overlapOnly || overlap == 0 || (b1.Immovable && b2.Immovable) || b1.CustomSeparateX || b2.CustomSeparateX {
		return overlap != 0 || (b1.Embedded && b2.Embedded)
	}

	v1, v2 := b1.Velocity.X, b2.Velocity.X
	switch {
	case !b1.Immovable && !b2.Immovable:
		overlap *= 0.5
		b1.Position.X -= overlap
		b2.Position.X += overlap
		b1.Velocity.X, b2.Velocity.X = exchange(v1, v2, b1.Mass, b2.Mass, b1.Bounce.X, b2.Bounce.X)
	case !b1.Immovable:
		b1.Position.X -= overlap
		b1.Velocity.X = v2 - v1*b1.Bounce.X
		if b2.Moves {
			b1.Position.Y += (b2.Position.Y - b2.Prev.Y) * b2.Friction.Y
		}
	default:
		b2.Position.X += overlap
		b2.Velocity.X = v1 - v2*b2.Bounce.X
		if b1.Moves {
			b2.Position.Y += (b1.Position.Y - b1.Prev.Y) * b1.Friction.Y
		}
	}
	return true
}

func (w *World) separateY(b1, b2 *Body, overlapOnly bool) bool {
	overlap := w.OverlapY(b1, b2, overlapOnly)
	if overlapOnly || overlap == 0 || (b1.Immovable && b2.Immovable) || b1.CustomSeparateY || b2.CustomSeparateY {
		return overlap != 0 || (b1.Embedded && b2.Embedded)
	}

	v1, v2 := b1.Velocity.Y, b2.Velocity.Y
	switch {
	case !b1.Immovable && !b2.Immovable:
		overlap *= 0.5
		b1.Position.Y -= overlap
		b2.Position.Y += overlap
		b1.Velocity.Y, b2.Velocity.Y = exchange(v1, v2, b1.Mass, b2.Mass, b1.Bounce.Y, b2.Bounce.Y)
	case !b1.Immovable:
		b1.Position.Y -= overlap
		b1.Velocity.Y = v2 - v1*b1.Bounce.Y
		if b2.Moves {
			b1.Position.X += (b2.Position.X - b2.Prev.X) * b2.Friction.X
		}
	default:
		b2.Position.Y += overlap
		b2.Velocity.Y = v1 - v2*b2.Bounce.Y
		if b1.Moves {
			b2.Position.X += (b1.Position.X - b1.Prev.X) * b1.Friction.X
		}
	}
	return true
}

// exchange is the one-dimensional mass-weighted velocity exchange between
// two movable bodies: each takes the other's momentum-equivalent speed,
// split around the common average and scaled by its own bounce.
func exchange(v1, v2, m1, m2, bounce1, bounce2 float64) (float64, float64) {
	m1, m2 = usableMasses(m1, m2)
	nv1 := math.Sqrt(v2*v2*m2/m1) * sign(v2)
	nv2 := math.Sqrt(v1*v1*m1/m2) * sign(v1)
	avg := (nv1 + nv2) * 0.5
	nv1 -= avg
	nv2 -= avg
	return avg + nv1*bounce1, avg + nv2*bounce2
}

func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}

// usableMasses treats a pair with a non-positive mass as equal masses so
// the exchange formulas stay finite.
func usableMasses(m1, m2 float64) (float64, float64) {
	if m1 <= 0 || m2 <= 0 {
		return 1, 1
	}
	return m1, m2
}
