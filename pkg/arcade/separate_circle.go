package arcade

import (
	"math"

	"github.com/opd-ai/go-arcade/pkg/physics"
)

// separateCircle resolves a circle pair, or a circle against a rectangle
// corner, along the line between the two centers.
func (w *World) separateCircle(b1, b2 *Body, overlapOnly bool) bool {
	// Record the bounding box overlaps and touching sides.
	w.OverlapX(b1, b2, false)
	w.OverlapY(b1, b2, false)

	c1, c2 := b1.Center(), b2.Center()
	angle := math.Atan2(c2.Y-c1.Y, c2.X-c1.X)
	cos, sin := math.Cos(angle), math.Sin(angle)

	var overlap float64
	if b1.IsCircle() != b2.IsCircle() {
		rect, circle := b1, b2
		if b1.IsCircle() {
			rect, circle = b2, b1
		}
		overlap = physics.CornerPenetration(rect.Bounds(), circle.Circle())
	} else {
		overlap = b1.halfWidth + b2.halfWidth - c1.Distance(c2)
	}
	b1.OverlapR = overlap
	b2.OverlapR = overlap

	if overlapOnly || overlap == 0 || (b1.Immovable && b2.Immovable) || b1.CustomSeparateX || b2.CustomSeparateX {
		if overlap != 0 {
			w.signal(b1, b2, overlapOnly)
		}
		return overlap != 0
	}

	// Velocities in the frame of the collision normal. The tangential axis
	// is mirrored; the correction below compensates for the sign errors
	// this causes near tangential impacts.
	v1 := physics.Vector2D{
		X: b1.Velocity.X*cos + b1.Velocity.Y*sin,
		Y: b1.Velocity.X*sin - b1.Velocity.Y*cos,
	}
	v2 := physics.Vector2D{
		X: b2.Velocity.X*cos + b2.Velocity.Y*sin,
		Y: b2.Velocity.X*sin - b2.Velocity.Y*cos,
	}

	m1, m2 := usableMasses(b1.Mass, b2.Mass)
	t1 := ((m1-m2)*v1.X + 2*m2*v2.X) / (m1 + m2)
	t2 := (2*m1*v1.X + (m2-m1)*v2.X) / (m1 + m2)

	if !b1.Immovable {
		b1.Velocity.X = (t1*cos - v1.Y*sin) * b1.Bounce.X
		b1.Velocity.Y = (v1.Y*cos + t1*sin) * b1.Bounce.Y
	}
	if !b2.Immovable {
		b2.Velocity.X = (t2*cos - v2.Y*sin) * b2.Bounce.X
		b2.Velocity.Y = (v2.Y*cos + t2*sin) * b2.Bounce.Y
	}

	correctTangential(b1, b2, angle)

	dt := w.elapsed
	if !b1.Immovable {
		b1.Position.X += b1.Velocity.X*dt - overlap*cos
		b1.Position.Y += b1.Velocity.Y*dt - overlap*sin
	}
	if !b2.Immovable {
		b2.Position.X += b2.Velocity.X*dt + overlap*cos
		b2.Position.Y += b2.Velocity.Y*dt + overlap*sin
	}

	w.signal(b1, b2, false)
	return true
}

// correctTangential flips at most one velocity component when the
// post-impact velocities still point the bodies into each other. It is an
// approximation tuned for glancing contacts, not a physical model: the
// thresholds are the collision angle crossing ±π/2.
func correctTangential(b1, b2 *Body, angle float64) {
	a := math.Abs(angle)
	switch {
	case a < math.Pi/2:
		switch {
		case b1.Velocity.X > 0 && !b1.Immovable && b2.Velocity.X > b1.Velocity.X:
			b1.Velocity.X *= -1
		case b2.Velocity.X < 0 && !b2.Immovable && b1.Velocity.X < b2.Velocity.X:
			b2.Velocity.X *= -1
		case b1.Velocity.Y > 0 && !b1.Immovable && b2.Velocity.Y > b1.Velocity.Y:
			b1.Velocity.Y *= -1
		case b2.Velocity.Y < 0 && !b2.Immovable && b1.Velocity.Y < b2.Velocity.Y:
			b2.Velocity.Y *= -1
		}
	case a > math.Pi/2:
		switch {
		case b1.Velocity.X < 0 && !b1.Immovable && b2.Velocity.X < b1.Velocity.X:
			b1.Velocity.X *= -1
		case b2.Velocity.X > 0 && !b2.Immovable && b1.Velocity.X > b2.Velocity.X:
			b2.Velocity.X *= -1
		case b1.Velocity.Y < 0 && !b1.Immovable && b2.Velocity.Y < b1.Velocity.Y:
			b1.Velocity.Y *= -1
		case b2.Velocity.Y > 0 && !b2.Immovable && b1.Velocity.Y > b2.Velocity.Y:
			b2.Velocity.Y *= -1
		}
	}
}
