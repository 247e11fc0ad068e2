// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides reports whether two circles touch or overlap.
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) <= c.Radius+other.Radius
}

// IntersectsRect reports whether the circle touches or overlaps rect.
func (c Circle) IntersectsRect(rect Rect) bool {
	closest := rect.ClosestPoint(c.Center)
	return c.Center.DistanceSquared(closest) <= c.Radius*c.Radius
}

// Bounds returns the rectangle enclosing the circle
func (c Circle) Bounds() Rect {
	return Rect{
		X:      c.Center.X - c.Radius,
		Y:      c.Center.Y - c.Radius,
		Width:  c.Radius * 2,
		Height: c.Radius * 2,
	}
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles.
// Normal points from a towards b.
func CheckCollision(a, b Circle) CollisionResult {
	normal := b.Center.Sub(a.Center)
	distance := normal.Length()

	if distance > a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	normal = normal.Normalize()
	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - distance,
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}

// CornerOf returns the rectangle corner the circle center lies diagonally
// beyond, and false when the center is level with an edge on either axis.
func CornerOf(rect Rect, center Vector2D) (Vector2D, bool) {
	var corner Vector2D
	switch {
	case center.Y < rect.Y:
		corner.Y = rect.Y
	case center.Y > rect.Bottom():
		corner.Y = rect.Bottom()
	default:
		return Vector2D{}, false
	}
	switch {
	case center.X < rect.X:
		corner.X = rect.X
	case center.X > rect.Right():
		corner.X = rect.Right()
	default:
		return Vector2D{}, false
	}
	return corner, true
}

// CornerPenetration returns how far the circle reaches past the nearest
// rectangle corner. It is zero when the circle center is level with any
// edge of rect, and negative when the corner is out of reach.
func CornerPenetration(rect Rect, c Circle) float64 {
	corner, ok := CornerOf(rect, c.Center)
	if !ok {
		return 0
	}
	return c.Radius - c.Center.Distance(corner)
}
