package physics

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect returns a rectangle, normalizing negative sizes to zero.
func NewRect(x, y, width, height float64) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle
func (r Rect) Center() Vector2D {
	return Vector2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether point lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.X && point.X < r.Right() &&
		point.Y >= r.Y && point.Y < r.Bottom()
}

// Intersects reports whether r and other overlap with a non-zero area.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.Right() <= other.X || r.Bottom() <= other.Y {
		return false
	}
	if r.X >= other.Right() || r.Y >= other.Bottom() {
		return false
	}
	return true
}

// Inflate grows r by dx on both horizontal sides and dy on both vertical sides.
func (r Rect) Inflate(dx, dy float64) Rect {
	return NewRect(r.X-dx, r.Y-dy, r.Width+2*dx, r.Height+2*dy)
}

// ClosestPoint returns the point of r nearest to p.
func (r Rect) ClosestPoint(p Vector2D) Vector2D {
	return Vector2D{
		X: Clamp(p.X, r.X, r.Right()),
		Y: Clamp(p.Y, r.Y, r.Bottom()),
	}
}
