// Package tilemap holds the tile grid the arcade tile collider resolves
// bodies against: tiles with per-face collision flags and the derived
// "interesting face" cache used to skip interior edges.
package tilemap

import "github.com/opd-ai/go-arcade/pkg/physics"

// CollisionFunc is consulted before a body is separated from a tile.
// owner is the scene object that owns the body. Returning false skips
// separation for this tile.
type CollisionFunc func(owner any, tile *Tile) bool

// Tile is a single grid cell. Coordinates are layer-local: the tile
// collider subtracts the layer offset from body positions before testing.
type Tile struct {
	Index int
	X     int
	Y     int

	WorldX float64
	WorldY float64
	Width  float64
	Height float64

	CollideLeft  bool
	CollideRight bool
	CollideUp    bool
	CollideDown  bool

	// Interesting faces, recomputed by Layer.CalculateFaces.
	FaceLeft   bool
	FaceRight  bool
	FaceTop    bool
	FaceBottom bool

	// Callback takes priority over index and layer callbacks.
	Callback CollisionFunc

	// Properties carries arbitrary per-tile data for callbacks.
	Properties map[string]any

	layer *Layer
}

// Left returns the x coordinate of the left edge.
func (t *Tile) Left() float64 { return t.WorldX }

// Right returns the x coordinate of the right edge.
func (t *Tile) Right() float64 { return t.WorldX + t.Width }

// Top returns the y coordinate of the top edge.
func (t *Tile) Top() float64 { return t.WorldY }

// Bottom returns the y coordinate of the bottom edge.
func (t *Tile) Bottom() float64 { return t.WorldY + t.Height }

// CenterX returns the horizontal midpoint.
func (t *Tile) CenterX() float64 { return t.WorldX + t.Width/2 }

// CenterY returns the vertical midpoint.
func (t *Tile) CenterY() float64 { return t.WorldY + t.Height/2 }

// Bounds returns the tile rectangle in layer space.
func (t *Tile) Bounds() physics.Rect {
	return physics.Rect{X: t.WorldX, Y: t.WorldY, Width: t.Width, Height: t.Height}
}

// Layer returns the layer the tile was placed in, or nil.
func (t *Tile) Layer() *Layer { return t.layer }

// Collides reports whether any face of the tile is collidable.
func (t *Tile) Collides() bool {
	return t.CollideLeft || t.CollideRight || t.CollideUp || t.CollideDown
}

// HasFaces reports whether any face is marked interesting.
func (t *Tile) HasFaces() bool {
	return t.FaceLeft || t.FaceRight || t.FaceTop || t.FaceBottom
}

// Intersects reports whether the rectangle spanning (x, y)-(right, bottom)
// overlaps the tile. Touching edges do not count.
func (t *Tile) Intersects(x, y, right, bottom float64) bool {
	if right <= t.WorldX || bottom <= t.WorldY {
		return false
	}
	if x >= t.Right() || y >= t.Bottom() {
		return false
	}
	return true
}

// ContainsPoint reports whether (x, y) lies within the tile.
func (t *Tile) ContainsPoint(x, y float64) bool {
	return x >= t.WorldX && y >= t.WorldY && x < t.Right() && y < t.Bottom()
}

// SetCollision sets the collide flags of each face and refreshes the
// interesting faces of the tile and its neighbours.
func (t *Tile) SetCollision(left, right, up, down bool) {
	t.CollideLeft = left
	t.CollideRight = right
	t.CollideUp = up
	t.CollideDown = down
	if t.layer != nil {
		t.layer.refreshFacesAround(t.X, t.Y)
		return
	}
	t.FaceLeft = left
	t.FaceRight = right
	t.FaceTop = up
	t.FaceBottom = down
}

// ResetCollision clears every collide and face flag.
func (t *Tile) ResetCollision() {
	t.SetCollision(false, false, false, false)
}

// IsInteresting reports whether the tile has collision flags (collides),
// interesting faces (faces), or either when both are requested.
func (t *Tile) IsInteresting(collides, faces bool) bool {
	switch {
	case collides && faces:
		return t.Collides() || t.HasFaces() || t.Callback != nil
	case collides:
		return t.Collides()
	case faces:
		return t.HasFaces()
	}
	return false
}

// IndexCallback returns the callback registered on the owning layer for
// this tile's index, if any.
func (t *Tile) IndexCallback() CollisionFunc {
	if t.layer == nil {
		return nil
	}
	return t.layer.IndexCallback(t.Index)
}

// LayerCallback returns the layer-wide callback, if any.
func (t *Tile) LayerCallback() CollisionFunc {
	if t.layer == nil {
		return nil
	}
	return t.layer.callback
}
