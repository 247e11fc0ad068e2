package arcade

import (
	"math"

	"github.com/opd-ai/go-arcade/pkg/physics"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

// DefaultTileBias is the largest per-axis correction accepted against a
// tile face. Larger penetrations are treated as the body being on the far
// side of the face rather than inside it.
const DefaultTileBias = 16

// TileGrid is the tile source a TileLayer collides against. GetTiles takes
// a rectangle in grid space (world space minus TileOffset) and returns
// every tile overlapping it.
type TileGrid interface {
	GetTiles(x, y, width, height float64) []*tilemap.Tile
	TileOffset() physics.Vector2D
}

// TileLayer makes a TileGrid usable as a collision target.
type TileLayer struct {
	Grid     TileGrid
	Disabled bool
}

// NewTileLayer wraps grid as a collision target.
func NewTileLayer(grid TileGrid) *TileLayer {
	return &TileLayer{Grid: grid}
}

func (l *TileLayer) exists() bool { return l != nil && l.Grid != nil && !l.Disabled }

// TileCollision resolves bodies against tile faces. The world owns one and
// delegates every body-vs-layer test to it.
type TileCollision struct {
	Bias float64
}

// NewTileCollision returns a resolver using DefaultTileBias.
func NewTileCollision() *TileCollision {
	return &TileCollision{Bias: DefaultTileBias}
}

// CollideBody tests b against every tile of grid overlapping its bounds,
// widened by the body's TilePadding. process may veto a tile; onHit runs
// for each tile that was separated (or overlapped when overlapOnly). It
// returns the number of hits.
func (tc *TileCollision) CollideBody(b *Body, grid TileGrid, process ProcessFunc, overlapOnly bool, onHit func(*tilemap.Tile)) int {
	if !b.Enable || !b.exists() {
		return 0
	}
	off := grid.TileOffset()
	pad := b.TilePadding
	tiles := grid.GetTiles(
		b.Position.X-pad.X-off.X,
		b.Position.Y-pad.Y-off.Y,
		b.width+2*pad.X,
		b.height+2*pad.Y,
	)

	hits := 0
	for _, t := range tiles {
		if process != nil && !process(b.ownerValue(), t) {
			continue
		}
		if tc.SeparateTile(b, t, off, overlapOnly) {
			hits++
			if onHit != nil {
				onHit(t)
			}
		}
	}
	return hits
}

// SeparateTile pushes b out of tile, resolving the axis the body moved
// along most first (or, when it moved diagonally into a tile with faces on
// both axes, the axis with the smaller penetration). off is the grid
// offset in world space.
func (tc *TileCollision) SeparateTile(b *Body, tile *tilemap.Tile, off physics.Vector2D, overlapOnly bool) bool {
	if !b.Enable {
		return false
	}

	// An earlier tile in the same pass may already have pushed the body clear.
	if !tc.intersects(b, tile, off) {
		return false
	}
	if overlapOnly {
		return true
	}

	// Tile, index and layer callbacks are consulted in that order; any of
	// them can veto.
	owner := b.ownerValue()
	for _, cb := range [...]tilemap.CollisionFunc{tile.Callback, tile.IndexCallback(), tile.LayerCallback()} {
		if cb != nil && !cb(owner, tile) {
			return false
		}
	}

	if !tile.HasFaces() {
		return false
	}

	minX, minY := 0.0, 1.0
	if b.DeltaAbsX() > b.DeltaAbsY() {
		minX = -1
	} else if b.DeltaAbsX() < b.DeltaAbsY() {
		minY = -1
	}

	horizontal := tile.FaceLeft || tile.FaceRight
	vertical := tile.FaceTop || tile.FaceBottom
	if b.DeltaX() != 0 && b.DeltaY() != 0 && horizontal && vertical {
		minX = math.Min(math.Abs(b.Left()-off.X-tile.Right()), math.Abs(b.Right()-off.X-tile.Left()))
		minY = math.Min(math.Abs(b.Top()-off.Y-tile.Bottom()), math.Abs(b.Bottom()-off.Y-tile.Top()))
	}

	var ox, oy float64
	if minX < minY {
		if horizontal {
			ox = tc.checkX(b, tile, off)
			if ox != 0 && !tc.intersects(b, tile, off) {
				return true
			}
		}
		if vertical {
			oy = tc.checkY(b, tile, off)
		}
	} else {
		if vertical {
			oy = tc.checkY(b, tile, off)
			if oy != 0 && !tc.intersects(b, tile, off) {
				return true
			}
		}
		if horizontal {
			ox = tc.checkX(b, tile, off)
		}
	}

	return ox != 0 || oy != 0
}

func (tc *TileCollision) intersects(b *Body, tile *tilemap.Tile, off physics.Vector2D) bool {
	return tile.Intersects(b.Left()-off.X, b.Top()-off.Y, b.Right()-off.X, b.Bottom()-off.Y)
}

// checkX only fires when the body moves toward a colliding face it is not
// already blocked on.
func (tc *TileCollision) checkX(b *Body, tile *tilemap.Tile, off physics.Vector2D) float64 {
	var ox float64
	left := b.Left() - off.X
	right := b.Right() - off.X

	if b.DeltaX() < 0 && !b.Blocked.Left && tile.CollideRight && b.CheckCollision.Left {
		if tile.FaceRight && left < tile.Right() {
			ox = left - tile.Right()
			if ox < -tc.Bias {
				ox = 0
			}
		}
	} else if b.DeltaX() > 0 && !b.Blocked.Right && tile.CollideLeft && b.CheckCollision.Right {
		if tile.FaceLeft && right > tile.Left() {
			ox = right - tile.Left()
			if ox > tc.Bias {
				ox = 0
			}
		}
	}

	if ox != 0 {
		if b.CustomSeparateX {
			b.OverlapX = ox
		} else {
			processTileSeparationX(b, ox)
		}
	}
	return ox
}

func (tc *TileCollision) checkY(b *Body, tile *tilemap.Tile, off physics.Vector2D) float64 {
	var oy float64
	top := b.Top() - off.Y
	bottom := b.Bottom() - off.Y

	if b.DeltaY() < 0 && !b.Blocked.Up && tile.CollideDown && b.CheckCollision.Up {
		if tile.FaceBottom && top < tile.Bottom() {
			oy = top - tile.Bottom()
			if oy < -tc.Bias {
				oy = 0
			}
		}
	} else if b.DeltaY() > 0 && !b.Blocked.Down && tile.CollideUp && b.CheckCollision.Down {
		if tile.FaceTop && bottom > tile.Top() {
			oy = bottom - tile.Top()
			if oy > tc.Bias {
				oy = 0
			}
		}
	}

	if oy != 0 {
		if b.CustomSeparateY {
			b.OverlapY = oy
		} else {
			processTileSeparationY(b, oy)
		}
	}
	return oy
}

func processTileSeparationX(b *Body, x float64) {
	if x < 0 {
		b.Blocked.Left = true
	} else if x > 0 {
		b.Blocked.Right = true
	}
	b.Position.X -= x
	if b.Bounce.X == 0 {
		b.Velocity.X = 0
	} else {
		b.Velocity.X = -b.Velocity.X * b.Bounce.X
	}
}

func processTileSeparationY(b *Body, y float64) {
	if y < 0 {
		b.Blocked.Up = true
	} else if y > 0 {
		b.Blocked.Down = true
	}
	b.Position.Y -= y
	if b.Bounce.Y == 0 {
		b.Velocity.Y = 0
	} else {
		b.Velocity.Y = -b.Velocity.Y * b.Bounce.Y
	}
}
