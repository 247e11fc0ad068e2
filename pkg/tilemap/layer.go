package tilemap

import (
	"math"

	"github.com/opd-ai/go-arcade/pkg/physics"
)

// Empty marks an unoccupied cell in FillFromRows input.
const Empty = -1

// Layer is a fixed-size grid of tiles.
type Layer struct {
	Name       string
	Width      int
	Height     int
	TileWidth  float64
	TileHeight float64

	// Offset is the layer position in world space.
	Offset physics.Vector2D

	tiles          []*Tile
	indexCallbacks map[int]CollisionFunc
	callback       CollisionFunc
}

// NewLayer creates an empty layer of width x height cells.
func NewLayer(width, height int, tileWidth, tileHeight float64) *Layer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Layer{
		Width:      width,
		Height:     height,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		tiles:      make([]*Tile, width*height),
	}
}

// TileOffset returns the layer offset applied to every tile test.
func (l *Layer) TileOffset() physics.Vector2D { return l.Offset }

// PixelWidth returns the layer width in layer-space units.
func (l *Layer) PixelWidth() float64 { return float64(l.Width) * l.TileWidth }

// PixelHeight returns the layer height in layer-space units.
func (l *Layer) PixelHeight() float64 { return float64(l.Height) * l.TileHeight }

func (l *Layer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.Width && y < l.Height
}

// TileAt returns the tile at grid position (x, y), or nil.
func (l *Layer) TileAt(x, y int) *Tile {
	if !l.inBounds(x, y) {
		return nil
	}
	return l.tiles[y*l.Width+x]
}

// PutTile places a tile with the given index at (x, y), replacing any
// existing one. A negative index removes the cell. Collision flags are
// inherited from index-level settings only through later SetCollision
// calls; the new tile starts non-colliding.
func (l *Layer) PutTile(index, x, y int) *Tile {
	if !l.inBounds(x, y) {
		return nil
	}
	if index < 0 {
		l.RemoveTile(x, y)
		return nil
	}
	t := &Tile{
		Index:  index,
		X:      x,
		Y:      y,
		WorldX: float64(x) * l.TileWidth,
		WorldY: float64(y) * l.TileHeight,
		Width:  l.TileWidth,
		Height: l.TileHeight,
		layer:  l,
	}
	l.tiles[y*l.Width+x] = t
	l.refreshFacesAround(x, y)
	return t
}

// RemoveTile clears the cell at (x, y) and returns the removed tile.
func (l *Layer) RemoveTile(x, y int) *Tile {
	if !l.inBounds(x, y) {
		return nil
	}
	t := l.tiles[y*l.Width+x]
	if t == nil {
		return nil
	}
	l.tiles[y*l.Width+x] = nil
	t.layer = nil
	l.refreshFacesAround(x, y)
	return t
}

// FillFromRows replaces the layer contents with rows of tile indexes.
// Cells equal to empty are left unoccupied. Rows longer than the layer are
// truncated.
func (l *Layer) FillFromRows(rows [][]int, empty int) {
	clear(l.tiles)
	for y, row := range rows {
		if y >= l.Height {
			break
		}
		for x, index := range row {
			if x >= l.Width {
				break
			}
			if index == empty {
				continue
			}
			l.tiles[y*l.Width+x] = &Tile{
				Index:  index,
				X:      x,
				Y:      y,
				WorldX: float64(x) * l.TileWidth,
				WorldY: float64(y) * l.TileHeight,
				Width:  l.TileWidth,
				Height: l.TileHeight,
				layer:  l,
			}
		}
	}
	l.CalculateFaces()
}

// Tiles calls fn for every occupied cell in row-major order.
func (l *Layer) Tiles(fn func(t *Tile)) {
	for _, t := range l.tiles {
		if t != nil {
			fn(t)
		}
	}
}

// GetTiles returns every tile whose rectangle overlaps the given
// layer-space rectangle, in row-major order.
func (l *Layer) GetTiles(x, y, width, height float64) []*Tile {
	return l.GetTilesFiltered(x, y, width, height, false, false)
}

// GetTilesFiltered is GetTiles restricted to tiles that collide and/or have
// interesting faces.
func (l *Layer) GetTilesFiltered(x, y, width, height float64, collides, interestingFace bool) []*Tile {
	if l.TileWidth <= 0 || l.TileHeight <= 0 {
		return nil
	}
	fetchAll := !(collides || interestingFace)

	tx := int(math.Floor(x / l.TileWidth))
	ty := int(math.Floor(y / l.TileHeight))
	tw := int(math.Ceil((x+width)/l.TileWidth)) - tx
	th := int(math.Ceil((y+height)/l.TileHeight)) - ty

	var results []*Tile
	for wy := max(ty, 0); wy < min(ty+th, l.Height); wy++ {
		for wx := max(tx, 0); wx < min(tx+tw, l.Width); wx++ {
			t := l.tiles[wy*l.Width+wx]
			if t == nil {
				continue
			}
			if fetchAll || t.IsInteresting(collides, interestingFace) {
				results = append(results, t)
			}
		}
	}
	return results
}

// SetCollision enables or disables collision on every face of tiles with
// one of the given indexes, then recalculates faces.
func (l *Layer) SetCollision(collides bool, indexes ...int) {
	set := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		set[i] = struct{}{}
	}
	l.setCollisionWhere(collides, func(index int) bool {
		_, ok := set[index]
		return ok
	})
}

// SetCollisionBetween sets collision on every tile index in [start, stop].
func (l *Layer) SetCollisionBetween(start, stop int, collides bool) {
	if start > stop {
		return
	}
	l.setCollisionWhere(collides, func(index int) bool {
		return index >= start && index <= stop
	})
}

// SetCollisionByExclusion sets collision on every tile whose index is not
// listed.
func (l *Layer) SetCollisionByExclusion(exclude []int, collides bool) {
	set := make(map[int]struct{}, len(exclude))
	for _, i := range exclude {
		set[i] = struct{}{}
	}
	l.setCollisionWhere(collides, func(index int) bool {
		_, skip := set[index]
		return !skip
	})
}

func (l *Layer) setCollisionWhere(collides bool, match func(index int) bool) {
	for _, t := range l.tiles {
		if t == nil || !match(t.Index) {
			continue
		}
		t.CollideLeft = collides
		t.CollideRight = collides
		t.CollideUp = collides
		t.CollideDown = collides
	}
	l.CalculateFaces()
}

// CalculateFaces recomputes the interesting faces of every tile. A face is
// interesting when the tile collides on that edge and the neighbour across
// it does not collide on the shared edge.
func (l *Layer) CalculateFaces() {
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			l.calculateFacesAt(x, y)
		}
	}
}

func (l *Layer) refreshFacesAround(x, y int) {
	l.calculateFacesAt(x, y)
	l.calculateFacesAt(x, y-1)
	l.calculateFacesAt(x, y+1)
	l.calculateFacesAt(x-1, y)
	l.calculateFacesAt(x+1, y)
}

func (l *Layer) calculateFacesAt(x, y int) {
	t := l.TileAt(x, y)
	if t == nil {
		return
	}
	t.FaceTop = t.CollideUp
	t.FaceBottom = t.CollideDown
	t.FaceLeft = t.CollideLeft
	t.FaceRight = t.CollideRight
	if above := l.TileAt(x, y-1); above != nil && above.CollideDown {
		t.FaceTop = false
	}
	if below := l.TileAt(x, y+1); below != nil && below.CollideUp {
		t.FaceBottom = false
	}
	if left := l.TileAt(x-1, y); left != nil && left.CollideRight {
		t.FaceLeft = false
	}
	if right := l.TileAt(x+1, y); right != nil && right.CollideLeft {
		t.FaceRight = false
	}
}

// SetTileIndexCallback registers fn for every tile with one of the given
// indexes. A nil fn removes the registration.
func (l *Layer) SetTileIndexCallback(fn CollisionFunc, indexes ...int) {
	if l.indexCallbacks == nil {
		l.indexCallbacks = make(map[int]CollisionFunc)
	}
	for _, i := range indexes {
		if fn == nil {
			delete(l.indexCallbacks, i)
			continue
		}
		l.indexCallbacks[i] = fn
	}
}

// IndexCallback returns the callback registered for index, if any.
func (l *Layer) IndexCallback(index int) CollisionFunc {
	return l.indexCallbacks[index]
}

// SetTileLocationCallback sets fn as the per-tile callback of every
// occupied cell in the given grid rectangle.
func (l *Layer) SetTileLocationCallback(x, y, width, height int, fn CollisionFunc) {
	for ty := y; ty < y+height; ty++ {
		for tx := x; tx < x+width; tx++ {
			if t := l.TileAt(tx, ty); t != nil {
				t.Callback = fn
			}
		}
	}
}

// SetCollisionCallback sets the layer-wide callback consulted after the
// tile and index callbacks.
func (l *Layer) SetCollisionCallback(fn CollisionFunc) {
	l.callback = fn
}
