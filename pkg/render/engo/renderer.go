// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/physics"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

// ShapeSystem receives the shapes drawn by EngoRenderer.
// *common.RenderSystem satisfies it.
type ShapeSystem interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// Shape colours.
var (
	ColorBackground = color.RGBA{16, 16, 24, 255}
	ColorBody       = color.RGBA{230, 230, 230, 255}
	ColorCircle     = color.RGBA{80, 220, 230, 255}
	ColorImmovable  = color.RGBA{140, 140, 140, 255}
	ColorTouching   = color.RGBA{255, 140, 40, 255}
	ColorTile       = color.RGBA{90, 90, 120, 255}
	ColorOneWay     = color.RGBA{200, 180, 60, 255}
)

const tileZ = -1

type shape struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
	seen bool
}

type tileKey struct {
	layer *tilemap.Layer
	x, y  int
}

// EngoRenderer implements entity.Renderer by keeping one engo shape per
// sprite and tile. Shapes not drawn between Clear and Present are removed.
type EngoRenderer struct {
	system ShapeSystem
	camera *CameraSystem

	sprites map[uint64]*shape
	tiles   map[tileKey]*shape
}

// NewEngoRenderer draws into system through camera. A nil camera maps
// world units to pixels one to one.
func NewEngoRenderer(system ShapeSystem, camera *CameraSystem) *EngoRenderer {
	if camera == nil {
		camera = NewCameraSystem()
	}
	return &EngoRenderer{
		system:  system,
		camera:  camera,
		sprites: make(map[uint64]*shape),
		tiles:   make(map[tileKey]*shape),
	}
}

// RenderSprite implements entity.Renderer.
func (r *EngoRenderer) RenderSprite(s *entity.Sprite) {
	if s == nil {
		return
	}
	sh, ok := r.sprites[s.ID()]
	if !ok {
		sh = r.newShape()
		r.sprites[s.ID()] = sh
	}

	rect := physics.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
	var drawable common.Drawable = common.Rectangle{}
	col := ColorBody
	if b := s.Body; b != nil {
		rect = b.Bounds()
		switch {
		case b.Touching.Any() || b.Embedded:
			col = ColorTouching
		case b.Immovable:
			col = ColorImmovable
		case b.IsCircle():
			col = ColorCircle
		}
		if b.IsCircle() {
			drawable = common.Circle{}
		}
	}
	r.place(sh, rect, drawable, col)
	if !ok {
		r.system.Add(&sh.BasicEntity, &sh.RenderComponent, &sh.SpaceComponent)
	}
}

// RenderTile implements entity.Renderer.
func (r *EngoRenderer) RenderTile(t *tilemap.Tile) {
	if t == nil {
		return
	}
	key := tileKey{layer: t.Layer(), x: t.X, y: t.Y}
	sh, ok := r.tiles[key]
	if !ok {
		sh = r.newShape()
		sh.RenderComponent.SetZIndex(tileZ)
		r.tiles[key] = sh
	}

	rect := t.Bounds()
	if l := t.Layer(); l != nil {
		rect.X += l.Offset.X
		rect.Y += l.Offset.Y
	}
	col := ColorTile
	if t.CollideUp && !t.CollideDown && !t.CollideLeft && !t.CollideRight {
		col = ColorOneWay
	}
	r.place(sh, rect, common.Rectangle{}, col)
	if !ok {
		r.system.Add(&sh.BasicEntity, &sh.RenderComponent, &sh.SpaceComponent)
	}
}

func (r *EngoRenderer) newShape() *shape {
	return &shape{BasicEntity: ecs.NewBasic()}
}

func (r *EngoRenderer) place(sh *shape, rect physics.Rect, drawable common.Drawable, col color.Color) {
	pos := r.camera.WorldToScreen(physics.Vector2D{X: rect.X, Y: rect.Y})
	zoom := r.camera.GetZoom()
	sh.SpaceComponent.Position = engo.Point{X: float32(pos.X), Y: float32(pos.Y)}
	sh.SpaceComponent.Width = float32(rect.Width) * zoom
	sh.SpaceComponent.Height = float32(rect.Height) * zoom
	sh.RenderComponent.Drawable = drawable
	sh.RenderComponent.Color = col
	sh.seen = true
}

// Clear implements entity.Renderer.
func (r *EngoRenderer) Clear() {
	for _, sh := range r.sprites {
		sh.seen = false
	}
	for _, sh := range r.tiles {
		sh.seen = false
	}
}

// Present implements entity.Renderer. The render system draws the frame;
// Present only drops stale shapes.
func (r *EngoRenderer) Present() {
	for id, sh := range r.sprites {
		if !sh.seen {
			r.system.Remove(sh.BasicEntity)
			delete(r.sprites, id)
		}
	}
	for key, sh := range r.tiles {
		if !sh.seen {
			r.system.Remove(sh.BasicEntity)
			delete(r.tiles, key)
		}
	}
}

// Shapes returns the number of live sprite and tile shapes.
func (r *EngoRenderer) Shapes() (sprites, tiles int) {
	return len(r.sprites), len(r.tiles)
}
