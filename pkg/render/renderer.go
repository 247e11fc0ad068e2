// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/logging"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

// NullRenderer is an entity.Renderer that only logs at debug level.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a NullRenderer logging to logger, or nowhere
// when logger is nil.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	return &NullRenderer{logger: logging.OrNop(logger)}
}

func (d *NullRenderer) log() *logging.Logger {
	return logging.OrNop(d.logger)
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.log().Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.log().Debug(context.Background(), "Present called")
}

// RenderSprite implements entity.Renderer.
func (d *NullRenderer) RenderSprite(s *entity.Sprite) {
	ctx := context.Background()
	if s == nil {
		d.log().Debug(ctx, "RenderSprite called with nil sprite")
		return
	}
	args := []any{"sprite_id", s.ID(), "sprite_name", s.Name, "x", s.X, "y", s.Y}
	if s.Body != nil {
		args = append(args, "circle", s.Body.IsCircle(), "vx", s.Body.Velocity.X, "vy", s.Body.Velocity.Y)
	}
	d.log().Debug(ctx, "RenderSprite called", args...)
}

// RenderTile implements entity.Renderer.
func (d *NullRenderer) RenderTile(t *tilemap.Tile) {
	ctx := context.Background()
	if t == nil {
		d.log().Debug(ctx, "RenderTile called with nil tile")
		return
	}
	d.log().Debug(ctx, "RenderTile called",
		"tile_index", t.Index,
		"col", t.X,
		"row", t.Y,
		"collides", t.Collides(),
	)
}

// NullRendererInstance is a shared silent renderer.
var NullRendererInstance entity.Renderer = NewNullRenderer(nil)
