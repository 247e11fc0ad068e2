package entity

import "github.com/opd-ai/go-arcade/pkg/tilemap"

// Renderer draws a scene frame.
type Renderer interface {
	RenderSprite(sprite *Sprite)
	RenderTile(tile *tilemap.Tile)
	Clear()
	Present()
}
