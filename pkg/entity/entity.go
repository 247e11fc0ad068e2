// Package entity holds the scene objects that own arcade bodies.
package entity

import (
	"fmt"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-arcade/pkg/arcade"
	"github.com/opd-ai/go-arcade/pkg/physics"
)

// Sprite is a positioned, sized scene object. It satisfies arcade.Owner,
// so a world can attach a body to it, and carries an ecs identity so ecs
// systems can track it.
type Sprite struct {
	ecs.BasicEntity

	Name    string
	X       float64
	Y       float64
	Width   float64
	Height  float64
	AnchorX float64
	AnchorY float64
	ScaleX  float64
	ScaleY  float64
	// Angle is in degrees.
	Angle  float64
	Active bool

	Body *arcade.Body
}

// NewSprite creates an active, unscaled sprite with its origin at the top
// left corner.
func NewSprite(name string, x, y, width, height float64) *Sprite {
	return &Sprite{
		BasicEntity: ecs.NewBasic(),
		Name:        name,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		ScaleX:      1,
		ScaleY:      1,
		Active:      true,
	}
}

// EnableBody creates a body for s in w and returns it.
func (s *Sprite) EnableBody(w *arcade.World) *arcade.Body {
	s.Body = w.Enable(s)
	return s.Body
}

// Transform implements arcade.Owner.
func (s *Sprite) Transform() arcade.Transform {
	return arcade.Transform{
		X:       s.X,
		Y:       s.Y,
		AnchorX: s.AnchorX,
		AnchorY: s.AnchorY,
		ScaleX:  s.ScaleX,
		ScaleY:  s.ScaleY,
		Width:   s.Width,
		Height:  s.Height,
		Angle:   s.Angle,
	}
}

// Translate implements arcade.Owner.
func (s *Sprite) Translate(dx, dy float64) {
	s.X += dx
	s.Y += dy
}

// Rotate implements arcade.Owner.
func (s *Sprite) Rotate(deltaDegrees float64) {
	s.Angle += deltaDegrees
}

// Exists implements arcade.Existence; inactive sprites are skipped by
// collision passes.
func (s *Sprite) Exists() bool { return s.Active }

// DetachBody implements arcade.Detacher.
func (s *Sprite) DetachBody(b *arcade.Body) {
	if s.Body == b {
		s.Body = nil
	}
}

// Position returns the sprite origin.
func (s *Sprite) Position() physics.Vector2D {
	return physics.Vector2D{X: s.X, Y: s.Y}
}

// Kill deactivates the sprite and stops its body.
func (s *Sprite) Kill() {
	s.Active = false
	if s.Body != nil {
		s.Body.Stop()
	}
}

// Revive reactivates the sprite at (x, y).
func (s *Sprite) Revive(x, y float64) {
	s.Active = true
	if s.Body != nil {
		s.Body.Reset(x, y)
		return
	}
	s.X, s.Y = x, y
}

// Render draws the sprite with r.
func (s *Sprite) Render(r Renderer) {
	r.RenderSprite(s)
}

func (s *Sprite) String() string {
	return fmt.Sprintf("%s#%d", s.Name, s.ID())
}
