// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/physics"
)

// CameraSystem is a software camera: it maps world positions to window
// pixels, optionally following a sprite.
type CameraSystem struct {
	target    *entity.Sprite
	targetPos physics.Vector2D
	targetSet bool

	zoom    float32
	minZoom float32
	maxZoom float32

	followSpeed float32
	smoothing   bool

	currentPos physics.Vector2D
	viewport   physics.Vector2D
}

// NewCameraSystem creates a camera at the origin with zoom 1.
func NewCameraSystem() *CameraSystem {
	return &CameraSystem{
		zoom:        1.0,
		minZoom:     0.1,
		maxZoom:     8.0,
		followSpeed: 4.0,
		smoothing:   true,
	}
}

// Remove satisfies the ecs.System interface.
func (cs *CameraSystem) Remove(ecs.BasicEntity) {}

// Update moves the camera toward its target.
func (cs *CameraSystem) Update(dt float32) {
	if cs.target != nil {
		if !cs.target.Active {
			cs.target = nil
		} else {
			cs.targetPos = spriteCenter(cs.target)
			cs.targetSet = true
		}
	}
	if !cs.targetSet {
		return
	}
	if !cs.smoothing {
		cs.currentPos = cs.targetPos
		return
	}
	step := float64(cs.followSpeed * dt)
	if step > 1 {
		step = 1
	}
	cs.currentPos.X += (cs.targetPos.X - cs.currentPos.X) * step
	cs.currentPos.Y += (cs.targetPos.Y - cs.currentPos.Y) * step
}

func spriteCenter(s *entity.Sprite) physics.Vector2D {
	if s.Body != nil {
		return s.Body.Center()
	}
	return physics.Vector2D{X: s.X + s.Width/2, Y: s.Y + s.Height/2}
}

// Follow makes the camera track s. A nil sprite stops following.
func (cs *CameraSystem) Follow(s *entity.Sprite) {
	cs.target = s
	if s == nil {
		cs.targetSet = false
		return
	}
	cs.SetTarget(spriteCenter(s))
}

// SetTarget sets a fixed position for the camera to move to. The first
// target is taken immediately.
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	first := !cs.targetSet
	cs.targetPos = target
	cs.targetSet = true
	if first || !cs.smoothing {
		cs.currentPos = target
	}
}

// ClearTarget stops the camera where it is.
func (cs *CameraSystem) ClearTarget() {
	cs.target = nil
	cs.targetSet = false
}

// FitRect centres the camera on rect and zooms so it fills the viewport.
func (cs *CameraSystem) FitRect(rect physics.Rect) {
	cs.ClearTarget()
	cs.currentPos = physics.Vector2D{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2}
	vw, vh := cs.viewportSize()
	if rect.Width > 0 && rect.Height > 0 && vw > 0 && vh > 0 {
		cs.SetZoom(float32(min(vw/rect.Width, vh/rect.Height)))
	}
}

// SetViewport fixes the window size used for centring. Zero values fall
// back to the engo game size.
func (cs *CameraSystem) SetViewport(width, height float64) {
	cs.viewport = physics.Vector2D{X: width, Y: height}
}

func (cs *CameraSystem) viewportSize() (float64, float64) {
	if cs.viewport.X > 0 && cs.viewport.Y > 0 {
		return cs.viewport.X, cs.viewport.Y
	}
	return float64(engo.GameWidth()), float64(engo.GameHeight())
}

// SetZoom sets the zoom, clamped to the zoom limits.
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level.
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the zoom range and clamps the current zoom into it.
func (cs *CameraSystem) SetZoomLimits(min, max float32) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// EnableSmoothing switches between easing toward the target and jumping.
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the world position at the viewport centre.
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// WorldToScreen converts a world position to window pixels.
func (cs *CameraSystem) WorldToScreen(worldPos physics.Vector2D) physics.Vector2D {
	vw, vh := cs.viewportSize()
	return physics.Vector2D{
		X: (worldPos.X-cs.currentPos.X)*float64(cs.zoom) + vw/2,
		Y: (worldPos.Y-cs.currentPos.Y)*float64(cs.zoom) + vh/2,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (cs *CameraSystem) ScreenToWorld(screenPos physics.Vector2D) physics.Vector2D {
	vw, vh := cs.viewportSize()
	return physics.Vector2D{
		X: (screenPos.X-vw/2)/float64(cs.zoom) + cs.currentPos.X,
		Y: (screenPos.Y-vh/2)/float64(cs.zoom) + cs.currentPos.Y,
	}
}
