// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
)

// Button names registered by SetupInputBindings.
const (
	ButtonPause     = "pause"
	ButtonStep      = "step"
	ButtonZoomIn    = "zoomIn"
	ButtonZoomOut   = "zoomOut"
	ButtonResetZoom = "resetZoom"
	ButtonFollow    = "follow"
)

// Controller is the part of the simulation the viewer drives.
type Controller interface {
	Pause()
	Resume()
	StepFrame()
}

// Controls is one frame of viewer input.
type Controls struct {
	TogglePause bool
	Step        bool
	ZoomIn      bool
	ZoomOut     bool
	ResetZoom   bool
	CycleFollow bool
	ScrollY     float32
}

// InputSystem applies keyboard and mouse input to the simulation and the
// camera.
type InputSystem struct {
	sim    Controller
	camera *CameraSystem
	paused bool

	// OnCycleFollow is called when the follow button is pressed.
	OnCycleFollow func()
}

// NewInputSystem creates an input system for sim and camera.
func NewInputSystem(sim Controller, camera *CameraSystem) *InputSystem {
	return &InputSystem{sim: sim, camera: camera}
}

// Remove satisfies the ecs.System interface.
func (is *InputSystem) Remove(ecs.BasicEntity) {}

// Update reads engo input and applies it.
func (is *InputSystem) Update(float32) {
	if engo.Input == nil {
		return
	}
	is.Apply(Controls{
		TogglePause: engo.Input.Button(ButtonPause).JustPressed(),
		Step:        engo.Input.Button(ButtonStep).JustPressed(),
		ZoomIn:      engo.Input.Button(ButtonZoomIn).Down(),
		ZoomOut:     engo.Input.Button(ButtonZoomOut).Down(),
		ResetZoom:   engo.Input.Button(ButtonResetZoom).JustPressed(),
		CycleFollow: engo.Input.Button(ButtonFollow).JustPressed(),
		ScrollY:     engo.Input.Mouse.ScrollY,
	})
}

// Apply performs one frame of controls.
func (is *InputSystem) Apply(c Controls) {
	if c.TogglePause {
		is.paused = !is.paused
		if is.paused {
			is.sim.Pause()
		} else {
			is.sim.Resume()
		}
	}
	// Single steps only make sense while paused.
	if c.Step && is.paused {
		is.sim.StepFrame()
	}

	if is.camera != nil {
		zoom := is.camera.GetZoom()
		if c.ScrollY != 0 {
			zoom *= 1 + c.ScrollY*0.1
		}
		if c.ZoomIn {
			zoom *= 1.02
		}
		if c.ZoomOut {
			zoom *= 0.98
		}
		if c.ResetZoom {
			zoom = 1
		}
		is.camera.SetZoom(zoom)
	}

	if c.CycleFollow && is.OnCycleFollow != nil {
		is.OnCycleFollow()
	}
}

// Paused reports whether the viewer has paused the simulation.
func (is *InputSystem) Paused() bool {
	return is.paused
}

// SetupInputBindings registers the viewer key bindings.
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonPause, engo.KeySpace, engo.KeyP)
	engo.Input.RegisterButton(ButtonStep, engo.KeyN)
	engo.Input.RegisterButton(ButtonZoomIn, engo.KeyEquals)
	engo.Input.RegisterButton(ButtonZoomOut, engo.KeyDash)
	engo.Input.RegisterButton(ButtonResetZoom, engo.KeyR)
	engo.Input.RegisterButton(ButtonFollow, engo.KeyF)
}
