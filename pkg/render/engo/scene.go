// pkg/render/engo/scene.go
package engo

import (
	"context"
	"fmt"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-arcade/pkg/engine"
	"github.com/opd-ai/go-arcade/pkg/logging"
)

// ViewerScene is an engo scene that steps a simulation and draws its
// bodies and tiles as flat shapes.
type ViewerScene struct {
	sim    *engine.Simulation
	logger *logging.Logger

	world    *ecs.World
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem

	follow string
}

// NewViewerScene creates a scene for sim. When follow names a sprite the
// camera tracks it, otherwise the world bounds are fitted to the window.
func NewViewerScene(sim *engine.Simulation, follow string, logger *logging.Logger) *ViewerScene {
	return &ViewerScene{
		sim:    sim,
		follow: follow,
		logger: logging.OrNop(logger),
		world:  &ecs.World{},
		camera: NewCameraSystem(),
	}
}

// Type returns the scene type (required by Engo).
func (scene *ViewerScene) Type() string {
	return "ArcadeViewer"
}

// Preload is called before the scene starts (required by Engo).
func (scene *ViewerScene) Preload() {}

// Setup is called when the scene starts (required by Engo).
func (scene *ViewerScene) Setup(u engo.Updater) {
	if w, ok := u.(*ecs.World); ok {
		scene.world = w
	}
	common.SetBackground(ColorBackground)

	rs := &common.RenderSystem{}
	scene.world.AddSystem(rs)
	SetupInputBindings()
	scene.wire(rs)
	scene.sim.Start()
}

// wire adds the viewer systems to the scene world, drawing into shapes.
func (scene *ViewerScene) wire(shapes ShapeSystem) {
	scene.renderer = NewEngoRenderer(shapes, scene.camera)
	scene.input = NewInputSystem(scene.sim, scene.camera)
	scene.input.OnCycleFollow = scene.cycleFollow

	scene.world.AddSystem(scene.input)
	scene.world.AddSystem(scene.sim)
	scene.world.AddSystem(&drawSystem{scene: scene})
	scene.world.AddSystem(scene.camera)

	scene.resetCamera()
	scene.logger.Info(context.Background(), "viewer scene ready",
		"sprites", len(scene.sim.Sprites()), "follow", scene.follow)
}

func (scene *ViewerScene) resetCamera() {
	if scene.follow != "" {
		if sp, ok := scene.sim.Sprite(scene.follow); ok {
			scene.camera.Follow(sp)
			return
		}
		scene.logger.Warn(context.Background(), "follow target not found", "sprite", scene.follow)
		scene.follow = ""
	}
	scene.camera.FitRect(scene.sim.World.Bounds)
}

// cycleFollow moves the camera to the next sprite, then back to the
// whole world after the last one.
func (scene *ViewerScene) cycleFollow() {
	sprites := scene.sim.Sprites()
	next := ""
	for i, sp := range sprites {
		if sp.Name != scene.follow {
			continue
		}
		if i+1 < len(sprites) {
			next = sprites[i+1].Name
		}
		break
	}
	if scene.follow == "" && len(sprites) > 0 {
		next = sprites[0].Name
	}
	scene.follow = next
	scene.resetCamera()
}

// Following returns the name of the sprite the camera tracks.
func (scene *ViewerScene) Following() string {
	return scene.follow
}

// Exit is called when the scene is exiting (required by Engo).
func (scene *ViewerScene) Exit() {
	scene.sim.Stop()
}

// Title returns a window title describing the simulation state.
func (scene *ViewerScene) Title() string {
	st := scene.sim.Snapshot()
	state := "running"
	if st.Paused {
		state = "paused"
	}
	return fmt.Sprintf("go-arcade: tick %d, %d bodies, %s", st.Tick, len(st.Bodies), state)
}

// drawSystem renders the simulation after it has stepped.
type drawSystem struct {
	scene *ViewerScene
}

func (d *drawSystem) Remove(ecs.BasicEntity) {}

func (d *drawSystem) Update(float32) {
	d.scene.sim.Render(d.scene.renderer)
}

// Priority runs drawing after the simulation and before the render system.
func (d *drawSystem) Priority() int { return -1 }
