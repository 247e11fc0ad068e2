// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-arcade/pkg/arcade"
	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/logging"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

// ErrUnknownTarget is returned when a rule names a sprite, group or tile
// layer the simulation does not have.
var ErrUnknownTarget = errors.New("unknown collision target")

// Defaults used by NewSimulation.
const (
	DefaultTimeStep    = 1.0 / 60.0
	DefaultMaxSubSteps = 5
	// DefaultEventLimit bounds the world event queue created by
	// NewSimulation when no bus drains it.
	DefaultEventLimit = 4096
	// maxFrameTime caps the wall time fed to the accumulator per frame.
	maxFrameTime = 0.25
)

// Simulation drives an arcade world with a fixed timestep. Every step runs
// World.PreUpdate, the registered rules in order, then World.PostUpdate.
//
// Rule callbacks run with the simulation lock held and must not call
// Simulation methods; they may use the world and sprites directly.
type Simulation struct {
	World *arcade.World
	// Events collects world signals; Step forwards them to Bus when set.
	Events *event.Queue
	Bus    *event.Bus

	TimeStep    float64
	MaxSubSteps int

	mu          sync.Mutex
	sprites     []*entity.Sprite
	byName      map[string]*entity.Sprite
	groups      map[string]*arcade.Group
	layer       *tilemap.Layer
	tiles       *arcade.TileLayer
	rules       []*Rule
	accumulator float64
	tick        uint64
	running     bool
	logger      *logging.Logger
}

// NewSimulation wraps world. The world's event queue is created if unset.
func NewSimulation(world *arcade.World, logger *logging.Logger) *Simulation {
	if world.Events == nil {
		world.Events = event.NewQueue(DefaultEventLimit)
	}
	return &Simulation{
		World:       world,
		Events:      world.Events,
		TimeStep:    DefaultTimeStep,
		MaxSubSteps: DefaultMaxSubSteps,
		byName:      make(map[string]*entity.Sprite),
		groups:      make(map[string]*arcade.Group),
		logger:      logging.OrNop(logger),
	}
}

// AddSprite registers s under its name and gives it a body when it has
// none. Names must be unique.
func (s *Simulation) AddSprite(sp *entity.Sprite) (*arcade.Body, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byName[sp.Name]; dup {
		return nil, fmt.Errorf("sprite %q already registered", sp.Name)
	}
	if sp.Body == nil {
		sp.EnableBody(s.World)
	} else {
		s.World.Add(sp.Body)
	}
	s.sprites = append(s.sprites, sp)
	s.byName[sp.Name] = sp
	return sp.Body, nil
}

// Sprite returns the named sprite.
func (s *Simulation) Sprite(name string) (*entity.Sprite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.byName[name]
	return sp, ok
}

// Sprites returns the registered sprites in registration order.
func (s *Simulation) Sprites() []*entity.Sprite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.Sprite(nil), s.sprites...)
}

// AddGroup registers g under its name.
func (s *Simulation) AddGroup(g *arcade.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.groups[g.Name]; dup {
		return fmt.Errorf("group %q already registered", g.Name)
	}
	if _, clash := s.byName[g.Name]; clash {
		return fmt.Errorf("group %q clashes with a sprite name", g.Name)
	}
	s.groups[g.Name] = g
	return nil
}

// Group returns the named group.
func (s *Simulation) Group(name string) (*arcade.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[name]
	return g, ok
}

// SetTilemap installs the tile layer rules can target as "tiles".
func (s *Simulation) SetTilemap(layer *tilemap.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layer = layer
	s.tiles = arcade.NewTileLayer(layer)
}

// Tilemap returns the installed tile layer, or nil.
func (s *Simulation) Tilemap() *tilemap.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layer
}

// Target resolves a sprite, group or TilesName to a collision target.
func (s *Simulation) Target(name string) (arcade.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target(name)
}

func (s *Simulation) target(name string) (arcade.Target, error) {
	if name == TilesName {
		if s.tiles == nil {
			return nil, fmt.Errorf("%w: %s (no tilemap)", ErrUnknownTarget, name)
		}
		return s.tiles, nil
	}
	if sp, ok := s.byName[name]; ok && sp.Body != nil {
		return sp.Body, nil
	}
	if g, ok := s.groups[name]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
}

// Start marks the simulation running and announces it.
func (s *Simulation) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.publish(event.NewSimulationEvent(event.SimulationStarted, s, s.tick))
	s.logger.Info(context.Background(), "simulation started",
		"sprites", len(s.sprites), "rules", len(s.rules), "time_step", s.TimeStep)
}

// Stop marks the simulation stopped and announces it.
func (s *Simulation) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.publish(event.NewSimulationEvent(event.SimulationStopped, s, s.tick))
	s.logger.Info(context.Background(), "simulation stopped", "tick", s.tick)
}

// Running reports whether Start was called without a matching Stop.
func (s *Simulation) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Simulation) publish(e event.Event) {
	s.Events.Push(e)
	if s.Bus != nil {
		s.Events.Forward(s.Bus)
	}
}

// Pause freezes integration. Steps still run rules and count ticks.
func (s *Simulation) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.World.Pause()
}

// Resume undoes Pause.
func (s *Simulation) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.World.Resume()
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Step runs a single fixed step of TimeStep seconds.
func (s *Simulation) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

// StepFrame runs one step with integration on, even while paused. The
// pause state is restored afterwards.
func (s *Simulation) StepFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.World.Paused() {
		s.step()
		return
	}
	s.World.Resume()
	defer s.World.Pause()
	s.step()
}

func (s *Simulation) step() {
	s.World.PreUpdate(s.TimeStep)
	for _, r := range s.rules {
		r.run(s.World)
	}
	s.World.PostUpdate()
	s.tick++

	for _, r := range s.rules {
		r.reportScript(s.logger)
	}

	if s.Bus != nil {
		s.Events.Forward(s.Bus)
	}
}

// Advance feeds elapsed seconds to the accumulator and runs as many fixed
// steps as fit, at most MaxSubSteps. Time left over after MaxSubSteps is
// dropped so a slow frame cannot snowball. It returns the steps run.
func (s *Simulation) Advance(elapsed float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elapsed <= 0 || s.TimeStep <= 0 {
		return 0
	}
	s.accumulator += min(elapsed, maxFrameTime)

	steps := 0
	for s.accumulator >= s.TimeStep {
		if s.MaxSubSteps > 0 && steps >= s.MaxSubSteps {
			s.accumulator = 0
			break
		}
		s.step()
		s.accumulator -= s.TimeStep
		steps++
	}
	return steps
}

// Run advances the simulation by wall time every interval until ctx is
// cancelled. It returns the context error.
func (s *Simulation) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Duration(s.TimeStep * float64(time.Second))
	}
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Advance(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Update implements ecs.System: dt is fed to Advance.
func (s *Simulation) Update(dt float32) {
	s.Advance(float64(dt))
}

// Remove implements ecs.System: the sprite with e's id loses its body
// and is unregistered.
func (s *Simulation) Remove(e ecs.BasicEntity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sp := range s.sprites {
		if sp.ID() != e.ID() {
			continue
		}
		if sp.Body != nil {
			sp.Body.Destroy()
		}
		s.sprites = append(s.sprites[:i:i], s.sprites[i+1:]...)
		delete(s.byName, sp.Name)
		return
	}
}

// BodyState is a read-only copy of one sprite's body.
type BodyState struct {
	Name     string
	ID       uint64
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Radius   float64
	VX       float64
	VY       float64
	Active   bool
	Touching arcade.Directions
	Blocked  arcade.Directions
}

// State is a snapshot of the simulation taken between steps.
type State struct {
	Tick   uint64
	Paused bool
	Bodies []BodyState
}

// Snapshot copies the current body states.
func (s *Simulation) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Tick: s.tick, Paused: s.World.Paused(), Bodies: make([]BodyState, 0, len(s.sprites))}
	for _, sp := range s.sprites {
		bs := BodyState{Name: sp.Name, ID: sp.ID(), Active: sp.Active}
		if b := sp.Body; b != nil {
			bs.X, bs.Y = b.Position.X, b.Position.Y
			bs.Width, bs.Height = b.Width(), b.Height()
			bs.Radius = b.Radius()
			bs.VX, bs.VY = b.Velocity.X, b.Velocity.Y
			bs.Touching = b.Touching
			bs.Blocked = b.Blocked
		}
		st.Bodies = append(st.Bodies, bs)
	}
	return st
}

// Render draws the tilemap and every active sprite with r.
func (s *Simulation) Render(r entity.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.Clear()
	if s.layer != nil {
		s.layer.Tiles(r.RenderTile)
	}
	for _, sp := range s.sprites {
		if sp.Active {
			sp.Render(r)
		}
	}
	r.Present()
}
