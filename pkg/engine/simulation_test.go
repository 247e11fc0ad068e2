package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-arcade/pkg/arcade"
	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/physics"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

var _ ecs.System = (*Simulation)(nil)

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	w := arcade.NewWorld(physics.Rect{Width: 400, Height: 400}, nil)
	sim := NewSimulation(w, nil)
	sim.TimeStep = 0.25
	return sim
}

func addSprite(t *testing.T, sim *Simulation, name string, x, y, w, h float64) *entity.Sprite {
	t.Helper()
	sp := entity.NewSprite(name, x, y, w, h)
	if _, err := sim.AddSprite(sp); err != nil {
		t.Fatalf("AddSprite() error = %v", err)
	}
	return sp
}

func TestNewSimulation(t *testing.T) {
	w := arcade.NewWorld(physics.Rect{Width: 10, Height: 10}, nil)
	sim := NewSimulation(w, nil)

	if sim.Events == nil || w.Events != sim.Events {
		t.Error("NewSimulation() should share an event queue with the world")
	}
	if sim.TimeStep != DefaultTimeStep || sim.MaxSubSteps != DefaultMaxSubSteps {
		t.Errorf("step settings = (%v, %d), expected defaults", sim.TimeStep, sim.MaxSubSteps)
	}
	if sim.Tick() != 0 || sim.Running() {
		t.Error("a new simulation should be idle at tick 0")
	}
}

func TestSimulation_Registry(t *testing.T) {
	sim := newTestSimulation(t)
	a := addSprite(t, sim, "a", 0, 0, 10, 10)

	if _, err := sim.AddSprite(entity.NewSprite("a", 0, 0, 1, 1)); err == nil {
		t.Error("AddSprite() with a duplicate name expected an error")
	}
	if got, ok := sim.Sprite("a"); !ok || got != a {
		t.Error("Sprite() did not return the registered sprite")
	}
	if sim.World.Len() != 1 {
		t.Errorf("world has %d bodies, expected 1", sim.World.Len())
	}

	g := arcade.NewGroup("g")
	if err := sim.AddGroup(g); err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}
	if err := sim.AddGroup(arcade.NewGroup("a")); err == nil {
		t.Error("AddGroup() clashing with a sprite expected an error")
	}

	tests := []struct {
		name     string
		target   string
		expected arcade.Target
		err      error
	}{
		{"sprite", "a", a.Body, nil},
		{"group", "g", g, nil},
		{"tiles_without_tilemap", TilesName, nil, ErrUnknownTarget},
		{"missing", "ghost", nil, ErrUnknownTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sim.Target(tt.target)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Target() error = %v, expected %v", err, tt.err)
			}
			if got != tt.expected {
				t.Errorf("Target() = %v, expected %v", got, tt.expected)
			}
		})
	}

	sim.SetTilemap(tilemap.NewLayer(1, 1, 8, 8))
	if got, err := sim.Target(TilesName); err != nil || got == nil {
		t.Errorf("Target(tiles) = (%v, %v), expected the tile layer", got, err)
	}
}

func TestSimulation_StepRunsRulesBetweenUpdates(t *testing.T) {
	sim := newTestSimulation(t)
	mover := addSprite(t, sim, "mover", 0, 0, 10, 10)
	wall := addSprite(t, sim, "wall", 30, 0, 10, 40)
	wall.Body.Immovable = true
	mover.Body.Velocity = physics.Vector2D{X: 100}

	var hits []any
	if _, err := sim.AddRuleByName("block", "mover", "wall", ModeCollide, func(a, b any) { hits = append(hits, a, b) }, nil); err != nil {
		t.Fatalf("AddRuleByName() error = %v", err)
	}

	sim.Step()

	if sim.Tick() != 1 {
		t.Errorf("Tick() = %d, expected 1", sim.Tick())
	}
	if len(hits) != 2 || hits[0] != mover || hits[1] != wall {
		t.Fatalf("rule callback got %v, expected (mover, wall)", hits)
	}
	// Separation happened before PostUpdate wrote the position back.
	if mover.X != 20 {
		t.Errorf("mover.X = %v, expected 20 against the wall", mover.X)
	}
	r, _ := sim.Rule("block")
	if r.Hits() != 1 || r.Passes() != 1 {
		t.Errorf("Hits() = %d, Passes() = %d, expected 1 and 1", r.Hits(), r.Passes())
	}
}

func TestSimulation_RuleModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		disabled bool
		expectX  float64
		hits     uint64
	}{
		{"collide", ModeCollide, false, 5, 1},
		{"overlap", ModeOverlap, false, 10, 1},
		{"disabled", ModeCollide, true, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulation(t)
			a := addSprite(t, sim, "a", 0, 0, 10, 10)
			b := addSprite(t, sim, "b", 15, 0, 10, 10)
			b.Body.Immovable = true
			a.Body.Velocity = physics.Vector2D{X: 40}

			r := &Rule{Name: tt.name, A: a.Body, B: b.Body, Mode: tt.mode, Disabled: tt.disabled}
			if err := sim.AddRule(r); err != nil {
				t.Fatalf("AddRule() error = %v", err)
			}
			sim.Step()

			if r.Hits() != tt.hits {
				t.Errorf("Hits() = %d, expected %d", r.Hits(), tt.hits)
			}
			if a.X != tt.expectX {
				t.Errorf("a.X = %v, expected %v", a.X, tt.expectX)
			}
		})
	}
}

func TestSimulation_AddRuleErrors(t *testing.T) {
	sim := newTestSimulation(t)
	a := addSprite(t, sim, "a", 0, 0, 10, 10)

	if err := sim.AddRule(&Rule{Name: "self_body", A: a.Body}); err == nil {
		t.Error("AddRule() with a body self test expected an error")
	}
	if err := sim.AddRule(&Rule{Name: "no_target"}); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("AddRule() error = %v, expected ErrUnknownTarget", err)
	}
	if _, err := sim.AddRuleByName("x", "a", "ghost", ModeOverlap, nil, nil); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("AddRuleByName() error = %v, expected ErrUnknownTarget", err)
	}
	if len(sim.Rules()) != 0 {
		t.Errorf("Rules() has %d entries, expected none", len(sim.Rules()))
	}
}

func TestSimulation_Advance(t *testing.T) {
	tests := []struct {
		name        string
		timeStep    float64
		maxSubSteps int
		frames      []float64
		steps       []int
	}{
		{"exact", 0.25, 5, []float64{0.25, 0.25}, []int{1, 1}},
		{"accumulates", 0.25, 5, []float64{0.125, 0.125, 0.125}, []int{0, 1, 0}},
		{"catch_up", 0.0625, 5, []float64{0.25}, []int{4}},
		{"capped_frame", 0.125, 5, []float64{10}, []int{2}},
		{"substep_limit", 0.125, 1, []float64{0.25, 0.125}, []int{1, 1}},
		{"non_positive", 0.125, 5, []float64{0, -1}, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulation(t)
			sim.TimeStep = tt.timeStep
			sim.MaxSubSteps = tt.maxSubSteps

			for i, dt := range tt.frames {
				if got := sim.Advance(dt); got != tt.steps[i] {
					t.Errorf("Advance(%v) #%d = %d, expected %d", dt, i, got, tt.steps[i])
				}
			}
		})
	}
}

func TestSimulation_AdvanceDropsBacklog(t *testing.T) {
	sim := newTestSimulation(t)
	sim.TimeStep = 0.0625
	sim.MaxSubSteps = 2

	if got := sim.Advance(0.25); got != 2 {
		t.Errorf("Advance() = %d, expected the substep limit 2", got)
	}
	if got := sim.Advance(0.0625); got != 1 {
		t.Errorf("Advance() = %d, expected the backlog to be dropped", got)
	}
	if sim.Tick() != 3 {
		t.Errorf("Tick() = %d, expected 3", sim.Tick())
	}
}

func TestSimulation_PauseFreezesMotion(t *testing.T) {
	sim := newTestSimulation(t)
	sp := addSprite(t, sim, "s", 0, 0, 10, 10)
	sp.Body.Velocity = physics.Vector2D{Y: 40}

	sim.Pause()
	sim.Step()
	if sp.Y != 0 || sim.Tick() != 1 || !sim.Snapshot().Paused {
		t.Errorf("paused step moved sprite to %v at tick %d", sp.Y, sim.Tick())
	}

	sim.Resume()
	sim.Step()
	if sp.Y != 10 {
		t.Errorf("sprite y = %v, expected 10 after resuming", sp.Y)
	}
}

func TestSimulation_StepFrameWhilePaused(t *testing.T) {
	sim := newTestSimulation(t)
	sp := addSprite(t, sim, "s", 0, 0, 10, 10)
	sp.Body.Velocity = physics.Vector2D{Y: 40}
	sim.Pause()

	for i, expected := range []float64{10, 20} {
		sim.StepFrame()
		if sp.Y != expected {
			t.Errorf("after StepFrame() %d sprite y = %v, expected %v", i+1, sp.Y, expected)
		}
		if !sim.Snapshot().Paused {
			t.Fatal("StepFrame() should leave the simulation paused")
		}
	}

	sim.Step()
	if sp.Y != 20 || sim.Tick() != 3 {
		t.Errorf("paused Step() moved sprite to %v at tick %d, expected 20 at 3", sp.Y, sim.Tick())
	}
}

func TestSimulation_StartStopEvents(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Bus = event.NewEventBus()

	var got []event.Type
	for _, typ := range []event.Type{event.SimulationStarted, event.SimulationStopped} {
		sim.Bus.Subscribe(typ, func(e event.Event) { got = append(got, e.GetType()) })
	}

	sim.Start()
	sim.Start()
	if !sim.Running() {
		t.Error("Running() = false after Start()")
	}
	sim.Stop()
	sim.Stop()

	if len(got) != 2 || got[0] != event.SimulationStarted || got[1] != event.SimulationStopped {
		t.Errorf("bus saw %v, expected one start and one stop", got)
	}
	if sim.Events.Len() != 0 {
		t.Error("events should be forwarded, not left queued")
	}
}

func TestSimulation_ForwardsWorldEvents(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Bus = event.NewEventBus()
	addSprite(t, sim, "a", 0, 0, 10, 10)
	addSprite(t, sim, "b", 5, 0, 10, 10)

	overlaps := 0
	sim.Bus.Subscribe(event.BodyOverlapped, func(event.Event) { overlaps++ })
	if _, err := sim.AddRuleByName("touch", "a", "b", ModeOverlap, nil, nil); err != nil {
		t.Fatalf("AddRuleByName() error = %v", err)
	}

	sim.Step()

	if overlaps != 1 {
		t.Errorf("bus saw %d overlap events, expected 1", overlaps)
	}
}

func TestSimulation_Run(t *testing.T) {
	sim := newTestSimulation(t)
	sim.TimeStep = 0.001
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := sim.Run(ctx, time.Millisecond)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, expected the context error", err)
	}
	if sim.Tick() == 0 {
		t.Error("Run() did not step the simulation")
	}
	if sim.Running() {
		t.Error("Run() should stop the simulation on return")
	}
}

func TestSimulation_ECSSystem(t *testing.T) {
	sim := newTestSimulation(t)
	a := addSprite(t, sim, "a", 0, 0, 10, 10)
	addSprite(t, sim, "b", 50, 0, 10, 10)

	var w ecs.World
	w.AddSystem(sim)
	w.Update(0.25)

	if sim.Tick() != 1 {
		t.Errorf("Tick() = %d after an ecs update, expected 1", sim.Tick())
	}

	w.RemoveEntity(a.BasicEntity)
	if _, ok := sim.Sprite("a"); ok || a.Body != nil {
		t.Error("Remove() should unregister the sprite and destroy its body")
	}
	if len(sim.Sprites()) != 1 || sim.World.Len() != 1 {
		t.Errorf("%d sprites and %d bodies left, expected 1 and 1", len(sim.Sprites()), sim.World.Len())
	}
}

func TestSimulation_Snapshot(t *testing.T) {
	sim := newTestSimulation(t)
	sp := addSprite(t, sim, "s", 10, 20, 8, 8)
	sp.Body.SetCircle(4, 0, 0)
	sp.Body.Velocity = physics.Vector2D{X: 4, Y: -8}
	sim.Step()

	st := sim.Snapshot()
	if st.Tick != 1 || len(st.Bodies) != 1 {
		t.Fatalf("Snapshot() = %+v, expected one body at tick 1", st)
	}
	bs := st.Bodies[0]
	if bs.Name != "s" || bs.X != 11 || bs.Y != 18 || bs.Radius != 4 || bs.VX != 4 {
		t.Errorf("BodyState = %+v", bs)
	}
}

type countingRenderer struct {
	sprites, tiles, clears, presents int
}

func (c *countingRenderer) RenderSprite(*entity.Sprite) { c.sprites++ }
func (c *countingRenderer) RenderTile(*tilemap.Tile)    { c.tiles++ }
func (c *countingRenderer) Clear()                      { c.clears++ }
func (c *countingRenderer) Present()                    { c.presents++ }

func TestSimulation_Render(t *testing.T) {
	sim := newTestSimulation(t)
	addSprite(t, sim, "a", 0, 0, 1, 1)
	dead := addSprite(t, sim, "b", 0, 0, 1, 1)
	dead.Kill()
	l := tilemap.NewLayer(3, 1, 8, 8)
	l.FillFromRows([][]int{{1, -1, 1}}, tilemap.Empty)
	sim.SetTilemap(l)

	r := &countingRenderer{}
	sim.Render(r)

	if r.sprites != 1 || r.tiles != 2 || r.clears != 1 || r.presents != 1 {
		t.Errorf("renderer counts = %+v, expected 1 sprite, 2 tiles, one frame", *r)
	}
}
