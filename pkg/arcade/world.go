package arcade

import (
	"context"
	"slices"

	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/logging"
	"github.com/opd-ai/go-arcade/pkg/physics"
)

// DefaultOverlapBias is the slack, in pixels, added to the combined
// per-tick movement of two bodies before an overlap is rejected as too
// deep to be a fresh contact.
const DefaultOverlapBias = 4

// World owns the global simulation settings, the registered bodies and
// the broad phase used by Collide and Overlap.
type World struct {
	Gravity        physics.Vector2D
	Bounds         physics.Rect
	CheckCollision CheckFlags
	OverlapBias    float64
	// ForceX makes rectangle separation always resolve X before Y.
	ForceX        bool
	SortDirection SortDirection
	// SkipQuadTree selects the sorted flat scan over the quadtree for
	// body-vs-group tests.
	SkipQuadTree bool
	MaxObjects   int
	MaxLevels    int
	// Debug turns invalid shape sizes into panics.
	Debug bool

	// Events, when set, receives every body signal.
	Events *event.Queue
	Tiles  *TileCollision

	paused   bool
	elapsed  float64
	bodies   []*Body
	quadTree *physics.QuadTree[*Body]
	logger   *logging.Logger
}

// NewWorld creates a world with the given bounds, no gravity, all edges
// collidable, left-to-right sorting and the flat scan broad phase.
func NewWorld(bounds physics.Rect, logger *logging.Logger) *World {
	return &World{
		Bounds:         bounds,
		CheckCollision: AllSides(),
		OverlapBias:    DefaultOverlapBias,
		SortDirection:  SortLeftRight,
		SkipQuadTree:   true,
		MaxObjects:     physics.DefaultMaxObjects,
		MaxLevels:      physics.DefaultMaxLevels,
		Tiles:          NewTileCollision(),
		quadTree:       physics.NewQuadTree[*Body](bounds.X, bounds.Y, bounds.Width, bounds.Height, physics.DefaultMaxObjects, physics.DefaultMaxLevels),
		logger:         logging.OrNop(logger),
	}
}

// Enable creates a body for owner and registers it with the world.
func (w *World) Enable(owner Owner) *Body {
	if owner == nil {
		return nil
	}
	b := NewBody(owner)
	w.Add(b)
	return b
}

// Add registers an existing body. A body belongs to at most one world.
func (w *World) Add(b *Body) {
	if b == nil || b.world == w {
		return
	}
	if b.world != nil {
		b.world.remove(b)
	}
	b.world = w
	w.bodies = append(w.bodies, b)
}

func (w *World) remove(b *Body) {
	if i := slices.Index(w.bodies, b); i >= 0 {
		w.bodies = slices.Delete(slices.Clone(w.bodies), i, i+1)
	}
}

// Bodies returns the registered bodies in registration order.
func (w *World) Bodies() []*Body { return slices.Clone(w.bodies) }

// Len returns the number of registered bodies.
func (w *World) Len() int { return len(w.bodies) }

// Context builds the integration context for a tick of dt seconds.
func (w *World) Context(dt float64) SimulationContext {
	return SimulationContext{
		Gravity:        w.Gravity,
		Bounds:         w.Bounds,
		CheckCollision: w.CheckCollision,
		Dt:             dt,
		Paused:         w.paused,
	}
}

// Elapsed returns the dt of the last PreUpdate.
func (w *World) Elapsed() float64 { return w.elapsed }

// PreUpdate integrates every registered body for a tick of dt seconds.
func (w *World) PreUpdate(dt float64) {
	w.elapsed = dt
	ctx := w.Context(dt)
	for _, b := range w.bodies {
		b.PreUpdate(ctx)
	}
}

// PostUpdate writes every registered body back to its owner.
func (w *World) PostUpdate() {
	for _, b := range w.bodies {
		b.PostUpdate()
	}
}

// Pause freezes body integration. Collide and Overlap still run.
func (w *World) Pause() {
	if w.paused {
		return
	}
	w.paused = true
	w.logger.Debug(context.Background(), "world paused")
}

// Resume undoes Pause.
func (w *World) Resume() {
	if !w.paused {
		return
	}
	w.paused = false
	w.logger.Debug(context.Background(), "world resumed")
}

// Paused reports whether integration is frozen.
func (w *World) Paused() bool { return w.paused }

// SetBounds replaces the world rectangle.
func (w *World) SetBounds(x, y, width, height float64) {
	w.Bounds = physics.NewRect(x, y, width, height)
	w.logger.Debug(context.Background(), "world bounds changed",
		"x", x, "y", y, "width", w.Bounds.Width, "height", w.Bounds.Height)
}

// SetBoundsToSize resizes the world to width x height at the origin.
func (w *World) SetBoundsToSize(width, height float64) {
	w.SetBounds(0, 0, width, height)
}

// SetBoundsCollision selects which world edges stop bodies.
func (w *World) SetBoundsCollision(up, down, left, right bool) {
	w.CheckCollision = CheckFlags{Up: up, Down: down, Left: left, Right: right}
}

// UseQuadTree switches the body-vs-group broad phase.
func (w *World) UseQuadTree(enabled bool) {
	w.SkipQuadTree = !enabled
	w.logger.Debug(context.Background(), "broad phase changed", "quadtree", enabled)
}

// effectiveSort returns the direction g is sorted and pruned with.
func (w *World) effectiveSort(g *Group) SortDirection {
	if g.SortDirection != SortInherit {
		return g.SortDirection
	}
	if w.SortDirection == SortInherit {
		return SortNone
	}
	return w.SortDirection
}
