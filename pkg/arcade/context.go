package arcade

import "github.com/opd-ai/go-arcade/pkg/physics"

// SimulationContext is the per-tick input to body integration: global
// gravity, the world rectangle and its collidable edges, and the elapsed
// time in seconds.
type SimulationContext struct {
	Gravity        physics.Vector2D
	Bounds         physics.Rect
	CheckCollision CheckFlags
	Dt             float64
	Paused         bool
}
