package arcade

import (
	"math"

	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/physics"
)

// PreUpdate resets the per-tick collision state, re-reads the owner
// transform and integrates motion. It is a no-op for disabled bodies, for
// bodies whose owner no longer exists and while the context is paused.
func (b *Body) PreUpdate(ctx SimulationContext) {
	if !b.Enable || ctx.Paused || !b.exists() {
		return
	}
	b.dirty = true
	b.elapsed = ctx.Dt

	b.WasTouching = b.Touching
	b.Touching = Directions{}
	b.Blocked = Directions{}
	b.OverlapX = 0
	b.OverlapY = 0
	b.OverlapR = 0
	b.Embedded = false

	tr := b.owner.Transform()
	b.updateBounds(tr)
	b.Position = b.positionFrom(tr)
	b.Rotation = tr.Angle
	b.PreRotation = b.Rotation

	if b.reset {
		b.Prev = b.Position
	}

	if b.Moves {
		b.updateMotion(ctx)
		b.Position = b.Position.Add(b.Velocity.Scale(ctx.Dt))
		if b.Position != b.Prev {
			b.Angle = math.Atan2(b.Velocity.Y, b.Velocity.X)
		}
		b.Speed = b.Velocity.Length()

		if b.CollideWorldBounds && b.checkWorldBounds(ctx) {
			b.emitWorldBounds()
		}
	}

	b.reset = false
}

// updateMotion integrates angular and linear velocity for one tick.
func (b *Body) updateMotion(ctx SimulationContext) {
	dt := ctx.Dt
	if b.AllowRotation {
		b.AngularVelocity = b.computeVelocity(b.AngularVelocity, 0, b.AngularAcceleration, b.AngularDrag, b.MaxAngular, dt)
		b.Rotation += b.AngularVelocity * dt
	}

	var gx, gy float64
	if b.AllowGravity {
		gx = ctx.Gravity.X + b.Gravity.X
		gy = ctx.Gravity.Y + b.Gravity.Y
	}
	b.Velocity.X = b.computeVelocity(b.Velocity.X, gx, b.Acceleration.X, b.Drag.X, b.MaxVelocity.X, dt)
	b.Velocity.Y = b.computeVelocity(b.Velocity.Y, gy, b.Acceleration.Y, b.Drag.Y, b.MaxVelocity.Y, dt)
}

// computeVelocity applies gravity, then acceleration or (when there is no
// acceleration) drag, and clamps to ±max. Drag never reverses direction.
func (b *Body) computeVelocity(v, gravity, accel, drag, max, dt float64) float64 {
	v += gravity * dt

	if accel != 0 {
		v += accel * dt
	} else if drag != 0 && b.AllowDrag {
		d := drag * dt
		switch {
		case v-d > 0:
			v -= d
		case v+d < 0:
			v += d
		default:
			v = 0
		}
	}

	return physics.Clamp(v, -max, max)
}

// checkWorldBounds clamps the body inside the world rectangle on every
// enabled edge, reflecting velocity by the bounce factor. It reports
// whether any edge was struck.
func (b *Body) checkWorldBounds(ctx SimulationContext) bool {
	bounds := ctx.Bounds
	check := ctx.CheckCollision

	bounce := b.Bounce
	if b.WorldBounce != nil {
		bounce = *b.WorldBounce
	}
	bx, by := -bounce.X, -bounce.Y

	if b.Position.X < bounds.X && check.Left {
		b.Position.X = bounds.X
		b.Velocity.X *= bx
		b.Blocked.Left = true
	} else if b.Right() > bounds.Right() && check.Right {
		b.Position.X = bounds.Right() - b.width
		b.Velocity.X *= bx
		b.Blocked.Right = true
	}

	if b.Position.Y < bounds.Y && check.Up {
		b.Position.Y = bounds.Y
		b.Velocity.Y *= by
		b.Blocked.Up = true
	} else if b.Bottom() > bounds.Bottom() && check.Down {
		b.Position.Y = bounds.Bottom() - b.height
		b.Velocity.Y *= by
		b.Blocked.Down = true
	}

	return b.Blocked.Any()
}

// PostUpdate advances any scripted movement, derives facing and writes the
// tick's movement back to the owner. It runs at most once per PreUpdate.
func (b *Body) PostUpdate() {
	if !b.Enable || !b.dirty || !b.exists() {
		return
	}
	if b.moving {
		b.updateMovement()
	}
	b.dirty = false

	dx, dy := b.DeltaX(), b.DeltaY()
	if dx < 0 {
		b.Facing = FacingLeft
	} else if dx > 0 {
		b.Facing = FacingRight
	}
	if dy < 0 {
		b.Facing = FacingUp
	} else if dy > 0 {
		b.Facing = FacingDown
	}

	if b.Moves {
		if b.DeltaMax.X != 0 {
			dx = physics.Clamp(dx, -b.DeltaMax.X, b.DeltaMax.X)
		}
		if b.DeltaMax.Y != 0 {
			dy = physics.Clamp(dy, -b.DeltaMax.Y, b.DeltaMax.Y)
		}
		b.owner.Translate(dx, dy)
		b.reset = true
	}

	if b.AllowRotation {
		if dz := b.DeltaZ(); dz != 0 {
			b.owner.Rotate(dz)
		}
	}

	b.Prev = b.Position
}

func (b *Body) emitWorldBounds() {
	up, down, left, right := b.Blocked.Up, b.Blocked.Down, b.Blocked.Left, b.Blocked.Right
	if b.OnWorldBounds != nil {
		b.OnWorldBounds(b.ownerValue(), up, down, left, right)
	}
	if q := b.queue(); q != nil {
		q.Push(event.NewWorldBoundsEvent(b.world, b.ownerValue(), up, down, left, right))
	}
}

func (b *Body) queue() *event.Queue {
	if b.world == nil {
		return nil
	}
	return b.world.Events
}
