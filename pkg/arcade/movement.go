package arcade

import (
	"math"

	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/physics"
)

// MoveFrom moves the body at speed along angleDegrees for durationMs
// milliseconds. It returns false when speed is 0 or the duration is not
// positive.
func (b *Body) MoveFrom(durationMs, speed, angleDegrees float64) bool {
	if speed == 0 || durationMs <= 0 {
		return false
	}
	b.Velocity = cardinalVelocity(angleDegrees, speed)
	b.moveByDistance = false
	b.moveTimer = 0
	b.moveDuration = durationMs
	b.moving = true
	return true
}

// MoveFromCurrent is MoveFrom using the body's current speed and rotation.
func (b *Body) MoveFromCurrent(durationMs float64) bool {
	return b.MoveFrom(durationMs, b.Speed, b.Rotation)
}

// MoveTo moves the body distance units along angleDegrees, taking
// durationMs milliseconds. The movement ends when the distance has been
// covered (the body snaps to the end point), on collision, or when the
// movement callback returns false.
func (b *Body) MoveTo(durationMs, distance, angleDegrees float64) bool {
	if durationMs <= 0 || distance == 0 {
		return false
	}
	speed := distance / (durationMs / 1000)
	b.Velocity = cardinalVelocity(angleDegrees, speed)

	b.moveByDistance = true
	b.moveDistance = math.Abs(distance)
	b.moveStart = b.Position
	b.moveEnd = b.Position.Add(physics.FromAngle(physics.DegToRad(angleDegrees), distance))
	b.moving = true
	return true
}

// MoveToCurrent is MoveTo along the body's current rotation.
func (b *Body) MoveToCurrent(durationMs, distance float64) bool {
	return b.MoveTo(durationMs, distance, b.Rotation)
}

// cardinalVelocity keeps the off axis exactly zero for the four cardinal
// angles.
func cardinalVelocity(angleDegrees, speed float64) physics.Vector2D {
	rad := physics.DegToRad(angleDegrees)
	switch angleDegrees {
	case 0, 180:
		return physics.Vector2D{X: math.Cos(rad) * speed}
	case 90, 270:
		return physics.Vector2D{Y: math.Sin(rad) * speed}
	}
	return physics.FromAngle(rad, speed)
}

// StopMovement ends a MoveTo or MoveFrom, optionally zeroing velocity, and
// fires OnMoveComplete.
func (b *Body) StopMovement(stopVelocity bool) {
	if !b.moving {
		return
	}
	b.moving = false
	if stopVelocity {
		b.Velocity = physics.Vector2D{}
	}

	collided := b.OverlapX != 0 || b.OverlapY != 0
	if b.OnMoveComplete != nil {
		b.OnMoveComplete(b.ownerValue(), collided)
	}
	if q := b.queue(); q != nil {
		q.Push(event.NewMoveCompleteEvent(b.world, b.ownerValue(), collided))
	}
}

// updateMovement reports whether the movement is still running.
func (b *Body) updateMovement() bool {
	collided := b.OverlapX != 0 || b.OverlapY != 0

	var percent float64
	if b.moveByDistance {
		percent = b.Position.Distance(b.moveStart) / b.moveDistance
	} else {
		b.moveTimer += b.elapsed * 1000
		percent = b.moveTimer / b.moveDuration
	}

	proceed := true
	if b.MovementCallback != nil {
		proceed = b.MovementCallback(b, b.Velocity, percent)
	}

	if collided || percent >= 1 || !proceed {
		if b.moveByDistance && percent >= 1 {
			b.Position = b.moveEnd
		}
		b.StopMovement(percent >= 1 || (b.StopVelocityOnCollide && collided))
		return false
	}
	return true
}
