package arcade

import (
	"math"

	"github.com/opd-ai/go-arcade/pkg/physics"
)

// VelocityFromAngle returns the velocity of magnitude speed along
// angleDegrees.
func VelocityFromAngle(angleDegrees, speed float64) physics.Vector2D {
	return physics.FromAngle(physics.DegToRad(angleDegrees), speed)
}

// VelocityFromRotation returns the velocity of magnitude speed along
// rotation radians.
func VelocityFromRotation(rotation, speed float64) physics.Vector2D {
	return physics.FromAngle(rotation, speed)
}

// AccelerationFromRotation is VelocityFromRotation for acceleration.
func AccelerationFromRotation(rotation, speed float64) physics.Vector2D {
	return physics.FromAngle(rotation, speed)
}

// MoveToXY points b's velocity at (x, y). With maxTimeMs > 0 the speed is
// raised or lowered so the body arrives in that time. The body does not
// stop on arrival. It returns the heading in radians.
func MoveToXY(b *Body, x, y, speed, maxTimeMs float64) float64 {
	angle := AngleToXY(b, x, y)
	if maxTimeMs > 0 {
		speed = DistanceToXY(b, x, y) / (maxTimeMs / 1000)
	}
	b.Velocity = physics.FromAngle(angle, speed)
	return angle
}

// MoveToObject is MoveToXY toward the center of dest.
func MoveToObject(b, dest *Body, speed, maxTimeMs float64) float64 {
	c := dest.Center()
	return MoveToXY(b, c.X, c.Y, speed, maxTimeMs)
}

// AccelerateToXY sets b's acceleration toward (x, y) and caps its velocity
// at (xMax, yMax). It returns the heading in radians.
func AccelerateToXY(b *Body, x, y, speed, xMax, yMax float64) float64 {
	angle := AngleToXY(b, x, y)
	b.Acceleration = physics.FromAngle(angle, speed)
	b.MaxVelocity = physics.Vector2D{X: xMax, Y: yMax}
	return angle
}

// AccelerateToObject is AccelerateToXY toward the center of dest.
func AccelerateToObject(b, dest *Body, speed, xMax, yMax float64) float64 {
	c := dest.Center()
	return AccelerateToXY(b, c.X, c.Y, speed, xMax, yMax)
}

// DistanceBetween returns the distance between the centers of two bodies.
func DistanceBetween(a, b *Body) float64 {
	return a.Center().Distance(b.Center())
}

// DistanceToXY returns the distance from b's center to (x, y).
func DistanceToXY(b *Body, x, y float64) float64 {
	return b.Center().Distance(physics.Vector2D{X: x, Y: y})
}

// AngleBetween returns the angle in radians from a's center to b's.
func AngleBetween(a, b *Body) float64 {
	return a.Center().AngleTo(b.Center())
}

// AngleToXY returns the angle in radians from b's center to (x, y).
func AngleToXY(b *Body, x, y float64) float64 {
	return b.Center().AngleTo(physics.Vector2D{X: x, Y: y})
}

// Closest returns the target nearest to source, or nil for no targets.
// Ties keep the earlier target.
func Closest(source *Body, targets []*Body) *Body {
	return pickByDistance(source, targets, func(d, best float64) bool { return d < best })
}

// Farthest returns the target farthest from source, or nil for no targets.
func Farthest(source *Body, targets []*Body) *Body {
	return pickByDistance(source, targets, func(d, best float64) bool { return d > best })
}

func pickByDistance(source *Body, targets []*Body, better func(d, best float64) bool) *Body {
	var pick *Body
	best := math.NaN()
	for _, t := range targets {
		if t == nil || t == source {
			continue
		}
		d := DistanceBetween(source, t)
		if pick == nil || better(d, best) {
			pick, best = t, d
		}
	}
	return pick
}

// BodiesAt returns the live bodies of g, including nested groups, whose
// shape contains the point (x, y).
func (w *World) BodiesAt(x, y float64, g *Group) []*Body {
	if !g.exists() {
		return nil
	}
	qt := w.quadTree
	qt.Reset(w.Bounds.X, w.Bounds.Y, w.Bounds.Width, w.Bounds.Height, w.MaxObjects, w.MaxLevels)
	g.Walk(func(b *Body) {
		if b.exists() {
			qt.Insert(b.Bounds(), b)
		}
	})

	var hits []*Body
	for _, b := range qt.RetrieveRegion(physics.Rect{X: x, Y: y}) {
		if b.HitTest(x, y) {
			hits = append(hits, b)
		}
	}
	return hits
}
