package arcade

import (
	"fmt"
	"math"
	"slices"

	"github.com/opd-ai/go-arcade/pkg/physics"
)

// Default body limits.
const (
	DefaultMaxVelocity = 10000
	DefaultMaxAngular  = 1000
)

// Shape is the collision shape of a body: RectShape or CircleShape.
type Shape interface {
	isShape()
}

// RectShape is an axis-aligned rectangle of unscaled size.
type RectShape struct {
	Width  float64
	Height float64
}

// CircleShape is a circle of unscaled radius.
type CircleShape struct {
	Radius float64
}

func (RectShape) isShape()   {}
func (CircleShape) isShape() {}

// Body is the kinematic state attached to one owner. Position is the
// top-left corner of the body's bounding box for both shapes.
type Body struct {
	Enable bool

	Position     physics.Vector2D
	Prev         physics.Vector2D
	Velocity     physics.Vector2D
	Acceleration physics.Vector2D
	Drag         physics.Vector2D
	Gravity      physics.Vector2D
	MaxVelocity  physics.Vector2D
	Bounce       physics.Vector2D
	// WorldBounce replaces Bounce for world bounds rebounds when set.
	WorldBounce *physics.Vector2D
	// Friction scales how much of an immovable body's movement is passed
	// to a body resting on it.
	Friction    physics.Vector2D
	DeltaMax    physics.Vector2D
	TilePadding physics.Vector2D
	Offset      physics.Vector2D
	Mass        float64

	AngularVelocity     float64
	AngularAcceleration float64
	AngularDrag         float64
	MaxAngular          float64
	Rotation            float64
	PreRotation         float64

	// Angle is the direction of travel in radians, Speed its magnitude.
	Angle  float64
	Speed  float64
	Facing Facing

	Immovable             bool
	Moves                 bool
	AllowGravity          bool
	AllowDrag             bool
	AllowRotation         bool
	CollideWorldBounds    bool
	CustomSeparateX       bool
	CustomSeparateY       bool
	SkipQuadTree          bool
	StopVelocityOnCollide bool
	CheckCollision        CheckFlags

	Touching    Directions
	WasTouching Directions
	Blocked     Directions
	OverlapX    float64
	OverlapY    float64
	OverlapR    float64
	Embedded    bool

	OnCollide        func(self, other any)
	OnOverlap        func(self, other any)
	OnWorldBounds    func(owner any, up, down, left, right bool)
	OnMoveComplete   func(owner any, collided bool)
	MovementCallback func(b *Body, velocity physics.Vector2D, percent float64) bool

	owner  Owner
	world  *World
	groups []*Group

	shape        Shape
	sourceWidth  float64
	sourceHeight float64
	width        float64
	height       float64
	halfWidth    float64
	halfHeight   float64
	scaleX       float64
	scaleY       float64

	dirty   bool
	reset   bool
	elapsed float64

	moving         bool
	moveByDistance bool
	moveTimer      float64
	moveDuration   float64
	moveDistance   float64
	moveStart      physics.Vector2D
	moveEnd        physics.Vector2D
}

// NewBody creates an enabled rectangle body sized from the owner's
// transform. It is not registered with any world.
func NewBody(owner Owner) *Body {
	tr := owner.Transform()
	sx, sy := tr.scale()
	b := &Body{
		Enable:         true,
		MaxVelocity:    physics.Vector2D{X: DefaultMaxVelocity, Y: DefaultMaxVelocity},
		Friction:       physics.Vector2D{X: 1, Y: 0},
		Mass:           1,
		MaxAngular:     DefaultMaxAngular,
		Moves:          true,
		AllowGravity:   true,
		AllowDrag:      true,
		AllowRotation:  true,
		CheckCollision: AllSides(),
		owner:          owner,
		scaleX:         math.Abs(sx),
		scaleY:         math.Abs(sy),
		reset:          true,
	}
	b.sourceWidth = math.Max(tr.Width, 0)
	b.sourceHeight = math.Max(tr.Height, 0)
	b.shape = RectShape{Width: b.sourceWidth, Height: b.sourceHeight}
	b.resize()
	b.Position = b.positionFrom(tr)
	b.Prev = b.Position
	b.Rotation = tr.Angle
	b.PreRotation = tr.Angle
	return b
}

// Owner returns the owner, or nil once the body is destroyed.
func (b *Body) Owner() Owner { return b.owner }

// World returns the world the body is registered with, if any.
func (b *Body) World() *World { return b.world }

// Shape returns the current collision shape.
func (b *Body) Shape() Shape { return b.shape }

// IsCircle reports whether the body uses a circle shape.
func (b *Body) IsCircle() bool {
	_, ok := b.shape.(CircleShape)
	return ok
}

// Radius returns the scaled radius for circles and 0 for rectangles.
func (b *Body) Radius() float64 {
	if b.IsCircle() {
		return b.halfWidth
	}
	return 0
}

// Width returns the scaled width of the bounding box.
func (b *Body) Width() float64 { return b.width }

// Height returns the scaled height of the bounding box.
func (b *Body) Height() float64 { return b.height }

// HalfWidth returns half the scaled width.
func (b *Body) HalfWidth() float64 { return b.halfWidth }

// HalfHeight returns half the scaled height.
func (b *Body) HalfHeight() float64 { return b.halfHeight }

func (b *Body) Left() float64   { return b.Position.X }
func (b *Body) Right() float64  { return b.Position.X + b.width }
func (b *Body) Top() float64    { return b.Position.Y }
func (b *Body) Bottom() float64 { return b.Position.Y + b.height }

// Center returns the middle of the bounding box, the circle center for
// circle bodies.
func (b *Body) Center() physics.Vector2D {
	return physics.Vector2D{X: b.Position.X + b.halfWidth, Y: b.Position.Y + b.halfHeight}
}

// Bounds returns the bounding box in world space.
func (b *Body) Bounds() physics.Rect {
	return physics.Rect{X: b.Position.X, Y: b.Position.Y, Width: b.width, Height: b.height}
}

// Circle returns the collision circle of a circle body.
func (b *Body) Circle() physics.Circle {
	return physics.Circle{Center: b.Center(), Radius: b.halfWidth}
}

// DeltaX returns the horizontal movement since the start of the tick.
func (b *Body) DeltaX() float64 { return b.Position.X - b.Prev.X }

// DeltaY returns the vertical movement since the start of the tick.
func (b *Body) DeltaY() float64 { return b.Position.Y - b.Prev.Y }

// DeltaZ returns the rotation change since the start of the tick.
func (b *Body) DeltaZ() float64 { return b.Rotation - b.PreRotation }

func (b *Body) DeltaAbsX() float64 { return math.Abs(b.DeltaX()) }
func (b *Body) DeltaAbsY() float64 { return math.Abs(b.DeltaY()) }

// OnFloor reports whether the body is blocked below.
func (b *Body) OnFloor() bool { return b.Blocked.Down }

// OnCeiling reports whether the body is blocked above.
func (b *Body) OnCeiling() bool { return b.Blocked.Up }

// OnWall reports whether the body is blocked on either side.
func (b *Body) OnWall() bool { return b.Blocked.Left || b.Blocked.Right }

// IsMoving reports whether a MoveTo or MoveFrom is in progress.
func (b *Body) IsMoving() bool { return b.moving }

// HitTest reports whether the point lies inside the body shape.
func (b *Body) HitTest(x, y float64) bool {
	if b.IsCircle() {
		return b.Center().Distance(physics.Vector2D{X: x, Y: y}) <= b.halfWidth
	}
	return b.Bounds().Contains(physics.Vector2D{X: x, Y: y})
}

// SetSize switches to a rectangle shape of the given unscaled size and
// offset from the owner origin.
func (b *Body) SetSize(width, height, offsetX, offsetY float64) {
	width = b.checkDimension("width", width)
	height = b.checkDimension("height", height)
	b.sourceWidth = width
	b.sourceHeight = height
	b.shape = RectShape{Width: width, Height: height}
	b.Offset = physics.Vector2D{X: offsetX, Y: offsetY}
	b.resize()
}

// SetCircle switches to a circle shape of the given unscaled radius and
// offset. A non-positive radius reverts to a rectangle of the current
// unscaled size.
func (b *Body) SetCircle(radius, offsetX, offsetY float64) {
	if radius <= 0 {
		b.checkDimension("radius", radius)
		b.shape = RectShape{Width: b.sourceWidth, Height: b.sourceHeight}
		return
	}
	b.sourceWidth = radius * 2
	b.sourceHeight = radius * 2
	b.shape = CircleShape{Radius: radius}
	b.Offset = physics.Vector2D{X: offsetX, Y: offsetY}
	b.resize()
}

// checkDimension clamps negative sizes to 0, or panics in debug worlds.
func (b *Body) checkDimension(name string, v float64) float64 {
	if v >= 0 {
		return v
	}
	if b.world != nil && b.world.Debug {
		panic(fmt.Sprintf("arcade: negative body %s %v", name, v))
	}
	return 0
}

func (b *Body) resize() {
	b.width = b.sourceWidth * b.scaleX
	b.height = b.sourceHeight * b.scaleY
	b.halfWidth = b.width / 2
	b.halfHeight = b.height / 2
}

// positionFrom derives the top-left corner from an owner transform.
func (b *Body) positionFrom(tr Transform) physics.Vector2D {
	sx, sy := tr.scale()
	x := tr.X - tr.AnchorX*sx*tr.Width + sx*b.Offset.X
	y := tr.Y - tr.AnchorY*sy*tr.Height + sy*b.Offset.Y
	if sx < 0 {
		x -= b.width
	}
	if sy < 0 {
		y -= b.height
	}
	return physics.Vector2D{X: x, Y: y}
}

// updateBounds tracks owner scale changes.
func (b *Body) updateBounds(tr Transform) {
	sx, sy := tr.scale()
	asx, asy := math.Abs(sx), math.Abs(sy)
	if asx == b.scaleX && asy == b.scaleY {
		return
	}
	b.scaleX = asx
	b.scaleY = asy
	b.resize()
	b.reset = true
}

// Stop zeroes linear and angular motion.
func (b *Body) Stop() {
	b.Velocity = physics.Vector2D{}
	b.Acceleration = physics.Vector2D{}
	b.Speed = 0
	b.AngularVelocity = 0
	b.AngularAcceleration = 0
}

// Reset stops the body and moves it and its owner so the owner origin is
// at (x, y), without integrating a tick.
func (b *Body) Reset(x, y float64) {
	b.Stop()
	if b.owner == nil {
		return
	}
	tr := b.owner.Transform()
	b.owner.Translate(x-tr.X, y-tr.Y)
	tr.X, tr.Y = x, y
	b.updateBounds(tr)
	b.Position = b.positionFrom(tr)
	b.Prev = b.Position
	b.Rotation = tr.Angle
	b.PreRotation = tr.Angle
	b.reset = true
}

// Destroy detaches the body from its groups, its world and its owner. A
// destroyed body is disabled and never collides again.
func (b *Body) Destroy() {
	for _, g := range slices.Clone(b.groups) {
		g.Remove(b)
	}
	b.groups = nil
	if b.world != nil {
		b.world.remove(b)
		b.world = nil
	}
	if d, ok := b.owner.(Detacher); ok {
		d.DetachBody(b)
	}
	b.owner = nil
	b.Enable = false
	b.moving = false
}

// exists reports whether the body can take part in a collision pass.
func (b *Body) exists() bool {
	if b == nil || b.owner == nil {
		return false
	}
	if e, ok := b.owner.(Existence); ok {
		return e.Exists()
	}
	return true
}

func (b *Body) ownerValue() any {
	if b.owner == nil {
		return nil
	}
	return b.owner
}
