package arcade

import (
	"testing"

	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/physics"
)

func tick(w *World, dt float64) {
	w.PreUpdate(dt)
	w.PostUpdate()
}

func TestBody_MoveTo(t *testing.T) {
	w := newTestWorld()
	w.Events = event.NewQueue(0)
	b, o := newTestBody(w, 0, 0, 10, 10)

	completed := 0
	b.OnMoveComplete = func(owner any, collided bool) {
		completed++
		if collided {
			t.Error("OnMoveComplete reported a collision")
		}
	}

	if !b.MoveTo(1000, 100, 0) {
		t.Fatal("MoveTo() = false")
	}
	if b.Velocity != (physics.Vector2D{X: 100}) {
		t.Errorf("Velocity = %v, expected (100, 0)", b.Velocity)
	}

	tick(w, 0.5)
	if !b.IsMoving() || completed != 0 {
		t.Fatal("movement finished early")
	}
	tick(w, 0.5)

	if b.IsMoving() || completed != 1 {
		t.Fatalf("IsMoving() = %v after covering the distance, completed %d", b.IsMoving(), completed)
	}
	if !approxEqual(o.tr.X, 100) || o.tr.Y != 0 {
		t.Errorf("owner at (%v, %v), expected (100, 0)", o.tr.X, o.tr.Y)
	}
	if b.Velocity != (physics.Vector2D{}) {
		t.Errorf("Velocity = %v, expected a finished move to stop", b.Velocity)
	}
	if events := w.Events.Drain(); len(events) != 1 || events[0].GetType() != event.MoveCompleted {
		t.Error("expected one MoveCompleted event")
	}
}

func TestBody_MoveFrom(t *testing.T) {
	w := newTestWorld()
	b, o := newTestBody(w, 0, 0, 10, 10)

	if !b.MoveFrom(500, 60, 90) {
		t.Fatal("MoveFrom() = false")
	}
	if b.Velocity != (physics.Vector2D{Y: 60}) {
		t.Errorf("Velocity = %v, expected (0, 60)", b.Velocity)
	}

	tick(w, 0.25)
	if !b.IsMoving() {
		t.Fatal("movement finished early")
	}
	tick(w, 0.25)

	if b.IsMoving() {
		t.Error("movement should end once the duration elapses")
	}
	if !approxEqual(o.tr.Y, 30) {
		t.Errorf("owner y = %v, expected 30", o.tr.Y)
	}
}

func TestBody_MoveRejectsInvalid(t *testing.T) {
	w := newTestWorld()
	b, _ := newTestBody(w, 0, 0, 10, 10)

	tests := []struct {
		name string
		call func() bool
	}{
		{"move_from_zero_speed", func() bool { return b.MoveFrom(100, 0, 0) }},
		{"move_from_zero_duration", func() bool { return b.MoveFrom(0, 10, 0) }},
		{"move_to_zero_distance", func() bool { return b.MoveTo(100, 0, 0) }},
		{"move_to_negative_duration", func() bool { return b.MoveTo(-1, 10, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.call() || b.IsMoving() {
				t.Error("invalid movement should be rejected")
			}
		})
	}
}

func TestBody_MovementCallbackCancels(t *testing.T) {
	w := newTestWorld()
	b, _ := newTestBody(w, 0, 0, 10, 10)

	var percents []float64
	b.MovementCallback = func(_ *Body, _ physics.Vector2D, percent float64) bool {
		percents = append(percents, percent)
		return percent < 0.4
	}
	b.MoveFrom(1000, 50, 0)

	for i := 0; i < 5; i++ {
		tick(w, 0.25)
	}

	if b.IsMoving() {
		t.Error("a false callback should stop the movement")
	}
	if len(percents) != 2 || !approxEqual(percents[1], 0.5) {
		t.Errorf("callback saw %v, expected [0.25 0.5]", percents)
	}
	if b.Velocity.X != 50 {
		t.Errorf("Velocity.X = %v, expected a cancelled move to keep its velocity", b.Velocity.X)
	}
}

func TestBody_MovementStopsOnCollision(t *testing.T) {
	tests := []struct {
		name         string
		stopVelocity bool
		expected     float64
	}{
		{"keep_velocity", false, -100},
		{"stop_velocity", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld()
			b, _ := newTestBody(w, 0, 0, 10, 10)
			wall, _ := newTestBody(w, 15, 0, 10, 10)
			wall.Immovable = true
			b.Bounce = physics.Vector2D{X: 0.5}
			b.StopVelocityOnCollide = tt.stopVelocity

			var collided bool
			b.OnMoveComplete = func(_ any, c bool) { collided = c }
			b.MoveTo(1000, 200, 0)

			w.PreUpdate(0.1)
			w.Collide(b, wall, nil, nil)
			w.PostUpdate()

			if b.IsMoving() || !collided {
				t.Error("a collision should end the movement and be reported")
			}
			if b.Velocity.X != tt.expected {
				t.Errorf("Velocity.X = %v, expected %v", b.Velocity.X, tt.expected)
			}
		})
	}
}

func TestBody_StopMovement(t *testing.T) {
	w := newTestWorld()
	b, _ := newTestBody(w, 0, 0, 10, 10)
	calls := 0
	b.OnMoveComplete = func(any, bool) { calls++ }

	b.StopMovement(true)
	if calls != 0 {
		t.Error("StopMovement() on an idle body should not fire OnMoveComplete")
	}

	b.MoveFrom(1000, 10, 180)
	b.StopMovement(true)
	if calls != 1 || b.Velocity != (physics.Vector2D{}) || b.IsMoving() {
		t.Errorf("StopMovement(true) left velocity %v, moving %v, calls %d", b.Velocity, b.IsMoving(), calls)
	}
}
