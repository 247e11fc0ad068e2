// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVector2D_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Vector2D
		expected Vector2D
	}{
		{"add", Vector2D{X: 3, Y: 4}.Add(Vector2D{X: 1, Y: 2}), Vector2D{X: 4, Y: 6}},
		{"sub", Vector2D{X: 2, Y: 3}.Sub(Vector2D{X: 5, Y: 7}), Vector2D{X: -3, Y: -4}},
		{"scale", Vector2D{X: 2, Y: -3}.Scale(2), Vector2D{X: 4, Y: -6}},
		{"mul", Vector2D{X: 2, Y: -3}.Mul(Vector2D{X: 0.5, Y: -1}), Vector2D{X: 1, Y: 3}},
		{"negate", Vector2D{X: 2, Y: -3}.Negate(), Vector2D{X: -2, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, expected %v", tt.got, tt.expected)
			}
		})
	}
}

func TestVector2D_Length(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}
	if v.Length() != 5 {
		t.Errorf("Length() = %v, expected 5", v.Length())
	}
	if v.LengthSquared() != 25 {
		t.Errorf("LengthSquared() = %v, expected 25", v.LengthSquared())
	}
}

func TestVector2D_Normalize(t *testing.T) {
	t.Run("unit_length", func(t *testing.T) {
		n := Vector2D{X: -6, Y: 8}.Normalize()
		if !approxEqual(n.Length(), 1) {
			t.Errorf("Normalize() length = %v, expected 1", n.Length())
		}
		if !approxEqual(n.X, -0.6) || !approxEqual(n.Y, 0.8) {
			t.Errorf("Normalize() = %v, expected (-0.6, 0.8)", n)
		}
	})

	t.Run("zero_vector_stays_zero", func(t *testing.T) {
		if n := (Vector2D{}).Normalize(); !n.IsZero() {
			t.Errorf("Normalize() on zero vector = %v, expected zero", n)
		}
	})
}

func TestVector2D_Limit(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		max      float64
		expected float64
	}{
		{"under_limit", Vector2D{X: 3, Y: 4}, 10, 5},
		{"over_limit", Vector2D{X: 30, Y: 40}, 10, 10},
		{"negative_limit_ignored", Vector2D{X: 30, Y: 40}, -1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Limit(tt.max).Length(); !approxEqual(got, tt.expected) {
				t.Errorf("Limit(%v).Length() = %v, expected %v", tt.max, got, tt.expected)
			}
		})
	}
}

func TestVector2D_Angles(t *testing.T) {
	if a := (Vector2D{X: 0, Y: 1}).Angle(); !approxEqual(a, math.Pi/2) {
		t.Errorf("Angle() = %v, expected pi/2", a)
	}
	if a := (Vector2D{X: 1, Y: 1}).AngleTo(Vector2D{X: 1, Y: 5}); !approxEqual(a, math.Pi/2) {
		t.Errorf("AngleTo() = %v, expected pi/2", a)
	}

	v := FromAngle(math.Pi, 2)
	if !approxEqual(v.X, -2) || !approxEqual(v.Y, 0) {
		t.Errorf("FromAngle(pi, 2) = %v, expected (-2, 0)", v)
	}

	r := Vector2D{X: 1, Y: 0}.Rotate(math.Pi / 2)
	if !approxEqual(r.X, 0) || !approxEqual(r.Y, 1) {
		t.Errorf("Rotate(pi/2) = %v, expected (0, 1)", r)
	}

	if !approxEqual(RadToDeg(DegToRad(270)), 270) {
		t.Error("DegToRad/RadToDeg round trip drifted")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		value, min, max, expected float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.value, tt.min, tt.max); got != tt.expected {
			t.Errorf("Clamp(%v, %v, %v) = %v, expected %v", tt.value, tt.min, tt.max, got, tt.expected)
		}
	}
}
