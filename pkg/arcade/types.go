// Package arcade is an axis-aligned rectangle and circle collision world:
// per-body motion integration, pair and group broad phase dispatch,
// rectangle and circle separation, and tile grid resolution.
//
// The package is single threaded. A tick is World.PreUpdate, any number of
// Collide/Overlap calls, then World.PostUpdate.
package arcade

import (
	"fmt"
	"strings"
)

// Transform is the owner state a body reads every tick. X and Y are the
// world position of the owner origin, Width and Height its unscaled size.
// Angle is in degrees.
type Transform struct {
	X       float64
	Y       float64
	AnchorX float64
	AnchorY float64
	ScaleX  float64
	ScaleY  float64
	Width   float64
	Height  float64
	Angle   float64
}

// scale returns the transform scale with zero read as 1.
func (t Transform) scale() (float64, float64) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// Owner is the scene object a body belongs to. The body reads the
// transform in PreUpdate and writes the integrated delta back in
// PostUpdate.
type Owner interface {
	Transform() Transform
	Translate(dx, dy float64)
	Rotate(deltaDegrees float64)
}

// Existence is implemented by owners that can be switched off without
// being destroyed. Owners that do not implement it always exist.
type Existence interface {
	Exists() bool
}

// Detacher is implemented by owners that keep a reference to their body
// and must drop it when the body is destroyed.
type Detacher interface {
	DetachBody(b *Body)
}

// Directions holds one flag per side.
type Directions struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Any reports whether at least one side is set.
func (d Directions) Any() bool {
	return d.Up || d.Down || d.Left || d.Right
}

// None reports whether no side is set.
func (d Directions) None() bool { return !d.Any() }

// CheckFlags selects which sides of a body (or the world bounds) take part
// in collision. None disables collision entirely.
type CheckFlags struct {
	None  bool
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// AllSides returns flags with every side enabled.
func AllSides() CheckFlags {
	return CheckFlags{Up: true, Down: true, Left: true, Right: true}
}

// Facing is the last direction a body moved in.
type Facing int

const (
	FacingNone Facing = iota
	FacingLeft
	FacingRight
	FacingUp
	FacingDown
)

func (f Facing) String() string {
	switch f {
	case FacingLeft:
		return "left"
	case FacingRight:
		return "right"
	case FacingUp:
		return "up"
	case FacingDown:
		return "down"
	}
	return "none"
}

// SortDirection selects the axis group members are sorted on before a
// flat scan, letting the scan stop once candidates are out of reach.
type SortDirection int

const (
	// SortInherit is only meaningful on a Group: use the world setting.
	SortInherit SortDirection = iota
	SortNone
	SortLeftRight
	SortRightLeft
	SortTopBottom
	SortBottomTop
)

var sortNames = map[SortDirection]string{
	SortInherit:   "inherit",
	SortNone:      "none",
	SortLeftRight: "left_right",
	SortRightLeft: "right_left",
	SortTopBottom: "top_bottom",
	SortBottomTop: "bottom_top",
}

func (d SortDirection) String() string {
	if s, ok := sortNames[d]; ok {
		return s
	}
	return fmt.Sprintf("SortDirection(%d)", int(d))
}

// ParseSortDirection accepts the names produced by String, case
// insensitively, with "-" or "_" separators.
func ParseSortDirection(name string) (SortDirection, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for d, s := range sortNames {
		if s == n {
			return d, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort direction %q", name)
}

// PairFunc receives the owners of a colliding or overlapping pair. For
// tile collisions b is the *tilemap.Tile.
type PairFunc func(a, b any)

// ProcessFunc may veto a candidate pair before separation by returning
// false. Arguments follow PairFunc.
type ProcessFunc func(a, b any) bool
