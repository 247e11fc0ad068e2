// Package script runs tengo snippets as collision process callbacks.
//
// A snippet sees two maps, a and b, describing the candidate pair and
// must assign allow:
//
//	allow := a.name != b.name && b.vy >= 0
//
// Sprites expose name, x, y, width, height, vx, vy, speed, immovable,
// circle and the touching/blocked flags of their body. Tiles expose tile
// (true), index, col, row, x, y, width and height.
package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/opd-ai/go-arcade/pkg/arcade"
	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

// ErrNoResult is returned when a snippet finishes without assigning a
// boolean to allow.
var ErrNoResult = errors.New("script did not assign allow")

// maxAllocs bounds the objects a single run may allocate.
const maxAllocs = 5000

var modules = []string{"math", "text", "times", "rand", "fmt", "enum"}

// ProcessFilter is a compiled snippet deciding whether a pair proceeds to
// separation. It is not safe for concurrent use.
type ProcessFilter struct {
	Name string

	compiled *tengo.Compiled
	failures uint64
	lastErr  error
}

// Compile compiles src. The name labels errors.
func Compile(name, src string) (*ProcessFilter, error) {
	s := tengo.NewScript([]byte(src))
	for _, v := range []string{"a", "b"} {
		if err := s.Add(v, map[string]any{}); err != nil {
			return nil, fmt.Errorf("script %s: declare %s: %w", name, v, err)
		}
	}
	s.SetImports(stdlib.GetModuleMap(modules...))
	s.SetMaxAllocs(maxAllocs)

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: compile: %w", name, err)
	}
	return &ProcessFilter{Name: name, compiled: compiled}, nil
}

// Load compiles the snippet stored at path.
func Load(path string) (*ProcessFilter, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script %s: load: %w", path, err)
	}
	return Compile(path, string(src))
}

// IsPath reports whether a rule's process field names a script file
// rather than holding inline source.
func IsPath(process string) bool {
	p := strings.TrimSpace(process)
	return strings.HasSuffix(p, ".tengo") && !strings.ContainsAny(p, "\n=")
}

// Allow runs the snippet for the owners a and b.
func (f *ProcessFilter) Allow(a, b any) (bool, error) {
	if err := f.compiled.Set("a", Describe(a)); err != nil {
		return false, fmt.Errorf("script %s: %w", f.Name, err)
	}
	if err := f.compiled.Set("b", Describe(b)); err != nil {
		return false, fmt.Errorf("script %s: %w", f.Name, err)
	}
	if err := f.compiled.Run(); err != nil {
		return false, fmt.Errorf("script %s: run: %w", f.Name, err)
	}

	if !f.compiled.IsDefined("allow") {
		return false, fmt.Errorf("script %s: %w", f.Name, ErrNoResult)
	}
	v := f.compiled.Get("allow")
	if v.ValueType() != "bool" {
		return false, fmt.Errorf("script %s: %w (got %s)", f.Name, ErrNoResult, v.ValueType())
	}
	return v.Bool(), nil
}

// ProcessFunc adapts the filter to arcade.ProcessFunc. A failing run
// vetoes the pair and is recorded for Failures and LastError.
func (f *ProcessFilter) ProcessFunc() arcade.ProcessFunc {
	return func(a, b any) bool {
		ok, err := f.Allow(a, b)
		if err != nil {
			f.failures++
			f.lastErr = err
			return false
		}
		return ok
	}
}

// Failures returns how many runs through ProcessFunc failed.
func (f *ProcessFilter) Failures() uint64 { return f.failures }

// LastError returns the most recent ProcessFunc failure.
func (f *ProcessFilter) LastError() error { return f.lastErr }

// Describe converts a collision owner to the map a snippet sees.
func Describe(owner any) map[string]any {
	switch o := owner.(type) {
	case *entity.Sprite:
		m := map[string]any{
			"name":   o.Name,
			"id":     int64(o.ID()),
			"x":      o.X,
			"y":      o.Y,
			"width":  o.Width,
			"height": o.Height,
			"active": o.Active,
			"tile":   false,
		}
		if o.Body != nil {
			describeBody(m, o.Body)
		}
		return m
	case *tilemap.Tile:
		return map[string]any{
			"tile":   true,
			"index":  int64(o.Index),
			"col":    int64(o.X),
			"row":    int64(o.Y),
			"x":      o.WorldX,
			"y":      o.WorldY,
			"width":  o.Width,
			"height": o.Height,
		}
	case arcade.Owner:
		tr := o.Transform()
		return map[string]any{
			"name":   fmt.Sprintf("%T", owner),
			"x":      tr.X,
			"y":      tr.Y,
			"width":  tr.Width,
			"height": tr.Height,
			"tile":   false,
		}
	}
	return map[string]any{}
}

func describeBody(m map[string]any, b *arcade.Body) {
	m["vx"] = b.Velocity.X
	m["vy"] = b.Velocity.Y
	m["speed"] = b.Speed
	m["immovable"] = b.Immovable
	m["circle"] = b.IsCircle()
	m["touching"] = directions(b.Touching)
	m["blocked"] = directions(b.Blocked)
}

func directions(d arcade.Directions) map[string]any {
	return map[string]any{
		"up":    d.Up,
		"down":  d.Down,
		"left":  d.Left,
		"right": d.Right,
	}
}
