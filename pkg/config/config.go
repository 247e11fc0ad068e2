// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opd-ai/go-arcade/pkg/arcade"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// TilesTarget is the reserved rule target naming the tilemap layer.
const TilesTarget = "tiles"

// Rule modes.
const (
	ModeCollide = "collide"
	ModeOverlap = "overlap"
)

// WorldConfig describes a collision world and the scene simulated in it.
type WorldConfig struct {
	Gravity        Vec2           `yaml:"gravity" json:"gravity"`
	Bounds         RectConfig     `yaml:"bounds" json:"bounds"`
	CheckCollision EdgeConfig     `yaml:"check_collision" json:"checkCollision"`
	OverlapBias    float64        `yaml:"overlap_bias" json:"overlapBias"`
	TileBias       float64        `yaml:"tile_bias" json:"tileBias"`
	ForceX         bool           `yaml:"force_x" json:"forceX"`
	SortDirection  string         `yaml:"sort_direction" json:"sortDirection"`
	SkipQuadTree   bool           `yaml:"skip_quadtree" json:"skipQuadTree"`
	MaxObjects     int            `yaml:"max_objects" json:"maxObjects"`
	MaxLevels      int            `yaml:"max_levels" json:"maxLevels"`
	TickRate       int            `yaml:"tick_rate" json:"tickRate"`
	MaxSubSteps    int            `yaml:"max_substeps" json:"maxSubSteps"`
	Tilemap        *TilemapConfig `yaml:"tilemap,omitempty" json:"tilemap,omitempty"`
	Bodies         []BodyConfig   `yaml:"bodies,omitempty" json:"bodies,omitempty"`
	Groups         []GroupConfig  `yaml:"groups,omitempty" json:"groups,omitempty"`
	Rules          []RuleConfig   `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Vec2 is a plain two component vector.
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// RectConfig is a top-left rectangle.
type RectConfig struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// EdgeConfig selects the world edges that stop bodies.
type EdgeConfig struct {
	Up    bool `yaml:"up" json:"up"`
	Down  bool `yaml:"down" json:"down"`
	Left  bool `yaml:"left" json:"left"`
	Right bool `yaml:"right" json:"right"`
}

// TilemapConfig is a single tile layer. Rows hold tile indexes, -1 for
// empty cells. Collide lists the indexes solid on every side, OneWay the
// indexes that only stop bodies falling onto them.
type TilemapConfig struct {
	TileWidth  float64 `yaml:"tile_width" json:"tileWidth"`
	TileHeight float64 `yaml:"tile_height" json:"tileHeight"`
	Offset     Vec2    `yaml:"offset" json:"offset"`
	Rows       [][]int `yaml:"rows" json:"rows"`
	Collide    []int   `yaml:"collide,omitempty" json:"collide,omitempty"`
	OneWay     []int   `yaml:"one_way,omitempty" json:"oneWay,omitempty"`
}

// BodyConfig is one simulated sprite. A positive Radius makes a circle.
type BodyConfig struct {
	Name               string  `yaml:"name" json:"name"`
	X                  float64 `yaml:"x" json:"x"`
	Y                  float64 `yaml:"y" json:"y"`
	Width              float64 `yaml:"width" json:"width"`
	Height             float64 `yaml:"height" json:"height"`
	Radius             float64 `yaml:"radius,omitempty" json:"radius,omitempty"`
	Velocity           Vec2    `yaml:"velocity" json:"velocity"`
	Acceleration       Vec2    `yaml:"acceleration" json:"acceleration"`
	Drag               Vec2    `yaml:"drag" json:"drag"`
	Bounce             Vec2    `yaml:"bounce" json:"bounce"`
	Gravity            Vec2    `yaml:"gravity" json:"gravity"`
	MaxVelocity        *Vec2   `yaml:"max_velocity,omitempty" json:"maxVelocity,omitempty"`
	Mass               float64 `yaml:"mass,omitempty" json:"mass,omitempty"`
	Immovable          bool    `yaml:"immovable" json:"immovable"`
	NoGravity          bool    `yaml:"no_gravity" json:"noGravity"`
	CollideWorldBounds bool    `yaml:"collide_world_bounds" json:"collideWorldBounds"`
}

// GroupConfig collects bodies and other groups under one name.
type GroupConfig struct {
	Name          string   `yaml:"name" json:"name"`
	Members       []string `yaml:"members" json:"members"`
	Groups        []string `yaml:"groups,omitempty" json:"groups,omitempty"`
	SortDirection string   `yaml:"sort_direction,omitempty" json:"sortDirection,omitempty"`
}

// RuleConfig is a collide or overlap test run every step. A and B name
// bodies, groups or TilesTarget; an empty B tests group A against itself.
// Process is an optional script deciding per pair whether to proceed.
type RuleConfig struct {
	Name    string `yaml:"name" json:"name"`
	A       string `yaml:"a" json:"a"`
	B       string `yaml:"b,omitempty" json:"b,omitempty"`
	Mode    string `yaml:"mode" json:"mode"`
	Process string `yaml:"process,omitempty" json:"process,omitempty"`
}

// ValidationError reports the first invalid field of a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// isYAML reports whether path should be read and written as YAML.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig reads a YAML (.yaml, .yml) or JSON config on top of the
// defaults and validates it.
func LoadConfig(path string) (*WorldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML or JSON depending on the extension of path.
func SaveConfig(cfg *WorldConfig, path string) error {
	if cfg == nil {
		return errors.New("failed to marshal config: nil config")
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns an empty 800x600 world with the engine defaults.
func DefaultConfig() *WorldConfig {
	return &WorldConfig{
		Bounds:         RectConfig{Width: 800, Height: 600},
		CheckCollision: EdgeConfig{Up: true, Down: true, Left: true, Right: true},
		OverlapBias:    arcade.DefaultOverlapBias,
		TileBias:       arcade.DefaultTileBias,
		SortDirection:  arcade.SortLeftRight.String(),
		SkipQuadTree:   true,
		MaxObjects:     10,
		MaxLevels:      4,
		TickRate:       60,
		MaxSubSteps:    5,
	}
}

// Validate checks the config for values the simulation cannot be built
// from. Negative biases are allowed; they only degrade resolution.
func (c *WorldConfig) Validate() error {
	if c.Bounds.Width <= 0 || c.Bounds.Height <= 0 {
		return invalid("Bounds", "width and height must be positive, got %vx%v", c.Bounds.Width, c.Bounds.Height)
	}
	if c.TickRate <= 0 {
		return invalid("TickRate", "must be positive, got %d", c.TickRate)
	}
	if c.MaxSubSteps < 0 {
		return invalid("MaxSubSteps", "must not be negative, got %d", c.MaxSubSteps)
	}
	if c.MaxObjects < 0 || c.MaxLevels < 0 {
		return invalid("MaxObjects", "quadtree limits must not be negative")
	}
	if _, err := arcade.ParseSortDirection(c.SortDirection); err != nil {
		return invalid("SortDirection", "%v", err)
	}

	if err := c.validateTilemap(); err != nil {
		return err
	}

	names := make(map[string]string)
	for i, b := range c.Bodies {
		field := fmt.Sprintf("Bodies[%d]", i)
		if b.Name == "" {
			return invalid(field, "name is required")
		}
		if b.Name == TilesTarget {
			return invalid(field, "name %q is reserved", TilesTarget)
		}
		if _, dup := names[b.Name]; dup {
			return invalid(field, "duplicate name %q", b.Name)
		}
		if b.Width < 0 || b.Height < 0 || b.Radius < 0 {
			return invalid(field, "size must not be negative")
		}
		names[b.Name] = "body"
	}

	for i, g := range c.Groups {
		field := fmt.Sprintf("Groups[%d]", i)
		if g.Name == "" {
			return invalid(field, "name is required")
		}
		if _, dup := names[g.Name]; dup || g.Name == TilesTarget {
			return invalid(field, "name %q is already used", g.Name)
		}
		names[g.Name] = "group"
	}
	for i, g := range c.Groups {
		field := fmt.Sprintf("Groups[%d]", i)
		if g.SortDirection != "" {
			if _, err := arcade.ParseSortDirection(g.SortDirection); err != nil {
				return invalid(field, "%v", err)
			}
		}
		for _, m := range g.Members {
			if names[m] != "body" {
				return invalid(field, "unknown body %q", m)
			}
		}
		for _, sub := range g.Groups {
			if names[sub] != "group" || sub == g.Name {
				return invalid(field, "unknown nested group %q", sub)
			}
		}
	}

	for i, r := range c.Rules {
		field := fmt.Sprintf("Rules[%d]", i)
		if r.Mode != ModeCollide && r.Mode != ModeOverlap {
			return invalid(field, "mode must be %q or %q, got %q", ModeCollide, ModeOverlap, r.Mode)
		}
		if err := c.checkTarget(field, r.A, names); err != nil {
			return err
		}
		if r.B == "" {
			if names[r.A] != "group" {
				return invalid(field, "a self test needs a group, got %q", r.A)
			}
			continue
		}
		if err := c.checkTarget(field, r.B, names); err != nil {
			return err
		}
		if r.A == TilesTarget && r.B == TilesTarget {
			return invalid(field, "tiles cannot be tested against tiles")
		}
	}
	return nil
}

func (c *WorldConfig) checkTarget(field, name string, names map[string]string) error {
	if name == TilesTarget {
		if c.Tilemap == nil {
			return invalid(field, "rule targets tiles but no tilemap is configured")
		}
		return nil
	}
	if _, ok := names[name]; !ok {
		return invalid(field, "unknown target %q", name)
	}
	return nil
}

func (c *WorldConfig) validateTilemap() error {
	tm := c.Tilemap
	if tm == nil {
		return nil
	}
	if tm.TileWidth <= 0 || tm.TileHeight <= 0 {
		return invalid("Tilemap", "tile size must be positive, got %vx%v", tm.TileWidth, tm.TileHeight)
	}
	if len(tm.Rows) == 0 {
		return invalid("Tilemap", "rows are required")
	}
	return nil
}

// TilemapSize returns the grid size of the tilemap: the row count and the
// longest row.
func (tm *TilemapConfig) TilemapSize() (width, height int) {
	for _, row := range tm.Rows {
		width = max(width, len(row))
	}
	return width, len(tm.Rows)
}
