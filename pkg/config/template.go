// pkg/config/template.go
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
)

// SceneTemplate is a named, ready to run world layout.
type SceneTemplate struct {
	Name        string
	Description string
	Gravity     Vec2
	Bounds      RectConfig
	Tilemap     *TilemapConfig
	Bodies      []BodyConfig
	Groups      []GroupConfig
	Rules       []RuleConfig
}

var sceneTemplates = map[string]*SceneTemplate{
	"platformer": {
		Name:        "Platformer",
		Description: "Falling crates landing on a tile floor with a one-way ledge",
		Gravity:     Vec2{Y: 600},
		Bounds:      RectConfig{Width: 320, Height: 160},
		Tilemap: &TilemapConfig{
			TileWidth:  16,
			TileHeight: 16,
			Rows: [][]int{
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, 2, 2, 2, 2, 2, 2, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
			},
			Collide: []int{1},
			OneWay:  []int{2},
		},
		Bodies: []BodyConfig{
			{Name: "crate1", X: 40, Y: 10, Width: 16, Height: 16, Bounce: Vec2{Y: 0.3}, CollideWorldBounds: true},
			{Name: "crate2", X: 120, Y: 0, Width: 16, Height: 16, Bounce: Vec2{Y: 0.2}, CollideWorldBounds: true},
			{Name: "crate3", X: 128, Y: 30, Width: 16, Height: 16, CollideWorldBounds: true},
			{Name: "ball", X: 250, Y: 20, Radius: 8, Velocity: Vec2{X: -80}, Bounce: Vec2{X: 0.8, Y: 0.6}, CollideWorldBounds: true},
		},
		Groups: []GroupConfig{
			{Name: "crates", Members: []string{"crate1", "crate2", "crate3"}},
			{Name: "props", Members: []string{"ball"}, Groups: []string{"crates"}},
		},
		Rules: []RuleConfig{
			{Name: "stack", A: "props", Mode: ModeCollide},
			{Name: "floor", A: "props", B: TilesTarget, Mode: ModeCollide},
		},
	},
	"top_down": {
		Name:        "Top Down",
		Description: "A player sweeping through pickups inside a walled arena",
		Bounds:      RectConfig{Width: 400, Height: 300},
		Bodies: []BodyConfig{
			{Name: "player", X: 20, Y: 140, Width: 16, Height: 16, Velocity: Vec2{X: 120}, Drag: Vec2{X: 10, Y: 10}, CollideWorldBounds: true},
			{Name: "wall", X: 300, Y: 100, Width: 20, Height: 100, Immovable: true},
			{Name: "coin1", X: 100, Y: 144, Width: 8, Height: 8},
			{Name: "coin2", X: 180, Y: 144, Width: 8, Height: 8},
			{Name: "coin3", X: 240, Y: 144, Width: 8, Height: 8},
		},
		Groups: []GroupConfig{
			{Name: "coins", Members: []string{"coin1", "coin2", "coin3"}},
		},
		Rules: []RuleConfig{
			{Name: "pickup", A: "player", B: "coins", Mode: ModeOverlap},
			{Name: "blocked", A: "player", B: "wall", Mode: ModeCollide},
		},
	},
	"billiards": {
		Name:        "Billiards",
		Description: "Elastic circles on a bounded table",
		Bounds:      RectConfig{Width: 400, Height: 200},
		Bodies: []BodyConfig{
			{Name: "cue", X: 40, Y: 92, Radius: 8, Velocity: Vec2{X: 300, Y: 5}, Bounce: Vec2{X: 1, Y: 1}, CollideWorldBounds: true},
			{Name: "ball1", X: 200, Y: 92, Radius: 8, Bounce: Vec2{X: 1, Y: 1}, CollideWorldBounds: true},
			{Name: "ball2", X: 216, Y: 82, Radius: 8, Bounce: Vec2{X: 1, Y: 1}, CollideWorldBounds: true},
			{Name: "ball3", X: 216, Y: 102, Radius: 8, Bounce: Vec2{X: 1, Y: 1}, CollideWorldBounds: true},
		},
		Groups: []GroupConfig{
			{Name: "balls", Members: []string{"cue", "ball1", "ball2", "ball3"}, SortDirection: "none"},
		},
		Rules: []RuleConfig{
			{Name: "break", A: "balls", Mode: ModeCollide},
		},
	},
}

// GetSceneTemplate returns the named template or nil.
func GetSceneTemplate(name string) *SceneTemplate {
	return sceneTemplates[name]
}

// ListSceneTemplates maps template keys to their descriptions.
func ListSceneTemplates() map[string]string {
	out := make(map[string]string, len(sceneTemplates))
	for key, tpl := range sceneTemplates {
		out[key] = tpl.Description
	}
	return out
}

// ApplySceneTemplate replaces the scene of cfg with the named template.
// World tuning such as biases and the tick rate is left alone.
func ApplySceneTemplate(cfg *WorldConfig, name string) error {
	tpl := GetSceneTemplate(name)
	if tpl == nil {
		return fmt.Errorf("unknown scene template: %s", name)
	}

	cfg.Gravity = tpl.Gravity
	cfg.Bounds = tpl.Bounds
	cfg.Tilemap = nil
	if tpl.Tilemap != nil {
		tm := *tpl.Tilemap
		tm.Rows = make([][]int, len(tpl.Tilemap.Rows))
		for i, row := range tpl.Tilemap.Rows {
			tm.Rows[i] = slices.Clone(row)
		}
		tm.Collide = slices.Clone(tm.Collide)
		tm.OneWay = slices.Clone(tm.OneWay)
		cfg.Tilemap = &tm
	}
	cfg.Bodies = slices.Clone(tpl.Bodies)
	cfg.Groups = make([]GroupConfig, len(tpl.Groups))
	for i, g := range tpl.Groups {
		g.Members = slices.Clone(g.Members)
		g.Groups = slices.Clone(g.Groups)
		cfg.Groups[i] = g
	}
	cfg.Rules = slices.Clone(tpl.Rules)

	return cfg.Validate()
}

// LoadConfigWithTemplate loads path, falling back to the defaults when
// the file does not exist, and applies the named template on top. An
// empty template keeps the scene of the file.
func LoadConfigWithTemplate(path, template string) (*WorldConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = DefaultConfig()
	}
	if template == "" {
		return cfg, nil
	}

	if err := ApplySceneTemplate(cfg, template); err != nil {
		return nil, err
	}
	return cfg, nil
}
