// pkg/engine/build.go
package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opd-ai/go-arcade/pkg/arcade"
	"github.com/opd-ai/go-arcade/pkg/config"
	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/logging"
	"github.com/opd-ai/go-arcade/pkg/physics"
	"github.com/opd-ai/go-arcade/pkg/script"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

// NewWorldFromConfig creates a world with the settings of cfg and no
// bodies.
func NewWorldFromConfig(cfg *config.WorldConfig, logger *logging.Logger) (*arcade.World, error) {
	dir, err := arcade.ParseSortDirection(cfg.SortDirection)
	if err != nil {
		return nil, logging.WrapError(err, "world config")
	}

	w := arcade.NewWorld(physics.NewRect(cfg.Bounds.X, cfg.Bounds.Y, cfg.Bounds.Width, cfg.Bounds.Height), logger)
	w.Gravity = physics.Vector2D{X: cfg.Gravity.X, Y: cfg.Gravity.Y}
	w.SetBoundsCollision(cfg.CheckCollision.Up, cfg.CheckCollision.Down, cfg.CheckCollision.Left, cfg.CheckCollision.Right)
	w.OverlapBias = cfg.OverlapBias
	w.Tiles.Bias = cfg.TileBias
	w.ForceX = cfg.ForceX
	w.SortDirection = dir
	w.SkipQuadTree = cfg.SkipQuadTree
	if cfg.MaxObjects > 0 {
		w.MaxObjects = cfg.MaxObjects
	}
	if cfg.MaxLevels > 0 {
		w.MaxLevels = cfg.MaxLevels
	}
	return w, nil
}

// NewTilemapFromConfig builds the tile layer described by tc.
func NewTilemapFromConfig(tc *config.TilemapConfig) *tilemap.Layer {
	width, height := tc.TilemapSize()
	l := tilemap.NewLayer(width, height, tc.TileWidth, tc.TileHeight)
	l.Name = config.TilesTarget
	l.Offset = physics.Vector2D{X: tc.Offset.X, Y: tc.Offset.Y}
	l.FillFromRows(tc.Rows, tilemap.Empty)
	if len(tc.Collide) > 0 {
		l.SetCollision(true, tc.Collide...)
	}

	if len(tc.OneWay) > 0 {
		oneWay := make(map[int]bool, len(tc.OneWay))
		for _, i := range tc.OneWay {
			oneWay[i] = true
		}
		l.Tiles(func(t *tilemap.Tile) {
			if oneWay[t.Index] {
				t.SetCollision(false, false, true, false)
			}
		})
	}
	return l
}

// NewSpriteFromConfig creates a sprite and a body in w configured by bc.
func NewSpriteFromConfig(w *arcade.World, bc config.BodyConfig) *entity.Sprite {
	width, height := bc.Width, bc.Height
	if bc.Radius > 0 {
		width, height = bc.Radius*2, bc.Radius*2
	}
	sp := entity.NewSprite(bc.Name, bc.X, bc.Y, width, height)
	b := sp.EnableBody(w)
	if bc.Radius > 0 {
		b.SetCircle(bc.Radius, 0, 0)
	}

	b.Velocity = physics.Vector2D{X: bc.Velocity.X, Y: bc.Velocity.Y}
	b.Acceleration = physics.Vector2D{X: bc.Acceleration.X, Y: bc.Acceleration.Y}
	b.Drag = physics.Vector2D{X: bc.Drag.X, Y: bc.Drag.Y}
	b.Bounce = physics.Vector2D{X: bc.Bounce.X, Y: bc.Bounce.Y}
	b.Gravity = physics.Vector2D{X: bc.Gravity.X, Y: bc.Gravity.Y}
	if bc.MaxVelocity != nil {
		b.MaxVelocity = physics.Vector2D{X: bc.MaxVelocity.X, Y: bc.MaxVelocity.Y}
	}
	if bc.Mass > 0 {
		b.Mass = bc.Mass
	}
	b.Immovable = bc.Immovable
	b.AllowGravity = !bc.NoGravity && !bc.Immovable
	b.CollideWorldBounds = bc.CollideWorldBounds
	return sp
}

// FromConfig builds a simulation from cfg. Rule scripts given as .tengo
// paths are resolved against baseDir.
func FromConfig(cfg *config.WorldConfig, baseDir string, logger *logging.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := NewWorldFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	sim := NewSimulation(w, logger)
	sim.TimeStep = 1 / float64(cfg.TickRate)
	sim.MaxSubSteps = cfg.MaxSubSteps

	if cfg.Tilemap != nil {
		sim.SetTilemap(NewTilemapFromConfig(cfg.Tilemap))
	}

	for _, bc := range cfg.Bodies {
		if _, err := sim.AddSprite(NewSpriteFromConfig(w, bc)); err != nil {
			return nil, logging.WrapError(err, "body %s", bc.Name)
		}
	}

	if err := sim.addGroups(cfg.Groups); err != nil {
		return nil, err
	}

	for i, rc := range cfg.Rules {
		name := rc.Name
		if name == "" {
			name = fmt.Sprintf("rule%d", i)
		}
		if err := sim.addConfigRule(name, rc, baseDir); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

func (s *Simulation) addGroups(groups []config.GroupConfig) error {
	built := make(map[string]*arcade.Group, len(groups))
	for _, gc := range groups {
		g := arcade.NewGroup(gc.Name)
		if gc.SortDirection != "" {
			dir, err := arcade.ParseSortDirection(gc.SortDirection)
			if err != nil {
				return logging.WrapError(err, "group %s", gc.Name)
			}
			g.SortDirection = dir
		}
		if err := s.AddGroup(g); err != nil {
			return err
		}
		built[gc.Name] = g
	}

	for _, gc := range groups {
		g := built[gc.Name]
		for _, m := range gc.Members {
			sp, ok := s.Sprite(m)
			if !ok {
				return fmt.Errorf("group %s: %w: %s", gc.Name, ErrUnknownTarget, m)
			}
			g.Add(sp.Body)
		}
		for _, sub := range gc.Groups {
			child, ok := built[sub]
			if !ok {
				return fmt.Errorf("group %s: %w: %s", gc.Name, ErrUnknownTarget, sub)
			}
			g.AddGroup(child)
		}
	}
	return nil
}

func (s *Simulation) addConfigRule(name string, rc config.RuleConfig, baseDir string) error {
	mode, err := ParseMode(rc.Mode)
	if err != nil {
		return logging.WrapError(err, "rule %s", name)
	}

	var filter *script.ProcessFilter
	var process arcade.ProcessFunc
	if rc.Process != "" {
		if script.IsPath(rc.Process) {
			filter, err = script.Load(filepath.Join(baseDir, strings.TrimSpace(rc.Process)))
		} else {
			filter, err = script.Compile(name, rc.Process)
		}
		if err != nil {
			return logging.WrapError(err, "rule %s", name)
		}
		process = filter.ProcessFunc()
	}

	r, err := s.AddRuleByName(name, rc.A, rc.B, mode, nil, process)
	if err != nil {
		return err
	}
	r.filter = filter
	return nil
}
