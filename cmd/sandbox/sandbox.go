// cmd/sandbox/sandbox.go
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/opd-ai/go-arcade/pkg/config"
	"github.com/opd-ai/go-arcade/pkg/engine"
	"github.com/opd-ai/go-arcade/pkg/event"
	"github.com/opd-ai/go-arcade/pkg/logging"
)

// sandbox owns the running simulation and rebuilds it when its config
// changes on disk.
type sandbox struct {
	path     string
	template string
	bus      *event.Bus
	guard    *config.ReloadGuard
	logger   *logging.Logger

	mu       sync.Mutex
	sim      *engine.Simulation
	reloads  int
	lastErr  error
	counts   map[event.Type]int
	countsMu sync.Mutex
}

func newSandbox(path, template string, logger *logging.Logger) (*sandbox, error) {
	s := &sandbox{
		path:     path,
		template: template,
		bus:      event.NewEventBus(),
		guard:    config.NewReloadGuard(config.ReloadSettingsFromEnv(), logger),
		logger:   logging.OrNop(logger),
		counts:   make(map[event.Type]int),
	}
	for _, typ := range []event.Type{
		event.BodyCollided, event.BodyOverlapped, event.TileCollided,
		event.WorldBoundsHit, event.ConfigReloaded,
	} {
		s.bus.Subscribe(typ, s.count)
	}

	sim, err := s.build()
	if err != nil {
		return nil, err
	}
	s.sim = sim
	return s, nil
}

func (s *sandbox) count(e event.Event) {
	s.countsMu.Lock()
	defer s.countsMu.Unlock()
	s.counts[e.GetType()]++
}

// Count returns how many events of typ the bus has seen.
func (s *sandbox) Count(typ event.Type) int {
	s.countsMu.Lock()
	defer s.countsMu.Unlock()
	return s.counts[typ]
}

func (s *sandbox) build() (*engine.Simulation, error) {
	cfg, err := config.LoadConfigWithTemplate(s.path, s.template)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}

	baseDir := "."
	if s.path != "" {
		baseDir = filepath.Dir(s.path)
	}
	sim, err := engine.FromConfig(cfg, baseDir, s.logger)
	if err != nil {
		return nil, err
	}
	sim.Bus = s.bus
	return sim, nil
}

// Sim returns the current simulation.
func (s *sandbox) Sim() *engine.Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim
}

// Reload rebuilds the simulation from disk. On failure the running
// simulation is kept and the error returned. Repeated failures make the
// guard refuse reloads for a while.
func (s *sandbox) Reload(ctx context.Context, changed string) error {
	var next *engine.Simulation
	err := s.guard.Do(ctx, func() error {
		var err error
		next, err = s.build()
		return err
	})
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Error(ctx, "config reload failed, keeping current scene", err, "file", changed)
		return err
	}

	s.mu.Lock()
	prev := s.sim
	s.sim = next
	s.reloads++
	s.lastErr = nil
	s.mu.Unlock()

	wasRunning := prev.Running()
	prev.Stop()
	if wasRunning {
		next.Start()
	}
	s.bus.Publish(event.NewConfigEvent(s, changed))
	s.logger.Info(ctx, "config reloaded", "file", changed, "sprites", len(next.Sprites()))
	return nil
}

// Status is the one-line summary shown under the scene.
func (s *sandbox) Status() string {
	s.mu.Lock()
	sim, reloads, lastErr := s.sim, s.reloads, s.lastErr
	s.mu.Unlock()

	st := sim.Snapshot()
	state := "running"
	if st.Paused {
		state = "paused"
	}
	line := fmt.Sprintf("tick %d  bodies %d  hits %d  overlaps %d  tiles %d  reloads %d  [%s]",
		st.Tick, len(st.Bodies),
		s.Count(event.BodyCollided), s.Count(event.BodyOverlapped), s.Count(event.TileCollided),
		reloads, state)
	if lastErr != nil {
		line += "  reload error: " + lastErr.Error()
	}
	return line
}
