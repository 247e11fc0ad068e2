// pkg/engine/rule.go
package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/opd-ai/go-arcade/pkg/arcade"
	"github.com/opd-ai/go-arcade/pkg/logging"
	"github.com/opd-ai/go-arcade/pkg/script"
)

// TilesName is the target name of the simulation's tile layer.
const TilesName = "tiles"

// Mode selects whether a rule separates bodies or only reports overlaps.
type Mode int

const (
	ModeCollide Mode = iota
	ModeOverlap
)

func (m Mode) String() string {
	if m == ModeOverlap {
		return "overlap"
	}
	return "collide"
}

// ParseMode accepts "collide" and "overlap".
func ParseMode(name string) (Mode, error) {
	switch name {
	case "collide":
		return ModeCollide, nil
	case "overlap":
		return ModeOverlap, nil
	}
	return ModeCollide, fmt.Errorf("unknown rule mode %q", name)
}

// Rule is a collide or overlap test run every step. A nil B tests group A
// against itself.
type Rule struct {
	Name     string
	A        arcade.Target
	B        arcade.Target
	Mode     Mode
	OnHit    arcade.PairFunc
	Process  arcade.ProcessFunc
	Disabled bool

	// hits and passes are read by reporting goroutines while a step runs.
	hits   atomic.Uint64
	passes atomic.Uint64
	// filter is the script behind Process, if any.
	filter   *script.ProcessFilter
	reported bool
}

// Hits returns how many pairs the rule has reported.
func (r *Rule) Hits() uint64 { return r.hits.Load() }

// Passes returns how many steps found at least one pair.
func (r *Rule) Passes() uint64 { return r.passes.Load() }

// ScriptFailures returns how many runs of the rule's process script
// failed and vetoed a pair.
func (r *Rule) ScriptFailures() uint64 {
	if r.filter == nil {
		return 0
	}
	return r.filter.Failures()
}

// reportScript logs the first script failure of the rule.
func (r *Rule) reportScript(logger *logging.Logger) {
	if r.reported || r.filter == nil || r.filter.Failures() == 0 {
		return
	}
	r.reported = true
	logger.Warn(context.Background(), "collision rule script failing, pairs vetoed",
		"rule", r.Name, "error", r.filter.LastError())
}

func (r *Rule) run(w *arcade.World) {
	if r.Disabled {
		return
	}
	onHit := func(a, b any) {
		r.hits.Add(1)
		if r.OnHit != nil {
			r.OnHit(a, b)
		}
	}

	var found bool
	if r.Mode == ModeOverlap {
		found = w.Overlap(r.A, r.B, onHit, r.Process)
	} else {
		found = w.Collide(r.A, r.B, onHit, r.Process)
	}
	if found {
		r.passes.Add(1)
	}
}

// AddRule appends r to the step. Rules run in the order they were added.
func (s *Simulation) AddRule(r *Rule) error {
	if r == nil || r.A == nil {
		return fmt.Errorf("rule %q: %w: missing first target", ruleName(r), ErrUnknownTarget)
	}
	if r.B == nil {
		if _, ok := r.A.(*arcade.Group); !ok {
			return fmt.Errorf("rule %q: a self test needs a group", r.Name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, r)
	s.logger.Info(context.Background(), "collision rule registered",
		"rule", r.Name, "mode", r.Mode.String(), "self", r.B == nil)
	return nil
}

// AddRuleByName resolves a and b (b may be empty for a self test) and
// registers the rule.
func (s *Simulation) AddRuleByName(name, a, b string, mode Mode, onHit arcade.PairFunc, process arcade.ProcessFunc) (*Rule, error) {
	ta, err := s.Target(a)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", name, err)
	}
	var tb arcade.Target
	if b != "" {
		if tb, err = s.Target(b); err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
	}

	r := &Rule{Name: name, A: ta, B: tb, Mode: mode, OnHit: onHit, Process: process}
	if err := s.AddRule(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Rule returns the named rule.
func (s *Simulation) Rule(name string) (*Rule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rules {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Rules returns the registered rules in run order.
func (s *Simulation) Rules() []*Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Rule(nil), s.rules...)
}

func ruleName(r *Rule) string {
	if r == nil {
		return ""
	}
	return r.Name
}
