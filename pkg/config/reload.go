// pkg/config/reload.go
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-arcade/pkg/logging"
)

// ReloadSettings control how often a broken config may be retried.
type ReloadSettings struct {
	// MaxConsecutiveFailures trips the guard.
	MaxConsecutiveFailures int
	// Cooldown is how long reloads are refused once tripped.
	Cooldown time.Duration
}

// DefaultReloadSettings returns the settings used when no environment
// override is present.
func DefaultReloadSettings() ReloadSettings {
	return ReloadSettings{
		MaxConsecutiveFailures: 3,
		Cooldown:               5 * time.Second,
	}
}

// ReloadSettingsFromEnv reads ARCADE_RELOAD_MAX_FAILURES and
// ARCADE_RELOAD_COOLDOWN on top of the defaults.
func ReloadSettingsFromEnv() ReloadSettings {
	s := DefaultReloadSettings()
	s.MaxConsecutiveFailures = getEnvAsIntOrDefault(EnvReloadMaxFailures, s.MaxConsecutiveFailures)
	s.Cooldown = getEnvAsDurationOrDefault(EnvReloadCooldown, s.Cooldown)
	if s.MaxConsecutiveFailures < 1 {
		s.MaxConsecutiveFailures = 1
	}
	return s
}

// ReloadGuard runs config reloads through a circuit breaker. After too many
// consecutive failures it refuses reloads until the cooldown passes, then
// lets a single attempt through.
type ReloadGuard struct {
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

// NewReloadGuard creates a guard with the given settings.
func NewReloadGuard(settings ReloadSettings, logger *logging.Logger) *ReloadGuard {
	logger = logging.OrNop(logger)
	maxFails := uint32(1)
	if settings.MaxConsecutiveFailures > 1 {
		maxFails = uint32(settings.MaxConsecutiveFailures)
	}

	return &ReloadGuard{
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "config-reload",
			MaxRequests: 1,
			Timeout:     settings.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFails
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Info(context.Background(), "reload guard state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		}),
		logger: logger,
	}
}

// Do runs reload unless the guard is open. Errors from reload are returned
// wrapped; a refused attempt returns gobreaker.ErrOpenState or
// gobreaker.ErrTooManyRequests.
func (g *ReloadGuard) Do(ctx context.Context, reload func() error) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, reload()
	})
	if err != nil {
		g.logger.Debug(ctx, "guarded reload failed", "error", err, "state", g.breaker.State().String())
		return fmt.Errorf("reload guard: %w", err)
	}
	return nil
}

// State returns the breaker state.
func (g *ReloadGuard) State() gobreaker.State {
	return g.breaker.State()
}

// Open reports whether reloads are currently refused.
func (g *ReloadGuard) Open() bool {
	return g.breaker.State() == gobreaker.StateOpen
}
