package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestReloadGuard_Trips(t *testing.T) {
	guard := NewReloadGuard(ReloadSettings{MaxConsecutiveFailures: 2, Cooldown: 50 * time.Millisecond}, nil)
	ctx := context.Background()
	errBroken := errors.New("broken yaml")

	calls := 0
	failing := func() error {
		calls++
		return errBroken
	}

	for i := 0; i < 2; i++ {
		if err := guard.Do(ctx, failing); !errors.Is(err, errBroken) {
			t.Fatalf("Do() attempt %d = %v, expected %v", i+1, err, errBroken)
		}
	}
	if !guard.Open() {
		t.Fatalf("Open() = false after %d failures, expected true", calls)
	}

	if err := guard.Do(ctx, failing); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Do() while open = %v, expected %v", err, gobreaker.ErrOpenState)
	}
	if calls != 2 {
		t.Errorf("reload calls = %d, expected 2", calls)
	}

	time.Sleep(80 * time.Millisecond)
	if err := guard.Do(ctx, func() error { return nil }); err != nil {
		t.Fatalf("Do() after cooldown = %v, expected nil", err)
	}
	if guard.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, expected %v", guard.State(), gobreaker.StateClosed)
	}
}

func TestReloadGuard_SuccessResetsFailures(t *testing.T) {
	guard := NewReloadGuard(ReloadSettings{MaxConsecutiveFailures: 2, Cooldown: time.Minute}, nil)
	ctx := context.Background()
	fail := func() error { return errors.New("bad") }
	ok := func() error { return nil }

	for _, op := range []func() error{fail, ok, fail, ok, fail} {
		_ = guard.Do(ctx, op)
	}
	if guard.Open() {
		t.Error("Open() = true, expected false when failures are not consecutive")
	}
}

func TestReloadSettingsFromEnv(t *testing.T) {
	tests := []struct {
		name         string
		maxFailures  string
		cooldown     string
		expectFails  int
		expectCooldn time.Duration
	}{
		{"defaults", "", "", 3, 5 * time.Second},
		{"overrides", "5", "250ms", 5, 250 * time.Millisecond},
		{"invalid_values", "many", "soon", 3, 5 * time.Second},
		{"clamped_to_one", "0", "1s", 1, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvReloadMaxFailures, tt.maxFailures)
			t.Setenv(EnvReloadCooldown, tt.cooldown)

			s := ReloadSettingsFromEnv()
			if s.MaxConsecutiveFailures != tt.expectFails {
				t.Errorf("MaxConsecutiveFailures = %d, expected %d", s.MaxConsecutiveFailures, tt.expectFails)
			}
			if s.Cooldown != tt.expectCooldn {
				t.Errorf("Cooldown = %v, expected %v", s.Cooldown, tt.expectCooldn)
			}
		})
	}
}
