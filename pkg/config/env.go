// pkg/config/env.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvironmentOverrides.
const (
	EnvGravityX      = "ARCADE_GRAVITY_X"
	EnvGravityY      = "ARCADE_GRAVITY_Y"
	EnvOverlapBias   = "ARCADE_OVERLAP_BIAS"
	EnvTileBias      = "ARCADE_TILE_BIAS"
	EnvForceX        = "ARCADE_FORCE_X"
	EnvSortDirection = "ARCADE_SORT_DIRECTION"
	EnvSkipQuadTree  = "ARCADE_SKIP_QUADTREE"
	EnvTickRate      = "ARCADE_TICK_RATE"
	EnvMaxSubSteps   = "ARCADE_MAX_SUBSTEPS"

	EnvReloadMaxFailures = "ARCADE_RELOAD_MAX_FAILURES"
	EnvReloadCooldown    = "ARCADE_RELOAD_COOLDOWN"
)

// ApplyEnvironmentOverrides replaces world settings with any ARCADE_*
// variables that are set, then revalidates. Unparsable values keep the
// configured setting.
func ApplyEnvironmentOverrides(cfg *WorldConfig) error {
	cfg.Gravity.X = getEnvAsFloatOrDefault(EnvGravityX, cfg.Gravity.X)
	cfg.Gravity.Y = getEnvAsFloatOrDefault(EnvGravityY, cfg.Gravity.Y)
	cfg.OverlapBias = getEnvAsFloatOrDefault(EnvOverlapBias, cfg.OverlapBias)
	cfg.TileBias = getEnvAsFloatOrDefault(EnvTileBias, cfg.TileBias)
	cfg.ForceX = getEnvAsBoolOrDefault(EnvForceX, cfg.ForceX)
	cfg.SortDirection = getEnvOrDefault(EnvSortDirection, cfg.SortDirection)
	cfg.SkipQuadTree = getEnvAsBoolOrDefault(EnvSkipQuadTree, cfg.SkipQuadTree)
	cfg.TickRate = getEnvAsIntOrDefault(EnvTickRate, cfg.TickRate)
	cfg.MaxSubSteps = getEnvAsIntOrDefault(EnvMaxSubSteps, cfg.MaxSubSteps)

	return cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnvOrDefault(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(getEnvOrDefault(key, ""), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnvOrDefault(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnvOrDefault(key, "")); err == nil {
		return v
	}
	return defaultValue
}
