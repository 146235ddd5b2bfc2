package main

import (
	"os"
	"strconv"

	"github.com/talgya/mini-planet/internal/world"
)

// configFromEnv overlays PLANET_* environment variables on the defaults.
// Unparseable values keep the default.
func configFromEnv() world.GenConfig {
	cfg := world.DefaultGenConfig()
	if v := os.Getenv("PLANET_SEED"); v != "" {
		cfg.SeedText = v
	}
	cfg.Subdivisions = envIntOrDefault("PLANET_SUBDIVISIONS", cfg.Subdivisions)
	cfg.Distortion = envFloatOrDefault("PLANET_DISTORTION", cfg.Distortion)
	cfg.Plates = envIntOrDefault("PLANET_PLATES", cfg.Plates)
	cfg.OceanicRate = envFloatOrDefault("PLANET_OCEANIC_RATE", cfg.OceanicRate)
	cfg.HeatLevel = envFloatOrDefault("PLANET_HEAT", cfg.HeatLevel)
	cfg.MoistureLevel = envFloatOrDefault("PLANET_MOISTURE", cfg.MoistureLevel)
	cfg.ElevationExponent = envFloatOrDefault("PLANET_ELEVATION_EXPONENT", cfg.ElevationExponent)
	cfg.RiverThreshold = envFloatOrDefault("PLANET_RIVER_THRESHOLD", cfg.RiverThreshold)
	cfg.Reshape = envBoolOrDefault("PLANET_RESHAPE", cfg.Reshape)
	return cfg
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloatOrDefault(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
