package world

import (
	"errors"
	"fmt"

	"github.com/talgya/mini-planet/internal/biome"
	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/hydrology"
	"github.com/talgya/mini-planet/internal/tectonics"
	"github.com/talgya/mini-planet/internal/terrain"
	"github.com/talgya/mini-planet/internal/weather"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid generation config")

// GenConfig holds planet generation parameters.
type GenConfig struct {
	Subdivisions int     // Mesh frequency; the planet has 10n²+2 tiles
	Distortion   float64 // Mesh irregularity (0.0–1.0)
	Seed         int64
	SeedText     string // When set, hashed into Seed

	Plates      int
	OceanicRate float64 // Share of oceanic plates (0.0–1.0)

	HeatLevel     float64 // >= 0
	MoistureLevel float64 // >= 0

	Reshape           bool    // Remap land elevations onto an exponential curve
	ElevationExponent float64 // Steepness of that curve
	RiverThreshold    float64 // Outflow percentile for rivers (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Subdivisions:      20,
		Distortion:        0.5,
		Seed:              1,
		Plates:            36,
		OceanicRate:       0.7,
		HeatLevel:         1.0,
		MoistureLevel:     1.0,
		Reshape:           true,
		ElevationExponent: 2.0,
		RiverThreshold:    0.9,
	}
}

// SmallTestConfig returns a tiny planet for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Subdivisions:      8,
		Distortion:        0.3,
		Seed:              42,
		Plates:            10,
		OceanicRate:       0.6,
		HeatLevel:         1.0,
		MoistureLevel:     1.0,
		Reshape:           true,
		ElevationExponent: 2.0,
		RiverThreshold:    0.85,
	}
}

// EffectiveSeed returns the integer seed the pipeline runs with.
func (c GenConfig) EffectiveSeed() int64 {
	if c.SeedText != "" {
		return entropy.SeedFromString(c.SeedText)
	}
	return c.Seed
}

// Validate checks every field's range.
func (c GenConfig) Validate() error {
	unit := func(name string, v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidConfig, name, v)
		}
		return nil
	}
	if c.Subdivisions < 1 {
		return fmt.Errorf("%w: subdivisions must be >= 1, got %d", ErrInvalidConfig, c.Subdivisions)
	}
	if c.Plates < 1 {
		return fmt.Errorf("%w: plates must be >= 1, got %d", ErrInvalidConfig, c.Plates)
	}
	if c.HeatLevel < 0 {
		return fmt.Errorf("%w: heat level must be >= 0, got %v", ErrInvalidConfig, c.HeatLevel)
	}
	if c.MoistureLevel < 0 {
		return fmt.Errorf("%w: moisture level must be >= 0, got %v", ErrInvalidConfig, c.MoistureLevel)
	}
	if err := unit("distortion", c.Distortion); err != nil {
		return err
	}
	if err := unit("oceanic rate", c.OceanicRate); err != nil {
		return err
	}
	return unit("river threshold", c.RiverThreshold)
}

// Stage parameters derived from the config. Settings the config does not
// expose keep their stage defaults.

func (c GenConfig) tectonicsParams() tectonics.Params {
	p := tectonics.DefaultParams()
	p.PlateCount = c.Plates
	p.OceanicRate = c.OceanicRate
	return p
}

func (c GenConfig) terrainParams() terrain.Params {
	p := terrain.DefaultParams()
	p.Reshape = c.Reshape
	p.ElevationExponent = c.ElevationExponent
	return p
}

func (c GenConfig) weatherParams() weather.Params {
	p := weather.DefaultParams()
	p.HeatLevel = c.HeatLevel
	p.MoistureLevel = c.MoistureLevel
	return p
}

func (c GenConfig) hydrologyParams() hydrology.Params {
	p := hydrology.DefaultParams()
	p.RiverThreshold = c.RiverThreshold
	return p
}

func (c GenConfig) biomeParams() biome.Params {
	return biome.DefaultParams()
}
