// Package world runs the planet generation pipeline: mesh, plates, terrain,
// weather, hydrology, and biomes, in that order, from one seed.
package world

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-planet/internal/biome"
	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/geodesic"
	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/hydrology"
	"github.com/talgya/mini-planet/internal/tectonics"
	"github.com/talgya/mini-planet/internal/terrain"
	"github.com/talgya/mini-planet/internal/weather"
)

// Stats records what each stage produced.
type Stats struct {
	Seed      int64
	Tectonics tectonics.Result
	Terrain   terrain.Result
	Weather   weather.Result
	Hydrology hydrology.Result
	Biomes    biome.Result
	Elapsed   time.Duration
}

// Generate builds a mesh from cfg and runs the full pipeline on it.
func Generate(cfg GenConfig) (*globe.Planet, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, err
	}
	seed := cfg.EffectiveSeed()
	p, err := geodesic.Build(cfg.Subdivisions, cfg.Distortion, seed)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("build mesh: %w", err)
	}
	stats, err := Run(p, cfg)
	if err != nil {
		return nil, stats, err
	}
	return p, stats, nil
}

// Run generates a planet on an existing mesh. The mesh must be fully linked
// and is checked before any stage runs; a malformed mesh aborts with a
// *globe.MeshError.
func Run(p *globe.Planet, cfg GenConfig) (Stats, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if err := p.Validate(); err != nil {
		return Stats{}, fmt.Errorf("validate mesh: %w", err)
	}
	seed := cfg.EffectiveSeed()
	stats := Stats{Seed: seed}
	slog.Info("generating planet", "seed", seed,
		"tiles", humanize.Comma(int64(len(p.Tiles))), "plates", cfg.Plates)

	// One stream, consumed by plates, then weather. Terrain draws nothing.
	src := entropy.New(seed)

	tr, err := tectonics.Run(p, cfg.tectonicsParams(), src)
	if err != nil {
		return stats, fmt.Errorf("tectonics: %w", err)
	}
	stats.Tectonics = tr
	stats.Terrain = terrain.Run(p, cfg.terrainParams(), tr.BoundaryCorners)
	stats.Weather = weather.Run(p, cfg.weatherParams(), src)
	stats.Hydrology = hydrology.Run(p, cfg.hydrologyParams(), seed)
	stats.Biomes = biome.Run(p, cfg.biomeParams())
	stats.Elapsed = time.Since(start)

	s := Summarize(p)
	slog.Info("planet generated",
		"land", fmt.Sprintf("%.1f%%", s.LandFraction*100),
		"lakes", s.Lakes, "rivers", humanize.Comma(int64(s.Rivers)),
		"watersheds", s.Watersheds, "anomalies", len(stats.Hydrology.Anomalies),
		"elapsed", stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}
