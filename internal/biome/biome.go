// Package biome classifies tiles into biomes and computes resource yields
// from the finished elevation, climate, and drainage state.
package biome

import (
	"log/slog"

	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/phi"
)

// Params configures the classifier.
type Params struct {
	// NoiseDensity sets lattice points per tile for the jitter field.
	NoiseDensity float64
	NoiseAmp     float64 // Threshold jitter at full noise

	SeaIceTemp   float64
	GlacierTemp  float64
	TundraTemp   float64
	BorealTemp   float64
	TropicalTemp float64

	MountainElev float64
	BoundaryBand float64 // Boundary distance treated as an active mountain belt
	SteepSlope   float64 // Slope above which soil holds less water
	LakeDepth    float64 // Fill depth that makes a land tile a lake

	RarePercentile float64 // Rare resources below this land percentile drop to 0
	CalorieWeight  float64 // Calories' share in upstream trade weight
}

// DefaultParams returns the stock classifier settings.
func DefaultParams() Params {
	return Params{
		NoiseDensity:   phi.Matter,
		NoiseAmp:       0.08,
		SeaIceTemp:     0.12,
		GlacierTemp:    0.08,
		TundraTemp:     0.25,
		BorealTemp:     0.45,
		TropicalTemp:   0.7,
		MountainElev:   0.75,
		BoundaryBand:   0.05,
		SteepSlope:     0.15,
		LakeDepth:      0.005,
		RarePercentile: 0.75,
		CalorieWeight:  0.5,
	}
}

// Result summarizes a classifier run.
type Result struct {
	Counts [globe.NumBiomes]int
}

// Run fills Slope, Noise, Biome, Resources, Calories, and UpstreamWeight on
// every tile. Hydrology must have run first.
func Run(p *globe.Planet, params Params) Result {
	var res Result
	computeSlope(p)
	computeNoise(p, params.NoiseDensity)

	for i := range p.Tiles {
		t := &p.Tiles[i]
		t.Biome = classify(t, tileBoundaryDistance(p, i), params)
		res.Counts[t.Biome]++
	}
	computeResources(p)
	normalizeRare(p, params.RarePercentile)
	computeUpstreamWeight(p, params.CalorieWeight)

	attrs := []any{"stage", "biome"}
	for b := globe.Biome(0); int(b) < globe.NumBiomes; b++ {
		if res.Counts[b] > 0 {
			attrs = append(attrs, b.String(), res.Counts[b])
		}
	}
	slog.Info("stage complete", attrs...)
	return res
}

// computeSlope sets each tile's slope to the mean absolute elevation step
// to its neighbors.
func computeSlope(p *globe.Planet) {
	for i := range p.Tiles {
		t := &p.Tiles[i]
		t.Slope = 0
		if len(t.Neighbors) == 0 {
			continue
		}
		sum := 0.0
		for _, n := range t.Neighbors {
			d := t.Elevation - p.Tiles[n].Elevation
			if d < 0 {
				d = -d
			}
			sum += d
		}
		t.Slope = sum / float64(len(t.Neighbors))
	}
}

// computeNoise sets each tile's noise from its distance to the nearest point
// of a Fibonacci lattice, scaled to [0, 1]. The lattice is evenly spread, so
// the field has no clumps or seams.
func computeNoise(p *globe.Planet, density float64) {
	n := int(float64(len(p.Tiles)) * density)
	lat := phi.NewLattice(n)
	scale := lat.Spacing() * phi.Matter
	for i := range p.Tiles {
		p.Tiles[i].Noise = globe.Clamp(lat.Nearest(p.Tiles[i].Position)/scale, 0, 1)
	}
}

// tileBoundaryDistance is the mean plate boundary distance of a tile's corners.
func tileBoundaryDistance(p *globe.Planet, t int) float64 {
	corners := p.Tiles[t].Corners
	if len(corners) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range corners {
		sum += p.Corners[c].DistanceToPlateBoundary
	}
	return sum / float64(len(corners))
}
