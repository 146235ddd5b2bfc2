package biome

import (
	"math"

	"github.com/talgya/mini-planet/internal/globe"
)

// classify maps a tile's state onto a biome. Every threshold is shifted by
// the tile's noise so biome edges wander instead of tracing contour lines.
func classify(t *globe.Tile, boundaryDist float64, params Params) globe.Biome {
	j := (t.Noise - 0.5) * params.NoiseAmp
	temp := t.Temperature
	lat := math.Abs(globe.Latitude(t.Position))

	if !t.IsLand() {
		if temp < params.SeaIceTemp+j || lat > 80*math.Pi/180 {
			return globe.BiomeSeaIce
		}
		return globe.BiomeOcean
	}
	if t.LakeDepth > params.LakeDepth && temp >= params.GlacierTemp+j {
		return globe.BiomeLake
	}

	// Steep ground and wind-exposed heights hold less water.
	moist := t.Moisture
	if t.Slope > params.SteepSlope {
		moist -= (t.Slope - params.SteepSlope) * 0.5
	}

	alpine := t.Elevation > params.MountainElev+j ||
		(boundaryDist < params.BoundaryBand && t.Elevation > params.MountainElev*0.8+j)

	switch {
	case temp < params.GlacierTemp+j:
		return globe.BiomeGlacier
	case temp < params.TundraTemp+j:
		if alpine && moist > 0.5 {
			return globe.BiomeGlacier
		}
		return globe.BiomeTundra
	case alpine:
		if temp < params.BorealTemp+j {
			return globe.BiomeTundra
		}
		if moist > 0.35+j {
			return globe.BiomeTaiga
		}
		return globe.BiomeShrubland
	case temp < params.BorealTemp+j:
		if moist < 0.25+j {
			return globe.BiomeGrassland
		}
		return globe.BiomeTaiga
	case temp < params.TropicalTemp+j:
		switch {
		case moist < 0.15+j:
			return globe.BiomeDesert
		case moist < 0.3+j:
			return globe.BiomeGrassland
		case moist < 0.45+j:
			return globe.BiomeShrubland
		case moist < 0.7+j:
			return globe.BiomeTemperateDeciduousForest
		default:
			return globe.BiomeTemperateRainforest
		}
	default:
		switch {
		case moist < 0.2+j:
			return globe.BiomeDesert
		case moist < 0.35+j:
			return globe.BiomeGrassland
		case moist < 0.6+j:
			return globe.BiomeTropicalSeasonalForest
		default:
			return globe.BiomeTropicalRainforest
		}
	}
}
