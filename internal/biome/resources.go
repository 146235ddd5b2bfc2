package biome

import (
	"math"
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

func gauss(x, mu, sigma float64) float64 {
	d := (x - mu) / sigma
	return math.Exp(-d * d / 2)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// computeResources sets raw yields and calories. Crops peak at a preferred
// temperature and moisture; minerals follow elevation, plate boundaries,
// and weathering.
func computeResources(p *globe.Planet) {
	for i := range p.Tiles {
		t := &p.Tiles[i]
		var r globe.Resources
		bd := tileBoundaryDistance(p, i)
		temp, moist := t.Temperature, t.Moisture

		if t.IsLand() {
			if t.Biome != globe.BiomeGlacier && t.Biome != globe.BiomeLake {
				flat := math.Exp(-t.Slope * 8)
				r[globe.ResourceWheat] = gauss(temp, 0.5, 0.15) * gauss(moist, 0.45, 0.2) * flat
				r[globe.ResourceCorn] = gauss(temp, 0.65, 0.12) * gauss(moist, 0.6, 0.2) * flat
				rice := gauss(temp, 0.8, 0.1) * gauss(moist, 0.85, 0.15) * flat
				if t.River {
					rice = math.Min(1, rice*1.5)
				}
				r[globe.ResourceRice] = rice
			}
			switch {
			case t.Biome == globe.BiomeLake:
				r[globe.ResourceFish] = 0.6 * gauss(temp, 0.55, 0.3)
			case t.River:
				r[globe.ResourceFish] = 0.3 * gauss(temp, 0.55, 0.3)
			}

			e := t.Elevation
			r[globe.ResourceGold] = math.Exp(-bd/0.05) * sigmoid((e-0.5)*8) * (0.5 + 0.5*t.Noise)
			r[globe.ResourceIron] = sigmoid((e-0.3)*8) * (0.5 + 0.5*(1-t.Noise))
			r[globe.ResourceOil] = math.Exp(-e*6) * (1 - moist*0.5) * (0.3 + 0.7*t.Noise)
			r[globe.ResourceBauxite] = sigmoid((temp-0.65)*10) * sigmoid((moist-0.5)*10)
			r[globe.ResourceCopper] = math.Exp(-bd/0.1) * sigmoid((e-0.2)*6)
		} else if t.Biome != globe.BiomeSeaIce {
			// Shallow shelves are the richest fisheries.
			r[globe.ResourceFish] = math.Exp(-math.Abs(t.Elevation)*4) * gauss(temp, 0.5, 0.3)
		}

		for k := range r {
			r[k] = math.Max(0, globe.Finite(r[k], 0))
		}
		t.Resources = r
		t.Calories = r[globe.ResourceWheat]*3 + r[globe.ResourceCorn]*3.5 +
			r[globe.ResourceRice]*2.8 + r[globe.ResourceFish]*1.5
	}
}

// normalizeRare rescales each rare resource across land tiles: values at or
// above the observed maximum become 1, values below the pct percentile
// become 0, and values between are linear.
func normalizeRare(p *globe.Planet, pct float64) {
	land := p.LandTiles()
	if len(land) == 0 {
		return
	}
	vals := make([]float64, len(land))
	for _, res := range globe.RareResources {
		for k, t := range land {
			vals[k] = p.Tiles[t].Resources[res]
		}
		sort.Float64s(vals)
		top := vals[len(vals)-1]
		cut := vals[int(globe.Clamp(pct, 0, 1)*float64(len(vals)-1))]
		for _, t := range land {
			r := &p.Tiles[t].Resources[res]
			*r = percentile(*r, cut, top)
		}
		for i := range p.Tiles {
			if !p.Tiles[i].IsLand() {
				p.Tiles[i].Resources[res] = 0
			}
		}
	}
}

func percentile(v, cut, top float64) float64 {
	switch {
	case top <= 0:
		return 0
	case v >= top:
		return 1
	case v < cut || top <= cut:
		return 0
	default:
		return (v - cut) / (top - cut)
	}
}

// computeUpstreamWeight sums the normalized rare resources and weighted
// calories of every tile upstream of each tile.
func computeUpstreamWeight(p *globe.Planet, calorieWeight float64) {
	value := make([]float64, len(p.Tiles))
	for i := range p.Tiles {
		t := &p.Tiles[i]
		for _, res := range globe.RareResources {
			value[i] += t.Resources[res]
		}
		value[i] += t.Calories * calorieWeight
	}
	for i := range p.Tiles {
		t := &p.Tiles[i]
		t.UpstreamWeight = 0
		for _, u := range t.Upstream {
			t.UpstreamWeight += value[u]
		}
	}
}
