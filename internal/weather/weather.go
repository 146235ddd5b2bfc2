// Package weather simulates stylized atmospheric circulation: whorl-driven
// wind, heat carried and absorbed along the wind, then moisture carried off
// the oceans and rained out over the corners it reaches.
package weather

import (
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/globe"
)

// Params configures the circulation model.
type Params struct {
	HeatLevel     float64 // Multiplier on injected heat, >= 0
	MoistureLevel float64 // Multiplier on evaporated moisture, >= 0

	// PlanetRadius scales whorl reach and wind speed. Absorption saturates
	// at speed 1, so only the ratio to whorl strength matters.
	PlanetRadius float64
	MinLayers    int
	MaxLayers    int

	// Advection stops once in-flight quantity drops below Threshold times
	// the injected total, or after MaxIterations steps.
	Threshold     float64
	MaxIterations int
	LossRate      float64

	// WetPercentile picks the land precipitation density that maps to full
	// moisture. Wetter corners clamp to 1.
	WetPercentile float64
}

// DefaultParams returns the stock weather settings.
func DefaultParams() Params {
	return Params{
		HeatLevel:     1,
		MoistureLevel: 1,
		PlanetRadius:  1000,
		MinLayers:     4,
		MaxLayers:     7,
		Threshold:     0.01,
		MaxIterations: 1000,
		LossRate:      0.02,
		WetPercentile: 0.9,
	}
}

// Result summarizes a weather run.
type Result struct {
	Whorls             int
	HeatIterations     int
	MoistureIterations int
	TotalHeat          float64
	TotalMoisture      float64
}

// Run fills wind, heat, precipitation, temperature, and moisture on every
// corner and tile. Corner elevations must already be final.
func Run(p *globe.Planet, params Params, src *entropy.Source) Result {
	var res Result
	whorls := generateWhorls(params, src)
	res.Whorls = len(whorls)
	computeAirCurrents(p, whorls, params.PlanetRadius)

	neighbors := make([][]int, len(p.Corners))
	outflows := make([][]float64, len(p.Corners))
	for i := range p.Corners {
		neighbors[i] = p.Corners[i].Corners
		outflows[i] = p.Corners[i].AirCurrentOutflows
	}

	heat := newReservoir(len(p.Corners), params.LossRate)
	for i := range p.Corners {
		c := &p.Corners[i]
		heat.area[i] = c.Area
		heat.air[i] = c.Area * params.HeatLevel
		heat.capacity[i] = c.Area
		heat.rate[i] = 0.1 * c.Area / windFactor(c.AirCurrentSpeed)
		if c.Elevation > 0 {
			heat.rate[i] *= 2
		}
	}
	res.HeatIterations, res.TotalHeat = heat.advect(neighbors, outflows, params.Threshold, params.MaxIterations)
	for i := range p.Corners {
		c := &p.Corners[i]
		c.Heat = heat.stored[i]
		c.Temperature = temperature(c)
	}

	// Moisture is advected at unit evaporation; MoistureLevel is applied
	// afterwards so the transport pattern does not depend on it.
	wet := newReservoir(len(p.Corners), params.LossRate)
	for i := range p.Corners {
		c := &p.Corners[i]
		wet.area[i] = c.Area
		if c.Elevation <= 0 && params.MoistureLevel > 0 {
			wet.air[i] = c.Area * globe.Clamp(0.5+c.Temperature*0.5, 0, 1)
		}
		rate := 0.0075 * c.Area / windFactor(c.AirCurrentSpeed)
		rate *= 1 + (1-globe.Clamp(c.Temperature, 0, 1))*0.1
		capacity := c.Area * 0.25
		if c.Elevation > 0 {
			rate *= 1 + c.Elevation*0.5
			capacity = c.Area * (0.25 + globe.Clamp(c.Elevation, 0, 1)*0.25)
		}
		wet.rate[i] = rate
		wet.capacity[i] = capacity
	}
	iter, total := wet.advect(neighbors, outflows, params.Threshold, params.MaxIterations)
	res.MoistureIterations = iter
	res.TotalMoisture = total * params.MoistureLevel

	ref := wetReference(p, wet.stored, params.WetPercentile)
	for i := range p.Corners {
		c := &p.Corners[i]
		c.Precipitation = wet.stored[i] * params.MoistureLevel
		c.Moisture = 0
		if c.Area > 0 && ref > 0 {
			base := globe.Clamp(globe.Finite(wet.stored[i]/c.Area/ref, 0), 0, 1)
			c.Moisture = saturate(base, params.MoistureLevel)
		}
	}

	averageToTiles(p)
	slog.Info("stage complete", "stage", "weather",
		"whorls", res.Whorls, "heat_iterations", res.HeatIterations,
		"moisture_iterations", res.MoistureIterations)
	return res
}

// windFactor bounds wind speed to [0.1, 1] for absorption rates: still air
// absorbs more, fast air less.
func windFactor(speed float64) float64 {
	return math.Max(0.1, math.Min(speed, 1))
}

// wetReference returns the precipitation density at the given percentile
// of land corners, falling back to all corners on a planet without land.
func wetReference(p *globe.Planet, stored []float64, pct float64) float64 {
	var land, all []float64
	for i := range p.Corners {
		c := &p.Corners[i]
		if c.Area <= 0 || stored[i] <= 0 {
			continue
		}
		d := stored[i] / c.Area
		all = append(all, d)
		if c.Elevation > 0 {
			land = append(land, d)
		}
	}
	if len(land) == 0 {
		land = all
	}
	if len(land) == 0 {
		return 0
	}
	sort.Float64s(land)
	k := int(globe.Clamp(pct, 0, 1) * float64(len(land)-1))
	return land[k]
}

// saturate applies the moisture level to a base moisture in [0, 1]. Level 1
// leaves base unchanged; higher levels approach 1 monotonically.
func saturate(base, level float64) float64 {
	if level <= 0 {
		return 0
	}
	return globe.Clamp(1-math.Pow(1-base, level), 0, 1)
}

// temperature combines latitude, altitude, and absorbed heat into [0, 1].
func temperature(c *globe.Corner) float64 {
	lat := math.Sqrt(1 - math.Min(1, math.Abs(c.Position.Y())))
	alt := globe.Clamp(c.Elevation*0.8, 0, 1)
	heat := 0.0
	if c.Area > 0 {
		heat = c.Heat / c.Area
	}
	t := (lat*(1-alt*alt)*0.7+heat*0.3)*5/3 - 2.0/3
	return globe.Clamp(globe.Finite(t, 0), 0, 1)
}

func averageToTiles(p *globe.Planet) {
	for i := range p.Tiles {
		t := &p.Tiles[i]
		if len(t.Corners) == 0 {
			continue
		}
		var temp, moist float64
		for _, c := range t.Corners {
			temp += p.Corners[c].Temperature
			moist += p.Corners[c].Moisture
		}
		n := float64(len(t.Corners))
		t.Temperature = temp / n
		t.Moisture = moist / n
	}
}
