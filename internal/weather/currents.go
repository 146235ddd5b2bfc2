package weather

import (
	"github.com/talgya/mini-planet/internal/globe"
)

// computeAirCurrents sets each corner's wind from the whorls in reach and
// derives its outflow fractions toward its three neighbor corners.
func computeAirCurrents(p *globe.Planet, whorls []Whorl, radius float64) {
	for i := range p.Corners {
		c := &p.Corners[i]
		var current globe.Vec3
		weight := 0.0
		for _, w := range whorls {
			dist := globe.Angle(w.Center, c.Position) * radius
			if dist >= w.Radius {
				continue
			}
			nd := dist / w.Radius
			ww := 1 - nd
			strength := radius * w.Strength * ww * nd
			current = current.Add(globe.WithLength(w.Center.Cross(c.Position), strength))
			weight += ww
		}
		if weight > 0 {
			current = current.Mul(1 / weight)
		}
		c.AirCurrent = current
		c.AirCurrentSpeed = current.Len()
		c.AirCurrentOutflows = outflows(p, c)
	}
}

// outflows splits a corner's air among the neighbors it blows toward,
// proportional to the alignment of each edge with the wind. The fractions
// sum to 1, or are all 0 in still air.
func outflows(p *globe.Planet, c *globe.Corner) []float64 {
	out := make([]float64, len(c.Corners))
	dir := globe.Normalize(c.AirCurrent)
	if dir.LenSqr() == 0 {
		return out
	}
	sum := 0.0
	for k, n := range c.Corners {
		d := globe.Normalize(p.Corners[n].Position.Sub(c.Position)).Dot(dir)
		if d > 0 {
			out[k] = d
			sum += d
		}
	}
	if sum == 0 {
		return out
	}
	for k := range out {
		out[k] /= sum
	}
	return out
}
