package terrain

import (
	"math"
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// normalize rescales corner elevations so the highest becomes 1 and the
// lowest -1. Positive and negative halves scale independently, keeping 0 as
// sea level.
func normalize(p *globe.Planet) (lo, hi float64) {
	for i := range p.Corners {
		e := p.Corners[i].Elevation
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	for i := range p.Corners {
		c := &p.Corners[i]
		switch {
		case c.Elevation > 0 && hi > 0:
			c.Elevation /= hi
		case c.Elevation < 0 && lo < 0:
			c.Elevation /= -lo
		}
		c.Elevation = globe.Clamp(c.Elevation, -1, 1)
	}
	return lo, hi
}

// curve maps a percentile in (0, 1] onto the exponential reshaping curve.
func curve(pct, exponent float64) float64 {
	if math.Abs(exponent) < 1e-9 {
		return pct
	}
	return math.Expm1(exponent*pct) / math.Expm1(exponent)
}

// Reshape remaps land tile elevations onto (e^(P·pct)-1)/(e^P-1), where pct
// is the tile's rank among land tiles. Tied elevations share the highest rank
// of their group, so order and ties are both kept. Land corners are moved by
// interpolating the same mapping. Water is untouched.
func Reshape(p *globe.Planet, exponent float64) {
	land := p.LandTiles()
	if len(land) == 0 {
		return
	}
	sort.SliceStable(land, func(i, j int) bool {
		a, b := p.Tiles[land[i]].Elevation, p.Tiles[land[j]].Elevation
		if a != b {
			return a < b
		}
		return land[i] < land[j]
	})

	n := float64(len(land))
	from := make([]float64, 0, len(land))
	to := make([]float64, 0, len(land))
	for i := 0; i < len(land); {
		e := p.Tiles[land[i]].Elevation
		j := i
		for j < len(land) && p.Tiles[land[j]].Elevation == e {
			j++
		}
		v := globe.Clamp(curve(float64(j)/n, exponent), math.SmallestNonzeroFloat64, 1)
		for k := i; k < j; k++ {
			p.Tiles[land[k]].Elevation = v
		}
		from = append(from, e)
		to = append(to, v)
		i = j
	}

	for i := range p.Corners {
		c := &p.Corners[i]
		if c.Elevation > 0 {
			c.Elevation = interpolate(from, to, c.Elevation)
		}
	}
}

// interpolate evaluates the piecewise-linear map through (0,0) and the
// sorted (from, to) pairs. Values beyond the last pair take its target.
func interpolate(from, to []float64, x float64) float64 {
	i := sort.SearchFloat64s(from, x)
	if i == len(from) {
		return to[len(to)-1]
	}
	if from[i] == x {
		return to[i]
	}
	x0, y0 := 0.0, 0.0
	if i > 0 {
		x0, y0 = from[i-1], to[i-1]
	}
	if from[i] == x0 {
		return to[i]
	}
	return y0 + (x-x0)/(from[i]-x0)*(to[i]-y0)
}
