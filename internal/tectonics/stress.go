package tectonics

import (
	"math"

	"github.com/talgya/mini-planet/internal/globe"
)

// IdentifyBoundaries marks borders and corners that separate plates and
// fills each plate's BoundaryBorders and BoundaryCorners. It returns the
// boundary corner IDs in ascending order.
func IdentifyBoundaries(p *globe.Planet) []int {
	for i := range p.Plates {
		p.Plates[i].BoundaryBorders = nil
		p.Plates[i].BoundaryCorners = nil
	}
	for i := range p.Corners {
		p.Corners[i].BetweenPlates = false
	}
	for i := range p.Borders {
		b := &p.Borders[i]
		p0, p1 := p.Tiles[b.Tiles[0]].Plate, p.Tiles[b.Tiles[1]].Plate
		b.BetweenPlates = p0 != p1
		if !b.BetweenPlates {
			continue
		}
		p.Corners[b.Corners[0]].BetweenPlates = true
		p.Corners[b.Corners[1]].BetweenPlates = true
		if p0 != globe.None {
			p.Plates[p0].BoundaryBorders = append(p.Plates[p0].BoundaryBorders, i)
		}
		if p1 != globe.None {
			p.Plates[p1].BoundaryBorders = append(p.Plates[p1].BoundaryBorders, i)
		}
	}

	var corners []int
	for i := range p.Corners {
		c := &p.Corners[i]
		if !c.BetweenPlates {
			continue
		}
		corners = append(corners, i)
		seen := [3]int{globe.None, globe.None, globe.None}
		for k, t := range c.Tiles {
			pl := p.Tiles[t].Plate
			if pl == globe.None || pl == seen[0] || pl == seen[1] {
				continue
			}
			seen[k] = pl
			p.Plates[pl].BoundaryCorners = append(p.Plates[pl].BoundaryCorners, i)
		}
	}
	return corners
}

// InnerBorder returns the index into corner c's Borders of the one border
// that does not separate plates, or globe.None when all three do.
func InnerBorder(p *globe.Planet, c int) int {
	for k, b := range p.Corners[c].Borders {
		if !p.Borders[b].BetweenPlates {
			return k
		}
	}
	return globe.None
}

// BoundaryPlates returns the plate on the inner side of a two-plate
// boundary corner and the plate across the boundary.
func BoundaryPlates(p *globe.Planet, c, inner int) (near, far int) {
	corner := &p.Corners[c]
	near = p.Tiles[p.Borders[corner.Borders[inner]].Tiles[0]].Plate
	outer := p.Borders[corner.Borders[(inner+1)%3]]
	far = p.Tiles[outer.Tiles[0]].Plate
	if far == near {
		far = p.Tiles[outer.Tiles[1]].Plate
	}
	return near, far
}

// ComputeStress sets Pressure and Shear on every boundary corner and zeroes
// DistanceToPlateBoundary there. Positive pressure means the plates converge.
func ComputeStress(p *globe.Planet, params Params, boundary []int) {
	for i := range p.Corners {
		p.Corners[i].Pressure = 0
		p.Corners[i].Shear = 0
	}
	for _, ci := range boundary {
		c := &p.Corners[ci]
		c.DistanceToPlateBoundary = 0

		if inner := InnerBorder(p, ci); inner != globe.None {
			near, far := BoundaryPlates(p, ci, inner)
			far0 := p.Corners[c.Corners[(inner+1)%3]].Position
			far1 := p.Corners[c.Corners[(inner+2)%3]].Position
			along := far1.Sub(far0)
			toward := p.Corners[c.Corners[inner]].Position.Sub(c.Position)
			c.Pressure, c.Shear = stress(p, near, far, c.Position, along, toward, params.StressScale)
			continue
		}

		// Three plates meet: average the stress across each of the three borders.
		var pressure, shear float64
		for k := 0; k < 3; k++ {
			a := p.Tiles[c.Tiles[k]].Plate
			b := p.Tiles[c.Tiles[(k+1)%3]].Plate
			along := c.Position.Sub(p.Corners[c.Corners[k]].Position)
			toward := p.Tiles[c.Tiles[k]].Position.Sub(c.Position)
			pr, sh := stress(p, a, b, c.Position, along, toward, params.StressScale)
			pressure += pr
			shear += sh
		}
		c.Pressure = pressure / 3
		c.Shear = shear / 3
	}
}

// stress measures how plates a and b move relative to each other at pos.
// along runs with the boundary; toward points into plate a.
func stress(p *globe.Planet, a, b int, pos, along, toward globe.Vec3, scale float64) (pressure, shear float64) {
	if a == globe.None || b == globe.None {
		return 0, 0
	}
	normal := along.Cross(pos)
	if normal.Dot(toward) < 0 {
		normal = normal.Mul(-1)
	}
	rel := p.Plates[a].Movement(pos).Sub(p.Plates[b].Movement(pos))

	pv := globe.Project(rel, normal)
	pressure = pv.Len()
	if pv.Dot(normal) > 0 {
		pressure = -pressure
	}
	shear = globe.Project(rel, along).Len()
	return squash(pressure, scale), squash(shear, scale)
}

// squash maps x onto (-1, 1) with a logistic curve.
func squash(x, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	return globe.Finite(2/(1+math.Exp(-x/scale))-1, 0)
}

// BlurStress smooths pressure and shear over adjacent boundary corners.
// Each pass reads the previous pass's values.
func BlurStress(p *globe.Planet, params Params, boundary []int) {
	w := globe.Clamp(params.BlurCenterWeight, 0, 1)
	pressure := make([]float64, len(boundary))
	shear := make([]float64, len(boundary))
	for iter := 0; iter < params.BlurIterations; iter++ {
		for i, ci := range boundary {
			c := &p.Corners[ci]
			var sumP, sumS float64
			n := 0
			for _, nc := range c.Corners {
				if p.Corners[nc].BetweenPlates {
					sumP += p.Corners[nc].Pressure
					sumS += p.Corners[nc].Shear
					n++
				}
			}
			if n == 0 {
				pressure[i], shear[i] = c.Pressure, c.Shear
				continue
			}
			pressure[i] = c.Pressure*w + sumP/float64(n)*(1-w)
			shear[i] = c.Shear*w + sumS/float64(n)*(1-w)
		}
		for i, ci := range boundary {
			p.Corners[ci].Pressure = pressure[i]
			p.Corners[ci].Shear = shear[i]
		}
	}
}
