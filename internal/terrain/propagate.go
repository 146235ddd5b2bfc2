package terrain

import (
	"container/heap"
	"math"

	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/tectonics"
)

// Unreached is the boundary distance given to corners no front arrives at,
// such as every corner of a single-plate planet.
const Unreached = 2 * math.Pi

// origin is the boundary corner a front started from.
type origin struct {
	corner   int
	regime   Regime
	boundary float64 // Elevation at the boundary corner
	plate    float64 // Baseline of the plate the front runs into
	pressure float64
}

type front struct {
	origin *origin
	corner int
	dist   float64
}

type frontQueue []front

func (q frontQueue) Len() int { return len(q) }
func (q frontQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].corner < q[j].corner
}
func (q frontQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontQueue) Push(x any)   { *q = append(*q, x.(front)) }
func (q *frontQueue) Pop() any {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]
	return x
}

// seedBoundary sets the elevation of every boundary corner from its regime
// and returns the fronts heading inland. counts tallies two-plate corners
// per regime.
func seedBoundary(p *globe.Planet, params Params, boundary []int, counts *[NumRegimes]int) *frontQueue {
	q := &frontQueue{}
	info := func(plate int) plateInfo {
		if plate == globe.None {
			return plateInfo{}
		}
		return plateInfo{elevation: p.Plates[plate].Elevation, oceanic: p.Plates[plate].Oceanic}
	}

	for _, ci := range boundary {
		c := &p.Corners[ci]
		inner := tectonics.InnerBorder(p, ci)
		if inner == globe.None {
			// Triple junction: no inland direction, only a boundary elevation.
			top, sum := math.Inf(-1), 0.0
			for _, t := range c.Tiles {
				e := info(p.Tiles[t].Plate).elevation
				top = math.Max(top, e)
				sum += e
			}
			switch {
			case c.Pressure > params.PressureThreshold:
				c.Elevation = top + c.Pressure
			case c.Pressure < -params.PressureThreshold:
				c.Elevation = top + c.Pressure/4
			case c.Shear > params.ShearThreshold:
				c.Elevation = top + c.Shear/8
			default:
				c.Elevation = sum / 3
			}
			continue
		}

		near, far := tectonics.BoundaryPlates(p, ci, inner)
		nearInfo := info(near)
		regime, elev := classify(params, c.Pressure, c.Shear, nearInfo, info(far))
		c.Elevation = elev
		counts[regime]++

		b := c.Borders[inner]
		next := c.Corners[inner]
		if p.Corners[next].BetweenPlates {
			continue
		}
		o := &origin{corner: ci, regime: regime, boundary: elev, plate: nearInfo.elevation, pressure: c.Pressure}
		heap.Push(q, front{origin: o, corner: next, dist: p.Borders[b].Length})
	}
	return q
}

// propagate expands all fronts at once in order of boundary distance. The
// first front to reach a corner sets its elevation and boundary distance.
func propagate(p *globe.Planet, q *frontQueue) (reached int) {
	visited := make([]bool, len(p.Corners))
	for i := range p.Corners {
		if p.Corners[i].BetweenPlates {
			visited[i] = true
		}
	}
	for q.Len() > 0 {
		f := heap.Pop(q).(front)
		if visited[f.corner] {
			continue
		}
		visited[f.corner] = true
		reached++

		c := &p.Corners[f.corner]
		c.DistanceToPlateBoundary = f.dist
		t := 0.0
		if total := f.dist + c.DistanceToPlateRoot; total > 0 {
			t = f.dist / total
		}
		o := f.origin
		c.Elevation = globe.Finite(o.regime.falloff(t, o.boundary, o.plate, o.pressure), o.plate)

		for k, next := range c.Corners {
			if visited[next] || p.Borders[c.Borders[k]].BetweenPlates {
				continue
			}
			heap.Push(q, front{origin: o, corner: next, dist: f.dist + p.Borders[c.Borders[k]].Length})
		}
	}

	for i := range p.Corners {
		if visited[i] {
			continue
		}
		c := &p.Corners[i]
		c.DistanceToPlateBoundary = Unreached
		c.Elevation = 0
		if pl := p.Tiles[c.Tiles[0]].Plate; pl != globe.None {
			c.Elevation = p.Plates[pl].Elevation
		}
	}
	return reached
}
