// Package tectonics partitions the planet into rigid plates and derives the
// pressure and shear acting on every corner where plates meet.
package tectonics

import (
	"container/heap"
	"math"
	"math/bits"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/globe"
)

// Params configures plate generation and boundary stress.
type Params struct {
	PlateCount  int
	OceanicRate float64 // Probability a plate is oceanic, [0, 1]

	// SeedAttempts is how many consecutive rejected seed corners end plate seeding early.
	SeedAttempts int

	MaxDriftRate float64 // Radians; drift and spin rates are drawn from [-max, max]
	OceanicMin   float64
	OceanicMax   float64
	ContinentMin float64
	ContinentMax float64

	StressScale      float64 // Relative speed that maps to ~0.46 on the logistic curve
	BlurIterations   int
	BlurCenterWeight float64
}

// DefaultParams returns the stock tectonic settings.
func DefaultParams() Params {
	return Params{
		PlateCount:       36,
		OceanicRate:      0.7,
		SeedAttempts:     10000,
		MaxDriftRate:     math.Pi / 30,
		OceanicMin:       -0.8,
		OceanicMax:       -0.3,
		ContinentMin:     0.1,
		ContinentMax:     0.5,
		StressScale:      0.03,
		BlurIterations:   3,
		BlurCenterWeight: 0.4,
	}
}

// SeedPlates creates up to params.PlateCount plates and grows them until
// every tile belongs to exactly one plate. It returns the number of plates
// created, which may be lower than requested on small meshes.
func SeedPlates(p *globe.Planet, params Params, src *entropy.Source) int {
	p.Plates = p.Plates[:0]
	for i := range p.Tiles {
		p.Tiles[i].Plate = globe.None
	}
	if len(p.Corners) == 0 {
		return 0
	}

	// Each tile is claimed once, so no more entries than neighbor slots.
	slots := 0
	for i := range p.Tiles {
		slots += len(p.Tiles[i].Neighbors)
	}
	front := newFrontier(slots)
	claim := func(t, plate int) {
		p.Tiles[t].Plate = plate
		p.Plates[plate].Tiles = append(p.Plates[plate].Tiles, t)
		for _, n := range p.Tiles[t].Neighbors {
			if p.Tiles[n].Plate == globe.None {
				front.push(n, plate)
			}
		}
	}

	failed := 0
	for len(p.Plates) < params.PlateCount && failed < params.SeedAttempts {
		c := &p.Corners[src.IntN(len(p.Corners))]
		taken := false
		for _, t := range c.Tiles {
			if p.Tiles[t].Plate != globe.None {
				taken = true
				break
			}
		}
		if taken {
			failed++
			continue
		}
		failed = 0

		oceanic := src.Float() < params.OceanicRate
		plate := globe.Plate{
			ID:        len(p.Plates),
			Color:     src.Color(),
			DriftAxis: src.UnitVector(),
			DriftRate: src.Range(-params.MaxDriftRate, params.MaxDriftRate),
			SpinRate:  src.Range(-params.MaxDriftRate, params.MaxDriftRate),
			Oceanic:   oceanic,
			Root:      c.ID,
			RootPos:   c.Position,
		}
		if oceanic {
			plate.Elevation = src.Range(params.OceanicMin, params.OceanicMax)
		} else {
			plate.Elevation = src.Range(params.ContinentMin, params.ContinentMax)
		}
		p.Plates = append(p.Plates, plate)
		for _, t := range c.Tiles {
			claim(t, plate.ID)
		}
	}

	// Squaring the draw favors the front of the list, which holds the
	// oldest entries, so plates grow roughly evenly.
	for front.live > 0 {
		u := src.Float()
		t, plate := front.take(int(u * u * float64(front.live)))
		if p.Tiles[t].Plate == globe.None {
			claim(t, plate)
		}
	}
	return len(p.Plates)
}

// frontier holds pending (tile, plate) entries oldest first. Taken entries
// are tombstoned instead of spliced out, and a Fenwick tree over the live
// flags finds the k-th live entry in O(log n).
type frontier struct {
	tiles  []int
	plates []int
	tree   []int // 1-based live counts
	live   int
}

func newFrontier(capacity int) *frontier {
	return &frontier{tree: make([]int, capacity+1)}
}

func (f *frontier) push(t, plate int) {
	f.tiles = append(f.tiles, t)
	f.plates = append(f.plates, plate)
	f.add(len(f.tiles), 1)
	f.live++
}

func (f *frontier) add(i, d int) {
	for ; i < len(f.tree); i += i & -i {
		f.tree[i] += d
	}
}

// take removes and returns the k-th live entry, counting from the oldest.
// k must be below f.live.
func (f *frontier) take(k int) (int, int) {
	pos := 0
	for step := 1 << (bits.Len(uint(len(f.tree)-1)) - 1); step > 0; step >>= 1 {
		if next := pos + step; next < len(f.tree) && f.tree[next] <= k {
			pos = next
			k -= f.tree[next]
		}
	}
	f.add(pos+1, -1)
	f.live--
	return f.tiles[pos], f.plates[pos]
}

// rootFront is a pending distance candidate in the root distance search.
type rootFront struct {
	corner int
	plate  int
	dist   float64
}

type frontHeap []rootFront

func (h frontHeap) Len() int { return len(h) }
func (h frontHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].corner < h[j].corner
}
func (h frontHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *frontHeap) Push(x any)   { *h = append(*h, x.(rootFront)) }
func (h *frontHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// ComputeRootDistances sets every corner's DistanceToPlateRoot to the
// shortest border-length path from its plate's root corner. Paths stay on
// corners that touch the plate; boundary corners keep the nearest root.
func ComputeRootDistances(p *globe.Planet) {
	for i := range p.Corners {
		p.Corners[i].DistanceToPlateRoot = math.Inf(1)
	}
	h := &frontHeap{}
	for i := range p.Plates {
		heap.Push(h, rootFront{corner: p.Plates[i].Root, plate: i})
	}
	done := make([]bool, len(p.Corners))
	for h.Len() > 0 {
		f := heap.Pop(h).(rootFront)
		c := &p.Corners[f.corner]
		if f.dist >= c.DistanceToPlateRoot {
			continue
		}
		c.DistanceToPlateRoot = f.dist
		done[f.corner] = true
		for k, next := range c.Corners {
			if !touchesPlate(p, next, f.plate) {
				continue
			}
			d := f.dist + p.Borders[c.Borders[k]].Length
			if d < p.Corners[next].DistanceToPlateRoot {
				heap.Push(h, rootFront{corner: next, plate: f.plate, dist: d})
			}
		}
	}
	for i := range p.Corners {
		if !done[i] {
			p.Corners[i].DistanceToPlateRoot = 0
		}
	}
}

func touchesPlate(p *globe.Planet, corner, plate int) bool {
	for _, t := range p.Corners[corner].Tiles {
		if p.Tiles[t].Plate == plate {
			return true
		}
	}
	return false
}
