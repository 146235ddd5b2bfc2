package hydrology

import (
	"math"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/globe"
)

// forceLocalMaxima lifts a sparse, ID-hashed subset of interior land tiles
// above all of their neighbors. Heights are read before any tile is lifted.
// Filled lake tiles are left alone so their drainage stays intact.
func (n *Network) forceLocalMaxima() int {
	if n.params.MaximaModulus == 0 {
		return 0
	}
	p := n.p
	type lift struct {
		tile int
		elev float64
	}
	var lifts []lift
	for i := range p.Tiles {
		if !n.land(i) || p.Tiles[i].LakeDepth > 0 || entropy.Hash(n.seed, i)%n.params.MaximaModulus != 0 {
			continue
		}
		top, interior := 0.0, true
		for _, nb := range n.nbrs[i] {
			if !n.land(nb) {
				interior = false
				break
			}
			top = math.Max(top, n.elev(nb))
		}
		if !interior || top < n.elev(i) {
			continue
		}
		e := top + n.params.MaximaLift
		if e > 1 {
			continue
		}
		lifts = append(lifts, lift{tile: i, elev: e})
	}

	tiles := make([]int, len(lifts))
	for k, l := range lifts {
		p.Tiles[l.tile].Elevation = l.elev
		tiles[k] = l.tile
	}
	n.recomputeAround(tiles)
	n.computeSets()
	return len(lifts)
}

// erode lowers river tiles in proportion to the square root of their
// relative outflow. A tile never drops to or below its drain target, nor to
// sea level, so every drain stays strictly downhill.
func (n *Network) erode() int {
	if n.params.ErosionRate <= 0 {
		return 0
	}
	p := n.p
	peak := 0.0
	for i := range p.Tiles {
		if n.land(i) {
			peak = math.Max(peak, p.Tiles[i].Outflow)
		}
	}
	if peak <= 0 {
		return 0
	}

	eroded := 0
	for i := range p.Tiles {
		t := &p.Tiles[i]
		if !t.River || t.Drain == globe.None {
			continue
		}
		floor := math.Max(n.elev(t.Drain), 0)
		e := t.Elevation - n.params.ErosionRate*math.Sqrt(t.Outflow/peak)
		if e <= floor {
			e = nextUp(floor)
		}
		if e >= t.Elevation {
			continue
		}
		t.LakeDepth = math.Max(0, t.LakeDepth-(t.Elevation-e))
		t.Elevation = e
		eroded++
	}
	return eroded
}
