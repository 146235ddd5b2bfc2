package hydrology

import (
	"math"
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// computeOutflow accumulates surface flow down the drainage forest.
// Tiles are visited by ascending upstream size, so every source is settled
// before the tile it feeds. Water tiles record the inflow reaching them.
func (n *Network) computeOutflow() {
	p := n.p
	var land []int
	for i := range p.Tiles {
		t := &p.Tiles[i]
		t.Inflow, t.Outflow = 0, 0
		if n.land(i) {
			land = append(land, i)
		}
	}
	sort.SliceStable(land, func(a, b int) bool {
		return len(p.Tiles[land[a]].Upstream) < len(p.Tiles[land[b]].Upstream)
	})

	for _, i := range land {
		t := &p.Tiles[i]
		for _, s := range t.Sources {
			t.Inflow += p.Tiles[s].Outflow
		}
		t.Outflow = globe.Finite(n.rainfall(i)*n.params.Runoff+t.Inflow, 0)
	}
	for _, i := range land {
		t := &p.Tiles[i]
		if t.Drain != globe.None && !n.land(t.Drain) {
			p.Tiles[t.Drain].Inflow += t.Outflow
		}
	}
}

// rainfall is a tile's moisture weighted by its area relative to the mean.
func (n *Network) rainfall(t int) float64 {
	if n.meanArea <= 0 {
		return 0
	}
	tile := &n.p.Tiles[t]
	return tile.Moisture * tile.Area / n.meanArea
}

// riverCutoff returns the outflow a source must exceed to form a river, and
// false when no source can qualify.
func (n *Network) riverCutoff() (float64, bool) {
	pct := n.params.RiverThreshold
	switch {
	case pct <= 0:
		return math.Inf(-1), true
	case pct >= 1:
		return 0, false
	}
	var flows []float64
	for i := range n.p.Tiles {
		if n.land(i) {
			flows = append(flows, n.p.Tiles[i].Outflow)
		}
	}
	if len(flows) == 0 {
		return 0, false
	}
	sort.Float64s(flows)
	return flows[int(pct*float64(len(flows)-1))], true
}

// classifyRivers marks a tile as a river when it drains somewhere and at
// least one of its direct sources carries more than the cutoff.
func (n *Network) classifyRivers() {
	p := n.p
	cutoff, ok := n.riverCutoff()
	for i := range p.Tiles {
		t := &p.Tiles[i]
		t.River = false
		if !ok || t.Drain == globe.None {
			continue
		}
		for _, s := range t.Sources {
			if p.Tiles[s].Outflow > cutoff {
				t.River = true
				break
			}
		}
	}
}

// redirectParallelRivers finds adjacent river tiles that drain into the same
// target without either being upstream of the other, and tries to merge
// them: the higher tile's target is briefly raised above it, and if the
// drain it would then pick is a lower river tile, that becomes its drain.
// The target's elevation is always restored.
func (n *Network) redirectParallelRivers() int {
	p := n.p
	moved := make([]bool, len(p.Tiles))
	count := 0
	for a := range p.Tiles {
		if !p.Tiles[a].River || moved[a] {
			continue
		}
		for _, b := range n.nbrs[a] {
			if b < a || !p.Tiles[b].River || moved[b] {
				continue
			}
			d := p.Tiles[a].Drain
			if d == globe.None || p.Tiles[b].Drain != d || n.isUpstream(a, b) || n.isUpstream(b, a) {
				continue
			}
			high := a
			if n.elev(b) > n.elev(a) || (n.elev(b) == n.elev(a) && b > a) {
				high = b
			}

			saved := p.Tiles[d].Elevation
			p.Tiles[d].Elevation = nextUp(n.elev(high))
			next := n.lowestNeighbor(high)
			p.Tiles[d].Elevation = saved

			if next == globe.None || next == d || !p.Tiles[next].River || n.elev(next) >= n.elev(high) {
				continue
			}
			p.Tiles[high].Drain = next
			moved[high] = true
			count++
			break
		}
	}
	return count
}
