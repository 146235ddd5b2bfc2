package hydrology

import (
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// lowestNeighbor returns the neighbor with the lowest elevation, ties going
// to the lower ID.
func (n *Network) lowestNeighbor(t int) int {
	best := globe.None
	for _, nb := range n.nbrs[t] {
		if best == globe.None || n.elev(nb) < n.elev(best) {
			best = nb
		}
	}
	return best
}

// computeDrain points a land tile at its lowest neighbor when that neighbor
// is strictly lower. Water tiles and sinks get no drain.
func (n *Network) computeDrain(t int) {
	tile := &n.p.Tiles[t]
	tile.Drain = globe.None
	if !n.land(t) {
		return
	}
	if low := n.lowestNeighbor(t); low != globe.None && n.elev(low) < tile.Elevation {
		tile.Drain = low
	}
}

func (n *Network) computeAllDrains() {
	for i := range n.p.Tiles {
		n.computeDrain(i)
	}
}

// recomputeAround refreshes the drains of the given tiles and their neighbors.
func (n *Network) recomputeAround(tiles []int) {
	g := n.mark()
	for _, t := range tiles {
		for _, u := range append([]int{t}, n.nbrs[t]...) {
			if n.stamp[u] != g {
				n.stamp[u] = g
				n.computeDrain(u)
			}
		}
	}
}

// computeSets rebuilds Sources, Downstream, and Upstream from the drains.
// Only land tiles take part. A walk that revisits a tile stops there; such
// cycles are reported by checkAnomalies.
func (n *Network) computeSets() {
	p := n.p
	for i := range p.Tiles {
		t := &p.Tiles[i]
		t.Sources = nil
		t.Upstream = nil
		t.Downstream = nil
	}
	for i := range p.Tiles {
		d := p.Tiles[i].Drain
		if d != globe.None && d != i && n.land(i) && n.land(d) {
			p.Tiles[d].Sources = append(p.Tiles[d].Sources, i)
		}
	}
	for i := range p.Tiles {
		if !n.land(i) {
			continue
		}
		g := n.mark()
		n.stamp[i] = g
		var path []int
		for cur := p.Tiles[i].Drain; cur != globe.None && n.land(cur) && n.stamp[cur] != g; cur = p.Tiles[cur].Drain {
			n.stamp[cur] = g
			path = append(path, cur)
		}
		p.Tiles[i].Downstream = path
		for _, d := range path {
			p.Tiles[d].Upstream = append(p.Tiles[d].Upstream, i)
		}
	}
}

// isUpstream reports whether a lies upstream of b.
func (n *Network) isUpstream(a, b int) bool {
	up := n.p.Tiles[b].Upstream
	i := sort.SearchInts(up, a)
	return i < len(up) && up[i] == a
}

// RebuildSets recomputes Sources, Upstream, and Downstream from the tiles'
// Drain fields alone. Used after loading a planet that stored only drains.
func RebuildSets(p *globe.Planet) {
	newNetwork(p, DefaultParams(), 0).computeSets()
}
