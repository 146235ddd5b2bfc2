package hydrology

import (
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// buildWatersheds groups land tiles by the last tile of their downstream
// path. Tiles with an empty path are outlets of their own watershed.
func (n *Network) buildWatersheds() int {
	p := n.p
	p.Watersheds = p.Watersheds[:0]
	byOutlet := make(map[int]int)
	for i := range p.Tiles {
		t := &p.Tiles[i]
		t.Watershed = globe.None
		if !t.IsLand() {
			continue
		}
		outlet := i
		if len(t.Downstream) > 0 {
			outlet = t.Downstream[len(t.Downstream)-1]
		}
		id, ok := byOutlet[outlet]
		if !ok {
			id = len(p.Watersheds)
			byOutlet[outlet] = id
			p.Watersheds = append(p.Watersheds, globe.Watershed{ID: id, Outlet: outlet, Color: globe.None})
		}
		t.Watershed = id
		p.Watersheds[id].Tiles = append(p.Watersheds[id].Tiles, i)
	}

	for w := range p.Watersheds {
		seen := make(map[int]bool)
		for _, t := range p.Watersheds[w].Tiles {
			for _, nb := range n.nbrs[t] {
				o := p.Tiles[nb].Watershed
				if o != globe.None && o != w && !seen[o] {
					seen[o] = true
					p.Watersheds[w].Neighbors = append(p.Watersheds[w].Neighbors, o)
				}
			}
		}
		sort.Ints(p.Watersheds[w].Neighbors)
	}
	return len(p.Watersheds)
}

// colorWatersheds assigns palette colors so neighboring watersheds rarely
// match. The most connected watersheds pick first and take the lowest color
// no colored neighbor uses; when the palette runs out they take the color
// least used among their neighbors.
func (n *Network) colorWatersheds() {
	p := n.p
	palette := n.params.Palette
	if palette < 1 {
		palette = 1
	}
	order := make([]int, len(p.Watersheds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(p.Watersheds[order[a]].Neighbors) > len(p.Watersheds[order[b]].Neighbors)
	})

	used := make([]int, palette)
	for _, w := range order {
		for c := range used {
			used[c] = 0
		}
		for _, o := range p.Watersheds[w].Neighbors {
			if c := p.Watersheds[o].Color; c != globe.None {
				used[c]++
			}
		}
		best := 0
		for c := 1; c < palette && used[best] > 0; c++ {
			if used[c] < used[best] {
				best = c
			}
		}
		p.Watersheds[w].Color = best
	}
}
