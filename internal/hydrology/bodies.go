package hydrology

import (
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// buildBodies groups tiles into connected landmasses and water bodies.
func (n *Network) buildBodies() {
	p := n.p
	p.Bodies = p.Bodies[:0]
	for i := range p.Tiles {
		p.Tiles[i].Body = globe.None
	}
	for i := range p.Tiles {
		if p.Tiles[i].Body != globe.None {
			continue
		}
		land := n.land(i)
		id := len(p.Bodies)
		body := globe.Body{ID: id, Land: land}
		queue := []int{i}
		p.Tiles[i].Body = id
		for len(queue) > 0 {
			t := queue[0]
			queue = queue[1:]
			body.Tiles = append(body.Tiles, t)
			for _, nb := range n.nbrs[t] {
				if p.Tiles[nb].Body == globe.None && n.land(nb) == land {
					p.Tiles[nb].Body = id
					queue = append(queue, nb)
				}
			}
		}
		sort.Ints(body.Tiles)
		p.Bodies = append(p.Bodies, body)
	}
}

// mergeSmallSeas lifts small water bodies enclosed by a single landmass just
// above sea level so basin filling turns them into lakes. The largest water
// body is never merged. Returns the number of bodies lifted.
func (n *Network) mergeSmallSeas() int {
	p := n.p
	largest := globe.None
	for i := range p.Bodies {
		b := &p.Bodies[i]
		if !b.Land && (largest == globe.None || len(b.Tiles) > len(p.Bodies[largest].Tiles)) {
			largest = i
		}
	}
	limit := int(n.params.SmallSeaFraction * float64(len(p.Tiles)))

	merged := 0
	for i := range p.Bodies {
		b := &p.Bodies[i]
		if b.Land || i == largest || len(b.Tiles) >= limit {
			continue
		}
		shore := globe.None
		single := true
		for _, t := range b.Tiles {
			for _, nb := range n.nbrs[t] {
				if !n.land(nb) {
					continue
				}
				if shore == globe.None {
					shore = p.Tiles[nb].Body
				} else if p.Tiles[nb].Body != shore {
					single = false
				}
			}
		}
		if shore == globe.None || !single {
			continue
		}
		// Distinct tiny heights keep the new land free of exact ties.
		for k, t := range b.Tiles {
			p.Tiles[t].Elevation = 1e-6 * float64(k+1)
		}
		merged++
	}
	return merged
}
