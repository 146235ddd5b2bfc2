package hydrology

import (
	"math"

	"github.com/talgya/mini-planet/internal/globe"
)

// redistributeMoisture blends each land tile's moisture toward its
// neighbors' mean and adds humidity from the flow passing through it. Each
// round reads only the previous round's values.
func (n *Network) redistributeMoisture() {
	p := n.p
	peak := 0.0
	for i := range p.Tiles {
		peak = math.Max(peak, p.Tiles[i].Inflow)
	}
	blend := globe.Clamp(n.params.MoistureBlend, 0, 1)

	prev := make([]float64, len(p.Tiles))
	for round := 0; round < n.params.MoistureRounds; round++ {
		for i := range p.Tiles {
			prev[i] = p.Tiles[i].Moisture
		}
		for i := range p.Tiles {
			if !n.land(i) || len(n.nbrs[i]) == 0 {
				continue
			}
			sum := 0.0
			for _, nb := range n.nbrs[i] {
				sum += prev[nb]
			}
			m := prev[i]*(1-blend) + sum/float64(len(n.nbrs[i]))*blend
			p.Tiles[i].Moisture = m
		}
	}

	if peak <= 0 || n.params.RiverMoisture <= 0 {
		for i := range p.Tiles {
			p.Tiles[i].Moisture = globe.Clamp(p.Tiles[i].Moisture, 0, 1)
		}
		return
	}
	for i := range p.Tiles {
		t := &p.Tiles[i]
		if n.land(i) {
			t.Moisture += n.params.RiverMoisture * math.Sqrt(t.Inflow/peak)
		}
		t.Moisture = globe.Clamp(globe.Finite(t.Moisture, 0), 0, 1)
	}
}
