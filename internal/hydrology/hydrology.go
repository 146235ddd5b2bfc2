// Package hydrology builds single-direction drainage over land tiles,
// resolves closed basins by filling them to their escape saddle, and derives
// outflow, rivers, watersheds, and the moisture feedback from that network.
package hydrology

import (
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// Params configures the drainage solver.
type Params struct {
	Rounds int // Basin-fill rounds

	// SettleRounds caps the extra passes after Rounds that keep filling
	// until no land sink is left. Nested basins take one pass per level.
	SettleRounds int

	// RiverThreshold is the outflow percentile a source must exceed for the
	// tile it feeds to count as a river. <= 0 admits any source, >= 1 none.
	RiverThreshold float64
	Runoff         float64 // Fraction of rainfall that leaves as surface flow

	// FillStep bounds the total rise spread across a filled lake's tiles.
	FillStep float64

	// One interior land tile in MaximaModulus, chosen by ID hash, is raised
	// above its neighbors halfway through the rounds. 0 disables the pass.
	MaximaModulus uint64
	MaximaLift    float64

	ErosionRate float64

	// Water bodies smaller than SmallSeaFraction of all tiles that touch a
	// single landmass become land and are resolved as lakes.
	SmallSeaFraction float64

	Palette        int // Watershed colors
	MoistureRounds int
	MoistureBlend  float64 // Share of a tile's moisture taken from its neighbors per round
	RiverMoisture  float64 // Moisture added at full relative inflow
}

// DefaultParams returns the stock hydrology settings.
func DefaultParams() Params {
	return Params{
		Rounds:           8,
		SettleRounds:     64,
		RiverThreshold:   0.9,
		Runoff:           0.5,
		FillStep:         1e-4,
		MaximaModulus:    29,
		MaximaLift:       0.002,
		ErosionRate:      0.01,
		SmallSeaFraction: 0.002,
		Palette:          8,
		MoistureRounds:   3,
		MoistureBlend:    0.25,
		RiverMoisture:    0.1,
	}
}

// Result summarizes a hydrology run.
type Result struct {
	MergedSeas  int
	Bowls       int
	Lakes       int
	Maxima      int
	Eroded      int
	Redirected  int
	Rivers      int
	Sinks       int
	Watersheds  int
	Anomalies   []Anomaly
	RoundsTaken int
	Settled     int // Extra passes after the fixed rounds
	Flooded     int // Tiles raised by the final priority flood
}

// Network holds solver state for one planet. Tile fields on the planet are
// the source of truth; the network only adds scratch space.
type Network struct {
	p      *globe.Planet
	params Params
	seed   int64

	nbrs  [][]int // Neighbor lists sorted by ID
	stamp []int
	gen   int

	meanArea float64
}

func newNetwork(p *globe.Planet, params Params, seed int64) *Network {
	n := &Network{
		p:        p,
		params:   params,
		seed:     seed,
		nbrs:     make([][]int, len(p.Tiles)),
		stamp:    make([]int, len(p.Tiles)),
		meanArea: p.MeanTileArea(),
	}
	for i := range p.Tiles {
		nb := append([]int(nil), p.Tiles[i].Neighbors...)
		sort.Ints(nb)
		n.nbrs[i] = nb
	}
	return n
}

// mark starts a new visited generation for stamp-based traversals.
func (n *Network) mark() int {
	n.gen++
	return n.gen
}

func (n *Network) land(t int) bool {
	return n.p.Tiles[t].Elevation > 0
}

func (n *Network) elev(t int) float64 {
	return n.p.Tiles[t].Elevation
}

func nextUp(x float64) float64 {
	return math.Nextafter(x, math.Inf(1))
}

// Run solves drainage on a planet whose elevation and moisture are final.
// It lowers and raises land elevations, rewrites moisture, and fills every
// hydrology field on the tiles plus the Lakes, Watersheds, and Bodies arenas.
// Anomalies are reported, never fatal.
func Run(p *globe.Planet, params Params, seed int64) Result {
	var res Result
	n := newNetwork(p, params, seed)
	p.Lakes = p.Lakes[:0]
	for i := range p.Tiles {
		t := &p.Tiles[i]
		t.LakeDepth = 0
		t.Lake = globe.None
		t.River = false
		t.Flagged = false
	}

	n.buildBodies()
	res.MergedSeas = n.mergeSmallSeas()
	if res.MergedSeas > 0 {
		n.buildBodies()
	}

	n.computeAllDrains()
	mid := params.Rounds / 2
	for round := 0; round < params.Rounds; round++ {
		res.RoundsTaken = round + 1
		n.computeSets()
		bowls := n.resolveBowls()
		if bowls > 0 {
			n.computeSets()
		}
		lakes := n.resolveLakes()
		res.Bowls += bowls
		res.Lakes += lakes
		changed := bowls + lakes
		if round == mid {
			m := n.forceLocalMaxima()
			res.Maxima += m
			changed += m
		}
		if changed == 0 && round >= mid {
			break
		}
	}
	res.Settled = n.settle(&res)
	res.Flooded = n.floodSinks()

	n.computeAllDrains()
	n.computeSets()
	n.computeOutflow()
	n.classifyRivers()

	res.Eroded = n.erode()
	n.computeAllDrains()
	n.computeSets()
	n.computeOutflow()
	n.classifyRivers()

	res.Redirected = n.redirectParallelRivers()
	if res.Redirected > 0 {
		n.computeSets()
		n.computeOutflow()
		n.classifyRivers()
	}

	res.Watersheds = n.buildWatersheds()
	n.colorWatersheds()
	n.redistributeMoisture()
	n.buildBodies()
	res.Anomalies = n.checkAnomalies()

	for i := range p.Tiles {
		t := &p.Tiles[i]
		if t.River {
			res.Rivers++
		}
		if t.IsLand() && t.Drain == globe.None {
			res.Sinks++
		}
	}
	slog.Info("stage complete", "stage", "hydrology",
		"rounds", res.RoundsTaken, "settled", res.Settled, "flooded", res.Flooded, "lakes", res.Lakes, "bowls", res.Bowls,
		"rivers", res.Rivers, "watersheds", res.Watersheds, "sinks", res.Sinks,
		"redirected", res.Redirected, "anomalies", len(res.Anomalies))
	return res
}
