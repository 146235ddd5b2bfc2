package hydrology

import (
	"container/heap"
	"math"
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// resolveBowls raises each sink that nothing drains into to the mean of its
// two lowest neighbors, so it drains again. Bowls are handled one at a time
// in ID order; on flat ground this lets neighbors settle into a slope.
func (n *Network) resolveBowls() int {
	p := n.p
	count := 0
	for i := range p.Tiles {
		t := &p.Tiles[i]
		if !t.IsLand() || t.Drain != globe.None || len(t.Upstream) > 0 || len(n.nbrs[i]) < 2 {
			continue
		}
		low := append([]int(nil), n.nbrs[i]...)
		sort.SliceStable(low, func(a, b int) bool { return n.elev(low[a]) < n.elev(low[b]) })
		lowest := n.elev(low[0])
		e := (lowest + n.elev(low[1])) / 2
		if e <= lowest {
			e = nextUp(lowest)
		}
		if e > 1 || e < t.Elevation {
			continue
		}
		t.Elevation = e
		n.recomputeAround([]int{i})
		count++
	}
	return count
}

// resolveLakes fills every sink that has an upstream tree. Sinks whose basin
// was disturbed by an earlier fill this round wait for the next round.
func (n *Network) resolveLakes() int {
	p := n.p
	var sinks []int
	for i := range p.Tiles {
		t := &p.Tiles[i]
		if t.IsLand() && t.Drain == globe.None && len(t.Upstream) > 0 {
			sinks = append(sinks, i)
		}
	}

	touched := make([]bool, len(p.Tiles))
	filled := 0
	for _, s := range sinks {
		basin := append([]int{s}, p.Tiles[s].Upstream...)
		stale := false
		for _, t := range basin {
			if touched[t] {
				stale = true
				break
			}
		}
		if stale {
			continue
		}
		if n.fillBasin(s, basin, touched) {
			filled++
		}
	}
	return filled
}

// fillBasin raises the basin around sink to its cheapest escape saddle. The
// saddle cost of a rim tile r and an outside neighbor o is max(r, o). Tiles
// at or below that level that connect to the sink are filled breadth-first
// from r with strictly increasing heights, so each drains toward r and r
// drains out. Returns false when the basin has no usable escape.
func (n *Network) fillBasin(sink int, basin []int, touched []bool) bool {
	p := n.p
	inBasin := n.mark()
	for _, t := range basin {
		n.stamp[t] = inBasin
	}

	sorted := append([]int(nil), basin...)
	sort.Ints(sorted)
	rim, escape := globe.None, globe.None
	level := math.Inf(1)
	for _, r := range sorted {
		for _, o := range n.nbrs[r] {
			if n.stamp[o] == inBasin {
				continue
			}
			if cost := math.Max(n.elev(r), n.elev(o)); cost < level {
				level, rim, escape = cost, r, o
			}
		}
	}
	if rim == globe.None || level >= 1 {
		return false
	}

	// Members: tiles of the basin at or below the level, connected to the sink.
	isMember := n.mark()
	members := []int{sink}
	n.stamp[sink] = isMember
	for q := 0; q < len(members); q++ {
		for _, nb := range n.nbrs[members[q]] {
			if n.stamp[nb] == inBasin && n.elev(nb) <= level {
				n.stamp[nb] = isMember
				members = append(members, nb)
			}
		}
	}
	// Basin tiles not yet claimed still carry inBasin, which is below isMember.
	member := func(t int) bool { return n.stamp[t] == isMember }
	if !member(rim) {
		return false
	}

	var shore, sources []int
	seenShore := make(map[int]bool)
	for _, m := range members {
		for _, nb := range n.nbrs[m] {
			if member(nb) || seenShore[nb] {
				continue
			}
			seenShore[nb] = true
			shore = append(shore, nb)
		}
	}
	sort.Ints(shore)
	for _, s := range shore {
		if d := p.Tiles[s].Drain; d != globe.None && member(d) {
			sources = append(sources, s)
		}
	}

	base := level
	if base <= n.elev(escape) {
		base = nextUp(n.elev(escape))
	}
	gap := 1 - base
	for _, s := range shore {
		if e := n.elev(s); e > level {
			gap = math.Min(gap, e-base)
		}
	}
	step := math.Max(0, math.Min(gap, n.params.FillStep)) / float64(len(members)+1)

	// Breadth-first from the rim tile over members.
	order := make([]int, 0, len(members))
	placed := n.mark()
	order = append(order, rim)
	n.stamp[rim] = placed
	for q := 0; q < len(order); q++ {
		for _, nb := range n.nbrs[order[q]] {
			if n.stamp[nb] == isMember {
				n.stamp[nb] = placed
				order = append(order, nb)
			}
		}
	}

	lake := globe.Lake{
		ID:      len(p.Lakes),
		Shore:   shore,
		Sources: sources,
		Level:   level,
		Outlet:  rim,
		Escape:  escape,
	}
	v := base
	for i, t := range order {
		if i > 0 {
			v = math.Max(v+step, nextUp(v))
		}
		tile := &p.Tiles[t]
		if v > tile.Elevation {
			tile.LakeDepth += v - tile.Elevation
			tile.Elevation = math.Min(v, 1)
		}
		tile.Lake = lake.ID
	}
	lake.Tiles = append([]int(nil), order...)
	sort.Ints(lake.Tiles)

	n.recomputeAround(order)
	for _, t := range order {
		p.Tiles[t].Lake = globe.None
		touched[t] = true
	}
	for _, s := range shore {
		touched[s] = true
	}
	lake.Filled = true
	p.Lakes = append(p.Lakes, lake)
	return true
}

// settle repeats the bowl and lake passes until no land sink is left, a
// pass changes nothing, or SettleRounds passes have run. A lake whose escape
// leads into another sink is absorbed when that sink's basin is filled.
func (n *Network) settle(res *Result) int {
	rounds := 0
	for rounds < n.params.SettleRounds && n.countSinks() > 0 {
		rounds++
		n.computeSets()
		bowls := n.resolveBowls()
		if bowls > 0 {
			n.computeSets()
		}
		lakes := n.resolveLakes()
		res.Bowls += bowls
		res.Lakes += lakes
		if bowls+lakes == 0 {
			break
		}
	}
	return rounds
}

func (n *Network) countSinks() int {
	count := 0
	for i := range n.p.Tiles {
		if n.land(i) && n.p.Tiles[i].Drain == globe.None {
			count++
		}
	}
	return count
}

type floodItem struct {
	tile int
	elev float64
}

type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }
func (q floodQueue) Less(i, j int) bool {
	if q[i].elev != q[j].elev {
		return q[i].elev < q[j].elev
	}
	return q[i].tile < q[j].tile
}
func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *floodQueue) Push(x any)   { *q = append(*q, x.(floodItem)) }
func (q *floodQueue) Pop() any {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]
	return x
}

// floodSinks is the backstop for sinks the saddle fills could not clear.
// It floods land inward from the water in elevation order and lifts every
// tile reached from a neighbor at or above it to just over that neighbor.
// Tiles that already drain toward water keep their height. Land that never
// touches water is left as it is. Returns the number of tiles raised.
func (n *Network) floodSinks() int {
	if n.countSinks() == 0 {
		return 0
	}
	p := n.p
	done := n.mark()
	q := &floodQueue{}
	for i := range p.Tiles {
		if n.land(i) {
			continue
		}
		n.stamp[i] = done
		for _, nb := range n.nbrs[i] {
			if n.land(nb) && n.stamp[nb] != done {
				n.stamp[nb] = done
				heap.Push(q, floodItem{tile: nb, elev: n.elev(nb)})
			}
		}
	}

	raised := 0
	for q.Len() > 0 {
		cur := heap.Pop(q).(floodItem)
		for _, nb := range n.nbrs[cur.tile] {
			if n.stamp[nb] == done {
				continue
			}
			n.stamp[nb] = done
			t := &p.Tiles[nb]
			if t.Elevation <= cur.elev {
				if e := nextUp(cur.elev); e <= 1 {
					t.LakeDepth += e - t.Elevation
					t.Elevation = e
					raised++
				}
			}
			heap.Push(q, floodItem{tile: nb, elev: t.Elevation})
		}
	}
	if raised > 0 {
		n.computeAllDrains()
	}
	return raised
}
