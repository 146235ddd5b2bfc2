package geodesic

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/globe"
)

const (
	minValence     = 5
	maxValence     = 7
	relaxPasses    = 3
	jitterFraction = 0.15
	noiseFrequency = 4.0
)

// distort flips random edges (keeping every vertex at 5-7 triangles), relaxes
// the vertices, and jitters them with simplex noise. level is in [0, 1].
func (m *triMesh) distort(level float64, src *entropy.Source) {
	if level <= 0 {
		return
	}

	edgeTris := make(map[[2]int][2]int)
	var edges [][2]int
	valence := make([]int, len(m.verts))
	for ti, t := range m.tris {
		for k := 0; k < 3; k++ {
			key := edgeKey(t[k], t[(k+1)%3])
			et, ok := edgeTris[key]
			if !ok {
				edges = append(edges, key)
				et = [2]int{ti, -1}
			} else {
				et[1] = ti
			}
			edgeTris[key] = et
			valence[t[k]]++
		}
	}

	attempts := int(math.Ceil(level * float64(len(edges)) * 0.5))
	for a := 0; a < attempts; a++ {
		slot := src.IntN(len(edges))
		if nk, ok := m.flip(edges[slot], edgeTris, valence); ok {
			edges[slot] = nk
		}
	}

	before := append([]globe.Vec3(nil), m.verts...)
	m.relax(edges)
	m.jitter(level, src.Seed(), meanEdgeLength(m.verts, edges))
	for _, t := range m.tris {
		if !m.outward(t) {
			m.verts = before
			return
		}
	}
}

// flip replaces edge ab, shared by triangles (a,b,c) and (b,a,d), with edge cd.
func (m *triMesh) flip(ab [2]int, edgeTris map[[2]int][2]int, valence []int) ([2]int, bool) {
	et := edgeTris[ab]
	if et[1] < 0 {
		return ab, false
	}
	t1, t2 := et[0], et[1]
	a, b := ab[0], ab[1]
	// Orient so that t1 walks a→b.
	if _, ok := apex(m.tris[t1], a, b); !ok {
		t1, t2 = t2, t1
	}
	c, ok1 := apex(m.tris[t1], a, b)
	d, ok2 := apex(m.tris[t2], b, a)
	if !ok1 || !ok2 || c == d {
		return ab, false
	}
	if valence[a] <= minValence || valence[b] <= minValence || valence[c] >= maxValence || valence[d] >= maxValence {
		return ab, false
	}
	cd := edgeKey(c, d)
	if _, exists := edgeTris[cd]; exists {
		return ab, false
	}
	n1 := [3]int{a, d, c}
	n2 := [3]int{d, b, c}
	if !m.outward(n1) || !m.outward(n2) {
		return ab, false
	}

	m.tris[t1] = n1
	m.tris[t2] = n2
	delete(edgeTris, ab)
	edgeTris[cd] = [2]int{t1, t2}
	replaceTri(edgeTris, edgeKey(a, d), t2, t1)
	replaceTri(edgeTris, edgeKey(b, c), t1, t2)
	valence[a]--
	valence[b]--
	valence[c]++
	valence[d]++
	return cd, true
}

// apex returns the third vertex of t when t contains the directed edge u→v.
func apex(t [3]int, u, v int) (int, bool) {
	for k := 0; k < 3; k++ {
		if t[k] == u && t[(k+1)%3] == v {
			return t[(k+2)%3], true
		}
	}
	return -1, false
}

func replaceTri(edgeTris map[[2]int][2]int, key [2]int, from, to int) {
	et := edgeTris[key]
	for i := range et {
		if et[i] == from {
			et[i] = to
		}
	}
	edgeTris[key] = et
}

// relax pulls each vertex halfway toward the mean of its neighbors.
func (m *triMesh) relax(edges [][2]int) {
	for pass := 0; pass < relaxPasses; pass++ {
		sum := make([]globe.Vec3, len(m.verts))
		count := make([]int, len(m.verts))
		for _, e := range edges {
			sum[e[0]] = sum[e[0]].Add(m.verts[e[1]])
			sum[e[1]] = sum[e[1]].Add(m.verts[e[0]])
			count[e[0]]++
			count[e[1]]++
		}
		for i := range m.verts {
			if count[i] == 0 {
				continue
			}
			mean := sum[i].Mul(1 / float64(count[i]))
			m.verts[i] = globe.Normalize(m.verts[i].Add(mean).Mul(0.5))
		}
	}
}

// jitter displaces vertices along the surface with seeded simplex noise.
func (m *triMesh) jitter(level float64, seed int64, edgeLen float64) {
	nx := opensimplex.New(seed)
	ny := opensimplex.New(seed + 1)
	nz := opensimplex.New(seed + 2)
	amp := level * jitterFraction * edgeLen
	for i, v := range m.verts {
		x, y, z := v.X()*noiseFrequency, v.Y()*noiseFrequency, v.Z()*noiseFrequency
		offset := globe.Vec3{nx.Eval3(x, y, z), ny.Eval3(x, y, z), nz.Eval3(x, y, z)}
		// Keep only the tangential part.
		offset = offset.Sub(globe.Project(offset, v))
		m.verts[i] = globe.Normalize(v.Add(offset.Mul(amp)))
	}
}

func meanEdgeLength(verts []globe.Vec3, edges [][2]int) float64 {
	if len(edges) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range edges {
		sum += verts[e[0]].Sub(verts[e[1]]).Len()
	}
	return sum / float64(len(edges))
}
