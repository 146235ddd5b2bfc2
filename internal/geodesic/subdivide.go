// Package geodesic produces the planet mesh: a subdivided icosahedron whose
// dual gives pentagon, hexagon, and (after distortion) heptagon tiles.
package geodesic

import (
	"math"
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// triMesh is the primal triangle mesh before dualization.
type triMesh struct {
	verts []globe.Vec3
	tris  [][3]int
}

func icosahedron() triMesh {
	t := (1 + math.Sqrt(5)) / 2
	raw := []globe.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	verts := make([]globe.Vec3, len(raw))
	for i, v := range raw {
		verts[i] = globe.Normalize(v)
	}
	tris := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return triMesh{verts: verts, tris: tris}
}

// latticeKey identifies a subdivision point by its integer barycentric weights
// over icosahedron vertices, so points on shared edges collapse to one vertex.
type latticeKey struct {
	v [3]int
	w [3]int
}

func makeKey(v [3]int, w [3]int) latticeKey {
	type pair struct{ v, w int }
	ps := make([]pair, 0, 3)
	for i := 0; i < 3; i++ {
		if w[i] > 0 {
			ps = append(ps, pair{v[i], w[i]})
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].v < ps[j].v })
	k := latticeKey{v: [3]int{-1, -1, -1}}
	for i, p := range ps {
		k.v[i] = p.v
		k.w[i] = p.w
	}
	return k
}

// subdivide splits every icosahedron face into n² triangles.
func subdivide(n int) triMesh {
	base := icosahedron()
	if n <= 1 {
		return base
	}

	index := make(map[latticeKey]int)
	var verts []globe.Vec3
	vertex := func(face [3]int, i, j int) int {
		k := makeKey(face, [3]int{n - i - j, i, j})
		if id, ok := index[k]; ok {
			return id
		}
		var p globe.Vec3
		for s := 0; s < 3 && k.v[s] >= 0; s++ {
			p = p.Add(base.verts[k.v[s]].Mul(float64(k.w[s])))
		}
		id := len(verts)
		verts = append(verts, globe.Normalize(p))
		index[k] = id
		return id
	}

	var tris [][3]int
	for _, face := range base.tris {
		for i := 0; i < n; i++ {
			for j := 0; j < n-i; j++ {
				a := vertex(face, i, j)
				b := vertex(face, i+1, j)
				c := vertex(face, i, j+1)
				tris = append(tris, [3]int{a, b, c})
				if i+j <= n-2 {
					d := vertex(face, i+1, j+1)
					tris = append(tris, [3]int{b, d, c})
				}
			}
		}
	}

	m := triMesh{verts: verts, tris: tris}
	m.orient()
	return m
}

// orient makes every triangle counter-clockwise seen from outside the sphere.
func (m *triMesh) orient() {
	for i, t := range m.tris {
		if !m.outward(t) {
			m.tris[i] = [3]int{t[0], t[2], t[1]}
		}
	}
}

func (m *triMesh) outward(t [3]int) bool {
	a, b, c := m.verts[t[0]], m.verts[t[1]], m.verts[t[2]]
	return b.Sub(a).Cross(c.Sub(a)).Dot(a.Add(b).Add(c)) > 0
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
