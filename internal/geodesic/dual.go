package geodesic

import (
	"fmt"

	"github.com/talgya/mini-planet/internal/globe"
)

// dual converts the triangle mesh into the planet arenas: vertices become
// tiles, triangles become corners, and edges become borders.
func (m *triMesh) dual() (*globe.Planet, error) {
	edgeID := make(map[[2]int]int)
	var edgeVerts [][2]int
	edgeTris := make([][2]int, 0)
	for ti, t := range m.tris {
		for k := 0; k < 3; k++ {
			key := edgeKey(t[k], t[(k+1)%3])
			id, ok := edgeID[key]
			if !ok {
				id = len(edgeVerts)
				edgeID[key] = id
				edgeVerts = append(edgeVerts, key)
				edgeTris = append(edgeTris, [2]int{-1, -1})
			}
			// Slot 0 holds the triangle that walks the edge from low to high vertex.
			if t[k] == key[0] {
				edgeTris[id][0] = ti
			} else {
				edgeTris[id][1] = ti
			}
		}
	}
	for id, et := range edgeTris {
		if et[0] < 0 || et[1] < 0 {
			return nil, fmt.Errorf("edge %v is not shared by two triangles", edgeVerts[id])
		}
	}

	incident := make([][]int, len(m.verts))
	for ti, t := range m.tris {
		for _, v := range t {
			incident[v] = append(incident[v], ti)
		}
	}

	p := globe.NewPlanet(len(m.verts), len(m.tris), len(edgeVerts))

	for ti, t := range m.tris {
		c := &p.Corners[ti]
		c.Position = globe.Normalize(m.verts[t[0]].Add(m.verts[t[1]]).Add(m.verts[t[2]]))
		c.Tiles = []int{t[0], t[1], t[2]}
		c.Borders = make([]int, 3)
		c.Corners = make([]int, 3)
		for k := 0; k < 3; k++ {
			e := edgeID[edgeKey(t[k], t[(k+1)%3])]
			c.Borders[k] = e
			other := edgeTris[e][0]
			if other == ti {
				other = edgeTris[e][1]
			}
			c.Corners[k] = other
		}
	}

	for e, key := range edgeVerts {
		b := &p.Borders[e]
		b.Tiles = []int{key[0], key[1]}
		b.Corners = []int{edgeTris[e][0], edgeTris[e][1]}
		b.Borders = make([]int, 0, 4)
		for _, ti := range b.Corners {
			for _, oe := range p.Corners[ti].Borders {
				if oe != e {
					b.Borders = append(b.Borders, oe)
				}
			}
		}
	}

	for v := range m.verts {
		t := &p.Tiles[v]
		t.Position = m.verts[v]
		if err := m.walk(p, v, incident[v], edgeID, t); err != nil {
			return nil, err
		}
	}

	p.Measure()
	return p, nil
}

// walk orders the triangles around vertex v counter-clockwise and fills the
// tile's corner, border, and neighbor lists so Borders[k] separates
// Corners[k] from Corners[k+1] and faces Neighbors[k].
func (m *triMesh) walk(p *globe.Planet, v int, tris []int, edgeID map[[2]int]int, t *globe.Tile) error {
	if len(tris) == 0 {
		return fmt.Errorf("vertex %d has no triangles", v)
	}
	// rotated returns the two vertices following v in triangle ti.
	rotated := func(ti int) (int, int) {
		tri := m.tris[ti]
		for k := 0; k < 3; k++ {
			if tri[k] == v {
				return tri[(k+1)%3], tri[(k+2)%3]
			}
		}
		return -1, -1
	}

	start := tris[0]
	cur := start
	for step := 0; step <= len(tris); step++ {
		_, y := rotated(cur)
		e := edgeID[edgeKey(v, y)]
		t.Corners = append(t.Corners, cur)
		t.Borders = append(t.Borders, e)
		t.Neighbors = append(t.Neighbors, y)

		next := p.Borders[e].Corners[0]
		if next == cur {
			next = p.Borders[e].Corners[1]
		}
		if next == start {
			break
		}
		cur = next
	}
	if len(t.Corners) != len(tris) {
		return fmt.Errorf("vertex %d: walked %d of %d triangles", v, len(t.Corners), len(tris))
	}
	return nil
}
