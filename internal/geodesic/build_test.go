package geodesic

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/mini-planet/internal/globe"
)

func TestDodecahedronCounts(t *testing.T) {
	p := Dodecahedron()
	if len(p.Tiles) != 12 || len(p.Corners) != 20 || len(p.Borders) != 30 {
		t.Fatalf("expected 12/20/30 elements, got %d/%d/%d", len(p.Tiles), len(p.Corners), len(p.Borders))
	}
	for i := range p.Tiles {
		if n := len(p.Tiles[i].Neighbors); n != 5 {
			t.Fatalf("tile %d has %d neighbors, expected pentagon", i, n)
		}
	}
}

func TestSubdivisionCounts(t *testing.T) {
	for n := 1; n <= 6; n++ {
		p, err := Build(n, 0, 1)
		if err != nil {
			t.Fatalf("build %d: %v", n, err)
		}
		want := 10*n*n + 2
		if len(p.Tiles) != want {
			t.Fatalf("frequency %d: expected %d tiles, got %d", n, want, len(p.Tiles))
		}
		if len(p.Corners) != 2*(want-2) {
			t.Fatalf("frequency %d: expected %d corners, got %d", n, 2*(want-2), len(p.Corners))
		}
		if len(p.Borders) != 3*(want-2) {
			t.Fatalf("frequency %d: expected %d borders, got %d", n, 3*(want-2), len(p.Borders))
		}
		pentagons := 0
		for i := range p.Tiles {
			if len(p.Tiles[i].Neighbors) == 5 {
				pentagons++
			}
		}
		if pentagons != 12 {
			t.Fatalf("frequency %d: expected 12 pentagons, got %d", n, pentagons)
		}
	}
}

func TestDistortedMeshKeepsInvariants(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		p, err := Build(8, 1, seed)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		assertOrdering(t, p)
	}
}

func TestDistortionProducesHeptagons(t *testing.T) {
	p, err := Build(10, 1, 7)
	if err != nil {
		t.Fatal(err)
	}
	heptagons := 0
	for i := range p.Tiles {
		if len(p.Tiles[i].Neighbors) == 7 {
			heptagons++
		}
	}
	if heptagons == 0 {
		t.Fatal("expected full distortion to create heptagons")
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, err := Build(6, 0.7, 99)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(6, 0.7, 99)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Tiles {
		if a.Tiles[i].Position != b.Tiles[i].Position {
			t.Fatalf("tile %d position differs between identical builds", i)
		}
		if len(a.Tiles[i].Neighbors) != len(b.Tiles[i].Neighbors) {
			t.Fatalf("tile %d degree differs between identical builds", i)
		}
	}
}

func TestBuildRejectsZeroSubdivisions(t *testing.T) {
	if _, err := Build(0, 0, 0); err == nil {
		t.Fatal("expected error for zero subdivisions")
	}
}

func TestMeasuredGeometry(t *testing.T) {
	p, err := Build(12, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for i := range p.Tiles {
		if p.Tiles[i].Area <= 0 {
			t.Fatalf("tile %d has non-positive area %f", i, p.Tiles[i].Area)
		}
		total += p.Tiles[i].Area
	}
	sphere := 4 * math.Pi
	if total > 1.01*sphere || total < 0.95*sphere {
		t.Fatalf("expected faceted area close to 4π, got %f", total)
	}
	for i := range p.Borders {
		if p.Borders[i].Length <= 0 {
			t.Fatalf("border %d has non-positive length", i)
		}
	}
}

func TestValidateReportsMalformedCorner(t *testing.T) {
	p := Dodecahedron()
	p.Corners[3].Tiles = p.Corners[3].Tiles[:2]
	err := p.Validate()
	var me *globe.MeshError
	if !errors.As(err, &me) {
		t.Fatalf("expected MeshError, got %v", err)
	}
	if me.Kind != "corner" || me.ID != 3 || me.Got != 2 {
		t.Fatalf("unexpected mesh error: %+v", me)
	}
}

// assertOrdering checks that Borders[k] joins Corners[k] and Corners[k+1]
// and separates the tile from Neighbors[k].
func assertOrdering(t *testing.T, p *globe.Planet) {
	t.Helper()
	for i := range p.Tiles {
		tile := &p.Tiles[i]
		n := len(tile.Corners)
		for k := 0; k < n; k++ {
			b := p.Borders[tile.Borders[k]]
			c0, c1 := tile.Corners[k], tile.Corners[(k+1)%n]
			if !(b.Corners[0] == c0 && b.Corners[1] == c1) && !(b.Corners[0] == c1 && b.Corners[1] == c0) {
				t.Fatalf("tile %d border %d does not join corners %d and %d", i, k, c0, c1)
			}
			if p.OppositeTile(tile.Borders[k], i) != tile.Neighbors[k] {
				t.Fatalf("tile %d border %d does not face neighbor %d", i, k, tile.Neighbors[k])
			}
		}
	}
	for i := range p.Corners {
		c := &p.Corners[i]
		for k := 0; k < 3; k++ {
			if p.OppositeCorner(c.Borders[k], i) != c.Corners[k] {
				t.Fatalf("corner %d border %d does not lead to corner %d", i, k, c.Corners[k])
			}
		}
	}
}
