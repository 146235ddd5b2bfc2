package tectonics

import (
	"math"
	"testing"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/geodesic"
	"github.com/talgya/mini-planet/internal/globe"
)

func testPlanet(t *testing.T, n int) *globe.Planet {
	t.Helper()
	p, err := geodesic.Build(n, 0.3, 5)
	if err != nil {
		t.Fatalf("build mesh: %v", err)
	}
	return p
}

func TestEveryTileOwnedByOnePlate(t *testing.T) {
	p := testPlanet(t, 10)
	params := DefaultParams()
	params.PlateCount = 12
	if _, err := Run(p, params, entropy.New(42)); err != nil {
		t.Fatal(err)
	}
	if len(p.Plates) == 0 || len(p.Plates) > 12 {
		t.Fatalf("expected 1..12 plates, got %d", len(p.Plates))
	}
	owned := 0
	for i := range p.Plates {
		for _, ti := range p.Plates[i].Tiles {
			if p.Tiles[ti].Plate != i {
				t.Fatalf("plate %d lists tile %d owned by %d", i, ti, p.Tiles[ti].Plate)
			}
		}
		owned += len(p.Plates[i].Tiles)
	}
	if owned != len(p.Tiles) {
		t.Fatalf("plates own %d tiles, planet has %d", owned, len(p.Tiles))
	}
	for i := range p.Tiles {
		if p.Tiles[i].Plate == globe.None {
			t.Fatalf("tile %d has no plate", i)
		}
	}
}

func TestPlateElevationRanges(t *testing.T) {
	p := testPlanet(t, 8)
	params := DefaultParams()
	params.PlateCount = 20
	if _, err := Run(p, params, entropy.New(3)); err != nil {
		t.Fatal(err)
	}
	for _, pl := range p.Plates {
		if pl.Oceanic && (pl.Elevation < params.OceanicMin || pl.Elevation > params.OceanicMax) {
			t.Fatalf("oceanic plate %d elevation %f out of range", pl.ID, pl.Elevation)
		}
		if !pl.Oceanic && (pl.Elevation < params.ContinentMin || pl.Elevation > params.ContinentMax) {
			t.Fatalf("continental plate %d elevation %f out of range", pl.ID, pl.Elevation)
		}
		if math.Abs(pl.DriftRate) > params.MaxDriftRate || math.Abs(pl.SpinRate) > params.MaxDriftRate {
			t.Fatalf("plate %d rates exceed limit", pl.ID)
		}
	}
}

func TestOceanicRateExtremes(t *testing.T) {
	for _, rate := range []float64{0, 1} {
		p := testPlanet(t, 6)
		params := DefaultParams()
		params.PlateCount = 8
		params.OceanicRate = rate
		res, err := Run(p, params, entropy.New(9))
		if err != nil {
			t.Fatal(err)
		}
		want := 0
		if rate == 1 {
			want = res.Plates
		}
		if res.Oceanic != want {
			t.Fatalf("oceanic rate %v: expected %d oceanic plates, got %d", rate, want, res.Oceanic)
		}
	}
}

func TestSinglePlateHasNoBoundary(t *testing.T) {
	p := geodesic.Dodecahedron()
	params := DefaultParams()
	params.PlateCount = 1
	params.OceanicRate = 0
	res, err := Run(p, params, entropy.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.BoundaryCorners) != 0 {
		t.Fatalf("expected no boundary corners, got %d", len(res.BoundaryCorners))
	}
	for i := range p.Corners {
		c := &p.Corners[i]
		if c.BetweenPlates || c.Pressure != 0 || c.Shear != 0 {
			t.Fatalf("corner %d carries boundary stress on a single plate", i)
		}
	}
}

func TestRootDistances(t *testing.T) {
	p := testPlanet(t, 8)
	params := DefaultParams()
	params.PlateCount = 10
	if _, err := Run(p, params, entropy.New(11)); err != nil {
		t.Fatal(err)
	}
	for _, pl := range p.Plates {
		if d := p.Corners[pl.Root].DistanceToPlateRoot; d != 0 {
			t.Fatalf("plate %d root corner distance %f, expected 0", pl.ID, d)
		}
	}
	for i := range p.Corners {
		c := &p.Corners[i]
		if math.IsInf(c.DistanceToPlateRoot, 0) || c.DistanceToPlateRoot < 0 {
			t.Fatalf("corner %d has distance %f", i, c.DistanceToPlateRoot)
		}
		if c.BetweenPlates {
			continue
		}
		// A path along borders is never shorter than the straight chord.
		root := p.Plates[p.Tiles[c.Tiles[0]].Plate].RootPos
		if chord := c.Position.Sub(root).Len(); c.DistanceToPlateRoot < chord-1e-9 {
			t.Fatalf("corner %d distance %f below chord %f", i, c.DistanceToPlateRoot, chord)
		}
	}
}

func TestBoundaryConsistency(t *testing.T) {
	p := testPlanet(t, 8)
	params := DefaultParams()
	params.PlateCount = 15
	res, err := Run(p, params, entropy.New(21))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.BoundaryCorners) == 0 {
		t.Fatal("expected boundary corners with several plates")
	}
	for i := range p.Borders {
		b := &p.Borders[i]
		differ := p.Tiles[b.Tiles[0]].Plate != p.Tiles[b.Tiles[1]].Plate
		if differ != b.BetweenPlates {
			t.Fatalf("border %d between-plates flag %v, tiles differ %v", i, b.BetweenPlates, differ)
		}
	}
	for _, ci := range res.BoundaryCorners {
		c := &p.Corners[ci]
		if c.Pressure <= -1 || c.Pressure >= 1 || c.Shear < 0 || c.Shear >= 1 {
			t.Fatalf("corner %d stress out of range: pressure %f shear %f", ci, c.Pressure, c.Shear)
		}
		if c.DistanceToPlateBoundary != 0 {
			t.Fatalf("boundary corner %d has boundary distance %f", ci, c.DistanceToPlateBoundary)
		}
	}
}

func TestStressSign(t *testing.T) {
	p := &globe.Planet{Plates: []globe.Plate{
		{ID: 0, DriftAxis: globe.Vec3{0, 1, 0}, DriftRate: 0.1, RootPos: globe.Vec3{0, 1, 0}},
		{ID: 1, DriftAxis: globe.Vec3{0, 1, 0}, RootPos: globe.Vec3{0, -1, 0}},
	}}
	pos := globe.Vec3{0, 0, 1}
	along := globe.Vec3{0, 1, 0}

	// Plate 0 sits on the -X side and moves along +X into plate 1.
	pressure, shear := stress(p, 0, 1, pos, along, globe.Vec3{-1, 0, 0}, 0.03)
	if pressure <= 0 {
		t.Fatalf("converging plates: expected positive pressure, got %f", pressure)
	}
	if math.Abs(shear) > 1e-12 {
		t.Fatalf("head-on motion: expected no shear, got %f", shear)
	}

	// Swapping sides turns the same motion into divergence.
	pressure, _ = stress(p, 0, 1, pos, along, globe.Vec3{1, 0, 0}, 0.03)
	if pressure >= 0 {
		t.Fatalf("diverging plates: expected negative pressure, got %f", pressure)
	}

	// Motion parallel to the boundary is pure shear.
	p.Plates[0].DriftAxis = globe.Vec3{1, 0, 0}
	pressure, shear = stress(p, 0, 1, pos, along, globe.Vec3{-1, 0, 0}, 0.03)
	if math.Abs(pressure) > 1e-12 || shear <= 0 {
		t.Fatalf("sliding plates: expected shear only, got pressure %f shear %f", pressure, shear)
	}
}

func TestSquashBounds(t *testing.T) {
	for _, x := range []float64{-1e9, -1, 0, 1, 1e9} {
		v := squash(x, 0.03)
		if v < -1 || v > 1 || math.IsNaN(v) {
			t.Fatalf("squash(%v) = %v", x, v)
		}
	}
	if squash(0, 0.03) != 0 {
		t.Fatal("squash(0) should be 0")
	}
}

func TestRunDeterministic(t *testing.T) {
	params := DefaultParams()
	params.PlateCount = 14
	a, b := testPlanet(t, 7), testPlanet(t, 7)
	if _, err := Run(a, params, entropy.New(77)); err != nil {
		t.Fatal(err)
	}
	if _, err := Run(b, params, entropy.New(77)); err != nil {
		t.Fatal(err)
	}
	for i := range a.Tiles {
		if a.Tiles[i].Plate != b.Tiles[i].Plate {
			t.Fatalf("tile %d plate differs between identical runs", i)
		}
	}
	for i := range a.Corners {
		if a.Corners[i].Pressure != b.Corners[i].Pressure || a.Corners[i].DistanceToPlateRoot != b.Corners[i].DistanceToPlateRoot {
			t.Fatalf("corner %d differs between identical runs", i)
		}
	}
}

func TestRunRejectsZeroPlates(t *testing.T) {
	params := DefaultParams()
	params.PlateCount = 0
	if _, err := Run(geodesic.Dodecahedron(), params, entropy.New(1)); err == nil {
		t.Fatal("expected error for zero plates")
	}
}

func TestFrontierTakesLiveEntriesInOrder(t *testing.T) {
	f := newFrontier(8)
	for i := 0; i < 6; i++ {
		f.push(10+i, i)
	}
	want := []int{12, 13, 10, 15, 11, 14}
	picks := []int{2, 2, 0, 2, 0, 0}
	for k, pick := range picks {
		tile, plate := f.take(pick)
		if tile != want[k] || plate != tile-10 {
			t.Fatalf("take %d: got tile %d plate %d, want tile %d", k, tile, plate, want[k])
		}
	}
	if f.live != 0 {
		t.Fatalf("expected empty frontier, %d live", f.live)
	}
	f.push(20, 1)
	if tile, _ := f.take(0); tile != 20 {
		t.Fatalf("expected the late entry, got %d", tile)
	}
}
