package terrain

import (
	"math"
	"testing"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/geodesic"
	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/tectonics"
)

func plated(t *testing.T, n, plates int, oceanic float64, seed int64) (*globe.Planet, []int) {
	t.Helper()
	p, err := geodesic.Build(n, 0.2, seed)
	if err != nil {
		t.Fatalf("build mesh: %v", err)
	}
	tp := tectonics.DefaultParams()
	tp.PlateCount = plates
	tp.OceanicRate = oceanic
	res, err := tectonics.Run(p, tp, entropy.New(seed))
	if err != nil {
		t.Fatalf("tectonics: %v", err)
	}
	return p, res.BoundaryCorners
}

func TestElevationBounds(t *testing.T) {
	for _, reshape := range []bool{false, true} {
		p, boundary := plated(t, 12, 20, 0.6, 8)
		params := DefaultParams()
		params.Reshape = reshape
		res := Run(p, params, boundary)
		if res.Reached == 0 {
			t.Fatal("expected fronts to reach interior corners")
		}
		for i := range p.Corners {
			e := p.Corners[i].Elevation
			if e < -1 || e > 1 || math.IsNaN(e) {
				t.Fatalf("corner %d elevation %f outside [-1,1]", i, e)
			}
		}
		for i := range p.Tiles {
			e := p.Tiles[i].Elevation
			if e < -1 || e > 1 || math.IsNaN(e) {
				t.Fatalf("tile %d elevation %f outside [-1,1]", i, e)
			}
		}
	}
}

func TestNormalizationHitsExtremes(t *testing.T) {
	p, boundary := plated(t, 10, 16, 0.5, 13)
	params := DefaultParams()
	params.Reshape = false
	Run(p, params, boundary)
	lo, hi := 0.0, 0.0
	for i := range p.Corners {
		lo = math.Min(lo, p.Corners[i].Elevation)
		hi = math.Max(hi, p.Corners[i].Elevation)
	}
	if hi != 1 || lo != -1 {
		t.Fatalf("expected corner range [-1,1], got [%f,%f]", lo, hi)
	}
}

func TestSinglePlateKeepsBaseline(t *testing.T) {
	p := geodesic.Dodecahedron()
	tp := tectonics.DefaultParams()
	tp.PlateCount = 1
	tp.OceanicRate = 0
	tr, err := tectonics.Run(p, tp, entropy.New(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.BoundaryCorners) != 0 {
		t.Fatalf("expected no boundary corners, got %d", len(tr.BoundaryCorners))
	}
	base := p.Plates[0].Elevation
	Run(p, DefaultParams(), tr.BoundaryCorners)
	for i := range p.Tiles {
		if p.Tiles[i].Elevation < base {
			t.Fatalf("tile %d elevation %f below plate baseline %f", i, p.Tiles[i].Elevation, base)
		}
	}
	for i := range p.Corners {
		if p.Corners[i].DistanceToPlateBoundary != Unreached {
			t.Fatalf("corner %d should be unreached", i)
		}
	}
}

func TestReshapePreservesOrder(t *testing.T) {
	p := geodesic.Dodecahedron()
	src := entropy.New(5)
	for i := range p.Tiles {
		p.Tiles[i].Elevation = src.Range(-0.5, 1)
	}
	p.Tiles[3].Elevation = 0.4
	p.Tiles[7].Elevation = 0.4
	before := make([]float64, len(p.Tiles))
	for i := range p.Tiles {
		before[i] = p.Tiles[i].Elevation
	}

	Reshape(p, 3)

	top := 0.0
	for i := range p.Tiles {
		for j := range p.Tiles {
			a, b := before[i], before[j]
			if a <= 0 || b <= 0 {
				continue
			}
			if a < b && !(p.Tiles[i].Elevation < p.Tiles[j].Elevation) {
				t.Fatalf("tiles %d and %d changed order", i, j)
			}
		}
		if before[i] <= 0 && p.Tiles[i].Elevation != before[i] {
			t.Fatalf("water tile %d was reshaped", i)
		}
		if before[i] > 0 && p.Tiles[i].Elevation <= 0 {
			t.Fatalf("land tile %d sank to %f", i, p.Tiles[i].Elevation)
		}
		top = math.Max(top, p.Tiles[i].Elevation)
	}
	if p.Tiles[3].Elevation != p.Tiles[7].Elevation {
		t.Fatal("tied elevations should stay tied")
	}
	if top != 1 {
		t.Fatalf("highest land tile should map to 1, got %f", top)
	}
}

func TestFalloffEndpoints(t *testing.T) {
	const boundary, plate, pressure = 0.9, 0.2, 0.5
	for r := Regime(0); r < NumRegimes; r++ {
		if got := r.falloff(1, boundary, plate, pressure); math.Abs(got-plate) > 1e-12 {
			t.Fatalf("%s at t=1: expected plate elevation, got %f", r, got)
		}
		if got := r.falloff(0, boundary, plate, pressure); math.Abs(got-boundary) > 1e-12 {
			t.Fatalf("%s at t=0: expected boundary elevation, got %f", r, got)
		}
	}
}

func TestCollidingFlattensPastMidpoint(t *testing.T) {
	if got := Colliding.falloff(0.6, 1, 0.3, 0); got != 0.3 {
		t.Fatalf("expected plate elevation past t=0.5, got %f", got)
	}
	if got := Colliding.falloff(0.25, 1, 0.3, 0); got <= 0.3 || got >= 1 {
		t.Fatalf("expected elevation between plate and boundary, got %f", got)
	}
}

func TestClassify(t *testing.T) {
	params := DefaultParams()
	land := plateInfo{elevation: 0.3}
	sea := plateInfo{elevation: -0.5, oceanic: true}
	cases := []struct {
		pressure, shear float64
		near, far       plateInfo
		want            Regime
	}{
		{0.5, 0, land, land, Colliding},
		{0.5, 0, sea, sea, Colliding},
		{0.5, 0, sea, land, Subducting},
		{0.5, 0, land, sea, Superducting},
		{-0.5, 0, land, sea, Diverging},
		{0.1, 0.5, land, sea, Shearing},
		{0.1, 0.1, land, sea, Dormant},
	}
	for _, tc := range cases {
		got, _ := classify(params, tc.pressure, tc.shear, tc.near, tc.far)
		if got != tc.want {
			t.Fatalf("pressure %v shear %v: expected %s, got %s", tc.pressure, tc.shear, tc.want, got)
		}
	}
	if _, elev := classify(params, 0, 0, land, sea); math.Abs(elev-(-0.1)) > 1e-12 {
		t.Fatalf("dormant boundary should average plates, got %f", elev)
	}
}

func TestRunDeterministic(t *testing.T) {
	a, ba := plated(t, 8, 12, 0.6, 31)
	b, bb := plated(t, 8, 12, 0.6, 31)
	Run(a, DefaultParams(), ba)
	Run(b, DefaultParams(), bb)
	for i := range a.Tiles {
		if a.Tiles[i].Elevation != b.Tiles[i].Elevation {
			t.Fatalf("tile %d elevation differs between identical runs", i)
		}
	}
}
