package weather

import (
	"math"
	"testing"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/geodesic"
	"github.com/talgya/mini-planet/internal/globe"
)

// seaPlanet builds a mesh with land in the northern hemisphere and ocean in the south.
func seaPlanet(t *testing.T, n int) *globe.Planet {
	t.Helper()
	p, err := geodesic.Build(n, 0, 1)
	if err != nil {
		t.Fatalf("build mesh: %v", err)
	}
	for i := range p.Corners {
		p.Corners[i].Elevation = p.Corners[i].Position.Y() * 0.5
	}
	p.CornerElevationsToTiles()
	return p
}

func TestOutflowsSumToOneOrZero(t *testing.T) {
	p := seaPlanet(t, 10)
	Run(p, DefaultParams(), entropy.New(3))
	moving := 0
	for i := range p.Corners {
		c := &p.Corners[i]
		if len(c.AirCurrentOutflows) != 3 {
			t.Fatalf("corner %d has %d outflows", i, len(c.AirCurrentOutflows))
		}
		sum := 0.0
		for _, f := range c.AirCurrentOutflows {
			if f < 0 {
				t.Fatalf("corner %d has negative outflow %f", i, f)
			}
			sum += f
		}
		if sum != 0 && math.Abs(sum-1) > 1e-9 {
			t.Fatalf("corner %d outflows sum to %f", i, sum)
		}
		if sum > 0 {
			moving++
		}
	}
	if moving == 0 {
		t.Fatal("expected wind at some corners")
	}
}

func TestClimateValuesBounded(t *testing.T) {
	p := seaPlanet(t, 12)
	Run(p, DefaultParams(), entropy.New(8))
	for i := range p.Tiles {
		tl := &p.Tiles[i]
		if math.IsNaN(tl.Temperature) || tl.Temperature < 0 || tl.Temperature > 1 {
			t.Fatalf("tile %d temperature %f outside [0,1]", i, tl.Temperature)
		}
		if math.IsNaN(tl.Moisture) || tl.Moisture < 0 || tl.Moisture > 1 {
			t.Fatalf("tile %d moisture %f outside [0,1]", i, tl.Moisture)
		}
	}
	for i := range p.Corners {
		if c := &p.Corners[i]; c.Heat < 0 || c.Precipitation < 0 {
			t.Fatalf("corner %d has negative heat or precipitation", i)
		}
	}
}

func TestEquatorWarmerThanPoles(t *testing.T) {
	p := seaPlanet(t, 12)
	Run(p, DefaultParams(), entropy.New(4))
	var eq, pole float64
	var ne, np int
	for i := range p.Tiles {
		y := math.Abs(p.Tiles[i].Position.Y())
		switch {
		case y < 0.2:
			eq += p.Tiles[i].Temperature
			ne++
		case y > 0.9:
			pole += p.Tiles[i].Temperature
			np++
		}
	}
	if ne == 0 || np == 0 {
		t.Fatal("expected equatorial and polar tiles")
	}
	if eq/float64(ne) <= pole/float64(np) {
		t.Fatalf("equator mean %f not warmer than pole mean %f", eq/float64(ne), pole/float64(np))
	}
}

func TestNoMoistureWithoutEvaporation(t *testing.T) {
	p := seaPlanet(t, 8)
	params := DefaultParams()
	params.MoistureLevel = 0
	res := Run(p, params, entropy.New(2))
	if res.TotalMoisture != 0 {
		t.Fatalf("expected no injected moisture, got %f", res.TotalMoisture)
	}
	for i := range p.Tiles {
		if p.Tiles[i].Moisture != 0 {
			t.Fatalf("tile %d has moisture %f with evaporation off", i, p.Tiles[i].Moisture)
		}
	}
}

func TestWhorlLayout(t *testing.T) {
	params := DefaultParams()
	for seed := int64(0); seed < 20; seed++ {
		whorls := generateWhorls(params, entropy.New(seed))
		if len(whorls) < 4 {
			t.Fatalf("seed %d: expected at least 4 whorls, got %d", seed, len(whorls))
		}
		if whorls[0].Center.Y() <= 0 || whorls[len(whorls)-1].Center.Y() >= 0 {
			t.Fatalf("seed %d: expected polar whorls first and last", seed)
		}
		for i, w := range whorls {
			if math.Abs(w.Center.Len()-1) > 1e-9 {
				t.Fatalf("seed %d whorl %d center not unit length", seed, i)
			}
			if w.Strength == 0 || w.Radius <= 0 {
				t.Fatalf("seed %d whorl %d is degenerate", seed, i)
			}
		}
	}
}

func TestAdvectConservesQuantity(t *testing.T) {
	// Three corners in a ring, each passing everything to the next.
	r := newReservoir(3, 0)
	for i := 0; i < 3; i++ {
		r.area[i] = 1
		r.capacity[i] = 1
		r.rate[i] = 0.1
	}
	r.air[0] = 1
	neighbors := [][]int{{1, 2, 2}, {2, 0, 0}, {0, 1, 1}}
	outflows := [][]float64{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}}

	iter, total := r.advect(neighbors, outflows, 0.001, 10000)
	if total != 1 {
		t.Fatalf("expected injected total 1, got %f", total)
	}
	if iter == 0 || iter >= 10000 {
		t.Fatalf("expected advection to converge, took %d steps", iter)
	}
	sum := 0.0
	for i := 0; i < 3; i++ {
		sum += r.stored[i] + r.air[i]
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected stored plus in-flight to equal 1, got %f", sum)
	}
}

func TestRunDeterministic(t *testing.T) {
	a, b := seaPlanet(t, 8), seaPlanet(t, 8)
	Run(a, DefaultParams(), entropy.New(55))
	Run(b, DefaultParams(), entropy.New(55))
	for i := range a.Tiles {
		if a.Tiles[i].Temperature != b.Tiles[i].Temperature || a.Tiles[i].Moisture != b.Tiles[i].Moisture {
			t.Fatalf("tile %d climate differs between identical runs", i)
		}
	}
}

func meanLandMoisture(p *globe.Planet) float64 {
	sum, n := 0.0, 0
	for i := range p.Tiles {
		if p.Tiles[i].Elevation > 0 {
			sum += p.Tiles[i].Moisture
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func TestMoistureLevelRaisesLandMoisture(t *testing.T) {
	prev := -1.0
	for _, level := range []float64{0.25, 1, 4} {
		p := seaPlanet(t, 10)
		params := DefaultParams()
		params.MoistureLevel = level
		Run(p, params, entropy.New(4))
		mean := meanLandMoisture(p)
		if mean <= prev {
			t.Fatalf("level %v: mean land moisture %f not above %f", level, mean, prev)
		}
		prev = mean
	}
}

func TestMoistureSpansFullRange(t *testing.T) {
	p := seaPlanet(t, 12)
	Run(p, DefaultParams(), entropy.New(8))
	top := 0.0
	for i := range p.Corners {
		top = math.Max(top, p.Corners[i].Moisture)
	}
	if top != 1 {
		t.Fatalf("expected the wettest corners to saturate, max moisture %f", top)
	}
	if meanLandMoisture(p) <= 0 {
		t.Fatal("expected moisture to reach land")
	}
}

func TestSaturate(t *testing.T) {
	if saturate(0.4, 0) != 0 {
		t.Fatal("expected level 0 to give no moisture")
	}
	if got := saturate(0.4, 1); math.Abs(got-0.4) > 1e-12 {
		t.Fatalf("expected level 1 to keep base, got %f", got)
	}
	if saturate(1, 0.5) != 1 {
		t.Fatal("expected saturated base to stay saturated")
	}
	if a, b := saturate(0.3, 2), saturate(0.3, 3); !(a > 0.3 && b > a && b < 1) {
		t.Fatalf("expected higher levels to approach 1, got %f then %f", a, b)
	}
}
