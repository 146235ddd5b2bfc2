package biome

import (
	"math"
	"testing"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/geodesic"
	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/hydrology"
	"github.com/talgya/mini-planet/internal/tectonics"
	"github.com/talgya/mini-planet/internal/terrain"
	"github.com/talgya/mini-planet/internal/weather"
)

func generated(t *testing.T, seed int64) *globe.Planet {
	t.Helper()
	p, err := geodesic.Build(12, 0.3, seed)
	if err != nil {
		t.Fatalf("build mesh: %v", err)
	}
	src := entropy.New(seed)
	tp := tectonics.DefaultParams()
	tp.PlateCount = 16
	tp.OceanicRate = 0.5
	tr, err := tectonics.Run(p, tp, src)
	if err != nil {
		t.Fatalf("tectonics: %v", err)
	}
	terrain.Run(p, terrain.DefaultParams(), tr.BoundaryCorners)
	weather.Run(p, weather.DefaultParams(), src)
	hydrology.Run(p, hydrology.DefaultParams(), seed)
	return p
}

func TestRareResourcesNormalized(t *testing.T) {
	p := generated(t, 4)
	Run(p, DefaultParams())
	for _, res := range globe.RareResources {
		ones := 0
		for i := range p.Tiles {
			v := p.Tiles[i].Resources[res]
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%s on tile %d is %f", res, i, v)
			}
			if v == 1 {
				ones++
			}
		}
		if ones == 0 {
			t.Fatalf("%s: expected at least one tile at 1", res)
		}
	}
}

func TestPercentile(t *testing.T) {
	cases := []struct {
		v, cut, top, want float64
	}{
		{1, 0.5, 1, 1},
		{2, 0.5, 1, 1},
		{0.4, 0.5, 1, 0},
		{0.75, 0.5, 1, 0.5},
		{0.5, 0.5, 1, 0},
		{0, 0, 0, 0},
	}
	for _, tc := range cases {
		if got := percentile(tc.v, tc.cut, tc.top); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("percentile(%v, %v, %v) = %v, expected %v", tc.v, tc.cut, tc.top, got, tc.want)
		}
	}
}

func TestWaterAndLandBiomes(t *testing.T) {
	p := generated(t, 6)
	res := Run(p, DefaultParams())
	total := 0
	for _, c := range res.Counts {
		total += c
	}
	if total != len(p.Tiles) {
		t.Fatalf("biome counts sum to %d, expected %d", total, len(p.Tiles))
	}
	for i := range p.Tiles {
		tile := &p.Tiles[i]
		water := tile.Biome == globe.BiomeOcean || tile.Biome == globe.BiomeSeaIce
		if water == tile.IsLand() {
			t.Fatalf("tile %d at elevation %f classified %s", i, tile.Elevation, tile.Biome)
		}
		if tile.Noise < 0 || tile.Noise > 1 {
			t.Fatalf("tile %d noise %f outside [0,1]", i, tile.Noise)
		}
		for _, r := range tile.Resources {
			if r < 0 || math.IsNaN(r) {
				t.Fatalf("tile %d has invalid resource %f", i, r)
			}
		}
	}
}

func TestClassifyDecisions(t *testing.T) {
	params := DefaultParams()
	tile := func(elev, temp, moist float64) *globe.Tile {
		return &globe.Tile{Position: globe.Vec3{1, 0, 0}, Elevation: elev, Temperature: temp, Moisture: moist, Noise: 0.5}
	}
	cases := []struct {
		t    *globe.Tile
		want globe.Biome
	}{
		{tile(-0.3, 0.6, 0.5), globe.BiomeOcean},
		{tile(-0.3, 0.05, 0.5), globe.BiomeSeaIce},
		{tile(0.2, 0.03, 0.5), globe.BiomeGlacier},
		{tile(0.2, 0.2, 0.3), globe.BiomeTundra},
		{tile(0.2, 0.35, 0.6), globe.BiomeTaiga},
		{tile(0.2, 0.6, 0.05), globe.BiomeDesert},
		{tile(0.2, 0.6, 0.9), globe.BiomeTemperateRainforest},
		{tile(0.2, 0.6, 0.55), globe.BiomeTemperateDeciduousForest},
		{tile(0.2, 0.9, 0.9), globe.BiomeTropicalRainforest},
		{tile(0.2, 0.9, 0.5), globe.BiomeTropicalSeasonalForest},
	}
	for _, tc := range cases {
		if got := classify(tc.t, 1, params); got != tc.want {
			t.Fatalf("elev %v temp %v moist %v: expected %s, got %s",
				tc.t.Elevation, tc.t.Temperature, tc.t.Moisture, tc.want, got)
		}
	}

	lake := tile(0.2, 0.6, 0.5)
	lake.LakeDepth = 0.05
	if got := classify(lake, 1, params); got != globe.BiomeLake {
		t.Fatalf("filled basin: expected lake, got %s", got)
	}
}

func TestUpstreamWeightAccumulates(t *testing.T) {
	p := generated(t, 8)
	Run(p, DefaultParams())
	for i := range p.Tiles {
		tile := &p.Tiles[i]
		if tile.UpstreamWeight < 0 {
			t.Fatalf("tile %d has negative upstream weight", i)
		}
		if len(tile.Upstream) == 0 && tile.UpstreamWeight != 0 {
			t.Fatalf("tile %d has no upstream but weight %f", i, tile.UpstreamWeight)
		}
		// A drain target collects at least what its source collects.
		if d := tile.Drain; d != globe.None && p.Tiles[d].IsLand() && p.Tiles[d].UpstreamWeight < tile.UpstreamWeight {
			t.Fatalf("tile %d weight %f exceeds its drain's %f", i, tile.UpstreamWeight, p.Tiles[d].UpstreamWeight)
		}
	}
}

func TestPhysicalUnits(t *testing.T) {
	cold := &globe.Tile{Temperature: 0, Moisture: 0}
	hot := &globe.Tile{Temperature: 1, Moisture: 1}
	if Celsius(cold) != MinCelsius || Celsius(hot) != MaxCelsius {
		t.Fatalf("unexpected temperature range %f..%f", Celsius(cold), Celsius(hot))
	}
	if PrecipitationMM(cold) != 0 || PrecipitationMM(hot) != MaxPrecipitationMM {
		t.Fatalf("unexpected precipitation range %f..%f", PrecipitationMM(cold), PrecipitationMM(hot))
	}
}
