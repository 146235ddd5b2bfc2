package persistence

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/world"
)

func generated(t *testing.T) *globe.Planet {
	t.Helper()
	cfg := world.SmallTestConfig()
	cfg.Subdivisions = 4
	cfg.Plates = 5
	p, _, err := world.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return p
}

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "planet.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := generated(t)
	db := openTemp(t)
	if err := db.SavePlanet(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	q, err := db.LoadPlanet()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(q.Tiles) != len(p.Tiles) || len(q.Corners) != len(p.Corners) || len(q.Borders) != len(p.Borders) {
		t.Fatalf("arena sizes differ: %v vs %v", q, p)
	}
	for i := range p.Tiles {
		a, b := &p.Tiles[i], &q.Tiles[i]
		if a.Position != b.Position || a.Elevation != b.Elevation || a.Drain != b.Drain ||
			a.Biome != b.Biome || a.River != b.River || a.Resources != b.Resources ||
			a.Watershed != b.Watershed || a.Moisture != b.Moisture {
			t.Fatalf("tile %d fields differ after round trip", i)
		}
		if !sameInts(a.Neighbors, b.Neighbors) || !sameInts(a.Corners, b.Corners) || !sameInts(a.Borders, b.Borders) {
			t.Fatalf("tile %d links differ after round trip", i)
		}
		if !sameInts(a.Upstream, b.Upstream) || !sameInts(a.Downstream, b.Downstream) || !sameInts(a.Sources, b.Sources) {
			t.Fatalf("tile %d hydrology sets not rebuilt: up %v vs %v", i, a.Upstream, b.Upstream)
		}
	}
	for i := range p.Corners {
		a, b := &p.Corners[i], &q.Corners[i]
		if a.Pressure != b.Pressure || a.AirCurrent != b.AirCurrent ||
			!reflect.DeepEqual(a.AirCurrentOutflows, b.AirCurrentOutflows) ||
			!sameInts(a.Tiles, b.Tiles) || !sameInts(a.Corners, b.Corners) {
			t.Fatalf("corner %d differs after round trip", i)
		}
	}
	for i := range p.Borders {
		if !sameInts(p.Borders[i].Borders, q.Borders[i].Borders) || p.Borders[i].Length != q.Borders[i].Length {
			t.Fatalf("border %d differs after round trip", i)
		}
	}
	if len(q.Plates) != len(p.Plates) || len(q.Lakes) != len(p.Lakes) || len(q.Watersheds) != len(p.Watersheds) {
		t.Fatalf("record counts differ")
	}
	for i := range p.Plates {
		if p.Plates[i].RootPos != q.Plates[i].RootPos || !sameInts(p.Plates[i].Tiles, q.Plates[i].Tiles) {
			t.Fatalf("plate %d differs after round trip", i)
		}
	}
}

func TestSaveReplaces(t *testing.T) {
	db := openTemp(t)
	if err := db.SavePlanet(generated(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	small := world.SmallTestConfig()
	small.Subdivisions = 2
	small.Plates = 3
	p, _, err := world.Generate(small)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := db.SavePlanet(p); err != nil {
		t.Fatalf("second save: %v", err)
	}
	q, err := db.LoadPlanet()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(q.Tiles) != 42 {
		t.Fatalf("tiles = %d, want 42", len(q.Tiles))
	}
}

func TestLoadEmpty(t *testing.T) {
	if _, err := openTemp(t).LoadPlanet(); err == nil {
		t.Fatalf("loading an empty database should fail")
	}
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	if err := db.SaveMeta("seed", "42"); err != nil {
		t.Fatalf("save meta: %v", err)
	}
	if err := db.SaveMeta("seed", "43"); err != nil {
		t.Fatalf("overwrite meta: %v", err)
	}
	v, err := db.GetMeta("seed")
	if err != nil || v != "43" {
		t.Fatalf("GetMeta = %q, %v", v, err)
	}
	if _, err := db.GetMeta("missing"); err == nil {
		t.Fatalf("missing key should error")
	}
	all, err := db.AllMeta()
	if err != nil || len(all) != 1 || all["seed"] != "43" {
		t.Fatalf("AllMeta = %v, %v", all, err)
	}
}

func TestExportImport(t *testing.T) {
	p := generated(t)
	var buf bytes.Buffer
	if err := ExportJSON(&buf, p, map[string]string{"seed": "42"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	q, meta, err := ImportJSON(&buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if meta["seed"] != "42" {
		t.Fatalf("meta = %v", meta)
	}
	for i := range p.Tiles {
		if p.Tiles[i].Elevation != q.Tiles[i].Elevation || !sameInts(p.Tiles[i].Upstream, q.Tiles[i].Upstream) {
			t.Fatalf("tile %d differs after export", i)
		}
	}
}
