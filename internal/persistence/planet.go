package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"

	"github.com/talgya/mini-planet/internal/globe"
	"github.com/talgya/mini-planet/internal/hydrology"
)

type tileRow struct {
	ID             int     `db:"id"`
	X              float64 `db:"x"`
	Y              float64 `db:"y"`
	Z              float64 `db:"z"`
	Area           float64 `db:"area"`
	Elevation      float64 `db:"elevation"`
	Temperature    float64 `db:"temperature"`
	Moisture       float64 `db:"moisture"`
	Plate          int     `db:"plate"`
	Slope          float64 `db:"slope"`
	Noise          float64 `db:"noise"`
	Biome          int     `db:"biome"`
	Resources      string  `db:"resources_json"`
	Calories       float64 `db:"calories"`
	UpstreamWeight float64 `db:"upstream_weight"`
	Drain          int     `db:"drain"`
	Inflow         float64 `db:"inflow"`
	Outflow        float64 `db:"outflow"`
	River          bool    `db:"river"`
	LakeDepth      float64 `db:"lake_depth"`
	Watershed      int     `db:"watershed"`
	Body           int     `db:"body"`
	Flagged        bool    `db:"flagged"`
}

type cornerRow struct {
	ID            int     `db:"id"`
	X             float64 `db:"x"`
	Y             float64 `db:"y"`
	Z             float64 `db:"z"`
	Area          float64 `db:"area"`
	Elevation     float64 `db:"elevation"`
	BetweenPlates bool    `db:"between_plates"`
	Pressure      float64 `db:"pressure"`
	Shear         float64 `db:"shear"`
	DistBoundary  float64 `db:"dist_boundary"`
	DistRoot      float64 `db:"dist_root"`
	AirX          float64 `db:"air_x"`
	AirY          float64 `db:"air_y"`
	AirZ          float64 `db:"air_z"`
	AirSpeed      float64 `db:"air_speed"`
	Outflows      string  `db:"outflows_json"`
	Heat          float64 `db:"heat"`
	Precipitation float64 `db:"precipitation"`
	Temperature   float64 `db:"temperature"`
	Moisture      float64 `db:"moisture"`
}

type borderRow struct {
	ID            int     `db:"id"`
	BetweenPlates bool    `db:"between_plates"`
	Length        float64 `db:"length"`
}

// linkRow is one slot of an element's adjacency lists. Absent entries are None.
type linkRow struct {
	Kind   string `db:"kind"`
	Owner  int    `db:"owner"`
	Slot   int    `db:"slot"`
	Tile   int    `db:"tile"`
	Corner int    `db:"corner"`
	Border int    `db:"border"`
}

type plateRow struct {
	ID              int     `db:"id"`
	Color           int64   `db:"color"`
	DriftX          float64 `db:"drift_x"`
	DriftY          float64 `db:"drift_y"`
	DriftZ          float64 `db:"drift_z"`
	DriftRate       float64 `db:"drift_rate"`
	SpinRate        float64 `db:"spin_rate"`
	Elevation       float64 `db:"elevation"`
	Oceanic         bool    `db:"oceanic"`
	Root            int     `db:"root"`
	RootX           float64 `db:"root_x"`
	RootY           float64 `db:"root_y"`
	RootZ           float64 `db:"root_z"`
	Tiles           string  `db:"tiles_json"`
	BoundaryCorners string  `db:"boundary_corners_json"`
	BoundaryBorders string  `db:"boundary_borders_json"`
}

type lakeRow struct {
	ID      int     `db:"id"`
	Level   float64 `db:"level"`
	Outlet  int     `db:"outlet"`
	Escape  int     `db:"escape_tile"`
	Filled  bool    `db:"filled"`
	Tiles   string  `db:"tiles_json"`
	Shore   string  `db:"shore_json"`
	Sources string  `db:"sources_json"`
}

type watershedRow struct {
	ID        int    `db:"id"`
	Outlet    int    `db:"outlet"`
	Color     int    `db:"color"`
	Tiles     string `db:"tiles_json"`
	Neighbors string `db:"neighbors_json"`
}

type bodyRow struct {
	ID    int    `db:"id"`
	Land  bool   `db:"land"`
	Tiles string `db:"tiles_json"`
}

// insertQuery builds a named INSERT from the column list.
func insertQuery(table string, cols ...string) string {
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(named, ", "))
}

var (
	tileInsert = insertQuery("tiles", "id", "x", "y", "z", "area", "elevation",
		"temperature", "moisture", "plate", "slope", "noise", "biome", "resources_json",
		"calories", "upstream_weight", "drain", "inflow", "outflow", "river",
		"lake_depth", "watershed", "body", "flagged")
	cornerInsert = insertQuery("corners", "id", "x", "y", "z", "area", "elevation",
		"between_plates", "pressure", "shear", "dist_boundary", "dist_root",
		"air_x", "air_y", "air_z", "air_speed", "outflows_json", "heat",
		"precipitation", "temperature", "moisture")
	borderInsert = insertQuery("borders", "id", "between_plates", "length")
	linkInsert   = insertQuery("links", "kind", "owner", "slot", "tile", "corner", "border")
	plateInsert  = insertQuery("plates", "id", "color", "drift_x", "drift_y", "drift_z",
		"drift_rate", "spin_rate", "elevation", "oceanic", "root", "root_x", "root_y",
		"root_z", "tiles_json", "boundary_corners_json", "boundary_borders_json")
	lakeInsert = insertQuery("lakes", "id", "level", "outlet", "escape_tile", "filled",
		"tiles_json", "shore_json", "sources_json")
	watershedInsert = insertQuery("watersheds", "id", "outlet", "color", "tiles_json", "neighbors_json")
	bodyInsert      = insertQuery("bodies", "id", "land", "tiles_json")
)

func toJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func fromJSON[T any](s string, dst *T) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

// insertAll prepares one named statement and executes it for every row.
func insertAll[T any](tx *sqlx.Tx, query string, rows []T) error {
	stmt, err := tx.PrepareNamed(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range rows {
		if _, err := stmt.Exec(rows[i]); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// at returns list[k], or None past the end.
func at(list []int, k int) int {
	if k < len(list) {
		return list[k]
	}
	return globe.None
}

func linkRows(p *globe.Planet) []linkRow {
	var rows []linkRow
	for i := range p.Tiles {
		t := &p.Tiles[i]
		for k := range t.Neighbors {
			rows = append(rows, linkRow{"tile", i, k, t.Neighbors[k], at(t.Corners, k), at(t.Borders, k)})
		}
	}
	for i := range p.Corners {
		c := &p.Corners[i]
		for k := range c.Tiles {
			rows = append(rows, linkRow{"corner", i, k, c.Tiles[k], at(c.Corners, k), at(c.Borders, k)})
		}
	}
	for i := range p.Borders {
		b := &p.Borders[i]
		n := max(len(b.Tiles), len(b.Corners), len(b.Borders))
		for k := 0; k < n; k++ {
			rows = append(rows, linkRow{"border", i, k, at(b.Tiles, k), at(b.Corners, k), at(b.Borders, k)})
		}
	}
	return rows
}

// SavePlanet writes the whole planet to the database (full replace).
func (db *DB) SavePlanet(p *globe.Planet) error {
	slog.Info("saving planet", "tiles", humanize.Comma(int64(len(p.Tiles))),
		"corners", humanize.Comma(int64(len(p.Corners))), "plates", len(p.Plates))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"tiles", "corners", "borders", "links", "plates", "lakes", "watersheds", "bodies"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	tiles := make([]tileRow, len(p.Tiles))
	for i := range p.Tiles {
		t := &p.Tiles[i]
		tiles[i] = tileRow{
			ID: i, X: t.Position[0], Y: t.Position[1], Z: t.Position[2],
			Area: t.Area, Elevation: t.Elevation, Temperature: t.Temperature,
			Moisture: t.Moisture, Plate: t.Plate, Slope: t.Slope, Noise: t.Noise,
			Biome: int(t.Biome), Resources: toJSON(t.Resources), Calories: t.Calories,
			UpstreamWeight: t.UpstreamWeight, Drain: t.Drain, Inflow: t.Inflow,
			Outflow: t.Outflow, River: t.River, LakeDepth: t.LakeDepth,
			Watershed: t.Watershed, Body: t.Body, Flagged: t.Flagged,
		}
	}
	if err := insertAll(tx, tileInsert, tiles); err != nil {
		return fmt.Errorf("insert tiles: %w", err)
	}

	corners := make([]cornerRow, len(p.Corners))
	for i := range p.Corners {
		c := &p.Corners[i]
		corners[i] = cornerRow{
			ID: i, X: c.Position[0], Y: c.Position[1], Z: c.Position[2],
			Area: c.Area, Elevation: c.Elevation, BetweenPlates: c.BetweenPlates,
			Pressure: c.Pressure, Shear: c.Shear,
			DistBoundary: c.DistanceToPlateBoundary, DistRoot: c.DistanceToPlateRoot,
			AirX: c.AirCurrent[0], AirY: c.AirCurrent[1], AirZ: c.AirCurrent[2],
			AirSpeed: c.AirCurrentSpeed, Outflows: toJSON(c.AirCurrentOutflows),
			Heat: c.Heat, Precipitation: c.Precipitation,
			Temperature: c.Temperature, Moisture: c.Moisture,
		}
	}
	if err := insertAll(tx, cornerInsert, corners); err != nil {
		return fmt.Errorf("insert corners: %w", err)
	}

	borders := make([]borderRow, len(p.Borders))
	for i := range p.Borders {
		b := &p.Borders[i]
		borders[i] = borderRow{ID: i, BetweenPlates: b.BetweenPlates, Length: b.Length}
	}
	if err := insertAll(tx, borderInsert, borders); err != nil {
		return fmt.Errorf("insert borders: %w", err)
	}
	if err := insertAll(tx, linkInsert, linkRows(p)); err != nil {
		return fmt.Errorf("insert links: %w", err)
	}

	plates := make([]plateRow, len(p.Plates))
	for i := range p.Plates {
		pl := &p.Plates[i]
		plates[i] = plateRow{
			ID: i, Color: int64(pl.Color),
			DriftX: pl.DriftAxis[0], DriftY: pl.DriftAxis[1], DriftZ: pl.DriftAxis[2],
			DriftRate: pl.DriftRate, SpinRate: pl.SpinRate, Elevation: pl.Elevation,
			Oceanic: pl.Oceanic, Root: pl.Root,
			RootX: pl.RootPos[0], RootY: pl.RootPos[1], RootZ: pl.RootPos[2],
			Tiles: toJSON(pl.Tiles), BoundaryCorners: toJSON(pl.BoundaryCorners),
			BoundaryBorders: toJSON(pl.BoundaryBorders),
		}
	}
	if err := insertAll(tx, plateInsert, plates); err != nil {
		return fmt.Errorf("insert plates: %w", err)
	}

	lakes := make([]lakeRow, len(p.Lakes))
	for i := range p.Lakes {
		l := &p.Lakes[i]
		lakes[i] = lakeRow{
			ID: i, Level: l.Level, Outlet: l.Outlet, Escape: l.Escape, Filled: l.Filled,
			Tiles: toJSON(l.Tiles), Shore: toJSON(l.Shore), Sources: toJSON(l.Sources),
		}
	}
	if err := insertAll(tx, lakeInsert, lakes); err != nil {
		return fmt.Errorf("insert lakes: %w", err)
	}

	sheds := make([]watershedRow, len(p.Watersheds))
	for i := range p.Watersheds {
		w := &p.Watersheds[i]
		sheds[i] = watershedRow{ID: i, Outlet: w.Outlet, Color: w.Color,
			Tiles: toJSON(w.Tiles), Neighbors: toJSON(w.Neighbors)}
	}
	if err := insertAll(tx, watershedInsert, sheds); err != nil {
		return fmt.Errorf("insert watersheds: %w", err)
	}

	bodies := make([]bodyRow, len(p.Bodies))
	for i := range p.Bodies {
		b := &p.Bodies[i]
		bodies[i] = bodyRow{ID: i, Land: b.Land, Tiles: toJSON(b.Tiles)}
	}
	if err := insertAll(tx, bodyInsert, bodies); err != nil {
		return fmt.Errorf("insert bodies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("planet saved")
	return nil
}

// dense checks that row IDs run 0..n-1 in order.
func dense(kind string, ids []int) error {
	for i, id := range ids {
		if id != i {
			return fmt.Errorf("%s ids not dense: row %d has id %d", kind, i, id)
		}
	}
	return nil
}

// LoadPlanet reads a planet saved by SavePlanet. The adjacency lists come
// from the links table; Sources, Upstream, and Downstream are rebuilt from
// the stored drains. The result is validated before it is returned.
func (db *DB) LoadPlanet() (*globe.Planet, error) {
	var (
		tiles   []tileRow
		corners []cornerRow
		borders []borderRow
		links   []linkRow
		plates  []plateRow
		lakes   []lakeRow
		sheds   []watershedRow
		bodies  []bodyRow
	)
	selects := []struct {
		dst   any
		query string
	}{
		{&tiles, "SELECT * FROM tiles ORDER BY id"},
		{&corners, "SELECT * FROM corners ORDER BY id"},
		{&borders, "SELECT * FROM borders ORDER BY id"},
		{&links, "SELECT * FROM links ORDER BY kind, owner, slot"},
		{&plates, "SELECT * FROM plates ORDER BY id"},
		{&lakes, "SELECT * FROM lakes ORDER BY id"},
		{&sheds, "SELECT * FROM watersheds ORDER BY id"},
		{&bodies, "SELECT * FROM bodies ORDER BY id"},
	}
	for _, s := range selects {
		if err := db.conn.Select(s.dst, s.query); err != nil {
			return nil, fmt.Errorf("load planet: %w", err)
		}
	}
	if len(tiles) == 0 {
		return nil, fmt.Errorf("load planet: no tiles stored")
	}

	p := globe.NewPlanet(len(tiles), len(corners), len(borders))

	ids := make([]int, len(tiles))
	for i, r := range tiles {
		ids[i] = r.ID
		t := &p.Tiles[i]
		t.Position = globe.Vec3{r.X, r.Y, r.Z}
		t.Area = r.Area
		t.Elevation = r.Elevation
		t.Temperature = r.Temperature
		t.Moisture = r.Moisture
		t.Plate = r.Plate
		t.Slope = r.Slope
		t.Noise = r.Noise
		t.Biome = globe.Biome(r.Biome)
		if err := fromJSON(r.Resources, &t.Resources); err != nil {
			return nil, fmt.Errorf("tile %d resources: %w", r.ID, err)
		}
		t.Calories = r.Calories
		t.UpstreamWeight = r.UpstreamWeight
		t.Drain = r.Drain
		t.Inflow = r.Inflow
		t.Outflow = r.Outflow
		t.River = r.River
		t.LakeDepth = r.LakeDepth
		t.Watershed = r.Watershed
		t.Body = r.Body
		t.Flagged = r.Flagged
	}
	if err := dense("tile", ids); err != nil {
		return nil, err
	}

	ids = ids[:0]
	for i, r := range corners {
		ids = append(ids, r.ID)
		c := &p.Corners[i]
		c.Position = globe.Vec3{r.X, r.Y, r.Z}
		c.Area = r.Area
		c.Elevation = r.Elevation
		c.BetweenPlates = r.BetweenPlates
		c.Pressure = r.Pressure
		c.Shear = r.Shear
		c.DistanceToPlateBoundary = r.DistBoundary
		c.DistanceToPlateRoot = r.DistRoot
		c.AirCurrent = globe.Vec3{r.AirX, r.AirY, r.AirZ}
		c.AirCurrentSpeed = r.AirSpeed
		if err := fromJSON(r.Outflows, &c.AirCurrentOutflows); err != nil {
			return nil, fmt.Errorf("corner %d outflows: %w", r.ID, err)
		}
		c.Heat = r.Heat
		c.Precipitation = r.Precipitation
		c.Temperature = r.Temperature
		c.Moisture = r.Moisture
	}
	if err := dense("corner", ids); err != nil {
		return nil, err
	}

	ids = ids[:0]
	for i, r := range borders {
		ids = append(ids, r.ID)
		p.Borders[i].BetweenPlates = r.BetweenPlates
		p.Borders[i].Length = r.Length
	}
	if err := dense("border", ids); err != nil {
		return nil, err
	}

	if err := applyLinks(p, links); err != nil {
		return nil, err
	}

	p.Plates = make([]globe.Plate, len(plates))
	for i, r := range plates {
		pl := globe.Plate{
			ID: r.ID, Color: uint32(r.Color),
			DriftAxis: globe.Vec3{r.DriftX, r.DriftY, r.DriftZ},
			DriftRate: r.DriftRate, SpinRate: r.SpinRate, Elevation: r.Elevation,
			Oceanic: r.Oceanic, Root: r.Root, RootPos: globe.Vec3{r.RootX, r.RootY, r.RootZ},
		}
		if err := fromJSON(r.Tiles, &pl.Tiles); err != nil {
			return nil, fmt.Errorf("plate %d tiles: %w", r.ID, err)
		}
		if err := fromJSON(r.BoundaryCorners, &pl.BoundaryCorners); err != nil {
			return nil, fmt.Errorf("plate %d corners: %w", r.ID, err)
		}
		if err := fromJSON(r.BoundaryBorders, &pl.BoundaryBorders); err != nil {
			return nil, fmt.Errorf("plate %d borders: %w", r.ID, err)
		}
		p.Plates[i] = pl
	}

	p.Lakes = make([]globe.Lake, len(lakes))
	for i, r := range lakes {
		l := globe.Lake{ID: r.ID, Level: r.Level, Outlet: r.Outlet, Escape: r.Escape, Filled: r.Filled}
		if err := fromJSON(r.Tiles, &l.Tiles); err != nil {
			return nil, fmt.Errorf("lake %d tiles: %w", r.ID, err)
		}
		if err := fromJSON(r.Shore, &l.Shore); err != nil {
			return nil, fmt.Errorf("lake %d shore: %w", r.ID, err)
		}
		if err := fromJSON(r.Sources, &l.Sources); err != nil {
			return nil, fmt.Errorf("lake %d sources: %w", r.ID, err)
		}
		p.Lakes[i] = l
	}

	p.Watersheds = make([]globe.Watershed, len(sheds))
	for i, r := range sheds {
		w := globe.Watershed{ID: r.ID, Outlet: r.Outlet, Color: r.Color}
		if err := fromJSON(r.Tiles, &w.Tiles); err != nil {
			return nil, fmt.Errorf("watershed %d tiles: %w", r.ID, err)
		}
		if err := fromJSON(r.Neighbors, &w.Neighbors); err != nil {
			return nil, fmt.Errorf("watershed %d neighbors: %w", r.ID, err)
		}
		p.Watersheds[i] = w
	}

	p.Bodies = make([]globe.Body, len(bodies))
	for i, r := range bodies {
		b := globe.Body{ID: r.ID, Land: r.Land}
		if err := fromJSON(r.Tiles, &b.Tiles); err != nil {
			return nil, fmt.Errorf("body %d tiles: %w", r.ID, err)
		}
		p.Bodies[i] = b
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate loaded planet: %w", err)
	}
	hydrology.RebuildSets(p)
	slog.Info("planet loaded", "tiles", humanize.Comma(int64(len(p.Tiles))), "plates", len(p.Plates))
	return p, nil
}

// applyLinks rebuilds adjacency lists. Rows arrive sorted by kind, owner, slot.
func applyLinks(p *globe.Planet, links []linkRow) error {
	push := func(dst *[]int, v int) {
		if v != globe.None {
			*dst = append(*dst, v)
		}
	}
	for _, l := range links {
		switch l.Kind {
		case "tile":
			if l.Owner < 0 || l.Owner >= len(p.Tiles) {
				return fmt.Errorf("link to missing tile %d", l.Owner)
			}
			t := &p.Tiles[l.Owner]
			push(&t.Neighbors, l.Tile)
			push(&t.Corners, l.Corner)
			push(&t.Borders, l.Border)
		case "corner":
			if l.Owner < 0 || l.Owner >= len(p.Corners) {
				return fmt.Errorf("link to missing corner %d", l.Owner)
			}
			c := &p.Corners[l.Owner]
			push(&c.Tiles, l.Tile)
			push(&c.Corners, l.Corner)
			push(&c.Borders, l.Border)
		case "border":
			if l.Owner < 0 || l.Owner >= len(p.Borders) {
				return fmt.Errorf("link to missing border %d", l.Owner)
			}
			b := &p.Borders[l.Owner]
			push(&b.Tiles, l.Tile)
			push(&b.Corners, l.Corner)
			push(&b.Borders, l.Border)
		default:
			return fmt.Errorf("unknown link kind %q", l.Kind)
		}
	}
	return nil
}
