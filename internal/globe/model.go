// Package globe holds the planet arena: tiles, corners, and borders of the
// spherical dual mesh plus every per-element field the generation stages fill in.
// All relationships are dense integer indices; an index equals the element's ID.
package globe

import "fmt"

// None marks an absent index reference (no drain, no lake, no plate).
const None = -1

// Tile is one polygonal cell of the sphere (5-7 sides).
type Tile struct {
	ID       int  `json:"id"`
	Position Vec3 `json:"position"`

	// Neighbors[i] lies across Borders[i], which runs from Corners[i] to Corners[i+1].
	Neighbors []int `json:"neighbors"`
	Corners   []int `json:"corners"`
	Borders   []int `json:"borders"`

	Area float64 `json:"area"`

	Elevation   float64 `json:"elevation"`   // Signed, [-1, 1] after normalization
	Temperature float64 `json:"temperature"` // Nominally [0, 1]
	Moisture    float64 `json:"moisture"`    // Nominally [0, 1]
	Plate       int     `json:"plate"`

	// Classifier inputs and outputs.
	Slope          float64   `json:"slope"`
	Noise          float64   `json:"noise"`
	Biome          Biome     `json:"biome"`
	Resources      Resources `json:"resources"`
	Calories       float64   `json:"calories"`
	UpstreamWeight float64   `json:"upstream_weight"`

	// Hydrology.
	Drain      int     `json:"drain"`      // Downhill neighbor, or None
	Sources    []int   `json:"sources"`    // Land tiles draining directly here
	Upstream   []int   `json:"upstream"`   // Transitive, sorted by ID
	Downstream []int   `json:"downstream"` // Ordered along the drain path
	Inflow     float64 `json:"inflow"`
	Outflow    float64 `json:"outflow"`
	River      bool    `json:"river"`
	Lake       int     `json:"lake"`       // Set only while a basin is being filled
	LakeDepth  float64 `json:"lake_depth"` // Fill added by basin resolution
	Watershed  int     `json:"watershed"`
	Body       int     `json:"body"`

	// Flagged marks tiles involved in a drainage anomaly.
	Flagged bool `json:"flagged"`
}

// IsLand reports whether the tile is above sea level.
func (t *Tile) IsLand() bool {
	return t.Elevation > 0
}

// Corner is a vertex shared by exactly three tiles.
type Corner struct {
	ID       int   `json:"id"`
	Position Vec3  `json:"position"`
	Corners  []int `json:"corners"` // Corners[i] lies across Borders[i]
	Borders  []int `json:"borders"`
	Tiles    []int `json:"tiles"`

	Area float64 `json:"area"`

	Elevation               float64 `json:"elevation"`
	BetweenPlates           bool    `json:"between_plates"`
	Pressure                float64 `json:"pressure"`
	Shear                   float64 `json:"shear"`
	DistanceToPlateBoundary float64 `json:"distance_to_plate_boundary"`
	DistanceToPlateRoot     float64 `json:"distance_to_plate_root"`

	AirCurrent         Vec3      `json:"air_current"`
	AirCurrentSpeed    float64   `json:"air_current_speed"`
	AirCurrentOutflows []float64 `json:"air_current_outflows"` // Per neighbor corner, sums to 0 or 1

	Heat          float64 `json:"heat"`
	Precipitation float64 `json:"precipitation"`
	Temperature   float64 `json:"temperature"`
	Moisture      float64 `json:"moisture"`
}

// Border is an edge shared by exactly two tiles.
type Border struct {
	ID      int   `json:"id"`
	Tiles   []int `json:"tiles"`
	Corners []int `json:"corners"`
	Borders []int `json:"borders"`

	BetweenPlates bool    `json:"between_plates"`
	Length        float64 `json:"length"`
}

// Plate is a rigid-motion region of tiles.
type Plate struct {
	ID        int     `json:"id"`
	Color     uint32  `json:"color"`
	DriftAxis Vec3    `json:"drift_axis"`
	DriftRate float64 `json:"drift_rate"`
	SpinRate  float64 `json:"spin_rate"`
	Elevation float64 `json:"elevation"`
	Oceanic   bool    `json:"oceanic"`
	Root      int     `json:"root"` // Corner the plate spawned from
	RootPos   Vec3    `json:"root_position"`

	Tiles           []int `json:"tiles"`
	BoundaryCorners []int `json:"boundary_corners"`
	BoundaryBorders []int `json:"boundary_borders"`
}

// Movement returns the plate's surface velocity at p: a drift rotation about
// DriftAxis plus a spin about the plate root.
func (pl *Plate) Movement(p Vec3) Vec3 {
	drift := WithLength(pl.DriftAxis.Cross(p), pl.DriftRate*Project(p, pl.DriftAxis).Sub(p).Len())
	spin := WithLength(pl.RootPos.Cross(p), pl.SpinRate*Project(p, pl.RootPos).Sub(p).Len())
	return drift.Add(spin)
}

// Lake records a basin resolved by filling. Member tiles drop their Lake
// reference once the fill completes.
type Lake struct {
	ID      int     `json:"id"`
	Tiles   []int   `json:"tiles"`
	Shore   []int   `json:"shore"`
	Sources []int   `json:"sources"` // Shore tiles that drained into the basin
	Level   float64 `json:"level"`
	Outlet  int     `json:"outlet"` // Member tile the lake drains through
	Escape  int     `json:"escape"` // Outside tile the outlet drains into
	Filled  bool    `json:"filled"`
}

// Watershed is the set of land tiles sharing a drainage outlet.
type Watershed struct {
	ID        int   `json:"id"`
	Outlet    int   `json:"outlet"`
	Tiles     []int `json:"tiles"`
	Neighbors []int `json:"neighbors"`
	Color     int   `json:"color"`
}

// Body is a connected landmass or water body.
type Body struct {
	ID    int   `json:"id"`
	Land  bool  `json:"land"`
	Tiles []int `json:"tiles"`
}

// Planet owns every element arena.
type Planet struct {
	Tiles   []Tile
	Corners []Corner
	Borders []Border

	Plates     []Plate
	Lakes      []Lake
	Watersheds []Watershed
	Bodies     []Body
}

// NewPlanet allocates arenas with dense IDs and absent references.
func NewPlanet(tiles, corners, borders int) *Planet {
	p := &Planet{
		Tiles:   make([]Tile, tiles),
		Corners: make([]Corner, corners),
		Borders: make([]Border, borders),
	}
	for i := range p.Tiles {
		p.Tiles[i] = Tile{ID: i, Plate: None, Drain: None, Lake: None, Watershed: None, Body: None}
	}
	for i := range p.Corners {
		p.Corners[i].ID = i
	}
	for i := range p.Borders {
		p.Borders[i].ID = i
	}
	return p
}

// OppositeCorner returns the corner of border b that is not c.
func (p *Planet) OppositeCorner(b, c int) int {
	bc := p.Borders[b].Corners
	if bc[0] == c {
		return bc[1]
	}
	return bc[0]
}

// OppositeTile returns the tile of border b that is not t.
func (p *Planet) OppositeTile(b, t int) int {
	bt := p.Borders[b].Tiles
	if bt[0] == t {
		return bt[1]
	}
	return bt[0]
}

// LandTiles returns the IDs of all tiles above sea level in ID order.
func (p *Planet) LandTiles() []int {
	var land []int
	for i := range p.Tiles {
		if p.Tiles[i].IsLand() {
			land = append(land, i)
		}
	}
	return land
}

// String returns a summary of the planet.
func (p *Planet) String() string {
	return fmt.Sprintf("Planet(tiles=%d, corners=%d, borders=%d, plates=%d)",
		len(p.Tiles), len(p.Corners), len(p.Borders), len(p.Plates))
}
