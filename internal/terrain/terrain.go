package terrain

import (
	"log/slog"

	"github.com/talgya/mini-planet/internal/globe"
)

// Params configures elevation synthesis.
type Params struct {
	PressureThreshold float64
	ShearThreshold    float64

	// Reshape remaps land elevations onto an exponential curve of steepness
	// ElevationExponent. Exponent 0 is a linear ramp.
	Reshape           bool
	ElevationExponent float64
}

// DefaultParams returns the stock terrain settings.
func DefaultParams() Params {
	return Params{
		PressureThreshold: 0.3,
		ShearThreshold:    0.3,
		Reshape:           true,
		ElevationExponent: 2,
	}
}

// Result summarizes a terrain run.
type Result struct {
	Regimes   [NumRegimes]int
	Reached   int
	RawMin    float64
	RawMax    float64
	LandTiles int
}

// Run assigns corner and tile elevations from the boundary stress already on
// the planet. boundary lists the plate boundary corners.
func Run(p *globe.Planet, params Params, boundary []int) Result {
	var res Result
	q := seedBoundary(p, params, boundary, &res.Regimes)
	res.Reached = propagate(p, q)
	res.RawMin, res.RawMax = normalize(p)
	p.CornerElevationsToTiles()
	if params.Reshape {
		Reshape(p, params.ElevationExponent)
	}
	res.LandTiles = len(p.LandTiles())

	slog.Info("stage complete", "stage", "terrain",
		"reached", res.Reached, "land_tiles", res.LandTiles,
		"colliding", res.Regimes[Colliding], "subducting", res.Regimes[Subducting],
		"superducting", res.Regimes[Superducting], "diverging", res.Regimes[Diverging],
		"shearing", res.Regimes[Shearing], "dormant", res.Regimes[Dormant])
	return res
}
