package tectonics

import (
	"fmt"
	"log/slog"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/globe"
)

// Result summarizes a tectonics run.
type Result struct {
	Plates          int
	Oceanic         int
	BoundaryCorners []int
}

// Run seeds plates, measures root distances, and computes blurred boundary
// stress. It consumes src before any later stage does.
func Run(p *globe.Planet, params Params, src *entropy.Source) (Result, error) {
	if params.PlateCount < 1 {
		return Result{}, fmt.Errorf("plate count must be >= 1, got %d", params.PlateCount)
	}
	n := SeedPlates(p, params, src)
	if n == 0 {
		return Result{}, fmt.Errorf("seed plates: no plate could be placed on %d corners", len(p.Corners))
	}
	ComputeRootDistances(p)
	boundary := IdentifyBoundaries(p)
	ComputeStress(p, params, boundary)
	BlurStress(p, params, boundary)

	res := Result{Plates: n, BoundaryCorners: boundary}
	for i := range p.Plates {
		if p.Plates[i].Oceanic {
			res.Oceanic++
		}
	}
	if n < params.PlateCount {
		slog.Warn("fewer plates than requested", "requested", params.PlateCount, "placed", n)
	}
	slog.Info("stage complete", "stage", "tectonics",
		"plates", n, "oceanic", res.Oceanic, "boundary_corners", len(boundary))
	return res, nil
}
