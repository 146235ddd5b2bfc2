package geodesic

import (
	"fmt"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/globe"
)

// meshSeedSalt separates the mesh stream from the generation stream.
const meshSeedSalt = 0x6d657368

// Build subdivides an icosahedron at frequency subdivisions (10n²+2 tiles),
// distorts it by distortion in [0, 1], and returns the linked dual mesh.
func Build(subdivisions int, distortion float64, seed int64) (*globe.Planet, error) {
	if subdivisions < 1 {
		return nil, fmt.Errorf("subdivisions must be >= 1, got %d", subdivisions)
	}
	m := subdivide(subdivisions)
	m.distort(globe.Clamp(distortion, 0, 1), entropy.New(seed^meshSeedSalt))

	p, err := m.dual()
	if err != nil {
		return nil, fmt.Errorf("build dual mesh: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Dodecahedron returns the 12-pentagon planet (subdivision 1, no distortion).
func Dodecahedron() *globe.Planet {
	p, err := Build(1, 0, 0)
	if err != nil {
		// The undistorted icosahedron dual is always well formed.
		panic(err)
	}
	return p
}
