package weather

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/mini-planet/internal/entropy"
	"github.com/talgya/mini-planet/internal/globe"
)

// Whorl is a vortex that spins the air around its center.
type Whorl struct {
	Center   globe.Vec3 // Unit vector
	Strength float64    // Signed angular strength; the sign is the spin direction
	Radius   float64    // Reach along the surface, in planet-radius units
}

var (
	xAxis = globe.Vec3{1, 0, 0}
	yAxis = globe.Vec3{0, 1, 0}
)

func rotate(v, axis globe.Vec3, angle float64) globe.Vec3 {
	return mgl64.QuatRotate(angle, axis).Rotate(v)
}

// generateWhorls places one whorl over each pole and rings of alternating
// whorls in latitude bands between them. Bands near the equator hold more
// whorls because they are longer.
func generateWhorls(params Params, src *entropy.Source) []Whorl {
	const rev = 2 * math.Pi
	r := params.PlanetRadius
	direction := 1.0
	if src.Bool(0.5) {
		direction = -1
	}
	layers := src.IntRange(params.MinLayers, params.MaxLayers)
	if layers < 3 {
		layers = 3
	}
	circumference := rev * r
	base := circumference / float64(2*(layers-1))

	polar := func(pole globe.Vec3, dir float64) Whorl {
		tilt := src.Range(0, base/r/2)
		spin := src.Range(0, rev)
		return Whorl{
			Center:   rotate(rotate(pole, xAxis, tilt), yAxis, spin),
			Strength: src.Range(rev/36, rev/24) * dir,
			Radius:   src.Range(base*0.8, base*1.2),
		}
	}

	whorls := []Whorl{polar(yAxis, direction)}
	for i := 1; i < layers-1; i++ {
		direction = -direction
		tilt := float64(i) / float64(layers-1) * rev / 2
		count := int(math.Ceil(math.Sin(tilt) * r * rev / base))
		for j := 0; j < count; j++ {
			jitter := src.Range(0, base/r/2)
			spin := src.Range(0, rev)
			center := rotate(rotate(yAxis, xAxis, jitter), yAxis, spin)
			center = rotate(center, xAxis, tilt)
			center = rotate(center, yAxis, rev*(float64(j)+float64(i%2)/2)/float64(count))
			whorls = append(whorls, Whorl{
				Center:   globe.Normalize(center),
				Strength: src.Range(rev/48, rev/32) * direction,
				Radius:   src.Range(base*0.8, base*1.2),
			})
		}
	}
	whorls = append(whorls, polar(yAxis.Mul(-1), -direction))
	return whorls
}
