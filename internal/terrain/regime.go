// Package terrain turns boundary stress into elevation: each boundary corner
// picks a tectonic regime, and fronts carry that regime's falloff curve inland.
package terrain

import "math"

// Regime is the tectonic behavior at a plate boundary corner.
type Regime uint8

const (
	Dormant Regime = iota
	Colliding
	Subducting
	Superducting
	Diverging
	Shearing
	NumRegimes
)

var regimeNames = [NumRegimes]string{"dormant", "colliding", "subducting", "superducting", "diverging", "shearing"}

func (r Regime) String() string {
	if r < NumRegimes {
		return regimeNames[r]
	}
	return "unknown"
}

// falloff is the elevation at normalized distance t in [0, 1] from the
// boundary (0) toward the plate root (1).
func (r Regime) falloff(t, boundary, plate, pressure float64) float64 {
	t = math.Max(0, math.Min(1, t))
	switch r {
	case Colliding:
		return ramp(t, 0.5, boundary, plate)
	case Subducting:
		return plate + (t-1)*(t-1)*(boundary-plate)
	case Superducting:
		switch {
		case t < 0.2:
			t /= 0.2
			return boundary + t*(plate-boundary+pressure/2)
		case t < 0.5:
			t = (t - 0.2) / 0.3
			return plate + (t-1)*(t-1)*pressure/2
		default:
			return plate
		}
	case Diverging:
		return ramp(t, 0.3, boundary, plate)
	case Shearing:
		return ramp(t, 0.2, boundary, plate)
	default:
		d := boundary - plate
		return t*t*d*(2*t-3) + boundary
	}
}

// ramp eases quadratically from boundary to plate over [0, cut) and holds
// plate beyond it.
func ramp(t, cut, boundary, plate float64) float64 {
	if t >= cut {
		return plate
	}
	t /= cut
	return plate + (t-1)*(t-1)*(boundary-plate)
}

// classify picks the regime for a two-plate boundary corner and returns the
// elevation at the boundary itself.
func classify(params Params, pressure, shear float64, near, far plateInfo) (Regime, float64) {
	top := math.Max(near.elevation, far.elevation)
	switch {
	case pressure > params.PressureThreshold:
		elev := top + pressure
		switch {
		case near.oceanic == far.oceanic:
			return Colliding, elev
		case near.oceanic:
			return Subducting, elev
		default:
			return Superducting, elev
		}
	case pressure < -params.PressureThreshold:
		return Diverging, top + pressure/4
	case shear > params.ShearThreshold:
		return Shearing, top + shear/8
	default:
		return Dormant, (near.elevation + far.elevation) / 2
	}
}

type plateInfo struct {
	elevation float64
	oceanic   bool
}
