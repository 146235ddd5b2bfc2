package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Vec3 is a point or direction in planet space. The planet is the unit sphere
// centered on the origin with +Y as the polar axis.
type Vec3 = mgl64.Vec3

// Normalize returns v scaled to unit length, or the zero vector when v has no length.
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// WithLength returns v rescaled to length l. Zero vectors stay zero.
func WithLength(v Vec3, l float64) Vec3 {
	return Normalize(v).Mul(l)
}

// Project returns the component of v along onto.
func Project(v, onto Vec3) Vec3 {
	d := onto.LenSqr()
	if d == 0 {
		return Vec3{}
	}
	return onto.Mul(v.Dot(onto) / d)
}

// Angle returns the angle in radians between a and b.
func Angle(a, b Vec3) float64 {
	d := a.Len() * b.Len()
	if d == 0 {
		return 0
	}
	return math.Acos(Clamp(a.Dot(b)/d, -1, 1))
}

// Latitude returns the latitude of a unit-sphere position in radians.
func Latitude(p Vec3) float64 {
	return math.Asin(Clamp(p.Y(), -1, 1))
}

// Longitude returns the angle around the polar axis in radians, in (-π, π].
func Longitude(p Vec3) float64 {
	return math.Atan2(p.X(), p.Z())
}

// Clamp limits x to [lo, hi].
func Clamp[T constraints.Float | constraints.Integer](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp interpolates between a and b.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Finite replaces NaN and infinities with fallback.
func Finite(x, fallback float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fallback
	}
	return x
}
