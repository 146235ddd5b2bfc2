package phi

import (
	"math"
	"sort"

	"github.com/talgya/mini-planet/internal/globe"
)

// Lattice is a Fibonacci sphere lattice: n points spaced by the golden angle
// around the polar axis with uniform steps in height. Points are kept sorted
// by height for nearest-point queries.
type Lattice struct {
	points []globe.Vec3
}

// NewLattice builds a lattice of n points. n < 1 yields a single polar point.
func NewLattice(n int) *Lattice {
	if n < 1 {
		n = 1
	}
	pts := make([]globe.Vec3, n)
	for i := 0; i < n; i++ {
		y := 1 - (float64(i)+0.5)*2/float64(n)
		r := math.Sqrt(math.Max(0, 1-y*y))
		a := GoldenAngle * float64(i)
		pts[i] = globe.Vec3{r * math.Cos(a), y, r * math.Sin(a)}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Y() < pts[j].Y() })
	return &Lattice{points: pts}
}

// Len returns the number of lattice points.
func (l *Lattice) Len() int {
	return len(l.points)
}

// Spacing returns the typical distance between neighboring lattice points.
func (l *Lattice) Spacing() float64 {
	return math.Sqrt(4 * math.Pi / float64(len(l.points)))
}

// Nearest returns the Euclidean distance from p to the closest lattice point.
func (l *Lattice) Nearest(p globe.Vec3) float64 {
	pts := l.points
	start := sort.Search(len(pts), func(i int) bool { return pts[i].Y() >= p.Y() })
	best := math.Inf(1)

	// Walk outward in height; stop once the height gap alone exceeds the best.
	for i := start; i < len(pts); i++ {
		if pts[i].Y()-p.Y() > best {
			break
		}
		if d := pts[i].Sub(p).Len(); d < best {
			best = d
		}
	}
	for i := start - 1; i >= 0; i-- {
		if p.Y()-pts[i].Y() > best {
			break
		}
		if d := pts[i].Sub(p).Len(); d < best {
			best = d
		}
	}
	return best
}
