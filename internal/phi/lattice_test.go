package phi

import (
	"math"
	"testing"

	"github.com/talgya/mini-planet/internal/globe"
)

func TestConstants(t *testing.T) {
	if math.Abs(Phi*Phi-Phi-1) > 1e-12 {
		t.Fatalf("Phi² != Phi + 1")
	}
	if math.Abs(GoldenAngle-math.Pi*(3-math.Sqrt(5))) > 1e-12 {
		t.Fatalf("GoldenAngle = %v", GoldenAngle)
	}
}

func TestLatticePointsOnSphere(t *testing.T) {
	l := NewLattice(200)
	if l.Len() != 200 {
		t.Fatalf("Len = %d", l.Len())
	}
	for _, p := range l.points {
		if math.Abs(p.Len()-1) > 1e-9 {
			t.Fatalf("point %v is off the unit sphere", p)
		}
	}
	if NewLattice(0).Len() != 1 {
		t.Fatalf("empty lattice should hold one point")
	}
}

func TestNearestMatchesBruteForce(t *testing.T) {
	l := NewLattice(300)
	probes := []globe.Vec3{
		{0, 1, 0}, {0, -1, 0}, {1, 0, 0},
		globe.Normalize(globe.Vec3{0.3, -0.4, 0.8}),
		globe.Normalize(globe.Vec3{-0.9, 0.1, -0.2}),
	}
	for _, p := range probes {
		want := math.Inf(1)
		for _, q := range l.points {
			want = math.Min(want, q.Sub(p).Len())
		}
		if got := l.Nearest(p); math.Abs(got-want) > 1e-12 {
			t.Fatalf("Nearest(%v) = %v, want %v", p, got, want)
		}
		if got := l.Nearest(p); got > 2*l.Spacing() {
			t.Fatalf("Nearest(%v) = %v exceeds twice the spacing %v", p, got, l.Spacing())
		}
	}
}

func TestNearestOnLatticePoint(t *testing.T) {
	l := NewLattice(50)
	if d := l.Nearest(l.points[17]); d != 0 {
		t.Fatalf("distance to a lattice point = %v", d)
	}
}

func TestMatterIsInverse(t *testing.T) {
	if math.Abs(Matter*Phi-1) > 1e-15 || math.Abs(Phi-Matter-1) > 1e-12 {
		t.Fatalf("Matter = %v", Matter)
	}
}
