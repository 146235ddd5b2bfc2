// Package phi provides golden-ratio constants and the Fibonacci sphere
// lattice built from them.
package phi

import "math"

// Phi is the golden ratio.
const Phi = 1.6180339887498948

// Matter is 1/Φ (0.61803...), the lattice noise scale.
var Matter = 1 / Phi

// GoldenAngle is the phyllotaxis angle in radians, 2π(1 - 1/Φ).
var GoldenAngle = 2 * math.Pi * (1 - 1/Phi)
