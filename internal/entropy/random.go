// Package entropy provides the single seeded random source that every
// generation stage draws from, so a given seed reproduces an identical planet.
// Stages must consume it in a fixed traversal order: plates, then terrain,
// then weather.
package entropy

import (
	"encoding/binary"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"lukechampine.com/blake3"

	"github.com/talgya/mini-planet/internal/globe"
)

// Source is a deterministic random stream.
type Source struct {
	seed int64
	rng  *rand.Rand
}

// New creates a source from an integer seed.
func New(seed int64) *Source {
	return &Source{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float returns a value in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Range returns a value in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// IntN returns a value in [0, n). Returns 0 when n <= 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// IntRange returns a value in [lo, hi].
func (s *Source) IntRange(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Bool returns true with probability p.
func (s *Source) Bool(p float64) bool {
	return s.rng.Float64() < p
}

// Color returns a random 24-bit RGB value.
func (s *Source) Color() uint32 {
	return uint32(s.rng.Intn(0x1000000))
}

// UnitVector returns a direction uniformly distributed over the sphere.
func (s *Source) UnitVector() globe.Vec3 {
	theta := s.Range(0, 2*math.Pi)
	z := s.Range(-1, 1)
	r := math.Sqrt(1 - z*z)
	return globe.Vec3{r * math.Cos(theta), r * math.Sin(theta), z}
}

// SeedFromString turns a user-supplied seed into an integer seed. Decimal
// integers are used as-is; any other text is hashed.
func SeedFromString(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	sum := blake3.Sum256([]byte(s))
	return int64(binary.LittleEndian.Uint64(sum[:8]) >> 1)
}

// Hash mixes a seed and an element ID into a stable 64-bit value. Used where
// a stage needs a reproducible per-element choice without consuming the stream.
func Hash(seed int64, id int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(id))
	return xxhash.Sum64(buf[:])
}

// HashUnit maps Hash onto [0, 1).
func HashUnit(seed int64, id int) float64 {
	return float64(Hash(seed, id)>>11) / float64(1<<53)
}
