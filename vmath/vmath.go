package vmath

import "math"

// Tolerances shared by the solvers
const (
	// Epsilon is the degenerate-length threshold for constraint deltas and axes
	Epsilon = 1e-5
	// AngleEpsilon is the no-op band for angle constraint error in radians
	AngleEpsilon = 1e-4
	// ContactEpsilon is the degenerate separation threshold for rigid contacts
	ContactEpsilon = 1e-3
)

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// NearlyEqual reports |a-b| <= tol
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// --- Randomness ---

// FastRand is a xorshift64 generator used where the solvers need a random but
// reproducible direction. Not safe for concurrent use
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Range returns a value in [lo, hi)
func (r *FastRand) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}
