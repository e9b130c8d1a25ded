package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the float64 3D vector used throughout the simulation
type Vec3 = mgl64.Vec3

var (
	Zero  = Vec3{}
	UnitX = Vec3{1, 0, 0}
	UnitY = Vec3{0, 1, 0}
	UnitZ = Vec3{0, 0, 1}
)

// Normalize returns v/|v| and the length, or fallback and 0 when |v| < Epsilon
// mgl64.Vec3.Normalize divides by zero on degenerate input, this never does
func Normalize(v, fallback Vec3) (Vec3, float64) {
	l := v.Len()
	if l < Epsilon {
		return fallback, 0
	}
	inv := 1.0 / l
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, l
}

// AngleBetween returns the unsigned angle between a and b in [0, pi]
// Dot is clamped before acos so rounding never yields NaN
func AngleBetween(a, b Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < Epsilon || lb < Epsilon {
		return 0
	}
	return math.Acos(Clamp(a.Dot(b)/(la*lb), -1, 1))
}

// RotateAround rotates p about pivot on a unit axis by angle radians (Rodrigues)
// v' = v cos + (k x v) sin + k (k.v)(1 - cos)
func RotateAround(p, pivot, axis Vec3, angle float64) Vec3 {
	v := p.Sub(pivot)
	c, s := math.Cos(angle), math.Sin(angle)
	rotated := v.Mul(c).
		Add(axis.Cross(v).Mul(s)).
		Add(axis.Mul(axis.Dot(v) * (1 - c)))
	return rotated.Add(pivot)
}

// PerpendicularAxis returns a unit axis perpendicular to v
// Used when a cross product degenerates for collinear vectors
func PerpendicularAxis(v Vec3) Vec3 {
	n, l := Normalize(v, UnitX)
	if l == 0 {
		return UnitZ
	}
	var ref Vec3
	if math.Abs(n.Z()) < 0.9 {
		ref = UnitZ
	} else {
		ref = UnitX
	}
	axis, _ := Normalize(n.Cross(ref), UnitZ)
	return axis
}

// ClampVec clamps each component of v into [lo, hi]
func ClampVec(v, lo, hi Vec3) Vec3 {
	return Vec3{
		Clamp(v[0], lo[0], hi[0]),
		Clamp(v[1], lo[1], hi[1]),
		Clamp(v[2], lo[2], hi[2]),
	}
}

// MinVec returns the component-wise minimum
func MinVec(a, b Vec3) Vec3 {
	return Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

// MaxVec returns the component-wise maximum
func MaxVec(a, b Vec3) Vec3 {
	return Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

// Splat returns {s, s, s}
func Splat(s float64) Vec3 {
	return Vec3{s, s, s}
}

// RandomUnit returns a uniformly distributed direction, falling back to +Z
// if the sample lands at the origin
func RandomUnit(rng *FastRand) Vec3 {
	for range 4 {
		v := Vec3{rng.Range(-1, 1), rng.Range(-1, 1), rng.Range(-1, 1)}
		if l := v.Len(); l > Epsilon && l <= 1 {
			return v.Mul(1 / l)
		}
	}
	return UnitZ
}
