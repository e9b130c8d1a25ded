package collision

import (
	"math"

	"github.com/lixenwraith/verlet/vmath"
)

// Ray is a half-line with unit Direction
type Ray struct {
	Origin    vmath.Vec3
	Direction vmath.Vec3
}

// NewRay normalizes dir; false when dir is degenerate
func NewRay(origin, dir vmath.Vec3) (Ray, bool) {
	n, l := vmath.Normalize(dir, vmath.Zero)
	if l == 0 {
		return Ray{}, false
	}
	return Ray{Origin: origin, Direction: n}, true
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) vmath.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is the first surface crossing of a ray
type Hit struct {
	Distance float64
	Position vmath.Vec3
	Normal   vmath.Vec3
}

// Cast intersects r with s up to maxDist. Rays starting inside a shape report
// no hit for that shape
func Cast(r Ray, s Shape, maxDist float64) (Hit, bool) {
	var (
		t      float64
		normal vmath.Vec3
		ok     bool
	)
	switch s.Kind {
	case KindCircle, KindPoint:
		t, ok = raySphere(r, s.Center, s.Radius)
		if ok {
			normal, _ = vmath.Normalize(r.At(t).Sub(s.Center), r.Direction.Mul(-1))
		}
	case KindAABB:
		t, normal, ok = raySlab(r, s.Box)
	}
	if !ok || t > maxDist {
		return Hit{}, false
	}
	return Hit{Distance: t, Position: r.At(t), Normal: normal}, true
}

// raySphere solves |o + t*d - c|^2 = r^2 for the nearest t >= 0
func raySphere(r Ray, c vmath.Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(c)
	b := oc.Dot(r.Direction)
	cc := oc.Dot(oc) - radius*radius
	if cc <= 0 {
		return 0, false
	}
	disc := b*b - cc
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		return 0, false
	}
	return t, true
}

// raySlab clips the ray against each axis slab and keeps the entry face normal
func raySlab(r Ray, b AABB) (float64, vmath.Vec3, bool) {
	tNear, tFar := math.Inf(-1), math.Inf(1)
	axis, sign := -1, 0.0

	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Direction[i]
		if math.Abs(d) < vmath.Epsilon {
			if o < b.Min[i] || o > b.Max[i] {
				return 0, vmath.Zero, false
			}
			continue
		}
		inv := 1 / d
		t1 := (b.Min[i] - o) * inv
		t2 := (b.Max[i] - o) * inv
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tNear {
			tNear, axis, sign = t1, i, s
		}
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, vmath.Zero, false
		}
	}

	if axis < 0 || tNear < 0 {
		return 0, vmath.Zero, false
	}
	var n vmath.Vec3
	n[axis] = sign
	return tNear, n, true
}
