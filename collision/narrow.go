package collision

import (
	"math"

	"github.com/lixenwraith/verlet/vmath"
)

// Contact describes the separation of shape a from shape b
// Moving a by Normal*Depth (or b by the opposite) resolves the overlap
type Contact struct {
	Normal vmath.Vec3
	Depth  float64
}

type narrowFunc func(a, b Shape) (Contact, bool)

// dispatch[a.Kind][b.Kind] is the narrow-phase routine for the ordered pair
// Points behave as small spheres, so they share the circle routines
var dispatch [kindCount][kindCount]narrowFunc

func init() {
	dispatch[KindCircle][KindCircle] = sphereSphere
	dispatch[KindCircle][KindPoint] = sphereSphere
	dispatch[KindPoint][KindCircle] = sphereSphere
	dispatch[KindPoint][KindPoint] = sphereSphere

	dispatch[KindCircle][KindAABB] = sphereBox
	dispatch[KindPoint][KindAABB] = sphereBox
	dispatch[KindAABB][KindCircle] = flipped(sphereBox)
	dispatch[KindAABB][KindPoint] = flipped(sphereBox)

	dispatch[KindAABB][KindAABB] = boxBox
}

// Test runs the narrow phase for a against b
func Test(a, b Shape) (Contact, bool) {
	if a.Kind >= kindCount || b.Kind >= kindCount {
		return Contact{}, false
	}
	return dispatch[a.Kind][b.Kind](a, b)
}

func flipped(fn narrowFunc) narrowFunc {
	return func(a, b Shape) (Contact, bool) {
		c, ok := fn(b, a)
		c.Normal = c.Normal.Mul(-1)
		return c, ok
	}
}

// sphereSphere separates along the centre line; coincident centres use +X
func sphereSphere(a, b Shape) (Contact, bool) {
	delta := a.Center.Sub(b.Center)
	d := delta.Len()
	reach := a.Radius + b.Radius
	if d >= reach {
		return Contact{}, false
	}
	normal := vmath.UnitX
	if d > vmath.ContactEpsilon {
		normal = delta.Mul(1 / d)
	}
	return Contact{Normal: normal, Depth: reach - d}, true
}

// sphereBox uses the closest point on the box; a centre on or inside the box
// has no defined direction and exits along +Z
func sphereBox(a, b Shape) (Contact, bool) {
	closest := b.Box.ClosestPoint(a.Center)
	delta := a.Center.Sub(closest)
	d := delta.Len()
	if d >= a.Radius {
		return Contact{}, false
	}
	normal := vmath.UnitZ
	if d > vmath.ContactEpsilon {
		normal = delta.Mul(1 / d)
	}
	return Contact{Normal: normal, Depth: a.Radius - d}, true
}

// boxBox separates along the axis of least penetration
func boxBox(a, b Shape) (Contact, bool) {
	best := math.Inf(1)
	var normal vmath.Vec3
	for i := 0; i < 3; i++ {
		overlap := math.Min(a.Box.Max[i], b.Box.Max[i]) - math.Max(a.Box.Min[i], b.Box.Min[i])
		if overlap <= 0 {
			return Contact{}, false
		}
		if overlap < best {
			best = overlap
			normal = vmath.Vec3{}
			if a.Box.Center()[i] < b.Box.Center()[i] {
				normal[i] = -1
			} else {
				normal[i] = 1
			}
		}
	}
	return Contact{Normal: normal, Depth: best}, true
}
