package physics

import (
	"github.com/lixenwraith/verlet/vmath"
)

// Collider is a static environment shape the Verlet points are kept out of
type Collider interface {
	// Contact returns the push-out displacement and unit normal if p penetrates
	Contact(p vmath.Vec3) (push, normal vmath.Vec3, hit bool)
	// Surface returns friction and bounce applied to contacting points
	Surface() (friction, bounce float64)
}

// BoxCollider is an axis-aligned box; points inside exit through the nearest face
type BoxCollider struct {
	Min, Max vmath.Vec3
	Friction float64
	Bounce   float64
}

// Contact implements Collider
func (b *BoxCollider) Contact(p vmath.Vec3) (vmath.Vec3, vmath.Vec3, bool) {
	for i := 0; i < 3; i++ {
		if p[i] <= b.Min[i] || p[i] >= b.Max[i] {
			return vmath.Zero, vmath.Zero, false
		}
	}

	// Nearest face by penetration depth; ties resolve to the lower axis, min face first
	best := -1.0
	var normal vmath.Vec3
	for i := 0; i < 3; i++ {
		toMin := p[i] - b.Min[i]
		toMax := b.Max[i] - p[i]
		if best < 0 || toMin < best {
			best = toMin
			normal = vmath.Vec3{}
			normal[i] = -1
		}
		if toMax < best {
			best = toMax
			normal = vmath.Vec3{}
			normal[i] = 1
		}
	}
	return normal.Mul(best), normal, true
}

// Surface implements Collider
func (b *BoxCollider) Surface() (float64, float64) { return b.Friction, b.Bounce }

// PlaneCollider keeps points on the positive side of dot(Normal, p) = Distance
type PlaneCollider struct {
	Normal   vmath.Vec3 // unit
	Distance float64
	Friction float64
	Bounce   float64
}

// Contact implements Collider
func (pl *PlaneCollider) Contact(p vmath.Vec3) (vmath.Vec3, vmath.Vec3, bool) {
	d := pl.Normal.Dot(p) - pl.Distance
	if d >= 0 {
		return vmath.Zero, vmath.Zero, false
	}
	return pl.Normal.Mul(-d), pl.Normal, true
}

// Surface implements Collider
func (pl *PlaneCollider) Surface() (float64, float64) { return pl.Friction, pl.Bounce }

// resolveContact pushes p out of c and rewrites Previous so the next
// integration carries the bounced velocity. Returns true on contact
func resolveContact(p *Point, c Collider, dt float64) bool {
	push, normal, hit := c.Contact(p.Position)
	if !hit {
		return false
	}

	friction, bounce := c.Surface()
	p.Colliding = true
	p.ContactNormal = normal
	p.Friction = friction
	p.Bounce = bounce

	incoming := p.Position.Sub(p.Previous).Mul(1 / dt)
	p.Position = p.Position.Add(push)

	vn := incoming.Dot(normal)
	if vn >= 0 {
		// Separating or resting: keep velocity, only the position moves
		p.Previous = p.Previous.Add(push)
		return true
	}

	tangent := incoming.Sub(normal.Mul(vn))
	outgoing := tangent.Sub(normal.Mul(vn * bounce))
	p.Previous = p.Position.Sub(outgoing.Mul(dt))
	return true
}
