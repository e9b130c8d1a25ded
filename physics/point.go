package physics

import (
	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/vmath"
)

// PointID indexes a point in its owning System's arena
// IDs stay valid until the System is reset; points are never freed individually
type PointID int32

// InvalidPoint is returned by lookups that fail
const InvalidPoint PointID = -1

// Point is a Verlet point mass
// Velocity is implicit: Position - Previous
type Point struct {
	Position vmath.Vec3
	Previous vmath.Vec3
	Force    vmath.Vec3

	Mass    float64
	InvMass float64 // 0 when fixed
	Fixed   bool

	// Contact state written by environment collision, consumed by the next integration
	Colliding     bool
	ContactNormal vmath.Vec3
	Friction      float64
	Bounce        float64

	bounded  bool
	boundMin vmath.Vec3
	boundMax vmath.Vec3
}

func newPoint(pos vmath.Vec3, mass float64, fixed bool) Point {
	if mass < parameter.MinPointMass {
		mass = parameter.MinPointMass
	}
	p := Point{
		Position: pos,
		Previous: pos,
		Mass:     mass,
		Friction: 1,
	}
	p.setFixed(fixed)
	return p
}

func (p *Point) setFixed(fixed bool) {
	p.Fixed = fixed
	if fixed {
		p.InvMass = 0
		p.Previous = p.Position
		p.Force = vmath.Zero
		return
	}
	p.InvMass = 1 / p.Mass
}

// Integrate advances the point one step of dt under gravity
// x' = x + (x - x_prev)*f + a*dt^2, f = contact friction when colliding, else 1
func (p *Point) Integrate(dt float64, gravity vmath.Vec3) {
	if p.Fixed {
		return
	}

	accel := p.Force.Mul(p.InvMass).Add(gravity)
	p.Force = vmath.Zero

	velocity := p.Position.Sub(p.Previous)
	if p.Colliding {
		velocity = velocity.Mul(p.Friction)
		p.Colliding = false
	}

	next := p.Position.Add(velocity).Add(accel.Mul(dt * dt))
	p.Previous = p.Position
	p.Position = next

	if p.bounded {
		p.Position = vmath.ClampVec(p.Position, p.boundMin, p.boundMax)
	}
}

// ApplyForce accumulates a force consumed by the next integration
func (p *Point) ApplyForce(f vmath.Vec3) {
	if p.Fixed {
		return
	}
	p.Force = p.Force.Add(f)
}

// SetPosition teleports the point and kills its implicit velocity
func (p *Point) SetPosition(pos vmath.Vec3) {
	p.Position = pos
	p.Previous = pos
}

// Velocity returns the per-step displacement (not divided by dt)
func (p *Point) Velocity() vmath.Vec3 {
	return p.Position.Sub(p.Previous)
}
