package engine

import (
	"github.com/lixenwraith/verlet/collision"
	"github.com/lixenwraith/verlet/physics"
	"github.com/lixenwraith/verlet/vmath"
)

// EntityID names a rigid entity; chosen by the caller
type EntityID uint64

// StaticID names a static box; chosen by the caller
type StaticID uint64

// timedForce is a sustained force applied every fixed step until remaining runs out
type timedForce struct {
	force     vmath.Vec3
	remaining float64
}

// Entity is a rigid sphere integrated with semi-implicit Euler
// Acceleration holds the value of the last step for inspection
type Entity struct {
	ID           EntityID
	Position     vmath.Vec3
	Velocity     vmath.Vec3
	Acceleration vmath.Vec3
	Radius       float64
	Mass         float64

	forces []timedForce

	rig        *physics.Rig
	rootOffset vmath.Vec3
}

// Rig returns the bound character rig, nil if none
func (e *Entity) Rig() *physics.Rig {
	return e.rig
}

// ActiveForces returns the number of sustained forces still running
func (e *Entity) ActiveForces() int {
	return len(e.forces)
}

func (e *Entity) body() collision.Body {
	return collision.MakeBody(collision.KindCircle, uint64(e.ID))
}

func (e *Entity) shape() collision.Shape {
	return collision.Circle(e.Position, e.Radius)
}

// integrate advances one fixed step: gravity plus sustained forces, damping, position
func (e *Entity) integrate(dt float64, gravity vmath.Vec3, damping float64) {
	acc := gravity
	live := e.forces[:0]
	for _, f := range e.forces {
		acc = acc.Add(f.force.Mul(1 / e.Mass))
		f.remaining -= dt
		if f.remaining > 0 {
			live = append(live, f)
		}
	}
	clear(e.forces[len(live):])
	e.forces = live

	e.Acceleration = acc
	e.Velocity = e.Velocity.Add(acc.Mul(dt)).Mul(damping)
	e.Position = e.Position.Add(e.Velocity.Mul(dt))
}

// Static is an immovable box for rigid entities, centred on Position
type Static struct {
	ID       StaticID
	Position vmath.Vec3
	Size     vmath.Vec3
}

func (s *Static) body() collision.Body {
	return collision.MakeBody(collision.KindAABB, uint64(s.ID))
}

func (s *Static) shape() collision.Shape {
	return collision.Box(s.Position, s.Size)
}

// VerletCollider gives a Verlet point a radius in the shared broad phase
type VerletCollider struct {
	Point  physics.PointID
	Radius float64
}

func (v VerletCollider) body() collision.Body {
	return collision.MakeBody(collision.KindPoint, uint64(v.Point))
}
