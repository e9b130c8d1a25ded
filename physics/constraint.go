package physics

import (
	"math"

	"github.com/lixenwraith/verlet/vmath"
)

// ConstraintID is a stable handle to a constraint in a System
// Unlike PointID it survives removal of other constraints
type ConstraintID int32

// Constraint is a positional invariant relaxed by the System
type Constraint interface {
	// Solve applies one relaxation pass against the point arena
	Solve(points []Point)
}

// degenerateOffset substitutes for a near-zero distance delta
var degenerateOffset = vmath.Vec3{vmath.Epsilon, 0, 0}

// DistanceConstraint keeps two points at RestLength
type DistanceConstraint struct {
	A, B       PointID
	RestLength float64
	Stiffness  float64 // (0, 1]
}

// Solve moves each endpoint along the connecting axis by its inverse-mass share
func (c *DistanceConstraint) Solve(points []Point) {
	pa, pb := &points[c.A], &points[c.B]

	totalInv := pa.InvMass + pb.InvMass
	if totalInv == 0 {
		return
	}

	delta := pb.Position.Sub(pa.Position)
	dist := delta.Len()
	if dist < vmath.Epsilon {
		delta = degenerateOffset
		dist = vmath.Epsilon
	}

	diff := dist - c.RestLength
	if diff == 0 {
		return
	}

	// Scalar per unit of delta, so delta*scale has magnitude stiffness*diff
	scale := c.Stiffness * diff / (dist * totalInv)
	correction := delta.Mul(scale)

	if pa.InvMass > 0 {
		pa.Position = pa.Position.Add(correction.Mul(pa.InvMass))
	}
	if pb.InvMass > 0 {
		pb.Position = pb.Position.Sub(correction.Mul(pb.InvMass))
	}
}

// Current returns the present distance between the endpoints
func (c *DistanceConstraint) Current(points []Point) float64 {
	return points[c.B].Position.Sub(points[c.A].Position).Len()
}

// AngleConstraint pulls the angle at Vertex (between A and C) toward Target,
// with Target clamped into [Min, Max]
type AngleConstraint struct {
	A, Vertex, C PointID
	Target       float64
	Min, Max     float64
	Stiffness    float64
}

// Goal returns the clamped target angle
func (c *AngleConstraint) Goal() float64 {
	return vmath.Clamp(c.Target, c.Min, c.Max)
}

// Current returns the present angle at the vertex
func (c *AngleConstraint) Current(points []Point) float64 {
	v := points[c.Vertex].Position
	return vmath.AngleBetween(points[c.A].Position.Sub(v), points[c.C].Position.Sub(v))
}

// Solve rotates the free endpoints about the vertex
// Both free: each takes half the correction so stiffness 1 lands exactly on the goal
func (c *AngleConstraint) Solve(points []Point) {
	pa, pv, pc := &points[c.A], &points[c.Vertex], &points[c.C]

	if pa.Fixed && pc.Fixed {
		return
	}

	v1 := pa.Position.Sub(pv.Position)
	v3 := pc.Position.Sub(pv.Position)
	if v1.Len() < vmath.Epsilon || v3.Len() < vmath.Epsilon {
		return
	}

	current := vmath.AngleBetween(v1, v3)
	delta := current - c.Goal()
	if math.Abs(delta) < vmath.AngleEpsilon {
		return
	}

	// Positive rotation about v1 x v3 turns v1 toward v3 and closes the angle
	axis, l := vmath.Normalize(v1.Cross(v3), vmath.Zero)
	if l == 0 {
		axis = vmath.PerpendicularAxis(v1)
	}

	step := c.Stiffness * delta
	switch {
	case !pa.Fixed && !pc.Fixed:
		pa.Position = vmath.RotateAround(pa.Position, pv.Position, axis, step*0.5)
		pc.Position = vmath.RotateAround(pc.Position, pv.Position, axis, -step*0.5)
	case !pa.Fixed:
		pa.Position = vmath.RotateAround(pa.Position, pv.Position, axis, step)
	default:
		pc.Position = vmath.RotateAround(pc.Position, pv.Position, axis, -step)
	}
}
