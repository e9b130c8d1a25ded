package physics

import (
	"math"

	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/vmath"
)

// Sentinels for constraint builders that measure the current configuration
const (
	AutoLength = -1.0
	AutoAngle  = -1.0
)

// System owns a point arena, its constraints and static colliders
// Single-threaded: all mutation happens between or inside Update calls on one goroutine
type System struct {
	points []Point

	// Dense constraint storage; ids map to slots, swap-remove keeps it packed
	constraints []Constraint
	slotIDs     []ConstraintID
	slots       map[ConstraintID]int
	nextID      ConstraintID

	colliders []Collider

	Gravity    vmath.Vec3
	Damping    float64
	Substeps   int
	Iterations int
}

// NewSystem creates an empty system with default gravity, substeps and iterations
func NewSystem() *System {
	return &System{
		slots:      make(map[ConstraintID]int),
		Gravity:    vmath.Vec3{parameter.GravityX, parameter.GravityY, parameter.GravityZ},
		Damping:    parameter.VerletDamping,
		Substeps:   parameter.VerletSubsteps,
		Iterations: parameter.RelaxationIterations,
	}
}

// --- Points ---

// AddPoint appends a point and returns its handle
func (s *System) AddPoint(pos vmath.Vec3, mass float64, fixed bool) PointID {
	s.points = append(s.points, newPoint(pos, mass, fixed))
	return PointID(len(s.points) - 1)
}

func (s *System) valid(id PointID) bool {
	return id >= 0 && int(id) < len(s.points)
}

// Point returns a mutable reference, nil for unknown ids
// The pointer is invalidated by the next AddPoint
func (s *System) Point(id PointID) *Point {
	if !s.valid(id) {
		return nil
	}
	return &s.points[id]
}

// Position returns the current position of id
func (s *System) Position(id PointID) vmath.Vec3 {
	if !s.valid(id) {
		return vmath.Zero
	}
	return s.points[id].Position
}

// Points exposes the arena for read-only iteration
func (s *System) Points() []Point {
	return s.points
}

// PointCount returns the number of points
func (s *System) PointCount() int {
	return len(s.points)
}

// SetFixed pins or releases a point; pinning kills its velocity
func (s *System) SetFixed(id PointID, fixed bool) {
	if p := s.Point(id); p != nil {
		p.setFixed(fixed)
	}
}

// SetPosition teleports a point
func (s *System) SetPosition(id PointID, pos vmath.Vec3) {
	if p := s.Point(id); p != nil {
		p.SetPosition(pos)
	}
}

// SetBounds clamps a point into the box [lo, hi] after every integration
func (s *System) SetBounds(id PointID, lo, hi vmath.Vec3) {
	if p := s.Point(id); p != nil {
		p.bounded = true
		p.boundMin = vmath.MinVec(lo, hi)
		p.boundMax = vmath.MaxVec(lo, hi)
	}
}

// ApplyForce accumulates force on one point
func (s *System) ApplyForce(id PointID, f vmath.Vec3) {
	if p := s.Point(id); p != nil {
		p.ApplyForce(f)
	}
}

// ApplyForceToAll accumulates force on every point
func (s *System) ApplyForceToAll(f vmath.Vec3) {
	for i := range s.points {
		s.points[i].ApplyForce(f)
	}
}

// SetGravity replaces the global gravity acceleration
func (s *System) SetGravity(g vmath.Vec3) {
	s.Gravity = g
}

// --- Constraints ---

func (s *System) insert(c Constraint) ConstraintID {
	id := s.nextID
	s.nextID++
	s.slots[id] = len(s.constraints)
	s.constraints = append(s.constraints, c)
	s.slotIDs = append(s.slotIDs, id)
	return id
}

// AddDistanceConstraint links a and b; restLength < 0 uses the current distance
// Returns false if either point is unknown
func (s *System) AddDistanceConstraint(a, b PointID, restLength, stiffness float64) (ConstraintID, bool) {
	if !s.valid(a) || !s.valid(b) {
		return 0, false
	}
	if restLength < 0 {
		restLength = s.points[b].Position.Sub(s.points[a].Position).Len()
	}
	return s.insert(&DistanceConstraint{
		A:          a,
		B:          b,
		RestLength: restLength,
		Stiffness:  vmath.Clamp01(stiffness),
	}), true
}

// AddAngleConstraint keeps the angle at vertex; angle < 0 uses the current angle
// The clamp range is the full [0, pi]
func (s *System) AddAngleConstraint(a, vertex, c PointID, angle, stiffness float64) (ConstraintID, bool) {
	return s.AddAngleConstraintRange(a, vertex, c, angle, 0, math.Pi, stiffness)
}

// AddAngleConstraintRange keeps the angle at vertex inside [lo, hi]
func (s *System) AddAngleConstraintRange(a, vertex, c PointID, angle, lo, hi, stiffness float64) (ConstraintID, bool) {
	if !s.valid(a) || !s.valid(vertex) || !s.valid(c) {
		return 0, false
	}
	if angle < 0 {
		v := s.points[vertex].Position
		angle = vmath.AngleBetween(s.points[a].Position.Sub(v), s.points[c].Position.Sub(v))
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return s.insert(&AngleConstraint{
		A:         a,
		Vertex:    vertex,
		C:         c,
		Target:    angle,
		Min:       lo,
		Max:       hi,
		Stiffness: vmath.Clamp01(stiffness),
	}), true
}

// Constraint returns the constraint behind id
func (s *System) Constraint(id ConstraintID) (Constraint, bool) {
	slot, ok := s.slots[id]
	if !ok {
		return nil, false
	}
	return s.constraints[slot], true
}

// RemoveConstraint deletes id; order of the remaining set changes, which only
// affects relaxation summation order. Returns false if id was already gone
func (s *System) RemoveConstraint(id ConstraintID) bool {
	slot, ok := s.slots[id]
	if !ok {
		return false
	}
	last := len(s.constraints) - 1
	if slot != last {
		s.constraints[slot] = s.constraints[last]
		s.slotIDs[slot] = s.slotIDs[last]
		s.slots[s.slotIDs[slot]] = slot
	}
	s.constraints[last] = nil
	s.constraints = s.constraints[:last]
	s.slotIDs = s.slotIDs[:last]
	delete(s.slots, id)
	return true
}

// ConstraintCount returns the number of live constraints
func (s *System) ConstraintCount() int {
	return len(s.constraints)
}

// ForEachConstraint visits live constraints in solver order
func (s *System) ForEachConstraint(fn func(id ConstraintID, c Constraint)) {
	for i, c := range s.constraints {
		fn(s.slotIDs[i], c)
	}
}

// --- Colliders ---

// surface clamps collider coefficients; zero selects the parameter defaults
func surface(friction, bounce float64) (float64, float64) {
	if friction == 0 {
		friction = parameter.DefaultColliderFriction
	}
	if bounce == 0 {
		bounce = parameter.DefaultColliderBounce
	}
	return vmath.Clamp01(friction), vmath.Clamp01(bounce)
}

// AddCollisionBox adds a static box spanning two corners
// Zero friction or bounce selects DefaultColliderFriction / DefaultColliderBounce
func (s *System) AddCollisionBox(lo, hi vmath.Vec3, friction, bounce float64) *BoxCollider {
	friction, bounce = surface(friction, bounce)
	b := &BoxCollider{
		Min:      vmath.MinVec(lo, hi),
		Max:      vmath.MaxVec(lo, hi),
		Friction: friction,
		Bounce:   bounce,
	}
	s.colliders = append(s.colliders, b)
	return b
}

// AddCollisionPlane adds a half-space dot(normal, p) >= distance
// Zero coefficients take the same defaults as AddCollisionBox
func (s *System) AddCollisionPlane(normal vmath.Vec3, distance, friction, bounce float64) *PlaneCollider {
	n, _ := vmath.Normalize(normal, vmath.UnitZ)
	friction, bounce = surface(friction, bounce)
	pl := &PlaneCollider{
		Normal:   n,
		Distance: distance,
		Friction: friction,
		Bounce:   bounce,
	}
	s.colliders = append(s.colliders, pl)
	return pl
}

// Colliders returns the static environment shapes
func (s *System) Colliders() []Collider {
	return s.colliders
}

// --- Simulation ---

// Update advances dt in substeps of integration + environment collision,
// then relaxes constraints. substeps < 1 uses the system default
func (s *System) Update(dt float64, substeps int) {
	if dt <= 0 {
		return
	}
	if substeps < 1 {
		substeps = s.Substeps
	}
	if substeps < 1 {
		substeps = 1
	}

	h := dt / float64(substeps)
	for range substeps {
		s.integrate(h)
		s.collide(h)
	}
	s.Relax(s.Iterations)
}

func (s *System) integrate(h float64) {
	keep := 1 - s.Damping
	for i := range s.points {
		p := &s.points[i]
		if p.Fixed {
			continue
		}
		p.Integrate(h, s.Gravity)
		if s.Damping > 0 {
			p.Previous = p.Position.Sub(p.Velocity().Mul(keep))
		}
	}
}

func (s *System) collide(h float64) {
	if len(s.colliders) == 0 {
		return
	}
	for i := range s.points {
		p := &s.points[i]
		if p.Fixed {
			continue
		}
		for _, c := range s.colliders {
			resolveContact(p, c, h)
		}
	}
}

// Relax runs Gauss-Seidel passes over all constraints
func (s *System) Relax(iterations int) {
	for range iterations {
		for _, c := range s.constraints {
			c.Solve(s.points)
		}
	}
}

// Reset drops every point, constraint and collider; all handles become invalid
func (s *System) Reset() {
	s.points = nil
	s.constraints = nil
	s.slotIDs = nil
	s.slots = make(map[ConstraintID]int)
	s.colliders = nil
}
