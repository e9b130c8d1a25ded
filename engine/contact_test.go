package engine

import (
	"math"
	"testing"

	"github.com/lixenwraith/verlet/collision"
	"github.com/lixenwraith/verlet/events"
	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/vmath"
)

func staticBody(id StaticID) collision.Body {
	return collision.MakeBody(collision.KindAABB, uint64(id))
}

// TestEntityCollisionSeparation verifies equal-mass overlap is split evenly and
// the pair produces begin then end events
func TestEntityCollisionSeparation(t *testing.T) {
	m, q := newTestManager(t, false)
	a := m.RegisterPhysicsEntity(1, vmath.Zero, 1, 1)
	b := m.RegisterPhysicsEntity(2, vmath.Vec3{1.5, 0, 0}, 1, 1)

	m.Update(parameter.FixedTimestep)

	if !vecNear(a.Position, vmath.Vec3{-0.25, 0, 0}, tol) {
		t.Errorf("Expected a at (-0.25,0,0), got %v", a.Position)
	}
	if !vecNear(b.Position, vmath.Vec3{1.75, 0, 0}, tol) {
		t.Errorf("Expected b at (1.75,0,0), got %v", b.Position)
	}
	if !m.Active(bodyOf(2), bodyOf(1)) {
		t.Error("Expected active contact")
	}

	begins := eventsOf(q.Consume(), events.EventContactBegin)
	if len(begins) != 1 {
		t.Fatalf("Expected 1 begin event, got %d", len(begins))
	}
	p := begins[0].Payload.(*events.ContactPayload)
	if p.A != bodyOf(1) || p.B != bodyOf(2) {
		t.Errorf("Expected ordered pair (1,2), got (%v,%v)", p.A, p.B)
	}
	if !vecNear(p.Normal, vmath.Vec3{-1, 0, 0}, tol) || math.Abs(p.Depth-0.5) > tol {
		t.Errorf("Expected normal -X depth 0.5, got %v %g", p.Normal, p.Depth)
	}
	if begins[0].Step != 1 {
		t.Errorf("Expected step 1, got %d", begins[0].Step)
	}

	m.Update(parameter.FixedTimestep)
	ends := eventsOf(q.Consume(), events.EventContactEnd)
	if len(ends) != 1 {
		t.Fatalf("Expected 1 end event, got %d", len(ends))
	}
	if m.Active(bodyOf(1), bodyOf(2)) {
		t.Error("Expected contact to end once separated")
	}
}

// TestEntityCollisionMassRatio verifies the lighter body takes the larger share
func TestEntityCollisionMassRatio(t *testing.T) {
	m, _ := newTestManager(t, false)
	heavy := m.RegisterPhysicsEntity(1, vmath.Zero, 1, 3)
	light := m.RegisterPhysicsEntity(2, vmath.Vec3{1.5, 0, 0}, 1, 1)

	m.Update(parameter.FixedTimestep)

	if !vecNear(heavy.Position, vmath.Vec3{-0.125, 0, 0}, tol) {
		t.Errorf("Expected heavy at -0.125, got %v", heavy.Position)
	}
	if !vecNear(light.Position, vmath.Vec3{1.875, 0, 0}, tol) {
		t.Errorf("Expected light at 1.875, got %v", light.Position)
	}
}

// TestEntityCollisionImpulse verifies the restitution impulse for approaching bodies
func TestEntityCollisionImpulse(t *testing.T) {
	m, q := newTestManager(t, false)
	a := m.RegisterPhysicsEntity(1, vmath.Zero, 1, 1)
	b := m.RegisterPhysicsEntity(2, vmath.Vec3{1.5, 0, 0}, 1, 1)
	a.Velocity = vmath.Vec3{1, 0, 0}
	b.Velocity = vmath.Vec3{-1, 0, 0}

	m.Update(parameter.FixedTimestep)

	// Closing speed 1.98 after damping, j = 1.3 * 1.98 / 2
	if !vecNear(a.Velocity, vmath.Vec3{-0.297, 0, 0}, tol) {
		t.Errorf("Expected a velocity -0.297, got %v", a.Velocity)
	}
	if !vecNear(b.Velocity, vmath.Vec3{0.297, 0, 0}, tol) {
		t.Errorf("Expected b velocity 0.297, got %v", b.Velocity)
	}

	begins := eventsOf(q.Consume(), events.EventContactBegin)
	if len(begins) != 1 {
		t.Fatalf("Expected 1 begin event, got %d", len(begins))
	}
	if speed := begins[0].Payload.(*events.ContactPayload).Speed; math.Abs(speed-1.98) > tol {
		t.Errorf("Expected closing speed 1.98, got %g", speed)
	}
}

// TestEntityCollisionSeparatingNoImpulse verifies receding bodies keep their velocity
func TestEntityCollisionSeparatingNoImpulse(t *testing.T) {
	m, _ := newTestManager(t, false)
	a := m.RegisterPhysicsEntity(1, vmath.Zero, 1, 1)
	b := m.RegisterPhysicsEntity(2, vmath.Vec3{1.5, 0, 0}, 1, 1)
	a.Velocity = vmath.Vec3{-1, 0, 0}
	b.Velocity = vmath.Vec3{1, 0, 0}

	m.Update(parameter.FixedTimestep)

	d := parameter.EntityDamping
	if !vecNear(a.Velocity, vmath.Vec3{-d, 0, 0}, tol) || !vecNear(b.Velocity, vmath.Vec3{d, 0, 0}, tol) {
		t.Errorf("Expected damped velocities only, got %v %v", a.Velocity, b.Velocity)
	}
}

// TestCoincidentEntities verifies the +X fallback direction
func TestCoincidentEntities(t *testing.T) {
	m, _ := newTestManager(t, false)
	a := m.RegisterPhysicsEntity(1, vmath.Zero, 1, 1)
	b := m.RegisterPhysicsEntity(2, vmath.Zero, 1, 1)

	m.Update(parameter.FixedTimestep)

	if !vecNear(a.Position, vmath.Vec3{1, 0, 0}, tol) || !vecNear(b.Position, vmath.Vec3{-1, 0, 0}, tol) {
		t.Errorf("Expected split along X, got %v %v", a.Position, b.Position)
	}
	for _, v := range []vmath.Vec3{a.Position, b.Position} {
		if math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2]) {
			t.Fatal("NaN after coincident contact")
		}
	}
}

// TestStaticBounce verifies push-out and friction-scaled reflection off a floor box
func TestStaticBounce(t *testing.T) {
	m, q := newTestManager(t, true)
	m.RegisterStaticObject(1, vmath.Vec3{0, 0, -0.5}, vmath.Vec3{10, 10, 1})
	e := m.RegisterPhysicsEntity(1, vmath.Vec3{0, 0, 0.4}, 0.5, 1)
	e.Velocity = vmath.Vec3{0, 0, -2}

	dt := parameter.FixedTimestep
	m.Update(dt)

	incoming := (-2 + parameter.GravityZ*dt) * parameter.EntityDamping
	if math.Abs(e.Position[2]-0.5) > tol {
		t.Errorf("Expected z 0.5 after push-out, got %g", e.Position[2])
	}
	if want := -incoming * parameter.StaticFriction; math.Abs(e.Velocity[2]-want) > tol {
		t.Errorf("Expected vz %g, got %g", want, e.Velocity[2])
	}

	begins := eventsOf(q.Consume(), events.EventContactBegin)
	if len(begins) != 1 {
		t.Fatalf("Expected 1 begin event, got %d", len(begins))
	}
	p := begins[0].Payload.(*events.ContactPayload)
	if p.A != bodyOf(1) || p.B != staticBody(1) {
		t.Errorf("Expected (entity, static) pair, got (%v,%v)", p.A, p.B)
	}
	if !vecNear(p.Normal, vmath.UnitZ, tol) {
		t.Errorf("Expected +Z normal, got %v", p.Normal)
	}
	if got := m.Registry().Ints.Get("physics.contacts.static").Load(); got != 1 {
		t.Errorf("Expected 1 static contact, got %d", got)
	}
}

// TestStaticInsideFallsBackUp verifies a centre inside the box exits along +Z
func TestStaticInsideFallsBackUp(t *testing.T) {
	m, _ := newTestManager(t, false)
	m.RegisterStaticObject(1, vmath.Vec3{0, 0, -0.5}, vmath.Vec3{10, 10, 1})
	e := m.RegisterPhysicsEntity(1, vmath.Vec3{0, 0, -0.5}, 0.5, 1)

	m.Update(parameter.FixedTimestep)

	if !vecNear(e.Position, vmath.Vec3{0, 0, 0}, tol) {
		t.Errorf("Expected push to (0,0,0), got %v", e.Position)
	}
}

// TestVerletColliderStatic verifies a falling point collider is lifted out of a box
func TestVerletColliderStatic(t *testing.T) {
	m, _ := newTestManager(t, true)
	m.RegisterStaticObject(1, vmath.Vec3{0, 0, -0.5}, vmath.Vec3{10, 10, 1})
	p := m.Verlet().AddPoint(vmath.Vec3{0, 0, 0.05}, 1, false)
	if !m.AddVerletCollider(p, 0.1) {
		t.Fatal("AddVerletCollider failed")
	}

	m.Update(parameter.FixedTimestep)

	if z := m.Verlet().Position(p)[2]; math.Abs(z-0.1) > tol {
		t.Errorf("Expected z 0.1, got %g", z)
	}
	pointBody := collision.MakeBody(collision.KindPoint, uint64(p))
	if !m.Active(staticBody(1), pointBody) {
		t.Error("Expected static/point contact")
	}
	if got := m.Registry().Ints.Get("physics.contacts.verlet").Load(); got != 1 {
		t.Errorf("Expected 1 verlet contact, got %d", got)
	}
}

// TestVerletColliderEntity verifies a point is pushed off an entity and the
// entity stays put
func TestVerletColliderEntity(t *testing.T) {
	m, q := newTestManager(t, false)
	e := m.RegisterPhysicsEntity(1, vmath.Zero, 1, 1)
	p := m.Verlet().AddPoint(vmath.Vec3{0.5, 0, 0}, 1, false)
	m.AddVerletCollider(p, 0.1)

	m.Update(parameter.FixedTimestep)

	if got := m.Verlet().Position(p); !vecNear(got, vmath.Vec3{1.1, 0, 0}, tol) {
		t.Errorf("Expected point at (1.1,0,0), got %v", got)
	}
	if !vecNear(e.Position, vmath.Zero, tol) {
		t.Errorf("Expected entity unmoved, got %v", e.Position)
	}

	begins := eventsOf(q.Consume(), events.EventContactBegin)
	if len(begins) != 1 {
		t.Fatalf("Expected 1 begin event, got %d", len(begins))
	}
	pl := begins[0].Payload.(*events.ContactPayload)
	if pl.A != bodyOf(1) {
		t.Errorf("Expected entity as A, got %v", pl.A)
	}
	if !vecNear(pl.Normal, vmath.Vec3{-1, 0, 0}, tol) {
		t.Errorf("Expected normal from point toward entity, got %v", pl.Normal)
	}
}

// TestVerletColliderPinned verifies fixed points are tracked but never pushed
func TestVerletColliderPinned(t *testing.T) {
	m, q := newTestManager(t, false)
	m.RegisterPhysicsEntity(1, vmath.Zero, 1, 1)
	p := m.Verlet().AddPoint(vmath.Vec3{0.5, 0, 0}, 1, true)
	m.AddVerletCollider(p, 0.1)

	m.Update(parameter.FixedTimestep)

	if got := m.Verlet().Position(p); !vecNear(got, vmath.Vec3{0.5, 0, 0}, tol) {
		t.Errorf("Expected pinned point unmoved, got %v", got)
	}
	if len(m.VerletColliders()) != 1 {
		t.Errorf("Expected 1 collider, got %d", len(m.VerletColliders()))
	}

	pointBody := collision.MakeBody(collision.KindPoint, uint64(p))
	if !m.Active(bodyOf(1), pointBody) {
		t.Error("Expected pinned point contact to be active")
	}
	begins := eventsOf(q.Consume(), events.EventContactBegin)
	if len(begins) != 1 {
		t.Fatalf("Expected 1 begin event, got %d", len(begins))
	}
	pl := begins[0].Payload.(*events.ContactPayload)
	if pl.A != bodyOf(1) || pl.B != pointBody {
		t.Errorf("Expected pair (entity, point), got (%v,%v)", pl.A, pl.B)
	}
	if math.Abs(pl.Depth-0.6) > tol {
		t.Errorf("Expected depth 0.6, got %g", pl.Depth)
	}

	// Still overlapping next step: no new begin, no end
	m.Update(parameter.FixedTimestep)
	evs := q.Consume()
	if n := len(eventsOf(evs, events.EventContactBegin)) + len(eventsOf(evs, events.EventContactEnd)); n != 0 {
		t.Errorf("Expected no contact events while resting, got %d", n)
	}
}

// TestLevelSizedFloor verifies a huge static box registers without filling the
// grid and still supports entities and rays anywhere on it
func TestLevelSizedFloor(t *testing.T) {
	m, _ := newTestManager(t, true)
	m.RegisterStaticObject(1, vmath.Vec3{0, 0, -0.5}, vmath.Vec3{10000, 10000, 1})
	e := m.RegisterPhysicsEntity(1, vmath.Vec3{3000, -2000, 0.4}, 0.5, 1)

	if !m.Grid().Oversized(staticBody(1)) {
		t.Fatal("Expected floor kept off the cells")
	}
	if n := m.Grid().CellCount(); n > 8 {
		t.Errorf("Expected only the entity's cells, got %d", n)
	}

	m.Update(parameter.FixedTimestep)
	if math.Abs(e.Position[2]-0.5) > tol {
		t.Errorf("Expected z 0.5 after push-out, got %g", e.Position[2])
	}
	if !m.Active(bodyOf(1), staticBody(1)) {
		t.Error("Expected entity/floor contact")
	}

	hit, ok := m.RayCast(vmath.Vec3{-4000, 100, 10}, vmath.Vec3{0, 0, -1}, 0)
	if !ok || hit.Body != staticBody(1) || math.Abs(hit.Distance-10) > tol {
		t.Errorf("Expected floor hit at 10, got %v %v", hit, ok)
	}

	if !m.RemoveStatic(1) || m.Grid().Contains(staticBody(1)) {
		t.Error("Expected floor removed from the grid")
	}
}
