package engine

import (
	"log"
	"math"
	"slices"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lixenwraith/verlet/cloth"
	"github.com/lixenwraith/verlet/collision"
	"github.com/lixenwraith/verlet/events"
	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/physics"
	"github.com/lixenwraith/verlet/status"
	"github.com/lixenwraith/verlet/vmath"
)

// Manager drives rigid entities, the Verlet system and cloth on a fixed timestep
// Single-threaded: Update and every mutator must run on the same goroutine.
// Metrics and the event queue are the only state safe to read concurrently
type Manager struct {
	cfg parameter.Config

	verlet *physics.System
	cloth  *cloth.System
	grid   *collision.SpatialGrid[collision.Body]

	// Maps plus sorted id slices keep per-step iteration order deterministic
	entities    map[EntityID]*Entity
	order       []EntityID
	statics     map[StaticID]*Static
	staticOrder []StaticID
	colliders   []VerletCollider
	spheres     []sphereBinding

	accumulator float64
	stepCount   uint64

	contacts *contactSet
	queue    *events.EventQueue

	// Cached metric pointers
	statusReg       *status.Registry
	statSteps       *atomic.Int64
	statCatchUp     *atomic.Int64
	statEntityHits  *atomic.Int64
	statStaticHits  *atomic.Int64
	statVerletHits  *atomic.Int64
	statPoints      *atomic.Int64
	statConstraints *atomic.Int64
	statEntities    *atomic.Int64
	statAccumulator *status.AtomicFloat
}

// sphereBinding keeps a cloth collision sphere centred on an entity
type sphereBinding struct {
	entity EntityID
	sphere int
}

// NewManager validates cfg and builds an empty world
// queue may be nil to disable events; reg may be nil for a private registry
func NewManager(cfg parameter.Config, queue *events.EventQueue, reg *status.Registry) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "new physics manager")
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	v := physics.NewSystem()
	v.SetGravity(cfg.GravityVec())
	v.Damping = cfg.VerletDamping
	v.Substeps = cfg.VerletSubsteps
	v.Iterations = cfg.RelaxationIterations

	c := cloth.NewSystem(v)
	c.SetWind(vmath.Vec3(cfg.Wind.Direction), cfg.Wind.Strength, cfg.Wind.Turbulence)

	return &Manager{
		cfg:             cfg,
		verlet:          v,
		cloth:           c,
		grid:            collision.NewSpatialGrid[collision.Body](cfg.GridCellSize),
		entities:        make(map[EntityID]*Entity),
		statics:         make(map[StaticID]*Static),
		contacts:        newContactSet(),
		queue:           queue,
		statusReg:       reg,
		statSteps:       reg.Ints.Get("physics.steps"),
		statCatchUp:     reg.Ints.Get("physics.catchup"),
		statEntityHits:  reg.Ints.Get("physics.contacts.entity"),
		statStaticHits:  reg.Ints.Get("physics.contacts.static"),
		statVerletHits:  reg.Ints.Get("physics.contacts.verlet"),
		statPoints:      reg.Ints.Get("physics.points"),
		statConstraints: reg.Ints.Get("physics.constraints"),
		statEntities:    reg.Ints.Get("physics.entities"),
		statAccumulator: reg.Floats.Get("physics.accumulator"),
	}, nil
}

// Config returns the active configuration
func (m *Manager) Config() parameter.Config { return m.cfg }

// Verlet returns the owned Verlet system
func (m *Manager) Verlet() *physics.System { return m.verlet }

// Cloth returns the owned cloth system
func (m *Manager) Cloth() *cloth.System { return m.cloth }

// Grid exposes the shared broad phase for read-only queries
func (m *Manager) Grid() *collision.SpatialGrid[collision.Body] { return m.grid }

// Registry returns the metric registry the manager writes to
func (m *Manager) Registry() *status.Registry { return m.statusReg }

// Accumulator returns the carried time remainder in seconds
func (m *Manager) Accumulator() float64 { return m.accumulator }

// StepCount returns the number of steps run since creation or Clear
func (m *Manager) StepCount() uint64 { return m.stepCount }

// SetGravity replaces gravity for entities and Verlet points
func (m *Manager) SetGravity(g vmath.Vec3) {
	m.cfg.Gravity = g
	m.verlet.SetGravity(g)
}

// SetWind forwards to the cloth system
func (m *Manager) SetWind(direction vmath.Vec3, strength, turbulence float64) {
	m.cloth.SetWind(direction, strength, turbulence)
}

// --- Entities ---

// RegisterPhysicsEntity adds or replaces a rigid sphere at rest
// mass <= 0 falls back to DefaultEntityMass. Ids above collision.MaxBodyID yield nil
func (m *Manager) RegisterPhysicsEntity(id EntityID, pos vmath.Vec3, radius, mass float64) *Entity {
	if id > collision.MaxBodyID {
		log.Printf("physics: entity id %d out of range", id)
		return nil
	}
	if !(mass > 0) {
		mass = parameter.DefaultEntityMass
	}
	e := &Entity{
		ID:       id,
		Position: pos,
		Radius:   math.Abs(radius),
		Mass:     mass,
	}
	if _, exists := m.entities[id]; !exists {
		idx, _ := slices.BinarySearch(m.order, id)
		m.order = slices.Insert(m.order, idx, id)
	}
	m.entities[id] = e
	m.grid.Add(e.body(), e.Position, e.Radius)
	m.statEntities.Store(int64(len(m.entities)))
	return e
}

// RemoveEntity drops an entity and its grid placement; its rig points stay in the Verlet arena
func (m *Manager) RemoveEntity(id EntityID) bool {
	e, ok := m.entities[id]
	if !ok {
		return false
	}
	m.grid.Remove(e.body())
	delete(m.entities, id)
	if idx, found := slices.BinarySearch(m.order, id); found {
		m.order = slices.Delete(m.order, idx, idx+1)
	}
	m.spheres = slices.DeleteFunc(m.spheres, func(b sphereBinding) bool { return b.entity == id })
	m.statEntities.Store(int64(len(m.entities)))
	return true
}

// Entity returns the live entity for id
func (m *Manager) Entity(id EntityID) (*Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// EntityCount returns the number of registered entities
func (m *Manager) EntityCount() int {
	return len(m.entities)
}

// ApplyForce adds force to an entity. duration <= 0 is an instantaneous
// impulse (velocity += force/mass); otherwise the force acts every step for duration.
// A bound rig root receives the same force. False for unknown ids
func (m *Manager) ApplyForce(id EntityID, force vmath.Vec3, duration float64) bool {
	e, ok := m.entities[id]
	if !ok {
		log.Printf("physics: apply force to unknown entity %d", id)
		return false
	}
	if duration <= 0 {
		e.Velocity = e.Velocity.Add(force.Mul(1 / e.Mass))
	} else {
		e.forces = append(e.forces, timedForce{force: force, remaining: duration})
	}
	if root := e.rig.RootPoint(); root != physics.InvalidPoint {
		m.verlet.ApplyForce(root, force)
	}
	return true
}

// --- Statics ---

// RegisterStaticObject adds or replaces a static box centred on pos
// Ids above collision.MaxBodyID yield nil
func (m *Manager) RegisterStaticObject(id StaticID, pos, size vmath.Vec3) *Static {
	if id > collision.MaxBodyID {
		log.Printf("physics: static id %d out of range", id)
		return nil
	}
	s := &Static{ID: id, Position: pos, Size: size}
	if _, exists := m.statics[id]; !exists {
		idx, _ := slices.BinarySearch(m.staticOrder, id)
		m.staticOrder = slices.Insert(m.staticOrder, idx, id)
	}
	m.statics[id] = s
	m.grid.Insert(s.body(), s.shape().Bounds())
	return s
}

// RemoveStatic drops a static box
func (m *Manager) RemoveStatic(id StaticID) bool {
	s, ok := m.statics[id]
	if !ok {
		return false
	}
	m.grid.Remove(s.body())
	delete(m.statics, id)
	if idx, found := slices.BinarySearch(m.staticOrder, id); found {
		m.staticOrder = slices.Delete(m.staticOrder, idx, idx+1)
	}
	return true
}

// Static returns the static box for id
func (m *Manager) Static(id StaticID) (*Static, bool) {
	s, ok := m.statics[id]
	return s, ok
}

// StaticCount returns the number of static boxes
func (m *Manager) StaticCount() int {
	return len(m.statics)
}

// --- Verlet colliders ---

// AddVerletCollider enters a Verlet point into the shared broad phase with
// radius; each step it is pushed out of entities and static boxes.
// Re-adding a point updates its radius. False for unknown points
func (m *Manager) AddVerletCollider(point physics.PointID, radius float64) bool {
	p := m.verlet.Point(point)
	if p == nil {
		log.Printf("physics: verlet collider for unknown point %d", point)
		return false
	}
	vc := VerletCollider{Point: point, Radius: math.Abs(radius)}
	idx, found := slices.BinarySearchFunc(m.colliders, point, func(c VerletCollider, id physics.PointID) int {
		return int(c.Point) - int(id)
	})
	if found {
		m.colliders[idx] = vc
	} else {
		m.colliders = slices.Insert(m.colliders, idx, vc)
	}
	m.grid.Add(vc.body(), p.Position, vc.Radius)
	return true
}

// VerletColliders returns the registered point colliders ordered by point
func (m *Manager) VerletColliders() []VerletCollider {
	return m.colliders
}

// BindClothSphere adds a cloth collision sphere that follows an entity
// Returns the sphere index; false for unknown entities
func (m *Manager) BindClothSphere(id EntityID) (int, bool) {
	e, ok := m.entities[id]
	if !ok {
		log.Printf("physics: cloth sphere for unknown entity %d", id)
		return 0, false
	}
	i := m.cloth.AddCollisionSphere(e.Position, e.Radius)
	m.spheres = append(m.spheres, sphereBinding{entity: id, sphere: i})
	return i, true
}

// --- Simulation ---

// Update feeds dt into the accumulator and runs whole fixed steps, at most
// MaxStepsPerFrame. Time still owed beyond one step at the cap is consumed by a
// single oversized catch-up step. Returns the number of steps run
func (m *Manager) Update(dt float64) int {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0
	}

	fixed := m.cfg.FixedTimestep
	m.accumulator += dt

	steps := 0
	for m.accumulator+parameter.StepTolerance >= fixed && steps < m.cfg.MaxStepsPerFrame {
		m.stepFixed(fixed)
		m.accumulator -= fixed
		steps++
	}
	if m.accumulator < 0 {
		m.accumulator = 0
	}

	if steps >= m.cfg.MaxStepsPerFrame && m.accumulator > fixed+parameter.StepTolerance {
		catchUp := m.accumulator
		log.Printf("physics: step cap reached, catch-up step of %.4fs", catchUp)
		m.stepFixed(catchUp)
		m.accumulator = 0
		steps++
		m.statCatchUp.Add(1)
		m.push(events.EventCatchUp, &events.CatchUpPayload{Dt: catchUp})
	}

	m.statAccumulator.Set(m.accumulator)
	return steps
}

// stepFixed runs one step in a fixed order: entities, Verlet, cloth,
// entity-entity, entity-static, Verlet colliders, contact events
func (m *Manager) stepFixed(dt float64) {
	m.stepCount++

	gravity := m.cfg.GravityVec()
	for _, id := range m.order {
		e := m.entities[id]
		e.integrate(dt, gravity, m.cfg.EntityDamping)
		m.grid.Update(e.body(), e.Position, e.Radius)
		m.syncRig(e)
	}

	m.verlet.Update(dt, m.cfg.VerletSubsteps)

	for _, b := range m.spheres {
		m.cloth.MoveCollisionSphere(b.sphere, m.entities[b.entity].Position)
	}
	m.cloth.Update(dt)

	m.contacts.begin()
	entityHits := m.resolveEntityCollisions()
	staticHits := m.resolveStaticCollisions()
	verletHits := m.resolveVerletColliders(dt)
	m.emitContacts()

	m.statSteps.Add(1)
	m.statEntityHits.Store(int64(entityHits))
	m.statStaticHits.Store(int64(staticHits))
	m.statVerletHits.Store(int64(verletHits))
	m.statPoints.Store(int64(m.verlet.PointCount()))
	m.statConstraints.Store(int64(m.verlet.ConstraintCount()))
}

// Clear drops every entity, static, collider, cloth and Verlet point
// Configuration and metric registrations survive
func (m *Manager) Clear() {
	clear(m.entities)
	clear(m.statics)
	m.order = m.order[:0]
	m.staticOrder = m.staticOrder[:0]
	m.colliders = nil
	m.spheres = nil
	m.grid.Clear()
	m.verlet.Reset()
	m.cloth.Reset()
	m.contacts = newContactSet()
	m.accumulator = 0
	m.stepCount = 0

	m.statEntities.Store(0)
	m.statPoints.Store(0)
	m.statConstraints.Store(0)
	m.statAccumulator.Set(0)
}

func (m *Manager) push(t events.EventType, payload any) {
	if m.queue == nil {
		return
	}
	m.queue.Push(events.Event{Type: t, Payload: payload, Step: m.stepCount})
}
