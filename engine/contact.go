package engine

import (
	"cmp"
	"slices"

	"github.com/lixenwraith/verlet/collision"
	"github.com/lixenwraith/verlet/events"
	"github.com/lixenwraith/verlet/vmath"
)

// pairKey orders a body pair so that A < B
type pairKey struct {
	A, B collision.Body
}

func comparePairs(x, y pairKey) int {
	if c := cmp.Compare(x.A, y.A); c != 0 {
		return c
	}
	return cmp.Compare(x.B, y.B)
}

// contactState is one touching pair; Normal points from B toward A
type contactState struct {
	normal vmath.Vec3
	depth  float64
	speed  float64
}

// contactSet double-buffers contact pairs so each step can be diffed against the last
type contactSet struct {
	prev map[pairKey]contactState
	curr map[pairKey]contactState
	keys []pairKey
}

func newContactSet() *contactSet {
	return &contactSet{
		prev: make(map[pairKey]contactState),
		curr: make(map[pairKey]contactState),
	}
}

// begin rotates the buffers; the last step's pairs become prev
func (cs *contactSet) begin() {
	cs.prev, cs.curr = cs.curr, cs.prev
	clear(cs.curr)
}

// record stores a contact where normal points from b toward a
func (cs *contactSet) record(a, b collision.Body, normal vmath.Vec3, depth, speed float64) {
	if b < a {
		a, b = b, a
		normal = normal.Mul(-1)
	}
	cs.curr[pairKey{A: a, B: b}] = contactState{normal: normal, depth: depth, speed: max(speed, 0)}
}

// Active reports whether a and b touched during the last step
func (m *Manager) Active(a, b collision.Body) bool {
	if b < a {
		a, b = b, a
	}
	_, ok := m.contacts.curr[pairKey{A: a, B: b}]
	return ok
}

// ContactCount returns the number of pairs touching during the last step
func (m *Manager) ContactCount() int {
	return len(m.contacts.curr)
}

// emitContacts pushes begin events for new pairs, then end events for pairs
// that separated, each group in body order
func (m *Manager) emitContacts() {
	cs := m.contacts

	cs.keys = cs.keys[:0]
	for k := range cs.curr {
		if _, was := cs.prev[k]; !was {
			cs.keys = append(cs.keys, k)
		}
	}
	slices.SortFunc(cs.keys, comparePairs)
	for _, k := range cs.keys {
		c := cs.curr[k]
		m.push(events.EventContactBegin, &events.ContactPayload{
			A: k.A, B: k.B, Normal: c.normal, Depth: c.depth, Speed: c.speed,
		})
	}

	cs.keys = cs.keys[:0]
	for k := range cs.prev {
		if _, still := cs.curr[k]; !still {
			cs.keys = append(cs.keys, k)
		}
	}
	slices.SortFunc(cs.keys, comparePairs)
	for _, k := range cs.keys {
		m.push(events.EventContactEnd, &events.ContactPayload{A: k.A, B: k.B})
	}
}

// resolveEntityCollisions separates overlapping entity pairs by mass ratio and
// exchanges a restitution impulse when they approach. Each pair is handled once
func (m *Manager) resolveEntityCollisions() int {
	hits := 0
	restitution := m.cfg.EntityRestitution

	for _, id := range m.order {
		e := m.entities[id]
		for _, b := range m.grid.PotentialCollisions(e.body()) {
			if b.Kind() != collision.KindCircle || EntityID(b.ID()) <= id {
				continue
			}
			o, ok := m.entities[EntityID(b.ID())]
			if !ok {
				continue
			}
			c, ok := collision.Test(e.shape(), o.shape())
			if !ok {
				continue
			}

			total := e.Mass + o.Mass
			e.Position = e.Position.Add(c.Normal.Mul(c.Depth * o.Mass / total))
			o.Position = o.Position.Sub(c.Normal.Mul(c.Depth * e.Mass / total))

			vn := e.Velocity.Sub(o.Velocity).Dot(c.Normal)
			if vn < 0 {
				j := -(1 + restitution) * vn / total
				impulse := c.Normal.Mul(j)
				e.Velocity = e.Velocity.Add(impulse.Mul(o.Mass))
				o.Velocity = o.Velocity.Sub(impulse.Mul(e.Mass))
			}

			m.contacts.record(e.body(), o.body(), c.Normal, c.Depth, -vn)
			hits++
		}
	}

	if hits > 0 {
		m.refreshEntityCells()
	}
	return hits
}

// resolveStaticCollisions pushes entities out of static boxes along the
// closest-point normal and reflects approaching velocity scaled by friction
func (m *Manager) resolveStaticCollisions() int {
	hits := 0
	friction := m.cfg.StaticFriction

	for _, id := range m.order {
		e := m.entities[id]
		for _, b := range m.grid.PotentialCollisions(e.body()) {
			if b.Kind() != collision.KindAABB {
				continue
			}
			s, ok := m.statics[StaticID(b.ID())]
			if !ok {
				continue
			}
			c, ok := collision.Test(e.shape(), s.shape())
			if !ok {
				continue
			}

			e.Position = e.Position.Add(c.Normal.Mul(c.Depth))
			dot := e.Velocity.Dot(c.Normal)
			if dot < 0 {
				e.Velocity = e.Velocity.Sub(c.Normal.Mul(2 * dot)).Mul(friction)
			}

			m.contacts.record(e.body(), s.body(), c.Normal, c.Depth, -dot)
			hits++
		}
	}

	if hits > 0 {
		m.refreshEntityCells()
	}
	return hits
}

// resolveVerletColliders moves each registered point to its current cell and
// pushes free points out of entities and static boxes. Only the position moves,
// so the push also feeds the point's implicit velocity. Fixed points record
// their contacts but stay where they are
func (m *Manager) resolveVerletColliders(dt float64) int {
	hits := 0
	substep := dt / float64(max(m.verlet.Substeps, 1))

	for _, vc := range m.colliders {
		p := m.verlet.Point(vc.Point)
		if p == nil {
			continue
		}
		body := vc.body()
		m.grid.Update(body, p.Position, vc.Radius)

		var velocity vmath.Vec3
		if !p.Fixed {
			velocity = p.Velocity().Mul(1 / substep)
		}
		for _, b := range m.grid.PotentialCollisions(body) {
			var (
				other  collision.Shape
				relVel = velocity
			)
			switch b.Kind() {
			case collision.KindCircle:
				e, ok := m.entities[EntityID(b.ID())]
				if !ok {
					continue
				}
				other = e.shape()
				relVel = velocity.Sub(e.Velocity)
			case collision.KindAABB:
				s, ok := m.statics[StaticID(b.ID())]
				if !ok {
					continue
				}
				other = s.shape()
			default:
				continue
			}

			c, ok := collision.Test(collision.Point(p.Position, vc.Radius), other)
			if !ok {
				continue
			}
			if !p.Fixed {
				p.Position = p.Position.Add(c.Normal.Mul(c.Depth))
			}
			m.contacts.record(body, b, c.Normal, c.Depth, -relVel.Dot(c.Normal))
			hits++
		}
		if !p.Fixed {
			m.grid.Update(body, p.Position, vc.Radius)
		}
	}
	return hits
}

func (m *Manager) refreshEntityCells() {
	for _, id := range m.order {
		e := m.entities[id]
		m.grid.Update(e.body(), e.Position, e.Radius)
	}
}
