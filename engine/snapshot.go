package engine

import (
	"github.com/lixenwraith/verlet/collision"
	"github.com/lixenwraith/verlet/physics"
	"github.com/lixenwraith/verlet/vmath"
)

// Link is a distance constraint's endpoints plus its relative stretch
// Strain is (length - rest) / rest, 0 for zero rest length
type Link struct {
	A, B   vmath.Vec3
	Strain float64
}

// Sphere is a drawable centre and radius
type Sphere struct {
	Center vmath.Vec3
	Radius float64
}

// Snapshot is a read-only copy of everything a debug renderer draws
// Slices are reused across Snapshot calls on the same value
type Snapshot struct {
	Step       uint64
	Points     []vmath.Vec3
	Pinned     []bool
	Links      []Link
	Entities   []Sphere
	Velocities []vmath.Vec3
	Boxes      []collision.AABB
	Colliders  []Sphere
}

// Snapshot copies current state into dst, reusing its storage
func (m *Manager) Snapshot(dst *Snapshot) {
	dst.Step = m.stepCount

	points := m.verlet.Points()
	dst.Points = dst.Points[:0]
	dst.Pinned = dst.Pinned[:0]
	for i := range points {
		dst.Points = append(dst.Points, points[i].Position)
		dst.Pinned = append(dst.Pinned, points[i].Fixed)
	}

	dst.Links = dst.Links[:0]
	m.verlet.ForEachConstraint(func(_ physics.ConstraintID, c physics.Constraint) {
		d, ok := c.(*physics.DistanceConstraint)
		if !ok {
			return
		}
		l := Link{A: points[d.A].Position, B: points[d.B].Position}
		if d.RestLength > 0 {
			l.Strain = (d.Current(points) - d.RestLength) / d.RestLength
		}
		dst.Links = append(dst.Links, l)
	})

	dst.Entities = dst.Entities[:0]
	dst.Velocities = dst.Velocities[:0]
	for _, id := range m.order {
		e := m.entities[id]
		dst.Entities = append(dst.Entities, Sphere{Center: e.Position, Radius: e.Radius})
		dst.Velocities = append(dst.Velocities, e.Velocity)
	}

	dst.Boxes = dst.Boxes[:0]
	for _, id := range m.staticOrder {
		dst.Boxes = append(dst.Boxes, m.statics[id].shape().Box)
	}
	for _, c := range m.verlet.Colliders() {
		if b, ok := c.(*physics.BoxCollider); ok {
			dst.Boxes = append(dst.Boxes, collision.AABB{Min: b.Min, Max: b.Max})
		}
	}

	dst.Colliders = dst.Colliders[:0]
	for _, vc := range m.colliders {
		p := m.verlet.Point(vc.Point)
		if p == nil {
			continue
		}
		dst.Colliders = append(dst.Colliders, Sphere{Center: p.Position, Radius: vc.Radius})
	}
	for _, s := range m.cloth.Spheres() {
		dst.Colliders = append(dst.Colliders, Sphere{Center: s.Center, Radius: s.Radius})
	}
}
