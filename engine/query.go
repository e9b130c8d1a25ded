package engine

import (
	"math"

	"github.com/lixenwraith/verlet/collision"
	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/vmath"
)

// RayHit is the nearest body crossed by a ray
type RayHit struct {
	collision.Hit
	Body collision.Body
}

// RayCast finds the nearest entity or static box along dir within maxDist
// maxDist <= 0 uses DefaultRayDistance. Bodies containing origin are skipped
func (m *Manager) RayCast(origin, dir vmath.Vec3, maxDist float64) (RayHit, bool) {
	if dir.LenSqr() < parameter.MinRayDirectionSq {
		return RayHit{}, false
	}
	if !(maxDist > 0) || math.IsInf(maxDist, 0) {
		maxDist = parameter.DefaultRayDistance
	}
	ray, ok := collision.NewRay(origin, dir)
	if !ok {
		return RayHit{}, false
	}

	end := ray.At(maxDist)
	bounds := collision.AABB{Min: vmath.MinVec(origin, end), Max: vmath.MaxVec(origin, end)}

	var (
		best  RayHit
		found bool
	)
	for _, b := range m.grid.Query(bounds) {
		var shape collision.Shape
		switch b.Kind() {
		case collision.KindCircle:
			e, ok := m.entities[EntityID(b.ID())]
			if !ok {
				continue
			}
			shape = e.shape()
		case collision.KindAABB:
			s, ok := m.statics[StaticID(b.ID())]
			if !ok {
				continue
			}
			shape = s.shape()
		default:
			continue
		}

		hit, ok := collision.Cast(ray, shape, maxDist)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = RayHit{Hit: hit, Body: b}
			found = true
		}
	}
	return best, found
}

// Nearby returns every body whose cells lie within radius of pos, in body order
func (m *Manager) Nearby(pos vmath.Vec3, radius float64) []collision.Body {
	return m.grid.Nearby(pos, radius)
}
