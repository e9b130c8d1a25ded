package cloth

import "github.com/lixenwraith/verlet/vmath"

// Mesh is a triangle snapshot of a cloth for renderers
// Vertex order matches Cloth.Points
type Mesh struct {
	Vertices []vmath.Vec3
	Normals  []vmath.Vec3
	UVs      [][2]float64
	Indices  []uint32
}

var edgeNormal = vmath.UnitY

// Mesh snapshots the current positions of h
// Normals are the cross of the right and down neighbours; the last row and
// column use a fixed forward normal. Torn links do not remove triangles
func (s *System) Mesh(h Handle) (Mesh, bool) {
	c, ok := s.Cloth(h)
	if !ok {
		return Mesh{}, false
	}

	n := c.Rows * c.Cols
	m := Mesh{
		Vertices: make([]vmath.Vec3, n),
		Normals:  make([]vmath.Vec3, n),
		UVs:      make([][2]float64, n),
		Indices:  make([]uint32, 0, 6*(c.Rows-1)*(c.Cols-1)),
	}

	for i, id := range c.Points {
		m.Vertices[i] = s.verlet.Position(id)
	}

	for r := 0; r < c.Rows; r++ {
		for col := 0; col < c.Cols; col++ {
			i := r*c.Cols + col
			m.UVs[i] = [2]float64{
				float64(col) / float64(c.Cols-1),
				1 - float64(r)/float64(c.Rows-1),
			}
			if r == c.Rows-1 || col == c.Cols-1 {
				m.Normals[i] = edgeNormal
				continue
			}
			p0 := m.Vertices[i]
			right := m.Vertices[i+1].Sub(p0)
			down := m.Vertices[i+c.Cols].Sub(p0)
			m.Normals[i], _ = vmath.Normalize(right.Cross(down), edgeNormal)
		}
	}

	cols := uint32(c.Cols)
	for r := uint32(0); r < uint32(c.Rows-1); r++ {
		for col := uint32(0); col < cols-1; col++ {
			i0 := r*cols + col
			i1 := i0 + 1
			i2 := i0 + cols
			i3 := i2 + 1
			m.Indices = append(m.Indices, i0, i2, i1, i1, i2, i3)
		}
	}
	return m, true
}
