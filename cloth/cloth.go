package cloth

import (
	"github.com/lixenwraith/verlet/physics"
	"github.com/lixenwraith/verlet/vmath"
)

// Handle identifies a cloth inside its System
type Handle int32

// Link is one structural or shear constraint of a cloth grid
// Torn links no longer exist in the Verlet system
type Link struct {
	A, B PointID
	ID   physics.ConstraintID
	Torn bool
}

// PointID is re-exported for brevity in cloth call sites
type PointID = physics.PointID

// Cloth is the typed topology of one grid; positions live in the Verlet arena
type Cloth struct {
	Rows, Cols    int
	Width, Height float64
	Origin        vmath.Vec3

	// Points is row-major: Points[r*Cols+c]
	Points []PointID

	// Horizontal[r*(Cols-1)+c] links (r,c)-(r,c+1)
	Horizontal []Link
	// Vertical[c*(Rows-1)+r] links (r,c)-(r+1,c)
	Vertical []Link
	// Diagonal[(r*(Cols-1)+c)*2] links (r,c)-(r+1,c+1), +1 links (r,c+1)-(r+1,c)
	Diagonal []Link

	detached bool
}

// Detached reports whether the cloth lost its points to a Verlet reset
// Detached cloths are skipped by wind, sphere collision and tearing
func (c *Cloth) Detached() bool {
	return c.detached
}

// At returns the point at row r, column c
func (c *Cloth) At(r, col int) PointID {
	if r < 0 || r >= c.Rows || col < 0 || col >= c.Cols {
		return physics.InvalidPoint
	}
	return c.Points[r*c.Cols+col]
}

// LiveLinks counts links not yet torn
func (c *Cloth) LiveLinks() int {
	n := 0
	for _, family := range [][]Link{c.Horizontal, c.Vertical, c.Diagonal} {
		for i := range family {
			if !family[i].Torn {
				n++
			}
		}
	}
	return n
}

// ForEachLink visits every live link across all families
func (c *Cloth) ForEachLink(fn func(l Link)) {
	for _, family := range [][]Link{c.Horizontal, c.Vertical, c.Diagonal} {
		for i := range family {
			if !family[i].Torn {
				fn(family[i])
			}
		}
	}
}
