package render

import (
	"math"

	"github.com/lixenwraith/verlet/vmath"
)

// CellAspect is the height-to-width ratio of a terminal cell
const CellAspect = 2.0

// Camera is an orthographic side view: world X runs right, world Z runs up,
// world Y is depth and is dropped
type Camera struct {
	Center vmath.Vec3
	Scale  float64 // columns per world unit
	Width  int
	Height int
}

// Project maps a world point to a cell
func (c Camera) Project(p vmath.Vec3) (int, int) {
	x := (p[0]-c.Center[0])*c.Scale + float64(c.Width)/2
	y := -(p[2]-c.Center[2])*c.Scale/CellAspect + float64(c.Height)/2
	return int(math.Floor(x)), int(math.Floor(y))
}

// Unproject maps a cell centre back onto the Y = Center.Y plane
func (c Camera) Unproject(x, y int) vmath.Vec3 {
	if c.Scale == 0 {
		return c.Center
	}
	wx := (float64(x)+0.5-float64(c.Width)/2)/c.Scale + c.Center[0]
	wz := -(float64(y)+0.5-float64(c.Height)/2)*CellAspect/c.Scale + c.Center[2]
	return vmath.Vec3{wx, c.Center[1], wz}
}

// Cells converts a world length into a column count
func (c Camera) Cells(length float64) float64 {
	return length * c.Scale
}
