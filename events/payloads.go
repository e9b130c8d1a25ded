package events

import (
	"github.com/lixenwraith/verlet/collision"
	"github.com/lixenwraith/verlet/vmath"
)

// ContactPayload identifies a touching pair; A < B
// Normal points from B toward A and Speed is the closing speed along it,
// both zero on EventContactEnd
type ContactPayload struct {
	A, B   collision.Body
	Normal vmath.Vec3
	Depth  float64
	Speed  float64
}

// ClothTornPayload reports a tear
type ClothTornPayload struct {
	Cloth  int32
	Center vmath.Vec3
	Radius float64
	Links  int
}

// CatchUpPayload carries the oversized step length in seconds
type CatchUpPayload struct {
	Dt float64
}
