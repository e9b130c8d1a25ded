package collision

import (
	"fmt"

	"github.com/lixenwraith/verlet/vmath"
)

// Kind tags the shape variant
type Kind uint8

const (
	// KindCircle is a rigid entity volume: centre plus radius
	KindCircle Kind = iota
	// KindAABB is an axis-aligned static box
	KindAABB
	// KindPoint is a Verlet point with a contact radius
	KindPoint

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindAABB:
		return "aabb"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// AABB is an axis-aligned bounding box
type AABB struct {
	Min, Max vmath.Vec3
}

// BoxAround returns the cube of half-extent r centred on c
func BoxAround(c vmath.Vec3, r float64) AABB {
	h := vmath.Splat(r)
	return AABB{Min: c.Sub(h), Max: c.Add(h)}
}

// Overlaps reports whether the boxes intersect; touching faces count
func (b AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// Center returns the box midpoint
func (b AABB) Center() vmath.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// ClosestPoint clamps p onto the box
func (b AABB) ClosestPoint(p vmath.Vec3) vmath.Vec3 {
	return vmath.ClampVec(p, b.Min, b.Max)
}

// Shape is the tagged variant consumed by the pair dispatch table
// Center and Radius serve Circle and Point; Box serves AABB
type Shape struct {
	Kind   Kind
	Center vmath.Vec3
	Radius float64
	Box    AABB
}

// Circle builds a rigid entity shape
func Circle(center vmath.Vec3, radius float64) Shape {
	return Shape{Kind: KindCircle, Center: center, Radius: radius}
}

// Box builds a static box from its centre and full size
func Box(center, size vmath.Vec3) Shape {
	half := vmath.Vec3{abs(size[0]) / 2, abs(size[1]) / 2, abs(size[2]) / 2}
	return Shape{
		Kind:   KindAABB,
		Center: center,
		Box:    AABB{Min: center.Sub(half), Max: center.Add(half)},
	}
}

// Point builds a Verlet collider shape
func Point(pos vmath.Vec3, radius float64) Shape {
	return Shape{Kind: KindPoint, Center: pos, Radius: radius}
}

// Bounds returns the broad-phase box of s
func (s Shape) Bounds() AABB {
	if s.Kind == KindAABB {
		return s.Box
	}
	return BoxAround(s.Center, s.Radius)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Body packs a shape kind and a caller id into one ordered key so rigid
// entities, statics and Verlet colliders share a single grid
type Body uint64

const (
	bodyKindShift = 56
	bodyIDMask    = 1<<bodyKindShift - 1

	// MaxBodyID is the largest id a Body carries without aliasing
	MaxBodyID = bodyIDMask
)

// MakeBody tags id with k; ids above MaxBodyID are truncated, callers reject them first
func MakeBody(k Kind, id uint64) Body {
	return Body(uint64(k)<<bodyKindShift | id&bodyIDMask)
}

// Kind returns the shape kind of b
func (b Body) Kind() Kind {
	return Kind(b >> bodyKindShift)
}

// ID returns the caller id of b
func (b Body) ID() uint64 {
	return uint64(b) & bodyIDMask
}

func (b Body) String() string {
	return fmt.Sprintf("%s#%d", b.Kind(), b.ID())
}
