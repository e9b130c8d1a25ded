package engine

import (
	"log"

	"github.com/pkg/errors"

	"github.com/lixenwraith/verlet/cloth"
	"github.com/lixenwraith/verlet/events"
	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/vmath"
)

// ClothKind selects a cloth preset
type ClothKind uint8

const (
	// ClothGrid is a default grid with a pinned top row
	ClothGrid ClothKind = iota
	// ClothFlag pins the left column beside a pole
	ClothFlag
	// ClothCape pins the top row and curves it over the shoulders
	ClothCape
)

// ParseClothKind maps a preset name; unknown names yield ClothGrid
func ParseClothKind(name string) ClothKind {
	switch name {
	case "flag":
		return ClothFlag
	case "cape":
		return ClothCape
	default:
		return ClothGrid
	}
}

func (k ClothKind) String() string {
	switch k {
	case ClothFlag:
		return "flag"
	case ClothCape:
		return "cape"
	default:
		return "grid"
	}
}

// CreateCloth builds a preset cloth of width x height at pos
func (m *Manager) CreateCloth(kind ClothKind, pos vmath.Vec3, width, height float64) (cloth.Handle, error) {
	var (
		h   cloth.Handle
		err error
	)
	switch kind {
	case ClothFlag:
		h, err = m.cloth.CreateFlag(pos, width, height)
	case ClothCape:
		h, err = m.cloth.CreateCape(pos, width, height, parameter.CapeShoulderCurve)
	default:
		h, err = m.cloth.CreateGrid(cloth.GridSpec{
			Origin:    pos,
			Width:     width,
			Height:    height,
			Rows:      parameter.ClothDefaultRows,
			Cols:      parameter.ClothDefaultCols,
			FixedTop:  true,
			Stiffness: parameter.ClothGridStiffness,
			Mass:      parameter.ClothGridMass,
		})
	}
	if err != nil {
		return 0, errors.Wrapf(err, "create %s cloth", kind)
	}
	return h, nil
}

// TearCloth removes links of cloth h whose midpoint lies within radius of center
// and emits EventClothTorn when any link went. False for unknown handles
func (m *Manager) TearCloth(h cloth.Handle, center vmath.Vec3, radius float64) (int, bool) {
	removed, ok := m.cloth.Tear(h, center, radius)
	if !ok {
		log.Printf("physics: tear on unknown cloth %d", h)
		return 0, false
	}
	if removed > 0 {
		m.push(events.EventClothTorn, &events.ClothTornPayload{
			Cloth:  int32(h),
			Center: center,
			Radius: radius,
			Links:  removed,
		})
	}
	return removed, true
}
