package engine

import (
	"log"

	"github.com/lixenwraith/verlet/physics"
)

// CreateCharacterRig builds a rig standing at the entity position and binds
// it: every step the root joint follows the entity, keeping its initial offset
// Unknown entities yield nil, false
func (m *Manager) CreateCharacterRig(id EntityID, height float64, kind physics.RigKind) (*physics.Rig, bool) {
	e, ok := m.entities[id]
	if !ok {
		log.Printf("physics: cannot create rig for unknown entity %d", id)
		return nil, false
	}

	rig := m.verlet.CreateCharacterRig(e.Position, height, kind)
	e.rig = rig
	e.rootOffset = m.verlet.Position(rig.RootPoint()).Sub(e.Position)
	return rig, true
}

// syncRig teleports a bound rig root onto its entity
func (m *Manager) syncRig(e *Entity) {
	if root := e.rig.RootPoint(); root != physics.InvalidPoint {
		m.verlet.SetPosition(root, e.Position.Add(e.rootOffset))
	}
}
