package physics

import (
	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/vmath"
)

// RigKind selects a character skeleton template
type RigKind uint8

const (
	RigSimple RigKind = iota
	RigHumanoid
	RigQuadruped
)

// ParseRigKind maps a template name, unknown names fall back to RigSimple
func ParseRigKind(name string) RigKind {
	switch name {
	case "humanoid":
		return RigHumanoid
	case "quadruped":
		return RigQuadruped
	default:
		return RigSimple
	}
}

func (k RigKind) String() string {
	switch k {
	case RigHumanoid:
		return "humanoid"
	case RigQuadruped:
		return "quadruped"
	default:
		return "simple"
	}
}

// Rig is a named view over points owned by a System
type Rig struct {
	Kind        RigKind
	Root        string
	Joints      map[string]PointID
	Constraints []ConstraintID
}

// RootPoint returns the root joint handle
func (r *Rig) RootPoint() PointID {
	if r == nil {
		return InvalidPoint
	}
	if id, ok := r.Joints[r.Root]; ok {
		return id
	}
	return InvalidPoint
}

type jointDef struct {
	name  string
	x     float64
	y     float64
	z     float64
	mass  float64
	fixed bool
}

type rigTemplate struct {
	root   string
	joints []jointDef
	links  [][2]string
	angles [][3]string
}

// Offsets are in units of height/2
var rigTemplates = map[RigKind]rigTemplate{
	RigHumanoid: {
		root: "pelvis",
		joints: []jointDef{
			{"pelvis", 0, 0, 0.8, 10, false},
			{"chest", 0, 0, 1.2, 10, false},
			{"neck", 0, 0, 1.5, 3, false},
			{"head", 0, 0, 1.7, 5, false},
			{"l_shoulder", -0.3, 0, 1.4, 5, false},
			{"r_shoulder", 0.3, 0, 1.4, 5, false},
			{"l_elbow", -0.6, 0, 1.2, 3, false},
			{"r_elbow", 0.6, 0, 1.2, 3, false},
			{"l_hand", -0.8, 0, 0.9, 2, false},
			{"r_hand", 0.8, 0, 0.9, 2, false},
			{"l_hip", -0.2, 0, 0.7, 5, false},
			{"r_hip", 0.2, 0, 0.7, 5, false},
			{"l_knee", -0.25, 0, 0.4, 3, false},
			{"r_knee", 0.25, 0, 0.4, 3, false},
			{"l_foot", -0.3, 0, 0.05, 2, true},
			{"r_foot", 0.3, 0, 0.05, 2, true},
		},
		links: [][2]string{
			{"pelvis", "chest"}, {"chest", "neck"}, {"neck", "head"},
			{"chest", "l_shoulder"}, {"chest", "r_shoulder"},
			{"l_shoulder", "l_elbow"}, {"r_shoulder", "r_elbow"},
			{"l_elbow", "l_hand"}, {"r_elbow", "r_hand"},
			{"l_shoulder", "neck"}, {"r_shoulder", "neck"},
			{"pelvis", "l_hip"}, {"pelvis", "r_hip"},
			{"l_hip", "l_knee"}, {"r_hip", "r_knee"},
			{"l_knee", "l_foot"}, {"r_knee", "r_foot"},
			{"l_hip", "r_hip"},
		},
		angles: [][3]string{
			{"l_shoulder", "l_elbow", "l_hand"},
			{"r_shoulder", "r_elbow", "r_hand"},
			{"l_hip", "l_knee", "l_foot"},
			{"r_hip", "r_knee", "r_foot"},
			{"pelvis", "chest", "neck"},
		},
	},
	RigQuadruped: {
		root: "mid",
		joints: []jointDef{
			{"rear", -0.5, 0, 0.7, 10, false},
			{"mid", 0, 0, 0.7, 10, false},
			{"front", 0.5, 0, 0.7, 10, false},
			{"neck", 0.7, 0, 0.9, 5, false},
			{"head", 1.0, 0, 1.0, 5, false},
			{"tail_base", -0.7, 0, 0.7, 2, false},
			{"tail_mid", -0.9, 0, 0.8, 1, false},
			{"tail_tip", -1.1, 0, 0.9, 0.5, false},
			{"fl_shoulder", 0.4, 0.2, 0.6, 4, false},
			{"fl_knee", 0.4, 0.2, 0.4, 2, false},
			{"fl_foot", 0.4, 0.2, 0.05, 1, true},
			{"fr_shoulder", 0.4, -0.2, 0.6, 4, false},
			{"fr_knee", 0.4, -0.2, 0.4, 2, false},
			{"fr_foot", 0.4, -0.2, 0.05, 1, true},
			{"rl_hip", -0.4, 0.2, 0.6, 4, false},
			{"rl_knee", -0.4, 0.2, 0.4, 2, false},
			{"rl_foot", -0.4, 0.2, 0.05, 1, true},
			{"rr_hip", -0.4, -0.2, 0.6, 4, false},
			{"rr_knee", -0.4, -0.2, 0.4, 2, false},
			{"rr_foot", -0.4, -0.2, 0.05, 1, true},
		},
		links: [][2]string{
			{"rear", "mid"}, {"mid", "front"}, {"front", "neck"}, {"neck", "head"},
			{"rear", "tail_base"}, {"tail_base", "tail_mid"}, {"tail_mid", "tail_tip"},
			{"front", "fl_shoulder"}, {"front", "fr_shoulder"},
			{"fl_shoulder", "fl_knee"}, {"fr_shoulder", "fr_knee"},
			{"fl_knee", "fl_foot"}, {"fr_knee", "fr_foot"},
			{"rear", "rl_hip"}, {"rear", "rr_hip"},
			{"rl_hip", "rl_knee"}, {"rr_hip", "rr_knee"},
			{"rl_knee", "rl_foot"}, {"rr_knee", "rr_foot"},
			{"fl_shoulder", "fr_shoulder"}, {"rl_hip", "rr_hip"},
		},
		angles: [][3]string{
			{"fl_shoulder", "fl_knee", "fl_foot"},
			{"fr_shoulder", "fr_knee", "fr_foot"},
			{"rl_hip", "rl_knee", "rl_foot"},
			{"rr_hip", "rr_knee", "rr_foot"},
			{"rear", "mid", "front"},
			{"mid", "front", "neck"},
			{"rear", "tail_base", "tail_mid"},
			{"tail_base", "tail_mid", "tail_tip"},
		},
	},
	RigSimple: {
		root: "pelvis",
		joints: []jointDef{
			{"pelvis", 0, 0, 0.5, 10, false},
			{"chest", 0, 0, 1.0, 10, false},
			{"head", 0, 0, 1.5, 5, false},
			{"l_hand", -0.5, 0, 0.8, 3, false},
			{"r_hand", 0.5, 0, 0.8, 3, false},
			{"l_foot", -0.3, 0, 0.1, 3, true},
			{"r_foot", 0.3, 0, 0.1, 3, true},
		},
		links: [][2]string{
			{"pelvis", "chest"}, {"chest", "head"},
			{"chest", "l_hand"}, {"chest", "r_hand"},
			{"pelvis", "l_foot"}, {"pelvis", "r_foot"},
		},
	},
}

// CreateCharacterRig builds a skeleton of points and constraints at base
// Feet are pinned; limbs carry angle constraints at their current pose
func (s *System) CreateCharacterRig(base vmath.Vec3, height float64, kind RigKind) *Rig {
	tpl, ok := rigTemplates[kind]
	if !ok {
		kind = RigSimple
		tpl = rigTemplates[RigSimple]
	}
	scale := height / 2

	rig := &Rig{
		Kind:   kind,
		Root:   tpl.root,
		Joints: make(map[string]PointID, len(tpl.joints)),
	}
	for _, j := range tpl.joints {
		pos := base.Add(vmath.Vec3{j.x * scale, j.y * scale, j.z * scale})
		rig.Joints[j.name] = s.AddPoint(pos, j.mass, j.fixed)
	}
	for _, l := range tpl.links {
		if id, ok := s.AddDistanceConstraint(rig.Joints[l[0]], rig.Joints[l[1]], AutoLength, parameter.DefaultDistanceStiffness); ok {
			rig.Constraints = append(rig.Constraints, id)
		}
	}
	for _, a := range tpl.angles {
		if id, ok := s.AddAngleConstraint(rig.Joints[a[0]], rig.Joints[a[1]], rig.Joints[a[2]], AutoAngle, parameter.DefaultAngleStiffness); ok {
			rig.Constraints = append(rig.Constraints, id)
		}
	}
	return rig
}
