package cloth

import (
	"log"
	"math"

	"github.com/pkg/errors"

	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/physics"
	"github.com/lixenwraith/verlet/vmath"
)

// ErrInvalidDimensions is wrapped when a grid cannot be built
var ErrInvalidDimensions = errors.New("invalid cloth dimensions")

// Below this distance from a sphere centre the push direction is random
const sphereCentreEpsilon = 1e-4

// Sphere is a cloth-only collision volume
type Sphere struct {
	Center vmath.Vec3
	Radius float64
}

// GridSpec describes a rectangular cloth hanging in the XZ plane from Origin
// Columns run along +X, rows run down -Z
type GridSpec struct {
	Origin    vmath.Vec3
	Width     float64
	Height    float64
	Rows      int
	Cols      int
	FixedTop  bool
	Stiffness float64
	Mass      float64
}

// System builds cloth topology on a shared Verlet system and drives wind and
// sphere collision. Points and constraints are owned by the Verlet system
type System struct {
	verlet *physics.System
	cloths []*Cloth

	spheres []Sphere

	windDirection  vmath.Vec3
	windStrength   float64
	windTurbulence float64
	elapsed        float64

	rng *vmath.FastRand
}

// NewSystem creates a cloth system over v
func NewSystem(v *physics.System) *System {
	return &System{
		verlet:         v,
		windDirection:  vmath.UnitX,
		windTurbulence: parameter.WindTurbulence,
		rng:            vmath.NewFastRand(parameter.ClothSeed),
	}
}

// Verlet returns the owning point system
func (s *System) Verlet() *physics.System {
	return s.verlet
}

// Cloth returns the topology behind h
func (s *System) Cloth(h Handle) (*Cloth, bool) {
	if h < 0 || int(h) >= len(s.cloths) {
		return nil, false
	}
	return s.cloths[h], true
}

// Count returns the number of cloths built
func (s *System) Count() int {
	return len(s.cloths)
}

// ForEach visits every cloth in creation order
func (s *System) ForEach(fn func(h Handle, c *Cloth)) {
	for i, c := range s.cloths {
		fn(Handle(i), c)
	}
}

// CreateGrid builds a rows x cols grid with structural and shear links
func (s *System) CreateGrid(spec GridSpec) (Handle, error) {
	if spec.Rows < 2 || spec.Cols < 2 {
		log.Printf("cloth: rejected %dx%d grid", spec.Rows, spec.Cols)
		return 0, errors.Wrapf(ErrInvalidDimensions, "need at least 2x2 points, got %dx%d", spec.Rows, spec.Cols)
	}
	if !(spec.Width > 0) || !(spec.Height > 0) {
		log.Printf("cloth: rejected %.3fx%.3f extent", spec.Width, spec.Height)
		return 0, errors.Wrapf(ErrInvalidDimensions, "extent must be positive, got %vx%v", spec.Width, spec.Height)
	}

	rows, cols := spec.Rows, spec.Cols
	c := &Cloth{
		Rows:       rows,
		Cols:       cols,
		Width:      spec.Width,
		Height:     spec.Height,
		Origin:     spec.Origin,
		Points:     make([]PointID, 0, rows*cols),
		Horizontal: make([]Link, 0, rows*(cols-1)),
		Vertical:   make([]Link, 0, cols*(rows-1)),
		Diagonal:   make([]Link, 0, 2*(rows-1)*(cols-1)),
	}

	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			pos := spec.Origin.Add(vmath.Vec3{
				float64(col) / float64(cols-1) * spec.Width,
				0,
				-float64(r) / float64(rows-1) * spec.Height,
			})
			c.Points = append(c.Points, s.verlet.AddPoint(pos, spec.Mass, spec.FixedTop && r == 0))
		}
	}

	link := func(a, b PointID, stiffness float64) Link {
		id, _ := s.verlet.AddDistanceConstraint(a, b, physics.AutoLength, stiffness)
		return Link{A: a, B: b, ID: id}
	}

	for r := 0; r < rows; r++ {
		for col := 0; col < cols-1; col++ {
			c.Horizontal = append(c.Horizontal, link(c.At(r, col), c.At(r, col+1), spec.Stiffness))
		}
	}
	for col := 0; col < cols; col++ {
		for r := 0; r < rows-1; r++ {
			c.Vertical = append(c.Vertical, link(c.At(r, col), c.At(r+1, col), spec.Stiffness))
		}
	}
	shear := spec.Stiffness * parameter.ClothDiagonalFactor
	for r := 0; r < rows-1; r++ {
		for col := 0; col < cols-1; col++ {
			c.Diagonal = append(c.Diagonal,
				link(c.At(r, col), c.At(r+1, col+1), shear),
				link(c.At(r, col+1), c.At(r+1, col), shear),
			)
		}
	}

	s.cloths = append(s.cloths, c)
	return Handle(len(s.cloths) - 1), nil
}

// CreateFlag builds a flag whose left edge is pinned just right of the pole top
func (s *System) CreateFlag(pole vmath.Vec3, width, height float64) (Handle, error) {
	h, err := s.CreateGrid(GridSpec{
		Origin:    pole.Add(vmath.Vec3{parameter.FlagPoleOffset, 0, 0}),
		Width:     width,
		Height:    height,
		Rows:      max(parameter.FlagMinRows, int(height*parameter.FlagRowsPerUnit)),
		Cols:      max(parameter.FlagMinCols, int(width*parameter.FlagColsPerUnit)),
		Stiffness: parameter.FlagStiffness,
		Mass:      parameter.FlagMass,
	})
	if err != nil {
		return 0, errors.Wrap(err, "create flag")
	}

	c := s.cloths[h]
	for r := 0; r < c.Rows; r++ {
		s.verlet.SetFixed(c.At(r, 0), true)
	}
	return h, nil
}

// CreateCape builds a cape hanging from top-centre position with a pinned top
// edge. A positive curve lowers the middle of the top row to drape over shoulders
func (s *System) CreateCape(top vmath.Vec3, width, height, curve float64) (Handle, error) {
	h, err := s.CreateGrid(GridSpec{
		Origin:    top.Sub(vmath.Vec3{width / 2, 0, 0}),
		Width:     width,
		Height:    height,
		Rows:      max(parameter.CapeMinRows, int(height*parameter.CapeRowsPerUnit)),
		Cols:      max(parameter.CapeMinCols, int(width*parameter.CapeColsPerUnit)),
		FixedTop:  true,
		Stiffness: parameter.CapeStiffness,
		Mass:      parameter.CapeMass,
	})
	if err != nil {
		return 0, errors.Wrap(err, "create cape")
	}

	if curve > 0 {
		c := s.cloths[h]
		for col := 0; col < c.Cols; col++ {
			t := float64(col) / float64(c.Cols-1)
			id := c.At(0, col)
			pos := s.verlet.Position(id)
			pos[2] -= height * math.Sin(t*math.Pi) * curve
			s.verlet.SetPosition(id, pos)
		}
	}
	return h, nil
}

// --- Wind ---

// SetWind normalizes direction (falling back to +X), floors strength at 0
// and clamps turbulence into [0, 1]
func (s *System) SetWind(direction vmath.Vec3, strength, turbulence float64) {
	s.windDirection, _ = vmath.Normalize(direction, vmath.UnitX)
	s.windStrength = math.Max(0, strength)
	s.windTurbulence = vmath.Clamp01(turbulence)
}

// Wind returns the current wind parameters
func (s *System) Wind() (direction vmath.Vec3, strength, turbulence float64) {
	return s.windDirection, s.windStrength, s.windTurbulence
}

// Elapsed returns the turbulence clock
func (s *System) Elapsed() float64 {
	return s.elapsed
}

// ApplyWind advances the turbulence clock and forces every free cloth point
// Turbulence is a sum of phase-shifted sinusoids keyed by row, column and time
func (s *System) ApplyWind(dt float64) {
	s.elapsed += dt
	if s.windStrength == 0 {
		return
	}

	base := s.windDirection.Mul(s.windStrength)
	t := s.elapsed
	amp := s.windTurbulence * s.windStrength
	for h, c := range s.cloths {
		if c.detached {
			continue
		}
	rows:
		for r := 0; r < c.Rows; r++ {
			fr := float64(r)
			for col := 0; col < c.Cols; col++ {
				id := c.At(r, col)
				p := s.verlet.Point(id)
				if p == nil {
					s.detach(Handle(h), c, id)
					break rows
				}
				if p.Fixed {
					continue
				}
				fc := float64(col)
				turbulence := vmath.Vec3{
					math.Sin(t*2.0+fr*0.3+fc*0.2) * amp,
					math.Cos(t*2.5+fr*0.4+fc*0.3) * amp,
					math.Sin(t*3.0+fr*0.2+fc*0.4) * amp,
				}
				p.ApplyForce(base.Add(turbulence))
			}
		}
	}
}

// --- Spheres ---

// AddCollisionSphere registers a sphere that pushes cloth points out
func (s *System) AddCollisionSphere(center vmath.Vec3, radius float64) int {
	s.spheres = append(s.spheres, Sphere{Center: center, Radius: math.Abs(radius)})
	return len(s.spheres) - 1
}

// MoveCollisionSphere repositions sphere i, e.g. to follow a character
func (s *System) MoveCollisionSphere(i int, center vmath.Vec3) bool {
	if i < 0 || i >= len(s.spheres) {
		return false
	}
	s.spheres[i].Center = center
	return true
}

// Spheres returns the registered collision spheres
func (s *System) Spheres() []Sphere {
	return s.spheres
}

// HandleSphereCollisions moves free cloth points inside a sphere to its surface
// Only the position moves, so the push carries into the next integration as velocity
func (s *System) HandleSphereCollisions() int {
	if len(s.spheres) == 0 {
		return 0
	}
	pushed := 0
	for h, c := range s.cloths {
		if c.detached {
			continue
		}
		for _, id := range c.Points {
			p := s.verlet.Point(id)
			if p == nil {
				s.detach(Handle(h), c, id)
				break
			}
			if p.Fixed {
				continue
			}
			for _, sp := range s.spheres {
				toPoint := p.Position.Sub(sp.Center)
				d := toPoint.Len()
				if d >= sp.Radius {
					continue
				}
				var push vmath.Vec3
				if d > sphereCentreEpsilon {
					push = toPoint.Mul(sp.Radius/d - 1)
				} else {
					push = vmath.RandomUnit(s.rng).Mul(sp.Radius)
				}
				p.Position = p.Position.Add(push)
				pushed++
			}
		}
	}
	return pushed
}

// detach drops a cloth whose points vanished from the Verlet system
func (s *System) detach(h Handle, c *Cloth, id PointID) {
	log.Printf("cloth: %d lost point %d, detaching", h, id)
	c.detached = true
}

// --- Tearing ---

// Tear removes every live link whose midpoint is strictly within radius of
// center. Returns the number removed; false for an unknown handle
func (s *System) Tear(h Handle, center vmath.Vec3, radius float64) (int, bool) {
	c, ok := s.Cloth(h)
	if !ok {
		return 0, false
	}
	if c.detached {
		return 0, true
	}

	removed := 0
	for _, family := range [][]Link{c.Horizontal, c.Vertical, c.Diagonal} {
		for i := range family {
			l := &family[i]
			if l.Torn {
				continue
			}
			mid := s.verlet.Position(l.A).Add(s.verlet.Position(l.B)).Mul(0.5)
			if mid.Sub(center).Len() < radius {
				s.verlet.RemoveConstraint(l.ID)
				l.Torn = true
				removed++
			}
		}
	}
	return removed, true
}

// Update applies wind then resolves sphere contacts
// Both only touch forces and positions, so they take effect on the next Verlet step
func (s *System) Update(dt float64) {
	s.ApplyWind(dt)
	s.HandleSphereCollisions()
}

// Reset forgets every cloth and sphere; call alongside the Verlet system reset
func (s *System) Reset() {
	s.cloths = nil
	s.spheres = nil
	s.elapsed = 0
	s.rng = vmath.NewFastRand(parameter.ClothSeed)
}
