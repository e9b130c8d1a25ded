package cloth

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/lixenwraith/verlet/physics"
	"github.com/lixenwraith/verlet/vmath"
)

func newTestSystem() (*System, *physics.System) {
	v := physics.NewSystem()
	return NewSystem(v), v
}

func squareSpec(rows, cols int) GridSpec {
	return GridSpec{
		Origin:    vmath.Zero,
		Width:     2,
		Height:    2,
		Rows:      rows,
		Cols:      cols,
		Stiffness: 0.8,
		Mass:      1,
	}
}

// TestGridTopology verifies point and link counts for several sizes
func TestGridTopology(t *testing.T) {
	sizes := [][2]int{{2, 2}, {3, 3}, {4, 5}, {10, 10}}
	for _, sz := range sizes {
		cs, v := newTestSystem()
		r, c := sz[0], sz[1]
		h, err := cs.CreateGrid(squareSpec(r, c))
		if err != nil {
			t.Fatalf("%dx%d: unexpected error %v", r, c, err)
		}

		wantLinks := r*(c-1) + c*(r-1) + 2*(r-1)*(c-1)
		if v.PointCount() != r*c {
			t.Errorf("%dx%d: expected %d points, got %d", r, c, r*c, v.PointCount())
		}
		if v.ConstraintCount() != wantLinks {
			t.Errorf("%dx%d: expected %d constraints, got %d", r, c, wantLinks, v.ConstraintCount())
		}
		cl, _ := cs.Cloth(h)
		if cl.LiveLinks() != wantLinks {
			t.Errorf("%dx%d: expected %d live links, got %d", r, c, wantLinks, cl.LiveLinks())
		}
	}
}

// TestGridShearStiffness verifies diagonal links are softer than structural ones
func TestGridShearStiffness(t *testing.T) {
	cs, v := newTestSystem()
	h, _ := cs.CreateGrid(squareSpec(3, 3))
	cl, _ := cs.Cloth(h)

	hc, _ := v.Constraint(cl.Horizontal[0].ID)
	dc, _ := v.Constraint(cl.Diagonal[0].ID)
	hs := hc.(*physics.DistanceConstraint).Stiffness
	ds := dc.(*physics.DistanceConstraint).Stiffness
	if !vmath.NearlyEqual(ds, hs*0.8, 1e-12) {
		t.Errorf("Expected shear stiffness %f, got %f", hs*0.8, ds)
	}
}

// TestGridInvalidDimensions verifies degenerate grids are rejected with the sentinel
func TestGridInvalidDimensions(t *testing.T) {
	cs, v := newTestSystem()

	for _, spec := range []GridSpec{squareSpec(1, 5), squareSpec(5, 1), squareSpec(0, 0)} {
		if _, err := cs.CreateGrid(spec); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%dx%d: expected ErrInvalidDimensions, got %v", spec.Rows, spec.Cols, err)
		}
	}
	flat := squareSpec(3, 3)
	flat.Width = 0
	if _, err := cs.CreateGrid(flat); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected zero width to fail, got %v", err)
	}
	if v.PointCount() != 0 || cs.Count() != 0 {
		t.Error("Rejected grid left points behind")
	}
}

// TestFixedTop verifies only row 0 is pinned
func TestFixedTop(t *testing.T) {
	cs, v := newTestSystem()
	spec := squareSpec(3, 4)
	spec.FixedTop = true
	h, _ := cs.CreateGrid(spec)
	cl, _ := cs.Cloth(h)

	for r := 0; r < cl.Rows; r++ {
		for c := 0; c < cl.Cols; c++ {
			if got := v.Point(cl.At(r, c)).Fixed; got != (r == 0) {
				t.Errorf("Point (%d,%d): fixed=%v", r, c, got)
			}
		}
	}
}

// TestFlagPinsLeftEdge verifies flag sizing and the pinned pole column
func TestFlagPinsLeftEdge(t *testing.T) {
	cs, v := newTestSystem()
	h, err := cs.CreateFlag(vmath.Vec3{0, 0, 5}, 2, 1)
	if err != nil {
		t.Fatalf("CreateFlag: %v", err)
	}
	cl, _ := cs.Cloth(h)

	if cl.Rows != 5 || cl.Cols != 14 {
		t.Errorf("Expected 5x14 flag, got %dx%d", cl.Rows, cl.Cols)
	}
	if got := v.Position(cl.At(0, 0)); !vmath.NearlyEqual(got.X(), 0.1, 1e-12) {
		t.Errorf("Expected pole offset 0.1, got %v", got)
	}
	for r := 0; r < cl.Rows; r++ {
		for c := 0; c < cl.Cols; c++ {
			if got := v.Point(cl.At(r, c)).Fixed; got != (c == 0) {
				t.Errorf("Point (%d,%d): fixed=%v", r, c, got)
			}
		}
	}
}

// TestCapeShoulderCurve verifies the top row sags most in the middle
func TestCapeShoulderCurve(t *testing.T) {
	cs, v := newTestSystem()
	top := vmath.Vec3{0, 0, 2}
	h, err := cs.CreateCape(top, 1, 1, 0.3)
	if err != nil {
		t.Fatalf("CreateCape: %v", err)
	}
	cl, _ := cs.Cloth(h)

	if cl.Rows != 8 || cl.Cols != 6 {
		t.Errorf("Expected 8x6 cape, got %dx%d", cl.Rows, cl.Cols)
	}

	left := v.Position(cl.At(0, 0))
	right := v.Position(cl.At(0, cl.Cols-1))
	if !vmath.NearlyEqual(left.Z(), 2, 1e-12) || !vmath.NearlyEqual(right.Z(), 2, 1e-9) {
		t.Errorf("Shoulder ends should stay at top height, got %v %v", left, right)
	}
	if !vmath.NearlyEqual(left.X(), -0.5, 1e-12) {
		t.Errorf("Expected cape centred on top, left edge at %v", left)
	}

	for c := 0; c < cl.Cols; c++ {
		want := 2 - math.Sin(float64(c)/float64(cl.Cols-1)*math.Pi)*0.3
		p := v.Point(cl.At(0, c))
		if !vmath.NearlyEqual(p.Position.Z(), want, 1e-9) {
			t.Errorf("Column %d: expected z=%f, got %f", c, want, p.Position.Z())
		}
		if !p.Fixed {
			t.Errorf("Column %d: top row should be pinned", c)
		}
	}
}

// TestSetWindNormalizes verifies direction fallback and clamping
func TestSetWindNormalizes(t *testing.T) {
	cs, _ := newTestSystem()

	cs.SetWind(vmath.Vec3{0, 3, 4}, 2, 1.7)
	dir, strength, turb := cs.Wind()
	if !vmath.NearlyEqual(dir.Len(), 1, 1e-12) || !vmath.NearlyEqual(dir.Z(), 0.8, 1e-12) {
		t.Errorf("Expected normalized direction, got %v", dir)
	}
	if strength != 2 || turb != 1 {
		t.Errorf("Expected strength 2 turbulence 1, got %f %f", strength, turb)
	}

	cs.SetWind(vmath.Zero, -5, -1)
	dir, strength, turb = cs.Wind()
	if dir != vmath.UnitX || strength != 0 || turb != 0 {
		t.Errorf("Expected +X, 0, 0 fallback, got %v %f %f", dir, strength, turb)
	}
}

// TestApplyWindForcesFreePoints verifies steady wind reaches free points only
func TestApplyWindForcesFreePoints(t *testing.T) {
	cs, v := newTestSystem()
	spec := squareSpec(3, 3)
	spec.FixedTop = true
	h, _ := cs.CreateGrid(spec)
	cl, _ := cs.Cloth(h)

	cs.SetWind(vmath.UnitY, 4, 0)
	cs.ApplyWind(0.5)

	if cs.Elapsed() != 0.5 {
		t.Errorf("Expected elapsed 0.5, got %f", cs.Elapsed())
	}
	for i, id := range cl.Points {
		f := v.Point(id).Force
		if i < cl.Cols {
			if f != vmath.Zero {
				t.Errorf("Pinned point %d received force %v", i, f)
			}
			continue
		}
		if f != (vmath.Vec3{0, 4, 0}) {
			t.Errorf("Point %d: expected force (0,4,0), got %v", i, f)
		}
	}
}

// TestApplyWindTurbulenceVaries verifies turbulence decorrelates neighbouring points
func TestApplyWindTurbulenceVaries(t *testing.T) {
	cs, v := newTestSystem()
	h, _ := cs.CreateGrid(squareSpec(3, 3))
	cl, _ := cs.Cloth(h)

	cs.SetWind(vmath.UnitX, 1, 1)
	cs.ApplyWind(0.1)

	a := v.Point(cl.At(1, 1)).Force
	b := v.Point(cl.At(1, 2)).Force
	if a == b {
		t.Error("Expected turbulence to differ between columns")
	}
}

// TestSpherePushOut verifies points inside a sphere land on its surface
func TestSpherePushOut(t *testing.T) {
	cs, v := newTestSystem()
	h, _ := cs.CreateGrid(squareSpec(3, 3))
	cl, _ := cs.Cloth(h)

	centre := v.Position(cl.At(1, 1)).Add(vmath.Vec3{0, -0.2, 0})
	cs.AddCollisionSphere(centre, 0.5)

	if n := cs.HandleSphereCollisions(); n != 1 {
		t.Errorf("Expected 1 push, got %d", n)
	}
	d := v.Position(cl.At(1, 1)).Sub(centre).Len()
	if !vmath.NearlyEqual(d, 0.5, 1e-12) {
		t.Errorf("Expected point on sphere surface, distance %f", d)
	}
}

// TestSphereDegenerateCentre verifies a point at the centre is pushed a full radius
func TestSphereDegenerateCentre(t *testing.T) {
	cs, v := newTestSystem()
	h, _ := cs.CreateGrid(squareSpec(3, 3))
	cl, _ := cs.Cloth(h)

	centre := v.Position(cl.At(1, 1))
	cs.AddCollisionSphere(centre, 0.3)
	cs.HandleSphereCollisions()

	d := v.Position(cl.At(1, 1)).Sub(centre).Len()
	if math.IsNaN(d) || !vmath.NearlyEqual(d, 0.3, 1e-9) {
		t.Errorf("Expected push of one radius, got %f", d)
	}
}

// TestSphereSkipsFixed verifies pinned points stay inside spheres
func TestSphereSkipsFixed(t *testing.T) {
	cs, v := newTestSystem()
	spec := squareSpec(3, 3)
	spec.FixedTop = true
	h, _ := cs.CreateGrid(spec)
	cl, _ := cs.Cloth(h)

	pinned := v.Position(cl.At(0, 0))
	cs.AddCollisionSphere(pinned, 0.4)
	cs.HandleSphereCollisions()

	if v.Position(cl.At(0, 0)) != pinned {
		t.Error("Fixed point was pushed by a sphere")
	}
}

// TestTearRemovesLinksByMidpoint verifies only links strictly inside the radius go
func TestTearRemovesLinksByMidpoint(t *testing.T) {
	cs, v := newTestSystem()
	h, _ := cs.CreateGrid(squareSpec(3, 3))
	before := v.ConstraintCount()

	// Structural midpoints around the centre sit at 0.5, shear midpoints at ~0.707
	centre := vmath.Vec3{1, 0, -1}
	if n, _ := cs.Tear(h, centre, 0.5); n != 0 {
		t.Errorf("Expected boundary midpoints to survive, removed %d", n)
	}

	n, ok := cs.Tear(h, centre, 0.6)
	if !ok || n != 4 {
		t.Fatalf("Expected 4 links torn, got %d (ok=%v)", n, ok)
	}
	if v.ConstraintCount() != before-4 {
		t.Errorf("Expected %d constraints, got %d", before-4, v.ConstraintCount())
	}

	// Tearing again over the same area is idempotent
	if n, _ := cs.Tear(h, centre, 0.6); n != 0 {
		t.Errorf("Expected no further tears, got %d", n)
	}

	n, _ = cs.Tear(h, centre, 10)
	cl, _ := cs.Cloth(h)
	if cl.LiveLinks() != 0 || v.ConstraintCount() != 0 || n != before-4 {
		t.Errorf("Expected full tear, live=%d constraints=%d removed=%d", cl.LiveLinks(), v.ConstraintCount(), n)
	}
}

// TestTearUnknownHandle verifies stale handles are reported
func TestTearUnknownHandle(t *testing.T) {
	cs, _ := newTestSystem()
	if _, ok := cs.Tear(3, vmath.Zero, 1); ok {
		t.Error("Expected unknown handle to fail")
	}
}

// TestClothHangsUnderGravity verifies a pinned cloth settles below its anchor
// and stays near its rest lengths
func TestClothHangsUnderGravity(t *testing.T) {
	cs, v := newTestSystem()
	spec := squareSpec(5, 5)
	spec.FixedTop = true
	spec.Stiffness = 1
	h, _ := cs.CreateGrid(spec)
	cl, _ := cs.Cloth(h)

	startZ := v.Position(cl.At(4, 2)).Z()
	for range 120 {
		v.Update(1.0/60, 0)
		cs.Update(1.0 / 60)
	}

	for i := 0; i < cl.Cols; i++ {
		p := v.Point(cl.At(0, i))
		if p.Position.Z() != 0 {
			t.Errorf("Pinned column %d moved to %v", i, p.Position)
		}
	}
	z := v.Position(cl.At(4, 2)).Z()
	if math.IsNaN(z) || z > startZ+0.1 {
		t.Errorf("Bottom row rose from %f to %f", startZ, z)
	}
	if z < startZ-1 {
		t.Errorf("Bottom row stretched from %f to %f", startZ, z)
	}
}

// TestMeshSnapshot verifies layout, UV corners and flat normals
func TestMeshSnapshot(t *testing.T) {
	cs, _ := newTestSystem()
	h, _ := cs.CreateGrid(squareSpec(3, 4))

	m, ok := cs.Mesh(h)
	if !ok {
		t.Fatal("Expected mesh for valid handle")
	}
	if len(m.Vertices) != 12 || len(m.Normals) != 12 || len(m.UVs) != 12 {
		t.Fatalf("Expected 12 vertices, got %d/%d/%d", len(m.Vertices), len(m.Normals), len(m.UVs))
	}
	if len(m.Indices) != 6*2*3 {
		t.Errorf("Expected 36 indices, got %d", len(m.Indices))
	}
	if m.UVs[0] != [2]float64{0, 1} || m.UVs[11] != [2]float64{1, 0} {
		t.Errorf("Unexpected UV corners %v %v", m.UVs[0], m.UVs[11])
	}
	for i, n := range m.Normals {
		if !vmath.NearlyEqual(n.Y(), 1, 1e-12) {
			t.Errorf("Normal %d: expected +Y for a flat XZ cloth, got %v", i, n)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("Index %d out of range", idx)
		}
	}

	if _, ok := cs.Mesh(9); ok {
		t.Error("Expected no mesh for unknown handle")
	}
}

// TestReset verifies handles are dropped
func TestReset(t *testing.T) {
	cs, v := newTestSystem()
	h, _ := cs.CreateGrid(squareSpec(3, 3))
	cs.AddCollisionSphere(vmath.Zero, 1)

	v.Reset()
	cs.Reset()

	if _, ok := cs.Cloth(h); ok {
		t.Error("Expected cloth to be gone")
	}
	if len(cs.Spheres()) != 0 {
		t.Error("Expected spheres to be cleared")
	}
}

// TestVerletResetDetachesCloth verifies a cloth whose points vanished is
// skipped instead of dereferenced
func TestVerletResetDetachesCloth(t *testing.T) {
	cs, v := newTestSystem()
	h, _ := cs.CreateGrid(squareSpec(3, 3))
	cs.AddCollisionSphere(vmath.Zero, 1)
	cs.SetWind(vmath.UnitX, 2, 0.5)

	v.Reset()
	cs.Update(0.01)

	cl, _ := cs.Cloth(h)
	if !cl.Detached() {
		t.Fatal("Expected cloth detached after Verlet reset")
	}
	if n := cs.HandleSphereCollisions(); n != 0 {
		t.Errorf("Expected no pushes on a detached cloth, got %d", n)
	}
	if n, ok := cs.Tear(h, vmath.Zero, 10); n != 0 || !ok {
		t.Errorf("Expected 0 links torn on a known detached cloth, got %d %v", n, ok)
	}

	// New points in the reset arena are untouched by the stale cloth
	p := v.AddPoint(vmath.Zero, 1, false)
	cs.Update(0.01)
	if f := v.Point(p).Force; f != vmath.Zero {
		t.Errorf("Expected no wind on a foreign point, got %v", f)
	}
}
