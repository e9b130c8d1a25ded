package render

import (
	"github.com/lixenwraith/verlet/engine"
)

// DrawSnapshot paints a physics snapshot: static boxes, links coloured by
// strain, points, entities with velocity, then colliders on top
func DrawSnapshot(b *Buffer, cam Camera, snap *engine.Snapshot) {
	for _, box := range snap.Boxes {
		x0, y0 := cam.Project(box.Min)
		x1, y1 := cam.Project(box.Max)
		b.Rect(x0, y0, x1, y1, StaticFg)
	}

	for _, l := range snap.Links {
		x0, y0 := cam.Project(l.A)
		x1, y1 := cam.Project(l.B)
		b.Line(x0, y0, x1, y1, '·', StrainColor(l.Strain))
	}

	for i, p := range snap.Points {
		x, y := cam.Project(p)
		if snap.Pinned[i] {
			b.Set(x, y, '◆', Pinned)
		} else {
			b.Set(x, y, '•', Dim(Relaxed, 0.8))
		}
	}

	for i, e := range snap.Entities {
		x, y := cam.Project(e.Center)
		rx := cam.Cells(e.Radius)
		b.Ellipse(x, y, rx, rx/CellAspect, 'o', EntityFg)
		vx, vy := cam.Project(e.Center.Add(snap.Velocities[i].Mul(0.25)))
		b.Line(x, y, vx, vy, '∙', VelocityFg)
		b.Set(x, y, '@', EntityFg)
	}

	for _, c := range snap.Colliders {
		x, y := cam.Project(c.Center)
		rx := cam.Cells(c.Radius)
		b.Ellipse(x, y, rx, rx/CellAspect, '°', ColliderFg)
	}
}

// DrawHUD writes lines top-left, one per row, clipped to the buffer
func DrawHUD(b *Buffer, lines []string) {
	_, h := b.Size()
	for i, s := range lines {
		if i >= h {
			return
		}
		b.Text(0, i, s, HUDFg)
	}
}
