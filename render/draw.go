package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Line draws a Bresenham segment between two cells, endpoints included
func (b *Buffer) Line(x0, y0, x1, y1 int, r rune, fg colorful.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy

	// Off-screen segments can be long; bound the walk by the larger span
	for steps := max(dx, -dy); steps >= 0; steps-- {
		b.Set(x0, y0, r, fg)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Ellipse outlines an axis-aligned ellipse with radii rx, ry in cells
func (b *Buffer) Ellipse(cx, cy int, rx, ry float64, r rune, fg colorful.Color) {
	if rx < 0.5 && ry < 0.5 {
		b.Set(cx, cy, r, fg)
		return
	}
	n := max(8, int(2*math.Pi*math.Max(rx, ry)))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		b.Set(cx+int(math.Round(rx*math.Cos(a))), cy+int(math.Round(ry*math.Sin(a))), r, fg)
	}
}

// Rect outlines the cell rectangle spanning two corners
func (b *Buffer) Rect(x0, y0, x1, y1 int, fg colorful.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	b.Line(x0, y0, x1, y0, '─', fg)
	b.Line(x0, y1, x1, y1, '─', fg)
	b.Line(x0, y0, x0, y1, '│', fg)
	b.Line(x1, y0, x1, y1, '│', fg)
	b.Set(x0, y0, '┌', fg)
	b.Set(x1, y0, '┐', fg)
	b.Set(x0, y1, '└', fg)
	b.Set(x1, y1, '┘', fg)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
