package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Cell is one terminal cell; Rune 0 is empty, -1 is the tail of a wide rune
type Cell struct {
	Rune rune
	Fg   colorful.Color
	Bg   colorful.Color
}

// wideTail marks the cell covered by the right half of a wide rune
const wideTail rune = -1

// Buffer is a fixed-size cell grid with touched tracking
type Buffer struct {
	cells   []Cell
	touched []bool
	width   int
	height  int
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocating only if capacity is insufficient
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
		b.touched = make([]bool, size)
	} else {
		b.cells = b.cells[:size]
		b.touched = b.touched[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Size returns width and height in cells
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Clear resets all cells to empty using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Bg: Background}
	b.touched[0] = false
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
	for filled := 1; filled < len(b.touched); filled *= 2 {
		copy(b.touched[filled:], b.touched[:filled])
	}
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes one rune; out-of-bounds writes are dropped
func (b *Buffer) Set(x, y int, r rune, fg colorful.Color) {
	if !b.inBounds(x, y) {
		return
	}
	i := y*b.width + x
	b.cells[i].Rune = r
	b.cells[i].Fg = fg
	b.touched[i] = true
}

// Get returns the cell at x, y; zero Cell when out of bounds
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Touched reports whether x, y was written since the last Clear
func (b *Buffer) Touched(x, y int) bool {
	return b.inBounds(x, y) && b.touched[y*b.width+x]
}

// Text writes s from x, y honouring East Asian widths; returns the next column
func (b *Buffer) Text(x, y int, s string, fg colorful.Color) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > b.width {
			break
		}
		b.Set(x, y, r, fg)
		if w == 2 {
			b.Set(x+1, y, wideTail, fg)
		}
		x += w
	}
	return x
}
