package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Flush copies the buffer onto a tcell screen and shows it
func Flush(b *Buffer, screen tcell.Screen) {
	w, h := b.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := b.cells[y*w+x]
			if c.Rune == wideTail {
				continue
			}
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			style := tcell.StyleDefault.Foreground(toTcell(c.Fg)).Background(toTcell(c.Bg))
			screen.SetContent(x, y, r, nil, style)
		}
	}
	screen.Show()
}
