package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/vi-screen/grid"
	"github.com/lixenwraith/vi-screen/render"
)

// Screen is the rendering sink for compositor frames
type Screen struct {
	scr     tcell.Screen
	palette *Palette
	flash   bool
}

// NewScreen wraps an initialized tcell screen
func NewScreen(scr tcell.Screen, palette *Palette) *Screen {
	if palette == nil {
		palette = NewPalette()
	}
	return &Screen{scr: scr, palette: palette}
}

// Size returns the terminal size in cells
func (s *Screen) Size() (int, int) {
	return s.scr.Size()
}

// Palette returns the attribute palette
func (s *Screen) Palette() *Palette {
	return s.palette
}

// Draw applies f and shows the result. Returns the number of cells set
func (s *Screen) Draw(f render.Frame) int {
	if f.Empty() {
		return 0
	}
	n := 0
	for _, g := range f.Grids {
		if g.Clear {
			n += s.clearArea(g.OriginRow, g.OriginCol, g.Width, g.Height)
		}
		for _, row := range g.Rows {
			y := g.OriginRow + row.Row
			for _, run := range row.Runs {
				n += s.drawRun(y, g.OriginCol+run.Col, run)
			}
		}
	}
	border := s.palette.Border
	if s.flash {
		border = border.Reverse(true)
	}
	for _, gl := range f.Separators {
		s.scr.SetContent(gl.Col, gl.Row, gl.Rune, nil, border)
		n++
	}
	for _, gl := range f.Junctions {
		s.scr.SetContent(gl.Col, gl.Row, gl.Rune, nil, border)
		n++
	}
	s.scr.Show()
	return n
}

func (s *Screen) drawRun(y, x int, run render.Run) int {
	style := s.palette.Style(run.Attr)
	n := 0
	for _, r := range run.Text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.scr.SetContent(x, y, r, nil, style)
		x += w
		n++
	}
	return n
}

func (s *Screen) clearArea(row, col, width, height int) int {
	style := s.palette.Style(grid.Blank.Attr)
	for y := row; y < row+height; y++ {
		for x := col; x < col+width; x++ {
			s.scr.SetContent(x, y, grid.Blank.Rune, nil, style)
		}
	}
	return width * height
}

// Flash draws borders reversed until turned off; used as the visual bell
func (s *Screen) Flash(on bool) {
	s.flash = on
}

// Flashing reports whether borders are drawn reversed
func (s *Screen) Flashing() bool {
	return s.flash
}

// Beep rings the terminal bell
func (s *Screen) Beep() error {
	return s.scr.Beep()
}
