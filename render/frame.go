package render

import (
	"github.com/lixenwraith/vi-screen/grid"
	"github.com/lixenwraith/vi-screen/junction"
	"github.com/lixenwraith/vi-screen/redraw"
)

// RowUpdate is one grid row to emit, already bounded by the attribute budget
type RowUpdate struct {
	Row  int
	Runs []Run
}

// GridUpdate is the repaint of one grid for a refresh
type GridUpdate struct {
	Handle grid.Handle
	Level  redraw.Level
	// Clear asks the backend to wipe the grid area before drawing
	Clear bool
	// Origin of the grid on screen; zero for the default grid
	OriginRow int
	OriginCol int
	Width     int
	Height    int
	Rows      []RowUpdate
}

// Glyph is a single screen cell drawn after grid content
type Glyph struct {
	Row   int
	Col   int
	Rune  rune
	Style junction.Style
}

// Frame is the redraw plan handed to the backend for one refresh
type Frame struct {
	Seq        uint64
	Grids      []GridUpdate
	Separators []Glyph
	Junctions  []Glyph
}

// Empty reports a frame with nothing to draw
func (f Frame) Empty() bool {
	return len(f.Grids) == 0 && len(f.Separators) == 0 && len(f.Junctions) == 0
}

// RowCount returns the number of rows emitted across all grids
func (f Frame) RowCount() int {
	n := 0
	for _, g := range f.Grids {
		n += len(g.Rows)
	}
	return n
}

// Grid returns the update for handle, if present
func (f Frame) Grid(h grid.Handle) (GridUpdate, bool) {
	for _, g := range f.Grids {
		if g.Handle == h {
			return g, true
		}
	}
	return GridUpdate{}, false
}
