package grid

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Handle identifies a grid. The default grid always uses DefaultHandle
type Handle int

// DefaultHandle is reserved for the shared screen-wide grid
const DefaultHandle Handle = 1

// DefaultMaxCells bounds a single grid allocation
const DefaultMaxCells = 1 << 22

var (
	// ErrAllocation is returned when a grid cannot be backed by memory
	ErrAllocation = errors.New("grid allocation failed")
	// ErrOutOfBounds is returned for cell access outside the grid extent
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// Reader is the read-only view handed to window/tab collaborators
type Reader interface {
	Handle() Handle
	Size() (width, height int)
	ReadCell(row, col int) (Cell, error)
	RowDirty(row int) bool
	NeedsClear(row, col int) bool
}

// Grid is a row-major cell buffer with per-row dirty tracking
// Only the compositor writes to a Grid; everyone else gets a Reader
type Grid struct {
	handle   Handle
	width    int
	height   int
	maxCells int

	cells []Cell
	dirty []bool
	// clearFrom[row] is the first column exposed by a resize and not yet repainted
	clearFrom []int
}

// Option configures grid creation
type Option func(*Grid)

// WithMaxCells overrides DefaultMaxCells
func WithMaxCells(n int) Option {
	return func(g *Grid) {
		if n > 0 {
			g.maxCells = n
		}
	}
}

// New allocates a grid. On ErrAllocation no grid is returned
func New(handle Handle, width, height int, opts ...Option) (*Grid, error) {
	g := &Grid{handle: handle, maxCells: DefaultMaxCells}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.checkSize(width, height); err != nil {
		return nil, err
	}

	g.width = width
	g.height = height
	g.cells = make([]Cell, width*height)
	g.dirty = make([]bool, height)
	g.clearFrom = make([]int, height)
	// clearFrom starts at 0: a new grid is entirely exposed
	g.Fill(0)
	return g, nil
}

func (g *Grid) checkSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: handle %d: negative size %dx%d", ErrAllocation, g.handle, width, height)
	}
	if width > g.maxCells || height > g.maxCells || (width != 0 && height > g.maxCells/width) {
		return fmt.Errorf("%w: handle %d: %dx%d exceeds %d cells", ErrAllocation, g.handle, width, height, g.maxCells)
	}
	return nil
}

// Handle returns the grid identity
func (g *Grid) Handle() Handle {
	return g.handle
}

// Size returns width and height in cells
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// ReadCell returns the cell at row, col
func (g *Grid) ReadCell(row, col int) (Cell, error) {
	if !g.inBounds(row, col) {
		return Cell{}, fmt.Errorf("%w: grid %d (%d,%d) outside %dx%d", ErrOutOfBounds, g.handle, row, col, g.width, g.height)
	}
	return g.cells[row*g.width+col], nil
}

// WriteCell sets one cell and marks its row dirty
func (g *Grid) WriteCell(row, col int, r rune, attr AttrID) error {
	if !g.inBounds(row, col) {
		return fmt.Errorf("%w: grid %d (%d,%d) outside %dx%d", ErrOutOfBounds, g.handle, row, col, g.width, g.height)
	}
	g.cells[row*g.width+col] = Cell{Rune: r, Attr: attr}
	g.dirty[row] = true
	return nil
}

// PutString writes s starting at row, col using terminal display width
// Double-width runes take two cells, the second a continuation cell
// Returns the number of columns written; output stops at the row end
func (g *Grid) PutString(row, col int, s string, attr AttrID) (int, error) {
	if !g.inBounds(row, col) {
		return 0, fmt.Errorf("%w: grid %d (%d,%d) outside %dx%d", ErrOutOfBounds, g.handle, row, col, g.width, g.height)
	}
	x := col
	base := row * g.width
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// Combining marks are not stored separately
			continue
		}
		if x+w > g.width {
			break
		}
		g.cells[base+x] = Cell{Rune: r, Attr: attr}
		if w == 2 {
			g.cells[base+x+1] = Cell{Rune: 0, Attr: attr}
		}
		x += w
	}
	g.dirty[row] = true
	return x - col, nil
}

// Fill resets every cell to blank with attr, using exponential copy
func (g *Grid) Fill(attr AttrID) {
	if len(g.cells) == 0 {
		return
	}
	g.cells[0] = Cell{Rune: Blank.Rune, Attr: attr}
	for filled := 1; filled < len(g.cells); filled *= 2 {
		copy(g.cells[filled:], g.cells[:filled])
	}
	for row := range g.dirty {
		g.dirty[row] = true
	}
}

// Resize changes the extent keeping the top-left overlap
// Cells outside the old bounds are blank and flagged by NeedsClear until ClearDirty
func (g *Grid) Resize(width, height int) error {
	if width == g.width && height == g.height {
		return nil
	}
	if err := g.checkSize(width, height); err != nil {
		return err
	}

	cells := make([]Cell, width*height)
	if len(cells) > 0 {
		cells[0] = Blank
		for filled := 1; filled < len(cells); filled *= 2 {
			copy(cells[filled:], cells[:filled])
		}
	}
	dirty := make([]bool, height)
	clearFrom := make([]int, height)

	keepW := min(width, g.width)
	keepH := min(height, g.height)
	for row := 0; row < keepH; row++ {
		copy(cells[row*width:row*width+keepW], g.cells[row*g.width:row*g.width+keepW])
		dirty[row] = g.dirty[row]
		clearFrom[row] = min(g.clearFrom[row], width)
		if width > g.width {
			clearFrom[row] = min(clearFrom[row], g.width)
			dirty[row] = true
		}
	}
	for row := keepH; row < height; row++ {
		clearFrom[row] = 0
		dirty[row] = true
	}

	g.cells = cells
	g.dirty = dirty
	g.clearFrom = clearFrom
	g.width = width
	g.height = height
	return nil
}

// Exposed reports whether the last resize uncovered any area still pending clear
func (g *Grid) Exposed() bool {
	for _, c := range g.clearFrom {
		if c < g.width {
			return true
		}
	}
	return false
}

// NeedsClear reports whether the cell was outside the bounds before the last resize
func (g *Grid) NeedsClear(row, col int) bool {
	if !g.inBounds(row, col) {
		return false
	}
	return col >= g.clearFrom[row]
}

// MarkRows flags rows [start, end) dirty, clamped to the grid
func (g *Grid) MarkRows(start, end int) {
	start = max(start, 0)
	end = min(end, g.height)
	for row := start; row < end; row++ {
		g.dirty[row] = true
	}
}

// RowDirty reports whether row changed since the last ClearDirty
func (g *Grid) RowDirty(row int) bool {
	if row < 0 || row >= g.height {
		return false
	}
	return g.dirty[row]
}

// DirtyRows returns the dirty rows in ascending order
func (g *Grid) DirtyRows() []int {
	var rows []int
	for row, d := range g.dirty {
		if d {
			rows = append(rows, row)
		}
	}
	return rows
}

// ClearDirty marks every row valid after a repaint
func (g *Grid) ClearDirty() {
	for row := range g.dirty {
		g.dirty[row] = false
		g.clearFrom[row] = g.width
	}
}
