package compositor

import (
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/vi-screen/grid"
	"github.com/lixenwraith/vi-screen/junction"
	"github.com/lixenwraith/vi-screen/redraw"
	"github.com/lixenwraith/vi-screen/status"
)

// RowRange is a half-open row span [Start, End), window relative
type RowRange struct {
	Start int
	End   int
}

// Empty reports a span covering no rows
func (r RowRange) Empty() bool {
	return r.Start >= r.End
}

func (r RowRange) contains(row int) bool {
	return row >= r.Start && row < r.End
}

type window struct {
	geo junction.Window
	// handle is DefaultHandle in single-grid mode, 0 while the window grid is absent
	handle grid.Handle

	sel     RowRange
	prevSel RowRange // selection at the last refresh
	topRows int
}

// SetMultigrid switches between one grid per window and the shared default grid
// Window content is not carried over; the whole screen is cleared
func (c *Compositor) SetMultigrid(on bool) {
	if on == c.multigrid {
		return
	}
	c.multigrid = on
	c.stats.Label(status.Mode).Store(c.modeName())

	for _, id := range c.windowIDs() {
		w := c.windows[id]
		if on {
			w.handle = 0
			if c.def != nil {
				_ = c.allocWindowGrid(w)
			}
			continue
		}
		c.dropWindowGrid(w)
		w.handle = grid.DefaultHandle
		if c.def != nil {
			blankRect(c.def, w.geo)
		}
	}

	c.tracker.Request(redraw.ScopeScreen, redraw.Clear)
	c.markGeometry()
	c.log.Info("grid mode changed", "mode", c.modeName(), "windows", len(c.windows))
}

// SetWindow creates or updates a window from layout geometry
// New grids get an initial Clear; resized grids keep their overlap
func (c *Compositor) SetWindow(geo junction.Window) error {
	if geo.Width < 0 || geo.Height < 0 {
		return fmt.Errorf("window %d: negative size %dx%d", geo.ID, geo.Width, geo.Height)
	}
	w, exists := c.windows[geo.ID]
	if exists && w.geo == geo {
		return nil
	}
	if !exists {
		w = &window{geo: geo}
		c.windows[geo.ID] = w
	}
	old := w.geo
	w.geo = geo
	c.markGeometry()

	if !c.multigrid {
		w.handle = grid.DefaultHandle
		if c.def != nil {
			if exists {
				blankRect(c.def, old)
			}
			blankRect(c.def, geo)
		}
		c.tracker.Request(redraw.Scope(grid.DefaultHandle), redraw.NotValid)
		return nil
	}

	if exists {
		// The area the window left behind belongs to the default grid again
		c.tracker.Request(redraw.Scope(grid.DefaultHandle), redraw.NotValid)
	}
	if c.def == nil {
		return nil
	}
	if w.handle == 0 {
		return c.allocWindowGrid(w)
	}

	g := c.grids[w.handle]
	if old.Width != geo.Width || old.Height != geo.Height {
		if err := g.Resize(geo.Width, geo.Height); err != nil {
			w.geo = old
			c.log.Warn("window grid resize failed", "window", geo.ID, "grid", int(w.handle), "width", geo.Width, "height", geo.Height, "error", err)
			return fmt.Errorf("window %d: %w", geo.ID, err)
		}
		level := redraw.NotValid
		if g.Exposed() {
			level = redraw.Clear
		}
		c.tracker.Request(redraw.Scope(w.handle), level)
		return nil
	}
	// Moved only
	c.tracker.Request(redraw.Scope(w.handle), redraw.NotValid)
	return nil
}

// CloseWindow forgets a window and frees its grid
func (c *Compositor) CloseWindow(id int) error {
	w, ok := c.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	delete(c.windows, id)
	c.markGeometry()

	if c.multigrid {
		c.dropWindowGrid(w)
	} else if c.def != nil {
		blankRect(c.def, w.geo)
	}
	c.tracker.Request(redraw.Scope(grid.DefaultHandle), redraw.NotValid)
	return nil
}

// Resize follows a terminal resize. Without a default grid it retries Init
func (c *Compositor) Resize(width, height int) error {
	if c.def == nil {
		return c.Init(width, height)
	}
	if err := c.def.Resize(width, height); err != nil {
		c.log.Error("default grid resize failed", "width", width, "height", height, "error", err)
		return fmt.Errorf("resize: %w", err)
	}
	c.width, c.height = width, height
	c.tracker.Request(redraw.ScopeScreen, redraw.Clear)
	c.markGeometry()

	if len(c.tabs) > 0 || len(c.funcs) > 0 {
		if err := c.SetTabline(c.tabs, c.funcs...); err != nil {
			return err
		}
	}
	c.log.Debug("terminal resized", "width", width, "height", height)
	return nil
}

// Windows returns the current window geometry ordered by id
func (c *Compositor) Windows() []junction.Window {
	out := make([]junction.Window, 0, len(c.windows))
	for _, id := range c.windowIDs() {
		out = append(out, c.windows[id].geo)
	}
	return out
}

// WindowGrid returns the grid handle a window renders into
func (c *Compositor) WindowGrid(id int) (grid.Handle, bool) {
	w, ok := c.windows[id]
	if !ok || w.handle == 0 {
		return 0, false
	}
	return w.handle, true
}

// BufferChanged marks rows of a window dirty
// A nil range is a structural change and redraws the whole window grid
func (c *Compositor) BufferChanged(id int, rows *RowRange) error {
	w, g, err := c.target(id)
	if err != nil {
		return err
	}
	if rows == nil {
		c.tracker.Request(redraw.Scope(w.handle), redraw.NotValid)
		return nil
	}
	off := c.offset(w)
	start := max(rows.Start, 0)
	end := min(rows.End, w.geo.Height)
	if start < end {
		g.MarkRows(off.Row+start, off.Row+end)
	}
	return nil
}

// RequestWindow raises the pending level of the grid a window renders into
// Returns false for unknown windows and windows without a grid
func (c *Compositor) RequestWindow(id int, level redraw.Level) bool {
	w, ok := c.windows[id]
	if !ok || w.handle == 0 {
		return false
	}
	return c.tracker.Request(redraw.Scope(w.handle), level)
}

// SetSelection records the highlighted rows of a window
// The next refresh repaints rows whose highlight changed
func (c *Compositor) SetSelection(id int, rows RowRange) error {
	w, ok := c.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	w.sel = rows
	return c.requestOwn(w, redraw.Inverted)
}

// SetTopRows asks for the first n rows of a window to be repainted
func (c *Compositor) SetTopRows(id, n int) error {
	w, ok := c.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	w.topRows = max(w.topRows, n)
	return c.requestOwn(w, redraw.RedrawTop)
}

// WriteCell writes one cell at a window-relative position
func (c *Compositor) WriteCell(id, row, col int, r rune, attr grid.AttrID) error {
	w, g, err := c.target(id)
	if err != nil {
		return err
	}
	if row < 0 || row >= w.geo.Height || col < 0 || col >= w.geo.Width {
		err := fmt.Errorf("%w: window %d (%d,%d) outside %dx%d", grid.ErrOutOfBounds, id, row, col, w.geo.Width, w.geo.Height)
		c.writeFailed(id, row, col, err)
		return err
	}
	off := c.offset(w)
	if err := g.WriteCell(off.Row+row, off.Col+col, r, attr); err != nil {
		c.writeFailed(id, row, col, err)
		return err
	}
	return nil
}

// PutString writes s at a window-relative position, clipped to the window width
func (c *Compositor) PutString(id, row, col int, s string, attr grid.AttrID) (int, error) {
	w, g, err := c.target(id)
	if err != nil {
		return 0, err
	}
	if row < 0 || row >= w.geo.Height || col < 0 || col >= w.geo.Width {
		err := fmt.Errorf("%w: window %d (%d,%d) outside %dx%d", grid.ErrOutOfBounds, id, row, col, w.geo.Width, w.geo.Height)
		c.writeFailed(id, row, col, err)
		return 0, err
	}
	s = runewidth.Truncate(s, w.geo.Width-col, "")
	off := c.offset(w)
	n, err := g.PutString(off.Row+row, off.Col+col, s, attr)
	if err != nil {
		c.writeFailed(id, row, col, err)
	}
	return n, err
}

// requestOwn raises the level of the window's own grid, never the screen scope
func (c *Compositor) requestOwn(w *window, level redraw.Level) error {
	if w.handle == 0 {
		return fmt.Errorf("%w: window %d", ErrUnavailable, w.geo.ID)
	}
	c.tracker.Request(redraw.Scope(w.handle), level)
	return nil
}

func (c *Compositor) writeFailed(id, row, col int, err error) {
	c.count(status.WriteErrors, 1)
	c.log.Warn("cell write rejected", "window", id, "row", row, "col", col, "error", err)
}

// target resolves the window and the grid it renders into
func (c *Compositor) target(id int) (*window, *grid.Grid, error) {
	w, ok := c.windows[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	g := c.grids[w.handle]
	if g == nil {
		return w, nil, fmt.Errorf("%w: window %d", ErrUnavailable, id)
	}
	return w, g, nil
}

// offset is the window origin inside its grid
func (c *Compositor) offset(w *window) junction.Point {
	if c.multigrid {
		return junction.Point{}
	}
	return junction.Point{Row: w.geo.Row, Col: w.geo.Col}
}

func (c *Compositor) allocWindowGrid(w *window) error {
	h := c.nextHandle
	c.nextHandle++
	g, err := grid.New(h, w.geo.Width, w.geo.Height, grid.WithMaxCells(c.cfg.MaxCells))
	if err != nil {
		w.handle = 0
		c.log.Warn("window grid allocation failed", "window", w.geo.ID, "width", w.geo.Width, "height", w.geo.Height, "error", err)
		return fmt.Errorf("window %d: %w", w.geo.ID, err)
	}
	c.grids[h] = g
	w.handle = h
	c.tracker.Register(redraw.Scope(h))
	c.tracker.Request(redraw.Scope(h), redraw.Clear)
	c.updateGridCount()
	return nil
}

func (c *Compositor) dropWindowGrid(w *window) {
	if w.handle == 0 || w.handle == grid.DefaultHandle {
		return
	}
	delete(c.grids, w.handle)
	c.tracker.Unregister(redraw.Scope(w.handle))
	w.handle = 0
	c.updateGridCount()
}

func (c *Compositor) windowIDs() []int {
	ids := make([]int, 0, len(c.windows))
	for id := range c.windows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// blankRect resets the cells of geo inside g, clipped to the grid
func blankRect(g *grid.Grid, geo junction.Window) {
	gw, gh := g.Size()
	for row := max(geo.Row, 0); row < min(geo.EndRow(), gh); row++ {
		for col := max(geo.Col, 0); col < min(geo.EndCol(), gw); col++ {
			_ = g.WriteCell(row, col, grid.Blank.Rune, grid.Blank.Attr)
		}
	}
}
