package compositor

import (
	"github.com/kr/pretty"

	"github.com/lixenwraith/vi-screen/grid"
	"github.com/lixenwraith/vi-screen/junction"
	"github.com/lixenwraith/vi-screen/redraw"
	"github.com/lixenwraith/vi-screen/render"
	"github.com/lixenwraith/vi-screen/status"
)

// Refresh takes every pending level and builds the frame for one UI refresh
// Order: levels are taken and reset, grids repainted, then separators and junctions
// Without a default grid the frame is empty
func (c *Compositor) Refresh() render.Frame {
	c.seq++
	f := render.Frame{Seq: c.seq}
	c.repainted = false
	clear(c.levels)

	c.pipeline.Execute(&f)

	c.count(status.Refreshes, 1)
	if f.Empty() {
		c.count(status.EmptyRefreshes, 1)
	}
	return f
}

// Passes lists the refresh stages in execution order
func (c *Compositor) Passes() []string {
	return c.pipeline.Names()
}

// levelsPass takes and resets pending levels before anything is drawn
type levelsPass struct {
	c *Compositor
}

func (p *levelsPass) Name() string { return "levels" }

func (p *levelsPass) Run(_ *render.Frame) {
	c := p.c
	screen := c.tracker.TakePending(redraw.ScopeScreen)
	top := screen
	for _, s := range c.tracker.Scopes() {
		lvl := c.tracker.TakePending(s).Max(screen)
		c.levels[grid.Handle(s)] = lvl
		top = top.Max(lvl)
	}
	c.stats.Label(status.LastLevel).Store(top.String())
}

// gridPass emits the rows each grid's level calls for, bounded by the attribute budget
type gridPass struct {
	c *Compositor
}

func (p *gridPass) Name() string { return "grids" }

func (p *gridPass) Enabled() bool { return p.c.def != nil }

func (p *gridPass) Run(f *render.Frame) {
	c := p.c
	before := c.budget.Coalesced()

	for _, h := range c.Handles() {
		g := c.grids[h]
		lvl := c.levels[h]
		width, height := g.Size()
		upd := render.GridUpdate{
			Handle: h,
			Level:  lvl,
			Clear:  lvl == redraw.Clear,
			Width:  width,
			Height: height,
		}
		if h != grid.DefaultHandle {
			for _, w := range c.windowsOn(h) {
				upd.OriginRow, upd.OriginCol = w.geo.Row, w.geo.Col
			}
		}

		for row, repaint := range c.repaintRows(h, g, lvl) {
			if !repaint {
				continue
			}
			runs, err := render.RowRuns(g, row, 0, width)
			if err != nil {
				c.log.Warn("row read failed", "grid", int(h), "row", row, "error", err)
				continue
			}
			upd.Rows = append(upd.Rows, render.RowUpdate{Row: row, Runs: c.budget.Accumulate(runs)})
		}

		g.ClearDirty()
		c.settleWindows(h)
		if len(upd.Rows) > 0 || upd.Clear {
			f.Grids = append(f.Grids, upd)
			c.repainted = true
		}
	}

	if n := c.budget.Coalesced() - before; n > 0 {
		c.count(status.RunsCoalesced, n)
		c.log.Debug("attribute budget exceeded", "coalesced", n, "limit", c.budget.Limit())
	}
	c.count(status.RowsEmitted, f.RowCount())
}

// repaintRows selects the grid rows implied by lvl
// Dirty rows and rows uncovered by a resize are always included; each level
// adds to what the lower ones repaint
func (c *Compositor) repaintRows(h grid.Handle, g *grid.Grid, lvl redraw.Level) []bool {
	width, height := g.Size()
	rows := make([]bool, height)
	if lvl.AtLeast(redraw.SomeValid) {
		for row := range rows {
			rows[row] = true
		}
		return rows
	}

	for row := range rows {
		rows[row] = g.RowDirty(row) || (width > 0 && g.NeedsClear(row, width-1))
	}
	if !lvl.AtLeast(redraw.Inverted) {
		return rows
	}

	for _, w := range c.windowsOn(h) {
		off := c.offset(w)
		for r := 0; r < w.geo.Height; r++ {
			was, is := w.prevSel.contains(r), w.sel.contains(r)
			mark := was != is
			if lvl.AtLeast(redraw.InvertedAll) {
				mark = mark || was || is
			}
			if lvl.AtLeast(redraw.RedrawTop) && r < w.topRows {
				mark = true
			}
			if row := off.Row + r; mark && row >= 0 && row < height {
				rows[row] = true
			}
		}
	}
	return rows
}

// windowsOn returns the windows rendering into grid h
func (c *Compositor) windowsOn(h grid.Handle) []*window {
	var out []*window
	for _, id := range c.windowIDs() {
		if w := c.windows[id]; w.handle == h {
			out = append(out, w)
		}
	}
	return out
}

// settleWindows records what the repaint of grid h made current
func (c *Compositor) settleWindows(h grid.Handle) {
	for _, w := range c.windowsOn(h) {
		w.prevSel = w.sel
		w.topRows = 0
	}
}

// separatorPass draws plain separator lines over grid content
type separatorPass struct {
	c *Compositor
}

func (p *separatorPass) Name() string { return "separators" }

func (p *separatorPass) Enabled() bool {
	return p.c.def != nil && (p.c.geometryChanged || p.c.repainted)
}

func (p *separatorPass) Run(f *render.Frame) {
	c := p.c
	c.rebuildLayout()
	vertical, horizontal := c.layout.SeparatorCells()

	vr := c.glyphs.Glyph(junction.Pattern(0).With(junction.ArmUp).With(junction.ArmDown))
	hr := c.glyphs.Glyph(junction.Pattern(0).With(junction.ArmLeft).With(junction.ArmRight))
	for _, pt := range vertical {
		if c.onScreen(pt) {
			f.Separators = append(f.Separators, render.Glyph{Row: pt.Row, Col: pt.Col, Rune: vr, Style: junction.StyleVertical})
		}
	}
	for _, pt := range horizontal {
		if c.onScreen(pt) {
			f.Separators = append(f.Separators, render.Glyph{Row: pt.Row, Col: pt.Col, Rune: hr, Style: junction.StyleHorizontal})
		}
	}
}

// junctionPass draws connectors last so they sit on fresh content
type junctionPass struct {
	c *Compositor
}

func (p *junctionPass) Name() string { return "junctions" }

func (p *junctionPass) Enabled() bool {
	return p.c.def != nil && (p.c.geometryChanged || p.c.repainted)
}

func (p *junctionPass) Run(f *render.Frame) {
	c := p.c
	c.rebuildLayout()
	for _, j := range c.junctions {
		if !c.onScreen(j.Point) {
			continue
		}
		r := c.glyphs.Glyph(j.Pattern)
		if r == 0 {
			continue
		}
		f.Junctions = append(f.Junctions, render.Glyph{Row: j.Row, Col: j.Col, Rune: r, Style: j.Style})
	}
	c.count(status.JunctionsDrawn, len(f.Junctions))
	c.geometryChanged = false
}

func (c *Compositor) onScreen(pt junction.Point) bool {
	return pt.Row >= 0 && pt.Row < c.height && pt.Col >= 0 && pt.Col < c.width
}

type gridSummary struct {
	Handle grid.Handle
	Level  string
	Clear  bool
	Rows   int
}

type frameSummary struct {
	Seq        uint64
	Grids      []gridSummary
	Separators int
	Junctions  int
}

// debugPass dumps a frame summary at debug level
type debugPass struct {
	c *Compositor
}

func (p *debugPass) Name() string { return "debug" }

func (p *debugPass) Enabled() bool { return p.c.debugFrames }

func (p *debugPass) Run(f *render.Frame) {
	if f.Empty() {
		return
	}
	s := frameSummary{Seq: f.Seq, Separators: len(f.Separators), Junctions: len(f.Junctions)}
	for _, g := range f.Grids {
		s.Grids = append(s.Grids, gridSummary{Handle: g.Handle, Level: g.Level.String(), Clear: g.Clear, Rows: len(g.Rows)})
	}
	p.c.log.Debug("frame", "seq", f.Seq, "dump", pretty.Sprint(s))
}
