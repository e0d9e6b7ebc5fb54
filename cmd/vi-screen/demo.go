package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"pkt.systems/pslog"

	"github.com/lixenwraith/vi-screen/compositor"
	"github.com/lixenwraith/vi-screen/grid"
	"github.com/lixenwraith/vi-screen/junction"
	"github.com/lixenwraith/vi-screen/tabline"
	"github.com/lixenwraith/vi-screen/terminal"
)

// Attribute ids used by the demo; the palette binds them to styles
const (
	attrText grid.AttrID = iota + 1
	attrCursor
	attrTabActive
	attrTabInactive
	attrTabFill
	attrTabClose
)

const maxSplits = 4

// funcNewTab is the tabline function that opens a tab page
const funcNewTab tabline.FuncRef = 1

// demoTab is one tab page: a grid of cols x rows windows
type demoTab struct {
	id       tabline.TabID
	cols     int
	rows     int
	modified bool
}

// demo plays the layout and tab collaborators around a compositor
type demo struct {
	comp *compositor.Compositor
	log  pslog.Logger

	tabs    []*demoTab
	current int
	nextTab tabline.TabID

	windows []junction.Window
	cursor  map[int]int
	focus   int
}

func newDemo(log pslog.Logger) *demo {
	d := &demo{log: log, cursor: make(map[int]int), nextTab: 1}
	d.addTab()
	return d
}

func (d *demo) addTab() {
	d.tabs = append(d.tabs, &demoTab{id: d.nextTab, cols: 1, rows: 1})
	d.nextTab++
	d.current = len(d.tabs) - 1
}

func (d *demo) tab() *demoTab {
	return d.tabs[d.current]
}

// tileWindows lays out cols x rows windows below the tabline
// Every window has a status line; all but the last column a vertical separator
func tileWindows(width, height, cols, rows, base int) []junction.Window {
	top := compositor.TablineRow + 1
	availH := height - top
	if availH < 2 || width < 1 {
		return nil
	}
	cols = min(max(cols, 1), max((width+1)/2, 1))
	rows = min(max(rows, 1), max(availH/2, 1))

	tileH := availH / rows
	colW := (width - (cols - 1)) / cols
	out := make([]junction.Window, 0, cols*rows)
	row := top
	for r := 0; r < rows; r++ {
		h := tileH
		if r == rows-1 {
			h = height - row
		}
		col := 0
		for c := 0; c < cols; c++ {
			w := colW
			if c == cols-1 {
				w = width - col
			}
			out = append(out, junction.Window{
				ID:     base + r*cols + c,
				Row:    row,
				Col:    col,
				Width:  w,
				Height: h - 1,
				VSep:   c < cols-1,
				Status: true,
			})
			col += w + 1
		}
		row += h
	}
	return out
}

// apply pushes the current tab's windows, their content and the tabline
func (d *demo) apply() {
	width, height := d.comp.Size()
	t := d.tab()
	next := tileWindows(width, height, t.cols, t.rows, int(t.id)*100)

	keep := make(map[int]bool, len(next))
	for _, w := range next {
		keep[w.ID] = true
	}
	for _, w := range d.windows {
		if !keep[w.ID] {
			if err := d.comp.CloseWindow(w.ID); err != nil {
				d.log.Warn("close window failed", "window", w.ID, "error", err)
			}
			delete(d.cursor, w.ID)
		}
	}
	d.windows = next
	if !keep[d.focus] && len(next) > 0 {
		d.focus = next[0].ID
	}

	for _, w := range next {
		if err := d.comp.SetWindow(w); err != nil {
			d.log.Warn("set window failed", "window", w.ID, "error", err)
			continue
		}
		d.cursor[w.ID] = min(d.cursor[w.ID], max(w.Height-1, 0))
		d.paint(w)
	}
	d.drawTabline()
}

func (d *demo) drawTabline() {
	tabs := make([]tabline.Tab, 0, len(d.tabs))
	for i, t := range d.tabs {
		tabs = append(tabs, tabline.Tab{
			ID:       t.id,
			Label:    fmt.Sprintf("%d:%dx%d", t.id, t.cols, t.rows),
			Current:  i == d.current,
			Modified: t.modified,
			Closable: len(d.tabs) > 1,
		})
	}
	newTab := tabline.Func{Ref: funcNewTab, Label: "[+]", MinWidth: 4, Attr: attrTabInactive}
	if err := d.comp.SetTabline(tabs, newTab); err != nil {
		d.log.Warn("tabline update failed", "error", err)
	}
}

// paint writes every row of w
func (d *demo) paint(w junction.Window) {
	for row := 0; row < w.Height; row++ {
		d.paintRow(w, row)
	}
	d.markSelection(w.ID)
}

func (d *demo) paintRow(w junction.Window, row int) {
	if w.Width <= 0 {
		return
	}
	attr := attrText
	if row == d.cursor[w.ID] && w.ID == d.focus {
		attr = attrCursor
	}
	text := fmt.Sprintf("win %d line %d", w.ID, row+1)
	if row == 0 {
		text = fmt.Sprintf("win %d %dx%d at %d,%d", w.ID, w.Width, w.Height, w.Row, w.Col)
	}
	if _, err := d.comp.PutString(w.ID, row, 0, runewidth.FillRight(runewidth.Truncate(text, w.Width, ""), w.Width), attr); err != nil {
		d.log.Debug("row paint skipped", "window", w.ID, "row", row, "error", err)
	}
}

func (d *demo) markSelection(id int) {
	row := d.cursor[id]
	if err := d.comp.SetSelection(id, compositor.RowRange{Start: row, End: row + 1}); err != nil {
		d.log.Debug("selection skipped", "window", id, "error", err)
	}
}

func (d *demo) window(id int) (junction.Window, bool) {
	for _, w := range d.windows {
		if w.ID == id {
			return w, true
		}
	}
	return junction.Window{}, false
}

// moveCursor moves the focused window's cursor by delta rows
func (d *demo) moveCursor(delta int) {
	w, ok := d.window(d.focus)
	if !ok || w.Height == 0 {
		return
	}
	old := d.cursor[w.ID]
	next := min(max(old+delta, 0), w.Height-1)
	if next == old {
		return
	}
	d.cursor[w.ID] = next
	d.paintRow(w, old)
	d.paintRow(w, next)
	d.markSelection(w.ID)
}

// setFocus moves focus to window id, repainting both cursor rows
func (d *demo) setFocus(id int) {
	if id == d.focus {
		return
	}
	prev, hadPrev := d.window(d.focus)
	next, ok := d.window(id)
	if !ok {
		return
	}
	d.focus = id
	if hadPrev {
		d.paintRow(prev, d.cursor[prev.ID])
	}
	d.paintRow(next, d.cursor[next.ID])
}

// split adds columns or rows to the current tab
func (d *demo) split(cols, rows int) {
	t := d.tab()
	t.cols = min(max(t.cols+cols, 1), maxSplits)
	t.rows = min(max(t.rows+rows, 1), maxSplits)
	t.modified = true
	d.apply()
}

func (d *demo) newTab() {
	d.addTab()
	d.apply()
}

func (d *demo) nextTabPage() {
	if len(d.tabs) < 2 {
		return
	}
	d.SwitchTab(d.tabs[(d.current+1)%len(d.tabs)].id)
}

func (d *demo) toggleMultigrid() {
	d.comp.SetMultigrid(!d.comp.Multigrid())
	for _, w := range d.windows {
		d.paint(w)
	}
	d.drawTabline()
}

func (d *demo) resize(width, height int) {
	if err := d.comp.Resize(width, height); err != nil {
		d.log.Warn("resize failed", "width", width, "height", height, "error", err)
		return
	}
	d.apply()
}

// click routes tabline clicks to the compositor and focuses clicked windows
func (d *demo) click(mc terminal.MouseClick) {
	if mc.Row == compositor.TablineRow {
		d.comp.Click(mc.Col, mc.Row, mc.Click)
		return
	}
	for _, w := range d.windows {
		if mc.Row >= w.Row && mc.Row < w.EndRow() && mc.Col >= w.Col && mc.Col < w.EndCol() {
			d.setFocus(w.ID)
			if mc.Click.Button == tabline.ButtonLeft {
				d.moveCursor(mc.Row - w.Row - d.cursor[w.ID])
			}
			return
		}
	}
}

// SwitchTab makes tab current
func (d *demo) SwitchTab(id tabline.TabID) {
	for i, t := range d.tabs {
		if t.id == id {
			if i != d.current {
				d.current = i
				d.apply()
			}
			return
		}
	}
}

// CloseTab drops tab; the last tab stays
func (d *demo) CloseTab(id tabline.TabID) {
	if len(d.tabs) < 2 {
		return
	}
	for i, t := range d.tabs {
		if t.id != id {
			continue
		}
		d.tabs = append(d.tabs[:i], d.tabs[i+1:]...)
		if d.current >= i && d.current > 0 {
			d.current--
		}
		d.apply()
		return
	}
}

// RunFunc serves the demo's tabline functions; unknown refs are ignored
func (d *demo) RunFunc(ref tabline.FuncRef, minWidth int, click tabline.Click) {
	d.log.Debug("tabline function", "ref", uint32(ref), "min_width", minWidth, "clicks", click.Clicks, "button", click.Button.String())
	switch ref {
	case funcNewTab:
		if click.Button == tabline.ButtonLeft {
			d.newTab()
		}
	default:
		d.log.Debug("unknown tabline function", "ref", uint32(ref))
	}
}
