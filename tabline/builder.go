package tabline

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/vi-screen/grid"
)

// Tab describes one tab page as reported by the tab collaborator
type Tab struct {
	ID       TabID
	Label    string
	Current  bool
	Modified bool
	Closable bool
}

// Func is a user-defined clickable item drawn after the tabs
// MinWidth pads Label and is passed back to the function on click
type Func struct {
	Ref      FuncRef
	Label    string
	MinWidth int
	Attr     grid.AttrID
}

func (f Func) width() int {
	return max(runewidth.StringWidth(f.Label), f.MinWidth, 0)
}

// RowWriter is the grid surface the builder draws on
type RowWriter interface {
	PutString(row, col int, s string, attr grid.AttrID) (int, error)
}

// BuilderOpts configures tabline rendering
type BuilderOpts struct {
	Padding       int    // columns either side of a label, default 1
	CloseGlyph    string // per-tab close glyph, must be one column wide
	ModifiedGlyph string // shown before the label of a modified tab
	CloseButton   bool   // draw a close-current-tab button in the last column

	ActiveAttr   grid.AttrID
	InactiveAttr grid.AttrID
	FillAttr     grid.AttrID
	CloseAttr    grid.AttrID
}

// DefaultBuilderOpts returns sensible defaults
func DefaultBuilderOpts() BuilderOpts {
	return BuilderOpts{
		Padding:       1,
		CloseGlyph:    "X",
		ModifiedGlyph: "+",
		CloseButton:   true,
	}
}

// Builder lays out and draws the tabline
type Builder struct {
	opts BuilderOpts
}

// NewBuilder creates a builder; a close glyph that is not one column wide falls back to "X"
func NewBuilder(opts BuilderOpts) *Builder {
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	if runewidth.StringWidth(opts.CloseGlyph) != 1 {
		opts.CloseGlyph = "X"
	}
	return &Builder{opts: opts}
}

// Layout computes segments for tabs and funcs on a tabline width columns wide
func (b *Builder) Layout(width int, tabs []Tab, funcs ...Func) Layout {
	l, _ := b.plan(width, tabs, funcs)
	return l
}

// Draw renders tabs and funcs into row of w and returns the matching layout
// A tabline with no columns draws nothing and has no segments
func (b *Builder) Draw(w RowWriter, row, width int, tabs []Tab, funcs ...Func) (Layout, error) {
	l, labels := b.plan(width, tabs, funcs)
	if len(l.Segments) < len(tabs) {
		return l, nil
	}

	col := 0
	for i, tab := range tabs {
		seg := l.Segments[i]
		if seg.Width <= 0 {
			continue
		}
		attr := b.opts.InactiveAttr
		if tab.Current {
			attr = b.opts.ActiveAttr
		}

		bodyW := seg.Width
		if seg.Closable {
			bodyW--
		}
		body := runewidth.FillRight(runewidth.Truncate(labels[i], bodyW, ""), bodyW)
		if _, err := w.PutString(row, col, body, attr); err != nil {
			return l, err
		}
		if seg.Closable {
			if _, err := w.PutString(row, col+bodyW, b.opts.CloseGlyph, b.opts.CloseAttr); err != nil {
				return l, err
			}
		}
		col += seg.Width
	}

	next := 0
	for _, seg := range l.Segments[len(tabs):] {
		var err error
		switch seg.Kind {
		case SegmentFunc:
			f := funcs[next]
			next++
			if seg.Width > 0 {
				text := runewidth.FillRight(runewidth.Truncate(f.Label, seg.Width, ""), seg.Width)
				_, err = w.PutString(row, col, text, f.Attr)
			}
		case SegmentClose:
			_, err = w.PutString(row, col, b.opts.CloseGlyph, b.opts.CloseAttr)
		default:
			_, err = w.PutString(row, col, strings.Repeat(" ", seg.Width), b.opts.FillAttr)
		}
		if err != nil {
			return l, err
		}
		col += seg.Width
	}
	return l, nil
}

// plan sizes each tab and truncates labels to fit width
// The first len(tabs) segments always correspond to tabs, in order, followed by
// one segment per func; funcs keep their width and tabs shrink around them
func (b *Builder) plan(width int, tabs []Tab, funcs []Func) (Layout, []string) {
	l := Layout{Width: width}
	labels := make([]string, len(tabs))
	if width <= 0 {
		return l, labels
	}

	button := b.opts.CloseButton && width > 1 && len(tabs) > 0
	avail := width
	if button {
		avail--
	}
	funcW := 0
	for _, f := range funcs {
		funcW += f.width()
	}
	tabAvail := max(avail-funcW, 0)

	// Shrink labels evenly when everything does not fit
	maxLabel := -1
	if len(tabs) > 0 && b.totalWidth(tabs, -1) > tabAvail {
		maxLabel = max(1, tabAvail/len(tabs)-b.chrome(Tab{Modified: true, Closable: true}))
	}

	col := 0
	var current TabID
	for i, tab := range tabs {
		if tab.Current {
			current = tab.ID
		}
		labels[i] = b.label(tab, maxLabel)
		segW := runewidth.StringWidth(labels[i])
		if tab.Closable {
			segW++
		}
		segW = max(min(segW, tabAvail-col), 0)
		l.Segments = append(l.Segments, Segment{
			Kind:     SegmentTab,
			Width:    segW,
			Tab:      tab.ID,
			Closable: tab.Closable && segW >= 2,
		})
		col += segW
	}

	for _, f := range funcs {
		segW := max(min(f.width(), avail-col), 0)
		l.Segments = append(l.Segments, Segment{
			Kind:     SegmentFunc,
			Width:    segW,
			Func:     f.Ref,
			MinWidth: f.MinWidth,
		})
		col += segW
	}

	if col < avail {
		l.Segments = append(l.Segments, Segment{Kind: SegmentFill, Width: avail - col})
	}
	if button {
		l.Segments = append(l.Segments, Segment{Kind: SegmentClose, Width: 1, Tab: current})
	}
	return l, labels
}

// chrome is the width a tab adds around its label
func (b *Builder) chrome(tab Tab) int {
	w := b.opts.Padding * 2
	if tab.Modified {
		w += runewidth.StringWidth(b.opts.ModifiedGlyph) + 1
	}
	if tab.Closable {
		w++
	}
	return w
}

func (b *Builder) totalWidth(tabs []Tab, maxLabel int) int {
	total := 0
	for _, tab := range tabs {
		total += runewidth.StringWidth(b.label(tab, maxLabel))
		if tab.Closable {
			total++
		}
	}
	return total
}

// label renders padding, modified marker and the (possibly truncated) tab label
func (b *Builder) label(tab Tab, maxLabel int) string {
	text := tab.Label
	if maxLabel >= 0 && runewidth.StringWidth(text) > maxLabel {
		text = runewidth.Truncate(text, maxLabel, "")
	}
	pad := strings.Repeat(" ", b.opts.Padding)
	if tab.Modified && b.opts.ModifiedGlyph != "" {
		return pad + b.opts.ModifiedGlyph + " " + text + pad
	}
	return pad + text + pad
}
