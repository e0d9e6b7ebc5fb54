package render

import (
	"strings"

	"github.com/lixenwraith/vi-screen/grid"
)

// Run is a horizontal span of cells sharing one attribute
type Run struct {
	Col   int         // first column
	Width int         // columns covered, double-width runes count twice
	Attr  grid.AttrID // attribute applied to the whole span
	Text  string      // cell runes, continuation cells omitted
}

// End is the first column after the run
func (r Run) End() int {
	return r.Col + r.Width
}

// RowRuns splits columns [from, to) of row into attribute runs
func RowRuns(g grid.Reader, row, from, to int) ([]Run, error) {
	w, _ := g.Size()
	from = max(from, 0)
	to = min(to, w)

	var runs []Run
	var sb strings.Builder
	cur := Run{Col: from}
	open := false

	for col := from; col < to; col++ {
		c, err := g.ReadCell(row, col)
		if err != nil {
			return nil, err
		}
		if c.Continuation() && open {
			cur.Width++
			continue
		}
		if !open || c.Attr != cur.Attr {
			if open {
				cur.Text = sb.String()
				runs = append(runs, cur)
				sb.Reset()
			}
			cur = Run{Col: col, Attr: c.Attr}
			open = true
		}
		r := c.Rune
		if c.Continuation() {
			// Orphaned right half, the left half lies outside the range
			r = ' '
		}
		sb.WriteRune(r)
		cur.Width++
	}
	if open {
		cur.Text = sb.String()
		runs = append(runs, cur)
	}
	return runs, nil
}

// Span returns the first column and end column covered by runs
func Span(runs []Run) (int, int) {
	if len(runs) == 0 {
		return 0, 0
	}
	return runs[0].Col, runs[len(runs)-1].End()
}
