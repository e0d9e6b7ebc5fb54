package render

import (
	"strings"

	"github.com/lixenwraith/vi-screen/grid"
)

// DefaultAttrBudget caps distinct attribute runs per rendered line
const DefaultAttrBudget = 1024

// Budget bounds the run count of a line by coalescing neighbours
// Overflow degrades attributes, it is never an error
type Budget struct {
	max       int
	coalesced int
}

// NewBudget creates a guard allowing at most limit runs per line
// A non-positive limit selects DefaultAttrBudget
func NewBudget(limit int) *Budget {
	if limit <= 0 {
		limit = DefaultAttrBudget
	}
	return &Budget{max: limit}
}

// Limit returns the per-line run cap
func (b *Budget) Limit() int {
	return b.max
}

// Coalesced returns how many runs were folded away because of the cap
func (b *Budget) Coalesced() int {
	return b.coalesced
}

// Accumulate returns runs for one line bounded by the budget
// Runs must be sorted by column. Covered columns and text are preserved;
// merged spans keep the attribute covering the most columns
func (b *Budget) Accumulate(runs []Run) []Run {
	if len(runs) <= b.max {
		return runs
	}

	in := len(runs)
	out := mergeEqual(runs)
	if len(out) > b.max {
		// Group size k makes ceil(n/k) <= max
		k := (len(out) + b.max - 1) / b.max
		grouped := make([]Run, 0, (len(out)+k-1)/k)
		for i := 0; i < len(out); i += k {
			grouped = append(grouped, mergeGroup(out[i:min(i+k, len(out))]))
		}
		out = mergeEqual(grouped)
	}
	b.coalesced += in - len(out)
	return out
}

// mergeEqual joins touching runs that share an attribute
func mergeEqual(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if n := len(out); n > 0 && out[n-1].Attr == r.Attr && out[n-1].End() == r.Col {
			out[n-1].Width += r.Width
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// mergeGroup folds a group into one run, blank-filling gaps between members
func mergeGroup(group []Run) Run {
	weight := make(map[grid.AttrID]int, len(group))
	best := group[0].Attr
	var sb strings.Builder
	end := group[0].Col
	for _, r := range group {
		if r.Col > end {
			sb.WriteString(strings.Repeat(" ", r.Col-end))
		}
		sb.WriteString(r.Text)
		end = r.End()

		weight[r.Attr] += r.Width
		if weight[r.Attr] > weight[best] {
			best = r.Attr
		}
	}
	return Run{
		Col:   group[0].Col,
		Width: end - group[0].Col,
		Attr:  best,
		Text:  sb.String(),
	}
}
