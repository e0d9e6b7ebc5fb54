package tabline

import (
	"sort"
	"sync/atomic"
)

// SegmentKind classifies one piece of a tabline layout
type SegmentKind uint8

const (
	SegmentTab SegmentKind = iota
	SegmentFunc
	SegmentFill
	SegmentClose // single close region for Tab
)

// Segment is one contiguous piece of the tabline, left to right
type Segment struct {
	Kind     SegmentKind
	Width    int
	Tab      TabID   // SegmentTab, SegmentClose
	Closable bool    // SegmentTab: last column is a close glyph
	Func     FuncRef // SegmentFunc
	MinWidth int     // SegmentFunc
}

// Layout is the tabline geometry the registry is built from
type Layout struct {
	Start    int // column of the first segment
	Width    int // total tabline width; 0 means end of the last segment
	Segments []Segment
}

type table struct {
	records []Record
	start   int
	end     int
}

// Registry resolves tabline columns to click definitions
// The table is replaced atomically; Dispatch sees either the old or the new one
type Registry struct {
	current atomic.Pointer[table]
}

// NewRegistry creates an empty registry; every dispatch is Disabled until the first Rebuild
func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(&table{})
	return r
}

// Rebuild replaces the table from layout and returns the new records
func (r *Registry) Rebuild(l Layout) []Record {
	t := buildTable(l)
	r.current.Store(t)
	return append([]Record(nil), t.records...)
}

func buildTable(l Layout) *table {
	t := &table{start: l.Start}
	col := l.Start
	add := func(def Definition, start int) {
		if l.Width > 0 && start >= l.Width {
			return
		}
		t.records = append(t.records, Record{Def: def, Start: start})
	}

	for _, seg := range l.Segments {
		if seg.Width <= 0 {
			continue
		}
		switch seg.Kind {
		case SegmentTab:
			if seg.Closable && seg.Width >= 2 {
				add(TabSwitch{Tab: seg.Tab}, col)
				add(TabClose{Tab: seg.Tab}, col+seg.Width-1)
			} else {
				add(TabSwitch{Tab: seg.Tab}, col)
			}
		case SegmentClose:
			add(TabClose{Tab: seg.Tab}, col)
		case SegmentFunc:
			add(FuncRun{Ref: seg.Func, MinWidth: seg.MinWidth}, col)
		default:
			add(Disabled{}, col)
		}
		col += seg.Width
	}

	t.end = col
	if l.Width > 0 {
		if col < l.Width {
			add(Disabled{}, col)
		}
		t.end = l.Width
	}
	return t
}

// Dispatch returns the definition of the last region starting at or before col
// Columns before the first region, past the tabline end, or on an empty table are Disabled
func (r *Registry) Dispatch(col int) Definition {
	t := r.current.Load()
	if len(t.records) == 0 || col < t.records[0].Start || col >= t.end {
		return Disabled{}
	}
	i := sort.Search(len(t.records), func(i int) bool {
		return t.records[i].Start > col
	})
	return t.records[i-1].Def
}

// Records returns a copy of the current table
func (r *Registry) Records() []Record {
	t := r.current.Load()
	return append([]Record(nil), t.records...)
}

// Reset drops every region
func (r *Registry) Reset() {
	r.current.Store(&table{})
}
