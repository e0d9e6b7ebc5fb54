package tabline

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-screen/grid"
)

func tabSegments(widths ...int) []Segment {
	segs := make([]Segment, len(widths))
	for i, w := range widths {
		segs[i] = Segment{Kind: SegmentTab, Tab: TabID(i), Width: w}
	}
	return segs
}

func TestRebuildThreeTabs(t *testing.T) {
	r := NewRegistry()
	recs := r.Rebuild(Layout{Segments: tabSegments(10, 8, 12)})

	require.Len(t, recs, 3)
	assert.Equal(t, 0, recs[0].Start)
	assert.Equal(t, 10, recs[1].Start)
	assert.Equal(t, 18, recs[2].Start)
	assert.Equal(t, TabSwitch{Tab: 2}, r.Dispatch(19))
}

func TestDispatchEveryColumn(t *testing.T) {
	widths := []int{4, 7, 1, 9}
	segs := tabSegments(widths...)
	segs[1].Closable = true
	segs[3].Closable = true

	r := NewRegistry()
	r.Rebuild(Layout{Segments: segs})

	col := 0
	for i, w := range widths {
		for c := col; c < col+w; c++ {
			got := r.Dispatch(c)
			if segs[i].Closable && c == col+w-1 {
				assert.Equal(t, TabClose{Tab: TabID(i)}, got, "col %d", c)
			} else {
				assert.Equal(t, TabSwitch{Tab: TabID(i)}, got, "col %d", c)
			}
		}
		col += w
	}
	assert.Equal(t, Disabled{}, r.Dispatch(col), "past the last region")
	assert.Equal(t, Disabled{}, r.Dispatch(-1))
}

func TestDispatchFailsClosed(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, Disabled{}, r.Dispatch(0), "empty registry")

	r.Rebuild(Layout{Start: 5, Segments: tabSegments(3)})
	assert.Equal(t, Disabled{}, r.Dispatch(4), "before first region")
	assert.Equal(t, TabSwitch{Tab: 0}, r.Dispatch(5))

	r.Reset()
	assert.Equal(t, Disabled{}, r.Dispatch(5))
	assert.Empty(t, r.Records())
}

func TestRebuildTrailingFillAndFunctions(t *testing.T) {
	r := NewRegistry()
	recs := r.Rebuild(Layout{
		Width: 30,
		Segments: []Segment{
			{Kind: SegmentTab, Tab: 1, Width: 6},
			{Kind: SegmentFunc, Func: 42, MinWidth: 3, Width: 5},
			{Kind: SegmentFill, Width: 2},
			{Kind: SegmentTab, Tab: 2, Width: 0},
		},
	})

	require.Len(t, recs, 4)
	assert.Equal(t, Record{Def: TabSwitch{Tab: 1}, Start: 0}, recs[0])
	assert.Equal(t, Record{Def: FuncRun{Ref: 42, MinWidth: 3}, Start: 6}, recs[1])
	assert.Equal(t, Record{Def: Disabled{}, Start: 11}, recs[2])
	assert.Equal(t, Record{Def: Disabled{}, Start: 13}, recs[3])

	for i := 1; i < len(recs); i++ {
		assert.Greater(t, recs[i].Start, recs[i-1].Start)
	}
	assert.Equal(t, Disabled{}, r.Dispatch(29))
	assert.Equal(t, Disabled{}, r.Dispatch(30))
}

func TestRebuildClipsToWidth(t *testing.T) {
	r := NewRegistry()
	recs := r.Rebuild(Layout{Width: 12, Segments: tabSegments(10, 8)})
	require.Len(t, recs, 2)
	assert.Equal(t, TabSwitch{Tab: 1}, r.Dispatch(11))
	assert.Equal(t, Disabled{}, r.Dispatch(12))
}

// TestDispatchDuringRebuild checks that readers never observe a half-built table
func TestDispatchDuringRebuild(t *testing.T) {
	a := Layout{Segments: []Segment{{Kind: SegmentTab, Tab: 1, Width: 40}}}
	b := Layout{Segments: []Segment{{Kind: SegmentTab, Tab: 2, Width: 20}, {Kind: SegmentTab, Tab: 3, Width: 20}}}

	r := NewRegistry()
	r.Rebuild(a)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan string, 1)
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for c := 0; c < 40; c++ {
					d := r.Dispatch(c)
					okA := d == TabSwitch{Tab: 1}
					okB := (c < 20 && d == TabSwitch{Tab: 2}) || (c >= 20 && d == TabSwitch{Tab: 3})
					if !okA && !okB {
						select {
						case errs <- d.String():
						default:
						}
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		if i%2 == 0 {
			r.Rebuild(b)
		} else {
			r.Rebuild(a)
		}
	}
	close(stop)
	wg.Wait()

	select {
	case d := <-errs:
		t.Fatalf("observed inconsistent definition %s", d)
	default:
	}
}

type recordingHandler struct {
	calls []string
}

func (h *recordingHandler) SwitchTab(tab TabID) {
	h.calls = append(h.calls, TabSwitch{Tab: tab}.String())
}

func (h *recordingHandler) CloseTab(tab TabID) {
	h.calls = append(h.calls, TabClose{Tab: tab}.String())
}

func (h *recordingHandler) RunFunc(ref FuncRef, minWidth int, click Click) {
	h.calls = append(h.calls, FuncRun{Ref: ref, MinWidth: minWidth}.String()+" "+click.Button.String()+click.Mods.String())
}

func TestPerform(t *testing.T) {
	h := &recordingHandler{}
	click := Click{Clicks: 2, Button: ButtonRight, Mods: ModCtrl | ModMeta}

	assert.True(t, Perform(h, TabSwitch{Tab: 3}, click))
	assert.True(t, Perform(h, TabClose{Tab: 4}, click))
	assert.True(t, Perform(h, FuncRun{Ref: 9, MinWidth: 1}, click))
	assert.False(t, Perform(h, Disabled{}, click))
	assert.False(t, Perform(nil, TabSwitch{Tab: 1}, click))

	assert.Equal(t, []string{"tab_switch(3)", "tab_close(4)", "func_run(9,1) r c m"}, h.calls)
}

func rowText(t *testing.T, g *grid.Grid, row int) string {
	t.Helper()
	w, _ := g.Size()
	var sb strings.Builder
	for col := 0; col < w; col++ {
		c, err := g.ReadCell(row, col)
		require.NoError(t, err)
		if !c.Continuation() {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

func TestBuilderDrawAndDispatch(t *testing.T) {
	g, err := grid.New(grid.DefaultHandle, 20, 2)
	require.NoError(t, err)

	b := NewBuilder(DefaultBuilderOpts())
	tabs := []Tab{
		{ID: 1, Label: "one", Closable: true},
		{ID: 2, Label: "two", Closable: true, Current: true},
	}
	l, err := b.Draw(g, 0, 20, tabs)
	require.NoError(t, err)
	assert.Equal(t, " one X two X       X", rowText(t, g, 0))

	r := NewRegistry()
	r.Rebuild(l)
	assert.Equal(t, TabSwitch{Tab: 1}, r.Dispatch(0))
	assert.Equal(t, TabClose{Tab: 1}, r.Dispatch(5))
	assert.Equal(t, TabSwitch{Tab: 2}, r.Dispatch(6))
	assert.Equal(t, TabClose{Tab: 2}, r.Dispatch(11))
	assert.Equal(t, Disabled{}, r.Dispatch(15))
	assert.Equal(t, TabClose{Tab: 2}, r.Dispatch(19), "close button targets the current tab")
}

func TestBuilderWideLabelsAndModified(t *testing.T) {
	b := NewBuilder(BuilderOpts{Padding: 1, ModifiedGlyph: "+"})
	l := b.Layout(40, []Tab{
		{ID: 1, Label: "世界"},
		{ID: 2, Label: "doc", Modified: true},
	})

	require.Len(t, l.Segments, 3)
	assert.Equal(t, 6, l.Segments[0].Width, "wide runes count double")
	assert.Equal(t, 7, l.Segments[1].Width, "modified marker plus space")
	assert.Equal(t, SegmentFill, l.Segments[2].Kind)
	assert.Equal(t, 27, l.Segments[2].Width)
}

func TestBuilderTruncatesToFit(t *testing.T) {
	b := NewBuilder(BuilderOpts{Padding: 1, CloseGlyph: "××"})
	tabs := make([]Tab, 5)
	for i := range tabs {
		tabs[i] = Tab{ID: TabID(i), Label: strings.Repeat("long", 5), Closable: true}
	}

	l := b.Layout(30, tabs)
	total := 0
	for _, s := range l.Segments {
		total += s.Width
	}
	assert.LessOrEqual(t, total, 30)

	r := NewRegistry()
	r.Rebuild(l)
	assert.Equal(t, TabSwitch{Tab: 0}, r.Dispatch(0))
	assert.Equal(t, TabSwitch{Tab: 4}, r.Dispatch(20), "every tab still gets a region")
	assert.Equal(t, TabClose{Tab: 4}, r.Dispatch(24))
}

func TestBuilderFuncItems(t *testing.T) {
	g, err := grid.New(grid.DefaultHandle, 16, 1)
	require.NoError(t, err)

	b := NewBuilder(BuilderOpts{Padding: 1, CloseGlyph: "X"})
	tabs := []Tab{{ID: 1, Label: strings.Repeat("x", 20)}}
	funcs := []Func{{Ref: 9, Label: "fn", MinWidth: 4}, {Ref: 10, Label: "go"}}
	l, err := b.Draw(g, 0, 16, tabs, funcs...)
	require.NoError(t, err)

	require.Len(t, l.Segments, 4)
	assert.Equal(t, SegmentTab, l.Segments[0].Kind)
	assert.Equal(t, 8, l.Segments[0].Width, "tab shrinks to leave room for functions")
	assert.Equal(t, Segment{Kind: SegmentFunc, Width: 4, Func: 9, MinWidth: 4}, l.Segments[1])
	assert.Equal(t, Segment{Kind: SegmentFunc, Width: 2, Func: 10}, l.Segments[2])
	assert.Equal(t, Segment{Kind: SegmentFill, Width: 2}, l.Segments[3])
	assert.Equal(t, "fn  go  ", rowText(t, g, 0)[8:])

	r := NewRegistry()
	r.Rebuild(l)
	assert.Equal(t, FuncRun{Ref: 9, MinWidth: 4}, r.Dispatch(11))
	assert.Equal(t, FuncRun{Ref: 10}, r.Dispatch(13))
	assert.Equal(t, Disabled{}, r.Dispatch(14))
}

func TestBuilderZeroWidth(t *testing.T) {
	g, err := grid.New(grid.DefaultHandle, 0, 1)
	require.NoError(t, err)

	b := NewBuilder(DefaultBuilderOpts())
	l, err := b.Draw(g, 0, 0, []Tab{{ID: 1, Label: "a"}}, Func{Ref: 1, Label: "f"})
	require.NoError(t, err)
	assert.Empty(t, l.Segments)

	r := NewRegistry()
	assert.Empty(t, r.Rebuild(l))
	assert.Equal(t, Disabled{}, r.Dispatch(0))
}
