package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-screen/junction"
	"github.com/lixenwraith/vi-screen/redraw"
	"github.com/lixenwraith/vi-screen/render"
	"github.com/lixenwraith/vi-screen/tabline"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(20, 6)
	t.Cleanup(screen.Fini)
	return screen
}

func TestDrawFrame(t *testing.T) {
	sim := newSimScreen(t)
	pal := NewPalette()
	red := tcell.StyleDefault.Foreground(tcell.ColorRed)
	pal.Set(3, red)
	s := NewScreen(sim, pal)

	f := render.Frame{
		Seq: 1,
		Grids: []render.GridUpdate{{
			Handle:    2,
			Level:     redraw.NotValid,
			OriginRow: 1,
			OriginCol: 2,
			Width:     8,
			Height:    2,
			Rows: []render.RowUpdate{{
				Row: 0,
				Runs: []render.Run{
					{Col: 0, Width: 4, Attr: 3, Text: "ab世"},
					{Col: 4, Width: 1, Attr: 0, Text: "c"},
				},
			}},
		}},
		Separators: []render.Glyph{{Row: 3, Col: 0, Rune: '─', Style: junction.StyleHorizontal}},
		Junctions:  []render.Glyph{{Row: 3, Col: 10, Rune: '┴', Style: junction.StyleTeeUp}},
	}
	if n := s.Draw(f); n != 6 {
		t.Errorf("Expected 6 cells set, got %d", n)
	}

	cases := []struct {
		x, y int
		want rune
	}{
		{2, 1, 'a'},
		{3, 1, 'b'},
		{4, 1, '世'},
		{6, 1, 'c'},
		{0, 3, '─'},
		{10, 3, '┴'},
	}
	for _, tc := range cases {
		r, _, _, _ := sim.GetContent(tc.x, tc.y)
		if r != tc.want {
			t.Errorf("(%d,%d) = %q, want %q", tc.x, tc.y, r, tc.want)
		}
	}

	_, _, style, _ := sim.GetContent(2, 1)
	if fg, _, _ := style.Decompose(); fg != tcell.ColorRed {
		t.Errorf("Expected red foreground from palette, got %v", fg)
	}
}

func TestDrawClearsArea(t *testing.T) {
	sim := newSimScreen(t)
	sim.SetContent(5, 2, 'z', nil, tcell.StyleDefault)
	s := NewScreen(sim, nil)

	s.Draw(render.Frame{Grids: []render.GridUpdate{{Handle: 1, Clear: true, Width: 20, Height: 6}}})

	if r, _, _, _ := sim.GetContent(5, 2); r != ' ' {
		t.Errorf("Expected cleared cell, got %q", r)
	}
	if s.Draw(render.Frame{}) != 0 {
		t.Error("empty frame should draw nothing")
	}
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle("fg=red, bg=#102030, bold,reverse")
	if err != nil {
		t.Fatalf("ParseStyle: %v", err)
	}
	fg, bg, attrs := style.Decompose()
	if fg != tcell.ColorRed {
		t.Errorf("fg = %v", fg)
	}
	if bg != tcell.NewRGBColor(0x10, 0x20, 0x30) {
		t.Errorf("bg = %v", bg)
	}
	if attrs&tcell.AttrBold == 0 || attrs&tcell.AttrReverse == 0 {
		t.Errorf("attrs = %v", attrs)
	}

	for _, bad := range []string{"fg=nosuchcolor", "size=3", "sparkle"} {
		if _, err := ParseStyle(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestPaletteLoad(t *testing.T) {
	p := NewPalette()
	err := p.Load(map[string]string{"1": "reverse", "border": "fg=blue"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Len() != 1 {
		t.Errorf("Expected 1 bound id, got %d", p.Len())
	}
	if _, _, attrs := p.Style(1).Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("attr 1 should be reversed")
	}
	if fg, _, _ := p.Border.Decompose(); fg != tcell.ColorBlue {
		t.Errorf("border fg = %v", fg)
	}
	if p.Style(42) != tcell.StyleDefault {
		t.Error("unknown id should use the default style")
	}
	if err := p.Load(map[string]string{"x": "bold"}); err == nil {
		t.Error("Expected error for non-numeric key")
	}
}

func TestClickCounter(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewClickCounter(0)
	c.now = func() time.Time { return now }

	press := func(x, y int, b tcell.ButtonMask, m tcell.ModMask) (MouseClick, bool) {
		return c.Translate(tcell.NewEventMouse(x, y, b, m))
	}
	release := func() {
		if _, ok := press(0, 0, tcell.ButtonNone, 0); ok {
			t.Fatal("release reported as a click")
		}
	}

	mc, ok := press(5, 0, tcell.Button1, tcell.ModCtrl)
	if !ok {
		t.Fatal("Expected a click")
	}
	want := MouseClick{Col: 5, Row: 0, Click: tabline.Click{Clicks: 1, Button: tabline.ButtonLeft, Mods: tabline.ModCtrl}}
	if mc != want {
		t.Errorf("click = %+v, want %+v", mc, want)
	}
	if _, ok := press(6, 0, tcell.Button1, 0); ok {
		t.Error("drag with the button held is not a new click")
	}
	release()

	now = now.Add(100 * time.Millisecond)
	mc, _ = press(5, 0, tcell.Button1, 0)
	if mc.Click.Clicks != 2 {
		t.Errorf("Expected double click, got %d", mc.Click.Clicks)
	}
	release()

	now = now.Add(time.Second)
	mc, _ = press(5, 0, tcell.Button1, 0)
	if mc.Click.Clicks != 1 {
		t.Errorf("Expected interval to reset the count, got %d", mc.Click.Clicks)
	}
	release()

	mc, _ = press(5, 0, tcell.Button2, tcell.ModShift|tcell.ModAlt)
	if mc.Click.Button != tabline.ButtonRight || mc.Click.Clicks != 1 {
		t.Errorf("right click = %+v", mc.Click)
	}
	if mc.Click.Mods != tabline.ModShift|tabline.ModAlt {
		t.Errorf("mods = %q", mc.Click.Mods.String())
	}
	release()

	for i := 0; i < MaxClicks; i++ {
		mc, _ = press(1, 1, tcell.Button3, 0)
		release()
	}
	if mc.Click.Clicks != MaxClicks || mc.Click.Button != tabline.ButtonMiddle {
		t.Errorf("Expected %d middle clicks, got %+v", MaxClicks, mc.Click)
	}
	mc, _ = press(1, 1, tcell.Button3, 0)
	if mc.Click.Clicks != 1 {
		t.Errorf("Expected count to wrap after %d, got %d", MaxClicks, mc.Click.Clicks)
	}

	if _, ok := press(1, 1, tcell.WheelUp, 0); ok {
		t.Error("wheel events are not clicks")
	}
}

func TestFlashReversesBorders(t *testing.T) {
	sim := newSimScreen(t)
	s := NewScreen(sim, nil)
	f := render.Frame{Seq: 1, Separators: []render.Glyph{{Row: 2, Col: 4, Rune: '│', Style: junction.StyleVertical}}}

	s.Flash(true)
	if !s.Flashing() {
		t.Fatal("Expected flashing")
	}
	s.Draw(f)
	_, _, style, _ := sim.GetContent(4, 2)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("Expected reversed border while flashing")
	}

	s.Flash(false)
	s.Draw(f)
	_, _, style, _ = sim.GetContent(4, 2)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse != 0 {
		t.Error("Expected plain border after flash")
	}
}
