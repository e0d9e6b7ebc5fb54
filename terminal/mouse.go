package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-screen/tabline"
)

// MaxClicks caps the repeat count; a fifth quick click starts over at one
const MaxClicks = 4

// DefaultClickInterval is the longest gap between presses of one multi-click
const DefaultClickInterval = 500 * time.Millisecond

// MouseClick is a button press at a screen cell
type MouseClick struct {
	Col   int
	Row   int
	Click tabline.Click
}

// ClickCounter turns tcell mouse events into presses with a repeat count
// Releases, motion and wheel events produce nothing
type ClickCounter struct {
	interval time.Duration
	now      func() time.Time

	held    tcell.ButtonMask
	count   int
	last    time.Time
	lastBtn tabline.Button
	lastCol int
	lastRow int
}

// NewClickCounter creates a counter; a non-positive interval selects DefaultClickInterval
func NewClickCounter(interval time.Duration) *ClickCounter {
	if interval <= 0 {
		interval = DefaultClickInterval
	}
	return &ClickCounter{interval: interval, now: time.Now}
}

const clickButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// Translate reports a press carried by ev
func (c *ClickCounter) Translate(ev *tcell.EventMouse) (MouseClick, bool) {
	btns := ev.Buttons() & clickButtons
	pressed := btns &^ c.held
	c.held = btns
	if pressed == 0 {
		return MouseClick{}, false
	}

	var btn tabline.Button
	switch {
	case pressed&tcell.Button1 != 0:
		btn = tabline.ButtonLeft
	case pressed&tcell.Button3 != 0:
		btn = tabline.ButtonMiddle
	default:
		btn = tabline.ButtonRight
	}

	x, y := ev.Position()
	now := c.now()
	if c.count > 0 && c.count < MaxClicks && btn == c.lastBtn &&
		x == c.lastCol && y == c.lastRow && now.Sub(c.last) <= c.interval {
		c.count++
	} else {
		c.count = 1
	}
	c.last, c.lastBtn, c.lastCol, c.lastRow = now, btn, x, y

	return MouseClick{
		Col: x,
		Row: y,
		Click: tabline.Click{
			Clicks: c.count,
			Button: btn,
			Mods:   modifiers(ev.Modifiers()),
		},
	}, true
}

func modifiers(m tcell.ModMask) tabline.Modifiers {
	var out tabline.Modifiers
	if m&tcell.ModShift != 0 {
		out |= tabline.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= tabline.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= tabline.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= tabline.ModMeta
	}
	return out
}
