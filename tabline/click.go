// Package tabline maps tabline columns to click actions.
//
// The registry holds an ordered table of regions rebuilt whole on every
// tabline layout change. It only resolves which action a click means; the
// tab collaborator performs it through Handler.
package tabline

import "fmt"

// TabID identifies a tab page as numbered by the tab collaborator
type TabID int

// FuncRef is an opaque handle to a user function, issued and validated by the tab collaborator
type FuncRef uint32

// Definition is the action bound to a click region
// Implemented by Disabled, TabSwitch, TabClose and FuncRun only
type Definition interface {
	isDefinition()
	String() string
}

// Disabled ignores clicks
type Disabled struct{}

// TabSwitch makes Tab current
type TabSwitch struct {
	Tab TabID
}

// TabClose closes Tab
type TabClose struct {
	Tab TabID
}

// FuncRun calls a user function with the region's minimum width argument
type FuncRun struct {
	Ref      FuncRef
	MinWidth int
}

func (Disabled) isDefinition() {}
func (TabSwitch) isDefinition() {}
func (TabClose) isDefinition() {}
func (FuncRun) isDefinition() {}

func (Disabled) String() string { return "disabled" }
func (d TabSwitch) String() string { return fmt.Sprintf("tab_switch(%d)", d.Tab) }
func (d TabClose) String() string { return fmt.Sprintf("tab_close(%d)", d.Tab) }
func (d FuncRun) String() string { return fmt.Sprintf("func_run(%d,%d)", d.Ref, d.MinWidth) }

// Record pairs a definition with the column its region starts at
type Record struct {
	Def   Definition
	Start int
}

// Button is the mouse button that produced a click
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonMiddle:
		return "m"
	case ButtonRight:
		return "r"
	default:
		return "l"
	}
}

// Modifiers held during a click
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// String renders modifiers the way click functions receive them: "s", "c", "a", "m"
// padded with spaces to four characters
func (m Modifiers) String() string {
	out := []byte("    ")
	for i, f := range []struct {
		mod Modifiers
		ch  byte
	}{{ModShift, 's'}, {ModCtrl, 'c'}, {ModAlt, 'a'}, {ModMeta, 'm'}} {
		if m&f.mod != 0 {
			out[i] = f.ch
		}
	}
	return string(out)
}

// Click carries the mouse details passed on to function regions
type Click struct {
	Clicks int
	Button Button
	Mods   Modifiers
}

// Handler performs resolved actions; implemented by the tab collaborator
type Handler interface {
	SwitchTab(tab TabID)
	CloseTab(tab TabID)
	RunFunc(ref FuncRef, minWidth int, click Click)
}

// Perform hands def to h. Disabled regions do nothing and report false
func Perform(h Handler, def Definition, click Click) bool {
	if h == nil {
		return false
	}
	switch d := def.(type) {
	case TabSwitch:
		h.SwitchTab(d.Tab)
	case TabClose:
		h.CloseTab(d.Tab)
	case FuncRun:
		h.RunFunc(d.Ref, d.MinWidth, click)
	default:
		return false
	}
	return true
}
