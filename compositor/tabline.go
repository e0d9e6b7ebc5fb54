package compositor

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/vi-screen/status"
	"github.com/lixenwraith/vi-screen/tabline"
)

// SetTabline draws tabs and user function items on the tabline row and
// rebuilds the click table
// Empty lists hide the tabline and drop every click region
func (c *Compositor) SetTabline(tabs []tabline.Tab, funcs ...tabline.Func) error {
	if c.def == nil {
		return fmt.Errorf("tabline: %w", ErrUnavailable)
	}
	if len(tabs) == 0 && len(funcs) == 0 {
		c.tabs, c.funcs = nil, nil
		c.clicks.Reset()
		if c.width == 0 || c.height == 0 {
			return nil
		}
		if _, err := c.def.PutString(TablineRow, 0, strings.Repeat(" ", c.width), c.cfg.Tabline.FillAttr); err != nil {
			return fmt.Errorf("tabline: %w", err)
		}
		return nil
	}

	c.tabs = append(c.tabs[:0:0], tabs...)
	c.funcs = append(c.funcs[:0:0], funcs...)
	if c.width == 0 || c.height == 0 {
		// Kept for the next resize
		c.clicks.Reset()
		return nil
	}
	layout, err := c.builder.Draw(c.def, TablineRow, c.width, c.tabs, c.funcs...)
	if err != nil {
		// A half-drawn row still gets a consistent click table
		c.log.Warn("tabline draw failed", "tabs", len(tabs), "error", err)
	}
	recs := c.clicks.Rebuild(layout)
	c.log.Debug("tabline rebuilt", "tabs", len(tabs), "funcs", len(funcs), "regions", len(recs), "width", c.width)
	if err != nil {
		return fmt.Errorf("tabline: %w", err)
	}
	return nil
}

// Tabline returns the click-region registry
func (c *Compositor) Tabline() *tabline.Registry {
	return c.clicks
}

// Click resolves a mouse click and hands the action to the tab collaborator
// Clicks off the tabline resolve to Disabled without ringing the bell
func (c *Compositor) Click(col, row int, click tabline.Click) tabline.Definition {
	if row != TablineRow || (len(c.tabs) == 0 && len(c.funcs) == 0) {
		return tabline.Disabled{}
	}
	def := c.clicks.Dispatch(col)
	if tabline.Perform(c.handler, def, click) {
		c.count(status.ClicksHandled, 1)
		c.log.Debug("tabline click", "col", col, "action", def.String(), "clicks", click.Clicks)
		return def
	}
	c.count(status.ClicksDisabled, 1)
	if _, disabled := def.(tabline.Disabled); disabled && c.bell != nil {
		c.bell.Ring()
	}
	return def
}
