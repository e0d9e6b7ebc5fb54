// Package terminal draws compositor frames on a tcell screen and turns
// tcell mouse events into tabline clicks.
//
// Frames are applied in order: grid clears, grid rows, separators, then
// junction glyphs, so connectors always land on fresh content. Attributes
// are opaque ids resolved through a Palette.
package terminal
