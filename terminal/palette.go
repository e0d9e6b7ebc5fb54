package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-screen/grid"
)

// Palette maps attribute ids to tcell styles; unknown ids use the default style
type Palette struct {
	styles map[grid.AttrID]tcell.Style
	// Border styles separators and junction glyphs
	Border tcell.Style
}

// NewPalette creates a palette with only the default style
func NewPalette() *Palette {
	return &Palette{
		styles: make(map[grid.AttrID]tcell.Style),
		Border: tcell.StyleDefault,
	}
}

// Set binds id to style
func (p *Palette) Set(id grid.AttrID, style tcell.Style) {
	p.styles[id] = style
}

// Style resolves id
func (p *Palette) Style(id grid.AttrID) tcell.Style {
	if s, ok := p.styles[id]; ok {
		return s
	}
	return tcell.StyleDefault
}

// Len returns the number of bound ids
func (p *Palette) Len() int {
	return len(p.styles)
}

// Load binds every "id" => "spec" entry, see ParseStyle
// The key "border" sets the Border style
func (p *Palette) Load(specs map[string]string) error {
	for key, spec := range specs {
		style, err := ParseStyle(spec)
		if err != nil {
			return fmt.Errorf("palette %s: %w", key, err)
		}
		if key == "border" {
			p.Border = style
			continue
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("palette key %q: not an attribute id", key)
		}
		p.Set(grid.AttrID(id), style)
	}
	return nil
}

// ParseStyle reads a comma separated style spec: "fg=red,bg=#202020,bold,reverse"
// Colors take tcell names or #rrggbb; flags are bold, dim, italic, underline, reverse, blink
func ParseStyle(spec string) (tcell.Style, error) {
	style := tcell.StyleDefault
	for _, part := range strings.Split(spec, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if name, value, ok := strings.Cut(part, "="); ok {
			color := tcell.GetColor(value)
			if color == tcell.ColorDefault && value != "default" {
				return style, fmt.Errorf("unknown color %q", value)
			}
			switch name {
			case "fg":
				style = style.Foreground(color)
			case "bg":
				style = style.Background(color)
			default:
				return style, fmt.Errorf("unknown style key %q", name)
			}
			continue
		}
		switch part {
		case "bold":
			style = style.Bold(true)
		case "dim":
			style = style.Dim(true)
		case "italic":
			style = style.Italic(true)
		case "underline":
			style = style.Underline(true)
		case "reverse":
			style = style.Reverse(true)
		case "blink":
			style = style.Blink(true)
		default:
			return style, fmt.Errorf("unknown style flag %q", part)
		}
	}
	return style, nil
}
