// Package junction resolves the connector glyph drawn where window separators meet.
//
// A junction point has up to four arms, one per direction a separator line
// leaves the point. The arm mask (Pattern) is looked up in a fixed table of
// sixteen entries; geometry only matters for deriving the mask.
package junction

import "strings"

// WindowCorner names a corner of a window's separator border
type WindowCorner uint8

const (
	TopLeft WindowCorner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Corners lists every corner in declaration order
var Corners = [...]WindowCorner{TopLeft, TopRight, BottomLeft, BottomRight}

func (c WindowCorner) String() string {
	switch c {
	case TopLeft:
		return "top_left"
	case TopRight:
		return "top_right"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	default:
		return "unknown"
	}
}

// Arm is one direction a separator leaves a junction point
type Arm uint8

const (
	ArmUp Arm = 1 << iota
	ArmRight
	ArmDown
	ArmLeft
)

// Pattern is the 4-bit arm presence mask of a junction point
type Pattern uint8

// PatternCount is the number of distinct patterns
const PatternCount = 16

// Has reports whether arm is present
func (p Pattern) Has(a Arm) bool {
	return uint8(p)&uint8(a) != 0
}

// With returns p with arm added
func (p Pattern) With(a Arm) Pattern {
	return p | Pattern(a)
}

// Vertical reports an arm on the vertical axis
func (p Pattern) Vertical() bool {
	return p.Has(ArmUp) || p.Has(ArmDown)
}

// Horizontal reports an arm on the horizontal axis
func (p Pattern) Horizontal() bool {
	return p.Has(ArmLeft) || p.Has(ArmRight)
}

// String renders the arms as "u", "r", "d", "l" letters, "-" for none
func (p Pattern) String() string {
	if p&0x0F == 0 {
		return "-"
	}
	var sb strings.Builder
	for _, a := range []struct {
		arm Arm
		ch  byte
	}{{ArmUp, 'u'}, {ArmRight, 'r'}, {ArmDown, 'd'}, {ArmLeft, 'l'}} {
		if p.Has(a.arm) {
			sb.WriteByte(a.ch)
		}
	}
	return sb.String()
}
