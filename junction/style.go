package junction

// Style is the connector drawn at a junction point
type Style uint8

const (
	StyleNone Style = iota
	StyleHorizontal
	StyleVertical
	StyleDownRight // ┌
	StyleDownLeft  // ┐
	StyleUpRight   // └
	StyleUpLeft    // ┘
	StyleTeeDown   // ┬
	StyleTeeUp     // ┴
	StyleTeeRight  // ├
	StyleTeeLeft   // ┤
	StyleCross
	styleCount
)

var styleNames = [styleCount]string{
	StyleNone:       "none",
	StyleHorizontal: "horizontal",
	StyleVertical:   "vertical",
	StyleDownRight:  "down_right",
	StyleDownLeft:   "down_left",
	StyleUpRight:    "up_right",
	StyleUpLeft:     "up_left",
	StyleTeeDown:    "tee_down",
	StyleTeeUp:      "tee_up",
	StyleTeeRight:   "tee_right",
	StyleTeeLeft:    "tee_left",
	StyleCross:      "cross",
}

func (s Style) String() string {
	if s < styleCount {
		return styleNames[s]
	}
	return "invalid"
}

// styleTable is indexed by Pattern (up=1, right=2, down=4, left=8)
// A lone arm falls back to the plain line of its axis
var styleTable = [PatternCount]Style{
	0x0: StyleNone,
	0x1: StyleVertical,
	0x2: StyleHorizontal,
	0x3: StyleUpRight,
	0x4: StyleVertical,
	0x5: StyleVertical,
	0x6: StyleDownRight,
	0x7: StyleTeeRight,
	0x8: StyleHorizontal,
	0x9: StyleUpLeft,
	0xA: StyleHorizontal,
	0xB: StyleTeeUp,
	0xC: StyleDownLeft,
	0xD: StyleTeeLeft,
	0xE: StyleTeeDown,
	0xF: StyleCross,
}

// Resolve maps a presence pattern to its connector style
func Resolve(p Pattern) Style {
	return styleTable[p&0x0F]
}

// Joins reports whether the style connects both axes (corner, tee or cross)
func (s Style) Joins() bool {
	return s >= StyleDownRight && s <= StyleCross
}
