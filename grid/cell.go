package grid

// AttrID is an opaque highlight attribute token; 0 is the default attribute
type AttrID int32

// Cell is one terminal cell
type Cell struct {
	Rune rune
	Attr AttrID
}

// Blank is the content of a freshly cleared cell
var Blank = Cell{Rune: ' '}

// Continuation reports whether c is the right half of a double-width rune
func (c Cell) Continuation() bool {
	return c.Rune == 0
}
