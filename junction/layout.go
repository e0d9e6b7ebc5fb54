package junction

import "sort"

// Window is the screen geometry of one window as reported by the layout collaborator
// A vertical separator occupies the column right of the window, the status
// line the row below it
type Window struct {
	ID     int
	Row    int
	Col    int
	Width  int
	Height int
	VSep   bool
	Status bool
}

// EndRow is the first row below the window
func (w Window) EndRow() int { return w.Row + w.Height }

// EndCol is the first column right of the window
func (w Window) EndCol() int { return w.Col + w.Width }

// Point is a screen position
type Point struct {
	Row, Col int
}

// Junction is a resolved connector at a screen position
type Junction struct {
	Point
	Pattern Pattern
	Style   Style
}

// Layout is the separator map derived from window geometry
// Rebuild it on every geometry change; queries are pure
type Layout struct {
	windows []Window
	hsep    map[Point]struct{}
	vsep    map[Point]struct{}
}

// NewLayout indexes the separators of windows
func NewLayout(windows []Window) *Layout {
	l := &Layout{
		windows: append([]Window(nil), windows...),
		hsep:    make(map[Point]struct{}),
		vsep:    make(map[Point]struct{}),
	}
	for _, w := range windows {
		if w.VSep {
			for r := w.Row; r < w.EndRow(); r++ {
				l.vsep[Point{r, w.EndCol()}] = struct{}{}
			}
		}
		if w.Status {
			for c := w.Col; c < w.EndCol(); c++ {
				l.hsep[Point{w.EndRow(), c}] = struct{}{}
			}
		}
	}
	return l
}

// Windows returns the geometry the layout was built from
func (l *Layout) Windows() []Window {
	return l.windows
}

// PatternAt derives the arm mask at p from the neighbouring separator cells
func (l *Layout) PatternAt(p Point) Pattern {
	var pat Pattern
	if _, ok := l.vsep[Point{p.Row - 1, p.Col}]; ok {
		pat = pat.With(ArmUp)
	}
	if _, ok := l.vsep[Point{p.Row + 1, p.Col}]; ok {
		pat = pat.With(ArmDown)
	}
	if _, ok := l.hsep[Point{p.Row, p.Col - 1}]; ok {
		pat = pat.With(ArmLeft)
	}
	if _, ok := l.hsep[Point{p.Row, p.Col + 1}]; ok {
		pat = pat.With(ArmRight)
	}
	return pat
}

// CornerPoint returns the junction position at corner of w
func CornerPoint(w Window, corner WindowCorner) Point {
	switch corner {
	case TopLeft:
		return Point{w.Row - 1, w.Col - 1}
	case TopRight:
		return Point{w.Row - 1, w.EndCol()}
	case BottomLeft:
		return Point{w.EndRow(), w.Col - 1}
	default:
		return Point{w.EndRow(), w.EndCol()}
	}
}

// CornerPattern is the arm mask at corner of w
func (l *Layout) CornerPattern(w Window, corner WindowCorner) Pattern {
	return l.PatternAt(CornerPoint(w, corner))
}

// Junctions lists every window corner where separators join, sorted row-major
func (l *Layout) Junctions() []Junction {
	seen := make(map[Point]struct{})
	var out []Junction
	for _, w := range l.windows {
		for _, corner := range Corners {
			p := CornerPoint(w, corner)
			if p.Row < 0 || p.Col < 0 {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}

			pat := l.PatternAt(p)
			s := Resolve(pat)
			if !s.Joins() {
				// Plain lines are part of the separator fill
				continue
			}
			out = append(out, Junction{Point: p, Pattern: pat, Style: s})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// SeparatorCells returns the plain separator runs: vertical cells then horizontal cells
func (l *Layout) SeparatorCells() (vertical, horizontal []Point) {
	for p := range l.vsep {
		vertical = append(vertical, p)
	}
	for p := range l.hsep {
		horizontal = append(horizontal, p)
	}
	less := func(ps []Point) func(i, j int) bool {
		return func(i, j int) bool {
			if ps[i].Row != ps[j].Row {
				return ps[i].Row < ps[j].Row
			}
			return ps[i].Col < ps[j].Col
		}
	}
	sort.Slice(vertical, less(vertical))
	sort.Slice(horizontal, less(horizontal))
	return vertical, horizontal
}
