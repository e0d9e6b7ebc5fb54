package junction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAllPatterns(t *testing.T) {
	cases := []struct {
		pattern Pattern
		style   Style
	}{
		{0, StyleNone},
		{Pattern(ArmUp), StyleVertical},
		{Pattern(ArmDown), StyleVertical},
		{Pattern(ArmLeft), StyleHorizontal},
		{Pattern(ArmRight), StyleHorizontal},
		{Pattern(ArmUp | ArmDown), StyleVertical},
		{Pattern(ArmLeft | ArmRight), StyleHorizontal},
		{Pattern(ArmRight | ArmDown), StyleDownRight},
		{Pattern(ArmLeft | ArmDown), StyleDownLeft},
		{Pattern(ArmUp | ArmRight), StyleUpRight},
		{Pattern(ArmUp | ArmLeft), StyleUpLeft},
		{Pattern(ArmLeft | ArmRight | ArmDown), StyleTeeDown},
		{Pattern(ArmLeft | ArmRight | ArmUp), StyleTeeUp},
		{Pattern(ArmUp | ArmDown | ArmRight), StyleTeeRight},
		{Pattern(ArmUp | ArmDown | ArmLeft), StyleTeeLeft},
		{Pattern(0x0F), StyleCross},
	}

	seen := make(map[Pattern]bool)
	for _, tc := range cases {
		seen[tc.pattern] = true
		assert.Equal(t, tc.style, Resolve(tc.pattern), "pattern %s", tc.pattern)
	}
	require.Len(t, seen, PatternCount)
}

func TestResolveIsPure(t *testing.T) {
	first := make([]Style, PatternCount)
	for p := 0; p < PatternCount; p++ {
		first[p] = Resolve(Pattern(p))
	}
	for round := 0; round < 3; round++ {
		for p := PatternCount - 1; p >= 0; p-- {
			assert.Equal(t, first[p], Resolve(Pattern(p)))
		}
	}
}

func TestCacheMatchesResolve(t *testing.T) {
	set := Glyphs(LineDouble)
	c := NewCache(set)
	for round := 0; round < 2; round++ {
		for p := 0; p < PatternCount; p++ {
			assert.Equal(t, set.Rune(Resolve(Pattern(p))), c.Glyph(Pattern(p)))
		}
	}
	assert.Equal(t, PatternCount, c.Hits())
	assert.Equal(t, rune(0), c.Glyph(0), "empty pattern draws nothing")
	assert.Equal(t, '╬', c.Glyph(0x0F))
}

// twoByTwo is a 21x10 screen split into four windows
func twoByTwo() []Window {
	return []Window{
		{ID: 1, Row: 0, Col: 0, Width: 10, Height: 4, VSep: true, Status: true},
		{ID: 2, Row: 0, Col: 11, Width: 10, Height: 4, Status: true},
		{ID: 3, Row: 5, Col: 0, Width: 10, Height: 4, VSep: true, Status: true},
		{ID: 4, Row: 5, Col: 11, Width: 10, Height: 4, Status: true},
	}
}

func TestLayoutTwoByTwo(t *testing.T) {
	wins := twoByTwo()
	l := NewLayout(wins)

	assert.Equal(t, StyleCross, Resolve(l.CornerPattern(wins[0], BottomRight)))
	assert.Equal(t, StyleCross, Resolve(l.CornerPattern(wins[3], TopLeft)))
	assert.Equal(t, StyleTeeUp, Resolve(l.CornerPattern(wins[2], BottomRight)))
	assert.Equal(t, StyleNone, Resolve(l.CornerPattern(wins[0], TopLeft)))

	js := l.Junctions()
	require.Len(t, js, 2)
	assert.Equal(t, Point{4, 10}, js[0].Point)
	assert.Equal(t, StyleCross, js[0].Style)
	assert.Equal(t, Point{9, 10}, js[1].Point)
	assert.Equal(t, StyleTeeUp, js[1].Style)
}

func TestLayoutTeeAgainstFullHeightWindow(t *testing.T) {
	// Left column split in two, right column one tall window
	wins := []Window{
		{ID: 1, Row: 0, Col: 0, Width: 8, Height: 3, VSep: true, Status: true},
		{ID: 2, Row: 4, Col: 0, Width: 8, Height: 3, VSep: true, Status: true},
		{ID: 3, Row: 0, Col: 9, Width: 8, Height: 7, Status: true},
	}
	l := NewLayout(wins)

	assert.Equal(t, StyleTeeLeft, Resolve(l.CornerPattern(wins[0], BottomRight)))
	assert.Equal(t, StyleTeeUp, Resolve(l.CornerPattern(wins[1], BottomRight)))
}

func TestLayoutNoSeparators(t *testing.T) {
	l := NewLayout([]Window{{ID: 1, Width: 80, Height: 24}})
	assert.Empty(t, l.Junctions())
	v, h := l.SeparatorCells()
	assert.Empty(t, v)
	assert.Empty(t, h)
}

func TestGlyphOverrides(t *testing.T) {
	set, err := ParseGlyphs(`
base = "heavy"
[glyphs]
cross = "*"
`, LineSingle)
	require.NoError(t, err)
	assert.Equal(t, '*', set.Rune(StyleCross))
	assert.Equal(t, '┃', set.Rune(StyleVertical))

	_, err = ParseGlyphs("[glyphs]\nsideways = \"x\"\n", LineSingle)
	assert.Error(t, err)

	_, err = ParseGlyphs("[glyphs]\ncross = \"xy\"\n", LineSingle)
	assert.Error(t, err)
}

func TestLoadGlyphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphs.toml")
	require.NoError(t, os.WriteFile(path, []byte("[glyphs]\ntee_left = \"<\"\n"), 0o644))

	set, err := LoadGlyphFile(path, LineRounded)
	require.NoError(t, err)
	assert.Equal(t, '<', set.Rune(StyleTeeLeft))
	assert.Equal(t, '╭', set.Rune(StyleDownRight))

	_, err = LoadGlyphFile(filepath.Join(t.TempDir(), "missing.toml"), LineSingle)
	assert.Error(t, err)
}

func TestParseLineType(t *testing.T) {
	lt, err := ParseLineType("Rounded")
	require.NoError(t, err)
	assert.Equal(t, LineRounded, lt)

	_, err = ParseLineType("dotted")
	assert.Error(t, err)
}
