package junction

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// LineType selects a box drawing character family
type LineType uint8

const (
	LineSingle  LineType = iota // ┌─┐│└┘
	LineDouble                  // ╔═╗║╚╝
	LineRounded                 // ╭─╮│╰╯
	LineHeavy                   // ┏━┓┃┗┛
	LineASCII                   // +-+|++
)

var lineTypeNames = map[string]LineType{
	"single":  LineSingle,
	"double":  LineDouble,
	"rounded": LineRounded,
	"heavy":   LineHeavy,
	"ascii":   LineASCII,
}

// ParseLineType resolves a line type name
func ParseLineType(name string) (LineType, error) {
	if lt, ok := lineTypeNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lt, nil
	}
	return LineSingle, fmt.Errorf("unknown line type %q", name)
}

// GlyphSet holds one rune per Style; StyleNone maps to 0 (nothing drawn)
type GlyphSet [styleCount]rune

// Order: none, horizontal, vertical, ┌ ┐ └ ┘ ┬ ┴ ├ ┤ ┼
var glyphSets = [...]GlyphSet{
	LineSingle:  {0, '─', '│', '┌', '┐', '└', '┘', '┬', '┴', '├', '┤', '┼'},
	LineDouble:  {0, '═', '║', '╔', '╗', '╚', '╝', '╦', '╩', '╠', '╣', '╬'},
	LineRounded: {0, '─', '│', '╭', '╮', '╰', '╯', '┬', '┴', '├', '┤', '┼'},
	LineHeavy:   {0, '━', '┃', '┏', '┓', '┗', '┛', '┳', '┻', '┣', '┫', '╋'},
	LineASCII:   {0, '-', '|', '+', '+', '+', '+', '+', '+', '+', '+', '+'},
}

// Glyphs returns the built-in set for line, falling back to single
func Glyphs(line LineType) GlyphSet {
	if int(line) >= len(glyphSets) {
		line = LineSingle
	}
	return glyphSets[line]
}

// Rune returns the glyph for s
func (g GlyphSet) Rune(s Style) rune {
	if s >= styleCount {
		return 0
	}
	return g[s]
}

// Override replaces glyphs by style name ("tee_left", "cross", ...)
func (g GlyphSet) Override(glyphs map[string]string) (GlyphSet, error) {
	out := g
	for name, value := range glyphs {
		s, ok := styleByName(name)
		if !ok || s == StyleNone {
			return g, fmt.Errorf("unknown junction style %q", name)
		}
		if utf8.RuneCountInString(value) != 1 {
			return g, fmt.Errorf("junction style %q: glyph %q must be a single rune", name, value)
		}
		r, _ := utf8.DecodeRuneInString(value)
		out[s] = r
	}
	return out, nil
}

func styleByName(name string) (Style, bool) {
	for i, n := range styleNames {
		if n == name {
			return Style(i), true
		}
	}
	return StyleNone, false
}

// glyphFile is the TOML layout of a glyph override file
//
//	base = "rounded"
//	[glyphs]
//	cross = "╋"
type glyphFile struct {
	Base   string            `toml:"base"`
	Glyphs map[string]string `toml:"glyphs"`
}

// LoadGlyphFile builds a set from a TOML file; fallback is used when the file names no base
func LoadGlyphFile(path string, fallback LineType) (GlyphSet, error) {
	var f glyphFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return GlyphSet{}, fmt.Errorf("glyph file %s: %w", path, err)
	}
	return f.build(fallback)
}

// ParseGlyphs is LoadGlyphFile for in-memory TOML
func ParseGlyphs(data string, fallback LineType) (GlyphSet, error) {
	var f glyphFile
	if _, err := toml.Decode(data, &f); err != nil {
		return GlyphSet{}, fmt.Errorf("glyph spec: %w", err)
	}
	return f.build(fallback)
}

func (f glyphFile) build(fallback LineType) (GlyphSet, error) {
	line := fallback
	if f.Base != "" {
		lt, err := ParseLineType(f.Base)
		if err != nil {
			return GlyphSet{}, err
		}
		line = lt
	}
	return Glyphs(line).Override(f.Glyphs)
}

// Cache memoizes pattern to glyph for one set
type Cache struct {
	set    GlyphSet
	glyphs [PatternCount]rune
	filled [PatternCount]bool
	hits   int
}

// NewCache creates a cache over set
func NewCache(set GlyphSet) *Cache {
	return &Cache{set: set}
}

// Glyph returns the connector rune for p; 0 means draw nothing
func (c *Cache) Glyph(p Pattern) rune {
	i := p & 0x0F
	if c.filled[i] {
		c.hits++
		return c.glyphs[i]
	}
	c.glyphs[i] = c.set.Rune(Resolve(i))
	c.filled[i] = true
	return c.glyphs[i]
}

// Hits returns how many lookups were served from the cache
func (c *Cache) Hits() int {
	return c.hits
}

// Set returns the glyph set backing the cache
func (c *Cache) Set() GlyphSet {
	return c.set
}
