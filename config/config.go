// Package config loads vi-screen settings from yaml and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/vi-screen/audio"
	"github.com/lixenwraith/vi-screen/compositor"
	"github.com/lixenwraith/vi-screen/grid"
	"github.com/lixenwraith/vi-screen/junction"
	"github.com/lixenwraith/vi-screen/render"
	"github.com/lixenwraith/vi-screen/tabline"
)

// EnvPrefix prefixes environment overrides, e.g. VISCREEN_BELL_MODE
const EnvPrefix = "VISCREEN"

// Config is the root configuration
type Config struct {
	Multigrid bool              `mapstructure:"multigrid" yaml:"multigrid"`
	Grid      GridConfig        `mapstructure:"grid" yaml:"grid"`
	Render    RenderConfig      `mapstructure:"render" yaml:"render"`
	Junction  JunctionConfig    `mapstructure:"junction" yaml:"junction"`
	Tabline   TablineConfig     `mapstructure:"tabline" yaml:"tabline"`
	Bell      BellConfig        `mapstructure:"bell" yaml:"bell"`
	Mouse     MouseConfig       `mapstructure:"mouse" yaml:"mouse"`
	Log       LogConfig         `mapstructure:"log" yaml:"log"`
	Palette   map[string]string `mapstructure:"palette" yaml:"palette,omitempty"`
}

// GridConfig bounds grid allocations; max_cells caps a single grid
type GridConfig struct {
	MaxCells int `mapstructure:"max_cells" yaml:"max_cells"`
}

// RenderConfig holds frame building limits
type RenderConfig struct {
	AttrBudget int `mapstructure:"attr_budget" yaml:"attr_budget"`
}

// JunctionConfig selects the separator line set and an optional TOML glyph override file
type JunctionConfig struct {
	LineType  string `mapstructure:"line_type" yaml:"line_type"`
	GlyphFile string `mapstructure:"glyph_file" yaml:"glyph_file,omitempty"`
}

// TablineConfig sets tab label padding and marker glyphs
type TablineConfig struct {
	Padding       int    `mapstructure:"padding" yaml:"padding"`
	CloseGlyph    string `mapstructure:"close_glyph" yaml:"close_glyph"`
	ModifiedGlyph string `mapstructure:"modified_glyph" yaml:"modified_glyph"`
}

// BellConfig selects the bell mode and shapes the audio tone
type BellConfig struct {
	Mode       string  `mapstructure:"mode" yaml:"mode"`
	Frequency  float64 `mapstructure:"frequency" yaml:"frequency"`
	DurationMS int     `mapstructure:"duration_ms" yaml:"duration_ms"`
}

// MouseConfig holds click counting settings
type MouseConfig struct {
	DoubleClickMS int `mapstructure:"double_click_ms" yaml:"double_click_ms"`
}

// LogConfig sets the minimum log level: trace, debug, info or error
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the built-in configuration
func Default() Config {
	tabs := tabline.DefaultBuilderOpts()
	return Config{
		Grid:     GridConfig{MaxCells: grid.DefaultMaxCells},
		Render:   RenderConfig{AttrBudget: render.DefaultAttrBudget},
		Junction: JunctionConfig{LineType: "single"},
		Tabline: TablineConfig{
			Padding:       tabs.Padding,
			CloseGlyph:    tabs.CloseGlyph,
			ModifiedGlyph: tabs.ModifiedGlyph,
		},
		Bell: BellConfig{
			Mode:       "visual",
			Frequency:  audio.DefaultFrequency,
			DurationMS: int(audio.DefaultDuration / time.Millisecond),
		},
		Mouse: MouseConfig{DoubleClickMS: 500},
		Log:   LogConfig{Level: "info"},
	}
}

// Validate checks value ranges and enum names
func (c Config) Validate() error {
	if c.Grid.MaxCells <= 0 {
		return fmt.Errorf("grid.max_cells must be positive, got %d", c.Grid.MaxCells)
	}
	if c.Render.AttrBudget <= 0 {
		return fmt.Errorf("render.attr_budget must be positive, got %d", c.Render.AttrBudget)
	}
	if _, err := junction.ParseLineType(c.Junction.LineType); err != nil {
		return fmt.Errorf("junction.line_type: %w", err)
	}
	if c.Tabline.Padding < 0 {
		return fmt.Errorf("tabline.padding must not be negative, got %d", c.Tabline.Padding)
	}
	if _, err := audio.ParseMode(c.Bell.Mode); err != nil {
		return fmt.Errorf("bell.mode: %w", err)
	}
	if c.Bell.Frequency <= 0 {
		return fmt.Errorf("bell.frequency must be positive, got %g", c.Bell.Frequency)
	}
	if c.Bell.DurationMS <= 0 {
		return fmt.Errorf("bell.duration_ms must be positive, got %d", c.Bell.DurationMS)
	}
	if c.Mouse.DoubleClickMS <= 0 {
		return fmt.Errorf("mouse.double_click_ms must be positive, got %d", c.Mouse.DoubleClickMS)
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "error":
	default:
		return fmt.Errorf("log.level must be trace, debug, info or error, got %q", c.Log.Level)
	}
	return nil
}

// Compositor builds the compositor settings, loading the glyph file if set
func (c Config) Compositor() (compositor.Config, error) {
	line, err := junction.ParseLineType(c.Junction.LineType)
	if err != nil {
		return compositor.Config{}, fmt.Errorf("junction.line_type: %w", err)
	}
	glyphs := junction.Glyphs(line)
	if c.Junction.GlyphFile != "" {
		glyphs, err = junction.LoadGlyphFile(c.Junction.GlyphFile, line)
		if err != nil {
			return compositor.Config{}, fmt.Errorf("junction.glyph_file: %w", err)
		}
	}

	tabs := tabline.DefaultBuilderOpts()
	tabs.Padding = c.Tabline.Padding
	tabs.CloseGlyph = c.Tabline.CloseGlyph
	tabs.ModifiedGlyph = c.Tabline.ModifiedGlyph

	return compositor.Config{
		Multigrid:  c.Multigrid,
		MaxCells:   c.Grid.MaxCells,
		AttrBudget: c.Render.AttrBudget,
		Glyphs:     glyphs,
		Tabline:    tabs,
	}, nil
}

// Tone returns the audio bell tone
func (c Config) Tone() audio.Tone {
	t := audio.DefaultTone()
	t.Frequency = c.Bell.Frequency
	t.Duration = time.Duration(c.Bell.DurationMS) * time.Millisecond
	return t
}

// BellMode returns the parsed bell mode; Validate has already rejected bad names
func (c Config) BellMode() audio.Mode {
	m, _ := audio.ParseMode(c.Bell.Mode)
	return m
}

// DoubleClick returns the multi-click interval
func (c Config) DoubleClick() time.Duration {
	return time.Duration(c.Mouse.DoubleClickMS) * time.Millisecond
}
