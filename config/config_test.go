package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/vi-screen/audio"
	"github.com/lixenwraith/vi-screen/junction"
	"github.com/lixenwraith/vi-screen/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vi-screen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, render.DefaultAttrBudget, cfg.Render.AttrBudget)
	require.Equal(t, audio.ModeVisual, cfg.BellMode())
	require.Equal(t, 500*time.Millisecond, cfg.DoubleClick())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
multigrid: true
render:
  attr_budget: 8
junction:
  line_type: double
tabline:
  padding: 2
bell:
  mode: audio
  frequency: 440
  duration_ms: 80
palette:
  border: fg=blue
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Multigrid)
	require.Equal(t, 8, cfg.Render.AttrBudget)
	require.Equal(t, 2, cfg.Tabline.Padding)
	require.Equal(t, "X", cfg.Tabline.CloseGlyph)
	require.Equal(t, audio.ModeAudio, cfg.BellMode())
	require.Equal(t, "fg=blue", cfg.Palette["border"])

	tone := cfg.Tone()
	require.Equal(t, 440.0, tone.Frequency)
	require.Equal(t, 80*time.Millisecond, tone.Duration)

	cc, err := cfg.Compositor()
	require.NoError(t, err)
	require.True(t, cc.Multigrid)
	require.Equal(t, 8, cc.AttrBudget)
	require.Equal(t, '╬', cc.Glyphs.Rune(junction.StyleCross))
	require.Equal(t, 2, cc.Tabline.Padding)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VISCREEN_BELL_MODE", "none")
	t.Setenv("VISCREEN_GRID_MAX_CELLS", "1000")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, audio.ModeNone, cfg.BellMode())
	require.Equal(t, 1000, cfg.Grid.MaxCells)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"attr_budget": "render:\n  attr_budget: 0\n",
		"line_type":   "junction:\n  line_type: wavy\n",
		"bell.mode":   "bell:\n  mode: loud\n",
		"log.level":   "log:\n  level: chatty\n",
		"padding":     "tabline:\n  padding: -1\n",
	}
	for want, body := range tests {
		t.Run(want, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			require.Contains(t, err.Error(), want)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "render: [unclosed\n"))
	require.Error(t, err)
}

func TestCompositorGlyphFile(t *testing.T) {
	glyphs := filepath.Join(t.TempDir(), "glyphs.toml")
	require.NoError(t, os.WriteFile(glyphs, []byte("base = \"heavy\"\n[glyphs]\ncross = \"*\"\n"), 0o600))

	cfg := Default()
	cfg.Junction.GlyphFile = glyphs
	cc, err := cfg.Compositor()
	require.NoError(t, err)
	require.Equal(t, '*', cc.Glyphs.Rune(junction.StyleCross))
	require.Equal(t, '━', cc.Glyphs.Rune(junction.StyleHorizontal))

	cfg.Junction.GlyphFile = filepath.Join(t.TempDir(), "missing.toml")
	_, err = cfg.Compositor()
	require.ErrorContains(t, err, "junction.glyph_file")
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Multigrid = true
	data, err := Marshal(cfg)
	require.NoError(t, err)
	require.Contains(t, string(data), "attr_budget: 1024")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.Equal(t, cfg, back)

	path := writeConfig(t, string(data))
	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
