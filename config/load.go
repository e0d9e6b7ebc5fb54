package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from path. A missing file yields the defaults
// with environment overrides applied
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("multigrid", cfg.Multigrid)
	v.SetDefault("grid.max_cells", cfg.Grid.MaxCells)
	v.SetDefault("render.attr_budget", cfg.Render.AttrBudget)
	v.SetDefault("junction.line_type", cfg.Junction.LineType)
	v.SetDefault("junction.glyph_file", cfg.Junction.GlyphFile)
	v.SetDefault("tabline.padding", cfg.Tabline.Padding)
	v.SetDefault("tabline.close_glyph", cfg.Tabline.CloseGlyph)
	v.SetDefault("tabline.modified_glyph", cfg.Tabline.ModifiedGlyph)
	v.SetDefault("bell.mode", cfg.Bell.Mode)
	v.SetDefault("bell.frequency", cfg.Bell.Frequency)
	v.SetDefault("bell.duration_ms", cfg.Bell.DurationMS)
	v.SetDefault("mouse.double_click_ms", cfg.Mouse.DoubleClickMS)
	v.SetDefault("log.level", cfg.Log.Level)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as yaml
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
