// Package config loads the table-shaped settings that live outside the
// engine: how each highlight kind looks, how pages are fetched, and where
// logs go.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/csheth/elementscout/internal/highlight"
)

// Style names the visual treatment of one highlight kind. Colors are
// terminal color strings the renderer understands (hex or ANSI index).
type Style struct {
	Foreground string `mapstructure:"foreground"`
	Background string `mapstructure:"background"`
	Bold       bool   `mapstructure:"bold"`
	Underline  bool   `mapstructure:"underline"`
}

// HighlightStyles is the per-kind style table. The recognized kinds are
// hover, selected, and drag.
type HighlightStyles struct {
	Hover    Style `mapstructure:"hover"`
	Selected Style `mapstructure:"selected"`
	Drag     Style `mapstructure:"drag"`
}

// For returns the style configured for a highlight kind.
func (s HighlightStyles) For(kind highlight.Kind) Style {
	switch kind {
	case highlight.KindSelected:
		return s.Selected
	case highlight.KindDrag:
		return s.Drag
	default:
		return s.Hover
	}
}

// Fetch tunes the page fetcher.
type Fetch struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheDir  string        `mapstructure:"cache_dir"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Log tunes the file-backed logger.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Config is the full runtime configuration.
type Config struct {
	Highlights HighlightStyles `mapstructure:"highlights"`
	Fetch      Fetch           `mapstructure:"fetch"`
	Log        Log             `mapstructure:"log"`
}

// Load reads the YAML config file at path, or returns pure defaults when
// path is empty.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Default highlight palette.
	v.SetDefault("highlights.hover.background", "#FFF3CD")
	v.SetDefault("highlights.hover.foreground", "#1a1a1a")
	v.SetDefault("highlights.selected.background", "#D1ECF1")
	v.SetDefault("highlights.selected.foreground", "#1a1a1a")
	v.SetDefault("highlights.selected.bold", true)
	v.SetDefault("highlights.drag.background", "#D4EDDA")
	v.SetDefault("highlights.drag.foreground", "#1a1a1a")

	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.cache_ttl", "30m")
	v.SetDefault("fetch.cache_dir", "")
	v.SetDefault("fetch.user_agent", "elementscout/1.0")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}
