// Package config loads the drawing application settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gg"
)

// Config holds the application settings.
type Config struct {
	Width          int     `toml:"width"`
	Height         int     `toml:"height"`
	Zoom           float64 `toml:"zoom"`
	PrimaryColor   string  `toml:"primary_color"`
	SecondaryColor string  `toml:"secondary_color"`
	ToolSize       float64 `toml:"tool_size"`
	// Reentry is the pen re-entry policy: "restart" or "connect".
	Reentry  string `toml:"reentry"`
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:          800,
		Height:         600,
		Zoom:           1,
		PrimaryColor:   "#000000",
		SecondaryColor: "#ffffff",
		ToolSize:       3,
		Reentry:        "restart",
		LogLevel:       "info",
	}
}

// Load reads path on top of the defaults. A missing file yields the
// defaults; an empty path skips reading.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("zoom %v must be positive", c.Zoom))
	}
	if _, err := ParseColor(c.PrimaryColor); err != nil {
		errs = append(errs, fmt.Errorf("primary_color: %w", err))
	}
	if _, err := ParseColor(c.SecondaryColor); err != nil {
		errs = append(errs, fmt.Errorf("secondary_color: %w", err))
	}
	if c.ToolSize <= 0 {
		errs = append(errs, fmt.Errorf("tool_size %v must be positive", c.ToolSize))
	}
	switch c.Reentry {
	case "restart", "connect":
	default:
		errs = append(errs, fmt.Errorf("reentry %q: want restart or connect", c.Reentry))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Primary returns the parsed primary color. Validate must have passed.
func (c Config) Primary() color.NRGBA {
	col, _ := ParseColor(c.PrimaryColor)
	return col
}

// Secondary returns the parsed secondary color. Validate must have passed.
func (c Config) Secondary() color.NRGBA {
	col, _ := ParseColor(c.SecondaryColor)
	return col
}

// ParseColor parses "#rrggbb" or "#rgb". The shape is checked here since
// gg.Hex maps malformed input to black instead of failing.
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("color %q: missing leading #", s)
	}
	if len(hex) != 3 && len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rrggbb or #rgb", s)
	}
	if i := strings.IndexFunc(hex, notHexDigit); i >= 0 {
		return color.NRGBA{}, fmt.Errorf("color %q: invalid hex digit %q", s, hex[i])
	}
	c := gg.Hex(hex)
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}, nil
}

func notHexDigit(r rune) bool {
	return !('0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F')
}

func channel(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
