// Package config reads the engine settings from a TOML file.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Window struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
	VSync      bool   `toml:"vsync"`
}

type Graphics struct {
	InternalWidth           int        `toml:"internal_width"`
	InternalHeight          int        `toml:"internal_height"`
	PadTexturesToPowerOfTwo bool       `toml:"pad_textures_to_power_of_two"`
	FixAlphaChannel         bool       `toml:"fix_alpha_channel"`
	LinearFilter            bool       `toml:"linear_filter"`
	ClearBackground         bool       `toml:"clear_background"`
	FillColor               [4]float32 `toml:"fill_color"`
}

type Log struct {
	Level string `toml:"level"`
}

// Config is the whole settings file. Missing keys keep their defaults.
type Config struct {
	Window   Window   `toml:"window"`
	Graphics Graphics `toml:"graphics"`
	Log      Log      `toml:"log"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "poro",
			Width:  1024,
			Height: 768,
			VSync:  true,
		},
		Graphics: Graphics{
			InternalWidth:           800,
			InternalHeight:          600,
			PadTexturesToPowerOfTwo: true,
			FixAlphaChannel:         true,
			LinearFilter:            true,
			ClearBackground:         true,
			FillColor:               [4]float32{0, 0, 0, 1},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads and validates the file at path. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Read(bufio.NewReader(f))
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates TOML data.
func Parse(data []byte) (Config, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes and validates TOML from r on top of the defaults. Unknown
// keys are rejected.
func Read(r io.Reader) (Config, error) {
	c := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Graphics.InternalWidth <= 0 || c.Graphics.InternalHeight <= 0 {
		errs = append(errs, fmt.Errorf("internal size %dx%d must be positive",
			c.Graphics.InternalWidth, c.Graphics.InternalHeight))
	}
	for i, v := range c.Graphics.FillColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("fill_color[%d] = %g is outside [0, 1]", i, v))
		}
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel maps the level name to a slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", l.Level)
}
