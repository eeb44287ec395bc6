package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
)

type Window struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

type Renderer struct {
	// ClearColor is r, g, b, a in [0, 1].
	ClearColor   [4]float32 `toml:"clear_color"`
	MaxInstances uint32     `toml:"max_instances"`
}

func (r Renderer) Color() metadata.Color {
	return metadata.NewColor(r.ClearColor[0], r.ClearColor[1], r.ClearColor[2], r.ClearColor[3])
}

type Log struct {
	Level string `toml:"level"`
}

type Assets struct {
	ShadersDir     string `toml:"shaders_dir"`
	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`
	// Watch reloads the shaders when their files change.
	Watch bool `toml:"watch"`
}

type Config struct {
	Window   Window   `toml:"window"`
	Renderer Renderer `toml:"renderer"`
	Log      Log      `toml:"log"`
	Assets   Assets   `toml:"assets"`
}

func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "rx engine",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Renderer: Renderer{
			ClearColor:   [4]float32{0.05, 0.05, 0.08, 1},
			MaxInstances: 1024,
		},
		Log: Log{Level: "info"},
		Assets: Assets{
			ShadersDir:     "assets/shaders",
			VertexShader:   "instanced.vert",
			FragmentShader: "instanced.frag",
			Watch:          true,
		},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		core.LogWarn("config file %s not found, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes data on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, fmt.Errorf("parse config: %s", sme.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, fmt.Errorf("parse config: line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width == 0 || c.Window.Height == 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Renderer.MaxInstances == 0 {
		errs = append(errs, errors.New("renderer.max_instances must be positive"))
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("renderer.clear_color[%d] = %g is outside [0, 1]", i, v))
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Assets.VertexShader == "" || c.Assets.FragmentShader == "" {
		errs = append(errs, errors.New("assets.vertex_shader and assets.fragment_shader are required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
