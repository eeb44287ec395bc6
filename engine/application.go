package engine

import (
	"github.com/spaghettifunk/rx-engine/engine/config"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
)

type ApplicationConfig struct {
	// Window starting width.
	StartWidth uint32
	// Window starting height.
	StartHeight uint32
	// The application name used in windowing.
	Name  string
	VSync bool
	// Shader file names, relative to the asset directory.
	VertexShader   string
	FragmentShader string
	Renderer       renderer.RendererConfig
}

func NewApplicationConfig(c *config.Config) *ApplicationConfig {
	return &ApplicationConfig{
		StartWidth:     c.Window.Width,
		StartHeight:    c.Window.Height,
		Name:           c.Window.Title,
		VSync:          c.Window.VSync,
		VertexShader:   c.Assets.VertexShader,
		FragmentShader: c.Assets.FragmentShader,
		Renderer: renderer.RendererConfig{
			MaxInstances: c.Renderer.MaxInstances,
			ClearColor:   c.Renderer.Color(),
		},
	}
}
