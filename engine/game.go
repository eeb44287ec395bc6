package engine

import "github.com/spaghettifunk/rx-engine/engine/renderer"

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

// Submitter receives the draw commands of a frame.
type Submitter interface {
	Submit(cmd renderer.DrawCommand)
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(submitter Submitter, frame *renderer.Frame, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
