package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/rx-engine/engine/assets/loaders"
	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/platform"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has shut down
	EngineStageStopped
)

// Window is the part of the platform the engine drives.
type Window interface {
	PollEvents() []platform.Event
	ShouldClose() bool
	Close()
	Shutdown() error
}

// FrameRenderer draws the frames submitted by the game.
type FrameRenderer interface {
	Submitter
	Start() *renderer.Frame
	Process(frame *renderer.Frame) error
	End(frame *renderer.Frame)
	Viewport(width, height uint32)
	ReloadShaders(sources renderer.ShaderSources) error
	Release()
}

// ShaderLibrary loads shader sources and reports the ones that changed.
type ShaderLibrary interface {
	LoadShader(name string) (*loaders.Resource, error)
	Changes() []string
	Shutdown() error
}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	isSuspended  bool
	window       Window
	renderer     FrameRenderer
	shaders      ShaderLibrary
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     float64
}

func New(g *Game, window Window, r FrameRenderer, shaders ShaderLibrary) *Engine {
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		window:       window,
		renderer:     r,
		shaders:      shaders,
		clock:        core.NewClock(),
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
	}
}

// LoadShaderSources reads the vertex and fragment shaders named by the
// application config.
func LoadShaderSources(lib ShaderLibrary, vertex, fragment string) (renderer.ShaderSources, error) {
	vs, err := lib.LoadShader(vertex)
	if err != nil {
		return renderer.ShaderSources{}, err
	}
	fs, err := lib.LoadShader(fragment)
	if err != nil {
		return renderer.ShaderSources{}, err
	}
	return renderer.ShaderSources{
		Vertex:       vs.Source(),
		VertexName:   vs.Name,
		Fragment:     fs.Source(),
		FragmentName: fs.Name,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	e.renderer.Viewport(e.width, e.height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// Stage returns the lifecycle stage the engine is in.
func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Stop ends the run loop after the current frame. It is safe to call from
// any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine not initialized (stage %d)", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		for _, ev := range e.window.PollEvents() {
			e.onEvent(ev)
		}
		if !e.isRunning.Load() || e.window.ShouldClose() {
			break
		}
		if e.isSuspended {
			continue
		}
		if err := e.frame(); err != nil {
			e.isRunning.Store(false)
			return err
		}
	}
	return nil
}

func (e *Engine) frame() error {
	e.clock.Update()
	currentTime := e.clock.Elapsed()
	delta := currentTime - e.lastTime

	e.reloadShaders()

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			return err
		}
	}

	frame := e.renderer.Start()
	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(e.renderer, frame, delta); err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			return err
		}
	}
	if err := e.renderer.Process(frame); err != nil {
		core.LogError("frame %d failed: %s", frame.Number, err)
		return err
	}
	e.renderer.End(frame)

	e.lastTime = currentTime
	return nil
}

// reloadShaders rebuilds the pipeline when one of the application shaders
// changed on disk. Failures are logged and the previous pipeline kept.
func (e *Engine) reloadShaders() {
	if e.shaders == nil {
		return
	}
	changes := e.shaders.Changes()
	if len(changes) == 0 {
		return
	}
	cfg := e.gameInstance.ApplicationConfig
	relevant := false
	for _, c := range changes {
		if c == cfg.VertexShader || c == cfg.FragmentShader {
			relevant = true
			break
		}
	}
	if !relevant {
		core.LogDebug("ignoring changed assets %v", changes)
		return
	}

	sources, err := LoadShaderSources(e.shaders, cfg.VertexShader, cfg.FragmentShader)
	if err == nil {
		err = e.renderer.ReloadShaders(sources)
	}
	if err != nil {
		core.LogError("shader reload failed, keeping the current pipeline: %s", err)
	}
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	e.renderer.Release()
	if e.shaders != nil {
		errs = append(errs, e.shaders.Shutdown())
	}
	errs = append(errs, e.window.Shutdown())
	e.currentStage = EngineStageStopped
	return errors.Join(errs...)
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(ev platform.Event) {
	switch ev.Type {
	case platform.EventClose:
		core.LogInfo("close requested, shutting down.")
		e.isRunning.Store(false)
	case platform.EventKey:
		e.onKey(ev)
	case platform.EventResize:
		e.onResized(ev.Width, ev.Height)
	}
}

func (e *Engine) onKey(ev platform.Event) {
	if !ev.Pressed {
		return
	}
	if ev.Key == platform.KeyEscape {
		e.window.Close()
		e.isRunning.Store(false)
		return
	}
	core.LogDebug("key %d pressed", ev.Key)
}

func (e *Engine) onResized(width, height uint32) {
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.renderer.Viewport(width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("resize callback failed: %s", err)
		}
	}
}
