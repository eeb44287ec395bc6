package platform

import (
	"runtime"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/rx-engine/engine/core"
)

func init() {
	// GLFW event handling and the GL context must stay on the main OS thread
	runtime.LockOSThread()
}

type EventType uint8

const (
	EventUnhandled EventType = iota
	EventResize
	EventKey
	EventClose
)

type Key = glfw.Key

const (
	KeyEscape = glfw.KeyEscape
	KeyR      = glfw.KeyR
	KeySpace  = glfw.KeySpace
)

// Event is a window event collected since the last PollEvents.
type Event struct {
	Type EventType
	// Width and Height of the framebuffer, for EventResize.
	Width, Height uint32
	// Key and Pressed, for EventKey.
	Key     Key
	Pressed bool
}

type Platform struct {
	Window *glfw.Window

	mutex     sync.Mutex
	events    []Event
	startTime float64
}

func New() *Platform {
	return &Platform{}
}

// Startup opens a window with an OpenGL 3.3 core context and makes the
// context current on the calling thread.
func (p *Platform) Startup(applicationName string, width, height uint32, vsync bool) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	p.Window = window
	p.Window.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetMouseButtonCallback(p.unhandledMouseButton)
	p.Window.Show()

	p.startTime = glfw.GetTime()
	core.LogInfo("window %q created (%dx%d, vsync %t)", applicationName, width, height, vsync)
	return nil
}

// PollEvents processes pending window events and returns them in arrival
// order.
func (p *Platform) PollEvents() []Event {
	glfw.PollEvents()

	p.mutex.Lock()
	defer p.mutex.Unlock()
	events := p.events
	p.events = nil
	return events
}

func (p *Platform) ShouldClose() bool {
	return p.Window.ShouldClose()
}

// Close asks the window to close; the engine loop observes it on the next
// ShouldClose.
func (p *Platform) Close() {
	p.Window.SetShouldClose(true)
}

// CurrentTime returns the seconds elapsed since Startup.
func (p *Platform) CurrentTime() float64 {
	return glfw.GetTime() - p.startTime
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

func (p *Platform) FramebufferSize() (uint32, uint32) {
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Platform) push(e Event) {
	p.mutex.Lock()
	p.events = append(p.events, e)
	p.mutex.Unlock()
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	p.push(Event{Type: EventKey, Key: key, Pressed: action == glfw.Press})
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.push(Event{Type: EventResize, Width: uint32(width), Height: uint32(height)})
}

func (p *Platform) closeCallback(w *glfw.Window) {
	p.push(Event{Type: EventClose})
}

func (p *Platform) unhandledMouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	p.push(Event{Type: EventUnhandled})
}
