package opengl

import (
	"github.com/spaghettifunk/rx-engine/engine/renderer"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

// API implements the per-frame context operations on the context of a
// Device. Presenting is delegated to the windowing layer through swap.
type API struct {
	f     gl.Functions
	swap  func()
	state *contextState
}

var _ renderer.RendererAPI = (*API)(nil)

func NewAPI(device *Device, swap func()) *API {
	return &API{f: device.f, swap: swap, state: device.state}
}

func (a *API) SwapBuffers() {
	if a.swap != nil {
		a.swap()
	}
}

func (a *API) SetClearColor(color metadata.Color) {
	a.state.clearColor = color
	a.f.ClearColor(color.R, color.G, color.B, color.A)
}

// ClearColor reports the colour last set on the context, either here or by
// an executed ClearScreen.
func (a *API) ClearColor() metadata.Color {
	return a.state.clearColor
}

func (a *API) Clear() {
	a.f.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (a *API) Viewport(width, height int32) {
	a.f.Viewport(0, 0, width, height)
}
