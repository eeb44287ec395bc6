package testbed

import (
	"github.com/spaghettifunk/rx-engine/engine"
	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/math"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
)

type sandboxState struct {
	cubes      []*math.Transform
	spin       []math.Vec3
	width      uint32
	height     uint32
	eye        math.Vec3
	view       math.Mat4
	projection math.Mat4
}

// Sandbox draws a grid of spinning cubes, one instance per cube.
type Sandbox struct {
	*engine.Game
	grid  int
	state *sandboxState
}

func NewSandbox(config *engine.ApplicationConfig, grid int) *Sandbox {
	s := &Sandbox{
		Game: &engine.Game{
			ApplicationConfig: config,
		},
		grid:  grid,
		state: &sandboxState{},
	}
	s.State = s.state
	s.FnInitialize = s.Initialize
	s.FnUpdate = s.Update
	s.FnRender = s.Render
	s.FnOnResize = s.OnResize
	s.FnShutdown = s.Shutdown
	return s
}

func (s *Sandbox) Initialize() error {
	const spacing = 2.5
	offset := float32(s.grid-1) * spacing / 2
	for x := 0; x < s.grid; x++ {
		for z := 0; z < s.grid; z++ {
			pos := math.NewVec3(float32(x)*spacing-offset, 0, float32(z)*spacing-offset)
			s.state.cubes = append(s.state.cubes, math.TransformFromPosition(pos))
			s.state.spin = append(s.state.spin, math.NewVec3(float32(x%3), 1, float32(z%2)).Normalized())
		}
	}
	s.state.eye = math.NewVec3(0, offset+6, offset*2+8)
	s.state.view = math.NewMat4LookAt(s.state.eye, math.NewVec3Zero(), math.NewVec3Up())
	core.LogInfo("sandbox: %d cubes", len(s.state.cubes))
	return nil
}

func (s *Sandbox) Update(deltaTime float64) error {
	for i, t := range s.state.cubes {
		t.Rotate(math.NewQuatFromAxisAngle(s.state.spin[i], float32(deltaTime), true))
	}
	return nil
}

func (s *Sandbox) Render(submitter engine.Submitter, frame *renderer.Frame, deltaTime float64) error {
	frame.SetCamera(s.state.view, s.state.projection)
	for _, t := range s.state.cubes {
		submitter.Submit(renderer.DrawCommand{Transform: t.GetWorld()})
	}
	return nil
}

func (s *Sandbox) OnResize(width, height uint32) error {
	s.state.width = width
	s.state.height = height
	aspect := float32(width) / float32(height)
	s.state.projection = math.NewMat4Perspective(math.DegToRad(45), aspect, 0.1, 1000)
	return nil
}

func (s *Sandbox) Shutdown() error {
	core.LogInfo("sandbox shutting down")
	return nil
}
