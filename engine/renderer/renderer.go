package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spaghettifunk/rx-engine/engine/containers"
	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/math"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
)

const (
	vertexBinding   uint32 = 0
	instanceBinding uint32 = 1
	cameraBinding   uint32 = 0
	cameraBlock            = "Camera"
)

type RendererConfig struct {
	// MaxInstances caps the number of draw commands drawn per frame.
	MaxInstances uint32
	ClearColor   metadata.Color
}

// ShaderSources holds the GLSL text of the vertex and fragment stages. The
// names only show up in logs.
type ShaderSources struct {
	Vertex       string
	VertexName   string
	Fragment     string
	FragmentName string
}

// DrawCommand asks for one instance of the mesh with the given model matrix.
type DrawCommand struct {
	Transform math.Mat4
}

/** @brief One frame of work, handed out by Start and closed by End. */
type Frame struct {
	ID         string
	Number     uint64
	Started    time.Time
	Instances  uint32
	view       math.Mat4
	projection math.Mat4
}

func (f *Frame) SetCamera(view, projection math.Mat4) {
	f.view = view
	f.projection = projection
}

// allocation is a buffer together with the memory bound to it.
type allocation struct {
	buffer Buffer
	memory Memory
}

/**
 * @brief Draws instances of a single mesh through one pipeline. Submit is safe
 * from any goroutine; every other method belongs to the goroutine that owns
 * the graphics context.
 */
type Renderer struct {
	device RendererDevice
	api    RendererAPI
	config RendererConfig

	queue   *containers.Queue[DrawCommand]
	drained []DrawCommand

	shaders  ShaderSet
	dsl      DescriptorSetLayout
	layout   PipelineLayout
	set      DescriptorSet
	pipeline Pipeline

	vertices   allocation
	indices    allocation
	instances  allocation
	camera     allocation
	indexCount uint32

	frames  uint64
	metrics *core.FrameMetrics
}

func NewRenderer(device RendererDevice, api RendererAPI, config RendererConfig, mesh Mesh, sources ShaderSources) (*Renderer, error) {
	if config.MaxInstances == 0 {
		return nil, fmt.Errorf("%w: max instances must be positive", core.ErrInvalidDescriptor)
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("%w: empty mesh", core.ErrInvalidDescriptor)
	}

	r := &Renderer{
		device:     device,
		api:        api,
		config:     config,
		queue:      containers.NewQueue[DrawCommand](int(config.MaxInstances)),
		drained:    make([]DrawCommand, 0, config.MaxInstances),
		indexCount: uint32(len(mesh.Indices)),
		metrics:    core.NewFrameMetrics(),
	}
	if err := r.setup(mesh, sources); err != nil {
		r.Release()
		return nil, err
	}
	api.SetClearColor(config.ClearColor)

	core.LogInfo("renderer ready: %d vertices, %d indices, up to %d instances per frame",
		len(mesh.Vertices), r.indexCount, config.MaxInstances)
	return r, nil
}

func (r *Renderer) setup(mesh Mesh, sources ShaderSources) error {
	var err error
	if r.shaders, err = r.compile(sources); err != nil {
		return err
	}
	r.dsl, err = r.device.CreateDescriptorSetLayout([]metadata.DescriptorSetLayoutBinding{
		{Binding: cameraBinding, Type: metadata.DescriptorTypeUniformBuffer},
	})
	if err != nil {
		return err
	}
	r.layout, err = r.device.CreatePipelineLayout(r.dsl, []metadata.PipelineLayoutHint{
		{Location: cameraBinding, Name: cameraBlock},
	})
	if err != nil {
		return err
	}
	if r.pipeline, err = r.createPipeline(r.shaders); err != nil {
		return err
	}

	vertexData := mesh.vertexBytes()
	indexData := mesh.indexBytes()
	if r.vertices, err = r.allocate(metadata.UsageVertex, uint32(len(vertexData))); err != nil {
		return err
	}
	if r.indices, err = r.allocate(metadata.UsageIndex, uint32(len(indexData))); err != nil {
		return err
	}
	if r.instances, err = r.allocate(metadata.UsageVertex, r.config.MaxInstances*instanceStride); err != nil {
		return err
	}
	if r.camera, err = r.allocate(metadata.UsageUniform, cameraSize); err != nil {
		return err
	}

	if r.set, err = r.device.AllocateDescriptorSet(r.dsl); err != nil {
		return err
	}
	err = r.device.WriteDescriptorSet(DescriptorSetWrite{
		Set:        r.set,
		Binding:    cameraBinding,
		Descriptor: Descriptor{Buffer: r.camera.buffer},
	})
	if err != nil {
		return err
	}

	if err := r.upload(r.vertices, copyInto(vertexData)); err != nil {
		return fmt.Errorf("upload vertices: %w", err)
	}
	if err := r.upload(r.indices, copyInto(indexData)); err != nil {
		return fmt.Errorf("upload indices: %w", err)
	}
	return nil
}

func (r *Renderer) compile(sources ShaderSources) (ShaderSet, error) {
	vs, err := r.device.CreateShaderModule(metadata.ShaderModDescriptor{
		Stage:  metadata.ShaderStageVertex,
		Source: sources.Vertex,
		Name:   sources.VertexName,
	})
	if err != nil {
		return ShaderSet{}, err
	}
	fs, err := r.device.CreateShaderModule(metadata.ShaderModDescriptor{
		Stage:  metadata.ShaderStageFragment,
		Source: sources.Fragment,
		Name:   sources.FragmentName,
	})
	if err != nil {
		vs.Release()
		return ShaderSet{}, err
	}
	return ShaderSet{Vertex: vs, Fragment: fs}, nil
}

func (r *Renderer) createPipeline(shaders ShaderSet) (Pipeline, error) {
	desc := NewPipelineDescriptor(metadata.PrimitiveTriangles, shaders, r.layout)
	desc.PushVertexBuffer(metadata.VertexBufferDescriptor{Binding: vertexBinding, Stride: vertexStride})
	desc.PushVertexBuffer(metadata.VertexBufferDescriptor{Binding: instanceBinding, Stride: instanceStride})
	desc.PushAttribute(metadata.AttributeDescriptor{
		Binding:  vertexBinding,
		Location: 0,
		Data:     metadata.VertexData{Offset: 0, DataType: metadata.DataTypeVec3f32},
	})
	desc.PushAttribute(metadata.AttributeDescriptor{
		Binding:  vertexBinding,
		Location: 1,
		Data:     metadata.VertexData{Offset: 12, DataType: metadata.DataTypeVec3f32},
	})
	desc.PushAttribute(metadata.AttributeDescriptor{
		Binding:  instanceBinding,
		Location: 2,
		Data:     metadata.VertexData{Offset: 0, DataType: metadata.DataTypeMat4f32},
	})
	return r.device.CreatePipeline(*desc)
}

func (r *Renderer) allocate(usage metadata.Usage, size uint32) (allocation, error) {
	b, err := r.device.CreateBuffer(metadata.BufferDescriptor{Size: size, Usage: usage})
	if err != nil {
		return allocation{}, fmt.Errorf("create %s buffer: %w", usage, err)
	}
	mem := r.device.AllocateMemory(size)
	if err := r.device.BindBufferMemory(mem, b); err != nil {
		b.Release()
		return allocation{}, fmt.Errorf("bind %s memory: %w", usage, err)
	}
	return allocation{buffer: b, memory: mem}, nil
}

// upload maps the memory of a, lets fill write into it, then flushes and
// unmaps it. The memory is unmapped even when the flush fails.
// upload maps the memory of a, lets fill write into it, then flushes and
// unmaps. The memory is unmapped even when fill fails.
func (r *Renderer) upload(a allocation, fill func(dst []byte) error) error {
	dst, err := r.device.MapMemory(a.memory)
	if err != nil {
		return err
	}
	if err := fill(dst); err != nil {
		return errors.Join(err, r.device.UnmapMemory(a.memory))
	}
	flushErr := r.device.FlushMemory(a.memory)
	return errors.Join(flushErr, r.device.UnmapMemory(a.memory))
}

func copyInto(src []byte) func(dst []byte) error {
	return func(dst []byte) error {
		if len(dst) < len(src) {
			return fmt.Errorf("mapped range of %d bytes cannot hold %d", len(dst), len(src))
		}
		copy(dst, src)
		return nil
	}
}

// Submit queues a draw for the next processed frame. It never blocks.
func (r *Renderer) Submit(cmd DrawCommand) {
	r.queue.Push(cmd)
}

// Pending returns the number of draw commands waiting for the next frame.
func (r *Renderer) Pending() int {
	return r.queue.Len()
}

func (r *Renderer) Start() *Frame {
	r.frames++
	return &Frame{
		ID:         uuid.NewString(),
		Number:     r.frames,
		Started:    time.Now(),
		view:       math.NewMat4Identity(),
		projection: math.NewMat4Identity(),
	}
}

// Process drains the submitted draw commands, packs their transforms into
// the instance buffer and executes a single command buffer for the frame.
func (r *Renderer) Process(frame *Frame) error {
	if r.pipeline == nil {
		return core.ErrPipelineUnavailable
	}

	r.drained = r.queue.Drain(r.drained[:0])
	draws := r.drained
	if uint32(len(draws)) > r.config.MaxInstances {
		core.LogWarn("frame %d: %d draw commands submitted, dropping %d over the limit of %d",
			frame.Number, len(draws), uint32(len(draws))-r.config.MaxInstances, r.config.MaxInstances)
		draws = draws[:r.config.MaxInstances]
	}
	frame.Instances = uint32(len(draws))

	cb := r.device.CreateCommandBuffer()
	if err := cb.ClearScreen(r.config.ClearColor); err != nil {
		return err
	}
	if len(draws) > 0 {
		if err := r.writeFrameData(frame, draws); err != nil {
			return err
		}
		if err := r.record(cb, uint32(len(draws))); err != nil {
			return err
		}
	}
	if err := r.device.Execute(cb); err != nil {
		return fmt.Errorf("frame %d: %w", frame.Number, err)
	}
	return nil
}

func (r *Renderer) writeFrameData(frame *Frame, draws []DrawCommand) error {
	err := r.upload(r.instances, func(dst []byte) error {
		for i, d := range draws {
			if err := encodeMat4(dst, i*instanceStride, d.Transform); err != nil {
				return fmt.Errorf("instance %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upload instances: %w", err)
	}
	err = r.upload(r.camera, func(dst []byte) error {
		return errors.Join(
			encodeMat4(dst, 0, frame.view),
			encodeMat4(dst, mat4Size, frame.projection),
		)
	})
	if err != nil {
		return fmt.Errorf("upload camera: %w", err)
	}
	return nil
}

// encodeMat4 writes m column-major at offset.
func encodeMat4(dst []byte, offset int, m math.Mat4) error {
	if offset > len(dst) {
		return fmt.Errorf("offset %d past mapped range of %d bytes", offset, len(dst))
	}
	_, err := binary.Encode(dst[offset:], binary.NativeEndian, m.Data)
	return err
}

func (r *Renderer) record(cb CommandBuffer, instances uint32) error {
	steps := []func() error{
		func() error { return cb.PreparePipeline(r.pipeline) },
		func() error { return cb.BindVertexBuffer(vertexBinding, r.vertices.buffer) },
		func() error { return cb.BindVertexBuffer(instanceBinding, r.instances.buffer) },
		func() error { return cb.BindIndexBuffer(r.indices.buffer) },
		func() error { return cb.BindDescriptorSet(r.layout, r.set) },
		func() error { return cb.DrawIndexed(r.indexCount, 0, instances) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("record frame: %w", err)
		}
	}
	return nil
}

func (r *Renderer) Viewport(width, height uint32) {
	r.api.Viewport(int32(width), int32(height))
}

// End presents the frame and records its duration.
func (r *Renderer) End(frame *Frame) {
	r.api.SwapBuffers()
	r.metrics.Update(time.Since(frame.Started).Seconds())
}

func (r *Renderer) Metrics() *core.FrameMetrics {
	return r.metrics
}

// ReloadShaders rebuilds the pipeline from new sources. When compiling or
// linking fails the current pipeline stays in use.
func (r *Renderer) ReloadShaders(sources ShaderSources) error {
	if r.pipeline == nil {
		return core.ErrPipelineUnavailable
	}
	shaders, err := r.compile(sources)
	if err != nil {
		return fmt.Errorf("reload shaders: %w", err)
	}
	pipeline, err := r.createPipeline(shaders)
	if err != nil {
		shaders.Vertex.Release()
		shaders.Fragment.Release()
		return fmt.Errorf("reload shaders: %w", err)
	}

	r.pipeline.Release()
	r.releaseShaders()
	r.pipeline = pipeline
	r.shaders = shaders
	core.LogInfo("shaders reloaded from %s and %s", sources.VertexName, sources.FragmentName)
	return nil
}

func (r *Renderer) releaseShaders() {
	if r.shaders.Vertex != nil {
		r.shaders.Vertex.Release()
	}
	if r.shaders.Fragment != nil {
		r.shaders.Fragment.Release()
	}
	r.shaders = ShaderSet{}
}

// Release frees every resource owned by the renderer. Process fails with
// core.ErrPipelineUnavailable afterwards.
func (r *Renderer) Release() {
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	r.releaseShaders()
	for _, a := range []*allocation{&r.vertices, &r.indices, &r.instances, &r.camera} {
		if a.buffer != nil {
			a.buffer.Release()
			a.buffer = nil
		}
	}
}
