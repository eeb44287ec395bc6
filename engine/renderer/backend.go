package renderer

import "github.com/spaghettifunk/rx-engine/engine/renderer/metadata"

// Opaque resource handles. Each backend returns its own concrete types and
// rejects handles created by another backend.
type (
	Buffer interface {
		Size() uint32
		Usage() metadata.Usage
		Release()
	}

	Memory interface {
		Capacity() uint32
	}

	Image interface {
		Kind() metadata.ImageKind
		Release()
	}

	ShaderModule interface {
		Stage() metadata.ShaderStage
		Release()
	}

	Pipeline interface {
		// InvalidateBindings drops the cached vertex and index buffer
		// bindings, forcing the next binds to reconfigure the context.
		InvalidateBindings()
		Release()
	}

	DescriptorSetLayout interface {
		Bindings() []metadata.DescriptorSetLayoutBinding
	}

	PipelineLayout interface {
		// Bindings returns the layout binding numbers in ascending order.
		Bindings() []uint32
	}

	DescriptorSet interface {
		Layout() DescriptorSetLayout
	}
)

type ShaderSet struct {
	Vertex   ShaderModule
	Fragment ShaderModule
}

/** @brief Everything needed to build a pipeline. */
type PipelineDescriptor struct {
	Primitive        metadata.Primitive
	ShaderSet        ShaderSet
	Layout           PipelineLayout
	VertexBuffers    []metadata.VertexBufferDescriptor
	VertexAttributes []metadata.AttributeDescriptor
}

func NewPipelineDescriptor(primitive metadata.Primitive, shaders ShaderSet, layout PipelineLayout) *PipelineDescriptor {
	return &PipelineDescriptor{
		Primitive: primitive,
		ShaderSet: shaders,
		Layout:    layout,
	}
}

func (pd *PipelineDescriptor) PushVertexBuffer(desc metadata.VertexBufferDescriptor) {
	pd.VertexBuffers = append(pd.VertexBuffers, desc)
}

func (pd *PipelineDescriptor) PushAttribute(desc metadata.AttributeDescriptor) {
	pd.VertexAttributes = append(pd.VertexAttributes, desc)
}

// Descriptor is the resource written into a descriptor set binding. Exactly
// one of Buffer and Image is set.
type Descriptor struct {
	Buffer Buffer
	Image  Image
}

type DescriptorSetWrite struct {
	Set        DescriptorSet
	Binding    uint32
	Descriptor Descriptor
}

// CommandBuffer records draw operations for a later Execute. Bind and draw
// calls fail with core.ErrNoPipeline until a pipeline has been prepared, and
// every call fails with core.ErrCommandBufferExecuted once the buffer has been
// executed.
type CommandBuffer interface {
	PreparePipeline(pipeline Pipeline) error
	BindVertexBuffer(binding uint32, buffer Buffer) error
	BindIndexBuffer(buffer Buffer) error
	BindDescriptorSet(layout PipelineLayout, set DescriptorSet) error
	// DrawIndexed draws count indices starting at the byte offset into the
	// bound index buffer. More than one instance selects an instanced draw.
	DrawIndexed(count, offset, instances uint32) error
	ClearScreen(color metadata.Color) error
	Len() int
}

// RendererDevice creates resources and executes command buffers. It must be
// used from the goroutine that owns the graphics context.
type RendererDevice interface {
	AllocateMemory(size uint32) Memory
	MapMemory(memory Memory) ([]byte, error)
	FlushMemory(memory Memory) error
	UnmapMemory(memory Memory) error
	BindBufferMemory(memory Memory, buffer Buffer) error
	BindImageMemory(memory Memory, image Image) error

	CreateBuffer(desc metadata.BufferDescriptor) (Buffer, error)
	CreateImage(kind metadata.ImageKind) (Image, error)
	WriteImage(image Image, pixels []byte) error
	CreateShaderModule(desc metadata.ShaderModDescriptor) (ShaderModule, error)
	CreateDescriptorSetLayout(bindings []metadata.DescriptorSetLayoutBinding) (DescriptorSetLayout, error)
	CreatePipelineLayout(layout DescriptorSetLayout, hints []metadata.PipelineLayoutHint) (PipelineLayout, error)
	CreatePipeline(desc PipelineDescriptor) (Pipeline, error)
	AllocateDescriptorSet(layout DescriptorSetLayout) (DescriptorSet, error)
	WriteDescriptorSet(write DescriptorSetWrite) error

	CreateCommandBuffer() CommandBuffer
	// Execute replays the command buffer against the context and consumes it.
	Execute(cmd CommandBuffer) error
}

// RendererAPI covers the per-frame context operations that are not resources.
type RendererAPI interface {
	SwapBuffers()
	SetClearColor(color metadata.Color)
	ClearColor() metadata.Color
	Clear()
	Viewport(width, height int32)
}
