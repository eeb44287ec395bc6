package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
)

type fakeBuffer struct {
	desc     metadata.BufferDescriptor
	released bool
}

func (b *fakeBuffer) Size() uint32          { return b.desc.Size }
func (b *fakeBuffer) Usage() metadata.Usage { return b.desc.Usage }
func (b *fakeBuffer) Release()              { b.released = true }

type fakeMemory struct {
	capacity uint32
	buffer   *fakeBuffer
	data     []byte
	flushes  int
	unmaps   int
}

func (m *fakeMemory) Capacity() uint32 { return m.capacity }

type fakeShader struct {
	stage    metadata.ShaderStage
	source   string
	released bool
}

func (s *fakeShader) Stage() metadata.ShaderStage { return s.stage }
func (s *fakeShader) Release()                    { s.released = true }

type fakePipeline struct {
	desc     PipelineDescriptor
	released bool
}

func (p *fakePipeline) InvalidateBindings() {}
func (p *fakePipeline) Release()            { p.released = true }

type fakeLayout struct {
	bindings []metadata.DescriptorSetLayoutBinding
	hints    []metadata.PipelineLayoutHint
}

func (l *fakeLayout) Bindings() []metadata.DescriptorSetLayoutBinding { return l.bindings }

type fakePipelineLayout struct{ hints []metadata.PipelineLayoutHint }

func (l *fakePipelineLayout) Bindings() []uint32 { return []uint32{0} }

type fakeSet struct{ layout DescriptorSetLayout }

func (s *fakeSet) Layout() DescriptorSetLayout { return s.layout }

// fakeCommandBuffer renders every recorded command as a string.
type fakeCommandBuffer struct {
	ops []string
}

func (cb *fakeCommandBuffer) PreparePipeline(p Pipeline) error {
	cb.ops = append(cb.ops, "prepare")
	return nil
}

func (cb *fakeCommandBuffer) BindVertexBuffer(binding uint32, b Buffer) error {
	cb.ops = append(cb.ops, fmt.Sprintf("vertex %d %d", binding, b.Size()))
	return nil
}

func (cb *fakeCommandBuffer) BindIndexBuffer(b Buffer) error {
	cb.ops = append(cb.ops, fmt.Sprintf("index %d", b.Size()))
	return nil
}

func (cb *fakeCommandBuffer) BindDescriptorSet(l PipelineLayout, s DescriptorSet) error {
	cb.ops = append(cb.ops, "descriptors")
	return nil
}

func (cb *fakeCommandBuffer) DrawIndexed(count, offset, instances uint32) error {
	cb.ops = append(cb.ops, fmt.Sprintf("draw %d %d %d", count, offset, instances))
	return nil
}

func (cb *fakeCommandBuffer) ClearScreen(c metadata.Color) error {
	cb.ops = append(cb.ops, "clear")
	return nil
}

func (cb *fakeCommandBuffer) Len() int { return len(cb.ops) }

type fakeDevice struct {
	buffers   []*fakeBuffer
	memories  []*fakeMemory
	shaders   []*fakeShader
	pipelines []*fakePipeline
	writes    []DescriptorSetWrite
	executed  []*fakeCommandBuffer

	failCompile string
	failLink    bool
}

var _ RendererDevice = (*fakeDevice)(nil)

func (d *fakeDevice) AllocateMemory(size uint32) Memory {
	m := &fakeMemory{capacity: size}
	d.memories = append(d.memories, m)
	return m
}

func (d *fakeDevice) MapMemory(mem Memory) ([]byte, error) {
	m := mem.(*fakeMemory)
	if m.buffer == nil {
		return nil, core.ErrMemoryUnbound
	}
	if m.data == nil {
		m.data = make([]byte, m.buffer.desc.Size)
	}
	return m.data, nil
}

func (d *fakeDevice) FlushMemory(mem Memory) error {
	mem.(*fakeMemory).flushes++
	return nil
}

func (d *fakeDevice) UnmapMemory(mem Memory) error {
	mem.(*fakeMemory).unmaps++
	return nil
}

func (d *fakeDevice) BindBufferMemory(mem Memory, b Buffer) error {
	mem.(*fakeMemory).buffer = b.(*fakeBuffer)
	return nil
}

func (d *fakeDevice) BindImageMemory(mem Memory, i Image) error {
	return errors.New("no images")
}

func (d *fakeDevice) CreateBuffer(desc metadata.BufferDescriptor) (Buffer, error) {
	b := &fakeBuffer{desc: desc}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeDevice) CreateImage(kind metadata.ImageKind) (Image, error) {
	return nil, core.ErrUnsupportedImage
}

func (d *fakeDevice) WriteImage(i Image, pixels []byte) error {
	return core.ErrUnsupportedImage
}

func (d *fakeDevice) CreateShaderModule(desc metadata.ShaderModDescriptor) (ShaderModule, error) {
	if d.failCompile != "" && desc.Source == d.failCompile {
		return nil, &core.ShaderError{Stage: desc.Stage.String(), Log: "syntax error"}
	}
	s := &fakeShader{stage: desc.Stage, source: desc.Source}
	d.shaders = append(d.shaders, s)
	return s, nil
}

func (d *fakeDevice) CreateDescriptorSetLayout(bindings []metadata.DescriptorSetLayoutBinding) (DescriptorSetLayout, error) {
	return &fakeLayout{bindings: bindings}, nil
}

func (d *fakeDevice) CreatePipelineLayout(l DescriptorSetLayout, hints []metadata.PipelineLayoutHint) (PipelineLayout, error) {
	return &fakePipelineLayout{hints: hints}, nil
}

func (d *fakeDevice) CreatePipeline(desc PipelineDescriptor) (Pipeline, error) {
	if d.failLink {
		return nil, &core.LinkError{Log: "link failed"}
	}
	p := &fakePipeline{desc: desc}
	d.pipelines = append(d.pipelines, p)
	return p, nil
}

func (d *fakeDevice) AllocateDescriptorSet(l DescriptorSetLayout) (DescriptorSet, error) {
	return &fakeSet{layout: l}, nil
}

func (d *fakeDevice) WriteDescriptorSet(w DescriptorSetWrite) error {
	d.writes = append(d.writes, w)
	return nil
}

func (d *fakeDevice) CreateCommandBuffer() CommandBuffer {
	return &fakeCommandBuffer{}
}

func (d *fakeDevice) Execute(cmd CommandBuffer) error {
	d.executed = append(d.executed, cmd.(*fakeCommandBuffer))
	return nil
}

// memoryOf returns the memory bound to b.
func (d *fakeDevice) memoryOf(b Buffer) *fakeMemory {
	for _, m := range d.memories {
		if m.buffer == b {
			return m
		}
	}
	return nil
}

type fakeAPI struct {
	color    metadata.Color
	swaps    int
	viewport [2]int32
}

func (a *fakeAPI) SwapBuffers()                   { a.swaps++ }
func (a *fakeAPI) SetClearColor(c metadata.Color) { a.color = c }
func (a *fakeAPI) ClearColor() metadata.Color     { return a.color }
func (a *fakeAPI) Clear()                         {}
func (a *fakeAPI) Viewport(width, height int32)   { a.viewport = [2]int32{width, height} }
