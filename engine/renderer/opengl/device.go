package opengl

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

// Device is the OpenGL resource factory. It keeps no per-frame state; the
// context behind f is shared by every resource it creates.
type Device struct {
	f     gl.Functions
	state *contextState
}

// contextState mirrors GL context state shared by the Device and its API.
type contextState struct {
	clearColor metadata.Color
}

var _ renderer.RendererDevice = (*Device)(nil)

func NewDevice(f gl.Functions) *Device {
	return &Device{f: f, state: &contextState{}}
}

func asBuffer(b renderer.Buffer) (*Buffer, error) {
	buf, ok := b.(*Buffer)
	if !ok || buf == nil {
		return nil, fmt.Errorf("buffer: %w", core.ErrWrongBackend)
	}
	if buf.released {
		return nil, fmt.Errorf("buffer: %w", core.ErrResourceReleased)
	}
	return buf, nil
}

func asImage(i renderer.Image) (*Image, error) {
	img, ok := i.(*Image)
	if !ok || img == nil {
		return nil, fmt.Errorf("image: %w", core.ErrWrongBackend)
	}
	if img.released {
		return nil, fmt.Errorf("image: %w", core.ErrResourceReleased)
	}
	return img, nil
}

func asMemory(m renderer.Memory) (*Memory, error) {
	mem, ok := m.(*Memory)
	if !ok || mem == nil {
		return nil, fmt.Errorf("memory: %w", core.ErrWrongBackend)
	}
	return mem, nil
}

func asDescriptorSetLayout(l renderer.DescriptorSetLayout) (*DescriptorSetLayout, error) {
	dsl, ok := l.(*DescriptorSetLayout)
	if !ok || dsl == nil {
		return nil, fmt.Errorf("descriptor set layout: %w", core.ErrWrongBackend)
	}
	return dsl, nil
}

func (d *Device) AllocateMemory(size uint32) renderer.Memory {
	return newMemory(size)
}

func (d *Device) MapMemory(memory renderer.Memory) ([]byte, error) {
	m, err := asMemory(memory)
	if err != nil {
		return nil, err
	}
	data, err := m.mapMemory()
	if err != nil {
		return nil, fmt.Errorf("map memory: %w", err)
	}
	return data, nil
}

func (d *Device) FlushMemory(memory renderer.Memory) error {
	m, err := asMemory(memory)
	if err != nil {
		return err
	}
	if err := m.flush(); err != nil {
		return fmt.Errorf("flush memory: %w", err)
	}
	return nil
}

func (d *Device) UnmapMemory(memory renderer.Memory) error {
	m, err := asMemory(memory)
	if err != nil {
		return err
	}
	if err := m.unmap(); err != nil {
		return fmt.Errorf("unmap memory: %w", err)
	}
	return nil
}

func (d *Device) BindBufferMemory(memory renderer.Memory, buffer renderer.Buffer) error {
	m, err := asMemory(memory)
	if err != nil {
		return err
	}
	b, err := asBuffer(buffer)
	if err != nil {
		return err
	}
	return m.bindBuffer(b)
}

func (d *Device) BindImageMemory(memory renderer.Memory, image renderer.Image) error {
	m, err := asMemory(memory)
	if err != nil {
		return err
	}
	i, err := asImage(image)
	if err != nil {
		return err
	}
	return m.bindImage(i)
}

func (d *Device) CreateBuffer(desc metadata.BufferDescriptor) (renderer.Buffer, error) {
	b, err := newBuffer(d.f, desc)
	if err != nil {
		return nil, err
	}
	if err := gl.CheckError(d.f, "create buffer"); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (d *Device) CreateImage(kind metadata.ImageKind) (renderer.Image, error) {
	i, err := newImage(d.f, kind)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (d *Device) WriteImage(image renderer.Image, pixels []byte) error {
	i, err := asImage(image)
	if err != nil {
		return err
	}
	return i.write(pixels)
}

func (d *Device) CreateShaderModule(desc metadata.ShaderModDescriptor) (renderer.ShaderModule, error) {
	s, err := newShaderModule(d.f, desc)
	if err != nil {
		core.LogError("shader module %q: %s", desc.Name, err)
		return nil, err
	}
	return s, nil
}

func (d *Device) CreateDescriptorSetLayout(bindings []metadata.DescriptorSetLayoutBinding) (renderer.DescriptorSetLayout, error) {
	l, err := newDescriptorSetLayout(bindings)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (d *Device) CreatePipelineLayout(layout renderer.DescriptorSetLayout, hints []metadata.PipelineLayoutHint) (renderer.PipelineLayout, error) {
	dsl, err := asDescriptorSetLayout(layout)
	if err != nil {
		return nil, err
	}
	pl, err := newPipelineLayout(dsl, hints)
	if err != nil {
		return nil, err
	}
	return pl, nil
}

func (d *Device) CreatePipeline(desc renderer.PipelineDescriptor) (renderer.Pipeline, error) {
	p, err := newPipeline(d.f, desc)
	if err != nil {
		core.LogError("failed to create pipeline: %s", err)
		return nil, err
	}
	return p, nil
}

func (d *Device) AllocateDescriptorSet(layout renderer.DescriptorSetLayout) (renderer.DescriptorSet, error) {
	dsl, err := asDescriptorSetLayout(layout)
	if err != nil {
		return nil, err
	}
	return newDescriptorSet(dsl), nil
}

// WriteDescriptorSet attaches a uniform buffer or an image to a binding of
// the set and makes it visible to the context at that binding point.
func (d *Device) WriteDescriptorSet(write renderer.DescriptorSetWrite) error {
	ds, ok := write.Set.(*DescriptorSet)
	if !ok || ds == nil {
		return fmt.Errorf("descriptor set: %w", core.ErrWrongBackend)
	}
	ty, ok := ds.layout.byBinding[write.Binding]
	if !ok {
		return fmt.Errorf("%w: binding %d is not in the descriptor set layout", core.ErrInvalidDescriptor, write.Binding)
	}

	switch {
	case write.Descriptor.Buffer != nil && write.Descriptor.Image == nil:
		if ty != metadata.DescriptorTypeUniformBuffer {
			return fmt.Errorf("%w: buffer written to %s binding %d", core.ErrInvalidDescriptor, ty, write.Binding)
		}
		b, err := asBuffer(write.Descriptor.Buffer)
		if err != nil {
			return err
		}
		d.f.BindBufferBase(b.target, write.Binding, b.id)
		ds.buffers[write.Binding] = b
	case write.Descriptor.Image != nil && write.Descriptor.Buffer == nil:
		if ty != metadata.DescriptorTypeSampler {
			return fmt.Errorf("%w: image written to %s binding %d", core.ErrInvalidDescriptor, ty, write.Binding)
		}
		i, err := asImage(write.Descriptor.Image)
		if err != nil {
			return err
		}
		d.f.ActiveTexture(gl.Enum(gl.TEXTURE0 + write.Binding))
		d.f.BindTexture(gl.TEXTURE_2D, i.id)
		ds.images[write.Binding] = i
	default:
		return fmt.Errorf("%w: a descriptor write needs exactly one buffer or image", core.ErrInvalidDescriptor)
	}
	return nil
}

func (d *Device) CreateCommandBuffer() renderer.CommandBuffer {
	return newCommandBuffer(uuid.NewString())
}

func (d *Device) Execute(cmd renderer.CommandBuffer) error {
	cb, ok := cmd.(*CommandBuffer)
	if !ok || cb == nil {
		return fmt.Errorf("command buffer: %w", core.ErrWrongBackend)
	}
	n := cb.Len()
	if err := cb.execute(d.f, d.state); err != nil {
		return fmt.Errorf("execute command buffer %s: %w", cb.label, err)
	}
	if err := gl.CheckError(d.f, "execute"); err != nil {
		core.LogWarn("command buffer %s (%d commands): %s", cb.label, n, err)
	}
	return nil
}
