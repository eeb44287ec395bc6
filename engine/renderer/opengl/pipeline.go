package opengl

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

/** @brief A vertex buffer binding slot and the attributes it feeds. */
type vertexBinding struct {
	buffer     metadata.VertexBufferDescriptor
	attributes []metadata.AttributeDescriptor
}

/**
 * @brief A linked program plus its vertex array object. The bind caches are
 * owned by the pipeline and are not safe for concurrent use.
 */
type Pipeline struct {
	f         gl.Functions
	vao       gl.VertexArray
	program   gl.Program
	primitive gl.Enum

	/** @brief Vertex layout, keyed by binding. */
	bindings map[uint32]vertexBinding
	/** @brief binding -> buffer handle currently configured on the vertex array. */
	boundVertex map[uint32]*Buffer
	boundIndex  *Buffer

	/** @brief layout binding -> uniform block index. */
	uniformBlocks map[uint32]uint32
	/** @brief layout binding -> sampler uniform location. */
	samplers map[uint32]gl.Uniform

	released bool
}

func primitiveMode(p metadata.Primitive) gl.Enum {
	switch p {
	case metadata.PrimitiveTriangleFan:
		return gl.TRIANGLE_FAN
	case metadata.PrimitiveTriangleStrip:
		return gl.TRIANGLE_STRIP
	case metadata.PrimitiveQuads:
		core.LogWarn("quads are not supported by the GL core profile, drawing as triangles")
		return gl.TRIANGLES
	default:
		return gl.TRIANGLES
	}
}

func attributeType(d metadata.DataType) gl.Enum {
	switch d {
	case metadata.DataTypeVec2f32:
		return gl.FLOAT_VEC2
	case metadata.DataTypeVec3f32:
		return gl.FLOAT_VEC3
	default:
		return gl.FLOAT_MAT4
	}
}

// groupBindings pairs every attribute with the vertex buffer of its binding.
func groupBindings(buffers []metadata.VertexBufferDescriptor, attrs []metadata.AttributeDescriptor) (map[uint32]vertexBinding, error) {
	table := make(map[uint32]vertexBinding, len(buffers))
	for _, vb := range buffers {
		if _, ok := table[vb.Binding]; ok {
			return nil, fmt.Errorf("%w: vertex buffer binding %d declared twice", core.ErrInvalidDescriptor, vb.Binding)
		}
		table[vb.Binding] = vertexBinding{buffer: vb}
	}
	for _, a := range attrs {
		vb, ok := table[a.Binding]
		if !ok {
			return nil, &core.BindingNotFoundError{Binding: a.Binding}
		}
		vb.attributes = append(vb.attributes, a)
		table[a.Binding] = vb
	}
	return table, nil
}

func shaderModules(set renderer.ShaderSet) (*ShaderModule, *ShaderModule, error) {
	vs, ok := set.Vertex.(*ShaderModule)
	if !ok || vs == nil {
		return nil, nil, fmt.Errorf("vertex shader: %w", core.ErrWrongBackend)
	}
	fs, ok := set.Fragment.(*ShaderModule)
	if !ok || fs == nil {
		return nil, nil, fmt.Errorf("fragment shader: %w", core.ErrWrongBackend)
	}
	if vs.stage != metadata.ShaderStageVertex || fs.stage != metadata.ShaderStageFragment {
		return nil, nil, fmt.Errorf("%w: shader set stages are %s and %s", core.ErrInvalidDescriptor, vs.stage, fs.stage)
	}
	if vs.released || fs.released {
		return nil, nil, fmt.Errorf("shader set: %w", core.ErrResourceReleased)
	}
	return vs, fs, nil
}

func newPipeline(f gl.Functions, desc renderer.PipelineDescriptor) (*Pipeline, error) {
	vs, fs, err := shaderModules(desc.ShaderSet)
	if err != nil {
		return nil, err
	}
	layout, ok := desc.Layout.(*PipelineLayout)
	if !ok || layout == nil {
		return nil, fmt.Errorf("pipeline layout: %w", core.ErrWrongBackend)
	}
	table, err := groupBindings(desc.VertexBuffers, desc.VertexAttributes)
	if err != nil {
		return nil, err
	}

	program, err := linkProgram(f, vs, fs)
	if err != nil {
		return nil, err
	}
	if err := validateAttributes(f, program, desc.VertexAttributes); err != nil {
		f.DeleteProgram(program)
		return nil, err
	}

	p := &Pipeline{
		f:             f,
		program:       program,
		primitive:     primitiveMode(desc.Primitive),
		bindings:      table,
		boundVertex:   make(map[uint32]*Buffer),
		uniformBlocks: make(map[uint32]uint32),
		samplers:      make(map[uint32]gl.Uniform),
	}
	if err := p.resolveLayout(layout); err != nil {
		f.DeleteProgram(program)
		return nil, err
	}
	p.vao = f.CreateVertexArray()

	core.LogDebug("pipeline created: program %d, %d vertex bindings, %d uniform blocks, %d samplers",
		p.program, len(p.bindings), len(p.uniformBlocks), len(p.samplers))
	return p, nil
}

func linkProgram(f gl.Functions, vs, fs *ShaderModule) (gl.Program, error) {
	prog := f.CreateProgram()
	if prog == 0 {
		return 0, fmt.Errorf("glCreateProgram failed")
	}
	f.AttachShader(prog, vs.id)
	f.AttachShader(prog, fs.id)
	f.LinkProgram(prog)
	f.DetachShader(prog, vs.id)
	f.DetachShader(prog, fs.id)
	if f.GetProgrami(prog, gl.LINK_STATUS) == gl.FALSE {
		log := gl.TrimLog(f.GetProgramInfoLog(prog))
		f.DeleteProgram(prog)
		return 0, &core.LinkError{Log: log}
	}
	return prog, nil
}

// validateAttributes checks the active attributes of the linked program
// against the declared layout, in both directions.
func validateAttributes(f gl.Functions, prog gl.Program, attrs []metadata.AttributeDescriptor) error {
	declared := make(map[uint32]metadata.AttributeDescriptor, len(attrs))
	for _, a := range attrs {
		declared[a.Location] = a
	}

	seen := make(map[uint32]bool, len(attrs))
	count := f.GetProgrami(prog, gl.ACTIVE_ATTRIBUTES)
	for i := uint32(0); i < uint32(count); i++ {
		name, size, ty := f.GetActiveAttrib(prog, i)
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		loc := f.GetAttribLocation(prog, name)
		if loc < 0 {
			return &core.AttributeError{Name: name, Reason: "active attribute has no location"}
		}
		a, ok := declared[uint32(loc)]
		if !ok {
			core.LogWarn("attribute %q at location %d is not fed by the vertex layout", name, loc)
			continue
		}
		if want := attributeType(a.Data.DataType); ty != want {
			return &core.AttributeError{Name: name, Location: a.Location,
				Reason: fmt.Sprintf("program type 0x%x does not match declared %s", uint32(ty), a.Data.DataType)}
		}
		if size != 1 {
			return &core.AttributeError{Name: name, Location: a.Location,
				Reason: fmt.Sprintf("array size %d, only single elements are supported", size)}
		}
		seen[a.Location] = true
	}
	for _, a := range attrs {
		if !seen[a.Location] {
			return &core.AttributeError{Location: a.Location, Reason: "declared attribute is not active in the linked program"}
		}
	}
	return nil
}

// resolveLayout looks up the uniform block index or sampler uniform of every
// layout binding.
func (p *Pipeline) resolveLayout(layout *PipelineLayout) error {
	for _, binding := range layout.order {
		e := layout.entries[binding]
		switch e.binding.Type {
		case metadata.DescriptorTypeUniformBuffer:
			index := binding
			if e.name != "" {
				index = p.f.GetUniformBlockIndex(p.program, e.name)
			}
			if index == gl.INVALID_INDEX {
				return fmt.Errorf("%w: binding %d, block %q", core.ErrInvalidUniformBlock, binding, e.name)
			}
			p.uniformBlocks[binding] = index
		case metadata.DescriptorTypeSampler:
			if e.name == "" {
				continue
			}
			loc := p.f.GetUniformLocation(p.program, e.name)
			if loc < 0 {
				return fmt.Errorf("%w: binding %d, sampler %q not found", core.ErrInvalidUniformBlock, binding, e.name)
			}
			p.samplers[binding] = loc
		}
	}
	return nil
}

func (p *Pipeline) hasBinding(binding uint32) bool {
	_, ok := p.bindings[binding]
	return ok
}

// prepare makes the pipeline current on the context.
func (p *Pipeline) prepare() {
	p.f.BindVertexArray(p.vao)
	p.f.UseProgram(p.program)
	p.f.Enable(gl.CULL_FACE)
	p.f.CullFace(gl.BACK)
	p.f.Enable(gl.DEPTH_TEST)
}

// bindIndex makes b the element buffer of the vertex array. Like the vertex
// cache it compares handles, since the driver may hand a released GL name to
// a new buffer.
func (p *Pipeline) bindIndex(b *Buffer) {
	if p.boundIndex == b {
		return
	}
	p.f.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.id)
	p.boundIndex = b
}

// bindVertex configures the attribute pointers of binding to read from b.
// Nothing is issued when b is already the buffer cached for binding.
func (p *Pipeline) bindVertex(binding uint32, b *Buffer) error {
	vb, ok := p.bindings[binding]
	if !ok {
		return fmt.Errorf("%w: vertex binding %d is not part of the pipeline", core.ErrInvalidDescriptor, binding)
	}
	if p.boundVertex[binding] == b {
		return nil
	}
	p.f.BindBuffer(gl.ARRAY_BUFFER, b.id)
	for _, a := range vb.attributes {
		p.vertexPointer(vb.buffer.Stride, a)
	}
	p.boundVertex[binding] = b
	return nil
}

func (p *Pipeline) vertexPointer(stride uint32, a metadata.AttributeDescriptor) {
	if a.Data.DataType == metadata.DataTypeMat4f32 {
		// one vec4 per column, advanced per instance
		for k := uint32(0); k < 4; k++ {
			loc := gl.Attrib(a.Location + k)
			p.f.VertexAttribPointer(loc, 4, gl.FLOAT, false, int32(stride), int(a.Data.Offset+k*16))
			p.f.EnableVertexAttribArray(loc)
			p.f.VertexAttribDivisor(loc, 1)
		}
		return
	}
	loc := gl.Attrib(a.Location)
	p.f.VertexAttribPointer(loc, a.Data.DataType.Components(), gl.FLOAT, false, int32(stride), int(a.Data.Offset))
	p.f.EnableVertexAttribArray(loc)
}

func (p *Pipeline) bindDescriptors(bindings []uint32) {
	for _, b := range bindings {
		if index, ok := p.uniformBlocks[b]; ok {
			p.f.UniformBlockBinding(p.program, index, b)
			continue
		}
		if loc, ok := p.samplers[b]; ok {
			p.f.Uniform1i(loc, int32(b))
		}
	}
}

func (p *Pipeline) drawIndexed(count, offset uint32) {
	p.f.DrawElements(p.primitive, int32(count), gl.UNSIGNED_INT, int(offset))
}

func (p *Pipeline) drawIndexedInstanced(count, offset, instances uint32) {
	p.f.DrawElementsInstanced(p.primitive, int32(count), gl.UNSIGNED_INT, int(offset), int32(instances))
}

func (p *Pipeline) InvalidateBindings() {
	clear(p.boundVertex)
	p.boundIndex = nil
}

func (p *Pipeline) Release() {
	if p.released {
		return
	}
	p.f.DeleteVertexArray(p.vao)
	p.f.DeleteProgram(p.program)
	p.released = true
}
