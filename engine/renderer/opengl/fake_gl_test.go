package opengl

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

// call is one recorded gl.Functions invocation.
type call struct {
	name string
	args []any
}

func (c call) String() string {
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = fmt.Sprint(a)
	}
	return c.name + "(" + strings.Join(parts, ", ") + ")"
}

type fakeAttrib struct {
	name     string
	size     int32
	ty       gl.Enum
	location int32
}

// fakeGL records every call and answers queries from scripted state.
type fakeGL struct {
	calls  []call
	nextID uint32

	compileFails bool
	compileLog   string
	linkFails    bool
	linkLog      string
	attribs      []fakeAttrib
	blocks       map[string]uint32
	uniforms     map[string]gl.Uniform
	mapFails     bool
	unmapFails   bool
	pendingError gl.Enum
	// recycled buffer names are handed out again before new ones, as drivers do
	recycled []gl.Buffer

	mapped map[gl.Enum][]byte
}

var _ gl.Functions = (*fakeGL)(nil)

func newFakeGL() *fakeGL {
	return &fakeGL{
		blocks:   map[string]uint32{},
		uniforms: map[string]gl.Uniform{},
		mapped:   map[gl.Enum][]byte{},
	}
}

func (f *fakeGL) record(name string, args ...any) {
	f.calls = append(f.calls, call{name: name, args: args})
}

func (f *fakeGL) id() uint32 {
	f.nextID++
	return f.nextID
}

func (f *fakeGL) reset() {
	f.calls = nil
}

// named returns the recorded calls with the given names, in order.
func (f *fakeGL) named(names ...string) []call {
	var out []call
	for _, c := range f.calls {
		for _, n := range names {
			if c.name == n {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (f *fakeGL) count(name string) int {
	return len(f.named(name))
}

// trace renders the recorded calls as strings, for ordering assertions.
func (f *fakeGL) trace(names ...string) []string {
	calls := f.calls
	if len(names) > 0 {
		calls = f.named(names...)
	}
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

func (f *fakeGL) GetError() gl.Enum {
	e := f.pendingError
	f.pendingError = gl.NO_ERROR
	return e
}

func (f *fakeGL) CreateBuffer() gl.Buffer {
	if n := len(f.recycled); n > 0 {
		b := f.recycled[n-1]
		f.recycled = f.recycled[:n-1]
		f.record("CreateBuffer", b)
		return b
	}
	b := gl.Buffer(f.id())
	f.record("CreateBuffer", b)
	return b
}

func (f *fakeGL) DeleteBuffer(b gl.Buffer) { f.record("DeleteBuffer", b) }

func (f *fakeGL) BindBuffer(target gl.Enum, b gl.Buffer) { f.record("BindBuffer", target, b) }

func (f *fakeGL) BindBufferBase(target gl.Enum, index uint32, b gl.Buffer) {
	f.record("BindBufferBase", target, index, b)
}

func (f *fakeGL) BufferData(target gl.Enum, size int, usage gl.Enum, data []byte) {
	f.record("BufferData", target, size, usage)
}

func (f *fakeGL) MapBufferRange(target gl.Enum, offset, length int, access gl.Enum) []byte {
	f.record("MapBufferRange", target, offset, length, access)
	if f.mapFails {
		return nil
	}
	data := make([]byte, length)
	f.mapped[target] = data
	return data
}

func (f *fakeGL) FlushMappedBufferRange(target gl.Enum, offset, length int) {
	f.record("FlushMappedBufferRange", target, offset, length)
}

func (f *fakeGL) UnmapBuffer(target gl.Enum) bool {
	f.record("UnmapBuffer", target)
	return !f.unmapFails
}

func (f *fakeGL) CreateVertexArray() gl.VertexArray {
	a := gl.VertexArray(f.id())
	f.record("CreateVertexArray", a)
	return a
}

func (f *fakeGL) DeleteVertexArray(a gl.VertexArray) { f.record("DeleteVertexArray", a) }

func (f *fakeGL) BindVertexArray(a gl.VertexArray) { f.record("BindVertexArray", a) }

func (f *fakeGL) VertexAttribPointer(dst gl.Attrib, size int32, ty gl.Enum, normalized bool, stride int32, offset int) {
	f.record("VertexAttribPointer", dst, size, ty, normalized, stride, offset)
}

func (f *fakeGL) EnableVertexAttribArray(a gl.Attrib) { f.record("EnableVertexAttribArray", a) }

func (f *fakeGL) VertexAttribDivisor(a gl.Attrib, divisor uint32) {
	f.record("VertexAttribDivisor", a, divisor)
}

func (f *fakeGL) CreateShader(ty gl.Enum) gl.Shader {
	s := gl.Shader(f.id())
	f.record("CreateShader", ty)
	return s
}

func (f *fakeGL) ShaderSource(s gl.Shader, src string) { f.record("ShaderSource", s) }

func (f *fakeGL) CompileShader(s gl.Shader) { f.record("CompileShader", s) }

func (f *fakeGL) GetShaderi(s gl.Shader, pname gl.Enum) int32 {
	if pname == gl.COMPILE_STATUS && f.compileFails {
		return gl.FALSE
	}
	return gl.TRUE
}

func (f *fakeGL) GetShaderInfoLog(s gl.Shader) string { return f.compileLog }

func (f *fakeGL) DeleteShader(s gl.Shader) { f.record("DeleteShader", s) }

func (f *fakeGL) CreateProgram() gl.Program {
	p := gl.Program(f.id())
	f.record("CreateProgram", p)
	return p
}

func (f *fakeGL) AttachShader(p gl.Program, s gl.Shader) { f.record("AttachShader", p, s) }

func (f *fakeGL) DetachShader(p gl.Program, s gl.Shader) { f.record("DetachShader", p, s) }

func (f *fakeGL) LinkProgram(p gl.Program) { f.record("LinkProgram", p) }

func (f *fakeGL) GetProgrami(p gl.Program, pname gl.Enum) int32 {
	switch pname {
	case gl.LINK_STATUS:
		if f.linkFails {
			return gl.FALSE
		}
		return gl.TRUE
	case gl.ACTIVE_ATTRIBUTES:
		return int32(len(f.attribs))
	}
	return 0
}

func (f *fakeGL) GetProgramInfoLog(p gl.Program) string { return f.linkLog }

func (f *fakeGL) DeleteProgram(p gl.Program) { f.record("DeleteProgram", p) }

func (f *fakeGL) UseProgram(p gl.Program) { f.record("UseProgram", p) }

func (f *fakeGL) GetActiveAttrib(p gl.Program, index uint32) (string, int32, gl.Enum) {
	a := f.attribs[index]
	return a.name, a.size, a.ty
}

func (f *fakeGL) GetAttribLocation(p gl.Program, name string) int32 {
	for _, a := range f.attribs {
		if a.name == name {
			return a.location
		}
	}
	return -1
}

func (f *fakeGL) GetUniformBlockIndex(p gl.Program, name string) uint32 {
	if idx, ok := f.blocks[name]; ok {
		return idx
	}
	return gl.INVALID_INDEX
}

func (f *fakeGL) UniformBlockBinding(p gl.Program, blockIndex, binding uint32) {
	f.record("UniformBlockBinding", p, blockIndex, binding)
}

func (f *fakeGL) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	if loc, ok := f.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (f *fakeGL) Uniform1i(u gl.Uniform, v int32) { f.record("Uniform1i", u, v) }

func (f *fakeGL) CreateTexture() gl.Texture {
	t := gl.Texture(f.id())
	f.record("CreateTexture", t)
	return t
}

func (f *fakeGL) DeleteTexture(t gl.Texture) { f.record("DeleteTexture", t) }

func (f *fakeGL) ActiveTexture(unit gl.Enum) { f.record("ActiveTexture", unit) }

func (f *fakeGL) BindTexture(target gl.Enum, t gl.Texture) { f.record("BindTexture", target, t) }

func (f *fakeGL) TexParameteri(target, pname gl.Enum, param int32) {
	f.record("TexParameteri", target, pname, param)
}

func (f *fakeGL) TexImage2D(target gl.Enum, level int32, internalFormat int32, width, height int32, format, ty gl.Enum, pixels []byte) {
	f.record("TexImage2D", target, level, internalFormat, width, height, format, ty, len(pixels))
}

func (f *fakeGL) Enable(capability gl.Enum) { f.record("Enable", capability) }

func (f *fakeGL) Disable(capability gl.Enum) { f.record("Disable", capability) }

func (f *fakeGL) CullFace(mode gl.Enum) { f.record("CullFace", mode) }

func (f *fakeGL) ClearColor(r, g, b, a float32) { f.record("ClearColor", r, g, b, a) }

func (f *fakeGL) Clear(mask gl.Enum) { f.record("Clear", mask) }

func (f *fakeGL) Viewport(x, y, width, height int32) { f.record("Viewport", x, y, width, height) }

func (f *fakeGL) DrawElements(mode gl.Enum, count int32, ty gl.Enum, offset int) {
	f.record("DrawElements", mode, count, ty, offset)
}

func (f *fakeGL) DrawElementsInstanced(mode gl.Enum, count int32, ty gl.Enum, offset int, instances int32) {
	f.record("DrawElementsInstanced", mode, count, ty, offset, instances)
}
