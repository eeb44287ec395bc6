// Package native binds the backend's gl.Functions to the system OpenGL 3.3
// core driver through cgo. A context must be current on the calling thread.
package native

import (
	"fmt"
	"strings"
	"unsafe"

	glc "github.com/go-gl/gl/v3.3-core/gl"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

type Functions struct{}

var _ gl.Functions = (*Functions)(nil)

// New loads the driver entry points for the current context.
func New() (*Functions, error) {
	if err := glc.Init(); err != nil {
		return nil, fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	core.LogInfo("OpenGL %s, GLSL %s, renderer %s",
		glc.GoStr(glc.GetString(glc.VERSION)),
		glc.GoStr(glc.GetString(glc.SHADING_LANGUAGE_VERSION)),
		glc.GoStr(glc.GetString(glc.RENDERER)))
	return &Functions{}, nil
}

func cstr(s string) *uint8 {
	return glc.Str(s + "\x00")
}

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func (f *Functions) GetError() gl.Enum {
	return gl.Enum(glc.GetError())
}

func (f *Functions) CreateBuffer() gl.Buffer {
	var b uint32
	glc.GenBuffers(1, &b)
	return gl.Buffer(b)
}

func (f *Functions) DeleteBuffer(b gl.Buffer) {
	id := uint32(b)
	glc.DeleteBuffers(1, &id)
}

func (f *Functions) BindBuffer(target gl.Enum, b gl.Buffer) {
	glc.BindBuffer(uint32(target), uint32(b))
}

func (f *Functions) BindBufferBase(target gl.Enum, index uint32, b gl.Buffer) {
	glc.BindBufferBase(uint32(target), index, uint32(b))
}

func (f *Functions) BufferData(target gl.Enum, size int, usage gl.Enum, data []byte) {
	glc.BufferData(uint32(target), size, ptr(data), uint32(usage))
}

func (f *Functions) MapBufferRange(target gl.Enum, offset, length int, access gl.Enum) []byte {
	p := glc.MapBufferRange(uint32(target), offset, length, uint32(access))
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), length)
}

func (f *Functions) FlushMappedBufferRange(target gl.Enum, offset, length int) {
	glc.FlushMappedBufferRange(uint32(target), offset, length)
}

func (f *Functions) UnmapBuffer(target gl.Enum) bool {
	return glc.UnmapBuffer(uint32(target))
}

func (f *Functions) CreateVertexArray() gl.VertexArray {
	var a uint32
	glc.GenVertexArrays(1, &a)
	return gl.VertexArray(a)
}

func (f *Functions) DeleteVertexArray(a gl.VertexArray) {
	id := uint32(a)
	glc.DeleteVertexArrays(1, &id)
}

func (f *Functions) BindVertexArray(a gl.VertexArray) {
	glc.BindVertexArray(uint32(a))
}

func (f *Functions) VertexAttribPointer(dst gl.Attrib, size int32, ty gl.Enum, normalized bool, stride int32, offset int) {
	glc.VertexAttribPointer(uint32(dst), size, uint32(ty), normalized, stride, glc.PtrOffset(offset))
}

func (f *Functions) EnableVertexAttribArray(a gl.Attrib) {
	glc.EnableVertexAttribArray(uint32(a))
}

func (f *Functions) VertexAttribDivisor(a gl.Attrib, divisor uint32) {
	glc.VertexAttribDivisor(uint32(a), divisor)
}

func (f *Functions) CreateShader(ty gl.Enum) gl.Shader {
	return gl.Shader(glc.CreateShader(uint32(ty)))
}

func (f *Functions) ShaderSource(s gl.Shader, src string) {
	csources, free := glc.Strs(src + "\x00")
	glc.ShaderSource(uint32(s), 1, csources, nil)
	free()
}

func (f *Functions) CompileShader(s gl.Shader) {
	glc.CompileShader(uint32(s))
}

func (f *Functions) GetShaderi(s gl.Shader, pname gl.Enum) int32 {
	var v int32
	glc.GetShaderiv(uint32(s), uint32(pname), &v)
	return v
}

func (f *Functions) GetShaderInfoLog(s gl.Shader) string {
	n := f.GetShaderi(s, gl.INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	glc.GetShaderInfoLog(uint32(s), n, nil, glc.Str(log))
	return log
}

func (f *Functions) DeleteShader(s gl.Shader) {
	glc.DeleteShader(uint32(s))
}

func (f *Functions) CreateProgram() gl.Program {
	return gl.Program(glc.CreateProgram())
}

func (f *Functions) AttachShader(p gl.Program, s gl.Shader) {
	glc.AttachShader(uint32(p), uint32(s))
}

func (f *Functions) DetachShader(p gl.Program, s gl.Shader) {
	glc.DetachShader(uint32(p), uint32(s))
}

func (f *Functions) LinkProgram(p gl.Program) {
	glc.LinkProgram(uint32(p))
}

func (f *Functions) GetProgrami(p gl.Program, pname gl.Enum) int32 {
	var v int32
	glc.GetProgramiv(uint32(p), uint32(pname), &v)
	return v
}

func (f *Functions) GetProgramInfoLog(p gl.Program) string {
	n := f.GetProgrami(p, gl.INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	glc.GetProgramInfoLog(uint32(p), n, nil, glc.Str(log))
	return log
}

func (f *Functions) DeleteProgram(p gl.Program) {
	glc.DeleteProgram(uint32(p))
}

func (f *Functions) UseProgram(p gl.Program) {
	glc.UseProgram(uint32(p))
}

func (f *Functions) GetActiveAttrib(p gl.Program, index uint32) (string, int32, gl.Enum) {
	var maxLen int32
	glc.GetProgramiv(uint32(p), glc.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLen)
	if maxLen == 0 {
		maxLen = 256
	}
	buf := make([]uint8, maxLen)
	var length, size int32
	var ty uint32
	glc.GetActiveAttrib(uint32(p), index, maxLen, &length, &size, &ty, &buf[0])
	return string(buf[:length]), size, gl.Enum(ty)
}

func (f *Functions) GetAttribLocation(p gl.Program, name string) int32 {
	return glc.GetAttribLocation(uint32(p), cstr(name))
}

func (f *Functions) GetUniformBlockIndex(p gl.Program, name string) uint32 {
	return glc.GetUniformBlockIndex(uint32(p), cstr(name))
}

func (f *Functions) UniformBlockBinding(p gl.Program, blockIndex, binding uint32) {
	glc.UniformBlockBinding(uint32(p), blockIndex, binding)
}

func (f *Functions) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	return gl.Uniform(glc.GetUniformLocation(uint32(p), cstr(name)))
}

func (f *Functions) Uniform1i(u gl.Uniform, v int32) {
	glc.Uniform1i(int32(u), v)
}

func (f *Functions) CreateTexture() gl.Texture {
	var t uint32
	glc.GenTextures(1, &t)
	return gl.Texture(t)
}

func (f *Functions) DeleteTexture(t gl.Texture) {
	id := uint32(t)
	glc.DeleteTextures(1, &id)
}

func (f *Functions) ActiveTexture(unit gl.Enum) {
	glc.ActiveTexture(uint32(unit))
}

func (f *Functions) BindTexture(target gl.Enum, t gl.Texture) {
	glc.BindTexture(uint32(target), uint32(t))
}

func (f *Functions) TexParameteri(target, pname gl.Enum, param int32) {
	glc.TexParameteri(uint32(target), uint32(pname), param)
}

func (f *Functions) TexImage2D(target gl.Enum, level int32, internalFormat int32, width, height int32, format, ty gl.Enum, pixels []byte) {
	glc.TexImage2D(uint32(target), level, internalFormat, width, height, 0, uint32(format), uint32(ty), ptr(pixels))
}

func (f *Functions) Enable(capability gl.Enum) {
	glc.Enable(uint32(capability))
}

func (f *Functions) Disable(capability gl.Enum) {
	glc.Disable(uint32(capability))
}

func (f *Functions) CullFace(mode gl.Enum) {
	glc.CullFace(uint32(mode))
}

func (f *Functions) ClearColor(r, g, b, a float32) {
	glc.ClearColor(r, g, b, a)
}

func (f *Functions) Clear(mask gl.Enum) {
	glc.Clear(uint32(mask))
}

func (f *Functions) Viewport(x, y, width, height int32) {
	glc.Viewport(x, y, width, height)
}

func (f *Functions) DrawElements(mode gl.Enum, count int32, ty gl.Enum, offset int) {
	glc.DrawElements(uint32(mode), count, uint32(ty), glc.PtrOffset(offset))
}

func (f *Functions) DrawElementsInstanced(mode gl.Enum, count int32, ty gl.Enum, offset int, instances int32) {
	glc.DrawElementsInstanced(uint32(mode), count, uint32(ty), glc.PtrOffset(offset), instances)
}
