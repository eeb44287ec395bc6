package gl

type (
	Enum        uint32
	Attrib      uint32
	Buffer      uint32
	Program     uint32
	Shader      uint32
	Texture     uint32
	VertexArray uint32
	Uniform     int32
)

const (
	ACTIVE_ATTRIBUTES      = 0x8B89
	ARRAY_BUFFER           = 0x8892
	BACK                   = 0x0405
	COLOR_BUFFER_BIT       = 0x4000
	COMPILE_STATUS         = 0x8b81
	CULL_FACE              = 0x0B44
	DEPTH_BUFFER_BIT       = 0x100
	DEPTH_TEST             = 0xb71
	DYNAMIC_DRAW           = 0x88E8
	ELEMENT_ARRAY_BUFFER   = 0x8893
	FALSE                  = 0
	FLOAT                  = 0x1406
	FLOAT_MAT4             = 0x8B5C
	FLOAT_VEC2             = 0x8B50
	FLOAT_VEC3             = 0x8B51
	FLOAT_VEC4             = 0x8B52
	FRAGMENT_SHADER        = 0x8b30
	INFO_LOG_LENGTH        = 0x8B84
	LINEAR                 = 0x2601
	LINK_STATUS            = 0x8b82
	MAP_FLUSH_EXPLICIT_BIT = 0x0010
	MAP_READ_BIT           = 0x0001
	MAP_WRITE_BIT          = 0x0002
	NO_ERROR               = 0
	RGBA                   = 0x1908
	RGBA8                  = 0x8058
	STATIC_DRAW            = 0x88e4
	TEXTURE_2D             = 0xde1
	TEXTURE_MAG_FILTER     = 0x2800
	TEXTURE_MIN_FILTER     = 0x2801
	TEXTURE0               = 0x84c0
	TRIANGLE_FAN           = 0x6
	TRIANGLE_STRIP         = 0x5
	TRIANGLES              = 0x4
	TRUE                   = 1
	UNIFORM_BUFFER         = 0x8A11
	UNSIGNED_BYTE          = 0x1401
	UNSIGNED_INT           = 0x1405
	VERTEX_SHADER          = 0x8b31

	INVALID_INDEX = 0xFFFFFFFF
)

// Functions is the subset of the OpenGL 3.3 core API the backend issues. It
// is implemented against the driver by the native package; every call is
// expected on the goroutine owning the context.
type Functions interface {
	GetError() Enum

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Enum, b Buffer)
	BindBufferBase(target Enum, index uint32, b Buffer)
	// BufferData allocates size bytes for the bound buffer. A nil data leaves
	// the contents undefined.
	BufferData(target Enum, size int, usage Enum, data []byte)
	// MapBufferRange returns nil when the driver refuses the mapping.
	MapBufferRange(target Enum, offset, length int, access Enum) []byte
	FlushMappedBufferRange(target Enum, offset, length int)
	UnmapBuffer(target Enum) bool

	CreateVertexArray() VertexArray
	DeleteVertexArray(a VertexArray)
	BindVertexArray(a VertexArray)
	VertexAttribPointer(dst Attrib, size int32, ty Enum, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(a Attrib)
	VertexAttribDivisor(a Attrib, divisor uint32)

	CreateShader(ty Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int32
	GetShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int32
	GetProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)
	// GetActiveAttrib returns the name, array size and type of the active
	// attribute at index.
	GetActiveAttrib(p Program, index uint32) (name string, size int32, ty Enum)
	GetAttribLocation(p Program, name string) int32
	GetUniformBlockIndex(p Program, name string) uint32
	UniformBlockBinding(p Program, blockIndex, binding uint32)
	GetUniformLocation(p Program, name string) Uniform
	Uniform1i(u Uniform, v int32)

	CreateTexture() Texture
	DeleteTexture(t Texture)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexParameteri(target, pname Enum, param int32)
	TexImage2D(target Enum, level int32, internalFormat int32, width, height int32, format, ty Enum, pixels []byte)

	Enable(capability Enum)
	Disable(capability Enum)
	CullFace(mode Enum)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Viewport(x, y, width, height int32)
	DrawElements(mode Enum, count int32, ty Enum, offset int)
	DrawElementsInstanced(mode Enum, count int32, ty Enum, offset int, instances int32)
}
