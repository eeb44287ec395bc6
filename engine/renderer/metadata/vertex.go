package metadata

import "fmt"

/** @brief The primitive topology a pipeline draws with. */
type Primitive uint8

const (
	PrimitiveTriangles Primitive = iota
	PrimitiveTriangleFan
	PrimitiveTriangleStrip
	// PrimitiveQuads has no native support in the GL core profile.
	PrimitiveQuads
)

func (p Primitive) String() string {
	switch p {
	case PrimitiveTriangles:
		return "triangles"
	case PrimitiveTriangleFan:
		return "triangle_fan"
	case PrimitiveTriangleStrip:
		return "triangle_strip"
	case PrimitiveQuads:
		return "quads"
	default:
		return fmt.Sprintf("primitive(%d)", uint8(p))
	}
}

/** @brief The element type of a vertex attribute. */
type DataType uint8

const (
	DataTypeVec2f32 DataType = iota
	DataTypeVec3f32
	DataTypeMat4f32
)

// Components returns the number of floats per attribute location.
func (d DataType) Components() int32 {
	switch d {
	case DataTypeVec2f32:
		return 2
	case DataTypeVec3f32:
		return 3
	default:
		return 4
	}
}

// Locations returns the number of consecutive attribute locations the type occupies.
func (d DataType) Locations() uint32 {
	if d == DataTypeMat4f32 {
		return 4
	}
	return 1
}

// Size returns the size in bytes of one element.
func (d DataType) Size() uint32 {
	return uint32(d.Components()) * d.Locations() * 4
}

func (d DataType) String() string {
	switch d {
	case DataTypeVec2f32:
		return "vec2"
	case DataTypeVec3f32:
		return "vec3"
	case DataTypeMat4f32:
		return "mat4"
	default:
		return fmt.Sprintf("datatype(%d)", uint8(d))
	}
}

/** @brief Where an attribute lives inside its vertex buffer. */
type VertexData struct {
	/** @brief Byte offset from the start of the vertex. */
	Offset   uint32
	DataType DataType
}

/** @brief One vertex-buffer binding slot. */
type VertexBufferDescriptor struct {
	Binding uint32
	/** @brief Bytes between two consecutive elements. */
	Stride uint32
}

/**
 * @brief A vertex attribute read from a binding. A Mat4f32 attribute takes
 * four consecutive locations starting at Location and advances per instance.
 */
type AttributeDescriptor struct {
	Binding  uint32
	Location uint32
	Data     VertexData
}
