package renderer

import (
	"encoding/binary"

	"github.com/spaghettifunk/rx-engine/engine/math"
)

// Vertex is the per-vertex layout of binding 0: a position followed by a
// colour, 24 bytes.
type Vertex struct {
	Position math.Vec3
	Color    math.Vec3
}

const (
	mat4Size       = 64
	vertexStride   = 24
	instanceStride = mat4Size
	cameraSize     = 2 * mat4Size
	indexSize      = 4
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m Mesh) vertexBytes() []byte {
	out := make([]byte, 0, len(m.Vertices)*vertexStride)
	for _, v := range m.Vertices {
		out, _ = binary.Append(out, binary.NativeEndian, v)
	}
	return out
}

func (m Mesh) indexBytes() []byte {
	out := make([]byte, 0, len(m.Indices)*indexSize)
	out, _ = binary.Append(out, binary.NativeEndian, m.Indices)
	return out
}

// NewCubeMesh returns a cube of the given edge length centred on the origin,
// with counter-clockwise front faces and one colour per corner.
func NewCubeMesh(size float32) Mesh {
	h := size / 2
	corner := func(x, y, z float32) Vertex {
		return Vertex{
			Position: math.NewVec3(x*h, y*h, z*h),
			Color:    math.NewVec3((x+1)/2, (y+1)/2, (z+1)/2),
		}
	}
	return Mesh{
		Vertices: []Vertex{
			corner(-1, -1, -1), corner(1, -1, -1), corner(1, 1, -1), corner(-1, 1, -1),
			corner(-1, -1, 1), corner(1, -1, 1), corner(1, 1, 1), corner(-1, 1, 1),
		},
		Indices: []uint32{
			4, 5, 6, 6, 7, 4, // front
			1, 0, 3, 3, 2, 1, // back
			0, 4, 7, 7, 3, 0, // left
			5, 1, 2, 2, 6, 5, // right
			7, 6, 2, 2, 3, 7, // top
			0, 1, 5, 5, 4, 0, // bottom
		},
	}
}
