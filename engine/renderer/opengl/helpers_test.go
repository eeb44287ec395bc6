package opengl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/rx-engine/engine/renderer"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

const (
	meshStride     = 24
	instanceStride = 64
)

// instancedLayout is a mesh binding (position, colour) plus a per-instance
// model matrix binding.
func instancedLayout() ([]metadata.VertexBufferDescriptor, []metadata.AttributeDescriptor) {
	vbs := []metadata.VertexBufferDescriptor{
		{Binding: 0, Stride: meshStride},
		{Binding: 1, Stride: instanceStride},
	}
	attrs := []metadata.AttributeDescriptor{
		{Binding: 0, Location: 0, Data: metadata.VertexData{Offset: 0, DataType: metadata.DataTypeVec3f32}},
		{Binding: 0, Location: 1, Data: metadata.VertexData{Offset: 12, DataType: metadata.DataTypeVec3f32}},
		{Binding: 1, Location: 2, Data: metadata.VertexData{Offset: 0, DataType: metadata.DataTypeMat4f32}},
	}
	return vbs, attrs
}

// activeAttribs scripts the fake program so it exposes exactly attrs.
func activeAttribs(attrs []metadata.AttributeDescriptor) []fakeAttrib {
	out := make([]fakeAttrib, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, fakeAttrib{
			name:     fmt.Sprintf("attr%d", a.Location),
			size:     1,
			ty:       attributeType(a.Data.DataType),
			location: int32(a.Location),
		})
	}
	return out
}

func newShaders(t *testing.T, d *Device) renderer.ShaderSet {
	t.Helper()
	vs, err := d.CreateShaderModule(metadata.ShaderModDescriptor{Stage: metadata.ShaderStageVertex, Source: "void main() {}", Name: "test.vert"})
	require.NoError(t, err)
	fs, err := d.CreateShaderModule(metadata.ShaderModDescriptor{Stage: metadata.ShaderStageFragment, Source: "void main() {}", Name: "test.frag"})
	require.NoError(t, err)
	return renderer.ShaderSet{Vertex: vs, Fragment: fs}
}

// cameraLayout declares one uniform buffer at binding 0 resolved by the
// block name "Camera".
func cameraLayout(t *testing.T, d *Device) (*DescriptorSetLayout, *PipelineLayout) {
	t.Helper()
	dsl, err := d.CreateDescriptorSetLayout([]metadata.DescriptorSetLayoutBinding{
		{Binding: 0, Type: metadata.DescriptorTypeUniformBuffer},
	})
	require.NoError(t, err)
	pl, err := d.CreatePipelineLayout(dsl, []metadata.PipelineLayoutHint{{Location: 0, Name: "Camera"}})
	require.NoError(t, err)
	return dsl.(*DescriptorSetLayout), pl.(*PipelineLayout)
}

func pipelineDescriptor(t *testing.T, d *Device, layout renderer.PipelineLayout, vbs []metadata.VertexBufferDescriptor, attrs []metadata.AttributeDescriptor) renderer.PipelineDescriptor {
	t.Helper()
	desc := renderer.NewPipelineDescriptor(metadata.PrimitiveTriangles, newShaders(t, d), layout)
	for _, vb := range vbs {
		desc.PushVertexBuffer(vb)
	}
	for _, a := range attrs {
		desc.PushAttribute(a)
	}
	return *desc
}

type testEnv struct {
	gl       *fakeGL
	device   *Device
	dsl      *DescriptorSetLayout
	layout   *PipelineLayout
	set      *DescriptorSet
	pipeline *Pipeline
}

// newTestEnv builds the instanced pipeline against a fresh fake context and
// clears the call log.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	f := newFakeGL()
	f.blocks["Camera"] = 3
	d := NewDevice(f)
	vbs, attrs := instancedLayout()
	f.attribs = activeAttribs(attrs)

	dsl, pl := cameraLayout(t, d)
	p, err := d.CreatePipeline(pipelineDescriptor(t, d, pl, vbs, attrs))
	require.NoError(t, err)
	set, err := d.AllocateDescriptorSet(dsl)
	require.NoError(t, err)

	f.reset()
	return &testEnv{
		gl:       f,
		device:   d,
		dsl:      dsl,
		layout:   pl,
		set:      set.(*DescriptorSet),
		pipeline: p.(*Pipeline),
	}
}

func (e *testEnv) buffer(t *testing.T, usage metadata.Usage, size uint32) *Buffer {
	t.Helper()
	b, err := e.device.CreateBuffer(metadata.BufferDescriptor{Size: size, Usage: usage})
	require.NoError(t, err)
	return b.(*Buffer)
}

func bindBufferCall(target gl.Enum, b *Buffer) string {
	return call{name: "BindBuffer", args: []any{target, b.id}}.String()
}
