package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

func TestCreateBuffer(t *testing.T) {
	tests := []struct {
		usage  metadata.Usage
		target gl.Enum
		draw   gl.Enum
	}{
		{usage: metadata.UsageVertex, target: gl.ARRAY_BUFFER, draw: gl.DYNAMIC_DRAW},
		{usage: metadata.UsageIndex, target: gl.ELEMENT_ARRAY_BUFFER, draw: gl.STATIC_DRAW},
		{usage: metadata.UsageUniform, target: gl.UNIFORM_BUFFER, draw: gl.DYNAMIC_DRAW},
	}

	for _, tt := range tests {
		t.Run(tt.usage.String(), func(t *testing.T) {
			f := newFakeGL()
			d := NewDevice(f)
			b, err := d.CreateBuffer(metadata.BufferDescriptor{Size: 48, Usage: tt.usage})
			require.NoError(t, err)

			assert.Equal(t, uint32(48), b.Size())
			assert.Equal(t, tt.usage, b.Usage())
			data := f.named("BufferData")
			require.Len(t, data, 1)
			assert.Equal(t, []any{tt.target, 48, tt.draw}, data[0].args)
		})
	}
}

func TestCreateBufferErrors(t *testing.T) {
	f := newFakeGL()
	d := NewDevice(f)

	_, err := d.CreateBuffer(metadata.BufferDescriptor{Size: 0, Usage: metadata.UsageVertex})
	assert.ErrorIs(t, err, core.ErrInvalidDescriptor)
	_, err = d.CreateBuffer(metadata.BufferDescriptor{Size: 4, Usage: metadata.Usage(9)})
	assert.ErrorIs(t, err, core.ErrInvalidDescriptor)
	assert.Zero(t, f.count("CreateBuffer"))

	f.pendingError = 0x0505
	_, err = d.CreateBuffer(metadata.BufferDescriptor{Size: 1 << 30, Usage: metadata.UsageVertex})
	assert.ErrorContains(t, err, "0x505")
	assert.Equal(t, 1, f.count("DeleteBuffer"))
}

func TestBufferReleaseIsIdempotent(t *testing.T) {
	f := newFakeGL()
	d := NewDevice(f)
	b, err := d.CreateBuffer(metadata.BufferDescriptor{Size: 4, Usage: metadata.UsageVertex})
	require.NoError(t, err)

	b.Release()
	b.Release()
	assert.Equal(t, 1, f.count("DeleteBuffer"))

	assert.ErrorIs(t, d.BindBufferMemory(d.AllocateMemory(4), b), core.ErrResourceReleased)
}

func TestCreateShaderModule(t *testing.T) {
	f := newFakeGL()
	d := NewDevice(f)

	s, err := d.CreateShaderModule(metadata.ShaderModDescriptor{Stage: metadata.ShaderStageFragment, Source: "void main() {}"})
	require.NoError(t, err)
	assert.Equal(t, metadata.ShaderStageFragment, s.Stage())
	assert.Equal(t, []any{gl.Enum(gl.FRAGMENT_SHADER)}, f.named("CreateShader")[0].args)

	_, err = d.CreateShaderModule(metadata.ShaderModDescriptor{Stage: metadata.ShaderStageVertex, Source: "  \n"})
	assert.ErrorIs(t, err, core.ErrInvalidDescriptor)

	f.compileFails = true
	f.compileLog = "0:3(1): error: syntax error, unexpected '}'\n"
	f.reset()
	_, err = d.CreateShaderModule(metadata.ShaderModDescriptor{Stage: metadata.ShaderStageVertex, Source: "void main() {"})
	var se *core.ShaderError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "0:3(1): error: syntax error, unexpected '}'", se.Log)
	assert.Equal(t, metadata.ShaderStageVertex.String(), se.Stage)
	assert.Equal(t, 1, f.count("DeleteShader"))
}

func TestCreateImage(t *testing.T) {
	f := newFakeGL()
	d := NewDevice(f)

	_, err := d.CreateImage(metadata.ImageKind1D(16, 0))
	assert.ErrorIs(t, err, core.ErrUnsupportedImage)
	_, err = d.CreateImage(metadata.ImageKind3D(4, 4, 4))
	assert.ErrorIs(t, err, core.ErrUnsupportedImage)
	_, err = d.CreateImage(metadata.ImageKind2D(0, 4, 0))
	assert.ErrorIs(t, err, core.ErrInvalidDescriptor)
	assert.Zero(t, f.count("CreateTexture"))

	img, err := d.CreateImage(metadata.ImageKind2D(8, 4, 0))
	require.NoError(t, err)
	assert.Equal(t, uint32(8), img.Kind().Width)
	tex := f.named("TexImage2D")
	require.Len(t, tex, 1)
	assert.Equal(t, []any{gl.Enum(gl.TEXTURE_2D), int32(0), int32(gl.RGBA8), int32(8), int32(4), gl.Enum(gl.RGBA), gl.Enum(gl.UNSIGNED_BYTE), 0}, tex[0].args)
}

func TestWriteImage(t *testing.T) {
	f := newFakeGL()
	d := NewDevice(f)
	img, err := d.CreateImage(metadata.ImageKind2D(2, 2, 0))
	require.NoError(t, err)
	pixels := make([]byte, 16)

	assert.ErrorIs(t, d.WriteImage(img, pixels), core.ErrMemoryUnbound)

	require.NoError(t, d.BindImageMemory(d.AllocateMemory(16), img))
	assert.ErrorIs(t, d.WriteImage(img, pixels[:15]), core.ErrInvalidDescriptor)

	f.reset()
	require.NoError(t, d.WriteImage(img, pixels))
	tex := f.named("TexImage2D")
	require.Len(t, tex, 1)
	assert.Equal(t, 16, tex[0].args[7])

	img.Release()
	img.Release()
	assert.Equal(t, 1, f.count("DeleteTexture"))
	assert.ErrorIs(t, d.WriteImage(img, pixels), core.ErrResourceReleased)
}

func TestDescriptorSetLayouts(t *testing.T) {
	d := NewDevice(newFakeGL())

	_, err := d.CreateDescriptorSetLayout([]metadata.DescriptorSetLayoutBinding{
		{Binding: 1, Type: metadata.DescriptorTypeUniformBuffer},
		{Binding: 1, Type: metadata.DescriptorTypeSampler},
	})
	assert.ErrorIs(t, err, core.ErrInvalidDescriptor)

	dsl, err := d.CreateDescriptorSetLayout([]metadata.DescriptorSetLayoutBinding{
		{Binding: 4, Type: metadata.DescriptorTypeSampler},
		{Binding: 0, Type: metadata.DescriptorTypeUniformBuffer},
		{Binding: 2, Type: metadata.DescriptorTypeUniformBuffer},
	})
	require.NoError(t, err)
	assert.Len(t, dsl.Bindings(), 3)

	pl, err := d.CreatePipelineLayout(dsl, []metadata.PipelineLayoutHint{{Location: 2, Name: "Lights"}})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2, 4}, pl.Bindings())

	_, err = d.CreatePipelineLayout(dsl, []metadata.PipelineLayoutHint{{Location: 3, Name: "Missing"}})
	assert.ErrorIs(t, err, core.ErrUnknownLayoutBinding)

	_, err = d.CreatePipelineLayout(nil, nil)
	assert.ErrorIs(t, err, core.ErrWrongBackend)

	set, err := d.AllocateDescriptorSet(dsl)
	require.NoError(t, err)
	assert.Same(t, dsl, set.Layout())
}

func TestWriteDescriptorSet(t *testing.T) {
	env := newTestEnv(t)
	d := env.device
	ubo := env.buffer(t, metadata.UsageUniform, 128)
	vbo := env.buffer(t, metadata.UsageVertex, 128)

	t.Run("uniform buffer", func(t *testing.T) {
		env.gl.reset()
		err := d.WriteDescriptorSet(renderer.DescriptorSetWrite{Set: env.set, Binding: 0, Descriptor: renderer.Descriptor{Buffer: ubo}})
		require.NoError(t, err)
		assert.Equal(t, []call{
			{name: "BindBufferBase", args: []any{gl.Enum(gl.UNIFORM_BUFFER), uint32(0), ubo.id}},
		}, env.gl.calls)
		assert.Same(t, ubo, env.set.buffers[0])
	})

	t.Run("invalid writes", func(t *testing.T) {
		tests := map[string]renderer.DescriptorSetWrite{
			"unknown binding":  {Set: env.set, Binding: 5, Descriptor: renderer.Descriptor{Buffer: ubo}},
			"empty descriptor": {Set: env.set, Binding: 0},
			"image to uniform": {Set: env.set, Binding: 0, Descriptor: renderer.Descriptor{Image: &Image{}}},
			"buffer and image": {Set: env.set, Binding: 0, Descriptor: renderer.Descriptor{Buffer: ubo, Image: &Image{}}},
		}
		for name, w := range tests {
			assert.ErrorIs(t, d.WriteDescriptorSet(w), core.ErrInvalidDescriptor, name)
		}
		err := d.WriteDescriptorSet(renderer.DescriptorSetWrite{Binding: 0, Descriptor: renderer.Descriptor{Buffer: vbo}})
		assert.ErrorIs(t, err, core.ErrWrongBackend)
	})

	t.Run("sampler image", func(t *testing.T) {
		dsl, err := d.CreateDescriptorSetLayout([]metadata.DescriptorSetLayoutBinding{{Binding: 2, Type: metadata.DescriptorTypeSampler}})
		require.NoError(t, err)
		set, err := d.AllocateDescriptorSet(dsl)
		require.NoError(t, err)
		img, err := d.CreateImage(metadata.ImageKind2D(1, 1, 0))
		require.NoError(t, err)
		env.gl.reset()

		require.NoError(t, d.WriteDescriptorSet(renderer.DescriptorSetWrite{Set: set, Binding: 2, Descriptor: renderer.Descriptor{Image: img}}))
		assert.Equal(t, []call{
			{name: "ActiveTexture", args: []any{gl.Enum(gl.TEXTURE0 + 2)}},
			{name: "BindTexture", args: []any{gl.Enum(gl.TEXTURE_2D), img.(*Image).id}},
		}, env.gl.calls)

		err = d.WriteDescriptorSet(renderer.DescriptorSetWrite{Set: set, Binding: 2, Descriptor: renderer.Descriptor{Buffer: ubo}})
		assert.ErrorIs(t, err, core.ErrInvalidDescriptor)
	})
}

func TestAPI(t *testing.T) {
	f := newFakeGL()
	swapped := 0
	api := NewAPI(NewDevice(f), func() { swapped++ })

	api.SetClearColor(metadata.NewColor(0.5, 0.25, 0, 1))
	api.Clear()
	api.Viewport(800, 600)
	api.SwapBuffers()

	assert.Equal(t, metadata.NewColor(0.5, 0.25, 0, 1), api.ClearColor())
	assert.Equal(t, 1, swapped)
	assert.Equal(t, []string{
		"ClearColor(0.5, 0.25, 0, 1)",
		"Clear(16640)",
		"Viewport(0, 0, 800, 600)",
	}, f.trace())

	NewAPI(NewDevice(f), nil).SwapBuffers()
}
