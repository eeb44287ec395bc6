package opengl

import (
	"fmt"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

/**
 * @brief A GL buffer object. Its storage is allocated at creation and only
 * becomes writable through a Memory bound to it.
 */
type Buffer struct {
	f        gl.Functions
	id       gl.Buffer
	target   gl.Enum
	usage    metadata.Usage
	size     uint32
	released bool
}

func bufferTarget(usage metadata.Usage) gl.Enum {
	switch usage {
	case metadata.UsageIndex:
		return gl.ELEMENT_ARRAY_BUFFER
	case metadata.UsageUniform:
		return gl.UNIFORM_BUFFER
	default:
		return gl.ARRAY_BUFFER
	}
}

func newBuffer(f gl.Functions, desc metadata.BufferDescriptor) (*Buffer, error) {
	if desc.Size == 0 {
		return nil, fmt.Errorf("%w: %s buffer with zero size", core.ErrInvalidDescriptor, desc.Usage)
	}
	if desc.Usage > metadata.UsageUniform {
		return nil, fmt.Errorf("%w: unknown buffer usage %s", core.ErrInvalidDescriptor, desc.Usage)
	}

	b := &Buffer{
		f:      f,
		id:     f.CreateBuffer(),
		target: bufferTarget(desc.Usage),
		usage:  desc.Usage,
		size:   desc.Size,
	}
	drawUsage := gl.Enum(gl.DYNAMIC_DRAW)
	if desc.Usage == metadata.UsageIndex {
		drawUsage = gl.STATIC_DRAW
	}
	b.bind()
	f.BufferData(b.target, int(b.size), drawUsage, nil)
	return b, nil
}

func (b *Buffer) Size() uint32 {
	return b.size
}

func (b *Buffer) Usage() metadata.Usage {
	return b.usage
}

func (b *Buffer) ID() gl.Buffer {
	return b.id
}

func (b *Buffer) bind() {
	if b.target == gl.ELEMENT_ARRAY_BUFFER {
		// the element array binding is vertex array state
		b.f.BindVertexArray(0)
	}
	b.f.BindBuffer(b.target, b.id)
}

func (b *Buffer) mapRange() ([]byte, error) {
	if b.released {
		return nil, core.ErrResourceReleased
	}
	b.bind()
	data := b.f.MapBufferRange(b.target, 0, int(b.size), gl.MAP_READ_BIT|gl.MAP_WRITE_BIT|gl.MAP_FLUSH_EXPLICIT_BIT)
	if data == nil {
		return nil, fmt.Errorf("mapping %s buffer %d failed", b.usage, b.id)
	}
	return data, nil
}

func (b *Buffer) flush() {
	b.bind()
	b.f.FlushMappedBufferRange(b.target, 0, int(b.size))
}

func (b *Buffer) unmap() error {
	b.bind()
	if !b.f.UnmapBuffer(b.target) {
		return fmt.Errorf("%s buffer %d contents were lost while mapped", b.usage, b.id)
	}
	return nil
}

// Release deletes the GL buffer. A pipeline that cached this handle rebinds
// when a different buffer is bound, even one reusing the same GL name.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.f.DeleteBuffer(b.id)
	b.released = true
}
