package opengl

import (
	"fmt"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

// Image is a 2D RGBA8 texture with linear filtering. Pixels can be written
// once memory has been bound to it.
type Image struct {
	f        gl.Functions
	id       gl.Texture
	kind     metadata.ImageKind
	memory   *Memory
	released bool
}

func newImage(f gl.Functions, kind metadata.ImageKind) (*Image, error) {
	if kind.Dimension != metadata.ImageDimension2D {
		return nil, fmt.Errorf("%w: only 2D images are backed by storage", core.ErrUnsupportedImage)
	}
	if kind.Width == 0 || kind.Height == 0 {
		return nil, fmt.Errorf("%w: image of %dx%d", core.ErrInvalidDescriptor, kind.Width, kind.Height)
	}

	i := &Image{f: f, id: f.CreateTexture(), kind: kind}
	f.BindTexture(gl.TEXTURE_2D, i.id)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	i.upload(nil)
	f.BindTexture(gl.TEXTURE_2D, 0)
	return i, nil
}

func (i *Image) Kind() metadata.ImageKind {
	return i.kind
}

func (i *Image) ID() gl.Texture {
	return i.id
}

func (i *Image) upload(pixels []byte) {
	i.f.TexImage2D(gl.TEXTURE_2D, int32(i.kind.Level), gl.RGBA8,
		int32(i.kind.Width), int32(i.kind.Height), gl.RGBA, gl.UNSIGNED_BYTE, pixels)
}

func (i *Image) write(pixels []byte) error {
	if i.released {
		return core.ErrResourceReleased
	}
	if i.memory == nil {
		return fmt.Errorf("write image: %w", core.ErrMemoryUnbound)
	}
	if size := i.kind.Size(); uint32(len(pixels)) != size {
		return fmt.Errorf("%w: image expects %d bytes, got %d", core.ErrInvalidDescriptor, size, len(pixels))
	}
	i.f.BindTexture(gl.TEXTURE_2D, i.id)
	i.upload(pixels)
	i.f.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

func (i *Image) Release() {
	if i.released {
		return
	}
	i.f.DeleteTexture(i.id)
	i.released = true
}
