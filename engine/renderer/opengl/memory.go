package opengl

import (
	"fmt"

	"github.com/spaghettifunk/rx-engine/engine/core"
)

type memoryKind uint8

const (
	memoryUnbound memoryKind = iota
	memoryBuffer
	memoryImage
)

func (k memoryKind) String() string {
	switch k {
	case memoryBuffer:
		return "buffer"
	case memoryImage:
		return "image"
	default:
		return "unbound"
	}
}

/**
 * @brief A memory allocation that gets bound to exactly one buffer or image.
 * Once bound, the binding never changes.
 */
type Memory struct {
	capacity uint32
	kind     memoryKind
	buffer   *Buffer
	image    *Image
	mapped   []byte
}

func newMemory(capacity uint32) *Memory {
	return &Memory{capacity: capacity, kind: memoryUnbound}
}

func (m *Memory) Capacity() uint32 {
	return m.capacity
}

// Mapped reports whether the memory is currently mapped.
func (m *Memory) Mapped() bool {
	return m.mapped != nil
}

func (m *Memory) bindBuffer(b *Buffer) error {
	if m.kind != memoryUnbound {
		return fmt.Errorf("%w to a %s", core.ErrMemoryAlreadyBound, m.kind)
	}
	if m.capacity < b.size {
		return fmt.Errorf("%w: capacity %d, buffer %d", core.ErrInsufficientMemory, m.capacity, b.size)
	}
	m.kind = memoryBuffer
	m.buffer = b
	return nil
}

func (m *Memory) bindImage(i *Image) error {
	if m.kind != memoryUnbound {
		return fmt.Errorf("%w to a %s", core.ErrMemoryAlreadyBound, m.kind)
	}
	if size := i.kind.Size(); m.capacity < size {
		return fmt.Errorf("%w: capacity %d, image %d", core.ErrInsufficientMemory, m.capacity, size)
	}
	m.kind = memoryImage
	m.image = i
	i.memory = m
	return nil
}

func (m *Memory) boundBuffer() (*Buffer, error) {
	switch m.kind {
	case memoryBuffer:
		return m.buffer, nil
	case memoryImage:
		return nil, core.ErrImageMemoryMapping
	default:
		return nil, core.ErrMemoryUnbound
	}
}

func (m *Memory) mapMemory() ([]byte, error) {
	b, err := m.boundBuffer()
	if err != nil {
		return nil, err
	}
	if m.mapped != nil {
		return nil, core.ErrMemoryAlreadyMapped
	}
	data, err := b.mapRange()
	if err != nil {
		return nil, err
	}
	m.mapped = data
	return data, nil
}

func (m *Memory) flush() error {
	b, err := m.boundBuffer()
	if err != nil {
		return err
	}
	if m.mapped == nil {
		return core.ErrMemoryNotMapped
	}
	b.flush()
	return nil
}

func (m *Memory) unmap() error {
	b, err := m.boundBuffer()
	if err != nil {
		return err
	}
	if m.mapped == nil {
		return core.ErrMemoryNotMapped
	}
	m.mapped = nil
	return b.unmap()
}
