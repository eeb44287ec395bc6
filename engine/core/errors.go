package core

import (
	"errors"
	"fmt"
)

var (
	// Recording errors.
	ErrNoPipeline            = errors.New("no pipeline prepared in command buffer")
	ErrCommandBufferExecuted = errors.New("command buffer already executed")

	// Memory binding errors.
	ErrMemoryUnbound       = errors.New("memory is not bound to any resource")
	ErrMemoryAlreadyBound  = errors.New("memory is already bound")
	ErrImageMemoryMapping  = errors.New("mapping image memory is not supported")
	ErrMemoryNotMapped     = errors.New("memory is not mapped")
	ErrMemoryAlreadyMapped = errors.New("memory is already mapped")
	ErrInsufficientMemory  = errors.New("memory capacity is smaller than the resource")

	// Resource creation errors.
	ErrInvalidUniformBlock  = errors.New("uniform block index is invalid")
	ErrUnknownLayoutBinding = errors.New("hint references a binding missing from the descriptor set layout")
	ErrWrongBackend         = errors.New("resource was created by a different backend")
	ErrUnsupportedImage     = errors.New("image kind not supported")
	ErrInvalidDescriptor    = errors.New("invalid descriptor")
	ErrPipelineUnavailable  = errors.New("pipeline unavailable")
	ErrResourceReleased     = errors.New("resource already released")
)

// BindingNotFoundError is returned when a vertex attribute references a
// binding for which no vertex buffer was declared.
type BindingNotFoundError struct {
	Binding uint32
}

func (e *BindingNotFoundError) Error() string {
	return fmt.Sprintf("binding not found: vertex attribute references binding %d, no vertex buffer declared for it", e.Binding)
}

// AttributeError is returned when a declared vertex attribute does not match
// the attribute the linked program exposes.
type AttributeError struct {
	Name     string
	Location uint32
	Reason   string
}

func (e *AttributeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("attribute at location %d: %s", e.Location, e.Reason)
	}
	return fmt.Sprintf("attribute %q at location %d: %s", e.Name, e.Location, e.Reason)
}

// ShaderError carries the driver info log of a failed shader compilation.
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError carries the driver info log of a failed program link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program link failed: %s", e.Log)
}

// IsPrecondition reports whether err is a programmer error, as opposed to a
// data error such as a shader that does not compile.
func IsPrecondition(err error) bool {
	if err == nil {
		return false
	}
	var se *ShaderError
	var le *LinkError
	if errors.As(err, &se) || errors.As(err, &le) {
		return false
	}
	return true
}
