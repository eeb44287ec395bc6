package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindingNotFoundErrorNamesBinding(t *testing.T) {
	err := fmt.Errorf("create pipeline: %w", &BindingNotFoundError{Binding: 2})

	var bnf *BindingNotFoundError
	assert.True(t, errors.As(err, &bnf))
	assert.Equal(t, uint32(2), bnf.Binding)
	assert.Contains(t, err.Error(), "binding 2")
}

func TestIsPrecondition(t *testing.T) {
	assert.False(t, IsPrecondition(nil))
	assert.True(t, IsPrecondition(ErrNoPipeline))
	assert.True(t, IsPrecondition(fmt.Errorf("map: %w", ErrMemoryUnbound)))
	assert.True(t, IsPrecondition(&AttributeError{Location: 1, Reason: "type mismatch"}))
	assert.False(t, IsPrecondition(&ShaderError{Stage: "vertex", Log: "syntax error"}))
	assert.False(t, IsPrecondition(fmt.Errorf("pipeline: %w", &LinkError{Log: "unresolved"})))
}

func TestAttributeErrorMessage(t *testing.T) {
	named := &AttributeError{Name: "model", Location: 2, Reason: "size mismatch"}
	assert.Equal(t, `attribute "model" at location 2: size mismatch`, named.Error())

	anonymous := &AttributeError{Location: 5, Reason: "not found"}
	assert.Equal(t, "attribute at location 5: not found", anonymous.Error())
}
