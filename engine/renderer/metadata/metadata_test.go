package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataTypeLayout(t *testing.T) {
	assert.Equal(t, int32(2), DataTypeVec2f32.Components())
	assert.Equal(t, int32(3), DataTypeVec3f32.Components())
	assert.Equal(t, int32(4), DataTypeMat4f32.Components())

	assert.Equal(t, uint32(1), DataTypeVec3f32.Locations())
	assert.Equal(t, uint32(4), DataTypeMat4f32.Locations())

	assert.Equal(t, uint32(12), DataTypeVec3f32.Size())
	assert.Equal(t, uint32(64), DataTypeMat4f32.Size())
}

func TestImageKindSize(t *testing.T) {
	assert.Equal(t, uint32(16*8*4), ImageKind2D(16, 8, 0).Size())
	assert.Equal(t, uint32(32*4), ImageKind1D(32, 0).Size())
	assert.Equal(t, uint32(2*2*2*4), ImageKind3D(2, 2, 2).Size())
}
