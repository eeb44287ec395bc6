package metadata

import "fmt"

// Usage declares what a buffer is going to be bound as.
type Usage uint8

const (
	UsageVertex Usage = iota
	UsageIndex
	UsageUniform
)

func (u Usage) String() string {
	switch u {
	case UsageVertex:
		return "vertex"
	case UsageIndex:
		return "index"
	case UsageUniform:
		return "uniform"
	default:
		return fmt.Sprintf("usage(%d)", uint8(u))
	}
}

// BufferDescriptor declares the intent for a buffer. Backing storage is
// allocated by the device.
type BufferDescriptor struct {
	Size  uint32
	Usage Usage
}
