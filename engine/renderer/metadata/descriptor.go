package metadata

type DescriptorType uint8

const (
	DescriptorTypeUniformBuffer DescriptorType = iota
	DescriptorTypeSampler
)

func (d DescriptorType) String() string {
	if d == DescriptorTypeSampler {
		return "sampler"
	}
	return "uniform_buffer"
}

type DescriptorSetLayoutBinding struct {
	Binding uint32
	Type    DescriptorType
}

/**
 * @brief Resolves a layout binding to a named uniform block (or sampler
 * uniform) at link time, instead of assuming the binding number is the
 * block index.
 */
type PipelineLayoutHint struct {
	Location uint32
	Name     string
}
