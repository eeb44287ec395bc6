package metadata

type ShaderStage uint8

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	if s == ShaderStageVertex {
		return "vertex"
	}
	return "fragment"
}

// ShaderModDescriptor carries raw shader source text for one stage.
type ShaderModDescriptor struct {
	Stage  ShaderStage
	Source string
	// Name is used in logs only, typically the source file name.
	Name string
}
