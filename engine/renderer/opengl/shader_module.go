package opengl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/gl"
)

// ShaderModule is one compiled shader stage, ready to be linked into a pipeline.
type ShaderModule struct {
	f        gl.Functions
	id       gl.Shader
	stage    metadata.ShaderStage
	name     string
	released bool
}

func shaderType(stage metadata.ShaderStage) gl.Enum {
	if stage == metadata.ShaderStageVertex {
		return gl.VERTEX_SHADER
	}
	return gl.FRAGMENT_SHADER
}

func newShaderModule(f gl.Functions, desc metadata.ShaderModDescriptor) (*ShaderModule, error) {
	if strings.TrimSpace(desc.Source) == "" {
		return nil, fmt.Errorf("%w: empty %s shader source %q", core.ErrInvalidDescriptor, desc.Stage, desc.Name)
	}
	sh := f.CreateShader(shaderType(desc.Stage))
	if sh == 0 {
		return nil, errors.New("glCreateShader failed")
	}
	f.ShaderSource(sh, desc.Source)
	f.CompileShader(sh)
	if f.GetShaderi(sh, gl.COMPILE_STATUS) == gl.FALSE {
		log := gl.TrimLog(f.GetShaderInfoLog(sh))
		f.DeleteShader(sh)
		return nil, &core.ShaderError{Stage: desc.Stage.String(), Log: log}
	}
	return &ShaderModule{f: f, id: sh, stage: desc.Stage, name: desc.Name}, nil
}

func (s *ShaderModule) Stage() metadata.ShaderStage {
	return s.stage
}

func (s *ShaderModule) Release() {
	if s.released {
		return
	}
	s.f.DeleteShader(s.id)
	s.released = true
}
