package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/rx-engine/engine/renderer/metadata"
)

// Resource is the raw content of an asset file.
type Resource struct {
	Name     string
	FullPath string
	DataSize uint64
	Data     []byte
	Stage    metadata.ShaderStage
}

// Source returns the resource content as text.
func (r *Resource) Source() string {
	return string(r.Data)
}

// ShaderStageFromPath maps the GLSL file extension to its stage.
func ShaderStageFromPath(path string) (metadata.ShaderStage, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert", ".vs":
		return metadata.ShaderStageVertex, true
	case ".frag", ".fs":
		return metadata.ShaderStageFragment, true
	}
	return 0, false
}

// ShaderLoader reads GLSL source files.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string) (*Resource, error) {
	stage, ok := ShaderStageFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: unknown shader extension %q", path, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%s: empty shader source", path)
	}
	return &Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     data,
		Stage:    stage,
	}, nil
}

func (sl *ShaderLoader) Unload(*Resource) error {
	return nil
}
