package loaders

import (
	"os"
	"path/filepath"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

type ShaderLoader struct{}

// Load reads a GLSL source file.
func (sl *ShaderLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	return &metadata.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     metadata.ResourceTypeShader,
		DataSize: uint64(len(data)),
		Data:     string(data),
	}, nil
}

func (sl *ShaderLoader) Unload(r *metadata.Resource) error {
	r.Data = nil
	return nil
}
