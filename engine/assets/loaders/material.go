package loaders

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

// MaterialExtension is the suffix of material files.
const MaterialExtension string = ".material.toml"

type MaterialLoader struct{}

// Load parses a TOML material file into a metadata.MaterialConfig.
func (ml *MaterialLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	cfg, err := ParseMaterial(data)
	if err != nil {
		err = fmt.Errorf("material %s: %w", path, err)
		core.LogError("%s", err)
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), MaterialExtension)
	}
	return &metadata.Resource{
		Name:     cfg.Name,
		FullPath: path,
		Type:     metadata.ResourceTypeMaterial,
		DataSize: uint64(len(data)),
		Data:     cfg,
	}, nil
}

func (ml *MaterialLoader) Unload(r *metadata.Resource) error {
	r.Data = nil
	return nil
}

// ParseMaterial decodes a material config. Unknown keys are rejected.
func ParseMaterial(data []byte) (*metadata.MaterialConfig, error) {
	cfg := &metadata.MaterialConfig{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
