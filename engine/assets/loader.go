package assets

import (
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/anima-g3d/engine/assets/loaders"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

// Loader is implemented by every asset loader.
type Loader = loaders.Loader

func determineAssetType(path string) metadata.ResourceType {
	if strings.HasSuffix(path, loaders.MaterialExtension) {
		return metadata.ResourceTypeMaterial
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".webp":
		return metadata.ResourceTypeImage
	case ".vert", ".frag", ".glsl":
		return metadata.ResourceTypeShader
	default:
		return metadata.ResourceTypeNone
	}
}

// assetName strips the directory and the type specific extension.
func assetName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, loaders.MaterialExtension) {
		return strings.TrimSuffix(base, loaders.MaterialExtension)
	}
	if determineAssetType(path) == metadata.ResourceTypeShader {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
