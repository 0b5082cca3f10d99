package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

/**
 * @brief Configuration of the render batch, the model caches and the
 * resource systems, usually the [renderer] table of the application
 * config file.
 */
type RendererConfig struct {
	/** @brief "lru" or "roundrobin". */
	TextureBindPolicy string `toml:"texture_bind_policy"`
	/** @brief First texture unit managed by the binder. */
	TextureUnitOffset int `toml:"texture_unit_offset"`
	/** @brief Number of managed texture units, 0 for as many as the GPU allows. */
	TextureUnitCount int `toml:"texture_unit_count"`
	/** @brief "simple" or "tight". */
	MeshPool string `toml:"mesh_pool"`
	/** @brief Vertex capacity of a merged mesh, at most 65536. */
	MaxMergedVertices int `toml:"max_merged_vertices"`
	/** @brief "default" or "cache". */
	Sorter string `toml:"sorter"`
	/** @brief Directory holding textures, materials and shaders. Empty disables asset loading. */
	AssetsDir string `toml:"assets_dir"`
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32 `toml:"max_texture_count"`
	/** @brief The maximum number of materials that can be loaded at once. */
	MaxMaterialCount uint32 `toml:"max_material_count"`
	/** @brief Vertical field of view of the cameras, in degrees. */
	FieldOfView float32 `toml:"field_of_view"`
	/** @brief Near and far clipping planes of the cameras. */
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
	/** @brief Sources of the default shader. Empty sources use the built-in program. */
	Shader metadata.ShaderConfig `toml:"shader"`
}

func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		TextureBindPolicy: renderer.BindLRU.String(),
		TextureUnitOffset: 1,
		TextureUnitCount:  0,
		MeshPool:          "simple",
		MaxMergedVertices: MAX_VERTICES,
		Sorter:            "default",
		AssetsDir:         "assets",
		MaxTextureCount:   1000,
		MaxMaterialCount:  1000,
		FieldOfView:       45,
		Near:              0.1,
		Far:               1000,
	}
}

// Validate checks every value, logging the first invalid one.
func (c *RendererConfig) Validate() error {
	var err error
	switch {
	case c.TextureUnitOffset < 0:
		err = fmt.Errorf("renderer config: texture_unit_offset must be >= 0, got %d", c.TextureUnitOffset)
	case c.TextureUnitCount < 0 || c.TextureUnitCount > renderer.MaxTextureUnits:
		err = fmt.Errorf("renderer config: texture_unit_count must be between 0 and %d, got %d", renderer.MaxTextureUnits, c.TextureUnitCount)
	case c.MaxMergedVertices <= 0 || c.MaxMergedVertices > MAX_VERTICES:
		err = fmt.Errorf("renderer config: max_merged_vertices must be between 1 and %d, got %d", MAX_VERTICES, c.MaxMergedVertices)
	case c.MaxTextureCount == 0:
		err = fmt.Errorf("renderer config: max_texture_count must be > 0")
	case c.MaxMaterialCount == 0:
		err = fmt.Errorf("renderer config: max_material_count must be > 0")
	case c.FieldOfView <= 0 || c.FieldOfView >= 180:
		err = fmt.Errorf("renderer config: field_of_view must be between 0 and 180 degrees, got %g", c.FieldOfView)
	case c.Near <= 0 || c.Far <= c.Near:
		err = fmt.Errorf("renderer config: near (%g) must be > 0 and less than far (%g)", c.Near, c.Far)
	}
	if err == nil {
		_, err = renderer.ParseBindPolicy(c.TextureBindPolicy)
	}
	if err == nil {
		_, err = c.newMeshPool()
	}
	if err == nil {
		_, err = c.newSorter()
	}
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	return nil
}

func (c *RendererConfig) newMeshPool() (metadata.MeshPool, error) {
	switch c.MeshPool {
	case "", "simple":
		return NewSimpleMeshPool(c.MaxMergedVertices), nil
	case "tight":
		return NewTightMeshPool(), nil
	}
	return nil, fmt.Errorf("renderer config: unknown mesh pool %q", c.MeshPool)
}

func (c *RendererConfig) newSorter() (RenderableSorter, error) {
	switch c.Sorter {
	case "", "default":
		return NewDefaultRenderableSorter(), nil
	case "cache":
		return NewCacheSorter(), nil
	}
	return nil, fmt.Errorf("renderer config: unknown sorter %q", c.Sorter)
}
