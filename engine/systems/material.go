package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/attributes"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

type MaterialSystemConfig struct {
	/** @brief The maximum number of loaded materials. */
	MaxMaterialCount uint32
}

type materialReference struct {
	material       *metadata.Material
	textures       []string
	referenceCount uint64
}

/**
 * @brief Loads materials from material assets and shares them by name.
 * Reloading a material updates its attributes in place, so renderables
 * pointing at it pick up the change.
 */
type MaterialSystem struct {
	Config *MaterialSystemConfig

	defaultMaterial *metadata.Material
	registered      map[string]*materialReference

	textures *TextureSystem
	assets   AssetLoader
}

func NewMaterialSystem(config *MaterialSystemConfig, textures *TextureSystem, assets AssetLoader) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	return &MaterialSystem{
		Config:     config,
		registered: make(map[string]*materialReference),
		textures:   textures,
		assets:     assets,
	}, nil
}

// Initialize creates the default material, textured with the default diffuse texture.
func (ms *MaterialSystem) Initialize() error {
	ms.defaultMaterial = metadata.NewMaterial(metadata.DefaultMaterialName,
		attributes.NewDiffuseColor(mgl32.Vec4{1, 1, 1, 1}),
	)
	if t := ms.textures.GetDefaultDiffuseTexture(); t != nil {
		ms.defaultMaterial.Set(attributes.NewDiffuseTexture(t))
	}
	return nil
}

func (ms *MaterialSystem) GetDefaultMaterial() *metadata.Material {
	return ms.defaultMaterial
}

// Acquire returns the material loaded from the material asset name.
func (ms *MaterialSystem) Acquire(name string) (*metadata.Material, error) {
	if name == metadata.DefaultMaterialName {
		return ms.defaultMaterial, nil
	}
	if ref, ok := ms.registered[name]; ok {
		ref.referenceCount++
		return ref.material, nil
	}
	if uint32(len(ms.registered)) >= ms.Config.MaxMaterialCount {
		err := fmt.Errorf("material system cannot hold anymore materials, failed to load '%s'", name)
		core.LogError("%s", err)
		return nil, err
	}
	m, textures, err := ms.load(name)
	if err != nil {
		return nil, err
	}
	ms.registered[name] = &materialReference{material: m, textures: textures, referenceCount: 1}
	core.LogDebug("material '%s' loaded", name)
	return m, nil
}

func (ms *MaterialSystem) load(name string) (*metadata.Material, []string, error) {
	res, err := ms.assets.LoadAsset(name, metadata.ResourceTypeMaterial, nil)
	if err != nil {
		core.LogError("failed to load material '%s'", name)
		return nil, nil, err
	}
	defer ms.assets.UnloadAsset(res)
	cfg, ok := res.Data.(*metadata.MaterialConfig)
	if !ok {
		err := fmt.Errorf("material '%s': resource data is %T, not a material config", name, res.Data)
		core.LogError("%s", err)
		return nil, nil, err
	}
	cfg.Name = name

	textures := make(map[string]*gpu.Texture)
	acquired := make([]string, 0, 3)
	for _, tn := range []string{cfg.DiffuseMapName, cfg.SpecularMapName, cfg.NormalMapName} {
		if tn == "" {
			continue
		}
		if _, ok := textures[tn]; ok {
			continue
		}
		t, err := ms.textures.Acquire(tn, true)
		if err != nil {
			ms.releaseTextures(acquired)
			return nil, nil, err
		}
		textures[tn] = t
		acquired = append(acquired, tn)
	}
	m, err := cfg.Build(textures)
	if err != nil {
		ms.releaseTextures(acquired)
		return nil, nil, err
	}
	return m, acquired, nil
}

func (ms *MaterialSystem) releaseTextures(names []string) {
	for _, n := range names {
		ms.textures.Release(n)
	}
}

// Reload reads the material asset again and replaces the attributes of the
// loaded material. Unknown names are ignored.
func (ms *MaterialSystem) Reload(name string) error {
	ref, ok := ms.registered[name]
	if !ok {
		return nil
	}
	m, textures, err := ms.load(name)
	if err != nil {
		return err
	}
	ref.material.Attributes.CopyFrom(&m.Attributes)
	ms.releaseTextures(ref.textures)
	ref.textures = textures
	core.LogInfo("material '%s' reloaded", name)
	return nil
}

// Release drops a reference to name, unloading the material with its last reference.
func (ms *MaterialSystem) Release(name string) {
	ref, ok := ms.registered[name]
	if !ok {
		if name != metadata.DefaultMaterialName {
			core.LogWarn("tried to release non-existent material: '%s'", name)
		}
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 {
		ms.releaseTextures(ref.textures)
		delete(ms.registered, name)
		core.LogDebug("material '%s' released", name)
	}
}

// Len returns the number of loaded materials, the default excluded.
func (ms *MaterialSystem) Len() int {
	return len(ms.registered)
}

func (ms *MaterialSystem) Shutdown() error {
	for name, ref := range ms.registered {
		ms.releaseTextures(ref.textures)
		delete(ms.registered, name)
	}
	ms.defaultMaterial = nil
	return nil
}
