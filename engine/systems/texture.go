package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

// AssetLoader loads named assets. It is implemented by assets.AssetManager.
type AssetLoader interface {
	LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	UnloadAsset(resource *metadata.Resource) error
}

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

type textureReference struct {
	texture        *gpu.Texture
	referenceCount uint64
	autoRelease    bool
}

/**
 * @brief Loads image assets into GPU textures and shares them by
 * name with reference counting. The built-in default textures are
 * created at Initialize and never released.
 */
type TextureSystem struct {
	Config *TextureSystemConfig

	defaults   map[string]*gpu.Texture
	registered map[string]*textureReference

	backend gpu.Backend
	assets  AssetLoader
}

func NewTextureSystem(config *TextureSystemConfig, backend gpu.Backend, assets AssetLoader) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	return &TextureSystem{
		Config:     config,
		defaults:   make(map[string]*gpu.Texture),
		registered: make(map[string]*textureReference),
		backend:    backend,
		assets:     assets,
	}, nil
}

// Initialize creates the default textures.
func (ts *TextureSystem) Initialize() error {
	for name, img := range metadata.DefaultTextureImages() {
		t, err := ts.backend.CreateTexture(name, img.Width, img.Height, img.Pixels)
		if err != nil {
			core.LogError("failed to create default texture '%s': %s", name, err.Error())
			return err
		}
		ts.defaults[name] = t
	}
	return nil
}

func (ts *TextureSystem) Shutdown() error {
	// Destroy all loaded textures.
	for name, ref := range ts.registered {
		ts.backend.DestroyTexture(ref.texture)
		delete(ts.registered, name)
	}
	for name, t := range ts.defaults {
		ts.backend.DestroyTexture(t)
		delete(ts.defaults, name)
	}
	return nil
}

// Acquire returns the texture loaded from the image asset name, loading it
// on first use. Every Acquire must be matched by a Release.
func (ts *TextureSystem) Acquire(name string, autoRelease bool) (*gpu.Texture, error) {
	// Return default texture, but warn about it since this should be returned via GetDefaultTexture().
	if t, ok := ts.defaults[name]; ok {
		core.LogWarn("texture system Acquire called for default texture '%s'", name)
		return t, nil
	}
	if ref, ok := ts.registered[name]; ok {
		ref.referenceCount++
		return ref.texture, nil
	}
	if uint32(len(ts.registered)) >= ts.Config.MaxTextureCount {
		err := fmt.Errorf("texture system cannot hold anymore textures, failed to load '%s'", name)
		core.LogError("%s", err)
		return nil, err
	}
	t, err := ts.load(name)
	if err != nil {
		return nil, err
	}
	ts.registered[name] = &textureReference{texture: t, referenceCount: 1, autoRelease: autoRelease}
	core.LogDebug("texture '%s' loaded (%dx%d)", name, t.Width, t.Height)
	return t, nil
}

func (ts *TextureSystem) load(name string) (*gpu.Texture, error) {
	res, err := ts.assets.LoadAsset(name, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		core.LogError("failed to load texture '%s'", name)
		return nil, err
	}
	defer ts.assets.UnloadAsset(res)
	img, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		err := fmt.Errorf("texture '%s': resource data is %T, not image data", name, res.Data)
		core.LogError("%s", err)
		return nil, err
	}
	return ts.backend.CreateTexture(name, img.Width, img.Height, img.Pixels)
}

// Release drops a reference to name. Auto released textures are destroyed
// with their last reference.
func (ts *TextureSystem) Release(name string) {
	ref, ok := ts.registered[name]
	if !ok {
		if _, isDefault := ts.defaults[name]; !isDefault {
			core.LogWarn("tried to release non-existent texture: '%s'", name)
		}
		return
	}
	if ref.referenceCount == 0 {
		core.LogWarn("tried to release texture '%s' with no references", name)
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 && ref.autoRelease {
		ts.backend.DestroyTexture(ref.texture)
		delete(ts.registered, name)
		core.LogDebug("texture '%s' released", name)
	}
}

// Len returns the number of loaded textures, defaults excluded.
func (ts *TextureSystem) Len() int {
	return len(ts.registered)
}

// Textures returns the loaded textures by name, defaults included.
func (ts *TextureSystem) Textures() map[string]*gpu.Texture {
	out := make(map[string]*gpu.Texture, len(ts.registered)+len(ts.defaults))
	for name, t := range ts.defaults {
		out[name] = t
	}
	for name, ref := range ts.registered {
		out[name] = ref.texture
	}
	return out
}

func (ts *TextureSystem) GetDefaultTexture() *gpu.Texture {
	return ts.defaults[metadata.DEFAULT_TEXTURE_NAME]
}

func (ts *TextureSystem) GetDefaultDiffuseTexture() *gpu.Texture {
	return ts.defaults[metadata.DEFAULT_DIFFUSE_TEXTURE_NAME]
}

func (ts *TextureSystem) GetDefaultSpecularTexture() *gpu.Texture {
	return ts.defaults[metadata.DEFAULT_SPECULAR_TEXTURE_NAME]
}

func (ts *TextureSystem) GetDefaultNormalTexture() *gpu.Texture {
	return ts.defaults[metadata.DEFAULT_NORMAL_TEXTURE_NAME]
}
