package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

/**
 * @brief Builds and owns the render systems described by a
 * RendererConfig: texture and material systems, the render context
 * shared by the model batch, the shader provider and every model
 * cache created through it.
 */
type SystemManager struct {
	Config RendererConfig

	CameraSystem   *CameraSystem
	GeometrySystem *GeometrySystem
	TextureSystem  *TextureSystem
	MaterialSystem *MaterialSystem
	ShaderProvider *BaseShaderProvider
	RenderContext  *renderer.RenderContext
	ModelBatch     *ModelBatch

	backend gpu.Backend
	assets  AssetLoader
	metrics *core.RenderMetrics
	caches  []*ModelCache
}

// NewSystemManager validates config and creates the resource systems.
// assets may be nil when nothing is loaded from disk.
func NewSystemManager(config RendererConfig, backend gpu.Backend, assets AssetLoader, metrics *core.RenderMetrics, aspect float32) (*SystemManager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if assets == nil {
		assets = noAssets{}
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 100,
		FOV:            mgl32.DegToRad(config.FieldOfView),
		Aspect:         aspect,
		Near:           config.Near,
		Far:            config.Far,
	})
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: 1000,
	})
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: config.MaxTextureCount,
	}, backend, assets)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: config.MaxMaterialCount,
	}, ts, assets)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		Config:         config,
		CameraSystem:   cs,
		GeometrySystem: gs,
		TextureSystem:  ts,
		MaterialSystem: ms,
		backend:        backend,
		assets:         assets,
		metrics:        metrics,
	}, nil
}

// Initialize creates the default resources, resolves the shader sources
// and builds the render context, shader provider and model batch.
func (sm *SystemManager) Initialize() error {
	if err := sm.TextureSystem.Initialize(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Initialize(); err != nil {
		return err
	}

	shaderConfig := sm.Config.Shader
	if shaderConfig.VertexFile != "" {
		src, err := sm.loadShaderSource(shaderConfig.VertexFile)
		if err != nil {
			return err
		}
		shaderConfig.VertexSource = src
	}
	if shaderConfig.FragmentFile != "" {
		src, err := sm.loadShaderSource(shaderConfig.FragmentFile)
		if err != nil {
			return err
		}
		shaderConfig.FragmentSource = src
	}
	sm.ShaderProvider = NewDefaultShaderProvider(sm.backend, DefaultShaderConfigFrom(shaderConfig))

	policy, err := renderer.ParseBindPolicy(sm.Config.TextureBindPolicy)
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	binder, err := renderer.NewTextureBinder(sm.backend, policy, sm.Config.TextureUnitOffset, sm.Config.TextureUnitCount)
	if err != nil {
		return err
	}
	sm.RenderContext = renderer.NewRenderContext(sm.backend, binder)

	sorter, err := sm.Config.newSorter()
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	opts := []ModelBatchOption{
		WithRenderContext(sm.RenderContext),
		WithShaderProvider(sm.ShaderProvider),
		WithSorter(sorter),
	}
	if sm.metrics != nil {
		opts = append(opts, WithMetrics(sm.metrics))
	}
	batch, err := NewModelBatch(sm.backend, opts...)
	if err != nil {
		return err
	}
	sm.ModelBatch = batch
	core.LogInfo("render systems initialized (%s texture binding over %d units)", policy, binder.Units())
	return nil
}

func (sm *SystemManager) loadShaderSource(name string) (string, error) {
	res, err := sm.assets.LoadAsset(name, metadata.ResourceTypeShader, nil)
	if err != nil {
		return "", err
	}
	defer sm.assets.UnloadAsset(res)
	src, ok := res.Data.(string)
	if !ok {
		err := fmt.Errorf("shader '%s': resource data is %T, not source text", name, res.Data)
		core.LogError("%s", err)
		return "", err
	}
	return src, nil
}

// BeginFrame resets the GPU state tracked by the render context.
func (sm *SystemManager) BeginFrame() {
	sm.RenderContext.Begin()
}

// EndFrame restores the GPU state changed during the frame.
func (sm *SystemManager) EndFrame() {
	sm.RenderContext.End()
}

// NewModelCache creates a cache with the configured mesh pool and vertex capacity.
// The cache is disposed by Shutdown.
func (sm *SystemManager) NewModelCache() (*ModelCache, error) {
	pool, err := sm.Config.newMeshPool()
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	c := NewModelCache(WithMeshPool(pool), WithMaxVertices(sm.Config.MaxMergedVertices))
	sm.caches = append(sm.caches, c)
	return c, nil
}

func (sm *SystemManager) Shutdown() error {
	for _, c := range sm.caches {
		if err := c.Dispose(); err != nil {
			return err
		}
	}
	sm.caches = nil
	if sm.ModelBatch != nil {
		sm.ModelBatch.Dispose()
	}
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.TextureSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.GeometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.CameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}

type noAssets struct{}

func (noAssets) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	err := fmt.Errorf("%s asset not found: %s", resourceType, name)
	core.LogError("%s", err)
	return nil, err
}

func (noAssets) UnloadAsset(resource *metadata.Resource) error {
	return nil
}
