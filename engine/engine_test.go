package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-g3d/engine/assets"
	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/attributes"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-g3d/engine/systems"
)

func headlessGame(frames uint64) *Game {
	cfg := DefaultApplicationConfig()
	cfg.Headless = true
	cfg.MaxFrames = frames
	cfg.Renderer.AssetsDir = ""
	return &Game{ApplicationConfig: cfg}
}

func TestEngineHeadlessRun(t *testing.T) {
	g := headlessGame(3)
	var cube *metadata.Renderable
	resized := 0
	g.FnInitialize = func() error {
		mesh, err := g.SystemManager.GeometrySystem.GenerateCube("cube", 1, 1, 1)
		if err != nil {
			return err
		}
		cube = metadata.NewRenderable()
		cube.MeshPart.SetRange("cube", mesh, 0, mesh.NumIndices(), gpu.PrimitiveTriangles)
		cube.Material = g.SystemManager.MaterialSystem.GetDefaultMaterial()
		return nil
	}
	g.FnOnResize = func(width, height uint32) error {
		resized++
		return nil
	}
	g.FnRender = func(batch *systems.ModelBatch, deltaTime float64) error {
		if err := batch.Begin(g.SystemManager.CameraSystem.GetDefault()); err != nil {
			return err
		}
		if err := batch.Render(cube); err != nil {
			return err
		}
		return batch.End()
	}

	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Equal(t, 1, resized)

	require.NoError(t, e.Run())
	assert.Equal(t, uint64(3), e.FrameCount())

	rec, ok := e.Backend().(*gpu.Recorder)
	require.True(t, ok)
	assert.Equal(t, 3, rec.Count("Clear"))
	assert.Equal(t, 3, rec.Count("DrawMesh"))
	assert.Equal(t, 1, rec.Count("CreateProgram"))
	assert.Equal(t, 3, e.Metrics().DrawCalls)

	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageShutdown, e.Stage())
	assert.Equal(t, 1, rec.Count("DestroyProgram"))
	require.NoError(t, e.Shutdown())
}

func TestEngineStopsOnRenderError(t *testing.T) {
	g := headlessGame(0)
	g.FnRender = func(batch *systems.ModelBatch, deltaTime float64) error {
		return batch.End()
	}
	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { e.Shutdown() })

	assert.ErrorIs(t, e.Run(), core.ErrNotBegun)
	assert.Zero(t, e.FrameCount())
}

func TestEngineQuitEvent(t *testing.T) {
	g := headlessGame(0)
	frames := 0
	g.FnUpdate = func(deltaTime float64) error {
		frames++
		if frames == 2 {
			core.EventFire(core.EventContext{
				Type: core.EVENT_CODE_KEY_PRESSED,
				Data: &core.KeyEvent{KeyCode: core.KEY_ESCAPE},
			})
		}
		return nil
	}
	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { e.Shutdown() })

	require.NoError(t, e.Run())
	assert.Equal(t, uint64(2), e.FrameCount())
}

func TestEngineReloadsChangedMaterials(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "materials"), 0o755))
	path := filepath.Join(dir, "materials", "crate.material.toml")
	require.NoError(t, os.WriteFile(path, []byte(`shininess = 4.0`), 0o644))

	g := headlessGame(1)
	g.ApplicationConfig.Renderer.AssetsDir = dir
	var changed []assets.AssetInfo
	g.FnOnAssetChanged = func(info assets.AssetInfo) error {
		changed = append(changed, info)
		return nil
	}
	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { e.Shutdown() })

	m, err := g.SystemManager.MaterialSystem.Acquire("crate")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(`shininess = 9.0`), 0o644))
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_ASSET_CHANGED,
		Data: &core.AssetEvent{Name: "crate", Path: path, Type: metadata.ResourceTypeMaterial.String()},
	})

	shininess := m.Get(attributes.Shininess).(*attributes.FloatAttribute)
	assert.Equal(t, float32(9), shininess.Value)
	require.NotEmpty(t, changed)
	assert.Equal(t, metadata.ResourceTypeMaterial, changed[0].Type)
	assert.Equal(t, "crate", changed[0].Name)
}
