package systems

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/attributes"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

// fakeAssets serves in-memory resource data by type and name.
type fakeAssets struct {
	data     map[metadata.ResourceType]map[string]interface{}
	loads    int
	unloads  int
	lastFlip bool
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{data: make(map[metadata.ResourceType]map[string]interface{})}
}

func (f *fakeAssets) put(t metadata.ResourceType, name string, data interface{}) {
	if f.data[t] == nil {
		f.data[t] = make(map[string]interface{})
	}
	f.data[t][name] = data
}

func (f *fakeAssets) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, ok := f.data[resourceType][name]
	if !ok {
		return nil, fmt.Errorf("%s asset not found: %s", resourceType, name)
	}
	if p, ok := params.(*metadata.ImageResourceParams); ok {
		f.lastFlip = p.FlipY
	}
	f.loads++
	return &metadata.Resource{Name: name, Type: resourceType, Data: data}, nil
}

func (f *fakeAssets) UnloadAsset(resource *metadata.Resource) error {
	f.unloads++
	return nil
}

func testImage() *metadata.ImageResourceData {
	return &metadata.ImageResourceData{Width: 2, Height: 2, Pixels: make([]uint8, 16)}
}

func newTestTextureSystem(t *testing.T, max uint32) (*TextureSystem, *gpu.Recorder, *fakeAssets) {
	rec := gpu.NewRecorder(8)
	assets := newFakeAssets()
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: max}, rec, assets)
	require.NoError(t, err)
	require.NoError(t, ts.Initialize())
	return ts, rec, assets
}

func TestTextureSystemDefaults(t *testing.T) {
	_, err := NewTextureSystem(&TextureSystemConfig{}, gpu.NewRecorder(8), newFakeAssets())
	assert.Error(t, err)

	ts, rec, _ := newTestTextureSystem(t, 4)
	assert.Equal(t, 4, rec.Count("CreateTexture"))
	assert.NotNil(t, ts.GetDefaultTexture())
	assert.NotNil(t, ts.GetDefaultDiffuseTexture())
	assert.NotNil(t, ts.GetDefaultSpecularTexture())
	assert.NotNil(t, ts.GetDefaultNormalTexture())
	assert.Len(t, ts.Textures(), 4)
	assert.Zero(t, ts.Len())

	def, err := ts.Acquire(metadata.DEFAULT_TEXTURE_NAME, true)
	require.NoError(t, err)
	assert.Same(t, ts.GetDefaultTexture(), def)
	ts.Release(metadata.DEFAULT_TEXTURE_NAME)

	require.NoError(t, ts.Shutdown())
	assert.Equal(t, 4, rec.Count("DestroyTexture"))
}

func TestTextureSystemReferenceCounting(t *testing.T) {
	ts, rec, assets := newTestTextureSystem(t, 4)
	assets.put(metadata.ResourceTypeImage, "crate", testImage())
	assets.put(metadata.ResourceTypeImage, "grass", testImage())

	crate, err := ts.Acquire("crate", true)
	require.NoError(t, err)
	assert.True(t, assets.lastFlip)
	assert.Equal(t, 2, crate.Width)
	again, err := ts.Acquire("crate", true)
	require.NoError(t, err)
	assert.Same(t, crate, again)
	assert.Equal(t, 5, rec.Count("CreateTexture"))
	assert.Equal(t, 1, assets.loads)
	assert.Equal(t, 1, assets.unloads)

	ts.Release("crate")
	assert.Equal(t, 1, ts.Len())
	ts.Release("crate")
	assert.Zero(t, ts.Len())
	assert.Equal(t, 1, rec.CountWith("DestroyTexture", crate.Handle))

	_, err = ts.Acquire("grass", false)
	require.NoError(t, err)
	ts.Release("grass")
	assert.Equal(t, 1, ts.Len())
	ts.Release("grass")
	ts.Release("unknown")
	assert.Equal(t, 1, ts.Len())
}

func TestTextureSystemErrors(t *testing.T) {
	ts, _, assets := newTestTextureSystem(t, 1)
	assets.put(metadata.ResourceTypeImage, "a", testImage())
	assets.put(metadata.ResourceTypeImage, "b", testImage())
	assets.put(metadata.ResourceTypeImage, "text", "not pixels")

	_, err := ts.Acquire("missing", true)
	assert.Error(t, err)
	_, err = ts.Acquire("text", true)
	assert.Error(t, err)

	_, err = ts.Acquire("a", true)
	require.NoError(t, err)
	_, err = ts.Acquire("b", true)
	assert.Error(t, err)
	assert.Equal(t, 1, ts.Len())
}

func newTestMaterialSystem(t *testing.T) (*MaterialSystem, *TextureSystem, *fakeAssets) {
	ts, _, assets := newTestTextureSystem(t, 8)
	ms, err := NewMaterialSystem(&MaterialSystemConfig{MaxMaterialCount: 8}, ts, assets)
	require.NoError(t, err)
	require.NoError(t, ms.Initialize())
	return ms, ts, assets
}

func TestMaterialSystemDefault(t *testing.T) {
	_, err := NewMaterialSystem(&MaterialSystemConfig{}, nil, nil)
	assert.Error(t, err)

	ms, ts, _ := newTestMaterialSystem(t)
	def := ms.GetDefaultMaterial()
	require.NotNil(t, def)
	assert.True(t, def.Has(attributes.DiffuseColor|attributes.DiffuseTexture))
	tex := def.Get(attributes.DiffuseTexture).(*attributes.TextureAttribute)
	assert.Same(t, ts.GetDefaultDiffuseTexture(), tex.Descriptor.Texture)

	m, err := ms.Acquire(metadata.DefaultMaterialName)
	require.NoError(t, err)
	assert.Same(t, def, m)
	ms.Release(metadata.DefaultMaterialName)
	assert.Zero(t, ms.Len())
}

func TestMaterialSystemAcquireAndRelease(t *testing.T) {
	ms, ts, assets := newTestMaterialSystem(t)
	assets.put(metadata.ResourceTypeImage, "crate_diff", testImage())
	assets.put(metadata.ResourceTypeMaterial, "crate", &metadata.MaterialConfig{
		DiffuseColor:   []float32{1, 0, 0},
		Shininess:      8,
		DiffuseMapName: "crate_diff",
	})

	m, err := ms.Acquire("crate")
	require.NoError(t, err)
	assert.Equal(t, "crate", m.ID)
	assert.True(t, m.Has(attributes.DiffuseColor|attributes.Shininess|attributes.DiffuseTexture))
	assert.Equal(t, 1, ts.Len())

	again, err := ms.Acquire("crate")
	require.NoError(t, err)
	assert.Same(t, m, again)

	ms.Release("crate")
	assert.Equal(t, 1, ms.Len())
	ms.Release("crate")
	assert.Zero(t, ms.Len())
	assert.Zero(t, ts.Len())
}

func TestMaterialSystemReloadInPlace(t *testing.T) {
	ms, ts, assets := newTestMaterialSystem(t)
	assets.put(metadata.ResourceTypeImage, "crate_diff", testImage())
	cfg := &metadata.MaterialConfig{Shininess: 8, DiffuseMapName: "crate_diff"}
	assets.put(metadata.ResourceTypeMaterial, "crate", cfg)

	m, err := ms.Acquire("crate")
	require.NoError(t, err)
	cfg.Shininess = 16
	require.NoError(t, ms.Reload("crate"))

	shininess := m.Get(attributes.Shininess).(*attributes.FloatAttribute)
	assert.Equal(t, float32(16), shininess.Value)
	assert.Equal(t, 1, ts.Len())
	assert.NoError(t, ms.Reload("unknown"))

	require.NoError(t, ms.Shutdown())
	assert.Zero(t, ts.Len())
}

func TestMaterialSystemReleasesTexturesOnFailure(t *testing.T) {
	ms, ts, assets := newTestMaterialSystem(t)
	assets.put(metadata.ResourceTypeImage, "crate_diff", testImage())
	assets.put(metadata.ResourceTypeMaterial, "broken", &metadata.MaterialConfig{
		DiffuseMapName: "crate_diff",
		NormalMapName:  "missing",
	})
	assets.put(metadata.ResourceTypeMaterial, "bad_face", &metadata.MaterialConfig{
		DiffuseMapName: "crate_diff",
		CullFace:       "sideways",
	})

	_, err := ms.Acquire("broken")
	assert.Error(t, err)
	_, err = ms.Acquire("bad_face")
	assert.Error(t, err)
	_, err = ms.Acquire("missing")
	assert.Error(t, err)
	assert.Zero(t, ts.Len())
	assert.Zero(t, ms.Len())
}

func TestGeometrySystemCube(t *testing.T) {
	_, err := NewGeometrySystem(&GeometrySystemConfig{})
	assert.Error(t, err)

	gs, err := NewGeometrySystem(&GeometrySystemConfig{MaxGeometryCount: 1})
	require.NoError(t, err)
	cube, err := gs.GenerateCube("cube", 0, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 24, cube.NumVertices())
	same, err := gs.GenerateCube("cube", 4, 4, 4)
	require.NoError(t, err)
	assert.Same(t, cube, same)

	_, err = gs.GenerateCube("other", 1, 1, 1)
	assert.Error(t, err)
	_, err = gs.Acquire("other")
	assert.Error(t, err)

	acquired, err := gs.Acquire("cube")
	require.NoError(t, err)
	assert.Same(t, cube, acquired)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, gs.Len())
		gs.Release("cube")
	}
	assert.Zero(t, gs.Len())
}

func TestGeometrySystemPlane(t *testing.T) {
	gs, err := NewGeometrySystem(&GeometrySystemConfig{MaxGeometryCount: 4})
	require.NoError(t, err)

	plane, err := gs.GeneratePlane("plane", 4, 6, 2, 3, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 24, plane.NumVertices())
	assert.Equal(t, 36, plane.NumIndices())
	ext := plane.Extents(0, plane.NumIndices())
	assert.InDelta(t, -2, ext.Min.X(), 1e-5)
	assert.InDelta(t, 3, ext.Max.Z(), 1e-5)
	assert.InDelta(t, 0, ext.Max.Y(), 1e-5)

	_, err = gs.GeneratePlane("huge", 1, 1, 200, 200, 1, 1)
	assert.ErrorIs(t, err, core.ErrMeshCapacity)
	require.NoError(t, gs.Shutdown())
	assert.Zero(t, gs.Len())
}

func TestCameraSystem(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{})
	assert.Error(t, err)

	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 1, FOV: 1, Aspect: 1, Near: 0.1, Far: 10})
	require.NoError(t, err)

	def, err := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.Same(t, cs.GetDefault(), def)

	a, err := cs.Acquire("a")
	require.NoError(t, err)
	again, err := cs.Acquire("a")
	require.NoError(t, err)
	assert.Same(t, a, again)
	_, err = cs.Acquire("b")
	assert.Error(t, err)

	cs.SetAspect(2)
	assert.Equal(t, float32(2), a.Aspect)
	assert.Equal(t, float32(2), def.Aspect)

	cs.Release("a")
	cs.Release("a")
	cs.Release(components.DEFAULT_CAMERA_NAME)
	fresh, err := cs.Acquire("a")
	require.NoError(t, err)
	assert.NotSame(t, a, fresh)
	assert.Equal(t, float32(2), fresh.Aspect)
}
