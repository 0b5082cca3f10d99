package metadata

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/attributes"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

func positionLayout() *gpu.VertexAttributes {
	return gpu.NewVertexAttributes(gpu.Position())
}

func TestMeshCapacity(t *testing.T) {
	m := NewMesh("tri", false, 3, 3, positionLayout())

	require.NoError(t, m.SetVertices([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))
	assert.Equal(t, 3, m.NumVertices())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.Position(1))

	assert.Error(t, m.SetVertices([]float32{0, 0}))
	err := m.SetVertices(make([]float32, 12))
	assert.ErrorIs(t, err, core.ErrMeshCapacity)
	assert.Equal(t, 3, m.NumVertices())

	require.NoError(t, m.SetIndices([]uint16{0, 1, 2}))
	assert.ErrorIs(t, m.SetIndices([]uint16{0, 1, 2, 0}), core.ErrMeshCapacity)
	assert.Equal(t, 3, m.NumIndices())
}

func TestMeshUploadsLazily(t *testing.T) {
	rec := gpu.NewRecorder(4)
	m := NewMesh("tri", true, 3, 3, positionLayout())
	require.NoError(t, m.SetVertices([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))
	require.NoError(t, m.SetIndices([]uint16{0, 1, 2}))

	m.Render(rec, gpu.PrimitiveTriangles, 0, 0)
	assert.Zero(t, rec.Count("CreateMesh"))

	m.Render(rec, gpu.PrimitiveTriangles, 0, 3)
	m.Render(rec, gpu.PrimitiveTriangles, 0, 3)
	assert.Equal(t, 1, rec.Count("CreateMesh"))
	assert.Equal(t, 1, rec.Count("UploadMesh"))
	assert.Equal(t, 2, rec.Count("DrawMesh"))

	require.NoError(t, m.SetIndices([]uint16{2, 1, 0}))
	m.Render(rec, gpu.PrimitiveTriangles, 0, 3)
	assert.Equal(t, 2, rec.Count("UploadMesh"))

	m.Dispose()
	assert.Equal(t, 1, rec.Count("DestroyMesh"))
	m.Dispose()
	assert.Equal(t, 1, rec.Count("DestroyMesh"))
	assert.Equal(t, 3, m.NumIndices())
}

func TestBoxMeshBounds(t *testing.T) {
	box := NewBoxMesh("box", 2, 4, 6)
	assert.Equal(t, 24, box.NumVertices())
	assert.Equal(t, 36, box.NumIndices())
	assert.Equal(t, 8, box.Layout.FloatStride())

	part := NewMeshPart("box", box, 0, box.NumIndices(), gpu.PrimitiveTriangles)
	assert.InDelta(t, 0, part.Center.Len(), 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, part.HalfExtents)
	assert.InDelta(t, mgl32.Vec3{1, 2, 3}.Len(), part.Radius, 1e-6)
}

func TestMeshPartEqual(t *testing.T) {
	box := NewBoxMesh("box", 1, 1, 1)
	a := NewMeshPart("a", box, 0, 6, gpu.PrimitiveTriangles)
	b := NewMeshPart("b", box, 0, 6, gpu.PrimitiveTriangles)
	assert.True(t, a.Equal(b))

	b.SetRange("b", box, 6, 6, gpu.PrimitiveTriangles)
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))

	var c MeshPart
	c.Set(a)
	assert.True(t, c.Equal(a))
	c.Reset()
	assert.Nil(t, c.Mesh)
	assert.Equal(t, float32(-1), c.Radius)
}

func TestRenderableSetAndReset(t *testing.T) {
	box := NewBoxMesh("box", 1, 1, 1)
	mat := NewMaterial("m", attributes.NewDiffuseColor(mgl32.Vec4{1, 0, 0, 1}))

	src := NewRenderable()
	src.WorldTransform = mgl32.Translate3D(1, 2, 3)
	src.MeshPart.SetRange("box", box, 0, 36, gpu.PrimitiveTriangles)
	src.Material = mat
	src.UserData = "payload"

	dst := NewRenderable()
	dst.Set(src)
	assert.Equal(t, src.WorldTransform, dst.WorldTransform)
	assert.True(t, dst.MeshPart.Equal(&src.MeshPart))
	assert.Same(t, mat, dst.Material)
	assert.Equal(t, "payload", dst.UserData)

	dst.Reset()
	assert.Equal(t, mgl32.Ident4(), dst.WorldTransform)
	assert.Nil(t, dst.Material)
	assert.Nil(t, dst.UserData)
}

func TestStaticModelRenderables(t *testing.T) {
	box := NewBoxMesh("box", 1, 1, 1)
	mat := NewMaterial("m")
	env := NewEnvironment(attributes.NewAmbientLightColor(mgl32.Vec4{0.2, 0.2, 0.2, 1}))

	top := NewModelPart(NewMeshPart("top", box, 24, 6, gpu.PrimitiveTriangles), mat)
	top.LocalTransform = mgl32.Translate3D(0, 1, 0)
	bottom := NewModelPart(NewMeshPart("bottom", box, 30, 6, gpu.PrimitiveTriangles), mat)

	model := NewStaticModel("model", mgl32.Translate3D(5, 0, 0), top, bottom)
	model.Environment = env

	pool := NewRenderablePool()
	out := model.GetRenderables(nil, pool)
	require.Len(t, out, 2)
	assert.Equal(t, 2, pool.InUse())
	assert.Equal(t, mgl32.Translate3D(5, 1, 0), out[0].WorldTransform)
	assert.Equal(t, mgl32.Translate3D(5, 0, 0), out[1].WorldTransform)
	assert.Equal(t, "top", out[0].MeshPart.ID)
	assert.Same(t, env, out[1].Environment)

	pool.Flush()
	assert.Zero(t, pool.InUse())
}

func TestMaterialCompare(t *testing.T) {
	a := NewMaterial("a", attributes.NewDiffuseColor(mgl32.Vec4{1, 0, 0, 1}), attributes.NewShininess(4))
	b := NewMaterial("b", attributes.NewShininess(4), attributes.NewDiffuseColor(mgl32.Vec4{1, 0, 0, 1}))
	assert.True(t, a.Same(b, true))
	assert.False(t, a.Equal(b))
	assert.Zero(t, a.Compare(b))

	c := a.Copy()
	assert.True(t, c.Equal(a))
	c.Set(attributes.NewShininess(5))
	assert.False(t, c.Same(a, true))
	assert.True(t, c.Same(a, false))
	assert.False(t, a.Same(nil, false))

	assert.False(t, a.Blended())
	a.Set(attributes.NewAlphaBlending(0.5))
	assert.True(t, a.Blended())

	assert.NotEmpty(t, NewMaterial("").ID)
}

func TestMaterialConfigBuild(t *testing.T) {
	diffuse := gpu.NewTexture(3, gpu.TextureTarget2D, "bricks", 8, 8)
	cfg := MaterialConfig{
		Name:           "wall",
		DiffuseColor:   []float32{1, 0.5, 0},
		Shininess:      32,
		Blended:        true,
		CullFace:       "none",
		DepthTest:      "less",
		DiffuseMapName: "bricks",
	}
	m, err := cfg.Build(map[string]*gpu.Texture{"bricks": diffuse})
	require.NoError(t, err)
	assert.Equal(t, "wall", m.ID)
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0, 1}, m.Get(attributes.DiffuseColor).(*attributes.ColorAttribute).Color)
	assert.Equal(t, float32(32), m.Get(attributes.Shininess).(*attributes.FloatAttribute).Value)
	assert.Equal(t, float32(1), m.Get(attributes.Blended).(*attributes.BlendingAttribute).Opacity)
	assert.Equal(t, int(gpu.FaceNone), m.Get(attributes.CullFace).(*attributes.IntAttribute).Value)
	assert.Equal(t, gpu.CompareLess, m.Get(attributes.DepthTest).(*attributes.DepthTestAttribute).Func)
	assert.Same(t, diffuse, m.Get(attributes.DiffuseTexture).(*attributes.TextureAttribute).Descriptor.Texture)
	assert.False(t, m.Has(attributes.SpecularColor))

	_, err = (&MaterialConfig{Name: "bad", DiffuseColor: []float32{1, 0}}).Build(nil)
	assert.Error(t, err)
	_, err = (&MaterialConfig{Name: "bad", CullFace: "sideways"}).Build(nil)
	assert.Error(t, err)
	_, err = (&MaterialConfig{Name: "bad", DepthTest: "sometimes"}).Build(nil)
	assert.Error(t, err)
	_, err = (&MaterialConfig{Name: "bad", NormalMapName: "missing"}).Build(nil)
	assert.Error(t, err)
}

func TestParseFace(t *testing.T) {
	for name, want := range map[string]gpu.Face{
		"":               gpu.FaceBack,
		"back":           gpu.FaceBack,
		"front":          gpu.FaceFront,
		"front_and_back": gpu.FaceFrontAndBack,
		"none":           gpu.FaceNone,
	} {
		got, err := ParseFace(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseFace("up")
	assert.Error(t, err)

	fn, err := ParseCompareFunc("")
	require.NoError(t, err)
	assert.Equal(t, gpu.CompareLessEqual, fn)
}

func TestDefaultTextureImages(t *testing.T) {
	images := DefaultTextureImages()
	require.Len(t, images, 4)
	for name, img := range images {
		assert.Len(t, img.Pixels, int(img.Width*img.Height*4), name)
	}
	assert.Equal(t, "material", ResourceTypeMaterial.String())
}
