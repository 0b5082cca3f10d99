package systems

import (
	"cmp"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-g3d/engine/containers"
	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/attributes"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

// countingShader renders renderables whose UserData equals its id.
type countingShader struct {
	id       int
	inits    int
	begins   int
	ends     int
	renders  int
	disposes int
}

func (s *countingShader) Init() error { s.inits++; return nil }

func (s *countingShader) CanRender(r *metadata.Renderable) bool {
	id, ok := r.UserData.(int)
	return ok && id == s.id
}

func (s *countingShader) Begin(camera *components.Camera, context *renderer.RenderContext) {
	s.begins++
}

func (s *countingShader) Render(r *metadata.Renderable) { s.renders++ }
func (s *countingShader) End()                         { s.ends++ }
func (s *countingShader) Dispose()                     { s.disposes++ }

type countingProvider struct {
	*BaseShaderProvider
	created []*countingShader
}

func newCountingProvider() *countingProvider {
	p := &countingProvider{}
	p.BaseShaderProvider = NewBaseShaderProvider(func(r *metadata.Renderable) (metadata.Shader, error) {
		id, ok := r.UserData.(int)
		if !ok {
			id = -1
		}
		s := &countingShader{id: id}
		p.created = append(p.created, s)
		return s, nil
	})
	return p
}

// shaderIDSorter groups renderables by the id of their counting shader.
type shaderIDSorter struct{}

func (shaderIDSorter) Sort(camera *components.Camera, renderables []*metadata.Renderable) {
	slices.SortStableFunc(renderables, func(a, b *metadata.Renderable) int {
		return cmp.Compare(a.Shader.(*countingShader).id, b.Shader.(*countingShader).id)
	})
}

func newTestMetrics() *core.RenderMetrics {
	return core.NewRenderMetrics(containers.NewRingQueue[float64](4))
}

func TestModelBatchBeginsEachShaderOncePerRun(t *testing.T) {
	provider := newCountingProvider()
	metrics := newTestMetrics()
	batch, err := NewModelBatch(gpu.NewRecorder(8),
		WithShaderProvider(provider),
		WithSorter(shaderIDSorter{}),
		WithMetrics(metrics),
	)
	require.NoError(t, err)

	require.NoError(t, batch.Begin(nil))
	for _, id := range []int{2, 1, 2, 1, 1} {
		r := metadata.NewRenderable()
		r.UserData = id
		require.NoError(t, batch.Render(r))
	}
	assert.Equal(t, 5, batch.Pending())
	require.NoError(t, batch.End())

	require.Len(t, provider.created, 2)
	begins, ends, renders := 0, 0, 0
	for _, s := range provider.created {
		assert.Equal(t, 1, s.inits)
		begins += s.begins
		ends += s.ends
		renders += s.renders
	}
	assert.Equal(t, 2, begins)
	assert.Equal(t, 2, ends)
	assert.Equal(t, 5, renders)
	assert.Equal(t, 5, metrics.DrawCalls)
	assert.Equal(t, 2, metrics.ShaderSwitches)
	assert.Zero(t, batch.Pending())

	batch.Dispose()
	for _, s := range provider.created {
		assert.Equal(t, 1, s.disposes)
	}
}

func TestModelBatchRunsFollowSortedOrder(t *testing.T) {
	provider := newCountingProvider()
	// The default sorter keeps submission order without a camera, so 1,2,1 are three runs.
	batch, err := NewModelBatch(gpu.NewRecorder(8), WithShaderProvider(provider))
	require.NoError(t, err)

	require.NoError(t, batch.Begin(nil))
	for _, id := range []int{1, 2, 1} {
		r := metadata.NewRenderable()
		r.UserData = id
		require.NoError(t, batch.Render(r))
	}
	require.NoError(t, batch.End())

	begins := 0
	for _, s := range provider.created {
		begins += s.begins
	}
	assert.Equal(t, 3, begins)
}

func TestModelBatchState(t *testing.T) {
	batch, err := NewModelBatch(gpu.NewRecorder(8), WithShaderProvider(newCountingProvider()))
	require.NoError(t, err)
	r := metadata.NewRenderable()
	r.UserData = 1

	assert.ErrorIs(t, batch.Render(r), core.ErrNotBegun)
	assert.ErrorIs(t, batch.RenderProvider(metadata.NewStaticModel("m", mgl32.Ident4())), core.ErrNotBegun)
	assert.ErrorIs(t, batch.Flush(), core.ErrNotBegun)
	assert.ErrorIs(t, batch.End(), core.ErrNotBegun)
	assert.ErrorIs(t, batch.SetCamera(nil), core.ErrNotBegun)

	camera := components.NewCamera(1, 1, 0.1, 10)
	require.NoError(t, batch.Begin(camera))
	assert.True(t, batch.Begun())
	assert.Same(t, camera, batch.Camera())
	assert.ErrorIs(t, batch.Begin(camera), core.ErrAlreadyBegun)

	require.NoError(t, batch.Render(r))
	other := components.NewCamera(1, 1, 0.1, 10)
	require.NoError(t, batch.SetCamera(other))
	assert.Zero(t, batch.Pending())
	assert.Same(t, other, batch.Camera())

	require.NoError(t, batch.End())
	assert.False(t, batch.Begun())
	assert.Nil(t, batch.Camera())
}

func TestModelBatchOwnedContext(t *testing.T) {
	rec := gpu.NewRecorder(8)
	batch, err := NewModelBatch(rec)
	require.NoError(t, err)
	assert.True(t, batch.OwnsRenderContext())
	assert.Equal(t, 7, batch.RenderContext().TextureBinder().Units())

	require.NoError(t, batch.Begin(nil))
	assert.Equal(t, 1, rec.CountWith("Disable", gpu.CapabilityDepthTest))
	require.NoError(t, batch.End())
	assert.Equal(t, 1, rec.CountWith("ActiveTexture", 0))

	shared := renderer.NewRenderContext(rec, batch.RenderContext().TextureBinder())
	batch, err = NewModelBatch(rec, WithRenderContext(shared))
	require.NoError(t, err)
	assert.False(t, batch.OwnsRenderContext())
	rec.Reset()
	require.NoError(t, batch.Begin(nil))
	require.NoError(t, batch.End())
	assert.Zero(t, rec.Count("Disable"))
}

func TestModelBatchRendersProviders(t *testing.T) {
	rec := gpu.NewRecorder(8)
	metrics := newTestMetrics()
	batch, err := NewModelBatch(rec, WithMetrics(metrics))
	require.NoError(t, err)

	material := metadata.NewMaterial("wall", attributes.NewDiffuseColor(mgl32.Vec4{1, 0, 0, 1}))
	part := metadata.NewMeshPart("box", testBox, 0, testBox.NumIndices(), gpu.PrimitiveTriangles)
	model := metadata.NewStaticModel("model", mgl32.Translate3D(0, 0, -5),
		metadata.NewModelPart(part, material),
		metadata.NewModelPart(part, material),
	)
	camera := components.NewCamera(mgl32.DegToRad(45), 1, 0.1, 100)

	require.NoError(t, batch.Begin(camera))
	require.NoError(t, batch.RenderProvider(model))
	assert.Equal(t, 2, batch.Pending())
	assert.Equal(t, 2, batch.Pool().InUse())
	require.NoError(t, batch.End())

	assert.Zero(t, batch.Pool().InUse())
	assert.Equal(t, 2, rec.Count("DrawMesh"))
	assert.Equal(t, 1, rec.Count("CreateProgram"))
	assert.Equal(t, 1, rec.Count("UseProgram"))
	assert.Equal(t, 2, metrics.DrawCalls)
	assert.Equal(t, 1, metrics.ShaderSwitches)

	env := metadata.NewEnvironment(attributes.NewAmbientLightColor(mgl32.Vec4{0.1, 0.1, 0.1, 1}))
	require.NoError(t, batch.Begin(camera))
	require.NoError(t, batch.RenderProvider(model, WithEnvironment(env)))
	require.NoError(t, batch.End())
	assert.Equal(t, 2, rec.Count("CreateProgram"))
}

func TestModelBatchRenderProviderWithShader(t *testing.T) {
	provider := newCountingProvider()
	batch, err := NewModelBatch(gpu.NewRecorder(8), WithShaderProvider(provider))
	require.NoError(t, err)

	part := metadata.NewMeshPart("box", testBox, 0, testBox.NumIndices(), gpu.PrimitiveTriangles)
	matching := metadata.NewStaticModel("matching", mgl32.Ident4(),
		metadata.NewModelPart(part, nil),
		metadata.NewModelPart(part, nil),
	)
	matching.UserData = 5
	other := metadata.NewStaticModel("other", mgl32.Ident4(), metadata.NewModelPart(part, nil))
	other.UserData = 6
	custom := &countingShader{id: 5}

	require.NoError(t, batch.Begin(nil))
	require.NoError(t, batch.RenderProvider(matching, WithShader(custom)))
	require.NoError(t, batch.RenderProvider(other, WithShader(custom)))
	assert.Equal(t, 3, batch.Pending())
	require.NoError(t, batch.End())

	assert.Equal(t, 1, custom.begins)
	assert.Equal(t, 2, custom.renders)
	assert.Equal(t, 1, custom.ends)
	require.Len(t, provider.created, 1)
	assert.Equal(t, 6, provider.created[0].id)
	assert.Equal(t, 1, provider.created[0].renders)
}

func TestModelBatchBlendedMaterialEnablesBlending(t *testing.T) {
	rec := gpu.NewRecorder(8)
	batch, err := NewModelBatch(rec)
	require.NoError(t, err)

	glass := metadata.NewMaterial("glass", attributes.NewAlphaBlending(0.5))
	require.NoError(t, batch.Begin(nil))
	rec.Reset()
	require.NoError(t, batch.Render(boxRenderable(glass, mgl32.Ident4())))
	require.NoError(t, batch.Render(boxRenderable(glass, mgl32.Translate3D(1, 0, 0))))
	require.NoError(t, batch.End())

	assert.Equal(t, 1, rec.CountWith("Enable", gpu.CapabilityBlend))
	assert.Equal(t, 1, rec.CountWith("BlendFunc", gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha))
	assert.Equal(t, 1, rec.CountWith("Disable", gpu.CapabilityBlend))
}

func TestModelBatchRejectsUnrenderable(t *testing.T) {
	provider := newCountingProvider()
	batch, err := NewModelBatch(gpu.NewRecorder(8), WithShaderProvider(provider))
	require.NoError(t, err)

	part := metadata.NewMeshPart("box", testBox, 0, testBox.NumIndices(), gpu.PrimitiveTriangles)
	good := metadata.NewStaticModel("good", mgl32.Ident4(), metadata.NewModelPart(part, nil))
	good.UserData = 1
	bad := metadata.NewStaticModel("bad", mgl32.Ident4(), metadata.NewModelPart(part, nil))
	bad.UserData = "no shader for this"

	require.NoError(t, batch.Begin(nil))
	require.NoError(t, batch.RenderProvider(good))
	err = batch.RenderProvider(bad)
	assert.ErrorIs(t, err, core.ErrShaderCannotRender)
	assert.Equal(t, 1, batch.Pending())
	assert.Equal(t, 1, provider.Len())
	require.NoError(t, batch.End())
}

func TestShaderProviderPrefersSuggestedShader(t *testing.T) {
	provider := newCountingProvider()
	r := metadata.NewRenderable()
	r.UserData = 3

	first, err := provider.GetShader(r)
	require.NoError(t, err)
	again, err := provider.GetShader(r)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, provider.Len())

	suggested := &countingShader{id: 3}
	r.Shader = suggested
	got, err := provider.GetShader(r)
	require.NoError(t, err)
	assert.Same(t, suggested, got)

	r.Shader = &countingShader{id: 4}
	got, err = provider.GetShader(r)
	require.NoError(t, err)
	assert.Same(t, first, got)

	provider.Dispose()
	assert.Zero(t, provider.Len())
}

func TestDefaultShaderProviderSpecialisesOnMaterialMask(t *testing.T) {
	rec := gpu.NewRecorder(8)
	provider := NewDefaultShaderProvider(rec, nil)

	red := metadata.NewMaterial("red", attributes.NewDiffuseColor(mgl32.Vec4{1, 0, 0, 1}))
	blue := metadata.NewMaterial("blue", attributes.NewDiffuseColor(mgl32.Vec4{0, 0, 1, 1}))
	shiny := metadata.NewMaterial("shiny", attributes.NewDiffuseColor(mgl32.Vec4{0, 0, 1, 1}), attributes.NewShininess(8))

	s1, err := provider.GetShader(boxRenderable(red, mgl32.Ident4()))
	require.NoError(t, err)
	s2, err := provider.GetShader(boxRenderable(blue, mgl32.Ident4()))
	require.NoError(t, err)
	s3, err := provider.GetShader(boxRenderable(shiny, mgl32.Ident4()))
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.NotSame(t, s1, s3)
	assert.Equal(t, 2, provider.Len())
	assert.Equal(t, 2, rec.Count("CreateProgram"))

	skinned := boxRenderable(red, mgl32.Ident4())
	skinned.Bones = []mgl32.Mat4{mgl32.Ident4()}
	assert.False(t, s1.CanRender(skinned))

	provider.Dispose()
	assert.Equal(t, 2, rec.Count("DestroyProgram"))
}
