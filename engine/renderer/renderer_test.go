package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

func newTestTexture(handle uint32) *gpu.Texture {
	return gpu.NewTexture(handle, gpu.TextureTarget2D, "test", 4, 4)
}

func TestParseBindPolicy(t *testing.T) {
	p, err := ParseBindPolicy("")
	require.NoError(t, err)
	assert.Equal(t, BindLRU, p)

	p, err = ParseBindPolicy("roundrobin")
	require.NoError(t, err)
	assert.Equal(t, BindRoundRobin, p)
	assert.Equal(t, "roundrobin", p.String())

	_, err = ParseBindPolicy("random")
	assert.Error(t, err)
}

func TestTextureBinderRange(t *testing.T) {
	rec := gpu.NewRecorder(4)

	_, err := NewTextureBinder(rec, BindLRU, 0, 5)
	assert.Error(t, err)
	_, err = NewTextureBinder(rec, BindLRU, 4, 0)
	assert.Error(t, err)
	_, err = NewTextureBinder(rec, BindLRU, -1, 2)
	assert.Error(t, err)

	tb, err := NewTextureBinder(rec, BindLRU, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, tb.Units())
	assert.Equal(t, BindLRU, tb.Policy())
}

func TestTextureBinderRoundRobinReuse(t *testing.T) {
	rec := gpu.NewRecorder(4)
	tb, err := NewTextureBinder(rec, BindRoundRobin, 0, 4)
	require.NoError(t, err)

	a := newTestTexture(1)
	desc := gpu.NewTextureDescriptor(a)
	unit := tb.Bind(desc)
	for i := 0; i < 3; i++ {
		assert.Equal(t, unit, tb.Bind(desc))
	}
	assert.Equal(t, 1, tb.BindCount())
	assert.Equal(t, 3, tb.ReuseCount())
	assert.Equal(t, 1, rec.Count("BindTexture"))

	tb.ResetCounts()
	assert.Zero(t, tb.BindCount())
	assert.Zero(t, tb.ReuseCount())
}

func TestTextureBinderLRUEviction(t *testing.T) {
	rec := gpu.NewRecorder(8)
	tb, err := NewTextureBinder(rec, BindLRU, 2, 2)
	require.NoError(t, err)

	a, b, c := newTestTexture(1), newTestTexture(2), newTestTexture(3)
	ua := tb.Bind(gpu.NewTextureDescriptor(a))
	tb.Bind(gpu.NewTextureDescriptor(b))
	assert.Equal(t, ua, tb.Bind(gpu.NewTextureDescriptor(a)))
	tb.Bind(gpu.NewTextureDescriptor(c))

	assert.Contains(t, tb.textures, a)
	assert.Contains(t, tb.textures, c)
	assert.NotContains(t, tb.textures, b)
	assert.Equal(t, 3, tb.BindCount())
	assert.Equal(t, 1, tb.ReuseCount())
	assert.Equal(t, 2, ua)
	assert.Equal(t, 1, rec.CountWith("BindTexture", a.Handle))
	assert.Equal(t, 1, rec.CountWith("BindTexture", c.Handle))
}

func TestTextureBinderNilTexture(t *testing.T) {
	tb, err := NewTextureBinder(gpu.NewRecorder(4), BindLRU, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, -1, tb.Bind(gpu.TextureDescriptor{}))
	assert.Zero(t, tb.BindCount())
}

func TestTextureBinderSamplerState(t *testing.T) {
	rec := gpu.NewRecorder(4)
	tb, err := NewTextureBinder(rec, BindLRU, 0, 4)
	require.NoError(t, err)

	a := newTestTexture(1)
	desc := gpu.TextureDescriptor{Texture: a, MinFilter: gpu.FilterLinear, UWrap: gpu.WrapRepeat}
	tb.Bind(desc)
	tb.Bind(desc)
	assert.Equal(t, 2, rec.Count("TexParameter"))
	assert.Equal(t, gpu.FilterLinear, a.MinFilter())
	assert.Equal(t, gpu.FilterNearest, a.MagFilter())
	assert.Equal(t, gpu.WrapRepeat, a.UWrap())
}

func TestTextureBinderBeginForgetsResidents(t *testing.T) {
	rec := gpu.NewRecorder(4)
	tb, err := NewTextureBinder(rec, BindLRU, 0, 4)
	require.NoError(t, err)

	a := newTestTexture(1)
	tb.Bind(gpu.NewTextureDescriptor(a))
	tb.Begin()
	tb.Bind(gpu.NewTextureDescriptor(a))
	assert.Equal(t, 2, tb.BindCount())
	assert.Zero(t, tb.ReuseCount())

	rec.Reset()
	tb.End()
	assert.Equal(t, 1, rec.CountWith("ActiveTexture", 0))
}

func newTestContext(t *testing.T) (*RenderContext, *gpu.Recorder) {
	rec := gpu.NewRecorder(8)
	tb, err := NewTextureBinder(rec, BindLRU, 0, 0)
	require.NoError(t, err)
	rc := NewRenderContext(rec, tb)
	rc.Begin()
	rec.Reset()
	return rc, rec
}

func TestRenderContextBlendingIsIdempotent(t *testing.T) {
	rc, rec := newTestContext(t)

	rc.SetBlending(true, gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha)
	rc.SetBlending(true, gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha)
	assert.Equal(t, 1, rec.CountWith("Enable", gpu.CapabilityBlend))
	assert.Equal(t, 1, rec.Count("BlendFunc"))

	rc.SetBlending(true, gpu.BlendOne, gpu.BlendOne)
	assert.Equal(t, 1, rec.CountWith("Enable", gpu.CapabilityBlend))
	assert.Equal(t, 2, rec.Count("BlendFunc"))

	rc.SetBlending(false, gpu.BlendOne, gpu.BlendOne)
	rc.SetBlending(false, gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha)
	assert.Equal(t, 1, rec.CountWith("Disable", gpu.CapabilityBlend))
	assert.Equal(t, 2, rec.Count("BlendFunc"))
}

func TestRenderContextDepthTest(t *testing.T) {
	rc, rec := newTestContext(t)

	rc.SetDepthTest(gpu.CompareLessEqual, 0, 1)
	rc.SetDepthTest(gpu.CompareLessEqual, 0, 1)
	assert.Equal(t, 1, rec.CountWith("Enable", gpu.CapabilityDepthTest))
	assert.Equal(t, 1, rec.Count("DepthFunc"))
	assert.Equal(t, 1, rec.Count("DepthRange"))

	rc.SetDepthTest(gpu.CompareLessEqual, 0, 0.5)
	assert.Equal(t, 2, rec.Count("DepthRange"))

	rc.SetDepthTest(gpu.CompareNone, 0, 1)
	assert.Equal(t, 1, rec.CountWith("Disable", gpu.CapabilityDepthTest))

	rc.SetDepthMask(true)
	assert.Zero(t, rec.Count("DepthMask"))
	rc.SetDepthMask(false)
	rc.SetDepthMask(false)
	assert.Equal(t, 1, rec.CountWith("DepthMask", false))
}

func TestRenderContextCullFace(t *testing.T) {
	rc, rec := newTestContext(t)

	rc.SetCullFace(gpu.FaceBack)
	rc.SetCullFace(gpu.FaceBack)
	assert.Equal(t, 1, rec.CountWith("Enable", gpu.CapabilityCullFace))
	assert.Equal(t, 1, rec.CountWith("CullFace", gpu.FaceBack))

	rc.SetCullFace(gpu.FaceFront)
	assert.Equal(t, 1, rec.CountWith("Enable", gpu.CapabilityCullFace))
	assert.Equal(t, 1, rec.CountWith("CullFace", gpu.FaceFront))

	rc.SetCullFace(gpu.FaceNone)
	assert.Equal(t, 1, rec.CountWith("Disable", gpu.CapabilityCullFace))
}

func TestRenderContextEndRestoresBaseline(t *testing.T) {
	rc, rec := newTestContext(t)

	rc.SetBlending(true, gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha)
	rc.SetDepthTest(gpu.CompareLess, 0, 1)
	rc.SetDepthMask(false)
	rc.SetCullFace(gpu.FaceBack)
	rec.Reset()

	rc.End()
	assert.Equal(t, 1, rec.CountWith("Disable", gpu.CapabilityBlend))
	assert.Equal(t, 1, rec.CountWith("Disable", gpu.CapabilityDepthTest))
	assert.Equal(t, 1, rec.CountWith("Disable", gpu.CapabilityCullFace))
	assert.Equal(t, 1, rec.CountWith("DepthMask", true))
	assert.Equal(t, 1, rec.CountWith("ActiveTexture", 0))

	rec.Reset()
	rc.Begin()
	rc.End()
	assert.Equal(t, 1, rec.CountWith("ActiveTexture", 0))
	assert.Zero(t, rec.Count("Enable"))
}
