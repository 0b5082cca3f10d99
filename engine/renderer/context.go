package renderer

import (
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

/**
 * @brief Shadows the fixed-function GPU state so that only actual
 * changes reach the backend. All state changes made while rendering
 * must go through the context, otherwise the shadow goes stale.
 */
type RenderContext struct {
	backend gpu.Backend
	binder  *TextureBinder

	blending     bool
	blendValid   bool
	blendSrc     gpu.BlendFactor
	blendDst     gpu.BlendFactor
	depthFunc    gpu.CompareFunc
	depthRangeN  float32
	depthRangeF  float32
	depthMask    bool
	cullFaceMode gpu.Face
}

// NewRenderContext creates a context that binds textures through binder.
func NewRenderContext(backend gpu.Backend, binder *TextureBinder) *RenderContext {
	return &RenderContext{
		backend: backend,
		binder:  binder,
	}
}

func (rc *RenderContext) Backend() gpu.Backend { return rc.backend }

func (rc *RenderContext) TextureBinder() *TextureBinder { return rc.binder }

// Begin puts the GPU into the known baseline: no depth test, depth writes on,
// no blending, no culling.
func (rc *RenderContext) Begin() {
	rc.backend.Disable(gpu.CapabilityDepthTest)
	rc.depthFunc = gpu.CompareNone
	rc.backend.DepthMask(true)
	rc.depthMask = true
	rc.backend.Disable(gpu.CapabilityBlend)
	rc.blending = false
	rc.blendValid = false
	rc.backend.Disable(gpu.CapabilityCullFace)
	rc.cullFaceMode = gpu.FaceNone
	rc.depthRangeN, rc.depthRangeF = 0, 0
	rc.binder.Begin()
}

// End restores the baseline for whoever renders next.
func (rc *RenderContext) End() {
	if rc.depthFunc != gpu.CompareNone {
		rc.backend.Disable(gpu.CapabilityDepthTest)
	}
	if !rc.depthMask {
		rc.backend.DepthMask(true)
	}
	if rc.blending {
		rc.backend.Disable(gpu.CapabilityBlend)
	}
	if rc.cullFaceMode.Culls() {
		rc.backend.Disable(gpu.CapabilityCullFace)
	}
	rc.binder.End()
}

func (rc *RenderContext) SetDepthMask(write bool) {
	if rc.depthMask != write {
		rc.depthMask = write
		rc.backend.DepthMask(write)
	}
}

// SetDepthTest sets the depth function and range. CompareNone disables depth testing.
func (rc *RenderContext) SetDepthTest(fn gpu.CompareFunc, near, far float32) {
	wasEnabled := rc.depthFunc != gpu.CompareNone
	enabled := fn != gpu.CompareNone
	if rc.depthFunc != fn {
		rc.depthFunc = fn
		if enabled {
			if !wasEnabled {
				rc.backend.Enable(gpu.CapabilityDepthTest)
			}
			rc.backend.DepthFunc(fn)
		} else {
			rc.backend.Disable(gpu.CapabilityDepthTest)
		}
	}
	if enabled {
		if !wasEnabled || rc.depthRangeN != near || rc.depthRangeF != far {
			rc.depthRangeN, rc.depthRangeF = near, far
			rc.backend.DepthRange(near, far)
		}
	}
}

// SetBlending toggles blending; the factors are only applied while blending is enabled.
func (rc *RenderContext) SetBlending(enabled bool, src, dst gpu.BlendFactor) {
	if enabled != rc.blending {
		rc.blending = enabled
		if enabled {
			rc.backend.Enable(gpu.CapabilityBlend)
		} else {
			rc.backend.Disable(gpu.CapabilityBlend)
		}
	}
	if enabled && (!rc.blendValid || rc.blendSrc != src || rc.blendDst != dst) {
		rc.backend.BlendFunc(src, dst)
		rc.blendSrc, rc.blendDst = src, dst
		rc.blendValid = true
	}
}

// SetCullFace selects the culled faces. FaceNone disables culling.
func (rc *RenderContext) SetCullFace(face gpu.Face) {
	if face == rc.cullFaceMode {
		return
	}
	wasCulling := rc.cullFaceMode.Culls()
	rc.cullFaceMode = face
	if face.Culls() {
		if !wasCulling {
			rc.backend.Enable(gpu.CapabilityCullFace)
		}
		rc.backend.CullFace(face)
	} else {
		rc.backend.Disable(gpu.CapabilityCullFace)
	}
}
