package gpu

// Capability is a server-side GPU capability toggled with Enable/Disable.
type Capability int

const (
	CapabilityDepthTest Capability = iota + 1
	CapabilityBlend
	CapabilityCullFace
)

func (c Capability) String() string {
	switch c {
	case CapabilityDepthTest:
		return "depth_test"
	case CapabilityBlend:
		return "blend"
	case CapabilityCullFace:
		return "cull_face"
	}
	return "unknown"
}

// CompareFunc is a depth comparison function. CompareNone disables depth testing.
type CompareFunc int

const (
	CompareNone CompareFunc = iota
	CompareNever
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// BlendFactor is a source or destination blending factor.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendSrcAlphaSaturate
)

// Face selects the polygons that get culled. FaceNone disables culling.
type Face int

const (
	FaceNone Face = iota
	FaceFront
	FaceBack
	FaceFrontAndBack
)

// Culls reports whether the face mode enables culling.
func (f Face) Culls() bool {
	return f == FaceFront || f == FaceBack || f == FaceFrontAndBack
}

// Primitive is the topology used to assemble vertices. The numeric order is
// part of the mesh merge sort key.
type Primitive int

const (
	PrimitivePoints Primitive = iota
	PrimitiveLines
	PrimitiveLineLoop
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)
