package attributes

import (
	"cmp"

	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

// BlendingAttribute enables alpha blending for a material.
type BlendingAttribute struct {
	Blended bool
	Src     gpu.BlendFactor
	Dst     gpu.BlendFactor
	Opacity float32
}

// NewBlending blends with the given factors and opacity.
func NewBlending(src, dst gpu.BlendFactor, opacity float32) *BlendingAttribute {
	return &BlendingAttribute{Blended: true, Src: src, Dst: dst, Opacity: opacity}
}

// NewAlphaBlending blends with src alpha / one minus src alpha.
func NewAlphaBlending(opacity float32) *BlendingAttribute {
	return NewBlending(gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha, opacity)
}

func (a *BlendingAttribute) Type() Type { return Blended }

func (a *BlendingAttribute) Copy() Attribute {
	c := *a
	return &c
}

func (a *BlendingAttribute) Equal(other Attribute) bool {
	o, ok := other.(*BlendingAttribute)
	return ok && *a == *o
}

func (a *BlendingAttribute) Compare(other Attribute) int {
	if c := compareTypes(a, other); c != 0 {
		return c
	}
	o := other.(*BlendingAttribute)
	if c := compareBool(a.Blended, o.Blended); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Src, o.Src); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Dst, o.Dst); c != 0 {
		return c
	}
	return cmp.Compare(a.Opacity, o.Opacity)
}

func (a *BlendingAttribute) Hash() uint32 {
	h := baseHash(Blended)
	if a.Blended {
		h = 947*h + 1
	}
	h = 947*h + uint32(a.Src)
	h = 947*h + uint32(a.Dst)
	return hashFloat(h, a.Opacity)
}
