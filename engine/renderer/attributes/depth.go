package attributes

import (
	"cmp"

	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

// DepthTestAttribute configures depth testing and depth writes.
type DepthTestAttribute struct {
	Func  gpu.CompareFunc
	Near  float32
	Far   float32
	Write bool
}

// NewDepthTest tests with fn over the full depth range, writing depth.
func NewDepthTest(fn gpu.CompareFunc) *DepthTestAttribute {
	return &DepthTestAttribute{Func: fn, Near: 0, Far: 1, Write: true}
}

func (a *DepthTestAttribute) Type() Type { return DepthTest }

func (a *DepthTestAttribute) Copy() Attribute {
	c := *a
	return &c
}

func (a *DepthTestAttribute) Equal(other Attribute) bool {
	o, ok := other.(*DepthTestAttribute)
	return ok && *a == *o
}

func (a *DepthTestAttribute) Compare(other Attribute) int {
	if c := compareTypes(a, other); c != 0 {
		return c
	}
	o := other.(*DepthTestAttribute)
	if c := cmp.Compare(a.Func, o.Func); c != 0 {
		return c
	}
	if c := compareBool(a.Write, o.Write); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Near, o.Near); c != 0 {
		return c
	}
	return cmp.Compare(a.Far, o.Far)
}

func (a *DepthTestAttribute) Hash() uint32 {
	h := 971*baseHash(DepthTest) + uint32(a.Func)
	h = hashFloat(h, a.Near)
	h = hashFloat(h, a.Far)
	if a.Write {
		h = 971*h + 1
	}
	return h
}
