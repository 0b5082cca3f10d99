package attributes

import (
	"cmp"

	"github.com/go-gl/mathgl/mgl32"
)

// ColorAttribute carries an RGBA color.
type ColorAttribute struct {
	t     Type
	Color mgl32.Vec4
}

func NewColorAttribute(t Type, color mgl32.Vec4) *ColorAttribute {
	return &ColorAttribute{t: t, Color: color}
}

func NewDiffuseColor(color mgl32.Vec4) *ColorAttribute {
	return NewColorAttribute(DiffuseColor, color)
}

func NewSpecularColor(color mgl32.Vec4) *ColorAttribute {
	return NewColorAttribute(SpecularColor, color)
}

func NewAmbientColor(color mgl32.Vec4) *ColorAttribute {
	return NewColorAttribute(AmbientColor, color)
}

func NewEmissiveColor(color mgl32.Vec4) *ColorAttribute {
	return NewColorAttribute(EmissiveColor, color)
}

func NewReflectionColor(color mgl32.Vec4) *ColorAttribute {
	return NewColorAttribute(ReflectionColor, color)
}

func NewAmbientLightColor(color mgl32.Vec4) *ColorAttribute {
	return NewColorAttribute(AmbientLightColor, color)
}

func NewFogColor(color mgl32.Vec4) *ColorAttribute {
	return NewColorAttribute(FogColor, color)
}

func (a *ColorAttribute) Type() Type { return a.t }

func (a *ColorAttribute) Copy() Attribute {
	return &ColorAttribute{t: a.t, Color: a.Color}
}

func (a *ColorAttribute) Equal(other Attribute) bool {
	o, ok := other.(*ColorAttribute)
	return ok && a.t == o.t && a.Color == o.Color
}

func (a *ColorAttribute) Compare(other Attribute) int {
	if c := compareTypes(a, other); c != 0 {
		return c
	}
	o := other.(*ColorAttribute)
	for i := range a.Color {
		if c := cmp.Compare(a.Color[i], o.Color[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (a *ColorAttribute) Hash() uint32 {
	h := baseHash(a.t)
	for _, c := range a.Color {
		h = hashFloat(h, c)
	}
	return h
}
