package attributes

import (
	"cmp"

	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

// TextureAttribute references a texture and the region of it that gets sampled.
type TextureAttribute struct {
	t          Type
	Descriptor gpu.TextureDescriptor
	OffsetU    float32
	OffsetV    float32
	ScaleU     float32
	ScaleV     float32
	// UVIndex selects the texture coordinate set.
	UVIndex int
}

func NewTextureAttribute(t Type, desc gpu.TextureDescriptor) *TextureAttribute {
	return &TextureAttribute{t: t, Descriptor: desc, ScaleU: 1, ScaleV: 1}
}

func NewDiffuseTexture(texture *gpu.Texture) *TextureAttribute {
	return NewTextureAttribute(DiffuseTexture, gpu.NewTextureDescriptor(texture))
}

func NewSpecularTexture(texture *gpu.Texture) *TextureAttribute {
	return NewTextureAttribute(SpecularTexture, gpu.NewTextureDescriptor(texture))
}

func NewNormalTexture(texture *gpu.Texture) *TextureAttribute {
	return NewTextureAttribute(NormalTexture, gpu.NewTextureDescriptor(texture))
}

func NewEmissiveTexture(texture *gpu.Texture) *TextureAttribute {
	return NewTextureAttribute(EmissiveTexture, gpu.NewTextureDescriptor(texture))
}

func NewAmbientTexture(texture *gpu.Texture) *TextureAttribute {
	return NewTextureAttribute(AmbientTexture, gpu.NewTextureDescriptor(texture))
}

func NewReflectionTexture(texture *gpu.Texture) *TextureAttribute {
	return NewTextureAttribute(ReflectionTexture, gpu.NewTextureDescriptor(texture))
}

func (a *TextureAttribute) Type() Type { return a.t }

func (a *TextureAttribute) Copy() Attribute {
	c := *a
	return &c
}

func (a *TextureAttribute) Equal(other Attribute) bool {
	o, ok := other.(*TextureAttribute)
	return ok && *a == *o
}

func (a *TextureAttribute) Compare(other Attribute) int {
	if c := compareTypes(a, other); c != 0 {
		return c
	}
	o := other.(*TextureAttribute)
	if c := a.Descriptor.Compare(o.Descriptor); c != 0 {
		return c
	}
	if c := cmp.Compare(a.UVIndex, o.UVIndex); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ScaleU, o.ScaleU); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ScaleV, o.ScaleV); c != 0 {
		return c
	}
	if c := cmp.Compare(a.OffsetU, o.OffsetU); c != 0 {
		return c
	}
	return cmp.Compare(a.OffsetV, o.OffsetV)
}

func (a *TextureAttribute) Hash() uint32 {
	h := 991*baseHash(a.t) + a.Descriptor.Hash()
	h = hashFloat(h, a.OffsetU)
	h = hashFloat(h, a.OffsetV)
	h = hashFloat(h, a.ScaleU)
	h = hashFloat(h, a.ScaleV)
	return 991*h + uint32(a.UVIndex)
}
