package attributes

import (
	"cmp"
	"math"
)

// Attribute is a single typed material or environment property.
type Attribute interface {
	Type() Type
	// Copy returns an independent attribute with the same type and value.
	Copy() Attribute
	Equal(other Attribute) bool
	// Compare orders attributes by type and then by value.
	Compare(other Attribute) int
	Hash() uint32
}

// Built-in attribute types, registered in this order.
var (
	DiffuseColor      = MustRegister("diffuseColor")
	SpecularColor     = MustRegister("specularColor")
	AmbientColor      = MustRegister("ambientColor")
	EmissiveColor     = MustRegister("emissiveColor")
	ReflectionColor   = MustRegister("reflectionColor")
	AmbientLightColor = MustRegister("ambientLightColor")
	FogColor          = MustRegister("fogColor")

	Shininess = MustRegister("shininess")
	AlphaTest = MustRegister("alphaTest")

	CullFace = MustRegister("cullface")

	Blended = MustRegister("blended")

	DepthTest = MustRegister("depthStencil")

	DiffuseTexture    = MustRegister("diffuseTexture")
	SpecularTexture   = MustRegister("specularTexture")
	NormalTexture     = MustRegister("normalTexture")
	EmissiveTexture   = MustRegister("emissiveTexture")
	AmbientTexture    = MustRegister("ambientTexture")
	ReflectionTexture = MustRegister("reflectionTexture")
)

var (
	// ColorTypes is the mask of every color attribute type.
	ColorTypes = DiffuseColor | SpecularColor | AmbientColor | EmissiveColor | ReflectionColor | AmbientLightColor | FogColor
	// TextureTypes is the mask of every texture attribute type.
	TextureTypes = DiffuseTexture | SpecularTexture | NormalTexture | EmissiveTexture | AmbientTexture | ReflectionTexture
)

func baseHash(t Type) uint32 {
	return 7489 * uint32(t.Index()+1)
}

func hashFloat(h uint32, f float32) uint32 {
	return 953*h + math.Float32bits(f)
}

// compareTypes orders attributes of different types; zero means same type.
func compareTypes(a, b Attribute) int {
	return cmp.Compare(a.Type(), b.Type())
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}
