package attributes

import (
	"cmp"

	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

// IntAttribute carries an integer setting.
type IntAttribute struct {
	t     Type
	Value int
}

func NewIntAttribute(t Type, value int) *IntAttribute {
	return &IntAttribute{t: t, Value: value}
}

// NewCullFace selects the faces to cull; gpu.FaceNone disables culling.
func NewCullFace(face gpu.Face) *IntAttribute {
	return NewIntAttribute(CullFace, int(face))
}

func (a *IntAttribute) Type() Type { return a.t }

func (a *IntAttribute) Copy() Attribute {
	return &IntAttribute{t: a.t, Value: a.Value}
}

func (a *IntAttribute) Equal(other Attribute) bool {
	o, ok := other.(*IntAttribute)
	return ok && a.t == o.t && a.Value == o.Value
}

func (a *IntAttribute) Compare(other Attribute) int {
	if c := compareTypes(a, other); c != 0 {
		return c
	}
	return cmp.Compare(a.Value, other.(*IntAttribute).Value)
}

func (a *IntAttribute) Hash() uint32 {
	return 983*baseHash(a.t) + uint32(a.Value)
}
