package attributes

import "cmp"

// FloatAttribute carries a single scalar such as shininess or an alpha test threshold.
type FloatAttribute struct {
	t     Type
	Value float32
}

func NewFloatAttribute(t Type, value float32) *FloatAttribute {
	return &FloatAttribute{t: t, Value: value}
}

func NewShininess(value float32) *FloatAttribute {
	return NewFloatAttribute(Shininess, value)
}

func NewAlphaTest(value float32) *FloatAttribute {
	return NewFloatAttribute(AlphaTest, value)
}

func (a *FloatAttribute) Type() Type { return a.t }

func (a *FloatAttribute) Copy() Attribute {
	return &FloatAttribute{t: a.t, Value: a.Value}
}

func (a *FloatAttribute) Equal(other Attribute) bool {
	o, ok := other.(*FloatAttribute)
	return ok && a.t == o.t && a.Value == o.Value
}

func (a *FloatAttribute) Compare(other Attribute) int {
	if c := compareTypes(a, other); c != 0 {
		return c
	}
	return cmp.Compare(a.Value, other.(*FloatAttribute).Value)
}

func (a *FloatAttribute) Hash() uint32 {
	return hashFloat(baseHash(a.t), a.Value)
}
