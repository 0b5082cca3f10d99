package gpu

import (
	"cmp"
	"fmt"
	"strings"
)

// VertexUsage identifies what a vertex attribute carries. Values are bit flags
// so a layout can be summarised as a mask.
type VertexUsage uint32

const (
	UsagePosition VertexUsage = 1 << iota
	UsageColorUnpacked
	UsageColorPacked
	UsageNormal
	UsageTextureCoordinates
	UsageGeneric
	UsageBoneWeight
	UsageTangent
	UsageBiNormal
)

// ComponentType is the storage type of a single attribute component.
type ComponentType int

const (
	ComponentFloat ComponentType = iota
	ComponentUnsignedByte
)

// VertexAttribute describes a single attribute of a vertex layout.
type VertexAttribute struct {
	Usage         VertexUsage
	NumComponents int
	Type          ComponentType
	Normalized    bool
	Alias         string
	Unit          int
	// Offset in bytes from the start of the vertex, computed by NewVertexAttributes.
	Offset int
}

// SizeInBytes returns the number of bytes the attribute occupies in a vertex.
func (a VertexAttribute) SizeInBytes() int {
	if a.Type == ComponentUnsignedByte {
		return a.NumComponents
	}
	return 4 * a.NumComponents
}

// Equal compares two attributes ignoring their offsets.
func (a VertexAttribute) Equal(other VertexAttribute) bool {
	return a.Usage == other.Usage &&
		a.NumComponents == other.NumComponents &&
		a.Type == other.Type &&
		a.Normalized == other.Normalized &&
		a.Alias == other.Alias &&
		a.Unit == other.Unit
}

// Location is the shader input slot the attribute is bound to. Slots are
// fixed per usage so programs can declare them with layout qualifiers.
func (a VertexAttribute) Location() uint32 {
	switch a.Usage {
	case UsagePosition:
		return 0
	case UsageNormal:
		return 1
	case UsageColorUnpacked, UsageColorPacked:
		return 2
	case UsageTextureCoordinates:
		return 3 + uint32(a.Unit)
	case UsageTangent:
		return 7
	case UsageBiNormal:
		return 8
	case UsageBoneWeight:
		return 9 + uint32(a.Unit)
	}
	return 13 + uint32(a.Unit)
}

func (a VertexAttribute) compare(other VertexAttribute) int {
	if c := cmp.Compare(a.Usage, other.Usage); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Unit, other.Unit); c != 0 {
		return c
	}
	if c := cmp.Compare(a.NumComponents, other.NumComponents); c != 0 {
		return c
	}
	if a.Normalized != other.Normalized {
		if a.Normalized {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Type, other.Type)
}

func Position() VertexAttribute {
	return VertexAttribute{Usage: UsagePosition, NumComponents: 3, Alias: "a_position"}
}

func Normal() VertexAttribute {
	return VertexAttribute{Usage: UsageNormal, NumComponents: 3, Alias: "a_normal"}
}

func ColorUnpacked() VertexAttribute {
	return VertexAttribute{Usage: UsageColorUnpacked, NumComponents: 4, Alias: "a_color"}
}

// ColorPacked stores RGBA as four normalized bytes, one float slot wide.
func ColorPacked() VertexAttribute {
	return VertexAttribute{Usage: UsageColorPacked, NumComponents: 4, Type: ComponentUnsignedByte, Normalized: true, Alias: "a_color"}
}

func TexCoords(unit int) VertexAttribute {
	return VertexAttribute{Usage: UsageTextureCoordinates, NumComponents: 2, Alias: fmt.Sprintf("a_texCoord%d", unit), Unit: unit}
}

func Tangent() VertexAttribute {
	return VertexAttribute{Usage: UsageTangent, NumComponents: 3, Alias: "a_tangent"}
}

func BoneWeight(unit int) VertexAttribute {
	return VertexAttribute{Usage: UsageBoneWeight, NumComponents: 2, Alias: fmt.Sprintf("a_boneWeight%d", unit), Unit: unit}
}

// VertexAttributes is an immutable vertex layout.
type VertexAttributes struct {
	attributes []VertexAttribute
	stride     int
	mask       uint64
}

// NewVertexAttributes builds a layout and computes the attribute offsets.
func NewVertexAttributes(attributes ...VertexAttribute) *VertexAttributes {
	va := &VertexAttributes{attributes: make([]VertexAttribute, len(attributes))}
	offset := 0
	for i, a := range attributes {
		a.Offset = offset
		offset += a.SizeInBytes()
		va.attributes[i] = a
		va.mask |= uint64(a.Usage)
	}
	va.stride = offset
	return va
}

func (va *VertexAttributes) Len() int { return len(va.attributes) }

func (va *VertexAttributes) Get(i int) VertexAttribute { return va.attributes[i] }

// Attributes returns a copy of the attribute list.
func (va *VertexAttributes) Attributes() []VertexAttribute {
	return append([]VertexAttribute(nil), va.attributes...)
}

// Stride is the size of a vertex in bytes.
func (va *VertexAttributes) Stride() int { return va.stride }

// FloatStride is the size of a vertex in float32 slots.
func (va *VertexAttributes) FloatStride() int { return va.stride / 4 }

// Mask is the union of all attribute usages.
func (va *VertexAttributes) Mask() uint64 { return va.mask }

// FindByUsage returns the first attribute carrying usage.
func (va *VertexAttributes) FindByUsage(usage VertexUsage) (VertexAttribute, bool) {
	for _, a := range va.attributes {
		if a.Usage == usage {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

// Equal reports whether both layouts describe the same attributes in the same order.
func (va *VertexAttributes) Equal(other *VertexAttributes) bool {
	if va == other {
		return true
	}
	if va == nil || other == nil || len(va.attributes) != len(other.attributes) {
		return false
	}
	for i := range va.attributes {
		if !va.attributes[i].Equal(other.attributes[i]) {
			return false
		}
	}
	return true
}

// Compare gives layouts a total order: by usage mask, attribute count and
// then attribute by attribute.
func (va *VertexAttributes) Compare(other *VertexAttributes) int {
	if va == other {
		return 0
	}
	if va == nil {
		return -1
	}
	if other == nil {
		return 1
	}
	if c := cmp.Compare(va.mask, other.mask); c != 0 {
		return c
	}
	if c := cmp.Compare(len(va.attributes), len(other.attributes)); c != 0 {
		return c
	}
	for i := len(va.attributes) - 1; i >= 0; i-- {
		if c := va.attributes[i].compare(other.attributes[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (va *VertexAttributes) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, a := range va.attributes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s(%d)", a.Alias, a.NumComponents)
	}
	sb.WriteString("]")
	return sb.String()
}
