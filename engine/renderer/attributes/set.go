package attributes

import (
	"cmp"
	"math/bits"
	"slices"
)

/**
 * @brief A collection of attributes with at most one attribute per type.
 * The attributes are kept sorted by type so iteration, comparison and
 * hashing are deterministic.
 */
type Set struct {
	mask       uint64
	attributes []Attribute
}

// NewSet creates a set holding attrs.
func NewSet(attrs ...Attribute) *Set {
	s := &Set{}
	s.Set(attrs...)
	return s
}

func (s *Set) sort() {
	slices.SortFunc(s.attributes, func(a, b Attribute) int {
		return cmp.Compare(a.Type(), b.Type())
	})
}

func (s *Set) indexOf(t Type) int {
	if s.mask&uint64(t) == 0 {
		return -1
	}
	for i, a := range s.attributes {
		if a.Type() == t {
			return i
		}
	}
	return -1
}

// Set adds attrs, replacing any attribute of the same type.
func (s *Set) Set(attrs ...Attribute) {
	for _, a := range attrs {
		if a == nil {
			continue
		}
		if idx := s.indexOf(a.Type()); idx >= 0 {
			s.attributes[idx] = a
			continue
		}
		s.mask |= uint64(a.Type())
		s.attributes = append(s.attributes, a)
	}
	s.sort()
}

// Remove drops every attribute whose type is in mask.
func (s *Set) Remove(mask Type) {
	if s.mask&uint64(mask) == 0 {
		return
	}
	s.attributes = slices.DeleteFunc(s.attributes, func(a Attribute) bool {
		return uint64(a.Type())&uint64(mask) != 0
	})
	s.mask &^= uint64(mask)
}

// Get returns the attribute of type t, or nil when absent.
func (s *Set) Get(t Type) Attribute {
	if idx := s.indexOf(t); idx >= 0 {
		return s.attributes[idx]
	}
	return nil
}

// Has reports whether every type in mask is present. The zero mask is never present.
func (s *Set) Has(mask Type) bool {
	return mask != 0 && s.mask&uint64(mask) == uint64(mask)
}

// Mask returns the union of the types in the set.
func (s *Set) Mask() uint64 { return s.mask }

func (s *Set) Len() int { return len(s.attributes) }

// Attributes returns the attributes in ascending type order. The returned
// slice is owned by the set.
func (s *Set) Attributes() []Attribute { return s.attributes }

func (s *Set) Clear() {
	s.mask = 0
	s.attributes = s.attributes[:0]
}

// CopyFrom replaces the contents of s with copies of the attributes in other.
func (s *Set) CopyFrom(other *Set) {
	s.Clear()
	for _, a := range other.attributes {
		s.attributes = append(s.attributes, a.Copy())
	}
	s.mask = other.mask
}

// Same reports whether both sets hold the same types and, if compareValues
// is set, equal values for each of them.
func (s *Set) Same(other *Set, compareValues bool) bool {
	if s == other {
		return true
	}
	if other == nil || s.mask != other.mask {
		return false
	}
	if !compareValues {
		return true
	}
	for i := range s.attributes {
		if !s.attributes[i].Equal(other.attributes[i]) {
			return false
		}
	}
	return true
}

// Equal is Same with value comparison.
func (s *Set) Equal(other *Set) bool {
	return s.Same(other, true)
}

// Compare orders sets by their mask and then attribute by attribute.
func (s *Set) Compare(other *Set) int {
	if s == other {
		return 0
	}
	if other == nil {
		return 1
	}
	if c := cmp.Compare(s.mask, other.mask); c != 0 {
		return c
	}
	for i := range s.attributes {
		if c := s.attributes[i].Compare(other.attributes[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Hash returns a content hash that only depends on the types and values in the set.
func (s *Set) Hash() uint32 {
	mask := int64(s.mask)
	result := 71 + mask
	m := int64(1)
	for _, a := range s.attributes {
		m = (m * 7) & 0xFFFF
		result += mask * int64(a.Hash()) * m
	}
	return uint32(result ^ (result >> 32))
}

// Count returns how many types of mask are present.
func (s *Set) Count(mask Type) int {
	return bits.OnesCount64(s.mask & uint64(mask))
}
