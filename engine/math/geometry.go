package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min mgl32.Vec3
	/** @brief The maximum extents of the object. */
	Max mgl32.Vec3
	valid bool
}

// Extend grows the extents so that they contain p.
func (e *Extents3D) Extend(p mgl32.Vec3) {
	if !e.valid {
		e.Min, e.Max, e.valid = p, p, true
		return
	}
	for i := 0; i < 3; i++ {
		if p[i] < e.Min[i] {
			e.Min[i] = p[i]
		}
		if p[i] > e.Max[i] {
			e.Max[i] = p[i]
		}
	}
}

// IsValid reports whether at least one point was added.
func (e *Extents3D) IsValid() bool {
	return e.valid
}

func (e *Extents3D) Center() mgl32.Vec3 {
	return e.Min.Add(e.Max).Mul(0.5)
}

func (e *Extents3D) HalfExtents() mgl32.Vec3 {
	return e.Max.Sub(e.Min).Mul(0.5)
}

// GenerateFaceNormals computes one flat normal per triangle and assigns it to
// each of the triangle's vertices.
func GenerateFaceNormals(positions []mgl32.Vec3, indices []uint16) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := positions[i1].Sub(positions[i0])
		edge2 := positions[i2].Sub(positions[i0])

		normal := edge1.Cross(edge2)
		if normal.Len() > 0 {
			normal = normal.Normalize()
		}

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		normals[i0] = normal
		normals[i1] = normal
		normals[i2] = normal
	}
	return normals
}
