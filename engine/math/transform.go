package math

import "github.com/go-gl/mathgl/mgl32"

// Translation returns the translation part of a column-major transform.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// HasRotationOrScaling reports whether the upper 3x3 of m differs from identity.
func HasRotationOrScaling(m mgl32.Mat4) bool {
	return !(mgl32.FloatEqual(m[0], 1) && mgl32.FloatEqual(m[5], 1) && mgl32.FloatEqual(m[10], 1) &&
		mgl32.FloatEqual(m[1], 0) && mgl32.FloatEqual(m[2], 0) &&
		mgl32.FloatEqual(m[4], 0) && mgl32.FloatEqual(m[6], 0) &&
		mgl32.FloatEqual(m[8], 0) && mgl32.FloatEqual(m[9], 0))
}

// TransformPoint transforms p by m, treating p as a point (w = 1).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// WorldCenter returns the world-space position of a local center under the
// given world transform. Pure translations skip the matrix multiplication.
func WorldCenter(world mgl32.Mat4, center mgl32.Vec3) mgl32.Vec3 {
	switch {
	case center == (mgl32.Vec3{}):
		return Translation(world)
	case !HasRotationOrScaling(world):
		return Translation(world).Add(center)
	default:
		return TransformPoint(world, center)
	}
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of m, used to
// transform normals. Singular matrices fall back to the plain upper 3x3.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	m3 := m.Mat3()
	if mgl32.FloatEqual(m3.Det(), 0) {
		return m3
	}
	return m3.Inv().Transpose()
}
