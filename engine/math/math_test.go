package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestClampAndSign(t *testing.T) {
	assert.Equal(t, 3, Clamp(5, 0, 3))
	assert.Equal(t, float32(-1), Clamp(float32(-4), -1, 1))
	assert.Equal(t, 2, Clamp(2, 0, 3))
	assert.Equal(t, -1, Sign(-0.5))
	assert.Equal(t, 0, Sign(0))
	assert.Equal(t, 1, Sign(int8(9)))
}

func TestWorldCenter(t *testing.T) {
	world := mgl32.Translate3D(1, 2, 3)
	assert.False(t, HasRotationOrScaling(world))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, WorldCenter(world, mgl32.Vec3{}))
	assert.Equal(t, mgl32.Vec3{2, 2, 3}, WorldCenter(world, mgl32.Vec3{1, 0, 0}))

	scaled := world.Mul4(mgl32.Scale3D(2, 2, 2))
	assert.True(t, HasRotationOrScaling(scaled))
	assert.True(t, WorldCenter(scaled, mgl32.Vec3{1, 0, 0}).ApproxEqual(mgl32.Vec3{3, 2, 3}))
}

func TestNormalMatrix(t *testing.T) {
	n := NormalMatrix(mgl32.Scale3D(2, 1, 1))
	v := n.Mul3x1(mgl32.Vec3{1, 0, 0})
	assert.True(t, v.ApproxEqual(mgl32.Vec3{0.5, 0, 0}))

	singular := NormalMatrix(mgl32.Scale3D(0, 1, 1))
	assert.Equal(t, mgl32.Scale3D(0, 1, 1).Mat3(), singular)
}

func TestExtents(t *testing.T) {
	var e Extents3D
	assert.False(t, e.IsValid())
	e.Extend(mgl32.Vec3{1, -1, 0})
	e.Extend(mgl32.Vec3{-1, 3, 2})
	assert.True(t, e.IsValid())
	assert.Equal(t, mgl32.Vec3{-1, -1, 0}, e.Min)
	assert.Equal(t, mgl32.Vec3{1, 3, 2}, e.Max)
	assert.Equal(t, mgl32.Vec3{0, 1, 1}, e.Center())
	assert.Equal(t, mgl32.Vec3{1, 2, 1}, e.HalfExtents())
}

func TestGenerateFaceNormals(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	normals := GenerateFaceNormals(positions, []uint16{0, 1, 2})
	for _, n := range normals {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, n)
	}
}

func TestSinCos(t *testing.T) {
	assert.InDelta(t, 1.0, float64(Sin(Pi/2)), 1e-6)
	assert.InDelta(t, -1.0, float64(Cos(Pi)), 1e-6)
}
