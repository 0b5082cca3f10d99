package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

func TestMeshBuilderTransformsVertices(t *testing.T) {
	b := NewMeshBuilder(0)
	assert.Equal(t, MAX_VERTICES, b.MaxVertices())

	b.Begin(testBox.Layout)
	part := b.Part("moved", gpu.PrimitiveTriangles, &metadata.MeshPart{})
	b.SetVertexTransform(mgl32.Translate3D(1, 0, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))))
	require.NoError(t, b.AddMesh(testBox, 0, 6))
	assert.Equal(t, 4, b.NumVertices())
	assert.Equal(t, 6, b.NumIndices())

	mesh := metadata.NewMesh("out", false, 4, 6, testBox.Layout)
	require.NoError(t, b.End(mesh))
	assert.Same(t, mesh, part.Mesh)
	assert.Equal(t, 6, part.Size)
	assert.Nil(t, b.Layout())

	// The front face (+Z) ends up facing +X, one unit along X.
	normal, ok := testBox.Layout.FindByUsage(gpu.UsageNormal)
	require.True(t, ok)
	for i := 0; i < mesh.NumVertices(); i++ {
		n := mesh.Vertex(i)[normal.Offset/4:]
		assert.InDelta(t, 1, n[0], 1e-5)
		assert.InDelta(t, 0, n[2], 1e-5)
		assert.InDelta(t, 1.5, mesh.Position(i).X(), 1e-5)
	}
}

func TestMeshBuilderParts(t *testing.T) {
	b := NewMeshBuilder(0)
	b.Begin(testBox.Layout)
	first := b.Part("first", gpu.PrimitiveTriangles, &metadata.MeshPart{})
	require.NoError(t, b.AddMesh(testBox, 0, 6))
	second := b.Part("second", gpu.PrimitiveTriangles, &metadata.MeshPart{})
	require.NoError(t, b.AddMesh(testBox, 6, 12))

	mesh := metadata.NewMesh("out", false, 64, 64, testBox.Layout)
	require.NoError(t, b.End(mesh))
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 6, first.Size)
	assert.Equal(t, 6, second.Offset)
	assert.Equal(t, 12, second.Size)
	assert.Equal(t, 12, mesh.NumVertices())
}

func TestMeshBuilderUnindexedSource(t *testing.T) {
	layout := gpu.NewVertexAttributes(gpu.Position())
	tri := metadata.NewMesh("tri", false, 3, 0, layout)
	require.NoError(t, tri.SetVertices([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))

	b := NewMeshBuilder(0)
	b.Begin(layout)
	b.Part("", gpu.PrimitiveTriangles, &metadata.MeshPart{})
	require.NoError(t, b.AddMesh(tri, 0, 3))
	require.NoError(t, b.AddMesh(tri, 0, 3))

	mesh := metadata.NewMesh("out", false, 6, 6, layout)
	require.NoError(t, b.End(mesh))
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5}, mesh.Indices())
}

func TestMeshBuilderCountVertices(t *testing.T) {
	b := NewMeshBuilder(0)
	assert.Equal(t, testBox.NumVertices(), b.CountVertices(testBox, 0, testBox.NumIndices()))
	assert.Equal(t, 4, b.CountVertices(testBox, 0, 6))

	tri := metadata.NewMesh("tri", false, 3, 0, gpu.NewVertexAttributes(gpu.Position()))
	assert.Equal(t, 3, b.CountVertices(tri, 0, 3))
}

func TestMeshBuilderErrors(t *testing.T) {
	b := NewMeshBuilder(10)
	assert.ErrorIs(t, b.AddMesh(testBox, 0, 6), core.ErrNotBegun)

	b.Begin(testBox.Layout)
	b.Part("", gpu.PrimitiveTriangles, &metadata.MeshPart{})
	assert.ErrorIs(t, b.AddMesh(testBox, 0, 36), core.ErrMeshCapacity)

	b.Begin(gpu.NewVertexAttributes(gpu.Position()))
	assert.Error(t, b.AddMesh(testBox, 0, 6))
}

func TestNextPowerOfTwo(t *testing.T) {
	for v, want := range map[int]int{0: 1, 1: 1, 2: 2, 5: 8, 8: 8, 9: 16, 1000: 1024} {
		assert.Equal(t, want, nextPowerOfTwo(v), "%d", v)
	}
}

func TestSimpleMeshPoolReusesAfterFlush(t *testing.T) {
	p := NewSimpleMeshPool(100)
	layout := testBox.Layout

	m1 := p.Obtain(layout, 10, 20)
	assert.Equal(t, 100, m1.MaxVertices)
	assert.Equal(t, 100, m1.MaxIndices)
	m2 := p.Obtain(layout, 10, 20)
	assert.NotSame(t, m1, m2)
	assert.Equal(t, 2, p.Len())

	big := p.Obtain(layout, 10, 300)
	assert.Equal(t, 512, big.MaxIndices)

	p.Flush()
	again := p.Obtain(layout, 50, 50)
	assert.Same(t, m1, again)
	other := p.Obtain(gpu.NewVertexAttributes(gpu.Position()), 5, 5)
	assert.NotSame(t, m2, other)
	assert.Equal(t, 4, p.Len())

	p.Dispose()
	assert.Zero(t, p.Len())
}

func TestTightMeshPoolMatchesExactSizes(t *testing.T) {
	p := NewTightMeshPool()
	layout := testBox.Layout

	m := p.Obtain(layout, 10, 20)
	assert.Equal(t, 10, m.MaxVertices)
	assert.Equal(t, 20, m.MaxIndices)
	assert.True(t, m.Static)

	p.Flush()
	assert.NotSame(t, m, p.Obtain(layout, 12, 20))
	assert.Same(t, m, p.Obtain(layout, 10, 20))
	assert.Equal(t, 2, p.Len())
}
