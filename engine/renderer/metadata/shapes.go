package metadata

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/math"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

// BoxLayout is the vertex layout of the meshes created by NewBoxMesh.
func BoxLayout() *gpu.VertexAttributes {
	return gpu.NewVertexAttributes(gpu.Position(), gpu.Normal(), gpu.TexCoords(0))
}

/**
 * @brief Creates an indexed box centered on the origin. Every face has
 * its own four vertices so that normals stay flat.
 */
func NewBoxMesh(name string, width, height, depth float32) *Mesh {
	hw, hh, hd := width*0.5, height*0.5, depth*0.5
	corners := [8]mgl32.Vec3{
		{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd},
		{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, hh, -hd}, {-hw, hh, -hd},
	}
	// Counter clockwise when seen from outside.
	faces := [6][4]int{
		{0, 1, 2, 3}, // front
		{5, 4, 7, 6}, // back
		{4, 0, 3, 7}, // left
		{1, 5, 6, 2}, // right
		{3, 2, 6, 7}, // top
		{4, 5, 1, 0}, // bottom
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	positions := make([]mgl32.Vec3, 0, 24)
	indices := make([]uint16, 0, 36)
	for _, f := range faces {
		base := uint16(len(positions))
		for _, c := range f {
			positions = append(positions, corners[c])
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	normals := math.GenerateFaceNormals(positions, indices)

	layout := BoxLayout()
	vertices := make([]float32, 0, len(positions)*layout.FloatStride())
	for i, p := range positions {
		uv := uvs[i%4]
		vertices = append(vertices, p[0], p[1], p[2], normals[i][0], normals[i][1], normals[i][2], uv[0], uv[1])
	}

	mesh := NewMesh(name, true, len(positions), len(indices), layout)
	// Sizes match the capacity, neither call can fail.
	_ = mesh.SetVertices(vertices)
	_ = mesh.SetIndices(indices)
	return mesh
}
