package gpu

import "github.com/go-gl/mathgl/mgl32"

// Program is a linked shader program owned by a Backend.
type Program uint32

// MeshHandle is a vertex/index buffer pair owned by a Backend.
type MeshHandle uint32

/**
 * @brief A generic "interface" for the GPU backend. The renderer
 * only talks to the graphics API through this interface, so the
 * OpenGL implementation can be swapped for the Recorder in tests
 * or headless runs.
 */
type Backend interface {
	Viewport(x, y, width, height int)
	Clear(color mgl32.Vec4)

	Enable(c Capability)
	Disable(c Capability)
	DepthMask(write bool)
	DepthFunc(f CompareFunc)
	DepthRange(near, far float32)
	BlendFunc(src, dst BlendFactor)
	CullFace(f Face)

	MaxTextureUnits() int
	ActiveTexture(unit int)
	BindTexture(t *Texture)
	TexParameter(t *Texture, p TextureParameter, value int)
	CreateTexture(name string, width, height int, rgba []uint8) (*Texture, error)
	DestroyTexture(t *Texture)

	CreateProgram(vertexSource, fragmentSource string) (Program, error)
	UseProgram(p Program)
	UniformLocation(p Program, name string) int32
	UniformMat4(location int32, m mgl32.Mat4)
	UniformMat3(location int32, m mgl32.Mat3)
	UniformVec4(location int32, v mgl32.Vec4)
	UniformVec3(location int32, v mgl32.Vec3)
	UniformFloat(location int32, v float32)
	UniformInt(location int32, v int32)
	DestroyProgram(p Program)

	CreateMesh(layout *VertexAttributes, static bool, maxVertices, maxIndices int) MeshHandle
	UploadMesh(h MeshHandle, vertices []float32, indices []uint16)
	DrawMesh(h MeshHandle, primitive Primitive, offset, count int, indexed bool)
	DestroyMesh(h MeshHandle)
}
