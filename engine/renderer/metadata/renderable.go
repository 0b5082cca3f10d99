package metadata

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/containers"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

/**
 * @brief Everything needed for a single draw call: which part of
 * which mesh to draw, with what material, where and with which
 * shader.
 */
type Renderable struct {
	/** @brief Model to world transform. */
	WorldTransform mgl32.Mat4
	/** @brief The range of the mesh to draw. */
	MeshPart MeshPart
	/** @brief The surface properties, shared between renderables. */
	Material *Material
	/** @brief Optional lights and global settings. */
	Environment *Environment
	/** @brief Bone transforms for skinned meshes, nil when not skinned. */
	Bones []mgl32.Mat4
	/** @brief The shader used to render, assigned by the batch when nil. */
	Shader Shader
	/** @brief Application data carried along, never touched by the renderer. */
	UserData any
}

func NewRenderable() *Renderable {
	r := &Renderable{}
	r.Reset()
	return r
}

// Set copies other into r. Material, environment and bones are shared.
func (r *Renderable) Set(other *Renderable) {
	r.WorldTransform = other.WorldTransform
	r.MeshPart.Set(&other.MeshPart)
	r.Material = other.Material
	r.Environment = other.Environment
	r.Bones = other.Bones
	r.Shader = other.Shader
	r.UserData = other.UserData
}

// Reset returns r to an empty renderable with an identity transform.
func (r *Renderable) Reset() {
	r.WorldTransform = mgl32.Ident4()
	r.MeshPart.Reset()
	r.Material = nil
	r.Environment = nil
	r.Bones = nil
	r.Shader = nil
	r.UserData = nil
}

// NewRenderablePool creates a pool that resets renderables as they come back.
func NewRenderablePool() *containers.Pool[Renderable] {
	return containers.NewPool(NewRenderable, (*Renderable).Reset)
}

/**
 * @brief Anything that can produce renderables. Implementations obtain
 * renderables from pool, append them to out and return the result.
 * The renderables stay valid until the pool is flushed.
 */
type RenderableProvider interface {
	GetRenderables(out []*Renderable, pool *containers.Pool[Renderable]) []*Renderable
}

/**
 * @brief Supplies meshes with at least the requested capacity.
 * Meshes obtained since the last Flush stay in use until Flush.
 */
type MeshPool interface {
	Obtain(layout *gpu.VertexAttributes, vertexCount, indexCount int) *Mesh
	Flush()
	Dispose()
}
