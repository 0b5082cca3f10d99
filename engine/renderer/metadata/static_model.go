package metadata

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/containers"
)

/**
 * @brief A mesh part drawn with a material at a transform
 * relative to its model.
 */
type ModelPart struct {
	MeshPart       MeshPart
	Material       *Material
	LocalTransform mgl32.Mat4
}

func NewModelPart(part *MeshPart, material *Material) *ModelPart {
	return &ModelPart{MeshPart: *part, Material: material, LocalTransform: mgl32.Ident4()}
}

/**
 * @brief A set of model parts placed in the world by a single transform.
 */
type StaticModel struct {
	Name           string
	WorldTransform mgl32.Mat4
	Parts          []*ModelPart
	/** @brief Optional bone transforms, shared by every part. */
	Bones []mgl32.Mat4
	/** @brief Optional environment, shared by every part. */
	Environment *Environment
	UserData    any
}

func NewStaticModel(name string, world mgl32.Mat4, parts ...*ModelPart) *StaticModel {
	return &StaticModel{Name: name, WorldTransform: world, Parts: parts}
}

// GetRenderables appends one renderable per part.
func (m *StaticModel) GetRenderables(out []*Renderable, pool *containers.Pool[Renderable]) []*Renderable {
	for _, p := range m.Parts {
		r := pool.Obtain()
		r.WorldTransform = m.WorldTransform.Mul4(p.LocalTransform)
		r.MeshPart.Set(&p.MeshPart)
		r.Material = p.Material
		r.Environment = m.Environment
		r.Bones = m.Bones
		r.UserData = m.UserData
		out = append(out, r)
	}
	return out
}
