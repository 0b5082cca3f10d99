package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/math"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

// MAX_VERTICES is the most vertices a merged mesh can address with 16 bit indices.
const MAX_VERTICES int = 1 << 16

/**
 * @brief Accumulates geometry of a single vertex layout into one
 * indexed vertex stream. Source vertices are transformed into the
 * space of the vertex transform as they are added, and vertices
 * shared by indices of the same source range are stored once.
 */
type MeshBuilder struct {
	maxVertices int
	layout      *gpu.VertexAttributes
	stride      int

	vertices []float32
	indices  []uint16
	lookup   map[int]uint16
	counted  map[int]struct{}

	transform    mgl32.Mat4
	normalMatrix mgl32.Mat3

	parts []*metadata.MeshPart
	part  *metadata.MeshPart
}

func NewMeshBuilder(maxVertices int) *MeshBuilder {
	if maxVertices <= 0 || maxVertices > MAX_VERTICES {
		maxVertices = MAX_VERTICES
	}
	return &MeshBuilder{
		maxVertices:  maxVertices,
		lookup:       make(map[int]uint16),
		counted:      make(map[int]struct{}),
		transform:    mgl32.Ident4(),
		normalMatrix: mgl32.Ident3(),
	}
}

// Begin starts building a mesh with the given layout, discarding anything built so far.
func (b *MeshBuilder) Begin(layout *gpu.VertexAttributes) {
	b.layout = layout
	b.stride = layout.FloatStride()
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	b.parts = b.parts[:0]
	b.part = nil
	b.SetVertexTransform(mgl32.Ident4())
}

// Layout returns the layout of the mesh being built, nil before Begin.
func (b *MeshBuilder) Layout() *gpu.VertexAttributes {
	return b.layout
}

func (b *MeshBuilder) NumVertices() int {
	if b.stride == 0 {
		return 0
	}
	return len(b.vertices) / b.stride
}

func (b *MeshBuilder) NumIndices() int {
	return len(b.indices)
}

// MaxVertices returns the vertex capacity of a single built mesh.
func (b *MeshBuilder) MaxVertices() int {
	return b.maxVertices
}

// Part closes the current part and starts a new one drawn with primitive.
// The part is completed (mesh and bounds) by End.
func (b *MeshBuilder) Part(id string, primitive gpu.Primitive, part *metadata.MeshPart) *metadata.MeshPart {
	b.endPart()
	part.ID = id
	part.Primitive = primitive
	part.Offset = len(b.indices)
	part.Size = 0
	part.Mesh = nil
	b.part = part
	b.parts = append(b.parts, part)
	return part
}

func (b *MeshBuilder) endPart() {
	if b.part != nil {
		b.part.Size = len(b.indices) - b.part.Offset
		b.part = nil
	}
}

// SetVertexTransform sets the transform applied to every vertex added afterwards.
func (b *MeshBuilder) SetVertexTransform(transform mgl32.Mat4) {
	b.transform = transform
	b.normalMatrix = math.NormalMatrix(transform)
}

// AddMesh appends count indices (or vertices when mesh has no indices)
// of mesh, starting at offset.
func (b *MeshBuilder) AddMesh(mesh *metadata.Mesh, offset, count int) error {
	if b.layout == nil {
		err := fmt.Errorf("mesh builder: %w", core.ErrNotBegun)
		core.LogError("%s", err)
		return err
	}
	if !mesh.Layout.Equal(b.layout) {
		err := fmt.Errorf("mesh builder: mesh %s layout %s does not match %s", mesh.Name, mesh.Layout, b.layout)
		core.LogError("%s", err)
		return err
	}
	indexed := mesh.NumIndices() > 0
	clear(b.lookup)
	for i := offset; i < offset+count; i++ {
		src := i
		if indexed {
			src = int(mesh.Indices()[i])
		}
		dst, ok := b.lookup[src]
		if !ok {
			if b.NumVertices() >= b.maxVertices {
				err := fmt.Errorf("mesh builder: %d vertices: %w", b.NumVertices()+1, core.ErrMeshCapacity)
				core.LogError("%s", err)
				return err
			}
			dst = uint16(b.NumVertices())
			b.appendVertex(mesh.Vertex(src))
			b.lookup[src] = dst
		}
		b.indices = append(b.indices, dst)
	}
	return nil
}

// CountVertices returns how many vertices AddMesh would append for the same range.
func (b *MeshBuilder) CountVertices(mesh *metadata.Mesh, offset, count int) int {
	if mesh.NumIndices() == 0 {
		return count
	}
	clear(b.counted)
	for _, idx := range mesh.Indices()[offset : offset+count] {
		b.counted[int(idx)] = struct{}{}
	}
	return len(b.counted)
}

func (b *MeshBuilder) appendVertex(vertex []float32) {
	start := len(b.vertices)
	b.vertices = append(b.vertices, vertex...)
	v := b.vertices[start:]
	for i := 0; i < b.layout.Len(); i++ {
		a := b.layout.Get(i)
		o := a.Offset / 4
		switch a.Usage {
		case gpu.UsagePosition:
			p := mgl32.Vec3{}
			for c := 0; c < a.NumComponents && c < 3; c++ {
				p[c] = v[o+c]
			}
			p = math.TransformPoint(b.transform, p)
			for c := 0; c < a.NumComponents && c < 3; c++ {
				v[o+c] = p[c]
			}
		case gpu.UsageNormal, gpu.UsageTangent, gpu.UsageBiNormal:
			if a.NumComponents < 3 {
				continue
			}
			n := b.normalMatrix.Mul3x1(mgl32.Vec3{v[o], v[o+1], v[o+2]})
			if n.Len() > 0 {
				n = n.Normalize()
			}
			v[o], v[o+1], v[o+2] = n[0], n[1], n[2]
		}
	}
}

// End uploads the built geometry to mesh, completes every part with
// mesh and its bounds, and resets the builder.
func (b *MeshBuilder) End(mesh *metadata.Mesh) error {
	b.endPart()
	if err := mesh.SetVertices(b.vertices); err != nil {
		return err
	}
	if err := mesh.SetIndices(b.indices); err != nil {
		return err
	}
	for _, part := range b.parts {
		part.Mesh = mesh
		part.Update()
	}
	b.Reset()
	return nil
}

// Reset drops everything built since Begin without uploading it.
func (b *MeshBuilder) Reset() {
	b.layout = nil
	b.stride = 0
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	clear(b.parts)
	b.parts = b.parts[:0]
	b.part = nil
}
