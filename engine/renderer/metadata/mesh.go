package metadata

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/math"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

/**
 * @brief Represents vertex and index data that can be drawn by the
 * GPU. The data is kept on the CPU side and uploaded lazily when
 * the mesh is first rendered after a change.
 */
type Mesh struct {
	/** @brief The mesh name, unique within its pool. */
	Name string
	/** @brief The vertex layout. */
	Layout *gpu.VertexAttributes
	/** @brief Static meshes are uploaded once and rarely change. */
	Static bool
	/** @brief The maximum number of vertices the mesh can hold. */
	MaxVertices int
	/** @brief The maximum number of indices the mesh can hold. */
	MaxIndices int

	vertices []float32
	indices  []uint16

	backend gpu.Backend
	handle  gpu.MeshHandle
	dirty   bool
}

func NewMesh(name string, static bool, maxVertices, maxIndices int, layout *gpu.VertexAttributes) *Mesh {
	return &Mesh{
		Name:        name,
		Layout:      layout,
		Static:      static,
		MaxVertices: maxVertices,
		MaxIndices:  maxIndices,
		vertices:    make([]float32, 0, maxVertices*layout.FloatStride()),
		indices:     make([]uint16, 0, maxIndices),
	}
}

// SetVertices replaces the vertex data. The slice length must be a multiple of the layout stride.
func (m *Mesh) SetVertices(vertices []float32) error {
	stride := m.Layout.FloatStride()
	if len(vertices)%stride != 0 {
		err := fmt.Errorf("mesh %s: %d floats is not a multiple of the vertex size %d", m.Name, len(vertices), stride)
		core.LogError("%s", err)
		return err
	}
	if len(vertices)/stride > m.MaxVertices {
		err := fmt.Errorf("mesh %s: %d vertices: %w", m.Name, len(vertices)/stride, core.ErrMeshCapacity)
		core.LogError("%s", err)
		return err
	}
	m.vertices = append(m.vertices[:0], vertices...)
	m.dirty = true
	return nil
}

// SetIndices replaces the index data.
func (m *Mesh) SetIndices(indices []uint16) error {
	if len(indices) > m.MaxIndices {
		err := fmt.Errorf("mesh %s: %d indices: %w", m.Name, len(indices), core.ErrMeshCapacity)
		core.LogError("%s", err)
		return err
	}
	m.indices = append(m.indices[:0], indices...)
	m.dirty = true
	return nil
}

func (m *Mesh) Vertices() []float32 { return m.vertices }
func (m *Mesh) Indices() []uint16   { return m.indices }

func (m *Mesh) NumVertices() int {
	return len(m.vertices) / m.Layout.FloatStride()
}

func (m *Mesh) NumIndices() int {
	return len(m.indices)
}

// Vertex returns the floats of vertex i. The slice aliases the mesh data.
func (m *Mesh) Vertex(i int) []float32 {
	stride := m.Layout.FloatStride()
	return m.vertices[i*stride : (i+1)*stride]
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	a, ok := m.Layout.FindByUsage(gpu.UsagePosition)
	if !ok {
		return mgl32.Vec3{}
	}
	v := m.Vertex(i)[a.Offset/4:]
	p := mgl32.Vec3{}
	for c := 0; c < a.NumComponents && c < 3; c++ {
		p[c] = v[c]
	}
	return p
}

// Extents returns the bounds of the vertices referenced by the given range.
// For indexed meshes the range addresses indices, otherwise vertices.
func (m *Mesh) Extents(offset, count int) math.Extents3D {
	var e math.Extents3D
	if m.NumIndices() > 0 {
		for _, idx := range m.indices[offset : offset+count] {
			e.Extend(m.Position(int(idx)))
		}
		return e
	}
	for i := offset; i < offset+count; i++ {
		e.Extend(m.Position(i))
	}
	return e
}

// Upload creates the GPU buffers on first use and pushes pending changes.
func (m *Mesh) Upload(backend gpu.Backend) {
	if m.backend == nil {
		m.backend = backend
		m.handle = backend.CreateMesh(m.Layout, m.Static, m.MaxVertices, m.MaxIndices)
		m.dirty = true
	}
	if m.dirty {
		m.backend.UploadMesh(m.handle, m.vertices, m.indices)
		m.dirty = false
	}
}

// Render draws count vertices (or indices) starting at offset.
func (m *Mesh) Render(backend gpu.Backend, primitive gpu.Primitive, offset, count int) {
	if count == 0 {
		return
	}
	m.Upload(backend)
	backend.DrawMesh(m.handle, primitive, offset, count, m.NumIndices() > 0)
}

// Dispose releases the GPU buffers. The CPU data stays valid.
func (m *Mesh) Dispose() {
	if m.backend != nil {
		m.backend.DestroyMesh(m.handle)
		m.backend = nil
		m.handle = 0
	}
}

/**
 * @brief A range of a mesh drawn with a single primitive type.
 */
type MeshPart struct {
	/** @brief Optional identifier. */
	ID string
	/** @brief The primitive type used to draw the range. */
	Primitive gpu.Primitive
	/** @brief First index (or vertex, for meshes without indices). */
	Offset int
	/** @brief Number of indices (or vertices) in the range. */
	Size int
	Mesh *Mesh
	/** @brief Local center of the bounding box, valid after Update. */
	Center mgl32.Vec3
	/** @brief Half size of the bounding box, valid after Update. */
	HalfExtents mgl32.Vec3
	/** @brief Radius of the bounding sphere, -1 when unknown. */
	Radius float32
}

func NewMeshPart(id string, mesh *Mesh, offset, size int, primitive gpu.Primitive) *MeshPart {
	p := &MeshPart{}
	p.SetRange(id, mesh, offset, size, primitive)
	return p
}

// SetRange points the part at a range of mesh and recomputes its bounds.
func (p *MeshPart) SetRange(id string, mesh *Mesh, offset, size int, primitive gpu.Primitive) {
	p.ID = id
	p.Mesh = mesh
	p.Offset = offset
	p.Size = size
	p.Primitive = primitive
	p.Update()
}

func (p *MeshPart) Set(other *MeshPart) {
	*p = *other
}

// Update recomputes Center, HalfExtents and Radius from the mesh data.
func (p *MeshPart) Update() {
	if p.Mesh == nil || p.Size == 0 {
		p.Center, p.HalfExtents, p.Radius = mgl32.Vec3{}, mgl32.Vec3{}, 0
		return
	}
	e := p.Mesh.Extents(p.Offset, p.Size)
	p.Center = e.Center()
	p.HalfExtents = e.HalfExtents()
	p.Radius = p.HalfExtents.Len()
}

// Equal reports whether both parts draw the same range of the same mesh.
func (p *MeshPart) Equal(other *MeshPart) bool {
	return other == p || (other != nil && other.Mesh == p.Mesh && other.Primitive == p.Primitive &&
		other.Offset == p.Offset && other.Size == p.Size)
}

func (p *MeshPart) Reset() {
	*p = MeshPart{Radius: -1}
}

func (p *MeshPart) Render(backend gpu.Backend) {
	p.Mesh.Render(backend, p.Primitive, p.Offset, p.Size)
}
