package systems

import (
	"math/bits"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

type meshList struct {
	free []*metadata.Mesh
	used []*metadata.Mesh
}

func (l *meshList) take(match func(m *metadata.Mesh) bool) *metadata.Mesh {
	for i, m := range l.free {
		if match(m) {
			l.free = append(l.free[:i], l.free[i+1:]...)
			l.used = append(l.used, m)
			return m
		}
	}
	return nil
}

func (l *meshList) flush() {
	l.free = append(l.free, l.used...)
	clear(l.used)
	l.used = l.used[:0]
}

func (l *meshList) dispose() {
	for _, m := range l.used {
		m.Dispose()
	}
	for _, m := range l.free {
		m.Dispose()
	}
	clear(l.used)
	clear(l.free)
	l.used = l.used[:0]
	l.free = l.free[:0]
}

// Len returns the number of meshes owned by the pool, in use or free.
func (l *meshList) Len() int {
	return len(l.free) + len(l.used)
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

/**
 * @brief A mesh pool that always allocates meshes of the maximum
 * capacity, so any later request with the same layout can reuse
 * them. Suited to caches rebuilt every frame.
 */
type SimpleMeshPool struct {
	meshList
	maxVertices int
}

func NewSimpleMeshPool(maxVertices int) *SimpleMeshPool {
	if maxVertices <= 0 || maxVertices > MAX_VERTICES {
		maxVertices = MAX_VERTICES
	}
	return &SimpleMeshPool{maxVertices: maxVertices}
}

func (p *SimpleMeshPool) Obtain(layout *gpu.VertexAttributes, vertexCount, indexCount int) *metadata.Mesh {
	m := p.take(func(m *metadata.Mesh) bool {
		return m.Layout.Equal(layout) && m.MaxVertices >= vertexCount && m.MaxIndices >= indexCount
	})
	if m != nil {
		return m
	}
	vertexCount = p.maxVertices
	indexCount = max(p.maxVertices, nextPowerOfTwo(indexCount))
	m = metadata.NewMesh(uuid.NewString(), false, vertexCount, indexCount, layout)
	p.used = append(p.used, m)
	core.LogDebug("simple mesh pool: allocated mesh %s (%d vertices, %d indices)", m.Name, vertexCount, indexCount)
	return m
}

func (p *SimpleMeshPool) Flush() {
	p.flush()
}

func (p *SimpleMeshPool) Dispose() {
	p.dispose()
}

/**
 * @brief A mesh pool that allocates meshes of exactly the requested
 * size and only reuses a mesh for an identical request. Suited to
 * caches built once.
 */
type TightMeshPool struct {
	meshList
}

func NewTightMeshPool() *TightMeshPool {
	return &TightMeshPool{}
}

func (p *TightMeshPool) Obtain(layout *gpu.VertexAttributes, vertexCount, indexCount int) *metadata.Mesh {
	m := p.take(func(m *metadata.Mesh) bool {
		return m.Layout.Equal(layout) && m.MaxVertices == vertexCount && m.MaxIndices == indexCount
	})
	if m != nil {
		return m
	}
	m = metadata.NewMesh(uuid.NewString(), true, vertexCount, indexCount, layout)
	p.used = append(p.used, m)
	core.LogDebug("tight mesh pool: allocated mesh %s (%d vertices, %d indices)", m.Name, vertexCount, indexCount)
	return m
}

func (p *TightMeshPool) Flush() {
	p.flush()
}

func (p *TightMeshPool) Dispose() {
	p.dispose()
}
