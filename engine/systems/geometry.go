package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

/** @brief The geometry system configuration. */
type GeometrySystemConfig struct {
	/** @brief The maximum number of named meshes held at once. */
	MaxGeometryCount uint32
}

type geometryReference struct {
	mesh           *metadata.Mesh
	referenceCount uint64
}

/**
 * @brief Generates primitive meshes and shares them by name with
 * reference counting.
 */
type GeometrySystem struct {
	Config     *GeometrySystemConfig
	registered map[string]*geometryReference
}

func NewGeometrySystem(config *GeometrySystemConfig) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	return &GeometrySystem{
		Config:     config,
		registered: make(map[string]*geometryReference),
	}, nil
}

func (gs *GeometrySystem) Shutdown() error {
	for name, ref := range gs.registered {
		ref.mesh.Dispose()
		delete(gs.registered, name)
	}
	return nil
}

// Acquire returns the mesh registered under name and increments its reference count.
func (gs *GeometrySystem) Acquire(name string) (*metadata.Mesh, error) {
	ref, ok := gs.registered[name]
	if !ok {
		err := fmt.Errorf("geometry '%s' not found", name)
		core.LogError("%s", err)
		return nil, err
	}
	ref.referenceCount++
	return ref.mesh, nil
}

// Release decrements the reference count of name and disposes the mesh with its last reference.
func (gs *GeometrySystem) Release(name string) {
	ref, ok := gs.registered[name]
	if !ok {
		core.LogWarn("tried to release non-existent geometry: '%s'", name)
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 {
		ref.mesh.Dispose()
		delete(gs.registered, name)
		core.LogDebug("geometry '%s' released", name)
	}
}

func (gs *GeometrySystem) Len() int {
	return len(gs.registered)
}

func (gs *GeometrySystem) register(mesh *metadata.Mesh) (*metadata.Mesh, error) {
	if ref, ok := gs.registered[mesh.Name]; ok {
		ref.referenceCount++
		return ref.mesh, nil
	}
	if uint32(len(gs.registered)) >= gs.Config.MaxGeometryCount {
		err := fmt.Errorf("geometry system cannot hold anymore geometries, failed to create '%s'", mesh.Name)
		core.LogError("%s", err)
		return nil, err
	}
	gs.registered[mesh.Name] = &geometryReference{mesh: mesh, referenceCount: 1}
	return mesh, nil
}

// GenerateCube creates a box mesh named name, or acquires it when it already exists.
func (gs *GeometrySystem) GenerateCube(name string, width, height, depth float32) (*metadata.Mesh, error) {
	if ref, ok := gs.registered[name]; ok {
		ref.referenceCount++
		return ref.mesh, nil
	}
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if depth == 0 {
		core.LogWarn("Depth must be nonzero. Defaulting to one.")
		depth = 1.0
	}
	return gs.register(metadata.NewBoxMesh(name, width, height, depth))
}

/**
 * @brief Creates a plane on the XZ axes facing +Y, split into segments,
 * or acquires it when a mesh with that name already exists.
 * @param tileX The number of times the texture should tile across the plane on the x-axis.
 * @param tileY The number of times the texture should tile across the plane on the z-axis.
 */
func (gs *GeometrySystem) GeneratePlane(name string, width, depth float32, xSegmentCount, zSegmentCount int, tileX, tileY float32) (*metadata.Mesh, error) {
	if ref, ok := gs.registered[name]; ok {
		ref.referenceCount++
		return ref.mesh, nil
	}
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if depth == 0 {
		core.LogWarn("Depth must be nonzero. Defaulting to one.")
		depth = 1.0
	}
	if xSegmentCount < 1 {
		core.LogWarn("xSegmentCount must be a positive number. Defaulting to one.")
		xSegmentCount = 1
	}
	if zSegmentCount < 1 {
		core.LogWarn("zSegmentCount must be a positive number. Defaulting to one.")
		zSegmentCount = 1
	}
	if tileX == 0 {
		core.LogWarn("tileX must be nonzero. Defaulting to one.")
		tileX = 1.0
	}
	if tileY == 0 {
		core.LogWarn("tileY must be nonzero. Defaulting to one.")
		tileY = 1.0
	}
	vertexCount := xSegmentCount * zSegmentCount * 4
	if vertexCount > MAX_VERTICES {
		err := fmt.Errorf("plane '%s': %d vertices: %w", name, vertexCount, core.ErrMeshCapacity)
		core.LogError("%s", err)
		return nil, err
	}

	layout := metadata.BoxLayout()
	vertices := make([]float32, 0, vertexCount*layout.FloatStride())
	indices := make([]uint16, 0, xSegmentCount*zSegmentCount*6)
	segWidth := width / float32(xSegmentCount)
	segDepth := depth / float32(zSegmentCount)
	halfWidth := width * 0.5
	halfDepth := depth * 0.5
	for z := 0; z < zSegmentCount; z++ {
		for x := 0; x < xSegmentCount; x++ {
			minX := float32(x)*segWidth - halfWidth
			minZ := float32(z)*segDepth - halfDepth
			maxX := minX + segWidth
			maxZ := minZ + segDepth
			minU := float32(x) / float32(xSegmentCount) * tileX
			minV := float32(z) / float32(zSegmentCount) * tileY
			maxU := float32(x+1) / float32(xSegmentCount) * tileX
			maxV := float32(z+1) / float32(zSegmentCount) * tileY

			base := uint16(len(vertices) / layout.FloatStride())
			vertices = append(vertices,
				minX, 0, maxZ, 0, 1, 0, minU, maxV,
				maxX, 0, maxZ, 0, 1, 0, maxU, maxV,
				maxX, 0, minZ, 0, 1, 0, maxU, minV,
				minX, 0, minZ, 0, 1, 0, minU, minV,
			)
			indices = append(indices, base, base+1, base+2, base+2, base+3, base)
		}
	}

	mesh := metadata.NewMesh(name, true, vertexCount, len(indices), layout)
	if err := mesh.SetVertices(vertices); err != nil {
		return nil, err
	}
	if err := mesh.SetIndices(indices); err != nil {
		return nil, err
	}
	return gs.register(mesh)
}
