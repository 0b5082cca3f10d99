package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/containers"
	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

/**
 * @brief Merges renderables that share a vertex layout, a material and
 * a primitive type into as few meshes and draw calls as possible.
 * Renderables are added between Begin and End; the merged result is
 * available as a RenderableProvider until the next Begin.
 *
 * Merged vertices are baked in world space, so the world transform of
 * every merged renderable is the identity.
 */
type ModelCache struct {
	building    bool
	camera      *components.Camera
	sorter      RenderableSorter
	meshPool    metadata.MeshPool
	maxVertices int
	builder     *MeshBuilder

	renderables []*metadata.Renderable
	items       []*metadata.Renderable
	tmp         []*metadata.Renderable

	renderablesPool *containers.Pool[metadata.Renderable]
	meshPartPool    *containers.Pool[metadata.MeshPart]
}

// ModelCacheOption customises a ModelCache.
type ModelCacheOption func(c *ModelCache)

// WithCacheSorter replaces the sorter used to group renderables before merging.
func WithCacheSorter(sorter RenderableSorter) ModelCacheOption {
	return func(c *ModelCache) { c.sorter = sorter }
}

// WithMeshPool sets the pool the merged meshes are obtained from. The cache owns the pool.
func WithMeshPool(pool metadata.MeshPool) ModelCacheOption {
	return func(c *ModelCache) { c.meshPool = pool }
}

// WithMaxVertices caps the vertex count of every merged mesh.
func WithMaxVertices(maxVertices int) ModelCacheOption {
	return func(c *ModelCache) { c.maxVertices = maxVertices }
}

func NewModelCache(opts ...ModelCacheOption) *ModelCache {
	c := &ModelCache{
		maxVertices:     MAX_VERTICES,
		renderablesPool: metadata.NewRenderablePool(),
		meshPartPool: containers.NewPool(func() *metadata.MeshPart {
			return &metadata.MeshPart{Radius: -1}
		}, (*metadata.MeshPart).Reset),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxVertices <= 0 || c.maxVertices > MAX_VERTICES {
		c.maxVertices = MAX_VERTICES
	}
	if c.sorter == nil {
		c.sorter = NewCacheSorter()
	}
	if c.meshPool == nil {
		c.meshPool = NewSimpleMeshPool(c.maxVertices)
	}
	c.builder = NewMeshBuilder(c.maxVertices)
	return c
}

// Begin discards the previous result and starts collecting renderables.
// camera is handed to the sorter and may be nil.
func (c *ModelCache) Begin(camera *components.Camera) error {
	if c.building {
		err := fmt.Errorf("model cache begin: %w", core.ErrAlreadyBegun)
		core.LogError("%s", err)
		return err
	}
	c.building = true
	c.camera = camera
	c.renderablesPool.Flush()
	clear(c.renderables)
	c.renderables = c.renderables[:0]
	clear(c.items)
	c.items = c.items[:0]
	c.meshPartPool.Flush()
	c.meshPool.Flush()
	return nil
}

func (c *ModelCache) notBuilding(op string) error {
	err := fmt.Errorf("model cache %s: %w", op, core.ErrNotBegun)
	core.LogError("%s", err)
	return err
}

// Add queues r for merging. Skinned renderables are kept as they are.
func (c *ModelCache) Add(r *metadata.Renderable) error {
	if !c.building {
		return c.notBuilding("add")
	}
	if r.Bones != nil {
		c.renderables = append(c.renderables, r)
	} else {
		c.items = append(c.items, r)
	}
	return nil
}

// AddProvider queues every renderable of provider.
func (c *ModelCache) AddProvider(provider metadata.RenderableProvider) error {
	if !c.building {
		return c.notBuilding("add")
	}
	c.tmp = provider.GetRenderables(c.tmp[:0], c.renderablesPool)
	for _, r := range c.tmp {
		if err := c.Add(r); err != nil {
			return err
		}
	}
	clear(c.tmp)
	c.tmp = c.tmp[:0]
	return nil
}

// AddProviders queues the renderables of every provider.
func (c *ModelCache) AddProviders(providers ...metadata.RenderableProvider) error {
	for _, p := range providers {
		if err := c.AddProvider(p); err != nil {
			return err
		}
	}
	return nil
}

func (c *ModelCache) obtainRenderable(material *metadata.Material, primitive gpu.Primitive) *metadata.Renderable {
	r := c.renderablesPool.Obtain()
	r.Material = material
	r.MeshPart.Primitive = primitive
	return r
}

func sameMaterial(a, b *metadata.Material) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a != b && a.Attributes.Hash() != b.Attributes.Hash() {
		return false
	}
	return a.Same(b, true)
}

// End sorts the queued renderables and merges them. When merging fails
// the cache only keeps the skinned renderables until the next Begin.
func (c *ModelCache) End() error {
	if !c.building {
		return c.notBuilding("end")
	}
	c.building = false
	if len(c.items) == 0 {
		return nil
	}
	c.sorter.Sort(c.camera, c.items)
	skinned := len(c.renderables)
	if err := c.merge(); err != nil {
		c.discard(skinned)
		return err
	}
	core.LogDebug("model cache: merged %d renderables into %d", len(c.items), len(c.renderables)-skinned)
	return nil
}

func (c *ModelCache) merge() error {
	first := c.items[0]
	layout := first.MeshPart.Mesh.Layout
	material := first.Material
	primitive := first.MeshPart.Primitive

	// renderables[offset+i] takes its range from parts[i] once the mesh is built.
	offset := len(c.renderables)
	parts := make([]*metadata.MeshPart, 0, 8)
	endMesh := func() error {
		mesh := c.meshPool.Obtain(layout, c.builder.NumVertices(), c.builder.NumIndices())
		if err := c.builder.End(mesh); err != nil {
			return err
		}
		for i, part := range parts {
			c.renderables[offset+i].MeshPart.Set(part)
		}
		offset = len(c.renderables)
		parts = parts[:0]
		return nil
	}

	c.builder.Begin(layout)
	parts = append(parts, c.builder.Part("", primitive, c.meshPartPool.Obtain()))
	c.renderables = append(c.renderables, c.obtainRenderable(material, primitive))

	for _, r := range c.items {
		va := r.MeshPart.Mesh.Layout
		// An empty mesh takes anything, AddMesh reports what does not fit.
		sameMesh := va.Equal(layout)
		if sameMesh && c.builder.NumVertices() > 0 {
			n := c.builder.CountVertices(r.MeshPart.Mesh, r.MeshPart.Offset, r.MeshPart.Size)
			sameMesh = c.builder.NumVertices()+n <= c.builder.MaxVertices()
		}
		samePart := sameMesh && r.MeshPart.Primitive == primitive && sameMaterial(r.Material, material)
		if !samePart {
			if !sameMesh {
				if err := endMesh(); err != nil {
					return err
				}
				layout = va
				c.builder.Begin(layout)
			}
			material, primitive = r.Material, r.MeshPart.Primitive
			parts = append(parts, c.builder.Part("", primitive, c.meshPartPool.Obtain()))
			c.renderables = append(c.renderables, c.obtainRenderable(material, primitive))
		}
		c.builder.SetVertexTransform(r.WorldTransform)
		if err := c.builder.AddMesh(r.MeshPart.Mesh, r.MeshPart.Offset, r.MeshPart.Size); err != nil {
			return err
		}
	}
	return endMesh()
}

// discard drops the merged renderables after skinned and hands their
// objects back to the pools.
func (c *ModelCache) discard(skinned int) {
	for _, r := range c.renderables[skinned:] {
		if err := c.renderablesPool.Free(r); err != nil {
			core.LogWarn("model cache: %s", err)
		}
	}
	clear(c.renderables[skinned:])
	c.renderables = c.renderables[:skinned]
	c.meshPartPool.Flush()
	c.meshPool.Flush()
	c.builder.Reset()
}

// GetRenderables appends the merged renderables to out without shader or
// environment. Nothing is appended while the cache is being built.
func (c *ModelCache) GetRenderables(out []*metadata.Renderable, pool *containers.Pool[metadata.Renderable]) []*metadata.Renderable {
	out, _ = c.Renderables(out)
	return out
}

// Renderables is GetRenderables returning core.ErrCacheBuilding between Begin and End.
func (c *ModelCache) Renderables(out []*metadata.Renderable) ([]*metadata.Renderable, error) {
	if c.building {
		err := fmt.Errorf("model cache get renderables: %w", core.ErrCacheBuilding)
		core.LogError("%s", err)
		return out, err
	}
	for _, r := range c.renderables {
		r.Shader = nil
		r.Environment = nil
		out = append(out, r)
	}
	return out, nil
}

// Len returns the number of merged renderables.
func (c *ModelCache) Len() int {
	return len(c.renderables)
}

// Building reports whether the cache is between Begin and End.
func (c *ModelCache) Building() bool {
	return c.building
}

// Dispose releases every mesh of the mesh pool.
func (c *ModelCache) Dispose() error {
	if c.building {
		err := fmt.Errorf("model cache dispose: %w", core.ErrCacheBuilding)
		core.LogError("%s", err)
		return err
	}
	c.meshPool.Dispose()
	return nil
}
