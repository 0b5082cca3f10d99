package systems

import (
	"slices"

	"github.com/spaghettifunk/anima-g3d/engine/math"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

/**
 * @brief Orders renderables before they are drawn or merged.
 */
type RenderableSorter interface {
	Sort(camera *components.Camera, renderables []*metadata.Renderable)
}

/**
 * @brief Sorts opaque renderables front to back, followed by blended
 * renderables back to front. Renderables at the same distance keep
 * their submission order.
 */
type DefaultRenderableSorter struct {
	camera *components.Camera
}

func NewDefaultRenderableSorter() *DefaultRenderableSorter {
	return &DefaultRenderableSorter{}
}

func (s *DefaultRenderableSorter) Sort(camera *components.Camera, renderables []*metadata.Renderable) {
	s.camera = camera
	slices.SortStableFunc(renderables, s.compare)
	s.camera = nil
}

func isBlended(r *metadata.Renderable) bool {
	return r.Material != nil && r.Material.Blended()
}

func (s *DefaultRenderableSorter) distance2(r *metadata.Renderable) float32 {
	d := s.camera.Position.Sub(math.WorldCenter(r.WorldTransform, r.MeshPart.Center))
	return d.Dot(d)
}

func (s *DefaultRenderableSorter) compare(a, b *metadata.Renderable) int {
	b1 := isBlended(a)
	b2 := isBlended(b)
	if b1 != b2 {
		if b1 {
			return 1
		}
		return -1
	}
	if s.camera == nil {
		return 0
	}
	// Millimeter precision keeps tiny float differences from reordering equal depths.
	dst := int(1000*s.distance2(a)) - int(1000*s.distance2(b))
	result := math.Sign(dst)
	if b1 {
		return -result
	}
	return result
}

/**
 * @brief Groups renderables that can share a merged mesh: by vertex
 * layout, then material, then primitive type.
 */
type CacheSorter struct{}

func NewCacheSorter() *CacheSorter {
	return &CacheSorter{}
}

func (s *CacheSorter) Sort(camera *components.Camera, renderables []*metadata.Renderable) {
	slices.SortStableFunc(renderables, compareForCache)
}

func compareForCache(a, b *metadata.Renderable) int {
	if c := a.MeshPart.Mesh.Layout.Compare(b.MeshPart.Mesh.Layout); c != 0 {
		return c
	}
	switch {
	case a.Material == nil && b.Material != nil:
		return -1
	case a.Material != nil && b.Material == nil:
		return 1
	case a.Material != nil:
		if c := a.Material.Compare(b.Material); c != 0 {
			return c
		}
	}
	return int(a.MeshPart.Primitive) - int(b.MeshPart.Primitive)
}
