package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/containers"
	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

/**
 * @brief Collects renderables between Begin and End, sorts them and
 * draws them grouped by shader. Renderables obtained from the batch
 * pool are only valid until the next Flush.
 */
type ModelBatch struct {
	begun       bool
	camera      *components.Camera
	context     *renderer.RenderContext
	ownsContext bool
	shaders     ShaderProvider
	sorter      RenderableSorter
	metrics     *core.RenderMetrics

	renderables []*metadata.Renderable
	pool        *containers.Pool[metadata.Renderable]
}

// ModelBatchOption customises a ModelBatch.
type ModelBatchOption func(b *ModelBatch)

// WithRenderContext makes the batch use a context managed by the caller.
func WithRenderContext(context *renderer.RenderContext) ModelBatchOption {
	return func(b *ModelBatch) {
		b.context = context
		b.ownsContext = false
	}
}

func WithShaderProvider(provider ShaderProvider) ModelBatchOption {
	return func(b *ModelBatch) { b.shaders = provider }
}

func WithSorter(sorter RenderableSorter) ModelBatchOption {
	return func(b *ModelBatch) { b.sorter = sorter }
}

// WithMetrics makes the batch report draw calls, shader switches and texture binds.
func WithMetrics(metrics *core.RenderMetrics) ModelBatchOption {
	return func(b *ModelBatch) { b.metrics = metrics }
}

// NewModelBatch creates a batch. Without options the batch owns a render
// context with an LRU texture binder starting at unit 1, uses the default
// shader provider and the default sorter.
func NewModelBatch(backend gpu.Backend, opts ...ModelBatchOption) (*ModelBatch, error) {
	b := &ModelBatch{
		renderables: make([]*metadata.Renderable, 0, 64),
		pool:        metadata.NewRenderablePool(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.context == nil {
		binder, err := renderer.NewTextureBinder(backend, renderer.BindLRU, 1, 0)
		if err != nil {
			core.LogError("failed to create the model batch texture binder")
			return nil, err
		}
		b.context = renderer.NewRenderContext(backend, binder)
		b.ownsContext = true
	}
	if b.shaders == nil {
		b.shaders = NewDefaultShaderProvider(backend, nil)
	}
	if b.sorter == nil {
		b.sorter = NewDefaultRenderableSorter()
	}
	return b, nil
}

// Begin starts collecting renderables for camera.
func (b *ModelBatch) Begin(camera *components.Camera) error {
	if b.begun {
		err := fmt.Errorf("model batch begin: %w", core.ErrAlreadyBegun)
		core.LogError("%s", err)
		return err
	}
	b.begun = true
	b.camera = camera
	if b.ownsContext {
		b.context.Begin()
	}
	return nil
}

func (b *ModelBatch) notBegun(op string) error {
	err := fmt.Errorf("model batch %s: %w", op, core.ErrNotBegun)
	core.LogError("%s", err)
	return err
}

// SetCamera flushes pending renderables and switches to camera.
func (b *ModelBatch) SetCamera(camera *components.Camera) error {
	if !b.begun {
		return b.notBegun("set camera")
	}
	if len(b.renderables) > 0 {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	b.camera = camera
	return nil
}

// Camera returns the active camera.
func (b *ModelBatch) Camera() *components.Camera {
	return b.camera
}

// Begun reports whether the batch is between Begin and End.
func (b *ModelBatch) Begun() bool {
	return b.begun
}

func (b *ModelBatch) RenderContext() *renderer.RenderContext {
	return b.context
}

// OwnsRenderContext reports whether Begin and End also begin and end the render context.
func (b *ModelBatch) OwnsRenderContext() bool {
	return b.ownsContext
}

// Render queues a single renderable after assigning it a shader.
func (b *ModelBatch) Render(r *metadata.Renderable) error {
	if !b.begun {
		return b.notBegun("render")
	}
	shader, err := b.shaders.GetShader(r)
	if err != nil {
		return err
	}
	r.Shader = shader
	b.renderables = append(b.renderables, r)
	return nil
}

type renderOptions struct {
	environment    *metadata.Environment
	hasEnvironment bool
	shader         metadata.Shader
	hasShader      bool
}

// RenderOption overrides what a provider puts in its renderables.
type RenderOption func(o *renderOptions)

// WithEnvironment replaces the environment of every renderable of the provider.
func WithEnvironment(environment *metadata.Environment) RenderOption {
	return func(o *renderOptions) {
		o.environment = environment
		o.hasEnvironment = true
	}
}

// WithShader suggests shader for every renderable of the provider. It is
// used for the renderables it can render.
func WithShader(shader metadata.Shader) RenderOption {
	return func(o *renderOptions) {
		o.shader = shader
		o.hasShader = true
	}
}

// RenderProvider queues the renderables of provider.
func (b *ModelBatch) RenderProvider(provider metadata.RenderableProvider, opts ...RenderOption) error {
	if !b.begun {
		return b.notBegun("render")
	}
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}
	offset := len(b.renderables)
	b.renderables = provider.GetRenderables(b.renderables, b.pool)
	for i := offset; i < len(b.renderables); i++ {
		r := b.renderables[i]
		if o.hasEnvironment {
			r.Environment = o.environment
		}
		if o.hasShader {
			r.Shader = o.shader
		}
		shader, err := b.shaders.GetShader(r)
		if err != nil {
			clear(b.renderables[offset:])
			b.renderables = b.renderables[:offset]
			return err
		}
		r.Shader = shader
	}
	return nil
}

// RenderProviders queues the renderables of every provider.
func (b *ModelBatch) RenderProviders(providers ...metadata.RenderableProvider) error {
	for _, p := range providers {
		if err := b.RenderProvider(p); err != nil {
			return err
		}
	}
	return nil
}

// Flush sorts and draws the queued renderables, then returns the pooled
// ones to the pool.
func (b *ModelBatch) Flush() error {
	if !b.begun {
		return b.notBegun("flush")
	}
	b.sorter.Sort(b.camera, b.renderables)
	var current metadata.Shader
	switches := 0
	for _, r := range b.renderables {
		if current != r.Shader {
			if current != nil {
				current.End()
			}
			current = r.Shader
			current.Begin(b.camera, b.context)
			switches++
		}
		current.Render(r)
	}
	if current != nil {
		current.End()
	}
	if b.metrics != nil {
		b.metrics.AddDrawCalls(len(b.renderables), switches)
	}
	b.pool.Flush()
	clear(b.renderables)
	b.renderables = b.renderables[:0]
	return nil
}

// End flushes and returns the batch to the idle state.
func (b *ModelBatch) End() error {
	if !b.begun {
		return b.notBegun("end")
	}
	if err := b.Flush(); err != nil {
		return err
	}
	if b.ownsContext {
		b.context.End()
	}
	if binder := b.context.TextureBinder(); b.metrics != nil && binder != nil {
		b.metrics.AddTextureStats(binder.BindCount(), binder.ReuseCount())
		binder.ResetCounts()
	}
	b.camera = nil
	b.begun = false
	return nil
}

// Pending returns the number of queued renderables.
func (b *ModelBatch) Pending() int {
	return len(b.renderables)
}

// Pool returns the pool that provider renderables are obtained from.
func (b *ModelBatch) Pool() *containers.Pool[metadata.Renderable] {
	return b.pool
}

// Dispose releases every shader of the shader provider.
func (b *ModelBatch) Dispose() {
	b.shaders.Dispose()
}
