package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

/**
 * @brief Returns a shader able to render a given renderable,
 * creating and caching shaders as needed.
 */
type ShaderProvider interface {
	GetShader(r *metadata.Renderable) (metadata.Shader, error)
	Dispose()
}

// ShaderFactory creates an uninitialized shader suited for r.
type ShaderFactory func(r *metadata.Renderable) (metadata.Shader, error)

/**
 * @brief Caches every shader it created and hands out the first
 * one that can render the requested renderable.
 */
type BaseShaderProvider struct {
	shaders []metadata.Shader
	create  ShaderFactory
}

func NewBaseShaderProvider(create ShaderFactory) *BaseShaderProvider {
	return &BaseShaderProvider{create: create}
}

// GetShader prefers the shader already assigned to r, then any cached
// shader, and creates a new one only when no cached shader fits.
func (p *BaseShaderProvider) GetShader(r *metadata.Renderable) (metadata.Shader, error) {
	if suggested := r.Shader; suggested != nil && suggested.CanRender(r) {
		return suggested, nil
	}
	for _, shader := range p.shaders {
		if shader.CanRender(r) {
			return shader, nil
		}
	}
	shader, err := p.create(r)
	if err != nil {
		core.LogError("failed to create shader: %s", err.Error())
		return nil, err
	}
	if !shader.CanRender(r) {
		shader.Dispose()
		err := fmt.Errorf("get shader: %w", core.ErrShaderCannotRender)
		core.LogError("%s", err)
		return nil, err
	}
	if err := shader.Init(); err != nil {
		shader.Dispose()
		core.LogError("failed to initialize shader: %s", err.Error())
		return nil, err
	}
	p.shaders = append(p.shaders, shader)
	core.LogDebug("created shader #%d", len(p.shaders))
	return shader, nil
}

// Len returns the number of cached shaders.
func (p *BaseShaderProvider) Len() int {
	return len(p.shaders)
}

// Dispose disposes and forgets every cached shader.
func (p *BaseShaderProvider) Dispose() {
	for _, shader := range p.shaders {
		shader.Dispose()
	}
	p.shaders = p.shaders[:0]
}

// NewDefaultShaderProvider creates DefaultShaders configured by config.
func NewDefaultShaderProvider(backend gpu.Backend, config *DefaultShaderConfig) *BaseShaderProvider {
	if config == nil {
		config = NewDefaultShaderConfig()
	}
	return NewBaseShaderProvider(func(r *metadata.Renderable) (metadata.Shader, error) {
		return NewDefaultShader(backend, r, config), nil
	})
}
