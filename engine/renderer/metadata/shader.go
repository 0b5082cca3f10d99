package metadata

import (
	"github.com/spaghettifunk/anima-g3d/engine/renderer"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
)

/**
 * @brief A shader renders renderables it was prepared for. Between
 * Begin and End the shader owns the render context; Render may be
 * called any number of times in between.
 */
type Shader interface {
	/** @brief Compiles and links the shader. Called once before first use. */
	Init() error
	/** @brief Reports whether the shader is able to render r. */
	CanRender(r *Renderable) bool
	Begin(camera *components.Camera, context *renderer.RenderContext)
	Render(r *Renderable)
	End()
	Dispose()
}

/**
 * @brief Configuration for the program behind a shader, typically
 * loaded from the application configuration.
 */
type ShaderConfig struct {
	/** @brief The name of the shader to be created. */
	Name string `toml:"name"`
	/** @brief The vertex stage source. */
	VertexSource string `toml:"vertex_source"`
	/** @brief The fragment stage source. */
	FragmentSource string `toml:"fragment_source"`
	/** @brief Optional file names the sources are loaded from, relative to the assets directory. */
	VertexFile   string `toml:"vertex_file"`
	FragmentFile string `toml:"fragment_file"`
}
