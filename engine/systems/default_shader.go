package systems

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/math"
	"github.com/spaghettifunk/anima-g3d/engine/renderer"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/attributes"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

const defaultVertexSource = `
layout(location = 0) in vec3 a_position;
#ifdef normalFlag
layout(location = 1) in vec3 a_normal;
#endif
#ifdef texCoordFlag
layout(location = 3) in vec2 a_texCoord0;
#endif

uniform mat4 u_projViewTrans;
uniform mat4 u_worldTrans;
uniform mat3 u_normalMatrix;

out vec3 v_normal;
out vec2 v_texCoord0;

void main() {
#ifdef normalFlag
	v_normal = normalize(u_normalMatrix * a_normal);
#else
	v_normal = vec3(0.0, 1.0, 0.0);
#endif
#ifdef texCoordFlag
	v_texCoord0 = a_texCoord0;
#else
	v_texCoord0 = vec2(0.0);
#endif
	gl_Position = u_projViewTrans * u_worldTrans * vec4(a_position, 1.0);
}
`

const defaultFragmentSource = `
in vec3 v_normal;
in vec2 v_texCoord0;

uniform vec4 u_diffuseColor;
uniform vec4 u_emissiveColor;
uniform vec3 u_ambientLight;
uniform float u_opacity;
uniform float u_alphaTest;
uniform sampler2D u_diffuseTexture;

out vec4 out_colour;

void main() {
	vec4 diffuse = u_diffuseColor;
#ifdef diffuseTextureFlag
	diffuse *= texture(u_diffuseTexture, v_texCoord0);
#endif
	float light = 0.35 + 0.65 * max(dot(normalize(v_normal), normalize(vec3(0.4, 1.0, 0.6))), 0.0);
	vec3 colour = diffuse.rgb * (u_ambientLight + vec3(light)) + u_emissiveColor.rgb;
	float alpha = diffuse.a * u_opacity;
	if (alpha <= u_alphaTest) {
		discard;
	}
	out_colour = vec4(colour, alpha);
}
`

/**
 * @brief Configuration of the DefaultShader: program sources and
 * the render state used when a material does not specify it.
 */
type DefaultShaderConfig struct {
	VertexSource     string
	FragmentSource   string
	DefaultCullFace  gpu.Face
	DefaultDepthFunc gpu.CompareFunc
}

// NewDefaultShaderConfig uses the built-in program, back face culling and a less-or-equal depth test.
func NewDefaultShaderConfig() *DefaultShaderConfig {
	return &DefaultShaderConfig{
		VertexSource:     defaultVertexSource,
		FragmentSource:   defaultFragmentSource,
		DefaultCullFace:  gpu.FaceBack,
		DefaultDepthFunc: gpu.CompareLessEqual,
	}
}

// DefaultShaderConfigFrom applies the sources of a shader config, keeping the built-in ones when empty.
func DefaultShaderConfigFrom(config metadata.ShaderConfig) *DefaultShaderConfig {
	c := NewDefaultShaderConfig()
	if config.VertexSource != "" {
		c.VertexSource = config.VertexSource
	}
	if config.FragmentSource != "" {
		c.FragmentSource = config.FragmentSource
	}
	return c
}

type defaultUniforms struct {
	projViewTrans  int32
	worldTrans     int32
	normalMatrix   int32
	diffuseColor   int32
	emissiveColor  int32
	ambientLight   int32
	opacity        int32
	alphaTest      int32
	diffuseTexture int32
}

/**
 * @brief Renders any material with the built-in program. A shader
 * instance is specialised for the material mask, vertex layout and
 * environment presence of the renderable it was created for.
 */
type DefaultShader struct {
	config  *DefaultShaderConfig
	backend gpu.Backend
	program gpu.Program

	materialMask   uint64
	layout         *gpu.VertexAttributes
	hasEnvironment bool
	skinned        bool

	uniforms defaultUniforms
	camera   *components.Camera
	context  *renderer.RenderContext
}

func NewDefaultShader(backend gpu.Backend, r *metadata.Renderable, config *DefaultShaderConfig) *DefaultShader {
	s := &DefaultShader{
		config:         config,
		backend:        backend,
		hasEnvironment: r.Environment != nil,
		skinned:        len(r.Bones) > 0,
	}
	if r.Material != nil {
		s.materialMask = r.Material.Mask()
	}
	if r.MeshPart.Mesh != nil {
		s.layout = r.MeshPart.Mesh.Layout
	}
	return s
}

func (s *DefaultShader) prefix() string {
	var sb strings.Builder
	sb.WriteString("#version 410 core\n")
	if s.layout != nil {
		if _, ok := s.layout.FindByUsage(gpu.UsageNormal); ok {
			sb.WriteString("#define normalFlag\n")
		}
		if _, ok := s.layout.FindByUsage(gpu.UsageTextureCoordinates); ok {
			sb.WriteString("#define texCoordFlag\n")
		}
	}
	if s.materialMask&uint64(attributes.DiffuseTexture) != 0 {
		sb.WriteString("#define diffuseTextureFlag\n")
	}
	if s.materialMask&uint64(attributes.Blended) != 0 {
		sb.WriteString("#define blendedFlag\n")
	}
	return sb.String()
}

func (s *DefaultShader) Init() error {
	prefix := s.prefix()
	program, err := s.backend.CreateProgram(prefix+s.config.VertexSource, prefix+s.config.FragmentSource)
	if err != nil {
		err = fmt.Errorf("default shader: %w", err)
		core.LogError("%s", err)
		return err
	}
	s.program = program
	s.uniforms = defaultUniforms{
		projViewTrans:  s.backend.UniformLocation(program, "u_projViewTrans"),
		worldTrans:     s.backend.UniformLocation(program, "u_worldTrans"),
		normalMatrix:   s.backend.UniformLocation(program, "u_normalMatrix"),
		diffuseColor:   s.backend.UniformLocation(program, "u_diffuseColor"),
		emissiveColor:  s.backend.UniformLocation(program, "u_emissiveColor"),
		ambientLight:   s.backend.UniformLocation(program, "u_ambientLight"),
		opacity:        s.backend.UniformLocation(program, "u_opacity"),
		alphaTest:      s.backend.UniformLocation(program, "u_alphaTest"),
		diffuseTexture: s.backend.UniformLocation(program, "u_diffuseTexture"),
	}
	return nil
}

func (s *DefaultShader) CanRender(r *metadata.Renderable) bool {
	var mask uint64
	if r.Material != nil {
		mask = r.Material.Mask()
	}
	var layout *gpu.VertexAttributes
	if r.MeshPart.Mesh != nil {
		layout = r.MeshPart.Mesh.Layout
	}
	return mask == s.materialMask &&
		s.layout.Equal(layout) &&
		(r.Environment != nil) == s.hasEnvironment &&
		(len(r.Bones) > 0) == s.skinned
}

func (s *DefaultShader) Begin(camera *components.Camera, context *renderer.RenderContext) {
	s.camera = camera
	s.context = context
	s.backend.UseProgram(s.program)
	if camera != nil {
		s.setMat4(s.uniforms.projViewTrans, camera.Combined())
	}
}

func (s *DefaultShader) setMat4(location int32, m mgl32.Mat4) {
	if location >= 0 {
		s.backend.UniformMat4(location, m)
	}
}

func (s *DefaultShader) setVec4(location int32, v mgl32.Vec4) {
	if location >= 0 {
		s.backend.UniformVec4(location, v)
	}
}

func (s *DefaultShader) setFloat(location int32, v float32) {
	if location >= 0 {
		s.backend.UniformFloat(location, v)
	}
}

func (s *DefaultShader) Render(r *metadata.Renderable) {
	s.setMat4(s.uniforms.worldTrans, r.WorldTransform)
	if s.uniforms.normalMatrix >= 0 {
		s.backend.UniformMat3(s.uniforms.normalMatrix, math.NormalMatrix(r.WorldTransform))
	}
	s.bindMaterial(r.Material)
	s.bindEnvironment(r.Environment)
	r.MeshPart.Render(s.backend)
}

func (s *DefaultShader) bindMaterial(material *metadata.Material) {
	cullFace := s.config.DefaultCullFace
	depthFunc := s.config.DefaultDepthFunc
	depthNear, depthFar := float32(0), float32(1)
	depthMask := true
	blended := false
	opacity := float32(1)
	alphaTest := float32(0)
	diffuse := mgl32.Vec4{1, 1, 1, 1}
	emissive := mgl32.Vec4{}

	if material != nil {
		for _, a := range material.Attributes.Attributes() {
			switch attr := a.(type) {
			case *attributes.BlendingAttribute:
				blended = attr.Blended
				opacity = attr.Opacity
				if blended {
					s.context.SetBlending(true, attr.Src, attr.Dst)
				}
			case *attributes.IntAttribute:
				if attr.Type() == attributes.CullFace {
					cullFace = gpu.Face(attr.Value)
				}
			case *attributes.DepthTestAttribute:
				depthFunc = attr.Func
				depthNear, depthFar = attr.Near, attr.Far
				depthMask = attr.Write
			case *attributes.FloatAttribute:
				if attr.Type() == attributes.AlphaTest {
					alphaTest = attr.Value
				}
			case *attributes.ColorAttribute:
				switch attr.Type() {
				case attributes.DiffuseColor:
					diffuse = attr.Color
				case attributes.EmissiveColor:
					emissive = attr.Color
				}
			case *attributes.TextureAttribute:
				if attr.Type() == attributes.DiffuseTexture && s.uniforms.diffuseTexture >= 0 {
					unit := s.context.TextureBinder().Bind(attr.Descriptor)
					s.backend.UniformInt(s.uniforms.diffuseTexture, int32(unit))
				}
			}
		}
	}
	if !blended {
		s.context.SetBlending(false, gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha)
	}
	s.context.SetCullFace(cullFace)
	s.context.SetDepthTest(depthFunc, depthNear, depthFar)
	s.context.SetDepthMask(depthMask)

	s.setVec4(s.uniforms.diffuseColor, diffuse)
	s.setVec4(s.uniforms.emissiveColor, emissive)
	s.setFloat(s.uniforms.opacity, opacity)
	s.setFloat(s.uniforms.alphaTest, alphaTest)
}

func (s *DefaultShader) bindEnvironment(env *metadata.Environment) {
	if s.uniforms.ambientLight < 0 {
		return
	}
	ambient := mgl32.Vec3{}
	if env != nil {
		if c, ok := env.Get(attributes.AmbientLightColor).(*attributes.ColorAttribute); ok {
			ambient = c.Color.Vec3()
		}
	}
	s.backend.UniformVec3(s.uniforms.ambientLight, ambient)
}

func (s *DefaultShader) End() {
	s.camera = nil
	s.context = nil
}

func (s *DefaultShader) Dispose() {
	if s.program != 0 {
		s.backend.DestroyProgram(s.program)
		s.program = 0
	}
}
