package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

type glMesh struct {
	vao    uint32
	vbo    uint32
	ebo    uint32
	usage  uint32
	layout *gpu.VertexAttributes
}

// Backend drives an OpenGL 4.1 core context. It must be created and used on
// the thread that owns the context.
type Backend struct {
	meshes   map[gpu.MeshHandle]*glMesh
	nextMesh gpu.MeshHandle
	units    int
}

// NewBackend loads the GL function pointers for the current context.
func NewBackend() (*Backend, error) {
	if err := gl.Init(); err != nil {
		core.LogError("failed to initialize OpenGL: %s", err.Error())
		return nil, err
	}
	var units int32
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &units)
	core.LogInfo("OpenGL %s, %d texture units", gl.GoStr(gl.GetString(gl.VERSION)), units)
	return &Backend{
		meshes: make(map[gpu.MeshHandle]*glMesh),
		units:  int(units),
	}, nil
}

func capability(c gpu.Capability) uint32 {
	switch c {
	case gpu.CapabilityDepthTest:
		return gl.DEPTH_TEST
	case gpu.CapabilityBlend:
		return gl.BLEND
	case gpu.CapabilityCullFace:
		return gl.CULL_FACE
	}
	return 0
}

func compareFunc(f gpu.CompareFunc) uint32 {
	switch f {
	case gpu.CompareNever:
		return gl.NEVER
	case gpu.CompareLess:
		return gl.LESS
	case gpu.CompareEqual:
		return gl.EQUAL
	case gpu.CompareLessEqual:
		return gl.LEQUAL
	case gpu.CompareGreater:
		return gl.GREATER
	case gpu.CompareNotEqual:
		return gl.NOTEQUAL
	case gpu.CompareGreaterEqual:
		return gl.GEQUAL
	}
	return gl.ALWAYS
}

func blendFactor(f gpu.BlendFactor) uint32 {
	switch f {
	case gpu.BlendZero:
		return gl.ZERO
	case gpu.BlendOne:
		return gl.ONE
	case gpu.BlendSrcColor:
		return gl.SRC_COLOR
	case gpu.BlendOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case gpu.BlendDstColor:
		return gl.DST_COLOR
	case gpu.BlendOneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case gpu.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case gpu.BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gpu.BlendDstAlpha:
		return gl.DST_ALPHA
	case gpu.BlendOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case gpu.BlendSrcAlphaSaturate:
		return gl.SRC_ALPHA_SATURATE
	}
	return gl.ONE
}

func face(f gpu.Face) uint32 {
	switch f {
	case gpu.FaceFront:
		return gl.FRONT
	case gpu.FaceFrontAndBack:
		return gl.FRONT_AND_BACK
	}
	return gl.BACK
}

func primitive(p gpu.Primitive) uint32 {
	switch p {
	case gpu.PrimitivePoints:
		return gl.POINTS
	case gpu.PrimitiveLines:
		return gl.LINES
	case gpu.PrimitiveLineLoop:
		return gl.LINE_LOOP
	case gpu.PrimitiveLineStrip:
		return gl.LINE_STRIP
	case gpu.PrimitiveTriangleStrip:
		return gl.TRIANGLE_STRIP
	case gpu.PrimitiveTriangleFan:
		return gl.TRIANGLE_FAN
	}
	return gl.TRIANGLES
}

func textureTarget(t gpu.TextureTarget) uint32 {
	if t == gpu.TextureTargetCube {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func filter(f gpu.TextureFilter) int32 {
	switch f {
	case gpu.FilterLinear:
		return gl.LINEAR
	case gpu.FilterMipMapNearestNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	case gpu.FilterMipMapLinearNearest:
		return gl.LINEAR_MIPMAP_NEAREST
	case gpu.FilterMipMapNearestLinear:
		return gl.NEAREST_MIPMAP_LINEAR
	case gpu.FilterMipMapLinearLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.NEAREST
}

func wrap(w gpu.TextureWrap) int32 {
	switch w {
	case gpu.WrapRepeat:
		return gl.REPEAT
	case gpu.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func (b *Backend) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (b *Backend) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *Backend) Enable(c gpu.Capability)  { gl.Enable(capability(c)) }
func (b *Backend) Disable(c gpu.Capability) { gl.Disable(capability(c)) }
func (b *Backend) DepthMask(write bool)     { gl.DepthMask(write) }
func (b *Backend) DepthFunc(f gpu.CompareFunc) {
	gl.DepthFunc(compareFunc(f))
}
func (b *Backend) DepthRange(near, far float32) { gl.DepthRangef(near, far) }
func (b *Backend) BlendFunc(src, dst gpu.BlendFactor) {
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}
func (b *Backend) CullFace(f gpu.Face) { gl.CullFace(face(f)) }

func (b *Backend) MaxTextureUnits() int { return b.units }

func (b *Backend) ActiveTexture(unit int) { gl.ActiveTexture(gl.TEXTURE0 + uint32(unit)) }

func (b *Backend) BindTexture(t *gpu.Texture) { gl.BindTexture(textureTarget(t.Target), t.Handle) }

func (b *Backend) TexParameter(t *gpu.Texture, p gpu.TextureParameter, value int) {
	target := textureTarget(t.Target)
	switch p {
	case gpu.TextureParamMinFilter:
		gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, filter(gpu.TextureFilter(value)))
	case gpu.TextureParamMagFilter:
		gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, filter(gpu.TextureFilter(value)))
	case gpu.TextureParamWrapU:
		gl.TexParameteri(target, gl.TEXTURE_WRAP_S, wrap(gpu.TextureWrap(value)))
	case gpu.TextureParamWrapV:
		gl.TexParameteri(target, gl.TEXTURE_WRAP_T, wrap(gpu.TextureWrap(value)))
	}
}

func (b *Backend) CreateTexture(name string, width, height int, rgba []uint8) (*gpu.Texture, error) {
	if len(rgba) != width*height*4 {
		err := fmt.Errorf("texture %s: expected %d bytes of pixel data, got %d", name, width*height*4, len(rgba))
		core.LogError("%s", err)
		return nil, err
	}
	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	return gpu.NewTexture(handle, gpu.TextureTarget2D, name, width, height), nil
}

func (b *Backend) DestroyTexture(t *gpu.Texture) {
	gl.DeleteTextures(1, &t.Handle)
	t.Handle = 0
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile error: %s", log)
	}
	return shader, nil
}

func (b *Backend) CreateProgram(vertexSource, fragmentSource string) (gpu.Program, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		core.LogError("%s", err)
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		core.LogError("%s", err)
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		err := fmt.Errorf("link error: %s", log)
		core.LogError("%s", err)
		return 0, err
	}
	return gpu.Program(program), nil
}

func (b *Backend) UseProgram(p gpu.Program)     { gl.UseProgram(uint32(p)) }
func (b *Backend) DestroyProgram(p gpu.Program) { gl.DeleteProgram(uint32(p)) }

func (b *Backend) UniformLocation(p gpu.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (b *Backend) UniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (b *Backend) UniformMat3(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (b *Backend) UniformVec4(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (b *Backend) UniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (b *Backend) UniformFloat(location int32, v float32) { gl.Uniform1f(location, v) }
func (b *Backend) UniformInt(location int32, v int32)     { gl.Uniform1i(location, v) }

func (b *Backend) CreateMesh(layout *gpu.VertexAttributes, static bool, maxVertices, maxIndices int) gpu.MeshHandle {
	m := &glMesh{layout: layout, usage: gl.DYNAMIC_DRAW}
	if static {
		m.usage = gl.STATIC_DRAW
	}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, maxVertices*layout.Stride(), nil, m.usage)

	stride := int32(layout.Stride())
	for i := 0; i < layout.Len(); i++ {
		a := layout.Get(i)
		xtype := uint32(gl.FLOAT)
		if a.Type == gpu.ComponentUnsignedByte {
			xtype = gl.UNSIGNED_BYTE
		}
		gl.EnableVertexAttribArray(a.Location())
		gl.VertexAttribPointerWithOffset(a.Location(), int32(a.NumComponents), xtype, a.Normalized, stride, uintptr(a.Offset))
	}

	if maxIndices > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, maxIndices*2, nil, m.usage)
	}
	gl.BindVertexArray(0)

	b.nextMesh++
	b.meshes[b.nextMesh] = m
	return b.nextMesh
}

func (b *Backend) UploadMesh(h gpu.MeshHandle, vertices []float32, indices []uint16) {
	m, ok := b.meshes[h]
	if !ok {
		core.LogWarn("upload to unknown mesh %d", h)
		return
	}
	gl.BindVertexArray(m.vao)
	if len(vertices) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	}
	if len(indices) > 0 && m.ebo != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*2, gl.Ptr(indices))
	}
	gl.BindVertexArray(0)
}

func (b *Backend) DrawMesh(h gpu.MeshHandle, p gpu.Primitive, offset, count int, indexed bool) {
	m, ok := b.meshes[h]
	if !ok {
		return
	}
	gl.BindVertexArray(m.vao)
	if indexed {
		gl.DrawElementsWithOffset(primitive(p), int32(count), gl.UNSIGNED_SHORT, uintptr(offset*2))
	} else {
		gl.DrawArrays(primitive(p), int32(offset), int32(count))
	}
	gl.BindVertexArray(0)
}

func (b *Backend) DestroyMesh(h gpu.MeshHandle) {
	m, ok := b.meshes[h]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &m.vbo)
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	gl.DeleteVertexArrays(1, &m.vao)
	delete(b.meshes, h)
}
