package gpu

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is a single backend invocation captured by the Recorder.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Recorder is a Backend that performs no GPU work and records every call.
// It drives the headless mode and the renderer tests.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	units int

	nextTexture uint32
	nextProgram Program
	nextMesh    MeshHandle

	// Uploaded mesh contents, kept so tests can inspect merged geometry.
	vertices map[MeshHandle][]float32
	indices  map[MeshHandle][]uint16
}

// NewRecorder creates a recorder that reports units texture units.
func NewRecorder(units int) *Recorder {
	return &Recorder{
		units:    units,
		vertices: make(map[MeshHandle][]float32),
		indices:  make(map[MeshHandle][]uint16),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Args: args})
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// CountWith returns how many times op was called with exactly args.
func (r *Recorder) CountWith(op string, args ...any) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op != op || len(c.Args) != len(args) {
			continue
		}
		match := true
		for i := range args {
			if c.Args[i] != args[i] {
				match = false
				break
			}
		}
		if match {
			n++
		}
	}
	return n
}

// Reset forgets the recorded calls. Created resources stay valid.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = r.calls[:0]
}

// MeshData returns the last upload made to the mesh.
func (r *Recorder) MeshData(h MeshHandle) ([]float32, []uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vertices[h], r.indices[h]
}

func (r *Recorder) Viewport(x, y, width, height int) { r.record("Viewport", x, y, width, height) }
func (r *Recorder) Clear(color mgl32.Vec4)          { r.record("Clear") }

func (r *Recorder) Enable(c Capability)            { r.record("Enable", c) }
func (r *Recorder) Disable(c Capability)           { r.record("Disable", c) }
func (r *Recorder) DepthMask(write bool)           { r.record("DepthMask", write) }
func (r *Recorder) DepthFunc(f CompareFunc)        { r.record("DepthFunc", f) }
func (r *Recorder) DepthRange(near, far float32)   { r.record("DepthRange", near, far) }
func (r *Recorder) BlendFunc(src, dst BlendFactor) { r.record("BlendFunc", src, dst) }
func (r *Recorder) CullFace(f Face)                { r.record("CullFace", f) }

func (r *Recorder) MaxTextureUnits() int      { return r.units }
func (r *Recorder) ActiveTexture(unit int)    { r.record("ActiveTexture", unit) }
func (r *Recorder) BindTexture(t *Texture)    { r.record("BindTexture", t.Handle) }
func (r *Recorder) DestroyTexture(t *Texture) { r.record("DestroyTexture", t.Handle) }

func (r *Recorder) TexParameter(t *Texture, p TextureParameter, value int) {
	r.record("TexParameter", t.Handle, p, value)
}

func (r *Recorder) CreateTexture(name string, width, height int, rgba []uint8) (*Texture, error) {
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("texture %s: expected %d bytes of pixel data, got %d", name, width*height*4, len(rgba))
	}
	r.mu.Lock()
	r.nextTexture++
	handle := r.nextTexture
	r.mu.Unlock()
	r.record("CreateTexture", name)
	return NewTexture(handle, TextureTarget2D, name, width, height), nil
}

func (r *Recorder) CreateProgram(vertexSource, fragmentSource string) (Program, error) {
	r.mu.Lock()
	r.nextProgram++
	p := r.nextProgram
	r.mu.Unlock()
	r.record("CreateProgram", p)
	return p, nil
}

func (r *Recorder) UseProgram(p Program)     { r.record("UseProgram", p) }
func (r *Recorder) DestroyProgram(p Program) { r.record("DestroyProgram", p) }

// UniformLocation hands out a location per name so shaders treat every uniform as present.
func (r *Recorder) UniformLocation(p Program, name string) int32 {
	return int32(len(name))
}

func (r *Recorder) UniformMat4(location int32, m mgl32.Mat4) { r.record("UniformMat4", location) }
func (r *Recorder) UniformMat3(location int32, m mgl32.Mat3) { r.record("UniformMat3", location) }
func (r *Recorder) UniformVec4(location int32, v mgl32.Vec4) { r.record("UniformVec4", location) }
func (r *Recorder) UniformVec3(location int32, v mgl32.Vec3) { r.record("UniformVec3", location) }
func (r *Recorder) UniformFloat(location int32, v float32)   { r.record("UniformFloat", location) }
func (r *Recorder) UniformInt(location int32, v int32)       { r.record("UniformInt", location, v) }

func (r *Recorder) CreateMesh(layout *VertexAttributes, static bool, maxVertices, maxIndices int) MeshHandle {
	r.mu.Lock()
	r.nextMesh++
	h := r.nextMesh
	r.mu.Unlock()
	r.record("CreateMesh", h, static, maxVertices, maxIndices)
	return h
}

func (r *Recorder) UploadMesh(h MeshHandle, vertices []float32, indices []uint16) {
	r.mu.Lock()
	r.vertices[h] = append([]float32(nil), vertices...)
	r.indices[h] = append([]uint16(nil), indices...)
	r.mu.Unlock()
	r.record("UploadMesh", h, len(vertices), len(indices))
}

func (r *Recorder) DrawMesh(h MeshHandle, primitive Primitive, offset, count int, indexed bool) {
	r.record("DrawMesh", h, primitive, offset, count, indexed)
}

func (r *Recorder) DestroyMesh(h MeshHandle) {
	r.mu.Lock()
	delete(r.vertices, h)
	delete(r.indices, h)
	r.mu.Unlock()
	r.record("DestroyMesh", h)
}
