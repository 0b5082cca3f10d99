package metadata

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/attributes"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as texture, colour,
 * blending, culling and more.
 */
type Material struct {
	/** @brief The material id. */
	ID string
	/** @brief The surface properties. */
	Attributes attributes.Set
}

// NewMaterial creates a material. An empty id gets a generated one.
func NewMaterial(id string, attrs ...attributes.Attribute) *Material {
	if id == "" {
		id = uuid.NewString()
	}
	m := &Material{ID: id}
	m.Attributes.Set(attrs...)
	return m
}

func (m *Material) Set(attrs ...attributes.Attribute)          { m.Attributes.Set(attrs...) }
func (m *Material) Remove(mask attributes.Type)                { m.Attributes.Remove(mask) }
func (m *Material) Get(t attributes.Type) attributes.Attribute { return m.Attributes.Get(t) }
func (m *Material) Has(mask attributes.Type) bool              { return m.Attributes.Has(mask) }
func (m *Material) Mask() uint64                               { return m.Attributes.Mask() }

// Copy returns a material with the same id and copies of all attributes.
func (m *Material) Copy() *Material {
	c := &Material{ID: m.ID}
	c.Attributes.CopyFrom(&m.Attributes)
	return c
}

// Same compares the attributes of both materials, ignoring ids.
func (m *Material) Same(other *Material, compareValues bool) bool {
	if other == nil {
		return false
	}
	return m.Attributes.Same(&other.Attributes, compareValues)
}

// Equal reports whether both materials have the same id and attributes.
func (m *Material) Equal(other *Material) bool {
	return other != nil && m.ID == other.ID && m.Same(other, true)
}

func (m *Material) Compare(other *Material) int {
	if other == nil {
		return 1
	}
	return m.Attributes.Compare(&other.Attributes)
}

// Blended reports whether the material renders with blending enabled.
func (m *Material) Blended() bool {
	if b, ok := m.Get(attributes.Blended).(*attributes.BlendingAttribute); ok {
		return b.Blended
	}
	return false
}

/**
 * @brief The lights and global settings a renderable is rendered within.
 */
type Environment struct {
	Attributes attributes.Set
}

func NewEnvironment(attrs ...attributes.Attribute) *Environment {
	e := &Environment{}
	e.Attributes.Set(attrs...)
	return e
}

func (e *Environment) Set(attrs ...attributes.Attribute)           { e.Attributes.Set(attrs...) }
func (e *Environment) Get(t attributes.Type) attributes.Attribute { return e.Attributes.Get(t) }
func (e *Environment) Has(mask attributes.Type) bool              { return e.Attributes.Has(mask) }

/**
 * @brief Material configuration typically loaded from
 * a file or created in code to load a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string `toml:"name"`
	/** @brief The diffuse colour of the material, RGBA. */
	DiffuseColor []float32 `toml:"diffuse_color"`
	/** @brief The specular colour of the material, RGBA. */
	SpecularColor []float32 `toml:"specular_color"`
	/** @brief The emissive colour of the material, RGBA. */
	EmissiveColor []float32 `toml:"emissive_color"`
	/** @brief The shininess of the material. */
	Shininess float32 `toml:"shininess"`
	/** @brief Enables alpha blending with the given opacity. */
	Blended bool    `toml:"blended"`
	Opacity float32 `toml:"opacity"`
	/** @brief One of "back", "front", "front_and_back" or "none". */
	CullFace string `toml:"cull_face"`
	/** @brief One of "less", "lequal", "equal", "greater", "gequal", "notequal", "always", "never" or "none". */
	DepthTest string `toml:"depth_test"`
	/** @brief The diffuse map name. */
	DiffuseMapName string `toml:"diffuse_map"`
	/** @brief The specular map name. */
	SpecularMapName string `toml:"specular_map"`
	/** @brief The normal map name. */
	NormalMapName string `toml:"normal_map"`
}

func parseColor(name string, c []float32) (mgl32.Vec4, error) {
	switch len(c) {
	case 3:
		return mgl32.Vec4{c[0], c[1], c[2], 1}, nil
	case 4:
		return mgl32.Vec4{c[0], c[1], c[2], c[3]}, nil
	}
	return mgl32.Vec4{}, fmt.Errorf("%s: expected 3 or 4 components, got %d", name, len(c))
}

// ParseFace maps a cull face name to a gpu.Face.
func ParseFace(s string) (gpu.Face, error) {
	switch s {
	case "", "back":
		return gpu.FaceBack, nil
	case "front":
		return gpu.FaceFront, nil
	case "front_and_back":
		return gpu.FaceFrontAndBack, nil
	case "none":
		return gpu.FaceNone, nil
	}
	return gpu.FaceNone, fmt.Errorf("unknown cull face %q", s)
}

// ParseCompareFunc maps a depth function name to a gpu.CompareFunc.
func ParseCompareFunc(s string) (gpu.CompareFunc, error) {
	switch s {
	case "", "lequal":
		return gpu.CompareLessEqual, nil
	case "less":
		return gpu.CompareLess, nil
	case "equal":
		return gpu.CompareEqual, nil
	case "greater":
		return gpu.CompareGreater, nil
	case "gequal":
		return gpu.CompareGreaterEqual, nil
	case "notequal":
		return gpu.CompareNotEqual, nil
	case "always":
		return gpu.CompareAlways, nil
	case "never":
		return gpu.CompareNever, nil
	case "none":
		return gpu.CompareNone, nil
	}
	return gpu.CompareNone, fmt.Errorf("unknown depth function %q", s)
}

// Build creates the material described by the config. Texture maps are
// resolved by name through textures.
func (c *MaterialConfig) Build(textures map[string]*gpu.Texture) (*Material, error) {
	m := NewMaterial(c.Name)

	colors := []struct {
		name  string
		value []float32
		ctor  func(mgl32.Vec4) *attributes.ColorAttribute
	}{
		{"diffuse_color", c.DiffuseColor, attributes.NewDiffuseColor},
		{"specular_color", c.SpecularColor, attributes.NewSpecularColor},
		{"emissive_color", c.EmissiveColor, attributes.NewEmissiveColor},
	}
	for _, col := range colors {
		if col.value == nil {
			continue
		}
		v, err := parseColor(col.name, col.value)
		if err != nil {
			err = fmt.Errorf("material %s: %w", c.Name, err)
			core.LogError("%s", err)
			return nil, err
		}
		m.Set(col.ctor(v))
	}

	if c.Shininess > 0 {
		m.Set(attributes.NewShininess(c.Shininess))
	}
	if c.Blended {
		opacity := c.Opacity
		if opacity == 0 {
			opacity = 1
		}
		m.Set(attributes.NewAlphaBlending(opacity))
	}

	face, err := ParseFace(c.CullFace)
	if err != nil {
		err = fmt.Errorf("material %s: %w", c.Name, err)
		core.LogError("%s", err)
		return nil, err
	}
	if c.CullFace != "" {
		m.Set(attributes.NewCullFace(face))
	}

	depth, err := ParseCompareFunc(c.DepthTest)
	if err != nil {
		err = fmt.Errorf("material %s: %w", c.Name, err)
		core.LogError("%s", err)
		return nil, err
	}
	if c.DepthTest != "" {
		m.Set(attributes.NewDepthTest(depth))
	}

	maps := []struct {
		name string
		ctor func(*gpu.Texture) *attributes.TextureAttribute
	}{
		{c.DiffuseMapName, attributes.NewDiffuseTexture},
		{c.SpecularMapName, attributes.NewSpecularTexture},
		{c.NormalMapName, attributes.NewNormalTexture},
	}
	for _, tm := range maps {
		if tm.name == "" {
			continue
		}
		t, ok := textures[tm.name]
		if !ok {
			err := fmt.Errorf("material %s: texture %q not loaded", c.Name, tm.name)
			core.LogError("%s", err)
			return nil, err
		}
		m.Set(tm.ctor(t))
	}
	return m, nil
}
